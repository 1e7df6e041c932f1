// Package logging provides structured logging using Go's standard library
// log/slog. Records are emitted as JSON by default, or logfmt-style text for
// human-facing runs. The resolver defaults to the process logger; hosts
// either call slog.SetDefault with a logger built here or hand one to the
// resolver directly.
package logging
