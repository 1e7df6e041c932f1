// Package file provides the file-backed fragment loader.
//
// Locators are slash-separated paths relative to the loader's root
// directory. An index locator names a template whose rendered output is a
// newline-delimited list of concrete fragment locators, each relative to the
// index file's directory. A concrete fragment locator names a template whose
// rendered output is a YAML document with a mapping at the top level.
//
// A locator for a file that does not exist reports fragment.ErrMissing; the
// driver treats that as an optional layer and skips it. A fragment whose top
// level is not a mapping reports fragment.ErrMalformed, which is fatal.
//
// Usage:
//
//	ldr := file.NewLoader("/srv/overlay")
//	concrete, err := ldr.Index(ctx, "stack/{env}/top.cfg", bindings)
package file
