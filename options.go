package overlay

import (
	"log/slog"
	"os"

	"github.com/0xalexb/hjarta-overlay/logging"
)

// Option defines a function type for applying configuration options.
type Option func(*Config)

// WithRoot sets the overlay root directory the fx module builds its
// file-backed loader from.
func WithRoot(dir string) Option {
	return func(cfg *Config) {
		cfg.Root = dir
	}
}

// WithEnvironment sets the default compile environment. Requests may still
// override it per call.
func WithEnvironment(env string) Option {
	return func(cfg *Config) {
		cfg.Environment = env
	}
}

// WithLogger routes the resolver's log records to the given logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *Config) {
		cfg.Logger = logger
	}
}

// WithLogLevel builds a JSON logger at the given level, writing to stderr.
func WithLogLevel(level string) Option {
	return func(cfg *Config) {
		cfg.Logger = logging.NewLogger(logging.LoggerConfig{Level: level, Format: logging.FormatJSON}, os.Stderr)
	}
}
