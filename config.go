// Package overlay resolves one target's effective configuration tree by
// layering an ordered sequence of template-rendered fragments, each with an
// optional merge strategy, onto an accumulator.
package overlay

import (
	"errors"
	"log/slog"
)

// DefaultEnvironment is the compile environment substituted for the {env}
// locator placeholder when none is configured.
const DefaultEnvironment = "base"

// ErrEmptyRoot is returned when a module is built without an overlay root directory.
var ErrEmptyRoot = errors.New("overlay root must not be empty")

// ErrEmptyName is returned when the module name is empty.
var ErrEmptyName = errors.New("module name must not be empty")

// ErrNilLoader is returned when a nil Loader is provided.
var ErrNilLoader = errors.New("loader must not be nil")

// Config holds the configuration for a resolver.
type Config struct {
	// Root is the directory fragment locators resolve against. Only the
	// fx module consumes it; direct NewResolver callers bring their own
	// Loader.
	Root string
	// Environment is the default compile environment for requests that do
	// not set one.
	Environment string
	// Logger receives the skipped-fragment records. Defaults to the
	// process logger.
	Logger *slog.Logger
}

// SetDefaults sets default values for the Config.
func (c *Config) SetDefaults() {
	if c.Environment == "" {
		c.Environment = DefaultEnvironment
	}

	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Validate validates the Config for use by the fx module.
func (c *Config) Validate() error {
	if c.Root == "" {
		return ErrEmptyRoot
	}

	return nil
}
