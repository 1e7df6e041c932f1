package fragment

import (
	"errors"
	"strings"
)

// EnvPlaceholder is the substring of a locator replaced with the active
// compile environment before lookup.
const EnvPlaceholder = "{env}"

// ErrMissing is reported when a locator names a file that does not exist.
// The driver logs and skips missing fragments; they are never fatal.
var ErrMissing = errors.New("fragment not found")

// ErrMalformed is reported when a fragment document's top level is not a
// mapping. Unlike a missing fragment this is fatal for the whole resolution
// call: a present-but-unusable document is an authoring error, not an
// optional layer.
var ErrMalformed = errors.New("fragment top level is not a mapping")

// Locator identifies one template file handled by a Loader.
type Locator string

// Resolve substitutes the environment placeholder, if present. An empty
// environment substitutes the empty string.
func (l Locator) Resolve(env string) Locator {
	return Locator(strings.ReplaceAll(string(l), EnvPlaceholder, env))
}

// String returns the locator text.
func (l Locator) String() string {
	return string(l)
}

// Bindings is the evaluation context every fragment template renders
// against: the accumulator built from all prior fragments, the call-scoped
// context mappings, and the ambient compile parameters.
type Bindings struct {
	// Stack is the accumulator-so-far in plain map/slice/scalar form.
	Stack any
	// Pillar, Grains, and Opts are the call-scoped context mappings,
	// read-only by convention.
	Pillar map[string]any
	Grains map[string]any
	Opts   map[string]any
	// Target identifies whose configuration is being resolved.
	Target string
	// Environment is the active compile environment.
	Environment string
}
