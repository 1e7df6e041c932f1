package overlay

import (
	"context"
	"errors"
	"fmt"

	"github.com/0xalexb/hjarta-overlay/fragment"
	"github.com/0xalexb/hjarta-overlay/merge"
	"github.com/0xalexb/hjarta-overlay/node"
	"github.com/0xalexb/hjarta-overlay/selector"
)

// Loader resolves fragment locators to their contents. The API is split in
// two so the driver can re-bind the accumulator before every render: each
// fragment's template must see the merge result of all prior fragments,
// which forces a strict sequential fold.
type Loader interface {
	// Index returns the concrete fragment locators listed by an index
	// file, in order. A missing index reports fragment.ErrMissing.
	Index(ctx context.Context, locator fragment.Locator, bindings fragment.Bindings) ([]fragment.Locator, error)
	// Fragment renders and parses one concrete fragment. A missing file
	// reports fragment.ErrMissing, a non-mapping document fragment.ErrMalformed.
	Fragment(ctx context.Context, locator fragment.Locator, bindings fragment.Bindings) (*node.Node, error)
}

// Request describes one resolution call: whose configuration to compile,
// where to start, and the context mappings criteria match against.
type Request struct {
	// Target identifies whose configuration is being resolved. It only
	// feeds template bindings and error annotations.
	Target string
	// Environment overrides the resolver's default compile environment
	// when non-empty.
	Environment string
	// Base is the ordered list of index locators every call starts from.
	Base []fragment.Locator
	// Criteria append further index locators from context matches, in the
	// order given.
	Criteria []selector.Criterion
	// Pillar, Grains, and Opts are the call's context mappings, read-only.
	Pillar map[string]any
	Grains map[string]any
	Opts   map[string]any
}

// Resolver folds ordered fragments into one effective configuration tree.
// A Resolver is safe for concurrent use: every Resolve call owns its
// accumulator and shares no mutable state with other calls.
type Resolver struct {
	loader Loader
	config Config
}

// NewResolver creates a Resolver around the given loader. Config defaults
// are applied; Root is not required here since the loader is supplied.
func NewResolver(ldr Loader, cfg Config) (*Resolver, error) {
	if ldr == nil {
		return nil, ErrNilLoader
	}

	cfg.SetDefaults()

	return &Resolver{loader: ldr, config: cfg}, nil
}

// Resolve computes the target's effective configuration tree.
//
// The ordered locator list is computed once, up front; the accumulator
// starts as an empty mapping and each fragment is merged into it in locator
// order. Missing indexes and fragments are logged and skipped. Everything
// else — an unknown matcher scope, an unknown merge strategy, a render or
// parse failure, a malformed fragment — aborts the whole call: no partial
// result is ever returned.
func (r *Resolver) Resolve(ctx context.Context, req Request) (*node.Node, error) {
	env := req.Environment
	if env == "" {
		env = r.config.Environment
	}

	scopes := selector.Context{Pillar: req.Pillar, Grains: req.Grains, Opts: req.Opts}

	locators, err := selector.Select(req.Base, req.Criteria, scopes)
	if err != nil {
		return nil, fmt.Errorf("selecting fragments for target %q: %w", req.Target, err)
	}

	accumulator := node.EmptyMapping()

	for _, locator := range locators {
		resolved := locator.Resolve(env)

		concrete, err := r.loader.Index(ctx, resolved, bindings(accumulator, req, env))
		if errors.Is(err, fragment.ErrMissing) {
			r.config.Logger.Info("ignoring missing overlay index", "target", req.Target, "locator", resolved.String())

			continue
		}

		if err != nil {
			return nil, fmt.Errorf("target %q: %w", req.Target, err)
		}

		accumulator, err = r.fold(ctx, accumulator, concrete, req, env)
		if err != nil {
			return nil, err
		}
	}

	return accumulator, nil
}

// fold merges one index's concrete fragments into the accumulator, in order.
func (r *Resolver) fold(ctx context.Context, accumulator *node.Node, concrete []fragment.Locator, req Request, env string) (*node.Node, error) {
	for _, locator := range concrete {
		tree, err := r.loader.Fragment(ctx, locator, bindings(accumulator, req, env))
		if errors.Is(err, fragment.ErrMissing) {
			r.config.Logger.Info("ignoring missing overlay fragment", "target", req.Target, "locator", locator.String())

			continue
		}

		if err != nil {
			return nil, fmt.Errorf("target %q: %w", req.Target, err)
		}

		merged, err := merge.Merge(accumulator, tree)
		if err != nil {
			return nil, fmt.Errorf("target %q: merging fragment %q: %w", req.Target, locator, err)
		}

		accumulator = merged
	}

	return accumulator, nil
}

func bindings(accumulator *node.Node, req Request, env string) fragment.Bindings {
	return fragment.Bindings{
		Stack:       accumulator.Interface(),
		Pillar:      req.Pillar,
		Grains:      req.Grains,
		Opts:        req.Opts,
		Target:      req.Target,
		Environment: env,
	}
}
