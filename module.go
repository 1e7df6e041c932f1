package overlay

import (
	"fmt"

	"go.uber.org/fx"

	"github.com/0xalexb/hjarta-overlay/loader/file"
)

// NewModule creates an Fx module for a named resolver.
// The name is used as both the Fx module name and the DI named tag for the
// Loader and *Resolver. With WithRoot the module supplies a file-backed
// Loader itself; otherwise a Loader must be provided externally under the
// same name. Call multiple times with different names to resolve against
// multiple overlay trees.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func NewModule(name string, opts ...Option) fx.Option {
	if name == "" {
		return fx.Error(ErrEmptyName)
	}

	var cfg Config

	for _, apply := range opts {
		apply(&cfg)
	}

	cfg.SetDefaults()

	nameTag := fmt.Sprintf(`name:"%s"`, name)

	var moduleOpts []fx.Option

	if cfg.Root != "" {
		moduleOpts = append(moduleOpts, fx.Provide(
			fx.Annotate(
				func() *file.Loader {
					return file.NewLoader(cfg.Root)
				},
				fx.As(new(Loader)),
				fx.ResultTags(nameTag),
			),
		))
	}

	moduleOpts = append(moduleOpts, fx.Provide(
		fx.Annotate(
			func(ldr Loader) (*Resolver, error) {
				return NewResolver(ldr, cfg)
			},
			fx.ParamTags(nameTag),
			fx.ResultTags(nameTag),
		),
	))

	return fx.Module(name, moduleOpts...)
}
