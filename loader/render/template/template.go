package template

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/0xalexb/hjarta-overlay/fragment"
)

// Renderer implements loader.Renderer using text/template with sprig.
type Renderer struct {
	funcs template.FuncMap
}

// NewRenderer creates a renderer with the sprig text-template function map.
func NewRenderer() *Renderer {
	return &Renderer{funcs: sprig.TxtFuncMap()}
}

// templateContext is the dot value fragment templates execute against.
type templateContext struct {
	Stack  any
	Pillar map[string]any
	Grains map[string]any
	Opts   map[string]any
	Target string
	Env    string
}

// Render parses and executes one fragment template against the bindings.
// The name identifies the template in parse and execution errors.
func (r *Renderer) Render(name string, text []byte, bindings fragment.Bindings) ([]byte, error) {
	tmpl, err := template.New(name).Funcs(r.funcs).Option("missingkey=error").Parse(string(text))
	if err != nil {
		return nil, fmt.Errorf("parsing template %q: %w", name, err)
	}

	var buf bytes.Buffer

	err = tmpl.Execute(&buf, templateContext{
		Stack:  bindings.Stack,
		Pillar: bindings.Pillar,
		Grains: bindings.Grains,
		Opts:   bindings.Opts,
		Target: bindings.Target,
		Env:    bindings.Environment,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering template %q: %w", name, err)
	}

	return buf.Bytes(), nil
}
