package loader

import (
	"github.com/0xalexb/hjarta-overlay/fragment"
	"github.com/0xalexb/hjarta-overlay/node"
)

// Renderer renders one fragment template to text. The name identifies the
// template in error messages; the bindings expose the accumulator-so-far,
// the call-scoped context mappings, and the ambient compile parameters.
type Renderer interface {
	Render(name string, text []byte, bindings fragment.Bindings) ([]byte, error)
}

// Parser turns rendered fragment text into a node tree.
type Parser interface {
	Parse(data []byte) (*node.Node, error)
}
