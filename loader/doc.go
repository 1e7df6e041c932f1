// Package loader defines the collaborator interfaces the file-backed
// fragment loader is assembled from.
//
// The package uses an interface-based design with two extension points:
//   - Renderer: renders a fragment template against the call's bindings
//   - Parser: turns rendered text into a node tree
//
// Default implementations live in loader/render/template (text/template with
// the sprig function map) and loader/parser/yaml (goccy/go-yaml). The
// file-backed loader in loader/file composes the two.
package loader
