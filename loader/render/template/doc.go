// Package template provides a Renderer implementation on Go's text/template
// engine, extended with the sprig function map.
//
// Bindings are exposed to templates as:
//
//	.Stack   - the accumulator built from all prior fragments
//	.Pillar  - the pillar context mapping
//	.Grains  - the grains context mapping
//	.Opts    - the opts context mapping
//	.Target  - the identity whose configuration is being resolved
//	.Env     - the active compile environment
//
// Missing keys are render errors, not empty strings: a template referencing
// context that is not there should fail loudly rather than silently emit an
// incomplete document.
package template
