// Package yaml provides a YAML parser implementation for the loader package.
//
// This package uses github.com/goccy/go-yaml to decode rendered fragment
// text into a generic value, then converts it to a node tree. An empty or
// whitespace-only document parses to an empty mapping, so a template whose
// conditionals all evaluate false contributes nothing to the merge.
package yaml
