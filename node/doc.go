// Package node defines the tagged-variant tree that overlay fragments and
// merge results are made of.
//
// A Node is one of three kinds:
//   - Scalar: a single YAML value (string, number, bool, nil, ...)
//   - Mapping: unique string keys to child nodes
//   - Sequence: an ordered list of child nodes
//
// Nodes are built either directly via the Scalar, Mapping, and Sequence
// constructors, or from a generically decoded YAML document via FromValue.
// The Interface method converts a tree back to plain maps, slices, and
// scalars, which is the form template bindings consume.
//
// Nodes are treated as immutable by the rest of the module: the merge engine
// never modifies its inputs and returns freshly built trees. Nothing enforces
// that — callers constructing nodes by hand are expected to follow the same
// convention.
package node
