package merge

import (
	"fmt"

	"github.com/0xalexb/hjarta-overlay/node"
)

// Merge combines one incoming fragment node into the existing value at the
// same tree position and returns the merged result as a new tree. Neither
// argument is modified; subtrees that carry through unchanged are shared
// with the inputs.
//
// A nil current means nothing exists at this position yet: the result is the
// incoming node with all markers stripped, whatever strategy it declared.
// Any unrecognized marker value in the incoming tree returns
// ErrUnknownStrategy and no result.
func Merge(current, incoming *node.Node) (*node.Node, error) {
	strategy, bare, err := Resolve(incoming)
	if err != nil {
		return nil, err
	}

	if strategy == Overwrite || current == nil {
		return stripChildren(bare)
	}

	if current.Kind() != bare.Kind() {
		// Kind mismatch always replaces; merging a mapping into a
		// sequence (or any other cross-kind pair) has no meaning.
		return stripChildren(bare)
	}

	switch bare.Kind() {
	case node.KindMapping:
		return mergeMapping(current, bare, strategy)
	case node.KindSequence:
		return mergeSequence(current, bare, strategy)
	case node.KindScalar:
		if strategy == MergeFirst {
			return current, nil
		}

		return bare, nil
	default:
		return bare, nil
	}
}

// mergeMapping merges key-by-key. Keys only in current carry through
// unchanged, keys only in incoming are stripped and taken as-is, shared keys
// recurse. A scalar-vs-scalar conflict cannot declare its own marker, so it
// is decided by the enclosing mapping's strategy: merge-first keeps the
// existing value.
func mergeMapping(current, incoming *node.Node, strategy Strategy) (*node.Node, error) {
	entries := make(map[string]*node.Node, current.Len()+incoming.Len())

	for _, key := range current.Keys() {
		child, _ := current.Get(key)
		entries[key] = child
	}

	for _, key := range incoming.Keys() {
		incomingChild, _ := incoming.Get(key)

		currentChild, exists := current.Get(key)
		if !exists {
			stripped, err := strip(incomingChild)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}

			entries[key] = stripped

			continue
		}

		if currentChild.Kind() == node.KindScalar && incomingChild.Kind() == node.KindScalar {
			if strategy == MergeFirst {
				entries[key] = currentChild
			} else {
				entries[key] = incomingChild
			}

			continue
		}

		merged, err := Merge(currentChild, incomingChild)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}

		entries[key] = merged
	}

	return node.Mapping(entries), nil
}

// mergeSequence concatenates wholesale; elements are never merged pairwise.
func mergeSequence(current, incoming *node.Node, strategy Strategy) (*node.Node, error) {
	stripped, err := stripChildren(incoming)
	if err != nil {
		return nil, err
	}

	currentItems := current.Items()
	incomingItems := stripped.Items()

	var items []*node.Node

	if strategy == MergeFirst {
		items = append(incomingItems, currentItems...)
	} else {
		items = append(currentItems, incomingItems...)
	}

	return node.Sequence(items...), nil
}

// strip removes strategy markers from every level of the tree and returns
// the cleaned copy. Marker values are validated as they are removed, so a
// bogus strategy buried under an overwrite node still fails the merge.
func strip(n *node.Node) (*node.Node, error) {
	_, bare, err := Resolve(n)
	if err != nil {
		return nil, err
	}

	return stripChildren(bare)
}

// stripChildren strips markers below a node whose own marker has already
// been consumed. Splitting this from strip keeps a sequence's second element
// from being mistaken for a fresh leading marker once the real one is gone.
func stripChildren(n *node.Node) (*node.Node, error) {
	switch n.Kind() {
	case node.KindMapping:
		entries := make(map[string]*node.Node, n.Len())

		for _, key := range n.Keys() {
			child, _ := n.Get(key)

			stripped, err := strip(child)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}

			entries[key] = stripped
		}

		return node.Mapping(entries), nil
	case node.KindSequence:
		items := make([]*node.Node, n.Len())

		for i, child := range n.Items() {
			stripped, err := strip(child)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}

			items[i] = stripped
		}

		return node.Sequence(items...), nil
	case node.KindScalar:
		return n, nil
	default:
		return n, nil
	}
}
