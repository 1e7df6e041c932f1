package node

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
)

// ErrDuplicateKey is returned by FromValue when two mapping keys collide
// after non-string keys are stringified.
var ErrDuplicateKey = errors.New("duplicate mapping key")

// Kind identifies the variant a Node holds.
type Kind int

const (
	// KindScalar is a single YAML value: string, number, bool, nil, ...
	KindScalar Kind = iota
	// KindMapping is a set of unique string keys to child nodes.
	KindMapping
	// KindSequence is an ordered list of child nodes.
	KindSequence
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Node is one position in a configuration tree. Exactly one of the variant
// fields is populated, selected by the kind.
type Node struct {
	kind    Kind
	value   any
	entries map[string]*Node
	items   []*Node
}

// Scalar creates a scalar node holding v.
func Scalar(v any) *Node {
	return &Node{kind: KindScalar, value: v, entries: nil, items: nil}
}

// Mapping creates a mapping node from the given entries.
// The map is copied; the child nodes are shared, not cloned.
func Mapping(entries map[string]*Node) *Node {
	copied := make(map[string]*Node, len(entries))
	for key, child := range entries {
		copied[key] = child
	}

	return &Node{kind: KindMapping, value: nil, entries: copied, items: nil}
}

// EmptyMapping creates a mapping node with no entries.
func EmptyMapping() *Node {
	return Mapping(nil)
}

// Sequence creates a sequence node from the given items.
// The slice is copied; the child nodes are shared, not cloned.
func Sequence(items ...*Node) *Node {
	copied := make([]*Node, len(items))
	copy(copied, items)

	return &Node{kind: KindSequence, value: nil, entries: nil, items: copied}
}

// Kind returns the node's variant. A nil node is a nil scalar.
func (n *Node) Kind() Kind {
	if n == nil {
		return KindScalar
	}

	return n.kind
}

// Value returns the scalar value; nil for non-scalar or nil nodes.
func (n *Node) Value() any {
	if n == nil || n.kind != KindScalar {
		return nil
	}

	return n.value
}

// Get looks up a mapping entry by key.
func (n *Node) Get(key string) (*Node, bool) {
	if n == nil || n.kind != KindMapping {
		return nil, false
	}

	child, ok := n.entries[key]

	return child, ok
}

// Keys returns the mapping's keys in sorted order; nil for non-mappings.
// Sorting gives deterministic iteration; key order carries no meaning for
// merging.
func (n *Node) Keys() []string {
	if n == nil || n.kind != KindMapping {
		return nil
	}

	keys := make([]string, 0, len(n.entries))
	for key := range n.entries {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

// Items returns a copy of the sequence's items; nil for non-sequences.
func (n *Node) Items() []*Node {
	if n == nil || n.kind != KindSequence {
		return nil
	}

	items := make([]*Node, len(n.items))
	copy(items, n.items)

	return items
}

// Len returns the number of mapping entries or sequence items; 0 for scalars.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}

	switch n.kind {
	case KindMapping:
		return len(n.entries)
	case KindSequence:
		return len(n.items)
	case KindScalar:
		return 0
	default:
		return 0
	}
}

// Clone returns a deep copy of the tree rooted at n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}

	switch n.kind {
	case KindMapping:
		entries := make(map[string]*Node, len(n.entries))
		for key, child := range n.entries {
			entries[key] = child.Clone()
		}

		return &Node{kind: KindMapping, value: nil, entries: entries, items: nil}
	case KindSequence:
		items := make([]*Node, len(n.items))
		for i, child := range n.items {
			items[i] = child.Clone()
		}

		return &Node{kind: KindSequence, value: nil, entries: nil, items: items}
	case KindScalar:
		return Scalar(n.value)
	default:
		return Scalar(n.value)
	}
}

// Equal reports structural equality of two trees. Scalar values are compared
// with reflect.DeepEqual, so numeric values of different Go types are not
// equal even when numerically equivalent.
func (n *Node) Equal(other *Node) bool {
	if n.Kind() != other.Kind() {
		return false
	}

	switch n.Kind() {
	case KindMapping:
		if n.Len() != other.Len() {
			return false
		}

		for _, key := range n.Keys() {
			left, _ := n.Get(key)

			right, ok := other.Get(key)
			if !ok || !left.Equal(right) {
				return false
			}
		}

		return true
	case KindSequence:
		if n.Len() != other.Len() {
			return false
		}

		items := n.Items()
		otherItems := other.Items()

		for i, item := range items {
			if !item.Equal(otherItems[i]) {
				return false
			}
		}

		return true
	case KindScalar:
		return reflect.DeepEqual(n.Value(), other.Value())
	default:
		return false
	}
}

// FromValue converts a generically decoded YAML value (maps, slices, scalars)
// into a node tree. Non-string mapping keys are stringified via KeyString;
// a collision between stringified keys returns ErrDuplicateKey.
func FromValue(v any) (*Node, error) {
	switch typed := v.(type) {
	case map[string]any:
		entries := make(map[string]*Node, len(typed))

		for key, raw := range typed {
			child, err := FromValue(raw)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}

			entries[key] = child
		}

		return &Node{kind: KindMapping, value: nil, entries: entries, items: nil}, nil
	case map[any]any:
		entries := make(map[string]*Node, len(typed))

		for rawKey, raw := range typed {
			key := KeyString(rawKey)

			if _, exists := entries[key]; exists {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, key)
			}

			child, err := FromValue(raw)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}

			entries[key] = child
		}

		return &Node{kind: KindMapping, value: nil, entries: entries, items: nil}, nil
	case []any:
		items := make([]*Node, len(typed))

		for i, raw := range typed {
			child, err := FromValue(raw)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}

			items[i] = child
		}

		return &Node{kind: KindSequence, value: nil, entries: nil, items: items}, nil
	default:
		return Scalar(v), nil
	}
}

// Interface converts the tree back to plain maps, slices, and scalars.
// This is the form handed to template bindings.
func (n *Node) Interface() any {
	if n == nil {
		return nil
	}

	switch n.kind {
	case KindMapping:
		out := make(map[string]any, len(n.entries))
		for key, child := range n.entries {
			out[key] = child.Interface()
		}

		return out
	case KindSequence:
		out := make([]any, len(n.items))
		for i, child := range n.items {
			out[i] = child.Interface()
		}

		return out
	case KindScalar:
		return n.value
	default:
		return n.value
	}
}

// KeyString renders a scalar value in its mapping-key form. Strings pass
// through unchanged; everything else uses the default Go formatting, which
// matches how matcher traversal results are compared against criterion keys.
func KeyString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}

	return fmt.Sprintf("%v", v)
}
