package merge

import (
	"errors"
	"fmt"

	"github.com/0xalexb/hjarta-overlay/node"
)

// MarkerKey is the reserved mapping key that declares a node's merge strategy.
// On a sequence the marker is a leading mapping element containing only this key.
const MarkerKey = "__"

// ErrUnknownStrategy is returned when a marker declares a strategy outside
// the supported set. It is fatal for the whole resolution call.
var ErrUnknownStrategy = errors.New("unknown merge strategy")

// Strategy selects how an incoming node combines with the existing value at
// the same tree position.
type Strategy int

const (
	// MergeLast merges recursively; the incoming value wins on conflicts.
	// This is the default when no marker is declared.
	MergeLast Strategy = iota
	// MergeFirst merges recursively; the existing value wins on conflicts.
	MergeFirst
	// Overwrite replaces the existing value wholesale.
	Overwrite
)

// String returns the marker form of the strategy.
func (s Strategy) String() string {
	switch s {
	case MergeLast:
		return "merge-last"
	case MergeFirst:
		return "merge-first"
	case Overwrite:
		return "overwrite"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// ParseStrategy parses the marker form of a strategy. Matching is
// case-sensitive: "Overwrite" is not a valid marker value.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "merge-last":
		return MergeLast, nil
	case "merge-first":
		return MergeFirst, nil
	case "overwrite":
		return Overwrite, nil
	default:
		return MergeLast, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

// Resolve extracts the strategy declared at a single tree position and
// returns the node with the marker removed. The input node is never
// modified. A node without a marker resolves to MergeLast unchanged;
// scalars cannot declare a strategy.
//
// Resolve inspects one position only. Markers on nested nodes are left in
// place for the recursion to resolve when it reaches them.
func Resolve(n *node.Node) (Strategy, *node.Node, error) {
	switch n.Kind() {
	case node.KindMapping:
		marker, ok := n.Get(MarkerKey)
		if !ok {
			return MergeLast, n, nil
		}

		strategy, err := markerStrategy(marker)
		if err != nil {
			return MergeLast, nil, err
		}

		entries := make(map[string]*node.Node, n.Len()-1)

		for _, key := range n.Keys() {
			if key == MarkerKey {
				continue
			}

			child, _ := n.Get(key)
			entries[key] = child
		}

		return strategy, node.Mapping(entries), nil
	case node.KindSequence:
		items := n.Items()
		if !isMarkerElement(items) {
			return MergeLast, n, nil
		}

		marker, _ := items[0].Get(MarkerKey)

		strategy, err := markerStrategy(marker)
		if err != nil {
			return MergeLast, nil, err
		}

		return strategy, node.Sequence(items[1:]...), nil
	case node.KindScalar:
		return MergeLast, n, nil
	default:
		return MergeLast, n, nil
	}
}

// isMarkerElement reports whether a sequence starts with a marker element:
// a mapping containing only the marker key.
func isMarkerElement(items []*node.Node) bool {
	if len(items) == 0 {
		return false
	}

	first := items[0]

	if first.Kind() != node.KindMapping || first.Len() != 1 {
		return false
	}

	_, ok := first.Get(MarkerKey)

	return ok
}

func markerStrategy(marker *node.Node) (Strategy, error) {
	if marker.Kind() != node.KindScalar {
		return MergeLast, fmt.Errorf("%w: marker value is a %s, want a string", ErrUnknownStrategy, marker.Kind())
	}

	value, ok := marker.Value().(string)
	if !ok {
		return MergeLast, fmt.Errorf("%w: marker value %v is not a string", ErrUnknownStrategy, marker.Value())
	}

	return ParseStrategy(value)
}
