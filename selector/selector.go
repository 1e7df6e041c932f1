package selector

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/0xalexb/hjarta-overlay/fragment"
	"github.com/0xalexb/hjarta-overlay/node"
)

// PathDelimiter separates the segments of a traversal path.
const PathDelimiter = ":"

// ErrUnknownScope is returned when a criterion names a scope outside the
// fixed set. The scope set is closed, so this is a caller error and fails
// fast rather than being skipped.
var ErrUnknownScope = errors.New("unknown matcher scope")

// ErrInvalidCriterion is returned when a criterion's config form cannot be
// parsed.
var ErrInvalidCriterion = errors.New("invalid matcher criterion")

// Scope names one of the context mappings a criterion traverses.
type Scope string

const (
	// ScopePillar traverses the pillar context mapping.
	ScopePillar Scope = "pillar"
	// ScopeGrains traverses the grains context mapping.
	ScopeGrains Scope = "grains"
	// ScopeOpts traverses the opts context mapping.
	ScopeOpts Scope = "opts"
)

// Context holds the read-only context mappings for one resolution call.
// Passing them explicitly keeps selection free of ambient process state.
type Context struct {
	Pillar map[string]any
	Grains map[string]any
	Opts   map[string]any
}

func (c Context) scope(s Scope) (map[string]any, error) {
	switch s {
	case ScopePillar:
		return c.Pillar, nil
	case ScopeGrains:
		return c.Grains, nil
	case ScopeOpts:
		return c.Opts, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScope, string(s))
	}
}

// Criterion appends extra locators when a context traversal matches.
type Criterion struct {
	Scope Scope
	// Path is the colon-delimited traversal into the scope's mapping.
	Path string
	// Matches maps a traversal result, in its key form, to the locators
	// appended when the result equals that key.
	Matches map[string][]fragment.Locator
	// Present is appended whenever the traversal finds any value at all,
	// without consulting Matches. This is the single-locator criterion
	// form.
	Present []fragment.Locator
}

// Select computes the definitive ordered locator list for one resolution
// call: the base locators followed by every criterion's matches, in
// criterion order. Duplicates are preserved.
func Select(base []fragment.Locator, criteria []Criterion, ctx Context) ([]fragment.Locator, error) {
	locators := make([]fragment.Locator, 0, len(base))
	locators = append(locators, base...)

	for _, criterion := range criteria {
		mapping, err := ctx.scope(criterion.Scope)
		if err != nil {
			return nil, fmt.Errorf("matcher %q: %w", criterion.Scope.path(criterion.Path), err)
		}

		result, found := Traverse(mapping, criterion.Path)
		if !found {
			continue
		}

		locators = append(locators, criterion.Present...)

		key, scalar := matchKey(result)
		if !scalar {
			continue
		}

		locators = append(locators, criterion.Matches[key]...)
	}

	return locators, nil
}

// Traverse walks a decoded context value along a colon-delimited path.
// Mapping segments index by key; sequence segments index by integer.
// A missing segment is not an error: the second return is false.
func Traverse(value any, path string) (any, bool) {
	current := value

	for _, segment := range strings.Split(path, PathDelimiter) {
		switch typed := current.(type) {
		case map[string]any:
			child, ok := typed[segment]
			if !ok {
				return nil, false
			}

			current = child
		case []any:
			index, err := strconv.Atoi(segment)
			if err != nil || index < 0 || index >= len(typed) {
				return nil, false
			}

			current = typed[index]
		default:
			return nil, false
		}
	}

	return current, true
}

// matchKey renders a traversal result in the form criterion keys use.
// Composite results never match: only scalars can be compared to keys.
func matchKey(result any) (string, bool) {
	switch result.(type) {
	case map[string]any, map[any]any, []any:
		return "", false
	default:
		return node.KeyString(result), true
	}
}

func (s Scope) path(path string) string {
	return string(s) + PathDelimiter + path
}
