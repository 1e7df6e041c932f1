package selector

import (
	"fmt"
	"strings"

	"github.com/0xalexb/hjarta-overlay/fragment"
	"github.com/0xalexb/hjarta-overlay/node"
)

// ParseScope validates a scope name against the fixed set.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopePillar, ScopeGrains, ScopeOpts:
		return Scope(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScope, s)
	}
}

// ParseCriterion builds a Criterion from its decoded config form. The
// matcher is "<scope>:<path>". The value is either a single locator, a list
// of locators (both appended whenever the traversal finds a value), or a
// mapping from matched traversal result to locator(s).
func ParseCriterion(matcher string, value any) (Criterion, error) {
	scopeName, path, ok := strings.Cut(matcher, PathDelimiter)
	if !ok || path == "" {
		return Criterion{}, fmt.Errorf("%w: matcher %q is not of the form scope:path", ErrInvalidCriterion, matcher)
	}

	scope, err := ParseScope(scopeName)
	if err != nil {
		return Criterion{}, fmt.Errorf("matcher %q: %w", matcher, err)
	}

	criterion := Criterion{Scope: scope, Path: path, Matches: nil, Present: nil}

	switch typed := value.(type) {
	case string:
		criterion.Present = []fragment.Locator{fragment.Locator(typed)}
	case []any:
		locators, err := parseLocators(typed)
		if err != nil {
			return Criterion{}, fmt.Errorf("matcher %q: %w", matcher, err)
		}

		criterion.Present = locators
	case map[string]any:
		matches, err := parseMatches(typed)
		if err != nil {
			return Criterion{}, fmt.Errorf("matcher %q: %w", matcher, err)
		}

		criterion.Matches = matches
	case map[any]any:
		converted := make(map[string]any, len(typed))
		for key, raw := range typed {
			converted[node.KeyString(key)] = raw
		}

		matches, err := parseMatches(converted)
		if err != nil {
			return Criterion{}, fmt.Errorf("matcher %q: %w", matcher, err)
		}

		criterion.Matches = matches
	default:
		return Criterion{}, fmt.Errorf("%w: matcher %q value must be a locator, list, or mapping, got %T",
			ErrInvalidCriterion, matcher, value)
	}

	return criterion, nil
}

func parseMatches(raw map[string]any) (map[string][]fragment.Locator, error) {
	matches := make(map[string][]fragment.Locator, len(raw))

	for key, value := range raw {
		switch typed := value.(type) {
		case string:
			matches[key] = []fragment.Locator{fragment.Locator(typed)}
		case []any:
			locators, err := parseLocators(typed)
			if err != nil {
				return nil, fmt.Errorf("match %q: %w", key, err)
			}

			matches[key] = locators
		default:
			return nil, fmt.Errorf("%w: match %q must map to a locator or list, got %T",
				ErrInvalidCriterion, key, value)
		}
	}

	return matches, nil
}

func parseLocators(raw []any) ([]fragment.Locator, error) {
	locators := make([]fragment.Locator, 0, len(raw))

	for i, value := range raw {
		text, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: locator %d must be a string, got %T", ErrInvalidCriterion, i, value)
		}

		locators = append(locators, fragment.Locator(text))
	}

	return locators, nil
}
