package overlay_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	overlay "github.com/0xalexb/hjarta-overlay"
	"github.com/0xalexb/hjarta-overlay/fragment"
	yamlparser "github.com/0xalexb/hjarta-overlay/loader/parser/yaml"
	"github.com/0xalexb/hjarta-overlay/logging"
	"github.com/0xalexb/hjarta-overlay/merge"
	"github.com/0xalexb/hjarta-overlay/node"
	"github.com/0xalexb/hjarta-overlay/selector"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLoader serves indexes and YAML fragment texts from maps and records
// the bindings each fragment was rendered with.
type mockLoader struct {
	indexes   map[fragment.Locator][]fragment.Locator
	fragments map[fragment.Locator]string
	seen      []fragment.Bindings
}

func (m *mockLoader) Index(_ context.Context, locator fragment.Locator, _ fragment.Bindings) ([]fragment.Locator, error) {
	concrete, ok := m.indexes[locator]
	if !ok {
		return nil, fmt.Errorf("%w: %q", fragment.ErrMissing, locator)
	}

	return concrete, nil
}

func (m *mockLoader) Fragment(_ context.Context, locator fragment.Locator, bindings fragment.Bindings) (*node.Node, error) {
	text, ok := m.fragments[locator]
	if !ok {
		return nil, fmt.Errorf("%w: %q", fragment.ErrMissing, locator)
	}

	m.seen = append(m.seen, bindings)

	tree, err := yamlparser.NewParser().Parse([]byte(text))
	if err != nil {
		return nil, err
	}

	if tree.Kind() != node.KindMapping {
		return nil, fmt.Errorf("%w: %q", fragment.ErrMalformed, locator)
	}

	return tree, nil
}

func newResolver(t *testing.T, ldr overlay.Loader) *overlay.Resolver {
	t.Helper()

	resolver, err := overlay.NewResolver(ldr, overlay.Config{})
	require.NoError(t, err)

	return resolver
}

func mustResolve(t *testing.T, resolver *overlay.Resolver, req overlay.Request) *node.Node {
	t.Helper()

	result, err := resolver.Resolve(context.Background(), req)
	require.NoError(t, err)

	return result
}

func mustNode(t *testing.T, value any) *node.Node {
	t.Helper()

	tree, err := node.FromValue(value)
	require.NoError(t, err)

	return tree
}

func TestNewResolver_NilLoader(t *testing.T) {
	t.Parallel()

	_, err := overlay.NewResolver(nil, overlay.Config{})

	require.ErrorIs(t, err, overlay.ErrNilLoader)
}

func TestResolver_MergeLastAcrossFragments(t *testing.T) {
	t.Parallel()

	ldr := &mockLoader{
		indexes: map[fragment.Locator][]fragment.Locator{
			"top.cfg": {"f1.yml", "f2.yml"},
		},
		fragments: map[fragment.Locator]string{
			"f1.yml": "foo: foo1\nbar: bar1\n",
			"f2.yml": "foo: foo2\n",
		},
	}

	result := mustResolve(t, newResolver(t, ldr), overlay.Request{
		Target: "minion-1",
		Base:   []fragment.Locator{"top.cfg"},
	})

	assert.True(t, result.Equal(mustNode(t, map[string]any{"foo": "foo2", "bar": "bar1"})))
}

func TestResolver_OverwriteSubtree(t *testing.T) {
	t.Parallel()

	ldr := &mockLoader{
		indexes: map[fragment.Locator][]fragment.Locator{
			"top.cfg": {"f1.yml", "f2.yml"},
		},
		fragments: map[fragment.Locator]string{
			"f1.yml": "a:\n  x: 1\n  y: 2\n",
			"f2.yml": "a:\n  __: overwrite\n  z: 3\n",
		},
	}

	result := mustResolve(t, newResolver(t, ldr), overlay.Request{
		Base: []fragment.Locator{"top.cfg"},
	})

	a, ok := result.Get("a")
	require.True(t, ok)
	assert.Equal(t, []string{"z"}, a.Keys())
}

func TestResolver_MergeFirstSequence(t *testing.T) {
	t.Parallel()

	ldr := &mockLoader{
		indexes: map[fragment.Locator][]fragment.Locator{
			"top.cfg": {"f1.yml", "f2.yml"},
		},
		fragments: map[fragment.Locator]string{
			"f1.yml": "tags:\n  - a\n  - b\n",
			"f2.yml": "tags:\n  - __: merge-first\n  - c\n  - d\n",
		},
	}

	result := mustResolve(t, newResolver(t, ldr), overlay.Request{
		Base: []fragment.Locator{"top.cfg"},
	})

	assert.True(t, result.Equal(mustNode(t, map[string]any{"tags": []any{"c", "d", "a", "b"}})))
}

func TestResolver_MissingIndexIsSkipped(t *testing.T) {
	t.Parallel()

	ldr := &mockLoader{
		indexes: map[fragment.Locator][]fragment.Locator{
			"present.cfg": {"f1.yml"},
		},
		fragments: map[fragment.Locator]string{
			"f1.yml": "key: value\n",
		},
	}

	result := mustResolve(t, newResolver(t, ldr), overlay.Request{
		Base: []fragment.Locator{"absent.cfg", "present.cfg"},
	})

	assert.True(t, result.Equal(mustNode(t, map[string]any{"key": "value"})))
}

func TestResolver_MissingFragmentIsSkipped(t *testing.T) {
	t.Parallel()

	ldr := &mockLoader{
		indexes: map[fragment.Locator][]fragment.Locator{
			"top.cfg": {"absent.yml", "f1.yml"},
		},
		fragments: map[fragment.Locator]string{
			"f1.yml": "key: value\n",
		},
	}

	result := mustResolve(t, newResolver(t, ldr), overlay.Request{
		Base: []fragment.Locator{"top.cfg"},
	})

	assert.True(t, result.Equal(mustNode(t, map[string]any{"key": "value"})))
}

func TestResolver_UnknownStrategyAbortsCall(t *testing.T) {
	t.Parallel()

	ldr := &mockLoader{
		indexes: map[fragment.Locator][]fragment.Locator{
			"top.cfg": {"good.yml", "bad.yml"},
		},
		fragments: map[fragment.Locator]string{
			"good.yml": "key: value\n",
			"bad.yml":  "sub:\n  __: bogus\n",
		},
	}

	result, err := newResolver(t, ldr).Resolve(context.Background(), overlay.Request{
		Target: "minion-1",
		Base:   []fragment.Locator{"top.cfg"},
	})

	require.ErrorIs(t, err, merge.ErrUnknownStrategy)
	assert.Nil(t, result, "no partial merge may be surfaced")
	assert.Contains(t, err.Error(), "bad.yml")
	assert.Contains(t, err.Error(), "minion-1")
}

func TestResolver_MalformedFragmentIsFatal(t *testing.T) {
	t.Parallel()

	ldr := &mockLoader{
		indexes: map[fragment.Locator][]fragment.Locator{
			"top.cfg": {"bad.yml"},
		},
		fragments: map[fragment.Locator]string{
			"bad.yml": "- a sequence\n",
		},
	}

	result, err := newResolver(t, ldr).Resolve(context.Background(), overlay.Request{
		Base: []fragment.Locator{"top.cfg"},
	})

	require.ErrorIs(t, err, fragment.ErrMalformed)
	assert.Nil(t, result)
}

func TestResolver_UnknownScopeFailsBeforeLoading(t *testing.T) {
	t.Parallel()

	ldr := &mockLoader{
		indexes: map[fragment.Locator][]fragment.Locator{
			"top.cfg": {"f1.yml"},
		},
		fragments: map[fragment.Locator]string{
			"f1.yml": "key: value\n",
		},
	}

	result, err := newResolver(t, ldr).Resolve(context.Background(), overlay.Request{
		Base: []fragment.Locator{"top.cfg"},
		Criteria: []selector.Criterion{
			{Scope: selector.Scope("cloud"), Path: "region"},
		},
	})

	require.ErrorIs(t, err, selector.ErrUnknownScope)
	assert.Nil(t, result)
	assert.Empty(t, ldr.seen, "nothing may be loaded after a selection failure")
}

func TestResolver_CriteriaAppendFragments(t *testing.T) {
	t.Parallel()

	ldr := &mockLoader{
		indexes: map[fragment.Locator][]fragment.Locator{
			"base.cfg": {"core.yml"},
			"web.cfg":  {"web.yml"},
		},
		fragments: map[fragment.Locator]string{
			"core.yml": "role: none\n",
			"web.yml":  "role: web\nport: 80\n",
		},
	}

	result := mustResolve(t, newResolver(t, ldr), overlay.Request{
		Base: []fragment.Locator{"base.cfg"},
		Criteria: []selector.Criterion{
			{
				Scope:   selector.ScopeGrains,
				Path:    "role",
				Matches: map[string][]fragment.Locator{"web": {"web.cfg"}},
			},
		},
		Grains: map[string]any{"role": "web"},
	})

	role, ok := result.Get("role")
	require.True(t, ok)
	assert.Equal(t, "web", role.Value())

	port, ok := result.Get("port")
	require.True(t, ok)
	assert.EqualValues(t, 80, port.Value())
}

func TestResolver_StackVisibilityIsSequential(t *testing.T) {
	t.Parallel()

	ldr := &mockLoader{
		indexes: map[fragment.Locator][]fragment.Locator{
			"top.cfg": {"f1.yml", "f2.yml"},
		},
		fragments: map[fragment.Locator]string{
			"f1.yml": "first: 1\n",
			"f2.yml": "second: 2\n",
		},
	}

	mustResolve(t, newResolver(t, ldr), overlay.Request{
		Base: []fragment.Locator{"top.cfg"},
	})

	require.Len(t, ldr.seen, 2)

	firstStack, ok := ldr.seen[0].Stack.(map[string]any)
	require.True(t, ok)
	assert.Empty(t, firstStack, "first fragment sees the empty accumulator")

	secondStack, ok := ldr.seen[1].Stack.(map[string]any)
	require.True(t, ok)
	require.Len(t, secondStack, 1, "later fragments see all prior merges")
	assert.EqualValues(t, 1, secondStack["first"])
}

func TestResolver_EnvironmentPlaceholder(t *testing.T) {
	t.Parallel()

	ldr := &mockLoader{
		indexes: map[fragment.Locator][]fragment.Locator{
			"stack/prod/top.cfg": {"f1.yml"},
		},
		fragments: map[fragment.Locator]string{
			"f1.yml": "env: prod\n",
		},
	}

	result := mustResolve(t, newResolver(t, ldr), overlay.Request{
		Environment: "prod",
		Base:        []fragment.Locator{"stack/{env}/top.cfg"},
	})

	assert.True(t, result.Equal(mustNode(t, map[string]any{"env": "prod"})))
}

func TestResolver_DefaultEnvironment(t *testing.T) {
	t.Parallel()

	ldr := &mockLoader{
		indexes: map[fragment.Locator][]fragment.Locator{
			"stack/base/top.cfg": {"f1.yml"},
		},
		fragments: map[fragment.Locator]string{
			"f1.yml": "ok: true\n",
		},
	}

	result := mustResolve(t, newResolver(t, ldr), overlay.Request{
		Base: []fragment.Locator{"stack/{env}/top.cfg"},
	})

	ok, found := result.Get("ok")
	require.True(t, found)
	assert.Equal(t, true, ok.Value())
}

func TestResolver_EmptyRequestYieldsEmptyMapping(t *testing.T) {
	t.Parallel()

	result := mustResolve(t, newResolver(t, &mockLoader{}), overlay.Request{})

	assert.Equal(t, node.KindMapping, result.Kind())
	assert.Equal(t, 0, result.Len())
}

func TestResolver_SkippedFragmentsAreLogged(t *testing.T) {
	t.Parallel()

	ldr := &mockLoader{
		indexes: map[fragment.Locator][]fragment.Locator{
			"top.cfg": {"absent.yml", "f1.yml"},
		},
		fragments: map[fragment.Locator]string{
			"f1.yml": "key: value\n",
		},
	}

	var buf bytes.Buffer

	logger := logging.NewLogger(logging.LoggerConfig{Level: "INFO", Format: logging.FormatJSON}, &buf)

	resolver, err := overlay.NewResolver(ldr, overlay.Config{Logger: logger})
	require.NoError(t, err)

	_, err = resolver.Resolve(context.Background(), overlay.Request{
		Target: "minion-1",
		Base:   []fragment.Locator{"top.cfg"},
	})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "ignoring missing overlay fragment")
	assert.Contains(t, buf.String(), "absent.yml")
	assert.Contains(t, buf.String(), "minion-1")
}

func TestResolver_LoaderFailureIsAnnotatedWithTarget(t *testing.T) {
	t.Parallel()

	ldr := &failingLoader{err: errors.New("disk on fire")}

	resolver := newResolver(t, ldr)

	_, err := resolver.Resolve(context.Background(), overlay.Request{
		Target: "minion-9",
		Base:   []fragment.Locator{"top.cfg"},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "minion-9")
	assert.Contains(t, err.Error(), "disk on fire")
}

type failingLoader struct {
	err error
}

func (f *failingLoader) Index(_ context.Context, _ fragment.Locator, _ fragment.Bindings) ([]fragment.Locator, error) {
	return nil, f.err
}

func (f *failingLoader) Fragment(_ context.Context, _ fragment.Locator, _ fragment.Bindings) (*node.Node, error) {
	return nil, f.err
}
