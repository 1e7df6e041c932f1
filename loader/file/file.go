package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/0xalexb/hjarta-overlay/fragment"
	"github.com/0xalexb/hjarta-overlay/loader"
	yamlparser "github.com/0xalexb/hjarta-overlay/loader/parser/yaml"
	templaterender "github.com/0xalexb/hjarta-overlay/loader/render/template"
	"github.com/0xalexb/hjarta-overlay/node"
)

// ErrPathIsDirectory is returned when a locator resolves to a directory
// instead of a file.
var ErrPathIsDirectory = errors.New("path is a directory, not a file")

// Loader resolves fragment locators against a root directory, rendering
// each file through a Renderer and parsing fragments with a Parser.
type Loader struct {
	root     string
	renderer loader.Renderer
	parser   loader.Parser
}

// Option defines a function type for configuring a Loader.
type Option func(*Loader)

// WithRenderer replaces the default text/template renderer.
func WithRenderer(r loader.Renderer) Option {
	return func(l *Loader) {
		l.renderer = r
	}
}

// WithParser replaces the default YAML parser.
func WithParser(p loader.Parser) Option {
	return func(l *Loader) {
		l.parser = p
	}
}

// NewLoader creates a Loader rooted at the given directory. By default it
// renders with text/template plus sprig and parses fragments as YAML.
func NewLoader(root string, opts ...Option) *Loader {
	ldr := &Loader{
		root:     filepath.Clean(root),
		renderer: templaterender.NewRenderer(),
		parser:   yamlparser.NewParser(),
	}

	for _, apply := range opts {
		apply(ldr)
	}

	return ldr
}

// Index renders the index file at locator and returns the concrete fragment
// locators it lists, one per non-empty line, each resolved relative to the
// index file's directory. A missing index file reports fragment.ErrMissing.
func (l *Loader) Index(ctx context.Context, locator fragment.Locator, bindings fragment.Bindings) ([]fragment.Locator, error) {
	err := ctx.Err()
	if err != nil {
		return nil, fmt.Errorf("loading index %q: %w", locator, err)
	}

	data, err := l.read(locator)
	if err != nil {
		return nil, err
	}

	rendered, err := l.renderer.Render(locator.String(), data, bindings)
	if err != nil {
		return nil, fmt.Errorf("index %q: %w", locator, err)
	}

	dir := path.Dir(locator.String())

	var concrete []fragment.Locator

	for _, line := range strings.Split(string(rendered), "\n") {
		entry := strings.TrimSpace(line)
		if entry == "" {
			continue
		}

		concrete = append(concrete, fragment.Locator(path.Join(dir, entry)))
	}

	return concrete, nil
}

// Fragment renders and parses one concrete fragment. A missing file reports
// fragment.ErrMissing; a document whose top level is not a mapping reports
// fragment.ErrMalformed.
func (l *Loader) Fragment(ctx context.Context, locator fragment.Locator, bindings fragment.Bindings) (*node.Node, error) {
	err := ctx.Err()
	if err != nil {
		return nil, fmt.Errorf("loading fragment %q: %w", locator, err)
	}

	data, err := l.read(locator)
	if err != nil {
		return nil, err
	}

	rendered, err := l.renderer.Render(locator.String(), data, bindings)
	if err != nil {
		return nil, fmt.Errorf("fragment %q: %w", locator, err)
	}

	tree, err := l.parser.Parse(rendered)
	if err != nil {
		return nil, fmt.Errorf("fragment %q: %w", locator, err)
	}

	if tree.Kind() != node.KindMapping {
		return nil, fmt.Errorf("%w: %q has %s top level", fragment.ErrMalformed, locator, tree.Kind())
	}

	return tree, nil
}

// read loads the file a locator points to, relative to the loader root.
func (l *Loader) read(locator fragment.Locator) ([]byte, error) {
	fullPath := filepath.Clean(filepath.Join(l.root, filepath.FromSlash(locator.String())))

	stat, err := os.Stat(fullPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", fragment.ErrMissing, locator)
	}

	if err != nil {
		return nil, fmt.Errorf("stat file %q: %w", fullPath, err)
	}

	if stat.IsDir() {
		return nil, fmt.Errorf("path %q: %w", fullPath, ErrPathIsDirectory)
	}

	data, err := os.ReadFile(fullPath) // #nosec G304 -- path is cleaned and rooted
	if err != nil {
		return nil, fmt.Errorf("reading file %q: %w", fullPath, err)
	}

	return data, nil
}
