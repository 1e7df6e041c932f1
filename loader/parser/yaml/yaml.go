package yaml

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/0xalexb/hjarta-overlay/node"
)

// Parser implements loader.Parser for YAML fragment documents.
type Parser struct{}

// NewParser creates a new YAML parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes YAML data into a node tree. Empty or whitespace-only data
// parses to an empty mapping.
func (p *Parser) Parse(data []byte) (*node.Node, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return node.EmptyMapping(), nil
	}

	var raw any

	err := yaml.Unmarshal(data, &raw)
	if err != nil {
		return nil, fmt.Errorf("unmarshal error: %w", err)
	}

	tree, err := node.FromValue(raw)
	if err != nil {
		return nil, fmt.Errorf("converting document: %w", err)
	}

	return tree, nil
}
