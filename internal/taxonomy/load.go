package taxonomy

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultDocument []byte

var (
	defaultOnce sync.Once
	defaultTax  *Taxonomy
	defaultErr  error
)

// Default returns the built-in taxonomy, parsed once per process.
func Default() (*Taxonomy, error) {
	defaultOnce.Do(func() {
		defaultTax, defaultErr = Parse(defaultDocument)
	})
	return defaultTax, defaultErr
}

// Load reads a taxonomy document from path, or returns Default when path is empty.
func Load(path string) (*Taxonomy, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy %s: %w", path, err)
	}
	t, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("taxonomy %s: %w", path, err)
	}
	return t, nil
}

func Parse(b []byte) (*Taxonomy, error) {
	var spec Spec
	if err := yaml.Unmarshal(b, &spec); err != nil {
		return nil, fmt.Errorf("decode taxonomy: %w", err)
	}
	return New(spec)
}

// Entries decodes a YAML mapping of name -> list while keeping key order,
// which plain Go maps would lose.
type Entries []Entry

func (e *Entries) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping of name to list", node.Line)
	}
	out := make(Entries, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		var items []string
		if val.Kind != yaml.ScalarNode || val.Tag != "!!null" {
			if err := val.Decode(&items); err != nil {
				return fmt.Errorf("line %d: %q: %w", val.Line, key.Value, err)
			}
		}
		out = append(out, Entry{Name: key.Value, Items: items})
	}
	*e = out
	return nil
}
