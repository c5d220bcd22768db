package tagset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tealium/internal/tag"
)

// LoadYAML reads a single tag set from a YAML file:
//
//	name: front_page
//	values:
//	  page_type: front
//	  page_index: 0
//	  logged_in: false
//
// The name defaults to the file name without extension.
func LoadYAML(path string) (*TagSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("read tag set: %v", err)}
	}

	ts, err := ParseYAML(data, path)
	if err != nil {
		return nil, err
	}
	if ts.Name == "" {
		ts.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return ts, nil
}

// ParseYAML parses tag set YAML. source is used for error messages only.
func ParseYAML(data []byte, source string) (*TagSet, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: err.Error(), File: source}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &LoadError{Code: ErrCodeInvalid, Message: "empty tag set document", File: source}
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, invalidAt(source, root, "tag set must be a mapping")
	}

	ts := &TagSet{Source: source}
	var values *yaml.Node
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		switch key.Value {
		case "name":
			if val.Kind != yaml.ScalarNode {
				return nil, invalidAt(source, val, "name must be a string")
			}
			ts.Name = val.Value
		case "values":
			values = val
		default:
			return nil, invalidAt(source, key, fmt.Sprintf("unknown field %q", key.Value))
		}
	}

	if values == nil {
		return nil, &LoadError{Code: ErrCodeInvalid, Message: "values is required", File: source}
	}
	entries, err := parseValues(values, source)
	if err != nil {
		return nil, err
	}
	ts.Values = entries
	return ts, nil
}

func parseValues(node *yaml.Node, source string) ([]Entry, error) {
	if node.Kind != yaml.MappingNode {
		return nil, invalidAt(source, node, "values must be a mapping")
	}

	seen := make(map[string]int, len(node.Content)/2)
	entries := make([]Entry, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if prev, ok := seen[key.Value]; ok {
			return nil, invalidAt(source, key, fmt.Sprintf("duplicate key %q (first defined on line %d)", key.Value, prev))
		}
		seen[key.Value] = key.Line

		v, err := NodeValue(val)
		if err != nil {
			return nil, invalidAt(source, val, fmt.Sprintf("key %q: %v", key.Value, err))
		}
		entries = append(entries, Entry{Key: key.Value, Value: v, Line: key.Line})
	}
	return entries, nil
}

// NodeValue converts a YAML node to a tag.Value using its resolved tag,
// so `'0'` stays a string and `0` stays an integer.
func NodeValue(node *yaml.Node) (tag.Value, error) {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		return NodeValue(node.Alias)
	}

	if node.Kind != yaml.ScalarNode {
		var composite any
		if err := node.Decode(&composite); err != nil {
			return nil, err
		}
		return tag.Other{V: composite}, nil
	}

	switch node.ShortTag() {
	case "!!null":
		return tag.Absent{}, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, err
		}
		return tag.Bool(b), nil
	case "!!int":
		var n int64
		if err := node.Decode(&n); err != nil {
			// Out of int64 range; keep the literal.
			return tag.Other{V: node.Value}, nil
		}
		return tag.Int(n), nil
	case "!!str":
		return tag.String(node.Value), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, err
		}
		return tag.Other{V: f}, nil
	default:
		var scalar any
		if err := node.Decode(&scalar); err != nil {
			return nil, err
		}
		return tag.Other{V: scalar}, nil
	}
}

func invalidAt(source string, node *yaml.Node, msg string) *LoadError {
	return &LoadError{Code: ErrCodeInvalid, Message: msg, File: source, Line: node.Line}
}
