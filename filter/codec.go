package filter

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.yaml.in/yaml/v4"
)

// Decode parses data (JSON or YAML — JSON is a YAML subset, so one decoder
// handles both) into the ordered generic tree [Filter] operates on, and
// returns its resolved document-root mapping node.
func Decode(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("filter: decoding document: %w", err)
	}
	root := resolveRoot(&doc)
	if root == nil || root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("filter: document root is not an object")
	}
	return root, nil
}

// EncodeYAML serializes root back to YAML, preserving the key order carried
// on the node tree.
func EncodeYAML(root *yaml.Node) ([]byte, error) {
	data, err := yaml.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("filter: encoding YAML: %w", err)
	}
	return data, nil
}

// EncodeJSON serializes root to indented JSON, preserving node order. A
// plain json.Marshal of a Go map would re-sort keys alphabetically, which is
// why this walks the node tree directly instead.
func EncodeJSON(root *yaml.Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSONNode(&buf, root); err != nil {
		return nil, fmt.Errorf("filter: encoding JSON: %w", err)
	}
	var indented bytes.Buffer
	if err := json.Indent(&indented, buf.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("filter: indenting JSON: %w", err)
	}
	return indented.Bytes(), nil
}

func writeJSONNode(buf *bytes.Buffer, n *yaml.Node) error {
	n = resolveRoot(n)
	if n == nil {
		buf.WriteString("null")
		return nil
	}

	switch n.Kind {
	case yaml.MappingNode:
		buf.WriteByte('{')
		for i, pair := range mapPairs(n) {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(scalarString(pair.Key))
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeJSONNode(buf, pair.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil

	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, item := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONNode(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil

	case yaml.ScalarNode:
		return writeJSONScalar(buf, n)

	case yaml.AliasNode:
		return writeJSONNode(buf, n.Alias)

	default:
		buf.WriteString("null")
		return nil
	}
}

func writeJSONScalar(buf *bytes.Buffer, n *yaml.Node) error {
	var v any
	if err := n.Decode(&v); err != nil {
		// Fall back to the raw string value if the node can't decode into
		// a generic any (e.g. an unsupported custom tag).
		encoded, mErr := json.Marshal(n.Value)
		if mErr != nil {
			return mErr
		}
		buf.Write(encoded)
		return nil
	}
	encoded, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(encoded)
	return nil
}
