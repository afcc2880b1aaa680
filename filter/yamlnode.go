package filter

import "go.yaml.in/yaml/v4"

// nodePair is one key/value entry of a mapping node, in source order.
type nodePair struct {
	Key   *yaml.Node
	Value *yaml.Node
}

// resolveRoot unwraps a DocumentNode down to its single child, returning n
// unchanged for any other kind.
func resolveRoot(n *yaml.Node) *yaml.Node {
	if n != nil && n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		return resolveRoot(n.Content[0])
	}
	return n
}

// mapPairs returns the ordered key/value pairs of a mapping node. It returns
// nil for anything else: a node that should be an object but isn't is
// treated as empty rather than as an error.
func mapPairs(n *yaml.Node) []nodePair {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	pairs := make([]nodePair, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		pairs = append(pairs, nodePair{Key: n.Content[i], Value: n.Content[i+1]})
	}
	return pairs
}

// mapGet returns the value node for key in mapping node n, and whether it
// was found.
func mapGet(n *yaml.Node, key string) (*yaml.Node, bool) {
	for _, pair := range mapPairs(n) {
		if scalarString(pair.Key) == key {
			return pair.Value, true
		}
	}
	return nil, false
}

// scalarString returns the string value of a scalar node, or "" for
// anything else (including nil).
func scalarString(n *yaml.Node) string {
	if n == nil || n.Kind != yaml.ScalarNode {
		return ""
	}
	return n.Value
}

// seqItems returns the ordered elements of a sequence node, or nil for
// anything else.
func seqItems(n *yaml.Node) []*yaml.Node {
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil
	}
	return n.Content
}

// stringSeq reads a sequence-of-scalar-strings node into a []string,
// skipping (not erroring on) any non-scalar element. Returns nil for a
// missing or non-sequence node, so a malformed "tags" array behaves the
// same as an absent one.
func stringSeq(n *yaml.Node) []string {
	items := seqItems(n)
	if items == nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item.Kind == yaml.ScalarNode {
			out = append(out, item.Value)
		}
	}
	return out
}

// newScalar builds a plain string scalar node.
func newScalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

// newMapping builds a mapping node from ordered pairs.
func newMapping(pairs []nodePair) *yaml.Node {
	content := make([]*yaml.Node, 0, len(pairs)*2)
	for _, p := range pairs {
		content = append(content, p.Key, p.Value)
	}
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: content}
}

// newSequence builds a sequence node from ordered items.
func newSequence(items []*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: items}
}
