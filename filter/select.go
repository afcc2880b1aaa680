package filter

import (
	"strings"

	"go.yaml.in/yaml/v4"
)

// SelectedPath describes which methods of one path-item survive filtering.
type SelectedPath struct {
	// Path is the path string (the key under the document's "paths" object).
	Path string

	// Node is the original path-item mapping node, shared with the input.
	Node *yaml.Node

	// Methods is the set of lower-cased method keys kept for this path,
	// in the order they were first encountered in Node.
	Methods []string
}

// kept reports whether method (already lower-cased) was selected.
func (sp SelectedPath) kept(method string) bool {
	for _, m := range sp.Methods {
		if m == method {
			return true
		}
	}
	return false
}

// SelectOperations applies spec to every (path, method) pair found under
// pathsNode (the document's "paths" object) and returns, in input order, one
// SelectedPath per path that retains at least one operation.
//
// topSecurity is the document's top-level "security" node (or nil), used as
// the fallback security requirement for any operation that omits its own
// "security" field.
//
// A non-object "paths" node, or a non-object path-item, yields no selections
// for that position rather than an error.
func SelectOperations(pathsNode *yaml.Node, topSecurity *yaml.Node, spec Spec) []SelectedPath {
	var results []SelectedPath

	methodSet := spec.methodSet()
	tagSet := spec.tagSet()
	securitySet := spec.securitySet()

	for _, pathPair := range mapPairs(pathsNode) {
		path := scalarString(pathPair.Key)
		if !MatchesAnyPattern(spec.PathPatterns, path) {
			continue
		}
		pathItem := pathPair.Value
		if pathItem == nil || pathItem.Kind != yaml.MappingNode {
			continue
		}

		var kept []string
		for _, opPair := range mapPairs(pathItem) {
			method := strings.ToLower(scalarString(opPair.Key))
			if !IsRecognizedMethod(method) {
				continue
			}
			if methodSet != nil {
				if _, ok := methodSet[method]; !ok {
					continue
				}
			}

			op := opPair.Value

			if tagSet != nil {
				tags := stringSeq(opTags(op))
				if !intersects(tagSet, tags) {
					continue
				}
			}

			if securitySet != nil {
				schemes := operationSecuritySchemes(op, topSecurity)
				if !intersects(securitySet, schemes) {
					continue
				}
			}

			kept = append(kept, method)
		}

		if len(kept) > 0 {
			results = append(results, SelectedPath{Path: path, Node: pathItem, Methods: kept})
		}
	}

	return results
}

// opTags returns the operation's "tags" node, or nil if op is not a mapping.
func opTags(op *yaml.Node) *yaml.Node {
	if op == nil || op.Kind != yaml.MappingNode {
		return nil
	}
	n, _ := mapGet(op, "tags")
	return n
}

// operationSecuritySchemes returns the union of scheme names named by the
// operation's own "security" requirements, falling back to the document's
// top-level "security" when the operation's field is absent or not usable
// (non-mapping op, or a "security" value that isn't a sequence).
func operationSecuritySchemes(op *yaml.Node, topSecurity *yaml.Node) []string {
	secNode := topSecurity
	if op != nil && op.Kind == yaml.MappingNode {
		if n, ok := mapGet(op, "security"); ok && n.Kind == yaml.SequenceNode {
			secNode = n
		}
	}
	if secNode == nil || secNode.Kind != yaml.SequenceNode {
		return nil
	}

	var schemes []string
	for _, req := range secNode.Content {
		for _, pair := range mapPairs(req) {
			schemes = append(schemes, scalarString(pair.Key))
		}
	}
	return schemes
}
