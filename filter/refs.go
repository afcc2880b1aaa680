package filter

import (
	"strings"

	"go.yaml.in/yaml/v4"
)

// refPrefix is the only reference form the collector follows; anything else
// ($ref to an external URL, to "#/paths/...", or a malformed value) is left
// in the output tree untouched and contributes nothing to reachability.
const refPrefix = "#/components/"

// knownCategories are the component categories references can resolve
// against. A $ref naming any other category string round-trips untouched in
// the output tree but contributes nothing to reachability, since components
// only ever holds entries under these nine keys.
var knownCategories = map[string]struct{}{
	"schemas": {}, "responses": {}, "parameters": {}, "examples": {},
	"requestBodies": {}, "headers": {}, "securitySchemes": {}, "links": {},
	"callbacks": {},
}

// RefKey identifies one component definition by its category (e.g.
// "schemas") and name within that category.
type RefKey struct {
	Category string
	Name     string
}

// RefSet is a set of component references, keyed by (category, name).
type RefSet map[RefKey]struct{}

// Add inserts key into the set.
func (s RefSet) Add(key RefKey) {
	s[key] = struct{}{}
}

// Has reports whether key is in the set.
func (s RefSet) Has(key RefKey) bool {
	_, ok := s[key]
	return ok
}

// CollectRefs walks n depth-first and returns the set of (category, name)
// pairs named by every local "#/components/<category>/<name>" $ref value
// reachable inside it.
//
// A mapping node that carries a $ref key is treated as opaque: its sibling
// keys are not descended into (matching OpenAPI/JSON-Schema's historical
// treatment of $ref siblings as ignored, and avoiding inflating the
// reachable set by chasing description/example text that happens to sit
// next to a $ref). Every other mapping descends into all of its values,
// every sequence descends into all of its elements, and scalars contribute
// nothing.
func CollectRefs(n *yaml.Node) RefSet {
	out := RefSet{}
	collectRefsInto(n, out)
	return out
}

func collectRefsInto(n *yaml.Node, out RefSet) {
	if n == nil {
		return
	}
	switch n.Kind {
	case yaml.MappingNode:
		for _, pair := range mapPairs(n) {
			if scalarString(pair.Key) == "$ref" {
				if ref := scalarString(pair.Value); ref != "" {
					if key, ok := parseComponentRef(ref); ok {
						out.Add(key)
					}
				}
				return
			}
		}
		for _, pair := range mapPairs(n) {
			collectRefsInto(pair.Value, out)
		}
	case yaml.SequenceNode:
		for _, item := range seqItems(n) {
			collectRefsInto(item, out)
		}
	case yaml.AliasNode:
		// YAML anchors: the aliased subtree may live in a part of the
		// document this walk never visits, so follow the target. Aliases
		// cannot be cyclic (an anchor precedes its aliases), so this
		// terminates.
		collectRefsInto(n.Alias, out)
	}
}

// parseComponentRef parses a $ref value of the form
// "#/components/<category>/<name>" into a RefKey, percent-decoding each
// JSON-Pointer segment per RFC 6901 ("~1" -> "/", "~0" -> "~", ~1 decoded
// before ~0 so that a literal "~01" decodes to "~1" rather than "/").
// It reports ok=false for any value that doesn't match that exact shape or
// that names an unknown component category.
func parseComponentRef(ref string) (RefKey, bool) {
	if !strings.HasPrefix(ref, refPrefix) {
		return RefKey{}, false
	}
	rest := ref[len(refPrefix):]
	segments := strings.Split(rest, "/")
	if len(segments) != 2 || segments[0] == "" || segments[1] == "" {
		return RefKey{}, false
	}
	category := unescapeJSONPointer(segments[0])
	if _, ok := knownCategories[category]; !ok {
		return RefKey{}, false
	}
	return RefKey{
		Category: category,
		Name:     unescapeJSONPointer(segments[1]),
	}, true
}

func unescapeJSONPointer(segment string) string {
	segment = strings.ReplaceAll(segment, "~1", "/")
	segment = strings.ReplaceAll(segment, "~0", "~")
	return segment
}
