package filter

import (
	"strings"

	"go.yaml.in/yaml/v4"
)

// Result reports what [Filter] decided, for collaborators (a CLI's --stats
// flag, an MCP tool's summary) that want numbers without re-deriving them.
type Result struct {
	PathsKept      int
	PathsDropped   int
	OperationsKept int
	ComponentsKept map[string]int
	TagsKept       int
	TagsDropped    int
}

// Filter applies spec to doc (the top-level OpenAPI document mapping node,
// as returned by [Decode]) and returns a new document node containing only
// the selected operations, the reference closure of components they reach,
// and the tags still named by a surviving operation.
//
// doc is treated as read-only. Retained subtrees are shared by pointer with
// it rather than deep-copied, so the caller must treat the returned tree as
// immutable. doc must be a mapping node (the resolved document root); pass
// it through [Decode] to get one.
func Filter(doc *yaml.Node, spec Spec) (*yaml.Node, Result, error) {
	var result Result

	pathsNode, _ := mapGet(doc, "paths")
	topSecurity, _ := mapGet(doc, "security")

	selected := SelectOperations(pathsNode, topSecurity, spec)

	filteredPaths, keptTags := buildFilteredPaths(selected)
	for _, sp := range selected {
		result.OperationsKept += len(sp.Methods)
	}
	if pathsInput := mapPairs(pathsNode); pathsInput != nil {
		result.PathsKept = len(selected)
		result.PathsDropped = len(pathsInput) - len(selected)
	}

	frontier := CollectRefs(filteredPaths)
	componentsNode, _ := mapGet(doc, "components")
	closure := closeOverComponents(frontier, componentsNode)

	newComponents, componentCounts := buildComponents(componentsNode, closure)
	result.ComponentsKept = componentCounts

	newTagsNode, tagsKeptCount, tagsDroppedCount := filterTags(doc, keptTags)
	result.TagsKept = tagsKeptCount
	result.TagsDropped = tagsDroppedCount

	out := assembleDocument(doc, filteredPaths, newComponents, newTagsNode)
	return out, result, nil
}

// buildFilteredPaths constructs the new "paths" mapping node: one entry per
// SelectedPath, each path-item rebuilt by keeping every non-method field
// verbatim (in its original relative position) and every kept method (with
// its key lower-cased). It also returns the union of "tags" named by every
// kept operation, for step 6 of the document filter.
func buildFilteredPaths(selected []SelectedPath) (*yaml.Node, map[string]struct{}) {
	keptTags := map[string]struct{}{}
	pathPairs := make([]nodePair, 0, len(selected))

	for _, sp := range selected {
		var itemPairs []nodePair
		for _, pair := range mapPairs(sp.Node) {
			lowerKey := strings.ToLower(scalarString(pair.Key))
			if IsRecognizedMethod(lowerKey) {
				if !sp.kept(lowerKey) {
					continue
				}
				for _, tag := range stringSeq(opTags(pair.Value)) {
					keptTags[tag] = struct{}{}
				}
				itemPairs = append(itemPairs, nodePair{Key: newScalar(lowerKey), Value: pair.Value})
				continue
			}
			// Non-method field of the path-item (summary, description,
			// servers, parameters, extensions): carried verbatim.
			itemPairs = append(itemPairs, pair)
		}
		pathPairs = append(pathPairs, nodePair{Key: newScalar(sp.Path), Value: newMapping(itemPairs)})
	}

	return newMapping(pathPairs), keptTags
}

// closeOverComponents computes the least superset of frontier closed under
// following $ref edges through the body of each reachable, existing
// component, using a worklist bounded by the number of distinct component
// names in the input (guaranteeing termination even over cyclic schemas).
func closeOverComponents(frontier RefSet, componentsNode *yaml.Node) RefSet {
	closure := RefSet{}
	var queue []RefKey
	for key := range frontier {
		closure.Add(key)
		queue = append(queue, key)
	}

	for len(queue) > 0 {
		key := queue[0]
		queue = queue[1:]

		node, ok := lookupComponent(componentsNode, key)
		if !ok {
			// Dangling reference: preserved verbatim in the output tree,
			// contributes no successors.
			continue
		}
		for ref := range CollectRefs(node) {
			if !closure.Has(ref) {
				closure.Add(ref)
				queue = append(queue, ref)
			}
		}
	}

	return closure
}

// lookupComponent finds components.<category>.<name> under componentsNode.
func lookupComponent(componentsNode *yaml.Node, key RefKey) (*yaml.Node, bool) {
	catNode, ok := mapGet(componentsNode, key.Category)
	if !ok {
		return nil, false
	}
	return mapGet(catNode, key.Name)
}

// buildComponents assembles the output "components" node: for each known
// category present in the input, a category object holding exactly the
// names in closure, in the input's original order. A category with no
// surviving names is dropped; if every category is dropped, components is
// nil (meaning: omit the key entirely).
func buildComponents(componentsNode *yaml.Node, closure RefSet) (*yaml.Node, map[string]int) {
	counts := map[string]int{}
	if componentsNode == nil {
		return nil, counts
	}

	var catPairs []nodePair
	for _, catPair := range mapPairs(componentsNode) {
		category := scalarString(catPair.Key)
		var namePairs []nodePair
		for _, namePair := range mapPairs(catPair.Value) {
			name := scalarString(namePair.Key)
			if closure.Has(RefKey{Category: category, Name: name}) {
				namePairs = append(namePairs, namePair)
			}
		}
		if len(namePairs) == 0 {
			continue
		}
		counts[category] = len(namePairs)
		catPairs = append(catPairs, nodePair{Key: newScalar(category), Value: newMapping(namePairs)})
	}

	if len(catPairs) == 0 {
		return nil, counts
	}
	return newMapping(catPairs), counts
}

// filterTags builds the output top-level "tags" array: the sublist of the
// input's tags whose name is in keptTags, preserving input order. Returns
// nil if the document has no top-level "tags" array or keptTags is empty,
// meaning "omit the key".
func filterTags(doc *yaml.Node, keptTags map[string]struct{}) (*yaml.Node, int, int) {
	tagsNode, ok := mapGet(doc, "tags")
	if !ok || tagsNode.Kind != yaml.SequenceNode {
		return nil, 0, 0
	}

	var kept []*yaml.Node
	dropped := 0
	for _, tagDef := range tagsNode.Content {
		name, found := mapGet(tagDef, "name")
		if found {
			if _, ok := keptTags[scalarString(name)]; ok {
				kept = append(kept, tagDef)
				continue
			}
		}
		dropped++
	}

	if len(kept) == 0 {
		return nil, 0, dropped
	}
	return newSequence(kept), len(kept), dropped
}

// assembleDocument copies every top-level field of doc verbatim, in input
// order, except "paths" (always replaced with filteredPaths), "components"
// (replaced with newComponents, or dropped if nil), and "tags" (replaced
// with newTags, or dropped if nil).
func assembleDocument(doc *yaml.Node, filteredPaths, newComponents, newTags *yaml.Node) *yaml.Node {
	var pairs []nodePair
	for _, pair := range mapPairs(doc) {
		switch scalarString(pair.Key) {
		case "paths":
			pairs = append(pairs, nodePair{Key: pair.Key, Value: filteredPaths})
		case "components":
			if newComponents != nil {
				pairs = append(pairs, nodePair{Key: pair.Key, Value: newComponents})
			}
		case "tags":
			if newTags != nil {
				pairs = append(pairs, nodePair{Key: pair.Key, Value: newTags})
			}
		default:
			pairs = append(pairs, pair)
		}
	}
	return newMapping(pairs)
}
