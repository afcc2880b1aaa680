// Package filter implements the operation-selection and reference-closure
// engine for reducing an OpenAPI v3 document to a self-consistent subset.
//
// Given a document and a [Spec] describing which operations to keep (by path
// glob, HTTP method, tag, and security-scheme name), [Filter] returns a new
// document containing only the selected operations and the transitive
// closure of the component definitions ($ref targets) they depend on.
//
// The engine operates on *yaml.Node, the ordered generic tree produced by
// go.yaml.in/yaml/v4 for both YAML and JSON sources, rather than on a typed
// OpenAPI struct. This keeps it oblivious to anything except the handful of
// well-known positions (paths, components, tags) it needs to interpret, and
// lets it track $ref values wherever they occur in the tree — including
// inside example values and vendor extensions.
//
// The engine does not read files or detect JSON vs YAML: those are the
// surrounding CLI's job. [Decode] and the Encode* helpers are thin parsing
// and serialization wrappers used by that CLI; the engine itself is the four
// functions [PathPatternMatch], [CollectRefs], [SelectOperations], and
// [Filter].
package filter
