// Package oasfilter provides tools for reducing OpenAPI Specification (OAS)
// documents to a self-consistent subset of their operations.
//
// Given an OAS 3.x document and a set of selectors (path globs, HTTP
// methods, tag names, security-scheme names), oasfilter keeps only the
// operations matching every selector, then prunes the document down to
// those operations, the transitive closure of the component definitions
// they reference through local $ref links, and the tag definitions still
// carried by a surviving operation. Everything else in the document is
// copied through verbatim, in its original key order.
//
// # Overview
//
// The library consists of one primary package:
//
//   - filter: the operation-selection and reference-closure engine
//
// plus a CLI (cmd/oasfilter) and an MCP server (the "mcp" subcommand)
// exposing the same engine to shells and AI agents respectively.
//
// # Installation
//
// Install the library using go get:
//
//	go get github.com/erraggy/oasfilter
//
// Or install the CLI:
//
//	go install github.com/erraggy/oasfilter/cmd/oasfilter@latest
//
// # Quick Start
//
// Filter a document down to one path prefix:
//
//	import "github.com/erraggy/oasfilter/filter"
//
//	doc, err := filter.Decode(data)
//	if err != nil {
//		log.Fatal(err)
//	}
//	out, result, err := filter.Filter(doc, filter.Spec{
//		PathPatterns: []string{"/users/*"},
//		Methods:      []string{"get"},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("kept %d operations\n", result.OperationsKept)
//	yaml, err := filter.EncodeYAML(out)
//
// From the command line, the same filter is:
//
//	oasfilter -p '/users/*' -m get openapi.yaml
//
// # Input and Output Formats
//
// Both YAML 1.2 and JSON documents are accepted; the CLI detects the format
// by content and emits the filtered document in the same format it read,
// preserving the input's object-key order in both cases.
//
// # Reference Closure
//
// Filtering follows every local "#/components/<category>/<name>" $ref
// reachable from the kept operations, transitively through component
// bodies, and retains exactly the referenced components. Cyclic schema
// references are handled; dangling references are preserved verbatim in
// the output without aborting the run. External references and non-component
// JSON Pointers are carried through untouched and never followed.
package oasfilter
