package mcpserver

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasfilter/filter"
	"github.com/erraggy/oasfilter/internal/fileutil"
)

type filterInput struct {
	Spec            specInput `json:"spec"                       jsonschema:"The OAS document to filter"`
	Paths           []string  `json:"paths,omitempty"            jsonschema:"Path globs to keep. '*' matches any substring\\, including '/'. Empty keeps every path."`
	Methods         []string  `json:"methods,omitempty"          jsonschema:"HTTP methods to keep (case-insensitive). Empty keeps every method."`
	Tags            []string  `json:"tags,omitempty"             jsonschema:"Tag names to keep (exact match). Empty applies no tag restriction."`
	Securities      []string  `json:"securities,omitempty"       jsonschema:"Security scheme names to keep (exact match\\, honoring top-level security inheritance). Empty applies no security restriction."`
	IncludeDocument *bool     `json:"include_document,omitempty" jsonschema:"Include the filtered document in the output (default true when output is not set)"`
	Output          string    `json:"output,omitempty"           jsonschema:"File path to write the filtered document. If omitted the document is returned inline."`
}

type filterOutput struct {
	Format         string         `json:"format"`
	PathsKept      int            `json:"paths_kept"`
	PathsDropped   int            `json:"paths_dropped"`
	OperationsKept int            `json:"operations_kept"`
	ComponentsKept map[string]int `json:"components_kept,omitempty"`
	TagsKept       int            `json:"tags_kept"`
	TagsDropped    int            `json:"tags_dropped"`
	WrittenTo      string         `json:"written_to,omitempty"`
	Document       string         `json:"document,omitempty"`
}

func handleFilter(ctx context.Context, _ *mcp.CallToolRequest, input filterInput) (*mcp.CallToolResult, filterOutput, error) {
	spec := filter.Spec{
		PathPatterns: input.Paths,
		Tags:         input.Tags,
		Securities:   input.Securities,
	}
	for _, m := range input.Methods {
		lower := strings.ToLower(m)
		if !filter.IsRecognizedMethod(lower) {
			return errResult(fmt.Errorf("unrecognized HTTP method: %q", m)), filterOutput{}, nil
		}
		spec.Methods = append(spec.Methods, lower)
	}

	resolved, err := input.Spec.resolve(ctx)
	if err != nil {
		return errResult(err), filterOutput{}, nil
	}

	filtered, result, err := filter.Filter(resolved.root, spec)
	if err != nil {
		return errResult(err), filterOutput{}, nil
	}

	output := filterOutput{
		Format:         string(resolved.format),
		PathsKept:      result.PathsKept,
		PathsDropped:   result.PathsDropped,
		OperationsKept: result.OperationsKept,
		ComponentsKept: result.ComponentsKept,
		TagsKept:       result.TagsKept,
		TagsDropped:    result.TagsDropped,
	}

	includeDocument := input.Output == ""
	if input.IncludeDocument != nil {
		includeDocument = *input.IncludeDocument
	}

	if input.Output != "" || includeDocument {
		var data []byte
		switch resolved.format {
		case specFormatJSON:
			data, err = filter.EncodeJSON(filtered)
		default:
			data, err = filter.EncodeYAML(filtered)
		}
		if err != nil {
			return errResult(err), filterOutput{}, nil
		}

		if input.Output != "" {
			if err := os.WriteFile(input.Output, data, fileutil.OwnerReadWrite); err != nil {
				return errResult(fmt.Errorf("failed to write output file: %w", err)), filterOutput{}, nil
			}
			output.WrittenTo = input.Output
		}
		if includeDocument {
			output.Document = string(data)
		}
	}

	return nil, output, nil
}
