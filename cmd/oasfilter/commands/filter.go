package commands

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	oasfilter "github.com/erraggy/oasfilter"
	"github.com/erraggy/oasfilter/filter"
	"github.com/erraggy/oasfilter/internal/fileutil"
	"github.com/erraggy/oasfilter/oaserrors"
)

// sourceFormat identifies the serialization format of an input document.
type sourceFormat int

const (
	sourceFormatYAML sourceFormat = iota
	sourceFormatJSON
)

// FilterFlags contains flags for the filter command
type FilterFlags struct {
	APIDocument string
	Paths       []string
	Methods     []string
	Tags        []string
	Securities  []string
	Output      string
	Stats       bool
	Format      string
	Quiet       bool
}

// SetupFilterFlags creates and configures a FlagSet for the filter command.
// Returns the FlagSet and a FilterFlags struct with bound flag variables.
func SetupFilterFlags() (*flag.FlagSet, *FilterFlags) {
	fs := flag.NewFlagSet("filter", flag.ContinueOnError)
	flags := &FilterFlags{APIDocument: StdinFilePath, Format: FormatText}

	fs.StringVar(&flags.APIDocument, "a", StdinFilePath, "path to the OpenAPI document, or '-' for stdin")
	fs.StringVar(&flags.APIDocument, "api-document", StdinFilePath, "path to the OpenAPI document, or '-' for stdin")

	appendTo := func(dst *[]string) func(string) error {
		return func(v string) error {
			*dst = append(*dst, v)
			return nil
		}
	}
	fs.Func("p", "path glob to keep (repeatable; '*' matches any substring)", appendTo(&flags.Paths))
	fs.Func("path", "path glob to keep (repeatable; '*' matches any substring)", appendTo(&flags.Paths))
	fs.Func("m", "HTTP method to keep (repeatable; case-insensitive)", appendTo(&flags.Methods))
	fs.Func("method", "HTTP method to keep (repeatable; case-insensitive)", appendTo(&flags.Methods))
	fs.Func("tag", "tag name to keep (repeatable; exact match)", appendTo(&flags.Tags))
	fs.Func("security", "security scheme name to keep (repeatable; exact match)", appendTo(&flags.Securities))

	fs.StringVar(&flags.Output, "o", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file path (default: stdout)")
	fs.BoolVar(&flags.Stats, "stats", false, "print filter statistics to stderr")
	fs.StringVar(&flags.Format, "format", FormatText, "statistics format: text, json, or yaml")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: no diagnostic messages except the warning that an existing output file will be overwritten")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: no diagnostic messages except the warning that an existing output file will be overwritten")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: oasfilter [filter] [flags] [<file|->]\n\n")
		Writef(fs.Output(), "Reduce an OpenAPI document to the operations matching every selector,\n")
		Writef(fs.Output(), "plus the components they reference (directly or transitively) and the\n")
		Writef(fs.Output(), "tags they carry. With no selectors, all operations are kept and only\n")
		Writef(fs.Output(), "unreferenced components and unused tags are pruned.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nSelectors:\n")
		Writef(fs.Output(), "  - An operation is kept only when it matches ALL selector kinds given\n")
		Writef(fs.Output(), "  - Within one kind, values are alternatives (any one may match)\n")
		Writef(fs.Output(), "  - Path globs are matched against the whole path; '*' may span '/'\n")
		Writef(fs.Output(), "  - Operations without their own security inherit the document's top-level security\n")
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  oasfilter -p /users openapi.yaml\n")
		Writef(fs.Output(), "  oasfilter -p '/users/*' -m get -o users-read.yaml openapi.yaml\n")
		Writef(fs.Output(), "  oasfilter --tag admin --security apiKey openapi.json\n")
		Writef(fs.Output(), "  cat openapi.yaml | oasfilter -q -m get - > read-only.yaml\n")
		Writef(fs.Output(), "  oasfilter --stats --format json -p '/api/v1/*' openapi.yaml\n")
		Writef(fs.Output(), "\nPipelining:\n")
		Writef(fs.Output(), "  - Use '-' as the file path to read from stdin\n")
		Writef(fs.Output(), "  - Output format always matches the input format (JSON in, JSON out)\n")
		Writef(fs.Output(), "  - Use --quiet/-q to suppress diagnostic output for pipelining\n")
		Writef(fs.Output(), "\nExit Codes:\n")
		Writef(fs.Output(), "  0    Filtering successful\n")
		Writef(fs.Output(), "  1    Read, parse, or selector errors\n")
	}

	return fs, flags
}

// HandleFilter executes the filter command
func HandleFilter(args []string) error {
	fs, flags := SetupFilterFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() > 1 {
		fs.Usage()
		return fmt.Errorf("filter command accepts at most one file path or '-' for stdin")
	}
	specPath := flags.APIDocument
	if fs.NArg() == 1 {
		specPath = fs.Arg(0)
	}

	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	spec, err := buildFilterSpec(flags)
	if err != nil {
		return err
	}

	data, err := readDocument(specPath)
	if err != nil {
		return err
	}
	format := detectFormatFromContent(data)

	doc, err := filter.Decode(data)
	if err != nil {
		return &oaserrors.ParseError{Path: FormatSpecPath(specPath), Cause: err}
	}

	filtered, result, err := filter.Filter(doc, spec)
	if err != nil {
		return fmt.Errorf("filtering %s: %w", FormatSpecPath(specPath), err)
	}

	// Emit in the same format the input arrived in.
	var out []byte
	if format == sourceFormatJSON {
		out, err = filter.EncodeJSON(filtered)
	} else {
		out, err = filter.EncodeYAML(filtered)
	}
	if err != nil {
		return err
	}
	if format == sourceFormatJSON {
		out = append(out, '\n')
	}

	if flags.Output != "" {
		if err := writeDocument(flags.Output, specPath, out); err != nil {
			return err
		}
		if !flags.Quiet {
			Writef(os.Stderr, "Filtered document written to %s\n", flags.Output)
		}
	} else {
		if _, err := os.Stdout.Write(out); err != nil {
			return fmt.Errorf("writing document to stdout: %w", err)
		}
	}

	if flags.Stats {
		if err := outputFilterStats(os.Stderr, specPath, result, flags.Format); err != nil {
			return err
		}
	}

	return nil
}

// buildFilterSpec validates the selector flags and assembles the engine's
// filter specification. Method names are normalized to lower case here;
// anything outside the recognized HTTP method set, or a path pattern that
// is not valid UTF-8, is a configuration error reported before the engine
// runs.
func buildFilterSpec(flags *FilterFlags) (filter.Spec, error) {
	spec := filter.Spec{
		PathPatterns: flags.Paths,
		Tags:         flags.Tags,
		Securities:   flags.Securities,
	}
	for _, p := range flags.Paths {
		if !utf8.ValidString(p) {
			return filter.Spec{}, &oaserrors.ConfigError{
				Option:  "path",
				Value:   p,
				Message: "not a valid UTF-8 string",
			}
		}
	}
	for _, m := range flags.Methods {
		lower := strings.ToLower(m)
		if !filter.IsRecognizedMethod(lower) {
			return filter.Spec{}, &oaserrors.ConfigError{
				Option:  "method",
				Value:   m,
				Message: "not a recognized HTTP method",
			}
		}
		spec.Methods = append(spec.Methods, lower)
	}
	return spec, nil
}

// readDocument reads the raw document bytes from a file or stdin.
func readDocument(specPath string) ([]byte, error) {
	if specPath == StdinFilePath {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(specPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", specPath, err)
	}
	return data, nil
}

// writeDocument writes the filtered document to outputPath after the usual
// path safety checks.
func writeDocument(outputPath, specPath string, data []byte) error {
	if err := ValidateOutputPath(outputPath, []string{specPath}); err != nil {
		return err
	}
	cleaned := filepath.Clean(outputPath)
	if err := RejectSymlinkOutput(cleaned); err != nil {
		return err
	}
	if err := os.WriteFile(cleaned, data, fileutil.OwnerReadWrite); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	return nil
}

// detectFormatFromContent attempts to detect the format from the content bytes
// JSON typically starts with '{' or '[', while YAML does not
func detectFormatFromContent(data []byte) sourceFormat {
	trimmed := bytes.TrimLeft(data, " \t\n\r")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return sourceFormatJSON
	}
	return sourceFormatYAML
}

// filterStats is the serializable form of a filter result for --stats.
type filterStats struct {
	Source         string         `json:"source" yaml:"source"`
	PathsKept      int            `json:"paths_kept" yaml:"paths_kept"`
	PathsDropped   int            `json:"paths_dropped" yaml:"paths_dropped"`
	OperationsKept int            `json:"operations_kept" yaml:"operations_kept"`
	ComponentsKept map[string]int `json:"components_kept,omitempty" yaml:"components_kept,omitempty"`
	TagsKept       int            `json:"tags_kept" yaml:"tags_kept"`
	TagsDropped    int            `json:"tags_dropped" yaml:"tags_dropped"`
}

// outputFilterStats reports what the filter kept and dropped, as text or in
// the structured format selected by --format.
func outputFilterStats(w io.Writer, specPath string, result filter.Result, format string) error {
	stats := filterStats{
		Source:         FormatSpecPath(specPath),
		PathsKept:      result.PathsKept,
		PathsDropped:   result.PathsDropped,
		OperationsKept: result.OperationsKept,
		ComponentsKept: result.ComponentsKept,
		TagsKept:       result.TagsKept,
		TagsDropped:    result.TagsDropped,
	}

	if format == FormatJSON || format == FormatYAML {
		data, err := MarshalStructured(stats, format)
		if err != nil {
			return err
		}
		Writef(w, "%s\n", strings.TrimRight(string(data), "\n"))
		return nil
	}

	Writef(w, "oasfilter version: %s\n", oasfilter.Version())
	Writef(w, "Specification: %s\n", stats.Source)
	Writef(w, "Paths: %d kept, %d dropped\n", stats.PathsKept, stats.PathsDropped)
	Writef(w, "Operations: %d kept\n", stats.OperationsKept)
	for _, category := range []string{
		"schemas", "responses", "parameters", "examples", "requestBodies",
		"headers", "securitySchemes", "links", "callbacks",
	} {
		if n, ok := stats.ComponentsKept[category]; ok {
			Writef(w, "Components.%s: %d kept\n", category, n)
		}
	}
	Writef(w, "Tags: %d kept, %d dropped\n", stats.TagsKept, stats.TagsDropped)
	return nil
}
