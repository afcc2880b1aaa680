package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	oasfilter "github.com/erraggy/oasfilter"
	"github.com/erraggy/oasfilter/cmd/oasfilter/commands"
	"github.com/erraggy/oasfilter/internal/mcpserver"
)

func main() {
	args := os.Args[1:]
	command := ""
	if len(args) > 0 {
		command = args[0]
	}

	switch command {
	case "version", "-V", "--version":
		fmt.Printf("oasfilter v%s\n", oasfilter.Version())
		fmt.Printf("commit: %s\n", oasfilter.Commit())
		fmt.Printf("built: %s\n", oasfilter.BuildTime())
		fmt.Printf("go: %s\n", oasfilter.GoVersion())
	case "help":
		printUsage()
	case "mcp":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := mcpserver.Run(ctx); err != nil {
			commands.Writef(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "filter":
		if err := commands.HandleFilter(args[1:]); err != nil {
			commands.Writef(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		// Filtering is the default command: anything else (flags, a file
		// path, '-', or nothing at all) goes straight to the filter handler
		// so that `oasfilter -p /users api.yaml` works without naming a
		// subcommand.
		if err := commands.HandleFilter(args); err != nil {
			commands.Writef(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

func printUsage() {
	fmt.Println(`oasfilter - OpenAPI operation and component filtering

Usage:
  oasfilter [filter] [flags] [<file|->]
  oasfilter <command>

Commands:
  filter      Filter an OpenAPI document (the default when omitted)
  mcp         Start an MCP server over stdio
  version     Show version information
  help        Show this help message

Examples:
  oasfilter -p /users openapi.yaml
  oasfilter -p '/users/*' -m get openapi.yaml
  oasfilter --tag admin --security apiKey -o admin.yaml openapi.yaml
  cat openapi.json | oasfilter -q -m get - > read-only.json

Run 'oasfilter filter --help' for the full flag reference.`)
}
