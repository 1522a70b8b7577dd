package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hoangluudev/modmerge"
	"github.com/hoangluudev/modmerge/cmd/modmerge/commands"
	"github.com/hoangluudev/modmerge/internal/mcpserver"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("modmerge v%s\n", modmerge.Version())
	case "help", "-h", "--help":
		printUsage()
	case "scan":
		if err := commands.HandleScan(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "preview":
		if err := commands.HandlePreview(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "merge":
		if err := commands.HandleMerge(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "fixdupes":
		if err := commands.HandleFixDupes(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "registry":
		if err := commands.HandleRegistry(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mcp":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := mcpserver.Run(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`modmerge v%s - semantic merge for game mod XML configuration

Usage: modmerge <command> [flags] [args]

Commands:
  scan      Inventory the configuration files a set of mods ships
  preview   Dry-run a merge against a mission, classifying every entry
  merge     Merge mods into a mission with explicit conflict policy
  fixdupes  Collapse duplicate entries inside a merged file
  registry  List the known configuration file types and their merge rules
  mcp       Start the MCP server (stdio)
  version   Show version information
  help      Show this help message

Run 'modmerge <command> -h' for command-specific flags.

Examples:
  modmerge scan mods/@Trader mods/@Dogs
  modmerge preview -m mission mods/@Trader mods/@Dogs
  modmerge merge -m mission --resolve last mods/@Trader mods/@Dogs
  modmerge fixdupes mission/db/types.xml
`, modmerge.Version())
}
