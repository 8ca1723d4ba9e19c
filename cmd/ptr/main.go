package main

import (
	"fmt"
	"os"

	"github.com/agiangrant/pullrefresh/cmd/ptr/commands"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "demo":
		err = commands.Demo(args)
	case "replay":
		err = commands.Replay(args)
	case "init":
		err = commands.Init(args)
	case "version", "-v", "--version":
		fmt.Printf("ptr version %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`ptr - pull-to-refresh gesture tools

Usage: ptr <command> [options]

Commands:
  demo            Run the interactive terminal demo
  replay          Replay a gesture script and print a frame trace
  init            Write a default pullrefresh.toml and an example script
  version         Print version information
  help            Show this help message

Examples:
  ptr demo                          Drag down with the mouse to refresh
  ptr demo --debug ptr.log          Log phase changes to ptr.log
  ptr replay scripts/pull.yaml      Print the trace of a scripted gesture
  ptr init --density 3              Configure for a 3x display

Configuration:
  Gesture geometry, indicator style and timings are read from
  pullrefresh.toml in the working directory (override with --config).
  Run 'ptr init' to create one with the default values.`)
}
