package main

import (
	"fmt"
	"os"
)

const cliToolVersion = "rumina 0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	flags, remaining, err := parseGlobalFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if len(remaining) == 0 {
		printUsage()
		return 1
	}

	switch remaining[0] {
	case "--help", "-h", "help":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	}

	cfg, err := resolveConfig(flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	switch remaining[0] {
	case "run":
		return runEntry(remaining[1:], cfg)
	case "parity":
		return runParity(remaining[1:], cfg)
	case "cas":
		return runCASRepl(remaining[1:], cfg)
	default:
		return runEntry(remaining, cfg)
	}
}
