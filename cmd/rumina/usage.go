package main

import (
	"fmt"
	"os"
)

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  rumina [flags] run <program.yml|program.json> [more programs...]")
	fmt.Fprintln(os.Stderr, "  rumina [flags] <program.yml|program.json>")
	fmt.Fprintln(os.Stderr, "  rumina [flags] parity [fixture dirs or programs...]")
	fmt.Fprintln(os.Stderr, "  rumina [flags] cas")
	fmt.Fprintln(os.Stderr, "  rumina version")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Flags:")
	fmt.Fprintln(os.Stderr, "  --exec-mode=treewalker|bytecode")
	fmt.Fprintln(os.Stderr, "  --config=<path to rumina.yml>")
	fmt.Fprintln(os.Stderr, "  --log-level=debug|verbose|info|warning|error")
}
