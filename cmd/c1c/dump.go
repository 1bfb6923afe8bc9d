package main

import (
	"fmt"
	"os"

	"golang.org/x/text/encoding/unicode"

	c1 "github.com/ziolkown/cb-5"
	"github.com/ziolkown/cb-5/internal/c1/ast"
)

// cmdDump parses file and prints its syntax tree's bracketed form to
// stdout. If the file has any diagnostics, they are printed to stderr
// instead and nothing is dumped.
func cmdDump(args []string, debug bool) int {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "Usage: c1c dump FILE\n")
		return exitUsageError
	}
	f := args[0]

	raw, err := os.ReadFile(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", f, err)
		return exitInitError
	}

	source, err := unicode.UTF8.NewDecoder().Bytes(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: not valid UTF-8: %s\n", f, err)
		return exitCompileErrors
	}

	tree := dumpParse(string(source), debug)
	if tree == nil {
		return exitCompileErrors
	}

	fmt.Println(tree.Print())
	return exitSuccess
}

func dumpParse(source string, debug bool) *ast.Tree {
	if debug {
		tree, errs, trace := c1.ParseDebug(source)
		printTrace(os.Stderr, trace)
		if len(errs) > 0 {
			printDiagnostics(os.Stderr, "dump", errs)
			return nil
		}
		return tree
	}

	tree, errs := c1.Parse(source)
	if len(errs) > 0 {
		printDiagnostics(os.Stderr, "dump", errs)
		return nil
	}
	return tree
}
