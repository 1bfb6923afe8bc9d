/*
C1c is a front end for the C1 language: a checker, a tree dumper, an
interactive REPL, and an HTTP compile service.

Usage:

	c1c check FILE...
	c1c dump FILE
	c1c repl [flags]
	c1c serve [flags]

The flags are:

	-v, --version
		Give the current version of c1c and then exit.

	-d, --debug
		Enable the parser's rule-entry trace, printed to stderr alongside
		normal output. Applies to check, dump, and repl.

	-c, --config FILE
		Load a TOML config file. See config.go for the recognized keys.
		Only consulted by serve.
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/ziolkown/cb-5/internal/version"
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of c1c and then exit.")
	flagDebug   = pflag.BoolP("debug", "d", false, "Enable the parser's rule-entry trace.")
	flagConfig  = pflag.StringP("config", "c", "", "Load a TOML config file (serve only).")
)

const (
	exitSuccess = iota
	exitUsageError
	exitCompileErrors
	exitInitError
)

func main() {
	os.Exit(run())
}

func run() int {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("c1c %s\n", version.Current)
		return exitSuccess
	}

	args := pflag.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: c1c {check|dump|repl|serve} ...\nDo -h for help.\n")
		return exitUsageError
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "check":
		return cmdCheck(rest, *flagDebug)
	case "dump":
		return cmdDump(rest, *flagDebug)
	case "repl":
		return cmdRepl(*flagDebug)
	case "serve":
		return cmdServe(*flagConfig)
	default:
		fmt.Fprintf(os.Stderr, "Unknown subcommand %q\nDo -h for help.\n", sub)
		return exitUsageError
	}
}
