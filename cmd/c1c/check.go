package main

import (
	"fmt"
	"os"

	"golang.org/x/text/encoding/unicode"

	c1 "github.com/ziolkown/cb-5"
	"github.com/ziolkown/cb-5/internal/c1/diag"
)

// cmdCheck reads and parses each file, printing its diagnostics to stderr.
// Exit status is non-zero if any file had errors.
func cmdCheck(files []string, debug bool) int {
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: c1c check FILE...\n")
		return exitUsageError
	}

	hadErrors := false
	for _, f := range files {
		raw, err := os.ReadFile(f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", f, err)
			hadErrors = true
			continue
		}

		source, err := unicode.UTF8.NewDecoder().Bytes(raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: not valid UTF-8: %s\n", f, err)
			hadErrors = true
			continue
		}

		var errs diag.Errors
		if debug {
			var trace []string
			_, errs, trace = c1.ParseDebug(string(source))
			printTrace(os.Stderr, trace)
		} else {
			_, errs = c1.Parse(string(source))
		}

		if len(errs) > 0 {
			hadErrors = true
		}
		printDiagnostics(os.Stderr, f, errs)
	}

	if hadErrors {
		return exitCompileErrors
	}
	return exitSuccess
}
