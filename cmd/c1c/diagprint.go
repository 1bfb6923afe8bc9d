package main

import (
	"fmt"
	"io"

	"github.com/dekarrin/rosed"

	"github.com/ziolkown/cb-5/internal/c1/diag"
)

const diagWrapWidth = 100

// printDiagnostics writes each diagnostic in errs to w, one per line,
// word-wrapped to keep long semantic-error messages readable in a
// terminal.
func printDiagnostics(w io.Writer, label string, errs diag.Errors) {
	for _, e := range errs {
		msg := rosed.Edit(e.Error()).Wrap(diagWrapWidth).String()
		fmt.Fprintf(w, "%s:%d: %s\n", label, e.Line(), msg)
	}
}

func printTrace(w io.Writer, trace []string) {
	for _, line := range trace {
		fmt.Fprintln(w, line)
	}
}
