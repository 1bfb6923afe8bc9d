package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	c1 "github.com/ziolkown/cb-5"
)

// cmdRepl reads one program at a time from stdin (a block of lines
// terminated by a blank line), parses it, and prints its diagnostics or
// tree. Entering QUIT (or EOF) ends the session.
func cmdRepl(debug bool) int {
	rl, err := readline.NewEx(&readline.Config{Prompt: "c1> "})
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not start readline: %s\n", err)
		return exitInitError
	}
	defer rl.Close()

	for {
		block, err := readBlock(rl)
		if err == io.EOF {
			return exitSuccess
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			return exitInitError
		}

		trimmed := strings.TrimSpace(block)
		if trimmed == "" {
			continue
		}
		if strings.EqualFold(trimmed, "QUIT") {
			return exitSuccess
		}

		runOne(block, debug)
	}
}

// readBlock accumulates lines from rl until a blank line or EOF, returning
// everything read (the blank line itself is not included).
func readBlock(rl *readline.Instance) (string, error) {
	var b strings.Builder
	sawAnyLine := false

	for {
		line, err := rl.Readline()
		if err != nil {
			if sawAnyLine {
				return b.String(), nil
			}
			return "", err
		}
		sawAnyLine = true

		if strings.TrimSpace(line) == "" {
			return b.String(), nil
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
}

func runOne(source string, debug bool) {
	if debug {
		tree, errs, trace := c1.ParseDebug(source)
		printTrace(os.Stdout, trace)
		if len(errs) > 0 {
			printDiagnostics(os.Stdout, "repl", errs)
			return
		}
		fmt.Println(tree.Print())
		return
	}

	tree, errs := c1.Parse(source)
	if len(errs) > 0 {
		printDiagnostics(os.Stdout, "repl", errs)
		return
	}
	fmt.Println(tree.Print())
}
