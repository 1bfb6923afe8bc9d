// Package c1 is the front end of a C1 compiler: a lexer, a recursive-
// descent parser, a static symbol table, and the type-checking rules that
// turn a syntactically valid program into a fully annotated syntax tree.
// It is a pure function of its input: no file I/O, no logging, no global
// state beyond the syntax tree's own monotonic node-id counter.
//
// Parse is the single entry point, grounded on
// internal/ictiobus/ictiobus.go's Frontend.Analyze three-phase pipeline
// (lex -> parse -> finalize) reduced to C1's fixed, non-generated grammar.
package c1

import (
	"github.com/ziolkown/cb-5/internal/c1/ast"
	"github.com/ziolkown/cb-5/internal/c1/diag"
	"github.com/ziolkown/cb-5/internal/c1/lex"
	"github.com/ziolkown/cb-5/internal/c1/parse"
)

// Parse analyzes source (which must already be valid UTF-8 — callers at
// the program's boundaries are responsible for that check; see
// SPEC_FULL.md §4.2) and returns either the finished syntax tree, or every
// diagnostic collected along the way, in report order. The two results are
// mutually exclusive: a non-nil tree always comes with a nil/empty error
// list and vice versa.
func Parse(source string) (*ast.Tree, diag.Errors) {
	p := parse.New(lex.New(source))
	return p.DoParse()
}

// ParseDebug is Parse with the parser's rule-entry trace enabled; the trace
// is returned alongside the usual result for tools like cmd/c1c's
// --debug flag.
func ParseDebug(source string) (*ast.Tree, diag.Errors, []string) {
	p := parse.New(lex.New(source))
	p.Debug = true
	tree, errs := p.DoParse()
	return tree, errs, p.DebugTrace()
}
