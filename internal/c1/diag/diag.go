// Package diag collects the diagnostics produced while analyzing a C1
// program: an ordered list of Error values, each tagged Lexical,
// Syntactical, or Semantic. Analysis never stops at the first error; it
// keeps going (recovering at synchronizing tokens where needed) and
// reports everything it found.
//
// The constructor-functions-over-a-private-struct shape is grounded on
// internal/tqerrors/tqerrors.go; the "<Kind> Error: <message>" rendering
// and the convention that callers care about the first reported error's
// Kind come from original_source/src/error.rs and
// original_source/tests/semantic.rs (see SPEC_FULL.md §5).
package diag

import "fmt"

// Kind classifies an Error by which phase of analysis produced it.
type Kind int

const (
	Lexical Kind = iota
	Syntactical
	Semantic
)

func (k Kind) String() string {
	switch k {
	case Lexical:
		return "Lexical"
	case Syntactical:
		return "Syntactical"
	case Semantic:
		return "Semantic"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is one reported diagnostic.
type Error struct {
	kind    Kind
	message string
	line    uint32
}

// NewLexical, NewSyntactical, and NewSemantic build an Error of the named
// kind, formatting message/args with fmt.Sprintf.
func NewLexical(line uint32, format string, args ...any) Error {
	return Error{kind: Lexical, line: line, message: fmt.Sprintf(format, args...)}
}

func NewSyntactical(line uint32, format string, args ...any) Error {
	return Error{kind: Syntactical, line: line, message: fmt.Sprintf(format, args...)}
}

func NewSemantic(line uint32, format string, args ...any) Error {
	return Error{kind: Semantic, line: line, message: fmt.Sprintf(format, args...)}
}

// Kind reports which phase produced this diagnostic.
func (e Error) Kind() Kind { return e.kind }

// Line reports the 1-based source line the diagnostic applies to.
func (e Error) Line() uint32 { return e.line }

// Message returns the diagnostic's text, without the "<Kind> Error: "
// prefix Error() adds.
func (e Error) Message() string { return e.message }

// Error implements the error interface, rendering as e.g.
// "Semantic Error: main has been defined twice in the current scope (1)".
func (e Error) Error() string {
	return fmt.Sprintf("%s Error: %s", e.kind, e.message)
}

// Errors is an ordered collection of diagnostics, in the order they were
// reported.
type Errors []Error

// Collector accumulates diagnostics during analysis.
type Collector struct {
	errs Errors
}

// Add appends e.
func (c *Collector) Add(e Error) { c.errs = append(c.errs, e) }

// Lexical, Syntactical, and Semantic append a diagnostic of the named kind.
func (c *Collector) Lexical(line uint32, format string, args ...any) {
	c.Add(NewLexical(line, format, args...))
}

func (c *Collector) Syntactical(line uint32, format string, args ...any) {
	c.Add(NewSyntactical(line, format, args...))
}

func (c *Collector) Semantic(line uint32, format string, args ...any) {
	c.Add(NewSemantic(line, format, args...))
}

// HasErrors reports whether any diagnostic has been collected.
func (c *Collector) HasErrors() bool { return len(c.errs) > 0 }

// Errors returns the collected diagnostics, in report order.
func (c *Collector) Errors() Errors { return c.errs }
