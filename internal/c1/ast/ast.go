// Package ast defines the C1 syntax tree: a closed set of node variants
// (NodeValue) and the Tree that carries them, with the exact per-variant
// display text and bracketed recursive print layout pinned down by
// original_source/src/parser/syntax_c1.rs and
// original_source/tests/syntax_tree.rs (see SPEC_FULL.md §5).
package ast

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/ziolkown/cb-5/internal/c1/symbols"
)

// Kind discriminates the variants of NodeValue.
type Kind int

const (
	Root Kind = iota
	Program
	Sequence

	IntegerLit
	FloatLit
	BooleanLit
	StringLit

	VariableDeclaration
	Parameter
	FunctionDeclaration
	VariableRef
	FunctionCall

	If
	While
	DoWhile
	For
	Print
	Assign
	Return

	Plus
	Minus
	Times
	Divide
	UMinus
	Cast

	LogOr
	LogAnd
	Eq
	Neq
	Leq
	Geq
	Lst
	Grt
)

// NodeValue is the payload carried by a Tree node. Which fields are
// meaningful depends on Kind; this mirrors the Rust source's closed enum
// as a single tagged struct, the idiomatic Go rendering of a closed variant
// type with no behavior attached to individual variants.
type NodeValue struct {
	Kind Kind

	IntVal    int32
	FloatVal  float64
	BoolVal   bool
	StringVal string // literal text (includes quotes) for StringLit; name otherwise
	Type      symbols.Type
}

// SymbolType reports the static type this node's value would have, per
// original_source/src/parser/syntax_c1.rs's symbol_type() match arms.
func (v NodeValue) SymbolType() symbols.Type {
	switch v.Kind {
	case IntegerLit:
		return symbols.Integer
	case FloatLit:
		return symbols.Float
	case BooleanLit:
		return symbols.Boolean
	case StringLit:
		return symbols.String
	case Return, VariableRef, FunctionCall, Cast, Assign, Plus, Minus, Times, Divide, UMinus:
		return v.Type
	case LogOr, LogAnd, Eq, Neq, Leq, Geq, Lst, Grt:
		return symbols.Boolean
	default:
		return symbols.Void
	}
}

func (v NodeValue) display() string {
	switch v.Kind {
	case Root:
		return "Root"
	case Program:
		return "Program"
	case Sequence:
		return "Sequence"
	case IntegerLit:
		return fmt.Sprintf("Integer Literal: %d", v.IntVal)
	case FloatLit:
		return fmt.Sprintf("Float Literal: %v", v.FloatVal)
	case BooleanLit:
		return fmt.Sprintf("Boolean Literal: %t", v.BoolVal)
	case StringLit:
		return fmt.Sprintf("String Literal: %s", v.StringVal)
	case VariableDeclaration:
		return fmt.Sprintf("VariableDeclaration(%q)", v.StringVal)
	case Parameter:
		return fmt.Sprintf("Parameter(%q)", v.StringVal)
	case FunctionDeclaration:
		return fmt.Sprintf("FunctionDeclaration: %s", v.StringVal)
	case VariableRef:
		return fmt.Sprintf("VariableRef(%q, %s)", v.StringVal, v.Type)
	case FunctionCall:
		return fmt.Sprintf("FunctionCall: %s", v.StringVal)
	case If:
		return "If"
	case While:
		return "While"
	case DoWhile:
		return "DoWhile"
	case For:
		return "For"
	case Print:
		return "Print"
	case Assign:
		return fmt.Sprintf("Assign(%s)", v.Type)
	case Return:
		return fmt.Sprintf("Return(%s)", v.Type)
	case Plus:
		return fmt.Sprintf("Plus(%s)", v.Type)
	case Minus:
		return fmt.Sprintf("Minus(%s)", v.Type)
	case Times:
		return fmt.Sprintf("Times(%s)", v.Type)
	case Divide:
		return fmt.Sprintf("Divide(%s)", v.Type)
	case UMinus:
		return fmt.Sprintf("UMinus(%s)", v.Type)
	case Cast:
		return fmt.Sprintf("Cast(%s)", v.Type)
	case LogOr:
		return "LogOr"
	case LogAnd:
		return "LogAnd"
	case Eq:
		return "Eq"
	case Neq:
		return "Neq"
	case Leq:
		return "Leq"
	case Geq:
		return "Geq"
	case Lst:
		return "Lst"
	case Grt:
		return "Grt"
	default:
		return fmt.Sprintf("NodeValue(%d)", int(v.Kind))
	}
}

var nextID uint64

// Tree is a node of the syntax tree: a NodeValue plus its children, in
// left-to-right grammar order, and a monotonically-increasing id assigned
// at construction time.
type Tree struct {
	id       uint64
	Value    NodeValue
	Children []*Tree
}

// New constructs a leaf Tree carrying v. Use Append to attach children.
func New(v NodeValue) *Tree {
	return &Tree{id: atomic.AddUint64(&nextID, 1), Value: v}
}

// ID returns this node's construction-order identifier.
func (t *Tree) ID() uint64 {
	return t.id
}

// Append attaches child as the next (left-to-right) child of t and returns
// t, so callers can chain Append calls while assembling a reduction.
func (t *Tree) Append(child *Tree) *Tree {
	t.Children = append(t.Children, child)
	return t
}

// SymbolType delegates to the node's own NodeValue.
func (t *Tree) SymbolType() symbols.Type {
	return t.Value.SymbolType()
}

// Print renders t in the bracketed, 2-space-per-level form used by
// original_source/tests/syntax_tree.rs's golden output: a leaf renders as
// just its display text; a node with children renders its display text
// followed by an indented, comma-newline-separated, bracketed child list.
func (t *Tree) Print() string {
	var b strings.Builder
	t.print(&b, 0)
	return b.String()
}

func (t *Tree) print(b *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	b.WriteString(indent)
	b.WriteString(t.Value.display())
	if len(t.Children) == 0 {
		return
	}
	b.WriteByte('\n')
	b.WriteString(indent)
	b.WriteString("[\n")
	for i, c := range t.Children {
		c.print(b, depth+1)
		if i < len(t.Children)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString(indent)
	b.WriteByte(']')
}

// Convenience constructors, one per NodeValue variant.

func NewRoot() *Tree    { return New(NodeValue{Kind: Root}) }
func NewProgram() *Tree { return New(NodeValue{Kind: Program}) }
func NewSequence() *Tree {
	return New(NodeValue{Kind: Sequence})
}

func NewInteger(v int32) *Tree  { return New(NodeValue{Kind: IntegerLit, IntVal: v}) }
func NewFloat(v float64) *Tree  { return New(NodeValue{Kind: FloatLit, FloatVal: v}) }
func NewBoolean(v bool) *Tree   { return New(NodeValue{Kind: BooleanLit, BoolVal: v}) }
func NewString(lit string) *Tree {
	return New(NodeValue{Kind: StringLit, StringVal: lit})
}

func NewVariableDeclaration(name string) *Tree {
	return New(NodeValue{Kind: VariableDeclaration, StringVal: name})
}
func NewParameter(name string) *Tree {
	return New(NodeValue{Kind: Parameter, StringVal: name})
}
func NewFunctionDeclaration(name string) *Tree {
	return New(NodeValue{Kind: FunctionDeclaration, StringVal: name})
}
func NewVariableRef(name string, t symbols.Type) *Tree {
	return New(NodeValue{Kind: VariableRef, StringVal: name, Type: t})
}
func NewFunctionCall(name string, t symbols.Type) *Tree {
	return New(NodeValue{Kind: FunctionCall, StringVal: name, Type: t})
}

func NewIf() *Tree      { return New(NodeValue{Kind: If}) }
func NewWhile() *Tree   { return New(NodeValue{Kind: While}) }
func NewDoWhile() *Tree { return New(NodeValue{Kind: DoWhile}) }
func NewFor() *Tree     { return New(NodeValue{Kind: For}) }
func NewPrint() *Tree   { return New(NodeValue{Kind: Print}) }
func NewAssign(t symbols.Type) *Tree {
	return New(NodeValue{Kind: Assign, Type: t})
}
func NewReturn(t symbols.Type) *Tree {
	return New(NodeValue{Kind: Return, Type: t})
}

func NewPlus(t symbols.Type) *Tree   { return New(NodeValue{Kind: Plus, Type: t}) }
func NewMinus(t symbols.Type) *Tree  { return New(NodeValue{Kind: Minus, Type: t}) }
func NewTimes(t symbols.Type) *Tree  { return New(NodeValue{Kind: Times, Type: t}) }
func NewDivide(t symbols.Type) *Tree { return New(NodeValue{Kind: Divide, Type: t}) }
func NewUMinus(t symbols.Type) *Tree { return New(NodeValue{Kind: UMinus, Type: t}) }
func NewCast(t symbols.Type) *Tree   { return New(NodeValue{Kind: Cast, Type: t}) }

func NewLogOr() *Tree  { return New(NodeValue{Kind: LogOr}) }
func NewLogAnd() *Tree { return New(NodeValue{Kind: LogAnd}) }
func NewEq() *Tree     { return New(NodeValue{Kind: Eq}) }
func NewNeq() *Tree    { return New(NodeValue{Kind: Neq}) }
func NewLeq() *Tree    { return New(NodeValue{Kind: Leq}) }
func NewGeq() *Tree    { return New(NodeValue{Kind: Geq}) }
func NewLst() *Tree    { return New(NodeValue{Kind: Lst}) }
func NewGrt() *Tree    { return New(NodeValue{Kind: Grt}) }
