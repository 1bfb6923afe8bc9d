// Package sval is the heterogeneous value type threaded between grammar
// actions: the Go rendering of the bison-skeleton Value union in
// original_source/src/parser/bison_skeleton/value.rs (see SPEC_FULL.md §5).
// The parser in internal/c1/parse is hand-written recursive descent rather
// than a literal shift-reduce machine, so sval.Value is used as the return
// type grammar-action helpers pass between recursive-descent levels, not as
// literal parser-stack slots; its panicking Unwrap* accessors exist to
// catch the same class of "action expected a different kind of value"
// programmer mistakes the bison skeleton guards against.
package sval

import (
	"fmt"

	"github.com/ziolkown/cb-5/internal/c1/ast"
	"github.com/ziolkown/cb-5/internal/c1/symbols"
	"github.com/ziolkown/cb-5/internal/c1/token"
)

// Kind discriminates the variants Value can hold.
type Kind int

const (
	KindNone Kind = iota
	KindUninitialized
	KindStolen
	KindToken
	KindTree
	KindSymbolType
	KindName
)

// Value is a tagged union over the handful of shapes a grammar action needs
// to produce or consume. The zero Value is Stolen, matching the bison
// skeleton's Default impl: a value that has not been explicitly set reads
// as "already taken".
type Value struct {
	Kind  Kind
	Token token.Token
	Tree  *ast.Tree
	Type  symbols.Type
	Name  string
}

// None is an explicit "no value" result, e.g. an optional grammar element
// that was not present.
func None() Value { return Value{Kind: KindNone} }

// Uninitialized marks a slot reserved before its real value is known.
func Uninitialized() Value { return Value{Kind: KindUninitialized} }

// Stolen is the zero Value: a slot already consumed by an earlier action.
func Stolen() Value { return Value{Kind: KindStolen} }

func FromToken(t token.Token) Value { return Value{Kind: KindToken, Token: t} }
func FromTree(t *ast.Tree) Value    { return Value{Kind: KindTree, Tree: t} }
func FromType(t symbols.Type) Value { return Value{Kind: KindSymbolType, Type: t} }
func FromName(n string) Value       { return Value{Kind: KindName, Name: n} }

// UnwrapTree returns the held Tree, panicking if Kind != KindTree.
func (v Value) UnwrapTree() *ast.Tree {
	if v.Kind != KindTree {
		panic(fmt.Sprintf("sval: tried to unwrap a %s value into a Tree", v.Kind))
	}
	return v.Tree
}

// UnwrapToken returns the held Token, panicking if Kind != KindToken.
func (v Value) UnwrapToken() token.Token {
	if v.Kind != KindToken {
		panic(fmt.Sprintf("sval: tried to unwrap a %s value into a Token", v.Kind))
	}
	return v.Token
}

// UnwrapName returns a name string: either a bare Name value or the text of
// a held Token (an identifier lexeme doubles as a name), panicking
// otherwise.
func (v Value) UnwrapName() string {
	switch v.Kind {
	case KindName:
		return v.Name
	case KindToken:
		return v.Token.Text
	default:
		panic(fmt.Sprintf("sval: tried to unwrap a %s value into a Name", v.Kind))
	}
}

// UnwrapType returns the held SymbolType, panicking if Kind != KindSymbolType.
func (v Value) UnwrapType() symbols.Type {
	if v.Kind != KindSymbolType {
		panic(fmt.Sprintf("sval: tried to unwrap a %s value into a SymbolType", v.Kind))
	}
	return v.Type
}

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindUninitialized:
		return "Uninitialized"
	case KindStolen:
		return "Stolen"
	case KindToken:
		return "Token"
	case KindTree:
		return "Tree"
	case KindSymbolType:
		return "SymbolType"
	case KindName:
		return "Name"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}
