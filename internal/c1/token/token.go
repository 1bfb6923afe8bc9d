// Package token defines the C1 token alphabet: the single-character ASCII
// operators (their Kind is their own rune value, so it is always < 256) and
// the named classes (keywords, multi-character operators, literals,
// identifiers), whose Kind values are all >= 256.
package token

import (
	"fmt"

	"github.com/ziolkown/cb-5/internal/c1/csource"
)

// Kind identifies a lexical class. Values below 256 are literally the ASCII
// code point of the single-character operator they represent; values at or
// above 256 are named classes enumerated below.
type Kind int32

// Sentinel kinds outside the ASCII/named range.
const (
	KindEOF   Kind = -1 // end of input reached
	KindError Kind = -2 // a byte matched none of the token classes
)

// Named classes, kept at and above 256 so they never collide with an ASCII
// single-character operator's Kind.
const (
	KindKwBool Kind = 256 + iota
	KindKwDo
	KindKwElse
	KindKwFloat
	KindKwFor
	KindKwIf
	KindKwInt
	KindKwPrintf
	KindKwReturn
	KindKwVoid
	KindKwWhile

	KindEqEq
	KindNeq
	KindLeq
	KindGeq
	KindLess
	KindGreater
	KindAndAnd
	KindOrOr

	KindConstInt
	KindConstFloat
	KindConstBoolean
	KindConstString
	KindID
)

var names = map[Kind]string{
	KindEOF:   "end of input",
	KindError: "an unrecognized byte",

	KindKwBool:   "'bool'",
	KindKwDo:     "'do'",
	KindKwElse:   "'else'",
	KindKwFloat:  "'float'",
	KindKwFor:    "'for'",
	KindKwIf:     "'if'",
	KindKwInt:    "'int'",
	KindKwPrintf: "'printf'",
	KindKwReturn: "'return'",
	KindKwVoid:   "'void'",
	KindKwWhile:  "'while'",

	KindEqEq:    "'=='",
	KindNeq:     "'!='",
	KindLeq:     "'<='",
	KindGeq:     "'>='",
	KindLess:    "'<'",
	KindGreater: "'>'",
	KindAndAnd:  "'&&'",
	KindOrOr:    "'||'",

	KindConstInt:     "an integer literal",
	KindConstFloat:   "a float literal",
	KindConstBoolean: "a boolean literal",
	KindConstString:  "a string literal",
	KindID:           "an identifier",
}

// String gives a human-readable name for diagnostics, e.g. "'=='" or
// "an identifier". ASCII single-character kinds render as the quoted rune.
func (k Kind) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	if k >= 0 && k < 256 {
		return fmt.Sprintf("%q", rune(k))
	}
	return fmt.Sprintf("Kind(%d)", int32(k))
}

// Token is one lexical unit: its class, the exact source text it covers,
// and its span.
type Token struct {
	Kind Kind
	Text string
	Span csource.Span
}

func (t Token) String() string {
	return fmt.Sprintf("[%s, %s]", t.Kind, t.Span)
}
