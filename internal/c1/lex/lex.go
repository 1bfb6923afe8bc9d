// Package lex implements the C1 lexer: a hand-built longest-match scanner
// over an ordered table of regular-expression-backed token classes, with
// comment/whitespace skipping, line tracking, and one token of lookahead.
//
// The class table and its declaration order are grounded directly on
// original_source/src/lexer/mod.rs's Logos token definitions; see
// SPEC_FULL.md §5 for the handful of places that file (rather than spec.md's
// prose) pins the exact behavior.
package lex

import (
	"regexp"

	"github.com/ziolkown/cb-5/internal/c1/csource"
	"github.com/ziolkown/cb-5/internal/c1/token"
)

// class is one entry in the ordered token table. match returns the length
// of the longest prefix of s recognized by the class, or 0 for no match.
type class struct {
	kind  token.Kind
	skip  bool
	match func(s string) int
}

func reClass(pattern string, kind token.Kind, skip bool) class {
	re := regexp.MustCompile(`\A(?:` + pattern + `)`)
	return class{
		kind: kind,
		skip: skip,
		match: func(s string) int {
			loc := re.FindStringIndex(s)
			if loc == nil {
				return 0
			}
			return loc[1]
		},
	}
}

func litClass(lit byte, kind token.Kind) class {
	return class{
		kind: kind,
		match: func(s string) int {
			if len(s) > 0 && s[0] == lit {
				return 1
			}
			return 0
		},
	}
}

// floatMatch tries the three alternative CONST_FLOAT patterns independently
// and returns the longest match, matching original_source's union-of-three
// regex (see SPEC_FULL.md §5) rather than relying on a single combined
// regexp's alternation semantics.
var (
	floatDotted   = regexp.MustCompile(`\A[0-9]+\.[0-9]+`)
	floatLeadDot  = regexp.MustCompile(`\A\.[0-9]+(?:[eE][-+]?[0-9]+)?`)
	floatExponent = regexp.MustCompile(`\A[0-9]+[eE][-+]?[0-9]+`)
)

func matchFloat(s string) int {
	best := 0
	for _, re := range []*regexp.Regexp{floatDotted, floatLeadDot, floatExponent} {
		if loc := re.FindStringIndex(s); loc != nil && loc[1] > best {
			best = loc[1]
		}
	}
	return best
}

// classes is the ordered token table. Order only matters among classes that
// can produce equal-length matches at the same position: keywords and
// CONST_BOOLEAN must precede ID so that e.g. "bool" and "true" are not
// mistaken for identifiers.
var classes = []class{
	reClass(`/\*[^*/]*\*/`, 0, true), // C-style comment
	reClass(`//[^\n]*`, 0, true),     // C++-style comment

	reClass(`bool\b`, token.KindKwBool, false),
	reClass(`do\b`, token.KindKwDo, false),
	reClass(`else\b`, token.KindKwElse, false),
	reClass(`float\b`, token.KindKwFloat, false),
	reClass(`for\b`, token.KindKwFor, false),
	reClass(`if\b`, token.KindKwIf, false),
	reClass(`int\b`, token.KindKwInt, false),
	reClass(`printf\b`, token.KindKwPrintf, false),
	reClass(`return\b`, token.KindKwReturn, false),
	reClass(`void\b`, token.KindKwVoid, false),
	reClass(`while\b`, token.KindKwWhile, false),

	reClass(`==`, token.KindEqEq, false),
	reClass(`!=`, token.KindNeq, false),
	reClass(`<=`, token.KindLeq, false),
	reClass(`>=`, token.KindGeq, false),
	reClass(`&&`, token.KindAndAnd, false),
	reClass(`\|\|`, token.KindOrOr, false),
	reClass(`<`, token.KindLess, false),
	reClass(`>`, token.KindGreater, false),

	{kind: token.KindConstFloat, match: matchFloat},
	reClass(`(?:true|false)\b`, token.KindConstBoolean, false),
	reClass(`"[^\n"]*"`, token.KindConstString, false),
	reClass(`[0-9]+`, token.KindConstInt, false),
	reClass(`[A-Za-z]+[0-9A-Za-z]*`, token.KindID, false),

	reClass(`[ \t\f\n]+`, 0, true), // whitespace, including line breaks

	litClass('+', token.Kind('+')),
	litClass('-', token.Kind('-')),
	litClass('*', token.Kind('*')),
	litClass('/', token.Kind('/')),
	litClass('=', token.Kind('=')),
	litClass(',', token.Kind(',')),
	litClass(';', token.Kind(';')),
	litClass('(', token.Kind('(')),
	litClass(')', token.Kind(')')),
	litClass('{', token.Kind('{')),
	litClass('}', token.Kind('}')),
}

// Lexer tokenizes a source string with one token of lookahead.
type Lexer struct {
	src  string
	pos  int
	line uint32

	cur     token.Token
	peek    token.Token
	hasPeek bool
}

// New creates a lexer over src and primes its current token.
func New(src string) *Lexer {
	l := &Lexer{src: src, line: 1}
	l.cur = l.scan()
	return l
}

// Current returns the current token without consuming it.
func (l *Lexer) Current() token.Token {
	return l.cur
}

// Peek returns the token after Current without consuming either.
func (l *Lexer) Peek() token.Token {
	if !l.hasPeek {
		l.peek = l.scan()
		l.hasPeek = true
	}
	return l.peek
}

// Eat advances Current to the next token (consuming Peek's scan if one was
// already cached) and returns the token that was current before advancing.
func (l *Lexer) Eat() token.Token {
	prev := l.cur
	if l.hasPeek {
		l.cur = l.peek
		l.hasPeek = false
	} else {
		l.cur = l.scan()
	}
	return prev
}

// scan finds the next real (non-skipped) token starting at l.pos, advancing
// l.pos and l.line as it goes.
func (l *Lexer) scan() token.Token {
	for {
		if l.pos >= len(l.src) {
			return token.Token{Kind: token.KindEOF, Span: csource.Span{Begin: uint32(l.pos), End: uint32(l.pos), Line: l.line}}
		}

		rest := l.src[l.pos:]
		bestLen := 0
		bestIdx := -1
		for i, c := range classes {
			n := c.match(rest)
			if n > bestLen {
				bestLen = n
				bestIdx = i
			}
		}

		if bestIdx < 0 {
			// No class recognizes this byte: one-byte lexical error token,
			// and scanning resumes on the next byte.
			begin := uint32(l.pos)
			text := rest[:1]
			l.pos++
			return token.Token{Kind: token.KindError, Text: text, Span: csource.Span{Begin: begin, End: begin + 1, Line: l.line}}
		}

		c := classes[bestIdx]
		text := rest[:bestLen]
		begin := uint32(l.pos)
		l.pos += bestLen

		if c.skip {
			for _, r := range text {
				if r == '\n' {
					l.line++
				}
			}
			continue
		}

		return token.Token{Kind: c.kind, Text: text, Span: csource.Span{Begin: begin, End: begin + uint32(bestLen), Line: l.line}}
	}
}
