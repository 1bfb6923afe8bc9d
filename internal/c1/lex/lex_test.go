package lex_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ziolkown/cb-5/internal/c1/lex"
	"github.com/ziolkown/cb-5/internal/c1/token"
)

func kinds(src string) []token.Kind {
	l := lex.New(src)
	var ks []token.Kind
	for {
		tok := l.Eat()
		ks = append(ks, tok.Kind)
		if tok.Kind == token.KindEOF {
			return ks
		}
	}
}

func TestLinesAreCounted(t *testing.T) {
	l := lex.New("int\nint\nint")
	assert.EqualValues(t, 1, l.Current().Span.Line)
	l.Eat()
	assert.EqualValues(t, 2, l.Current().Span.Line)
	l.Eat()
	assert.EqualValues(t, 3, l.Current().Span.Line)
}

func TestLineCountResetsPerLexer(t *testing.T) {
	l1 := lex.New("int\nint")
	l1.Eat()
	assert.EqualValues(t, 2, l1.Current().Span.Line)

	l2 := lex.New("int")
	assert.EqualValues(t, 1, l2.Current().Span.Line)
}

func TestFloatRecognition(t *testing.T) {
	cases := []string{"1.2", ".2", "1.2e4", "1.2e+4", "1.2e-10", "1.2E-10", "33E+2"}
	for _, c := range cases {
		l := lex.New(c)
		assert.Equalf(t, token.KindConstFloat, l.Current().Kind, "input %q", c)
	}
}

func TestIntVsFloat(t *testing.T) {
	l := lex.New("1 1.5 1.")
	assert.Equal(t, token.KindConstInt, l.Eat().Kind)
	assert.Equal(t, token.KindConstFloat, l.Eat().Kind)
	// "1." has no fractional digit, so it tokenizes as int then an
	// unrecognized '.' lexical error.
	assert.Equal(t, token.KindConstInt, l.Eat().Kind)
	assert.Equal(t, token.KindError, l.Eat().Kind)
}

func TestKeywordsWinOverIdentifiers(t *testing.T) {
	ks := kinds("bool boolean true truest")
	assert.Equal(t, []token.Kind{
		token.KindKwBool,
		token.KindID,
		token.KindConstBoolean,
		token.KindID,
		token.KindEOF,
	}, ks)
}

func TestCommentsAndWhitespaceAreSkipped(t *testing.T) {
	ks := kinds("int /* comment\nspanning lines */ x // trailing\n= 1;")
	assert.Equal(t, []token.Kind{
		token.KindKwInt,
		token.KindID,
		token.Kind('='),
		token.KindConstInt,
		token.Kind(';'),
		token.KindEOF,
	}, ks)
}

func TestCommentSpansLinesCorrectly(t *testing.T) {
	l := lex.New("int /*\n\n*/ x")
	l.Eat() // int
	assert.EqualValues(t, 3, l.Current().Span.Line)
}

func TestMultiCharOperators(t *testing.T) {
	ks := kinds("== != <= >= && || < >")
	assert.Equal(t, []token.Kind{
		token.KindEqEq, token.KindNeq, token.KindLeq, token.KindGeq,
		token.KindAndAnd, token.KindOrOr, token.KindLess, token.KindGreater,
		token.KindEOF,
	}, ks)
}

func TestStringLiteral(t *testing.T) {
	l := lex.New(`"hello, world"`)
	tok := l.Current()
	assert.Equal(t, token.KindConstString, tok.Kind)
	assert.Equal(t, `"hello, world"`, tok.Text)
}

func TestUnrecognizedByteIsLexicalError(t *testing.T) {
	l := lex.New("int x @ 1;")
	for l.Current().Kind != token.Kind('@') && l.Current().Kind != token.KindError {
		l.Eat()
	}
	assert.Equal(t, token.KindError, l.Current().Kind)
	assert.Equal(t, "@", l.Current().Text)
	l.Eat()
	assert.Equal(t, token.KindConstInt, l.Current().Kind)
}

func TestPeekDoesNotConsume(t *testing.T) {
	l := lex.New("int x")
	first := l.Current()
	peeked := l.Peek()
	assert.Equal(t, token.KindKwInt, first.Kind)
	assert.Equal(t, token.KindID, peeked.Kind)
	assert.Equal(t, token.KindKwInt, l.Current().Kind)
	l.Eat()
	assert.Equal(t, token.KindID, l.Current().Kind)
}
