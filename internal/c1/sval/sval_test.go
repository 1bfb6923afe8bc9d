package sval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ziolkown/cb-5/internal/c1/ast"
	"github.com/ziolkown/cb-5/internal/c1/sval"
	"github.com/ziolkown/cb-5/internal/c1/symbols"
	"github.com/ziolkown/cb-5/internal/c1/token"
)

func TestZeroValueIsStolen(t *testing.T) {
	var v sval.Value
	assert.Equal(t, sval.KindStolen, v.Kind)
}

func TestWrapAndUnwrapTree(t *testing.T) {
	tree := ast.NewInteger(1)
	v := sval.FromTree(tree)
	assert.Same(t, tree, v.UnwrapTree())
}

func TestUnwrapNameAcceptsTokenOrName(t *testing.T) {
	assert.Equal(t, "x", sval.FromName("x").UnwrapName())
	assert.Equal(t, "y", sval.FromToken(token.Token{Kind: token.KindID, Text: "y"}).UnwrapName())
}

func TestUnwrapMismatchPanics(t *testing.T) {
	v := sval.FromType(symbols.Integer)
	assert.Panics(t, func() { v.UnwrapTree() })
	assert.Panics(t, func() { v.UnwrapToken() })
	assert.Panics(t, func() { v.UnwrapName() })
}
