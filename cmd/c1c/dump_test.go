package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCmdDump_WrongArgCount(t *testing.T) {
	assert.Equal(t, exitUsageError, cmdDump(nil, false))
	assert.Equal(t, exitUsageError, cmdDump([]string{"a", "b"}, false))
}

func TestCmdDump_ValidSource(t *testing.T) {
	f := writeTempSource(t, "void main() {}")
	assert.Equal(t, exitSuccess, cmdDump([]string{f}, false))
}

func TestCmdDump_SyntaxError(t *testing.T) {
	f := writeTempSource(t, "void main( {}")
	assert.Equal(t, exitCompileErrors, cmdDump([]string{f}, false))
}

func TestDumpParse_ReturnsTreeOnSuccess(t *testing.T) {
	tree := dumpParse("void main() {}", false)
	require.NotNil(t, tree)
	assert.Contains(t, tree.Print(), "FunctionDeclaration: main")
}

func TestDumpParse_ReturnsNilOnError(t *testing.T) {
	tree := dumpParse("void main( {}", false)
	assert.Nil(t, tree)
}
