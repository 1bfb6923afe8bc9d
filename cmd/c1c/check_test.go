package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempSource(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.c1")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestCmdCheck_NoFiles(t *testing.T) {
	assert.Equal(t, exitUsageError, cmdCheck(nil, false))
}

func TestCmdCheck_ValidSource(t *testing.T) {
	f := writeTempSource(t, "void main() {}")
	assert.Equal(t, exitSuccess, cmdCheck([]string{f}, false))
}

func TestCmdCheck_SyntaxError(t *testing.T) {
	f := writeTempSource(t, "void main( {}")
	assert.Equal(t, exitCompileErrors, cmdCheck([]string{f}, false))
}

func TestCmdCheck_MissingFile(t *testing.T) {
	assert.Equal(t, exitCompileErrors, cmdCheck([]string{filepath.Join(t.TempDir(), "nope.c1")}, false))
}

func TestCmdCheck_DebugTracePrintsWithoutChangingResult(t *testing.T) {
	f := writeTempSource(t, "void main() {}")
	assert.Equal(t, exitSuccess, cmdCheck([]string{f}, true))
}
