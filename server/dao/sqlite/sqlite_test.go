package sqlite_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziolkown/cb-5/server/dao"
	"github.com/ziolkown/cb-5/server/dao/sqlite"
)

func newTestStore(t *testing.T) dao.Store {
	t.Helper()
	store, err := sqlite.NewDatastore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCreateAndGetByID(t *testing.T) {
	store := newTestStore(t)

	created, err := store.CompileJobs().Create(context.Background(), dao.CompileJob{
		SourceHash: "abc123",
		Source:     "x := 1;",
		Succeeded:  true,
		TreeText:   "Program",
		Diagnostics: []dao.Diagnostic{
			{Kind: "Semantic", Line: 2, Message: "undeclared identifier"},
		},
	})
	require.NoError(t, err)

	got, err := store.CompileJobs().GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.SourceHash, got.SourceHash)
	assert.Equal(t, created.Source, got.Source)
	assert.True(t, got.Succeeded)
	assert.Equal(t, []dao.Diagnostic{{Kind: "Semantic", Line: 2, Message: "undeclared identifier"}}, got.Diagnostics)
}

func TestGetBySourceHash(t *testing.T) {
	store := newTestStore(t)

	created, err := store.CompileJobs().Create(context.Background(), dao.CompileJob{
		SourceHash: "deadbeef",
		Source:     "x := 1;",
	})
	require.NoError(t, err)

	got, err := store.CompileJobs().GetBySourceHash(context.Background(), "deadbeef")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestGetByID_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.CompileJobs().GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, dao.ErrNotFound)
}

func TestCreate_DuplicateSourceHash(t *testing.T) {
	store := newTestStore(t)

	job := dao.CompileJob{SourceHash: "samehash", Source: "x := 1;"}
	_, err := store.CompileJobs().Create(context.Background(), job)
	require.NoError(t, err)

	_, err = store.CompileJobs().Create(context.Background(), job)
	assert.ErrorIs(t, err, dao.ErrConstraintViolation)
}

func TestCreate_RoundTripsEmptyDiagnostics(t *testing.T) {
	store := newTestStore(t)

	created, err := store.CompileJobs().Create(context.Background(), dao.CompileJob{
		SourceHash: "nodiags",
		Source:     "x := 1;",
		Succeeded:  true,
	})
	require.NoError(t, err)

	got, err := store.CompileJobs().GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Diagnostics)
}
