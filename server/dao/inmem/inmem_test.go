package inmem_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziolkown/cb-5/server/dao"
	"github.com/ziolkown/cb-5/server/dao/inmem"
)

func TestCreateAndGetByID(t *testing.T) {
	store := inmem.NewDatastore()
	defer store.Close()

	created, err := store.CompileJobs().Create(context.Background(), dao.CompileJob{
		SourceHash: "abc123",
		Source:     "x := 1;",
		Succeeded:  true,
		TreeText:   "Program",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	got, err := store.CompileJobs().GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestGetBySourceHash(t *testing.T) {
	store := inmem.NewDatastore()
	defer store.Close()

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
	store := inmem.NewDatastore()
	defer store.Close()

	_, err := store.CompileJobs().GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, dao.ErrNotFound)
}

func TestGetBySourceHash_NotFound(t *testing.T) {
	store := inmem.NewDatastore()
	defer store.Close()

	_, err := store.CompileJobs().GetBySourceHash(context.Background(), "nope")
	assert.ErrorIs(t, err, dao.ErrNotFound)
}

func TestCreate_DuplicateSourceHash(t *testing.T) {
	store := inmem.NewDatastore()
	defer store.Close()

	job := dao.CompileJob{SourceHash: "samehash", Source: "x := 1;"}
	_, err := store.CompileJobs().Create(context.Background(), job)
	require.NoError(t, err)

	_, err = store.CompileJobs().Create(context.Background(), job)
	assert.ErrorIs(t, err, dao.ErrConstraintViolation)
}

func TestCreate_AssignsIDWhenUnset(t *testing.T) {
	store := inmem.NewDatastore()
	defer store.Close()

	created, err := store.CompileJobs().Create(context.Background(), dao.CompileJob{SourceHash: "h"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
}
