// Package inmem provides an in-memory dao.Store, suitable for tests and for
// the compile service's default "no persistence configured" mode.
package inmem

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/ziolkown/cb-5/server/dao"
)

type store struct {
	jobs *compileJobRepository
}

// NewDatastore returns a dao.Store backed entirely by in-process maps. Data
// does not survive process restart.
func NewDatastore() dao.Store {
	return &store{jobs: newCompileJobRepository()}
}

func (s *store) CompileJobs() dao.CompileJobRepository {
	return s.jobs
}

func (s *store) Close() error {
	return nil
}

type compileJobRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]dao.CompileJob
	byHash map[string]uuid.UUID
}

func newCompileJobRepository() *compileJobRepository {
	return &compileJobRepository{
		byID:   make(map[uuid.UUID]dao.CompileJob),
		byHash: make(map[string]uuid.UUID),
	}
}

func (r *compileJobRepository) Create(ctx context.Context, job dao.CompileJob) (dao.CompileJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byHash[job.SourceHash]; exists {
		return dao.CompileJob{}, dao.ErrConstraintViolation
	}

	if job.ID == uuid.Nil {
		newID, err := uuid.NewRandom()
		if err != nil {
			return dao.CompileJob{}, err
		}
		job.ID = newID
	}

	r.byID[job.ID] = job
	r.byHash[job.SourceHash] = job.ID
	return job, nil
}

func (r *compileJobRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.CompileJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.byID[id]
	if !ok {
		return dao.CompileJob{}, dao.ErrNotFound
	}
	return job, nil
}

func (r *compileJobRepository) GetBySourceHash(ctx context.Context, hash string) (dao.CompileJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byHash[hash]
	if !ok {
		return dao.CompileJob{}, dao.ErrNotFound
	}
	return r.byID[id], nil
}
