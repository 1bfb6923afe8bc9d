// Package dao provides data access objects for the compile service: a
// content-addressed cache of compile results keyed by the SHA-256 of the
// submitted source, so resubmitting identical source skips re-parsing.
package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound            = errors.New("the requested resource was not found")
	ErrConstraintViolation = errors.New("a uniqueness constraint was violated")
)

// Diagnostic is the persisted form of a internal/c1/diag.Error: the kind name
// and rendered message, decoupled from the core package so storage doesn't
// depend on the compiler internals' exact types.
type Diagnostic struct {
	Kind    string
	Line    uint32
	Message string
}

// CompileJob is one compile request's cached result.
type CompileJob struct {
	ID          uuid.UUID
	SourceHash  string // hex SHA-256 of the submitted source
	Source      string
	Diagnostics []Diagnostic
	TreeText    string // tree.Print() output; empty if the parse failed
	Succeeded   bool
	CreatedAt   time.Time
}

// CompileJobRepository stores and retrieves CompileJobs, keyed either by
// their assigned ID or by the hash of the source that produced them.
type CompileJobRepository interface {
	Create(ctx context.Context, job CompileJob) (CompileJob, error)
	GetByID(ctx context.Context, id uuid.UUID) (CompileJob, error)
	GetBySourceHash(ctx context.Context, hash string) (CompileJob, error)
}

// Store holds all the repositories the compile service depends on.
type Store interface {
	CompileJobs() CompileJobRepository
	Close() error
}
