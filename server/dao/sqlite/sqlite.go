// Package sqlite provides a dao.Store backed by modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
	"modernc.org/sqlite"

	"github.com/ziolkown/cb-5/server/dao"
)

type store struct {
	dbFilename string
	db         *sql.DB
	jobs       *compileJobRepository
}

// NewDatastore opens (creating if needed) a sqlite database in storageDir.
func NewDatastore(storageDir string) (dao.Store, error) {
	st := &store{dbFilename: "compile_jobs.db"}

	fileName := filepath.Join(storageDir, st.dbFilename)
	var err error
	st.db, err = sql.Open("sqlite", fileName)
	if err != nil {
		return nil, wrapDBError(err)
	}

	st.jobs = &compileJobRepository{db: st.db}
	if err := st.jobs.init(); err != nil {
		return nil, err
	}

	return st, nil
}

func (s *store) CompileJobs() dao.CompileJobRepository {
	return s.jobs
}

func (s *store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%s: %w", s.dbFilename, err)
	}
	return nil
}

type compileJobRepository struct {
	db *sql.DB
}

func (r *compileJobRepository) init() error {
	_, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS compile_jobs (
		id TEXT NOT NULL PRIMARY KEY,
		source_hash TEXT NOT NULL UNIQUE,
		source TEXT NOT NULL,
		diagnostics BLOB NOT NULL,
		tree_text TEXT NOT NULL,
		succeeded INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (r *compileJobRepository) Create(ctx context.Context, job dao.CompileJob) (dao.CompileJob, error) {
	if job.ID == uuid.Nil {
		newID, err := uuid.NewRandom()
		if err != nil {
			return dao.CompileJob{}, fmt.Errorf("could not generate ID: %w", err)
		}
		job.ID = newID
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}

	diagBlob := convertToDB_Diagnostics(job.Diagnostics)
	succeeded := 0
	if job.Succeeded {
		succeeded = 1
	}

	_, err := r.db.ExecContext(ctx, `INSERT INTO compile_jobs
		(id, source_hash, source, diagnostics, tree_text, succeeded, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		job.ID.String(), job.SourceHash, job.Source, diagBlob, job.TreeText, succeeded, job.CreatedAt.Unix())
	if err != nil {
		return dao.CompileJob{}, wrapDBError(err)
	}

	return r.GetByID(ctx, job.ID)
}

func (r *compileJobRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.CompileJob, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, source_hash, source, diagnostics, tree_text, succeeded, created_at
		FROM compile_jobs WHERE id = ?`, id.String())
	return scanCompileJob(row)
}

func (r *compileJobRepository) GetBySourceHash(ctx context.Context, hash string) (dao.CompileJob, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, source_hash, source, diagnostics, tree_text, succeeded, created_at
		FROM compile_jobs WHERE source_hash = ?`, hash)
	return scanCompileJob(row)
}

func scanCompileJob(row *sql.Row) (dao.CompileJob, error) {
	var job dao.CompileJob
	var idStr string
	var diagBlob []byte
	var succeeded int
	var createdAt int64

	err := row.Scan(&idStr, &job.SourceHash, &job.Source, &diagBlob, &job.TreeText, &succeeded, &createdAt)
	if err != nil {
		return dao.CompileJob{}, wrapDBError(err)
	}

	job.ID, err = uuid.Parse(idStr)
	if err != nil {
		return dao.CompileJob{}, fmt.Errorf("stored id %q is not a valid UUID: %w", idStr, err)
	}
	job.Diagnostics, err = convertFromDB_Diagnostics(diagBlob)
	if err != nil {
		return dao.CompileJob{}, err
	}
	job.Succeeded = succeeded != 0
	job.CreatedAt = time.Unix(createdAt, 0)

	return job, nil
}

// diagnosticsBlob is the on-disk shape of a CompileJob's diagnostic list,
// rezi-encoded the same way sessions.go rezi-encodes a *game.State.
type diagnosticsBlob []dao.Diagnostic

func convertToDB_Diagnostics(diags []dao.Diagnostic) []byte {
	blob := diagnosticsBlob(diags)
	return rezi.EncBinary(&blob)
}

func convertFromDB_Diagnostics(data []byte) ([]dao.Diagnostic, error) {
	var blob diagnosticsBlob
	n, err := rezi.DecBinary(data, &blob)
	if err != nil {
		return nil, fmt.Errorf("REZI decode: %w", err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("REZI decoded byte count mismatch; only consumed %d/%d bytes", n, len(data))
	}
	return []dao.Diagnostic(blob), nil
}

func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code() == 19 {
			return dao.ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return dao.ErrNotFound
	}
	return err
}
