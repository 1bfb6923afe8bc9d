package api

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"

	"github.com/dekarrin/rosed"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/text/encoding/unicode"

	c1 "github.com/ziolkown/cb-5"
	"github.com/ziolkown/cb-5/internal/c1/diag"
	"github.com/ziolkown/cb-5/server/dao"
	"github.com/ziolkown/cb-5/server/result"
)

// CompileRequest is the JSON body of POST /v1/compile.
type CompileRequest struct {
	Source string `json:"source"`
}

// DiagnosticModel is the JSON rendering of one reported diagnostic.
type DiagnosticModel struct {
	Kind    string `json:"kind"`
	Line    uint32 `json:"line"`
	Message string `json:"message"`
}

// CompileResponse is the JSON body returned by both POST /v1/compile and
// GET /v1/compile/{jobID}. Tree is present (non-empty) only when Succeeded.
type CompileResponse struct {
	JobID       string            `json:"jobID"`
	Succeeded   bool              `json:"succeeded"`
	Diagnostics []DiagnosticModel `json:"diagnostics"`
	Tree        string            `json:"tree,omitempty"`
}

// HTTPCreateCompile returns a HandlerFunc that parses submitted C1 source,
// caching the result by its content hash.
func (api API) HTTPCreateCompile() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epCreateCompile)
}

func (api API) epCreateCompile(req *http.Request) result.Result {
	var body CompileRequest
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	cleaned, err := validateUTF8(body.Source)
	if err != nil {
		return api.respondCompileError(err)
	}

	hash := hashSource(cleaned)

	if cached, err := api.Store.CompileJobs().GetBySourceHash(req.Context(), hash); err == nil {
		return result.OK(toCompileResponse(cached), "reused cached compile job %s for hash %s", cached.ID, hash)
	} else if !errors.Is(err, dao.ErrNotFound) {
		return result.InternalServerError("look up cached job: %s", err.Error())
	}

	tree, errs := c1.Parse(cleaned)

	job := dao.CompileJob{
		SourceHash:  hash,
		Source:      cleaned,
		Diagnostics: toDaoDiagnostics(errs),
		Succeeded:   tree != nil,
	}
	if tree != nil {
		job.TreeText = tree.Print()
	}

	created, err := api.Store.CompileJobs().Create(req.Context(), job)
	if err != nil {
		return result.InternalServerError("store compile job: %s", err.Error())
	}

	return result.Created(toCompileResponse(created), "compiled source (hash %s) into job %s: %d diagnostic(s)",
		hash, created.ID, len(created.Diagnostics))
}

// HTTPGetCompile returns a HandlerFunc that fetches a previously computed
// compile job by ID.
func (api API) HTTPGetCompile() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epGetCompile)
}

func (api API) epGetCompile(req *http.Request) result.Result {
	idStr := chi.URLParam(req, "jobID")
	id, err := uuid.Parse(idStr)
	if err != nil {
		return result.BadRequest("jobID: not a valid UUID", "bad jobID %q: %s", idStr, err.Error())
	}

	job, err := api.Store.CompileJobs().GetByID(req.Context(), id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return result.NotFound("no compile job with ID %s", id)
		}
		return result.InternalServerError("look up compile job: %s", err.Error())
	}

	return result.OK(toCompileResponse(job), "fetched compile job %s", id)
}

func (api API) respondCompileError(err error) result.Result {
	msg := rosed.Edit(err.Error()).Wrap(100).String()
	return result.BadRequest("source: "+msg, "rejected non-UTF-8 source: %s", err.Error())
}

// validateUTF8 rejects malformed UTF-8 before source ever reaches the
// lexer, surfacing it as a normal request error instead of a panic deep in
// a regex match.
func validateUTF8(source string) (string, error) {
	cleaned, err := unicode.UTF8.NewDecoder().String(source)
	if err != nil {
		return "", err
	}
	return cleaned, nil
}

func hashSource(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

func toDaoDiagnostics(errs diag.Errors) []dao.Diagnostic {
	out := make([]dao.Diagnostic, len(errs))
	for i, e := range errs {
		out[i] = dao.Diagnostic{Kind: e.Kind().String(), Line: e.Line(), Message: e.Message()}
	}
	return out
}

func toCompileResponse(job dao.CompileJob) CompileResponse {
	resp := CompileResponse{
		JobID:       job.ID.String(),
		Succeeded:   job.Succeeded,
		Diagnostics: make([]DiagnosticModel, len(job.Diagnostics)),
		Tree:        job.TreeText,
	}
	for i, d := range job.Diagnostics {
		resp.Diagnostics[i] = DiagnosticModel{Kind: d.Kind, Line: d.Line, Message: d.Message}
	}
	return resp
}
