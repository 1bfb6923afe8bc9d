// Package api provides the HTTP handlers for the compile service.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/ziolkown/cb-5/server/dao"
	"github.com/ziolkown/cb-5/server/result"
	"github.com/ziolkown/cb-5/server/serr"
)

// PathPrefix is the prefix of all paths in the API. Routers should mount a
// sub-router that routes all requests to the API at this path.
const PathPrefix = "/v1"

// API holds the dependencies the compile service's endpoints need. Create
// one and assign the result of its HTTP* methods as handlers on a router.
type API struct {
	// Store caches compile results, keyed by source hash.
	Store dao.Store

	// Secret signs and verifies the JWT issued by login.
	Secret []byte

	// AdminUser and AdminPasswordHash are the single configured login
	// credential; there is no user store.
	AdminUser         string
	AdminPasswordHash string

	// UnauthDelay is how long an HTTP-401/HTTP-500 response is delayed
	// before being sent, to deprioritize such requests.
	UnauthDelay time.Duration
}

// parseJSON decodes req's body as JSON into v, which must be a pointer. The
// body is restored afterward so later middleware can still read it.
func parseJSON(req *http.Request, v interface{}) error {
	contentType := req.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(contentType), "application/json") {
		return fmt.Errorf("request content-type is not application/json")
	}

	bodyData, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}
	defer func() {
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewBuffer(bodyData))
	}()

	if err := json.Unmarshal(bodyData, v); err != nil {
		return serr.New("malformed JSON in request", err, serr.ErrBodyUnmarshal)
	}
	return nil
}

// EndpointFunc is a single API operation: given a request, produce the
// Result to send back.
type EndpointFunc func(req *http.Request) result.Result

// Endpoint adapts an EndpointFunc into an http.HandlerFunc: it recovers
// panics into an HTTP-500, applies unauthDelay to error statuses, logs every
// outcome, and writes the response.
func Endpoint(unauthDelay time.Duration, ep EndpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer panicTo500(w, req)

		r := ep(req)
		if r.Status == 0 {
			panic("endpoint result was never populated")
		}

		if r.IsErr && (r.Status == http.StatusUnauthorized || r.Status == http.StatusInternalServerError) {
			time.Sleep(unauthDelay)
		}

		r.WriteResponse(w)
		r.Log(req)
	}
}

func panicTo500(w http.ResponseWriter, req *http.Request) {
	if panicErr := recover(); panicErr != nil {
		r := result.InternalServerError("panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack()))
		r.WriteResponse(w)
		r.Log(req)
	}
}
