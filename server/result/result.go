// Package result contains the response types used to write out API results
// for the compile service, and the glue to log them the same way for every
// endpoint regardless of outcome.
package result

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
)

// ErrorResponse is the JSON body returned for any non-2xx Result.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// Result is a prepared HTTP response paired with an internal log message
// that is never sent to the client.
type Result struct {
	Status      int
	IsErr       bool
	InternalMsg string

	resp interface{}
	hdrs [][2]string
}

// OK returns a Result containing an HTTP-200 with respObj as its JSON body.
func OK(respObj interface{}, internalMsg string, v ...interface{}) Result {
	return response(http.StatusOK, respObj, internalMsg, v...)
}

// Created returns a Result containing an HTTP-201 with respObj as its JSON
// body.
func Created(respObj interface{}, internalMsg string, v ...interface{}) Result {
	return response(http.StatusCreated, respObj, internalMsg, v...)
}

// BadRequest returns a Result containing an HTTP-400 with userMsg as the
// client-facing error message.
func BadRequest(userMsg string, internalMsg string, v ...interface{}) Result {
	return errResult(http.StatusBadRequest, userMsg, internalMsg, v...)
}

// Unauthorized returns a Result containing an HTTP-401 along with the
// WWW-Authenticate header expected of a bearer-token API.
func Unauthorized(userMsg string, internalMsg string, v ...interface{}) Result {
	if userMsg == "" {
		userMsg = "you are not authorized to do that"
	}
	return errResult(http.StatusUnauthorized, userMsg, internalMsg, v...).
		WithHeader("WWW-Authenticate", `Bearer realm="c1c compile service"`)
}

// NotFound returns a Result containing an HTTP-404.
func NotFound(internalMsg string, v ...interface{}) Result {
	return errResult(http.StatusNotFound, "the requested resource was not found", internalMsg, v...)
}

// InternalServerError returns a Result containing an HTTP-500. internalMsg
// is never shown to the client.
func InternalServerError(internalMsg string, v ...interface{}) Result {
	return errResult(http.StatusInternalServerError, "an internal server error occurred", internalMsg, v...)
}

func response(status int, respObj interface{}, internalMsg string, v ...interface{}) Result {
	return Result{Status: status, InternalMsg: fmt.Sprintf(internalMsg, v...), resp: respObj}
}

func errResult(status int, userMsg, internalMsg string, v ...interface{}) Result {
	return Result{
		Status:      status,
		IsErr:       true,
		InternalMsg: fmt.Sprintf(internalMsg, v...),
		resp:        ErrorResponse{Error: userMsg, Status: status},
	}
}

// WithHeader returns a copy of r with the given header added to its
// response.
func (r Result) WithHeader(name, val string) Result {
	cp := r
	cp.hdrs = append(append([][2]string{}, r.hdrs...), [2]string{name, val})
	return cp
}

// WriteResponse marshals and writes r's body and status to w.
func (r Result) WriteResponse(w http.ResponseWriter) {
	if r.Status == 0 {
		panic("result not populated")
	}

	body, err := json.Marshal(r.resp)
	if err != nil {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, "could not marshal response: %s", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	for _, h := range r.hdrs {
		w.Header().Set(h[0], h[1])
	}
	w.WriteHeader(r.Status)
	w.Write(body)
}

// Log records r's outcome for req at a level chosen by r.IsErr.
func (r Result) Log(req *http.Request) {
	level := "INFO "
	if r.IsErr {
		level = "ERROR"
	}
	remoteIP := strings.SplitN(req.RemoteAddr, ":", 2)[0]
	log.Printf("%s %s %s %s: HTTP-%d %s", level, remoteIP, req.Method, req.URL.Path, r.Status, r.InternalMsg)
}
