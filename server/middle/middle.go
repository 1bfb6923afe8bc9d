// Package middle contains middleware for the compile service's HTTP API.
package middle

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ziolkown/cb-5/server/result"
)

// Middleware is a function that takes a handler and returns a new handler
// which wraps the given one and provides some additional functionality.
type Middleware func(next http.Handler) http.Handler

// AuthKey is a key in the context of a request populated by an AuthHandler.
type AuthKey int64

const (
	// AuthLoggedIn holds a bool: whether the request carried a valid JWT.
	AuthLoggedIn AuthKey = iota
	// AuthUser holds the subject (admin username) of a valid JWT, or "" if
	// not logged in.
	AuthUser
)

const jwtIssuer = "c1c-compile-service"

// AuthHandler validates the bearer JWT on a request, if present, and
// populates AuthLoggedIn/AuthUser in the request context before calling the
// wrapped handler. If required is true, a missing or invalid token causes an
// HTTP-401 response instead of passing the request through.
type AuthHandler struct {
	secret        []byte
	required      bool
	unauthedDelay time.Duration
	next          http.Handler
}

func (ah *AuthHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var loggedIn bool
	var user string

	tok, err := getJWT(req)
	if err != nil {
		if ah.required {
			ah.reject(w, req, err)
			return
		}
	} else {
		subj, err := validateJWT(tok, ah.secret)
		if err != nil {
			if ah.required {
				ah.reject(w, req, err)
				return
			}
		} else {
			user = subj
			loggedIn = true
		}
	}

	ctx := req.Context()
	ctx = context.WithValue(ctx, AuthLoggedIn, loggedIn)
	ctx = context.WithValue(ctx, AuthUser, user)
	req = req.WithContext(ctx)
	ah.next.ServeHTTP(w, req)
}

func (ah *AuthHandler) reject(w http.ResponseWriter, req *http.Request, cause error) {
	r := result.Unauthorized("", cause.Error())
	time.Sleep(ah.unauthedDelay)
	r.WriteResponse(w)
	r.Log(req)
}

// RequireAuth returns Middleware that rejects any request without a valid
// bearer JWT signed with secret.
func RequireAuth(secret []byte, unauthDelay time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{secret: secret, unauthedDelay: unauthDelay, required: true, next: next}
	}
}

// OptionalAuth returns Middleware that populates AuthLoggedIn/AuthUser when
// a valid bearer JWT is present, but never rejects the request.
func OptionalAuth(secret []byte, unauthDelay time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{secret: secret, unauthedDelay: unauthDelay, required: false, next: next}
	}
}

func getJWT(req *http.Request) (string, error) {
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}
	const prefix = "Bearer "
	if len(authHeader) <= len(prefix) || authHeader[:len(prefix)] != prefix {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}
	return authHeader[len(prefix):], nil
}

func validateJWT(tok string, secret []byte) (string, error) {
	parsed, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer(jwtIssuer), jwt.WithLeeway(time.Minute))
	if err != nil {
		return "", err
	}
	return parsed.Claims.GetSubject()
}

// GenerateJWT creates a 1-hour bearer token for subject (the admin
// username), signed with secret. Used by the login endpoint to issue the
// token this middleware later validates.
func GenerateJWT(subject string, secret []byte) (string, error) {
	claims := &jwt.MapClaims{
		"iss": jwtIssuer,
		"exp": time.Now().Add(time.Hour).Unix(),
		"sub": subject,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return tok.SignedString(secret)
}

// DontPanic returns Middleware that recovers a panic from the wrapped
// handler and turns it into an HTTP-500 instead of crashing the server.
func DontPanic() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer panicTo500(w, r)
			next.ServeHTTP(w, r)
		})
	}
}

func panicTo500(w http.ResponseWriter, req *http.Request) {
	if panicErr := recover(); panicErr != nil {
		r := result.InternalServerError("panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack()))
		r.WriteResponse(w)
		r.Log(req)
	}
}
