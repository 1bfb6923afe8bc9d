package api

import (
	"crypto/subtle"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/ziolkown/cb-5/server/middle"
	"github.com/ziolkown/cb-5/server/result"
)

// LoginRequest is the JSON body of POST /v1/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the JSON body returned by a successful POST /v1/login.
type LoginResponse struct {
	Token string `json:"token"`
}

// HTTPCreateLogin returns a HandlerFunc that exchanges the configured admin
// credential for a bearer JWT.
func (api API) HTTPCreateLogin() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epCreateLogin)
}

func (api API) epCreateLogin(req *http.Request) result.Result {
	var login LoginRequest
	if err := parseJSON(req, &login); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	if login.Username == "" {
		return result.BadRequest("username: property is empty or missing from request", "empty username")
	}
	if login.Password == "" {
		return result.BadRequest("password: property is empty or missing from request", "empty password")
	}

	if subtle.ConstantTimeCompare([]byte(login.Username), []byte(api.AdminUser)) != 1 {
		return result.Unauthorized("", "username '%s' does not match configured admin user", login.Username)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(api.AdminPasswordHash), []byte(login.Password)); err != nil {
		return result.Unauthorized("", "password mismatch for user '%s': %s", login.Username, err.Error())
	}

	tok, err := middle.GenerateJWT(login.Username, api.Secret)
	if err != nil {
		return result.InternalServerError("could not generate JWT: %s", err.Error())
	}

	return result.Created(LoginResponse{Token: tok}, "user '%s' successfully logged in", login.Username)
}
