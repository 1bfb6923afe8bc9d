package api

import (
	"net/http"

	"github.com/ziolkown/cb-5/internal/version"
	"github.com/ziolkown/cb-5/server/middle"
	"github.com/ziolkown/cb-5/server/result"
)

// InfoModel is the JSON body returned by GET /v1/info.
type InfoModel struct {
	Version string `json:"version"`
}

// HTTPGetInfo returns a HandlerFunc that reports the compile service's
// version.
//
// The handler requires AuthLoggedIn/AuthUser to already be set on the
// request context, so it must be mounted behind middle.OptionalAuth (or
// middle.RequireAuth).
func (api API) HTTPGetInfo() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epGetInfo)
}

func (api API) epGetInfo(req *http.Request) result.Result {
	loggedIn, _ := req.Context().Value(middle.AuthLoggedIn).(bool)

	userStr := "unauthed client"
	if loggedIn {
		user, _ := req.Context().Value(middle.AuthUser).(string)
		userStr = "user '" + user + "'"
	}

	resp := InfoModel{Version: version.Current}
	return result.OK(resp, "%s got API info", userStr)
}
