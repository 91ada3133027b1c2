package middleware

import (
	"net/http"
	"strings"
)

// SessionHeader carries the session ID for RequireSession.
const SessionHeader = "X-Session-ID"

// RequireSession guards a handler with the session named by the
// X-Session-ID header.
func RequireSession(lookup SessionLookup) func(http.Handler) http.Handler {
	return Guard(lookup, func(r *http.Request) (string, bool) {
		id := strings.TrimSpace(r.Header.Get(SessionHeader))
		return id, id != ""
	})
}

// RequireBearerSession is RequireSession for clients that send the session
// ID as "Authorization: Bearer <id>".
func RequireBearerSession(lookup SessionLookup) func(http.Handler) http.Handler {
	return Guard(lookup, func(r *http.Request) (string, bool) {
		return bearerToken(r.Header.Get("Authorization"))
	})
}
