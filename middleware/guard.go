package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/MrEthical07/goOTP"
	"github.com/MrEthical07/goOTP/session"
)

type sessionContextKey struct{}

// SessionLookup resolves a session ID. *goOTP.Engine implements it.
type SessionLookup interface {
	LookupSession(ctx context.Context, sessionID string) (session.Session, error)
}

// SessionFromContext returns the session stored by a guard.
func SessionFromContext(ctx context.Context) (session.Session, bool) {
	s, ok := ctx.Value(sessionContextKey{}).(session.Session)
	return s, ok
}

// Guard resolves the session ID that extract pulls from each request and
// stores the session in the request context. Requests without a registered
// session get 401; registry failures get 503.
func Guard(lookup SessionLookup, extract func(*http.Request) (string, bool)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if lookup == nil || extract == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			sessionID, ok := extract(r)
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			s, err := lookup.LookupSession(r.Context(), sessionID)
			if err != nil {
				if errors.Is(err, goOTP.ErrSessionUnavailable) || errors.Is(err, goOTP.ErrSessionRegistryDisabled) {
					http.Error(w, "session backend unavailable", http.StatusServiceUnavailable)
					return
				}
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey{}, s)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := strings.TrimSpace(value[len(bearer):])
	if token == "" {
		return "", false
	}

	return token, true
}
