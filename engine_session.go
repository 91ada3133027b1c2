package goOTP

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/goOTP/session"
)

// IssueSession mints a session for identifier. Call it only after Validate
// reported OK; the engine does not link the two. When a registry is
// configured the session is saved before it is returned.
func (e *Engine) IssueSession(ctx context.Context, identifier string) (session.Session, error) {
	if !e.ready() {
		return session.Session{}, ErrEngineNotReady
	}
	return e.flows.IssueSession(ctx, identifier)
}

// EndSession closes s and returns its duration. The logout event is emitted
// even when removing s from the registry fails, in which case the error wraps
// ErrSessionUnavailable.
func (e *Engine) EndSession(ctx context.Context, s session.Session) (time.Duration, error) {
	if !e.ready() {
		return 0, ErrEngineNotReady
	}
	return e.flows.EndSession(ctx, s)
}

// LookupSession reads a registered session by ID.
func (e *Engine) LookupSession(ctx context.Context, sessionID string) (session.Session, error) {
	if !e.ready() {
		return session.Session{}, ErrEngineNotReady
	}
	if e.registry == nil {
		return session.Session{}, ErrSessionRegistryDisabled
	}
	if sessionID == "" {
		return session.Session{}, ErrSessionNotFound
	}

	sess, err := e.registry.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return session.Session{}, ErrSessionNotFound
		}
		return session.Session{}, fmt.Errorf("%w: %v", ErrSessionUnavailable, err)
	}
	return *sess, nil
}

// SessionElapsed is the display duration of s at the engine clock.
func (e *Engine) SessionElapsed(s session.Session) time.Duration {
	return session.Elapsed(s, e.now())
}
