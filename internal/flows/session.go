package flows

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/MrEthical07/goOTP/session"
)

type SessionMetrics struct {
	SessionIssued int
	SessionEnded  int
}

type SessionEvents struct {
	SessionIssued string
	Logout        string
}

type SessionErrors struct {
	EngineNotReady     error
	IdentifierRequired error
	SessionUnavailable error
}

type SessionDeps struct {
	Now   func() time.Time
	Issue func(identifier string) (session.Session, error)

	// SaveSession and DeleteSession are nil when no registry is configured.
	SaveSession   func(context.Context, *session.Session) error
	DeleteSession func(context.Context, string) (bool, error)

	MetricInc func(int)
	EmitAudit func(ctx context.Context, eventType string, success bool, identifier, sessionID string, err error, metadata func() map[string]string)

	Metrics SessionMetrics
	Events  SessionEvents
	Errors  SessionErrors
}

// RunIssueSession mints a session for an identifier that has just passed
// verification and registers it when a registry is available.
func RunIssueSession(ctx context.Context, identifier string, deps SessionDeps) (session.Session, error) {
	normalizeSessionDeps(&deps)

	if deps.Issue == nil {
		return session.Session{}, deps.Errors.EngineNotReady
	}

	s, err := deps.Issue(identifier)
	if err != nil {
		if errors.Is(err, session.ErrEmptyIdentifier) {
			return session.Session{}, deps.Errors.IdentifierRequired
		}
		return session.Session{}, fmt.Errorf("%w: %v", deps.Errors.SessionUnavailable, err)
	}

	if deps.SaveSession != nil {
		if err := deps.SaveSession(ctx, &s); err != nil {
			deps.EmitAudit(ctx, deps.Events.SessionIssued, false, identifier, s.ID, err, nil)
			return session.Session{}, fmt.Errorf("%w: %v", deps.Errors.SessionUnavailable, err)
		}
	}

	deps.MetricInc(deps.Metrics.SessionIssued)
	deps.EmitAudit(ctx, deps.Events.SessionIssued, true, identifier, s.ID, nil, nil)
	return s, nil
}

// RunEndSession closes s and returns how long it lasted. The logout event is
// emitted even when the registry delete fails.
func RunEndSession(ctx context.Context, s session.Session, deps SessionDeps) (time.Duration, error) {
	normalizeSessionDeps(&deps)

	duration := session.Elapsed(s, deps.Now())

	var deleteErr error
	if deps.DeleteSession != nil && s.ID != "" {
		if _, err := deps.DeleteSession(ctx, s.ID); err != nil {
			deleteErr = fmt.Errorf("%w: %v", deps.Errors.SessionUnavailable, err)
		}
	}

	deps.MetricInc(deps.Metrics.SessionEnded)
	deps.EmitAudit(ctx, deps.Events.Logout, deleteErr == nil, s.Identifier, s.ID, deleteErr, func() map[string]string {
		return map[string]string{
			"session_duration_seconds": strconv.FormatInt(int64(duration/time.Second), 10),
		}
	})

	return duration, deleteErr
}

func normalizeSessionDeps(deps *SessionDeps) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.MetricInc == nil {
		deps.MetricInc = func(int) {}
	}
	if deps.EmitAudit == nil {
		deps.EmitAudit = func(context.Context, string, bool, string, string, error, func() map[string]string) {}
	}
}
