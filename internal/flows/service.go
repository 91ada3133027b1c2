package flows

import (
	"context"
	"time"

	"github.com/MrEthical07/goOTP/session"
)

// Service is the centralized flow runner built once by the root engine.
type Service struct {
	deps Deps
}

// New returns a flow service with immutable dependency wiring.
func New(deps Deps) Service {
	return Service{deps: deps}
}

// Initialized reports whether the service has been wired with flow deps.
func (s Service) Initialized() bool {
	return s.deps.OTP.ConsumeRecord != nil && s.deps.Session.Issue != nil
}

func (s Service) Generate(ctx context.Context, identifier string) (string, time.Time, error) {
	return RunGenerate(ctx, identifier, s.deps.OTP)
}

func (s Service) Validate(ctx context.Context, identifier, candidate string) (int, error) {
	return RunValidate(ctx, identifier, candidate, s.deps.OTP)
}

func (s Service) Clear(ctx context.Context, identifier string) {
	RunClear(ctx, identifier, s.deps.OTP)
}

func (s Service) IssueSession(ctx context.Context, identifier string) (session.Session, error) {
	return RunIssueSession(ctx, identifier, s.deps.Session)
}

func (s Service) EndSession(ctx context.Context, sess session.Session) (time.Duration, error) {
	return RunEndSession(ctx, sess, s.deps.Session)
}
