package flows

import (
	"context"
	"errors"
	"strconv"
	"time"
)

type OTPMetrics struct {
	OTPGenerated         int
	OTPValidationSuccess int
	OTPNotFound          int
	OTPExpired           int
	OTPAttemptsExceeded  int
	OTPMismatch          int
	OTPCleared           int
}

type OTPEvents struct {
	OTPGenerated         string
	OTPValidationSuccess string
	OTPValidationFailure string
	OTPCleared           string
}

type OTPErrors struct {
	EngineNotReady       error
	IdentifierRequired   error
	CodeGenerationFailed error
	NotFound             error
	Expired              error
	AttemptsExceeded     error
	Mismatch             error
}

type OTPDeps struct {
	TTL         time.Duration
	MaxAttempts int

	Now      func() time.Time
	NewCode  func() (string, error)
	HashCode func(string) [32]byte

	SaveRecord    func(identifier string, codeHash [32]byte, issuedAt, expiresAt time.Time)
	ConsumeRecord func(identifier string, codeHash [32]byte, now time.Time, maxAttempts int) (int, error)
	DeleteRecord  func(identifier string) bool
	MapStoreError func(error) error

	MetricInc      func(int)
	ObserveLatency func(time.Duration)
	EmitAudit      func(ctx context.Context, eventType string, success bool, identifier, sessionID string, err error, metadata func() map[string]string)

	Metrics OTPMetrics
	Events  OTPEvents
	Errors  OTPErrors
}

// RunGenerate issues a fresh code for identifier, replacing any pending one.
func RunGenerate(ctx context.Context, identifier string, deps OTPDeps) (string, time.Time, error) {
	normalizeOTPDeps(&deps)

	if deps.SaveRecord == nil || deps.NewCode == nil || deps.HashCode == nil {
		return "", time.Time{}, deps.Errors.EngineNotReady
	}
	if identifier == "" {
		deps.EmitAudit(ctx, deps.Events.OTPGenerated, false, "", "", deps.Errors.IdentifierRequired, func() map[string]string {
			return map[string]string{
				"reason": "empty_identifier",
			}
		})
		return "", time.Time{}, deps.Errors.IdentifierRequired
	}

	code, err := deps.NewCode()
	if err != nil {
		deps.EmitAudit(ctx, deps.Events.OTPGenerated, false, identifier, "", deps.Errors.CodeGenerationFailed, nil)
		return "", time.Time{}, deps.Errors.CodeGenerationFailed
	}

	issuedAt := deps.Now()
	expiresAt := issuedAt.Add(deps.TTL)
	deps.SaveRecord(identifier, deps.HashCode(code), issuedAt, expiresAt)

	deps.MetricInc(deps.Metrics.OTPGenerated)
	deps.EmitAudit(ctx, deps.Events.OTPGenerated, true, identifier, "", nil, func() map[string]string {
		return map[string]string{
			"expires_at": expiresAt.UTC().Format(time.RFC3339Nano),
		}
	})

	return code, expiresAt, nil
}

// RunValidate performs one verification attempt. The returned count is the
// attempts left after a match or mismatch and zero for every other outcome.
func RunValidate(ctx context.Context, identifier, candidate string, deps OTPDeps) (int, error) {
	normalizeOTPDeps(&deps)

	if deps.ConsumeRecord == nil || deps.HashCode == nil {
		return 0, deps.Errors.EngineNotReady
	}

	start := time.Now()
	remaining, err := deps.ConsumeRecord(identifier, deps.HashCode(candidate), deps.Now(), deps.MaxAttempts)
	deps.ObserveLatency(time.Since(start))

	if err != nil {
		mapped := deps.MapStoreError(err)
		reason := "internal_error"

		switch {
		case errors.Is(mapped, deps.Errors.NotFound):
			reason = "not_found"
			remaining = 0
			deps.MetricInc(deps.Metrics.OTPNotFound)
		case errors.Is(mapped, deps.Errors.Expired):
			reason = "expired"
			remaining = 0
			deps.MetricInc(deps.Metrics.OTPExpired)
		case errors.Is(mapped, deps.Errors.AttemptsExceeded):
			reason = "attempts_exceeded"
			remaining = 0
			deps.MetricInc(deps.Metrics.OTPAttemptsExceeded)
		case errors.Is(mapped, deps.Errors.Mismatch):
			reason = "mismatch"
			deps.MetricInc(deps.Metrics.OTPMismatch)
		}

		left := remaining
		deps.EmitAudit(ctx, deps.Events.OTPValidationFailure, false, identifier, "", mapped, func() map[string]string {
			md := map[string]string{
				"reason": reason,
			}
			if reason == "mismatch" {
				md["attempts_remaining"] = strconv.Itoa(left)
			}
			return md
		})
		return remaining, mapped
	}

	deps.MetricInc(deps.Metrics.OTPValidationSuccess)
	deps.EmitAudit(ctx, deps.Events.OTPValidationSuccess, true, identifier, "", nil, nil)
	return remaining, nil
}

// RunClear drops any pending code for identifier. It never fails.
func RunClear(ctx context.Context, identifier string, deps OTPDeps) {
	normalizeOTPDeps(&deps)

	if deps.DeleteRecord == nil {
		return
	}

	existed := deps.DeleteRecord(identifier)
	deps.MetricInc(deps.Metrics.OTPCleared)
	deps.EmitAudit(ctx, deps.Events.OTPCleared, true, identifier, "", nil, func() map[string]string {
		return map[string]string{
			"existed": strconv.FormatBool(existed),
		}
	})
}

func normalizeOTPDeps(deps *OTPDeps) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.MetricInc == nil {
		deps.MetricInc = func(int) {}
	}
	if deps.ObserveLatency == nil {
		deps.ObserveLatency = func(time.Duration) {}
	}
	if deps.EmitAudit == nil {
		deps.EmitAudit = func(context.Context, string, bool, string, string, error, func() map[string]string) {}
	}
	if deps.MapStoreError == nil {
		deps.MapStoreError = func(err error) error { return err }
	}
}
