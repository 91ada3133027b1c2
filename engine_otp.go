package goOTP

import (
	"context"
	"errors"
	"math"
	"time"
)

// Generate issues a fresh six-digit code for identifier and returns it. Any
// code already pending for identifier is replaced and its attempt count
// starts over.
//
// Generate returns ErrIdentifierRequired for an empty identifier and
// ErrCodeGenerationFailed if the random source fails.
func (e *Engine) Generate(ctx context.Context, identifier string) (string, error) {
	res, err := e.GenerateWithResult(ctx, identifier)
	if err != nil {
		return "", err
	}
	return res.Code, nil
}

// GenerateWithResult is Generate plus the absolute expiry of the new code.
func (e *Engine) GenerateWithResult(ctx context.Context, identifier string) (GenerateResult, error) {
	if !e.ready() {
		return GenerateResult{}, ErrEngineNotReady
	}

	code, expiresAt, err := e.flows.Generate(ctx, identifier)
	if err != nil {
		return GenerateResult{}, err
	}
	return GenerateResult{Code: code, ExpiresAt: expiresAt}, nil
}

// Validate spends one attempt against the code pending for identifier.
//
// Checks run in a fixed order: no pending code, expired, attempt budget
// spent, then the comparison. Expired and exhausted records stay pending
// until the next Generate; a match consumes the record. The returned
// ValidationResult always describes the outcome, and the error is nil only
// when OK is true. Mismatches return a *MismatchError.
func (e *Engine) Validate(ctx context.Context, identifier, candidate string) (ValidationResult, error) {
	if !e.ready() {
		return ValidationResult{}, ErrEngineNotReady
	}

	remaining, err := e.flows.Validate(ctx, identifier, candidate)
	if err == nil {
		return ValidationResult{OK: true, Kind: KindNone}, nil
	}

	switch {
	case errors.Is(err, ErrOTPMismatch):
		return ValidationResult{Kind: KindMismatch, AttemptsRemaining: remaining}, &MismatchError{Remaining: remaining}
	case errors.Is(err, ErrOTPExpired):
		return ValidationResult{Kind: KindExpired}, err
	case errors.Is(err, ErrOTPAttemptsExceeded):
		return ValidationResult{Kind: KindAttemptsExceeded}, err
	case errors.Is(err, ErrOTPNotFound):
		return ValidationResult{Kind: KindNotFound}, err
	default:
		return ValidationResult{}, err
	}
}

// Clear cancels any code pending for identifier. Clearing an identifier with
// nothing pending is a no-op.
func (e *Engine) Clear(ctx context.Context, identifier string) {
	if !e.ready() {
		return
	}
	e.flows.Clear(ctx, identifier)
}

// Inspect reports the pending state for identifier without spending an
// attempt. The code itself is never exposed.
func (e *Engine) Inspect(identifier string) (PendingInfo, bool) {
	if !e.ready() {
		return PendingInfo{}, false
	}

	rec, ok := e.otpStore.Get(identifier)
	if !ok {
		return PendingInfo{}, false
	}

	budget := e.config.OTP.MaxAttempts
	return PendingInfo{
		Identifier:  rec.Identifier,
		IssuedAt:    rec.IssuedAt,
		ExpiresAt:   rec.ExpiresAt,
		Attempts:    rec.Attempts,
		MaxAttempts: budget,
		Expired:     e.now().After(rec.ExpiresAt),
		Exhausted:   rec.Attempts >= budget,
	}, true
}

// SecondsLeft is the whole-second countdown to expiry for identifier, rounded
// up, or 0 when nothing is pending or the code has expired.
func (e *Engine) SecondsLeft(identifier string) int {
	info, ok := e.Inspect(identifier)
	if !ok || info.Expired {
		return 0
	}
	left := info.ExpiresAt.Sub(e.now())
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Seconds()))
}

// TTL returns the configured validity window.
func (e *Engine) TTL() time.Duration {
	if e == nil {
		return 0
	}
	return e.config.OTP.TTL
}
