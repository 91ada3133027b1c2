package goOTP

import (
	"errors"
	"strconv"
)

var (
	// ErrOTPNotFound is returned when no code is pending for the identifier:
	// never generated, already consumed, or cleared.
	ErrOTPNotFound = errors.New("no otp generated for this identifier")
	// ErrOTPExpired is returned once the validity window has elapsed. The
	// record stays pending until the next Generate.
	ErrOTPExpired = errors.New("otp expired")
	// ErrOTPAttemptsExceeded is returned once the attempt budget is spent.
	ErrOTPAttemptsExceeded = errors.New("maximum attempts exceeded")
	// ErrOTPMismatch is returned for a wrong code. It is always wrapped in a
	// *MismatchError carrying the attempts left.
	ErrOTPMismatch = errors.New("invalid otp")
	// ErrIdentifierRequired is returned for an empty identifier.
	ErrIdentifierRequired = errors.New("identifier required")
	// ErrCodeGenerationFailed is returned when the random source fails.
	ErrCodeGenerationFailed = errors.New("otp code generation failed")
	// ErrSessionNotFound is returned when a session ID is not registered.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionRegistryDisabled is returned by registry lookups when the
	// engine was built without Redis.
	ErrSessionRegistryDisabled = errors.New("session registry disabled")
	// ErrSessionUnavailable is returned when the session registry fails.
	ErrSessionUnavailable = errors.New("session backend unavailable")
	// ErrEngineNotReady is returned by a zero or nil Engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)

// MismatchError reports a wrong code together with the attempts left
// against the pending OTP.
type MismatchError struct {
	Remaining int
}

func (e *MismatchError) Error() string {
	return "invalid otp (" + strconv.Itoa(e.Remaining) + " attempts remaining)"
}

func (e *MismatchError) Unwrap() error {
	return ErrOTPMismatch
}
