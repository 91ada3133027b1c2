package goOTP

import "time"

// ErrorKind classifies a validation outcome.
type ErrorKind uint8

const (
	// KindNone marks a successful validation.
	KindNone ErrorKind = iota
	KindNotFound
	KindExpired
	KindAttemptsExceeded
	KindMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNotFound:
		return "not_found"
	case KindExpired:
		return "expired"
	case KindAttemptsExceeded:
		return "attempts_exceeded"
	case KindMismatch:
		return "mismatch"
	default:
		return "unknown"
	}
}

// ValidationResult is the typed outcome of Engine.Validate.
//
// AttemptsRemaining is only meaningful for KindMismatch; a value of zero
// there means the next call will report KindAttemptsExceeded.
type ValidationResult struct {
	OK                bool
	Kind              ErrorKind
	AttemptsRemaining int
}

// PendingInfo is a read-only view of a pending OTP. The code itself is never
// exposed.
type PendingInfo struct {
	Identifier  string
	IssuedAt    time.Time
	ExpiresAt   time.Time
	Attempts    int
	MaxAttempts int
	Expired     bool
	Exhausted   bool
}

// GenerateResult describes a freshly issued code.
type GenerateResult struct {
	Code      string
	ExpiresAt time.Time
}
