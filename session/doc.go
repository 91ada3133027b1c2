// Package session provides the session issuer, elapsed-time helpers and an
// optional Redis-backed registry of issued sessions.
//
// # Binary encoding
//
// Registered sessions are stored as a compact versioned binary blob (see
// [Encode]). Unknown versions fail to decode rather than being guessed at.
//
// # Architecture boundaries
//
// This package owns the [Session] model, the [Issuer] and the [Store]. It does
// NOT verify codes or touch OTP state; callers issue a session only after a
// successful verification.
//
// # What this package must NOT do
//
//   - Import goOTP (no upward imports).
//   - Sign or encrypt sessions.
//   - Attach expiry to sessions.
package session
