// Package goOTP issues and verifies short-lived one-time passcodes and mints
// sessions for identifiers that pass verification.
//
// A code is six decimal digits, valid for a fixed window (60 seconds by
// default) and good for a bounded number of verification attempts (three by
// default). Generating a new code for an identifier replaces any pending
// one. Engine methods are safe to call from multiple goroutines after
// initialization through [Builder.Build].
//
// # Architecture boundaries
//
// goOTP is the public surface. It exposes [Engine], [Builder], [Config], and
// value types (ValidationResult, PendingInfo, MetricsSnapshot). Pending-code
// state, flow orchestration, and audit dispatch live under internal/ and are
// never exported. The session sub-package owns the Session type, its issuer,
// and the optional Redis registry.
//
// # What this package must NOT do
//
//   - Keep OTP state outside process memory or expose stored codes.
//   - Start timers: expiry is an absolute timestamp checked against [Clock].
//   - Let an audit sink failure change the outcome of a call.
//
// # Hot path
//
// Validate performs one shard-locked read-modify-write and a constant-time
// hash comparison. It never touches Redis.
package goOTP
