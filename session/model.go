package session

import "time"

// Session is the caller-held record asserting a successful OTP verification.
//
// It carries no expiry; renewal and timeout policy belong to the caller.
type Session struct {
	ID         string
	Identifier string
	StartTime  time.Time
}
