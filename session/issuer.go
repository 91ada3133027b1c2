package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyIdentifier is returned when a session is requested for "".
var ErrEmptyIdentifier = errors.New("session identifier required")

// Issuer mints sessions. It never touches OTP state.
type Issuer struct {
	now func() time.Time
}

func NewIssuer(now func() time.Time) *Issuer {
	if now == nil {
		now = time.Now
	}
	return &Issuer{now: now}
}

// Issue stamps a new session for identifier with StartTime set to the
// issuer's current time.
func (i *Issuer) Issue(identifier string) (Session, error) {
	if identifier == "" {
		return Session{}, ErrEmptyIdentifier
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return Session{}, fmt.Errorf("session id: %w", err)
	}

	return Session{
		ID:         id.String(),
		Identifier: identifier,
		StartTime:  i.now(),
	}, nil
}

// Elapsed is the display duration of s at now, clamped at zero.
func Elapsed(s Session, now time.Time) time.Duration {
	d := now.Sub(s.StartTime)
	if d < 0 {
		return 0
	}
	return d
}

// FormatElapsed renders d as mm:ss in whole seconds. Minutes are not capped
// at 59.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
