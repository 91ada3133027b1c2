package goOTP

import "time"

// Clock abstracts time so callers can replace real time in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}
