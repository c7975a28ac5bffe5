package clock

import "time"

// Clocker is the time source used by business logic.
//
// Cooldown, expiry and grace-window math all go through this interface so
// tests can move time forward deterministically instead of sleeping.
type Clocker interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// New returns a SystemClock backed by time.Now.
func New() *SystemClock {
	return &SystemClock{}
}

// Now returns the current system time.
func (*SystemClock) Now() time.Time {
	return time.Now()
}
