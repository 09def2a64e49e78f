// internal/pkg/clock/clock.go
package clock

import "time"

// Clock supplies the current time. Services take a Clock instead of calling
// time.Now directly so tests can pin "now".
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// System returns a Clock backed by time.Now.
func System() Clock {
	return systemClock{}
}

// Fixed is a Clock that always reports the same instant.
type Fixed struct {
	Instant time.Time
}

func (f Fixed) Now() time.Time {
	return f.Instant
}

// NewFixed returns a Fixed clock pinned at t.
func NewFixed(t time.Time) Fixed {
	return Fixed{Instant: t}
}
