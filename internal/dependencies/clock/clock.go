package clock

import "time"

// Clock provides the current time and can be mocked for testing
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

// New creates a new SystemClock
func New() *SystemClock {
	return &SystemClock{}
}

// Now returns the current local time truncated to the second, the precision saved games are shown with
func (c *SystemClock) Now() time.Time {
	return time.Now().Truncate(time.Second)
}
