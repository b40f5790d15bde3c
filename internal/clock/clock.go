// Package clock abstracts the current time so expiry can be tested deterministically.
package clock

import "time"

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// Real implements Clock using the system time, in UTC.
type Real struct{}

// Now returns the current system time.
func (Real) Now() time.Time {
	return time.Now().UTC()
}

// Mock implements Clock with controllable time for testing.
type Mock struct {
	current time.Time
}

// NewMock creates a Mock set to the given time.
func NewMock(t time.Time) *Mock {
	return &Mock{current: t}
}

// Now returns the mock's current time.
func (c *Mock) Now() time.Time {
	return c.current
}

// Advance moves the clock forward by the given duration.
func (c *Mock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

// Set sets the clock to a specific time.
func (c *Mock) Set(t time.Time) {
	c.current = t
}
