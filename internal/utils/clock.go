// internal/utils/clock.go
package utils

import "time"

// Clock abstracts "now" so alert classification and token expiry can be
// tested against a fixed date.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant. Test helper.
type FixedClock struct {
	Time time.Time
}

func (c FixedClock) Now() time.Time { return c.Time }
