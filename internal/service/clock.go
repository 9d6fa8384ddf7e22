package service

import "time"

// Clock abstracts "now" so shift windows and rate lookups are deterministic
// under test. Production wiring uses SystemClock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func SystemClock() Clock { return systemClock{} }
