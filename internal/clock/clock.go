package clock

import "time"

// Clock abstracts time.Now so expiry boundaries and cache TTLs can be
// tested with a fabricated clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns the wall-clock implementation.
func System() Clock { return systemClock{} }
