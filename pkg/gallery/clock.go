package gallery

import "time"

// Clock supplies the authoritative current time for gallery operations.
// The core reads the clock exactly once per operation; time is an input,
// never a scheduled callback. Tests substitute a fixed implementation.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by the wall clock.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time {
	return time.Now()
}
