package driven

import "time"

// Clock abstracts wall time and recurring timers so the step player can
// be driven deterministically in tests.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// Every calls fn every d until the returned stop function is called.
	// fn runs on a goroutine owned by the clock.
	Every(d time.Duration, fn func()) (stop func())
}
