// Package clock provides the wall-clock implementation of driven.Clock.
package clock

import (
	"sync"
	"time"

	"github.com/custodia-labs/algomaster/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.Clock = (*System)(nil)

// System reads the real clock and schedules with time.Ticker.
type System struct{}

// New returns the system clock.
func New() *System {
	return &System{}
}

// Now returns the current local time.
func (*System) Now() time.Time {
	return time.Now()
}

// Every runs fn on its own goroutine every d until stop is called.
// stop never blocks, so callers may invoke it while holding locks or
// from inside fn.
func (*System) Every(d time.Duration, fn func()) func() {
	ticker := time.NewTicker(d)
	done := make(chan struct{})
	var once sync.Once

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				select {
				case <-done:
					return
				default:
				}
				fn()
			}
		}
	}()

	return func() {
		once.Do(func() { close(done) })
	}
}
