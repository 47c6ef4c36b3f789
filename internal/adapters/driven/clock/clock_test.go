package clock

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystem_Now(t *testing.T) {
	before := time.Now()
	got := New().Now()
	assert.False(t, got.Before(before))
}

func TestSystem_EveryFiresUntilStopped(t *testing.T) {
	var n atomic.Int32
	stop := New().Every(5*time.Millisecond, func() { n.Add(1) })

	assert.Eventually(t, func() bool { return n.Load() >= 2 }, time.Second, time.Millisecond)

	stop()
	time.Sleep(20 * time.Millisecond)
	after := n.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, n.Load())
}

func TestSystem_StopIsIdempotent(t *testing.T) {
	stop := New().Every(time.Hour, func() {})
	stop()
	assert.NotPanics(t, stop)
}

func TestSystem_StopFromCallback(t *testing.T) {
	var stop func()
	fired := make(chan struct{}, 1)
	stop = New().Every(time.Millisecond, func() {
		stop()
		select {
		case fired <- struct{}{}:
		default:
		}
	})

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("callback never fired")
	}
}
