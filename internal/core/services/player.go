package services

import (
	"sync"
	"time"

	"github.com/custodia-labs/algomaster/internal/core/domain"
	"github.com/custodia-labs/algomaster/internal/core/ports/driven"
	"github.com/custodia-labs/algomaster/internal/logger"
)

// Player steps through an explanation, manually or on a timer.
//
// States are Idle (nothing loaded), Viewing(i) and Playing(i). While
// playing, each tick advances one step; a tick on the last step pauses.
// The recurring task is owned by the player and cancelled on pause,
// reload, unload and Close. Every start gets a new generation number so
// a tick racing a cancellation is discarded.
type Player struct {
	clock    driven.Clock
	interval time.Duration

	mu       sync.Mutex
	doc      *domain.Explanation
	status   domain.PlayerStatus
	index    int
	stop     func()
	gen      uint64
	onChange []func(domain.PlayerState)
	subs     map[int]chan domain.PlayerState
	nextSub  int
	closed   bool
}

// NewPlayer creates an idle player. A non-positive interval uses the
// default autoplay period.
func NewPlayer(clock driven.Clock, interval time.Duration) *Player {
	if interval <= 0 {
		interval = domain.DefaultAutoplayInterval
	}
	return &Player{
		clock:    clock,
		interval: interval,
		subs:     make(map[int]chan domain.PlayerState),
	}
}

// OnStepChange registers fn to run synchronously after every state change.
func (p *Player) OnStepChange(fn func(domain.PlayerState)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onChange = append(p.onChange, fn)
}

// Subscribe returns a channel carrying the latest state. Slow readers
// only see the most recent state. cancel closes the channel.
func (p *Player) Subscribe() (<-chan domain.PlayerState, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ch := make(chan domain.PlayerState, 1)
	if p.closed {
		close(ch)
		return ch, func() {}
	}
	id := p.nextSub
	p.nextSub++
	p.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			if c, ok := p.subs[id]; ok {
				delete(p.subs, id)
				close(c)
			}
		})
	}
}

// Load shows the first step of doc and stops any autoplay.
// A nil or empty document unloads the player.
func (p *Player) Load(doc *domain.Explanation) {
	if doc.StepCount() == 0 {
		p.Unload()
		return
	}
	p.mu.Lock()
	p.cancelLocked()
	p.doc = doc
	p.index = 0
	p.status = domain.PlayerViewing
	st := p.stateLocked()
	p.mu.Unlock()

	logger.Debug("Player loaded %q (%d steps)", doc.Name, doc.StepCount())
	p.publish(st)
}

// Unload returns the player to Idle.
func (p *Player) Unload() {
	p.mu.Lock()
	p.cancelLocked()
	p.doc = nil
	p.index = 0
	p.status = domain.PlayerIdle
	st := p.stateLocked()
	p.mu.Unlock()
	p.publish(st)
}

// Next advances one step. It does nothing on the last step.
func (p *Player) Next() {
	p.move(1)
}

// Prev goes back one step. It does nothing on the first step.
func (p *Player) Prev() {
	p.move(-1)
}

// GoTo jumps to the step at position i. Out of range positions are ignored.
func (p *Player) GoTo(i int) {
	p.mu.Lock()
	if p.status == domain.PlayerIdle || i < 0 || i >= p.doc.StepCount() || i == p.index {
		p.mu.Unlock()
		return
	}
	p.index = i
	st := p.stateLocked()
	p.mu.Unlock()
	p.publish(st)
}

func (p *Player) move(delta int) {
	p.mu.Lock()
	if p.status == domain.PlayerIdle {
		p.mu.Unlock()
		return
	}
	next := p.index + delta
	if next < 0 || next >= p.doc.StepCount() {
		p.mu.Unlock()
		return
	}
	p.index = next
	st := p.stateLocked()
	p.mu.Unlock()
	p.publish(st)
}

// TogglePlay switches between Viewing and Playing. It does nothing while idle.
func (p *Player) TogglePlay() {
	p.mu.Lock()
	switch p.status {
	case domain.PlayerViewing:
		p.status = domain.PlayerPlaying
		p.gen++
		gen := p.gen
		p.stop = p.clock.Every(p.interval, func() { p.tick(gen) })
		logger.Debug("Autoplay started every %s", p.interval)
	case domain.PlayerPlaying:
		p.cancelLocked()
		p.status = domain.PlayerViewing
		logger.Debug("Autoplay paused at step %d", p.index+1)
	default:
		p.mu.Unlock()
		return
	}
	st := p.stateLocked()
	p.mu.Unlock()
	p.publish(st)
}

func (p *Player) tick(gen uint64) {
	p.mu.Lock()
	if gen != p.gen || p.status != domain.PlayerPlaying {
		p.mu.Unlock()
		return
	}
	if p.index < p.doc.StepCount()-1 {
		p.index++
	} else {
		p.cancelLocked()
		p.status = domain.PlayerViewing
	}
	st := p.stateLocked()
	p.mu.Unlock()
	p.publish(st)
}

// State returns a snapshot of the player.
func (p *Player) State() domain.PlayerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stateLocked()
}

// Current returns the loaded explanation, nil while idle, with the state
// taken under the same lock so the index always belongs to it.
func (p *Player) Current() (*domain.Explanation, domain.PlayerState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc, p.stateLocked()
}

// Close cancels autoplay and closes every subscription.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelLocked()
	if p.status == domain.PlayerPlaying {
		p.status = domain.PlayerViewing
	}
	for id, ch := range p.subs {
		delete(p.subs, id)
		close(ch)
	}
	p.closed = true
}

// cancelLocked stops the running timer, if any. Must be called with mu held.
func (p *Player) cancelLocked() {
	p.gen++
	if p.stop != nil {
		p.stop()
		p.stop = nil
	}
}

func (p *Player) stateLocked() domain.PlayerState {
	st := domain.PlayerState{Status: p.status, Index: p.index, Total: p.doc.StepCount()}
	if step, ok := p.doc.StepAt(p.index); ok && p.status != domain.PlayerIdle {
		st.Step = &step
	}
	return st
}

func (p *Player) publish(st domain.PlayerState) {
	p.mu.Lock()
	observers := make([]func(domain.PlayerState), len(p.onChange))
	copy(observers, p.onChange)
	for _, ch := range p.subs {
		select {
		case <-ch:
		default:
		}
		ch <- st
	}
	p.mu.Unlock()

	for _, fn := range observers {
		fn(st)
	}
}
