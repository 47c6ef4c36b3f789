package visual

import "github.com/custodia-labs/algomaster/internal/core/domain"

// Identity names the payload a selection belongs to. A new explanation
// or a different step is a new identity.
type Identity struct {
	Doc  *domain.Explanation
	Step int
}

// Selection tracks at most one selected primitive and forgets it as soon
// as the payload identity changes.
type Selection struct {
	owner Identity
	index int
	set   bool
}

// Track binds the selection to id, clearing it when id differs from the
// current owner. It reports whether the selection was reset.
func (s *Selection) Track(id Identity) bool {
	if s.owner == id {
		return false
	}
	s.owner = id
	reset := s.set
	s.Clear()
	return reset
}

// Select marks primitive i of scene and returns its click event.
func (s *Selection) Select(scene Scene, i int) (Click, bool) {
	c, ok := scene.Click(i)
	if !ok {
		return nil, false
	}
	s.index, s.set = i, true
	return c, true
}

// Next moves the selection forward, wrapping around n primitives.
func (s *Selection) Next(n int) {
	if n <= 0 {
		return
	}
	if !s.set {
		s.index, s.set = 0, true
		return
	}
	s.index = (s.index + 1) % n
}

// Prev moves the selection backward, wrapping around n primitives.
func (s *Selection) Prev(n int) {
	if n <= 0 {
		return
	}
	if !s.set {
		s.index, s.set = n-1, true
		return
	}
	s.index = (s.index - 1 + n) % n
}

// Index returns the selected primitive.
func (s *Selection) Index() (int, bool) {
	return s.index, s.set
}

// Clear drops the selection.
func (s *Selection) Clear() {
	s.index, s.set = 0, false
}
