package domain

import "fmt"

// PlayerStatus is the step player state.
type PlayerStatus int

// Player states.
const (
	// PlayerIdle means no explanation is loaded.
	PlayerIdle PlayerStatus = iota

	// PlayerViewing shows a step without advancing.
	PlayerViewing

	// PlayerPlaying advances automatically on every tick.
	PlayerPlaying
)

// String returns the string representation.
func (s PlayerStatus) String() string {
	switch s {
	case PlayerIdle:
		return "idle"
	case PlayerViewing:
		return "viewing"
	case PlayerPlaying:
		return "playing"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status by name.
func (s PlayerStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// PlayerState is an immutable snapshot of the step player.
type PlayerState struct {
	Status PlayerStatus `json:"status"`
	Index  int          `json:"index"`
	Total  int          `json:"total"`

	// Step is the current step. It is nil while idle.
	Step *Step `json:"step,omitempty"`
}

// Position returns the 1-based position of the current step, or 0 when idle.
func (s PlayerState) Position() int {
	if s.Status == PlayerIdle {
		return 0
	}
	return s.Index + 1
}

// Progress formats the position as "current/total", or "" when idle.
func (s PlayerState) Progress() string {
	if s.Status == PlayerIdle {
		return ""
	}
	return fmt.Sprintf("%d/%d", s.Position(), s.Total)
}

// IsPlaying reports whether autoplay is running.
func (s PlayerState) IsPlaying() bool {
	return s.Status == PlayerPlaying
}

// AtStart reports whether the first step is shown.
func (s PlayerState) AtStart() bool {
	return s.Index == 0
}

// AtEnd reports whether the last step is shown.
func (s PlayerState) AtEnd() bool {
	return s.Total == 0 || s.Index == s.Total-1
}
