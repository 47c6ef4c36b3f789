// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/algomaster/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewBrowser is the topic search and catalog view.
	ViewBrowser ViewType = iota
	// ViewPlayer is the step player for the loaded explanation.
	ViewPlayer
	// ViewChat is the tutor chat.
	ViewChat
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewBrowser:
		return "browser"
	case ViewPlayer:
		return "player"
	case ViewChat:
		return "chat"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// TopicSelected requests loading the explanation of a topic.
type TopicSelected struct {
	Topic string
}

// RefreshRequested requests regenerating the current explanation.
type RefreshRequested struct{}

// ExplanationLoaded reports the end of a search or refresh.
type ExplanationLoaded struct {
	Term string
	Err  error
}

// PlayerChanged carries a step player state from the session subscription.
type PlayerChanged struct {
	State domain.PlayerState
}

// QuestionStaged is sent after a term or primitive click staged a question.
type QuestionStaged struct {
	Question string
}

// QuestionAsked requests sending a typed question to the tutor.
type QuestionAsked struct {
	Question string
}

// ChatReplied reports a finished tutor round trip. Dispatched is false when
// there was nothing to send or a reply was still outstanding.
type ChatReplied struct {
	Reply      string
	Dispatched bool
	Err        error
}

// TranscriptExported reports where the transcript was written.
type TranscriptExported struct {
	Path string
	Err  error
}

// TranscriptCopied reports a clipboard copy of the transcript.
type TranscriptCopied struct {
	Err error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
