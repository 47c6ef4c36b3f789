package driving

import (
	"context"

	"github.com/custodia-labs/algomaster/internal/core/domain"
)

// TranscriptFormat selects the chat transcript export encoding.
type TranscriptFormat string

// Export formats.
const (
	TranscriptText     TranscriptFormat = "text"
	TranscriptMarkdown TranscriptFormat = "markdown"
	TranscriptHTML     TranscriptFormat = "html"
)

// LearningSession is the single owner of what the user is studying:
// the current explanation, the step player, the pending tutor question
// and the chat transcript.
type LearningSession interface {
	// Search loads the explanation for term, cache first.
	Search(ctx context.Context, term string) error

	// Refresh regenerates the current explanation, bypassing the cache.
	Refresh(ctx context.Context) error

	// Next, Prev and TogglePlay drive the step player.
	Next()
	Prev()
	TogglePlay()

	// GoTo jumps to the step at zero-based position i. Out of range
	// positions are ignored.
	GoTo(i int)

	// State returns the step player snapshot.
	State() domain.PlayerState

	// Subscribe streams player states until cancel is called.
	Subscribe() (<-chan domain.PlayerState, func())

	// ClickTerm, ClickNode, ClickPoint and ClickCell stage a tutor
	// question for the clicked item. The latest click wins.
	ClickTerm(term string)
	ClickNode(node domain.NodeData)
	ClickPoint(point domain.ChartPoint)
	ClickCell(cell domain.MatrixCell, row, col int)

	// Ask sends a typed question to the tutor.
	Ask(ctx context.Context, question string) (string, error)

	// DispatchPending sends the staged question, if any.
	// The boolean reports whether a question was sent.
	DispatchPending(ctx context.Context) (string, bool, error)

	// ExportTranscript renders the chat transcript.
	ExportTranscript(format TranscriptFormat) (string, error)

	// Snapshot returns a read-only view of the whole session.
	Snapshot() domain.SessionSnapshot

	// Close stops the player timer and releases subscribers.
	Close()
}
