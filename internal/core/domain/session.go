package domain

// ExplanationSource tells where an explanation came from.
type ExplanationSource string

// Explanation sources.
const (
	SourceCache     ExplanationSource = "cache"
	SourceGenerated ExplanationSource = "generated"
)

// SessionSnapshot is a read-only view of a learning session for UIs.
type SessionSnapshot struct {
	// ID identifies the session.
	ID string `json:"id"`

	// Term is the last searched term.
	Term string `json:"term"`

	// Document is the current explanation, nil before the first success.
	Document *Explanation `json:"document,omitempty"`

	// Source tells whether Document came from the cache.
	Source ExplanationSource `json:"source,omitempty"`

	Player PlayerState `json:"player"`

	// Pending is the question waiting to be sent to the tutor.
	Pending string `json:"pending,omitempty"`

	Transcript []ChatMessage `json:"transcript"`

	// Loading is true while an explanation is being generated.
	Loading bool `json:"loading"`

	// ChatBusy is true while a tutor reply is outstanding.
	ChatBusy bool `json:"chatBusy"`

	// Error is the last user-visible failure message, empty when none.
	Error string `json:"error,omitempty"`
}
