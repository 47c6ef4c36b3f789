package driven

import (
	"context"

	"github.com/custodia-labs/algomaster/internal/core/domain"
)

// ExplanationGenerator turns a topic into a validated explanation document.
// Failures are reported as *domain.GenerationError.
type ExplanationGenerator interface {
	Generate(ctx context.Context, topic string) (*domain.Explanation, error)
}

// ChatAssistant answers a tutor question.
//
// systemContext describes what the user is looking at, history is the
// transcript before the question, and question is the new user message.
type ChatAssistant interface {
	Reply(ctx context.Context, systemContext string, history []domain.ChatMessage, question string) (string, error)
}
