package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/algomaster/internal/core/domain"
	"github.com/custodia-labs/algomaster/internal/core/ports/driven"
	"github.com/custodia-labs/algomaster/internal/logger"
)

// ContextProvider returns the tutor context block at send time.
type ContextProvider func() string

// ChatSession owns the tutor transcript. The transcript is append-only
// and starts with the greeting. Only one reply may be outstanding;
// further sends are rejected with domain.ErrBusy.
type ChatSession struct {
	assistant driven.ChatAssistant
	context   ContextProvider
	now       func() time.Time

	mu         sync.Mutex
	transcript []domain.ChatMessage
	busy       bool
}

// NewChatSession creates a session seeded with the greeting.
// A nil context provider yields the dashboard context.
func NewChatSession(assistant driven.ChatAssistant, provider ContextProvider, now func() time.Time) *ChatSession {
	if provider == nil {
		provider = func() string { return domain.DashboardContext }
	}
	if now == nil {
		now = time.Now
	}
	return &ChatSession{
		assistant:  assistant,
		context:    provider,
		now:        now,
		transcript: []domain.ChatMessage{domain.NewChatMessage(domain.RoleModel, domain.ChatGreeting, now())},
	}
}

// Send asks the tutor question and appends both the question and the
// reply. On failure the fallback text is appended and a *domain.ChatError
// is returned alongside it.
func (c *ChatSession) Send(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("%w: question is required", domain.ErrInvalidInput)
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return "", domain.ErrBusy
	}
	c.busy = true
	history := append([]domain.ChatMessage(nil), c.transcript...)
	c.transcript = append(c.transcript, domain.NewChatMessage(domain.RoleUser, question, c.now()))
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
	}()

	logger.Section("Chat")
	logger.Debug("Question: %q (history %d)", question, len(history))

	reply, err := c.ask(ctx, history, question)
	if err != nil {
		logger.Warn("Chat failed: %v", err)
		c.appendReply(domain.ChatFallback)
		return domain.ChatFallback, &domain.ChatError{Err: err}
	}
	if strings.TrimSpace(reply) == "" {
		reply = domain.ChatEmptyReply
	}
	c.appendReply(reply)
	return reply, nil
}

func (c *ChatSession) ask(ctx context.Context, history []domain.ChatMessage, question string) (string, error) {
	if c.assistant == nil {
		return "", domain.ErrLLMUnavailable
	}
	return c.assistant.Reply(ctx, c.context(), history, question)
}

// DispatchPending sends the router's staged question. It returns false
// without consuming the question while a reply is outstanding.
func (c *ChatSession) DispatchPending(ctx context.Context, router *TermRouter) (string, bool, error) {
	if c.Busy() {
		return "", false, nil
	}
	q, ok := router.Take()
	if !ok {
		return "", false, nil
	}
	reply, err := c.Send(ctx, q)
	return reply, true, err
}

func (c *ChatSession) appendReply(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transcript = append(c.transcript, domain.NewChatMessage(domain.RoleModel, text, c.now()))
}

// Busy reports whether a reply is outstanding.
func (c *ChatSession) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Transcript returns a copy of the transcript.
func (c *ChatSession) Transcript() []domain.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.ChatMessage(nil), c.transcript...)
}
