package genai

import (
	"context"
	"strings"

	"github.com/custodia-labs/algomaster/internal/core/domain"
	"github.com/custodia-labs/algomaster/internal/core/ports/driven"
)

// Ensure ChatAssistant implements the interfaces.
var (
	_ driven.ChatAssistant    = (*ChatAssistant)(nil)
	_ driven.PromptStoreAware = (*ChatAssistant)(nil)
)

const fallbackChatPrompt = `You are an AI tutor. The learner is currently looking at:
%s

Answer in Simplified Chinese using markdown, refer to the example dataset,
and explain hard ideas with analogies.`

// ChatAssistant answers tutor questions with a language model.
type ChatAssistant struct {
	llm     driven.LLMService
	prompts driven.PromptStore
}

// NewChatAssistant creates a chat assistant backed by llm.
func NewChatAssistant(llm driven.LLMService) *ChatAssistant {
	return &ChatAssistant{llm: llm}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (a *ChatAssistant) SetPromptStore(store driven.PromptStore) {
	a.prompts = store
}

// Reply sends the system instruction, the prior transcript and question
// as one conversation and returns the model's answer.
func (a *ChatAssistant) Reply(
	ctx context.Context,
	systemContext string,
	history []domain.ChatMessage,
	question string,
) (string, error) {
	if a.llm == nil {
		return "", domain.ErrLLMUnavailable
	}

	messages := make([]driven.ChatMessage, 0, len(history)+2)
	messages = append(messages, driven.ChatMessage{
		Role:    driven.RoleSystem,
		Content: render(loadPrompt(a.prompts, driven.PromptChatSystem, fallbackChatPrompt), systemContext),
	})
	for _, m := range history {
		if strings.TrimSpace(m.Text) == "" {
			continue
		}
		messages = append(messages, driven.ChatMessage{Role: llmRole(m.Role), Content: m.Text})
	}
	messages = append(messages, driven.ChatMessage{Role: driven.RoleUser, Content: question})

	return a.llm.Chat(ctx, messages, driven.ChatOptions{})
}

func llmRole(r domain.Role) string {
	if r == domain.RoleModel {
		return driven.RoleAssistant
	}
	return driven.RoleUser
}
