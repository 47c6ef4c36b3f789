package genai

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/algomaster/internal/core/ports/driven"
)

// Ensure mocks implement interfaces.
var (
	_ driven.LLMService  = (*mockLLM)(nil)
	_ driven.PromptStore = (*mockPromptStore)(nil)
)

type mockLLM struct {
	mu         sync.Mutex
	output     string
	err        error
	prompt     string
	genOpts    driven.GenerateOptions
	messages   []driven.ChatMessage
	chatCalled int
}

func (m *mockLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompt = prompt
	m.genOpts = opts
	return m.output, m.err
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = messages
	m.chatCalled++
	return m.output, m.err
}

func (m *mockLLM) ModelName() string            { return "mock-model" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	p, ok := m.prompts[name]
	if !ok {
		return "", errors.New("no prompt")
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}
