// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/algomaster/internal/adapters/driven/genai"
	anthropicllm "github.com/custodia-labs/algomaster/internal/adapters/driven/llm/anthropic"
	geminillm "github.com/custodia-labs/algomaster/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/custodia-labs/algomaster/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/algomaster/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/algomaster/internal/core/domain"
	"github.com/custodia-labs/algomaster/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	LLMService  driven.LLMService
	Generator   *genai.Generator
	Assistant   *genai.ChatAssistant
	PromptStore driven.PromptStore // User-customisable prompt templates.
	Warnings    []string           // Non-fatal issues; the collaborators report ErrLLMUnavailable.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Initialise builds the generation and chat collaborators for settings.
// A missing or broken LLM configuration is not fatal: the collaborators
// are still returned and fail each request with domain.ErrLLMUnavailable.
// Set validate to ping the provider before use.
func Initialise(settings *domain.LLMSettings, prompts driven.PromptStore, validate bool) *InitResult {
	result := &InitResult{PromptStore: prompts}

	var (
		svc driven.LLMService
		err error
	)
	switch {
	case settings == nil || !settings.IsConfigured():
		result.Warnings = append(result.Warnings,
			"LLM provider is not configured. Run 'algomaster settings set llm.api_key <key>' to fix")
	case validate:
		svc, err = CreateAndValidateLLMService(settings)
	default:
		svc, err = CreateLLMService(settings)
		if err != nil {
			err = fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
		}
	}
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
		svc = nil
	}
	if svc != nil {
		svc = WithRateLimit(svc, settings.RequestsPerMinute)
	}

	result.LLMService = svc
	result.Generator = genai.NewGenerator(svc)
	result.Assistant = genai.NewChatAssistant(svc)
	if prompts != nil {
		result.Generator.SetPromptStore(prompts)
		result.Assistant.SetPromptStore(prompts)
	}
	return result
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'algomaster settings show' to check the configuration",
			domain.ErrLLMUnavailable, err)
	}

	if svc == nil {
		return nil, nil
	}

	// Validate connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'algomaster settings show' to check the configuration",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
// This is intended for use by the settings commands to validate credentials on configuration.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderGemini:
		return createGeminiLLM(settings)

	case domain.AIProviderOllama:
		return createOllamaLLM(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAILLM(settings)

	case domain.AIProviderAnthropic:
		return createAnthropicLLM(settings)

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// createGeminiLLM creates a Gemini LLM service.
func createGeminiLLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return geminillm.NewLLMService(context.Background(), geminillm.Config{
		APIKey:   settings.APIKey,
		Model:    settings.Model,
		Endpoint: settings.BaseURL,
	})
}

// createOllamaLLM creates an Ollama LLM service.
func createOllamaLLM(settings *domain.LLMSettings) driven.LLMService {
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createOpenAILLM creates an OpenAI LLM service.
func createOpenAILLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createAnthropicLLM creates an Anthropic LLM service.
func createAnthropicLLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return anthropicllm.NewLLMService(anthropicllm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}
