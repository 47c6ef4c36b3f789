// Package gemini provides an LLM service adapter for the Google Gemini
// generativelanguage API.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/option"

	"github.com/custodia-labs/algomaster/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultModel   = "gemini-2.5-flash"
	DefaultTimeout = 180 * time.Second

	jsonMimeType = "application/json"
	roleModel    = "model"
)

// Config holds configuration for the Gemini LLM service.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// Model is the model name without the "models/" prefix.
	Model string

	// Endpoint overrides the API base URL.
	Endpoint string

	// HTTPClient replaces the default authenticated client. The API key
	// is not attached when set.
	HTTPClient *http.Client

	// Timeout bounds each request (default: 180s).
	Timeout time.Duration
}

// LLMService provides LLM operations using Gemini.
type LLMService struct {
	svc     *generativelanguage.Service
	model   string
	timeout time.Duration
}

// NewLLMService creates a new Gemini LLM service.
func NewLLMService(ctx context.Context, cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" && cfg.HTTPClient == nil {
		return nil, errors.New("gemini: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	var opts []option.ClientOption
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	} else {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	svc, err := generativelanguage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &LLMService{
		svc:     svc,
		model:   strings.TrimPrefix(cfg.Model, "models/"),
		timeout: cfg.Timeout,
	}, nil
}

// Generate produces a completion from a single prompt. JSONMode sets the
// response MIME type to application/json; a Schema is sent as the
// response schema and implies JSON.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	req := &generativelanguage.GenerateContentRequest{
		Contents:         []*generativelanguage.Content{userContent(prompt)},
		GenerationConfig: generationConfig(opts.MaxTokens, opts.Temperature, opts.StopWords),
	}
	if opts.JSONMode || opts.Schema != nil {
		req.GenerationConfig.ResponseMimeType = jsonMimeType
	}
	if opts.Schema != nil {
		schema, err := responseSchema(opts.Schema)
		if err != nil {
			return "", err
		}
		req.GenerationConfig.ResponseSchema = schema
	}
	return s.generate(ctx, req)
}

// responseSchema converts through JSON; the field names are shared.
func responseSchema(in *driven.Schema) (*generativelanguage.Schema, error) {
	data, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("gemini: encode schema: %w", err)
	}
	var out generativelanguage.Schema
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("gemini: decode schema: %w", err)
	}
	return &out, nil
}

// Chat conducts a multi-turn conversation. System messages become the
// system instruction and assistant turns use the "model" role.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	req := &generativelanguage.GenerateContentRequest{
		GenerationConfig: generationConfig(opts.MaxTokens, opts.Temperature, nil),
	}

	var system []*generativelanguage.Part
	for _, m := range messages {
		switch m.Role {
		case driven.RoleSystem:
			system = append(system, &generativelanguage.Part{Text: m.Content})
		case driven.RoleAssistant:
			req.Contents = append(req.Contents, &generativelanguage.Content{
				Role:  roleModel,
				Parts: []*generativelanguage.Part{{Text: m.Content}},
			})
		default:
			req.Contents = append(req.Contents, userContent(m.Content))
		}
	}
	if len(system) > 0 {
		req.SystemInstruction = &generativelanguage.Content{Parts: system}
	}

	return s.generate(ctx, req)
}

func userContent(text string) *generativelanguage.Content {
	return &generativelanguage.Content{
		Role:  driven.RoleUser,
		Parts: []*generativelanguage.Part{{Text: text}},
	}
}

func generationConfig(maxTokens int, temperature float64, stop []string) *generativelanguage.GenerationConfig {
	cfg := &generativelanguage.GenerationConfig{
		MaxOutputTokens: int64(maxTokens),
		Temperature:     temperature,
		StopSequences:   stop,
	}
	if temperature == 0 {
		// omitempty would drop an explicit zero
		cfg.ForceSendFields = append(cfg.ForceSendFields, "Temperature")
	}
	return cfg
}

func (s *LLMService) generate(ctx context.Context, req *generativelanguage.GenerateContentRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.svc.Models.GenerateContent("models/"+s.model, req).Context(ctx).Do()
	if err != nil {
		return "", WrapError(err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("gemini: prompt blocked: %s", resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini: no candidates returned")
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			out.WriteString(part.Text)
		}
	}
	return out.String(), nil
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the key and model by fetching the model metadata.
func (s *LLMService) Ping(ctx context.Context) error {
	if _, err := s.svc.Models.Get("models/" + s.model).Context(ctx).Do(); err != nil {
		return fmt.Errorf("gemini: ping failed: %w", WrapError(err))
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}
