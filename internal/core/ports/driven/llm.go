// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// LLMService provides raw language model operations.
// The genai collaborators build prompts on top of it.
//
// Implementations include:
//   - Gemini (generativelanguage API)
//   - OpenAI (Chat Completions)
//   - Anthropic (Messages API)
//   - Ollama (local models)
type LLMService interface {
	// Generate produces a completion from a single prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// Chat conducts a multi-turn conversation.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string

	// JSONMode asks the provider to return a single JSON object.
	JSONMode bool

	// Schema constrains the JSON reply on providers with structured
	// output. Providers without it fall back to JSONMode.
	Schema *Schema
}

// SchemaType names a JSON schema value type.
type SchemaType string

// Schema value types.
const (
	SchemaString  SchemaType = "STRING"
	SchemaNumber  SchemaType = "NUMBER"
	SchemaInteger SchemaType = "INTEGER"
	SchemaBoolean SchemaType = "BOOLEAN"
	SchemaArray   SchemaType = "ARRAY"
	SchemaObject  SchemaType = "OBJECT"
)

// Schema is the subset of OpenAPI schema used for structured output.
// Field tags follow the OpenAPI names so adapters can convert through JSON.
type Schema struct {
	Type             SchemaType         `json:"type"`
	Description      string             `json:"description,omitempty"`
	Enum             []string           `json:"enum,omitempty"`
	Items            *Schema            `json:"items,omitempty"`
	Properties       map[string]*Schema `json:"properties,omitempty"`
	PropertyOrdering []string           `json:"propertyOrdering,omitempty"`
	Required         []string           `json:"required,omitempty"`
}

// Chat roles understood by every provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
