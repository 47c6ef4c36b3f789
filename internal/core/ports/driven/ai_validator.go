package driven

import "github.com/custodia-labs/algomaster/internal/core/domain"

// AIConfigValidator checks LLM settings before they are saved.
type AIConfigValidator interface {
	// ValidateLLM returns nil for unconfigured providers. A configured
	// provider must be reachable and the request budget non-negative.
	ValidateLLM(settings *domain.LLMSettings) error
}
