package ai

import (
	"fmt"

	"github.com/custodia-labs/algomaster/internal/core/domain"
	"github.com/custodia-labs/algomaster/internal/core/ports/driven"
)

var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator checks LLM settings before the settings service saves them.
type ConfigValidator struct {
	ping func(*domain.LLMSettings) error
}

// NewConfigValidator returns a validator that pings the configured provider.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{ping: ValidateLLMConfig}
}

// ValidateLLM rejects a negative request budget, then pings the provider
// when one is configured.
func (v *ConfigValidator) ValidateLLM(settings *domain.LLMSettings) error {
	if settings == nil {
		return nil
	}
	if settings.RequestsPerMinute < 0 {
		return fmt.Errorf("%w: requests per minute must not be negative, got %d",
			domain.ErrInvalidInput, settings.RequestsPerMinute)
	}
	return v.ping(settings)
}
