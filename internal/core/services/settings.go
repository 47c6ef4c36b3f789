package services

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/custodia-labs/algomaster/internal/core/domain"
	"github.com/custodia-labs/algomaster/internal/core/ports/driven"
	"github.com/custodia-labs/algomaster/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyLLMProvider    = "llm.provider"
	keyLLMModel       = "llm.model"
	keyLLMBaseURL     = "llm.base_url"
	keyLLMAPIKey      = "llm.api_key"
	keyLLMRateLimit   = "llm.requests_per_minute"
	keyPlayerAutoplay = "player.autoplay_ms"
	keyCacheBackend   = "cache.backend"
)

// EnvAPIKey overrides the configured API key for any provider.
const EnvAPIKey = "ALGOMASTER_API_KEY"

// providerEnv lists provider-specific API key variables.
var providerEnv = map[domain.AIProvider]string{
	domain.AIProviderGemini:    "GEMINI_API_KEY",
	domain.AIProviderOpenAI:    "OPENAI_API_KEY",
	domain.AIProviderAnthropic: "ANTHROPIC_API_KEY",
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings. A missing API key falls
// back to ALGOMASTER_API_KEY, then the provider's own variable.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	provider := s.getProvider(defaults.LLM.Provider)
	model := s.configStore.GetString(keyLLMModel)
	if model == "" {
		model = domain.DefaultLLMModels()[provider]
	}

	settings := &domain.AppSettings{
		LLM: domain.LLMSettings{
			Provider:          provider,
			Model:             model,
			BaseURL:           s.configStore.GetString(keyLLMBaseURL),
			APIKey:            s.apiKey(provider),
			RequestsPerMinute: s.configStore.GetInt(keyLLMRateLimit),
		},
		Player: domain.PlayerSettings{
			AutoplayInterval: defaults.Player.AutoplayInterval,
		},
		Cache: domain.CacheSettings{
			Backend: defaults.Cache.Backend,
		},
	}
	if ms := s.configStore.GetInt(keyPlayerAutoplay); ms > 0 {
		settings.Player.AutoplayInterval = time.Duration(ms) * time.Millisecond
	}
	if b := domain.CacheBackend(s.configStore.GetString(keyCacheBackend)); b.IsValid() {
		settings.Cache.Backend = b
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.configStore.Set(keyLLMProvider, settings.LLM.Provider.String()); err != nil {
		return fmt.Errorf("save llm provider: %w", err)
	}
	if err := s.configStore.Set(keyLLMModel, settings.LLM.Model); err != nil {
		return fmt.Errorf("save llm model: %w", err)
	}
	if err := s.configStore.Set(keyLLMBaseURL, settings.LLM.BaseURL); err != nil {
		return fmt.Errorf("save llm base_url: %w", err)
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}
	if err := s.configStore.Set(keyLLMRateLimit, settings.LLM.RequestsPerMinute); err != nil {
		return fmt.Errorf("save llm requests_per_minute: %w", err)
	}
	if err := s.configStore.Set(keyPlayerAutoplay, int(settings.Player.AutoplayInterval/time.Millisecond)); err != nil {
		return fmt.Errorf("save player autoplay: %w", err)
	}
	if err := s.configStore.Set(keyCacheBackend, string(settings.Cache.Backend)); err != nil {
		return fmt.Errorf("save cache backend: %w", err)
	}
	return nil
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid LLM provider: %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	if provider.RequiresAPIKey() && apiKey == "" && s.envAPIKey(provider) == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings.LLM.Provider = provider
	if model != "" {
		settings.LLM.Model = model
	} else {
		settings.LLM.Model = domain.DefaultLLMModels()[provider]
	}

	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.LLM.BaseURL = ""
	}
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetValue sets one setting by config key.
func (s *SettingsService) SetValue(key, value string) error {
	switch key {
	case keyLLMProvider:
		if !domain.AIProvider(value).IsValid() {
			return fmt.Errorf("%w: invalid LLM provider: %s", domain.ErrInvalidInput, value)
		}
		return s.configStore.Set(key, value)
	case keyLLMModel, keyLLMBaseURL, keyLLMAPIKey:
		return s.configStore.Set(key, value)
	case keyLLMRateLimit, keyPlayerAutoplay:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, n)
	case keyCacheBackend:
		if !domain.CacheBackend(value).IsValid() {
			return fmt.Errorf("%w: invalid cache backend: %s", domain.ErrInvalidInput, value)
		}
		return s.configStore.Set(key, value)
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
}

// Keys returns the settable config keys.
func (s *SettingsService) Keys() []string {
	return []string{
		keyLLMProvider,
		keyLLMModel,
		keyLLMBaseURL,
		keyLLMAPIKey,
		keyLLMRateLimit,
		keyPlayerAutoplay,
		keyCacheBackend,
	}
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

func (s *SettingsService) getProvider(defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(keyLLMProvider))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) apiKey(provider domain.AIProvider) string {
	if key := s.configStore.GetString(keyLLMAPIKey); key != "" {
		return key
	}
	return s.envAPIKey(provider)
}

func (s *SettingsService) envAPIKey(provider domain.AIProvider) string {
	if key := s.getenv(EnvAPIKey); key != "" {
		return key
	}
	if name, ok := providerEnv[provider]; ok {
		return s.getenv(name)
	}
	return ""
}
