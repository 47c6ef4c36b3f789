package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/algomaster/internal/core/domain"
	"github.com/custodia-labs/algomaster/internal/core/ports/driven"
	"github.com/custodia-labs/algomaster/internal/core/ports/driving"
	"github.com/custodia-labs/algomaster/internal/logger"
)

// Ensure ExplanationService implements the interface.
var _ driving.ExplanationService = (*ExplanationService)(nil)

// ExplanationService resolves topics through the cache and the generator.
// At most one generation is outstanding at a time.
type ExplanationService struct {
	cache     driven.ExplanationCache
	generator driven.ExplanationGenerator

	mu         sync.Mutex
	generating bool
}

// NewExplanationService creates a new explanation service.
// The cache is optional; without it every request generates.
func NewExplanationService(cache driven.ExplanationCache, generator driven.ExplanationGenerator) *ExplanationService {
	return &ExplanationService{
		cache:     cache,
		generator: generator,
	}
}

// Explain returns the explanation for term, consulting the cache unless
// opts.Refresh is set. Successful generations overwrite the cache entry.
func (s *ExplanationService) Explain(
	ctx context.Context, term string, opts driving.ExplainOptions,
) (*domain.Explanation, domain.ExplanationSource, error) {
	logger.Section("Explain")

	key, ok := domain.CacheKey(term)
	if !ok {
		return nil, "", fmt.Errorf("%w: topic is required", domain.ErrInvalidInput)
	}
	topic := strings.TrimSpace(term)
	logger.Debug("Topic: %q key: %q refresh: %v", topic, key, opts.Refresh)

	if !opts.Refresh {
		if doc, ok := s.load(ctx, key); ok {
			logger.Info("Cache hit for %q", key)
			return doc, domain.SourceCache, nil
		}
		logger.Debug("Cache miss for %q", key)
	}

	if s.generator == nil {
		return nil, "", domain.NewGenerationError(topic, domain.ErrLLMUnavailable)
	}
	if !s.acquire() {
		return nil, "", domain.ErrBusy
	}
	defer s.release()

	start := time.Now()
	doc, err := s.generator.Generate(ctx, topic)
	if err != nil {
		logger.Warn("Generation failed for %q: %v", topic, err)
		var ge *domain.GenerationError
		if !errors.As(err, &ge) {
			err = domain.NewGenerationError(topic, err)
		}
		return nil, "", err
	}
	if err := doc.Validate(); err != nil {
		return nil, "", domain.NewGenerationError(topic, err)
	}
	logger.Info("Generated %q (%d steps) in %s", doc.Name, doc.StepCount(), time.Since(start).Round(time.Millisecond))

	s.store(ctx, key, doc)
	return doc, domain.SourceGenerated, nil
}

// Cached lists stored explanations.
func (s *ExplanationService) Cached(ctx context.Context) ([]domain.CacheEntryInfo, error) {
	if s.cache == nil {
		return []domain.CacheEntryInfo{}, nil
	}
	infos, err := s.cache.List(ctx)
	if err != nil {
		return nil, &domain.CacheError{Op: "list", Err: err}
	}
	return infos, nil
}

// Forget removes the cached explanation for term.
func (s *ExplanationService) Forget(ctx context.Context, term string) error {
	key, ok := domain.CacheKey(term)
	if !ok {
		return fmt.Errorf("%w: topic is required", domain.ErrInvalidInput)
	}
	if s.cache == nil {
		return domain.ErrNotFound
	}
	return s.cache.Delete(ctx, key)
}

// ClearCache removes every cached explanation.
func (s *ExplanationService) ClearCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Clear(ctx)
}

// Generating reports whether a generation is outstanding.
func (s *ExplanationService) Generating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generating
}

func (s *ExplanationService) acquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generating {
		return false
	}
	s.generating = true
	return true
}

func (s *ExplanationService) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generating = false
}

// load reads and decodes a cached explanation. Read, decode and
// validation failures are logged and reported as a miss.
func (s *ExplanationService) load(ctx context.Context, key string) (*domain.Explanation, bool) {
	if s.cache == nil {
		return nil, false
	}
	payload, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("%v", &domain.CacheError{Key: key, Op: "read", Err: err})
		}
		return nil, false
	}

	var doc domain.Explanation
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		logger.Warn("%v", &domain.CacheError{Key: key, Op: "decode", Err: err})
		return nil, false
	}
	if err := doc.Validate(); err != nil {
		logger.Warn("%v", &domain.CacheError{Key: key, Op: "decode", Err: err})
		return nil, false
	}
	return &doc, true
}

// store writes doc under key. Failures are logged and ignored.
func (s *ExplanationService) store(ctx context.Context, key string, doc *domain.Explanation) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		logger.Warn("%v", &domain.CacheError{Key: key, Op: "encode", Err: err})
		return
	}
	if err := s.cache.Set(ctx, key, string(payload)); err != nil {
		logger.Warn("%v", &domain.CacheError{Key: key, Op: "write", Err: err})
	}
}
