package driving

import (
	"context"

	"github.com/custodia-labs/algomaster/internal/core/domain"
)

// ExplainOptions configures an explanation request.
type ExplainOptions struct {
	// Refresh bypasses the cache and regenerates the explanation.
	Refresh bool
}

// ExplanationService resolves topics to explanation documents through the
// local cache and the generation collaborator.
type ExplanationService interface {
	// Explain returns the explanation for term and where it came from.
	// A blank term returns domain.ErrInvalidInput. A call made while a
	// generation is outstanding returns domain.ErrBusy.
	Explain(ctx context.Context, term string, opts ExplainOptions) (*domain.Explanation, domain.ExplanationSource, error)

	// Cached lists stored explanations.
	Cached(ctx context.Context) ([]domain.CacheEntryInfo, error)

	// Forget removes the cached explanation for term.
	Forget(ctx context.Context, term string) error

	// ClearCache removes every cached explanation.
	ClearCache(ctx context.Context) error
}
