package driven

import (
	"context"

	"github.com/custodia-labs/algomaster/internal/core/domain"
)

// ExplanationCache persists serialised explanations under namespaced keys.
// There is no expiry; Set overwrites.
type ExplanationCache interface {
	// Get returns the stored payload or domain.ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores payload under key, replacing any previous entry.
	Set(ctx context.Context, key, payload string) error

	// Delete removes key. Missing keys return domain.ErrNotFound.
	Delete(ctx context.Context, key string) error

	// List returns metadata for every stored entry ordered by key.
	List(ctx context.Context) ([]domain.CacheEntryInfo, error)

	// Clear removes every entry.
	Clear(ctx context.Context) error
}
