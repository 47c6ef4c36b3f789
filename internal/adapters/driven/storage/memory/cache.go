package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/algomaster/internal/core/domain"
	"github.com/custodia-labs/algomaster/internal/core/ports/driven"
)

// Ensure ExplanationCache implements the interface.
var _ driven.ExplanationCache = (*ExplanationCache)(nil)

type cacheEntry struct {
	payload   string
	updatedAt time.Time
}

// ExplanationCache is an in-memory implementation of driven.ExplanationCache.
// Entries live for the lifetime of the process.
type ExplanationCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewExplanationCache creates a new in-memory explanation cache.
func NewExplanationCache() *ExplanationCache {
	return &ExplanationCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the payload stored under key.
func (c *ExplanationCache) Get(_ context.Context, key string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return e.payload, nil
}

// Set stores payload under key, overwriting any previous entry.
func (c *ExplanationCache) Set(_ context.Context, key, payload string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{payload: payload, updatedAt: c.now()}
	return nil
}

// Delete removes key.
func (c *ExplanationCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		return domain.ErrNotFound
	}
	delete(c.entries, key)
	return nil
}

// List returns entry metadata ordered by key.
func (c *ExplanationCache) List(_ context.Context) ([]domain.CacheEntryInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	infos := make([]domain.CacheEntryInfo, 0, len(c.entries))
	for k, e := range c.entries {
		infos = append(infos, domain.CacheEntryInfo{Key: k, Size: len(e.payload), UpdatedAt: e.updatedAt})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}

// Clear removes every entry.
func (c *ExplanationCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
	return nil
}
