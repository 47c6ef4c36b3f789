package domain

import (
	"strings"
	"time"
)

// CacheKeyPrefix namespaces explanation entries in the local cache.
// Bumping the version orphans entries written by older layouts.
const CacheKeyPrefix = "algo_cache_v1_"

// NormalizeTerm trims surrounding whitespace and case-folds term.
func NormalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// CacheKey returns the namespaced cache key for term.
// The second result is false when term is blank.
func CacheKey(term string) (string, bool) {
	n := NormalizeTerm(term)
	if n == "" {
		return "", false
	}
	return CacheKeyPrefix + n, true
}

// CacheEntryInfo describes a stored cache entry without its payload.
type CacheEntryInfo struct {
	Key       string
	Size      int
	UpdatedAt time.Time
}

// Term returns the normalised term the entry was stored under.
func (c CacheEntryInfo) Term() string {
	return strings.TrimPrefix(c.Key, CacheKeyPrefix)
}
