package ai

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/algomaster/internal/core/domain"
	"github.com/custodia-labs/algomaster/internal/core/ports/driven"
	"github.com/custodia-labs/algomaster/internal/logger"
)

// Ensure RateLimited implements the interface.
var _ driven.LLMService = (*RateLimited)(nil)

// DefaultBackoff applies after a rate limit error without a retry hint.
const DefaultBackoff = 30 * time.Second

// RateLimited throttles an LLM service with a token bucket and backs off
// after the provider reports a rate limit.
type RateLimited struct {
	next    driven.LLMService
	limiter *rate.Limiter

	mu      sync.Mutex
	retryAt time.Time
	now     func() time.Time
}

// WithRateLimit wraps svc so that at most requestsPerMinute calls start per
// minute. A non-positive limit only enables the backoff.
func WithRateLimit(svc driven.LLMService, requestsPerMinute int) *RateLimited {
	limit := rate.Inf
	burst := 1
	if requestsPerMinute > 0 {
		limit = rate.Limit(float64(requestsPerMinute) / 60)
		burst = max(1, requestsPerMinute/10)
	}
	return &RateLimited{
		next:    svc,
		limiter: rate.NewLimiter(limit, burst),
		now:     time.Now,
	}
}

// Generate waits for a slot and delegates.
func (r *RateLimited) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if err := r.wait(ctx); err != nil {
		return "", err
	}
	out, err := r.next.Generate(ctx, prompt, opts)
	r.record(err)
	return out, err
}

// Chat waits for a slot and delegates.
func (r *RateLimited) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	if err := r.wait(ctx); err != nil {
		return "", err
	}
	out, err := r.next.Chat(ctx, messages, opts)
	r.record(err)
	return out, err
}

// ModelName returns the wrapped model name.
func (r *RateLimited) ModelName() string {
	return r.next.ModelName()
}

// Ping is not throttled.
func (r *RateLimited) Ping(ctx context.Context) error {
	return r.next.Ping(ctx)
}

// Close closes the wrapped service.
func (r *RateLimited) Close() error {
	return r.next.Close()
}

// Unwrap returns the wrapped service.
func (r *RateLimited) Unwrap() driven.LLMService {
	return r.next
}

// wait blocks until the backoff has passed and a token is available.
func (r *RateLimited) wait(ctx context.Context) error {
	r.mu.Lock()
	delay := r.retryAt.Sub(r.now())
	r.mu.Unlock()

	if delay > 0 {
		logger.Debug("LLM backoff: waiting %s", delay.Round(time.Millisecond))
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return r.limiter.Wait(ctx)
}

// record sets the backoff when err is a provider rate limit.
func (r *RateLimited) record(err error) {
	var rl *domain.RateLimitError
	if !errors.As(err, &rl) {
		return
	}
	backoff := rl.RetryAfter
	if backoff <= 0 {
		backoff = DefaultBackoff
	}
	logger.Warn("%s rate limited, backing off for %s", rl.Provider, backoff)

	r.mu.Lock()
	r.retryAt = r.now().Add(backoff)
	r.mu.Unlock()
}
