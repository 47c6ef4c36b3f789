package ai

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/algomaster/internal/core/domain"
	"github.com/custodia-labs/algomaster/internal/core/ports/driven"
)

type stubLLM struct {
	calls atomic.Int32
	err   error
}

func (s *stubLLM) Generate(context.Context, string, driven.GenerateOptions) (string, error) {
	s.calls.Add(1)
	return "out", s.err
}

func (s *stubLLM) Chat(context.Context, []driven.ChatMessage, driven.ChatOptions) (string, error) {
	s.calls.Add(1)
	return "reply", s.err
}

func (s *stubLLM) ModelName() string          { return "stub" }
func (s *stubLLM) Ping(context.Context) error { return nil }
func (s *stubLLM) Close() error               { return nil }

func TestRateLimited_Delegates(t *testing.T) {
	stub := &stubLLM{}
	svc := WithRateLimit(stub, 0)

	out, err := svc.Generate(context.Background(), "p", driven.GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "out", out)

	reply, err := svc.Chat(context.Background(), nil, driven.ChatOptions{})
	require.NoError(t, err)
	assert.Equal(t, "reply", reply)

	assert.Equal(t, int32(2), stub.calls.Load())
	assert.Equal(t, "stub", svc.ModelName())
	assert.Same(t, stub, svc.Unwrap())
}

func TestRateLimited_ThrottlesBeyondBurst(t *testing.T) {
	stub := &stubLLM{}
	svc := WithRateLimit(stub, 1)

	_, err := svc.Generate(context.Background(), "p", driven.GenerateOptions{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = svc.Generate(ctx, "p", driven.GenerateOptions{})
	require.Error(t, err)
	assert.Equal(t, int32(1), stub.calls.Load())
}

func TestRateLimited_BacksOffAfterRateLimit(t *testing.T) {
	stub := &stubLLM{err: &domain.RateLimitError{Provider: "gemini", RetryAfter: time.Minute}}
	svc := WithRateLimit(stub, 0)

	_, err := svc.Generate(context.Background(), "p", driven.GenerateOptions{})
	require.ErrorIs(t, err, domain.ErrRateLimited)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = svc.Chat(ctx, nil, driven.ChatOptions{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int32(1), stub.calls.Load())
}

func TestRateLimited_DefaultBackoffAndOtherErrors(t *testing.T) {
	now := time.Unix(1000, 0)
	svc := WithRateLimit(&stubLLM{}, 0)
	svc.now = func() time.Time { return now }

	svc.record(errors.New("other"))
	assert.True(t, svc.retryAt.IsZero())

	svc.record(&domain.RateLimitError{Provider: "openai"})
	assert.Equal(t, now.Add(DefaultBackoff), svc.retryAt)
}
