package domain

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrRateLimited indicates the LLM provider throttled the request.
	ErrRateLimited = errors.New("LLM rate limit exceeded")

	// ErrBusy indicates a request of the same kind is already outstanding.
	// Requests are rejected rather than queued.
	ErrBusy = errors.New("request already in progress")

	// ErrNoDocument indicates an operation needs a loaded explanation.
	ErrNoDocument = errors.New("no explanation loaded")

	// Explanation Errors.

	// ErrGeneration indicates the generation collaborator failed or returned
	// nothing usable.
	ErrGeneration = errors.New("explanation generation failed")

	// ErrInvalidDocument indicates a payload does not satisfy the
	// explanation document contract.
	ErrInvalidDocument = errors.New("invalid explanation document")

	// ErrCache indicates the local cache could not be read or written.
	// Cache failures are absorbed by services and never reach the user.
	ErrCache = errors.New("cache failure")

	// Chat Errors.

	// ErrChat indicates the chat collaborator failed.
	ErrChat = errors.New("chat request failed")
)

// GenerationError reports a failed explanation generation for a topic.
type GenerationError struct {
	Topic string
	Err   error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("generate %q: %s", e.Topic, ErrGeneration)
	}
	return fmt.Sprintf("generate %q: %v", e.Topic, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Is reports GenerationError as ErrGeneration.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGeneration
}

// NewGenerationError wraps err as a GenerationError for topic.
func NewGenerationError(topic string, err error) *GenerationError {
	return &GenerationError{Topic: topic, Err: err}
}

// ChatError reports a failed chat round trip.
type ChatError struct {
	Err error
}

func (e *ChatError) Error() string {
	if e.Err == nil {
		return ErrChat.Error()
	}
	return fmt.Sprintf("%s: %v", ErrChat, e.Err)
}

func (e *ChatError) Unwrap() error { return e.Err }

// Is reports ChatError as ErrChat.
func (e *ChatError) Is(target error) bool {
	return target == ErrChat
}

// CacheError reports a cache read, decode or write failure for a key.
type CacheError struct {
	Key string
	Op  string
	Err error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *CacheError) Unwrap() error { return e.Err }

// Is reports CacheError as ErrCache.
func (e *CacheError) Is(target error) bool {
	return target == ErrCache
}

// RateLimitError reports a provider throttle. RetryAfter is zero when the
// provider gave no hint.
type RateLimitError struct {
	Provider   string
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Provider, ErrRateLimited)
	if e.RetryAfter > 0 {
		msg += fmt.Sprintf(" (retry after %s)", e.RetryAfter)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// Is reports RateLimitError as ErrRateLimited.
func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}
