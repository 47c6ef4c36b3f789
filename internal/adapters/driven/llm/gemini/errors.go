package gemini

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/algomaster/internal/core/domain"
)

// Gemini API errors.
var (
	// ErrUnauthorized indicates an invalid API key.
	ErrUnauthorized = errors.New("gemini: unauthorised (invalid API key)")

	// ErrForbidden indicates the key lacks access to the model.
	ErrForbidden = errors.New("gemini: forbidden")

	// ErrModelNotFound indicates the configured model does not exist.
	ErrModelNotFound = errors.New("gemini: model not found")
)

// WrapError converts a googleapi error into a package error. Throttling
// becomes a *domain.RateLimitError carrying the Retry-After hint.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}

	switch gerr.Code {
	case http.StatusBadRequest:
		// invalid keys are reported as 400 API_KEY_INVALID
		if strings.Contains(gerr.Message, "API key") {
			return errors.Join(ErrUnauthorized, err)
		}
		return err
	case http.StatusUnauthorized:
		return errors.Join(ErrUnauthorized, err)
	case http.StatusForbidden:
		return errors.Join(ErrForbidden, err)
	case http.StatusNotFound:
		return errors.Join(ErrModelNotFound, err)
	case http.StatusTooManyRequests:
		return &domain.RateLimitError{
			Provider:   "gemini",
			RetryAfter: retryAfter(gerr.Header),
			Err:        err,
		}
	default:
		return err
	}
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(h http.Header) time.Duration {
	if h == nil {
		return 0
	}
	secs, err := strconv.Atoi(h.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
