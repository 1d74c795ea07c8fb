package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNoImage is returned by image editing when the response carries no
// inline image data.
var ErrNoImage = errors.New("no image data returned by the image model")

// ErrImageUnsupported is returned when the configured provider cannot
// edit images.
var ErrImageUnsupported = errors.New("image editing is not supported by this provider")

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the LLM returned content that does not
// conform to the requested schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded indicates the response was truncated because it
// hit the MaxTokens limit.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated: max tokens exceeded"
}

// Kind classifies an error for logging and API responses.
func Kind(err error) string {
	var (
		rl    *ErrRateLimit
		inv   *ErrInvalidResponse
		unav  *ErrProviderUnavailable
		maxTk *ErrMaxTokensExceeded
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &inv):
		return "invalid_response"
	case errors.Is(err, ErrNoImage):
		return "no_image"
	case errors.Is(err, ErrImageUnsupported):
		return "unsupported"
	case errors.As(err, &rl):
		return "rate_limited"
	case errors.As(err, &unav):
		return "unavailable"
	case errors.As(err, &maxTk):
		return "max_tokens"
	default:
		return "other"
	}
}
