package bolt

import (
	"errors"
	"fmt"

	"github.com/stancil-services/boltsync/internal/core/domain"
)

// AuthError represents a 401 from the API. It is never retried.
type AuthError struct {
	URL string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("bolt: authentication failed, check the API token (URL: %s)", e.URL)
}

// Unwrap allows errors.Is(err, domain.ErrAuthInvalid).
func (e *AuthError) Unwrap() error {
	return domain.ErrAuthInvalid
}

// APIError represents a non-retryable error status.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bolt: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// RequestError represents a network-level failure that outlasted the
// retry budget.
type RequestError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("bolt: all %d attempts failed for %s: %v", e.Attempts, e.URL, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// IsNotFound checks if the error indicates a missing endpoint.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}

// IsNetwork checks if the error is a network failure after retries.
func IsNetwork(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr)
}
