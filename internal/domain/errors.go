package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuery signals an empty or missing search query.
	ErrInvalidQuery = errors.New("no query provided")
	// ErrInvalidRequest signals a malformed request parameter.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUpstream signals a failure of the study search API.
	ErrUpstream = errors.New("upstream search failed")
	// ErrFactorization signals a numeric failure while fitting the latent model.
	ErrFactorization = errors.New("latent model factorization failed")
)

// UpstreamError wraps ErrUpstream with the HTTP status returned by the search API.
// Status is 0 for transport or decoding failures.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", ErrUpstream.Error(), e.Message)
	}
	return fmt.Sprintf("%s: status %d: %s", ErrUpstream.Error(), e.Status, e.Message)
}

func (e *UpstreamError) Unwrap() error { return ErrUpstream }

// NewUpstreamError creates an upstream failure error.
func NewUpstreamError(status int, message string) error {
	return &UpstreamError{Status: status, Message: message}
}
