package domain

import (
	"errors"
	"fmt"
)

// Failure kinds surfaced to callers. Adapters map these to transport status codes.
var (
	ErrClientNotFound      = errors.New("client not found")
	ErrAssetNotFound       = errors.New("asset not found")
	ErrAssetNotProvisioned = errors.New("asset not provisioned")
	ErrInvalidTicker       = errors.New("invalid ticker or no data")
	ErrProviderThrottled   = errors.New("quote provider rate limit reached, retry later")
	ErrProviderUnavailable = errors.New("quote provider unavailable, retry later")
	ErrDuplicateTicker     = errors.New("ticker already exists")
	ErrDuplicateAllocation = errors.New("allocation already exists for client and asset")
	ErrDuplicateEmail      = errors.New("email already exists")
	ErrInvalidDate         = errors.New("invalid date")
)

// Signals returned by a QuoteProvider. Any other error means the provider
// could not be asked (transport failure, timeout, unexpected response).
var (
	ErrNoQuoteData = errors.New("no quote data")
	ErrRateLimited = errors.New("rate limited")
)

// ValidationError reports a field that failed an explicit validation rule
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for the given field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
