package domain

import (
	"errors"
	"fmt"
	"net"
)

// Sentinel errors
var (
	// ErrCacheMiss indicates a cache miss
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates a traversal entry failed validation
	ErrInvalidEntry = errors.New("invalid entry")

	// ErrDepthLimit indicates a walk went deeper than the configured ceiling
	ErrDepthLimit = errors.New("recursion depth limit reached")

	// ErrRateLimited indicates rate limiting was encountered
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout indicates a timeout occurred
	ErrTimeout = errors.New("timeout")

	// ErrUnsupportedMethod indicates a non-GET request reached the read-only transport
	ErrUnsupportedMethod = errors.New("unsupported HTTP method")
)

// TransportError represents a network failure reaching a remote endpoint
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error for %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the underlying failure was a timeout
func (e *TransportError) Timeout() bool {
	var netErr net.Error
	if errors.As(e.Err, &netErr) {
		return netErr.Timeout()
	}
	return errors.Is(e.Err, ErrTimeout)
}

// NewTransportError creates a new TransportError
func NewTransportError(url string, err error) *TransportError {
	return &TransportError{URL: url, Err: err}
}

// ListingError is a non-2xx response from the contents listing endpoint
type ListingError struct {
	URL        string
	StatusCode int
	Message    string
	Body       string
}

func (e *ListingError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("listing %s failed: %d - %s - %s", e.URL, e.StatusCode, e.Message, e.Body)
	}
	return fmt.Sprintf("listing %s failed: %d - %s", e.URL, e.StatusCode, e.Message)
}

// NewListingError creates a new ListingError
func NewListingError(url string, statusCode int, message, body string) *ListingError {
	return &ListingError{
		URL:        url,
		StatusCode: statusCode,
		Message:    message,
		Body:       body,
	}
}

// ContentFetchError is a non-2xx response from a raw content URL
type ContentFetchError struct {
	URL        string
	StatusCode int
	Message    string
}

func (e *ContentFetchError) Error() string {
	return fmt.Sprintf("error fetching file content from %s: %d - %s", e.URL, e.StatusCode, e.Message)
}

// NewContentFetchError creates a new ContentFetchError
func NewContentFetchError(url string, statusCode int, message string) *ContentFetchError {
	return &ContentFetchError{
		URL:        url,
		StatusCode: statusCode,
		Message:    message,
	}
}

// ParseError represents a response body with an unexpected shape
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error for %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(url string, err error) *ParseError {
	return &ParseError{URL: url, Err: err}
}

// WalkError aborts a traversal. Path is the directory or file where the
// failure happened, relative to the repository root.
type WalkError struct {
	Repository string
	Path       string
	Err        error
}

func (e *WalkError) Error() string {
	return fmt.Sprintf("walk of %s failed at %q: %v", e.Repository, e.Path, e.Err)
}

func (e *WalkError) Unwrap() error {
	return e.Err
}

// NewWalkError creates a new WalkError
func NewWalkError(repository, path string, err error) *WalkError {
	return &WalkError{
		Repository: repository,
		Path:       path,
		Err:        err,
	}
}

// RetryableError indicates an error that can be retried
type RetryableError struct {
	Err        error
	RetryAfter int // Seconds to wait before retry, 0 if unknown
}

func (e *RetryableError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("retryable error (retry after %ds): %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("retryable error: %v", e.Err)
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	var retryable *RetryableError
	if errors.As(err, &retryable) {
		return true
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) && transportErr.Timeout() {
		return true
	}

	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTimeout)
}

// StatusCode extracts the HTTP status carried by a listing or content error,
// or 0 when the error has none.
func StatusCode(err error) int {
	var listingErr *ListingError
	if errors.As(err, &listingErr) {
		return listingErr.StatusCode
	}
	var contentErr *ContentFetchError
	if errors.As(err, &contentErr) {
		return contentErr.StatusCode
	}
	return 0
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidEntry
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
