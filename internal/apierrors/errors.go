// Package apierrors provides shared error types for the Emailnator client.
package apierrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrRateLimited is returned when the service throttles the client, either
	// by withholding the XSRF cookie during bootstrap or by answering 429.
	ErrRateLimited = errors.New("rate limited by the service, retry later")

	// ErrNoEmailKinds is returned when no email kinds are provided.
	ErrNoEmailKinds = errors.New("no email kinds provided, must provide at least one")

	// ErrZeroCount is returned when zero addresses are requested.
	ErrZeroCount = errors.New("count cannot be zero, must request at least one")
)

// Stage identifies where a rate-limit condition was observed.
type Stage string

const (
	// StageBootstrap means no usable XSRF cookie was issued by the homepage.
	StageBootstrap Stage = "bootstrap"
	// StageRequest means an API call was answered with 429 Too Many Requests.
	StageRequest Stage = "request"
)

// RateLimitError represents a throttling response from the service.
type RateLimitError struct {
	Stage      Stage
	StatusCode int
}

func (e *RateLimitError) Error() string {
	if e.Stage == StageBootstrap {
		return "rate limited: no XSRF token issued during bootstrap"
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("rate limited: HTTP %d", e.StatusCode)
	}
	return "rate limited"
}

// Is implements errors.Is for sentinel error matching.
// Both stages match ErrRateLimited.
func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

// EmailnatorError implements the EmailnatorError interface.
func (e *RateLimitError) EmailnatorError() {}

// TransportError represents a failure raised by the HTTP client: DNS,
// connect, TLS, timeouts, cancellation or a truncated body.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: transport error: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("transport error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// EmailnatorError implements the EmailnatorError interface.
func (e *TransportError) EmailnatorError() {}

// DecodeError represents a payload that could not be converted to or from
// the JSON shape an operation expects.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: decode error: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("decode error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// EmailnatorError implements the EmailnatorError interface.
func (e *DecodeError) EmailnatorError() {}
