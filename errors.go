package emailnator

import "github.com/emailnator/client-go/internal/apierrors"

// Sentinel errors for errors.Is() checks
var (
	// ErrRateLimited is returned when the service throttles the client. It is
	// reported both when New receives no XSRF cookie and when a call is
	// answered with 429 Too Many Requests. In the first case build a new
	// client later; in the second the same call may be retried.
	ErrRateLimited = apierrors.ErrRateLimited

	// ErrNoEmailKinds is returned by CreateEmails when no kinds are given.
	ErrNoEmailKinds = apierrors.ErrNoEmailKinds

	// ErrZeroCount is returned by CreateEmails when count is zero.
	ErrZeroCount = apierrors.ErrZeroCount
)

// EmailnatorError is implemented by all SDK error types.
type EmailnatorError interface {
	error
	EmailnatorError() // marker method
}

// TransportError represents a failure of the HTTP client: DNS, connect, TLS,
// timeout, cancellation or a malformed response.
type TransportError = apierrors.TransportError

// DecodeError represents a response body that did not match the expected
// JSON shape, or a request payload that could not be encoded.
type DecodeError = apierrors.DecodeError

// RateLimitError carries the detail behind ErrRateLimited.
type RateLimitError = apierrors.RateLimitError

// Stage identifies where a RateLimitError was observed.
type Stage = apierrors.Stage

// Rate-limit stages.
const (
	StageBootstrap = apierrors.StageBootstrap
	StageRequest   = apierrors.StageRequest
)
