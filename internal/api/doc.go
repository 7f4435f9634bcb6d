// Package api provides HTTP client functionality for communicating with the
// Emailnator web service. It handles session bootstrap, request signing with
// the XSRF token, and request/response serialization.
//
// # Session Bootstrap
//
// [Bootstrap] issues a GET for the homepage and scans every Set-Cookie header
// for one starting with "XSRF-TOKEN=". The value up to the first ';' is
// percent-decoded and becomes the session token. If no header yields a token,
// the service is assumed to be throttling and [apierrors.ErrRateLimited] is
// returned.
//
// # Request Protocol
//
// Every API call is a POST with a JSON body and two headers:
//
//   - Content-Type: application/json
//   - X-XSRF-TOKEN: the decoded session token
//
// A 429 Too Many Requests response fails with [apierrors.ErrRateLimited]
// before the body is read. Requests are never retried; retry policy belongs to
// the caller.
//
// # Error Handling
//
// Failures are reported with the types in package apierrors:
//
//   - [apierrors.TransportError]: the HTTP client failed.
//   - [apierrors.DecodeError]: a payload did not match the expected JSON shape.
//   - [apierrors.RateLimitError]: the service is throttling.
//
// # Thread Safety
//
// The [Client] type is safe for concurrent use. The session is immutable and
// the cookie jar and connection pool are synchronized by net/http.
package api
