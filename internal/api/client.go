package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/emailnator/client-go/internal/apierrors"
	"github.com/emailnator/client-go/internal/transport"
)

// DefaultBaseURL is the Emailnator service origin.
const DefaultBaseURL = "https://www.emailnator.com"

// Request header names and values sent on every API call.
const (
	HeaderXSRFToken   = "X-XSRF-TOKEN"
	HeaderContentType = "Content-Type"
	ContentTypeJSON   = "application/json"

	acceptHeader = "application/json, text/plain, */*"
)

// Service paths, relative to the base URL.
const (
	PathHome          = "/"
	PathGenerateEmail = "/generate-email"
	PathMessageList   = "/message-list"
)

// Config holds API client configuration.
type Config struct {
	// BaseURL is the service origin. Defaults to DefaultBaseURL.
	BaseURL string
	// HTTPClient is used as-is when set. Otherwise a browser-like client is
	// built from UserAgent and Timeout.
	HTTPClient *http.Client
	// UserAgent overrides the default browser user agent.
	UserAgent string
	// Timeout bounds each request on the built client.
	Timeout time.Duration
}

// Client is the Emailnator HTTP API client. It holds a bootstrapped session
// (HTTP client plus XSRF token) that is never modified after Bootstrap
// returns, so it is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	xsrfToken  string
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HTTPClient returns the underlying HTTP client.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// XSRFToken returns the decoded XSRF token sent with every request.
func (c *Client) XSRFToken() string {
	return c.xsrfToken
}

func (cfg Config) httpClient() (*http.Client, error) {
	if cfg.HTTPClient != nil {
		return cfg.HTTPClient, nil
	}
	return transport.NewHTTPClient(transport.Config{
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.Timeout,
	})
}

func (cfg Config) baseURL() string {
	if cfg.BaseURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(cfg.BaseURL, "/")
}

// response is a fully read API response.
type response struct {
	body        []byte
	contentType string
}

// post sends payload as JSON to path and returns the full response.
// A 429 response is reported as a rate-limit error without reading the body.
func (c *Client) post(ctx context.Context, op, path string, payload interface{}) (*response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, &apierrors.DecodeError{Op: op, Err: err}
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, &apierrors.TransportError{Op: op, URL: url, Err: err}
	}
	req.Header.Set(HeaderContentType, ContentTypeJSON)
	req.Header.Set(HeaderXSRFToken, c.xsrfToken)
	req.Header.Set("Accept", acceptHeader)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &apierrors.TransportError{Op: op, URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &apierrors.RateLimitError{Stage: apierrors.StageRequest, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apierrors.TransportError{Op: op, URL: url, Err: fmt.Errorf("read body: %w", err)}
	}
	return &response{body: body, contentType: resp.Header.Get(HeaderContentType)}, nil
}

// decode unmarshals a JSON response body for op.
func decode(op string, body []byte, v interface{}) error {
	if err := json.Unmarshal(body, v); err != nil {
		return &apierrors.DecodeError{Op: op, Err: err}
	}
	return nil
}

// text converts the body to UTF-8 using the charset declared in the
// Content-Type. A missing or unknown charset is treated as UTF-8 and invalid
// sequences are replaced with U+FFFD.
func (r *response) text() string {
	label := "utf-8"
	if _, params, err := mime.ParseMediaType(r.contentType); err == nil && params["charset"] != "" {
		label = params["charset"]
	}

	enc, _ := charset.Lookup(label)
	if enc == nil {
		enc, _ = charset.Lookup("utf-8")
	}
	out, err := enc.NewDecoder().Bytes(r.body)
	if err != nil {
		return strings.ToValidUTF8(string(r.body), "\uFFFD")
	}
	return string(out)
}
