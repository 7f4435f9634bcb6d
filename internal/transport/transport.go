// Package transport builds the browser-like HTTP client used to talk to the
// Emailnator service.
//
// The returned client keeps cookies across requests, prefers HTTP/2 over TLS,
// transparently decompresses gzip responses, follows at most [MaxRedirects]
// redirects and sends a fixed browser user agent on every request. It is safe
// for concurrent use; the cookie jar and connection pool carry all mutable
// state.
package transport

import (
	"fmt"
	"net"
	"net/http"
	"net/http/cookiejar"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/publicsuffix"
)

const (
	// DefaultUserAgent mimics a desktop Firefox so the service serves the same
	// cookies it would to a browser.
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:141.0) Gecko/20100101 Firefox/141.0"

	// DefaultTimeout bounds a single request including reading the body.
	DefaultTimeout = 30 * time.Second

	// KeepAlive is the TCP keepalive period for dialed connections.
	KeepAlive = 80 * time.Second

	// MaxRedirects is the number of redirect hops followed before giving up.
	MaxRedirects = 2

	dialTimeout = 30 * time.Second
)

// Config configures the HTTP client.
type Config struct {
	// UserAgent overrides DefaultUserAgent when non-empty.
	UserAgent string
	// Timeout overrides DefaultTimeout when positive.
	Timeout time.Duration
}

// NewHTTPClient returns an *http.Client configured for a browser-like session.
func NewHTTPClient(cfg Config) (*http.Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	base := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   dialTimeout,
			KeepAlive: KeepAlive,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
	if _, err := http2.ConfigureTransports(base); err != nil {
		return nil, fmt.Errorf("configure http2: %w", err)
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &http.Client{
		Transport:     &userAgentTransport{base: base, userAgent: userAgent},
		Jar:           jar,
		CheckRedirect: limitRedirects(MaxRedirects),
		Timeout:       timeout,
	}, nil
}

func limitRedirects(max int) func(*http.Request, []*http.Request) error {
	return func(_ *http.Request, via []*http.Request) error {
		if len(via) > max {
			return fmt.Errorf("stopped after %d redirects", max)
		}
		return nil
	}
}

// userAgentTransport sets the User-Agent header on requests that lack one.
type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.base.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(clone)
}
