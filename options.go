package emailnator

import (
	"net/http"
	"regexp"
	"time"

	"github.com/emailnator/client-go/internal/api"
)

const (
	defaultBaseURL      = api.DefaultBaseURL
	defaultWaitTimeout  = 60 * time.Second
	defaultPollInterval = 2 * time.Second
)

// clientConfig holds configuration for the client.
type clientConfig struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
}

// waitConfig holds configuration for waiting on messages.
type waitConfig struct {
	subject      string
	subjectRegex *regexp.Regexp
	from         string
	fromRegex    *regexp.Regexp
	predicate    func(*MailHeader) bool
	timeout      time.Duration
	pollInterval time.Duration
	skipAds      bool
}

// Option configures the client.
type Option func(*clientConfig)

// WaitOption configures message waiting.
type WaitOption func(*waitConfig)

// WithBaseURL sets the service origin.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client. The client is used as-is; give it
// a cookie jar if the service's session cookies should be replayed.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithUserAgent overrides the browser user agent sent with every request.
// Ignored when WithHTTPClient is used.
func WithUserAgent(userAgent string) Option {
	return func(c *clientConfig) {
		c.userAgent = userAgent
	}
}

// WithTimeout sets the per-request timeout.
// Ignored when WithHTTPClient is used.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithSubject filters messages by exact subject match.
func WithSubject(subject string) WaitOption {
	return func(c *waitConfig) {
		c.subject = subject
	}
}

// WithSubjectRegex filters messages by subject regex.
func WithSubjectRegex(pattern *regexp.Regexp) WaitOption {
	return func(c *waitConfig) {
		c.subjectRegex = pattern
	}
}

// WithFrom filters messages by exact sender match.
func WithFrom(from string) WaitOption {
	return func(c *waitConfig) {
		c.from = from
	}
}

// WithFromRegex filters messages by sender regex.
func WithFromRegex(pattern *regexp.Regexp) WaitOption {
	return func(c *waitConfig) {
		c.fromRegex = pattern
	}
}

// WithPredicate filters messages by custom predicate.
func WithPredicate(fn func(*MailHeader) bool) WaitOption {
	return func(c *waitConfig) {
		c.predicate = fn
	}
}

// WithWaitTimeout sets the timeout for waiting.
// Default: 60 seconds
func WithWaitTimeout(timeout time.Duration) WaitOption {
	return func(c *waitConfig) {
		c.timeout = timeout
	}
}

// WithPollInterval sets the initial polling interval. The interval grows
// while the inbox has no match, up to 30 seconds.
// Default: 2 seconds
func WithPollInterval(interval time.Duration) WaitOption {
	return func(c *waitConfig) {
		c.pollInterval = interval
	}
}

// WithSkipAds controls whether the service's advertisement entry is ignored.
// Default: true
func WithSkipAds(skip bool) WaitOption {
	return func(c *waitConfig) {
		c.skipAds = skip
	}
}

func newWaitConfig(opts []WaitOption) *waitConfig {
	cfg := &waitConfig{
		timeout:      defaultWaitTimeout,
		pollInterval: defaultPollInterval,
		skipAds:      true,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Matches checks if a header matches the wait criteria.
func (w *waitConfig) Matches(h *MailHeader) bool {
	if w.skipAds && h.IsAd() {
		return false
	}
	if w.subject != "" && h.Subject != w.subject {
		return false
	}
	if w.subjectRegex != nil && !w.subjectRegex.MatchString(h.Subject) {
		return false
	}
	if w.from != "" && h.From != w.from {
		return false
	}
	if w.fromRegex != nil && !w.fromRegex.MatchString(h.From) {
		return false
	}
	if w.predicate != nil && !w.predicate(h) {
		return false
	}
	return true
}
