package emailnator

import (
	"context"

	"github.com/emailnator/client-go/internal/api"
)

// Client is an Emailnator session. It is created ready for use by New and
// stays bound to the XSRF token obtained then; there is no token refresh.
// A client that keeps failing with ErrRateLimited should be discarded and a
// new one created.
//
// Client is safe for concurrent use by multiple goroutines.
type Client struct {
	apiClient *api.Client
}

// buildAPIConfig converts the client options to an API configuration.
func buildAPIConfig(cfg *clientConfig) api.Config {
	return api.Config{
		BaseURL:    cfg.baseURL,
		HTTPClient: cfg.httpClient,
		UserAgent:  cfg.userAgent,
		Timeout:    cfg.timeout,
	}
}

// New bootstraps a session with the service and returns a ready client.
//
// New loads the homepage and harvests the XSRF cookie. If the service issues
// none, New fails with ErrRateLimited.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		baseURL: defaultBaseURL,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	apiClient, err := api.Bootstrap(ctx, buildAPIConfig(cfg))
	if err != nil {
		return nil, err
	}

	return &Client{apiClient: apiClient}, nil
}

// BaseURL returns the service origin the client talks to.
func (c *Client) BaseURL() string {
	return c.apiClient.BaseURL()
}

// XSRFToken returns the decoded session token sent with every request.
func (c *Client) XSRFToken() string {
	return c.apiClient.XSRFToken()
}

// CreateEmails generates count new addresses using any of kinds.
//
// It fails with ErrNoEmailKinds if kinds is empty and ErrZeroCount if count
// is zero, without contacting the service. The service may return fewer or
// more addresses than requested; they are returned in service order.
func (c *Client) CreateEmails(ctx context.Context, kinds []EmailKind, count uint) ([]string, error) {
	return c.apiClient.GenerateEmails(ctx, kinds, count)
}

// FetchInbox lists the messages currently delivered to email.
// The listing includes the service's advertisement entry; see
// Inbox.Delivered and MailHeader.IsAd.
func (c *Client) FetchInbox(ctx context.Context, email string) (*Inbox, error) {
	headers, err := c.apiClient.ListMessages(ctx, email)
	if err != nil {
		return nil, err
	}
	return inboxFromAPI(headers), nil
}

// ReadMessage returns the content of message id in the inbox of email,
// exactly as served (usually HTML).
func (c *Client) ReadMessage(ctx context.Context, email, id string) (string, error) {
	return c.apiClient.GetMessage(ctx, email, id)
}
