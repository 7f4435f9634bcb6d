package emailnator

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

const (
	pollMaxInterval       = 30 * time.Second
	pollBackoffMultiplier = 1.5
	pollJitterFactor      = 0.3
)

// WaitForMessage polls the inbox of email until a message matching the given
// criteria shows up, and returns its header.
//
// Rate-limited polls are absorbed by backing off; any other error ends the
// wait. The service's advertisement entry never matches unless
// WithSkipAds(false) is given.
//
// Example:
//
//	header, err := client.WaitForMessage(ctx, addr,
//	    emailnator.WithSubjectRegex(regexp.MustCompile(`(?i)verify`)),
//	    emailnator.WithWaitTimeout(2*time.Minute),
//	)
func (c *Client) WaitForMessage(ctx context.Context, email string, opts ...WaitOption) (*MailHeader, error) {
	headers, err := c.waitForMessages(ctx, email, 1, newWaitConfig(opts))
	if err != nil {
		return nil, err
	}
	return &headers[0], nil
}

// WaitForMessageCount waits until at least count distinct matching messages
// are in the inbox of email and returns the first count of them in inbox
// order.
func (c *Client) WaitForMessageCount(ctx context.Context, email string, count int, opts ...WaitOption) ([]MailHeader, error) {
	if count < 0 {
		return nil, fmt.Errorf("count must be non-negative, got %d", count)
	}
	if count == 0 {
		return []MailHeader{}, nil
	}
	return c.waitForMessages(ctx, email, count, newWaitConfig(opts))
}

func (c *Client) waitForMessages(ctx context.Context, email string, count int, cfg *waitConfig) ([]MailHeader, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	interval := cfg.pollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	for {
		inbox, err := c.FetchInbox(ctx, email)
		switch {
		case err == nil:
			if matched := collectMatches(inbox, cfg, count); len(matched) >= count {
				return matched, nil
			}
		case IsRateLimited(err):
			// keep polling
		case ctx.Err() != nil:
			return nil, ctx.Err()
		default:
			return nil, err
		}

		timer := time.NewTimer(jitter(interval))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		interval = nextInterval(interval)
	}
}

// collectMatches returns up to count distinct matching headers in inbox order.
func collectMatches(inbox *Inbox, cfg *waitConfig, count int) []MailHeader {
	seen := make(map[string]struct{})
	var out []MailHeader
	for i := range inbox.Messages {
		h := &inbox.Messages[i]
		if _, ok := seen[h.ID]; ok {
			continue
		}
		if !cfg.Matches(h) {
			continue
		}
		seen[h.ID] = struct{}{}
		out = append(out, *h)
		if len(out) == count {
			break
		}
	}
	return out
}

func nextInterval(d time.Duration) time.Duration {
	next := time.Duration(float64(d) * pollBackoffMultiplier)
	if next > pollMaxInterval {
		next = pollMaxInterval
	}
	return next
}

func jitter(d time.Duration) time.Duration {
	delta := float64(d) * pollJitterFactor
	return time.Duration(float64(d) - delta + rand.Float64()*2*delta)
}
