package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/emailnator/client-go/internal/apierrors"
)

// XSRF cookie framing in Set-Cookie header values.
const (
	XSRFCookiePrefix    = "XSRF-TOKEN="
	XSRFCookieSeparator = ";"
)

// Bootstrap loads the service homepage to obtain the XSRF cookie and returns
// a client ready to issue API calls. When no usable XSRF cookie is issued the
// service is assumed to be throttling, and a rate-limit error is returned.
func Bootstrap(ctx context.Context, cfg Config) (*Client, error) {
	httpClient, err := cfg.httpClient()
	if err != nil {
		return nil, &apierrors.TransportError{Op: "bootstrap", Err: err}
	}
	baseURL := cfg.baseURL()

	homeURL := baseURL + PathHome
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, homeURL, nil)
	if err != nil {
		return nil, &apierrors.TransportError{Op: "bootstrap", URL: homeURL, Err: err}
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &apierrors.TransportError{Op: "bootstrap", URL: homeURL, Err: err}
	}
	// Drain so the connection can be reused by the first API call. A short
	// read only costs the connection.
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	token, ok := ExtractXSRFToken(resp.Header.Values("Set-Cookie"))
	if !ok {
		return nil, &apierrors.RateLimitError{Stage: apierrors.StageBootstrap, StatusCode: resp.StatusCode}
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		xsrfToken:  token,
	}, nil
}

// ExtractXSRFToken returns the decoded XSRF token from the first Set-Cookie
// value that carries one. Values without the XSRF prefix, that do not decode
// to valid UTF-8, or with an empty token are skipped.
func ExtractXSRFToken(setCookies []string) (string, bool) {
	for _, cookie := range setCookies {
		if token, ok := parseXSRFCookie(cookie); ok {
			return token, true
		}
	}
	return "", false
}

func parseXSRFCookie(cookie string) (string, bool) {
	raw, ok := strings.CutPrefix(cookie, XSRFCookiePrefix)
	if !ok {
		return "", false
	}
	raw, _, _ = strings.Cut(raw, XSRFCookieSeparator)
	token, err := DecodeToken(raw)
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}

// DecodeToken percent-decodes a raw cookie value. A '+' is kept as-is since
// cookie values are not form encoded, and a '%' not followed by two hex
// digits is kept literally. The decoded bytes must be valid UTF-8.
func DecodeToken(raw string) (string, error) {
	if !strings.Contains(raw, "%") {
		if !utf8.ValidString(raw) {
			return "", errInvalidToken
		}
		return raw, nil
	}

	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] == '%' && i+2 < len(raw) && isHex(raw[i+1]) && isHex(raw[i+2]) {
			b.WriteByte(unhex(raw[i+1])<<4 | unhex(raw[i+2]))
			i += 2
			continue
		}
		b.WriteByte(raw[i])
	}

	token := b.String()
	if !utf8.ValidString(token) {
		return "", errInvalidToken
	}
	return token, nil
}

var errInvalidToken = errors.New("xsrf token is not valid UTF-8")

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
