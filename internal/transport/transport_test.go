package transport

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewHTTPClient_Defaults(t *testing.T) {
	client, err := NewHTTPClient(Config{})
	if err != nil {
		t.Fatalf("NewHTTPClient() error = %v", err)
	}

	if client.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", client.Timeout, DefaultTimeout)
	}
	if client.Jar == nil {
		t.Error("Jar is nil, cookies would not persist")
	}
	if client.CheckRedirect == nil {
		t.Error("CheckRedirect is nil")
	}

	ua, ok := client.Transport.(*userAgentTransport)
	if !ok {
		t.Fatalf("Transport = %T, want *userAgentTransport", client.Transport)
	}
	if ua.userAgent != DefaultUserAgent {
		t.Errorf("userAgent = %q, want %q", ua.userAgent, DefaultUserAgent)
	}
	base, ok := ua.base.(*http.Transport)
	if !ok {
		t.Fatalf("base transport = %T, want *http.Transport", ua.base)
	}
	if base.DisableCompression {
		t.Error("compression should be enabled")
	}
}

func TestNewHTTPClient_Custom(t *testing.T) {
	client, err := NewHTTPClient(Config{UserAgent: "test-agent/1.0", Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewHTTPClient() error = %v", err)
	}
	if client.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", client.Timeout)
	}
	if ua := client.Transport.(*userAgentTransport).userAgent; ua != "test-agent/1.0" {
		t.Errorf("userAgent = %q, want test-agent/1.0", ua)
	}
}

func TestUserAgent_Sent(t *testing.T) {
	var got atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Get("User-Agent"))
	}))
	defer server.Close()

	client, _ := NewHTTPClient(Config{})
	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	resp.Body.Close()

	if got.Load() != DefaultUserAgent {
		t.Errorf("User-Agent = %v, want %s", got.Load(), DefaultUserAgent)
	}
}

func TestUserAgent_ExplicitHeaderKept(t *testing.T) {
	var got atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Get("User-Agent"))
	}))
	defer server.Close()

	client, _ := NewHTTPClient(Config{})
	req, _ := http.NewRequest("GET", server.URL, nil)
	req.Header.Set("User-Agent", "caller/2.0")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	resp.Body.Close()

	if got.Load() != "caller/2.0" {
		t.Errorf("User-Agent = %v, want caller/2.0", got.Load())
	}
	if req.Header.Get("User-Agent") != "caller/2.0" {
		t.Error("caller's request was mutated")
	}
}

func TestCookies_Persist(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/set" {
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
			return
		}
		c, err := r.Cookie("session")
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		io.WriteString(w, c.Value)
	}))
	defer server.Close()

	client, _ := NewHTTPClient(Config{})

	resp, err := client.Get(server.URL + "/set")
	if err != nil {
		t.Fatalf("Get(/set) error = %v", err)
	}
	resp.Body.Close()

	resp, err = client.Get(server.URL + "/check")
	if err != nil {
		t.Fatalf("Get(/check) error = %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK || string(body) != "abc" {
		t.Errorf("cookie not replayed: status %d body %q", resp.StatusCode, body)
	}
}

func TestRedirects_Capped(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		n, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/"))
		if n > 0 {
			http.Redirect(w, r, "/"+strconv.Itoa(n-1), http.StatusFound)
			return
		}
		io.WriteString(w, "done")
	}))
	defer server.Close()

	tests := []struct {
		name    string
		hops    int
		wantErr bool
	}{
		{"no redirect", 0, false},
		{"one hop", 1, false},
		{"two hops", 2, false},
		{"three hops", 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := NewHTTPClient(Config{})
			resp, err := client.Get(server.URL + "/" + strconv.Itoa(tt.hops))
			if resp != nil {
				resp.Body.Close()
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("Get() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
