package emailnator

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"sync/atomic"
	"testing"
	"time"
)

func TestWaitForMessage_AlreadyPresent(t *testing.T) {
	fs := newFakeService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"messageData":[{"messageID":"ADSVPN","from":"AI TOOLS","subject":"Verify"},{"messageID":"m1","from":"noreply@shop.com","subject":"Verify your account"}]}`))
	})
	client := fs.newClient(t)

	header, err := client.WaitForMessage(context.Background(), "a@x.com",
		WithSubjectRegex(regexp.MustCompile(`^Verify`)),
		WithPollInterval(time.Millisecond),
	)
	if err != nil {
		t.Fatalf("WaitForMessage() error = %v", err)
	}
	if header.ID != "m1" {
		t.Errorf("ID = %q, want m1 (ad entry must be skipped)", header.ID)
	}
}

func TestWaitForMessage_ArrivesLater(t *testing.T) {
	var polls int32
	fs := newFakeService(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&polls, 1) < 3 {
			w.Write([]byte(`{"messageData":[{"messageID":"ADSVPN","from":"AI TOOLS","subject":"Ad"}]}`))
			return
		}
		w.Write([]byte(`{"messageData":[{"messageID":"m7","from":"bob@example.com","subject":"hello"}]}`))
	})
	client := fs.newClient(t)

	header, err := client.WaitForMessage(context.Background(), "a@x.com",
		WithFrom("bob@example.com"),
		WithPollInterval(time.Millisecond),
	)
	if err != nil {
		t.Fatalf("WaitForMessage() error = %v", err)
	}
	if header.ID != "m7" {
		t.Errorf("ID = %q, want m7", header.ID)
	}
	if atomic.LoadInt32(&polls) != 3 {
		t.Errorf("polls = %d, want 3", polls)
	}
}

func TestWaitForMessage_RateLimitedPollsContinue(t *testing.T) {
	var polls int32
	fs := newFakeService(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&polls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"messageData":[{"messageID":"m1","from":"a","subject":"s"}]}`))
	})
	client := fs.newClient(t)

	header, err := client.WaitForMessage(context.Background(), "a@x.com", WithPollInterval(time.Millisecond))
	if err != nil {
		t.Fatalf("WaitForMessage() error = %v", err)
	}
	if header.ID != "m1" {
		t.Errorf("ID = %q, want m1", header.ID)
	}
}

func TestWaitForMessage_DecodeErrorStops(t *testing.T) {
	fs := newFakeService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`garbage`))
	})
	client := fs.newClient(t)

	_, err := client.WaitForMessage(context.Background(), "a@x.com", WithPollInterval(time.Millisecond))
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Errorf("WaitForMessage() error = %v, want DecodeError", err)
	}
}

func TestWaitForMessage_Timeout(t *testing.T) {
	fs := newFakeService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"messageData":[]}`))
	})
	client := fs.newClient(t)

	_, err := client.WaitForMessage(context.Background(), "a@x.com",
		WithWaitTimeout(50*time.Millisecond),
		WithPollInterval(5*time.Millisecond),
	)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("WaitForMessage() error = %v, want DeadlineExceeded", err)
	}
}

func TestWaitForMessage_ContextCancelled(t *testing.T) {
	fs := newFakeService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"messageData":[]}`))
	})
	client := fs.newClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.WaitForMessage(ctx, "a@x.com")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("WaitForMessage() error = %v, want Canceled", err)
	}
}

func TestWaitForMessage_IncludeAds(t *testing.T) {
	fs := newFakeService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"messageData":[{"messageID":"ADSVPN","from":"AI TOOLS","subject":"Ad"}]}`))
	})
	client := fs.newClient(t)

	header, err := client.WaitForMessage(context.Background(), "a@x.com", WithSkipAds(false))
	if err != nil {
		t.Fatalf("WaitForMessage() error = %v", err)
	}
	if !header.IsAd() {
		t.Errorf("header = %+v, want ad entry", header)
	}
}

func TestWaitForMessageCount(t *testing.T) {
	var polls int32
	fs := newFakeService(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&polls, 1) == 1 {
			w.Write([]byte(`{"messageData":[{"messageID":"m1","from":"a","subject":"code 1"}]}`))
			return
		}
		w.Write([]byte(`{"messageData":[{"messageID":"m1","from":"a","subject":"code 1"},{"messageID":"m1","from":"a","subject":"code 1"},{"messageID":"x","from":"a","subject":"other"},{"messageID":"m2","from":"a","subject":"code 2"},{"messageID":"m3","from":"a","subject":"code 3"}]}`))
	})
	client := fs.newClient(t)

	headers, err := client.WaitForMessageCount(context.Background(), "a@x.com", 2,
		WithPredicate(func(h *MailHeader) bool { return regexp.MustCompile(`^code`).MatchString(h.Subject) }),
		WithPollInterval(time.Millisecond),
	)
	if err != nil {
		t.Fatalf("WaitForMessageCount() error = %v", err)
	}
	if len(headers) != 2 || headers[0].ID != "m1" || headers[1].ID != "m2" {
		t.Errorf("WaitForMessageCount() = %+v, want m1, m2", headers)
	}
}

func TestWaitForMessageCount_InvalidCount(t *testing.T) {
	fs := newFakeService(t, nil)
	client := fs.newClient(t)

	if _, err := client.WaitForMessageCount(context.Background(), "a@x.com", -1); err == nil {
		t.Error("expected error for negative count")
	}

	headers, err := client.WaitForMessageCount(context.Background(), "a@x.com", 0)
	if err != nil || len(headers) != 0 {
		t.Errorf("WaitForMessageCount(0) = %v, %v", headers, err)
	}
	if fs.apiCalls() != 0 {
		t.Errorf("API calls = %d, want 0", fs.apiCalls())
	}
}

func TestNextInterval(t *testing.T) {
	if got := nextInterval(2 * time.Second); got != 3*time.Second {
		t.Errorf("nextInterval(2s) = %v, want 3s", got)
	}
	if got := nextInterval(25 * time.Second); got != pollMaxInterval {
		t.Errorf("nextInterval(25s) = %v, want %v", got, pollMaxInterval)
	}
}

func TestJitter_Bounds(t *testing.T) {
	base := time.Second
	lo := time.Duration(float64(base) * (1 - pollJitterFactor))
	hi := time.Duration(float64(base) * (1 + pollJitterFactor))
	for i := 0; i < 100; i++ {
		d := jitter(base)
		if d < lo || d > hi {
			t.Fatalf("jitter(1s) = %v, outside [%v, %v]", d, lo, hi)
		}
	}
}
