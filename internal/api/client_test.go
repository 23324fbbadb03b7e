package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/asalgado/tasq/internal/events"
)

type staticTokens struct {
	mu    sync.Mutex
	token string
}

func (s *staticTokens) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *staticTokens) set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// noticeCollector records notices published on a bus.
type noticeCollector struct {
	mu      sync.Mutex
	notices []events.Notice
}

func collectNotices(bus *events.Bus) *noticeCollector {
	c := &noticeCollector{}
	bus.Subscribe(func(e events.Event) {
		if n, ok := e.Payload.(events.Notice); ok {
			c.mu.Lock()
			c.notices = append(c.notices, n)
			c.mu.Unlock()
		}
	}, events.EventNotice)
	return c
}

func (c *noticeCollector) errors() []events.Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []events.Notice
	for _, n := range c.notices {
		if n.Level == events.LevelError {
			out = append(out, n)
		}
	}
	return out
}

func TestBearerHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	bus := events.NewBus(8)
	defer bus.Close()
	client := New(srv.URL, time.Second, bus)

	tokens := &staticTokens{}
	client.SetTokenSource(tokens)

	// No session: no header at all.
	if err := client.Do(context.Background(), http.MethodGet, "/tasks", nil, nil); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "" {
		t.Errorf("expected no Authorization header, got %q", gotAuth)
	}

	tokens.set("tok-123")
	if err := client.Do(context.Background(), http.MethodGet, "/tasks", nil, nil); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
}

func TestErrorNormalization(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantKind    Kind
		wantMessage string
	}{
		{"forbidden fallback", 403, `{}`, KindForbidden, msgForbidden},
		{"not found fallback", 404, `{}`, KindNotFound, msgNotFound},
		{"server message", 404, `{"message":"Task not found"}`, KindNotFound, "Task not found"},
		{"validation first field", 422, `{"message":"Validation error","errors":{"title":["Title is required"]}}`, KindValidation, "Title is required"},
		{"validation message only", 422, `{"message":"Bad input"}`, KindValidation, "Bad input"},
		{"server error fallback", 500, `not even json`, KindServer, msgServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			bus := events.NewBus(8)
			defer bus.Close()
			client := New(srv.URL, time.Second, bus)
			collector := collectNotices(bus)

			err := client.Do(context.Background(), http.MethodGet, "/tasks", nil, nil)
			if err == nil {
				t.Fatal("expected error")
			}
			apiErr, ok := err.(*Error)
			if !ok {
				t.Fatalf("expected *Error, got %T", err)
			}
			if apiErr.Kind != tt.wantKind {
				t.Errorf("kind = %s, want %s", apiErr.Kind, tt.wantKind)
			}
			if apiErr.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", apiErr.Message, tt.wantMessage)
			}
			if apiErr.Status != tt.status {
				t.Errorf("status = %d, want %d", apiErr.Status, tt.status)
			}

			time.Sleep(50 * time.Millisecond)
			if got := len(collector.errors()); got != 1 {
				t.Errorf("expected exactly 1 error notice, got %d", got)
			}
		})
	}
}

func TestUnauthorizedClearsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"token expired"}`))
	}))
	defer srv.Close()

	bus := events.NewBus(8)
	defer bus.Close()
	client := New(srv.URL, time.Second, bus)

	tokens := &staticTokens{token: "stale"}
	client.SetTokenSource(tokens)

	hookCalls := 0
	client.SetUnauthorizedHook(func() { hookCalls++ })

	expired, cancelSub := bus.SubscribeChan(4, events.EventSessionExpired)
	defer cancelSub()

	err := client.Do(context.Background(), http.MethodGet, "/tasks", nil, nil)
	if ErrorKind(err) != KindAuth {
		t.Fatalf("expected auth kind, got %v", err)
	}
	if Message(err) != msgSessionExpired {
		t.Errorf("expected session expired message, got %q", Message(err))
	}
	if hookCalls != 1 {
		t.Errorf("expected hook called once, got %d", hookCalls)
	}

	select {
	case <-expired:
	case <-time.After(time.Second):
		t.Fatal("no session.expired event published")
	}
}

func TestUnauthorizedOnLoginIsNotExpiry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid email or password"}`))
	}))
	defer srv.Close()

	bus := events.NewBus(8)
	defer bus.Close()
	client := New(srv.URL, time.Second, bus)

	hookCalled := false
	client.SetUnauthorizedHook(func() { hookCalled = true })

	_, err := client.Login(context.Background(), LoginRequest{Email: "a@b.c", Password: "nope"})
	if ErrorKind(err) != KindAuth {
		t.Fatalf("expected auth kind, got %v", err)
	}
	if Message(err) != "Invalid email or password" {
		t.Errorf("expected server message kept, got %q", Message(err))
	}
	if hookCalled {
		t.Error("a rejected login must not clear the (absent) session")
	}
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	bus := events.NewBus(8)
	defer bus.Close()
	client := New(srv.URL, 50*time.Millisecond, bus)

	err := client.Do(context.Background(), http.MethodGet, "/tasks", nil, nil)
	if ErrorKind(err) != KindTimeout {
		t.Fatalf("expected timeout kind, got %v", err)
	}
}

func TestNetworkUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	bus := events.NewBus(8)
	defer bus.Close()
	client := New(srv.URL, time.Second, bus)

	err := client.Do(context.Background(), http.MethodGet, "/tasks", nil, nil)
	if ErrorKind(err) != KindNetwork {
		t.Fatalf("expected network kind, got %v", err)
	}
	if Message(err) != msgNetwork {
		t.Errorf("expected network fallback message, got %q", Message(err))
	}
}
