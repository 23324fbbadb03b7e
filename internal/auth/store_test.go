package auth

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/asalgado/tasq/internal/api"
	"github.com/asalgado/tasq/internal/apitest"
	"github.com/asalgado/tasq/internal/events"
)

func newTestStore(t *testing.T) (*Store, *api.Client, *apitest.Server) {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)

	bus := events.NewBus(64)
	t.Cleanup(bus.Close)

	client := api.New(srv.URL(), time.Second, bus)
	creds := NewCredentialStore(filepath.Join(t.TempDir(), "credentials"))
	return NewStore(client, bus, creds), client, srv
}

func TestRegisterAuthenticates(t *testing.T) {
	store, _, _ := newTestStore(t)

	if store.Status() != StatusAnonymous {
		t.Fatalf("initial status = %s", store.Status())
	}

	if err := store.Register(context.Background(), "Ana", "ana@example.com", "secret1"); err != nil {
		t.Fatal(err)
	}
	if store.Status() != StatusAuthenticated {
		t.Errorf("status = %s, want authenticated", store.Status())
	}
	if store.Token() == "" {
		t.Error("expected a token after register")
	}
	user, ok := store.User()
	if !ok || user.Email != "ana@example.com" {
		t.Errorf("user = %+v, ok = %v", user, ok)
	}
}

func TestLoginFailureMovesToFailed(t *testing.T) {
	store, _, _ := newTestStore(t)

	if err := store.Register(context.Background(), "Ana", "ana@example.com", "secret1"); err != nil {
		t.Fatal(err)
	}
	store.Logout()

	err := store.Login(context.Background(), "ana@example.com", "wrong-password")
	if err == nil {
		t.Fatal("expected login to fail")
	}
	if store.Status() != StatusFailed {
		t.Errorf("status = %s, want failed", store.Status())
	}
	if store.Err() == "" {
		t.Error("expected a recorded error message")
	}
	// Invariant: no token outside authenticated states.
	if store.Token() != "" {
		t.Error("failed login must not leave a token behind")
	}

	// Failed -> Authenticating -> Authenticated works.
	if err := store.Login(context.Background(), "ana@example.com", "secret1"); err != nil {
		t.Fatal(err)
	}
	if store.Status() != StatusAuthenticated {
		t.Errorf("status = %s, want authenticated", store.Status())
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	store, _, _ := newTestStore(t)

	if err := store.Register(context.Background(), "Ana", "ana@example.com", "secret1"); err != nil {
		t.Fatal(err)
	}
	store.Logout()

	if store.Status() != StatusAnonymous {
		t.Errorf("status = %s, want anonymous", store.Status())
	}
	if store.Token() != "" {
		t.Error("token must be gone after logout")
	}
	if _, ok := store.User(); ok {
		t.Error("user must be gone after logout")
	}
}

func TestRestorePersistedSession(t *testing.T) {
	srv := apitest.New()
	t.Cleanup(srv.Close)
	bus := events.NewBus(64)
	t.Cleanup(bus.Close)
	credDir := filepath.Join(t.TempDir(), "credentials")

	first := NewStore(api.New(srv.URL(), time.Second, bus), bus, NewCredentialStore(credDir))
	if err := first.Register(context.Background(), "Ana", "ana@example.com", "secret1"); err != nil {
		t.Fatal(err)
	}
	token := first.Token()

	// A fresh process: restore from disk without contacting the server.
	second := NewStore(api.New(srv.URL(), time.Second, bus), bus, NewCredentialStore(credDir))
	second.Restore()

	if second.Status() != StatusAuthenticated {
		t.Fatalf("status = %s, want authenticated", second.Status())
	}
	if second.Token() != token {
		t.Error("restored token differs from persisted one")
	}
	user, ok := second.User()
	if !ok || user.Email != "ana@example.com" {
		t.Errorf("restored user = %+v, ok = %v", user, ok)
	}
}

func TestServerRejectionExpiresSession(t *testing.T) {
	srv := apitest.New()
	t.Cleanup(srv.Close)
	bus := events.NewBus(64)
	t.Cleanup(bus.Close)

	client := api.New(srv.URL(), time.Second, bus)
	creds := NewCredentialStore(filepath.Join(t.TempDir(), "credentials"))
	store := NewStore(client, bus, creds)

	if err := store.Register(context.Background(), "Ana", "ana@example.com", "secret1"); err != nil {
		t.Fatal(err)
	}

	srv.FailNext(http.StatusUnauthorized, `{"message":"token expired"}`)
	_, err := client.Profile(context.Background())
	if api.ErrorKind(err) != api.KindAuth {
		t.Fatalf("expected auth error, got %v", err)
	}

	if store.Status() != StatusAnonymous {
		t.Errorf("status = %s, want anonymous after 401", store.Status())
	}
	if store.Token() != "" {
		t.Error("subsequent requests must carry no bearer token")
	}
	if _, _, ok := creds.Load(); ok {
		t.Error("durable session record must be cleared by the 401")
	}
}
