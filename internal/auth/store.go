// Package auth holds the client's session: the state machine around login,
// registration and logout, and the durable credential record backing it.
package auth

import (
	"context"
	"log/slog"
	"sync"

	"github.com/asalgado/tasq/internal/api"
	"github.com/asalgado/tasq/internal/events"
)

// Status is the session state machine position.
type Status string

const (
	StatusAnonymous      Status = "anonymous"
	StatusAuthenticating Status = "authenticating"
	StatusAuthenticated  Status = "authenticated"
	StatusFailed         Status = "failed"
)

const (
	msgSignedIn   = "Signed in successfully"
	msgRegistered = "Registered successfully"
	msgSignedOut  = "Signed out successfully"
)

// Store owns the current session. Invariant: a token is held if and only if
// the status is Authenticated after a completed transition.
type Store struct {
	mu     sync.RWMutex
	client *api.Client
	bus    *events.Bus
	creds  *CredentialStore

	status Status
	token  string
	user   api.User
	errMsg string
}

// NewStore wires the session store to the transport: it becomes the client's
// token source and its unauthorized hook.
func NewStore(client *api.Client, bus *events.Bus, creds *CredentialStore) *Store {
	s := &Store{
		client: client,
		bus:    bus,
		creds:  creds,
		status: StatusAnonymous,
	}
	client.SetTokenSource(s)
	client.SetUnauthorizedHook(s.expire)
	return s
}

// Token implements api.TokenSource. Returns "" when no session exists.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Status returns the current state machine position.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// User returns the current profile and whether one is held.
func (s *Store) User() (api.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.status == StatusAuthenticated
}

// Err returns the message of the last failed transition, "" otherwise.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// Restore loads a previously persisted session without contacting the
// server. The cached token is trusted until the first API call rejects it.
func (s *Store) Restore() {
	token, user, ok := s.creds.Load()
	if !ok {
		return
	}
	s.mu.Lock()
	s.status = StatusAuthenticated
	s.token = token
	s.user = user
	s.errMsg = ""
	s.mu.Unlock()
	slog.Debug("session restored", "user", user.Email)
}

// Login authenticates with the server and persists the session. On failure
// the store moves to Failed and the error is returned so the calling form
// can react.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.begin()
	resp, err := s.client.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		s.fail(err)
		return err
	}
	s.complete(resp, msgSignedIn)
	return nil
}

// Register creates an account and signs in with the returned session.
func (s *Store) Register(ctx context.Context, name, email, password string) error {
	s.begin()
	resp, err := s.client.Register(ctx, api.RegisterRequest{Name: name, Email: email, Password: password})
	if err != nil {
		s.fail(err)
		return err
	}
	s.complete(resp, msgRegistered)
	return nil
}

// Logout clears the session unconditionally. No server round-trip is needed.
func (s *Store) Logout() {
	if err := s.creds.Clear(); err != nil {
		slog.Warn("failed to clear credentials", "error", err)
	}
	s.mu.Lock()
	s.status = StatusAnonymous
	s.token = ""
	s.user = api.User{}
	s.errMsg = ""
	s.mu.Unlock()
	s.bus.Publish(events.NewEvent(events.EventSessionEnded, events.SourceAuth, nil))
	s.bus.Notify(events.SourceAuth, events.LevelSuccess, msgSignedOut)
}

func (s *Store) begin() {
	s.mu.Lock()
	s.status = StatusAuthenticating
	s.errMsg = ""
	s.mu.Unlock()
}

func (s *Store) complete(resp api.AuthResponse, notice string) {
	if err := s.creds.Save(resp.AccessToken, resp.User); err != nil {
		slog.Warn("failed to persist credentials", "error", err)
	}
	s.mu.Lock()
	s.status = StatusAuthenticated
	s.token = resp.AccessToken
	s.user = resp.User
	s.errMsg = ""
	s.mu.Unlock()
	s.bus.Publish(events.NewEvent(events.EventSessionStarted, events.SourceAuth, resp.User))
	s.bus.Notify(events.SourceAuth, events.LevelSuccess, notice)
}

func (s *Store) fail(err error) {
	s.mu.Lock()
	s.status = StatusFailed
	s.token = ""
	s.user = api.User{}
	s.errMsg = api.Message(err)
	s.mu.Unlock()
}

// expire is the transport's 401 hook: the server no longer accepts the
// token, so drop it everywhere.
func (s *Store) expire() {
	if err := s.creds.Clear(); err != nil {
		slog.Warn("failed to clear credentials", "error", err)
	}
	s.mu.Lock()
	s.status = StatusAnonymous
	s.token = ""
	s.user = api.User{}
	s.mu.Unlock()
}
