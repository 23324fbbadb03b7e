package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/asalgado/tasq/internal/api"
)

func testUser() api.User {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return api.User{
		ID:        "u-1",
		Email:     "ana@example.com",
		Name:      "Ana",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCredentialStoreRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "credentials")
	store := NewCredentialStore(dir)

	if _, _, ok := store.Load(); ok {
		t.Fatal("empty store should not load")
	}

	if err := store.Save("tok-abc", testUser()); err != nil {
		t.Fatal(err)
	}

	token, user, ok := store.Load()
	if !ok {
		t.Fatal("expected stored session to load")
	}
	if token != "tok-abc" {
		t.Errorf("token = %q, want tok-abc", token)
	}
	if user.Email != "ana@example.com" || user.ID != "u-1" {
		t.Errorf("unexpected user: %+v", user)
	}

	if err := store.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, _, ok := store.Load(); ok {
		t.Error("cleared store should not load")
	}
	// clearing twice is fine
	if err := store.Clear(); err != nil {
		t.Errorf("second clear: %v", err)
	}
}

func TestCredentialStorePermissions(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "credentials")
	store := NewCredentialStore(dir)

	if err := store.Save("secret", testUser()); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"authToken", "authUser"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}
		if perm := info.Mode().Perm(); perm != 0o600 {
			t.Errorf("%s mode = %o, want 600", name, perm)
		}
	}
}

func TestCredentialStoreStripsBearer(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "credentials")
	store := NewCredentialStore(dir)

	if err := store.Save("Bearer tok-xyz", testUser()); err != nil {
		t.Fatal(err)
	}
	token, _, ok := store.Load()
	if !ok || token != "tok-xyz" {
		t.Errorf("token = %q, want tok-xyz", token)
	}
}

func TestCredentialStoreCorruptProfile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "credentials")
	store := NewCredentialStore(dir)

	if err := store.Save("tok", testUser()); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "authUser"), []byte("{broken"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, _, ok := store.Load(); ok {
		t.Error("corrupt profile should be treated as absent")
	}
}

func TestCredentialStoreEmptyToken(t *testing.T) {
	store := NewCredentialStore(filepath.Join(t.TempDir(), "credentials"))
	if err := store.Save("  ", testUser()); err == nil {
		t.Error("expected error saving empty token")
	}
}
