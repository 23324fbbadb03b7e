package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/asalgado/tasq/internal/api"
)

// The durable session record is exactly two keyed entries, written together
// on login and removed together on logout or session expiry.
const (
	tokenKey = "authToken"
	userKey  = "authUser"
)

// CredentialStore persists the session token and user profile on disk.
type CredentialStore struct {
	mu  sync.Mutex
	dir string
}

// NewCredentialStore creates a store rooted at dir.
func NewCredentialStore(dir string) *CredentialStore {
	return &CredentialStore{dir: dir}
}

// Save writes the token and profile. The directory is created 0700 and the
// entries 0600 (owner-only, they hold the bearer credential).
func (s *CredentialStore) Save(token string, user api.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	token = stripBearer(strings.TrimSpace(token))
	if token == "" {
		return fmt.Errorf("empty token")
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	if err := s.writeEntry(tokenKey, []byte(token)); err != nil {
		return err
	}
	data, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	return s.writeEntry(userKey, data)
}

// Load reads the stored token and profile. A missing or unreadable record
// yields ok=false; a corrupt profile is treated as absent.
func (s *CredentialStore) Load() (token string, user api.User, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tb, err := os.ReadFile(filepath.Join(s.dir, tokenKey))
	if err != nil {
		return "", api.User{}, false
	}
	token = stripBearer(strings.TrimSpace(string(tb)))
	if token == "" {
		return "", api.User{}, false
	}

	ub, err := os.ReadFile(filepath.Join(s.dir, userKey))
	if err != nil {
		return "", api.User{}, false
	}
	if err := json.Unmarshal(ub, &user); err != nil {
		return "", api.User{}, false
	}
	return token, user, true
}

// Clear removes both entries. Missing entries are not an error.
func (s *CredentialStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for _, key := range []string{tokenKey, userKey} {
		if err := os.Remove(filepath.Join(s.dir, key)); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			if firstErr == nil {
				firstErr = fmt.Errorf("remove %s: %w", key, err)
			}
		}
	}
	return firstErr
}

// writeEntry writes atomically via temp file + rename.
func (s *CredentialStore) writeEntry(key string, data []byte) error {
	path := filepath.Join(s.dir, key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", key, err)
	}
	return nil
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
