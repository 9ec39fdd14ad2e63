// Package session persists the logged-in user's record across process
// restarts, taking over the role browser local storage played in the
// original application. One file, one record: the current user.
package session

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"somni-backend/internal/model"
)

// Store holds the current user in memory, mirrored to a JSON file. It is
// created at process start (rehydrating whatever the file holds), written at
// login/registration and cleared at logout.
type Store struct {
	mu      sync.RWMutex
	path    string
	current *model.User
}

// NewStore opens the session file at path. A missing file simply means no
// active session; a corrupt one or a record without an id is discarded.
func NewStore(path string) *Store {
	s := &Store{path: path}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Failed to read session file", "path", path, "error", err)
		}
		return s
	}

	var user model.User
	if err := json.Unmarshal(raw, &user); err != nil || user.ID == "" {
		slog.Warn("Discarding corrupt session record", "path", path)
		_ = os.Remove(path)
		return s
	}

	s.current = &user
	return s
}

// Set records user as the active session and persists it.
func (s *Store) Set(user model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &user

	raw, err := json.Marshal(user)
	if err != nil {
		slog.Error("Failed to serialize session record", "error", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		slog.Error("Failed to create session directory", "error", err)
		return
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		slog.Error("Failed to persist session record", "error", err)
	}
}

// Clear forgets the active session and removes the file.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to remove session file", "error", err)
	}
}

// Current returns a copy of the active user, or nil when nobody is logged in.
func (s *Store) Current() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	u := *s.current
	return &u
}

// IsLoggedIn reports whether a session with a valid user id is active.
func (s *Store) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil && s.current.ID != ""
}
