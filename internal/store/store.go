package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"somni-backend/internal/model"
)

// ErrNotFound is returned when an addressed record is absent from the
// document. The API layer translates it into a 404.
var ErrNotFound = errors.New("store: not found")

// Document is the entire backing file: a flat user list plus the chats
// container keyed by user id. There is deliberately no relational schema;
// the only query pattern the application has is "all chats for user X".
type Document struct {
	Users []model.User        `json:"users"`
	Chats model.ChatsDocument `json:"chats"`
}

// Store is a mutex-guarded in-memory document persisted to a single JSON
// file. Every mutation rewrites the whole file; readers and writers in this
// process are serialized by the lock, but nothing protects against two
// clients racing through the HTTP API. That read-modify-write race is a
// documented property of the design, acceptable for single-user demo usage.
type Store struct {
	mu   sync.RWMutex
	path string
	doc  Document
}

// Open loads the document from path, creating an empty one (and any missing
// parent directories) when the file does not exist yet.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	s := &Store{path: path, doc: Document{Users: []model.User{}, Chats: model.ChatsDocument{}}}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, s.persist()
		}
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}

	if err := json.Unmarshal(raw, &s.doc); err != nil {
		return nil, fmt.Errorf("failed to parse store file %s: %w", path, err)
	}
	if s.doc.Users == nil {
		s.doc.Users = []model.User{}
	}
	if s.doc.Chats == nil {
		s.doc.Chats = model.ChatsDocument{}
	}
	return s, nil
}

// Users returns a copy of the user list.
func (s *Store) Users() []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.User, len(s.doc.Users))
	copy(out, s.doc.Users)
	return out
}

// AddUser appends a user record. Like json-server, the store does not
// enforce uniqueness; that is the client's job.
func (s *Store) AddUser(u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Users = append(s.doc.Users, u)
	return s.persist()
}

// ReplaceUser overwrites the user record with the given id.
func (s *Store) ReplaceUser(id string, u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.doc.Users {
		if s.doc.Users[i].ID == id {
			u.ID = id
			s.doc.Users[i] = u
			return s.persist()
		}
	}
	return ErrNotFound
}

// Chats returns a copy of the whole chats document.
func (s *Store) Chats() model.ChatsDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyChats(s.doc.Chats)
}

// ReplaceChats overwrites the whole chats document.
func (s *Store) ReplaceChats(doc model.ChatsDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc == nil {
		doc = model.ChatsDocument{}
	}
	s.doc.Chats = copyChats(doc)
	return s.persist()
}

// MergeChats applies a shallow top-level merge: each user id present in the
// patch replaces that user's chat list, other keys are left alone. This is
// json-server's PATCH semantics on a single resource.
func (s *Store) MergeChats(patch model.ChatsDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for userID, chats := range patch {
		cp := make([]model.StoredChat, len(chats))
		copy(cp, chats)
		s.doc.Chats[userID] = cp
	}
	return s.persist()
}

// persist writes the document atomically: marshal to a temp file in the same
// directory, then rename over the target. Callers must hold the write lock.
func (s *Store) persist() error {
	raw, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store document: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}

func copyChats(doc model.ChatsDocument) model.ChatsDocument {
	out := make(model.ChatsDocument, len(doc))
	for userID, chats := range doc {
		cp := make([]model.StoredChat, len(chats))
		copy(cp, chats)
		out[userID] = cp
	}
	return out
}
