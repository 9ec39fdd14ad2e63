// Package data is the façade mediating every chat/message persistence call.
// It is the Go rendition of the original application's DataService: a
// single-user client session plus read-modify-write operations against the
// whole-document chats store.
package data

import (
	"context"
	"fmt"
	"log/slog"

	apperrors "somni-backend/internal/errors"
	"somni-backend/internal/model"
	"somni-backend/internal/session"
)

// DocumentStore is the raw document-store surface the façade needs. The
// resty client in the docstore package is the production implementation.
type DocumentStore interface {
	Users(ctx context.Context) ([]model.User, error)
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	ReplaceUser(ctx context.Context, userID string, user model.User) (model.User, error)
	Chats(ctx context.Context) (model.ChatsDocument, error)
	ReplaceChats(ctx context.Context, doc model.ChatsDocument) error
	MergeChats(ctx context.Context, patch model.ChatsDocument) error
}

// Service coordinates the session store and the document store. It carries
// no other state: every chat operation re-reads the whole document, mutates
// it in memory and writes it back, accepting last-writer-wins semantics.
type Service struct {
	docs    DocumentStore
	session *session.Store
}

func NewService(docs DocumentStore, sess *session.Store) *Service {
	return &Service{docs: docs, session: sess}
}

type loginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

type registerInput struct {
	FullName string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// Login authenticates against the mock user list. Passwords are compared as
// plaintext; the store is demo infrastructure and is documented as such.
func (s *Service) Login(ctx context.Context, email, password string) (model.User, error) {
	if err := validateStruct(loginInput{Email: email, Password: password}); err != nil {
		return model.User{}, err
	}

	users, err := s.docs.Users(ctx)
	if err != nil {
		return model.User{}, err
	}

	for _, u := range users {
		if u.Email != email {
			continue
		}
		if u.Password != password {
			return model.User{}, fmt.Errorf("%w: invalid password", apperrors.ErrValidation)
		}
		s.session.Set(u)
		return u, nil
	}
	return model.User{}, fmt.Errorf("%w: email not registered", apperrors.ErrNotFound)
}

// Register creates a new account, initializes its empty chat list and opens
// a session for it. An unknown preferred-model key silently falls back to
// the default so a stale client can never persist a dangling reference.
func (s *Service) Register(ctx context.Context, fullName, email, password, preferredModel string) (model.User, error) {
	if err := validateStruct(registerInput{FullName: fullName, Email: email, Password: password}); err != nil {
		return model.User{}, err
	}

	users, err := s.docs.Users(ctx)
	if err != nil {
		return model.User{}, err
	}
	for _, u := range users {
		if u.Email == email {
			return model.User{}, fmt.Errorf("%w: email already registered", apperrors.ErrAlreadyExists)
		}
	}

	if preferredModel == "" {
		preferredModel = model.DefaultModel().Key
	} else if _, ok := model.ModelByKey(preferredModel); !ok {
		slog.Warn("Unknown model key at registration, using default", "key", preferredModel)
		preferredModel = model.DefaultModel().Key
	}

	user := model.User{
		ID:             NewID(),
		FullName:       fullName,
		Email:          email,
		Password:       password,
		PreferredModel: preferredModel,
	}

	created, err := s.docs.CreateUser(ctx, user)
	if err != nil {
		return model.User{}, err
	}

	// Seed an empty chat list for the new user. Failure here is logged, not
	// fatal: the chat operations tolerate a missing key.
	if err := s.docs.MergeChats(ctx, model.ChatsDocument{created.ID: {}}); err != nil {
		slog.Warn("Failed to initialize chat list for new user", "user_id", created.ID, "error", err)
	}

	s.session.Set(created)
	return created, nil
}

// UpdateUserModel changes a user's preferred model, refreshing the session
// copy when the record belongs to the active user.
func (s *Service) UpdateUserModel(ctx context.Context, userID, modelKey string) (model.User, error) {
	if _, ok := model.ModelByKey(modelKey); !ok {
		return model.User{}, fmt.Errorf("%w: invalid model selected", apperrors.ErrValidation)
	}

	users, err := s.docs.Users(ctx)
	if err != nil {
		return model.User{}, err
	}

	for _, u := range users {
		if u.ID != userID {
			continue
		}
		u.PreferredModel = modelKey
		updated, err := s.docs.ReplaceUser(ctx, userID, u)
		if err != nil {
			return model.User{}, err
		}
		if cur := s.session.Current(); cur != nil && cur.ID == userID {
			s.session.Set(updated)
		}
		return updated, nil
	}
	return model.User{}, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID)
}

// Logout clears the active session.
func (s *Service) Logout() {
	s.session.Clear()
}

// CurrentUser returns the active session's user, or nil.
func (s *Service) CurrentUser() *model.User {
	return s.session.Current()
}

// IsLoggedIn reports whether a session is active.
func (s *Service) IsLoggedIn() bool {
	return s.session.IsLoggedIn()
}

// CurrentUserModel resolves the active user's preferred model, falling back
// to the default when nobody is logged in or the key is stale.
func (s *Service) CurrentUserModel() model.ModelOption {
	if user := s.session.Current(); user != nil && user.PreferredModel != "" {
		if opt, ok := model.ModelByKey(user.PreferredModel); ok {
			return opt
		}
	}
	return model.DefaultModel()
}

// requireUser returns the active user or the distinguished
// not-authenticated error, which UI layers treat specially (they suppress
// their own redirect and let a route guard handle it).
func (s *Service) requireUser() (*model.User, error) {
	user := s.session.Current()
	if user == nil || user.ID == "" {
		return nil, apperrors.ErrNotAuthenticated
	}
	return user, nil
}
