package data_test

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"somni-backend/internal/api"
	"somni-backend/internal/data"
	"somni-backend/internal/docstore"
	apperrors "somni-backend/internal/errors"
	"somni-backend/internal/model"
	"somni-backend/internal/session"
	"somni-backend/internal/store"
)

// newTestService wires the façade against a real API server over a
// throwaway document store, so the whole GET→mutate→PUT cycle is exercised
// rather than mocked away.
func newTestService(t *testing.T) (*data.Service, *store.Store) {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)

	ts := httptest.NewServer(api.NewRouter(api.NewStoreHandler(st), nil, ""))
	t.Cleanup(ts.Close)

	sess := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	return data.NewService(docstore.New(ts.URL), sess), st
}

// registeredService returns a façade with a fresh registered user session.
func registeredService(t *testing.T) (*data.Service, *store.Store) {
	t.Helper()
	svc, st := newTestService(t)
	_, err := svc.Register(context.Background(), "Ada Lovelace", "a@x.com", "secret1", "")
	require.NoError(t, err)
	return svc, st
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("Defaults to the first catalog model and opens a session", func(t *testing.T) {
		svc, st := newTestService(t)

		user, err := svc.Register(ctx, "Ada Lovelace", "a@x.com", "secret1", "")
		require.NoError(t, err)

		assert.NotEmpty(t, user.ID)
		assert.Equal(t, model.DefaultModel().Key, user.PreferredModel)
		assert.True(t, svc.IsLoggedIn())

		// The user's empty chat list is seeded in the store.
		assert.Contains(t, st.Chats(), user.ID)

		chats, err := svc.GetChats(ctx)
		require.NoError(t, err)
		assert.Empty(t, chats)
	})

	t.Run("Unknown model key falls back to default", func(t *testing.T) {
		svc, _ := newTestService(t)
		user, err := svc.Register(ctx, "Ada", "a@x.com", "secret1", "no-such-model")
		require.NoError(t, err)
		assert.Equal(t, model.DefaultModel().Key, user.PreferredModel)
	})

	t.Run("Duplicate email is rejected", func(t *testing.T) {
		svc, _ := registeredService(t)
		_, err := svc.Register(ctx, "Imposter", "a@x.com", "secret2", "")
		assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	})

	t.Run("Validation failures", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Register(ctx, "", "a@x.com", "secret1", "")
		assert.ErrorIs(t, err, apperrors.ErrValidation)

		_, err = svc.Register(ctx, "Ada", "not-an-email", "secret1", "")
		assert.ErrorIs(t, err, apperrors.ErrValidation)

		_, err = svc.Register(ctx, "Ada", "a@x.com", "short", "")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("Registered credentials succeed", func(t *testing.T) {
		svc, _ := registeredService(t)
		svc.Logout()
		require.False(t, svc.IsLoggedIn())

		user, err := svc.Login(ctx, "a@x.com", "secret1")
		require.NoError(t, err)
		assert.Equal(t, model.DefaultModel().Key, user.PreferredModel)
		assert.True(t, svc.IsLoggedIn())
	})

	t.Run("Unknown email", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Login(ctx, "ghost@x.com", "secret1")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("Wrong password", func(t *testing.T) {
		svc, _ := registeredService(t)
		svc.Logout()
		_, err := svc.Login(ctx, "a@x.com", "wrong-1")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}

func TestUpdateUserModel(t *testing.T) {
	ctx := context.Background()

	t.Run("Updates the record and the session copy", func(t *testing.T) {
		svc, st := registeredService(t)
		userID := svc.CurrentUser().ID

		updated, err := svc.UpdateUserModel(ctx, userID, "mistral-large")
		require.NoError(t, err)
		assert.Equal(t, "mistral-large", updated.PreferredModel)
		assert.Equal(t, "mistral-large", svc.CurrentUser().PreferredModel)
		assert.Equal(t, "Mistral Large", svc.CurrentUserModel().Value)
		assert.Equal(t, "mistral-large", st.Users()[0].PreferredModel)
	})

	t.Run("Invalid model key", func(t *testing.T) {
		svc, _ := registeredService(t)
		_, err := svc.UpdateUserModel(ctx, svc.CurrentUser().ID, "no-such-model")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("Unknown user", func(t *testing.T) {
		svc, _ := registeredService(t)
		_, err := svc.UpdateUserModel(ctx, "ghost", "mistral-large")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestRequiresAuthentication(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.GetChats(ctx)
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)

	_, err = svc.CreateChat(ctx, "New Chat")
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)

	_, err = svc.UpdateChatTitle(ctx, "c1", "Title")
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)

	err = svc.DeleteChat(ctx, "c1")
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)

	_, err = svc.SendMessage(ctx, "c1", "hello")
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
}
