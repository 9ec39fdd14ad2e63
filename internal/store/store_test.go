package store_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"somni-backend/internal/model"
	"somni-backend/internal/store"
)

func openTestStore(t *testing.T) (*store.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db.json")
	s, err := store.Open(path)
	require.NoError(t, err)
	return s, path
}

func TestOpen_CreatesEmptyDocument(t *testing.T) {
	s, _ := openTestStore(t)
	assert.Empty(t, s.Users())
	assert.Empty(t, s.Chats())
}

func TestUsers(t *testing.T) {
	t.Run("Add and list", func(t *testing.T) {
		s, _ := openTestStore(t)
		user := model.User{ID: "u1", FullName: "Ada", Email: "ada@x.com", Password: "secret1"}
		require.NoError(t, s.AddUser(user))

		users := s.Users()
		require.Len(t, users, 1)
		assert.Equal(t, user, users[0])
	})

	t.Run("Replace existing", func(t *testing.T) {
		s, _ := openTestStore(t)
		require.NoError(t, s.AddUser(model.User{ID: "u1", Email: "ada@x.com"}))

		require.NoError(t, s.ReplaceUser("u1", model.User{ID: "u1", Email: "ada@x.com", PreferredModel: "mistral-large"}))
		assert.Equal(t, "mistral-large", s.Users()[0].PreferredModel)
	})

	t.Run("Replace missing returns not found", func(t *testing.T) {
		s, _ := openTestStore(t)
		err := s.ReplaceUser("ghost", model.User{ID: "ghost"})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestChatsDocument(t *testing.T) {
	t.Run("Replace overwrites the whole document", func(t *testing.T) {
		s, _ := openTestStore(t)
		require.NoError(t, s.ReplaceChats(model.ChatsDocument{
			"u1": {{ID: "c1", Title: "New Chat", Messages: []model.StoredMessage{}}},
			"u2": {{ID: "c2", Title: "New Chat", Messages: []model.StoredMessage{}}},
		}))

		require.NoError(t, s.ReplaceChats(model.ChatsDocument{
			"u1": {{ID: "c1", Title: "Renamed", Messages: []model.StoredMessage{}}},
		}))

		doc := s.Chats()
		assert.Len(t, doc, 1)
		assert.Equal(t, "Renamed", doc["u1"][0].Title)
	})

	t.Run("Merge only touches posted keys", func(t *testing.T) {
		s, _ := openTestStore(t)
		require.NoError(t, s.ReplaceChats(model.ChatsDocument{
			"u1": {{ID: "c1", Title: "Keep me", Messages: []model.StoredMessage{}}},
		}))

		require.NoError(t, s.MergeChats(model.ChatsDocument{"u2": {}}))

		doc := s.Chats()
		assert.Equal(t, "Keep me", doc["u1"][0].Title)
		assert.Contains(t, doc, "u2")
		assert.Empty(t, doc["u2"])
	})

	t.Run("Returned document is a copy", func(t *testing.T) {
		s, _ := openTestStore(t)
		require.NoError(t, s.ReplaceChats(model.ChatsDocument{
			"u1": {{ID: "c1", Title: "Original", Messages: []model.StoredMessage{}}},
		}))

		doc := s.Chats()
		doc["u1"][0].Title = "mutated"
		assert.Equal(t, "Original", s.Chats()["u1"][0].Title)
	})
}

func TestPersistenceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")

	s, err := store.Open(path)
	require.NoError(t, err)
	require.NoError(t, s.AddUser(model.User{ID: "u1", Email: "ada@x.com"}))
	require.NoError(t, s.ReplaceChats(model.ChatsDocument{
		"u1": {{ID: "c1", Title: "Survives restarts", Messages: []model.StoredMessage{}}},
	}))

	reopened, err := store.Open(path)
	require.NoError(t, err)
	require.Len(t, reopened.Users(), 1)
	assert.Equal(t, "ada@x.com", reopened.Users()[0].Email)
	assert.Equal(t, "Survives restarts", reopened.Chats()["u1"][0].Title)
}
