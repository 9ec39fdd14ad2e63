package session_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"somni-backend/internal/model"
	"somni-backend/internal/session"
)

func TestStore_SetAndCurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := session.NewStore(path)

	assert.False(t, s.IsLoggedIn())
	assert.Nil(t, s.Current())

	user := model.User{ID: "u1", FullName: "Ada", Email: "ada@x.com", Password: "secret1"}
	s.Set(user)

	assert.True(t, s.IsLoggedIn())
	require.NotNil(t, s.Current())
	assert.Equal(t, user, *s.Current())
}

func TestStore_CurrentReturnsCopy(t *testing.T) {
	s := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	s.Set(model.User{ID: "u1", Email: "ada@x.com"})

	cur := s.Current()
	cur.Email = "mutated@x.com"
	assert.Equal(t, "ada@x.com", s.Current().Email)
}

func TestStore_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := session.NewStore(path)
	s.Set(model.User{ID: "u1"})

	s.Clear()

	assert.False(t, s.IsLoggedIn())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestStore_RehydratesAcrossRestarts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	session.NewStore(path).Set(model.User{ID: "u1", Email: "ada@x.com"})

	reopened := session.NewStore(path)
	require.True(t, reopened.IsLoggedIn())
	assert.Equal(t, "ada@x.com", reopened.Current().Email)
}

func TestStore_DiscardsCorruptRecords(t *testing.T) {
	t.Run("Invalid JSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

		s := session.NewStore(path)
		assert.False(t, s.IsLoggedIn())
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err), "corrupt file should be removed")
	})

	t.Run("Record without an id", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"email":"ada@x.com"}`), 0o600))

		s := session.NewStore(path)
		assert.False(t, s.IsLoggedIn())
	})
}
