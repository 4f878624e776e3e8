package sqlitestorage_test

import (
	"path/filepath"
	"testing"

	"github.com/nlouis56/convivio-web/credentials"
	"github.com/nlouis56/convivio-web/credentials/sqlitestorage"
	"github.com/stretchr/testify/require"
)

func TestSetGetDelete(t *testing.T) {
	s, err := sqlitestorage.NewInMemory()
	require.NoError(t, err)
	defer s.Close()

	_, ok, err := s.Get("token")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.SetAll(map[string]string{"token": "t1", "user": `{"id":"u1"}`}))

	v, ok, err := s.Get("token")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "t1", v)

	require.NoError(t, s.SetAll(map[string]string{"token": "t2"}))
	v, _, err = s.Get("token")
	require.NoError(t, err)
	require.Equal(t, "t2", v)

	require.NoError(t, s.Delete("token", "user", "never-set"))
	_, ok, err = s.Get("user")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "convivio.db")

	s, err := sqlitestorage.New(dbPath)
	require.NoError(t, err)
	store := credentials.New(s)
	profile := credentials.Profile{ID: "u1", Username: "alice", Email: "a@x.com", Roles: []string{"USER"}}
	require.NoError(t, store.Save("t1", profile))
	require.True(t, store.Persistent())
	require.NoError(t, s.Close())

	reopened, err := sqlitestorage.New(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	rec, err := credentials.New(reopened).Load()
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.Equal(t, "t1", rec.Token)
	require.Equal(t, profile, rec.Profile)
}
