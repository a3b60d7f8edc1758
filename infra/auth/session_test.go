package auth

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	token   string
	loadErr error
	loads   int
	saves   int
}

func (m *memoryStore) Load() (string, error) {
	m.loads++
	return m.token, m.loadErr
}
func (m *memoryStore) Save(token string) error { m.saves++; m.token = token; return nil }
func (m *memoryStore) Clear() error            { m.token = ""; return nil }

func TestSession_HydrateFlipsOnce(t *testing.T) {
	store := &memoryStore{token: "persisted"}
	s := NewSession(store, nil)

	assert.False(t, s.Hydrated())
	_, ok := s.Token()
	assert.False(t, ok, "token must be absent before hydration")

	require.NoError(t, s.Hydrate())
	assert.True(t, s.Hydrated())
	select {
	case <-s.Done():
	default:
		t.Fatal("done channel must be closed after hydration")
	}

	tok, ok := s.Token()
	assert.True(t, ok)
	assert.Equal(t, "persisted", tok)

	store.token = "changed-on-disk"
	require.NoError(t, s.Hydrate())
	tok, _ = s.Token()
	assert.Equal(t, "persisted", tok, "second hydrate must be a no-op")
	assert.Equal(t, 1, store.loads)
}

func TestSession_HydrateErrorStillCompletes(t *testing.T) {
	s := NewSession(&memoryStore{loadErr: errors.New("disk gone")}, nil)

	require.Error(t, s.Hydrate())
	assert.True(t, s.Hydrated(), "hydration must complete as determined-absent")
	_, ok := s.Token()
	assert.False(t, ok)
	assert.NoError(t, s.Hydrate())
}

func TestSession_SetClearNotifies(t *testing.T) {
	store := &memoryStore{}
	s := NewSession(store, nil)
	require.NoError(t, s.Hydrate())

	var seen []string
	s.OnChange(func(token string) { seen = append(seen, token) })

	require.NoError(t, s.Set(" tok-1 "))
	require.NoError(t, s.Set("tok-1"))
	require.NoError(t, s.Set("tok-2"))
	require.NoError(t, s.Logout())
	require.NoError(t, s.Clear())

	assert.Equal(t, []string{"tok-1", "tok-2", ""}, seen)
	assert.Equal(t, 2, store.saves)
	assert.Empty(t, store.token)
}

func TestSession_SetEmptyClears(t *testing.T) {
	s := NewSession(&memoryStore{}, nil)
	require.NoError(t, s.Set("tok"))
	require.NoError(t, s.Set("   "))
	_, ok := s.Token()
	assert.False(t, ok)
}

func TestSession_PersistsAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")

	first := NewSession(NewFileTokenStore(path), nil)
	require.NoError(t, first.Hydrate())
	require.NoError(t, first.Set("jwt-abc"))

	restarted := NewSession(NewFileTokenStore(path), nil)
	require.NoError(t, restarted.Hydrate())
	tok, ok := restarted.Token()
	require.True(t, ok)
	assert.Equal(t, "jwt-abc", tok)

	require.NoError(t, restarted.Logout())
	again := NewSession(NewFileTokenStore(path), nil)
	require.NoError(t, again.Hydrate())
	_, ok = again.Token()
	assert.False(t, ok)
}
