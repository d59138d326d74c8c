package device

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_CreatesOnFirstAccess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "device_id")
	s := NewStore(path)

	id, err := s.ID()
	require.NoError(t, err)

	_, err = uuid.Parse(id)
	assert.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, id+"\n", string(data))
}

func TestStore_ReusesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device_id")
	require.NoError(t, os.WriteFile(path, []byte("  existing-id\n"), 0600))

	s := NewStore(path)
	id, err := s.ID()
	require.NoError(t, err)
	assert.Equal(t, "existing-id", id)
}

func TestStore_StableAcrossStores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device_id")

	first, err := NewStore(path).ID()
	require.NoError(t, err)

	second, err := NewStore(path).ID()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestStore_CachesForLifetime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device_id")
	s := NewStore(path)

	id, err := s.ID()
	require.NoError(t, err)

	// Removing the file does not produce a new id for this store.
	require.NoError(t, os.Remove(path))

	again, err := s.ID()
	require.NoError(t, err)
	assert.Equal(t, id, again)
}

func TestStore_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device_id")
	require.NoError(t, os.WriteFile(path, []byte("\n"), 0600))

	_, err := NewStore(path).ID()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}
