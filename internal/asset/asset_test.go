package asset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAsset(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "qr.png"))
}

func TestExists_AbsentByDefault(t *testing.T) {
	s := newTestAsset(t)
	assert.False(t, s.Exists())
}

func TestPut_ThenExists(t *testing.T) {
	s := newTestAsset(t)

	require.NoError(t, s.Put([]byte("png-bytes")))
	assert.True(t, s.Exists())

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestPut_OverwritesExisting(t *testing.T) {
	s := newTestAsset(t)
	require.NoError(t, s.Put([]byte("old")))
	require.NoError(t, s.Put([]byte("new")))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), data)
}

func TestRemove_DeletesAsset(t *testing.T) {
	s := newTestAsset(t)
	require.NoError(t, s.Put([]byte("png-bytes")))

	require.NoError(t, s.Remove())
	assert.False(t, s.Exists())
}

func TestRemove_AbsentIsNoOp(t *testing.T) {
	s := newTestAsset(t)
	require.NoError(t, s.Remove())
	assert.False(t, s.Exists())
}
