package persistence

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	return store
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	in := map[string]int{"a": 1, "b": 2}
	require.NoError(t, store.Save("mappings", in))

	var out map[string]int
	require.NoError(t, store.Load("mappings", &out))
	assert.Equal(t, in, out)
}

func TestLoadMissingKey(t *testing.T) {
	store := newTestStore(t)

	var out map[string]int
	err := store.Load("nothing", &out)
	assert.True(t, errors.Is(err, ErrKeyNotFound))
}

func TestLoadCorruptDocument(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644))

	var out map[string]int
	err = store.Load("bad", &out)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrKeyNotFound))
}

func TestSaveOverwrites(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save("doc", map[string]string{"v": "one"}))
	require.NoError(t, store.Save("doc", map[string]string{"v": "two"}))

	var out map[string]string
	require.NoError(t, store.Load("doc", &out))
	assert.Equal(t, "two", out["v"])
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save("doc", map[string]string{"v": "one"}))
	require.NoError(t, store.Delete("doc"))
	require.NoError(t, store.Delete("doc"))

	var out map[string]string
	assert.True(t, errors.Is(store.Load("doc", &out), ErrKeyNotFound))
}
