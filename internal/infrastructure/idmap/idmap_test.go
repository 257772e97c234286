package idmap

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workforce/services/chat-state/internal/infrastructure/persistence"
)

func newTranslator(t *testing.T, dir string) *Translator {
	t.Helper()
	store, err := persistence.NewFileStore(dir, zerolog.Nop())
	require.NoError(t, err)
	return NewTranslator(store, zerolog.Nop())
}

func TestBijection(t *testing.T) {
	tr := newTranslator(t, t.TempDir())

	for _, dbID := range []int64{1, 2, 42, 9999} {
		opaque := tr.OpaqueID(dbID)
		require.NotEmpty(t, opaque)

		back, ok := tr.DBID(opaque)
		require.True(t, ok)
		assert.Equal(t, dbID, back)
	}
}

func TestOpaqueIDIdempotent(t *testing.T) {
	tr := newTranslator(t, t.TempDir())

	first := tr.OpaqueID(7)
	second := tr.OpaqueID(7)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, tr.Len())
}

func TestDBIDUnknownOpaque(t *testing.T) {
	tr := newTranslator(t, t.TempDir())

	_, ok := tr.DBID("never-seen")
	assert.False(t, ok)
}

func TestMappingsSurviveRestart(t *testing.T) {
	dir := t.TempDir()

	tr := newTranslator(t, dir)
	opaque := tr.OpaqueID(123)

	reloaded := newTranslator(t, dir)
	assert.Equal(t, opaque, reloaded.OpaqueID(123))

	back, ok := reloaded.DBID(opaque)
	require.True(t, ok)
	assert.Equal(t, int64(123), back)
}

func TestBind(t *testing.T) {
	tr := newTranslator(t, t.TempDir())

	tr.Bind(55, "client-made")
	back, ok := tr.DBID("client-made")
	require.True(t, ok)
	assert.Equal(t, int64(55), back)
	assert.Equal(t, "client-made", tr.OpaqueID(55))
}

func TestBindNeverRebinds(t *testing.T) {
	tr := newTranslator(t, t.TempDir())

	opaque := tr.OpaqueID(55)
	tr.Bind(55, "late-arrival")
	assert.Equal(t, opaque, tr.OpaqueID(55))

	tr.Bind(77, opaque)
	back, ok := tr.DBID(opaque)
	require.True(t, ok)
	assert.Equal(t, int64(55), back)
}

func TestCorruptTableStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	store, err := persistence.NewFileStore(dir, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, store.Save("id-mappings", "not a table"))

	tr := NewTranslator(store, zerolog.Nop())
	assert.Equal(t, 0, tr.Len())
}
