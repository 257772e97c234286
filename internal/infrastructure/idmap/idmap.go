// Package idmap bridges the two identifier namespaces of the app: the native
// backend keys entities with sequential numeric database IDs, while the UI
// needs stable opaque string IDs that exist before any backend round trip
// completes. The translator keeps both directions in a pair of mutually
// inverse maps and persists the full table on every insert so mappings
// survive restarts.
package idmap

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"workforce/services/chat-state/internal/infrastructure/persistence"
)

const storageKey = "id-mappings"

type mappingTable struct {
	DBToOpaque map[int64]string `json:"db_to_opaque"`
	OpaqueToDB map[string]int64 `json:"opaque_to_db"`
}

// Translator maintains the bidirectional mapping between backend numeric IDs
// and client opaque IDs.
type Translator struct {
	mu         sync.Mutex
	dbToOpaque map[int64]string
	opaqueToDB map[string]int64
	store      *persistence.FileStore
	log        zerolog.Logger
}

// NewTranslator loads any persisted table from the store. A missing or
// corrupt table starts the translator empty; opaque IDs are a display and
// correlation convenience, not a source of truth, so losing them is
// survivable and logged rather than fatal.
func NewTranslator(store *persistence.FileStore, log zerolog.Logger) *Translator {
	t := &Translator{
		dbToOpaque: make(map[int64]string),
		opaqueToDB: make(map[string]int64),
		store:      store,
		log:        log.With().Str("component", "id-translator").Logger(),
	}

	var table mappingTable
	err := store.Load(storageKey, &table)
	switch {
	case err == nil:
		if table.DBToOpaque != nil {
			t.dbToOpaque = table.DBToOpaque
		}
		if table.OpaqueToDB != nil {
			t.opaqueToDB = table.OpaqueToDB
		}
		t.log.Debug().Int("mappings", len(t.dbToOpaque)).Msg("loaded identifier mappings")
	case errors.Is(err, persistence.ErrKeyNotFound):
		// first run
	default:
		t.log.Warn().Err(err).Msg("identifier mapping table unreadable, starting empty")
	}

	return t
}

// OpaqueID returns the opaque ID for a backend numeric ID, allocating and
// persisting a fresh one on first sight. Idempotent: repeated calls for the
// same dbID return the same value.
func (t *Translator) OpaqueID(dbID int64) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if id, ok := t.dbToOpaque[dbID]; ok {
		return id
	}

	id := uuid.NewString()
	t.dbToOpaque[dbID] = id
	t.opaqueToDB[id] = dbID
	t.persistLocked()
	return id
}

// Bind associates a backend numeric ID with an opaque ID the client already
// created, as happens when an optimistic conversation is acknowledged. An
// existing mapping for either side wins; Bind never rewrites history.
func (t *Translator) Bind(dbID int64, opaque string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.dbToOpaque[dbID]; ok {
		return
	}
	if _, ok := t.opaqueToDB[opaque]; ok {
		return
	}
	t.dbToOpaque[dbID] = opaque
	t.opaqueToDB[opaque] = dbID
	t.persistLocked()
}

// DBID is the pure reverse lookup; no side effects.
func (t *Translator) DBID(opaque string) (int64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	dbID, ok := t.opaqueToDB[opaque]
	return dbID, ok
}

// Len reports the number of known mappings.
func (t *Translator) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.dbToOpaque)
}

func (t *Translator) persistLocked() {
	table := mappingTable{
		DBToOpaque: t.dbToOpaque,
		OpaqueToDB: t.opaqueToDB,
	}
	if err := t.store.Save(storageKey, table); err != nil {
		// A lost write means the next lookup regenerates the mapping; the
		// backend numeric ID remains authoritative either way.
		t.log.Warn().Err(err).Msg("failed to persist identifier mappings")
	}
}
