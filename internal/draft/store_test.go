package draft

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/metalagman/credo/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "outputs", "diagnostic_draft.json"))
	require.NoError(t, err)
	return store
}

func TestLoadMissingFileReturnsEmptyDraft(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	d, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, d.Header)
	assert.Empty(t, d.UserSpecs)
	assert.Nil(t, d.Meta)
}

func TestLoadMalformedFile(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("[1,2,3]"), 0o644))

	_, err := store.Load()
	assert.Error(t, err)
}

func TestSaveWritesMeta(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	completion := session.CompletionStatus{AllMandatory: true}
	d := Draft{
		Header:    map[string]any{"model_type": "PD"},
		UserSpecs: map[string]any{"default_definition": "90 DPD"},
	}
	require.NoError(t, store.Save(d, &completion))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded.Meta)
	assert.NotEmpty(t, loaded.Meta.LastUpdated)
	_, err = time.Parse(time.RFC3339, loaded.Meta.LastUpdated)
	assert.NoError(t, err)
	require.NotNil(t, loaded.Meta.CompletionStatus)
	assert.True(t, loaded.Meta.CompletionStatus.MandatoryComplete)
}

func TestSaveWithoutCompletionOmitsSnapshot(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	require.NoError(t, store.Save(Draft{Header: map[string]any{}, UserSpecs: map[string]any{}}, nil))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded.Meta)
	assert.Nil(t, loaded.Meta.CompletionStatus)
}

func TestStampSessionFirstWins(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	require.NoError(t, store.StampSession("session-one"))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded.Meta)
	assert.Equal(t, "session-one", loaded.Meta.SessionID)

	// a later stamp does not overwrite the recorded session
	require.NoError(t, store.StampSession("session-two"))
	loaded, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "session-one", loaded.Meta.SessionID)
}

func TestSaveCarriesSessionIDForward(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	require.NoError(t, store.StampSession("session-one"))

	_, err := store.UpsertField(map[string]any{"model_type": "PD"}, "default_definition", "90 DPD", nil)
	require.NoError(t, err)

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded.Meta)
	assert.Equal(t, "session-one", loaded.Meta.SessionID)
}

func TestUpsertFieldMergesAndAccumulates(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	header := map[string]any{"model_type": "PD", "portfolio": "Retail"}

	d, err := store.UpsertField(header, "default_definition", "90 DPD", nil)
	require.NoError(t, err)
	assert.Equal(t, "90 DPD", d.UserSpecs["default_definition"])

	// a later upsert with a partial header keeps the earlier keys
	d, err = store.UpsertField(map[string]any{"purpose": "AIRB"}, "target_variable", "default_flag_12m", nil)
	require.NoError(t, err)
	assert.Equal(t, "PD", d.Header["model_type"])
	assert.Equal(t, "Retail", d.Header["portfolio"])
	assert.Equal(t, "AIRB", d.Header["purpose"])
	assert.Equal(t, "90 DPD", d.UserSpecs["default_definition"])
	assert.Equal(t, "default_flag_12m", d.UserSpecs["target_variable"])

	// last write wins per field
	d, err = store.UpsertField(nil, "default_definition", "90+ DPD", nil)
	require.NoError(t, err)
	assert.Equal(t, "90+ DPD", d.UserSpecs["default_definition"])
}

func TestUpsertFieldIdempotent(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	header := map[string]any{"model_type": "PD", "portfolio": "Retail", "purpose": "AIRB"}

	first, err := store.UpsertField(header, "default_definition", "90 DPD", nil)
	require.NoError(t, err)
	second, err := store.UpsertField(header, "default_definition", "90 DPD", nil)
	require.NoError(t, err)

	assert.Equal(t, first.Header, second.Header)
	assert.Equal(t, first.UserSpecs, second.UserSpecs)

	// persisted content identical modulo the last_updated timestamp
	var onDisk map[string]json.RawMessage
	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &onDisk))

	var header2, specs2 map[string]any
	require.NoError(t, json.Unmarshal(onDisk["header"], &header2))
	require.NoError(t, json.Unmarshal(onDisk["user_specs"], &specs2))
	assert.Equal(t, first.Header, header2)
	assert.Equal(t, first.UserSpecs, specs2)
}

func TestSavePointPath(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	path := store.SavePointPath(now)

	assert.Equal(t, filepath.Dir(store.Path()), filepath.Dir(path))
	assert.Equal(t, "diagnostic_draft_20260314_150926.json", filepath.Base(path))
	assert.NotEqual(t, store.Path(), path)
}
