package sqlite

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwulff/picolor-go/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewMemoryStore(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	assert.NotNil(t, store)
}

func TestNewFileStore(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewFileStore(tmpDir + "/test.db")
	require.NoError(t, err)
	defer store.Close()

	assert.NotNil(t, store)
}

func TestSetAndGetValue(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.SetValue(ctx, "theme", json.RawMessage(`"dark"`))
	require.NoError(t, err)

	value, err := store.GetValue(ctx, "theme")
	require.NoError(t, err)
	assert.JSONEq(t, `"dark"`, string(value))
}

func TestSetValueReplaces(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetValue(ctx, "theme", json.RawMessage(`"dark"`)))
	require.NoError(t, store.SetValue(ctx, "theme", json.RawMessage(`"light"`)))

	value, err := store.GetValue(ctx, "theme")
	require.NoError(t, err)
	assert.JSONEq(t, `"light"`, string(value))
}

func TestGetValueNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetValue(context.Background(), "nonexistent")
	assert.True(t, storage.IsNotFound(err))
}

func TestDeleteValue(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetValue(ctx, "tutorial", json.RawMessage(`{"show":true,"step":0}`)))
	require.NoError(t, store.DeleteValue(ctx, "tutorial"))

	_, err := store.GetValue(ctx, "tutorial")
	assert.True(t, storage.IsNotFound(err))
}

func TestFileStorePersistsAcrossOpens(t *testing.T) {
	path := t.TempDir() + "/slots.db"
	ctx := context.Background()

	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SetValue(ctx, "matrixes", json.RawMessage(`{}`)))
	require.NoError(t, store.Close())

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, err := reopened.GetValue(ctx, "matrixes")
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(value))
}
