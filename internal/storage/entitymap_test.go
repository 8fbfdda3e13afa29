package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEntity struct {
	ID       string `json:"id"`
	DeviceID string `json:"deviceId"`
	Name     string `json:"name"`
}

func (e testEntity) EntityID() string  { return e.ID }
func (e testEntity) DeviceRef() string { return e.DeviceID }

func TestEntityMapUpsertAndList(t *testing.T) {
	entities := NewEntityMap[testEntity](newMemStore(), "entries")
	ctx := context.Background()

	require.NoError(t, entities.Upsert(ctx, testEntity{ID: "a", Name: "first"}))
	require.NoError(t, entities.Upsert(ctx, testEntity{ID: "b", Name: "second"}))

	list := entities.List(ctx)
	assert.Len(t, list, 2)

	entity, ok := entities.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, "first", entity.Name)
}

func TestEntityMapUpsertReplacesWholeEntity(t *testing.T) {
	entities := NewEntityMap[testEntity](newMemStore(), "entries")
	ctx := context.Background()

	require.NoError(t, entities.Upsert(ctx, testEntity{ID: "a", Name: "first", DeviceID: "dev"}))
	require.NoError(t, entities.Upsert(ctx, testEntity{ID: "a", Name: "renamed"}))

	entity, ok := entities.Get(ctx, "a")
	require.True(t, ok)
	assert.Equal(t, "renamed", entity.Name)
	assert.Empty(t, entity.DeviceID, "no partial-field merge")
	assert.Equal(t, 1, entities.Len(ctx))
}

func TestEntityMapGetMissing(t *testing.T) {
	entities := NewEntityMap[testEntity](newMemStore(), "entries")

	_, ok := entities.Get(context.Background(), "nope")
	assert.False(t, ok)
}

func TestEntityMapDeleteMany(t *testing.T) {
	entities := NewEntityMap[testEntity](newMemStore(), "entries")
	ctx := context.Background()

	require.NoError(t, entities.Upsert(ctx, testEntity{ID: "a"}))
	require.NoError(t, entities.Upsert(ctx, testEntity{ID: "b"}))
	require.NoError(t, entities.Upsert(ctx, testEntity{ID: "c"}))

	require.NoError(t, entities.DeleteMany(ctx, "a", "b", "missing"))

	_, ok := entities.Get(ctx, "a")
	assert.False(t, ok)
	_, ok = entities.Get(ctx, "b")
	assert.False(t, ok)
	assert.Equal(t, 1, entities.Len(ctx))
}

func TestEntityMapDeleteManyIsOneWrite(t *testing.T) {
	store := newMemStore()
	entities := NewEntityMap[testEntity](store, "entries")
	ctx := context.Background()

	require.NoError(t, entities.Upsert(ctx, testEntity{ID: "a"}))
	require.NoError(t, entities.Upsert(ctx, testEntity{ID: "b"}))

	writes := 0
	entities.Subscribe(func(map[string]testEntity) { writes++ })

	require.NoError(t, entities.DeleteMany(ctx, "a", "b"))
	assert.Equal(t, 1, writes)
}

func TestEntityMapFailedPersistKeepsState(t *testing.T) {
	store := newMemStore()
	entities := NewEntityMap[testEntity](store, "entries")
	ctx := context.Background()

	require.NoError(t, entities.Upsert(ctx, testEntity{ID: "a"}))

	store.failNext = true
	require.Error(t, entities.Upsert(ctx, testEntity{ID: "b"}))

	assert.Equal(t, 1, entities.Len(ctx))
	_, ok := entities.Get(ctx, "b")
	assert.False(t, ok)
}

func TestEntityMapSnapshotIsACopy(t *testing.T) {
	entities := NewEntityMap[testEntity](newMemStore(), "entries")
	ctx := context.Background()

	require.NoError(t, entities.Upsert(ctx, testEntity{ID: "a"}))

	snapshot := entities.Snapshot(ctx)
	delete(snapshot, "a")

	_, ok := entities.Get(ctx, "a")
	assert.True(t, ok)
}

func TestEntityMapSharedSlotStaysInSync(t *testing.T) {
	store := newMemStore()
	writer := NewEntityMap[testEntity](store, "entries")
	ctx := context.Background()

	var observed int
	writer.Subscribe(func(entries map[string]testEntity) {
		observed = len(entries)
	})

	require.NoError(t, writer.Upsert(ctx, testEntity{ID: "a"}))
	require.NoError(t, writer.Upsert(ctx, testEntity{ID: "b"}))
	assert.Equal(t, 2, observed)
}
