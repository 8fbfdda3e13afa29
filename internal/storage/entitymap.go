package storage

import (
	"context"
)

// Entity is any record with a unique string identifier.
type Entity interface {
	EntityID() string
}

// EntityMap is generic CRUD over one slot holding an id-to-entity mapping.
// Every mutation replaces the whole persisted document in a single write;
// DeleteMany in particular removes all given ids in one write so that
// cascading deletes cannot lose updates between steps.
type EntityMap[T Entity] struct {
	slot *Slot[map[string]T]
}

// NewEntityMap creates an entity map over the given slot key.
func NewEntityMap[T Entity](store Store, key string) *EntityMap[T] {
	return &EntityMap[T]{
		slot: NewSlot(store, key, func() map[string]T {
			return make(map[string]T)
		}),
	}
}

// Key returns the underlying slot key.
func (m *EntityMap[T]) Key() string {
	return m.slot.Key()
}

// List returns a snapshot of all entities. Order is not guaranteed to be
// stable across calls.
func (m *EntityMap[T]) List(ctx context.Context) []T {
	current := m.slot.Get(ctx)
	entities := make([]T, 0, len(current))
	for _, entity := range current {
		entities = append(entities, entity)
	}
	return entities
}

// Get returns the entity with the given id.
func (m *EntityMap[T]) Get(ctx context.Context, id string) (T, bool) {
	entity, ok := m.slot.Get(ctx)[id]
	return entity, ok
}

// Snapshot returns a copy of the full mapping.
func (m *EntityMap[T]) Snapshot(ctx context.Context) map[string]T {
	current := m.slot.Get(ctx)
	snapshot := make(map[string]T, len(current))
	for id, entity := range current {
		snapshot[id] = entity
	}
	return snapshot
}

// Len returns the number of stored entities.
func (m *EntityMap[T]) Len(ctx context.Context) int {
	return len(m.slot.Get(ctx))
}

// Upsert stores the entity under its id, replacing any previous value whole.
func (m *EntityMap[T]) Upsert(ctx context.Context, entity T) error {
	next := m.Snapshot(ctx)
	next[entity.EntityID()] = entity
	return m.slot.Set(ctx, next)
}

// DeleteMany removes all given ids in one persisted write.
func (m *EntityMap[T]) DeleteMany(ctx context.Context, ids ...string) error {
	next := m.Snapshot(ctx)
	for _, id := range ids {
		delete(next, id)
	}
	return m.slot.Set(ctx, next)
}

// Subscribe registers fn to run after every successful write with the new
// mapping. The returned function removes the registration.
func (m *EntityMap[T]) Subscribe(fn func(map[string]T)) func() {
	return m.slot.Subscribe(fn)
}

// Version changes whenever the mapping changes.
func (m *EntityMap[T]) Version(ctx context.Context) uint64 {
	return m.slot.Version(ctx)
}
