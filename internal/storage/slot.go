package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Slot is a typed view of one named storage key. The in-memory value is a
// read-through cache of the persisted document: a missing key or a document
// that fails to decode falls back to the default, and Set only updates the
// cache after the write has been persisted. Subscribers of the same slot are
// notified on every successful Set, so dependent consumers stay in sync
// without polling.
type Slot[T any] struct {
	store Store
	key   string
	def   func() T

	mu      sync.Mutex
	cached  T
	loaded  bool
	version uint64
	subs    map[int]func(T)
	nextSub int
}

// NewSlot creates a slot for key. def produces the fallback value and must
// not return shared mutable state.
func NewSlot[T any](store Store, key string, def func() T) *Slot[T] {
	return &Slot[T]{
		store: store,
		key:   key,
		def:   def,
		subs:  make(map[int]func(T)),
	}
}

// Key returns the storage key this slot owns.
func (s *Slot[T]) Key() string {
	return s.key
}

// Get returns the current value, loading it from the store on first use.
func (s *Slot[T]) Get(ctx context.Context) T {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(ctx)
	return s.cached
}

func (s *Slot[T]) load(ctx context.Context) {
	if s.loaded {
		return
	}
	s.cached = s.def()
	s.loaded = true
	s.version++

	raw, err := s.store.GetValue(ctx, s.key)
	if err != nil {
		// Missing slot, or a store that cannot be read right now. Either
		// way the default stands in, matching last-write-wins semantics.
		return
	}
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		// Corrupt document is treated as absent.
		return
	}
	s.cached = value
}

// Set persists value and then updates the cache and notifies subscribers.
// If the write fails the cache is left untouched: in-memory state must never
// outlive a failed persist.
func (s *Slot[T]) Set(ctx context.Context, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode slot %q: %w", s.key, err)
	}

	s.mu.Lock()
	if err := s.store.SetValue(ctx, s.key, raw); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to persist slot %q: %w", s.key, err)
	}
	s.cached = value
	s.loaded = true
	s.version++
	listeners := make([]func(T), 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(value)
	}
	return nil
}

// Subscribe registers fn to run after every successful Set. The returned
// function removes the registration; fn never fires after it returns.
func (s *Slot[T]) Subscribe(fn func(T)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Version returns a counter that changes whenever the cached value changes.
// Derived views use it to detect staleness without comparing documents.
func (s *Slot[T]) Version(ctx context.Context) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(ctx)
	return s.version
}
