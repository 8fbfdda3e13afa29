// Package history implements linear undo tracking over an externally driven
// value.
package history

import (
	"reflect"
	"sync"
)

// Tracker records successive values of a piece of state and a cursor into the
// recording. Observing a changed value discards any redone future beyond the
// cursor and appends, so a new edit always wins over a half-finished undo
// walk. The log is memory only and grows without bound.
type Tracker[T any] struct {
	mu     sync.Mutex
	values []T
	cursor int
	equal  func(a, b T) bool
}

// Option configures a Tracker.
type Option[T any] func(*Tracker[T])

// WithEqual replaces the change-detection comparison, which defaults to
// reflect.DeepEqual.
func WithEqual[T any](equal func(a, b T) bool) Option[T] {
	return func(t *Tracker[T]) {
		t.equal = equal
	}
}

// NewTracker creates a tracker seeded with the initial value.
func NewTracker[T any](initial T, opts ...Option[T]) *Tracker[T] {
	t := &Tracker[T]{
		values: []T{initial},
		equal: func(a, b T) bool {
			return reflect.DeepEqual(a, b)
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Observe feeds the current external value. If it differs from the newest
// recorded value, everything past the cursor is truncated, the value is
// appended and the cursor moves to it.
func (t *Tracker[T]) Observe(value T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.equal(value, t.values[len(t.values)-1]) {
		return
	}
	t.values = append(t.values[:t.cursor+1], value)
	t.cursor = len(t.values) - 1
}

// Back steps the cursor one value into the past, stopping at the oldest.
func (t *Tracker[T]) Back() T {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cursor > 0 {
		t.cursor--
	}
	return t.values[t.cursor]
}

// Forward steps the cursor one value toward the newest, stopping there.
func (t *Tracker[T]) Forward() T {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cursor < len(t.values)-1 {
		t.cursor++
	}
	return t.values[t.cursor]
}

// Current returns the value at the cursor.
func (t *Tracker[T]) Current() T {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.values[t.cursor]
}

// Len returns the number of recorded values.
func (t *Tracker[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.values)
}

// CanBack reports whether a Back step would move the cursor.
func (t *Tracker[T]) CanBack() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cursor > 0
}

// CanForward reports whether a Forward step would move the cursor.
func (t *Tracker[T]) CanForward() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cursor < len(t.values)-1
}

// Values returns a copy of the recorded log, oldest first.
func (t *Tracker[T]) Values() []T {
	t.mu.Lock()
	defer t.mu.Unlock()
	values := make([]T, len(t.values))
	copy(values, t.values)
	return values
}
