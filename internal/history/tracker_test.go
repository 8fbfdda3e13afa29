package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackerRecordsAndPassesThrough(t *testing.T) {
	tracker := NewTracker("A")
	tracker.Observe("B")
	tracker.Observe("C")

	assert.Equal(t, []string{"A", "B", "C"}, tracker.Values())
	assert.Equal(t, "C", tracker.Current())
}

func TestTrackerIgnoresUnchangedValue(t *testing.T) {
	tracker := NewTracker("A")
	tracker.Observe("A")
	tracker.Observe("A")

	assert.Equal(t, 1, tracker.Len())
}

func TestTrackerBack(t *testing.T) {
	tracker := NewTracker("A")
	tracker.Observe("B")
	tracker.Observe("C")

	assert.Equal(t, "B", tracker.Back())
	assert.Equal(t, "A", tracker.Back())
	// Oldest value is a floor.
	assert.Equal(t, "A", tracker.Back())
}

func TestTrackerForward(t *testing.T) {
	tracker := NewTracker("A")
	tracker.Observe("B")
	tracker.Back()

	assert.Equal(t, "B", tracker.Forward())
	// Newest value is a ceiling.
	assert.Equal(t, "B", tracker.Forward())
}

func TestTrackerNewEditTruncatesRedoBranch(t *testing.T) {
	tracker := NewTracker("A")
	tracker.Observe("B")
	tracker.Observe("C")

	assert.Equal(t, "B", tracker.Back())

	// A new external change while stepped back discards the redo branch.
	tracker.Observe("D")

	assert.Equal(t, []string{"A", "B", "D"}, tracker.Values())
	assert.Equal(t, "D", tracker.Current())
	assert.False(t, tracker.CanForward())
}

func TestTrackerCanBackCanForward(t *testing.T) {
	tracker := NewTracker("A")
	assert.False(t, tracker.CanBack())
	assert.False(t, tracker.CanForward())

	tracker.Observe("B")
	assert.True(t, tracker.CanBack())
	assert.False(t, tracker.CanForward())

	tracker.Back()
	assert.False(t, tracker.CanBack())
	assert.True(t, tracker.CanForward())
}

func TestTrackerCustomEquality(t *testing.T) {
	type doc struct{ ID, Body string }
	tracker := NewTracker(doc{ID: "1", Body: "a"}, WithEqual[doc](func(a, b doc) bool {
		return a.ID == b.ID
	}))

	// Same id means no change under the custom comparison.
	tracker.Observe(doc{ID: "1", Body: "b"})
	assert.Equal(t, 1, tracker.Len())

	tracker.Observe(doc{ID: "2", Body: "b"})
	assert.Equal(t, 2, tracker.Len())
}

func TestTrackerValuesIsACopy(t *testing.T) {
	tracker := NewTracker("A")
	values := tracker.Values()
	values[0] = "mutated"

	assert.Equal(t, "A", tracker.Current())
}
