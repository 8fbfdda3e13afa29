package storage

import (
	"context"
	"sort"
	"sync"
)

// DeviceEntity is an entity that belongs to a device.
type DeviceEntity interface {
	Entity
	DeviceRef() string
}

// DeviceView derives the subset of entries belonging to one device. The
// derivation is memoized on the source map's version and the device id, so
// repeated calls with an unchanged store return the identical slices.
type DeviceView[T DeviceEntity] struct {
	entries *EntityMap[T]

	mu           sync.Mutex
	lastVersion  uint64
	lastDeviceID string
	valid        bool
	list         []T
	byID         map[string]T
}

// NewDeviceView creates a view over the given entry map.
func NewDeviceView[T DeviceEntity](entries *EntityMap[T]) *DeviceView[T] {
	return &DeviceView[T]{entries: entries}
}

// For returns the entries of deviceID as a list ordered by id plus a lookup
// keyed by id.
func (v *DeviceView[T]) For(ctx context.Context, deviceID string) ([]T, map[string]T) {
	version := v.entries.Version(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.valid && v.lastVersion == version && v.lastDeviceID == deviceID {
		return v.list, v.byID
	}

	list := make([]T, 0)
	byID := make(map[string]T)
	for id, entry := range v.entries.Snapshot(ctx) {
		if entry.DeviceRef() == deviceID {
			list = append(list, entry)
			byID[id] = entry
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].EntityID() < list[j].EntityID()
	})

	v.lastVersion = version
	v.lastDeviceID = deviceID
	v.valid = true
	v.list = list
	v.byID = byID
	return list, byID
}
