// Package storage provides the persistent slot and entity-map layer backing
// the color picker and sensor screens.
package storage

import (
	"context"
	"encoding/json"
)

// Slot keys of the persisted state layout.
const (
	KeyMatrixes                = "matrixes"
	KeyDevices                 = "devices"
	KeySelectedCalibrationData = "selectedCalibrationData"
	KeyCalibrationData         = "calibrationData"
	KeySensorHistory           = "sensorHistory"
	KeyTutorial                = "tutorial"
	KeyUpdateSettings          = "UPDATE_PI_SETTINGS"
	KeyTheme                   = "theme"
)

// Store is the interface for raw persistent storage. Each key holds one JSON
// document; last write wins.
type Store interface {
	GetValue(ctx context.Context, key string) (json.RawMessage, error)
	SetValue(ctx context.Context, key string, value json.RawMessage) error
	DeleteValue(ctx context.Context, key string) error
	Close() error
}

// ErrNotFound is returned when a record is not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e ErrNotFound) Error() string {
	return e.Resource + " not found: " + e.ID
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	_, ok := err.(ErrNotFound)
	return ok
}
