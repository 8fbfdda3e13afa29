package domain

import (
	"time"

	"github.com/google/uuid"
)

// Device is a registered sensor device, addressed by its base URL.
type Device struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewDevice creates a new device record.
func NewDevice(name, url string) Device {
	return Device{
		ID:        uuid.NewString(),
		Name:      name,
		URL:       url,
		CreatedAt: time.Now(),
	}
}

// EntityID implements storage.Entity.
func (d Device) EntityID() string {
	return d.ID
}

// TutorialState tracks onboarding progress.
type TutorialState struct {
	Show bool `json:"show"`
	Step int  `json:"step"`
}

// UpdateSettings controls the debounced push of matrix edits to the Pi.
type UpdateSettings struct {
	URL            string `json:"url"`
	EnableUpdatePi bool   `json:"enableUpdatePi"`
}

// Theme is the UI color theme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)
