package server

import (
	"sync"

	"github.com/jwulff/picolor-go/internal/domain"
)

// FrameDisplay renders patterns into an in-memory frame. It stands in for
// the LED matrix when no hardware is attached; the optional hook runs after
// every applied pattern with a copy of the frame.
type FrameDisplay struct {
	mu      sync.Mutex
	frame   *domain.Frame
	applied func(domain.MatrixConfig, *domain.Frame)
}

// NewFrameDisplay creates a display with a Sense HAT sized frame.
func NewFrameDisplay(applied func(domain.MatrixConfig, *domain.Frame)) *FrameDisplay {
	return &FrameDisplay{
		frame:   domain.NewFrame(domain.SenseHatSize, domain.SenseHatSize),
		applied: applied,
	}
}

// Apply draws the config onto the frame.
func (d *FrameDisplay) Apply(config domain.MatrixConfig) error {
	d.mu.Lock()
	d.frame.ApplyConfig(config)
	snapshot := d.frame.Clone()
	d.mu.Unlock()

	if d.applied != nil {
		d.applied(config, snapshot)
	}
	return nil
}

// Frame returns a copy of the current frame.
func (d *FrameDisplay) Frame() *domain.Frame {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frame.Clone()
}

var _ Display = (*FrameDisplay)(nil)
