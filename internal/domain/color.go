// Package domain contains core domain types for the color picker system.
package domain

import (
	"encoding/json"
	"fmt"
)

// RGB represents an RGB color with 8-bit channels. On the wire and in
// persisted documents it is a three-element JSON array [r, g, b], matching
// the pattern files the Pi consumes.
type RGB struct {
	R, G, B uint8
}

// Well-known palette colors.
var (
	Black        = RGB{0, 0, 0}
	DefaultColor = RGB{80, 150, 180}
	LightGray    = RGB{200, 200, 200}
	Gray         = RGB{100, 100, 100}
)

// NewRGB creates a new RGB color.
func NewRGB(r, g, b uint8) RGB {
	return RGB{R: r, G: g, B: b}
}

// Equals checks if two RGB colors are equal.
func (c RGB) Equals(other RGB) bool {
	return c.R == other.R && c.G == other.G && c.B == other.B
}

// IsBlack reports whether the color equals the black background sentinel.
func (c RGB) IsBlack() bool {
	return c.Equals(Black)
}

// String returns a string representation of the RGB color.
func (c RGB) String() string {
	return fmt.Sprintf("RGB(%d, %d, %d)", c.R, c.G, c.B)
}

// MarshalJSON encodes the color as [r, g, b].
func (c RGB) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]uint8{c.R, c.G, c.B})
}

// UnmarshalJSON decodes a [r, g, b] array.
func (c *RGB) UnmarshalJSON(data []byte) error {
	var triple []uint8
	if err := json.Unmarshal(data, &triple); err != nil {
		return fmt.Errorf("invalid color triple: %w", err)
	}
	if len(triple) != 3 {
		return fmt.Errorf("invalid color triple: expected 3 channels, got %d", len(triple))
	}
	c.R, c.G, c.B = triple[0], triple[1], triple[2]
	return nil
}
