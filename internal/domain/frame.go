package domain

import (
	"fmt"
	"strings"
)

// BytesPerPixel is the number of bytes per pixel (RGB).
const BytesPerPixel = 3

// Frame is a dense pixel buffer, the device-side rendition of a sparse
// matrix. Pixels are laid out row-major as [r0,g0,b0, r1,g1,b1, ...].
type Frame struct {
	Width  int
	Height int
	Pixels []byte
}

// NewFrame creates a new frame filled with black.
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pixels: make([]byte, width*height*BytesPerPixel),
	}
}

// SetPixel sets a single pixel. Out of bounds coordinates are silently
// ignored, matching the device behavior of dropping off-panel writes.
func (f *Frame) SetPixel(x, y int, color RGB) {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return
	}
	offset := (y*f.Width + x) * BytesPerPixel
	f.Pixels[offset] = color.R
	f.Pixels[offset+1] = color.G
	f.Pixels[offset+2] = color.B
}

// GetPixel returns the color at the given coordinates, or nil if out of
// bounds.
func (f *Frame) GetPixel(x, y int) *RGB {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return nil
	}
	offset := (y*f.Width + x) * BytesPerPixel
	return &RGB{
		R: f.Pixels[offset],
		G: f.Pixels[offset+1],
		B: f.Pixels[offset+2],
	}
}

// Clear clears the frame to black.
func (f *Frame) Clear() {
	for i := range f.Pixels {
		f.Pixels[i] = 0
	}
}

// Clone creates a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	clone := &Frame{
		Width:  f.Width,
		Height: f.Height,
		Pixels: make([]byte, len(f.Pixels)),
	}
	copy(clone.Pixels, f.Pixels)
	return clone
}

// ASCII renders the frame as ASCII art with brightness shading.
func (f *Frame) ASCII() string {
	var b strings.Builder

	b.WriteString("  ┌")
	for x := 0; x < f.Width; x++ {
		b.WriteString("─")
	}
	b.WriteString("┐\n")

	for y := 0; y < f.Height; y++ {
		fmt.Fprintf(&b, "%2d│", y)
		for x := 0; x < f.Width; x++ {
			pixel := f.GetPixel(x, y)
			if pixel == nil {
				b.WriteString(" ")
				continue
			}

			brightness := (int(pixel.R) + int(pixel.G) + int(pixel.B)) / 3

			switch {
			case brightness > 200:
				b.WriteString("█")
			case brightness > 150:
				b.WriteString("▓")
			case brightness > 100:
				b.WriteString("▒")
			case brightness > 50:
				b.WriteString("░")
			case brightness > 10:
				b.WriteString("·")
			default:
				b.WriteString(" ")
			}
		}
		b.WriteString("│\n")
	}

	b.WriteString("  └")
	for x := 0; x < f.Width; x++ {
		b.WriteString("─")
	}
	b.WriteString("┘")
	return b.String()
}

// ApplyConfig clears the frame and draws the config's pixels onto it. This is
// exactly what the Pi does when it receives a pattern update.
func (f *Frame) ApplyConfig(config MatrixConfig) {
	f.Clear()
	for y, row := range config.Matrix {
		for x, color := range row {
			f.SetPixel(x, y, color)
		}
	}
}
