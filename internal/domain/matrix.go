package domain

import (
	"time"

	"github.com/google/uuid"
)

// SparseMatrix maps row index to column index to color. A missing entry means
// the pixel is unset and renders as the background color. The black sentinel
// is never stored: setting a pixel to black removes its entry, which keeps the
// persisted payload minimal.
type SparseMatrix map[int]map[int]RGB

// At returns the color at (x, y) and whether the pixel is set.
func (m SparseMatrix) At(x, y int) (RGB, bool) {
	row, ok := m[y]
	if !ok {
		return RGB{}, false
	}
	color, ok := row[x]
	return color, ok
}

// Set stores a color at (x, y). Black clears the pixel instead.
func (m SparseMatrix) Set(x, y int, color RGB) {
	if color.IsBlack() {
		m.Clear(x, y)
		return
	}
	row, ok := m[y]
	if !ok {
		row = make(map[int]RGB)
		m[y] = row
	}
	row[x] = color
}

// Clear removes the pixel at (x, y). Rows left empty are pruned.
func (m SparseMatrix) Clear(x, y int) {
	row, ok := m[y]
	if !ok {
		return
	}
	delete(row, x)
	if len(row) == 0 {
		delete(m, y)
	}
}

// PixelCount returns the number of set pixels.
func (m SparseMatrix) PixelCount() int {
	count := 0
	for _, row := range m {
		count += len(row)
	}
	return count
}

// Clone creates a deep copy of the matrix.
func (m SparseMatrix) Clone() SparseMatrix {
	clone := make(SparseMatrix, len(m))
	for y, row := range m {
		cloneRow := make(map[int]RGB, len(row))
		for x, color := range row {
			cloneRow[x] = color
		}
		clone[y] = cloneRow
	}
	return clone
}

// Normalize drops black entries and empty rows. Pasted documents may carry
// explicit black triples; stored matrices never do.
func (m SparseMatrix) Normalize() SparseMatrix {
	normalized := make(SparseMatrix)
	for y, row := range m {
		for x, color := range row {
			if !color.IsBlack() {
				normalized.Set(x, y, color)
			}
		}
	}
	return normalized
}

// Equals compares two matrices pixel by pixel.
func (m SparseMatrix) Equals(other SparseMatrix) bool {
	if m.PixelCount() != other.PixelCount() {
		return false
	}
	for y, row := range m {
		for x, color := range row {
			otherColor, ok := other.At(x, y)
			if !ok || !color.Equals(otherColor) {
				return false
			}
		}
	}
	return true
}

// MatrixConfig is a named pixel pattern for the LED matrix.
type MatrixConfig struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Created time.Time    `json:"created"`
	Height  int          `json:"height"`
	Width   int          `json:"width"`
	Matrix  SparseMatrix `json:"matrix"`
}

// SenseHatSize is the Sense HAT LED matrix edge length.
const SenseHatSize = 8

// NewMatrixConfig creates an empty matrix with a fresh id.
func NewMatrixConfig(name string, width, height int) MatrixConfig {
	return MatrixConfig{
		ID:      uuid.NewString(),
		Name:    name,
		Created: time.Now(),
		Height:  height,
		Width:   width,
		Matrix:  make(SparseMatrix),
	}
}

// EntityID implements storage.Entity.
func (c MatrixConfig) EntityID() string {
	return c.ID
}

// Copy duplicates the config under a fresh id and creation timestamp.
func (c MatrixConfig) Copy() MatrixConfig {
	dup := c
	dup.ID = uuid.NewString()
	dup.Created = time.Now()
	dup.Matrix = c.Matrix.Clone()
	return dup
}

// Fill sets every pixel inside the configured bounds to the given color.
func (c MatrixConfig) Fill(color RGB) MatrixConfig {
	filled := c
	filled.Matrix = make(SparseMatrix)
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			filled.Matrix.Set(x, y, color)
		}
	}
	return filled
}

// Cleared returns the config with all pixels unset.
func (c MatrixConfig) Cleared() MatrixConfig {
	cleared := c
	cleared.Matrix = make(SparseMatrix)
	return cleared
}
