package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSparseMatrixSetAndAt(t *testing.T) {
	m := make(SparseMatrix)
	m.Set(3, 5, DefaultColor)

	color, ok := m.At(3, 5)
	assert.True(t, ok)
	assert.True(t, color.Equals(DefaultColor))

	_, ok = m.At(5, 3)
	assert.False(t, ok)
}

func TestSparseMatrixSetBlackClears(t *testing.T) {
	m := make(SparseMatrix)
	m.Set(1, 1, DefaultColor)
	m.Set(1, 1, Black)

	_, ok := m.At(1, 1)
	assert.False(t, ok)
	assert.Equal(t, 0, m.PixelCount())
	assert.Empty(t, m, "empty rows must be pruned")
}

func TestSparseMatrixClearPrunesRow(t *testing.T) {
	m := make(SparseMatrix)
	m.Set(0, 2, DefaultColor)
	m.Set(1, 2, Gray)

	m.Clear(0, 2)
	assert.Equal(t, 1, m.PixelCount())
	require.Contains(t, m, 2)

	m.Clear(1, 2)
	assert.NotContains(t, m, 2)
}

func TestSparseMatrixNormalize(t *testing.T) {
	m := SparseMatrix{
		0: {0: DefaultColor, 1: Black},
		1: {0: Black},
	}
	normalized := m.Normalize()

	assert.Equal(t, 1, normalized.PixelCount())
	_, ok := normalized.At(0, 0)
	assert.True(t, ok)
	assert.NotContains(t, normalized, 1)
}

func TestSparseMatrixClone(t *testing.T) {
	m := make(SparseMatrix)
	m.Set(2, 2, DefaultColor)

	clone := m.Clone()
	clone.Set(2, 2, Gray)

	original, _ := m.At(2, 2)
	assert.True(t, original.Equals(DefaultColor))
}

func TestSparseMatrixEquals(t *testing.T) {
	a := SparseMatrix{0: {0: DefaultColor}}
	b := SparseMatrix{0: {0: DefaultColor}}
	c := SparseMatrix{0: {0: Gray}}

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
	assert.False(t, a.Equals(SparseMatrix{}))
}

func TestSparseMatrixJSONRoundTrip(t *testing.T) {
	m := make(SparseMatrix)
	m.Set(1, 0, DefaultColor)
	m.Set(7, 7, Gray)

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded SparseMatrix
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}

func TestNewMatrixConfig(t *testing.T) {
	config := NewMatrixConfig("starfield", 8, 8)

	assert.NotEmpty(t, config.ID)
	assert.Equal(t, "starfield", config.Name)
	assert.Equal(t, 8, config.Width)
	assert.Equal(t, 8, config.Height)
	assert.False(t, config.Created.IsZero())
	assert.NotNil(t, config.Matrix)
	assert.Equal(t, config.ID, config.EntityID())
}

func TestMatrixConfigCopy(t *testing.T) {
	config := NewMatrixConfig("heart", 8, 8)
	config.Matrix.Set(4, 4, DefaultColor)

	dup := config.Copy()

	assert.NotEqual(t, config.ID, dup.ID)
	assert.Equal(t, config.Name, dup.Name)
	assert.True(t, config.Matrix.Equals(dup.Matrix))

	// The copy owns its pixels.
	dup.Matrix.Set(0, 0, Gray)
	assert.Equal(t, 1, config.Matrix.PixelCount())
}

func TestMatrixConfigFill(t *testing.T) {
	config := NewMatrixConfig("wall", 4, 3)
	filled := config.Fill(DefaultColor)

	assert.Equal(t, 12, filled.Matrix.PixelCount())
	color, ok := filled.Matrix.At(3, 2)
	assert.True(t, ok)
	assert.True(t, color.Equals(DefaultColor))
}

func TestMatrixConfigFillBlackYieldsEmpty(t *testing.T) {
	config := NewMatrixConfig("void", 4, 4)
	filled := config.Fill(Black)
	assert.Equal(t, 0, filled.Matrix.PixelCount())
}

func TestMatrixConfigCleared(t *testing.T) {
	config := NewMatrixConfig("sketch", 8, 8).Fill(DefaultColor)
	cleared := config.Cleared()

	assert.Equal(t, 0, cleared.Matrix.PixelCount())
	assert.Equal(t, config.ID, cleared.ID)
}
