package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRGB(t *testing.T) {
	rgb := NewRGB(255, 128, 64)
	assert.Equal(t, uint8(255), rgb.R)
	assert.Equal(t, uint8(128), rgb.G)
	assert.Equal(t, uint8(64), rgb.B)
}

func TestRGBEquals(t *testing.T) {
	rgb1 := NewRGB(100, 150, 200)
	rgb2 := NewRGB(100, 150, 200)
	rgb3 := NewRGB(100, 150, 201)

	assert.True(t, rgb1.Equals(rgb2))
	assert.False(t, rgb1.Equals(rgb3))
}

func TestRGBIsBlack(t *testing.T) {
	assert.True(t, Black.IsBlack())
	assert.True(t, NewRGB(0, 0, 0).IsBlack())
	assert.False(t, NewRGB(0, 0, 1).IsBlack())
	assert.False(t, DefaultColor.IsBlack())
}

func TestRGBString(t *testing.T) {
	rgb := NewRGB(255, 128, 64)
	assert.Equal(t, "RGB(255, 128, 64)", rgb.String())
}

func TestRGBMarshalJSON(t *testing.T) {
	data, err := json.Marshal(NewRGB(80, 150, 180))
	require.NoError(t, err)
	assert.JSONEq(t, "[80,150,180]", string(data))
}

func TestRGBUnmarshalJSON(t *testing.T) {
	var rgb RGB
	require.NoError(t, json.Unmarshal([]byte("[80, 150, 180]"), &rgb))
	assert.True(t, rgb.Equals(DefaultColor))
}

func TestRGBUnmarshalJSONInvalid(t *testing.T) {
	var rgb RGB
	assert.Error(t, json.Unmarshal([]byte(`"blue"`), &rgb))
	assert.Error(t, json.Unmarshal([]byte(`[1, 2]`), &rgb))
}
