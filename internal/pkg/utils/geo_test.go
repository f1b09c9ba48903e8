package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCoordinates(t *testing.T) {
	lat, lon, ok := ParseCoordinates("22.345415", "114.192640")
	assert.True(t, ok)
	assert.InDelta(t, 22.345415, lat, 1e-9)
	assert.InDelta(t, 114.192640, lon, 1e-9)

	_, _, ok = ParseCoordinates("", "114.1")
	assert.False(t, ok)

	_, _, ok = ParseCoordinates("abc", "114.1")
	assert.False(t, ok)

	_, _, ok = ParseCoordinates("95", "114.1")
	assert.False(t, ok)
}
