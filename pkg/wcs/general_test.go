package wcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skyviz/pkg/geometry"
)

func testGeneralFrame(k float64) *GeneralFrame {
	return NewGeneralFrame(testFrame(), k, geometry.NewRect(-0.5, -0.5, 10, 10))
}

func TestGeneralRoundTripWithDistortion(t *testing.T) {
	f := testGeneralFrame(1e-6)

	for _, p := range [][2]float64{{0, 0}, {4.5, 4.5}, {9, 9}, {2, 7}} {
		lon, lat, ok := f.PixelToWorld(p[0], p[1])
		require.True(t, ok)
		x, y, ok := f.WorldToPixel(lon, lat)
		require.True(t, ok)
		assert.InDelta(t, p[0], x, 1e-8)
		assert.InDelta(t, p[1], y, 1e-8)
	}
}

func TestGeneralZeroDistortionMatchesCore(t *testing.T) {
	core := testFrame()
	f := NewUnboundedGeneralFrame(core, 0)

	lon0, lat0, _ := core.PixelToWorld(3, 8)
	lon1, lat1, ok := f.PixelToWorld(3, 8)
	require.True(t, ok)
	assert.InDelta(t, lon0, lon1, 1e-15)
	assert.InDelta(t, lat0, lat1, 1e-15)
}

func TestGeneralExtrapolatesOutsideBounds(t *testing.T) {
	f := testGeneralFrame(1e-6)

	// conversions outside the box still produce numbers
	_, _, ok := f.PixelToWorld(50, 50)
	assert.True(t, ok)

	// flagging is the caller's job
	assert.True(t, OutOfBounds(f, 50, 50))
	assert.False(t, OutOfBounds(f, 5, 5))
}

func TestOutOfBoundsUnboundedFrame(t *testing.T) {
	assert.False(t, OutOfBounds(testFrame(), 1e6, 1e6))
	assert.False(t, OutOfBounds(nil, 0, 0))
}

func TestGeneralWithoutCore(t *testing.T) {
	f := NewUnboundedGeneralFrame(nil, 0)
	assert.False(t, f.HasCelestial())
	_, _, ok := f.PixelToWorld(0, 0)
	assert.False(t, ok)
}
