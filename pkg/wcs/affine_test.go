package wcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// test field centered near 337.52, -20.83 at ~0.11 arcsec/px
func testFrame() *AffineFrame {
	cdelt := 0.11 / 3600
	return NewTanFrame(4.5, 4.5, 337.5202808, -20.833333059999998, -cdelt, cdelt, 0)
}

func TestPixelToWorldAtReference(t *testing.T) {
	f := NewTanFrame(0, 0, 337.5202808, -20.833333059999998, -3e-5, 3e-5, 0)

	lon, lat, ok := f.PixelToWorld(0, 0)
	require.True(t, ok)
	assert.InDelta(t, 337.5202808, lon, 1e-12)
	assert.InDelta(t, -20.833333059999998, lat, 1e-12)
}

func TestRoundTrip(t *testing.T) {
	f := testFrame()
	for _, p := range [][2]float64{{0, 0}, {4.5, 4.5}, {9, 3}, {-20, 50}} {
		lon, lat, ok := f.PixelToWorld(p[0], p[1])
		require.True(t, ok)
		x, y, ok := f.WorldToPixel(lon, lat)
		require.True(t, ok)
		assert.InDelta(t, p[0], x, 1e-8)
		assert.InDelta(t, p[1], y, 1e-8)
	}
}

func TestEastLeftOrientation(t *testing.T) {
	f := testFrame()

	// stepping right in pixels moves west on the sky when east is left
	lon0, _, _ := f.PixelToWorld(4.5, 4.5)
	lon1, _, _ := f.PixelToWorld(5.5, 4.5)
	assert.Less(t, lon1, lon0)

	// stepping up moves north
	_, lat0, _ := f.PixelToWorld(4.5, 4.5)
	_, lat1, _ := f.PixelToWorld(4.5, 5.5)
	assert.Greater(t, lat1, lat0)
}

func TestFarHemisphereFails(t *testing.T) {
	f := testFrame()
	_, _, ok := f.WorldToPixel(337.5202808-180, 20.8)
	assert.False(t, ok)
}

func TestDegenerateCDMatrix(t *testing.T) {
	f := NewAffineFrame(0, 0, 10, 10, [2][2]float64{})
	assert.False(t, f.HasCelestial())
	assert.Nil(t, f.Celestial())

	_, _, ok := f.PixelToWorld(0, 0)
	assert.False(t, ok)
}

func TestPlateScales(t *testing.T) {
	cdelt := 0.11 / 3600
	f := NewTanFrame(4.5, 4.5, 10, 10, -cdelt, cdelt, 30)
	sx, sy := f.PlateScales()
	assert.InDelta(t, cdelt, sx, 1e-15)
	assert.InDelta(t, cdelt, sy, 1e-15)
}

func TestHasValidWCS(t *testing.T) {
	assert.True(t, HasValidWCS(testFrame()))
	assert.False(t, HasValidWCS(NoneFrame{}))
	assert.False(t, HasValidWCS(nil))
}
