package wcs

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotatedPreservesCenter(t *testing.T) {
	base := testFrame()
	rot, err := Rotated(base, 10, 10, 30, true)
	require.NoError(t, err)

	wantLon, wantLat, _ := base.PixelToWorld(5, 5)
	gotLon, gotLat, ok := rot.PixelToWorld(5, 5)
	require.True(t, ok)
	assert.InDelta(t, wantLon, gotLon, 1e-9)
	assert.InDelta(t, wantLat, gotLat, 1e-9)
}

func TestRotatedPreservesPlateScale(t *testing.T) {
	base := testFrame()
	rot, err := Rotated(base, 10, 10, 45, true)
	require.NoError(t, err)

	bx, by := base.PlateScales()
	rx, ry := rot.PlateScales()
	assert.InDelta(t, bx, rx, bx*1e-4)
	assert.InDelta(t, by, ry, by*1e-4)
}

func TestRotatedZeroAngleIsNorthUp(t *testing.T) {
	rot, err := Rotated(testFrame(), 10, 10, 0, true)
	require.NoError(t, err)

	// north-up: stepping up in pixels increases latitude and leaves
	// longitude nearly unchanged
	lon0, lat0, _ := rot.PixelToWorld(5, 5)
	lon1, lat1, _ := rot.PixelToWorld(5, 6)
	assert.Greater(t, lat1, lat0)
	assert.InDelta(t, lon0, lon1, 1e-7)
}

func TestRotatedEastSense(t *testing.T) {
	left, err := Rotated(testFrame(), 10, 10, 0, true)
	require.NoError(t, err)
	right, err := Rotated(testFrame(), 10, 10, 0, false)
	require.NoError(t, err)

	lonL0, _, _ := left.PixelToWorld(5, 5)
	lonL1, _, _ := left.PixelToWorld(6, 5)
	lonR0, _, _ := right.PixelToWorld(5, 5)
	lonR1, _, _ := right.PixelToWorld(6, 5)

	// east-left: +x goes west; east-right: +x goes east
	assert.Less(t, lonL1, lonL0)
	assert.Greater(t, lonR1, lonR0)
}

func TestRotatedAngleBetweenFrames(t *testing.T) {
	a, err := Rotated(testFrame(), 10, 10, 0, true)
	require.NoError(t, err)
	b, err := Rotated(testFrame(), 10, 10, 30, true)
	require.NoError(t, err)

	// the same one-pixel sky step lands rotated by 30 degrees
	lon, lat, _ := a.PixelToWorld(5, 6)
	bx, by, ok := b.WorldToPixel(lon, lat)
	require.True(t, ok)

	angle := math.Atan2(bx-5, by-5) * 180 / math.Pi
	assert.InDelta(t, 30, math.Abs(angle), 0.1)
}

func TestRotatedRequiresWCS(t *testing.T) {
	_, err := Rotated(NoneFrame{}, 10, 10, 0, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no WCS for rotation")
}
