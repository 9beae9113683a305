package wcs

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompassNorthUpEastLeft(t *testing.T) {
	info, err := CompassInfo(testFrame(), 10, 10, 0.4)
	require.NoError(t, err)

	// north arm points straight up, within the meridian convergence of
	// an image center half a pixel off the reference pixel
	assert.InDelta(t, 0, info.DegN, 1e-4)
	assert.InDelta(t, info.X, info.XN, 1e-4)
	assert.Greater(t, info.YN, info.Y)

	// east arm points left, so the image is not flipped
	assert.Less(t, info.XE, info.X)
	assert.False(t, info.XFlip)
}

func TestCompassEastRightFlipped(t *testing.T) {
	cdelt := 0.11 / 3600
	f := NewTanFrame(4.5, 4.5, 150, 2.3, cdelt, cdelt, 0)

	info, err := CompassInfo(f, 10, 10, 0.4)
	require.NoError(t, err)
	assert.Greater(t, info.XE, info.X)
	assert.True(t, info.XFlip)
}

func TestCompassRotationAngle(t *testing.T) {
	a, err := Rotated(testFrame(), 10, 10, 0, true)
	require.NoError(t, err)
	b, err := Rotated(testFrame(), 10, 10, 30, true)
	require.NoError(t, err)

	infoA, err := CompassInfo(a, 10, 10, 0.4)
	require.NoError(t, err)
	infoB, err := CompassInfo(b, 10, 10, 0.4)
	require.NoError(t, err)

	diff := math.Abs(infoB.DegN - infoA.DegN)
	assert.InDelta(t, 30, diff, 0.1)
}

func TestCompassRequiresWCS(t *testing.T) {
	_, err := CompassInfo(NoneFrame{}, 10, 10, 0.4)
	assert.Error(t, err)
}
