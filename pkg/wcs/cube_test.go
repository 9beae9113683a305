package wcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpectralAxisValue(t *testing.T) {
	ax := SpectralAxis{CRPix: 0, CRVal: 4.6e14, CDelt: 1e11, Unit: "Hz"}
	assert.InDelta(t, 4.6e14, ax.Value(0), 1)
	assert.InDelta(t, 4.6e14+5e11, ax.Value(5), 1)
}

func TestCubeDelegatesToSpatial(t *testing.T) {
	spatial := testFrame()
	cube := NewCubeFrame(spatial, SpectralAxis{CRVal: 4.6e14, CDelt: 1e11, Unit: "Hz"})

	require.True(t, cube.HasCelestial())

	wantLon, wantLat, _ := spatial.PixelToWorld(3, 3)
	gotLon, gotLat, ok := cube.PixelToWorld(3, 3)
	require.True(t, ok)
	assert.Equal(t, wantLon, gotLon)
	assert.Equal(t, wantLat, gotLat)
}

func TestCubeCelestialExtractsSpatial(t *testing.T) {
	spatial := testFrame()
	cube := NewCubeFrame(spatial, SpectralAxis{})

	cel := cube.Celestial()
	require.NotNil(t, cel)

	lon0, lat0, _ := spatial.PixelToWorld(1, 2)
	lon1, lat1, ok := cel.PixelToWorld(1, 2)
	require.True(t, ok)
	assert.Equal(t, lon0, lon1)
	assert.Equal(t, lat0, lat1)
}
