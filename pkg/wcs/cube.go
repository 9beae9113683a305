package wcs

import (
	"skyviz/pkg/geometry"
)

// SpectralAxis is a linear wavelength/frequency solution for the third
// axis of a data cube.
type SpectralAxis struct {
	CRPix float64 // reference plane index, 0-based
	CRVal float64 // reference spectral value
	CDelt float64 // spectral increment per plane
	Unit  string
}

// Value returns the spectral value at plane index k.
func (s SpectralAxis) Value(k float64) float64 {
	return s.CRVal + (k-s.CRPix)*s.CDelt
}

// CubeFrame is the coordinate solution of a 3D data cube: a 2D spatial
// frame plus a linear spectral axis. Pixel/world conversions address the
// spatial part; the spectral axis is exposed separately.
type CubeFrame struct {
	Spatial  Frame
	Spectral SpectralAxis
}

// NewCubeFrame combines a spatial frame and a spectral axis.
func NewCubeFrame(spatial Frame, spectral SpectralAxis) *CubeFrame {
	if spatial == nil {
		spatial = NoneFrame{}
	}
	return &CubeFrame{Spatial: spatial, Spectral: spectral}
}

// Kind returns the spatial sub-frame's kind.
func (f *CubeFrame) Kind() Kind { return f.Spatial.Kind() }

// PixelToWorld delegates to the spatial sub-frame.
func (f *CubeFrame) PixelToWorld(x, y float64) (float64, float64, bool) {
	return f.Spatial.PixelToWorld(x, y)
}

// WorldToPixel delegates to the spatial sub-frame.
func (f *CubeFrame) WorldToPixel(lon, lat float64) (float64, float64, bool) {
	return f.Spatial.WorldToPixel(lon, lat)
}

// Bounds delegates to the spatial sub-frame.
func (f *CubeFrame) Bounds() (geometry.Rect, bool) { return f.Spatial.Bounds() }

// HasCelestial delegates to the spatial sub-frame.
func (f *CubeFrame) HasCelestial() bool { return f.Spatial.HasCelestial() }

// Celestial extracts the 2D spatial sub-frame from the cube solution.
func (f *CubeFrame) Celestial() Frame {
	if !f.Spatial.HasCelestial() {
		return nil
	}
	return f.Spatial.Celestial()
}
