package wcs

import (
	"math"

	"skyviz/pkg/geometry"
)

// GeneralFrame is a generalized astrometric solution: an affine
// tangent-plane core composed with a radial pixel-space distortion, plus
// a declared validity bounding box. Conversions outside the box still
// produce numbers (extrapolation) — callers must treat them as
// unreliable, because nonlinear models are untrustworthy outside their
// fit domain.
type GeneralFrame struct {
	core      *AffineFrame
	k         float64 // radial distortion coefficient, per squared pixel
	bounds    geometry.Rect
	hasBounds bool
}

// NewGeneralFrame wraps an affine core with a radial distortion of
// strength k about the core's reference pixel. k=0 gives a bounded but
// otherwise affine solution.
func NewGeneralFrame(core *AffineFrame, k float64, bounds geometry.Rect) *GeneralFrame {
	return &GeneralFrame{core: core, k: k, bounds: bounds, hasBounds: true}
}

// NewUnboundedGeneralFrame wraps an affine core without a declared
// validity region.
func NewUnboundedGeneralFrame(core *AffineFrame, k float64) *GeneralFrame {
	return &GeneralFrame{core: core, k: k}
}

// Kind returns KindGeneral.
func (f *GeneralFrame) Kind() Kind { return KindGeneral }

// HasCelestial reports whether the affine core is usable.
func (f *GeneralFrame) HasCelestial() bool { return f.core != nil && f.core.HasCelestial() }

// Celestial returns the frame itself when usable.
func (f *GeneralFrame) Celestial() Frame {
	if !f.HasCelestial() {
		return nil
	}
	return f
}

// Bounds returns the declared validity region, if any.
func (f *GeneralFrame) Bounds() (geometry.Rect, bool) { return f.bounds, f.hasBounds }

// distort applies the forward radial model to a pixel coordinate.
func (f *GeneralFrame) distort(x, y float64) (float64, float64) {
	dx := x - f.core.CRPixX
	dy := y - f.core.CRPixY
	r2 := dx*dx + dy*dy
	return x + f.k*r2*dx, y + f.k*r2*dy
}

// PixelToWorld applies the distortion model then the affine core.
func (f *GeneralFrame) PixelToWorld(x, y float64) (float64, float64, bool) {
	if !f.HasCelestial() {
		return 0, 0, false
	}
	cx, cy := f.distort(x, y)
	return f.core.PixelToWorld(cx, cy)
}

// WorldToPixel inverts the affine core then the distortion model by
// fixed-point iteration.
func (f *GeneralFrame) WorldToPixel(lon, lat float64) (float64, float64, bool) {
	if !f.HasCelestial() {
		return 0, 0, false
	}
	cx, cy, ok := f.core.WorldToPixel(lon, lat)
	if !ok {
		return 0, 0, false
	}
	if f.k == 0 {
		return cx, cy, true
	}

	// p such that distort(p) == (cx, cy); converges for mild distortion
	x, y := cx, cy
	for i := 0; i < 30; i++ {
		dx, dy := f.distort(x, y)
		nx := x - (dx - cx)
		ny := y - (dy - cy)
		if math.Abs(nx-x) < 1e-10 && math.Abs(ny-y) < 1e-10 {
			return nx, ny, true
		}
		x, y = nx, ny
	}
	return x, y, true
}
