// Package wcs provides coordinate frame adapters: the mapping between a
// dataset's pixel grid and world (sky) coordinates. A frame is one of a
// closed set of kinds: no coordinate information, an affine tangent-plane
// solution, or a general (possibly nonlinear, possibly bounded) solution.
package wcs

import (
	"skyviz/pkg/geometry"
)

// Kind identifies the coordinate capability of a frame.
type Kind int

const (
	// KindNone marks a pixel-only frame with no world coordinates.
	KindNone Kind = iota
	// KindAffine marks an affine tangent-plane astrometric solution.
	KindAffine
	// KindGeneral marks a general astrometric solution that may be
	// nonlinear and may carry a validity bounding box.
	KindGeneral
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindAffine:
		return "affine"
	case KindGeneral:
		return "general"
	default:
		return "unknown"
	}
}

// Frame converts between pixel and world coordinates. World coordinates
// are ICRS longitude/latitude in degrees. Implementations must satisfy
// the round-trip invariant WorldToPixel(PixelToWorld(p)) == p within
// kind-specific tolerance for p inside the frame's bounds.
type Frame interface {
	// Kind returns the frame's capability tag.
	Kind() Kind

	// PixelToWorld converts a pixel coordinate to world degrees.
	// ok is false when the frame has no world coordinates or the
	// conversion is undefined at the given point.
	PixelToWorld(x, y float64) (lon, lat float64, ok bool)

	// WorldToPixel converts world degrees to a pixel coordinate.
	WorldToPixel(lon, lat float64) (x, y float64, ok bool)

	// Bounds returns the declared validity region in pixel space.
	// ok is false when the frame is unbounded.
	Bounds() (geometry.Rect, bool)

	// HasCelestial reports whether the frame carries usable world
	// coordinates.
	HasCelestial() bool

	// Celestial returns the 2D spatial sub-frame, or nil if absent.
	// For plain 2D frames this is the frame itself.
	Celestial() Frame
}

// HasValidWCS reports whether f carries usable celestial coordinates.
// A nil frame counts as no WCS.
func HasValidWCS(f Frame) bool {
	return f != nil && f.HasCelestial()
}

// OutOfBounds reports whether the pixel coordinate lies outside the
// frame's declared bounding box. Unbounded frames are never out of
// bounds.
func OutOfBounds(f Frame, x, y float64) bool {
	if f == nil {
		return false
	}
	b, ok := f.Bounds()
	if !ok {
		return false
	}
	return !b.Contains(geometry.Point2D{X: x, Y: y})
}

// NoneFrame is the pixel-only frame: no world coordinates, unbounded.
type NoneFrame struct{}

// Kind returns KindNone.
func (NoneFrame) Kind() Kind { return KindNone }

// PixelToWorld always fails on a NoneFrame.
func (NoneFrame) PixelToWorld(x, y float64) (float64, float64, bool) {
	return 0, 0, false
}

// WorldToPixel always fails on a NoneFrame.
func (NoneFrame) WorldToPixel(lon, lat float64) (float64, float64, bool) {
	return 0, 0, false
}

// Bounds reports unbounded.
func (NoneFrame) Bounds() (geometry.Rect, bool) { return geometry.Rect{}, false }

// HasCelestial reports false.
func (NoneFrame) HasCelestial() bool { return false }

// Celestial returns nil.
func (NoneFrame) Celestial() Frame { return nil }
