// Package link builds and holds the transforms that relate every
// dataset in the collection to a common reference, either through raw
// pixel indices or through celestial coordinates.
package link

import (
	"fmt"

	"skyviz/pkg/geometry"
	"skyviz/pkg/wcs"
)

// Type classifies the transform carried by a link.
type Type int

const (
	// Self links a dataset to itself.
	Self Type = iota
	// PixelIdentity maps pixel indices straight across.
	PixelIdentity
	// Affine is a fitted linear map between pixel grids.
	Affine
	// Offset is an affine link whose linear part is the identity.
	Offset
	// General routes through the full coordinate frames when no affine
	// approximation is accurate enough.
	General
)

func (t Type) String() string {
	switch t {
	case Self:
		return "self"
	case PixelIdentity:
		return "pixel-identity"
	case Affine:
		return "affine"
	case Offset:
		return "offset"
	case General:
		return "general"
	default:
		return "unknown"
	}
}

// Scheme selects how datasets are related.
type Scheme string

const (
	// SchemePixels aligns datasets by raw pixel indices.
	SchemePixels Scheme = "pixels"
	// SchemeWCS aligns datasets by celestial coordinates.
	SchemeWCS Scheme = "wcs"
)

// Transform maps pixel coordinates of one dataset onto another. ok is
// false where the map is undefined.
type Transform interface {
	Forward(x, y float64) (tx, ty float64, ok bool)
	Inverse(x, y float64) (tx, ty float64, ok bool)
}

// Identity is the trivial transform.
type Identity struct{}

func (Identity) Forward(x, y float64) (float64, float64, bool) { return x, y, true }
func (Identity) Inverse(x, y float64) (float64, float64, bool) { return x, y, true }

// AffineMap is a linear pixel-to-pixel transform with a precomputed
// inverse.
type AffineMap struct {
	Fwd geometry.AffineTransform
	Inv geometry.AffineTransform
}

// NewAffineMap wraps a forward transform, inverting it once. It fails
// on a degenerate transform.
func NewAffineMap(fwd geometry.AffineTransform) (*AffineMap, error) {
	inv, ok := fwd.Inverse()
	if !ok {
		return nil, fmt.Errorf("transform is not invertible")
	}
	return &AffineMap{Fwd: fwd, Inv: inv}, nil
}

func (m *AffineMap) Forward(x, y float64) (float64, float64, bool) {
	p := m.Fwd.Apply(geometry.Point2D{X: x, Y: y})
	return p.X, p.Y, true
}

func (m *AffineMap) Inverse(x, y float64) (float64, float64, bool) {
	p := m.Inv.Apply(geometry.Point2D{X: x, Y: y})
	return p.X, p.Y, true
}

// FrameMap routes pixels through the celestial frames on both ends.
// Used when an affine fit cannot represent the relation accurately.
type FrameMap struct {
	From wcs.Frame
	To   wcs.Frame
}

func (m *FrameMap) Forward(x, y float64) (float64, float64, bool) {
	lon, lat, ok := m.From.PixelToWorld(x, y)
	if !ok {
		return 0, 0, false
	}
	return m.To.WorldToPixel(lon, lat)
}

func (m *FrameMap) Inverse(x, y float64) (float64, float64, bool) {
	lon, lat, ok := m.To.PixelToWorld(x, y)
	if !ok {
		return 0, 0, false
	}
	return m.From.WorldToPixel(lon, lat)
}

// Link relates one dataset's pixel grid to the reference's.
type Link struct {
	From      string
	To        string
	Type      Type
	Transform Transform

	// MaxResidual is the worst-case pixel error of an affine fit over
	// the sampled grid. Zero for identity and frame-routed links.
	MaxResidual float64
}
