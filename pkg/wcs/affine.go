package wcs

import (
	"math"

	"skyviz/pkg/geometry"
)

// AffineFrame is a tangent-plane (gnomonic) astrometric solution built
// from FITS-style keywords: a reference pixel, a reference world
// coordinate and a CD matrix in degrees per pixel. It is unbounded.
type AffineFrame struct {
	CRPixX, CRPixY float64       // reference pixel, 0-based
	CRValLon       float64       // reference longitude [deg]
	CRValLat       float64       // reference latitude [deg]
	CD             [2][2]float64 // degrees per pixel
	cdInv          [2][2]float64
	invalid        bool
}

// NewAffineFrame creates a frame from an explicit CD matrix.
func NewAffineFrame(crpixX, crpixY, crvalLon, crvalLat float64, cd [2][2]float64) *AffineFrame {
	f := &AffineFrame{
		CRPixX:   crpixX,
		CRPixY:   crpixY,
		CRValLon: normalizeLon(crvalLon),
		CRValLat: crvalLat,
		CD:       cd,
	}
	det := cd[0][0]*cd[1][1] - cd[0][1]*cd[1][0]
	if math.Abs(det) < 1e-30 {
		f.invalid = true
		return f
	}
	f.cdInv = [2][2]float64{
		{cd[1][1] / det, -cd[0][1] / det},
		{-cd[1][0] / det, cd[0][0] / det},
	}
	return f
}

// NewTanFrame creates a frame from per-axis scales and a rotation. The
// rotation is counter-clockwise in degrees; a negative cdeltX gives the
// conventional east-left sky orientation.
func NewTanFrame(crpixX, crpixY, crvalLon, crvalLat, cdeltX, cdeltY, rotDeg float64) *AffineFrame {
	cos := math.Cos(rotDeg * math.Pi / 180)
	sin := math.Sin(rotDeg * math.Pi / 180)
	cd := [2][2]float64{
		{cos * cdeltX, -sin * cdeltY},
		{sin * cdeltX, cos * cdeltY},
	}
	return NewAffineFrame(crpixX, crpixY, crvalLon, crvalLat, cd)
}

// Kind returns KindAffine.
func (f *AffineFrame) Kind() Kind { return KindAffine }

// HasCelestial reports whether the CD matrix is invertible.
func (f *AffineFrame) HasCelestial() bool { return !f.invalid }

// Celestial returns the frame itself.
func (f *AffineFrame) Celestial() Frame {
	if f.invalid {
		return nil
	}
	return f
}

// Bounds reports unbounded: affine solutions extrapolate freely.
func (f *AffineFrame) Bounds() (geometry.Rect, bool) { return geometry.Rect{}, false }

// PixelToWorld converts a pixel coordinate through the CD matrix and
// the inverse gnomonic projection about the reference coordinate.
func (f *AffineFrame) PixelToWorld(x, y float64) (float64, float64, bool) {
	if f.invalid {
		return 0, 0, false
	}
	u := x - f.CRPixX
	v := y - f.CRPixY
	xi := (f.CD[0][0]*u + f.CD[0][1]*v) * math.Pi / 180
	eta := (f.CD[1][0]*u + f.CD[1][1]*v) * math.Pi / 180

	lon0 := f.CRValLon * math.Pi / 180
	lat0 := f.CRValLat * math.Pi / 180
	sinLat0, cosLat0 := math.Sincos(lat0)

	denom := cosLat0 - eta*sinLat0
	lon := lon0 + math.Atan2(xi, denom)
	lat := math.Atan2(sinLat0+eta*cosLat0, math.Hypot(xi, denom))

	return normalizeLon(lon * 180 / math.Pi), lat * 180 / math.Pi, true
}

// WorldToPixel converts world degrees back to a pixel coordinate via the
// forward gnomonic projection and the inverse CD matrix. Points on the
// far hemisphere have no projection and fail.
func (f *AffineFrame) WorldToPixel(lon, lat float64) (float64, float64, bool) {
	if f.invalid {
		return 0, 0, false
	}
	lonR := lon * math.Pi / 180
	latR := lat * math.Pi / 180
	lon0 := f.CRValLon * math.Pi / 180
	lat0 := f.CRValLat * math.Pi / 180

	sinLat, cosLat := math.Sincos(latR)
	sinLat0, cosLat0 := math.Sincos(lat0)
	cosDLon := math.Cos(lonR - lon0)
	sinDLon := math.Sin(lonR - lon0)

	denom := sinLat0*sinLat + cosLat0*cosLat*cosDLon
	if denom <= 1e-12 {
		// behind the tangent plane
		return 0, 0, false
	}

	xi := cosLat * sinDLon / denom * 180 / math.Pi
	eta := (cosLat0*sinLat - sinLat0*cosLat*cosDLon) / denom * 180 / math.Pi

	u := f.cdInv[0][0]*xi + f.cdInv[0][1]*eta
	v := f.cdInv[1][0]*xi + f.cdInv[1][1]*eta
	return u + f.CRPixX, v + f.CRPixY, true
}

// PlateScales returns the absolute per-axis scales in degrees per pixel.
func (f *AffineFrame) PlateScales() (sx, sy float64) {
	sx = math.Hypot(f.CD[0][0], f.CD[1][0])
	sy = math.Hypot(f.CD[0][1], f.CD[1][1])
	return sx, sy
}

// normalizeLon wraps a longitude into [0, 360).
func normalizeLon(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
