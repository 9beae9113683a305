package wcs

import (
	"fmt"
	"math"
)

// Compass describes the on-sky orientation of a frame: the pixel
// positions of compass arms pointing north and east from the image
// center, the rotation angles of those arms, and whether the image has
// east on the right (a flipped, right-handed sky).
type Compass struct {
	X, Y   float64 // compass center, pixels
	XN, YN float64 // tip of the north arm
	XE, YE float64 // tip of the east arm
	DegN   float64 // rotation of north from +y, degrees
	DegE   float64 // rotation of east after removing DegN, degrees
	XFlip  bool    // true when east points right
}

// rotatePoint rotates (x, y) counter-clockwise by thetaDeg around
// (xoff, yoff).
func rotatePoint(x, y, thetaDeg, xoff, yoff float64) (float64, float64) {
	a := x - xoff
	b := y - yoff
	sin, cos := math.Sincos(thetaDeg * math.Pi / 180)
	return a*cos - b*sin + xoff, a*sin + b*cos + yoff
}

// addOffsetLonLat computes the world coordinate reached from a base
// position by tangent-plane offsets in degrees.
func addOffsetLonLat(lonDeg, latDeg, dLonDeg, dLatDeg float64) (float64, float64) {
	x := dLonDeg * math.Pi / 180
	y := dLatDeg * math.Pi / 180
	lon0 := lonDeg * math.Pi / 180
	lat0 := latDeg * math.Pi / 180

	sinLat0, cosLat0 := math.Sincos(lat0)
	d := cosLat0 - y*sinLat0

	lon := math.Atan2(x, d) + lon0
	lat := math.Atan2(sinLat0+y*cosLat0, math.Hypot(x, d))

	return normalizeLon(lon * 180 / math.Pi), lat * 180 / math.Pi
}

// addOffsetXY converts pixel (x, y) to world, applies tangent-plane
// offsets, and converts back to pixels.
func addOffsetXY(f Frame, x, y, dDegX, dDegY float64) (float64, float64, bool) {
	lon, lat, ok := f.PixelToWorld(x, y)
	if !ok {
		return 0, 0, false
	}
	lon2, lat2 := addOffsetLonLat(lon, lat, dDegX, dDegY)
	return f.WorldToPixel(lon2, lat2)
}

// CompassInfo computes the sky orientation of a frame over an image of
// the given pixel dimensions. rFac scales the compass arm length
// relative to the shorter image side.
func CompassInfo(f Frame, width, height float64, rFac float64) (Compass, error) {
	if !HasValidWCS(f) {
		return Compass{}, fmt.Errorf("frame has no valid WCS for compass")
	}
	cel := f.Celestial()

	x := width * 0.5
	y := height * 0.5
	radiusPx := math.Min(width, height) * rFac

	// pixels per degree along each sky axis, from unit offsets
	xe, ye, ok1 := addOffsetXY(cel, x, y, 1, 0)
	xn, yn, ok2 := addOffsetXY(cel, x, y, 0, 1)
	if !ok1 || !ok2 {
		return Compass{}, fmt.Errorf("compass offsets not invertible at image center")
	}
	pxPerDegE := math.Hypot(xe-x, ye-y)
	pxPerDegN := math.Hypot(xn-x, yn-y)
	if pxPerDegE == 0 || pxPerDegN == 0 {
		return Compass{}, fmt.Errorf("degenerate plate scale at image center")
	}

	lenDegE := radiusPx / pxPerDegE
	lenDegN := radiusPx / pxPerDegN

	xe, ye, ok1 = addOffsetXY(cel, x, y, lenDegE, 0)
	xn, yn, ok2 = addOffsetXY(cel, x, y, 0, lenDegN)
	if !ok1 || !ok2 {
		return Compass{}, fmt.Errorf("compass offsets not invertible at image center")
	}

	degN := math.Atan2(xn-x, yn-y) * 180 / math.Pi

	// rotate the east tip by degN, then measure its residual angle
	xe2, ye2 := rotatePoint(xe, ye, degN, x, y)
	degE := math.Atan2(xe2-x, ye2-y) * 180 / math.Pi

	// a right-handed image has east clockwise from north
	xflip := degE > 0
	if xflip && math.Abs(degN) > 1e-9 {
		degN = -degN
	}

	return Compass{
		X: x, Y: y,
		XN: xn, YN: yn,
		XE: xe, YE: ye,
		DegN: degN, DegE: degE,
		XFlip: xflip,
	}, nil
}
