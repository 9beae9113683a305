package wcs

import (
	"fmt"
	"math"
)

// Rotated builds a synthetic affine frame centered on the world
// coordinate at the middle of a base frame's pixel grid, with north
// rotated angleDeg counter-clockwise from +y and the plate scale of the
// base preserved. eastLeft selects the conventional east-left sky
// orientation; false mirrors the longitude axis.
//
// The result backs a named orientation entry: a dataset with an identity
// pixel grid whose only purpose is to define a reference frame.
func Rotated(base Frame, width, height, angleDeg float64, eastLeft bool) (*AffineFrame, error) {
	if !HasValidWCS(base) {
		return nil, fmt.Errorf("base data has no WCS for rotation")
	}
	cel := base.Celestial()

	cx := width * 0.5
	cy := height * 0.5
	lon, lat, ok := cel.PixelToWorld(cx, cy)
	if !ok {
		return nil, fmt.Errorf("base data has no WCS for rotation")
	}

	// plate scale measured numerically so general frames work too
	sx := angularStep(cel, cx, cy, 1, 0)
	sy := angularStep(cel, cx, cy, 0, 1)
	if sx == 0 || sy == 0 {
		return nil, fmt.Errorf("degenerate plate scale in base WCS")
	}

	cdeltX := sx
	if eastLeft {
		cdeltX = -sx
	}
	return NewTanFrame(cx, cy, lon, lat, cdeltX, sy, angleDeg), nil
}

// angularStep returns the angular separation in degrees produced by a
// one-pixel step (dx, dy) from (x, y).
func angularStep(f Frame, x, y, dx, dy float64) float64 {
	lon0, lat0, ok0 := f.PixelToWorld(x, y)
	lon1, lat1, ok1 := f.PixelToWorld(x+dx, y+dy)
	if !ok0 || !ok1 {
		return 0
	}
	return angularSeparation(lon0, lat0, lon1, lat1)
}

// angularSeparation computes the great-circle separation in degrees
// using the haversine formula.
func angularSeparation(lon0, lat0, lon1, lat1 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat1 - lat0) * rad
	dLon := (lon1 - lon0) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat0*rad)*math.Cos(lat1*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * math.Asin(math.Min(1, math.Sqrt(a))) / rad
}
