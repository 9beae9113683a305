package annotate

import (
	"math"

	"skyviz/pkg/geometry"
)

// Region is a closed area defined in the pixel grid of its parent
// dataset.
type Region interface {
	// Kind names the shape.
	Kind() string
	// Center returns the region's reference point.
	Center() geometry.Point2D
	// Contains reports whether the pixel position lies inside.
	Contains(p geometry.Point2D) bool
}

// Circle is a circular region.
type Circle struct {
	CX, CY float64
	R      float64
}

func (c Circle) Kind() string             { return "circle" }
func (c Circle) Center() geometry.Point2D { return geometry.Point2D{X: c.CX, Y: c.CY} }

func (c Circle) Contains(p geometry.Point2D) bool {
	dx, dy := p.X-c.CX, p.Y-c.CY
	return dx*dx+dy*dy <= c.R*c.R
}

// Ellipse is an elliptical region with semi-axes RX and RY, rotated by
// Theta radians counter-clockwise.
type Ellipse struct {
	CX, CY float64
	RX, RY float64
	Theta  float64
}

func (e Ellipse) Kind() string             { return "ellipse" }
func (e Ellipse) Center() geometry.Point2D { return geometry.Point2D{X: e.CX, Y: e.CY} }

func (e Ellipse) Contains(p geometry.Point2D) bool {
	cos, sin := math.Cos(e.Theta), math.Sin(e.Theta)
	dx, dy := p.X-e.CX, p.Y-e.CY
	u := cos*dx + sin*dy
	v := -sin*dx + cos*dy
	if e.RX == 0 || e.RY == 0 {
		return false
	}
	return (u*u)/(e.RX*e.RX)+(v*v)/(e.RY*e.RY) <= 1
}

// Rectangle is an axis-aligned rectangular region.
type Rectangle struct {
	Rect geometry.Rect
}

func (r Rectangle) Kind() string             { return "rectangle" }
func (r Rectangle) Center() geometry.Point2D { return r.Rect.Center() }

func (r Rectangle) Contains(p geometry.Point2D) bool {
	return r.Rect.Contains(p)
}

// Polygon is an arbitrary closed polygon.
type Polygon struct {
	Points []geometry.Point2D
}

func (pg Polygon) Kind() string { return "polygon" }

func (pg Polygon) Center() geometry.Point2D {
	return geometry.Centroid(pg.Points)
}

func (pg Polygon) Contains(p geometry.Point2D) bool {
	return geometry.PointInPolygon(p, pg.Points)
}

// Subset is a named region tied to a parent dataset. Its geometry is
// expressed in the parent's pixel grid. Stale marks a subset whose
// last reprojection could not carry the shape over exactly.
type Subset struct {
	Label  string
	Parent string
	Region Region
	Stale  bool
}
