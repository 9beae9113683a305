package annotate

import (
	"fmt"
	"math"

	"skyviz/pkg/geometry"
)

// PixelMap maps a pixel position in one dataset's grid to another's.
// ok is false where the map is undefined.
type PixelMap func(x, y float64) (float64, float64, bool)

// linearizeStep is the pixel offset used to probe the local derivative
// of a pixel map.
const linearizeStep = 1e-3

// linearize approximates the map around (x, y) by a 2x2 Jacobian using
// central differences.
func linearize(f PixelMap, x, y float64) (j [2][2]float64, ok bool) {
	xp, yp, ok1 := f(x+linearizeStep, y)
	xm, ym, ok2 := f(x-linearizeStep, y)
	xq, yq, ok3 := f(x, y+linearizeStep)
	xr, yr, ok4 := f(x, y-linearizeStep)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return j, false
	}
	inv := 1 / (2 * linearizeStep)
	j[0][0] = (xp - xm) * inv
	j[1][0] = (yp - ym) * inv
	j[0][1] = (xq - xr) * inv
	j[1][1] = (yq - yr) * inv
	return j, true
}

func applyJacobian(j [2][2]float64, vx, vy float64) (float64, float64) {
	return j[0][0]*vx + j[0][1]*vy, j[1][0]*vx + j[1][1]*vy
}

// staleTolerance is the boundary discrepancy, in destination pixels,
// above which a reprojected region no longer represents its original
// area exactly.
const staleTolerance = 1e-6

// ReprojectRegion expresses a region in another dataset's pixel grid.
// Polygons map vertex by vertex; the analytic shapes are carried over
// by linearizing the map at the region center, which is exact for
// affine relations and a close approximation otherwise. maxErr is the
// largest discrepancy, in destination pixels, between the exactly
// mapped boundary probes and the reconstructed region's boundary.
func ReprojectRegion(r Region, f PixelMap) (Region, float64, error) {
	switch s := r.(type) {
	case Circle:
		cx, cy, ok := f(s.CX, s.CY)
		if !ok {
			return nil, 0, fmt.Errorf("region center does not map")
		}
		j, ok := linearize(f, s.CX, s.CY)
		if !ok {
			return nil, 0, fmt.Errorf("region does not map")
		}
		// Isotropic scale from the Jacobian determinant keeps the
		// enclosed area consistent.
		scale := math.Sqrt(math.Abs(j[0][0]*j[1][1] - j[0][1]*j[1][0]))
		out := Circle{CX: cx, CY: cy, R: s.R * scale}

		var maxErr float64
		for _, p := range []geometry.Point2D{
			{X: s.CX + s.R, Y: s.CY}, {X: s.CX - s.R, Y: s.CY},
			{X: s.CX, Y: s.CY + s.R}, {X: s.CX, Y: s.CY - s.R},
		} {
			bx, by, ok := f(p.X, p.Y)
			if !ok {
				continue
			}
			maxErr = math.Max(maxErr, math.Abs(math.Hypot(bx-cx, by-cy)-out.R))
		}
		return out, maxErr, nil

	case Ellipse:
		cx, cy, ok := f(s.CX, s.CY)
		if !ok {
			return nil, 0, fmt.Errorf("region center does not map")
		}
		j, ok := linearize(f, s.CX, s.CY)
		if !ok {
			return nil, 0, fmt.Errorf("region does not map")
		}
		cos, sin := math.Cos(s.Theta), math.Sin(s.Theta)
		majX, majY := applyJacobian(j, cos*s.RX, sin*s.RX)
		minX, minY := applyJacobian(j, -sin*s.RY, cos*s.RY)
		out := Ellipse{
			CX: cx, CY: cy,
			RX:    math.Hypot(majX, majY),
			RY:    math.Hypot(minX, minY),
			Theta: math.Atan2(majY, majX),
		}

		var maxErr float64
		probes := []struct{ dx, dy, px, py float64 }{
			{cos * s.RX, sin * s.RX, majX, majY},
			{-sin * s.RY, cos * s.RY, minX, minY},
		}
		for _, p := range probes {
			bx, by, ok := f(s.CX+p.dx, s.CY+p.dy)
			if !ok {
				continue
			}
			maxErr = math.Max(maxErr, math.Hypot(bx-(cx+p.px), by-(cy+p.py)))
		}
		return out, maxErr, nil

	case Rectangle:
		corners := s.Rect.Corners()
		pts := make([]geometry.Point2D, 0, len(corners))
		for _, c := range corners {
			x, y, ok := f(c.X, c.Y)
			if !ok {
				return nil, 0, fmt.Errorf("region corner does not map")
			}
			pts = append(pts, geometry.Point2D{X: x, Y: y})
		}
		box := geometry.BoundingBox(pts)
		out := Rectangle{Rect: box}

		// An axis-aligned box only survives translation and axis
		// scaling; under rotation the mapped corners pull away from
		// the bounding box corners.
		boxCorners := box.Corners()
		var maxErr float64
		for _, p := range pts {
			best := math.Inf(1)
			for _, c := range boxCorners {
				best = math.Min(best, math.Hypot(p.X-c.X, p.Y-c.Y))
			}
			maxErr = math.Max(maxErr, best)
		}
		return out, maxErr, nil

	case Polygon:
		pts := make([]geometry.Point2D, 0, len(s.Points))
		for _, p := range s.Points {
			x, y, ok := f(p.X, p.Y)
			if !ok {
				return nil, 0, fmt.Errorf("region vertex does not map")
			}
			pts = append(pts, geometry.Point2D{X: x, Y: y})
		}
		return Polygon{Points: pts}, 0, nil

	default:
		return nil, 0, fmt.Errorf("unknown region kind %q", r.Kind())
	}
}

// Reparent moves a subset onto a new parent dataset, reprojecting its
// geometry through the given map from the old parent's grid to the new
// one's. The subset is marked stale when the transported shape no
// longer bounds the original area exactly.
func Reparent(sub *Subset, newParent string, f PixelMap) error {
	region, maxErr, err := ReprojectRegion(sub.Region, f)
	if err != nil {
		return fmt.Errorf("reparent subset %q to %q: %w", sub.Label, newParent, err)
	}
	sub.Parent = newParent
	sub.Region = region
	sub.Stale = maxErr > staleTolerance
	return nil
}

// SubsetStore tracks subsets by label.
type SubsetStore struct {
	subsets []*Subset
}

// NewSubsetStore returns an empty store.
func NewSubsetStore() *SubsetStore {
	return &SubsetStore{}
}

// Add registers a subset.
func (s *SubsetStore) Add(sub *Subset) {
	s.subsets = append(s.subsets, sub)
}

// All returns the subsets in creation order.
func (s *SubsetStore) All() []*Subset {
	out := make([]*Subset, len(s.subsets))
	copy(out, s.subsets)
	return out
}

// WithParent returns the subsets attached to the labeled dataset.
func (s *SubsetStore) WithParent(label string) []*Subset {
	var out []*Subset
	for _, sub := range s.subsets {
		if sub.Parent == label {
			out = append(out, sub)
		}
	}
	return out
}

// Remove drops the labeled subset.
func (s *SubsetStore) Remove(label string) {
	for i, sub := range s.subsets {
		if sub.Label == label {
			s.subsets = append(s.subsets[:i], s.subsets[i+1:]...)
			return
		}
	}
}
