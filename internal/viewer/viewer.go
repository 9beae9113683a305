// Package viewer tracks per-view display state: the stack of visible
// layers, the zoom limits and the reference dataset the view is drawn
// against.
package viewer

import (
	"fmt"
	"sync"

	"skyviz/pkg/geometry"
)

// Layer is one dataset shown in a viewer.
type Layer struct {
	Label   string
	Visible bool
}

// Limits is the viewport rectangle in reference pixel coordinates.
type Limits struct {
	XMin, XMax float64
	YMin, YMax float64
}

// Corners returns the viewport corners counter-clockwise from the
// lower left.
func (l Limits) Corners() [4]geometry.Point2D {
	return [4]geometry.Point2D{
		{X: l.XMin, Y: l.YMin},
		{X: l.XMax, Y: l.YMin},
		{X: l.XMax, Y: l.YMax},
		{X: l.XMin, Y: l.YMax},
	}
}

// MapThrough pushes the viewport corners through a coordinate map and
// returns the bounding limits of the result. ok is false if any corner
// fails to map.
func (l Limits) MapThrough(f func(x, y float64) (float64, float64, bool)) (Limits, bool) {
	corners := l.Corners()
	pts := make([]geometry.Point2D, 0, 4)
	for _, c := range corners {
		x, y, ok := f(c.X, c.Y)
		if !ok {
			return Limits{}, false
		}
		pts = append(pts, geometry.Point2D{X: x, Y: y})
	}
	box := geometry.BoundingBox(pts)
	return Limits{XMin: box.X, XMax: box.X + box.Width, YMin: box.Y, YMax: box.Y + box.Height}, true
}

// Viewer is one image view. All methods are safe for concurrent use.
type Viewer struct {
	ID string

	mu        sync.RWMutex
	reference string
	layers    []Layer
	limits    Limits
	blinkIdx  int
}

// New returns an empty viewer.
func New(id string) *Viewer {
	return &Viewer{ID: id}
}

// Reference returns the label of the viewer's reference dataset, empty
// before one is assigned.
func (v *Viewer) Reference() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.reference
}

// SetReference assigns the reference dataset.
func (v *Viewer) SetReference(label string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.reference = label
}

// AddLayer appends a visible layer for the labeled dataset. Adding the
// same label twice is a no-op.
func (v *Viewer) AddLayer(label string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, l := range v.layers {
		if l.Label == label {
			return
		}
	}
	v.layers = append(v.layers, Layer{Label: label, Visible: true})
}

// RemoveLayer drops the labeled layer if present.
func (v *Viewer) RemoveLayer(label string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i, l := range v.layers {
		if l.Label == label {
			v.layers = append(v.layers[:i], v.layers[i+1:]...)
			if v.blinkIdx >= len(v.layers) {
				v.blinkIdx = 0
			}
			return
		}
	}
}

// HasLayer reports whether the labeled dataset is shown.
func (v *Viewer) HasLayer(label string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, l := range v.layers {
		if l.Label == label {
			return true
		}
	}
	return false
}

// Layers returns a copy of the layer stack, bottom first.
func (v *Viewer) Layers() []Layer {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]Layer, len(v.layers))
	copy(out, v.layers)
	return out
}

// SetVisible toggles a layer's visibility.
func (v *Viewer) SetVisible(label string, visible bool) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.layers {
		if v.layers[i].Label == label {
			v.layers[i].Visible = visible
			return nil
		}
	}
	return fmt.Errorf("viewer %s has no layer %q", v.ID, label)
}

// TopVisibleDataLabel returns the label of the topmost visible layer,
// or empty when nothing is visible.
func (v *Viewer) TopVisibleDataLabel() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for i := len(v.layers) - 1; i >= 0; i-- {
		if v.layers[i].Visible {
			return v.layers[i].Label
		}
	}
	return ""
}

// BlinkNext makes the next layer in the stack the only visible one and
// returns its label. With no layers it returns empty.
func (v *Viewer) BlinkNext() string {
	return v.blink(1)
}

// BlinkPrev makes the previous layer the only visible one.
func (v *Viewer) BlinkPrev() string {
	return v.blink(-1)
}

func (v *Viewer) blink(step int) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	n := len(v.layers)
	if n == 0 {
		return ""
	}
	v.blinkIdx = ((v.blinkIdx+step)%n + n) % n
	for i := range v.layers {
		v.layers[i].Visible = i == v.blinkIdx
	}
	return v.layers[v.blinkIdx].Label
}

// Limits returns the current viewport.
func (v *Viewer) Limits() Limits {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.limits
}

// SetLimits replaces the viewport.
func (v *Viewer) SetLimits(l Limits) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.limits = l
}

// ResetLimits frames a w by h pixel grid exactly, with pixel centers on
// integer coordinates.
func (v *Viewer) ResetLimits(w, h int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.limits = Limits{
		XMin: -0.5, XMax: float64(w) - 0.5,
		YMin: -0.5, YMax: float64(h) - 0.5,
	}
}
