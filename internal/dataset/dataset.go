// Package dataset provides the labeled data collection: datasets with
// named components and attached coordinate frames, including synthetic
// orientation entries that exist only to define a reference frame.
package dataset

import (
	"fmt"

	"skyviz/pkg/wcs"
)

// Kind distinguishes real data from synthetic orientation entries.
type Kind int

const (
	// KindData is a dataset loaded from an instrument product.
	KindData Kind = iota
	// KindOrientation is a synthetic dataset materializing a named
	// reference orientation (e.g. "North-up, East-left").
	KindOrientation
)

func (k Kind) String() string {
	switch k {
	case KindData:
		return "data"
	case KindOrientation:
		return "orientation"
	default:
		return "unknown"
	}
}

// Component is one named array of a dataset, e.g. "SCI" or "ERR".
type Component struct {
	Name string
	Unit string
	Data [][]float64 // row-major, Data[y][x]
}

// At returns the value at integer pixel (x, y). ok is false outside the
// array.
func (c *Component) At(x, y int) (float64, bool) {
	if y < 0 || y >= len(c.Data) {
		return 0, false
	}
	row := c.Data[y]
	if x < 0 || x >= len(row) {
		return 0, false
	}
	return row[x], true
}

// Dataset is one entry in the collection: a unique label, an ordered set
// of named components and a coordinate frame. Pixel-only datasets carry
// wcs.NoneFrame rather than a nil frame.
type Dataset struct {
	Label      string
	Kind       Kind
	Components []Component
	Frame      wcs.Frame

	// Orientation entries record how they were derived.
	BaseLabel     string
	RotationAngle float64 // degrees, counter-clockwise
	EastLeft      bool
}

// New creates a data entry with the given label, components and frame.
func New(label string, frame wcs.Frame, components ...Component) *Dataset {
	if frame == nil {
		frame = wcs.NoneFrame{}
	}
	return &Dataset{Label: label, Kind: KindData, Components: components, Frame: frame}
}

// NewOrientation creates a synthetic orientation entry derived from a
// base dataset.
func NewOrientation(label string, frame wcs.Frame, baseLabel string, angleDeg float64, eastLeft bool) *Dataset {
	return &Dataset{
		Label:         label,
		Kind:          KindOrientation,
		Frame:         frame,
		BaseLabel:     baseLabel,
		RotationAngle: angleDeg,
		EastLeft:      eastLeft,
	}
}

// HasValidWCS reports whether the dataset carries usable celestial
// coordinates.
func (d *Dataset) HasValidWCS() bool {
	return wcs.HasValidWCS(d.Frame)
}

// Shape returns the pixel dimensions of the first component, or (0, 0)
// for componentless (orientation) entries.
func (d *Dataset) Shape() (w, h int) {
	if len(d.Components) == 0 {
		return 0, 0
	}
	data := d.Components[0].Data
	if len(data) == 0 {
		return 0, 0
	}
	return len(data[0]), len(data)
}

// Component returns the named component.
func (d *Dataset) Component(name string) (*Component, error) {
	for i := range d.Components {
		if d.Components[i].Name == name {
			return &d.Components[i], nil
		}
	}
	return nil, fmt.Errorf("dataset %q has no component %q", d.Label, name)
}

// Value looks up the primary component's value at the nearest pixel to
// (x, y). ok is false outside the array or without components.
func (d *Dataset) Value(x, y float64) (val float64, unit string, ok bool) {
	if len(d.Components) == 0 {
		return 0, "", false
	}
	c := &d.Components[0]
	v, ok := c.At(int(x+0.5), int(y+0.5))
	return v, c.Unit, ok
}

// UniformComponent builds a w×h component filled with a constant value,
// a convenience for tests and synthetic data.
func UniformComponent(name, unit string, w, h int, value float64) Component {
	data := make([][]float64, h)
	for y := range data {
		row := make([]float64, w)
		for x := range row {
			row[x] = value
		}
		data[y] = row
	}
	return Component{Name: name, Unit: unit, Data: data}
}
