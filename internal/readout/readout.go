// Package readout resolves a cursor position in one viewer into pixel,
// sky and value readouts for every loaded dataset, flagging anything
// extrapolated beyond a dataset's own extent.
package readout

import (
	"fmt"

	"skyviz/internal/dataset"
	"skyviz/internal/link"
	"skyviz/internal/viewer"
	"skyviz/pkg/errs"
	"skyviz/pkg/wcs"
)

// Row is the readout for one dataset. The three reliability flags are
// independent: a position outside the dataset's extent still produces
// numbers, marked untrustworthy instead of suppressed.
type Row struct {
	Label string

	X, Y float64

	HasWorld bool
	Lon, Lat float64

	HasValue bool
	Value    float64
	Unit     string

	PixelUnreliable bool
	WorldUnreliable bool
	ValueUnreliable bool
}

// Lines renders the row as up to three display lines. The world lines
// are empty when the dataset has no celestial coordinates.
func (r Row) Lines() (pixel, sexagesimal, degrees string) {
	pixel = fmt.Sprintf("Pixel x=%04.1f y=%04.1f", r.X, r.Y)
	if r.HasValue {
		pixel += fmt.Sprintf(" Value %+.5e", r.Value)
		if r.Unit != "" {
			pixel += " " + r.Unit
		}
	}
	if r.HasWorld {
		sexagesimal = "World " + wcs.FormatSexagesimal(r.Lon, r.Lat) + " (ICRS)"
		degrees = wcs.FormatDegrees(r.Lon, r.Lat) + " (deg)"
	}
	return pixel, sexagesimal, degrees
}

// Result is a full cursor resolution: the active layer's row plus one
// row per linked dataset.
type Result struct {
	Active Row
	Rows   []Row
}

// Engine resolves cursor positions through the current link set. It
// re-fetches the set on every call rather than caching it.
type Engine struct {
	coll  *dataset.Collection
	model *link.Model
}

// NewEngine wires the engine to the collection and link model.
func NewEngine(coll *dataset.Collection, model *link.Model) *Engine {
	return &Engine{coll: coll, model: model}
}

// Resolve maps a cursor position, given in the viewer's reference pixel
// frame, onto every linked dataset. The active row belongs to the
// viewer's topmost visible layer.
func (e *Engine) Resolve(v *viewer.Viewer, x, y float64) (Result, error) {
	s := e.model.Current()
	if s == nil {
		return Result{}, errs.ErrNoReferenceData
	}

	ref := v.Reference()
	if ref == "" {
		ref = s.Reference()
	}
	if ref == "" {
		return Result{}, errs.ErrNoReferenceData
	}

	active := v.TopVisibleDataLabel()
	if active == "" {
		active = ref
	}
	if !s.Has(active) {
		return Result{}, &errs.LinkLookupError{Labels: []string{active}}
	}

	var res Result
	for _, d := range e.coll.All() {
		if !s.Has(d.Label) {
			continue
		}
		px, py, ok := s.Transform(ref, d.Label, x, y)
		row := e.buildRow(d, px, py, ok)
		if d.Label == active {
			res.Active = row
		}
		res.Rows = append(res.Rows, row)
	}
	return res, nil
}

// RowFor resolves the cursor against a single named dataset. Querying a
// label outside the current link graph is an error.
func (e *Engine) RowFor(v *viewer.Viewer, label string, x, y float64) (Row, error) {
	s := e.model.Current()
	if s == nil {
		return Row{}, errs.ErrNoReferenceData
	}
	ref := v.Reference()
	if ref == "" {
		ref = s.Reference()
	}
	d := e.coll.Get(label)
	if d == nil || !s.Has(label) {
		return Row{}, &errs.LinkLookupError{Labels: []string{label}}
	}
	px, py, ok := s.Transform(ref, label, x, y)
	return e.buildRow(d, px, py, ok), nil
}

func (e *Engine) buildRow(d *dataset.Dataset, px, py float64, mapped bool) Row {
	row := Row{Label: d.Label, X: px, Y: py}

	w, h := d.Shape()
	inExtent := mapped
	if mapped && w > 0 && h > 0 {
		inExtent = px >= -0.5 && px <= float64(w)-0.5 && py >= -0.5 && py <= float64(h)-0.5
	}
	row.PixelUnreliable = !inExtent

	if d.HasValidWCS() {
		frame := d.Frame.Celestial()
		lon, lat, ok := frame.PixelToWorld(px, py)
		if ok {
			row.HasWorld = true
			row.Lon, row.Lat = lon, lat
			row.WorldUnreliable = !inExtent || wcs.OutOfBounds(frame, px, py)
		}
	}

	if val, unit, ok := d.Value(px, py); ok {
		row.HasValue = true
		row.Value = val
		row.Unit = unit
		row.ValueUnreliable = !inExtent
	} else if w > 0 && h > 0 && mapped {
		// Clamp to the nearest edge pixel so extrapolated positions
		// still show a value, flagged untrustworthy.
		cx, cy := clampIndex(px, w), clampIndex(py, h)
		if val, unit, ok := d.Value(float64(cx), float64(cy)); ok {
			row.HasValue = true
			row.Value = val
			row.Unit = unit
			row.ValueUnreliable = true
		}
	}
	return row
}

func clampIndex(v float64, n int) int {
	i := int(v + 0.5)
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
