package app

import (
	"encoding/json"
	"fmt"
	"os"

	"skyviz/internal/annotate"
	"skyviz/internal/link"
	"skyviz/internal/viewer"
	"skyviz/pkg/geometry"
)

// SessionFile is the JSON structure of a saved session. Datasets
// themselves are not persisted; a session records the alignment state,
// orientation layers, annotations and viewer layout to restore over
// reloaded data.
type SessionFile struct {
	Version   int    `json:"version"`
	LinkType  string `json:"linkType"`
	UseAffine bool   `json:"useAffine"`

	Orientations []OrientationState `json:"orientations,omitempty"`
	Viewers      []ViewerState      `json:"viewers"`
	Markers      []MarkerState      `json:"markers,omitempty"`
	Subsets      []SubsetState      `json:"subsets,omitempty"`
}

// OrientationState records how to rebuild a synthetic orientation
// layer.
type OrientationState struct {
	Label    string  `json:"label"`
	Base     string  `json:"base"`
	Angle    float64 `json:"angle"`
	EastLeft bool    `json:"eastLeft"`
}

// ViewerState records one viewer's reference, layers and viewport.
type ViewerState struct {
	ID        string   `json:"id"`
	Reference string   `json:"reference"`
	Layers    []string `json:"layers"`

	XMin float64 `json:"xMin"`
	XMax float64 `json:"xMax"`
	YMin float64 `json:"yMin"`
	YMax float64 `json:"yMax"`
}

// MarkerState records one placed marker.
type MarkerState struct {
	ViewerID  string  `json:"viewerId"`
	DataLabel string  `json:"dataLabel"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Lon       float64 `json:"lon"`
	Lat       float64 `json:"lat"`
	HasWorld  bool    `json:"hasWorld"`
	Value     float64 `json:"value"`
	Unit      string  `json:"unit,omitempty"`
}

// SubsetState records one subset with its region as a tagged union.
type SubsetState struct {
	Label  string      `json:"label"`
	Parent string      `json:"parent"`
	Stale  bool        `json:"stale,omitempty"`
	Region RegionState `json:"region"`
}

// RegionState is the serialized form of a region. Kind selects which
// of the remaining fields are meaningful.
type RegionState struct {
	Kind string `json:"kind"`

	CX    float64 `json:"cx,omitempty"`
	CY    float64 `json:"cy,omitempty"`
	R     float64 `json:"r,omitempty"`
	RX    float64 `json:"rx,omitempty"`
	RY    float64 `json:"ry,omitempty"`
	Theta float64 `json:"theta,omitempty"`

	Rect   *geometry.Rect     `json:"rect,omitempty"`
	Points []geometry.Point2D `json:"points,omitempty"`
}

func regionState(r annotate.Region) RegionState {
	switch s := r.(type) {
	case annotate.Circle:
		return RegionState{Kind: s.Kind(), CX: s.CX, CY: s.CY, R: s.R}
	case annotate.Ellipse:
		return RegionState{Kind: s.Kind(), CX: s.CX, CY: s.CY, RX: s.RX, RY: s.RY, Theta: s.Theta}
	case annotate.Rectangle:
		rect := s.Rect
		return RegionState{Kind: s.Kind(), Rect: &rect}
	case annotate.Polygon:
		return RegionState{Kind: s.Kind(), Points: s.Points}
	default:
		return RegionState{Kind: r.Kind()}
	}
}

func (rs RegionState) region() (annotate.Region, error) {
	switch rs.Kind {
	case "circle":
		return annotate.Circle{CX: rs.CX, CY: rs.CY, R: rs.R}, nil
	case "ellipse":
		return annotate.Ellipse{CX: rs.CX, CY: rs.CY, RX: rs.RX, RY: rs.RY, Theta: rs.Theta}, nil
	case "rectangle":
		if rs.Rect == nil {
			return nil, fmt.Errorf("rectangle region without bounds")
		}
		return annotate.Rectangle{Rect: *rs.Rect}, nil
	case "polygon":
		return annotate.Polygon{Points: rs.Points}, nil
	default:
		return nil, fmt.Errorf("unknown region kind %q", rs.Kind)
	}
}

// SaveSession writes the current session to the specified path.
func (a *App) SaveSession(path string) error {
	sess := SessionFile{
		Version:   1,
		LinkType:  string(a.Orient.Scheme()),
		UseAffine: a.Orient.UseAffine(),
	}

	for _, label := range a.Collection.OrientationLabels() {
		d := a.Collection.Get(label)
		if d == nil {
			continue
		}
		sess.Orientations = append(sess.Orientations, OrientationState{
			Label:    d.Label,
			Base:     d.BaseLabel,
			Angle:    d.RotationAngle,
			EastLeft: d.EastLeft,
		})
	}

	for _, v := range a.Orient.Viewers() {
		limits := v.Limits()
		var layers []string
		for _, l := range v.Layers() {
			layers = append(layers, l.Label)
		}
		sess.Viewers = append(sess.Viewers, ViewerState{
			ID:        v.ID,
			Reference: v.Reference(),
			Layers:    layers,
			XMin:      limits.XMin,
			XMax:      limits.XMax,
			YMin:      limits.YMin,
			YMax:      limits.YMax,
		})
	}

	for _, m := range a.Markers.All() {
		sess.Markers = append(sess.Markers, MarkerState{
			ViewerID:  m.ViewerID,
			DataLabel: m.DataLabel,
			X:         m.X,
			Y:         m.Y,
			Lon:       m.Lon,
			Lat:       m.Lat,
			HasWorld:  m.HasWorld,
			Value:     m.Value,
			Unit:      m.Unit,
		})
	}
	for _, sub := range a.Subsets.All() {
		sess.Subsets = append(sess.Subsets, SubsetState{
			Label:  sub.Label,
			Parent: sub.Parent,
			Stale:  sub.Stale,
			Region: regionState(sub.Region),
		})
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}

	a.log.Info("session saved", "path", path)
	return nil
}

// LoadSession restores a saved session over the currently loaded data.
// Datasets referenced by the session must already be in the collection.
func (a *App) LoadSession(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var sess SessionFile
	if err := json.Unmarshal(data, &sess); err != nil {
		return err
	}
	if sess.LinkType != string(link.SchemePixels) && sess.LinkType != string(link.SchemeWCS) {
		return fmt.Errorf("session has invalid link type %q", sess.LinkType)
	}

	if err := a.LinkData(sess.LinkType, "pixels", sess.UseAffine, false); err != nil {
		return err
	}

	for _, o := range sess.Orientations {
		if a.Collection.Has(o.Label) {
			continue
		}
		if _, err := a.Orient.AddOrientation(o.Angle, o.EastLeft, o.Label, false, o.Base, ""); err != nil {
			return err
		}
	}

	for _, vs := range sess.Viewers {
		v := a.Orient.Viewer(vs.ID)
		if v == nil {
			v = a.AddViewer()
		}
		for _, label := range vs.Layers {
			if a.Collection.Has(label) {
				v.AddLayer(label)
			}
		}
		if vs.Reference != "" && a.Collection.Has(vs.Reference) {
			if err := a.Orient.SetViewerReference(v.ID, vs.Reference); err != nil {
				return err
			}
		}
		v.SetLimits(viewer.Limits{
			XMin: vs.XMin, XMax: vs.XMax,
			YMin: vs.YMin, YMax: vs.YMax,
		})
	}

	for _, ms := range sess.Markers {
		if !a.Collection.Has(ms.DataLabel) {
			a.log.Warn("session marker skipped, dataset not loaded", "dataset", ms.DataLabel)
			continue
		}
		a.Markers.Add(annotate.Marker{
			ViewerID:  ms.ViewerID,
			DataLabel: ms.DataLabel,
			X:         ms.X,
			Y:         ms.Y,
			Lon:       ms.Lon,
			Lat:       ms.Lat,
			HasWorld:  ms.HasWorld,
			Value:     ms.Value,
			Unit:      ms.Unit,
		})
	}

	existing := make(map[string]bool)
	for _, sub := range a.Subsets.All() {
		existing[sub.Label] = true
	}
	for _, ss := range sess.Subsets {
		if existing[ss.Label] {
			continue
		}
		if !a.Collection.Has(ss.Parent) {
			a.log.Warn("session subset skipped, parent not loaded", "subset", ss.Label, "parent", ss.Parent)
			continue
		}
		region, err := ss.Region.region()
		if err != nil {
			return fmt.Errorf("session subset %q: %w", ss.Label, err)
		}
		a.Subsets.Add(&annotate.Subset{
			Label:  ss.Label,
			Parent: ss.Parent,
			Region: region,
			Stale:  ss.Stale,
		})
	}

	a.log.Info("session loaded", "path", path)
	return nil
}
