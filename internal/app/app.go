// Package app assembles the collection, link model, orientation
// manager, readout engine and annotation stores into one application
// and exposes the public linking API.
package app

import (
	"fmt"
	"log/slog"
	"os"

	"skyviz/internal/annotate"
	"skyviz/internal/config"
	"skyviz/internal/dataset"
	"skyviz/internal/event"
	"skyviz/internal/link"
	"skyviz/internal/orient"
	"skyviz/internal/readout"
	"skyviz/internal/viewer"
	"skyviz/pkg/errs"
	"skyviz/pkg/geometry"
)

// App is one running application instance.
type App struct {
	log *slog.Logger
	cfg *config.Config

	Collection *dataset.Collection
	Links      *link.Model
	Markers    *annotate.MarkerStore
	Subsets    *annotate.SubsetStore
	Events     *event.Hub
	Orient     *orient.Manager
	Readout    *readout.Engine
}

// New builds an application from configuration, opening the configured
// number of viewers.
func New(cfg *config.Config, log *slog.Logger) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = NewLogger(cfg)
	}

	coll := dataset.NewCollection()
	model := link.NewModel()
	markers := annotate.NewMarkerStore(log)
	subsets := annotate.NewSubsetStore()
	hub := event.NewHub()

	a := &App{
		log:        log,
		cfg:        cfg,
		Collection: coll,
		Links:      model,
		Markers:    markers,
		Subsets:    subsets,
		Events:     hub,
		Orient:     orient.NewManager(coll, model, markers, subsets, hub, log),
		Readout:    readout.NewEngine(coll, model),
	}
	for i := 0; i < cfg.Viewers.Count; i++ {
		a.Orient.AddViewer()
	}
	return a
}

// NewLogger builds a slog logger per the logging configuration.
func NewLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Logging.JSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// LinkData aligns all loaded datasets under the requested scheme.
// linkType must be "pixels" or "wcs"; wcsFallbackScheme must be empty
// or "pixels".
func (a *App) LinkData(linkType, wcsFallbackScheme string, wcsUseAffine, errorOnFail bool) error {
	switch linkType {
	case "pixels", "wcs":
	default:
		return &errs.InvalidParameterError{Param: "link_type", Value: linkType}
	}
	switch wcsFallbackScheme {
	case "", "pixels":
	default:
		return &errs.InvalidParameterError{Param: "wcs_fallback_scheme", Value: wcsFallbackScheme}
	}

	err := a.Orient.SetLinkType(link.Scheme(linkType), link.Options{
		UseAffine:      wcsUseAffine,
		FallbackPixels: wcsFallbackScheme == "pixels",
		ErrorOnFail:    errorOnFail,
	})
	if err != nil {
		return err
	}
	a.log.Info("data linked", "link_type", linkType)
	return nil
}

// GetLinkType answers how datasets are related: "self", "pixels" or
// "wcs". With one label the relation to the current reference is
// reported; with two, the relation between the pair.
func (a *App) GetLinkType(labels ...string) (string, error) {
	switch len(labels) {
	case 1:
		s := a.Links.Current()
		if s == nil {
			return "", errs.ErrNoReferenceData
		}
		return a.Links.LinkTypeBetween(s.Reference(), labels[0])
	case 2:
		return a.Links.LinkTypeBetween(labels[0], labels[1])
	default:
		return "", &errs.InvalidParameterError{Param: "labels", Value: fmt.Sprintf("%d labels", len(labels))}
	}
}

// LoadDataset adds a dataset to the collection, shows it in every
// viewer and folds it into the current links.
func (a *App) LoadDataset(d *dataset.Dataset) error {
	if err := a.Collection.Add(d); err != nil {
		return err
	}
	for _, v := range a.Orient.Viewers() {
		v.AddLayer(d.Label)
		if v.Reference() == "" {
			v.SetReference(d.Label)
			if w, h := d.Shape(); w > 0 && h > 0 {
				v.ResetLimits(w, h)
			}
		}
	}
	if err := a.Orient.Relink(); err != nil {
		return err
	}
	a.Events.Emit(event.DataAdded, event.DataPayload{Label: d.Label})
	a.log.Info("dataset loaded", "label", d.Label)
	return nil
}

// RemoveDataset deletes a dataset. Subsets parented to it are moved to
// the current reference with their geometry re-expressed there, its
// markers are dropped, and viewers using it as reference fall back to
// the first remaining dataset.
func (a *App) RemoveDataset(label string) error {
	d := a.Collection.Get(label)
	if d == nil {
		return fmt.Errorf("dataset %q not in collection", label)
	}
	if d.Kind == dataset.KindOrientation {
		return a.Orient.RemoveOrientation(label)
	}

	if s := a.Links.Current(); s != nil {
		target := s.Reference()
		if target == label {
			for _, l := range a.Collection.Labels() {
				if l != label {
					target = l
					break
				}
			}
		}
		if target != label && s.Has(target) {
			remap := func(x, y float64) (float64, float64, bool) {
				return s.Transform(label, target, x, y)
			}
			for _, sub := range a.Subsets.WithParent(label) {
				if err := annotate.Reparent(sub, target, remap); err != nil {
					return err
				}
			}
		}
	}

	if dropped := a.Markers.DropForData(label); len(dropped) > 0 {
		a.Events.Emit(event.MarkersChanged, len(dropped))
	}

	for _, v := range a.Orient.Viewers() {
		v.RemoveLayer(label)
	}
	if err := a.Collection.Remove(label); err != nil {
		return err
	}

	for _, v := range a.Orient.Viewers() {
		if v.Reference() != label {
			continue
		}
		if labels := a.Collection.DataLabels(); len(labels) > 0 {
			if err := a.Orient.SetViewerReference(v.ID, labels[0]); err != nil {
				return err
			}
		} else {
			v.SetReference("")
		}
	}

	if err := a.Orient.Relink(); err != nil {
		return err
	}
	a.Events.Emit(event.DataRemoved, event.DataPayload{Label: label})
	a.log.Info("dataset removed", "label", label)
	return nil
}

// AddViewer opens a new viewer showing all loaded data.
func (a *App) AddViewer() *viewer.Viewer {
	v := a.Orient.AddViewer()
	for _, label := range a.Collection.DataLabels() {
		v.AddLayer(label)
	}
	return v
}

// AddMarker captures the readout under the cursor in the named viewer
// as a marker on its active layer.
func (a *App) AddMarker(viewerID string, x, y float64) (annotate.Marker, error) {
	v := a.Orient.Viewer(viewerID)
	if v == nil {
		return annotate.Marker{}, fmt.Errorf("no viewer %q", viewerID)
	}
	res, err := a.Readout.Resolve(v, x, y)
	if err != nil {
		return annotate.Marker{}, err
	}

	row := res.Active
	m := a.Markers.Add(annotate.Marker{
		ViewerID:        viewerID,
		DataLabel:       row.Label,
		X:               row.X,
		Y:               row.Y,
		Lon:             row.Lon,
		Lat:             row.Lat,
		HasWorld:        row.HasWorld,
		Value:           row.Value,
		Unit:            row.Unit,
		PixelUnreliable: row.PixelUnreliable,
		WorldUnreliable: row.WorldUnreliable,
		ValueUnreliable: row.ValueUnreliable,
	})
	a.Events.Emit(event.MarkersChanged, 1)
	return m, nil
}

// ClearMarkers removes all markers, releasing the link-type pin.
func (a *App) ClearMarkers() {
	a.Markers.Clear()
	a.Events.Emit(event.MarkersChanged, 0)
}

// ZoomLimitsFor returns the viewer's zoom box expressed in another
// dataset's pixel grid, counter-clockwise from the lower-left corner.
// Under coordinate links the box is generally a rotated quadrilateral
// rather than an axis-aligned rectangle.
func (a *App) ZoomLimitsFor(viewerID, label string) ([4]geometry.Point2D, error) {
	var out [4]geometry.Point2D

	v := a.Orient.Viewer(viewerID)
	if v == nil {
		return out, fmt.Errorf("no viewer %q", viewerID)
	}
	s := a.Links.Current()
	if s == nil {
		return out, errs.ErrNoReferenceData
	}
	ref := v.Reference()
	if ref == "" {
		ref = s.Reference()
	}
	if !s.Has(label) {
		return out, &errs.LinkLookupError{Labels: []string{label}}
	}

	for i, c := range v.Limits().Corners() {
		x, y, ok := s.Transform(ref, label, c.X, c.Y)
		if !ok {
			return out, fmt.Errorf("zoom corner does not map onto %q", label)
		}
		out[i] = geometry.Point2D{X: x, Y: y}
	}
	return out, nil
}

// ReadoutText resolves a cursor position into the three display lines
// for the viewer's active layer.
func (a *App) ReadoutText(viewerID string, x, y float64) (pixel, sexagesimal, degrees string, err error) {
	v := a.Orient.Viewer(viewerID)
	if v == nil {
		return "", "", "", fmt.Errorf("no viewer %q", viewerID)
	}
	res, err := a.Readout.Resolve(v, x, y)
	if err != nil {
		return "", "", "", err
	}
	pixel, sexagesimal, degrees = res.Active.Lines()
	return pixel, sexagesimal, degrees, nil
}
