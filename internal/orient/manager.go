// Package orient owns the per-viewer reference frame state machine:
// which dataset each viewer is drawn against, the synthetic orientation
// layers, and the transitions between pixel and celestial alignment.
package orient

import (
	"fmt"
	"log/slog"
	"sync"

	"skyviz/internal/annotate"
	"skyviz/internal/dataset"
	"skyviz/internal/event"
	"skyviz/internal/link"
	"skyviz/internal/viewer"
	"skyviz/pkg/errs"
	"skyviz/pkg/wcs"
)

// Labels of the built-in orientation layers.
const (
	DefaultOrientationLabel = "Default orientation"
	NorthUpEastLeftLabel    = "North-up, East-left"
	NorthUpEastRightLabel   = "North-up, East-right"
)

// Manager coordinates link-type transitions and per-viewer reference
// assignments. It is the single writer of the link model.
type Manager struct {
	mu sync.Mutex

	coll    *dataset.Collection
	model   *link.Model
	markers *annotate.MarkerStore
	subsets *annotate.SubsetStore
	hub     *event.Hub
	log     *slog.Logger

	viewers    []*viewer.Viewer
	nextViewer int

	scheme link.Scheme
	opts   link.Options

	// lastWCS remembers each viewer's last explicit orientation choice
	// so a round trip through pixel alignment restores it.
	lastWCS map[string]string
}

// NewManager wires the manager to its collaborators. Alignment starts
// in pixel mode with affine approximation enabled.
func NewManager(coll *dataset.Collection, model *link.Model, markers *annotate.MarkerStore, subsets *annotate.SubsetStore, hub *event.Hub, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		coll:      coll,
		model:     model,
		markers:   markers,
		subsets:   subsets,
		hub:       hub,
		log:       log,
		scheme:  link.SchemePixels,
		opts:    link.Options{UseAffine: true},
		lastWCS: make(map[string]string),
	}
}

// Scheme returns the active alignment scheme.
func (m *Manager) Scheme() link.Scheme {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scheme
}

// UseAffine reports whether coordinate links are approximated by
// affine fits.
func (m *Manager) UseAffine() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opts.UseAffine
}

// AddViewer creates a viewer with a generated identifier and assigns
// the current global reference to it.
func (m *Manager) AddViewer() *viewer.Viewer {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextViewer++
	v := viewer.New(fmt.Sprintf("viewer-%d", m.nextViewer))
	if ref := m.currentReferenceLocked(); ref != "" {
		v.SetReference(ref)
	}
	m.viewers = append(m.viewers, v)
	return v
}

// Viewer returns the identified viewer, or nil.
func (m *Manager) Viewer(id string) *viewer.Viewer {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.viewers {
		if v.ID == id {
			return v
		}
	}
	return nil
}

// Viewers returns all viewers in creation order.
func (m *Manager) Viewers() []*viewer.Viewer {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*viewer.Viewer, len(m.viewers))
	copy(out, m.viewers)
	return out
}

// currentReferenceLocked is the label links currently point at, or the
// scheme's natural default before any link set exists.
func (m *Manager) currentReferenceLocked() string {
	if s := m.model.Current(); s != nil {
		return s.Reference()
	}
	if labels := m.coll.DataLabels(); len(labels) > 0 {
		return labels[0]
	}
	return ""
}

// SetLinkType switches the alignment scheme. The switch is rejected
// while markers exist, and on any failure the previous link set is left
// untouched.
func (m *Manager) SetLinkType(scheme link.Scheme, opts link.Options) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if scheme != link.SchemePixels && scheme != link.SchemeWCS {
		return &errs.InvalidParameterError{Param: "link_type", Value: string(scheme)}
	}
	// A repeat call with different options (affine approximation,
	// fallback, error mode) still recomputes the links.
	if scheme == m.scheme && opts == m.opts && m.model.Current() != nil {
		return nil
	}
	if scheme != m.scheme && m.markers.Len() > 0 {
		return &errs.UnsafeStateTransitionError{Reason: "cannot change linking while markers are present"}
	}

	var reference string
	createdOrientation := false
	switch scheme {
	case link.SchemePixels:
		labels := m.coll.DataLabels()
		if len(labels) == 0 {
			return fmt.Errorf("no data loaded")
		}
		reference = labels[0]
	case link.SchemeWCS:
		label, created, err := m.ensureDefaultOrientationLocked()
		if err != nil {
			return err
		}
		reference = label
		createdOrientation = created
	}

	// Compute needs the orientation entry in the collection; a rejected
	// transition must not leave it behind.
	rollback := func() {
		if createdOrientation {
			m.coll.Remove(DefaultOrientationLabel)
		}
	}

	set, err := link.Compute(m.coll, scheme, reference, opts)
	if err != nil {
		rollback()
		return err
	}
	if set == nil {
		// Silent failure mode: keep the previous links.
		rollback()
		m.log.Warn("link compute abandoned, keeping previous links",
			"scheme", string(scheme))
		return nil
	}
	if createdOrientation {
		m.hub.Emit(event.DataAdded, event.DataPayload{Label: DefaultOrientationLabel})
	}

	// Leaving celestial mode: remember each viewer's orientation so the
	// next switch back restores it.
	if m.scheme == link.SchemeWCS {
		for _, v := range m.viewers {
			if ref := v.Reference(); ref != "" {
				m.lastWCS[v.ID] = ref
			}
		}
	}

	m.opts = opts
	m.model.Swap(set)
	m.scheme = scheme

	for _, v := range m.viewers {
		target := reference
		if scheme == link.SchemeWCS {
			if last, ok := m.lastWCS[v.ID]; ok && m.coll.Has(last) {
				target = last
			}
		}
		m.setViewerReferenceLocked(v, target)
	}

	m.hub.Emit(event.LinkChanged, event.LinkChangedPayload{
		LinkType:  string(scheme),
		Reference: reference,
	})
	return nil
}

// ensureDefaultOrientationLocked creates the "Default orientation"
// layer from the first dataset carrying valid celestial coordinates.
// created reports whether this call added the entry; the caller emits
// DataAdded (or removes the entry again) once the transition settles.
func (m *Manager) ensureDefaultOrientationLocked() (label string, created bool, err error) {
	if m.coll.Has(DefaultOrientationLabel) {
		return DefaultOrientationLabel, false, nil
	}

	var base *dataset.Dataset
	for _, d := range m.coll.All() {
		if d.Kind == dataset.KindData && d.HasValidWCS() {
			base = d
			break
		}
	}
	if base == nil {
		labels := m.coll.DataLabels()
		if len(labels) == 0 {
			return "", false, fmt.Errorf("no data loaded")
		}
		return "", false, &errs.MissingCoordinateFrameError{Label: labels[0]}
	}

	d := dataset.NewOrientation(DefaultOrientationLabel, base.Frame.Celestial(), base.Label, 0, true)
	if err := m.coll.Add(d); err != nil {
		return "", false, err
	}
	return DefaultOrientationLabel, true, nil
}

// SetViewerReference assigns a viewer's reference dataset, remapping
// its zoom limits and reprojecting annotations.
func (m *Manager) SetViewerReference(viewerID, label string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var v *viewer.Viewer
	for _, cand := range m.viewers {
		if cand.ID == viewerID {
			v = cand
			break
		}
	}
	if v == nil {
		return fmt.Errorf("no viewer %q", viewerID)
	}
	d := m.coll.Get(label)
	if d == nil {
		return fmt.Errorf("dataset %q not in collection", label)
	}
	if m.scheme == link.SchemeWCS && !d.HasValidWCS() {
		return &errs.MissingCoordinateFrameError{Label: label}
	}

	m.setViewerReferenceLocked(v, label)
	return nil
}

func (m *Manager) setViewerReferenceLocked(v *viewer.Viewer, label string) {
	old := v.Reference()
	if old == label {
		return
	}
	v.SetReference(label)
	if m.scheme == link.SchemeWCS {
		m.lastWCS[v.ID] = label
	}
	m.remapLimitsLocked(v, old, label)
	m.reprojectAnnotationsLocked()
	m.hub.Emit(event.RefDataChanged, event.RefDataChangedPayload{
		ViewerID: v.ID,
		OldLabel: old,
		NewLabel: label,
	})
}

// remapLimitsLocked carries the viewport across a reference switch by
// pushing its corners through the link chain. Without a usable chain it
// reframes the new reference whole.
func (m *Manager) remapLimitsLocked(v *viewer.Viewer, oldLabel, newLabel string) {
	if oldLabel != "" {
		if s := m.model.Current(); s != nil {
			mapped, ok := v.Limits().MapThrough(func(x, y float64) (float64, float64, bool) {
				return s.Transform(oldLabel, newLabel, x, y)
			})
			if ok {
				v.SetLimits(mapped)
				return
			}
		}
	}

	d := m.coll.Get(newLabel)
	if d == nil {
		return
	}
	w, h := d.Shape()
	if w == 0 || h == 0 {
		if base := m.coll.Get(d.BaseLabel); base != nil {
			w, h = base.Shape()
		}
	}
	if w > 0 && h > 0 {
		v.ResetLimits(w, h)
	}
}

// reprojectAnnotationsLocked drops markers that cannot be re-expressed
// in celestial mode.
func (m *Manager) reprojectAnnotationsLocked() {
	if m.scheme != link.SchemeWCS {
		return
	}
	dropped := m.markers.DropWorldless(func(label string) bool {
		d := m.coll.Get(label)
		return d != nil && d.HasValidWCS()
	})
	if len(dropped) > 0 {
		m.hub.Emit(event.MarkersChanged, len(dropped))
	}
}

// AddOrientation creates a synthetic rotated orientation layer. With an
// empty label one is generated from the angle and flip sense. With
// setOnCreate the named viewer adopts it as reference immediately.
func (m *Manager) AddOrientation(angleDeg float64, eastLeft bool, label string, setOnCreate bool, wrtData, viewerID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.scheme != link.SchemeWCS {
		return "", &errs.UnsafeStateTransitionError{Reason: "orientation layers require WCS linking"}
	}

	base := m.baseForOrientationLocked(wrtData)
	if base == nil {
		return "", &errs.MissingCoordinateFrameError{Label: wrtData}
	}

	if label == "" {
		dir := "E-right"
		if eastLeft {
			dir = "E-left"
		}
		label = fmt.Sprintf("CCW %.2f deg (%s)", angleDeg, dir)
	}

	w, h := base.Shape()
	if w == 0 || h == 0 {
		w, h = 100, 100
	}
	frame, err := wcs.Rotated(base.Frame.Celestial(), float64(w), float64(h), angleDeg, eastLeft)
	if err != nil {
		return "", err
	}

	d := dataset.NewOrientation(label, frame, base.Label, angleDeg, eastLeft)
	if err := m.coll.Add(d); err != nil {
		return "", err
	}
	if err := m.relinkLocked(); err != nil {
		m.coll.Remove(label)
		return "", err
	}
	m.hub.Emit(event.DataAdded, event.DataPayload{Label: label})

	if setOnCreate {
		for _, v := range m.viewers {
			if v.ID == viewerID {
				m.setViewerReferenceLocked(v, label)
				break
			}
		}
	}
	return label, nil
}

// baseForOrientationLocked picks the dataset whose frame anchors a new
// orientation: the named one, or the first with valid coordinates.
func (m *Manager) baseForOrientationLocked(wrtData string) *dataset.Dataset {
	if wrtData != "" {
		d := m.coll.Get(wrtData)
		if d != nil && d.HasValidWCS() {
			return d
		}
		return nil
	}
	for _, d := range m.coll.All() {
		if d.Kind == dataset.KindData && d.HasValidWCS() {
			return d
		}
	}
	return nil
}

// CreateNorthUpEastLeft adds the standard north-up east-left layer.
func (m *Manager) CreateNorthUpEastLeft(viewerID string, setOnCreate bool) (string, error) {
	return m.AddOrientation(0, true, NorthUpEastLeftLabel, setOnCreate, "", viewerID)
}

// CreateNorthUpEastRight adds the standard north-up east-right layer.
func (m *Manager) CreateNorthUpEastRight(viewerID string, setOnCreate bool) (string, error) {
	return m.AddOrientation(0, false, NorthUpEastRightLabel, setOnCreate, "", viewerID)
}

// RemoveOrientation deletes an orientation layer. Viewers using it move
// to another orientation; with no fallback orientation available the
// removal is rejected whole. Subsets anchored to it are reparented with
// their geometry re-expressed in the fallback frame.
func (m *Manager) RemoveOrientation(label string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := m.coll.Get(label)
	if d == nil {
		return fmt.Errorf("dataset %q not in collection", label)
	}
	if d.Kind != dataset.KindOrientation {
		return fmt.Errorf("dataset %q is not an orientation layer", label)
	}

	var fallback string
	for _, l := range m.coll.OrientationLabels() {
		if l != label {
			fallback = l
			break
		}
	}

	inUse := false
	for _, v := range m.viewers {
		if v.Reference() == label {
			inUse = true
			break
		}
	}
	if inUse && fallback == "" {
		return &errs.UnsafeStateTransitionError{
			Reason: fmt.Sprintf("cannot remove orientation %q while it is a viewer reference with no other orientation available", label),
		}
	}

	if fallback != "" {
		if s := m.model.Current(); s != nil {
			remap := func(x, y float64) (float64, float64, bool) {
				return s.Transform(label, fallback, x, y)
			}
			for _, sub := range m.subsets.WithParent(label) {
				if err := annotate.Reparent(sub, fallback, remap); err != nil {
					return err
				}
			}
		}
		for _, v := range m.viewers {
			if v.Reference() == label {
				m.setViewerReferenceLocked(v, fallback)
			}
		}
	}

	if err := m.coll.Remove(label); err != nil {
		return err
	}
	if err := m.relinkLocked(); err != nil {
		// Put the entry back so a rejected removal does not leave the
		// collection and the link set disagreeing.
		m.coll.Add(d)
		return err
	}
	m.hub.Emit(event.DataRemoved, event.DataPayload{Label: label})
	return nil
}

// relinkLocked recomputes the link set after a collection change,
// keeping the current scheme and reference.
func (m *Manager) relinkLocked() error {
	reference := m.currentReferenceLocked()
	if reference == "" || !m.coll.Has(reference) {
		labels := m.coll.DataLabels()
		if len(labels) == 0 {
			m.model.Swap(nil)
			return nil
		}
		reference = labels[0]
	}

	opts := m.opts
	opts.FallbackPixels = true
	opts.ErrorOnFail = false
	set, err := link.Compute(m.coll, m.scheme, reference, opts)
	if err != nil {
		return err
	}
	if set != nil {
		m.model.Swap(set)
	}
	return nil
}

// Relink rebuilds links against the current scheme, for callers that
// changed the collection directly.
func (m *Manager) Relink() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.relinkLocked()
}
