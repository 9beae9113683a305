// Package annotate holds user annotations layered on the data: point
// markers captured from the cursor readout and region subsets that can
// be reparented between datasets.
package annotate

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Marker is a point annotation pinned to a dataset. The three
// reliability flags record which parts of the captured readout were
// extrapolated or unavailable when the marker was placed.
type Marker struct {
	ID        string
	ViewerID  string
	DataLabel string

	// Pixel position on the marker's own dataset.
	X, Y float64

	// Celestial position, valid only when the dataset has a frame.
	Lon, Lat float64
	HasWorld bool

	Value float64
	Unit  string

	PixelUnreliable bool
	WorldUnreliable bool
	ValueUnreliable bool
}

// NewMarker assigns a fresh identifier to the marker.
func NewMarker(m Marker) Marker {
	m.ID = uuid.NewString()
	return m
}

// MarkerStore is the table of placed markers. Safe for concurrent use.
type MarkerStore struct {
	mu      sync.RWMutex
	markers []Marker
	log     *slog.Logger
}

// NewMarkerStore returns an empty store.
func NewMarkerStore(log *slog.Logger) *MarkerStore {
	if log == nil {
		log = slog.Default()
	}
	return &MarkerStore{log: log}
}

// Add appends a marker, assigning its identifier, and returns the
// stored copy.
func (s *MarkerStore) Add(m Marker) Marker {
	m = NewMarker(m)
	s.mu.Lock()
	s.markers = append(s.markers, m)
	s.mu.Unlock()
	return m
}

// All returns a copy of the marker table in placement order.
func (s *MarkerStore) All() []Marker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Marker, len(s.markers))
	copy(out, s.markers)
	return out
}

// Len returns the number of placed markers.
func (s *MarkerStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.markers)
}

// Clear removes all markers.
func (s *MarkerStore) Clear() {
	s.mu.Lock()
	s.markers = nil
	s.mu.Unlock()
}

// DropForData removes markers anchored to the labeled dataset and
// returns them.
func (s *MarkerStore) DropForData(label string) []Marker {
	s.mu.Lock()
	defer s.mu.Unlock()

	var kept, dropped []Marker
	for _, m := range s.markers {
		if m.DataLabel == label {
			dropped = append(dropped, m)
		} else {
			kept = append(kept, m)
		}
	}
	s.markers = kept
	return dropped
}

// DropWorldless removes markers whose dataset has no celestial frame,
// as reported by hasWCS. Such markers cannot survive a switch to
// coordinate-based alignment. Returns the dropped markers.
func (s *MarkerStore) DropWorldless(hasWCS func(label string) bool) []Marker {
	s.mu.Lock()
	defer s.mu.Unlock()

	var kept, dropped []Marker
	for _, m := range s.markers {
		if hasWCS(m.DataLabel) {
			kept = append(kept, m)
		} else {
			dropped = append(dropped, m)
		}
	}
	if len(dropped) > 0 {
		s.log.Warn("dropping markers on data without celestial coordinates",
			"count", len(dropped))
	}
	s.markers = kept
	return dropped
}
