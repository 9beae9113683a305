package link

import (
	"sync"

	"skyviz/pkg/errs"
)

// Model holds the current link set. Readers take a snapshot and work
// against it; writers build a new set off to the side and swap it in,
// so lookups never observe a half-built state.
type Model struct {
	mu  sync.RWMutex
	cur *Set
}

// NewModel returns a model with no links established.
func NewModel() *Model {
	return &Model{}
}

// Current returns the active set, or nil before the first swap.
func (m *Model) Current() *Set {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cur
}

// Swap installs a new set, returning the one it replaces.
func (m *Model) Swap(s *Set) *Set {
	m.mu.Lock()
	defer m.mu.Unlock()
	old := m.cur
	m.cur = s
	return old
}

// LinkTypeBetween reports how two labeled datasets are related:
// "self", "pixels" or "wcs".
func (m *Model) LinkTypeBetween(a, b string) (string, error) {
	s := m.Current()
	if s == nil {
		return "", errs.ErrNoReferenceData
	}
	if a == b {
		return "self", nil
	}

	var missing []string
	if !s.Has(a) {
		missing = append(missing, a)
	}
	if !s.Has(b) {
		missing = append(missing, b)
	}
	if len(missing) > 0 {
		return "", &errs.LinkLookupError{Labels: missing}
	}

	// A dataset pixel-linked by the fallback stays pixel-related even
	// when the rest of the collection is aligned on coordinates.
	if s.scheme == SchemeWCS {
		la, _ := s.LinkFor(a)
		lb, _ := s.LinkFor(b)
		if la.Type == PixelIdentity || lb.Type == PixelIdentity {
			return string(SchemePixels), nil
		}
	}
	return string(s.scheme), nil
}
