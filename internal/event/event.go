// Package event is a small in-process hub for state-change
// notifications: link recomputes, reference changes, collection edits
// and marker updates.
package event

import "sync"

// Type identifies a category of application event.
type Type int

const (
	// LinkChanged fires after the link set has been atomically swapped.
	LinkChanged Type = iota
	// RefDataChanged fires when a viewer's reference dataset changes.
	RefDataChanged
	// DataAdded fires when a dataset enters the collection.
	DataAdded
	// DataRemoved fires when a dataset leaves the collection.
	DataRemoved
	// MarkersChanged fires when markers are added, cleared or dropped.
	MarkersChanged
)

func (t Type) String() string {
	switch t {
	case LinkChanged:
		return "link-changed"
	case RefDataChanged:
		return "ref-data-changed"
	case DataAdded:
		return "data-added"
	case DataRemoved:
		return "data-removed"
	case MarkersChanged:
		return "markers-changed"
	default:
		return "unknown"
	}
}

// LinkChangedPayload describes a completed relink.
type LinkChangedPayload struct {
	LinkType  string
	Reference string
}

// RefDataChangedPayload describes a viewer reference switch.
type RefDataChangedPayload struct {
	ViewerID string
	OldLabel string
	NewLabel string
}

// DataPayload names a dataset added to or removed from the collection.
type DataPayload struct {
	Label string
}

// Listener receives the payload of an emitted event.
type Listener func(data interface{})

// Hub dispatches events to registered listeners. Listeners run
// synchronously on the emitting goroutine, in registration order.
type Hub struct {
	mu        sync.RWMutex
	listeners map[Type][]Listener
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{listeners: make(map[Type][]Listener)}
}

// On registers a listener for the given event type.
func (h *Hub) On(t Type, l Listener) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners[t] = append(h.listeners[t], l)
}

// Emit invokes all listeners registered for the event type.
func (h *Hub) Emit(t Type, data interface{}) {
	h.mu.RLock()
	ls := h.listeners[t]
	h.mu.RUnlock()

	for _, l := range ls {
		l(data)
	}
}
