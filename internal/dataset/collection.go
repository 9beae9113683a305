package dataset

import (
	"fmt"
	"sort"
	"sync"
)

// Collection is the label-keyed set of loaded datasets. Iteration order
// follows insertion order; labels are unique.
type Collection struct {
	mu    sync.RWMutex
	order []string
	byLbl map[string]*Dataset
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{byLbl: make(map[string]*Dataset)}
}

// Add inserts a dataset. Duplicate labels are rejected.
func (c *Collection) Add(d *Dataset) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.byLbl[d.Label]; exists {
		return fmt.Errorf("dataset label %q already in collection", d.Label)
	}
	c.byLbl[d.Label] = d
	c.order = append(c.order, d.Label)
	return nil
}

// Remove deletes the labeled dataset.
func (c *Collection) Remove(label string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.byLbl[label]; !exists {
		return fmt.Errorf("dataset %q not in collection", label)
	}
	delete(c.byLbl, label)
	for i, l := range c.order {
		if l == label {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get returns the labeled dataset, or nil if absent.
func (c *Collection) Get(label string) *Dataset {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byLbl[label]
}

// Has reports whether a label is present.
func (c *Collection) Has(label string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.byLbl[label]
	return ok
}

// Labels returns all labels in insertion order.
func (c *Collection) Labels() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// All returns datasets in insertion order.
func (c *Collection) All() []*Dataset {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Dataset, 0, len(c.order))
	for _, l := range c.order {
		out = append(out, c.byLbl[l])
	}
	return out
}

// DataLabels returns labels of real (non-orientation) datasets.
func (c *Collection) DataLabels() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []string
	for _, l := range c.order {
		if c.byLbl[l].Kind == KindData {
			out = append(out, l)
		}
	}
	return out
}

// OrientationLabels returns labels of synthetic orientation entries,
// sorted for stable presentation.
func (c *Collection) OrientationLabels() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []string
	for _, l := range c.order {
		if c.byLbl[l].Kind == KindOrientation {
			out = append(out, l)
		}
	}
	sort.Strings(out)
	return out
}

// Len returns the number of entries.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}
