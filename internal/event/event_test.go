package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHubDispatchesInOrder(t *testing.T) {
	h := NewHub()
	var got []string

	h.On(LinkChanged, func(data interface{}) { got = append(got, "first") })
	h.On(LinkChanged, func(data interface{}) { got = append(got, "second") })
	h.On(DataAdded, func(data interface{}) { got = append(got, "other") })

	h.Emit(LinkChanged, nil)
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestHubPayload(t *testing.T) {
	h := NewHub()
	var payload LinkChangedPayload

	h.On(LinkChanged, func(data interface{}) {
		payload = data.(LinkChangedPayload)
	})
	h.Emit(LinkChanged, LinkChangedPayload{LinkType: "wcs", Reference: "Default orientation"})

	assert.Equal(t, "wcs", payload.LinkType)
	assert.Equal(t, "Default orientation", payload.Reference)
}

func TestHubNoListeners(t *testing.T) {
	h := NewHub()
	assert.NotPanics(t, func() { h.Emit(MarkersChanged, 3) })
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "link-changed", LinkChanged.String())
	assert.Equal(t, "ref-data-changed", RefDataChanged.String())
	assert.Equal(t, "markers-changed", MarkersChanged.String())
}
