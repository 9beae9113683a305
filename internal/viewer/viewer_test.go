package viewer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetLimits(t *testing.T) {
	v := New("viewer-1")
	v.ResetLimits(10, 8)

	l := v.Limits()
	assert.Equal(t, -0.5, l.XMin)
	assert.Equal(t, 9.5, l.XMax)
	assert.Equal(t, -0.5, l.YMin)
	assert.Equal(t, 7.5, l.YMax)
}

func TestTopVisibleDataLabel(t *testing.T) {
	v := New("viewer-1")
	assert.Empty(t, v.TopVisibleDataLabel())

	v.AddLayer("a")
	v.AddLayer("b")
	assert.Equal(t, "b", v.TopVisibleDataLabel())

	require.NoError(t, v.SetVisible("b", false))
	assert.Equal(t, "a", v.TopVisibleDataLabel())

	require.NoError(t, v.SetVisible("a", false))
	assert.Empty(t, v.TopVisibleDataLabel())

	assert.Error(t, v.SetVisible("missing", true))
}

func TestBlinkCycles(t *testing.T) {
	v := New("viewer-1")
	v.AddLayer("a")
	v.AddLayer("b")
	v.AddLayer("c")

	assert.Equal(t, "b", v.BlinkNext())
	assert.Equal(t, "b", v.TopVisibleDataLabel())

	assert.Equal(t, "c", v.BlinkNext())
	assert.Equal(t, "a", v.BlinkNext())
	assert.Equal(t, "c", v.BlinkPrev())
}

func TestBlinkEmptyViewer(t *testing.T) {
	v := New("viewer-1")
	assert.Empty(t, v.BlinkNext())
}

func TestAddLayerIdempotent(t *testing.T) {
	v := New("viewer-1")
	v.AddLayer("a")
	v.AddLayer("a")
	assert.Len(t, v.Layers(), 1)
}

func TestRemoveLayer(t *testing.T) {
	v := New("viewer-1")
	v.AddLayer("a")
	v.AddLayer("b")
	v.RemoveLayer("a")

	assert.False(t, v.HasLayer("a"))
	assert.True(t, v.HasLayer("b"))
}

func TestMapThrough(t *testing.T) {
	l := Limits{XMin: 0, XMax: 10, YMin: 0, YMax: 4}

	flip := func(x, y float64) (float64, float64, bool) { return -x, y, true }
	mapped, ok := l.MapThrough(flip)
	require.True(t, ok)
	assert.Equal(t, -10.0, mapped.XMin)
	assert.Equal(t, 0.0, mapped.XMax)
	assert.Equal(t, 0.0, mapped.YMin)
	assert.Equal(t, 4.0, mapped.YMax)

	fail := func(x, y float64) (float64, float64, bool) { return 0, 0, false }
	_, ok = l.MapThrough(fail)
	assert.False(t, ok)
}
