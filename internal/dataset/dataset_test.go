package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skyviz/pkg/wcs"
)

func testImage(label string) *Dataset {
	cdelt := 0.11 / 3600
	frame := wcs.NewTanFrame(4.5, 4.5, 150, 2.3, -cdelt, cdelt, 0)
	return New(label, frame, UniformComponent("SCI", "MJy/sr", 10, 10, 1))
}

func TestNewDefaultsToNoneFrame(t *testing.T) {
	d := New("bare", nil)
	require.NotNil(t, d.Frame)
	assert.False(t, d.HasValidWCS())
}

func TestShapeAndValue(t *testing.T) {
	d := testImage("img")

	w, h := d.Shape()
	assert.Equal(t, 10, w)
	assert.Equal(t, 10, h)

	val, unit, ok := d.Value(3.2, 6.9)
	require.True(t, ok)
	assert.Equal(t, 1.0, val)
	assert.Equal(t, "MJy/sr", unit)

	_, _, ok = d.Value(42, 0)
	assert.False(t, ok)
}

func TestComponentLookup(t *testing.T) {
	d := testImage("img")

	c, err := d.Component("SCI")
	require.NoError(t, err)
	assert.Equal(t, "SCI", c.Name)

	_, err = d.Component("ERR")
	assert.Error(t, err)
}

func TestComponentAt(t *testing.T) {
	c := UniformComponent("SCI", "", 4, 3, 7)

	v, ok := c.At(3, 2)
	require.True(t, ok)
	assert.Equal(t, 7.0, v)

	_, ok = c.At(4, 0)
	assert.False(t, ok)
	_, ok = c.At(0, -1)
	assert.False(t, ok)
}

func TestOrientationDataset(t *testing.T) {
	d := NewOrientation("North-up, East-left", testImage("base").Frame, "base", 0, true)

	assert.Equal(t, KindOrientation, d.Kind)
	assert.True(t, d.HasValidWCS())

	w, h := d.Shape()
	assert.Zero(t, w)
	assert.Zero(t, h)

	_, _, ok := d.Value(0, 0)
	assert.False(t, ok)
}

func TestCollectionAddRemove(t *testing.T) {
	c := NewCollection()

	require.NoError(t, c.Add(testImage("a")))
	require.NoError(t, c.Add(testImage("b")))
	assert.Error(t, c.Add(testImage("a")), "duplicate label must be rejected")

	assert.Equal(t, []string{"a", "b"}, c.Labels())
	assert.True(t, c.Has("a"))
	assert.Nil(t, c.Get("missing"))

	require.NoError(t, c.Remove("a"))
	assert.Error(t, c.Remove("a"))
	assert.Equal(t, []string{"b"}, c.Labels())
}

func TestCollectionKindFilters(t *testing.T) {
	c := NewCollection()
	require.NoError(t, c.Add(testImage("img")))
	require.NoError(t, c.Add(NewOrientation("Default orientation", testImage("x").Frame, "img", 0, true)))
	require.NoError(t, c.Add(NewOrientation("CCW 30.00 deg (E-left)", testImage("x").Frame, "img", 30, true)))

	assert.Equal(t, []string{"img"}, c.DataLabels())
	assert.Equal(t, []string{"CCW 30.00 deg (E-left)", "Default orientation"}, c.OrientationLabels())
	assert.Equal(t, 3, c.Len())
}
