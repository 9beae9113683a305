package readout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skyviz/internal/dataset"
	"skyviz/internal/link"
	"skyviz/internal/viewer"
	"skyviz/pkg/wcs"
)

// frame whose pixel origin sits exactly on a known sky coordinate so
// the formatted output is predictable
func originFrame() *wcs.AffineFrame {
	cdelt := 0.11 / 3600
	return wcs.NewTanFrame(0, 0, 337.5202808, -20.833333059999998, -cdelt, cdelt, 0)
}

type fixture struct {
	coll   *dataset.Collection
	model  *link.Model
	engine *Engine
	view   *viewer.Viewer
}

func newFixture(t *testing.T, datasets ...*dataset.Dataset) *fixture {
	t.Helper()
	f := &fixture{
		coll:  dataset.NewCollection(),
		model: link.NewModel(),
		view:  viewer.New("viewer-1"),
	}
	for _, d := range datasets {
		require.NoError(t, f.coll.Add(d))
		f.view.AddLayer(d.Label)
	}
	f.engine = NewEngine(f.coll, f.model)

	if len(datasets) > 0 {
		ref := datasets[0].Label
		set, err := link.Compute(f.coll, link.SchemePixels, ref, link.Options{})
		require.NoError(t, err)
		f.model.Swap(set)
		f.view.SetReference(ref)
	}
	return f
}

func TestReadoutLines(t *testing.T) {
	img := dataset.New("img", originFrame(), dataset.UniformComponent("SCI", "", 10, 10, 0))
	f := newFixture(t, img)

	res, err := f.engine.Resolve(f.view, 0, 0)
	require.NoError(t, err)

	pixel, sexa, deg := res.Active.Lines()
	assert.Equal(t, "Pixel x=00.0 y=00.0 Value +0.00000e+00", pixel)
	assert.Equal(t, "World 22h30m04.8674s -20d49m59.9990s (ICRS)", sexa)
	assert.Equal(t, "337.5202808000 -20.8333330600 (deg)", deg)
}

func TestReadoutLinesWithUnit(t *testing.T) {
	img := dataset.New("img", originFrame(), dataset.UniformComponent("SCI", "MJy/sr", 10, 10, 1))
	f := newFixture(t, img)

	res, err := f.engine.Resolve(f.view, 2, 3)
	require.NoError(t, err)

	pixel, _, _ := res.Active.Lines()
	assert.Equal(t, "Pixel x=02.0 y=03.0 Value +1.00000e+00 MJy/sr", pixel)
}

func TestReadoutOmitsWorldWithoutWCS(t *testing.T) {
	img := dataset.New("img", nil, dataset.UniformComponent("SCI", "", 10, 10, 5))
	f := newFixture(t, img)

	res, err := f.engine.Resolve(f.view, 1, 1)
	require.NoError(t, err)

	assert.False(t, res.Active.HasWorld)
	_, sexa, deg := res.Active.Lines()
	assert.Empty(t, sexa)
	assert.Empty(t, deg)
}

func TestReadoutReliabilityFlags(t *testing.T) {
	img := dataset.New("img", originFrame(), dataset.UniformComponent("SCI", "", 10, 10, 7))
	f := newFixture(t, img)

	res, err := f.engine.Resolve(f.view, 5, 5)
	require.NoError(t, err)
	assert.False(t, res.Active.PixelUnreliable)
	assert.False(t, res.Active.WorldUnreliable)
	assert.False(t, res.Active.ValueUnreliable)

	// outside the 10x10 extent everything still reads out, flagged
	res, err = f.engine.Resolve(f.view, 25, 25)
	require.NoError(t, err)
	assert.True(t, res.Active.PixelUnreliable)
	assert.True(t, res.Active.WorldUnreliable)
	assert.True(t, res.Active.ValueUnreliable)
	assert.True(t, res.Active.HasWorld, "extrapolated world position is shown, not suppressed")
	assert.True(t, res.Active.HasValue, "clamped value is shown, not suppressed")
	assert.Equal(t, 7.0, res.Active.Value)
}

func TestReadoutUsesTopVisibleLayer(t *testing.T) {
	a := dataset.New("a", nil, dataset.UniformComponent("SCI", "", 10, 10, 1))
	b := dataset.New("b", nil, dataset.UniformComponent("SCI", "", 10, 10, 2))
	f := newFixture(t, a, b)

	res, err := f.engine.Resolve(f.view, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "b", res.Active.Label)
	assert.Len(t, res.Rows, 2)

	require.NoError(t, f.view.SetVisible("b", false))
	res, err = f.engine.Resolve(f.view, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "a", res.Active.Label)
}

func TestReadoutNoReferenceData(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.Resolve(f.view, 0, 0)
	require.Error(t, err)
	assert.Equal(t, "No reference data for link look-up", err.Error())
}

func TestRowForUnknownLabel(t *testing.T) {
	img := dataset.New("img", nil, dataset.UniformComponent("SCI", "", 10, 10, 1))
	f := newFixture(t, img)

	_, err := f.engine.RowFor(f.view, "ghost", 0, 0)
	require.Error(t, err)
	assert.Equal(t, "ghost not found in data collection external links", err.Error())
}

func TestRowForKnownLabel(t *testing.T) {
	a := dataset.New("a", nil, dataset.UniformComponent("SCI", "", 10, 10, 1))
	b := dataset.New("b", nil, dataset.UniformComponent("SCI", "", 10, 10, 2))
	f := newFixture(t, a, b)

	row, err := f.engine.RowFor(f.view, "b", 4, 4)
	require.NoError(t, err)
	assert.Equal(t, "b", row.Label)
	assert.Equal(t, 2.0, row.Value)
}

func TestNegativePixelFormatting(t *testing.T) {
	row := Row{X: -1, Y: 9.75}
	pixel, _, _ := row.Lines()
	assert.Equal(t, "Pixel x=-1.0 y=09.8", pixel)
}
