package main

import (
	"math"
	"testing"

	"fyne.io/fyne/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cptspacemanspiff/battery-tracker/internal/chart"
	"github.com/cptspacemanspiff/battery-tracker/internal/storage"
)

func TestFillArea_FillsBelowLineOnly(t *testing.T) {
	p := chart.Build([]storage.Point{{X: 0, Y: 50}, {X: 24, Y: 50}})

	img := fillArea(p, 100, 100)
	require.Equal(t, 100, img.Bounds().Dx())

	_, _, _, below := img.At(50, 75).RGBA()
	_, _, _, above := img.At(50, 25).RGBA()
	assert.NotZero(t, below)
	assert.Zero(t, above)
}

func TestFillArea_EmptyPlot(t *testing.T) {
	img := fillArea(chart.Build(nil), 40, 20)
	for _, px := range img.Pix {
		require.Zero(t, px)
	}

	assert.NotPanics(t, func() { fillArea(chart.Build(nil), 0, -3) })
}

func TestFillArea_NonFiniteVertices(t *testing.T) {
	p := chart.Build(nil)
	p.Area = []storage.Point{
		{X: 0, Y: 0},
		{X: math.NaN(), Y: 50},
		{X: 12, Y: math.Inf(1)},
		{X: 0, Y: 50},
		{X: 24, Y: 50},
		{X: 24, Y: 0},
	}

	assert.NotPanics(t, func() {
		img := fillArea(p, 100, 100)
		_, _, _, below := img.At(50, 75).RGBA()
		assert.NotZero(t, below)
	})
}

func TestTimeLabelPos_InsideBottomPadding(t *testing.T) {
	ts := fyne.NewSize(30, 14)
	pos := timeLabelPos(100, 200, ts)

	assert.Equal(t, float32(85), pos.X)
	assert.GreaterOrEqual(t, pos.Y, float32(200))
	assert.LessOrEqual(t, pos.Y+ts.Height, float32(200+padBottom))

	tall := fyne.NewSize(30, padBottom+10)
	assert.Equal(t, float32(200), timeLabelPos(100, 200, tall).Y)
}
