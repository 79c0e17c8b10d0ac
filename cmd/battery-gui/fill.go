package main

import (
	"image"
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/cptspacemanspiff/battery-tracker/internal/chart"
)

// fillArea paints the plot's area polygon into a w×h image, projected with
// the plot bounds. Vertices that do not project to finite pixels are left
// out of the path.
func fillArea(p chart.Plot, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))
	if len(p.Area) < 3 || w <= 0 || h <= 0 {
		return img
	}

	gc, err := drawing.NewRasterGraphicContext(img)
	if err != nil {
		return img
	}
	gc.SetFillColor(colorSeriesFill)

	started := false
	for _, pt := range p.Area {
		x, y := p.Bounds.Project(pt, float64(w), float64(h))
		if !finite(x) || !finite(y) {
			continue
		}
		if !started {
			gc.MoveTo(x, y)
			started = true
			continue
		}
		gc.LineTo(x, y)
	}
	if !started {
		return img
	}
	gc.Close()
	gc.Fill()
	return img
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
