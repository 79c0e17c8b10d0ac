package main

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/cptspacemanspiff/battery-tracker/internal/chart"
	"github.com/cptspacemanspiff/battery-tracker/internal/storage"
)

const (
	padLeft   = 15
	padRight  = 50
	padTop    = 15
	padBottom = 30
	lineWidth = 3
	labelSize = 11
)

// batteryGraph draws a chart.Plot: grid, filled area, line and labels.
type batteryGraph struct {
	widget.BaseWidget
	plot chart.Plot
}

func newBatteryGraph() *batteryGraph {
	g := &batteryGraph{plot: chart.Build(nil)}
	g.ExtendBaseWidget(g)
	return g
}

// SetPlot replaces the drawn plot. Call on the Fyne thread.
func (g *batteryGraph) SetPlot(p chart.Plot) {
	g.plot = p
	g.Refresh()
}

func (g *batteryGraph) MinSize() fyne.Size {
	return fyne.NewSize(480, 240)
}

func (g *batteryGraph) CreateRenderer() fyne.WidgetRenderer {
	r := &graphRenderer{g: g, bg: canvas.NewRectangle(colorPanelBg)}
	r.fill = canvas.NewRaster(r.fillImage)
	r.rebuild()
	return r
}

type graphRenderer struct {
	g      *batteryGraph
	bg     *canvas.Rectangle
	fill   *canvas.Raster
	grid   []*canvas.Line
	series []*canvas.Line
	labels []*canvas.Text
	// anchors are the data coordinates of labels, index for index.
	anchors []storage.Point

	objects []fyne.CanvasObject
	size    fyne.Size
}

// rebuild recreates the per-point objects after the plot changed.
func (r *graphRenderer) rebuild() {
	p := r.g.plot

	r.grid = r.grid[:0]
	for range p.YLabels {
		line := canvas.NewLine(colorGrid)
		line.StrokeWidth = 1
		r.grid = append(r.grid, line)
	}

	r.series = r.series[:0]
	for i := 1; i < len(p.Line); i++ {
		line := canvas.NewLine(colorSeriesLine)
		line.StrokeWidth = lineWidth
		r.series = append(r.series, line)
	}

	r.labels = r.labels[:0]
	r.anchors = r.anchors[:0]
	for _, l := range append(append([]chart.Label(nil), p.YLabels...), p.XLabels...) {
		t := canvas.NewText(l.Text, colorAxisLabel)
		t.TextSize = labelSize
		r.labels = append(r.labels, t)
		r.anchors = append(r.anchors, storage.Point{X: l.X, Y: l.Y})
	}

	r.objects = r.objects[:0]
	r.objects = append(r.objects, r.bg)
	for _, o := range r.grid {
		r.objects = append(r.objects, o)
	}
	r.objects = append(r.objects, r.fill)
	for _, o := range r.series {
		r.objects = append(r.objects, o)
	}
	for _, o := range r.labels {
		r.objects = append(r.objects, o)
	}
}

func (r *graphRenderer) plotArea() (fyne.Position, float32, float32) {
	w := r.size.Width - padLeft - padRight
	h := r.size.Height - padTop - padBottom
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return fyne.NewPos(padLeft, padTop), w, h
}

func (r *graphRenderer) project(pt storage.Point) fyne.Position {
	origin, w, h := r.plotArea()
	x, y := r.g.plot.Bounds.Project(pt, float64(w), float64(h))
	return fyne.NewPos(origin.X+float32(x), origin.Y+float32(y))
}

func (r *graphRenderer) Layout(size fyne.Size) {
	r.size = size
	r.bg.Resize(size)

	p := r.g.plot
	origin, w, h := r.plotArea()
	r.fill.Move(origin)
	r.fill.Resize(fyne.NewSize(w, h))

	for i, l := range p.YLabels {
		r.grid[i].Position1 = r.project(storage.Point{X: p.Bounds.MinX, Y: l.Y})
		r.grid[i].Position2 = r.project(storage.Point{X: p.Bounds.MaxX, Y: l.Y})
	}
	for i, line := range r.series {
		line.Position1 = r.project(p.Line[i])
		line.Position2 = r.project(p.Line[i+1])
	}
	for i, t := range r.labels {
		at := r.project(r.anchors[i])
		ts := fyne.MeasureText(t.Text, t.TextSize, t.TextStyle)
		if r.anchors[i].Y < p.Bounds.MinY {
			t.Move(timeLabelPos(at.X, origin.Y+h, ts))
		} else {
			t.Move(fyne.NewPos(at.X, at.Y-ts.Height/2))
		}
	}
}

func (r *graphRenderer) MinSize() fyne.Size {
	return r.g.MinSize()
}

func (r *graphRenderer) Refresh() {
	r.rebuild()
	r.Layout(r.size)
	r.fill.Refresh()
	canvas.Refresh(r.g)
}

func (r *graphRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *graphRenderer) Destroy() {}

// fillImage paints the area under the line at the raster's pixel size.
func (r *graphRenderer) fillImage(w, h int) image.Image {
	return fillArea(r.g.plot, w, h)
}

// timeLabelPos centres a time label of size ts under x, inside the bottom
// padding band that starts at plotBottom.
func timeLabelPos(x, plotBottom float32, ts fyne.Size) fyne.Position {
	y := plotBottom + (padBottom-ts.Height)/2
	if y < plotBottom {
		y = plotBottom
	}
	return fyne.NewPos(x-ts.Width/2, y)
}
