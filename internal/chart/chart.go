// Package chart turns a day of battery points into plot geometry: the line,
// the filled area beneath it, and the axis labels. Drawing is left to the
// caller's rendering surface.
package chart

import (
	"fmt"
	"math"

	"github.com/cptspacemanspiff/battery-tracker/internal/storage"
)

// View bounds. The chart always shows a whole day against the full
// percentage range, whatever the data.
const (
	MinX = 0.0
	MaxX = 24.0
	MinY = 0.0
	MaxY = 100.0
)

const (
	percentLabelX = 24.5
	timeLabelY    = -8.0
	percentStep   = 25
	nowLabel      = "now"
)

// Bounds is the visible data rectangle.
type Bounds struct {
	MinX, MaxX, MinY, MaxY float64
}

// Label is text anchored at a data coordinate.
type Label struct {
	X, Y float64
	Text string
}

// Plot is everything a renderer needs to draw the battery chart.
type Plot struct {
	Bounds Bounds
	// Line connects the points in the order given.
	Line []storage.Point
	// Area is the closed polygon under Line, down to Y=0. Empty when there
	// are no points.
	Area    []storage.Point
	YLabels []Label
	XLabels []Label
}

// Build computes the plot for points, which are expected in time order.
func Build(points []storage.Point) Plot {
	p := Plot{
		Bounds: Bounds{MinX: MinX, MaxX: MaxX, MinY: MinY, MaxY: MaxY},
		Line:   append([]storage.Point(nil), points...),
	}

	for y := 0; y <= int(MaxY); y += percentStep {
		p.YLabels = append(p.YLabels, Label{X: percentLabelX, Y: float64(y), Text: fmt.Sprintf("%d%%", y)})
	}

	n := len(points)
	if n == 0 {
		return p
	}

	first, last := points[0], points[n-1]
	p.Area = make([]storage.Point, 0, n+2)
	p.Area = append(p.Area, storage.Point{X: first.X, Y: 0})
	p.Area = append(p.Area, points...)
	p.Area = append(p.Area, storage.Point{X: last.X, Y: 0})

	p.XLabels = append(p.XLabels, Label{X: first.X, Y: timeLabelY, Text: FormatTime(first.X)})
	if n > 2 {
		mid := points[n/2].X
		p.XLabels = append(p.XLabels, Label{X: mid, Y: timeLabelY, Text: FormatTime(mid)})
	}
	p.XLabels = append(p.XLabels, Label{X: last.X, Y: timeLabelY, Text: nowLabel})

	return p
}

// FormatTime renders a fractional hour as HH:MM. Minutes that round up to 60
// carry into the hour, and hour 24 wraps to 00, so 23.999 is "00:00".
func FormatTime(hour float64) string {
	h := int(math.Floor(hour))
	m := int(math.Round((hour - float64(h)) * 60))
	if m == 60 {
		h++
		m = 0
	}
	h = ((h % 24) + 24) % 24
	return fmt.Sprintf("%02d:%02d", h, m)
}

// Project maps a data point into a w×h pixel box with the origin at the top
// left, as drawing surfaces expect.
func (b Bounds) Project(p storage.Point, w, h float64) (float64, float64) {
	x := (p.X - b.MinX) / (b.MaxX - b.MinX) * w
	y := h - (p.Y-b.MinY)/(b.MaxY-b.MinY)*h
	return x, y
}
