package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/cptspacemanspiff/battery-tracker/internal/chart"
	"github.com/cptspacemanspiff/battery-tracker/internal/storage"
)

var (
	seriesLine = drawing.Color{R: 120, G: 150, B: 255, A: 255}
	seriesFill = drawing.Color{R: 120, G: 150, B: 255, A: 120}
)

var (
	pngOut    string
	pngWidth  int
	pngHeight int
)

var pngCmd = &cobra.Command{
	Use:   "png",
	Short: "Write the last day of battery charge as a PNG chart",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if pngWidth < 100 || pngHeight < 100 {
			return fmt.Errorf("chart must be at least 100x100 pixels, got %dx%d", pngWidth, pngHeight)
		}
		res, err := loadLog()
		if err != nil {
			return err
		}

		f, err := os.Create(pngOut)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		if err := renderPNG(f, chart.Build(res.Points), pngWidth, pngHeight); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d points)\n", pngOut, len(res.Points))
		return nil
	},
}

func init() {
	pngCmd.Flags().StringVarP(&pngOut, "output", "o", "battery_chart.png", "output file")
	pngCmd.Flags().IntVar(&pngWidth, "width", 1024, "image width in pixels")
	pngCmd.Flags().IntVar(&pngHeight, "height", 480, "image height in pixels")
	rootCmd.AddCommand(pngCmd)
}

// renderPNG draws p with go-chart. The axes are pinned to the plot bounds,
// so an empty day still renders as an empty 24 h frame.
func renderPNG(w io.Writer, p chart.Plot, width, height int) error {
	series := []gochart.Series{lineSeries(p.Line)}
	if len(p.Line) == 0 {
		series[0] = gochart.ContinuousSeries{
			XValues: []float64{p.Bounds.MinX, p.Bounds.MaxX},
			YValues: []float64{p.Bounds.MinY, p.Bounds.MinY},
			Style:   gochart.Style{Hidden: true},
		}
	}

	ch := gochart.Chart{
		Width:      width,
		Height:     height,
		Background: gochart.Style{Padding: gochart.Box{Top: 20, Left: 16, Right: 16, Bottom: 16}},
		XAxis: gochart.XAxis{
			Name:  "time",
			Range: &gochart.ContinuousRange{Min: p.Bounds.MinX, Max: p.Bounds.MaxX},
			Ticks: xTicks(p.XLabels),
		},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: p.Bounds.MinY, Max: p.Bounds.MaxY},
			Ticks: yTicks(p.YLabels),
		},
		Series: series,
	}
	if err := ch.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

func lineSeries(points []storage.Point) gochart.ContinuousSeries {
	s := gochart.ContinuousSeries{
		Name:    "battery",
		XValues: make([]float64, len(points)),
		YValues: make([]float64, len(points)),
		Style: gochart.Style{
			StrokeColor: seriesLine,
			StrokeWidth: 3,
			FillColor:   seriesFill,
		},
	}
	for i, pt := range points {
		s.XValues[i] = pt.X
		s.YValues[i] = pt.Y
	}
	return s
}

// xTicks and yTicks turn plot labels into axis ticks. go-chart draws tick
// labels along the axis itself, so only the coordinate on that axis is kept.
func xTicks(labels []chart.Label) []gochart.Tick {
	var out []gochart.Tick
	for _, l := range labels {
		out = append(out, gochart.Tick{Value: l.X, Label: l.Text})
	}
	return out
}

func yTicks(labels []chart.Label) []gochart.Tick {
	var out []gochart.Tick
	for _, l := range labels {
		out = append(out, gochart.Tick{Value: l.Y, Label: l.Text})
	}
	return out
}
