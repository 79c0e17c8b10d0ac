package main

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/cptspacemanspiff/battery-tracker/internal/sampler"
)

// intervalLabel renders a collection period the way the slider shows it:
// whole minutes below an hour, tenths of an hour from there.
func intervalLabel(d time.Duration) string {
	if d < time.Hour {
		return fmt.Sprintf("Collection period: %d min", int(d/time.Minute))
	}
	return fmt.Sprintf("Collection period: %.1f hrs", d.Hours())
}

// newIntervalBar returns a slider over the allowed intervals. onChange runs
// once the user lets go of the slider.
func newIntervalBar(initial time.Duration, onChange func(time.Duration)) fyne.CanvasObject {
	label := canvas.NewText(intervalLabel(initial), colorTitle)
	label.TextSize = 13

	slider := widget.NewSlider(sampler.MinInterval.Seconds(), sampler.MaxInterval.Seconds())
	slider.Step = sampler.IntervalStep.Seconds()
	slider.SetValue(initial.Seconds())
	slider.OnChanged = func(v float64) {
		label.Text = intervalLabel(time.Duration(v) * time.Second)
		label.Refresh()
	}
	slider.OnChangeEnded = func(v float64) {
		onChange(time.Duration(v) * time.Second)
	}

	row := container.New(layout.NewBorderLayout(nil, nil, label, nil), label, slider)
	bg := canvas.NewRectangle(colorPanelBg)
	return container.NewStack(bg, container.NewPadded(row))
}
