package main

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"

	"github.com/cptspacemanspiff/battery-tracker/internal/storage"
)

const placeholder = "--"

type infoField struct {
	title string
	value string
}

// infoFields lays out the device info panel, placeholders first until a
// record has been loaded.
func infoFields(info *storage.DeviceInfo) []infoField {
	if info == nil {
		return []infoField{
			{"Battery", placeholder},
			{"State", placeholder},
			{"Model", placeholder},
			{"Cycles", placeholder},
			{"Health", placeholder},
			{"Energy", placeholder},
			{"Full / Design", placeholder},
			{"Voltage", placeholder},
		}
	}

	model := info.Model
	if model == "" {
		model = placeholder
	}
	cycles := placeholder
	if info.CycleCount != nil {
		cycles = fmt.Sprintf("%d", *info.CycleCount)
	}
	health := placeholder
	if h := info.Health(); h > 0 {
		health = fmt.Sprintf("%.1f%%", h)
	}

	return []infoField{
		{"Battery", fmt.Sprintf("%.0f%%", info.Percentage)},
		{"State", info.State.String()},
		{"Model", model},
		{"Cycles", cycles},
		{"Health", health},
		{"Energy", fmt.Sprintf("%.2f Wh", info.Energy)},
		{"Full / Design", fmt.Sprintf("%.2f / %.2f Wh", info.EnergyFull, info.EnergyFullDesign)},
		{"Voltage", fmt.Sprintf("%.2f V", info.Voltage)},
	}
}

type statsBar struct {
	values    []*canvas.Text
	updated   *canvas.Text
	container fyne.CanvasObject
}

func newStatsBar() *statsBar {
	s := &statsBar{updated: newLabelText("No samples yet")}

	fields := infoFields(nil)
	cells := make([]fyne.CanvasObject, 0, 2*len(fields))
	for i, f := range fields {
		v := newStatText(f.value)
		s.values = append(s.values, v)
		if i > 0 {
			cells = append(cells, layout.NewSpacer())
		}
		cells = append(cells, container.NewVBox(newLabelText(f.title), v))
	}

	bg := canvas.NewRectangle(colorPanelBg)
	row := container.New(layout.NewHBoxLayout(), cells...)
	s.container = container.NewStack(bg, container.NewPadded(container.NewVBox(row, s.updated)))
	return s
}

// Update shows info. Call on the Fyne thread.
func (s *statsBar) Update(info *storage.DeviceInfo) {
	for i, f := range infoFields(info) {
		if s.values[i].Text == f.value {
			continue
		}
		s.values[i].Text = f.value
		s.values[i].Refresh()
	}
	if info != nil {
		s.updated.Text = "Last sample " + info.Timestamp
		s.updated.Refresh()
	}
}

func newStatText(text string) *canvas.Text {
	t := canvas.NewText(text, colorGreenAccent)
	t.TextSize = 18
	t.TextStyle = fyne.TextStyle{Bold: true}
	return t
}

func newLabelText(text string) *canvas.Text {
	t := canvas.NewText(text, colorWhiteLabel)
	t.TextSize = 12
	return t
}
