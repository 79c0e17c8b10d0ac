package main

import "image/color"

var (
	colorWindowBg    = color.NRGBA{R: 24, G: 24, B: 32, A: 255}
	colorPanelBg     = color.NRGBA{R: 30, G: 30, B: 30, A: 230}
	colorGrid        = color.NRGBA{R: 255, G: 255, B: 255, A: 20}
	colorAxisLabel   = color.NRGBA{R: 160, G: 160, B: 160, A: 255}
	colorTitle       = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	colorSeriesLine  = color.NRGBA{R: 120, G: 150, B: 255, A: 255}
	colorSeriesFill  = color.NRGBA{R: 120, G: 150, B: 255, A: 120}
	colorGreenAccent = color.NRGBA{R: 77, G: 191, B: 102, A: 255}
	colorWhiteLabel  = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
)
