package ui

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/averre/globeflow/systems"
)

// Legend draws the color ramp for the active overlay along the bottom
// edge, with the field statistics line beside it.
type Legend struct {
	theme  Theme
	width  int32
	height int32
}

// NewLegend creates the legend bar.
func NewLegend() *Legend {
	return &Legend{theme: DefaultTheme(), width: 260, height: 12}
}

// Draw renders the ramp for the given mode, one vertical stripe per
// pixel column. statsLine is already formatted by the caller.
func (l *Legend) Draw(screenHeight int32, mode systems.OverlayMode, statsLine string) {
	if mode == systems.ModeNone {
		return
	}
	t := l.theme
	x := t.Padding
	y := screenHeight - l.height - 40

	for i := int32(0); i < l.width; i++ {
		f := float64(i) / float64(l.width-1)
		var c color.RGBA
		switch mode {
		case systems.ModeWind:
			c = systems.WindColor(f*100, 255)
		case systems.ModeTemperature:
			c = systems.TemperatureColor(-80+f*130, 255)
		}
		rl.DrawLine(x+i, y, x+i, y+l.height, rl.Color{R: c.R, G: c.G, B: c.B, A: c.A})
	}
	rl.DrawRectangleLines(x, y, l.width, l.height, t.PanelBorder)

	var lo, hi string
	switch mode {
	case systems.ModeWind:
		lo, hi = "0", "100 m/s"
	case systems.ModeTemperature:
		lo, hi = "-80", "50 C"
	}
	rl.DrawText(lo, x, y+l.height+2, t.FontSize, t.LabelColor)
	rl.DrawText(hi, x+l.width-rl.MeasureText(hi, t.FontSize), y+l.height+2, t.FontSize, t.LabelColor)

	if statsLine != "" {
		rl.DrawText(statsLine, x+l.width+16, y, t.FontSize, t.ValueColor)
	}
}
