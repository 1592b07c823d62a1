// Package ui renders the heads-up display: status text, the level
// and mode controls, and the color legend for the active overlay.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	PanelBg     rl.Color
	PanelBorder rl.Color
	TitleColor  rl.Color
	LabelColor  rl.Color
	ValueColor  rl.Color
	AccentColor rl.Color

	Padding        int32
	LineHeight     int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		TitleColor:     rl.White,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.LightGray,
		AccentColor:    rl.Yellow,
		Padding:        10,
		LineHeight:     18,
		FontSize:       14,
		HeaderFontSize: 20,
	}
}
