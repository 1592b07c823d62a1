package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds everything the HUD draws each frame.
type HUDData struct {
	Title        string
	LevelLabel   string
	Mode         string
	OverlayState string

	Tick      uint64
	FPS       int32
	Particles int
	Paused    bool

	ScreenWidth  int32
	ScreenHeight int32
}

// HUD renders the main heads-up display.
type HUD struct {
	theme Theme
}

// NewHUD creates a HUD with the default theme.
func NewHUD() *HUD {
	return &HUD{theme: DefaultTheme()}
}

// Draw renders the status block in the top-left corner.
func (h *HUD) Draw(data HUDData) {
	t := h.theme
	y := t.Padding

	rl.DrawText(data.Title, t.Padding, y, t.HeaderFontSize, t.TitleColor)
	y += t.LineHeight + 6

	rl.DrawText(
		fmt.Sprintf("%s | %s overlay (%s)", data.LevelLabel, data.Mode, data.OverlayState),
		t.Padding, y, t.FontSize, t.LabelColor,
	)
	y += t.LineHeight

	rl.DrawText(
		fmt.Sprintf("Tick: %d | FPS: %d | Particles: %d", data.Tick, data.FPS, data.Particles),
		t.Padding, y, t.FontSize, t.LabelColor,
	)
	y += t.LineHeight

	if data.Paused {
		rl.DrawText("PAUSED", t.Padding, y, t.FontSize, t.AccentColor)
	}
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(data HUDData, controls string) {
	rl.DrawText(controls, h.theme.Padding, data.ScreenHeight-25, h.theme.FontSize, rl.Gray)
}
