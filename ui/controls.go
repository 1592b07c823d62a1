package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/averre/globeflow/systems"
)

// Action reports what the user clicked this frame. The zero value
// means no change.
type Action struct {
	SetMode    bool
	Mode       systems.OverlayMode
	LevelDelta int
}

// Controls draws the overlay-mode and level-selection panel in the
// top-right corner.
type Controls struct {
	theme Theme
	width int32
}

// NewControls creates the control panel.
func NewControls() *Controls {
	return &Controls{theme: DefaultTheme(), width: 190}
}

// Draw renders the panel and returns any selection change. levelPos
// is "index+1 of count" for the active list.
func (c *Controls) Draw(screenWidth int32, mode systems.OverlayMode, levelLabel string, levelPos, levelCount int) Action {
	t := c.theme
	x := float32(screenWidth - c.width - t.Padding)
	y := float32(t.Padding)
	w := float32(c.width)

	panelH := float32(4*26 + 2*int(t.Padding))
	rl.DrawRectangle(int32(x)-int32(t.Padding), int32(y)-int32(t.Padding)/2,
		c.width+2*t.Padding, int32(panelH), t.PanelBg)
	rl.DrawRectangleLines(int32(x)-int32(t.Padding), int32(y)-int32(t.Padding)/2,
		c.width+2*t.Padding, int32(panelH), t.PanelBorder)

	var action Action

	// One button per overlay mode; the active one is just a label.
	bw := (w - 10) / 3
	for i, m := range []systems.OverlayMode{systems.ModeWind, systems.ModeTemperature, systems.ModeNone} {
		bounds := rl.Rectangle{X: x + float32(i)*(bw+5), Y: y, Width: bw, Height: 22}
		label := m.String()
		if m == mode {
			rl.DrawRectangleRec(bounds, t.PanelBorder)
			rl.DrawText(label, int32(bounds.X)+4, int32(bounds.Y)+4, t.FontSize, t.AccentColor)
			continue
		}
		if gui.Button(bounds, label) {
			action.SetMode = true
			action.Mode = m
		}
	}
	y += 30

	rl.DrawText("Level", int32(x), int32(y)+4, t.FontSize, t.LabelColor)
	if gui.Button(rl.Rectangle{X: x + 60, Y: y, Width: 26, Height: 22}, "-") {
		action.LevelDelta = -1
	}
	if gui.Button(rl.Rectangle{X: x + 90, Y: y, Width: 26, Height: 22}, "+") {
		action.LevelDelta = 1
	}
	rl.DrawText(fmt.Sprintf("%d/%d", levelPos, levelCount),
		int32(x)+124, int32(y)+4, t.FontSize, t.ValueColor)
	y += 30

	rl.DrawText(levelLabel, int32(x), int32(y)+4, t.FontSize, t.ValueColor)

	return action
}
