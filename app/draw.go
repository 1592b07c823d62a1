package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/averre/globeflow/config"
	"github.com/averre/globeflow/systems"
	"github.com/averre/globeflow/telemetry"
	"github.com/averre/globeflow/ui"
)

// Draw renders one frame: globe base, overlay, trails, line work, and
// the HUD. The trail canvas is updated first because raylib render
// textures cannot be written inside the main drawing block.
func (a *App) Draw() {
	cfg := config.Cfg()
	a.perf.StartPhase(telemetry.PhaseDraw)

	if a.clearTrails {
		a.trails.Clear()
		a.clearTrails = false
	}
	a.trails.Draw(a.rc.Segments,
		uint8(cfg.Particles.TrailFadeAlpha),
		float32(cfg.Particles.LineWidth))
	a.overlayTex.Update(a.sched.Published())

	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 4, G: 6, B: 10, A: 255})

	view := a.rc.View
	a.globe.DrawBase(&view)
	a.overlayTex.Draw()
	a.globe.DrawLines(&view)
	a.trails.Composite()

	a.drawHUD()

	rl.EndDrawing()
	a.perf.RecordFrame()
}

func (a *App) drawHUD() {
	cfg := config.Cfg()
	stats := a.legendStats()

	unit := ""
	switch a.levels.Mode() {
	case systems.ModeWind:
		unit = " m/s"
	case systems.ModeTemperature:
		unit = " K"
	case systems.ModeNone:
	}
	statsLine := ""
	if a.levels.Mode() != systems.ModeNone {
		statsLine = stats.Summary(unit)
	}

	// The stats line renders beside the legend ramp, not in the HUD
	// block, so it sits next to the colors it describes.
	data := ui.HUDData{
		Title:        cfg.Screen.Title,
		LevelLabel:   a.levels.ActiveLabel(),
		Mode:         a.levels.Mode().String(),
		OverlayState: a.sched.StateLabel(),
		Tick:         a.tick,
		FPS:          rl.GetFPS(),
		Particles:    cfg.Particles.Count,
		Paused:       a.paused,
		ScreenWidth:  int32(cfg.Screen.Width),
		ScreenHeight: int32(cfg.Screen.Height),
	}
	a.hud.Draw(data)
	a.hud.DrawControls(data,
		"drag/arrows orbit | wheel zoom | M mode | [ ] level | space pause | R reset")
	a.legend.Draw(data.ScreenHeight, a.levels.Mode(), statsLine)

	action := a.controls.Draw(data.ScreenWidth, a.levels.Mode(),
		a.levels.ActiveLabel(), a.levels.Index()+1, len(a.levels.LevelLabels()))
	a.applyAction(action)
}
