package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/averre/globeflow/config"
	"github.com/averre/globeflow/ui"
)

// handleInput processes keyboard and mouse input for the windowed
// loop. Camera movement is picked up by the movement detector in
// Update, so nothing here invalidates surfaces directly.
func (a *App) handleInput() {
	cfg := config.Cfg()

	a.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.paused = !a.paused
	}

	// Overlay mode and level selection.
	if rl.IsKeyPressed(rl.KeyM) {
		a.levels.CycleMode()
		a.changeSelection(true)
	}
	if rl.IsKeyPressed(rl.KeyLeftBracket) {
		a.changeSelection(a.levels.StepLevel(-1))
	}
	if rl.IsKeyPressed(rl.KeyRightBracket) {
		a.changeSelection(a.levels.StepLevel(1))
	}

	// Orbit by dragging or arrow keys.
	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		delta := rl.GetMouseDelta()
		a.cam.Orbit(
			-float64(delta.X)*cfg.Camera.OrbitSensitivity,
			float64(delta.Y)*cfg.Camera.OrbitSensitivity,
		)
	}
	keyOrbit := cfg.Camera.OrbitSensitivity * 6
	if rl.IsKeyDown(rl.KeyRight) {
		a.cam.Orbit(keyOrbit, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		a.cam.Orbit(-keyOrbit, 0)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		a.cam.Orbit(0, keyOrbit)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		a.cam.Orbit(0, -keyOrbit)
	}

	// Zoom with the wheel or +/- keys.
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		factor := cfg.Camera.ZoomStep
		if wheel < 0 {
			factor = 1 / factor
		}
		a.cam.Dolly(factor)
	}
	if rl.IsKeyDown(rl.KeyEqual) {
		a.cam.Dolly(0.99)
	}
	if rl.IsKeyDown(rl.KeyMinus) {
		a.cam.Dolly(1.01)
	}

	if rl.IsKeyPressed(rl.KeyR) {
		a.cam.Reset()
	}
}

// handleResize propagates a window resize to the camera and the draw
// surfaces. The snapshot comparison treats the viewport change as
// movement, which triggers the overlay invalidation.
func (a *App) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := rl.GetScreenWidth()
	h := rl.GetScreenHeight()

	config.Cfg().Resize(w, h)

	a.cam.Resize(float64(w), float64(h))
	a.trails.Resize(int32(w), int32(h))
	a.overlayTex.Resize(int32(w), int32(h))
}

// applyAction folds a control-panel click into the selection.
func (a *App) applyAction(action ui.Action) {
	if action.SetMode {
		a.changeSelection(a.levels.SetMode(action.Mode))
	}
	if action.LevelDelta != 0 {
		a.changeSelection(a.levels.StepLevel(action.LevelDelta))
	}
}
