package app

import (
	"log/slog"
	"math"
	"time"

	"github.com/averre/globeflow/camera"
	"github.com/averre/globeflow/config"
	"github.com/averre/globeflow/geo"
	"github.com/averre/globeflow/systems"
	"github.com/averre/globeflow/telemetry"
)

// Update runs one animation tick: input (windowed), movement
// detection, particle advection, and the overlay scheduler.
func (a *App) Update() {
	cfg := config.Cfg()
	a.perf.StartTick()

	a.perf.StartPhase(telemetry.PhaseInput)
	if !a.headless {
		a.handleInput()
	}

	a.rc.Reset(a.tick, a.cam.View())
	a.rc.Wind = a.levels.ActiveWind()
	a.rc.Temp = a.levels.ActiveTemperature()

	// Camera movement invalidates trails and the overlay immediately;
	// the overlay recompute waits out the settle interval.
	snap := a.cam.Snapshot()
	if camera.Moved(a.lastSnap, snap, cfg.Camera.MoveThreshold, cfg.Camera.TargetThreshold) {
		a.invalidateView()
	}
	a.lastSnap = snap

	a.perf.StartPhase(telemetry.PhaseAdvect)
	if !a.paused {
		a.advect(&a.rc)
	}

	a.perf.StartPhase(telemetry.PhaseOverlay)
	a.tickOverlay()

	a.perf.StartPhase(telemetry.PhaseTelemetry)
	a.tick++
	if a.logStats && cfg.Telemetry.LogEveryTicks > 0 && a.tick%uint64(cfg.Telemetry.LogEveryTicks) == 0 {
		stats := a.perf.Stats()
		stats.LogStats()
		if err := a.output.WritePerf(stats, a.tick); err != nil {
			slog.Warn("writing perf window", "err", err)
		}
	}
	a.perf.EndTick()
}

// invalidateView clears both draw surfaces after significant camera
// movement or a selection change.
func (a *App) invalidateView() {
	a.clearTrails = true
	a.resetTrails()
	a.sched.Invalidate(a.tick)
}

// changeSelection applies a mode or level switch and invalidates the
// surfaces when anything actually changed.
func (a *App) changeSelection(changed bool) {
	if changed {
		a.invalidateView()
	}
}

// tickOverlay drives the debounce scheduler and launches the compute
// pass on its own goroutine when the settle deadline passes.
func (a *App) tickOverlay() {
	select {
	case d := <-a.passDur:
		a.perf.RecordOverlayPass(d)
	default:
	}

	gen, launch := a.sched.Tick(a.tick)
	if !launch {
		return
	}
	cfg := config.Cfg()
	job := systems.OverlayJob{
		View: a.rc.View,
		Mode: a.levels.Mode(),
		Wind: a.rc.Wind,
		Temp: a.rc.Temp,
		W:    cfg.Screen.Width,
		H:    cfg.Screen.Height,
		Gen:  gen,
		Opts: systems.OverlayOptionsFromConfig(a.levels.Mode()),
	}
	go func() {
		start := time.Now()
		img := systems.ComputeOverlay(job)
		a.sched.Deliver(img)
		select {
		case a.passDur <- time.Since(start):
		default:
		}
	}()
}

// advect moves every particle one tick through the active wind field
// and collects the visible trail segments.
func (a *App) advect(rc *systems.RenderContext) {
	if rc.Wind == nil {
		return
	}
	cfg := config.Cfg()
	lifetime := float64(cfg.Particles.LifetimeTicks)
	eyeDir := rc.View.Eye.Normalize()

	query := a.tracerFilter.Query()
	for query.Next() {
		tr, trail := query.Get()

		u, v := rc.Wind.Sample(tr.Lon, tr.Lat)
		if math.IsNaN(u) || math.IsNaN(v) {
			a.recycle(tr, trail)
			continue
		}

		prevLon, prevLat := tr.Lon, tr.Lat
		newLon, newLat, crossedPole := systems.AdvectPosition(tr.Lon, tr.Lat, u, v, cfg.Particles.SpeedFactor)
		tr.Lon, tr.Lat = newLon, newLat
		if crossedPole {
			a.recycle(tr, trail)
			continue
		}

		tr.Age++
		if tr.Age > lifetime {
			a.recycle(tr, trail)
			continue
		}

		// Both endpoints must face the camera, otherwise trails would
		// ghost through the far side of the sphere.
		pPrev := geo.SpherePoint(prevLon, prevLat)
		pCur := geo.SpherePoint(tr.Lon, tr.Lat)
		if !systems.FacesCamera(pPrev, eyeDir) || !systems.FacesCamera(pCur, eyeDir) {
			trail.HasPrev = false
			continue
		}
		x, y, ok := rc.View.Project(pCur)
		if !ok {
			trail.HasPrev = false
			continue
		}
		if _, _, okPrev := rc.View.Project(pPrev); !okPrev {
			trail.HasPrev = false
			continue
		}

		if trail.HasPrev && !systems.SegmentTooLong(trail.X, trail.Y, x, y, cfg.Particles.MaxSegmentPx) {
			alpha := systems.AgeFade(tr.Age, lifetime) * float64(cfg.Particles.BaseAlpha)
			speed := math.Hypot(u, v)
			rc.Segments = append(rc.Segments, systems.TrailSegment{
				X1: trail.X, Y1: trail.Y,
				X2: x, Y2: y,
				Color: systems.WindColor(speed, uint8(alpha)),
			})
		}
		trail.HasPrev = true
		trail.X, trail.Y = x, y
	}
}
