// Package app wires the visualization together: the ECS particle
// pool, the camera, the level manager, the overlay scheduler, and the
// raylib renderers, driven by a fixed-rate tick loop.
package app

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/averre/globeflow/camera"
	"github.com/averre/globeflow/components"
	"github.com/averre/globeflow/config"
	"github.com/averre/globeflow/field"
	"github.com/averre/globeflow/geodata"
	"github.com/averre/globeflow/renderer"
	"github.com/averre/globeflow/systems"
	"github.com/averre/globeflow/telemetry"
	"github.com/averre/globeflow/ui"
)

// Options configures a new App.
type Options struct {
	Seed      int64
	Headless  bool
	LogStats  bool
	OutputDir string

	WindLevels  []field.WindLevel
	TempLevels  []field.TemperatureLevel
	Borders     []geodata.Polyline
}

// App holds the complete visualization state.
type App struct {
	world *ecs.World
	rng   *rand.Rand

	tracerMapper *ecs.Map2[components.Tracer, components.Trail]
	tracerFilter *ecs.Filter2[components.Tracer, components.Trail]

	cam    *camera.Camera
	levels *systems.LevelManager
	sched  *systems.OverlayScheduler
	rc     systems.RenderContext

	lastSnap camera.Snapshot

	// Overlay pass durations reported by the compute goroutine.
	passDur chan time.Duration

	// Rendering (nil in headless mode)
	trails     *renderer.TrailCanvas
	overlayTex *renderer.OverlayTexture
	globe      *renderer.Globe
	hud        *ui.HUD
	controls   *ui.Controls
	legend     *ui.Legend

	perf   *telemetry.PerfCollector
	output *telemetry.OutputManager

	// Legend stats, cached per selection.
	stats      systems.FieldStats
	statsMode  systems.OverlayMode
	statsIndex int
	statsValid bool

	tick     uint64
	paused   bool
	headless bool
	logStats bool

	// clearTrails latches a pending trail-canvas wipe until Draw
	// consumes it. It must survive the per-tick RenderContext reset:
	// selection changes from input land before Reset, and raygui
	// clicks land mid-Draw, a full tick before the next Draw.
	clearTrails bool
}

// New creates the app, spawns the particle pool, and allocates the
// render surfaces unless headless.
func New(opts Options) (*App, error) {
	cfg := config.Cfg()
	world := ecs.NewWorld()

	a := &App{
		world:        world,
		rng:          rand.New(rand.NewSource(opts.Seed)),
		tracerMapper: ecs.NewMap2[components.Tracer, components.Trail](world),
		tracerFilter: ecs.NewFilter2[components.Tracer, components.Trail](world),
		levels:       systems.NewLevelManager(),
		sched:        systems.NewOverlayScheduler(uint64(cfg.Overlay.SettleTicks)),
		passDur:      make(chan time.Duration, 1),
		perf:         telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		headless:     opts.Headless,
		logStats:     opts.LogStats,
	}

	a.cam = camera.New(cfg.Derived.ScreenW, cfg.Derived.ScreenH,
		cfg.Camera.FOV, cfg.Camera.MinDistance, cfg.Camera.MaxDistance)
	a.lastSnap = a.cam.Snapshot()

	for _, lvl := range opts.WindLevels {
		a.levels.AddWind(lvl)
	}
	for _, lvl := range opts.TempLevels {
		a.levels.AddTemperature(lvl)
	}
	slog.Info("levels loaded",
		"wind", a.levels.WindCount(),
		"temperature", a.levels.TemperatureCount(),
	)

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	a.output = output
	if err := a.output.WriteConfig(cfg); err != nil {
		slog.Warn("writing config snapshot", "err", err)
	}

	a.spawnParticles(cfg.Particles.Count, float64(cfg.Particles.LifetimeTicks))

	if !opts.Headless {
		w, h := int32(cfg.Screen.Width), int32(cfg.Screen.Height)
		a.trails = renderer.NewTrailCanvas(w, h)
		a.overlayTex = renderer.NewOverlayTexture(w, h)
		a.globe = renderer.NewGlobe(opts.Borders)
		a.hud = ui.NewHUD()
		a.controls = ui.NewControls()
		a.legend = ui.NewLegend()
	}
	return a, nil
}

// spawnParticles fills the pool. Initial ages are randomized so the
// population recycles phase-staggered instead of pulsing.
func (a *App) spawnParticles(count int, lifetime float64) {
	for i := 0; i < count; i++ {
		lon, lat := systems.SpawnPosition(a.rng)
		tracer := components.Tracer{Lon: lon, Lat: lat, Age: a.rng.Float64() * lifetime}
		trail := components.Trail{}
		a.tracerMapper.NewEntity(&tracer, &trail)
	}
}

// recycle replaces a particle with a fresh random one.
func (a *App) recycle(tr *components.Tracer, trail *components.Trail) {
	tr.Lon, tr.Lat = systems.SpawnPosition(a.rng)
	tr.Age = 0
	trail.HasPrev = false
}

// resetTrails clears every particle's stored screen position, making
// the next drawn segment start fresh.
func (a *App) resetTrails() {
	query := a.tracerFilter.Query()
	for query.Next() {
		_, trail := query.Get()
		trail.HasPrev = false
	}
}

// Tick returns the current tick counter.
func (a *App) Tick() uint64 { return a.tick }

// Unload frees render resources and closes outputs.
func (a *App) Unload() {
	if a.trails != nil {
		a.trails.Unload()
	}
	if a.overlayTex != nil {
		a.overlayTex.Unload()
	}
	if err := a.output.Close(); err != nil {
		slog.Warn("closing output", "err", err)
	}
}

// legendStats returns the stats for the active selection, cached
// until the selection changes.
func (a *App) legendStats() systems.FieldStats {
	mode, index := a.levels.Mode(), a.levels.Index()
	if a.statsValid && mode == a.statsMode && index == a.statsIndex {
		return a.stats
	}
	switch mode {
	case systems.ModeWind:
		if wind := a.levels.ActiveWind(); wind != nil {
			a.stats = systems.ComputeStats(wind.Speed())
		} else {
			a.stats = systems.FieldStats{}
		}
	case systems.ModeTemperature:
		if temp := a.levels.ActiveTemperature(); temp != nil {
			a.stats = systems.ComputeStats(temp)
		} else {
			a.stats = systems.FieldStats{}
		}
	case systems.ModeNone:
		a.stats = systems.FieldStats{}
	}
	a.statsMode, a.statsIndex, a.statsValid = mode, index, true
	return a.stats
}
