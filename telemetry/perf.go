// Package telemetry tracks per-phase tick timing over a rolling
// window and exports aggregated statistics as structured logs or CSV.
package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for one animation tick. The overlay compute pass runs
// on its own goroutine and is timed separately.
const (
	PhaseInput     = "input"
	PhaseAdvect    = "advect"
	PhaseOverlay   = "overlay"
	PhaseDraw      = "draw"
	PhaseTelemetry = "telemetry"
)

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	TickDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector tracks performance metrics over a rolling window.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	tickStart     time.Time
	phaseStart    time.Time
	lastPhase     string

	// Frame timing (for windowed mode)
	lastFrameTime time.Time
	frameDuration time.Duration

	// Overlay compute pass timing (asynchronous, not part of a tick)
	overlayPassDuration time.Duration
	overlayPassCount    int
}

// NewPerfCollector creates a collector averaging over windowSize ticks
// (e.g. 60 for one second at 60 fps).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartTick begins timing a new tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a phase, ending the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndTick finishes the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		TickDuration: now.Sub(p.tickStart),
		Phases:       p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// RecordFrame records frame-to-frame timing for windowed mode.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// RecordOverlayPass records the duration of one finished overlay
// compute pass. Called from the tick loop when a result arrives, so
// no locking is needed.
func (p *PerfCollector) RecordOverlayPass(d time.Duration) {
	p.overlayPassDuration = d
	p.overlayPassCount++
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Phase averages and their share of total tick time.
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64

	// Frame timing (windowed mode)
	FrameDuration time.Duration
	FPS           float64

	// Most recent overlay pass
	OverlayPassDuration time.Duration
	OverlayPassCount    int
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	var fps float64
	if p.frameDuration > 0 {
		fps = float64(time.Second) / float64(p.frameDuration)
	}

	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg:            make(map[string]time.Duration),
			PhasePct:            make(map[string]float64),
			FrameDuration:       p.frameDuration,
			FPS:                 fps,
			OverlayPassDuration: p.overlayPassDuration,
			OverlayPassCount:    p.overlayPassCount,
		}
	}

	var totalTick, minTick, maxTick time.Duration
	phaseSum := make(map[string]time.Duration)
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		totalTick += s.TickDuration
		if i == 0 || s.TickDuration < minTick {
			minTick = s.TickDuration
		}
		if s.TickDuration > maxTick {
			maxTick = s.TickDuration
		}
		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avgTick := totalTick / time.Duration(p.sampleCount)
	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avgTick > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avgTick) * 100
		}
	}

	var ticksPerSec float64
	if avgTick > 0 {
		ticksPerSec = float64(time.Second) / float64(avgTick)
	}

	return PerfStats{
		AvgTickDuration:     avgTick,
		MinTickDuration:     minTick,
		MaxTickDuration:     maxTick,
		PhaseAvg:            phaseAvg,
		PhasePct:            phasePct,
		TicksPerSecond:      ticksPerSec,
		FrameDuration:       p.frameDuration,
		FPS:                 fps,
		OverlayPassDuration: p.overlayPassDuration,
		OverlayPassCount:    p.overlayPassCount,
	}
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	if s.OverlayPassCount > 0 {
		attrs = append(attrs,
			"overlay_pass_ms", s.OverlayPassDuration.Milliseconds(),
			"overlay_passes", s.OverlayPassCount,
		)
	}
	for _, phase := range []string{PhaseInput, PhaseAdvect, PhaseOverlay, PhaseDraw, PhaseTelemetry} {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	if s.OverlayPassCount > 0 {
		attrs = append(attrs, slog.Int64("overlay_pass_us", s.OverlayPassDuration.Microseconds()))
	}
	for phase, pct := range s.PhasePct {
		attrs = append(attrs, slog.Float64(phase+"_pct", pct))
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd     uint64  `csv:"window_end"`
	AvgTickUS     int64   `csv:"avg_tick_us"`
	MinTickUS     int64   `csv:"min_tick_us"`
	MaxTickUS     int64   `csv:"max_tick_us"`
	TicksPerSec   float64 `csv:"ticks_per_sec"`
	FPS           float64 `csv:"fps"`
	OverlayPassUS int64   `csv:"overlay_pass_us"`
	OverlayPasses int     `csv:"overlay_passes"`
	InputPct      float64 `csv:"input_pct"`
	AdvectPct     float64 `csv:"advect_pct"`
	OverlayPct    float64 `csv:"overlay_pct"`
	DrawPct       float64 `csv:"draw_pct"`
	TelemetryPct  float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd uint64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:     windowEnd,
		AvgTickUS:     s.AvgTickDuration.Microseconds(),
		MinTickUS:     s.MinTickDuration.Microseconds(),
		MaxTickUS:     s.MaxTickDuration.Microseconds(),
		TicksPerSec:   s.TicksPerSecond,
		FPS:           s.FPS,
		OverlayPassUS: s.OverlayPassDuration.Microseconds(),
		OverlayPasses: s.OverlayPassCount,
		InputPct:      s.PhasePct[PhaseInput],
		AdvectPct:     s.PhasePct[PhaseAdvect],
		OverlayPct:    s.PhasePct[PhaseOverlay],
		DrawPct:       s.PhasePct[PhaseDraw],
		TelemetryPct:  s.PhasePct[PhaseTelemetry],
	}
}
