package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/averre/globeflow/config"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseAdvect)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseDraw)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	if _, ok := stats.PhaseAvg[PhaseAdvect]; !ok {
		t.Error("expected advect phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[PhaseDraw]; !ok {
		t.Error("expected draw phase to be tracked")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	// Overfill the window; the collector must keep rolling.
	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseAdvect)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}
	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase("fast")
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase("slow")
		time.Sleep(100 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.PhasePct["slow"] <= stats.PhasePct["fast"] {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)",
			stats.PhasePct["slow"], stats.PhasePct["fast"])
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()
	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}
	if stats.PhaseAvg == nil {
		t.Error("expected non-nil PhaseAvg map")
	}
	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}
	if stats.FPS < 40 || stats.FPS > 80 {
		t.Errorf("expected FPS between 40-80 with 16ms frame time, got %v", stats.FPS)
	}
}

func TestPerfCollector_OverlayPass(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordOverlayPass(12 * time.Millisecond)
	pc.RecordOverlayPass(8 * time.Millisecond)

	stats := pc.Stats()
	if stats.OverlayPassCount != 2 {
		t.Errorf("overlay pass count = %d, want 2", stats.OverlayPassCount)
	}
	if stats.OverlayPassDuration != 8*time.Millisecond {
		t.Errorf("overlay pass duration = %v, want the most recent 8ms", stats.OverlayPassDuration)
	}
}

func TestOutputManager_PerfCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	pc := NewPerfCollector(4)
	for i := 0; i < 4; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseAdvect)
		pc.EndTick()
	}
	if err := om.WritePerf(pc.Stats(), 4); err != nil {
		t.Fatalf("WritePerf: %v", err)
	}
	if err := om.WritePerf(pc.Stats(), 8); err != nil {
		t.Fatalf("WritePerf second window: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatalf("reading perf.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("perf.csv has %d lines, want header + 2 records", len(lines))
	}
	if !strings.Contains(lines[0], "window_end") {
		t.Errorf("header = %q, want window_end column", lines[0])
	}
	if strings.Contains(lines[1], "window_end") {
		t.Error("second line repeats the header")
	}
}

func TestOutputManager_NilIsNoop(t *testing.T) {
	var om *OutputManager
	if err := om.WritePerf(PerfStats{}, 0); err != nil {
		t.Errorf("nil WritePerf: %v", err)
	}
	if err := om.WriteConfig(&config.Config{}); err != nil {
		t.Errorf("nil WriteConfig: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
	if om.Dir() != "" {
		t.Errorf("nil Dir() = %q, want empty", om.Dir())
	}
}
