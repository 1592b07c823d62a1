package app

import (
	"testing"

	"github.com/averre/globeflow/config"
	"github.com/averre/globeflow/field"
	"github.com/averre/globeflow/geodata"
	"github.com/averre/globeflow/systems"
	"github.com/averre/globeflow/ui"
)

func init() {
	config.MustInit("")
	// Keep the pool small so headless ticks stay cheap.
	config.Cfg().Particles.Count = 64
}

func testWindLevel(t *testing.T) field.WindLevel {
	t.Helper()
	hdr, u, v := geodata.SynthWindGrid(geodata.SynthParams{
		Nx: 36, Ny: 19, Seed: 7, SurfaceType: 100, SurfaceValue: 50000,
	})
	wind, err := field.NewVectorField(hdr, u, v)
	if err != nil {
		t.Fatalf("NewVectorField: %v", err)
	}
	return field.WindLevel{Label: hdr.SurfaceLabel(), Wind: wind}
}

func newHeadless(t *testing.T) *App {
	t.Helper()
	a, err := New(Options{
		Seed:       1,
		Headless:   true,
		WindLevels: []field.WindLevel{testWindLevel(t)},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Unload)
	return a
}

func TestRecycleResetsAgeAndTrail(t *testing.T) {
	a := newHeadless(t)

	query := a.tracerFilter.Query()
	if !query.Next() {
		t.Fatal("no particles spawned")
	}
	tr, trail := query.Get()
	query.Close()

	tr.Age = 120
	trail.HasPrev = true
	a.recycle(tr, trail)

	if tr.Age != 0 {
		t.Errorf("Age = %v after recycle, want 0", tr.Age)
	}
	if trail.HasPrev {
		t.Error("HasPrev survived recycle")
	}
	if tr.Lon < -180 || tr.Lon >= 180 || tr.Lat <= -90 || tr.Lat >= 90 {
		t.Errorf("recycled position (%v, %v) out of bounds", tr.Lon, tr.Lat)
	}
}

func TestHeadlessUpdateAdvancesAndEmitsSegments(t *testing.T) {
	a := newHeadless(t)

	for i := 0; i < 5; i++ {
		a.Update()
	}
	if a.Tick() != 5 {
		t.Fatalf("Tick() = %d after 5 updates, want 5", a.Tick())
	}
	// The first tick only seeds trail positions; by the fifth, some
	// camera-facing particle must have produced a segment.
	if len(a.rc.Segments) == 0 {
		t.Error("no trail segments after 5 ticks")
	}
}

func TestSelectionChangeClearRequestSurvivesUpdate(t *testing.T) {
	a := newHeadless(t)
	a.Update()

	// Mode keypress path: the change lands before the RenderContext
	// reset at the top of the next Update.
	a.levels.CycleMode()
	a.changeSelection(true)
	if !a.clearTrails {
		t.Fatal("selection change did not request a trail clear")
	}
	a.Update()
	if !a.clearTrails {
		t.Error("trail clear request wiped before the draw phase")
	}
	a.clearTrails = false

	// Panel click path: applyAction runs mid-Draw, a whole tick
	// before the next Draw would consume the request.
	a.applyAction(ui.Action{SetMode: true, Mode: systems.ModeNone})
	if !a.clearTrails {
		t.Fatal("panel mode switch did not request a trail clear")
	}
	a.Update()
	if !a.clearTrails {
		t.Error("panel clear request wiped before the draw phase")
	}
}

func TestLifetimeRecycleDuringUpdate(t *testing.T) {
	a := newHeadless(t)
	lifetime := float64(config.Cfg().Particles.LifetimeTicks)

	query := a.tracerFilter.Query()
	for query.Next() {
		tr, _ := query.Get()
		tr.Age = lifetime // next advection pushes every particle over
	}

	a.Update()

	query = a.tracerFilter.Query()
	for query.Next() {
		tr, _ := query.Get()
		if tr.Age > 1 {
			t.Fatalf("particle Age = %v after lifetime expiry, want recycled", tr.Age)
		}
	}
}
