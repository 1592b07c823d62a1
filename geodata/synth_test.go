package geodata

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/averre/globeflow/field"
)

func TestSynthWindGrid(t *testing.T) {
	p := SynthParams{Nx: 72, Ny: 37, Seed: 11, SurfaceType: 103, SurfaceValue: 10}
	hdr, u, v := SynthWindGrid(p)

	if err := hdr.Validate(); err != nil {
		t.Fatalf("generated header invalid: %v", err)
	}
	if len(u) != hdr.Nx*hdr.Ny || len(v) != hdr.Nx*hdr.Ny {
		t.Fatalf("grid lengths %d/%d, want %d", len(u), len(v), hdr.Nx*hdr.Ny)
	}
	var maxSpeed float64
	for i := range u {
		if math.IsNaN(u[i]) || math.IsNaN(v[i]) {
			t.Fatalf("generated wind has NaN at %d", i)
		}
		if s := math.Hypot(u[i], v[i]); s > maxSpeed {
			maxSpeed = s
		}
	}
	if maxSpeed < 5 {
		t.Errorf("max speed %g m/s, want a visibly moving field", maxSpeed)
	}
	if maxSpeed > 200 {
		t.Errorf("max speed %g m/s, implausibly fast", maxSpeed)
	}
}

func TestSynthWindStrengthensAloft(t *testing.T) {
	ground := SynthParams{Nx: 72, Ny: 37, Seed: 5, SurfaceType: 103, SurfaceValue: 10}
	aloft := ground
	aloft.SurfaceType = 100
	aloft.SurfaceValue = 25000

	_, gu, gv := SynthWindGrid(ground)
	_, au, av := SynthWindGrid(aloft)

	if meanSpeed(au, av) <= meanSpeed(gu, gv) {
		t.Errorf("250 hPa mean speed %g not above surface mean %g",
			meanSpeed(au, av), meanSpeed(gu, gv))
	}
}

func meanSpeed(u, v []float64) float64 {
	var sum float64
	for i := range u {
		sum += math.Hypot(u[i], v[i])
	}
	return sum / float64(len(u))
}

func TestSynthTemperatureGradient(t *testing.T) {
	p := SynthParams{Nx: 72, Ny: 37, Seed: 3, SurfaceType: 103, SurfaceValue: 2}
	hdr, vals := SynthTemperatureGrid(p)
	sf, err := field.NewScalarField(hdr, vals)
	if err != nil {
		t.Fatalf("NewScalarField: %v", err)
	}

	equator := sf.Sample(0, 0)
	pole := sf.Sample(0, 88)
	if equator <= pole {
		t.Errorf("equator %g K not warmer than pole %g K", equator, pole)
	}
	// Everything stays in a physically plausible Kelvin band.
	for i, v := range vals {
		if v < 170 || v > 340 {
			t.Fatalf("temperature %g K at %d outside plausible band", v, i)
		}
	}
}

func TestSynthRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p := SynthParams{Nx: 36, Ny: 19, Seed: 9, SurfaceType: 100, SurfaceValue: 50000}

	hdr, u, v := SynthWindGrid(p)
	windPath := filepath.Join(dir, "wind-500.json")
	if err := WriteWindFile(windPath, hdr, u, v); err != nil {
		t.Fatalf("WriteWindFile: %v", err)
	}
	lvl, err := LoadWindFile(windPath)
	if err != nil {
		t.Fatalf("LoadWindFile: %v", err)
	}
	if lvl.Label != "500 hPa" {
		t.Errorf("label = %q, want %q", lvl.Label, "500 hPa")
	}
	gu, gv := lvl.Wind.Sample(hdr.Lo1, hdr.La1)
	if math.Abs(gu-u[0]) > 1e-9 || math.Abs(gv-v[0]) > 1e-9 {
		t.Errorf("round-tripped origin sample = (%g, %g), want (%g, %g)", gu, gv, u[0], v[0])
	}

	thdr, tvals := SynthTemperatureGrid(p)
	tempPath := filepath.Join(dir, "temp-500.json")
	if err := WriteTemperatureFile(tempPath, thdr, tvals); err != nil {
		t.Fatalf("WriteTemperatureFile: %v", err)
	}
	tlvl, err := LoadTemperatureFile(tempPath)
	if err != nil {
		t.Fatalf("LoadTemperatureFile: %v", err)
	}
	if got := tlvl.Temp.Sample(thdr.Lo1, thdr.La1); math.Abs(got-tvals[0]) > 1e-9 {
		t.Errorf("round-tripped temperature = %g, want %g", got, tvals[0])
	}
}
