package systems

import (
	"image/color"
	"math"
	"testing"

	"github.com/averre/globeflow/camera"
	"github.com/averre/globeflow/config"
	"github.com/averre/globeflow/field"
)

func init() {
	config.MustInit("")
}

func testView(w, h float64) camera.View {
	cam := camera.New(w, h, 40, 1.5, 8)
	cam.Pitch = 0
	return cam.View()
}

// constantWind builds a global grid with uniform U and V.
func constantWind(t *testing.T, u, v float64) *field.VectorField {
	t.Helper()
	hdr := field.GridHeader{Nx: 36, Ny: 19, Lo1: 0, La1: 90, Dx: 10, Dy: 10}
	n := hdr.Nx * hdr.Ny
	us := make([]float64, n)
	vs := make([]float64, n)
	for i := range us {
		us[i] = u
		vs[i] = v
	}
	vf, err := field.NewVectorField(hdr, us, vs)
	if err != nil {
		t.Fatalf("NewVectorField: %v", err)
	}
	return vf
}

func constantTemp(t *testing.T, val float64) *field.ScalarField {
	t.Helper()
	hdr := field.GridHeader{Nx: 36, Ny: 19, Lo1: 0, La1: 90, Dx: 10, Dy: 10}
	vals := make([]float64, hdr.Nx*hdr.Ny)
	for i := range vals {
		vals[i] = val
	}
	sf, err := field.NewScalarField(hdr, vals)
	if err != nil {
		t.Fatalf("NewScalarField: %v", err)
	}
	return sf
}

func testOpts(stride int) OverlayOptions {
	return OverlayOptions{
		Stride:          stride,
		FaceTolerance:   0.05,
		Alpha:           120,
		Workers:         2,
		ArtifactDelta:   50,
		PlausibleMinC:   -100,
		PlausibleMaxC:   100,
		PatchRadius:     2,
		PatchAlphaScale: 0.7,
	}
}

func pixelAt(img *OverlayImage, x, y int) color.RGBA {
	return img.Pix[y*img.W+x]
}

func TestOverlayWindHitsGlobeCenter(t *testing.T) {
	job := OverlayJob{
		View: testView(64, 64),
		Mode: ModeWind,
		Wind: constantWind(t, 30, 0),
		W:    64, H: 64,
		Gen:  7,
		Opts: testOpts(4),
	}
	img := ComputeOverlay(job)

	if img.Gen != 7 {
		t.Fatalf("image generation = %d, want 7", img.Gen)
	}
	center := pixelAt(img, 32, 32)
	if center.A == 0 {
		t.Fatal("center pixel is transparent; the globe should fill it")
	}
	want := WindColor(30, 120)
	if center.R != want.R || center.G != want.G || center.B != want.B {
		t.Errorf("center color = %v, want %v from a uniform 30 m/s field", center, want)
	}
}

func TestOverlayCornersMissGlobe(t *testing.T) {
	job := OverlayJob{
		View: testView(64, 64),
		Mode: ModeWind,
		Wind: constantWind(t, 30, 0),
		W:    64, H: 64,
		Opts: testOpts(4),
	}
	img := ComputeOverlay(job)
	for _, p := range [][2]int{{0, 0}, {63, 0}, {0, 63}, {63, 63}} {
		if c := pixelAt(img, p[0], p[1]); c.A != 0 {
			t.Errorf("corner (%d,%d) = %v, want transparent: ray misses the sphere", p[0], p[1], c)
		}
	}
}

func TestOverlayModeNoneStaysEmpty(t *testing.T) {
	job := OverlayJob{
		View: testView(32, 32),
		Mode: ModeNone,
		Wind: constantWind(t, 30, 0),
		W:    32, H: 32,
		Opts: testOpts(4),
	}
	img := ComputeOverlay(job)
	for i, c := range img.Pix {
		if c != (color.RGBA{}) {
			t.Fatalf("pixel %d = %v in none mode, want zero", i, c)
		}
	}
}

func TestOverlayNilFieldStaysEmpty(t *testing.T) {
	job := OverlayJob{
		View: testView(32, 32),
		Mode: ModeTemperature,
		W:    32, H: 32,
		Opts: testOpts(4),
	}
	img := ComputeOverlay(job)
	for i, c := range img.Pix {
		if c != (color.RGBA{}) {
			t.Fatalf("pixel %d = %v with no field loaded, want zero", i, c)
		}
	}
}

func TestOverlayTemperatureUniform(t *testing.T) {
	job := OverlayJob{
		View: testView(64, 64),
		Mode: ModeTemperature,
		Temp: constantTemp(t, 300), // Kelvin, 26.85 C
		W:    64, H: 64,
		Opts: testOpts(2),
	}
	img := ComputeOverlay(job)
	center := pixelAt(img, 32, 32)
	want := TemperatureColor(300, 120)
	if center != want {
		t.Errorf("center color = %v, want %v", center, want)
	}
}

func TestOverlayTemperaturePatchFillsMissing(t *testing.T) {
	// A NaN hole at the sub-satellite point: bilinear sampling fails
	// there, but the surrounding cells are plausible, so the patch
	// fill reconstructs the value at reduced opacity.
	temp := constantTemp(t, 290)
	hdr := temp.Header()
	vals := temp.Values()
	// Camera at yaw 0 pitch 0 looks at lon 0, lat 0: row 9, column 0.
	vals[9*hdr.Nx] = math.NaN()

	job := OverlayJob{
		View: testView(64, 64),
		Mode: ModeTemperature,
		Temp: temp,
		W:    64, H: 64,
		Opts: testOpts(2),
	}
	img := ComputeOverlay(job)
	center := pixelAt(img, 32, 32)
	if center.A == 0 {
		t.Fatal("hole over plausible neighbors stayed transparent, want patch fill")
	}
	full := TemperatureColor(290, 120)
	if center.A >= full.A {
		t.Errorf("patch-filled alpha = %d, want below the clean alpha %d", center.A, full.A)
	}
}

func TestIsolatedSpikeDetection(t *testing.T) {
	temp := constantTemp(t, 290)
	hdr := temp.Header()
	temp.Values()[9*hdr.Nx] = 400 // 126.85 C against ~17 C neighbors

	if !isolatedSpike(temp, 0, 0, ToCelsius(400.0), 50) {
		t.Error("a lone 110-degree outlier was not flagged as a spike")
	}
	if isolatedSpike(temp, 0, 40, ToCelsius(290.0), 50) {
		t.Error("a sample agreeing with its neighbors was flagged as a spike")
	}
}

func TestOverlayOptionsFromConfig(t *testing.T) {
	wind := OverlayOptionsFromConfig(ModeWind)
	temp := OverlayOptionsFromConfig(ModeTemperature)
	if wind.Stride < temp.Stride {
		t.Errorf("wind stride %d finer than temperature stride %d; temperature should sample finer",
			wind.Stride, temp.Stride)
	}
	if temp.PatchRadius != config.Cfg().Overlay.PatchRadius {
		t.Errorf("patch radius = %d, want config value %d", temp.PatchRadius, config.Cfg().Overlay.PatchRadius)
	}
}
