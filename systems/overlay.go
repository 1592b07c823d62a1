package systems

import (
	"image/color"
	"math"
	"runtime"
	"sync"

	"github.com/averre/globeflow/camera"
	"github.com/averre/globeflow/config"
	"github.com/averre/globeflow/field"
	"github.com/averre/globeflow/geo"
)

// OverlayImage is one finished overlay raster at full viewport
// resolution, row-major RGBA. Zero pixels are transparent black.
type OverlayImage struct {
	Pix  []color.RGBA
	W, H int
	Gen  uint64
}

// OverlayOptions holds the rasterization policy for one pass. The
// temperature artifact knobs are tuning heuristics, not contracts.
type OverlayOptions struct {
	Stride        int
	FaceTolerance float64
	Alpha         uint8
	Workers       int

	ArtifactDelta   float64
	PlausibleMinC   float64
	PlausibleMaxC   float64
	PatchRadius     int
	PatchAlphaScale float64
}

// OverlayOptionsFromConfig pulls the pass policy for the given mode.
// Wind uses the coarse stride, temperature the finer one.
func OverlayOptionsFromConfig(mode OverlayMode) OverlayOptions {
	cfg := config.Cfg()
	opts := OverlayOptions{
		FaceTolerance:   cfg.Overlay.FaceTolerance,
		Workers:         cfg.Overlay.Workers,
		ArtifactDelta:   cfg.Overlay.ArtifactDelta,
		PlausibleMinC:   cfg.Overlay.PlausibleMinC,
		PlausibleMaxC:   cfg.Overlay.PlausibleMaxC,
		PatchRadius:     cfg.Overlay.PatchRadius,
		PatchAlphaScale: cfg.Overlay.PatchAlphaScale,
	}
	switch mode {
	case ModeWind:
		opts.Stride = cfg.Derived.WindStride
		opts.Alpha = clampByte(cfg.Overlay.WindAlpha)
	case ModeTemperature:
		opts.Stride = cfg.Derived.TempStride
		opts.Alpha = clampByte(cfg.Overlay.TempAlpha)
	case ModeNone:
		opts.Stride = 1
	}
	return opts
}

// OverlayJob freezes everything one compute pass needs. The view and
// field pointers must not be mutated while the pass runs; grids are
// immutable after load, so only the caller's View copy matters.
type OverlayJob struct {
	View camera.View
	Mode OverlayMode
	Wind *field.VectorField
	Temp *field.ScalarField
	W, H int
	Gen  uint64
	Opts OverlayOptions
}

// ComputeOverlay rasterizes the overlay for the job into a fresh
// buffer. Block rows are striped across workers; each worker writes
// disjoint rows, so the buffer needs no locking. Safe to run on a
// goroutine; does not touch the render thread.
func ComputeOverlay(job OverlayJob) *OverlayImage {
	img := &OverlayImage{
		Pix: make([]color.RGBA, job.W*job.H),
		W:   job.W,
		H:   job.H,
		Gen: job.Gen,
	}
	if job.W <= 0 || job.H <= 0 {
		return img
	}
	switch job.Mode {
	case ModeWind:
		if job.Wind == nil {
			return img
		}
	case ModeTemperature:
		if job.Temp == nil {
			return img
		}
	case ModeNone:
		return img
	}

	stride := job.Opts.Stride
	if stride < 1 {
		stride = 1
	}
	blockRows := (job.H + stride - 1) / stride
	workers := job.Opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > blockRows {
		workers = blockRows
	}

	eyeDir := job.View.Eye.Normalize()
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(start int) {
			defer wg.Done()
			for row := start; row < blockRows; row += workers {
				rasterBlockRow(img, &job, eyeDir, row*stride, stride)
			}
		}(w)
	}
	wg.Wait()
	return img
}

func rasterBlockRow(img *OverlayImage, job *OverlayJob, eyeDir geo.Vec3, by, stride int) {
	for bx := 0; bx < job.W; bx += stride {
		var c color.RGBA
		switch job.Mode {
		case ModeWind:
			c = windBlockColor(job, eyeDir, bx, by, stride)
		case ModeTemperature:
			c = tempBlockColor(job, eyeDir, bx, by, stride)
		case ModeNone:
		}
		if c == (color.RGBA{}) {
			continue
		}
		fillBlock(img, bx, by, stride, c)
	}
}

// hitLonLat casts a ray through one screen position and returns the
// geographic coordinates of the globe hit. Misses, hits behind the
// eye, and hits tilted past the face tolerance report ok=false.
func hitLonLat(view *camera.View, eyeDir geo.Vec3, px, py, faceTolerance float64) (lon, lat float64, ok bool) {
	ray := view.Ray(px, py)
	t, hit := geo.IntersectSphere(ray, 1)
	if !hit || t <= 0 {
		return 0, 0, false
	}
	p := ray.Origin.Add(ray.Dir.Scale(t))
	if p.Dot(eyeDir) < faceTolerance {
		return 0, 0, false
	}
	lon, lat = geo.LonLat(p)
	return lon, lat, true
}

// windBlockColor averages a 2x2 sub-sample of wind speed colors within
// the block. Sub-samples that miss the globe or land on missing data
// contribute transparent black, which softens the limb.
func windBlockColor(job *OverlayJob, eyeDir geo.Vec3, bx, by, stride int) color.RGBA {
	q := float64(stride) / 4
	offsets := [2]float64{q, 3 * q}
	var r, g, b, a int
	for _, oy := range offsets {
		for _, ox := range offsets {
			lon, lat, ok := hitLonLat(&job.View, eyeDir, float64(bx)+ox, float64(by)+oy, job.Opts.FaceTolerance)
			if !ok {
				continue
			}
			u, v := job.Wind.Sample(lon, lat)
			speed := math.Hypot(u, v)
			if !isFinite(speed) {
				continue
			}
			c := WindColor(speed, job.Opts.Alpha)
			r += int(c.R)
			g += int(c.G)
			b += int(c.B)
			a += int(c.A)
		}
	}
	return color.RGBA{uint8(r / 4), uint8(g / 4), uint8(b / 4), uint8(a / 4)}
}

// tempBlockColor samples the temperature grid at the block center.
// Implausible or spiking samples fall back to a patch fill from the
// surrounding grid cells at reduced opacity.
func tempBlockColor(job *OverlayJob, eyeDir geo.Vec3, bx, by, stride int) color.RGBA {
	half := float64(stride) / 2
	lon, lat, ok := hitLonLat(&job.View, eyeDir, float64(bx)+half, float64(by)+half, job.Opts.FaceTolerance)
	if !ok {
		return color.RGBA{}
	}
	tC := ToCelsius(job.Temp.Sample(lon, lat))
	if plausibleTemp(tC, &job.Opts) && !isolatedSpike(job.Temp, lon, lat, tC, job.Opts.ArtifactDelta) {
		return TemperatureColor(tC, job.Opts.Alpha)
	}
	return patchFill(job.Temp, lon, lat, &job.Opts)
}

func plausibleTemp(tC float64, opts *OverlayOptions) bool {
	return isFinite(tC) && tC > opts.PlausibleMinC && tC < opts.PlausibleMaxC
}

// isolatedSpike reports whether a sample disagrees with every finite
// grid neighbor by more than delta. A real sharp front keeps at least
// one agreeing neighbor; a lone outlier is a grid artifact.
func isolatedSpike(t *field.ScalarField, lon, lat, tC, delta float64) bool {
	hdr := t.Header()
	checked := false
	for _, d := range [4][2]float64{{hdr.Dx, 0}, {-hdr.Dx, 0}, {0, hdr.Dy}, {0, -hdr.Dy}} {
		n := ToCelsius(t.Sample(lon+d[0], lat+d[1]))
		if !isFinite(n) {
			continue
		}
		checked = true
		if math.Abs(tC-n) <= delta {
			return false
		}
	}
	return checked
}

// patchFill reconstructs a display value from the plausible samples
// within the patch radius, weighted by inverse squared cell distance.
// No candidates means the cell stays transparent.
func patchFill(t *field.ScalarField, lon, lat float64, opts *OverlayOptions) color.RGBA {
	hdr := t.Header()
	r := opts.PatchRadius
	var sum, wsum float64
	for dj := -r; dj <= r; dj++ {
		for di := -r; di <= r; di++ {
			if di == 0 && dj == 0 {
				continue
			}
			n := ToCelsius(t.Sample(lon+float64(di)*hdr.Dx, lat+float64(dj)*hdr.Dy))
			if !plausibleTemp(n, opts) {
				continue
			}
			w := 1 / float64(di*di+dj*dj)
			sum += n * w
			wsum += w
		}
	}
	if wsum == 0 {
		return color.RGBA{}
	}
	return TemperatureColor(sum/wsum, uint8(float64(opts.Alpha)*opts.PatchAlphaScale))
}

func fillBlock(img *OverlayImage, bx, by, stride int, c color.RGBA) {
	xEnd := bx + stride
	if xEnd > img.W {
		xEnd = img.W
	}
	yEnd := by + stride
	if yEnd > img.H {
		yEnd = img.H
	}
	for y := by; y < yEnd; y++ {
		row := img.Pix[y*img.W : y*img.W+img.W]
		for x := bx; x < xEnd; x++ {
			row[x] = c
		}
	}
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
