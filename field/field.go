// Package field holds the grid data model: regular lat/lon scalar
// grids with header geometry, bilinear sampling with longitude
// wraparound, and the per-level groupings consumed by the level
// manager. Grids are immutable after construction; a dataset swap
// builds new values instead of mutating in place.
package field

import (
	"errors"
	"fmt"
	"math"

	"github.com/averre/globeflow/geo"
)

// Sentinel errors for malformed grid input. The loader logs and skips
// the offending level; other levels keep loading.
var (
	ErrBadHeader = errors.New("field: malformed grid header")
	ErrBadLength = errors.New("field: grid length mismatch")
)

// GridHeader describes a regular lat/lon grid of Nx columns by Ny
// rows. Lo1 is the longitude of column 0 and La1 the latitude of row
// 0; rows march southward from La1 in steps of Dy. Column indexing
// wraps modulo Nx, row indexing does not wrap.
type GridHeader struct {
	Nx, Ny   int
	Lo1, La1 float64
	Dx, Dy   float64

	// Surface metadata, used only for display labels.
	SurfaceType  int
	SurfaceValue float64
}

// Validate reports whether the header satisfies the grid invariants.
func (h GridHeader) Validate() error {
	if h.Nx < 2 || h.Ny < 2 {
		return fmt.Errorf("%w: %dx%d grid, need at least 2x2", ErrBadHeader, h.Nx, h.Ny)
	}
	if h.Dx <= 0 || h.Dy <= 0 {
		return fmt.Errorf("%w: step %gx%g, need positive", ErrBadHeader, h.Dx, h.Dy)
	}
	return nil
}

// SurfaceLabel derives a display label from the surface metadata,
// following the GRIB surface code convention: 100 is an isobaric
// surface in Pa, 103 is height above ground in meters.
func (h GridHeader) SurfaceLabel() string {
	switch h.SurfaceType {
	case 100:
		return fmt.Sprintf("%d hPa", int(h.SurfaceValue/100+0.5))
	case 103:
		return fmt.Sprintf("%d m", int(h.SurfaceValue+0.5))
	}
	return "surface"
}

// cell locates a geographic position inside the grid: integer indices
// of the northwest sample and the fractional offsets toward the
// southeast neighbors.
type cell struct {
	i0, j0 int
	fi, fj float64
}

// locate maps (lon, lat) in degrees to fractional grid coordinates.
// Longitude distance from Lo1 is taken modulo 360 so any input
// longitude convention lands in [0, 360).
func (h GridHeader) locate(lon, lat float64) cell {
	lon = geo.NormLon(lon)
	i := posMod(lon-h.Lo1, 360) / h.Dx
	j := (h.La1 - lat) / h.Dy
	fi0 := math.Floor(i)
	fj0 := math.Floor(j)
	return cell{
		i0: int(fi0),
		j0: int(fj0),
		fi: i - fi0,
		fj: j - fj0,
	}
}

// at reads the raw sample at column i (wrapped modulo Nx) and row j.
// Rows outside [0, Ny-1] are missing.
func at(vals []float64, h GridHeader, i, j int) float64 {
	if j < 0 || j >= h.Ny {
		return math.NaN()
	}
	return vals[j*h.Nx+posModInt(i, h.Nx)]
}

// lerp interpolates between a and b. A zero offset returns a without
// touching b, so samples exactly on a grid point (or on the last row)
// return the stored value rather than dragging in an out-of-range or
// missing far neighbor.
func lerp(a, b, t float64) float64 {
	if t == 0 {
		return a
	}
	return a + (b-a)*t
}

// sampleGrid bilinearly interpolates vals at the located cell. Any
// missing neighbor that carries interpolation weight makes the result
// missing; NaN is never treated as zero.
func sampleGrid(vals []float64, h GridHeader, c cell) float64 {
	g00 := at(vals, h, c.i0, c.j0)
	g10 := at(vals, h, c.i0+1, c.j0)
	g01 := at(vals, h, c.i0, c.j0+1)
	g11 := at(vals, h, c.i0+1, c.j0+1)
	top := lerp(g00, g10, c.fi)
	bot := lerp(g01, g11, c.fi)
	return lerp(top, bot, c.fj)
}

func posMod(x, m float64) float64 {
	r := math.Mod(x, m)
	if r < 0 {
		r += m
	}
	return r
}

func posModInt(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

// ScalarField is one quantity on one grid.
type ScalarField struct {
	header GridHeader
	vals   []float64
}

// NewScalarField validates the header and sample count and takes
// ownership of vals. Missing samples must already be NaN.
func NewScalarField(h GridHeader, vals []float64) (*ScalarField, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	if len(vals) != h.Nx*h.Ny {
		return nil, fmt.Errorf("%w: have %d samples, %dx%d grid wants %d",
			ErrBadLength, len(vals), h.Nx, h.Ny, h.Nx*h.Ny)
	}
	return &ScalarField{header: h, vals: vals}, nil
}

// Header returns the grid geometry.
func (f *ScalarField) Header() GridHeader { return f.header }

// Values exposes the raw samples for statistics. Callers must not
// modify the slice.
func (f *ScalarField) Values() []float64 { return f.vals }

// At reads the raw sample at column i (wrapped) and row j, NaN off
// the top or bottom of the grid.
func (f *ScalarField) At(i, j int) float64 { return at(f.vals, f.header, i, j) }

// Sample bilinearly interpolates the field at (lon, lat) in degrees.
// Returns NaN when any contributing neighbor is missing.
func (f *ScalarField) Sample(lon, lat float64) float64 {
	return sampleGrid(f.vals, f.header, f.header.locate(lon, lat))
}

// VectorField is a U/V pair on one grid plus the derived speed field
// sqrt(U*U + V*V), missing wherever either component is.
type VectorField struct {
	header GridHeader
	u, v   []float64
	speed  *ScalarField
}

// NewVectorField validates the header and both component lengths and
// takes ownership of the slices, deriving the speed grid.
func NewVectorField(h GridHeader, u, v []float64) (*VectorField, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	want := h.Nx * h.Ny
	if len(u) != want || len(v) != want {
		return nil, fmt.Errorf("%w: have %d/%d samples, %dx%d grid wants %d",
			ErrBadLength, len(u), len(v), h.Nx, h.Ny, want)
	}
	speed := make([]float64, want)
	for i := range speed {
		speed[i] = math.Hypot(u[i], v[i])
	}
	sf, err := NewScalarField(h, speed)
	if err != nil {
		return nil, err
	}
	return &VectorField{header: h, u: u, v: v, speed: sf}, nil
}

// Header returns the grid geometry.
func (f *VectorField) Header() GridHeader { return f.header }

// Sample bilinearly interpolates both components at (lon, lat). The
// cell is located once and shared. Either result is NaN when a
// contributing neighbor of that component is missing.
func (f *VectorField) Sample(lon, lat float64) (u, v float64) {
	c := f.header.locate(lon, lat)
	return sampleGrid(f.u, f.header, c), sampleGrid(f.v, f.header, c)
}

// Speed returns the derived speed field.
func (f *VectorField) Speed() *ScalarField { return f.speed }

// WindLevel is one selectable wind dataset.
type WindLevel struct {
	Label string
	Wind  *VectorField
}

// TemperatureLevel is one selectable temperature dataset.
type TemperatureLevel struct {
	Label string
	Temp  *ScalarField
}
