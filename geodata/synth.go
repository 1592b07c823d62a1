package geodata

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/ojrac/opensimplex-go"

	"github.com/averre/globeflow/field"
	"github.com/averre/globeflow/geo"
)

// SynthParams configures one synthetic level.
type SynthParams struct {
	Nx, Ny int
	Seed   int64

	// GRIB surface coding: type 103 with a height in meters, or type
	// 100 with a pressure in Pa.
	SurfaceType  int
	SurfaceValue float64
}

func (p SynthParams) header() field.GridHeader {
	return field.GridHeader{
		Nx: p.Nx, Ny: p.Ny,
		Lo1: 0,
		La1: 90,
		Dx:  360 / float64(p.Nx),
		Dy:  180 / float64(p.Ny-1),

		SurfaceType:  p.SurfaceType,
		SurfaceValue: p.SurfaceValue,
	}
}

// altitude maps the surface coding to a 0..1 height fraction used to
// strengthen winds and cool temperatures aloft.
func (p SynthParams) altitude() float64 {
	if p.SurfaceType == 100 {
		return geo.Clamp(1-p.SurfaceValue/101325, 0, 1)
	}
	return 0
}

// SynthWindGrid generates a plausible global wind level: zonal jets
// modulated by latitude plus the curl of a noise streamfunction, so
// the perturbation field is divergence-free and forms closed eddies
// instead of sources and sinks. Noise is sampled on the unit sphere,
// which keeps the field seamless across the date line.
func SynthWindGrid(p SynthParams) (field.GridHeader, []float64, []float64) {
	hdr := p.header()
	noise := opensimplex.New(p.Seed)
	alt := p.altitude()

	// Streamfunction and its finite-difference step in degrees.
	const (
		psiScale  = 2.2  // noise frequency on the unit sphere
		psiAmp    = 900  // streamfunction amplitude
		diffStep  = 1.0  // central-difference step
		jetBase   = 14.0 // surface jet strength, m/s
		jetAloft  = 55.0 // extra jet strength at the top level
		tradeBase = 6.0
	)
	psi := func(lon, lat float64) float64 {
		pt := geo.SpherePoint(lon, lat).Scale(psiScale)
		return psiAmp * noise.Eval3(pt.X, pt.Y, pt.Z)
	}

	n := hdr.Nx * hdr.Ny
	u := make([]float64, n)
	v := make([]float64, n)
	for j := 0; j < hdr.Ny; j++ {
		lat := hdr.La1 - float64(j)*hdr.Dy
		coslat := math.Cos(geo.Rad(lat))
		if coslat < 0.05 {
			coslat = 0.05
		}
		// Midlatitude westerlies and equatorial trades.
		jet := (jetBase + jetAloft*alt) * math.Exp(-sq((math.Abs(lat)-45)/14))
		trade := -tradeBase * math.Exp(-sq(lat/12))
		for i := 0; i < hdr.Nx; i++ {
			lon := hdr.Lo1 + float64(i)*hdr.Dx
			idx := j*hdr.Nx + i
			u[idx] = jet + trade - (psi(lon, lat+diffStep)-psi(lon, lat-diffStep))/(2*diffStep)
			v[idx] = (psi(lon+diffStep, lat)-psi(lon-diffStep, lat)) / (2 * diffStep * coslat)
		}
	}
	return hdr, u, v
}

// SynthTemperatureGrid generates a global temperature level in
// Kelvin: warm at the equator, cold at the poles, cooler aloft, with
// seamless noise for weather-scale variation.
func SynthTemperatureGrid(p SynthParams) (field.GridHeader, []float64) {
	hdr := p.header()
	noise := opensimplex.New(p.Seed + 1)
	alt := p.altitude()

	const (
		equatorK   = 301.0
		poleDrop   = 65.0
		aloftDrop  = 75.0
		noiseAmp   = 7.0
		noiseScale = 3.0
	)
	vals := make([]float64, hdr.Nx*hdr.Ny)
	for j := 0; j < hdr.Ny; j++ {
		lat := hdr.La1 - float64(j)*hdr.Dy
		base := equatorK - poleDrop*sq(math.Sin(geo.Rad(lat))) - aloftDrop*alt
		for i := 0; i < hdr.Nx; i++ {
			lon := hdr.Lo1 + float64(i)*hdr.Dx
			pt := geo.SpherePoint(lon, lat).Scale(noiseScale)
			vals[j*hdr.Nx+i] = base + noiseAmp*noise.Eval3(pt.X, pt.Y, pt.Z)
		}
	}
	return hdr, vals
}

func sq(x float64) float64 { return x * x }

// WriteWindFile writes a wind level in the grid file format the
// loader reads back: a record array with U and V components.
func WriteWindFile(path string, hdr field.GridHeader, u, v []float64) error {
	records := []gridRecord{
		{Header: headerJSON(hdr, paramUWind), Data: encodeValues(u)},
		{Header: headerJSON(hdr, paramVWind), Data: encodeValues(v)},
	}
	return writeRecords(path, records)
}

// WriteTemperatureFile writes a temperature level in the grid file
// format the loader reads back.
func WriteTemperatureFile(path string, hdr field.GridHeader, vals []float64) error {
	records := []gridRecord{
		{Header: headerJSON(hdr, paramTemperature), Data: encodeValues(vals)},
	}
	return writeRecords(path, records)
}

func headerJSON(hdr field.GridHeader, param int) gridHeaderJSON {
	return gridHeaderJSON{
		Nx: hdr.Nx, Ny: hdr.Ny,
		Lo1: hdr.Lo1, La1: hdr.La1,
		Dx: hdr.Dx, Dy: hdr.Dy,
		ParameterNumber: param,
		Surface1Type:    hdr.SurfaceType,
		Surface1Value:   hdr.SurfaceValue,
	}
}

// encodeValues maps NaN back to JSON null.
func encodeValues(vals []float64) []*float64 {
	out := make([]*float64, len(vals))
	for i := range vals {
		if math.IsNaN(vals[i]) {
			continue
		}
		out[i] = &vals[i]
	}
	return out
}

func writeRecords(path string, records []gridRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding grid file: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing grid file: %w", err)
	}
	return nil
}
