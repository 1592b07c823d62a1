// Package geodata loads grid datasets and border geometry from disk
// and generates synthetic datasets when no real data is available. It
// is the only package that touches the filesystem; everything it
// returns is validated field values ready for the level manager.
package geodata

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/averre/globeflow/field"
)

// GRIB parameter numbers carried by the grid files.
const (
	paramTemperature = 0
	paramUWind       = 2
	paramVWind       = 3
)

// missingSentinel marks encoded missing values that are not JSON
// nulls. Anything at or beyond it becomes NaN on load.
const missingSentinel = 9e20

type gridHeaderJSON struct {
	Nx              int     `json:"nx"`
	Ny              int     `json:"ny"`
	Lo1             float64 `json:"lo1"`
	La1             float64 `json:"la1"`
	Dx              float64 `json:"dx"`
	Dy              float64 `json:"dy"`
	ParameterNumber int     `json:"parameterNumber"`
	Surface1Type    int     `json:"surface1Type"`
	Surface1Value   float64 `json:"surface1Value"`
}

// gridRecord is one quantity on one grid. Data entries may be null
// for missing cells.
type gridRecord struct {
	Header gridHeaderJSON `json:"header"`
	Data   []*float64     `json:"data"`
}

func (h gridHeaderJSON) toField() field.GridHeader {
	return field.GridHeader{
		Nx: h.Nx, Ny: h.Ny,
		Lo1: h.Lo1, La1: h.La1,
		Dx: h.Dx, Dy: h.Dy,
		SurfaceType:  h.Surface1Type,
		SurfaceValue: h.Surface1Value,
	}
}

// values normalizes the record data: nulls and sentinel magnitudes
// become NaN.
func (r gridRecord) values() []float64 {
	vals := make([]float64, len(r.Data))
	for i, p := range r.Data {
		if p == nil || math.Abs(*p) >= missingSentinel {
			vals[i] = math.NaN()
			continue
		}
		vals[i] = *p
	}
	return vals
}

func readRecords(path string) ([]gridRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading grid file: %w", err)
	}
	var records []gridRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return records, nil
}

// LoadWindFile reads one wind grid file: a record array carrying a U
// and a V component on the same grid geometry.
func LoadWindFile(path string) (field.WindLevel, error) {
	records, err := readRecords(path)
	if err != nil {
		return field.WindLevel{}, err
	}
	var u, v *gridRecord
	for i := range records {
		switch records[i].Header.ParameterNumber {
		case paramUWind:
			u = &records[i]
		case paramVWind:
			v = &records[i]
		}
	}
	if u == nil || v == nil {
		return field.WindLevel{}, fmt.Errorf("%s: need both U and V records", filepath.Base(path))
	}
	hdr := u.Header.toField()
	if v.Header.toField() != hdr {
		return field.WindLevel{}, fmt.Errorf("%s: U and V grid geometry differs", filepath.Base(path))
	}
	vf, err := field.NewVectorField(hdr, u.values(), v.values())
	if err != nil {
		return field.WindLevel{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return field.WindLevel{Label: hdr.SurfaceLabel(), Wind: vf}, nil
}

// LoadTemperatureFile reads one temperature grid file. Values stay in
// the units the file carries; Kelvin conversion happens at display.
func LoadTemperatureFile(path string) (field.TemperatureLevel, error) {
	records, err := readRecords(path)
	if err != nil {
		return field.TemperatureLevel{}, err
	}
	for i := range records {
		if records[i].Header.ParameterNumber != paramTemperature {
			continue
		}
		hdr := records[i].Header.toField()
		sf, err := field.NewScalarField(hdr, records[i].values())
		if err != nil {
			return field.TemperatureLevel{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		return field.TemperatureLevel{Label: hdr.SurfaceLabel(), Temp: sf}, nil
	}
	return field.TemperatureLevel{}, fmt.Errorf("%s: no temperature record", filepath.Base(path))
}

// LoadWindLevels loads every file in dir matching glob. Files that
// fail to parse or validate are logged and skipped so one bad level
// does not take down the dataset. Levels come back in surface order,
// ground first, then pressure levels from low to high altitude.
func LoadWindLevels(dir, glob string) ([]field.WindLevel, error) {
	paths, err := filepath.Glob(filepath.Join(dir, glob))
	if err != nil {
		return nil, fmt.Errorf("bad wind glob %q: %w", glob, err)
	}
	var levels []field.WindLevel
	for _, path := range paths {
		lvl, err := LoadWindFile(path)
		if err != nil {
			slog.Warn("skipping wind level", "path", path, "err", err)
			continue
		}
		levels = append(levels, lvl)
	}
	sortLevels(levels, func(l field.WindLevel) field.GridHeader { return l.Wind.Header() })
	return levels, nil
}

// LoadTemperatureLevels mirrors LoadWindLevels for temperature files.
func LoadTemperatureLevels(dir, glob string) ([]field.TemperatureLevel, error) {
	paths, err := filepath.Glob(filepath.Join(dir, glob))
	if err != nil {
		return nil, fmt.Errorf("bad temperature glob %q: %w", glob, err)
	}
	var levels []field.TemperatureLevel
	for _, path := range paths {
		lvl, err := LoadTemperatureFile(path)
		if err != nil {
			slog.Warn("skipping temperature level", "path", path, "err", err)
			continue
		}
		levels = append(levels, lvl)
	}
	sortLevels(levels, func(l field.TemperatureLevel) field.GridHeader { return l.Temp.Header() })
	return levels, nil
}

// sortLevels orders levels ground-up: height-above-ground surfaces
// first by height, then isobaric surfaces by falling pressure.
func sortLevels[L any](levels []L, header func(L) field.GridHeader) {
	sort.SliceStable(levels, func(a, b int) bool {
		ha, hb := header(levels[a]), header(levels[b])
		if ha.SurfaceType != hb.SurfaceType {
			return ha.SurfaceType > hb.SurfaceType // 103 (height) before 100 (isobaric)
		}
		if ha.SurfaceType == 100 {
			return ha.SurfaceValue > hb.SurfaceValue
		}
		return ha.SurfaceValue < hb.SurfaceValue
	})
}
