// Synthetic dataset generator - writes wind and temperature grid
// files for a plausible set of levels so the globe can run without
// real forecast data.
//
// Usage: go run ./cmd/mkfields -out data
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/averre/globeflow/geodata"
)

// level describes one output surface in GRIB coding.
type level struct {
	name         string
	surfaceType  int
	surfaceValue float64
}

var levels = []level{
	{"10m", 103, 10},
	{"1000hPa", 100, 100000},
	{"850hPa", 100, 85000},
	{"700hPa", 100, 70000},
	{"500hPa", 100, 50000},
	{"250hPa", 100, 25000},
	{"70hPa", 100, 7000},
	{"10hPa", 100, 1000},
}

func main() {
	out := flag.String("out", "data", "Output directory")
	nx := flag.Int("nx", 360, "Grid columns (longitude)")
	ny := flag.Int("ny", 181, "Grid rows (latitude)")
	seed := flag.Int64("seed", 1, "Noise seed")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := os.MkdirAll(*out, 0o755); err != nil {
		slog.Error("creating output directory", "dir", *out, "error", err)
		os.Exit(1)
	}

	for i, lvl := range levels {
		p := geodata.SynthParams{
			Nx:           *nx,
			Ny:           *ny,
			Seed:         *seed + int64(i),
			SurfaceType:  lvl.surfaceType,
			SurfaceValue: lvl.surfaceValue,
		}

		hdr, u, v := geodata.SynthWindGrid(p)
		windPath := filepath.Join(*out, fmt.Sprintf("wind-%s.json", lvl.name))
		if err := geodata.WriteWindFile(windPath, hdr, u, v); err != nil {
			slog.Error("writing wind file", "path", windPath, "error", err)
			os.Exit(1)
		}

		hdr, vals := geodata.SynthTemperatureGrid(p)
		tempPath := filepath.Join(*out, fmt.Sprintf("temp-%s.json", lvl.name))
		if err := geodata.WriteTemperatureFile(tempPath, hdr, vals); err != nil {
			slog.Error("writing temperature file", "path", tempPath, "error", err)
			os.Exit(1)
		}

		slog.Info("level written", "level", lvl.name, "nx", *nx, "ny", *ny)
	}
}
