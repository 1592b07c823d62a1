// Grid inspection tool - prints summary statistics for grid data
// files, optionally appending them to a CSV for comparison across
// levels or datasets.
//
// Usage: go run ./cmd/fieldstats -kind wind data/wind-500hPa.json
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/averre/globeflow/field"
	"github.com/averre/globeflow/geodata"
	"github.com/averre/globeflow/systems"
)

// statsRow is one CSV line of per-file statistics.
type statsRow struct {
	File     string  `csv:"file"`
	Label    string  `csv:"label"`
	Finite   int     `csv:"finite"`
	Missing  int     `csv:"missing"`
	Coverage float64 `csv:"coverage"`
	Min      float64 `csv:"min"`
	Max      float64 `csv:"max"`
	Mean     float64 `csv:"mean"`
	Median   float64 `csv:"median"`
	P10      float64 `csv:"p10"`
	P90      float64 `csv:"p90"`
}

func main() {
	kind := flag.String("kind", "wind", "File kind: wind or temp")
	csvPath := flag.String("csv", "", "Append results to this CSV file")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: fieldstats [-kind wind|temp] [-csv out.csv] file...")
		os.Exit(2)
	}

	unit := " m/s"
	if *kind == "temp" {
		unit = " K"
	}

	rows := make([]statsRow, 0, flag.NArg())
	for _, path := range flag.Args() {
		label, scalar, err := loadScalar(*kind, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fieldstats: %s: %v\n", path, err)
			os.Exit(1)
		}

		stats := systems.ComputeStats(scalar)
		fmt.Printf("%s (%s): %s, coverage %.1f%%\n",
			path, label, stats.Summary(unit), 100*stats.Coverage())

		rows = append(rows, statsRow{
			File:     path,
			Label:    label,
			Finite:   stats.Finite,
			Missing:  stats.Missing,
			Coverage: stats.Coverage(),
			Min:      stats.Min,
			Max:      stats.Max,
			Mean:     stats.Mean,
			Median:   stats.Median,
			P10:      stats.P10,
			P90:      stats.P90,
		})
	}

	if *csvPath != "" {
		if err := writeCSV(*csvPath, rows); err != nil {
			fmt.Fprintf(os.Stderr, "fieldstats: %v\n", err)
			os.Exit(1)
		}
	}
}

func loadScalar(kind, path string) (string, *field.ScalarField, error) {
	switch kind {
	case "wind":
		lvl, err := geodata.LoadWindFile(path)
		if err != nil {
			return "", nil, err
		}
		return lvl.Label, lvl.Wind.Speed(), nil
	case "temp":
		lvl, err := geodata.LoadTemperatureFile(path)
		if err != nil {
			return "", nil, err
		}
		return lvl.Label, lvl.Temp, nil
	default:
		return "", nil, fmt.Errorf("unknown kind %q", kind)
	}
}

func writeCSV(path string, rows []statsRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.Marshal(rows, f)
}
