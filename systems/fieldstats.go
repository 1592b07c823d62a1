package systems

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/averre/globeflow/field"
)

// FieldStats summarizes the finite samples of one grid, for the HUD
// legend and the fieldstats tool. Missing samples are counted but
// excluded from every statistic.
type FieldStats struct {
	Min, Max float64
	Mean     float64
	Median   float64
	P10, P90 float64

	Finite  int
	Missing int
}

// ComputeStats aggregates a scalar grid. A grid with no finite samples
// returns the zero value with Finite == 0; callers should treat its
// statistics as undefined.
func ComputeStats(f *field.ScalarField) FieldStats {
	vals := f.Values()
	finite := make([]float64, 0, len(vals))
	missing := 0
	for _, v := range vals {
		if isFinite(v) {
			finite = append(finite, v)
		} else {
			missing++
		}
	}
	if len(finite) == 0 {
		return FieldStats{Missing: missing}
	}
	sort.Float64s(finite)
	return FieldStats{
		Min:     floats.Min(finite),
		Max:     floats.Max(finite),
		Mean:    stat.Mean(finite, nil),
		Median:  stat.Quantile(0.5, stat.Empirical, finite, nil),
		P10:     stat.Quantile(0.1, stat.Empirical, finite, nil),
		P90:     stat.Quantile(0.9, stat.Empirical, finite, nil),
		Finite:  len(finite),
		Missing: missing,
	}
}

// Coverage is the fraction of grid cells carrying data.
func (s FieldStats) Coverage() float64 {
	total := s.Finite + s.Missing
	if total == 0 {
		return 0
	}
	return float64(s.Finite) / float64(total)
}

// Summary formats the stats for the HUD legend line.
func (s FieldStats) Summary(unit string) string {
	if s.Finite == 0 {
		return "no data"
	}
	return fmt.Sprintf("min %.1f%s  mean %.1f%s  max %.1f%s",
		s.Min, unit, s.Mean, unit, s.Max, unit)
}
