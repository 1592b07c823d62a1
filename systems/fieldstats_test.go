package systems

import (
	"math"
	"strings"
	"testing"

	"github.com/averre/globeflow/field"
)

func statsField(t *testing.T, vals []float64) *field.ScalarField {
	t.Helper()
	hdr := field.GridHeader{Nx: 3, Ny: 2, Lo1: 0, La1: 10, Dx: 10, Dy: 10}
	sf, err := field.NewScalarField(hdr, vals)
	if err != nil {
		t.Fatalf("NewScalarField: %v", err)
	}
	return sf
}

func TestComputeStats(t *testing.T) {
	nan := math.NaN()
	sf := statsField(t, []float64{2, 4, nan, 6, 8, nan})
	s := ComputeStats(sf)

	if s.Finite != 4 || s.Missing != 2 {
		t.Fatalf("finite/missing = %d/%d, want 4/2", s.Finite, s.Missing)
	}
	if s.Min != 2 || s.Max != 8 {
		t.Errorf("min/max = %g/%g, want 2/8", s.Min, s.Max)
	}
	if s.Mean != 5 {
		t.Errorf("mean = %g, want 5", s.Mean)
	}
	if got := s.Coverage(); math.Abs(got-4.0/6.0) > 1e-12 {
		t.Errorf("coverage = %g, want %g", got, 4.0/6.0)
	}
}

func TestComputeStatsAllMissing(t *testing.T) {
	nan := math.NaN()
	sf := statsField(t, []float64{nan, nan, nan, nan, nan, nan})
	s := ComputeStats(sf)

	if s.Finite != 0 || s.Missing != 6 {
		t.Fatalf("finite/missing = %d/%d, want 0/6", s.Finite, s.Missing)
	}
	if s.Coverage() != 0 {
		t.Errorf("coverage = %g, want 0", s.Coverage())
	}
	if got := s.Summary("K"); got != "no data" {
		t.Errorf("Summary on empty stats = %q", got)
	}
}

func TestStatsQuantilesOrdered(t *testing.T) {
	vals := make([]float64, 6)
	for i := range vals {
		vals[i] = float64(i * 10)
	}
	s := ComputeStats(statsField(t, vals))

	if s.P10 > s.Median || s.Median > s.P90 {
		t.Errorf("quantiles out of order: p10=%g median=%g p90=%g", s.P10, s.Median, s.P90)
	}
	if s.Min > s.P10 || s.P90 > s.Max {
		t.Errorf("quantiles outside range: min=%g p10=%g p90=%g max=%g", s.Min, s.P10, s.P90, s.Max)
	}
}

func TestStatsSummaryCarriesUnit(t *testing.T) {
	s := ComputeStats(statsField(t, []float64{1, 2, 3, 4, 5, 6}))
	if got := s.Summary(" m/s"); !strings.Contains(got, " m/s") {
		t.Errorf("Summary = %q, want unit included", got)
	}
}
