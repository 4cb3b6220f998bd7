package genetic

import (
	"math"
	"slices"
)

// Stats describes a sample of float32 values.
type Stats struct {
	Min, Max, Mean, Median float32
	Variance, StdDev       float32
	// NormalizedStdDev is StdDev divided by the range, or 0 when the range
	// is negligible next to the mean.
	NormalizedStdDev float32
}

// NewStats computes population (not sample) statistics. An empty input
// yields the zero Stats.
func NewStats(values []float32) Stats {
	if len(values) == 0 {
		return Stats{}
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	n := float32(len(sorted))
	var sum float32
	for _, v := range sorted {
		sum += v
	}
	s := Stats{
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Mean:   sum / n,
		Median: sorted[len(sorted)/2],
	}
	for _, v := range sorted {
		d := v - s.Mean
		s.Variance += d * d
	}
	s.Variance /= n
	s.StdDev = float32(math.Sqrt(float64(s.Variance)))

	r := s.Max - s.Min
	if r > abs32(s.Mean)*epsilon32 {
		s.NormalizedStdDev = s.StdDev / r
	}
	return s
}

// MeanNormalizedStdDev averages NormalizedStdDev over stats; it falls as the
// population converges.
func MeanNormalizedStdDev(stats []Stats) float32 {
	if len(stats) == 0 {
		return 0
	}
	var sum float32
	for _, s := range stats {
		sum += s.NormalizedStdDev
	}
	return sum / float32(len(stats))
}

const epsilon32 = 0x1p-23

func abs32(x float32) float32 {
	return float32(math.Abs(float64(x)))
}
