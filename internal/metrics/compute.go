// Package metrics computes the derived statistics of a pipeline run:
// per-link aggregated traffic, downsampled reporting series, and per-cell
// congestion.
package metrics

import (
	"math"
	"sort"
)

// Percentile returns the p-th percentile (p in 0–100) of values under the
// linear-interpolation definition with rank h = (p/100)·n over the sorted
// series (1-based, interpolating between adjacent order statistics).
// Under this definition the 95th percentile of 1..100 is exactly 95.
func Percentile(values []float64, p float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	h := p / 100 * float64(n)
	if h <= 1 {
		return sorted[0]
	}
	if h >= float64(n) {
		return sorted[n-1]
	}

	lower := int(math.Floor(h))
	frac := h - float64(lower)
	if frac == 0 {
		return sorted[lower-1]
	}
	return sorted[lower-1] + frac*(sorted[lower]-sorted[lower-1])
}

// Mean is the arithmetic mean, zero for an empty series.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Max returns the largest value, zero for an empty series.
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Round rounds to the given number of decimal places, for reporting.
func Round(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}
