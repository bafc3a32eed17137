// Package capacity computes the minimum transport-link capacity required
// to keep packet loss inside a fixed budget, with and without a small
// fronthaul buffer.
package capacity

import (
	"fmt"

	"fronthaul-lab/internal/config"
	"fronthaul-lab/internal/domain"
	"fronthaul-lab/internal/metrics"
)

// Estimator derives per-link capacity requirements from the raw
// (non-downsampled) per-slot traffic series.
type Estimator struct {
	lossBudgetPercent float64
	windowSlots       int
	bufferDurationUS  float64
}

// NewEstimator creates an Estimator. The smoothing window covers the slot
// being served plus the whole slots a full buffer can absorb (the
// sub-slot 4-symbol buffer rounds up to one slot).
func NewEstimator(cfg config.Config) *Estimator {
	return &Estimator{
		lossBudgetPercent: cfg.LossBudgetPercent,
		windowSlots:       1 + cfg.BufferSlots(),
		bufferDurationUS:  cfg.BufferDurationUS,
	}
}

// Estimate computes the capacity requirement for one link.
//
// Allowing the top lossBudgetPercent of slots to exceed capacity is by
// definition loss within budget, so the unbuffered requirement is the
// (100 - budget)-th percentile of the per-slot series. The buffered
// requirement applies the same rule to the buffer-window moving average.
// The result is clamped so WithBufferGbps never exceeds WithoutBufferGbps.
func (e *Estimator) Estimate(series []float64) domain.CapacityEstimate {
	estimate := domain.CapacityEstimate{
		BufferDurationUS:        e.bufferDurationUS,
		PacketLossBudgetPercent: e.lossBudgetPercent,
	}
	if len(series) == 0 {
		return estimate
	}

	percentile := 100 - e.lossBudgetPercent
	withoutBuffer := metrics.Percentile(series, percentile)

	// A series shorter than the buffer window can't be smoothed; the
	// buffer has no effect.
	withBuffer := withoutBuffer
	if len(series) >= e.windowSlots {
		withBuffer = metrics.Percentile(movingAverage(series, e.windowSlots), percentile)
		if withBuffer > withoutBuffer {
			withBuffer = withoutBuffer
		}
	}

	estimate.PeakThroughputGbps = metrics.Round(metrics.Max(series), 4)
	estimate.WithoutBufferGbps = metrics.Round(withoutBuffer, 4)
	estimate.WithBufferGbps = metrics.Round(withBuffer, 4)
	return estimate
}

// EstimateAll estimates every link, keyed link_<n>.
func (e *Estimator) EstimateAll(linkSeries [][]float64) map[string]domain.CapacityEstimate {
	estimates := make(map[string]domain.CapacityEstimate, len(linkSeries))
	for link, series := range linkSeries {
		estimates[fmt.Sprintf("link_%d", link+1)] = e.Estimate(series)
	}
	return estimates
}

// movingAverage smooths the series over full windows only; partial
// windows at the edges would overweight isolated bursts.
func movingAverage(series []float64, window int) []float64 {
	if window <= 1 || len(series) < window {
		return series
	}

	out := make([]float64, len(series)-window+1)
	sum := 0.0
	for i := 0; i < window; i++ {
		sum += series[i]
	}
	out[0] = sum / float64(window)
	for i := window; i < len(series); i++ {
		sum += series[i] - series[i-window]
		out[i-window+1] = sum / float64(window)
	}
	return out
}
