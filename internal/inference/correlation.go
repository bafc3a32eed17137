// Package inference derives the fronthaul topology from telemetry alone:
// cells whose packet loss spikes in the same slots are inferred to share
// a transport link, because shared-link congestion hits every cell that
// traverses the link at once.
package inference

import (
	"errors"
	"math"

	"fronthaul-lab/internal/domain"
)

// ErrDegenerateCorrelation signals that too few cells carry enough
// loss variance to correlate; callers fall back to the deterministic
// round-robin partition.
var ErrDegenerateCorrelation = errors.New("inference: insufficient variance to correlate")

// lossMatrix aligns per-cell loss-rate series onto the intersection of
// their slot ranges. Cells is the row order. Slots a cell is missing
// inside the window contribute zero loss.
func lossMatrix(cells []int, loss map[int][]domain.PacketStat, maxSlots int64) ([][]float64, error) {
	if len(cells) < 2 {
		return nil, ErrDegenerateCorrelation
	}

	// Intersection of available ranges, not the union: a cell missing a
	// whole prefix or suffix must not bias the correlation toward zero.
	slotMin := int64(math.MinInt64)
	slotMax := int64(math.MaxInt64)
	for _, cell := range cells {
		series := loss[cell]
		if len(series) == 0 {
			return nil, ErrDegenerateCorrelation
		}
		if first := series[0].Slot; first > slotMin {
			slotMin = first
		}
		if last := series[len(series)-1].Slot; last < slotMax {
			slotMax = last
		}
	}
	if slotMax < slotMin {
		return nil, ErrDegenerateCorrelation
	}
	if maxSlots > 0 && slotMax-slotMin+1 > maxSlots {
		slotMax = slotMin + maxSlots - 1
	}

	width := int(slotMax - slotMin + 1)
	matrix := make([][]float64, len(cells))
	for i, cell := range cells {
		row := make([]float64, width)
		for _, stat := range loss[cell] {
			if stat.Slot < slotMin || stat.Slot > slotMax {
				continue
			}
			row[stat.Slot-slotMin] = stat.LossRate
		}
		matrix[i] = row
	}
	return matrix, nil
}

// correlationMatrix computes the pairwise Pearson correlation of the
// aligned rows. Pairs without defined correlation (zero variance) read
// as zero; the diagonal is one.
func correlationMatrix(matrix [][]float64) ([][]float64, int) {
	n := len(matrix)
	corr := make([][]float64, n)
	for i := range corr {
		corr[i] = make([]float64, n)
		corr[i][i] = 1
	}

	defined := 0
	for i := 0; i < n; i++ {
		if _, std := meanStd(matrix[i]); std > 0 {
			defined++
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			c := pearson(matrix[i], matrix[j])
			corr[i][j] = c
			corr[j][i] = c
		}
	}
	return corr, defined
}

func meanStd(data []float64) (float64, float64) {
	if len(data) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	mean := sum / float64(len(data))
	if len(data) == 1 {
		return mean, 0
	}
	varianceSum := 0.0
	for _, v := range data {
		varianceSum += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(varianceSum / float64(len(data)))
}

// pearson computes the Pearson correlation coefficient, zero when
// undefined.
func pearson(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return 0
	}

	_, stdX := meanStd(x)
	_, stdY := meanStd(y)
	if stdX == 0 || stdY == 0 {
		return 0
	}

	n := float64(len(x))
	sumX, sumY, sumXY, sumX2, sumY2 := 0.0, 0.0, 0.0, 0.0, 0.0
	for i := range x {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumX2 += x[i] * x[i]
		sumY2 += y[i] * y[i]
	}

	numerator := n*sumXY - sumX*sumY
	denominator := math.Sqrt((n*sumX2 - sumX*sumX) * (n*sumY2 - sumY*sumY))
	if denominator == 0 {
		return 0
	}

	result := numerator / denominator
	if math.IsNaN(result) {
		return 0
	}
	return result
}

// distanceMatrix converts correlation to clustering distance. Correlation
// is clipped to [0, 1] first: anti-correlated cells are merely unrelated,
// not "far apart" in link membership.
func distanceMatrix(corr [][]float64) [][]float64 {
	n := len(corr)
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
		for j := range dist[i] {
			if i == j {
				continue
			}
			c := corr[i][j]
			if c < 0 {
				c = 0
			} else if c > 1 {
				c = 1
			}
			dist[i][j] = 1 - c
		}
	}
	return dist
}
