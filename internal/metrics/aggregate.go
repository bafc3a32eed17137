package metrics

import (
	"fmt"
	"sort"

	"fronthaul-lab/internal/config"
	"fronthaul-lab/internal/domain"
)

// Aggregator sums normalized per-cell throughput into per-link series.
type Aggregator struct {
	numLinks       int
	stride         int64
	slotDurationUS float64
}

// NewAggregator creates an Aggregator from config.
func NewAggregator(cfg config.Config) *Aggregator {
	return &Aggregator{
		numLinks:       cfg.NumLinks,
		stride:         cfg.DownsampleStride,
		slotDurationUS: cfg.SlotDurationUS,
	}
}

// Traffic produces the downsampled per-link reporting series: every
// stride-th slot between the first and last observed slot, each link's
// value is the sum of its member cells' Gbps at exactly that slot. Cells
// missing the slot contribute nothing.
func (a *Aggregator) Traffic(throughput map[int][]domain.ThroughputPoint, cellToLink map[int]int) []domain.TrafficPoint {
	if len(throughput) == 0 || len(cellToLink) == 0 {
		return nil
	}

	bySlot := indexBySlot(throughput)
	slotMin, slotMax, ok := slotRange(throughput)
	if !ok {
		return nil
	}

	var points []domain.TrafficPoint
	for slot := slotMin; slot <= slotMax; slot += a.stride {
		sums := make([]float64, a.numLinks)
		for cell, series := range bySlot {
			link := cellToLink[cell]
			if link < 0 || link >= a.numLinks {
				continue
			}
			if gbps, ok := series[slot]; ok {
				sums[link] += gbps
			}
		}
		for i := range sums {
			sums[i] = Round(sums[i], 4)
		}
		points = append(points, domain.TrafficPoint{
			Slot:     slot,
			TimeSec:  Round(float64(slot)*a.slotDurationUS/1e6, 3),
			LinkGbps: sums,
		})
	}
	return points
}

// LinkSeries builds each link's raw traffic series at full slot
// granularity over the union of observed slots, for capacity estimation.
func (a *Aggregator) LinkSeries(throughput map[int][]domain.ThroughputPoint, cellToLink map[int]int) [][]float64 {
	series := make([][]float64, a.numLinks)

	slotSet := make(map[int64]struct{})
	for _, points := range throughput {
		for _, p := range points {
			slotSet[p.Slot] = struct{}{}
		}
	}
	slots := make([]int64, 0, len(slotSet))
	for s := range slotSet {
		slots = append(slots, s)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })

	for i := range series {
		series[i] = make([]float64, len(slots))
	}

	slotIndex := make(map[int64]int, len(slots))
	for i, s := range slots {
		slotIndex[s] = i
	}

	for cell, points := range throughput {
		link := cellToLink[cell]
		if link < 0 || link >= a.numLinks {
			continue
		}
		for _, p := range points {
			series[link][slotIndex[p.Slot]] += p.Gbps
		}
	}
	return series
}

// Congestion computes each cell's p95 and mean per-slot throughput over
// its full available slot range, paired with its link assignment. Cells
// without throughput data report zeros.
func (a *Aggregator) Congestion(cells []int, throughput map[int][]domain.ThroughputPoint, cellToLink map[int]int) map[int]domain.CongestionRecord {
	records := make(map[int]domain.CongestionRecord, len(cells))
	for _, cell := range cells {
		record := domain.CongestionRecord{LinkID: cellToLink[cell]}
		if points := throughput[cell]; len(points) > 0 {
			values := make([]float64, len(points))
			for i, p := range points {
				values[i] = p.Gbps
			}
			record.P95Gbps = Round(Percentile(values, 95), 4)
			record.MeanGbps = Round(Mean(values), 4)
		}
		records[cell] = record
	}
	return records
}

// LinkCapacities is the peak of each link's downsampled series, keyed
// link_<n>_gbps. Kept for the dashboard contract; provisioning decisions
// use the capacity estimates instead.
func LinkCapacities(traffic []domain.TrafficPoint, numLinks int) map[string]float64 {
	capacities := make(map[string]float64, numLinks)
	for link := 0; link < numLinks; link++ {
		key := fmt.Sprintf("link_%d_gbps", link+1)
		peak := 0.0
		for _, point := range traffic {
			if link < len(point.LinkGbps) && point.LinkGbps[link] > peak {
				peak = point.LinkGbps[link]
			}
		}
		capacities[key] = peak
	}
	return capacities
}

func indexBySlot(throughput map[int][]domain.ThroughputPoint) map[int]map[int64]float64 {
	indexed := make(map[int]map[int64]float64, len(throughput))
	for cell, points := range throughput {
		m := make(map[int64]float64, len(points))
		for _, p := range points {
			m[p.Slot] = p.Gbps
		}
		indexed[cell] = m
	}
	return indexed
}

func slotRange(throughput map[int][]domain.ThroughputPoint) (int64, int64, bool) {
	first := true
	var min, max int64
	for _, points := range throughput {
		for _, p := range points {
			if first {
				min, max = p.Slot, p.Slot
				first = false
				continue
			}
			if p.Slot < min {
				min = p.Slot
			}
			if p.Slot > max {
				max = p.Slot
			}
		}
	}
	return min, max, !first
}
