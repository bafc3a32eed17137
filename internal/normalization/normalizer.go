// Package normalization re-bins raw telemetry onto the fixed slot grid
// (1 slot = 14 symbols = 500 μs) and derives per-slot throughput in Gbps
// and per-slot loss rates. All cross-cell operations downstream assume
// this grid.
package normalization

import (
	"math"
	"sort"

	"fronthaul-lab/internal/config"
	"fronthaul-lab/internal/domain"
	"fronthaul-lab/internal/ingestion"
)

// Normalizer converts raw capture rows to normalized cell series.
type Normalizer struct {
	symbolsPerSlot int
	slotDurationUS float64
}

// New creates a Normalizer from the configured slot grid.
func New(cfg config.Config) *Normalizer {
	return &Normalizer{
		symbolsPerSlot: cfg.SymbolsPerSlot,
		slotDurationUS: cfg.SlotDurationUS,
	}
}

// SlotIndex maps a symbol timestamp onto the slot grid.
func (n *Normalizer) SlotIndex(timeSymbols float64) int64 {
	return int64(math.Floor(timeSymbols / float64(n.symbolsPerSlot)))
}

// gbps converts a raw value (bytes per symbol) to the slot's rate in Gbps.
func (n *Normalizer) gbps(bytesPerSymbol float64) float64 {
	bytesPerSlot := bytesPerSymbol * float64(n.symbolsPerSlot)
	slotSeconds := n.slotDurationUS / 1e6
	return bytesPerSlot * 8 / slotSeconds / 1e9
}

// Throughput normalizes raw throughput rows. Rows mapping to the same
// slot are averaged, never overwritten. Output is sorted by slot; gaps
// stay gaps.
func (n *Normalizer) Throughput(rows []ingestion.ThroughputRow) []domain.ThroughputPoint {
	sums := make(map[int64]float64)
	counts := make(map[int64]int)
	for _, r := range rows {
		slot := n.SlotIndex(r.TimeSymbols)
		sums[slot] += n.gbps(r.Value)
		counts[slot]++
	}

	points := make([]domain.ThroughputPoint, 0, len(sums))
	for slot, sum := range sums {
		points = append(points, domain.ThroughputPoint{
			Slot: slot,
			Gbps: sum / float64(counts[slot]),
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Slot < points[j].Slot })
	return points
}

// PacketStats normalizes raw packet statistics. Rows mapping to the same
// slot have their counts summed; the loss rate is lost/sent, defined as
// zero when nothing was sent.
func (n *Normalizer) PacketStats(rows []ingestion.PacketStatRow) []domain.PacketStat {
	type counts struct{ sent, lost int64 }
	bySlot := make(map[int64]*counts)
	for _, r := range rows {
		slot := n.SlotIndex(r.TimeSymbols)
		c, ok := bySlot[slot]
		if !ok {
			c = &counts{}
			bySlot[slot] = c
		}
		c.sent += r.Sent
		c.lost += r.Lost
	}

	stats := make([]domain.PacketStat, 0, len(bySlot))
	for slot, c := range bySlot {
		stat := domain.PacketStat{
			Slot:        slot,
			PacketsSent: c.sent,
			PacketsLost: c.lost,
		}
		if c.sent > 0 {
			stat.LossRate = float64(c.lost) / float64(c.sent)
		}
		stats = append(stats, stat)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Slot < stats[j].Slot })
	return stats
}

// Cell normalizes both series of one cell.
func (n *Normalizer) Cell(cellID int, throughput []ingestion.ThroughputRow, packets []ingestion.PacketStatRow) domain.CellSeries {
	return domain.CellSeries{
		CellID:      cellID,
		Throughput:  n.Throughput(throughput),
		PacketStats: n.PacketStats(packets),
	}
}
