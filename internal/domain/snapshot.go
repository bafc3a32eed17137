package domain

import "time"

// Snapshot is the complete output of one pipeline run. It is assembled in
// full before publication and replaced atomically on the next run; readers
// never observe a partially built snapshot.
type Snapshot struct {
	GeneratedAt time.Time
	Synthetic   bool // input came from the synthetic generator, not .dat files

	// Inferred topology.
	Topology   *TopologyGraph
	CellIDs    []int
	CellToLink map[int]int // total partition: every cell maps to exactly one link

	// Aggregated per-link traffic, downsampled for reporting.
	Traffic []TrafficPoint

	// Per-cell congestion (p95 throughput) keyed by cell id.
	Congestion map[int]CongestionRecord

	// Peak of the downsampled per-link series, keyed link_<n>_gbps.
	// Kept for the dashboard contract; capacity planning uses Estimates.
	LinkCapacities map[string]float64

	// Capacity estimates from the raw (non-downsampled) per-link series,
	// keyed link_<n>.
	Estimates map[string]CapacityEstimate

	// Non-fatal data-quality issues encountered during the run.
	Warnings []string
}

// CellsPerLink returns how many cells are assigned to each link.
func (s *Snapshot) CellsPerLink() map[int]int {
	counts := make(map[int]int)
	for _, link := range s.CellToLink {
		counts[link]++
	}
	return counts
}
