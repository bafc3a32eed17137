// Package domain defines the core entities of the fronthaul analysis
// pipeline: normalized per-cell telemetry, the inferred link partition,
// the topology tree and the derived capacity estimates.
package domain

// Fronthaul timing constants (3GPP numerology). These are the defaults
// exposed through config; nothing below hardcodes them.
const (
	DefaultSymbolsPerSlot   = 14
	DefaultSlotDurationUS   = 500 // one slot = 500 microseconds
	DefaultNumCells         = 24
	DefaultNumLinks         = 3
	DefaultBufferSymbols    = 4
	DefaultBufferDurationUS = 143 // 4 symbols ≈ 143 μs
)

// ThroughputPoint is one throughput sample on the normalized slot grid.
type ThroughputPoint struct {
	Slot int64   // slot index, floor(symbols / symbolsPerSlot)
	Gbps float64 // throughput during this slot in Gbps
}

// PacketStat is one packet-loss sample on the normalized slot grid.
// LossRate is packets lost over packets sent; zero when nothing was sent.
type PacketStat struct {
	Slot        int64
	PacketsSent int64
	PacketsLost int64
	LossRate    float64
}

// CellSeries holds the full normalized time series of a single cell.
// Slot indices are strictly increasing within each series; gaps are
// permitted and excluded from aggregation rather than interpolated.
type CellSeries struct {
	CellID      int
	Throughput  []ThroughputPoint
	PacketStats []PacketStat
}

// CongestionRecord summarizes per-cell load: the 95th percentile of the
// cell's per-slot throughput, its mean, and the link the cell was
// assigned to.
type CongestionRecord struct {
	P95Gbps  float64 `json:"p95_gbps"`
	MeanGbps float64 `json:"mean_gbps"`
	LinkID   int     `json:"link_id"`
}

// TrafficPoint is one downsampled sample of the per-link aggregated
// traffic series. LinkGbps is indexed by link id (0-based).
type TrafficPoint struct {
	Slot     int64
	TimeSec  float64
	LinkGbps []float64
}
