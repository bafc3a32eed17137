package domain

// CapacityEstimate is the provisioning requirement for one link under a
// fixed packet-loss budget. WithBufferGbps assumes a small fronthaul
// buffer smoothing short bursts; WithoutBufferGbps covers the raw series.
// WithBufferGbps <= WithoutBufferGbps always holds.
type CapacityEstimate struct {
	PeakThroughputGbps      float64 `json:"peak_throughput_gbps"`
	WithBufferGbps          float64 `json:"with_buffer_gbps"`
	WithoutBufferGbps       float64 `json:"without_buffer_gbps"`
	BufferDurationUS        float64 `json:"buffer_duration_us"`
	PacketLossBudgetPercent float64 `json:"packet_loss_budget_percent"`
}
