// Package synthetic generates a stand-in capture when no .dat files are
// present. Its output satisfies the same contract as the file loader
// (raw rows on the symbol timeline, same value ranges), so the rest of
// the pipeline is agnostic to the data's origin.
package synthetic

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"fronthaul-lab/internal/config"
	"fronthaul-lab/internal/ingestion"
)

// DefaultSeed keeps demo runs reproducible.
const DefaultSeed = 42

// DefaultNumSlots is ~6 seconds of capture at 2000 slots/s.
const DefaultNumSlots = 12000

// Generator produces synthetic per-cell telemetry. Cells are grouped
// cell % numLinks; cells of one group share loss bursts so that the
// correlation-based topology inference recovers the grouping.
type Generator struct {
	cfg      config.Config
	seed     int64
	numSlots int64
}

// NewGenerator creates a Generator. Non-positive numSlots selects the
// default capture length.
func NewGenerator(cfg config.Config, seed int64, numSlots int64) *Generator {
	if numSlots <= 0 {
		numSlots = DefaultNumSlots
	}
	return &Generator{cfg: cfg, seed: seed, numSlots: numSlots}
}

// Capture generates raw rows for every cell, one row per slot, with
// timestamps on the symbol timeline exactly as a real capture carries.
func (g *Generator) Capture() *ingestion.RawCapture {
	rng := rand.New(rand.NewSource(g.seed))
	capture := &ingestion.RawCapture{
		Throughput:  make(map[int][]ingestion.ThroughputRow, g.cfg.NumCells),
		PacketStats: make(map[int][]ingestion.PacketStatRow, g.cfg.NumCells),
	}

	bursts := g.linkBursts(rng)

	for cellID := 0; cellID < g.cfg.NumCells; cellID++ {
		linkID := cellID % g.cfg.NumLinks

		baseGbps := 0.5 + float64(linkID)*0.3 + rng.Float64()*0.2
		lossBase := 0.002 + float64(linkID)*0.001 + rng.Float64()*0.002

		throughput := make([]ingestion.ThroughputRow, g.numSlots)
		packets := make([]ingestion.PacketStatRow, g.numSlots)

		for t := int64(0); t < g.numSlots; t++ {
			symbols := float64(t * int64(g.cfg.SymbolsPerSlot))

			gbps := baseGbps + 0.1*math.Sin(float64(t)/500) + rng.NormFloat64()*0.05
			gbps = clamp(gbps, 0.1, 2.0)
			throughput[t] = ingestion.ThroughputRow{
				TimeSymbols: symbols,
				Value:       g.bytesPerSymbol(gbps),
			}

			lossRate := clamp(lossBase+bursts[linkID][t]+rng.NormFloat64()*0.0005, 0, 0.05)
			// Normal approximation of Poisson(1000) packet arrivals.
			sent := int64(math.Round(1000 + math.Sqrt(1000)*rng.NormFloat64()))
			if sent < 1 {
				sent = 1
			}
			packets[t] = ingestion.PacketStatRow{
				TimeSymbols: symbols,
				Sent:        sent,
				Lost:        int64(lossRate * float64(sent)),
			}
		}

		capture.Throughput[cellID] = throughput
		capture.PacketStats[cellID] = packets
	}

	return capture
}

// linkBursts draws one shared loss-burst series per link. Congestion on
// a shared transport link hits every cell traversing it in the same
// slots, which is what the inference engine keys on.
func (g *Generator) linkBursts(rng *rand.Rand) [][]float64 {
	bursts := make([][]float64, g.cfg.NumLinks)
	for link := range bursts {
		series := make([]float64, g.numSlots)
		for t := int64(0); t < g.numSlots; t++ {
			if rng.Float64() < 0.02 {
				series[t] = 0.02 + rng.Float64()*0.01
			}
		}
		bursts[link] = series
	}
	return bursts
}

// bytesPerSymbol inverts the normalizer's Gbps conversion so the
// synthetic rows round-trip through the same code path as real files.
func (g *Generator) bytesPerSymbol(gbps float64) float64 {
	slotSeconds := g.cfg.SlotDurationUS / 1e6
	return gbps * 1e9 / 8 * slotSeconds / float64(g.cfg.SymbolsPerSlot)
}

// WriteFiles writes the capture as tab-delimited .dat files named
// throughput_cell_NN.dat and packet_stats_cell_NN.dat.
func (g *Generator) WriteFiles(throughputDir, packetStatsDir string) error {
	capture := g.Capture()

	for _, dir := range []string{throughputDir, packetStatsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	for cellID := 0; cellID < g.cfg.NumCells; cellID++ {
		path := filepath.Join(throughputDir, fmt.Sprintf("throughput_cell_%02d.dat", cellID))
		if err := writeThroughput(path, capture.Throughput[cellID]); err != nil {
			return err
		}
		path = filepath.Join(packetStatsDir, fmt.Sprintf("packet_stats_cell_%02d.dat", cellID))
		if err := writePacketStats(path, capture.PacketStats[cellID]); err != nil {
			return err
		}
	}
	return nil
}

func writeThroughput(path string, rows []ingestion.ThroughputRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	for _, r := range rows {
		if _, err := fmt.Fprintf(f, "%.2f\t%.2f\n", r.TimeSymbols, r.Value); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

func writePacketStats(path string, rows []ingestion.PacketStatRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	for _, r := range rows {
		if _, err := fmt.Fprintf(f, "%d\t%d\t%d\n", int64(r.TimeSymbols), r.Sent, r.Lost); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
