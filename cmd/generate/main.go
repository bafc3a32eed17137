// Package main writes a synthetic .dat capture for demos and local runs.
package main

import (
	"flag"
	"fmt"
	"os"

	"fronthaul-lab/internal/config"
	"fronthaul-lab/internal/ingestion/synthetic"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	throughputDir := flag.String("throughput-dir", "", "Throughput output directory (overrides config)")
	packetStatsDir := flag.String("packet-stats-dir", "", "Packet stats output directory (overrides config)")
	numSlots := flag.Int64("slots", synthetic.DefaultNumSlots, "Capture length in slots")
	seed := flag.Int64("seed", synthetic.DefaultSeed, "Random seed")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *throughputDir != "" {
		cfg.ThroughputDir = *throughputDir
	}
	if *packetStatsDir != "" {
		cfg.PacketStatsDir = *packetStatsDir
	}

	gen := synthetic.NewGenerator(cfg, *seed, *numSlots)
	if err := gen.WriteFiles(cfg.ThroughputDir, cfg.PacketStatsDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing sample data: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d throughput and %d packet-stats files (%d slots, seed %d)\n",
		cfg.NumCells, cfg.NumCells, *numSlots, *seed)
	fmt.Printf("  %s\n  %s\n", cfg.ThroughputDir, cfg.PacketStatsDir)
}
