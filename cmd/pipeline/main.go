// Package main runs the analysis pipeline once and exports its artifacts.
// Executes: ingestion → normalization → link inference → topology →
// aggregation → capacity → JSON export.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"fronthaul-lab/internal/config"
	"fronthaul-lab/internal/logging"
	"fronthaul-lab/internal/pipeline"
	"fronthaul-lab/internal/reporting"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	outputDir := flag.String("output-dir", "", "Output directory for generated files (overrides config)")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}
	log := logging.New(cfg.Log)

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling pipeline...\n", sig)
		cancel()
	}()

	fmt.Println("=== Fronthaul Analysis Pipeline ===")
	runner := pipeline.NewRunner(cfg, log)
	snap, err := runner.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Pipeline error: %v\n", err)
		os.Exit(1)
	}

	if err := reporting.NewWriter(cfg.OutputDir).Write(snap); err != nil {
		fmt.Fprintf(os.Stderr, "Export error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Pipeline completed:\n")
	fmt.Printf("  Cells: %d\n", len(snap.CellIDs))
	fmt.Printf("  Links: %d\n", snap.Topology.NodeCount("link"))
	fmt.Printf("  Traffic points: %d\n", len(snap.Traffic))
	fmt.Printf("  Synthetic data: %v\n", snap.Synthetic)

	names := make([]string, 0, len(snap.Estimates))
	for name := range snap.Estimates {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		est := snap.Estimates[name]
		fmt.Printf("  %s: peak=%.4f Gbps, capacity with buffer=%.4f, without=%.4f\n",
			name, est.PeakThroughputGbps, est.WithBufferGbps, est.WithoutBufferGbps)
	}

	if len(snap.Warnings) > 0 {
		fmt.Printf("  Warnings: %d\n", len(snap.Warnings))
		for _, w := range snap.Warnings {
			fmt.Printf("    - %s\n", w)
		}
	}
	fmt.Printf("\nArtifacts written to %s\n", cfg.OutputDir)
}
