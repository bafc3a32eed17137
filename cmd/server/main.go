// Package main serves the analysis results over REST. The first request
// (or POST /api/process) triggers a pipeline run; results are held in
// memory and swapped atomically on refresh.
package main

import (
	"flag"
	"fmt"
	"os"

	"fronthaul-lab/internal/api"
	"fronthaul-lab/internal/config"
	"fronthaul-lab/internal/logging"
	"fronthaul-lab/internal/pipeline"
	"fronthaul-lab/internal/storage/memory"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	log := logging.New(cfg.Log)

	runner := pipeline.NewRunner(cfg, log)
	store := memory.NewSnapshotStore(runner)
	server := api.NewServer(cfg, log, store)

	if err := server.Run(); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}
