// Package pipeline runs the full batch computation: ingestion →
// normalization → link inference → topology → aggregation → capacity
// estimation, producing one immutable Snapshot per run.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"fronthaul-lab/internal/capacity"
	"fronthaul-lab/internal/config"
	"fronthaul-lab/internal/domain"
	"fronthaul-lab/internal/inference"
	"fronthaul-lab/internal/ingestion"
	"fronthaul-lab/internal/ingestion/synthetic"
	"fronthaul-lab/internal/logging"
	"fronthaul-lab/internal/metrics"
	"fronthaul-lab/internal/normalization"
	"fronthaul-lab/internal/observability"
	"fronthaul-lab/internal/topology"
)

// Runner executes the pipeline end to end. It is stateless between runs;
// every invocation recomputes the snapshot from the current input files
// (or the synthetic substitute).
type Runner struct {
	cfg config.Config
	log *logrus.Logger
}

// NewRunner creates a Runner.
func NewRunner(cfg config.Config, log *logrus.Logger) *Runner {
	return &Runner{cfg: cfg, log: log}
}

// Run executes one full pipeline pass. A failed run returns an error and
// produces no snapshot; callers keep serving the previous one.
func (r *Runner) Run(ctx context.Context) (*domain.Snapshot, error) {
	started := time.Now()
	snapshot, err := r.run(ctx)
	duration := time.Since(started)

	if err != nil {
		observability.RecordPipelineRun("failure", duration.Seconds())
		return nil, err
	}
	observability.RecordPipelineRun("success", duration.Seconds())
	observability.MarkSuccessfulRun(float64(snapshot.GeneratedAt.Unix()))

	r.entry().WithFields(logrus.Fields{
		"cells":     len(snapshot.CellIDs),
		"links":     r.cfg.NumLinks,
		"synthetic": snapshot.Synthetic,
		"duration":  duration.Round(time.Millisecond).String(),
	}).Info("pipeline run completed")
	return snapshot, nil
}

func (r *Runner) run(ctx context.Context) (*domain.Snapshot, error) {
	log := r.entry()

	// Phase 1: ingestion, with synthetic substitution when the capture
	// directories hold nothing usable.
	capture := ingestion.NewLoader(r.cfg, r.log).LoadAll()
	syntheticInput := false
	if capture.Empty() {
		log.Info("no capture files found, substituting synthetic telemetry")
		observability.RecordSyntheticFallback()
		capture = synthetic.NewGenerator(r.cfg, synthetic.DefaultSeed, 0).Capture()
		syntheticInput = true
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cells := capture.CellIDs()
	if len(cells) == 0 {
		return nil, fmt.Errorf("pipeline: no cells available after ingestion")
	}

	// Phase 2: normalization onto the slot grid, parallel per cell
	// (each cell's series are disjoint).
	throughput, lossSeries, err := r.normalize(ctx, capture, cells)
	if err != nil {
		return nil, fmt.Errorf("pipeline: normalization failed: %w", err)
	}

	// Phase 3: link inference from correlated packet loss.
	engine := inference.NewEngine(r.cfg, r.log)
	partition, usedFallback := engine.Infer(cells, lossSeries)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Phase 4: topology, aggregation, congestion, capacity.
	graph := topology.Build(partition, r.cfg.NumLinks)

	aggregator := metrics.NewAggregator(r.cfg)
	traffic := aggregator.Traffic(throughput, partition)
	linkSeries := aggregator.LinkSeries(throughput, partition)
	congestion := aggregator.Congestion(cells, throughput, partition)

	estimator := capacity.NewEstimator(r.cfg)
	estimates := estimator.EstimateAll(linkSeries)

	snapshot := &domain.Snapshot{
		GeneratedAt:    time.Now().UTC(),
		Synthetic:      syntheticInput,
		Topology:       graph,
		CellIDs:        cells,
		CellToLink:     partition,
		Traffic:        traffic,
		Congestion:     congestion,
		LinkCapacities: metrics.LinkCapacities(traffic, r.cfg.NumLinks),
		Estimates:      estimates,
		Warnings:       capture.Warnings,
	}
	if usedFallback {
		snapshot.Warnings = append(snapshot.Warnings,
			"inference: loss correlation degenerate, partition assigned round-robin")
	}
	return snapshot, nil
}

// normalize re-bins every cell's raw rows onto the slot grid.
func (r *Runner) normalize(ctx context.Context, capture *ingestion.RawCapture, cells []int) (map[int][]domain.ThroughputPoint, map[int][]domain.PacketStat, error) {
	normalizer := normalization.New(r.cfg)

	var mu sync.Mutex
	throughput := make(map[int][]domain.ThroughputPoint, len(cells))
	lossSeries := make(map[int][]domain.PacketStat, len(cells))

	g, ctx := errgroup.WithContext(ctx)
	for _, cell := range cells {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			series := normalizer.Cell(cell, capture.Throughput[cell], capture.PacketStats[cell])

			mu.Lock()
			defer mu.Unlock()
			if len(series.Throughput) > 0 {
				throughput[cell] = series.Throughput
			}
			if len(series.PacketStats) > 0 {
				lossSeries[cell] = series.PacketStats
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return throughput, lossSeries, nil
}

func (r *Runner) entry() *logrus.Entry {
	return logging.WithComponent(r.log, "pipeline")
}
