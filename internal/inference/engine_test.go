package inference

import (
	"io"
	"reflect"
	"testing"

	"github.com/sirupsen/logrus"

	"fronthaul-lab/internal/config"
	"fronthaul-lab/internal/domain"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// groupedLoss builds loss series for numCells cells where cells of group
// cell % numGroups share identical loss spikes in disjoint slots. Cells
// of one group correlate perfectly; cells of different groups
// anti-correlate.
func groupedLoss(numCells, numGroups int, numSlots int64) map[int][]domain.PacketStat {
	loss := make(map[int][]domain.PacketStat, numCells)
	for cell := 0; cell < numCells; cell++ {
		group := cell % numGroups
		series := make([]domain.PacketStat, numSlots)
		for t := int64(0); t < numSlots; t++ {
			rate := 0.0
			if int(t)%numGroups == group {
				rate = 0.03
			}
			series[t] = domain.PacketStat{Slot: t, LossRate: rate}
		}
		loss[cell] = series
	}
	return loss
}

func TestEngine_Infer_RecoversSharedLinkGroups(t *testing.T) {
	cfg := config.Default()
	engine := NewEngine(cfg, testLogger())

	cells := make([]int, cfg.NumCells)
	for i := range cells {
		cells[i] = i
	}
	loss := groupedLoss(cfg.NumCells, cfg.NumLinks, 300)

	partition, fallback := engine.Infer(cells, loss)

	if fallback {
		t.Fatal("expected correlation-based partition, got fallback")
	}
	if len(partition) != cfg.NumCells {
		t.Fatalf("expected every cell assigned, got %d of %d", len(partition), cfg.NumCells)
	}
	for _, cell := range cells {
		if partition[cell] != cell%cfg.NumLinks {
			t.Errorf("cell %d: expected link %d, got %d", cell, cell%cfg.NumLinks, partition[cell])
		}
	}
}

func TestEngine_Infer_Deterministic(t *testing.T) {
	cfg := config.Default()
	engine := NewEngine(cfg, testLogger())

	cells := make([]int, cfg.NumCells)
	for i := range cells {
		cells[i] = i
	}
	loss := groupedLoss(cfg.NumCells, cfg.NumLinks, 300)

	first, _ := engine.Infer(cells, loss)
	for i := 0; i < 5; i++ {
		got, _ := engine.Infer(cells, loss)
		if !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: expected identical partition %v, got %v", i, first, got)
		}
	}
}

func TestEngine_Infer_DegenerateFallsBackToRoundRobin(t *testing.T) {
	cfg := config.Default()
	engine := NewEngine(cfg, testLogger())

	// Constant zero loss carries no variance to correlate on.
	cells := []int{0, 1, 2, 3, 4, 5}
	loss := make(map[int][]domain.PacketStat, len(cells))
	for _, cell := range cells {
		series := make([]domain.PacketStat, 50)
		for t := range series {
			series[t] = domain.PacketStat{Slot: int64(t)}
		}
		loss[cell] = series
	}

	partition, fallback := engine.Infer(cells, loss)

	if !fallback {
		t.Fatal("expected round-robin fallback for degenerate input")
	}
	for _, cell := range cells {
		if partition[cell] != cell%cfg.NumLinks {
			t.Errorf("cell %d: expected round-robin link %d, got %d",
				cell, cell%cfg.NumLinks, partition[cell])
		}
	}
}

func TestEngine_Infer_NoLossDataFallsBack(t *testing.T) {
	cfg := config.Default()
	engine := NewEngine(cfg, testLogger())

	cells := []int{0, 1, 2}
	partition, fallback := engine.Infer(cells, nil)

	if !fallback {
		t.Fatal("expected fallback when no cell has loss telemetry")
	}
	if len(partition) != len(cells) {
		t.Errorf("expected every cell assigned, got %d", len(partition))
	}
}

func TestEngine_Infer_CellsWithoutTelemetryStillAssigned(t *testing.T) {
	cfg := config.Default()
	cfg.NumLinks = 3
	engine := NewEngine(cfg, testLogger())

	// Cells 0..2 carry loss data in three distinct groups; cell 10 carries
	// none and must still land on a link.
	cells := []int{0, 1, 2, 10}
	loss := groupedLoss(3, 3, 300)

	partition, fallback := engine.Infer(cells, loss)

	if fallback {
		t.Fatal("expected correlation-based partition, got fallback")
	}
	link, ok := partition[10]
	if !ok {
		t.Fatal("expected cell 10 assigned despite missing telemetry")
	}
	if link != 10%cfg.NumLinks {
		t.Errorf("expected round-robin link %d for cell 10, got %d", 10%cfg.NumLinks, link)
	}
}

func TestEngine_Infer_PartitionIsTotalAndInRange(t *testing.T) {
	cfg := config.Default()
	engine := NewEngine(cfg, testLogger())

	cells := make([]int, cfg.NumCells)
	for i := range cells {
		cells[i] = i
	}
	loss := groupedLoss(cfg.NumCells, cfg.NumLinks, 300)

	partition, _ := engine.Infer(cells, loss)

	used := make(map[int]bool)
	for _, cell := range cells {
		link, ok := partition[cell]
		if !ok {
			t.Fatalf("cell %d missing from partition", cell)
		}
		if link < 0 || link >= cfg.NumLinks {
			t.Fatalf("cell %d assigned out-of-range link %d", cell, link)
		}
		used[link] = true
	}
	if len(used) != cfg.NumLinks {
		t.Errorf("expected all %d links used, got %d", cfg.NumLinks, len(used))
	}
}
