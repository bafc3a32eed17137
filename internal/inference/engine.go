package inference

import (
	"sort"

	"github.com/sirupsen/logrus"

	"fronthaul-lab/internal/config"
	"fronthaul-lab/internal/domain"
	"fronthaul-lab/internal/logging"
	"fronthaul-lab/internal/observability"
)

// Engine infers the cell → link partition from correlated packet loss.
type Engine struct {
	numLinks int
	maxSlots int64
	log      *logrus.Entry
}

// NewEngine creates an Engine from config.
func NewEngine(cfg config.Config, log *logrus.Logger) *Engine {
	return &Engine{
		numLinks: cfg.NumLinks,
		maxSlots: cfg.MaxCorrelationSlots,
		log:      logging.WithComponent(log, "inference"),
	}
}

// Infer partitions every cell in cells onto exactly numLinks links. Cells
// with loss telemetry are clustered on the correlation-derived distance
// matrix; cells without any loss data, and fully degenerate inputs, take
// the deterministic round-robin assignment. The returned bool reports
// whether the round-robin fallback decided the whole partition.
func (e *Engine) Infer(cells []int, loss map[int][]domain.PacketStat) (map[int]int, bool) {
	partition := make(map[int]int, len(cells))

	corrCells := make([]int, 0, len(loss))
	for cell, series := range loss {
		if len(series) > 0 {
			corrCells = append(corrCells, cell)
		}
	}
	sort.Ints(corrCells)

	labels, err := e.cluster(corrCells, loss)
	if err != nil {
		e.log.WithError(err).Warn("falling back to round-robin partition")
		observability.RecordClusteringFallback()
		for _, cell := range cells {
			partition[cell] = cell % e.numLinks
		}
		return partition, true
	}

	for i, cell := range corrCells {
		partition[cell] = labels[i]
	}
	// Cells carrying no loss telemetry still need a home in the partition.
	for _, cell := range cells {
		if _, ok := partition[cell]; !ok {
			partition[cell] = cell % e.numLinks
			e.log.WithField("cell", cell).Debug("no loss telemetry, assigned round-robin")
		}
	}
	return partition, false
}

// cluster runs correlation + agglomerative clustering over the cells that
// have loss telemetry. It fails with ErrDegenerateCorrelation when fewer
// than two cells carry a defined (non-constant) loss series, or when
// there are not enough cells to form numLinks clusters.
func (e *Engine) cluster(corrCells []int, loss map[int][]domain.PacketStat) ([]int, error) {
	if len(corrCells) < e.numLinks {
		return nil, ErrDegenerateCorrelation
	}

	matrix, err := lossMatrix(corrCells, loss, e.maxSlots)
	if err != nil {
		return nil, err
	}

	corr, defined := correlationMatrix(matrix)
	if defined < 2 {
		return nil, ErrDegenerateCorrelation
	}

	return clusterAverageLinkage(distanceMatrix(corr), e.numLinks), nil
}
