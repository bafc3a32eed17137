// Package ingestion loads raw per-cell .dat captures: throughput samples
// and packet statistics, tab- or comma-delimited, one file per cell.
package ingestion

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"fronthaul-lab/internal/config"
	"fronthaul-lab/internal/logging"
	"fronthaul-lab/internal/observability"
)

// ThroughputRow is one raw throughput sample: time in symbols and the
// measured value in bytes per symbol (the capture's native unit).
type ThroughputRow struct {
	TimeSymbols float64
	Value       float64
}

// PacketStatRow is one raw packet-statistics sample.
type PacketStatRow struct {
	TimeSymbols float64
	Sent        int64
	Lost        int64
}

// FileStats counts parsing outcomes for one file.
type FileStats struct {
	Rows    int // rows parsed successfully
	Skipped int // malformed rows skipped
}

// RawCapture is the loaded but not yet normalized input set, keyed by
// cell id. Cells whose files failed data-quality checks are absent and
// listed in Warnings.
type RawCapture struct {
	Throughput  map[int][]ThroughputRow
	PacketStats map[int][]PacketStatRow
	Warnings    []string
}

// Empty reports whether nothing usable was loaded.
func (c *RawCapture) Empty() bool {
	return len(c.Throughput) == 0 && len(c.PacketStats) == 0
}

// CellIDs returns the sorted union of cell ids present in either series.
func (c *RawCapture) CellIDs() []int {
	seen := make(map[int]struct{})
	for id := range c.Throughput {
		seen[id] = struct{}{}
	}
	for id := range c.PacketStats {
		seen[id] = struct{}{}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Loader scans the capture directories and parses every .dat file.
type Loader struct {
	cfg config.Config
	log *logrus.Entry
}

// NewLoader creates a Loader.
func NewLoader(cfg config.Config, log *logrus.Logger) *Loader {
	return &Loader{cfg: cfg, log: logging.WithComponent(log, "ingestion")}
}

// LoadAll parses all throughput and packet-stat files. Per-file failures
// exclude that cell and surface as warnings; an absent directory or an
// absent file set is not an error (the caller substitutes synthetic data).
func (l *Loader) LoadAll() *RawCapture {
	capture := &RawCapture{
		Throughput:  make(map[int][]ThroughputRow),
		PacketStats: make(map[int][]PacketStatRow),
	}

	for _, file := range listDatFiles(l.cfg.ThroughputDir) {
		cellID := l.cellIDFor(file, len(capture.Throughput))
		rows, stats, err := ParseThroughputFile(file)
		observability.RecordRowsParsed("throughput", stats.Rows, stats.Skipped)
		if err != nil {
			l.warn(capture, file, cellID, err)
			continue
		}
		if stats.Skipped > 0 {
			l.log.WithFields(logrus.Fields{"file": file, "skipped": stats.Skipped}).
				Warn("skipped malformed throughput rows")
		}
		capture.Throughput[cellID] = rows
	}

	for _, file := range listDatFiles(l.cfg.PacketStatsDir) {
		cellID := l.cellIDFor(file, len(capture.PacketStats))
		rows, stats, err := ParsePacketStatsFile(file)
		observability.RecordRowsParsed("packet_stats", stats.Rows, stats.Skipped)
		if err != nil {
			l.warn(capture, file, cellID, err)
			continue
		}
		if stats.Skipped > 0 {
			l.log.WithFields(logrus.Fields{"file": file, "skipped": stats.Skipped}).
				Warn("skipped malformed packet-stat rows")
		}
		capture.PacketStats[cellID] = rows
	}

	return capture
}

func (l *Loader) warn(capture *RawCapture, file string, cellID int, err error) {
	dqErr := &DataQualityError{File: file, Err: err}
	capture.Warnings = append(capture.Warnings, dqErr.Error())
	observability.RecordCellExcluded()
	l.log.WithFields(logrus.Fields{"file": file, "cell": cellID}).
		WithError(err).Warn("excluding cell contribution")
}

// cellIDFor extracts the cell id from the filename, falling back to the
// load order when the name carries no number.
func (l *Loader) cellIDFor(file string, loaded int) int {
	if id, ok := ExtractCellID(filepath.Base(file)); ok {
		return id % l.cfg.NumCells
	}
	return loaded % l.cfg.NumCells
}

var cellIDPattern = regexp.MustCompile(`(\d{1,2})`)

// ExtractCellID pulls the cell number out of names like
// throughput_cell_07.dat. The last digit group wins.
func ExtractCellID(name string) (int, bool) {
	matches := cellIDPattern.FindAllString(name, -1)
	if len(matches) == 0 {
		return 0, false
	}
	id, err := strconv.Atoi(matches[len(matches)-1])
	if err != nil {
		return 0, false
	}
	return id, true
}

func listDatFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".dat") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files
}

// ParseThroughputFile reads one throughput capture: columns
// (time_symbols, value), tab or comma delimited. Malformed rows are
// skipped and counted; a file yielding zero usable rows fails.
func ParseThroughputFile(path string) ([]ThroughputRow, FileStats, error) {
	var rows []ThroughputRow
	stats, err := scanRows(path, 2, func(fields []float64) {
		rows = append(rows, ThroughputRow{TimeSymbols: fields[0], Value: fields[1]})
	})
	if err != nil {
		return nil, stats, err
	}
	return rows, stats, nil
}

// ParsePacketStatsFile reads one packet-statistics capture: columns
// (time_symbols, packets_sent[, packets_lost]). A missing lost column
// reads as zero.
func ParsePacketStatsFile(path string) ([]PacketStatRow, FileStats, error) {
	var rows []PacketStatRow
	stats, err := scanRows(path, 2, func(fields []float64) {
		row := PacketStatRow{
			TimeSymbols: fields[0],
			Sent:        int64(fields[1]),
		}
		if len(fields) > 2 {
			row.Lost = int64(fields[2])
		}
		rows = append(rows, row)
	})
	if err != nil {
		return nil, stats, err
	}
	return rows, stats, nil
}

// scanRows parses a delimited numeric file line by line. Lines that do
// not yield at least minFields numeric values are skipped, not fatal.
func scanRows(path string, minFields int, emit func(fields []float64)) (FileStats, error) {
	var stats FileStats

	f, err := os.Open(path)
	if err != nil {
		return stats, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	delimiter := byte(0)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if delimiter == 0 {
			delimiter = detectDelimiter(line)
		}
		fields, ok := parseNumericFields(line, delimiter, minFields)
		if !ok {
			stats.Skipped++
			continue
		}
		stats.Rows++
		emit(fields)
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("read: %w", err)
	}
	if stats.Rows == 0 {
		return stats, ErrNoUsableRows
	}
	return stats, nil
}

// detectDelimiter picks tab when the first data line contains one,
// comma otherwise.
func detectDelimiter(line string) byte {
	if strings.ContainsRune(line, '\t') {
		return '\t'
	}
	return ','
}

func parseNumericFields(line string, delimiter byte, minFields int) ([]float64, bool) {
	parts := strings.Split(line, string(delimiter))
	fields := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, false
		}
		fields = append(fields, v)
	}
	if len(fields) < minFields {
		return nil, false
	}
	return fields, true
}
