package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"fronthaul-lab/internal/domain"
)

// Writer exports a snapshot's artifacts as indented JSON files.
type Writer struct {
	outputDir string
}

// NewWriter creates a Writer targeting outputDir.
func NewWriter(outputDir string) *Writer {
	return &Writer{outputDir: outputDir}
}

// Write exports topology.json, aggregated_traffic.json, dashboard.json
// and full_output.json.
func (w *Writer) Write(snap *domain.Snapshot) error {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return fmt.Errorf("reporting: create output dir: %w", err)
	}

	artifacts := map[string]any{
		"topology.json":           snap.Topology,
		"aggregated_traffic.json": TrafficRows(snap),
		"dashboard.json":          Dashboard(snap),
		"full_output.json":        FullOutput(snap),
	}
	for name, payload := range artifacts {
		if err := w.writeJSON(name, payload); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeJSON(name string, payload any) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("reporting: marshal %s: %w", name, err)
	}
	path := filepath.Join(w.outputDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("reporting: write %s: %w", name, err)
	}
	return nil
}
