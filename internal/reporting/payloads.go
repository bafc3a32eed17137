// Package reporting shapes snapshots into the JSON payloads served by the
// API and exported as artifacts.
package reporting

import (
	"fmt"
	"strconv"

	"fronthaul-lab/internal/domain"
)

// TrafficRows renders the downsampled per-link series as rows of
// {slot, time_sec, link_<n>_gbps...}.
func TrafficRows(snap *domain.Snapshot) []map[string]any {
	rows := make([]map[string]any, 0, len(snap.Traffic))
	for _, point := range snap.Traffic {
		row := map[string]any{
			"slot":     point.Slot,
			"time_sec": point.TimeSec,
		}
		for link, gbps := range point.LinkGbps {
			row[fmt.Sprintf("link_%d_gbps", link+1)] = gbps
		}
		rows = append(rows, row)
	}
	return rows
}

// Dashboard renders the per-cell congestion summary with the link
// capacities and partition. Map keys are decimal strings, matching the
// dashboard contract.
func Dashboard(snap *domain.Snapshot) map[string]any {
	congestion := make(map[string]domain.CongestionRecord, len(snap.Congestion))
	for cell, record := range snap.Congestion {
		congestion[strconv.Itoa(cell)] = record
	}
	cellToLink := make(map[string]int, len(snap.CellToLink))
	for cell, link := range snap.CellToLink {
		cellToLink[strconv.Itoa(cell)] = link
	}
	return map[string]any{
		"congestion":      congestion,
		"link_capacities": snap.LinkCapacities,
		"cell_ids":        snap.CellIDs,
		"cell_to_link":    cellToLink,
	}
}

// Capacity renders the per-link capacity estimates. Without the buffer,
// the reported buffer duration is zero.
func Capacity(snap *domain.Snapshot, withBuffer bool) map[string]any {
	estimates := make(map[string]domain.CapacityEstimate, len(snap.Estimates))
	for name, estimate := range snap.Estimates {
		if !withBuffer {
			estimate.BufferDurationUS = 0
		}
		estimates[name] = estimate
	}
	return map[string]any{
		"with_buffer":     withBuffer,
		"estimates":       estimates,
		"link_capacities": snap.LinkCapacities,
	}
}

// FullOutput renders the complete run summary.
func FullOutput(snap *domain.Snapshot) map[string]any {
	dashboard := Dashboard(snap)
	return map[string]any{
		"generated_at":       snap.GeneratedAt,
		"synthetic":          snap.Synthetic,
		"topology":           snap.Topology,
		"cell_to_link":       dashboard["cell_to_link"],
		"aggregated_traffic": TrafficRows(snap),
		"congestion":         dashboard["congestion"],
		"link_capacities":    snap.LinkCapacities,
		"capacity_estimates": snap.Estimates,
		"cell_ids":           snap.CellIDs,
		"warnings":           snap.Warnings,
	}
}
