// Package topology assembles the 4-tier fronthaul hierarchy from the
// inferred cell → link partition.
package topology

import (
	"fmt"
	"sort"

	"fronthaul-lab/internal/domain"
)

// Build is a pure function from the partition to the DU → Link → RU →
// Cell tree: one DU, numLinks Link nodes, one RU per Link, and each cell
// attached to the RU of its assigned link. Edges always point root to
// leaf. Given the same partition it rebuilds the identical graph.
func Build(cellToLink map[int]int, numLinks int) *domain.TopologyGraph {
	graph := &domain.TopologyGraph{
		Nodes: []domain.TopologyNode{
			{ID: "DU", Type: domain.NodeTypeDU, Label: "DU"},
		},
	}

	cellsByLink := make([][]int, numLinks)
	for cell, link := range cellToLink {
		if link < 0 || link >= numLinks {
			continue
		}
		cellsByLink[link] = append(cellsByLink[link], cell)
	}

	// Link ids are 0-based internally, 1-based in labels and node ids to
	// match the dashboard contract.
	for link := 0; link < numLinks; link++ {
		linkID := fmt.Sprintf("Link_%d", link+1)
		ruID := fmt.Sprintf("RU_%d", link+1)

		graph.Nodes = append(graph.Nodes,
			domain.TopologyNode{ID: linkID, Type: domain.NodeTypeLink, Label: fmt.Sprintf("Link %d", link+1)},
			domain.TopologyNode{ID: ruID, Type: domain.NodeTypeRU, Label: fmt.Sprintf("RU %d", link+1)},
		)
		graph.Edges = append(graph.Edges,
			domain.TopologyEdge{Source: "DU", Target: linkID},
			domain.TopologyEdge{Source: linkID, Target: ruID},
		)

		cells := cellsByLink[link]
		sort.Ints(cells)
		for _, cell := range cells {
			cellID := fmt.Sprintf("Cell_%d", cell)
			graph.Nodes = append(graph.Nodes,
				domain.TopologyNode{ID: cellID, Type: domain.NodeTypeCell, Label: fmt.Sprintf("Cell %d", cell)},
			)
			graph.Edges = append(graph.Edges,
				domain.TopologyEdge{Source: ruID, Target: cellID},
			)
		}
	}

	return graph
}
