package topology

import (
	"reflect"
	"testing"

	"fronthaul-lab/internal/domain"
)

func fullPartition(numCells, numLinks int) map[int]int {
	partition := make(map[int]int, numCells)
	for cell := 0; cell < numCells; cell++ {
		partition[cell] = cell % numLinks
	}
	return partition
}

func TestBuild_NodeCounts(t *testing.T) {
	graph := Build(fullPartition(24, 3), 3)

	if got := graph.NodeCount(domain.NodeTypeDU); got != 1 {
		t.Errorf("expected 1 DU node, got %d", got)
	}
	if got := graph.NodeCount(domain.NodeTypeLink); got != 3 {
		t.Errorf("expected 3 link nodes, got %d", got)
	}
	if got := graph.NodeCount(domain.NodeTypeRU); got != 3 {
		t.Errorf("expected 3 RU nodes, got %d", got)
	}
	if got := graph.NodeCount(domain.NodeTypeCell); got != 24 {
		t.Errorf("expected 24 cell nodes, got %d", got)
	}
	// 1 + 3 + 3 + 24 nodes, one edge per non-root node.
	if len(graph.Edges) != 30 {
		t.Errorf("expected 30 edges, got %d", len(graph.Edges))
	}
}

func TestBuild_EdgesPointRootToLeaf(t *testing.T) {
	graph := Build(map[int]int{0: 0, 1: 1}, 2)

	wantEdges := map[string]string{
		"Link_1": "DU",
		"Link_2": "DU",
		"RU_1":   "Link_1",
		"RU_2":   "Link_2",
		"Cell_0": "RU_1",
		"Cell_1": "RU_2",
	}
	parents := make(map[string]string, len(graph.Edges))
	for _, e := range graph.Edges {
		parents[e.Target] = e.Source
	}
	if !reflect.DeepEqual(parents, wantEdges) {
		t.Errorf("expected parent map %v, got %v", wantEdges, parents)
	}
}

func TestBuild_EveryCellAttachedToItsLink(t *testing.T) {
	partition := fullPartition(24, 3)
	graph := Build(partition, 3)

	parents := make(map[string]string, len(graph.Edges))
	for _, e := range graph.Edges {
		parents[e.Target] = e.Source
	}

	attached := 0
	for _, node := range graph.Nodes {
		if node.Type != domain.NodeTypeCell {
			continue
		}
		attached++
		if parent, ok := parents[node.ID]; !ok || parent == "" {
			t.Errorf("cell %s has no parent RU", node.ID)
		}
	}
	if attached != 24 {
		t.Errorf("expected 24 attached cells, got %d", attached)
	}
}

func TestBuild_EmptyLinkStillPresent(t *testing.T) {
	// All cells on link 0: links 1 and 2 keep their Link and RU nodes.
	graph := Build(map[int]int{0: 0, 1: 0}, 3)

	if got := graph.NodeCount(domain.NodeTypeLink); got != 3 {
		t.Errorf("expected 3 link nodes with empty links present, got %d", got)
	}
	if got := graph.NodeCount(domain.NodeTypeRU); got != 3 {
		t.Errorf("expected 3 RU nodes, got %d", got)
	}
}

func TestBuild_OutOfRangeAssignmentIgnored(t *testing.T) {
	graph := Build(map[int]int{0: 0, 1: 99}, 2)

	if got := graph.NodeCount(domain.NodeTypeCell); got != 1 {
		t.Errorf("expected out-of-range cell dropped, got %d cell nodes", got)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	partition := fullPartition(24, 3)

	first := Build(partition, 3)
	second := Build(partition, 3)

	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical graphs from identical partitions")
	}
}
