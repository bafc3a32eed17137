package domain

// Node types in the fronthaul topology tree.
const (
	NodeTypeDU   = "du"
	NodeTypeLink = "link"
	NodeTypeRU   = "ru"
	NodeTypeCell = "cell"
)

// TopologyNode is one node of the DU → Link → RU → Cell tree.
type TopologyNode struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Label string `json:"label"`
}

// TopologyEdge is a directed root-to-leaf edge of the tree.
type TopologyEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// TopologyGraph is the inferred fronthaul hierarchy. It is built once per
// pipeline run and never mutated afterward; a re-run replaces it wholesale.
type TopologyGraph struct {
	Nodes []TopologyNode `json:"nodes"`
	Edges []TopologyEdge `json:"edges"`
}

// NodeCount returns the number of nodes of the given type.
func (g *TopologyGraph) NodeCount(nodeType string) int {
	n := 0
	for _, node := range g.Nodes {
		if node.Type == nodeType {
			n++
		}
	}
	return n
}
