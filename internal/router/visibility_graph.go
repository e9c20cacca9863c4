package router

import (
	"log"

	"lines-drawer/internal/geom"
)

// Graph represents a visibility graph for pathfinding
type Graph struct {
	Nodes []geom.Vector
	Edges []Edge

	// adjacency lists edge indices per node in edge order
	adjacency [][]int
}

// Edge is a directed connection between two nodes with a cost.
// Edges come in pairs: the reverse of edge i is edge i^1.
type Edge struct {
	From int
	To   int
	Cost float64 // Euclidean distance
}

// Reverse returns the index of the edge running the opposite way
func (g *Graph) Reverse(edge int) int {
	return edge ^ 1
}

// Segment returns the geometry of an edge
func (g *Graph) Segment(edge int) geom.Segment {
	e := g.Edges[edge]
	return geom.Segment{Start: g.Nodes[e.From], End: g.Nodes[e.To]}
}

// Outgoing returns the indices of the edges leaving node
func (g *Graph) Outgoing(node int) []int {
	return g.adjacency[node]
}

// NodeIndex returns the index of the node at p, or -1
func (g *Graph) NodeIndex(p geom.Vector) int {
	for i, n := range g.Nodes {
		if n == p {
			return i
		}
	}
	return -1
}

// Lines returns every connection once, for visualization
func (g *Graph) Lines() [][]geom.Vector {
	lines := make([][]geom.Vector, 0, len(g.Edges)/2)
	for i := 0; i < len(g.Edges); i += 2 {
		seg := g.Segment(i)
		lines = append(lines, []geom.Vector{seg.Start, seg.End})
	}
	return lines
}

// BuildVisibilityGraph connects every pair of waypoints that has line-of-sight
func BuildVisibilityGraph(waypoints []geom.Vector, obstacles *SpatialIndex) *Graph {
	graph := &Graph{
		Nodes:     waypoints,
		adjacency: make([][]int, len(waypoints)),
	}

	totalNodes := len(waypoints)
	totalPairs := (totalNodes * (totalNodes - 1)) / 2
	log.Printf("   Waypoints: %d\n", totalNodes)
	log.Printf("   Checking %d waypoint pairs against %d obstacle segments...\n", totalPairs, obstacles.Len())

	if totalPairs > 100000 {
		log.Printf("⚠️  WARNING: %d pair checks may take a while!\n", totalPairs)
	}

	for i := 0; i < totalNodes; i++ {
		for j := i + 1; j < totalNodes; j++ {
			if !obstacles.IsPathClear(geom.Segment{Start: waypoints[i], End: waypoints[j]}) {
				continue
			}

			// Add bidirectional edge
			distance := waypoints[i].Distance(waypoints[j])
			graph.addEdge(Edge{From: i, To: j, Cost: distance})
			graph.addEdge(Edge{From: j, To: i, Cost: distance})
		}
	}

	log.Printf("   Connections added: %d\n", len(graph.Edges)/2)

	return graph
}

func (g *Graph) addEdge(e Edge) {
	g.adjacency[e.From] = append(g.adjacency[e.From], len(g.Edges))
	g.Edges = append(g.Edges, e)
}
