package router

import (
	"container/heap"
)

// improvement is the margin a new route must beat a known one by; smaller
// gains are float noise between equally long routes
const improvement = 1e-9

// searchNode is a graph node on the A* frontier
type searchNode struct {
	id     int
	g      float64 // length walked from the start
	f      float64 // g plus the straight-line distance to the goal
	parent *searchNode
	via    int // edge taken from parent
	seq    int // discovery order, breaks ties between equal f
	index  int // position in the heap
}

// frontier orders search nodes by f, then by discovery
type frontier []*searchNode

func (q frontier) Len() int { return len(q) }

func (q frontier) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	return q[i].seq < q[j].seq
}

func (q frontier) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index, q[j].index = i, j
}

func (q *frontier) Push(x interface{}) {
	n := x.(*searchNode)
	n.index = len(*q)
	*q = append(*q, n)
}

func (q *frontier) Pop() interface{} {
	old := *q
	last := len(old) - 1
	n := old[last]
	old[last] = nil
	n.index = -1
	*q = old[:last]
	return n
}

// AStarSearch finds the shortest route by total length from startIdx to
// endIdx and returns the edges taken
func AStarSearch(g *Graph, startIdx, endIdx int) ([]int, bool) {
	if g == nil || startIdx < 0 || endIdx < 0 {
		return nil, false
	}

	goal := g.Nodes[endIdx]
	open := &frontier{}
	discovered := map[int]*searchNode{}
	closed := make(map[int]bool)
	seq := 0

	discover := func(id int, gCost float64, parent *searchNode, via int) {
		n := &searchNode{
			id:     id,
			g:      gCost,
			f:      gCost + g.Nodes[id].Distance(goal),
			parent: parent,
			via:    via,
			seq:    seq,
		}
		seq++
		discovered[id] = n
		heap.Push(open, n)
	}
	discover(startIdx, 0, nil, -1)

	for open.Len() > 0 {
		current := heap.Pop(open).(*searchNode)
		delete(discovered, current.id)

		if current.id == endIdx {
			return current.route(), true
		}
		closed[current.id] = true

		for _, edgeIdx := range g.Outgoing(current.id) {
			edge := g.Edges[edgeIdx]
			if closed[edge.To] {
				continue
			}

			tentative := current.g + edge.Cost
			known, ok := discovered[edge.To]
			switch {
			case !ok:
				discover(edge.To, tentative, current, edgeIdx)
			case tentative < known.g-improvement:
				known.f -= known.g - tentative
				known.g = tentative
				known.parent = current
				known.via = edgeIdx
				heap.Fix(open, known.index)
			}
		}
	}

	return nil, false
}

// route walks the parents back to the start
func (n *searchNode) route() []int {
	var edges []int
	for ; n.parent != nil; n = n.parent {
		edges = append(edges, n.via)
	}
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}
	return edges
}
