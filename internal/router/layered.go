package router

// pathCandidate is a partial path through the graph
type pathCandidate struct {
	edges  []int // edge indices in travel order
	end    int   // node the path currently ends at
	length float64
}

func (p pathCandidate) extend(edge int, e Edge) pathCandidate {
	edges := make([]int, len(p.edges), len(p.edges)+1)
	copy(edges, p.edges)
	return pathCandidate{
		edges:  append(edges, edge),
		end:    e.To,
		length: p.length + e.Cost,
	}
}

// LayeredSearch expands paths from start one generation of edges at a time.
//
// Each generation takes every unused edge leaving the end of a frontier path,
// marks it and its reverse as used, and extends every frontier path ending at
// the edge's start. Paths reaching goal are collected and leave the frontier.
// The search stops when no unused edge leaves the frontier. The shortest
// collected path wins; on equal length the first collected wins.
func LayeredSearch(g *Graph, start, goal int) ([]int, bool) {
	if start < 0 || goal < 0 {
		return nil, false
	}

	used := make([]bool, len(g.Edges))
	remaining := len(g.Edges)

	frontier := []pathCandidate{{end: start}}
	var found []pathCandidate

	for remaining > 0 && len(frontier) > 0 {
		ends := make(map[int]bool, len(frontier))
		for _, p := range frontier {
			ends[p.end] = true
		}

		var selected []int
		for i, e := range g.Edges {
			if !used[i] && ends[e.From] {
				selected = append(selected, i)
			}
		}
		if len(selected) == 0 {
			break
		}

		for _, i := range selected {
			used[i] = true
			remaining--
		}
		// no immediate walk back along the same connection
		for _, i := range selected {
			if rev := g.Reverse(i); !used[rev] {
				used[rev] = true
				remaining--
			}
		}

		var next []pathCandidate
		for _, i := range selected {
			e := g.Edges[i]
			for _, p := range frontier {
				if p.end != e.From {
					continue
				}

				extended := p.extend(i, e)
				if extended.end == goal {
					found = append(found, extended)
				} else {
					next = append(next, extended)
				}
			}
		}
		frontier = next
	}

	if len(found) == 0 {
		return nil, false
	}

	best := found[0]
	for _, p := range found[1:] {
		if p.length < best.length {
			best = p
		}
	}
	return best.edges, true
}
