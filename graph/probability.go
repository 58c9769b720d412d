package graph

// MaxPathProbability returns, for every node reachable from g.Start, the
// probability of the highest-probability path from g.Start to that node:
// the maximum, over all incoming edges, of the predecessor's own best
// probability times the edge's weight. A recognizer divides an accepted
// path's own probability by this value at its end node to derive
// confidence, so an unambiguous exact match always normalizes to 1.0.
func MaxPathProbability(g *Graph) (map[int]float64, error) {
	order, err := topoSort(g)
	if err != nil {
		return nil, err
	}

	best := make(map[int]float64, len(g.Nodes))
	best[g.Start] = 1.0

	for _, id := range order {
		if id == g.Start {
			continue
		}
		max := 0.0
		for _, n := range g.Nodes {
			for _, e := range n.Edges {
				if e.To != id {
					continue
				}
				if pred, ok := best[n.ID]; ok {
					if cand := pred * e.Weight; cand > max {
						max = cand
					}
				}
			}
		}
		best[id] = max
	}
	return best, nil
}
