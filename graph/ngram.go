package graph

import (
	"fmt"
	"strings"
)

// virtualBefore and virtualAfter are sentinel node IDs (never allocated by
// Graph.AddNode, which only ever hands out non-negative IDs) standing in for
// the positions just before an intent's first word and just after its last,
// so pad_start/pad_end can be counted with the same machinery as real words.
const (
	virtualBefore = -1
	virtualAfter  = -2
)

type wordEdge struct {
	from, to int
	word     string
}

// NGramCounts computes, per intent, the count of every word n-gram up to
// order that occurs along some sentence of that intent, using the up/down
// topological path-count propagation: the count attributed to an n-gram
// ending at a given edge is the number of ways to reach its first word's
// source times the number of ways to reach the sentence end from its last
// word's target. padStart and padEnd are treated as ordinary words bracketing
// every sentence.
func NGramCounts(g *Graph, order int, padStart, padEnd string) (map[string]map[string]int, error) {
	if order <= 0 {
		return nil, fmt.Errorf("%w: order must be positive, got %d", ErrInvalidWeight, order)
	}

	topoOrder, err := topoSort(g)
	if err != nil {
		return nil, err
	}
	position := make(map[int]int, len(topoOrder))
	for i, id := range topoOrder {
		position[id] = i
	}

	result := map[string]map[string]int{}
	for _, node := range g.Nodes {
		if !node.IsIntentStart {
			continue
		}
		counts, err := countIntentNGrams(g, node, topoOrder, position, order, padStart, padEnd)
		if err != nil {
			return nil, fmt.Errorf("counting n-grams for intent %q: %w", node.Intent, err)
		}
		result[node.Intent] = counts
	}
	return result, nil
}

func countIntentNGrams(g *Graph, intentStart *Node, topoOrder []int, position map[int]int, order int, padStart, padEnd string) (map[string]int, error) {
	endOfSentence := findEndOfSentence(g, intentStart.Intent)
	if endOfSentence == nil {
		return map[string]int{}, nil
	}

	subset := intersect(forwardReachable(g, intentStart.ID), backwardReachable(g, endOfSentence.ID))

	up := map[int]int{intentStart.ID: 1}
	for _, id := range topoOrder {
		if id == intentStart.ID || !subset[id] {
			continue
		}
		total := 0
		for _, from := range reverseNeighbors(g, id) {
			if subset[from.from] {
				total += up[from.from]
			}
		}
		up[id] = total
	}

	down := map[int]int{endOfSentence.ID: 1}
	for i := len(topoOrder) - 1; i >= 0; i-- {
		id := topoOrder[i]
		if id == endOfSentence.ID || !subset[id] {
			continue
		}
		total := 0
		for _, e := range g.Nodes[id].Edges {
			if subset[e.To] {
				total += down[e.To]
			}
		}
		down[id] = total
	}

	upOf := func(n int) int {
		if n == virtualBefore {
			return 1
		}
		return up[n]
	}
	downOf := func(n int) int {
		if n == virtualAfter {
			return 1
		}
		return down[n]
	}

	// incoming[n] lists every word edge landing on n by walking backward
	// through epsilon edges, so a node reached only via groups/optionals
	// still exposes its real word predecessors.
	memo := map[int][]wordEdge{}
	var incoming func(n int) []wordEdge
	incoming = func(n int) []wordEdge {
		if v, ok := memo[n]; ok {
			return v
		}
		memo[n] = nil // break cycles defensively; the compiled graph is a DAG
		var out []wordEdge
		if n == intentStart.ID {
			out = append(out, wordEdge{from: virtualBefore, to: intentStart.ID, word: padStart})
		}
		for _, pred := range reverseNeighbors(g, n) {
			if !subset[pred.from] {
				continue
			}
			if pred.word == Epsilon {
				out = append(out, incoming(pred.from)...)
			} else {
				out = append(out, pred)
			}
		}
		memo[n] = out
		return out
	}

	wordEdges := []wordEdge{{from: virtualBefore, to: intentStart.ID, word: padStart}}
	for _, id := range topoOrder {
		if !subset[id] {
			continue
		}
		for _, e := range g.Nodes[id].Edges {
			if subset[e.To] && e.ILabel != Epsilon {
				wordEdges = append(wordEdges, wordEdge{from: id, to: e.To, word: e.ILabel})
			}
		}
	}
	wordEdges = append(wordEdges, wordEdge{from: endOfSentence.ID, to: virtualAfter, word: padEnd})

	counts := map[string]int{}
	for _, we := range wordEdges {
		unigram := []string{we.word}
		counts[joinNGram(unigram)] += upOf(we.from) * downOf(we.to)
		if order == 1 {
			continue
		}

		type queued struct {
			node  int
			ngram []string
		}
		queue := []queued{{node: we.from, ngram: unigram}}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, pred := range incoming(cur.node) {
				extended := append([]string{pred.word}, cur.ngram...)
				counts[joinNGram(extended)] += upOf(pred.from) * downOf(we.to)
				if len(extended) < order {
					queue = append(queue, queued{node: pred.from, ngram: extended})
				}
			}
		}
	}
	return counts, nil
}

func joinNGram(words []string) string { return strings.Join(words, " ") }

func findEndOfSentence(g *Graph, intent string) *Node {
	for _, n := range g.Nodes {
		if n.IsEndOfSentence && n.Intent == intent {
			return n
		}
	}
	return nil
}

func reverseNeighbors(g *Graph, to int) []wordEdge {
	var out []wordEdge
	for _, n := range g.Nodes {
		for _, e := range n.Edges {
			if e.To == to {
				out = append(out, wordEdge{from: n.ID, to: to, word: e.ILabel})
			}
		}
	}
	return out
}

func forwardReachable(g *Graph, root int) map[int]bool {
	seen := map[int]bool{root: true}
	queue := []int{root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, e := range g.Nodes[id].Edges {
			if !seen[e.To] {
				seen[e.To] = true
				queue = append(queue, e.To)
			}
		}
	}
	return seen
}

func backwardReachable(g *Graph, root int) map[int]bool {
	seen := map[int]bool{root: true}
	queue := []int{root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, pred := range reverseNeighbors(g, id) {
			if !seen[pred.from] {
				seen[pred.from] = true
				queue = append(queue, pred.from)
			}
		}
	}
	return seen
}

func intersect(a, b map[int]bool) map[int]bool {
	out := map[int]bool{}
	for id := range a {
		if b[id] {
			out[id] = true
		}
	}
	return out
}

// topoSort returns a topological order of g.Nodes via Kahn's algorithm,
// failing if the compiled graph is not a DAG.
func topoSort(g *Graph) ([]int, error) {
	indegree := make([]int, len(g.Nodes))
	for _, n := range g.Nodes {
		for _, e := range n.Edges {
			indegree[e.To]++
		}
	}

	queue := make([]int, 0, len(g.Nodes))
	for id, d := range indegree {
		if d == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]int, 0, len(g.Nodes))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		for _, e := range g.Nodes[id].Edges {
			indegree[e.To]--
			if indegree[e.To] == 0 {
				queue = append(queue, e.To)
			}
		}
	}
	if len(order) != len(g.Nodes) {
		return nil, fmt.Errorf("%w: compiled graph contains a cycle", ErrUnreachableAccept)
	}
	return order, nil
}
