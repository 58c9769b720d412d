package recognize

import (
	"container/heap"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/rhasspy/rhasspy-nlu-go/graph"
)

// Fuzzy matches tokens against g with a best-first search over three kinds
// of move: an exact edge traversal (free), a "missing" traversal of a
// graph-required word that has no matching input token (only considered
// when no exact match exists at the current position), and a stop-word
// skip that advances the input without following any edge. Candidates are
// popped from a priority queue in increasing cost order and emitted as
// soon as they reach an end-of-sentence node with the input fully
// consumed, so the first opts.MaxRecognitions results are the cheapest.
func Fuzzy(g *graph.Graph, tokens []string, opts Options) ([]Recognition, error) {
	started := time.Now()
	logger := effectiveLogger(opts.Logger)
	transform := effectiveWordTransform(opts.WordTransform)
	filter := effectiveIntentFilter(opts.IntentFilter)
	cost := opts.Cost.orDefault()

	transformed := make([]string, len(tokens))
	for i, t := range tokens {
		transformed[i] = transform(t)
	}

	var deadline time.Time
	if opts.Deadline > 0 {
		deadline = time.Now().Add(opts.Deadline)
	}

	candidates := searchFuzzy(g, transformed, filter, opts.StopWords, cost, opts.MaxRecognitions, deadline)
	logger.Debug("fuzzy search finished", zap.Int("candidates", len(candidates)))

	best := 0.0
	raw := make([]float64, len(candidates))
	for i, c := range candidates {
		raw[i] = math.Exp(-c.cost)
		if raw[i] > best {
			best = raw[i]
		}
	}

	traceID := effectiveTraceID(opts.TraceID)
	converters := effectiveConverters(opts)
	results := make([]Recognition, 0, len(candidates))
	for i, c := range candidates {
		confidence := raw[i]
		if best > 0 {
			confidence = raw[i] / best
		}
		rec, err := buildRecognition(c.trace, confidence, converters)
		if err != nil {
			logger.Warn("dropping candidate: recognition build failed", zap.Error(err))
			continue
		}
		rec.TraceID = traceID
		results = append(results, rec)
	}

	elapsed := time.Since(started).Seconds()
	for i := range results {
		results[i].RecognizeSeconds = elapsed
	}
	logger.Debug("fuzzy recognize returning", zap.Int("results", len(results)), zap.String("trace_id", traceID))
	return results, nil
}

type fuzzyCandidate struct {
	cost  float64
	trace []step
}

type fuzzyState struct {
	node      int
	pos       int
	prob      float64
	stopSkips int
	missing   int
	cost      float64
	remaining int
	seq       int
	trace     []step
}

type fuzzyQueue []*fuzzyState

func (q fuzzyQueue) Len() int { return len(q) }
func (q fuzzyQueue) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost < q[j].cost
	}
	if q[i].remaining != q[j].remaining {
		return q[i].remaining < q[j].remaining
	}
	return q[i].seq < q[j].seq
}
func (q fuzzyQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *fuzzyQueue) Push(x interface{}) { *q = append(*q, x.(*fuzzyState)) }
func (q *fuzzyQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// searchFuzzy explores the graph in increasing-cost order. A closed map
// keyed by (node, position) records the lowest cost a state has been
// reached with and skips requeuing anything no better; this bounds an
// otherwise combinatorial search but is an approximation, since two paths
// reaching the same (node, position) can carry different path
// probabilities and so incur different costs on their remaining edges.
// Accept states are emitted before this check, so several paths ending at
// the same end-of-sentence node each yield a candidate.
func searchFuzzy(g *graph.Graph, tokens []string, filter func(string) bool, stopWords map[string]bool, cost CostSchedule, maxRecognitions int, deadline time.Time) []fuzzyCandidate {
	n := len(tokens)
	q := &fuzzyQueue{{node: g.Start, pos: 0, prob: 1.0, remaining: n, seq: 0}}
	heap.Init(q)

	closed := make(map[[2]int]float64)
	seq := 1
	var candidates []fuzzyCandidate

	for q.Len() > 0 {
		if !deadline.IsZero() && time.Now().After(deadline) {
			break
		}

		item := heap.Pop(q).(*fuzzyState)
		node := g.Node(item.node)
		if node.IsEndOfSentence && item.pos == n && filter(node.Intent) {
			candidates = append(candidates, fuzzyCandidate{cost: item.cost, trace: item.trace})
			if maxRecognitions > 0 && len(candidates) >= maxRecognitions {
				break
			}
		}

		key := [2]int{item.node, item.pos}
		if best, ok := closed[key]; ok && item.cost > best {
			continue
		}
		closed[key] = item.cost

		epsilons, exact, missing := classifyEdges(node, item.pos, tokens)

		for _, e := range epsilons {
			if name, ok := labelIntent(e.OLabel); ok && !filter(name) {
				continue
			}
			push(q, &seq, item, e, item.pos, n, cost.Weight, 0)
		}
		for _, e := range exact {
			push(q, &seq, item, e, item.pos+1, n, cost.Weight, 0)
		}
		for _, e := range missing {
			push(q, &seq, item, e, item.pos, n, cost.Weight, cost.Missing)
		}

		if item.pos < n && stopWords[tokens[item.pos]] {
			skip := &fuzzyState{
				node:      item.node,
				pos:       item.pos + 1,
				prob:      item.prob,
				stopSkips: item.stopSkips + 1,
				missing:   item.missing,
				cost:      item.cost + cost.Stop,
				remaining: n - (item.pos + 1),
				seq:       seq,
				trace:     item.trace,
			}
			seq++
			heap.Push(q, skip)
		}
	}
	return candidates
}

func classifyEdges(node *graph.Node, pos int, tokens []string) (epsilons, exact, missing []graph.Edge) {
	hasExact := false
	for _, e := range node.Edges {
		if e.ILabel == graph.Epsilon {
			continue
		}
		if pos < len(tokens) && e.ILabel == tokens[pos] {
			hasExact = true
		}
	}
	for _, e := range node.Edges {
		switch {
		case e.ILabel == graph.Epsilon:
			epsilons = append(epsilons, e)
		case pos < len(tokens) && e.ILabel == tokens[pos]:
			exact = append(exact, e)
		case !hasExact:
			missing = append(missing, e)
		}
	}
	return
}

func push(q *fuzzyQueue, seq *int, item *fuzzyState, e graph.Edge, nextPos, n int, weightCost, missingCost float64) {
	nextProb := item.prob * e.Weight
	delta := (item.prob-nextProb)*weightCost + missingCost
	next := &fuzzyState{
		node:      e.To,
		pos:       nextPos,
		prob:      nextProb,
		stopSkips: item.stopSkips,
		missing:   item.missing,
		cost:      item.cost + delta,
		remaining: n - nextPos,
		seq:       *seq,
		trace:     appendStep(item.trace, e),
	}
	if missingCost > 0 {
		next.missing = item.missing + 1
	}
	*seq++
	heap.Push(q, next)
}
