package recognize

import (
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rhasspy/rhasspy-nlu-go/graph"
)

// Strict matches tokens against g using breadth-first search: every
// traversed edge must consume the exact next token (epsilon edges are
// always free). If no candidate is found and opts.StopWords is non-empty,
// the search is retried allowing a stop word at the current position to be
// skipped as a move independent of any edge. Confidence is each candidate's
// path probability divided by the highest probability of any path reaching
// the same end node, so an unambiguous exact match always reports 1.0.
func Strict(g *graph.Graph, tokens []string, opts Options) ([]Recognition, error) {
	started := time.Now()
	logger := effectiveLogger(opts.Logger)
	maxProb, err := graph.MaxPathProbability(g)
	if err != nil {
		return nil, err
	}

	candidates, err := matchStrict(g, tokens, opts)
	if err != nil {
		return nil, err
	}
	logger.Debug("strict search finished", zap.Int("candidates", len(candidates)))

	traceID := effectiveTraceID(opts.TraceID)
	converters := effectiveConverters(opts)
	results := make([]Recognition, 0, len(candidates))
	for _, c := range candidates {
		confidence := 1.0
		if best := maxProb[c.node]; best > 0 {
			confidence = c.prob / best
		}
		rec, err := buildRecognition(c.trace, confidence, converters)
		if err != nil {
			logger.Warn("dropping candidate: recognition build failed", zap.Error(err))
			continue
		}
		rec.TraceID = traceID
		results = append(results, rec)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Intent.Confidence > results[j].Intent.Confidence
	})
	if opts.MaxRecognitions > 0 && len(results) > opts.MaxRecognitions {
		results = results[:opts.MaxRecognitions]
	}

	elapsed := time.Since(started).Seconds()
	for i := range results {
		results[i].RecognizeSeconds = elapsed
	}
	logger.Debug("strict recognize returning", zap.Int("results", len(results)), zap.String("trace_id", traceID))
	return results, nil
}

type strictCandidate struct {
	node  int
	prob  float64
	trace []step
}

type strictFrontierItem struct {
	node  int
	pos   int
	prob  float64
	trace []step
}

func matchStrict(g *graph.Graph, tokens []string, opts Options) ([]strictCandidate, error) {
	transform := effectiveWordTransform(opts.WordTransform)
	filter := effectiveIntentFilter(opts.IntentFilter)

	transformed := make([]string, len(tokens))
	for i, t := range tokens {
		transformed[i] = transform(t)
	}

	candidates := searchStrict(g, transformed, filter, opts.StopWords, false)
	if len(candidates) == 0 && len(opts.StopWords) > 0 {
		candidates = searchStrict(g, transformed, filter, opts.StopWords, true)
	}
	return candidates, nil
}

func searchStrict(g *graph.Graph, tokens []string, filter func(string) bool, stopWords map[string]bool, allowSkip bool) []strictCandidate {
	var candidates []strictCandidate
	queue := []strictFrontierItem{{node: g.Start, pos: 0, prob: 1.0}}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		node := g.Node(item.node)
		if node.IsEndOfSentence && item.pos == len(tokens) && filter(node.Intent) {
			candidates = append(candidates, strictCandidate{node: item.node, prob: item.prob, trace: item.trace})
		}

		for _, e := range node.Edges {
			if name, ok := labelIntent(e.OLabel); ok && !filter(name) {
				continue
			}

			if e.ILabel == graph.Epsilon {
				queue = append(queue, strictFrontierItem{
					node:  e.To,
					pos:   item.pos,
					prob:  item.prob * e.Weight,
					trace: appendStep(item.trace, e),
				})
				continue
			}

			if item.pos < len(tokens) && e.ILabel == tokens[item.pos] {
				queue = append(queue, strictFrontierItem{
					node:  e.To,
					pos:   item.pos + 1,
					prob:  item.prob * e.Weight,
					trace: appendStep(item.trace, e),
				})
			}
		}

		if allowSkip && item.pos < len(tokens) && stopWords[tokens[item.pos]] {
			queue = append(queue, strictFrontierItem{
				node:  item.node,
				pos:   item.pos + 1,
				prob:  item.prob,
				trace: item.trace,
			})
		}
	}
	return candidates
}

func labelIntent(olabel string) (string, bool) {
	if !strings.HasPrefix(olabel, graph.LabelPrefix) {
		return "", false
	}
	return strings.TrimPrefix(olabel, graph.LabelPrefix), true
}

// appendStep records a traversal only when it carries an ilabel or olabel;
// pure bookkeeping edges (both epsilon) contribute nothing to the trace.
func appendStep(trace []step, e graph.Edge) []step {
	ilabel, olabel := e.ILabel, e.OLabel
	if ilabel == graph.Epsilon {
		ilabel = ""
	}
	if olabel == graph.Epsilon {
		olabel = ""
	}
	if ilabel == "" && olabel == "" {
		return trace
	}
	next := make([]step, len(trace), len(trace)+1)
	copy(next, trace)
	return append(next, step{ILabel: ilabel, OLabel: olabel})
}
