package recognize

import "github.com/rhasspy/rhasspy-nlu-go/graph"

// Recognize matches tokens against g, dispatching to Fuzzy when
// opts.Fuzzy is set and to Strict otherwise. This is the one entry point
// most callers need; Strict and Fuzzy remain exported for callers who want
// to pin the matching strategy regardless of opts.Fuzzy.
func Recognize(g *graph.Graph, tokens []string, opts Options) ([]Recognition, error) {
	if opts.Fuzzy {
		return Fuzzy(g, tokens, opts)
	}
	return Strict(g, tokens, opts)
}
