package graph

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/rhasspy/rhasspy-nlu-go/jsgf"
	"github.com/rhasspy/rhasspy-nlu-go/nlulog"
)

type compileConfig struct {
	logger *zap.Logger
}

// Option configures Compile.
type Option func(*compileConfig)

// WithLogger attaches a structured logger to the compile pass.
func WithLogger(logger *zap.Logger) Option {
	return func(c *compileConfig) { c.logger = logger }
}

// Compile turns an expanded grammar (no RuleRef/SlotRef remaining anywhere)
// into a Graph. One intent_start node per intent hangs off a single global
// start node; every sentence in an intent threads from that intent's start
// node to a single end_of_sentence node shared by the whole intent, which
// carries the intent's name directly (spec's "end_of_sentence node that
// carries the intent name").
func Compile(grammar *jsgf.Grammar, opts ...Option) (*Graph, error) {
	cfg := &compileConfig{logger: nlulog.Nop()}
	for _, opt := range opts {
		opt(cfg)
	}
	started := time.Now()

	g := New()
	start := g.AddNode()
	g.Start = start.ID

	names := make([]string, 0, len(grammar.Intents))
	for name := range grammar.Intents {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		intent := grammar.Intents[name]

		intentStart := g.AddNode()
		intentStart.IsIntentStart = true
		intentStart.Intent = name
		g.AddEdge(start.ID, intentStart.ID, Epsilon, LabelPrefix+name, 1.0)

		endOfSentence := g.AddNode()
		endOfSentence.IsEndOfSentence = true
		endOfSentence.Intent = name

		for _, sentence := range intent.Sentences {
			if err := compileNode(g, sentence, intentStart.ID, endOfSentence.ID, false); err != nil {
				return nil, fmt.Errorf("compiling intent %q: %w", name, err)
			}
		}
	}

	normalizeWeights(g)

	cfg.logger.Debug("compiled grammar",
		zap.Int("nodes", len(g.Nodes)),
		zap.Int("intents", len(names)),
		zap.Duration("elapsed", time.Since(started)),
	)
	return g, nil
}

// compileNode compiles node into the subgraph from -> to. suppress, when
// true, forces every descendant Word's olabel to Epsilon regardless of its
// own substitution: it is set while compiling beneath an ancestor group or
// tag substitution, whose output replaces everything emitted by its
// descendants.
func compileNode(g *Graph, node jsgf.Node, from, to int, suppress bool) error {
	switch n := node.(type) {
	case *jsgf.Word:
		emit := func(f, t int) error {
			olabel := n.Input
			switch {
			case suppress:
				olabel = Epsilon
			case n.Substitution && n.Output == "":
				olabel = Epsilon
			case n.Substitution:
				olabel = n.Output
			}
			g.AddEdge(f, t, n.Input, olabel, 1.0)
			return nil
		}
		if len(n.Converters) == 0 {
			return emit(from, to)
		}
		return wrapConverters(g, n.Converters, from, to, emit)

	case *jsgf.Sequence:
		body := func(f, t int) error {
			if n.SubstitutionOutput != nil {
				return compileSubstitutedGroup(g, n.Mode, n.Items, n.SubstitutionOutput, f, t)
			}
			switch n.Mode {
			case jsgf.ModeSequence:
				return compileSequenceBody(g, n.Items, f, t, suppress)
			case jsgf.ModeAlternative:
				return compileAlternativeBody(g, n.Items, f, t, suppress)
			case jsgf.ModeOptional:
				return compileOptionalBody(g, n.Items, f, t, suppress)
			default:
				return fmt.Errorf("%w: mode %v", ErrUnknownNodeType, n.Mode)
			}
		}
		if len(n.Converters) == 0 {
			return body(from, to)
		}
		return wrapConverters(g, n.Converters, from, to, body)

	case *jsgf.Tag:
		return compileTag(g, n, from, to, suppress)

	case *jsgf.RuleRef:
		return fmt.Errorf("%w: <%s>", ErrUnexpandedReference, n.QualifiedName())

	case *jsgf.SlotRef:
		return fmt.Errorf("%w: $%s", ErrUnexpandedReference, n.Name)

	default:
		return fmt.Errorf("%w: %T", ErrUnknownNodeType, node)
	}
}

// wrapConverters nests one __convert__<key>/__converted__<key> boundary per
// entry in converters around inner, first entry outermost, so a chain of
// "!first!second" converters on a single atom stacks the same way the
// recognition builder's converter stack unwinds it.
func wrapConverters(g *Graph, converters []string, from, to int, inner func(from, to int) error) error {
	openFrom := from
	for _, key := range converters {
		mid := g.AddNode().ID
		g.AddEdge(openFrom, mid, Epsilon, Convert(key), 1.0)
		openFrom = mid
	}

	innerEnd := g.AddNode().ID
	if err := inner(openFrom, innerEnd); err != nil {
		return err
	}

	closeFrom := innerEnd
	for i := len(converters) - 1; i >= 0; i-- {
		next := to
		if i > 0 {
			next = g.AddNode().ID
		}
		g.AddEdge(closeFrom, next, Epsilon, Converted(converters[i]), 1.0)
		closeFrom = next
	}
	return nil
}

func compileSequenceBody(g *Graph, items []jsgf.Node, from, to int, suppress bool) error {
	if len(items) == 0 {
		g.AddEdge(from, to, Epsilon, Epsilon, 1.0)
		return nil
	}
	current := from
	for i, item := range items {
		next := to
		if i < len(items)-1 {
			next = g.AddNode().ID
		}
		if err := compileNode(g, item, current, next, suppress); err != nil {
			return err
		}
		current = next
	}
	return nil
}

func compileAlternativeBody(g *Graph, items []jsgf.Node, from, to int, suppress bool) error {
	if len(items) == 0 {
		// No branches: this path matches nothing (e.g. an unfilled slot).
		return nil
	}

	weights := make([]float64, len(items))
	total := 0.0
	for i, item := range items {
		w := 1.0
		if seq, ok := item.(*jsgf.Sequence); ok && seq.Weight > 0 {
			w = seq.Weight
		}
		weights[i] = w
		total += w
	}

	for i, item := range items {
		branchStart := g.AddNode().ID
		g.AddEdge(from, branchStart, Epsilon, Epsilon, weights[i]/total)
		if err := compileNode(g, item, branchStart, to, suppress); err != nil {
			return err
		}
	}
	return nil
}

func compileOptionalBody(g *Graph, items []jsgf.Node, from, to int, suppress bool) error {
	if len(items) != 1 {
		return fmt.Errorf("%w: optional must wrap exactly one item, got %d", ErrUnreachableAccept, len(items))
	}
	const presentWeight = 0.5

	presentStart := g.AddNode().ID
	g.AddEdge(from, presentStart, Epsilon, Epsilon, presentWeight)
	if err := compileNode(g, items[0], presentStart, to, suppress); err != nil {
		return err
	}
	g.AddEdge(from, to, Epsilon, Epsilon, 1-presentWeight)
	return nil
}

func compileSubstitutedGroup(g *Graph, mode jsgf.Mode, items []jsgf.Node, words []*jsgf.Word, from, to int) error {
	mid := g.AddNode().ID
	var err error
	switch mode {
	case jsgf.ModeSequence:
		err = compileSequenceBody(g, items, from, mid, true)
	case jsgf.ModeAlternative:
		err = compileAlternativeBody(g, items, from, mid, true)
	case jsgf.ModeOptional:
		err = compileOptionalBody(g, items, from, mid, true)
	default:
		err = fmt.Errorf("%w: mode %v", ErrUnknownNodeType, mode)
	}
	if err != nil {
		return err
	}
	return threadWords(g, words, mid, to)
}

func compileTag(g *Graph, tag *jsgf.Tag, from, to int, suppress bool) error {
	beginMid := g.AddNode().ID
	g.AddEdge(from, beginMid, Epsilon, TagBegin(tag.Name), 1.0)

	innerSuppress := suppress || tag.SubstitutionOutput != nil
	compileInner := func(f, t int) error { return compileNode(g, tag.Inner, f, t, innerSuppress) }

	innerEnd := g.AddNode().ID
	var err error
	if len(tag.Converters) > 0 {
		err = wrapConverters(g, tag.Converters, beginMid, innerEnd, compileInner)
	} else {
		err = compileInner(beginMid, innerEnd)
	}
	if err != nil {
		return err
	}

	afterSub := innerEnd
	if tag.SubstitutionOutput != nil {
		afterSub = g.AddNode().ID
		if err := threadWords(g, tag.SubstitutionOutput, innerEnd, afterSub); err != nil {
			return err
		}
	}

	g.AddEdge(afterSub, to, Epsilon, TagEnd(tag.Name), 1.0)
	return nil
}

// threadWords emits one ε-input edge per word, each carrying the word's
// output text as olabel, threaded in sequence from -> to.
func threadWords(g *Graph, words []*jsgf.Word, from, to int) error {
	if len(words) == 0 {
		g.AddEdge(from, to, Epsilon, Epsilon, 1.0)
		return nil
	}
	current := from
	for i, w := range words {
		next := to
		if i < len(words)-1 {
			next = g.AddNode().ID
		}
		g.AddEdge(current, next, Epsilon, w.Output, 1.0)
		current = next
	}
	return nil
}

func normalizeWeights(g *Graph) {
	for _, node := range g.Nodes {
		if len(node.Edges) == 0 {
			continue
		}
		total := 0.0
		for _, e := range node.Edges {
			total += e.Weight
		}
		if total <= 0 {
			continue
		}
		for i := range node.Edges {
			node.Edges[i].Weight /= total
		}
	}
}
