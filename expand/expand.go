package expand

import (
	"fmt"

	"github.com/rhasspy/rhasspy-nlu-go/jsgf"
)

// DefaultMaxDepth bounds how many nested rule/slot substitutions may occur
// along a single path before ErrMaxDepthExceeded is raised.
const DefaultMaxDepth = 8

// Replacements maps a slot name, without its "$" ("color" for $color), to
// the caller-supplied sentence ASTs it should expand into.
type Replacements map[string][]jsgf.Node

// Options tunes Expand.
type Options struct {
	// MaxDepth bounds rule/slot nesting depth. Zero means DefaultMaxDepth.
	MaxDepth int
	// StrictSlots, when true, turns a missing slot replacement into
	// ErrMissingSlot instead of an empty (unmatchable) alternative.
	StrictSlots bool
}

type ruleTable map[string]map[string]jsgf.Node

// Expand inlines every RuleRef and SlotRef in grammar's sentences, returning
// a new Grammar whose sentence ASTs are self-contained: no RuleRef or
// SlotRef remains anywhere in the result.
func Expand(grammar *jsgf.Grammar, replacements Replacements, opts Options) (*jsgf.Grammar, error) {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if replacements == nil {
		replacements = Replacements{}
	}

	rules := make(ruleTable, len(grammar.Intents))
	for name, intent := range grammar.Intents {
		rules[name] = intent.Rules
	}

	out := jsgf.NewGrammar()
	for name, intent := range grammar.Intents {
		outIntent := &jsgf.Intent{Name: name, Rules: map[string]jsgf.Node{}}
		for _, sentence := range intent.Sentences {
			expanded, err := expandNode(sentence, name, rules, replacements, opts, 0, map[string]bool{})
			if err != nil {
				return nil, err
			}
			outIntent.Sentences = append(outIntent.Sentences, expanded)
		}
		out.Intents[name] = outIntent
	}
	return out, nil
}

func expandNode(node jsgf.Node, currentIntent string, rules ruleTable, repl Replacements, opts Options, depth int, visiting map[string]bool) (jsgf.Node, error) {
	if depth > opts.MaxDepth {
		return nil, fmt.Errorf("%w: depth %d", ErrMaxDepthExceeded, depth)
	}

	switch n := node.(type) {
	case *jsgf.Word:
		return n, nil

	case *jsgf.Sequence:
		items := make([]jsgf.Node, len(n.Items))
		for i, item := range n.Items {
			expanded, err := expandNode(item, currentIntent, rules, repl, opts, depth, visiting)
			if err != nil {
				return nil, err
			}
			items[i] = expanded
		}
		clone := *n
		clone.Items = items
		return &clone, nil

	case *jsgf.Tag:
		inner, err := expandNode(n.Inner, currentIntent, rules, repl, opts, depth, visiting)
		if err != nil {
			return nil, err
		}
		clone := *n
		clone.Inner = inner
		return &clone, nil

	case *jsgf.RuleRef:
		return expandRuleRef(n, currentIntent, rules, repl, opts, depth, visiting)

	case *jsgf.SlotRef:
		return expandSlotRef(n, currentIntent, rules, repl, opts, depth, visiting)

	default:
		return nil, fmt.Errorf("expand: unknown node type %T", node)
	}
}

func expandRuleRef(ref *jsgf.RuleRef, currentIntent string, rules ruleTable, repl Replacements, opts Options, depth int, visiting map[string]bool) (jsgf.Node, error) {
	owner := ref.Intent
	if owner == "" {
		owner = currentIntent
	}
	fullKey := owner + "#" + ref.Name

	if visiting[fullKey] {
		return nil, fmt.Errorf("%w: <%s.%s>", ErrCyclicRule, owner, ref.Name)
	}
	body, ok := rules[owner][ref.Name]
	if !ok {
		return nil, fmt.Errorf("%w: <%s.%s>", ErrUnknownRule, owner, ref.Name)
	}

	visiting[fullKey] = true
	expanded, err := expandNode(body, owner, rules, repl, opts, depth+1, visiting)
	delete(visiting, fullKey)
	if err != nil {
		return nil, err
	}
	return expanded, nil
}

func expandSlotRef(ref *jsgf.SlotRef, currentIntent string, rules ruleTable, repl Replacements, opts Options, depth int, visiting map[string]bool) (jsgf.Node, error) {
	branches, ok := repl[ref.Name]
	if !ok || len(branches) == 0 {
		if opts.StrictSlots {
			return nil, fmt.Errorf("%w: $%s", ErrMissingSlot, ref.Name)
		}
		// An unmatchable alternative: zero branches, matches nothing.
		return &jsgf.Sequence{Mode: jsgf.ModeAlternative}, nil
	}

	items := make([]jsgf.Node, len(branches))
	for i, branch := range branches {
		expanded, err := expandNode(branch, currentIntent, rules, repl, opts, depth+1, visiting)
		if err != nil {
			return nil, err
		}
		items[i] = &jsgf.Sequence{Mode: jsgf.ModeSequence, Items: []jsgf.Node{expanded}, Weight: 1}
	}
	return &jsgf.Sequence{Mode: jsgf.ModeAlternative, Items: items}, nil
}
