package graph

import (
	"strings"
	"testing"

	"github.com/rhasspy/rhasspy-nlu-go/expand"
	"github.com/rhasspy/rhasspy-nlu-go/jsgf"
)

func mustCompile(t *testing.T, src string) *Graph {
	t.Helper()
	grammar, err := jsgf.ParseGrammar(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	expanded, err := expand.Expand(grammar, nil, expand.Options{})
	if err != nil {
		t.Fatalf("expand error: %v", err)
	}
	g, err := Compile(expanded)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	return g
}

func TestCompileWeightsSumToOne(t *testing.T) {
	g := mustCompile(t, "[SetColor]\nset color to (2 red|1 blue|green)\n")

	for _, n := range g.Nodes {
		if len(n.Edges) < 2 {
			continue
		}
		total := 0.0
		for _, e := range n.Edges {
			total += e.Weight
		}
		if total < 0.999 || total > 1.001 {
			t.Errorf("node %d: outgoing weights sum to %f, want 1.0", n.ID, total)
		}
	}
}

func TestCompileIntentStartHasLabelEdge(t *testing.T) {
	g := mustCompile(t, "[SetColor]\nset color to red\n")

	found := false
	for _, e := range g.Nodes[g.Start].Edges {
		if e.OLabel == LabelPrefix+"SetColor" {
			found = true
		}
	}
	if !found {
		t.Errorf("start node has no %sSetColor edge", LabelPrefix)
	}
}

func TestCompileTagEmitsBeginEndMarkers(t *testing.T) {
	g := mustCompile(t, "[LightOn]\nturn on (living room lamp){name}\n")

	var begins, ends int
	for _, n := range g.Nodes {
		for _, e := range n.Edges {
			switch e.OLabel {
			case TagBegin("name"):
				begins++
			case TagEnd("name"):
				ends++
			}
		}
	}
	if begins == 0 || begins != ends {
		t.Errorf("got %d begin markers, %d end markers, want matching nonzero counts", begins, ends)
	}
}

func TestCompileSubstitutionSuppressesInnerOutput(t *testing.T) {
	g := mustCompile(t, "[SetColor]\n(red apple):apple\n")

	for _, n := range g.Nodes {
		for _, e := range n.Edges {
			if e.ILabel == "red" || e.ILabel == "apple" {
				if e.OLabel != Epsilon {
					t.Errorf("edge %+v: inner word under a group substitution should be suppressed to <eps>", e)
				}
			}
		}
	}

	found := false
	for _, n := range g.Nodes {
		for _, e := range n.Edges {
			if e.OLabel == "apple" && e.ILabel == Epsilon {
				found = true
			}
		}
	}
	if !found {
		t.Errorf("expected a threaded <eps>:apple substitution edge")
	}
}

func TestCompileTagConvertersEmitMarkers(t *testing.T) {
	g := mustCompile(t, "[SetCount]\nset count to (one|two|three){count!int}\n")

	var opens, closes int
	for _, n := range g.Nodes {
		for _, e := range n.Edges {
			switch e.OLabel {
			case Convert("int"):
				opens++
			case Converted("int"):
				closes++
			}
		}
	}
	if opens == 0 || opens != closes {
		t.Errorf("got %d __convert__ markers, %d __converted__ markers, want matching nonzero counts", opens, closes)
	}
}

func TestCompileUnexpandedReferenceFails(t *testing.T) {
	grammar, err := jsgf.ParseGrammar(strings.NewReader("[Loop]\n<undefined>\n"))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if _, err := Compile(grammar); err == nil {
		t.Fatalf("expected an error compiling an unexpanded RuleRef")
	}
}

func TestCompileIsDeterministic(t *testing.T) {
	src := "[Zebra]\nfeed the zebra\n[Apple]\neat an apple\n"
	first := mustCompile(t, src)
	second := mustCompile(t, src)

	if len(first.Nodes) != len(second.Nodes) {
		t.Fatalf("node counts differ: %d vs %d", len(first.Nodes), len(second.Nodes))
	}
	for i := range first.Nodes {
		if len(first.Nodes[i].Edges) != len(second.Nodes[i].Edges) {
			t.Errorf("node %d: edge counts differ between compiles", i)
		}
	}
}
