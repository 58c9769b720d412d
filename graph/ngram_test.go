package graph

import (
	"strings"
	"testing"

	"github.com/rhasspy/rhasspy-nlu-go/expand"
	"github.com/rhasspy/rhasspy-nlu-go/jsgf"
)

func TestNGramCountsUnigramsIncludePadding(t *testing.T) {
	grammar, err := jsgf.ParseGrammar(strings.NewReader("[Greet]\nhello there\n"))
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

	counts, err := NGramCounts(g, 2, "<s>", "</s>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	greet, ok := counts["Greet"]
	if !ok {
		t.Fatalf("no counts for intent Greet")
	}

	for _, want := range []string{"<s>", "hello", "there", "</s>", "<s> hello", "hello there", "there </s>"} {
		if greet[want] == 0 {
			t.Errorf("missing or zero count for n-gram %q: %v", want, greet)
		}
	}
}

func TestNGramCountsBranchesSplitEvenly(t *testing.T) {
	grammar, err := jsgf.ParseGrammar(strings.NewReader("[SetColor]\nset color to (red|blue)\n"))
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

	counts, err := NGramCounts(g, 1, "<s>", "</s>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	setColor := counts["SetColor"]
	if setColor["red"] != 1 || setColor["blue"] != 1 {
		t.Errorf("got red=%d blue=%d, want 1 and 1", setColor["red"], setColor["blue"])
	}
	if setColor["set"] != 2 {
		t.Errorf("got set=%d, want 2 (shared prefix counted once per sentence through it)", setColor["set"])
	}
}

func TestNGramCountsRejectsNonPositiveOrder(t *testing.T) {
	g := New()
	if _, err := NGramCounts(g, 0, "<s>", "</s>"); err == nil {
		t.Fatalf("expected an error for order 0")
	}
}
