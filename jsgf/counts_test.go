package jsgf

import "testing"

func TestSentenceCountMultipliesSequence(t *testing.T) {
	node, err := ParseExpression("turn on (the|a) (lamp|light)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// turn, on, (the|a)=2, (lamp|light)=2 -> 1*1*2*2
	if got := SentenceCount(node, nil); got != 4 {
		t.Errorf("got %d, want 4", got)
	}
}

func TestSentenceCountOptionalSumsBothBranches(t *testing.T) {
	node, err := ParseExpression("turn on [the] light")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// the optional contributes 2 possibilities (present / absent)
	if got := SentenceCount(node, nil); got != 2 {
		t.Errorf("got %d, want 2", got)
	}
}

func TestSentenceCountRuleRef(t *testing.T) {
	node, err := ParseExpression("<color> light")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	red, _ := ParseExpression("red")
	blue, _ := ParseExpression("blue")
	replacements := map[string][]Node{"<color>": {red, blue}}
	if got := SentenceCount(node, replacements); got != 2 {
		t.Errorf("got %d, want 2", got)
	}
}

func TestIntentCountsFloorsAtOne(t *testing.T) {
	g := NewGrammar()
	intent := g.intent("Empty")
	_ = intent
	counts := IntentCounts(g, nil)
	if len(counts) != 1 || counts["Empty"] != 1 {
		t.Errorf("got %v, want Empty:1", counts)
	}
}
