package jsgf

import "testing"

func TestParseWord(t *testing.T) {
	node, err := ParseExpression("hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w, ok := node.(*Word)
	if !ok {
		t.Fatalf("got %T, want *Word", node)
	}
	if w.Input != "hello" || w.OutputText() != "hello" {
		t.Errorf("got %+v", w)
	}
}

func TestParseSequence(t *testing.T) {
	node, err := ParseExpression("turn on the light")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seq, ok := node.(*Sequence)
	if !ok || seq.Mode != ModeSequence {
		t.Fatalf("got %T, want SEQUENCE Sequence", node)
	}
	if len(seq.Items) != 4 {
		t.Fatalf("got %d items, want 4", len(seq.Items))
	}
}

func TestParseOptional(t *testing.T) {
	node, err := ParseExpression("turn on [the] light")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seq := node.(*Sequence)
	opt, ok := seq.Items[2].(*Sequence)
	if !ok || opt.Mode != ModeOptional {
		t.Fatalf("got %+v, want OPTIONAL Sequence", seq.Items[2])
	}
}

func TestParseAlternative(t *testing.T) {
	node, err := ParseExpression("(red|blue|green)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	alt, ok := node.(*Sequence)
	if !ok || alt.Mode != ModeAlternative {
		t.Fatalf("got %T, want ALTERNATIVE Sequence", node)
	}
	if len(alt.Items) != 3 {
		t.Fatalf("got %d branches, want 3", len(alt.Items))
	}
	for _, item := range alt.Items {
		branch := item.(*Sequence)
		if branch.Weight != 1.0 {
			t.Errorf("branch %+v: got weight %v, want 1.0", branch, branch.Weight)
		}
	}
}

func TestParseWeightedAlternative(t *testing.T) {
	// "green" has no leading number and must default to weight 1.0; "2 red"
	// and "1 blue" carry explicit weights (Open Question 1, decided).
	node, err := ParseExpression("(2 red | 1 blue | green)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	alt := node.(*Sequence)
	wantWeights := []float64{2, 1, 1}
	for i, want := range wantWeights {
		branch := alt.Items[i].(*Sequence)
		if branch.Weight != want {
			t.Errorf("branch %d: got weight %v, want %v", i, branch.Weight, want)
		}
	}
	if w, ok := alt.Items[2].(*Sequence).Items[0].(*Word); !ok || w.Input != "green" {
		t.Errorf("branch 2 got %+v, want Word(green)", alt.Items[2])
	}
}

func TestParseBareNumeralBranchIsLiteral(t *testing.T) {
	node, err := ParseExpression("(1 | 2 | 3)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	alt := node.(*Sequence)
	for i, item := range alt.Items {
		branch := item.(*Sequence)
		if branch.Weight != 1.0 {
			t.Errorf("branch %d: got weight %v, want default 1.0 for bare numeral", i, branch.Weight)
		}
		w, ok := branch.Items[0].(*Word)
		if !ok || w.Input == "" {
			t.Errorf("branch %d: expected a literal Word, got %+v", i, branch.Items[0])
		}
	}
}

func TestParseWordSubstitution(t *testing.T) {
	node, err := ParseExpression("one:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w := node.(*Word)
	if !w.Substitution || w.OutputText() != "1" {
		t.Errorf("got %+v, want substitution output 1", w)
	}
}

func TestParseTagWithConverter(t *testing.T) {
	node, err := ParseExpression("(one:1|two:2){value!int}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tag, ok := node.(*Tag)
	if !ok {
		t.Fatalf("got %T, want *Tag", node)
	}
	if tag.Name != "value" {
		t.Errorf("got tag name %q, want value", tag.Name)
	}
	if len(tag.Converters) != 1 || tag.Converters[0] != "int" {
		t.Errorf("got converters %v, want [int]", tag.Converters)
	}
	inner, ok := tag.Inner.(*Sequence)
	if !ok || inner.Mode != ModeAlternative {
		t.Fatalf("got inner %T, want ALTERNATIVE Sequence", tag.Inner)
	}
}

func TestParseGroupSubstitution(t *testing.T) {
	node, err := ParseExpression("(living room|kitchen):(the room)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	alt := node.(*Sequence)
	if len(alt.SubstitutionOutput) != 2 {
		t.Fatalf("got %d substitution words, want 2", len(alt.SubstitutionOutput))
	}
	if alt.SubstitutionOutput[0].Output != "the" || alt.SubstitutionOutput[1].Output != "room" {
		t.Errorf("got %+v", alt.SubstitutionOutput)
	}
}

func TestParseUnbalancedDelimiterFails(t *testing.T) {
	if _, err := ParseExpression("(red|blue"); err == nil {
		t.Fatal("expected an error for an unclosed paren")
	}
}

func TestParseEmptyAlternativeFails(t *testing.T) {
	if _, err := ParseExpression("(red|)"); err == nil {
		t.Fatal("expected an error for an empty alternative branch")
	}
}

func TestParseDottedRuleRef(t *testing.T) {
	node, err := ParseExpression("<Intent1.rule>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ref, ok := node.(*RuleRef)
	if !ok {
		t.Fatalf("got %T, want *RuleRef", node)
	}
	if ref.Intent != "Intent1" || ref.Name != "rule" {
		t.Errorf("got %+v", ref)
	}
	if ref.QualifiedName() != "Intent1.rule" {
		t.Errorf("got %q", ref.QualifiedName())
	}
}

func TestParseSlotRef(t *testing.T) {
	node, err := ParseExpression("set color to $color")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seq := node.(*Sequence)
	ref, ok := seq.Items[len(seq.Items)-1].(*SlotRef)
	if !ok || ref.Name != "color" {
		t.Errorf("got %+v, want SlotRef(color)", seq.Items[len(seq.Items)-1])
	}
}
