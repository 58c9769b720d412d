package recognize

import "testing"

func TestNewOptionsComposesBuilders(t *testing.T) {
	opts := NewOptions(
		WithFuzzy(true),
		WithStopWords("um", "uh"),
		WithMaxRecognitions(3),
		WithTraceID("fixed-id"),
	)
	if !opts.Fuzzy {
		t.Errorf("Fuzzy = false, want true")
	}
	if !opts.StopWords["um"] || !opts.StopWords["uh"] {
		t.Errorf("StopWords = %v, want um and uh set", opts.StopWords)
	}
	if opts.MaxRecognitions != 3 {
		t.Errorf("MaxRecognitions = %d, want 3", opts.MaxRecognitions)
	}
	if opts.TraceID != "fixed-id" {
		t.Errorf("TraceID = %q, want fixed-id", opts.TraceID)
	}
}

func TestStrictStampsTraceIDAcrossResults(t *testing.T) {
	g := mustCompile(t, "[Greeting]\nhello there\ngood day\n")

	results, err := Strict(g, words("hello there"), NewOptions(WithTraceID("req-1")))
	if err != nil {
		t.Fatalf("Strict: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].TraceID != "req-1" {
		t.Errorf("TraceID = %q, want req-1", results[0].TraceID)
	}
}

func TestStrictGeneratesTraceIDWhenUnset(t *testing.T) {
	g := mustCompile(t, "[Greeting]\nhello there\n")

	results, err := Strict(g, words("hello there"), Options{})
	if err != nil {
		t.Fatalf("Strict: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].TraceID == "" {
		t.Errorf("TraceID is empty, want an auto-generated id")
	}
}
