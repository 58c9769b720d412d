package recognize

import (
	"strings"
	"testing"

	"github.com/rhasspy/rhasspy-nlu-go/expand"
	"github.com/rhasspy/rhasspy-nlu-go/graph"
	"github.com/rhasspy/rhasspy-nlu-go/jsgf"
)

func mustCompile(t *testing.T, src string) *graph.Graph {
	t.Helper()
	grammar, err := jsgf.ParseGrammar(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	expanded, err := expand.Expand(grammar, nil, expand.Options{})
	if err != nil {
		t.Fatalf("expand error: %v", err)
	}
	g, err := graph.Compile(expanded)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	return g
}

func words(s string) []string { return strings.Fields(s) }
