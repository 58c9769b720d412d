package recognize

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rhasspy/rhasspy-nlu-go/nlulog"
)

// Entity is a named, bracketed sub-phrase pulled out of a recognized
// sentence, with character offsets into both the converted and raw text.
type Entity struct {
	Name      string
	Value     interface{}
	RawValue  string
	Start     int
	End       int
	RawStart  int
	RawEnd    int
	Tokens    []interface{}
	RawTokens []string
}

// IntentResult names the matched intent and the confidence of the match.
type IntentResult struct {
	Name       string
	Confidence float64
}

// Recognition is the result of matching one utterance against a graph.
type Recognition struct {
	Intent           IntentResult
	Text             string
	RawText          string
	Tokens           []interface{}
	RawTokens        []string
	Entities         []Entity
	RecognizeSeconds float64
	// TraceID correlates this recognition with the call that produced it;
	// every Recognition from the same Strict/Fuzzy call shares one.
	TraceID string
}

// Options tunes a recognize call. A zero Options uses strict matching with
// the default converter table and no stop words; Recognize uses the fuzzy
// matcher only when Fuzzy is set.
type Options struct {
	// Fuzzy selects the best-first fuzzy matcher over the strict BFS matcher.
	Fuzzy bool
	// StopWords may be skipped by either matcher without failing a match.
	StopWords map[string]bool
	// IntentFilter restricts matching to intents for which it returns true.
	IntentFilter func(string) bool
	// WordTransform normalizes a token before comparison (e.g. lower-casing).
	WordTransform func(string) string
	// Converters overrides the default converter table entirely when non-nil.
	Converters map[string]Converter
	// ExtraConverters is merged on top of the effective converter table.
	ExtraConverters map[string]Converter
	// MaxRecognitions bounds how many candidates are returned; zero means
	// unbounded.
	MaxRecognitions int
	// Deadline bounds the fuzzy matcher's wall-clock search time; zero means
	// unbounded. Strict does not consult it.
	Deadline time.Duration
	// Cost overrides the fuzzy matcher's cost schedule; zero value members
	// fall back to the package defaults.
	Cost CostSchedule
	// TraceID identifies this call for correlation with logged recognition
	// attempts; a random one is generated when left empty.
	TraceID string
	// Logger receives candidate and result counts at debug level and a
	// warning for each dropped candidate; a nop logger is used when left nil.
	Logger *zap.Logger
}

// CostSchedule weights the three components of the fuzzy matcher's cost
// function: skipped stop words, graph-required words missing from the
// input, and departure from the most probable path.
type CostSchedule struct {
	Stop    float64
	Missing float64
	Weight  float64
}

// DefaultCostSchedule is the fuzzy matcher's cost schedule absent an
// override.
var DefaultCostSchedule = CostSchedule{Stop: 1, Missing: 10, Weight: 0.5}

func (c CostSchedule) orDefault() CostSchedule {
	if c.Stop == 0 && c.Missing == 0 && c.Weight == 0 {
		return DefaultCostSchedule
	}
	return c
}

// step is one edge traversal recorded along a candidate path: the graph's
// own word for the edge (empty for a pure ε move) and its output label
// (also possibly empty). Edges with neither are never recorded.
type step struct {
	ILabel string
	OLabel string
}

func identity(s string) string { return s }

func effectiveWordTransform(t func(string) string) func(string) string {
	if t == nil {
		return identity
	}
	return t
}

func effectiveIntentFilter(f func(string) bool) func(string) bool {
	if f == nil {
		return func(string) bool { return true }
	}
	return f
}

func effectiveTraceID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

func effectiveLogger(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return nlulog.Nop()
	}
	return logger
}

func effectiveConverters(opts Options) map[string]Converter {
	table := opts.Converters
	if table == nil {
		table = DefaultConverters()
	} else {
		merged := make(map[string]Converter, len(table))
		for k, v := range table {
			merged[k] = v
		}
		table = merged
	}
	for k, v := range opts.ExtraConverters {
		table[k] = v
	}
	return table
}
