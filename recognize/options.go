package recognize

import (
	"time"

	"go.uber.org/zap"
)

// Option builds an Options value incrementally. Strict and Fuzzy both take
// a plain Options struct directly; NewOptions exists for callers who prefer
// composing one from named pieces instead of a struct literal.
type Option func(*Options)

// NewOptions applies opts in order over a zero Options and returns it.
func NewOptions(opts ...Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithFuzzy selects the fuzzy matcher over the strict one.
func WithFuzzy(fuzzy bool) Option {
	return func(o *Options) { o.Fuzzy = fuzzy }
}

// WithStopWords marks words either matcher may skip without failing a match.
func WithStopWords(words ...string) Option {
	return func(o *Options) {
		if o.StopWords == nil {
			o.StopWords = make(map[string]bool, len(words))
		}
		for _, w := range words {
			o.StopWords[w] = true
		}
	}
}

// WithIntentFilter restricts matching to intents for which f returns true.
func WithIntentFilter(f func(string) bool) Option {
	return func(o *Options) { o.IntentFilter = f }
}

// WithWordTransform normalizes a token before comparison.
func WithWordTransform(f func(string) string) Option {
	return func(o *Options) { o.WordTransform = f }
}

// WithConverters replaces the default converter table entirely.
func WithConverters(table map[string]Converter) Option {
	return func(o *Options) { o.Converters = table }
}

// WithExtraConverter adds or overrides a single converter on top of the
// effective table.
func WithExtraConverter(name string, fn Converter) Option {
	return func(o *Options) {
		if o.ExtraConverters == nil {
			o.ExtraConverters = make(map[string]Converter, 1)
		}
		o.ExtraConverters[name] = fn
	}
}

// WithMaxRecognitions bounds how many candidates a call returns.
func WithMaxRecognitions(n int) Option {
	return func(o *Options) { o.MaxRecognitions = n }
}

// WithDeadline bounds a fuzzy call's wall-clock search time.
func WithDeadline(d time.Duration) Option {
	return func(o *Options) { o.Deadline = d }
}

// WithCost overrides the fuzzy matcher's cost schedule.
func WithCost(c CostSchedule) Option {
	return func(o *Options) { o.Cost = c }
}

// WithTraceID sets the call's correlation identifier explicitly.
func WithTraceID(id string) Option {
	return func(o *Options) { o.TraceID = id }
}

// WithLogger attaches a structured logger to a Strict or Fuzzy call.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}
