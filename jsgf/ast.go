package jsgf

// Mode selects how a Sequence's items combine.
type Mode int

const (
	// ModeSequence threads items left to right.
	ModeSequence Mode = iota
	// ModeAlternative branches into exactly one of its items, weighted.
	ModeAlternative
	// ModeOptional is a single item that may be skipped entirely.
	ModeOptional
)

func (m Mode) String() string {
	switch m {
	case ModeSequence:
		return "SEQUENCE"
	case ModeAlternative:
		return "ALTERNATIVE"
	case ModeOptional:
		return "OPTIONAL"
	default:
		return "UNKNOWN"
	}
}

// Node is any element of a sentence AST: Word, Sequence, Tag, RuleRef, or
// SlotRef. It has no exported methods; callers type-switch on the concrete
// type, the idiomatic Go stand-in for a tagged union.
type Node interface {
	isNode()
}

// Word is a terminal. Output is empty when no substitution was written, and
// OutputText then falls back to Input; Substitution is true only when the
// source text explicitly wrote a ":" substitution (even if the output
// happens to equal the input).
type Word struct {
	Input        string
	Output       string
	Substitution bool
	Converters   []string
}

func (*Word) isNode() {}

// OutputText returns the olabel text this word emits.
func (w *Word) OutputText() string {
	if w.Substitution {
		return w.Output
	}
	return w.Input
}

// Sequence is a group: a threaded sequence, a weighted alternation, or an
// optional wrapper around a single inner item.
type Sequence struct {
	Items      []Node
	Mode       Mode
	Weight     float64
	Converters []string
	// SubstitutionOutput is set when a ":" substitution followed this group.
	SubstitutionOutput []*Word
}

func (*Sequence) isNode() {}

// Tag marks an entity boundary around Inner.
type Tag struct {
	Name               string
	Inner              Node
	SubstitutionOutput []*Word
	Converters         []string
}

func (*Tag) isNode() {}

// RuleRef references a named rule, optionally qualified with an owning
// intent name ("Intent.rule").
type RuleRef struct {
	Intent string
	Name   string
}

func (*RuleRef) isNode() {}

// QualifiedName returns the dotted form used as a replacement-table key.
func (r *RuleRef) QualifiedName() string {
	if r.Intent == "" {
		return r.Name
	}
	return r.Intent + "." + r.Name
}

// SlotRef references a caller-supplied list of sentence ASTs.
type SlotRef struct {
	Name string
}

func (*SlotRef) isNode() {}
