package jsgf

import (
	"bufio"
	"errors"
	"io"
	"regexp"
	"strings"
)

// Intent is a named bucket of sentence templates plus the rules it defines.
type Intent struct {
	Name      string
	Sentences []Node
	Rules     map[string]Node
}

// Grammar maps intent name to Intent, the parser's top-level output.
type Grammar struct {
	Intents map[string]*Intent
}

// NewGrammar returns an empty Grammar.
func NewGrammar() *Grammar {
	return &Grammar{Intents: map[string]*Intent{}}
}

func (g *Grammar) intent(name string) *Intent {
	it, ok := g.Intents[name]
	if !ok {
		it = &Intent{Name: name, Rules: map[string]Node{}}
		g.Intents[name] = it
	}
	return it
}

type grammarConfig struct {
	intentFilter      func(string) bool
	sentenceTransform func(string) string
}

// GrammarOption configures ParseGrammar.
type GrammarOption func(*grammarConfig)

// WithIntentFilter restricts parsing to intents for which filter returns true.
func WithIntentFilter(filter func(string) bool) GrammarOption {
	return func(c *grammarConfig) { c.intentFilter = filter }
}

// WithSentenceTransform applies transform to every rule body and sentence
// line before it is parsed (e.g. lower-casing).
func WithSentenceTransform(transform func(string) string) GrammarOption {
	return func(c *grammarConfig) { c.sentenceTransform = transform }
}

var (
	intentHeaderRe = regexp.MustCompile(`^\[([A-Za-z0-9_]+)\]$`)
	ruleDefRe      = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*=\s*(.+)$`)
)

// ParseGrammar reads a template stream (the [Intent] / name = body /
// sentence-line contract of spec Section 6) and produces a Grammar. It
// never touches a filesystem path; callers own how the stream is opened.
func ParseGrammar(r io.Reader, opts ...GrammarOption) (*Grammar, error) {
	cfg := &grammarConfig{intentFilter: func(string) bool { return true }}
	for _, opt := range opts {
		opt(cfg)
	}

	grammar := NewGrammar()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var currentIntent *Intent
	var pending string
	pendingStart := 0
	lineNo := 0
	// skipping is set while inside a section the intent filter rejected.
	skipping := false

	// atLine stamps the logical line onto an expression ParseError, which
	// the expression parser itself reports without one.
	atLine := func(err error) error {
		var pe *ParseError
		if errors.As(err, &pe) && pe.Line == 0 {
			pe.Line = pendingStart
		}
		return err
	}

	flush := func() error {
		if pending == "" {
			return nil
		}
		line := strings.TrimSpace(stripComment(pending))
		pending = ""
		if line == "" {
			return nil
		}

		if m := intentHeaderRe.FindStringSubmatch(line); m != nil {
			name := m[1]
			if !cfg.intentFilter(name) {
				currentIntent = nil
				skipping = true
				return nil
			}
			currentIntent = grammar.intent(name)
			skipping = false
			return nil
		}

		if skipping {
			return nil
		}
		if currentIntent == nil {
			return newParseError(ErrInvalidIntentName, pendingStart, 0, line)
		}

		if m := ruleDefRe.FindStringSubmatch(line); m != nil {
			name, body := m[1], m[2]
			if cfg.sentenceTransform != nil {
				body = cfg.sentenceTransform(body)
			}
			node, err := ParseExpression(body)
			if err != nil {
				return atLine(err)
			}
			if _, exists := currentIntent.Rules[name]; exists {
				return newParseError(ErrDuplicateRule, pendingStart, 0, name)
			}
			currentIntent.Rules[name] = node
			return nil
		}

		sentence := line
		if cfg.sentenceTransform != nil {
			sentence = cfg.sentenceTransform(sentence)
		}
		node, err := ParseExpression(sentence)
		if err != nil {
			return atLine(err)
		}
		currentIntent.Sentences = append(currentIntent.Sentences, node)
		return nil
	}

	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		if pending == "" {
			pendingStart = lineNo
		}
		trimmedRight := strings.TrimRight(raw, " \t\r")
		if strings.HasSuffix(trimmedRight, `\`) {
			pending += strings.TrimSuffix(trimmedRight, `\`) + " "
			continue
		}
		pending += raw
		if err := flush(); err != nil {
			return nil, err
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return grammar, nil
}

// stripComment removes a trailing "#" or ";" comment, which only starts a
// comment at column 0 or when preceded by whitespace.
func stripComment(line string) string {
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == '#' || c == ';' {
			if i == 0 || line[i-1] == ' ' || line[i-1] == '\t' {
				return line[:i]
			}
		}
	}
	return line
}
