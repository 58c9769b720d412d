package jsgf

import (
	"strconv"
	"strings"
)

// Parser is a two-token-lookahead recursive-descent parser over a single
// expression's token stream (a sentence body or a rule body).
type Parser struct {
	lexer *Lexer
	cur   Token
	peek  Token
}

// NewParser creates a Parser over input.
func NewParser(input string) *Parser {
	p := &Parser{lexer: NewLexer(input)}
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.lexer.NextToken()
}

func (p *Parser) expect(t TokenType) error {
	if p.cur.Type != t {
		return newParseError(ErrUnbalancedDelimiter, 0, p.cur.Pos, p.cur.Literal)
	}
	return nil
}

// ParseExpression parses the entirety of text as a single expression
// (a sentence body or a rule body) and returns its AST.
func ParseExpression(text string) (Node, error) {
	p := NewParser(text)
	node, err := p.parseExpr(TokenEOF)
	if err != nil {
		return nil, err
	}
	if p.cur.Type != TokenEOF {
		return nil, newParseError(ErrUnexpectedToken, 0, p.cur.Pos, p.cur.Literal)
	}
	return node, nil
}

// parseExpr parses a run of seq_elems up to (but not consuming) stop or a
// top-level "|".
func (p *Parser) parseExpr(stop TokenType) (Node, error) {
	items, err := p.parseItems(stop)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, newParseError(ErrUnexpectedToken, 0, p.cur.Pos, p.cur.Literal)
	}
	if len(items) == 1 {
		return items[0], nil
	}
	return &Sequence{Mode: ModeSequence, Items: items}, nil
}

func (p *Parser) parseItems(stop TokenType) ([]Node, error) {
	var items []Node
	for p.cur.Type != stop && p.cur.Type != TokenPipe && p.cur.Type != TokenEOF {
		n, err := p.parseSeqElem()
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, nil
}

func (p *Parser) parseSeqElem() (Node, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	if p.cur.Type == TokenColon {
		words, err := p.parseSubstitution()
		if err != nil {
			return nil, err
		}
		atom = attachSubstitution(atom, words)
	}

	if p.cur.Type == TokenLBrace {
		tag, err := p.parseTag(atom)
		if err != nil {
			return nil, err
		}
		atom = tag
	}

	if p.cur.Type == TokenColon {
		// A substitution following a tag applies to the tag's own output.
		words, err := p.parseSubstitution()
		if err != nil {
			return nil, err
		}
		atom = attachSubstitution(atom, words)
	}

	var converters []string
	for p.cur.Type == TokenBang {
		p.next()
		if p.cur.Type != TokenWord {
			return nil, newParseError(ErrUnexpectedToken, 0, p.cur.Pos, p.cur.Literal)
		}
		converters = append(converters, p.cur.Literal)
		p.next()
	}
	if len(converters) > 0 {
		atom = attachConverters(atom, converters)
	}

	return atom, nil
}

func (p *Parser) parseAtom() (Node, error) {
	switch p.cur.Type {
	case TokenWord:
		w := &Word{Input: p.cur.Literal}
		p.next()
		return w, nil

	case TokenLBracket:
		p.next()
		branches, err := p.parseAlternatives(TokenRBracket)
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenRBracket); err != nil {
			return nil, err
		}
		p.next()
		return &Sequence{Mode: ModeOptional, Items: []Node{collapseBranches(branches)}}, nil

	case TokenLParen:
		p.next()
		branches, err := p.parseAlternatives(TokenRParen)
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		p.next()
		return collapseBranches(branches), nil

	case TokenLAngle:
		p.next()
		ref, err := p.parseRuleRefName()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenRAngle); err != nil {
			return nil, err
		}
		p.next()
		return ref, nil

	case TokenDollar:
		p.next()
		if p.cur.Type != TokenWord {
			return nil, newParseError(ErrUnexpectedToken, 0, p.cur.Pos, p.cur.Literal)
		}
		ref := &SlotRef{Name: p.cur.Literal}
		p.next()
		return ref, nil

	default:
		return nil, newParseError(ErrUnexpectedToken, 0, p.cur.Pos, p.cur.Literal)
	}
}

// parseAlternatives parses one or more "|"-separated branches up to (not
// consuming) closeTok, each wrapped in a Sequence carrying its own weight.
func (p *Parser) parseAlternatives(closeTok TokenType) ([]*Sequence, error) {
	var branches []*Sequence
	for {
		weight := 1.0
		if p.cur.Type == TokenWord && isNumeric(p.cur.Literal) &&
			p.peek.Type != TokenPipe && p.peek.Type != closeTok && p.peek.Type != TokenEOF {
			w, err := strconv.ParseFloat(p.cur.Literal, 64)
			if err != nil {
				return nil, newParseError(ErrMalformedWeight, 0, p.cur.Pos, p.cur.Literal)
			}
			weight = w
			p.next()
		}

		items, err := p.parseItems(closeTok)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, newParseError(ErrEmptyAlternative, 0, p.cur.Pos, p.cur.Literal)
		}
		branches = append(branches, &Sequence{Mode: ModeSequence, Items: items, Weight: weight})

		if p.cur.Type == TokenPipe {
			p.next()
			continue
		}
		break
	}
	return branches, nil
}

func collapseBranches(branches []*Sequence) Node {
	if len(branches) == 1 {
		b := branches[0]
		if len(b.Items) == 1 {
			return b.Items[0]
		}
		return b
	}
	items := make([]Node, len(branches))
	for i, b := range branches {
		items[i] = b
	}
	return &Sequence{Mode: ModeAlternative, Items: items}
}

func (p *Parser) parseRuleRefName() (*RuleRef, error) {
	if p.cur.Type != TokenWord {
		return nil, newParseError(ErrInvalidRuleName, 0, p.cur.Pos, p.cur.Literal)
	}
	literal := p.cur.Literal
	p.next()
	if idx := strings.LastIndex(literal, "."); idx >= 0 {
		return &RuleRef{Intent: literal[:idx], Name: literal[idx+1:]}, nil
	}
	return &RuleRef{Name: literal}, nil
}

func (p *Parser) parseSubstitution() ([]*Word, error) {
	p.next() // consume ':'

	if p.cur.Type == TokenLParen {
		p.next()
		node, err := p.parseExpr(TokenRParen)
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		p.next()
		return flattenWords(node), nil
	}

	if p.cur.Type == TokenWord {
		w := &Word{Output: p.cur.Literal, Substitution: true}
		p.next()
		return []*Word{w}, nil
	}

	// "word:" with nothing following is an explicit empty substitution.
	return []*Word{}, nil
}

func (p *Parser) parseTag(inner Node) (*Tag, error) {
	p.next() // consume '{'
	if p.cur.Type != TokenWord {
		return nil, newParseError(ErrUnexpectedToken, 0, p.cur.Pos, p.cur.Literal)
	}
	tag := &Tag{Name: p.cur.Literal, Inner: inner}
	p.next()

	if p.cur.Type == TokenColon {
		words, err := p.parseSubstitution()
		if err != nil {
			return nil, err
		}
		tag.SubstitutionOutput = words
	}

	for p.cur.Type == TokenBang {
		p.next()
		if p.cur.Type != TokenWord {
			return nil, newParseError(ErrUnexpectedToken, 0, p.cur.Pos, p.cur.Literal)
		}
		tag.Converters = append(tag.Converters, p.cur.Literal)
		p.next()
	}

	if err := p.expect(TokenRBrace); err != nil {
		return nil, err
	}
	p.next()
	return tag, nil
}

func flattenWords(node Node) []*Word {
	switch n := node.(type) {
	case *Word:
		return []*Word{{Output: n.OutputText(), Substitution: true}}
	case *Sequence:
		var out []*Word
		for _, item := range n.Items {
			out = append(out, flattenWords(item)...)
		}
		return out
	default:
		return nil
	}
}

func attachSubstitution(node Node, words []*Word) Node {
	output := joinWords(words)
	switch n := node.(type) {
	case *Word:
		n.Output = output
		n.Substitution = true
		return n
	case *Sequence:
		n.SubstitutionOutput = words
		return n
	case *Tag:
		n.SubstitutionOutput = words
		return n
	default:
		return &Sequence{Mode: ModeSequence, Items: []Node{node}, SubstitutionOutput: words}
	}
}

func attachConverters(node Node, conv []string) Node {
	switch n := node.(type) {
	case *Word:
		n.Converters = append(n.Converters, conv...)
		return n
	case *Sequence:
		n.Converters = append(n.Converters, conv...)
		return n
	case *Tag:
		n.Converters = append(n.Converters, conv...)
		return n
	default:
		return &Sequence{Mode: ModeSequence, Items: []Node{node}, Converters: conv}
	}
}

func joinWords(words []*Word) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.Output
	}
	return strings.Join(parts, " ")
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && c != '.' {
			return false
		}
	}
	return true
}
