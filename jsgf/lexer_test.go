package jsgf

import "testing"

func TestTokenizeStructural(t *testing.T) {
	tokens := Tokenize("turn on [the] (living room|kitchen){name}!lower")

	wantTypes := []TokenType{
		TokenWord, TokenWord,
		TokenLBracket, TokenWord, TokenRBracket,
		TokenLParen, TokenWord, TokenWord, TokenPipe, TokenWord, TokenRParen,
		TokenLBrace, TokenWord, TokenRBrace,
		TokenBang, TokenWord,
		TokenEOF,
	}

	if len(tokens) != len(wantTypes) {
		t.Fatalf("got %d tokens, want %d: %v", len(tokens), len(wantTypes), tokens)
	}
	for i, want := range wantTypes {
		if tokens[i].Type != want {
			t.Errorf("token %d: got %v, want %v (%v)", i, tokens[i].Type, want, tokens[i])
		}
	}
}

func TestTokenizeDottedRuleRef(t *testing.T) {
	tokens := Tokenize("<Intent1.rule>")
	if len(tokens) != 4 {
		t.Fatalf("got %d tokens, want 4: %v", len(tokens), tokens)
	}
	if tokens[1].Type != TokenWord || tokens[1].Literal != "Intent1.rule" {
		t.Errorf("got %v, want WORD(Intent1.rule)", tokens[1])
	}
}

func TestTokenizeSlotRef(t *testing.T) {
	tokens := Tokenize("set color to $color")
	last := tokens[len(tokens)-2]
	if last.Type != TokenWord || last.Literal != "color" {
		t.Errorf("got %v, want WORD(color)", last)
	}
	if tokens[len(tokens)-3].Type != TokenDollar {
		t.Errorf("got %v, want $", tokens[len(tokens)-3])
	}
}
