package query

import (
	"testing"
)

func TestLexer_Tokenize(t *testing.T) {
	tokens := NewLexer(`call(callee=/a\/b/i, arg=/x/)`).Tokenize()

	want := []struct {
		typ   TokenType
		value string
		flags string
		pos   int
	}{
		{TokenIdent, "call", "", 0},
		{TokenLParen, "(", "", 4},
		{TokenIdent, "callee", "", 5},
		{TokenEquals, "=", "", 11},
		{TokenRegex, `a\/b`, "i", 12},
		{TokenComma, ",", "", 19},
		{TokenIdent, "arg", "", 21},
		{TokenEquals, "=", "", 24},
		{TokenRegex, "x", "", 25},
		{TokenRParen, ")", "", 28},
		{TokenEOF, "", "", 29},
	}

	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(want), len(tokens), tokens)
	}
	for i, w := range want {
		got := tokens[i]
		if got.Type != w.typ || got.Value != w.value || got.Flags != w.flags || got.Position != w.pos {
			t.Errorf("token %d: expected %v %q %q @%d, got %v %q %q @%d",
				i, w.typ, w.value, w.flags, w.pos, got.Type, got.Value, got.Flags, got.Position)
		}
	}
}

func TestLexer_StopsAtIllegal(t *testing.T) {
	tokens := NewLexer("call(#)").Tokenize()
	if len(tokens) != 4 {
		t.Fatalf("expected 4 tokens, got %d", len(tokens))
	}
	if tokens[2].Type != TokenIllegal || tokens[2].Value != "#" {
		t.Errorf("expected illegal '#', got %+v", tokens[2])
	}
	if tokens[3].Type != TokenEOF {
		t.Errorf("expected trailing EOF, got %+v", tokens[3])
	}
}
