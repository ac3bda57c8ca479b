package diagfmt

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"dada/internal/lexer"
	"dada/internal/source"
)

func TestCollectTokensWalksNestedTrees(t *testing.T) {
	text := "fn f(x)"
	words := source.NewInterner()
	table := lexer.Lex(words, text)

	got := collectTokens(table.RootTree(), words, text, false)
	type row struct {
		kind, text string
		depth      int
	}
	want := []row{
		{"Alphabetic", "fn", 0},
		{"Alphabetic", "f", 0},
		{"Delimiter", "(", 0},
		{"Tree", "", 0},
		{"Alphabetic", "x", 1},
		{"Delimiter", ")", 0},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Kind != w.kind || got[i].Text != w.text || got[i].Depth != w.depth {
			t.Errorf("token %d = %+v, want %+v", i, got[i], w)
		}
	}
}

func TestTokenFlags(t *testing.T) {
	text := "f(\"abc"
	words := source.NewInterner()
	table := lexer.Lex(words, text)

	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, table.RootTree(), words, text, false); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "(open)") {
		t.Errorf("open tree not marked:\n%s", out)
	}
	if !strings.Contains(out, "(unterminated)") {
		t.Errorf("unterminated string not marked:\n%s", out)
	}
}

func TestFormatTokensWhitespace(t *testing.T) {
	text := "a b"
	words := source.NewInterner()
	table := lexer.Lex(words, text)

	kinds := func(withSpace bool) []string {
		var out []string
		for _, tok := range collectTokens(table.RootTree(), words, text, withSpace) {
			out = append(out, tok.Kind)
		}
		return out
	}
	if got := kinds(false); !slices.Equal(got, []string{"Alphabetic", "Alphabetic"}) {
		t.Errorf("without whitespace: %v", got)
	}
	if got := kinds(true); !slices.Equal(got, []string{"Alphabetic", "Whitespace", "Alphabetic"}) {
		t.Errorf("with whitespace: %v", got)
	}

	var buf bytes.Buffer
	if err := FormatTokensJSON(&buf, table.RootTree(), words, text, false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"text": "b"`) {
		t.Errorf("json output:\n%s", buf.String())
	}
}
