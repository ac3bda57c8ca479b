package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"dada/internal/source"
	"dada/internal/token"
)

type TokenOutput struct {
	Kind  string      `json:"kind"`
	Text  string      `json:"text,omitempty"`
	Span  source.Span `json:"span"`
	Depth int         `json:"depth"`
	Flags []string    `json:"flags,omitempty"`
}

func tokenFlags(t token.Tree, tok token.Token) []string {
	var out []string
	if tok.Flags&token.Unterminated != 0 {
		out = append(out, "unterminated")
	}
	if tok.Flags&token.InvalidUTF8 != 0 {
		out = append(out, "invalid-utf8")
	}
	if tok.Kind == token.Nested && t.Child(tok).Open() {
		out = append(out, "open")
	}
	return out
}

func collectTokens(root token.Tree, words token.Words, text string, withSpace bool) []TokenOutput {
	var out []TokenOutput
	root.Walk(words, func(tok token.Token, sp source.Span, depth int) bool {
		if tok.Kind == token.Whitespace && !withSpace {
			return true
		}
		o := TokenOutput{Kind: tok.Kind.String(), Span: sp, Depth: depth, Flags: tokenFlags(root, tok)}
		if tok.Kind != token.Nested && int(sp.End) <= len(text) {
			o.Text = text[sp.Start:sp.End]
		}
		out = append(out, o)
		return true
	})
	return out
}

// FormatTokensPretty выводит токены в человекочитаемом формате; вложенные деревья с отступом.
func FormatTokensPretty(w io.Writer, root token.Tree, words token.Words, text string, withSpace bool) error {
	lines := source.NewLineIndex(text)
	for i, tok := range collectTokens(root, words, text, withSpace) {
		start, end := lines.Locate(tok.Span.Start), lines.Locate(tok.Span.End)
		var b strings.Builder
		fmt.Fprintf(&b, "%3d: %s%-13s", i+1, strings.Repeat("  ", tok.Depth), tok.Kind)
		if tok.Text != "" {
			fmt.Fprintf(&b, " %q", tok.Text)
		}
		fmt.Fprintf(&b, " at %d:%d-%d:%d", start.Line, start.Column, end.Line, end.Column)
		if len(tok.Flags) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(tok.Flags, ", "))
		}
		b.WriteByte('\n')
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, root token.Tree, words token.Words, text string, withSpace bool) error {
	output := collectTokens(root, words, text, withSpace)
	if output == nil {
		output = []TokenOutput{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
