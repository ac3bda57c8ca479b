package token

import (
	"dada/internal/source"
)

// Spans returns the span of every token of t, computed from the tree start.
func (t Tree) Spans(words Words) []source.Span {
	toks := t.Tokens()
	out := make([]source.Span, len(toks))
	off := t.Span().Start
	for i, tok := range toks {
		end := off.Add(tok.SpanLen(t.Table, words))
		out[i] = source.NewSpan(off, end)
		off = end
	}
	return out
}

// Walk visits every token of t in source order, entering nested trees right
// after their Tree token. depth is 0 for the tokens of t itself.
// Returning false from fn skips the children of a Tree token.
func (t Tree) Walk(words Words, fn func(tok Token, sp source.Span, depth int) bool) {
	t.walk(words, 0, fn)
}

func (t Tree) walk(words Words, depth int, fn func(tok Token, sp source.Span, depth int) bool) {
	toks := t.Tokens()
	spans := t.Spans(words)
	for i, tok := range toks {
		if !fn(tok, spans[i], depth) {
			continue
		}
		if tok.Kind == Nested {
			t.Child(tok).walk(words, depth+1, fn)
		}
	}
}
