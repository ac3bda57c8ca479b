package parser

import (
	"dada/internal/diag"
	"dada/internal/source"
	"dada/internal/token"
)

var keywords = map[string]struct{}{
	"fn":     {},
	"class":  {},
	"async":  {},
	"atomic": {},
	"my":     {},
	"our":    {},
	"leased": {},
	"shared": {},
}

func isKeyword(s string) bool {
	_, ok := keywords[s]
	return ok
}

func (p *Parser) fileSpan(sp source.Span) source.FileSpan {
	return sp.InFile(p.sh.opts.File)
}

// errorAt starts an error diagnostic. Only the first error at a given offset
// gets through; later ones are cascades of the same problem and return nil.
func (p *Parser) errorAt(code diag.Code, sp source.Span, msg string) *diag.ReportBuilder {
	if _, dup := p.sh.reported[sp.Start]; dup {
		return nil
	}
	p.sh.reported[sp.Start] = struct{}{}
	return diag.ReportError(p.sh.opts.Reporter, code, p.fileSpan(sp), msg)
}

// errorAtCurrentToken reports at the next token, or at the end of the stream.
func (p *Parser) errorAtCurrentToken(code diag.Code, msg string) *diag.ReportBuilder {
	return p.errorAt(code, p.currentSpan(), msg)
}

// orReportError turns an absent mandatory element into a diagnostic.
func orReportError[T any](p *Parser, v T, ok bool, code diag.Code, msg string) (T, bool) {
	if !ok {
		p.errorAtCurrentToken(code, msg).Emit()
	}
	return v, ok
}

// emitErrorIfMoreTokens reports one diagnostic covering all unconsumed tokens
// and consumes them.
func (p *Parser) emitErrorIfMoreTokens(msg string) {
	if p.eof() {
		return
	}
	start := p.currentSpan()
	for !p.eof() {
		p.bump()
	}
	p.errorAt(diag.SynExtraTokens, p.spanSince(start), msg).Emit()
}

// eatKeyword consumes the Alphabetic keyword kw.
func (p *Parser) eatKeyword(kw string) (source.Span, bool) {
	tok, ok := p.peek()
	if !ok {
		return source.Span{}, false
	}
	if w, isWord := tok.Alphabetic(); isWord && p.word(w) == kw {
		return p.bump(), true
	}
	return source.Span{}, false
}

// eatOp consumes the single-character operator ch.
func (p *Parser) eatOp(ch rune) (source.Span, bool) {
	tok, ok := p.peek()
	if !ok || !tok.IsOp(ch) {
		return source.Span{}, false
	}
	return p.bump(), true
}

// eatOp2 consumes two adjacent operators such as `->`.
func (p *Parser) eatOp2(first, second rune) (source.Span, bool) {
	a, ok := p.peek()
	if !ok || !a.IsOp(first) {
		return source.Span{}, false
	}
	b, ok := p.peekN(1)
	if !ok || !b.IsOp(second) || p.spans[p.pos].End != p.spans[p.pos+1].Start {
		return source.Span{}, false
	}
	start := p.bump()
	end := p.bump()
	return start.To(end), true
}

// parseName consumes an identifier that is not a keyword.
func (p *Parser) parseName() (source.Word, source.Span, bool) {
	tok, ok := p.peek()
	if !ok {
		return source.NoWord, source.Span{}, false
	}
	w, isWord := tok.Alphabetic()
	if !isWord || isKeyword(p.word(w)) {
		return source.NoWord, source.Span{}, false
	}
	return w, p.bump(), true
}

// delimited consumes `open`, its tree and the closer (when present).
// The returned span includes the delimiters.
func (p *Parser) delimited(open rune) (token.Tree, source.Span, bool) {
	tok, ok := p.peek()
	if !ok || !tok.IsDelimiter(open) {
		return token.Tree{}, source.Span{}, false
	}
	inner, ok := p.peekN(1)
	if !ok || inner.Kind != token.Nested {
		return token.Tree{}, source.Span{}, false
	}
	start := p.bump()
	tree := p.tree.Child(inner)
	p.bump()
	if !tree.Open() {
		if closer, ok := p.peek(); ok && closer.IsDelimiter(token.ClosingDelimiter(open)) {
			p.bump()
		}
	}
	return tree, p.spanSince(start), true
}

// skipUntilComma drops the rest of a broken list element.
func (p *Parser) skipUntilComma() {
	for {
		tok, ok := p.peek()
		if !ok || tok.IsOp(',') {
			return
		}
		p.bump()
	}
}

// parseList parses comma-separated elements, accepting a trailing comma.
// An element that fails without consuming anything ends the list; one that
// consumed tokens has already reported, so the rest of it is skipped and the
// list goes on.
func parseList[T any](p *Parser, elem func(p *Parser) (T, bool)) []T {
	var out []T
	for !p.eof() {
		before := p.pos
		v, ok := elem(p)
		switch {
		case ok:
			out = append(out, v)
		case p.pos == before:
			return out
		default:
			p.skipUntilComma()
		}
		if _, comma := p.eatOp(','); !comma {
			return out
		}
	}
	return out
}
