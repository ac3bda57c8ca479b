package parser

import (
	"fmt"

	"dada/internal/ast"
	"dada/internal/diag"
	"dada/internal/source"
	"dada/internal/token"
)

type Options struct {
	File     string
	Words    *source.Interner
	Reporter diag.Reporter
}

// shared: состояние, общее для парсера файла и всех его под-парсеров.
type shared struct {
	opts     Options
	nodes    *ast.Nodes
	reported map[source.Offset]struct{}
}

// Parser: курсор по одному дереву токенов (пробелы пропущены).
type Parser struct {
	sh      *shared
	tree    token.Tree
	toks    []token.Token
	spans   []source.Span
	pos     int
	end     source.Offset // конец потока: конец интерьера дерева
	lastEnd source.Offset // конец последнего съеденного токена
}

// Parse parses the items of a file's root tree. It never fails: problems
// become diagnostics and the items that could be recognised are returned.
func Parse(opts Options, root token.Tree) *ast.File {
	sh := &shared{
		opts:     opts,
		reported: make(map[source.Offset]struct{}),
	}
	file := ast.NewFile(opts.File, root.Span())
	sh.nodes = file.Nodes

	p := newParser(sh, root)
	p.reportLexical()
	p.parseItems(file)
	return file
}

func newParser(sh *shared, tree token.Tree) *Parser {
	all := tree.Tokens()
	spans := tree.Spans(sh.opts.Words)
	p := &Parser{
		sh:      sh,
		tree:    tree,
		toks:    make([]token.Token, 0, len(all)),
		spans:   make([]source.Span, 0, len(all)),
		end:     tree.Span().End,
		lastEnd: tree.Span().Start,
	}
	for i, tok := range all {
		if tok.Kind == token.Whitespace {
			continue
		}
		p.toks = append(p.toks, tok)
		p.spans = append(p.spans, spans[i])
	}
	return p
}

// sub builds an independent parser over the interior of a nested tree.
func (p *Parser) sub(tree token.Tree) *Parser {
	return newParser(p.sh, tree)
}

func (p *Parser) eof() bool {
	return p.pos >= len(p.toks)
}

func (p *Parser) peek() (token.Token, bool) {
	if p.eof() {
		return token.Token{}, false
	}
	return p.toks[p.pos], true
}

func (p *Parser) peekN(n int) (token.Token, bool) {
	if p.pos+n >= len(p.toks) {
		return token.Token{}, false
	}
	return p.toks[p.pos+n], true
}

// bump consumes the current token and returns its span.
func (p *Parser) bump() source.Span {
	sp := p.spans[p.pos]
	p.pos++
	p.lastEnd = sp.End
	return sp
}

// currentSpan is the span of the next token, or the zero-length end of the stream.
func (p *Parser) currentSpan() source.Span {
	if p.eof() {
		return source.Span{Start: p.end, End: p.end}
	}
	return p.spans[p.pos]
}

// spanSince covers everything consumed from start up to now.
func (p *Parser) spanSince(start source.Span) source.Span {
	if p.lastEnd < start.End {
		return start
	}
	return source.NewSpan(start.Start, p.lastEnd)
}

func (p *Parser) word(w source.Word) string {
	return p.sh.opts.Words.MustLookup(w)
}

// reportLexical surfaces the anomalies the lexer kept as data: open trees
// and unterminated string literals.
func (p *Parser) reportLexical() {
	table := p.tree.Table
	for _, id := range table.OpenTrees() {
		tr := table.Tree(id)
		p.errorAt(diag.SynUnclosedDelimiter, tr.OpenerSpan(), fmt.Sprintf("unclosed `%c`", tr.Opener())).
			WithLabel(p.fileSpan(source.Span{Start: p.end, End: p.end}), "input ends here").
			Emit()
	}
	p.tree.Walk(p.sh.opts.Words, func(tok token.Token, sp source.Span, _ int) bool {
		if tok.Flags&token.Unterminated != 0 {
			p.errorAt(diag.LexUnterminatedString, sp, "unterminated string literal").Emit()
		}
		return true
	})
}
