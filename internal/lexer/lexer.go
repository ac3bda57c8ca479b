package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"fortio.org/safecast"

	"dada/internal/source"
	"dada/internal/token"
)

// level is one token tree under construction.
type level struct {
	opener rune
	start  source.Offset
	tokens []token.Token
}

// Lexer turns text into a token.Table. It never fails and never reports:
// anomalies stay in the tokens (Unknown, Unterminated, open trees).
type Lexer struct {
	cursor Cursor
	words  *source.Interner
	table  *token.Table
	stack  []level
}

// Lex tokenizes the whole text into a fresh table.
func Lex(words *source.Interner, text string) *token.Table {
	table := &token.Table{}
	lx := newLexer(words, table, NewCursor(text))
	table.Root = lx.run()
	return table
}

func newLexer(words *source.Interner, table *token.Table, cursor Cursor) *Lexer {
	return &Lexer{cursor: cursor, words: words, table: table}
}

// run lexes the cursor range and returns the id of the tree covering it.
func (lx *Lexer) run() token.TreeID {
	lx.stack = append(lx.stack[:0], level{start: lx.cursor.Pos()})

	for !lx.cursor.EOF() {
		r, size := lx.peekRune()
		switch {
		case r == utf8.RuneError && size == 1:
			lx.cursor.Bump()
			lx.push(token.Token{Kind: token.Unknown, Ch: rune(lx.cursor.Text[lx.cursor.Off-1]), Flags: token.InvalidUTF8})

		case unicode.IsSpace(r):
			lx.bumpN(size)
			lx.push(token.Token{Kind: token.Whitespace, Ch: r})

		case isIdentStartRune(r):
			lx.scanIdent()

		case r < utf8.RuneSelf && isDec(byte(r)):
			lx.scanNumber()

		case r == '"':
			lx.push(lx.scanString())

		case token.IsOpening(r):
			lx.cursor.Bump()
			lx.push(token.Token{Kind: token.Delimiter, Ch: r})
			lx.stack = append(lx.stack, level{opener: r, start: lx.cursor.Pos()})

		case token.IsClosing(r):
			top := &lx.stack[len(lx.stack)-1]
			if len(lx.stack) > 1 && token.ClosingDelimiter(top.opener) == r {
				end := lx.cursor.Pos()
				lx.cursor.Bump()
				lx.closeLevel(end, false)
				lx.push(token.Token{Kind: token.Delimiter, Ch: r})
			} else {
				// чужая закрывающая скобка остаётся токеном текущего дерева
				lx.cursor.Bump()
				lx.push(token.Token{Kind: token.Delimiter, Ch: r})
			}

		case isOperator(r):
			lx.bumpN(size)
			lx.push(token.Token{Kind: token.Op, Ch: r})

		default:
			lx.bumpN(size)
			lx.push(token.Token{Kind: token.Unknown, Ch: r})
		}
	}

	// незакрытые деревья закрываются концом ввода изнутри наружу
	for len(lx.stack) > 1 {
		lx.closeLevel(lx.cursor.Pos(), true)
	}
	return lx.flush(lx.stack[0], lx.cursor.Pos(), false)
}

func (lx *Lexer) push(tok token.Token) {
	top := &lx.stack[len(lx.stack)-1]
	top.tokens = append(top.tokens, tok)
}

// closeLevel pops the innermost tree and leaves a Tree token in its parent.
func (lx *Lexer) closeLevel(end source.Offset, open bool) {
	lvl := lx.stack[len(lx.stack)-1]
	lx.stack = lx.stack[:len(lx.stack)-1]
	id := lx.flush(lvl, end, open)
	lx.push(token.Token{Kind: token.Nested, Tree: id})
}

// flush copies a finished level into the table.
func (lx *Lexer) flush(lvl level, end source.Offset, open bool) token.TreeID {
	first := tableLen(len(lx.table.Tokens))
	lx.table.Tokens = append(lx.table.Tokens, lvl.tokens...)
	id := token.TreeID(tableLen(len(lx.table.Trees)))
	lx.table.Trees = append(lx.table.Trees, token.TreeData{
		Span:   source.NewSpan(lvl.start, end),
		First:  first,
		Last:   tableLen(len(lx.table.Tokens)),
		Opener: lvl.opener,
		Open:   open,
	})
	return id
}

func tableLen(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("token table overflow: %w", err))
	}
	return v
}

func (lx *Lexer) intern(m Mark) source.Word {
	return lx.words.Intern(lx.cursor.Slice(m))
}
