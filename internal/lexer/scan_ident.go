package lexer

import (
	"dada/internal/token"
)

// scanIdent читает идентификатор. Слово вплотную к кавычке становится Prefix (r"...").
func (lx *Lexer) scanIdent() {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		r, size := lx.peekRune()
		if !isIdentContinueRune(r) {
			break
		}
		lx.bumpN(size)
	}
	kind := token.Alphabetic
	if lx.cursor.Peek() == '"' {
		kind = token.Prefix
	}
	lx.push(token.Token{Kind: kind, Word: lx.intern(start)})
}
