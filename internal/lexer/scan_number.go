package lexer

import (
	"dada/internal/token"
)

// scanNumber читает цифры; подчёркивания допустимы только между цифрами (22_000).
func (lx *Lexer) scanNumber() {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if isDec(b) {
			lx.cursor.Bump()
			continue
		}
		if b != '_' {
			break
		}
		// пропускаем серию '_' только если за ней снова цифра
		m := lx.cursor.Mark()
		for lx.cursor.Eat('_') {
		}
		if !isDec(lx.cursor.Peek()) {
			lx.cursor.Reset(m)
			break
		}
	}
	lx.push(token.Token{Kind: token.Number, Word: lx.intern(start)})
}
