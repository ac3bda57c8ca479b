package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"fortio.org/safecast"
)

// ===== Работа с рунами поверх Cursor =====

// peekRune декодирует текущую руну; size == 0 на конце диапазона.
func (lx *Lexer) peekRune() (r rune, size int) {
	if lx.cursor.EOF() {
		return utf8.RuneError, 0
	}
	b := lx.cursor.Peek()
	if b < utf8.RuneSelf { // fast-path ASCII
		return rune(b), 1
	}
	return utf8.DecodeRuneInString(lx.cursor.Text[lx.cursor.Off:lx.cursor.Limit])
}

// bumpN сдвигает курсор на size байт
func (lx *Lexer) bumpN(size int) {
	usz, err := safecast.Conv[uint32](size)
	if err != nil {
		panic(fmt.Errorf("bump overflow: %w", err))
	}
	lx.cursor.Off += usz
}

// ===== Классификаторы =====

// ASCII fast-path для идентификаторов; Unicode: через isIdentStartRune/Continue.
func isIdentStartRune(r rune) bool {
	return r == '_' || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') ||
		(r >= utf8.RuneSelf && unicode.IsLetter(r))
}

func isIdentContinueRune(r rune) bool {
	return isIdentStartRune(r) || (r >= '0' && r <= '9') ||
		(r >= utf8.RuneSelf && (unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)))
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

// operators: одиночные символы операторов; составные собирает парсер.
const operators = "+-*/%=<>!&|^?:;,.@~#"

func isOperator(r rune) bool {
	for _, op := range operators {
		if op == r {
			return true
		}
	}
	return false
}
