package lexer

import (
	"dada/internal/source"
	"dada/internal/token"
)

// scanString читает "..." целиком, вместе с кавычками. Если внутри встречаются
// секции {...}, получается FormatString; содержимое секций лексится в отдельные деревья.
// Незакрытый литерал тянется до конца ввода и помечается Unterminated.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'

	var sections []token.FormatSection
	litStart := lx.cursor.Pos()
	flags := token.Flags(0)
	closed := false

	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '"':
			closed = true
		case b == '\\':
			// грубая обработка escape: съесть '\' и следующий байт
			lx.cursor.Bump()
			lx.cursor.Bump()
			continue
		case b == '{':
			if lit := source.NewSpan(litStart, lx.cursor.Pos()); !lit.Empty() {
				sections = append(sections, token.FormatSection{Literal: true, Span: lit})
			}
			sections = append(sections, lx.scanSection())
			litStart = lx.cursor.Pos()
			continue
		default:
			lx.cursor.Bump()
			continue
		}
		break
	}

	if lit := source.NewSpan(litStart, lx.cursor.Pos()); !lit.Empty() && len(sections) > 0 {
		sections = append(sections, token.FormatSection{Literal: true, Span: lit})
	}
	if closed {
		lx.cursor.Bump() // closing '"'
	} else {
		flags |= token.Unterminated
	}

	if len(sections) == 0 {
		return token.Token{Kind: token.StringLiteral, Word: lx.intern(start), Flags: flags}
	}
	id := token.FormatID(tableLen(len(lx.table.Formats)))
	lx.table.Formats = append(lx.table.Formats, token.FormatData{
		Span:     lx.cursor.SpanFrom(start),
		Sections: sections,
	})
	return token.Token{Kind: token.FormatString, Format: id, Flags: flags}
}

// scanSection читает {...} внутри строки; вложенные фигурные скобки учитываются,
// кавычка заканчивает секцию вместе со строкой.
func (lx *Lexer) scanSection() token.FormatSection {
	lx.cursor.Bump() // '{'
	inner := lx.cursor.Mark()
	depth := 0
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '"' {
			break
		}
		if b == '{' {
			depth++
		}
		if b == '}' {
			if depth == 0 {
				break
			}
			depth--
		}
		lx.cursor.Bump()
	}
	end := lx.cursor.Mark()

	sub := newLexer(lx.words, lx.table, Cursor{Text: lx.cursor.Text, Off: uint32(inner), Limit: uint32(end)})
	id := sub.run()
	lx.cursor.Eat('}')
	return token.FormatSection{Span: source.NewSpan(source.Offset(inner), source.Offset(end)), Tree: id}
}
