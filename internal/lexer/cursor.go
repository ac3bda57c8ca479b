package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"dada/internal/source"
)

// Cursor представляет собой позицию в тексте
type Cursor struct {
	Text string
	Off  uint32
	// Limit is the exclusive upper bound for Off.
	Limit uint32
}

// NewCursor creates a cursor over the whole text.
func NewCursor(text string) Cursor {
	limit, err := safecast.Conv[uint32](len(text))
	if err != nil {
		panic(fmt.Errorf("len text overflow: %w", err))
	}
	return Cursor{Text: text, Limit: limit}
}

// EOF проверяет, достигнут ли конец диапазона
func (c *Cursor) EOF() bool {
	return c.Off >= c.Limit
}

// Peek читает текущий байт, если есть, иначе возвращает 0
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.Text[c.Off]
}

// Peek2 читает текущий и следующий байт, если есть, иначе возвращает 0, 0, false
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.Off+1 >= c.Limit {
		return 0, 0, false
	}
	return c.Text[c.Off], c.Text[c.Off+1], true
}

// Bump перемещает курсор на один байт вперед и возвращает прочитанный байт
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.Text[c.Off]
	c.Off++
	return b
}

// Mark это метка, чтобы быстро получать Span читаемого фрагмента
type Mark uint32

// Mark сохраняет текущую позицию курсора
func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// SpanFrom получает Span для фрагмента, начиная с метки
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{Start: source.Offset(m), End: source.Offset(c.Off)}
}

// Slice возвращает текст фрагмента, начиная с метки
func (c *Cursor) Slice(m Mark) string {
	return c.Text[m:c.Off]
}

// Pos returns the current offset.
func (c *Cursor) Pos() source.Offset {
	return source.Offset(c.Off)
}

// Reset возвращает курсор назад к метке
func (c *Cursor) Reset(m Mark) {
	c.Off = uint32(m)
}

// Eat consumes the next byte if it matches the provided byte.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.Text[c.Off] == b {
		c.Off++
		return true
	}
	return false
}
