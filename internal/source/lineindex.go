package source

import (
	"fmt"

	"fortio.org/safecast"
)

// LineIndex stores the offsets of every '\n' in a text.
// It is the only place offsets are turned into line/column pairs.
type LineIndex struct {
	newlines []uint32
	size     uint32
}

// NewLineIndex scans text once.
func NewLineIndex(text string) LineIndex {
	size, err := safecast.Conv[uint32](len(text))
	if err != nil {
		panic(fmt.Errorf("text length overflow: %w", err))
	}
	out := make([]uint32, 0, len(text)/32)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			out = append(out, uint32(i)) //nolint:gosec // bounded by size above
		}
	}
	return LineIndex{newlines: out, size: size}
}

// Lines returns the number of lines (a trailing newline starts an empty line).
func (li LineIndex) Lines() int {
	return len(li.newlines) + 1
}

// Locate converts an offset to a 1-based line/column. Offsets past the end clamp to the end.
func (li LineIndex) Locate(off Offset) LineColumn {
	o := uint32(off)
	if o > li.size {
		o = li.size
	}
	// бинпоиск: находим число переводов строк строго до o
	lo, hi := 0, len(li.newlines)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if li.newlines[mid] < o {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	var lineStart uint32
	if lo > 0 {
		lineStart = li.newlines[lo-1] + 1
	}
	line, err := safecast.Conv[uint32](lo + 1)
	if err != nil {
		panic(fmt.Errorf("line number overflow: %w", err))
	}
	return LineColumn{Line: line, Column: o - lineStart + 1}
}

// LineSpan returns the byte range of the given 1-based line without its newline.
func (li LineIndex) LineSpan(line uint32) (Span, bool) {
	if line == 0 || int(line) > li.Lines() {
		return Span{}, false
	}
	var start uint32
	if line > 1 {
		start = li.newlines[line-2] + 1
	}
	end := li.size
	if int(line-1) < len(li.newlines) {
		end = li.newlines[line-1]
	}
	return Span{Start: Offset(start), End: Offset(end)}, true
}

// Line returns the text of a 1-based line.
func (li LineIndex) Line(text string, line uint32) string {
	sp, ok := li.LineSpan(line)
	if !ok || int(sp.End) > len(text) {
		return ""
	}
	return text[sp.Start:sp.End]
}
