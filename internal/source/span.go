package source

import (
	"fmt"
)

// Span is a half-open byte range [Start, End) within one file.
type Span struct {
	Start Offset // в байтах включительно
	End   Offset // в байтах не включительно
}

// NewSpan builds a span; start must not be past end.
func NewSpan(start, end Offset) Span {
	if start > end {
		panic(fmt.Errorf("invalid span: start %d > end %d", start, end))
	}
	return Span{Start: start, End: end}
}

// Zero is the empty span at offset 0.
func Zero() Span {
	return Span{}
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End.Sub(s.Start)
}

// To returns the span from the start of s to the end of other.
// other must be s itself or lie entirely after it.
func (s Span) To(other Span) Span {
	if s != other && s.End > other.Start {
		panic(fmt.Errorf("span %s overlaps or precedes %s", s, other))
	}
	return Span{Start: s.Start, End: other.End}
}

// Cover возвращает минимальный спан, содержащий оба.
func (s Span) Cover(other Span) Span {
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// StartPoint is the zero-length span at s.Start.
func (s Span) StartPoint() Span {
	return Span{Start: s.Start, End: s.Start}
}

// EndPoint is the zero-length span at s.End.
func (s Span) EndPoint() Span {
	return Span{Start: s.End, End: s.End}
}

// Contains reports whether other lies within s.
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

func (s Span) String() string {
	return fmt.Sprintf("%d-%d", s.Start, s.End)
}

// InFile anchors the span in the named file.
func (s Span) InFile(file string) FileSpan {
	return FileSpan{File: file, Start: s.Start, End: s.End}
}

// FileSpan is a span anchored in a named file.
type FileSpan struct {
	File  string
	Start Offset
	End   Offset
}

// Span drops the file.
func (fs FileSpan) Span() Span {
	return Span{Start: fs.Start, End: fs.End}
}

func (fs FileSpan) String() string {
	return fmt.Sprintf("%s:%d-%d", fs.File, fs.Start, fs.End)
}
