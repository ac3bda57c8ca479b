package token

import (
	"fmt"

	"fortio.org/safecast"

	"dada/internal/source"
)

// TreeID indexes Table.Trees.
type TreeID uint32

// FormatID indexes Table.Formats.
type FormatID uint32

// Token is a tagged variant; which payload field is meaningful depends on Kind.
type Token struct {
	Kind   Kind
	Flags  Flags
	Ch     rune        // Op, Delimiter, Whitespace, Unknown
	Word   source.Word // Alphabetic, Number, Prefix, StringLiteral
	Tree   TreeID      // Nested
	Format FormatID    // FormatString
}

// Words resolves interned words; *source.Interner implements it.
type Words interface {
	MustLookup(w source.Word) string
}

// SpanLen recomputes the byte length of the token from its own data.
func (t Token) SpanLen(table *Table, words Words) uint32 {
	switch t.Kind {
	case Nested:
		return table.Trees[t.Tree].Span.Len()
	case Alphabetic, Number, Prefix, StringLiteral:
		return strLen(words.MustLookup(t.Word))
	case FormatString:
		return table.Formats[t.Format].Span.Len()
	default:
		if t.Flags&InvalidUTF8 != 0 {
			return 1
		}
		return strLen(string(t.Ch))
	}
}

func strLen(s string) uint32 {
	n, err := safecast.Conv[uint32](len(s))
	if err != nil {
		panic(fmt.Errorf("token length overflow: %w", err))
	}
	return n
}

// Alphabetic returns the word of an Alphabetic token.
func (t Token) Alphabetic() (source.Word, bool) {
	if t.Kind == Alphabetic {
		return t.Word, true
	}
	return source.NoWord, false
}

// IsOp reports whether t is the operator ch.
func (t Token) IsOp(ch rune) bool {
	return t.Kind == Op && t.Ch == ch
}

// IsDelimiter reports whether t is the delimiter ch.
func (t Token) IsDelimiter(ch rune) bool {
	return t.Kind == Delimiter && t.Ch == ch
}

// Describe renders the token for debugging and diagnostics.
func (t Token) Describe(words Words) string {
	switch t.Kind {
	case Alphabetic, Number, Prefix, StringLiteral:
		return fmt.Sprintf("%s(%s)", t.Kind, words.MustLookup(t.Word))
	case Nested:
		return fmt.Sprintf("Tree(#%d)", t.Tree)
	case FormatString:
		return fmt.Sprintf("FormatString(#%d)", t.Format)
	default:
		return fmt.Sprintf("%s(%q)", t.Kind, t.Ch)
	}
}
