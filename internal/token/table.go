package token

import (
	"cmp"
	"slices"

	"dada/internal/source"
)

// TreeData describes one token tree inside a Table.
type TreeData struct {
	Span   source.Span // interior only, without delimiters
	First  uint32      // index of the first token in Table.Tokens
	Last   uint32      // index past the last token
	Opener rune        // 0 for the root tree
	Open   bool        // the closer was never found
}

// FormatSection is a literal run or an interpolated `{...}` part of a format string.
type FormatSection struct {
	Literal bool
	Span    source.Span
	Tree    TreeID // only for interpolated sections
}

// FormatData describes a format string literal.
type FormatData struct {
	Span     source.Span
	Sections []FormatSection
}

// Table is the flat token storage of one lexed file.
// Tokens of a tree are contiguous; nested trees are stored before their parents.
type Table struct {
	Tokens  []Token
	Trees   []TreeData
	Formats []FormatData
	Root    TreeID
}

// RootTree returns the tree covering the whole file.
func (tb *Table) RootTree() Tree {
	return Tree{Table: tb, ID: tb.Root}
}

// Tree wraps an id into a Tree value.
func (tb *Table) Tree(id TreeID) Tree {
	return Tree{Table: tb, ID: id}
}

// HasOpenTree reports whether any opener in the file lacks its closer.
func (tb *Table) HasOpenTree() bool {
	for i := range tb.Trees {
		if tb.Trees[i].Open {
			return true
		}
	}
	return false
}

// OpenTrees lists unclosed trees in source order, outermost first.
func (tb *Table) OpenTrees() []TreeID {
	var out []TreeID
	for i := range tb.Trees {
		if tb.Trees[i].Open {
			out = append(out, TreeID(i)) //nolint:gosec // bounded by len(Trees)
		}
	}
	// секции форматных строк сбрасываются посреди файла, поэтому порядок хранения не годится
	slices.SortFunc(out, func(a, b TreeID) int {
		sa, sb := tb.Trees[a].Span, tb.Trees[b].Span
		if c := cmp.Compare(sa.Start, sb.Start); c != 0 {
			return c
		}
		return cmp.Compare(sb.End, sa.End)
	})
	return out
}

// Tree is a cheap handle: a table plus the index of one tree in it.
type Tree struct {
	Table *Table
	ID    TreeID
}

func (t Tree) data() *TreeData {
	return &t.Table.Trees[t.ID]
}

// IsZero reports whether t was never assigned.
func (t Tree) IsZero() bool {
	return t.Table == nil
}

// Tokens returns the tree's own tokens; nested trees appear as single Tree tokens.
func (t Tree) Tokens() []Token {
	d := t.data()
	return t.Table.Tokens[d.First:d.Last]
}

// Span is the interior span of the tree.
func (t Tree) Span() source.Span {
	return t.data().Span
}

// Open reports whether the tree's closing delimiter is missing.
func (t Tree) Open() bool {
	return t.data().Open
}

// Opener returns the opening delimiter, or 0 for the root.
func (t Tree) Opener() rune {
	return t.data().Opener
}

// OpenerSpan is the span of the opening delimiter.
func (t Tree) OpenerSpan() source.Span {
	start := t.data().Span.Start
	if start == 0 {
		return source.Span{}
	}
	return source.Span{Start: start - 1, End: start}
}

// Child returns the nested tree carried by a Tree token.
func (t Tree) Child(tok Token) Tree {
	return Tree{Table: t.Table, ID: tok.Tree}
}
