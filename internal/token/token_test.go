package token

import (
	"testing"

	"dada/internal/source"
)

// nestedTable: "{(x" с секцией форматной строки, сброшенной раньше внешних деревьев.
func nestedTable() *Table {
	return &Table{
		Tokens: []Token{
			{Kind: Alphabetic},
			{Kind: Delimiter, Ch: '('},
			{Kind: Nested, Tree: 1},
			{Kind: Delimiter, Ch: '{'},
			{Kind: Nested, Tree: 2},
		},
		Trees: []TreeData{
			{Span: source.NewSpan(8, 10), First: 0, Last: 1, Opener: '(', Open: true},
			{Span: source.NewSpan(16, 17), First: 1, Last: 1, Opener: '(', Open: true},
			{Span: source.NewSpan(3, 17), First: 1, Last: 3, Opener: '{', Open: true},
			{Span: source.NewSpan(0, 17), First: 3, Last: 5},
		},
		Root: 3,
	}
}

func TestNestedKindPrintsAsTree(t *testing.T) {
	if got := Nested.String(); got != "Tree" {
		t.Errorf("Nested.String() = %q", got)
	}
	tok := Token{Kind: Nested, Tree: 2}
	if got := tok.Describe(nil); got != "Tree(#2)" {
		t.Errorf("Describe = %q", got)
	}
	table := nestedTable()
	if got := tok.SpanLen(table, nil); got != 14 {
		t.Errorf("SpanLen = %d, want 14", got)
	}
	root := table.RootTree()
	if child := root.Child(root.Tokens()[1]); child.Opener() != '{' || !child.Open() {
		t.Errorf("child = %q open=%v", child.Opener(), child.Open())
	}
}

func TestOpenTreesOrderedByStart(t *testing.T) {
	table := nestedTable()
	if !table.HasOpenTree() {
		t.Fatal("expected open trees")
	}
	got := table.OpenTrees()
	want := []TreeID{2, 0, 1}
	if len(got) != len(want) {
		t.Fatalf("OpenTrees = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("OpenTrees = %v, want %v", got, want)
			break
		}
	}
}

func TestOpenTreesOuterFirstOnEqualStart(t *testing.T) {
	table := &Table{
		Trees: []TreeData{
			{Span: source.NewSpan(2, 2), Opener: '(', Open: true},
			{Span: source.NewSpan(2, 5), Opener: '[', Open: true},
			{Span: source.NewSpan(0, 5)},
		},
		Root: 2,
	}
	got := table.OpenTrees()
	if len(got) != 2 || got[0] != 1 || got[1] != 0 {
		t.Errorf("OpenTrees = %v, want [1 0]", got)
	}
}
