package parser

import (
	"fmt"
	"strings"
	"testing"

	"dada/internal/ast"
	"dada/internal/diag"
	"dada/internal/lexer"
	"dada/internal/source"
)

const testFile = "test.dada"

type parsed struct {
	file  *ast.File
	words *source.Interner
	bag   *diag.Bag
}

func parseText(t *testing.T, text string) parsed {
	t.Helper()
	words := source.NewInterner()
	table := lexer.Lex(words, text)
	bag := diag.NewBag(0)
	f := Parse(Options{File: testFile, Words: words, Reporter: diag.BagReporter{Bag: bag}}, table.RootTree())
	return parsed{file: f, words: words, bag: bag}
}

// rootParser returns a parser over the root tree of text, for testing one rule.
func rootParser(text string) (*Parser, *source.Interner, *diag.Bag) {
	words := source.NewInterner()
	table := lexer.Lex(words, text)
	bag := diag.NewBag(0)
	sh := &shared{
		opts:     Options{File: testFile, Words: words, Reporter: diag.BagReporter{Bag: bag}},
		nodes:    ast.NewNodes(0),
		reported: make(map[source.Offset]struct{}),
	}
	return newParser(sh, table.RootTree()), words, bag
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func messages(bag *diag.Bag) []string {
	out := make([]string, 0, bag.Len())
	for _, d := range bag.Items() {
		out = append(out, d.Message)
	}
	return out
}
