package lexer_test

import (
	"testing"

	"dada/internal/lexer"
	"dada/internal/manifest"
	"dada/internal/query"
	"dada/internal/source"
	"dada/internal/token"
)

// flat разворачивает дерево обратно в последовательность токенов без Tree.
func flat(tree token.Tree) []token.Token {
	var out []token.Token
	for _, tok := range tree.Tokens() {
		if tok.Kind == token.Nested {
			out = append(out, flat(tree.Child(tok))...)
			continue
		}
		out = append(out, tok)
	}
	return out
}

func describe(words *source.Interner, toks []token.Token) []string {
	out := make([]string, len(toks))
	for i, tok := range toks {
		out[i] = tok.Describe(words)
	}
	return out
}

func TestLexFunctionHeader(t *testing.T) {
	words := source.NewInterner()
	table := lexer.Lex(words, "fn f() {}\n")

	got := describe(words, flat(table.RootTree()))
	want := []string{
		"Alphabetic(fn)", "Whitespace(' ')", "Alphabetic(f)",
		"Delimiter('(')", "Delimiter(')')", "Whitespace(' ')",
		"Delimiter('{')", "Delimiter('}')", "Whitespace('\\n')",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %v", len(got), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %s, want %s", i, got[i], want[i])
		}
	}
	if table.HasOpenTree() {
		t.Error("balanced input must not have open trees")
	}
}

func TestLexOpenTree(t *testing.T) {
	words := source.NewInterner()
	table := lexer.Lex(words, "fn f(")

	if !table.HasOpenTree() {
		t.Fatal("expected an open tree")
	}
	open := table.OpenTrees()
	if len(open) != 1 {
		t.Fatalf("open trees = %v", open)
	}
	tree := table.Tree(open[0])
	if tree.Opener() != '(' || tree.OpenerSpan() != source.NewSpan(4, 5) {
		t.Errorf("opener = %q at %v", tree.Opener(), tree.OpenerSpan())
	}
	if tree.Span() != source.NewSpan(5, 5) {
		t.Errorf("span = %v", tree.Span())
	}
}

func TestLexNestedOpenTrees(t *testing.T) {
	table := lexer.Lex(source.NewInterner(), "a { b ( c [ d ] ")
	open := table.OpenTrees()
	if len(open) != 2 {
		t.Fatalf("open trees = %v", open)
	}
	if table.Tree(open[0]).Opener() != '{' || table.Tree(open[1]).Opener() != '(' {
		t.Errorf("open trees must be listed outermost first")
	}
}

func TestLexOpenTreesInsideFormatSection(t *testing.T) {
	// скобка в секции остаётся открытой на границе секции, раньше внешних деревьев
	text := "a { \"{ (x }\" b ( "
	table := lexer.Lex(source.NewInterner(), text)
	open := table.OpenTrees()
	if len(open) != 3 {
		t.Fatalf("open trees = %v", open)
	}
	want := []struct {
		opener rune
		span   source.Span
	}{
		{'{', source.NewSpan(3, 17)},
		{'(', source.NewSpan(8, 10)},
		{'(', source.NewSpan(16, 17)},
	}
	for i, w := range want {
		tree := table.Tree(open[i])
		if tree.Opener() != w.opener || tree.Span() != w.span {
			t.Errorf("open[%d] = %q %v, want %q %v", i, tree.Opener(), tree.Span(), w.opener, w.span)
		}
	}
}

func TestLexTreeSpansAndLengths(t *testing.T) {
	words := source.NewInterner()
	text := "fn g[T](x: my T) { 22_000 + r\"raw\" }"
	table := lexer.Lex(words, text)
	root := table.RootTree()

	// длины токенов восстанавливаются без исходного текста и покрывают его целиком
	var total uint32
	for _, tok := range root.Tokens() {
		total += tok.SpanLen(table, words)
	}
	if total != uint32(len(text)) {
		t.Fatalf("sum of span lengths = %d, want %d", total, len(text))
	}

	for i := range table.Trees {
		tree := table.Tree(token.TreeID(i))
		var sum uint32
		for _, tok := range tree.Tokens() {
			sum += tok.SpanLen(table, words)
		}
		if sum != tree.Span().Len() {
			t.Errorf("tree %d: tokens cover %d bytes, span is %v", i, sum, tree.Span())
		}
		if tree.Open() {
			t.Errorf("tree %d unexpectedly open", i)
		}
	}
}

func TestLexClassification(t *testing.T) {
	words := source.NewInterner()
	tests := []struct {
		src  string
		want []string
	}{
		{"22_000", []string{"Number(22_000)"}},
		{"1_", []string{"Number(1)", "Alphabetic(_)"}},
		{"a+b", []string{"Alphabetic(a)", "Op('+')", "Alphabetic(b)"}},
		{"->", []string{"Op('-')", "Op('>')"}},
		{"r\"x\"", []string{"Prefix(r)", "StringLiteral(\"x\")"}},
		{"\"a\\\"b\"", []string{"StringLiteral(\"a\\\"b\")"}},
		{"`", []string{"Unknown('`')"}},
		{"a$b", []string{"Alphabetic(a)", "Unknown('$')", "Alphabetic(b)"}},
		{"\\n", []string{"Unknown('\\\\')", "Alphabetic(n)"}},
		{"@~#", []string{"Op('@')", "Op('~')", "Op('#')"}},
		{"ünï", []string{"Alphabetic(ünï)"}},
		{"x]", []string{"Alphabetic(x)", "Delimiter(']')"}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got := describe(words, flat(lexer.Lex(words, tt.src).RootTree()))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token %d = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLexUnterminatedString(t *testing.T) {
	words := source.NewInterner()
	table := lexer.Lex(words, "fn \"abc")
	toks := table.RootTree().Tokens()
	last := toks[len(toks)-1]
	if last.Kind != token.StringLiteral || last.Flags&token.Unterminated == 0 {
		t.Fatalf("last token = %s flags=%b", last.Describe(words), last.Flags)
	}
	if last.SpanLen(table, words) != 4 {
		t.Errorf("span len = %d", last.SpanLen(table, words))
	}
}

func TestLexFormatString(t *testing.T) {
	words := source.NewInterner()
	text := "\"a {x + 1} b\""
	table := lexer.Lex(words, text)
	toks := table.RootTree().Tokens()
	if len(toks) != 1 || toks[0].Kind != token.FormatString {
		t.Fatalf("tokens = %v", describe(words, toks))
	}
	f := table.Formats[toks[0].Format]
	if f.Span.Len() != uint32(len(text)) {
		t.Errorf("format span = %v", f.Span)
	}
	if len(f.Sections) != 3 || !f.Sections[0].Literal || f.Sections[1].Literal || !f.Sections[2].Literal {
		t.Fatalf("sections = %+v", f.Sections)
	}
	inner := describe(words, table.Tree(f.Sections[1].Tree).Tokens())
	if len(inner) != 5 || inner[0] != "Alphabetic(x)" || inner[4] != "Number(1)" {
		t.Errorf("interpolation tokens = %v", inner)
	}
}

func TestLexInvalidUTF8(t *testing.T) {
	words := source.NewInterner()
	table := lexer.Lex(words, "a\xffb")
	toks := table.RootTree().Tokens()
	if len(toks) != 3 || toks[1].Kind != token.Unknown || toks[1].SpanLen(table, words) != 1 {
		t.Fatalf("tokens = %v", describe(words, toks))
	}
}

func TestLexQueryCutoff(t *testing.T) {
	db := query.New()
	manifest.SetSourceText(db, "a.dada", "fn f() {}")
	first := lexer.File.Get(db, "a.dada")

	manifest.SetSourceText(db, "a.dada", "fn f() {}")
	second := lexer.File.Get(db, "a.dada")

	if first.Table != second.Table {
		t.Error("equal token tables must keep the memoized value")
	}
	info, _ := lexer.File.Info(db, "a.dada")
	if info.Executions != 2 || info.ChangedAt != 1 {
		t.Errorf("info = %+v", info)
	}
}
