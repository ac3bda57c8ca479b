package validate

import (
	"slices"
	"testing"

	"dada/internal/diag"
	"dada/internal/lexer"
	"dada/internal/parser"
	"dada/internal/source"
)

func validateText(t *testing.T, text string) (Result, *diag.Bag) {
	t.Helper()
	words := source.NewInterner()
	root := lexer.Lex(words, text).RootTree()
	parseBag := diag.NewBag(0)
	file := parser.Parse(parser.Options{File: "v.dada", Words: words, Reporter: diag.BagReporter{Bag: parseBag}}, root)
	if parseBag.Len() != 0 {
		t.Fatalf("parse diagnostics in %q: %d", text, parseBag.Len())
	}
	bag := diag.NewBag(0)
	res := Check(file, Options{File: "v.dada", Words: words, Reporter: diag.BagReporter{Bag: bag}})
	return res, bag
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCodes []diag.Code
		wantNames []string
	}{
		{"clean", "fn a() {} class B(x: Int) fn c[T](y: T) {}", nil, []string{"a", "B", "c"}},
		{"duplicate item", "fn a() {} class a", []diag.Code{diag.SemaDuplicateItem}, []string{"a"}},
		{"duplicate param", "fn a(x, y, x) {}", []diag.Code{diag.SemaDuplicateParam}, []string{"a"}},
		{"duplicate generic", "fn a[T, my T]() {}", []diag.Code{diag.SemaDuplicateGeneric}, []string{"a"}},
		{"param may shadow item", "fn a(a) {}", nil, []string{"a"}},
		{"non-NFC identifier", "fn cafe\u0301() {}", []diag.Code{diag.SemaNonNormalIdent}, []string{"cafe\u0301"}},
		{"NFC identifier", "fn caf\u00e9() {}", nil, []string{"caf\u00e9"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, bag := validateText(t, tt.input)
			var codes []diag.Code
			for _, d := range bag.Items() {
				codes = append(codes, d.Code)
			}
			if !slices.Equal(codes, tt.wantCodes) {
				t.Errorf("codes = %v, want %v", codes, tt.wantCodes)
			}
			if !slices.Equal(res.Names, tt.wantNames) {
				t.Errorf("names = %q, want %q", res.Names, tt.wantNames)
			}
		})
	}
}

func TestDuplicateItemPointsAtFirstDefinition(t *testing.T) {
	_, bag := validateText(t, "fn a() {}\nfn a() {}")
	if bag.Len() != 1 {
		t.Fatalf("ожидалась одна диагностика, получили %d", bag.Len())
	}
	d := bag.Items()[0]
	if want := source.NewSpan(13, 14).InFile("v.dada"); d.Primary != want {
		t.Errorf("primary = %v, want %v", d.Primary, want)
	}
	if len(d.Labels) != 1 || d.Labels[0].Message != "first defined here" {
		t.Fatalf("labels = %+v", d.Labels)
	}
	if want := source.NewSpan(3, 4).InFile("v.dada"); d.Labels[0].Span != want {
		t.Errorf("label = %v, want %v", d.Labels[0].Span, want)
	}
	if d.Severity != diag.SevError {
		t.Errorf("severity = %v", d.Severity)
	}
}

func TestNonNormalIsWarning(t *testing.T) {
	_, bag := validateText(t, "fn f(cafe\u0301) {}")
	if bag.HasErrors() || !bag.HasWarnings() {
		t.Errorf("expected only a warning, got %d diagnostics", bag.Len())
	}
}
