package diag_test

import (
	"testing"

	"dada/internal/diag"
	"dada/internal/source"
)

func fspan(file string, start, end uint32) source.FileSpan {
	return source.FileSpan{File: file, Start: source.Offset(start), End: source.Offset(end)}
}

func TestCodeID(t *testing.T) {
	tests := []struct {
		code diag.Code
		want string
	}{
		{diag.LexUnknownChar, "LEX1001"},
		{diag.SynExtraTokens, "SYN2007"},
		{diag.SemaDuplicateItem, "SEM3001"},
		{diag.IOLoadFileError, "IO4001"},
		{diag.UnknownCode, "E0000"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.want {
			t.Errorf("%d.ID() = %q, want %q", tt.code, got, tt.want)
		}
	}
	if diag.Code(9999).Title() != "Unknown error" {
		t.Errorf("unknown code title = %q", diag.Code(9999).Title())
	}
}

func TestBagSortAndDedup(t *testing.T) {
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.SynExtraTokens, fspan("b.dada", 1, 2), "extra tokens"))
	bag.Add(diag.New(diag.SevWarning, diag.SemaNonNormalIdent, fspan("a.dada", 5, 6), "w"))
	bag.Add(diag.NewError(diag.SynExpectName, fspan("a.dada", 5, 6), "e"))
	bag.Add(diag.NewError(diag.SynExtraTokens, fspan("b.dada", 1, 2), "extra tokens"))

	bag.Sort()
	bag.Dedup()

	items := bag.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 diagnostics after dedup, got %d", len(items))
	}
	if items[0].Message != "e" || items[1].Message != "w" || items[2].Primary.File != "b.dada" {
		t.Fatalf("unexpected order: %+v", items)
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Fatal("bag must report errors and warnings")
	}
}

func TestBagLimit(t *testing.T) {
	bag := diag.NewBag(2)
	ds := []diag.Diagnostic{
		diag.NewError(diag.SynExpectItem, fspan("a", 0, 1), "1"),
		diag.NewError(diag.SynExpectItem, fspan("a", 1, 2), "2"),
		diag.NewError(diag.SynExpectItem, fspan("a", 2, 3), "3"),
	}
	if dropped := bag.AddAll(ds); dropped != 1 {
		t.Fatalf("dropped = %d, want 1", dropped)
	}
	if bag.Len() != 2 {
		t.Fatalf("len = %d", bag.Len())
	}
}

func TestReportBuilderKeepsLabelOrder(t *testing.T) {
	bag := diag.NewBag(0)
	diag.ReportError(diag.BagReporter{Bag: bag}, diag.SynExpectParamName, fspan("a", 7, 7), "expected parameter name after `atomic`").
		WithLabel(fspan("a", 1, 7), "`atomic` specified here").
		WithLabel(fspan("a", 0, 1), "list starts here").
		Emit()

	if bag.Len() != 1 {
		t.Fatalf("len = %d", bag.Len())
	}
	d := bag.Items()[0]
	if len(d.Labels) != 2 || d.Labels[0].Message != "`atomic` specified here" {
		t.Fatalf("labels = %+v", d.Labels)
	}
}

func TestDedupReporter(t *testing.T) {
	bag := diag.NewBag(0)
	r := diag.NewDedupReporter(diag.BagReporter{Bag: bag})
	for range 3 {
		r.Report(diag.SynExpectItem, diag.SevError, fspan("a", 0, 1), "expected an item", nil)
	}
	r.Report(diag.SynExpectItem, diag.SevError, fspan("a", 2, 3), "expected an item", nil)
	if bag.Len() != 2 {
		t.Fatalf("len = %d, want 2", bag.Len())
	}
}

func TestComparePrimary(t *testing.T) {
	a := diag.NewError(diag.SynExpectItem, fspan("a", 3, 4), "")
	b := diag.NewError(diag.SynExpectItem, fspan("a", 1, 9), "")
	if diag.ComparePrimary(a, b) <= 0 {
		t.Fatal("later start must sort after")
	}
	if diag.ComparePrimary(a, a) != 0 {
		t.Fatal("equal spans compare equal")
	}
}
