package check_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dada/internal/check"
	"dada/internal/diag"
	"dada/internal/lexer"
	"dada/internal/manifest"
	"dada/internal/parser"
	"dada/internal/query"
	"dada/internal/validate"
)

func codes(ds []diag.Diagnostic) []diag.Code {
	out := make([]diag.Code, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.Code)
	}
	return out
}

func TestCheckCombinesParseAndValidate(t *testing.T) {
	db := query.New()
	manifest.SetSourceText(db, "a.dada", "fn a() {}\nfn a(x, x) {}\n)")

	full := check.Diagnostics(db, "a.dada")
	assert.Equal(t, []diag.Code{diag.SemaDuplicateItem, diag.SemaDuplicateParam, diag.SynExpectItem}, codes(full),
		"ordered by primary start across phases")

	parseOnly := check.ParseDiagnostics(db, "a.dada")
	assert.Equal(t, []diag.Code{diag.SynExpectItem}, codes(parseOnly))
}

func TestParseOnlyDoesNotValidate(t *testing.T) {
	db := query.New()
	manifest.SetSourceText(db, "a.dada", "fn a() {} fn a() {}")

	assert.Empty(t, check.ParseDiagnostics(db, "a.dada"))
	assert.EqualValues(t, 0, validate.File.Executions(db, "a.dada"))
	assert.EqualValues(t, 1, parser.File.Executions(db, "a.dada"))

	assert.Len(t, check.Diagnostics(db, "a.dada"), 1)
	assert.EqualValues(t, 1, parser.File.Executions(db, "a.dada"), "parse result is shared")
}

func TestCheckIsIdempotent(t *testing.T) {
	db := query.New()
	manifest.SetSourceText(db, "a.dada", "fn f(atomic) {}\nfn f() {}")

	first := check.Diagnostics(db, "a.dada")
	before := db.Executions()
	second := check.Diagnostics(db, "a.dada")

	assert.Equal(t, first, second)
	assert.Equal(t, before, db.Executions())
}

func TestUnrelatedFileKeepsDiagnostics(t *testing.T) {
	db := query.New()
	manifest.SetSourceText(db, "A", "fn a() {}")
	manifest.SetSourceText(db, "B", "fn b(atomic) {}")

	before := check.Diagnostics(db, "B")
	require.Len(t, before, 1)
	stampBefore, ok := check.File.Info(db, "B")
	require.True(t, ok)
	execBefore := db.Executions()

	manifest.SetSourceText(db, "A", "fn a() { changed }")
	after := check.Diagnostics(db, "B")

	assert.Same(t, &before[0], &after[0], "same diagnostics object")
	assert.Equal(t, execBefore, db.Executions(), "nothing of B's chain re-executed")
	for _, exec := range []int64{
		lexer.File.Executions(db, "B"),
		parser.File.Executions(db, "B"),
		validate.File.Executions(db, "B"),
		check.File.Executions(db, "B"),
	} {
		assert.EqualValues(t, 1, exec)
	}
	stampAfter, _ := check.File.Info(db, "B")
	assert.Equal(t, stampBefore.ChangedAt, stampAfter.ChangedAt)
	assert.Equal(t, db.Revision(), stampAfter.VerifiedAt)
}

func TestNoOpEditRelexesOnly(t *testing.T) {
	db := query.New()
	manifest.SetSourceText(db, "a.dada", "fn f() {}")
	check.Diagnostics(db, "a.dada")

	manifest.SetSourceText(db, "a.dada", "fn f() {}")
	check.Diagnostics(db, "a.dada")

	assert.EqualValues(t, 2, lexer.File.Executions(db, "a.dada"))
	assert.EqualValues(t, 1, parser.File.Executions(db, "a.dada"))
	assert.EqualValues(t, 1, validate.File.Executions(db, "a.dada"))
	assert.EqualValues(t, 1, check.File.Executions(db, "a.dada"))
}

func TestEditReplacesDiagnostics(t *testing.T) {
	db := query.New()
	manifest.SetSourceText(db, "a.dada", "fn f(atomic) {}")
	require.Equal(t, []diag.Code{diag.SynExpectParamName}, codes(check.Diagnostics(db, "a.dada")))

	manifest.SetSourceText(db, "a.dada", "fn f(atomic x) {}")
	assert.Empty(t, check.Diagnostics(db, "a.dada"))
}

func TestSnapshotsAgree(t *testing.T) {
	db := query.New()
	names := []string{"a", "b", "c"}
	for _, n := range names {
		manifest.SetSourceText(db, n, "fn "+n+"() {} fn "+n+"() {} ?")
	}

	results := make([][]diag.Diagnostic, 6)
	var wg sync.WaitGroup
	for i := range results {
		snap := db.Snapshot()
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer snap.Close()
			results[i] = check.Diagnostics(snap, names[i%len(names)])
		}()
	}
	wg.Wait()

	for i := range results {
		assert.Equal(t, results[i%len(names)], results[i])
		assert.Len(t, results[i], 2)
	}
}
