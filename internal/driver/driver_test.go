package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dada/internal/ast"
	"dada/internal/diag"
	"dada/internal/observ"
	"dada/internal/source"
	"dada/internal/trace"
)

func TestUpdateFileAndRead(t *testing.T) {
	db := New(trace.Nop)
	db.UpdateFile("a.dada", "fn f() {}\nclass C(x: Int)\n")

	text, err := db.FileSource("a.dada")
	require.NoError(t, err)
	assert.Equal(t, "fn f() {}\nclass C(x: Int)\n", text)

	items, err := db.Items("a.dada")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, Item{Kind: ast.ItemFunction, Name: "f", Span: source.NewSpan(0, 9).InFile("a.dada")}, items[0])
	assert.Equal(t, ast.ItemClass, items[1].Kind)
	assert.Equal(t, "C", items[1].Name)

	fn, ok, err := db.FunctionNamed("a.dada", "f")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, fn.HasBody())

	_, ok, err = db.FunctionNamed("a.dada", "C")
	require.NoError(t, err)
	assert.False(t, ok, "classes are not functions")

	start, end, err := db.LineColumns(items[1].Span)
	require.NoError(t, err)
	assert.Equal(t, source.LineColumn{Line: 2, Column: 1}, start)
	assert.Equal(t, source.LineColumn{Line: 2, Column: 16}, end)

	assert.Equal(t, []string{"a.dada"}, db.Files())
}

func TestUnknownFile(t *testing.T) {
	db := New(nil)
	_, err := db.Diagnostics("nope.dada")
	assert.True(t, errors.Is(err, ErrUnknownFile))
	_, err = db.FileSource("nope.dada")
	assert.ErrorIs(t, err, ErrUnknownFile)
	_, _, err = db.LineColumns(source.FileSpan{File: "nope.dada"})
	assert.ErrorIs(t, err, ErrUnknownFile)
}

func TestSnapshotIsPinned(t *testing.T) {
	db := New(nil)
	db.UpdateFile("a.dada", "fn a() {}")

	snap := db.Snapshot()
	rev := snap.Revision()
	diags, err := snap.Diagnostics("a.dada")
	require.NoError(t, err)
	assert.Empty(t, diags)
	snap.Close()

	db.UpdateFile("b.dada", "fn b(")
	assert.Greater(t, db.Revision(), rev)
	assert.Equal(t, []string{"a.dada"}, snap.Files(), "a snapshot keeps its own file list")
	assert.Equal(t, []string{"a.dada", "b.dada"}, db.Files())
}

func TestCheckAllKeepsOrderAndUsesCache(t *testing.T) {
	cache, err := OpenDiskCache("dada", t.TempDir())
	require.NoError(t, err)

	files := map[string]string{
		"a.dada": "fn a() {}",
		"b.dada": "fn b(atomic) {}",
		"c.dada": "fn c() {} fn c() {}",
	}
	names := []string{"c.dada", "a.dada", "b.dada"}

	run := func() []FileResult {
		db := New(nil)
		for _, n := range names {
			db.UpdateFile(n, files[n])
		}
		events := make(chan Event, 16)
		res, err := CheckAll(context.Background(), db, names, CheckOptions{Jobs: 2, Cache: cache, Events: events})
		require.NoError(t, err)
		close(events)
		var done int
		for ev := range events {
			if ev.Status == StatusDone || ev.Status == StatusCached {
				done++
			}
		}
		assert.Equal(t, len(names), done)
		return res
	}

	first := run()
	require.Len(t, first, 3)
	for i, n := range names {
		assert.Equal(t, n, first[i].Name)
		assert.False(t, first[i].Cached)
	}
	assert.Empty(t, first[1].Diagnostics)
	assert.Equal(t, diag.SynExpectParamName, first[2].Diagnostics[0].Code)
	assert.Equal(t, diag.SemaDuplicateItem, first[0].Diagnostics[0].Code)

	second := run()
	for i := range second {
		assert.True(t, second[i].Cached, second[i].Name)
		assert.Equal(t, len(first[i].Diagnostics), len(second[i].Diagnostics))
	}
	assert.Equal(t, first[2].Diagnostics[0].Message, second[2].Diagnostics[0].Message)
	assert.Equal(t, first[2].Diagnostics[0].Primary, second[2].Diagnostics[0].Primary)
}

func TestCheckAllParseOnlyMode(t *testing.T) {
	db := New(nil)
	db.UpdateFile("c.dada", "fn c() {} fn c() {}")
	res, err := CheckAll(context.Background(), db, []string{"c.dada"}, CheckOptions{Mode: ModeParseOnly})
	require.NoError(t, err)
	assert.Empty(t, res[0].Diagnostics, "duplicates are found by validation only")
}

func TestCheckAllUnknownFile(t *testing.T) {
	db := New(nil)
	_, err := CheckAll(context.Background(), db, []string{"x.dada"}, CheckOptions{})
	assert.ErrorIs(t, err, ErrUnknownFile)
}

func TestContentKeyDependsOnEverything(t *testing.T) {
	base := ContentKey(ModeFull, "a", "text")
	assert.Equal(t, base, ContentKey(ModeFull, "a", "text"))
	assert.NotEqual(t, base, ContentKey(ModeParseOnly, "a", "text"))
	assert.NotEqual(t, base, ContentKey(ModeFull, "b", "text"))
	assert.NotEqual(t, base, ContentKey(ModeFull, "a", "text2"))
	assert.NotEqual(t, ContentKey(ModeFull, "ab", "c"), ContentKey(ModeFull, "a", "bc"))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.dada"), "fn main() {}")
	writeFile(t, filepath.Join(root, "lib", "util.dada"), "fn util() {}")
	writeFile(t, filepath.Join(root, "lib", "util_test.dada"), "fn t() {}")
	writeFile(t, filepath.Join(root, "build", "gen.dada"), "fn gen() {}")
	writeFile(t, filepath.Join(root, ".hidden", "x.dada"), "fn x() {}")
	writeFile(t, filepath.Join(root, "notes.txt"), "hello")
	writeFile(t, filepath.Join(root, ".gitignore"), "build/\n")

	files, err := Discover(context.Background(), root, DiscoverOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "lib", "util.dada"),
		filepath.Join(root, "lib", "util_test.dada"),
		filepath.Join(root, "main.dada"),
	}, files)

	files, err = Discover(context.Background(), root, DiscoverOptions{Exclude: []string{"*_test.dada"}})
	require.NoError(t, err)
	assert.Len(t, files, 2)

	files, err = Discover(context.Background(), root, DiscoverOptions{Include: []string{"lib/*"}, NoGitignore: true})
	require.NoError(t, err)
	assert.Len(t, files, 2)

	files, err = Discover(context.Background(), root, DiscoverOptions{NoGitignore: true})
	require.NoError(t, err)
	assert.Len(t, files, 4, "build/ is back without .gitignore")
}

func TestLoadFiles(t *testing.T) {
	root := t.TempDir()
	good := filepath.Join(root, "a.dada")
	writeFile(t, good, "\ufefffn a() {}\r\n")

	db := New(nil)
	loaded, failed := LoadFiles(db, []string{good, filepath.Join(root, "missing.dada")})
	require.Len(t, loaded, 1)
	require.Len(t, failed, 1)
	assert.ErrorIs(t, failed[0], os.ErrNotExist)

	text, err := db.FileSource(loaded[0].Path)
	require.NoError(t, err)
	assert.Equal(t, "fn a() {}\n", text, "BOM and CRLF are normalized")
}

func TestPhaseCountsExecutions(t *testing.T) {
	db := New(nil)
	db.UpdateFile("a.dada", "fn a() {}")
	tm := observ.NewTimer()

	err := db.Phase(tm, "check", func() (string, error) {
		_, err := db.Diagnostics("a.dada")
		return "1 file", err
	})
	require.NoError(t, err)
	r := tm.Report()
	require.Len(t, r.Phases, 1)
	assert.Positive(t, r.Phases[0].Executions)
	assert.Equal(t, "1 file", r.Phases[0].Note)

	require.NoError(t, db.Phase(tm, "again", func() (string, error) {
		_, err := db.Diagnostics("a.dada")
		return "", err
	}))
	assert.Zero(t, tm.Report().Phases[1].Executions)
}
