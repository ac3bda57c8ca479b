// Package check is the top of the query graph: one query per file for the
// lex+parse fast path and one for the full pipeline. Neither adds logic of
// its own; diagnostics come from the accumulator of everything they read.
package check

import (
	"dada/internal/ast"
	"dada/internal/diag"
	"dada/internal/parser"
	"dada/internal/query"
	"dada/internal/validate"
)

// Result is what the full check of a file produces besides diagnostics.
type Result struct {
	File  *ast.File
	Index validate.Result
}

// File is check(filename): parse, then validate.
var File = query.NewQuery("check", func(f *query.Frame, filename string) Result {
	file := parser.File.Get(f, filename)
	index := validate.File.Get(f, filename)
	return Result{File: file, Index: index}
})

// ParseOnly is check_parse_only(filename): lex and parse.
var ParseOnly = query.NewQuery("check_parse_only", func(f *query.Frame, filename string) *ast.File {
	return parser.File.Get(f, filename)
})

// Diagnostics returns the ordered diagnostics of the full check. While nothing
// the check read has re-executed, the same slice is returned.
func Diagnostics(r query.Reader, filename string) []diag.Diagnostic {
	return query.Collect(r, diag.Diagnostics, File, filename)
}

// ParseDiagnostics returns the lex and parse diagnostics only.
func ParseDiagnostics(r query.Reader, filename string) []diag.Diagnostic {
	return query.Collect(r, diag.Diagnostics, ParseOnly, filename)
}
