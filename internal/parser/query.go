package parser

import (
	"dada/internal/ast"
	"dada/internal/diag"
	"dada/internal/lexer"
	"dada/internal/query"
)

// File is the parse(filename) query. Its diagnostics go to diag.Diagnostics.
var File = query.NewQuery("parse", func(f *query.Frame, filename string) *ast.File {
	root := lexer.File.Get(f, filename)
	return Parse(Options{
		File:     filename,
		Words:    f.Interner(),
		Reporter: diag.NewDedupReporter(diag.QueryReporter{R: f}),
	}, root)
})
