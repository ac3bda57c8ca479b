package validate

import (
	"dada/internal/diag"
	"dada/internal/parser"
	"dada/internal/query"
)

// File is the validation query of a file. It reads only the parse result.
var File = query.NewQuery("validate", func(f *query.Frame, filename string) Result {
	file := parser.File.Get(f, filename)
	return Check(file, Options{
		File:     filename,
		Words:    f.Interner(),
		Reporter: diag.QueryReporter{R: f},
	})
})
