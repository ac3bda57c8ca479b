// Package manifest holds the inputs of the front end: the source text of each
// file, and the line index derived from it for rendering positions.
package manifest

import (
	"dada/internal/query"
	"dada/internal/source"
)

// SourceText is the text of a file keyed by filename.
var SourceText = query.NewInput[string, string]("source_text")

// Lines is the line index of a file. Only renderers use it; parsing never does.
var Lines = query.NewQuery("lines", func(f *query.Frame, filename string) source.LineIndex {
	return source.NewLineIndex(SourceText.Get(f, filename))
})

// SetSourceText overwrites the text of a file and bumps the revision.
func SetSourceText(db *query.Database, filename, text string) {
	SourceText.Set(db, filename, text)
}

// LineColumn converts an offset of filename into a 1-based line/column.
func LineColumn(r query.Reader, filename string, off source.Offset) source.LineColumn {
	return Lines.Get(r, filename).Locate(off)
}
