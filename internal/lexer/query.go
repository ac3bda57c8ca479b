package lexer

import (
	"dada/internal/manifest"
	"dada/internal/query"
	"dada/internal/token"
)

// File is the lex(filename) query: the root token tree of a file.
var File = query.NewQuery("lex", func(f *query.Frame, filename string) token.Tree {
	text := manifest.SourceText.Get(f, filename)
	return Lex(f.Interner(), text).RootTree()
})
