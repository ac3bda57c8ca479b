// Package token defines lexical tokens and token trees for the Dada front end.
// Invariants:
//   - All tokens of a file live in one flat Table; a tree is an index range into it.
//   - Every token can recompute its own byte length (SpanLen) without the source text.
//   - A tree's span covers its interior only: the delimiters belong to the parent.
//   - An opener without a closer yields a tree marked Open; nothing is dropped.
//   - Whitespace is kept as one token per character, so offsets are exact.
package token
