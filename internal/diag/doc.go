// Package diag defines the diagnostic model shared by the lexer, parser and
// validation queries.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures for findings.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting.
//   - Bridge reporters to the query engine: QueryReporter pushes into the
//     Diagnostics accumulator of the running query, so a re-executed query
//     replaces its previous diagnostics instead of appending to them.
//
// # Scope
//
// Package diag does not perform any formatting or IO. Rendering lives in
// internal/diagfmt; collection per file lives in internal/check and the driver.
//
// # Data model
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary – the source.FileSpan pointing to the issue.
//   - Labels – ordered secondary spans/messages, e.g. “`atomic` specified here”.
//
// Labels should be used sparingly: each label must add new context rather than
// repeating the diagnostic message.
package diag
