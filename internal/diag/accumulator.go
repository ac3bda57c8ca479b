package diag

import (
	"cmp"
	"strings"

	"dada/internal/query"
	"dada/internal/source"
)

// Diagnostics is the accumulator every phase pushes into. Collected lists are
// ordered by primary span start; ties keep query node creation order.
var Diagnostics = query.NewAccumulator("diagnostics", ComparePrimary)

// ComparePrimary orders diagnostics by file, then primary span start.
func ComparePrimary(a, b Diagnostic) int {
	if c := strings.Compare(a.Primary.File, b.Primary.File); c != 0 {
		return c
	}
	return cmp.Compare(a.Primary.Start, b.Primary.Start)
}

// QueryReporter pushes diagnostics into the Diagnostics accumulator of the
// running query. R must be the query's Frame.
type QueryReporter struct {
	R query.Reader
}

func (r QueryReporter) Report(code Code, sev Severity, primary source.FileSpan, msg string, labels []Label) {
	Diagnostics.Push(r.R, Diagnostic{
		Severity: sev, Code: code, Message: msg,
		Primary: primary, Labels: labels,
	})
}
