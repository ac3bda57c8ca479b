package diagfmt

import (
	"encoding/json"
	"io"
	"strings"

	"dada/internal/diag"
	"dada/internal/source"
)

// WireSpan is a span on the wire. Line/column are present with JSONOpts.IncludePositions.
type WireSpan struct {
	Filename    string `json:"filename"`
	StartOffset uint32 `json:"start_offset"`
	EndOffset   uint32 `json:"end_offset"`
	StartLine   uint32 `json:"start_line,omitempty"`
	StartCol    uint32 `json:"start_col,omitempty"`
	EndLine     uint32 `json:"end_line,omitempty"`
	EndCol      uint32 `json:"end_col,omitempty"`
}

// WireLabel is a secondary span with its message.
type WireLabel struct {
	Span    WireSpan `json:"span"`
	Message string   `json:"message"`
}

// WireDiagnostic is the JSON shape of one diagnostic.
type WireDiagnostic struct {
	Message     string      `json:"message"`
	PrimarySpan WireSpan    `json:"primary_span"`
	Labels      []WireLabel `json:"labels"`
	Severity    string      `json:"severity,omitempty"`
	Code        string      `json:"code,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Diagnostics []WireDiagnostic `json:"diagnostics"`
	Count       int              `json:"count"`
}

func makeWireSpan(sp source.FileSpan, cache *fileCache, opts JSONOpts) WireSpan {
	out := WireSpan{
		Filename:    displayPath(sp.File, opts.PathMode, opts.BaseDir),
		StartOffset: uint32(sp.Start),
		EndOffset:   uint32(sp.End),
	}
	if !opts.IncludePositions {
		return out
	}
	if f := cache.get(sp.File); f.err == nil {
		start, end := f.lines.Locate(sp.Start), f.lines.Locate(sp.End)
		out.StartLine, out.StartCol = start.Line, start.Column
		out.EndLine, out.EndCol = end.Line, end.Column
	}
	return out
}

// ToWire converts one diagnostic. src may be nil when positions are not requested.
func ToWire(d diag.Diagnostic, src Sources, opts JSONOpts) WireDiagnostic {
	return toWire(d, newFileCache(src), opts)
}

func toWire(d diag.Diagnostic, cache *fileCache, opts JSONOpts) WireDiagnostic {
	out := WireDiagnostic{
		Message:     d.Message,
		PrimarySpan: makeWireSpan(d.Primary, cache, opts),
		Labels:      make([]WireLabel, 0, len(d.Labels)),
		Severity:    strings.ToLower(d.Severity.String()),
		Code:        d.Code.ID(),
	}
	for _, l := range d.Labels {
		out.Labels = append(out.Labels, WireLabel{Span: makeWireSpan(l.Span, cache, opts), Message: l.Message})
	}
	return out
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
func BuildDiagnosticsOutput(diags []diag.Diagnostic, src Sources, opts JSONOpts) DiagnosticsOutput {
	n := len(diags)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}
	cache := newFileCache(src)
	out := DiagnosticsOutput{Diagnostics: make([]WireDiagnostic, 0, n)}
	for _, d := range diags[:n] {
		out.Diagnostics = append(out.Diagnostics, toWire(d, cache, opts))
	}
	out.Count = len(out.Diagnostics)
	return out
}

// JSON форматирует диагностики в JSON формат.
func JSON(w io.Writer, diags []diag.Diagnostic, src Sources, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(diags, src, opts))
}
