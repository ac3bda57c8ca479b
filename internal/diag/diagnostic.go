package diag

import (
	"dada/internal/source"
)

// Label is a secondary span with its own message.
type Label struct {
	Span    source.FileSpan
	Message string
}

// Diagnostic is one finding. Labels keep the order they were attached in.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.FileSpan
	Labels   []Label
}

func New(sev Severity, code Code, primary source.FileSpan, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.FileSpan, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithLabel(sp source.FileSpan, msg string) Diagnostic {
	d.Labels = append(d.Labels, Label{Span: sp, Message: msg})
	return d
}
