package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"dada/internal/diag"
	"dada/internal/source"
)

type palette struct {
	err, warn, info, note, bold, gutter *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		bold:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.bold, p.gutter} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид, в порядке diags.
// Для каждой печатает
//
//	<path>:<line>:<col>: <sev>[<CODE>]: <message>
//
// затем строку исходника с подчёркиванием ^^^ по Span, затем метки
// с подчёркиванием --- и их сообщениями.
func Pretty(w io.Writer, diags []diag.Diagnostic, src Sources, opts PrettyOpts) error {
	pal := newPalette(opts.Color)
	cache := newFileCache(src)

	shown := diags
	if opts.Max > 0 && len(shown) > opts.Max {
		shown = shown[:opts.Max]
	}
	for i := range shown {
		if err := prettyOne(w, &shown[i], cache, pal, opts); err != nil {
			return err
		}
	}
	if rest := len(diags) - len(shown); rest > 0 {
		if _, err := fmt.Fprintf(w, "... and %d more diagnostics\n", rest); err != nil {
			return err
		}
	}
	return nil
}

func prettyOne(w io.Writer, d *diag.Diagnostic, cache *fileCache, pal palette, opts PrettyOpts) error {
	var b strings.Builder
	sev := strings.ToLower(d.Severity.String())
	fmt.Fprintf(&b, "%s: %s: %s\n",
		pal.bold.Sprint(location(d.Primary, cache, opts)),
		pal.severity(d.Severity).Sprintf("%s[%s]", sev, d.Code.ID()),
		pal.bold.Sprint(d.Message))

	if opts.Context >= 0 {
		snippet(&b, d.Primary, '^', "", cache, pal.severity(d.Severity), pal, opts.Context)
	}
	for _, l := range d.Labels {
		if l.Span.File != d.Primary.File {
			fmt.Fprintf(&b, "  %s %s: %s\n", pal.note.Sprint("-->"), location(l.Span, cache, opts), l.Message)
			continue
		}
		if opts.Context < 0 {
			fmt.Fprintf(&b, "  %s %s: %s\n", pal.note.Sprint("note"), location(l.Span, cache, opts), l.Message)
			continue
		}
		snippet(&b, l.Span, '-', l.Message, cache, pal.note, pal, 0)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// location renders path:line:col, or path:@start-end when the text is unavailable.
func location(sp source.FileSpan, cache *fileCache, opts PrettyOpts) string {
	path := displayPath(sp.File, opts.PathMode, opts.BaseDir)
	f := cache.get(sp.File)
	if f.err != nil {
		return fmt.Sprintf("%s:@%s", path, sp.Span())
	}
	lc := f.lines.Locate(sp.Start)
	return fmt.Sprintf("%s:%d:%d", path, lc.Line, lc.Column)
}

// snippet prints the line(s) around sp with an underline below the first line.
func snippet(b *strings.Builder, sp source.FileSpan, mark rune, msg string, cache *fileCache, mc *color.Color, pal palette, context int) {
	f := cache.get(sp.File)
	if f.err != nil {
		return
	}
	start := f.lines.Locate(sp.Start)
	end := f.lines.Locate(sp.End)

	first := uint32(1)
	if start.Line > uint32(context) { //nolint:gosec // context >= 0
		first = start.Line - uint32(context) //nolint:gosec // context >= 0
	}
	gutterWidth := len(strconv.FormatUint(uint64(start.Line), 10))
	for ln := first; ln <= start.Line; ln++ {
		fmt.Fprintf(b, " %s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth, ln), f.lines.Line(f.text, ln))
	}

	line := f.lines.Line(f.text, start.Line)
	from := min(int(start.Column-1), len(line))
	to := len(line)
	if end.Line == start.Line {
		to = min(int(end.Column-1), len(line))
	}
	width := max(1, runewidth.StringWidth(line[from:to]))

	underline := strings.Repeat(string(mark), width)
	if msg != "" {
		underline += " " + msg
	}
	fmt.Fprintf(b, " %s %s%s\n", pal.gutter.Sprintf("%*s |", gutterWidth, ""), padding(line[:from]), mc.Sprint(underline))
}

// padding повторяет ширину префикса строки, сохраняя табы.
func padding(prefix string) string {
	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}

// Summary prints the totals line, e.g. "2 errors, 1 warning".
func Summary(w io.Writer, diags []diag.Diagnostic) error {
	var errs, warns int
	for _, d := range diags {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
	}
	_, err := fmt.Fprintf(w, "%s, %s\n", plural(errs, "error"), plural(warns, "warning"))
	return err
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
