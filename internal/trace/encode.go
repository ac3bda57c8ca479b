package trace

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Format is the serialized shape of events.
type Format uint8

const (
	FormatAuto   Format = iota // by output file extension
	FormatText                 // one line per event
	FormatNDJSON               // one JSON object per line
	FormatChrome               // chrome://tracing / Perfetto JSON
)

var formatNames = [...]string{"auto", "text", "ndjson", "chrome"}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "unknown"
}

// ParseFormat accepts auto, text, ndjson or chrome.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatAuto, nil
	}
	for i, name := range formatNames {
		if strings.EqualFold(s, name) {
			return Format(i), nil
		}
	}
	return FormatAuto, fmt.Errorf("invalid trace format %q (expected auto|text|ndjson|chrome)", s)
}

func formatForPath(path string) Format {
	switch {
	case strings.HasSuffix(path, ".ndjson"):
		return FormatNDJSON
	case filepath.Ext(path) == ".json":
		return FormatChrome
	}
	return FormatText
}

// encoder frames a stream of events: an optional header, each event, a footer.
type encoder interface {
	header(w io.Writer) error
	event(w io.Writer, ev *Event, first bool) error
	footer(w io.Writer) error
}

func newEncoder(f Format) encoder {
	switch f {
	case FormatNDJSON:
		return ndjsonEncoder{}
	case FormatChrome:
		return chromeEncoder{}
	}
	return textEncoder{}
}

type textEncoder struct{}

func (textEncoder) header(io.Writer) error { return nil }
func (textEncoder) footer(io.Writer) error { return nil }

// event пишет "[seq] → name (detail) {k=v, ...}"; дочерние спаны с отступом.
func (textEncoder) event(w io.Writer, ev *Event, _ bool) error {
	var b strings.Builder
	fmt.Fprintf(&b, "[%6d] ", ev.Seq)
	if ev.ParentID != 0 {
		b.WriteString("  ")
	}
	switch ev.Kind {
	case KindSpanBegin:
		b.WriteString("→ ")
	case KindSpanEnd:
		b.WriteString("← ")
	case KindPoint:
		b.WriteString("• ")
	case KindHeartbeat:
		b.WriteString("♡ ")
	}
	b.WriteString(ev.Name)
	if ev.Detail != "" {
		fmt.Fprintf(&b, " (%s)", ev.Detail)
	}
	if len(ev.Attrs) > 0 {
		b.WriteString(" {")
		for i, a := range ev.Attrs {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(a.Key + "=" + a.Value)
		}
		b.WriteString("}")
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

type ndjsonEncoder struct{}

type jsonEvent struct {
	Time     string            `json:"time"`
	Seq      uint64            `json:"seq"`
	Kind     string            `json:"kind"`
	Scope    string            `json:"scope"`
	SpanID   uint64            `json:"span_id,omitempty"`
	ParentID uint64            `json:"parent_id,omitempty"`
	GID      uint64            `json:"gid,omitempty"`
	Name     string            `json:"name"`
	Detail   string            `json:"detail,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
}

func (ndjsonEncoder) header(io.Writer) error { return nil }
func (ndjsonEncoder) footer(io.Writer) error { return nil }

func (ndjsonEncoder) event(w io.Writer, ev *Event, _ bool) error {
	data, err := json.Marshal(jsonEvent{
		Time:     ev.Time.Format("2006-01-02T15:04:05.000000Z07:00"),
		Seq:      ev.Seq,
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		SpanID:   ev.SpanID,
		ParentID: ev.ParentID,
		GID:      ev.GID,
		Name:     ev.Name,
		Detail:   ev.Detail,
		Attrs:    attrMap(ev, ""),
	})
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

type chromeEncoder struct{}

type chromeEvent struct {
	Name string            `json:"name"`
	Cat  string            `json:"cat"`
	Ph   string            `json:"ph"`
	Ts   int64             `json:"ts"`
	Pid  int               `json:"pid"`
	Tid  uint64            `json:"tid"`
	Args map[string]string `json:"args,omitempty"`
}

func (chromeEncoder) header(w io.Writer) error {
	_, err := io.WriteString(w, "{\"traceEvents\":[\n")
	return err
}

func (chromeEncoder) footer(w io.Writer) error {
	_, err := io.WriteString(w, "\n]}\n")
	return err
}

func (chromeEncoder) event(w io.Writer, ev *Event, first bool) error {
	ph := "i"
	switch ev.Kind {
	case KindSpanBegin:
		ph = "B"
	case KindSpanEnd:
		ph = "E"
	}
	data, err := json.Marshal(chromeEvent{
		Name: ev.Name,
		Cat:  ev.Scope.String(),
		Ph:   ph,
		Ts:   ev.Time.UnixMicro(),
		Pid:  1,
		Tid:  ev.GID,
		Args: attrMap(ev, ev.Detail),
	})
	if err != nil {
		return err
	}
	if !first {
		if _, err := io.WriteString(w, ",\n"); err != nil {
			return err
		}
	}
	_, err = w.Write(data)
	return err
}

func attrMap(ev *Event, detail string) map[string]string {
	if len(ev.Attrs) == 0 && detail == "" {
		return nil
	}
	m := make(map[string]string, len(ev.Attrs)+1)
	for _, a := range ev.Attrs {
		m[a.Key] = a.Value
	}
	if detail != "" {
		m["detail"] = detail
	}
	return m
}
