package trace_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"dada/internal/trace"
)

func TestRingTracerKeepsLastEvents(t *testing.T) {
	ring := trace.NewRingTracer(2, trace.LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		trace.Point(ring, trace.ScopeQuery, name)
	}
	events := ring.Snapshot()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Name != "b" || events[1].Name != "c" {
		t.Fatalf("unexpected order: %q, %q", events[0].Name, events[1].Name)
	}
	if events[0].Seq >= events[1].Seq {
		t.Fatalf("sequence must grow: %d, %d", events[0].Seq, events[1].Seq)
	}
}

func TestLevelFiltersScopes(t *testing.T) {
	ring := trace.NewRingTracer(16, trace.LevelPhase)
	trace.Begin(ring, trace.ScopePass, "check", 0).End("")
	span := trace.Begin(ring, trace.ScopeQuery, "parse", 0)
	if span != nil || span.ID() != 0 {
		t.Fatal("query span must be disabled at phase level")
	}
	span.End("")

	events := ring.Snapshot()
	if len(events) != 2 {
		t.Fatalf("expected begin+end for the pass span, got %d", len(events))
	}
	for _, ev := range events {
		if ev.Scope != trace.ScopePass {
			t.Fatalf("unexpected scope %v", ev.Scope)
		}
	}
}

func TestLevelTable(t *testing.T) {
	tests := []struct {
		level trace.Level
		scope trace.Scope
		want  bool
	}{
		{trace.LevelOff, trace.ScopeDriver, false},
		{trace.LevelError, trace.ScopeDriver, false},
		{trace.LevelPhase, trace.ScopePass, true},
		{trace.LevelPhase, trace.ScopeQuery, false},
		{trace.LevelDetail, trace.ScopeQuery, true},
		{trace.LevelDetail, trace.ScopeNode, false},
		{trace.LevelDebug, trace.ScopeNode, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%v.ShouldEmit(%v) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	st := trace.NewStreamTracer(&buf, trace.LevelDetail, trace.FormatNDJSON)
	parent := trace.Begin(st, trace.ScopePass, "check", 0)
	trace.Begin(st, trace.ScopeQuery, "lex(a.dada)", parent.ID()).Set("key", "a.dada").End("ok")
	parent.End("")
	if buf.Len() != 0 {
		t.Fatal("stream tracer must buffer until Close")
	}
	if err := st.Close(); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), buf.String())
	}
	var ev struct {
		Kind     string            `json:"kind"`
		Scope    string            `json:"scope"`
		Detail   string            `json:"detail"`
		ParentID uint64            `json:"parent_id"`
		Attrs    map[string]string `json:"attrs"`
	}
	if err := json.Unmarshal([]byte(lines[2]), &ev); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if ev.Kind != "end" || ev.Scope != "query" || ev.Detail != "ok" || ev.ParentID != parent.ID() {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.Attrs["key"] != "a.dada" || ev.Attrs["ms"] == "" {
		t.Fatalf("unexpected attrs: %v", ev.Attrs)
	}
}

func TestStreamTracerChromeIsValidJSON(t *testing.T) {
	var buf bytes.Buffer
	st := trace.NewStreamTracer(&buf, trace.LevelPhase, trace.FormatChrome)
	trace.Begin(st, trace.ScopeDriver, "check_all", 0).End("")
	trace.Point(st, trace.ScopePass, "render", trace.Attr{Key: "files", Value: "2"})
	if err := st.Close(); err != nil {
		t.Fatal(err)
	}

	var doc struct {
		TraceEvents []struct {
			Name string            `json:"name"`
			Ph   string            `json:"ph"`
			Args map[string]string `json:"args"`
		} `json:"traceEvents"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid chrome trace: %v\n%s", err, buf.String())
	}
	if len(doc.TraceEvents) != 3 {
		t.Fatalf("expected 3 events, got %d", len(doc.TraceEvents))
	}
	if doc.TraceEvents[0].Ph != "B" || doc.TraceEvents[1].Ph != "E" || doc.TraceEvents[2].Ph != "i" {
		t.Fatalf("unexpected phases: %+v", doc.TraceEvents)
	}
	if doc.TraceEvents[2].Args["files"] != "2" {
		t.Fatalf("attrs lost: %+v", doc.TraceEvents[2])
	}
}

func TestTextFormatKeepsAttrOrder(t *testing.T) {
	var buf bytes.Buffer
	st := trace.NewStreamTracer(&buf, trace.LevelDebug, trace.FormatText)
	trace.Point(st, trace.ScopeNode, "verified parse(a.dada)",
		trace.Attr{Key: "revision", Value: "3"}, trace.Attr{Key: "deps", Value: "1"})
	if err := st.Close(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(buf.String(), "• verified parse(a.dada) {revision=3, deps=1}\n") {
		t.Fatalf("unexpected text: %q", buf.String())
	}
}

func TestRingDumpOnClose(t *testing.T) {
	var buf bytes.Buffer
	tr, err := trace.New(trace.Config{Level: trace.LevelPhase, Mode: trace.ModeRing, Format: trace.FormatText, Output: &buf, RingSize: 1})
	if err != nil {
		t.Fatal(err)
	}
	trace.Point(tr, trace.ScopePass, "first")
	trace.Point(tr, trace.ScopePass, "second")
	if buf.Len() != 0 {
		t.Fatal("ring mode must not write before Close")
	}
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "first") || !strings.Contains(buf.String(), "second") {
		t.Fatalf("unexpected dump: %q", buf.String())
	}
}

func TestHeartbeatStops(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelPhase)
	stop := trace.StartHeartbeat(context.Background(), ring, time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for len(ring.Snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	stop()
	n := len(ring.Snapshot())
	if n == 0 {
		t.Fatal("no heartbeat emitted")
	}
	time.Sleep(5 * time.Millisecond)
	if got := len(ring.Snapshot()); got != n {
		t.Fatalf("heartbeat kept running after stop: %d -> %d", n, got)
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := trace.New(trace.Config{Level: trace.LevelOff})
	if err != nil {
		t.Fatal(err)
	}
	if tr != trace.Nop || trace.Enabled(tr, trace.ScopeDriver) {
		t.Fatal("off tracer must be Nop")
	}
	if trace.FromContext(context.Background()) != trace.Nop {
		t.Fatal("empty context must give Nop")
	}
}

func TestParseHelpers(t *testing.T) {
	if lvl, err := trace.ParseLevel("DETAIL"); err != nil || lvl != trace.LevelDetail {
		t.Fatalf("ParseLevel: %v %v", lvl, err)
	}
	if _, err := trace.ParseMode("both"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
	if f, err := trace.ParseFormat("chrome"); err != nil || f != trace.FormatChrome {
		t.Fatalf("ParseFormat: %v %v", f, err)
	}
}
