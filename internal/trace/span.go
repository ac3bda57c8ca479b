package trace

import (
	"bytes"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"
)

var globalSpans atomic.Uint64

// goroutineID parses the id out of the runtime.Stack header "goroutine 123 [running]:".
func goroutineID() uint64 {
	var buf [64]byte
	b := buf[:runtime.Stack(buf[:], false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i > 0 {
		if id, err := strconv.ParseUint(string(b[:i]), 10, 64); err == nil {
			return id
		}
	}
	return 0
}

// Span is an open begin/end pair. A nil or disabled span is valid and does nothing.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	gid     uint64
	scope   Scope
	name    string
	started time.Time
	attrs   []Attr
}

// Begin emits a begin event and returns the span to End.
// parent is the enclosing span id, 0 for a root.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if !Enabled(t, scope) {
		return nil
	}
	s := &Span{
		tracer:  t,
		id:      globalSpans.Add(1),
		parent:  parent,
		gid:     goroutineID(),
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	t.Emit(&Event{
		Time:     s.started,
		Kind:     KindSpanBegin,
		Scope:    scope,
		SpanID:   s.id,
		ParentID: parent,
		GID:      s.gid,
		Name:     name,
	})
	return s
}

// Set adds an attribute reported with the end event.
func (s *Span) Set(key, value string) *Span {
	if s != nil {
		s.attrs = append(s.attrs, Attr{Key: key, Value: value})
	}
	return s
}

// End emits the end event and returns the span duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil {
		return 0
	}
	dur := time.Since(s.started)
	s.tracer.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindSpanEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		GID:      s.gid,
		Name:     s.name,
		Detail:   detail,
		Attrs:    append(s.attrs, Attr{Key: "ms", Value: strconv.FormatFloat(float64(dur.Microseconds())/1000, 'f', 3, 64)}),
	})
	return dur
}

// ID is the span id to pass as a parent, 0 for a disabled span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point emits an instant event.
func Point(t Tracer, scope Scope, name string, attrs ...Attr) {
	if !Enabled(t, scope) {
		return
	}
	t.Emit(&Event{
		Time:  time.Now(),
		Kind:  KindPoint,
		Scope: scope,
		GID:   goroutineID(),
		Name:  name,
		Attrs: attrs,
	})
}
