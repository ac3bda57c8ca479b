package trace

import (
	"bufio"
	"errors"
	"io"
	"sync"
	"sync/atomic"
)

const defaultRingSize = 4096

var globalSeq atomic.Uint64

func nextSeq() uint64 { return globalSeq.Add(1) }

// StreamTracer encodes events to a writer as they arrive.
type StreamTracer struct {
	mu     sync.Mutex
	out    io.Writer
	w      *bufio.Writer
	enc    encoder
	level  Level
	count  int
	closed bool
	err    error // первая ошибка записи; дальше события отбрасываются
}

// NewStreamTracer writes the format header immediately.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	t := &StreamTracer{out: w, w: bufio.NewWriter(w), enc: newEncoder(format), level: level}
	t.err = t.enc.header(t.w)
	return t
}

func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) && ev.Kind != KindHeartbeat {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || t.err != nil {
		return
	}
	ev.Seq = nextSeq()
	t.err = t.enc.event(t.w, ev, t.count == 0)
	t.count++
	if ev.Kind == KindHeartbeat && t.err == nil {
		// heartbeat должен быть виден сразу, иначе зависание не заметно
		t.err = t.w.Flush()
	}
}

func (t *StreamTracer) Level() Level { return t.level }

// Close writes the footer, flushes and closes the writer when it is an io.Closer.
func (t *StreamTracer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return t.err
	}
	t.closed = true
	errs := []error{t.err}
	if t.err == nil {
		errs = append(errs, t.enc.footer(t.w), t.w.Flush())
	}
	if c, ok := t.out.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// RingTracer keeps the last events in memory.
type RingTracer struct {
	mu     sync.Mutex
	events []Event
	head   int
	full   bool
	level  Level

	dump       io.Writer // when set, Close writes the ring here
	dumpFormat Format
}

// NewRingTracer keeps up to capacity events.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = defaultRingSize
	}
	return &RingTracer{events: make([]Event, capacity), level: level}
}

func (t *RingTracer) dumpTo(w io.Writer, f Format) {
	t.dump, t.dumpFormat = w, f
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) && ev.Kind != KindHeartbeat {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	stored := *ev
	stored.Seq = nextSeq()
	t.events[t.head] = stored
	t.head = (t.head + 1) % len(t.events)
	if t.head == 0 {
		t.full = true
	}
}

func (t *RingTracer) Level() Level { return t.level }

// Snapshot returns the kept events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.full {
		return append([]Event(nil), t.events[:t.head]...)
	}
	out := make([]Event, 0, len(t.events))
	out = append(out, t.events[t.head:]...)
	return append(out, t.events[:t.head]...)
}

// Dump encodes the kept events to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	enc := newEncoder(format)
	bw := bufio.NewWriter(w)
	if err := enc.header(bw); err != nil {
		return err
	}
	events := t.Snapshot()
	for i := range events {
		if err := enc.event(bw, &events[i], i == 0); err != nil {
			return err
		}
	}
	if err := enc.footer(bw); err != nil {
		return err
	}
	return bw.Flush()
}

func (t *RingTracer) Close() error {
	if t.dump == nil {
		return nil
	}
	err := t.Dump(t.dump, t.dumpFormat)
	if c, ok := t.dump.(io.Closer); ok {
		err = errors.Join(err, c.Close())
	}
	return err
}
