package query

import (
	"sync"
	"sync/atomic"

	"dada/internal/source"
	"dada/internal/trace"
)

// Option configures a Database.
type Option func(*runtime)

// WithTracer routes query events to t.
func WithTracer(t trace.Tracer) Option {
	return func(rt *runtime) {
		if t != nil {
			rt.tracer = t
		}
	}
}

// WithInterner shares an existing interner instead of creating a fresh one.
func WithInterner(words *source.Interner) Option {
	return func(rt *runtime) {
		if words != nil {
			rt.words = words
		}
	}
}

// Database is the single writable handle of an engine instance.
type Database struct {
	rt *runtime
}

// New creates an empty database at revision 0.
func New(opts ...Option) *Database {
	rt := &runtime{
		nodes:  make(map[nodeKey]*node),
		words:  source.NewInterner(),
		tracer: trace.Nop,
	}
	for _, opt := range opts {
		opt(rt)
	}
	return &Database{rt: rt}
}

func (db *Database) Interner() *source.Interner { return db.rt.words }
func (db *Database) Revision() Revision         { return db.rt.current() }
func (db *Database) Tracer() trace.Tracer       { return db.rt.tracer }
func (db *Database) engine() *runtime           { return db.rt }
func (db *Database) active() *activeLink        { return nil }
func (db *Database) record(*node)               {}

// Executions returns how many query bodies have run since the database was created.
func (db *Database) Executions() int64 {
	return db.rt.executions.Load()
}

// Snapshot returns a read-only view sharing all memoized state.
// Input writes block until the snapshot is closed, so callers must not write
// through db on the goroutine that still holds an open snapshot.
func (db *Database) Snapshot() *Snapshot {
	db.rt.guard.RLock()
	return &Snapshot{rt: db.rt, rev: db.rt.current()}
}

// Snapshot is a read-only view pinned to the revision it was taken at.
// It is safe to use from several goroutines; Close releases it.
type Snapshot struct {
	rt     *runtime
	rev    Revision
	once   sync.Once
	closed atomic.Bool
}

func (s *Snapshot) Interner() *source.Interner { return s.rt.words }
func (s *Snapshot) Revision() Revision         { return s.rev }
func (s *Snapshot) Tracer() trace.Tracer       { return s.rt.tracer }
func (s *Snapshot) active() *activeLink        { return nil }
func (s *Snapshot) record(*node)               {}

func (s *Snapshot) engine() *runtime {
	if s.closed.Load() {
		violate("snapshot", "use after Close", nil)
	}
	return s.rt
}

// Executions mirrors Database.Executions.
func (s *Snapshot) Executions() int64 {
	return s.rt.executions.Load()
}

// Close releases the snapshot. It is idempotent.
func (s *Snapshot) Close() {
	s.once.Do(func() {
		s.closed.Store(true)
		s.rt.guard.RUnlock()
	})
}
