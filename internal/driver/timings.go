package driver

import (
	"dada/internal/observ"
	"dada/internal/trace"
)

// Phase runs fn as a named phase of tm, traced as a pass, and records how
// many query bodies ran meanwhile. tm may be nil.
func (db *DB) Phase(tm *observ.Timer, name string, fn func() (note string, err error)) error {
	span := trace.Begin(db.q.Tracer(), trace.ScopePass, name, 0)
	before := db.q.Executions()
	idx := -1
	if tm != nil {
		idx = tm.Begin(name)
	}

	note, err := fn()

	if tm != nil {
		tm.Executed(idx, db.q.Executions()-before)
		tm.End(idx, note)
	}
	span.End(note)
	return err
}
