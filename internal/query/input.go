package query

import (
	"fmt"

	"dada/internal/trace"
)

// Input is a family of externally written cells keyed by K.
type Input[K comparable, V any] struct {
	kind uint32
	name string
}

// NewInput declares an input family. Declare inputs once, at package level.
func NewInput[K comparable, V any](name string) *Input[K, V] {
	return &Input[K, V]{kind: nextKind(), name: name}
}

func (in *Input[K, V]) Name() string { return in.name }

func (in *Input[K, V]) label(key K) string {
	return fmt.Sprintf("%s(%v)", in.name, key)
}

// Set overwrites the value for key and bumps the revision exactly once,
// even when the new value equals the old one.
func (in *Input[K, V]) Set(db *Database, key K, value V) {
	rt := db.rt
	rt.guard.Lock()
	defer rt.guard.Unlock()

	rev := Revision(rt.revision.Add(1))
	n := rt.lookup(nodeKey{kind: in.kind, key: key}, func() *node {
		return &node{label: in.label(key), input: true}
	})
	n.mu.Lock()
	n.value = value
	n.hasValue = true
	n.changedAt = rev
	n.verifiedAt = rev
	n.mu.Unlock()

	trace.Point(rt.tracer, trace.ScopeQuery, "set "+n.label, rev.attr())
}

// Get reads the value for key and records the read as a dependency of the
// running query, if any. Reading a key that was never set panics.
func (in *Input[K, V]) Get(r Reader, key K) V {
	rt := r.engine()
	n := rt.find(nodeKey{kind: in.kind, key: key})
	if n == nil {
		violate("read input", fmt.Sprintf("%s was never set", in.label(key)), r.active())
	}
	n.mu.Lock()
	v := n.value
	n.mu.Unlock()
	r.record(n)
	out, _ := v.(V) // nil для интерфейсных V
	return out
}

// Info reports the node state without recording a dependency.
func (in *Input[K, V]) Info(r Reader, key K) (NodeInfo, bool) {
	return r.engine().info(nodeKey{kind: in.kind, key: key})
}
