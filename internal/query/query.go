package query

import (
	"fmt"
	"reflect"
)

type queryOptions[V any] struct {
	equal func(a, b V) bool
}

// QueryOption configures a Query.
type QueryOption[V any] func(*queryOptions[V])

// Equal overrides the value comparison used for early cutoff.
// The default is reflect.DeepEqual.
func Equal[V any](eq func(a, b V) bool) QueryOption[V] {
	return func(o *queryOptions[V]) {
		o.equal = eq
	}
}

// Query is a memoized derived computation keyed by K.
type Query[K comparable, V any] struct {
	kind  uint32
	name  string
	fn    func(f *Frame, key K) V
	equal func(a, b V) bool
}

// NewQuery declares a derived computation. fn must be a pure function of what
// it reads through f.
func NewQuery[K comparable, V any](name string, fn func(f *Frame, key K) V, opts ...QueryOption[V]) *Query[K, V] {
	o := queryOptions[V]{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.equal == nil {
		o.equal = func(a, b V) bool { return reflect.DeepEqual(a, b) }
	}
	return &Query[K, V]{kind: nextKind(), name: name, fn: fn, equal: o.equal}
}

func (q *Query[K, V]) Name() string { return q.name }

func (q *Query[K, V]) key(key K) nodeKey {
	return nodeKey{kind: q.kind, key: key}
}

func (q *Query[K, V]) node(rt *runtime, key K) *node {
	return rt.lookup(q.key(key), func() *node {
		return &node{
			label: fmt.Sprintf("%s(%v)", q.name, key),
			exec: func(f *Frame) any {
				return q.fn(f, key)
			},
			equal: func(a, b any) bool {
				av, _ := a.(V)
				bv, _ := b.(V)
				return q.equal(av, bv)
			},
		}
	})
}

// Get pulls the current value for key, recomputing only what is stale.
func (q *Query[K, V]) Get(r Reader, key K) V {
	rt := r.engine()
	n := q.node(rt, key)
	rt.ensure(n, r.active())
	r.record(n)

	n.mu.Lock()
	v := n.value
	n.mu.Unlock()
	out, _ := v.(V) // nil для интерфейсных V
	return out
}

// Info reports the node state without pulling or recording a dependency.
func (q *Query[K, V]) Info(r Reader, key K) (NodeInfo, bool) {
	return r.engine().info(q.key(key))
}

// Executions is a shortcut for Info(...).Executions.
func (q *Query[K, V]) Executions(r Reader, key K) int64 {
	info, _ := q.Info(r, key)
	return info.Executions
}
