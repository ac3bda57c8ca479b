package query

import (
	"fmt"
	"slices"
)

// Accumulator collects side values (diagnostics) pushed by query bodies.
type Accumulator[T any] struct {
	kind uint32
	name string
	cmp  func(a, b T) int
}

// NewAccumulator declares an accumulator. cmp orders collected values;
// ties fall back to node creation order, then push order.
func NewAccumulator[T any](name string, cmp func(a, b T) int) *Accumulator[T] {
	if cmp == nil {
		cmp = func(T, T) int { return 0 }
	}
	return &Accumulator[T]{kind: nextKind(), name: name, cmp: cmp}
}

func (a *Accumulator[T]) Name() string { return a.name }

// Push records v for the currently executing query. r must be that query's Frame.
func (a *Accumulator[T]) Push(r Reader, v T) {
	f, ok := r.(*Frame)
	if !ok || f == nil {
		violate("push", fmt.Sprintf("%s pushed outside a query execution", a.name), nil)
	}
	if f.accumulated == nil {
		f.accumulated = make(map[uint32][]any)
	}
	f.accumulated[a.kind] = append(f.accumulated[a.kind], v)
}

type collectMember struct {
	n     *node
	epoch uint64
}

type collectCache struct {
	members []collectMember
	values  any
}

func (c *collectCache) valid() bool {
	for _, m := range c.members {
		m.n.mu.Lock()
		epoch := m.n.epoch
		m.n.mu.Unlock()
		if epoch != m.epoch {
			return false
		}
	}
	return true
}

type collectEntry[T any] struct {
	value T
	order uint64
}

// Collect pulls q(key) and returns every value pushed into acc by the current
// executions of q(key) and everything it transitively read. Each node
// contributes once. While no node of that closure re-executes, Collect returns
// the very same slice; callers must not modify it.
func Collect[T any, K comparable, V any](r Reader, acc *Accumulator[T], q *Query[K, V], key K) []T {
	q.Get(r, key)
	target := r.engine().find(q.key(key))

	target.mu.Lock()
	cached := target.collected[acc.kind]
	target.mu.Unlock()
	if cached != nil && cached.valid() {
		out, _ := cached.values.([]T)
		return out
	}

	var (
		members []collectMember
		entries []collectEntry[T]
		seen    = map[*node]struct{}{target: {}}
		stack   = []*node{target}
	)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n.mu.Lock()
		deps := n.deps
		pushed := n.accumulated[acc.kind]
		members = append(members, collectMember{n: n, epoch: n.epoch})
		order := n.order
		n.mu.Unlock()

		for _, v := range pushed {
			tv, _ := v.(T)
			entries = append(entries, collectEntry[T]{value: tv, order: order})
		}
		for i := len(deps) - 1; i >= 0; i-- {
			d := deps[i]
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			stack = append(stack, d)
		}
	}

	slices.SortStableFunc(entries, func(a, b collectEntry[T]) int {
		if c := acc.cmp(a.value, b.value); c != 0 {
			return c
		}
		switch {
		case a.order < b.order:
			return -1
		case a.order > b.order:
			return 1
		}
		return 0
	})
	out := make([]T, len(entries))
	for i := range entries {
		out[i] = entries[i].value
	}

	target.mu.Lock()
	if target.collected == nil {
		target.collected = make(map[uint32]*collectCache)
	}
	target.collected[acc.kind] = &collectCache{members: members, values: out}
	target.mu.Unlock()
	return out
}
