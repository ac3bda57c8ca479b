package query

import (
	"fmt"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"

	"dada/internal/source"
	"dada/internal/trace"
)

// Revision counts input writes over the life of one Database.
type Revision uint64

func (r Revision) attr() trace.Attr {
	return trace.Attr{Key: "revision", Value: strconv.FormatUint(uint64(r), 10)}
}

// kinds hands out identifiers to inputs, queries and accumulators.
var kinds atomic.Uint32

func nextKind() uint32 {
	return kinds.Add(1)
}

type nodeKey struct {
	kind uint32
	key  any
}

// node is one memoized cell: an input value or a derived query result.
type node struct {
	mu    sync.Mutex
	key   nodeKey
	label string
	order uint64 // порядок создания, для детерминированной сортировки
	input bool

	exec  func(f *Frame) any
	equal func(a, b any) bool

	hasValue    bool
	value       any
	deps        []*node
	changedAt   Revision
	verifiedAt  Revision
	accumulated map[uint32][]any
	epoch       uint64 // bumped on every adopted execution
	collected   map[uint32]*collectCache

	runs atomic.Int64
}

func (n *node) changed() Revision {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.changedAt
}

// activeLink is the chain of query executions on one goroutine.
type activeLink struct {
	n      *node
	spanID uint64
	parent *activeLink
}

func (l *activeLink) contains(n *node) bool {
	for cur := l; cur != nil; cur = cur.parent {
		if cur.n == n {
			return true
		}
	}
	return false
}

func (l *activeLink) labels() []string {
	var out []string
	for cur := l; cur != nil; cur = cur.parent {
		out = append(out, cur.n.label)
	}
	slices.Reverse(out)
	return out
}

func (l *activeLink) span() uint64 {
	if l == nil {
		return 0
	}
	return l.spanID
}

// runtime is the state shared by a Database and all of its snapshots.
type runtime struct {
	guard    sync.RWMutex // snapshots hold the read side, input writes the write side
	revision atomic.Uint64

	mu    sync.Mutex
	nodes map[nodeKey]*node
	order uint64

	epochs     atomic.Uint64
	executions atomic.Int64

	words  *source.Interner
	tracer trace.Tracer
}

func (rt *runtime) current() Revision {
	return Revision(rt.revision.Load())
}

func (rt *runtime) find(k nodeKey) *node {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.nodes[k]
}

func (rt *runtime) lookup(k nodeKey, create func() *node) *node {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if n, ok := rt.nodes[k]; ok {
		return n
	}
	n := create()
	n.key = k
	rt.order++
	n.order = rt.order
	rt.nodes[k] = n
	return n
}

// ensure brings n up to date at the current revision.
func (rt *runtime) ensure(n *node, chain *activeLink) {
	if chain.contains(n) {
		violate("pull", fmt.Sprintf("dependency cycle through %s", n.label), chain)
	}
	rev := rt.current()

	n.mu.Lock()
	if n.input {
		ok := n.hasValue
		n.mu.Unlock()
		if !ok {
			violate("read input", fmt.Sprintf("%s was never set", n.label), chain)
		}
		return
	}
	if n.hasValue && n.verifiedAt == rev {
		n.mu.Unlock()
		return
	}
	if n.hasValue {
		deps, verifiedAt := n.deps, n.verifiedAt
		n.mu.Unlock()

		link := &activeLink{n: n, spanID: chain.span(), parent: chain}
		if !rt.depsChanged(deps, verifiedAt, link) {
			n.mu.Lock()
			if n.verifiedAt < rev {
				n.verifiedAt = rev
			}
			n.mu.Unlock()
			trace.Point(rt.tracer, trace.ScopeNode, "verified "+n.label, rev.attr())
			return
		}
	} else {
		n.mu.Unlock()
	}
	rt.execute(n, rev, chain)
}

// depsChanged walks dependencies in read order and stops at the first one
// that changed after verifiedAt; later ones may no longer be read at all.
func (rt *runtime) depsChanged(deps []*node, verifiedAt Revision, link *activeLink) bool {
	for _, d := range deps {
		rt.ensure(d, link)
		if d.changed() > verifiedAt {
			return true
		}
	}
	return false
}

func (rt *runtime) execute(n *node, rev Revision, chain *activeLink) {
	span := trace.Begin(rt.tracer, trace.ScopeQuery, n.label, chain.span())
	f := &Frame{
		rt:   rt,
		link: &activeLink{n: n, spanID: span.ID(), parent: chain},
	}

	n.runs.Add(1)
	rt.executions.Add(1)
	value := n.exec(f)

	n.mu.Lock()
	if n.hasValue && n.verifiedAt == rev {
		// другой читатель успел раньше: берём его результат
		n.mu.Unlock()
		span.End("adopted")
		return
	}
	changed := !n.hasValue || !n.equal(n.value, value)
	if changed {
		n.value = value
		n.changedAt = rev
		n.hasValue = true
	}
	n.deps = f.deps
	n.accumulated = f.accumulated
	n.verifiedAt = rev
	n.epoch = rt.epochs.Add(1)
	n.mu.Unlock()

	if changed {
		span.End("changed")
	} else {
		span.End("unchanged")
	}
}

// Reader is anything queries can be pulled through: the Database, a Snapshot,
// or the Frame of a running query.
type Reader interface {
	// Interner returns the word interner owned by the database.
	Interner() *source.Interner
	// Revision returns the current revision.
	Revision() Revision
	// Tracer returns the database tracer.
	Tracer() trace.Tracer

	engine() *runtime
	active() *activeLink
	record(n *node)
}

// Frame is the execution context of one query body. It records every node the
// body reads and every value it accumulates.
type Frame struct {
	rt          *runtime
	link        *activeLink
	deps        []*node
	seen        map[*node]struct{}
	accumulated map[uint32][]any
}

func (f *Frame) Interner() *source.Interner { return f.rt.words }
func (f *Frame) Revision() Revision         { return f.rt.current() }
func (f *Frame) Tracer() trace.Tracer       { return f.rt.tracer }
func (f *Frame) engine() *runtime           { return f.rt }
func (f *Frame) active() *activeLink        { return f.link }

func (f *Frame) record(n *node) {
	if f.seen == nil {
		f.seen = make(map[*node]struct{})
	}
	if _, ok := f.seen[n]; ok {
		return
	}
	f.seen[n] = struct{}{}
	f.deps = append(f.deps, n)
}

// NodeInfo describes the memoized state of one node.
type NodeInfo struct {
	ChangedAt  Revision
	VerifiedAt Revision
	Executions int64
	Order      uint64
}

func (rt *runtime) info(k nodeKey) (NodeInfo, bool) {
	n := rt.find(k)
	if n == nil {
		return NodeInfo{}, false
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return NodeInfo{
		ChangedAt:  n.changedAt,
		VerifiedAt: n.verifiedAt,
		Executions: n.runs.Load(),
		Order:      n.order,
	}, true
}
