package trace

import "time"

// Kind is the type of an event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat
)

var kindNames = [...]string{KindSpanBegin: "begin", KindSpanEnd: "end", KindPoint: "point", KindHeartbeat: "heartbeat"}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event; smaller is coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // one CLI run or CheckAll call
	ScopePass                    // a named phase: discover, load, check, render
	ScopeQuery                   // a query body execution or an input write
	ScopeNode                    // a memoized node verified without running its body
)

var scopeNames = [...]string{ScopeDriver: "driver", ScopePass: "pass", ScopeQuery: "query", ScopeNode: "node"}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Attr is one key/value annotation. Attributes keep their order in the output.
type Attr struct {
	Key   string
	Value string
}

// Event is a single trace record.
type Event struct {
	Time     time.Time
	Seq      uint64 // assigned by the sink that keeps the event
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for a root span
	GID      uint64
	Name     string // "check_all", "parse(a.dada)", "set source_text(a.dada)"
	Detail   string
	Attrs    []Attr
}
