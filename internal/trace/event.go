package trace

import "time"

// Kind is the type of a trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

var kindNames = [...]string{KindSpanBegin: "begin", KindSpanEnd: "end", KindPoint: "point"}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope orders events from coarse to fine; a Level admits every scope up to
// its finest one.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // batches and single input files
	ScopePass                    // whole-unit lowering
	ScopeUnit                    // one top-level declaration
	ScopeNode                    // members, statements, expressions
)

var scopeNames = [...]string{ScopeDriver: "driver", ScopePass: "pass", ScopeUnit: "unit", ScopeNode: "node"}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is a single trace record.
type Event struct {
	Time     time.Time
	Seq      uint64 // stamped by the tracer that stores the event
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 at the root
	Unit     string // input file the event belongs to, when known
	Name     string // e.g. "lower", "CXXRecordDecl"
	Detail   string
	Attrs    map[string]string
}
