package trace

import (
	"sync/atomic"
	"time"
)

var seq, spanIDs atomic.Uint64

// NextSeq returns the next global sequence number.
func NextSeq() uint64 { return seq.Add(1) }

// NextSpanID returns a fresh span id; ids are never 0.
func NextSpanID() uint64 { return spanIDs.Add(1) }

// Span is an open interval of traced work. A span whose scope is filtered
// out has ID 0 and ignores every call.
type Span struct {
	tracer Tracer
	ev     Event // template for the end event
	start  time.Time
}

// Begin opens a span under parent (0 for a root) and emits its begin event.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	return begin(t, scope, name, parent, "")
}

func begin(t Tracer, scope Scope, name string, parent uint64, unit string) *Span {
	if !records(t, scope) {
		return &Span{}
	}
	s := &Span{
		tracer: t,
		start:  time.Now(),
		ev: Event{
			Kind:     KindSpanBegin,
			Scope:    scope,
			SpanID:   NextSpanID(),
			ParentID: parent,
			Unit:     unit,
			Name:     name,
		},
	}
	ev := s.ev
	ev.Time = s.start
	t.Emit(&ev)
	return s
}

func records(t Tracer, scope Scope) bool {
	return t != nil && t.Enabled() && t.Level().ShouldEmit(scope)
}

// Attr attaches key=value to the end event.
func (s *Span) Attr(key, value string) *Span {
	if s == nil || s.tracer == nil {
		return s
	}
	if s.ev.Attrs == nil {
		s.ev.Attrs = make(map[string]string, 2)
	}
	s.ev.Attrs[key] = value
	return s
}

// End emits the end event carrying detail and returns the elapsed time.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil {
		return 0
	}
	ev := s.ev
	ev.Time = time.Now()
	ev.Kind = KindSpanEnd
	ev.Detail = detail
	s.tracer.Emit(&ev)
	return ev.Time.Sub(s.start)
}

func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.ev.SpanID
}

// Point emits an instant event under parent.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	if !records(t, scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindPoint,
		Scope:    scope,
		SpanID:   NextSpanID(),
		ParentID: parent,
		Name:     name,
		Detail:   detail,
	})
}
