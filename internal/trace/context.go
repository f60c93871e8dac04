package trace

import "context"

type tracerKey struct{}

type spanKey struct{}

type unitKey struct{}

// FromContext returns the tracer carried by ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches a Tracer to context.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// ParentID returns the id of the innermost span started with StartSpan, or
// 0 at the root.
func ParentID(ctx context.Context) uint64 {
	if ctx == nil {
		return 0
	}
	id, _ := ctx.Value(spanKey{}).(uint64)
	return id
}

// WithUnit tags spans started from ctx with the input file they work on.
func WithUnit(ctx context.Context, unit string) context.Context {
	return context.WithValue(ctx, unitKey{}, unit)
}

// UnitFrom returns the input file set by WithUnit, or "".
func UnitFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	unit, _ := ctx.Value(unitKey{}).(string)
	return unit
}

// StartSpan begins a span under the span carried by ctx, using the tracer
// carried by ctx, and returns a context in which it is the parent. Spans
// filtered out by the level do not replace the parent.
func StartSpan(ctx context.Context, scope Scope, name string) (*Span, context.Context) {
	span := begin(FromContext(ctx), scope, name, ParentID(ctx), UnitFrom(ctx))
	if span.ID() == 0 {
		return span, ctx
	}
	return span, context.WithValue(ctx, spanKey{}, span.ID())
}
