// Package trace provides a tracing subsystem for the cxxfront pipeline.
//
// The trace package tracks lowering passes, translation units and individual
// declarations to help diagnose slow units and lowering failures.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	cxxfront lower --trace=- --trace-level=detail unit.astpack
//
// # Architecture
//
//   - Nop: used when tracing is off
//   - StreamTracer: buffered writes to a file or stderr
//   - RingTracer: the newest events in memory, printed by CrashDump when a
//     unit fails fatally
//   - MultiTracer: stream and ring together
//
// # Levels and scopes
//
// Events are categorized by scope (driver, pass, unit, node). LevelPhase
// emits driver and pass spans, LevelDetail adds one span per top-level
// declaration of a unit, LevelDebug adds node-level point events emitted by
// the lowering core.
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx = trace.WithUnit(ctx, "shape.astpack")
//
//	span, ctx := trace.StartSpan(ctx, trace.ScopeDriver, "file")
//	defer span.End("")
//
// Code holding a Tracer directly uses Begin with an explicit parent id.
package trace
