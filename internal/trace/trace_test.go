package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelScopes(t *testing.T) {
	if LevelPhase.ShouldEmit(ScopeUnit) {
		t.Fatalf("phase level must not emit unit events")
	}
	if !LevelDetail.ShouldEmit(ScopeUnit) || LevelDetail.ShouldEmit(ScopeNode) {
		t.Fatalf("detail level must emit unit but not node events")
	}
	if !LevelDebug.ShouldEmit(ScopeNode) {
		t.Fatalf("debug level must emit node events")
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatText)
	span := Begin(tr, ScopePass, "lower", 0)
	Point(tr, ScopeNode, "ctor-inits", "A::A has 2 initializers", span.ID())
	span.Attr("symbols", "12").End("ok")
	if err := tr.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[1], "node ctor-inits (A::A has 2 initializers)") {
		t.Errorf("unexpected point line %q", lines[1])
	}
	if !strings.Contains(lines[2], "{symbols=12}") {
		t.Errorf("missing extra in %q", lines[2])
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatNDJSON)
	Begin(tr, ScopeDriver, "lower-batch", 0).End("")
	Point(tr, ScopeNode, "dropped", "", 0)
	if err := tr.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	dec := json.NewDecoder(&buf)
	count := 0
	for dec.More() {
		var ev map[string]any
		if err := dec.Decode(&ev); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if ev["scope"] != "driver" {
			t.Errorf("unexpected scope %v", ev["scope"])
		}
		count++
	}
	if count != 2 {
		t.Fatalf("expected begin+end events, got %d", count)
	}
}

func TestRingTracerWraps(t *testing.T) {
	tr := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(tr, ScopeNode, name, "", 0)
	}
	snap := tr.Snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[1].Name != "c" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestContextDefaultsToNop(t *testing.T) {
	if FromContext(context.Background()).Enabled() {
		t.Fatalf("expected nop tracer")
	}
	tr := NewRingTracer(4, LevelPhase)
	ctx := WithTracer(context.Background(), tr)
	if FromContext(ctx) != Tracer(tr) {
		t.Fatalf("tracer not propagated")
	}
}

func TestRingTracerTail(t *testing.T) {
	tr := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b"} {
		Point(tr, ScopeNode, name, "", 0)
	}
	if tail := tr.Tail(1); len(tail) != 1 || tail[0].Name != "b" {
		t.Fatalf("unexpected tail before wrap %+v", tail)
	}
	for _, name := range []string{"c", "d"} {
		Point(tr, ScopeNode, name, "", 0)
	}
	tail := tr.Tail(2)
	if len(tail) != 2 || tail[0].Name != "c" || tail[1].Name != "d" {
		t.Fatalf("unexpected tail after wrap %+v", tail)
	}
	if all := tr.Tail(10); len(all) != 3 || all[0].Name != "b" {
		t.Fatalf("oversized tail should return every event, got %+v", all)
	}
}

func TestStartSpanNests(t *testing.T) {
	tr := NewRingTracer(8, LevelDebug)
	ctx := WithUnit(WithTracer(context.Background(), tr), "shape.astpack")
	if ParentID(ctx) != 0 {
		t.Fatalf("root context must have no parent")
	}
	outer, ctx := StartSpan(ctx, ScopeDriver, "batch")
	inner, innerCtx := StartSpan(ctx, ScopePass, "unit")
	if ParentID(innerCtx) != inner.ID() {
		t.Fatalf("inner span not carried by context")
	}
	inner.End("")
	outer.End("")

	snap := tr.Snapshot()
	if len(snap) != 4 {
		t.Fatalf("expected 4 events, got %d", len(snap))
	}
	if snap[1].Name != "unit" || snap[1].ParentID != outer.ID() {
		t.Fatalf("inner span has wrong parent: %+v", snap[1])
	}
	if snap[0].Unit != "shape.astpack" || snap[3].Unit != "shape.astpack" {
		t.Fatalf("spans not tagged with the unit: %+v", snap)
	}
	if line := string(FormatEvent(&snap[0], FormatText)); !strings.Contains(line, "driver batch @shape.astpack") {
		t.Fatalf("unexpected text line %q", line)
	}
}

func TestStartSpanFilteredKeepsParent(t *testing.T) {
	ctx := WithTracer(context.Background(), NewRingTracer(8, LevelPhase))
	outer, ctx := StartSpan(ctx, ScopeDriver, "batch")
	_, nodeCtx := StartSpan(ctx, ScopeNode, "expr")
	if ParentID(nodeCtx) != outer.ID() {
		t.Fatalf("filtered span must not replace the parent")
	}
}

func TestCrashDump(t *testing.T) {
	ring := NewRingTracer(16, LevelDebug)
	var stream bytes.Buffer
	multi := NewMultiTracer(LevelDebug, NewStreamTracer(&stream, LevelDebug, FormatText), ring)
	for _, name := range []string{"first", "second", "third"} {
		Point(multi, ScopeNode, name, "", 0)
	}

	var buf bytes.Buffer
	ok, err := CrashDump(&buf, multi, "fatal error", 2)
	if err != nil || !ok {
		t.Fatalf("CrashDump: ok=%v err=%v", ok, err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "--- trace: last 2 events before fatal error ---\n") {
		t.Fatalf("unexpected header:\n%s", out)
	}
	if strings.Contains(out, "first") || !strings.Contains(out, "third") {
		t.Fatalf("unexpected events:\n%s", out)
	}
	if !strings.HasSuffix(out, "--- end of trace ---\n") {
		t.Fatalf("missing footer:\n%s", out)
	}

	ok, err = CrashDump(&buf, Nop, "fatal error", 0)
	if ok || err != nil {
		t.Fatalf("nop tracer has no ring: ok=%v err=%v", ok, err)
	}
}
