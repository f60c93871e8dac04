package trace

import "sync"

// RingTracer keeps the newest events in a fixed-size circular buffer so a
// failing run can print what led up to it.
type RingTracer struct {
	mu     sync.RWMutex
	events []Event
	next   int // slot the next event is written to
	size   int // number of valid slots
	level  Level
}

// NewRingTracer keeps at most capacity events (4096 when capacity <= 0).
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = 4096
	}
	return &RingTracer{events: make([]Event, capacity), level: level}
}

func (t *RingTracer) Emit(ev *Event) {
	if ev == nil || !t.level.ShouldEmit(ev.Scope) {
		return
	}
	stored := *ev
	stored.Seq = NextSeq()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.events[t.next] = stored
	t.next = (t.next + 1) % len(t.events)
	t.size = min(t.size+1, len(t.events))
}

// Snapshot returns every stored event, oldest first.
func (t *RingTracer) Snapshot() []Event {
	return t.Tail(0)
}

// Tail returns the newest n stored events oldest first, or all of them
// when n <= 0.
func (t *RingTracer) Tail(n int) []Event {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n <= 0 || n > t.size {
		n = t.size
	}
	capacity := len(t.events)
	start := (t.next - n + capacity) % capacity
	out := make([]Event, n)
	for i := range out {
		out[i] = t.events[(start+i)%capacity]
	}
	return out
}

func (t *RingTracer) Flush() error { return nil }
func (t *RingTracer) Close() error { return nil }
func (t *RingTracer) Level() Level { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
