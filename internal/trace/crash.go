package trace

import (
	"fmt"
	"io"
)

// Ring returns the ring buffer behind t, if any: t itself or the first ring
// of a MultiTracer.
func Ring(t Tracer) (*RingTracer, bool) {
	switch t := t.(type) {
	case *RingTracer:
		return t, true
	case *MultiTracer:
		for _, inner := range t.tracers {
			if r, ok := Ring(inner); ok {
				return r, true
			}
		}
	}
	return nil, false
}

// CrashDump writes the last n buffered events (all when n <= 0) of t's ring
// buffer as text, framed by a header naming reason. It reports false when
// t keeps no ring.
func CrashDump(w io.Writer, t Tracer, reason string, n int) (bool, error) {
	r, ok := Ring(t)
	if !ok {
		return false, nil
	}
	events := r.Tail(n)
	if _, err := fmt.Fprintf(w, "--- trace: last %d events before %s ---\n", len(events), reason); err != nil {
		return true, err
	}
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], FormatText)); err != nil {
			return true, err
		}
	}
	_, err := fmt.Fprintln(w, "--- end of trace ---")
	return true, err
}
