package observ

import (
	"errors"
	"testing"
)

func TestTimerMeasure(t *testing.T) {
	tm := NewTimer()
	if err := tm.Measure("decode", func() error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	boom := errors.New("boom")
	if err := tm.Measure("lower", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("Measure must return fn's error, got %v", err)
	}

	rep := tm.Report()
	if len(rep.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(rep.Phases))
	}
	if rep.Phases[0].Failed || !rep.Phases[1].Failed {
		t.Errorf("failure flags wrong: %+v", rep.Phases)
	}
	if _, ok := rep.Phase("decode"); !ok {
		t.Errorf("decode phase missing")
	}
	if _, ok := rep.Phase("encode"); ok {
		t.Errorf("encode phase should be absent")
	}
	if rep.TotalMS < rep.Phases[0].DurationMS {
		t.Errorf("total %v below a single phase", rep.TotalMS)
	}
	if (Report{}).TotalMS != 0 || len(NewTimer().Report().Phases) != 0 {
		t.Errorf("empty timer must report nothing")
	}
}
