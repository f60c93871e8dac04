// Package observ records per-unit phase timings for the lowering driver.
package observ

import "time"

// Timer collects the phases of one translation unit in the order they ran.
// It is not safe for concurrent use; the driver keeps one per unit.
type Timer struct {
	phases []PhaseReport
	total  time.Duration
}

func NewTimer() *Timer { return &Timer{phases: make([]PhaseReport, 0, 4)} }

// Measure runs fn as the phase name and returns its error. A phase whose fn
// fails is marked Failed.
func (t *Timer) Measure(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	d := time.Since(start)
	t.total += d
	t.phases = append(t.phases, PhaseReport{Name: name, DurationMS: millis(d), Failed: err != nil})
	return err
}

// PhaseReport is the serialisable form of one phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Failed     bool    `json:"failed,omitempty"`
}

// Report is the timing of one unit. Unit is filled in by the caller.
type Report struct {
	Unit    string        `json:"unit,omitempty"`
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Phase returns the duration of the named phase and whether it ran.
func (r Report) Phase(name string) (float64, bool) {
	for _, p := range r.Phases {
		if p.Name == name {
			return p.DurationMS, true
		}
	}
	return 0, false
}

// Report snapshots the phases measured so far.
func (t *Timer) Report() Report {
	if len(t.phases) == 0 {
		return Report{}
	}
	return Report{TotalMS: millis(t.total), Phases: append([]PhaseReport(nil), t.phases...)}
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
