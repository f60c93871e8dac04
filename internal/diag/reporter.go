package diag

import "cxxfront/internal/source"

// Reporter receives diagnostics from the lowering core.
type Reporter interface {
	Report(d Diagnostic)
}

// Builder accumulates one diagnostic and hands it to a Reporter on Emit.
type Builder struct {
	reporter Reporter
	diag     Diagnostic
	emitted  bool
}

// ReportError starts an error diagnostic.
func ReportError(r Reporter, code Code, primary source.Location, msg string) *Builder {
	return &Builder{reporter: r, diag: NewError(code, primary, msg)}
}

// ReportWarning starts a warning diagnostic.
func ReportWarning(r Reporter, code Code, primary source.Location, msg string) *Builder {
	return &Builder{reporter: r, diag: New(SevWarning, code, primary, msg)}
}

func (b *Builder) WithNote(loc source.Location, msg string) *Builder {
	if b != nil {
		b.diag = b.diag.WithNote(loc, msg)
	}
	return b
}

// Emit reports the diagnostic; calls after the first do nothing.
func (b *Builder) Emit() {
	if b == nil || b.emitted {
		return
	}
	b.emitted = true
	if b.reporter != nil {
		b.reporter.Report(b.diag)
	}
}

// Diagnostic returns the diagnostic built so far.
func (b *Builder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.diag
}

// BagReporter adds to Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag != nil {
		r.Bag.Add(d)
	}
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Report(Diagnostic) {}

// DedupReporter forwards each distinct diagnostic once. The same template
// specialization reached from several instantiation sites reports the same
// finding repeatedly.
type DedupReporter struct {
	next Reporter
	seen map[dedupKey]struct{}
}

type dedupKey struct {
	code Code
	sev  Severity
	loc  source.Location
	msg  string
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[dedupKey]struct{})}
}

func (r *DedupReporter) Report(d Diagnostic) {
	key := dedupKey{d.Code, d.Severity, d.Primary, d.Message}
	if _, dup := r.seen[key]; dup {
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(d)
	}
}
