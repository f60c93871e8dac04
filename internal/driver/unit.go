package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cxxfront/internal/clower"
	"cxxfront/internal/cppast"
	"cxxfront/internal/cpplower"
	"cxxfront/internal/diag"
	"cxxfront/internal/ir"
	"cxxfront/internal/layout"
	"cxxfront/internal/observ"
	"cxxfront/internal/source"
	"cxxfront/internal/trace"
)

// Options configures lowering of one or more units.
type Options struct {
	Target layout.Target
	Mode   string

	DumpExplicitInstantiations    bool
	DumpExplicitVarInstantiations bool

	// OutDir receives <unit>.irpack; empty disables writing.
	OutDir   string
	Validate bool
	// Text also writes a <unit>.ir.txt listing next to the pack.
	Text bool

	Jobs           int
	MaxDiagnostics int
	Sink           ProgressSink
}

// Result is the outcome of one unit. Context is nil when Err is set: a
// unit either lowers completely or produces nothing.
type Result struct {
	Path    string
	Unit    string
	Context *ir.Context
	Bag     *diag.Bag
	Timing  observ.Report
	Output  string
	Err     error
	// Stage is the last stage entered; the failing one when Err is set.
	Stage Stage
}

// Fatal reports whether the unit failed on an internal invariant.
func (r Result) Fatal() bool { return r.Err != nil && clower.IsFatal(r.Err) }

// Diagnostic describes Err. Lowering errors keep their own code and
// location; other failures are classified by the stage they happened in.
func (r Result) Diagnostic() diag.Diagnostic {
	if le, ok := clower.AsError(r.Err); ok {
		return le.Diagnostic()
	}
	loc := source.Location{File: r.Path}
	code := diag.IOLoadError
	switch {
	case r.Stage == StageEncode:
		code = diag.IOWriteError
	case r.Stage == StageDecode && !errors.Is(r.Err, fs.ErrNotExist):
		code = diag.IODecodeError
	}
	msg := "unknown failure"
	if r.Err != nil {
		msg = r.Err.Error()
	}
	return diag.NewError(code, loc, msg)
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return 100
	}
	return o.MaxDiagnostics
}

// LowerUnit lowers a decoded unit into a fresh symbol table. Warnings go to
// bag.
func LowerUnit(ctx context.Context, u *cppast.Unit, opts Options, bag *diag.Bag) (*ir.Context, error) {
	symtab := ir.NewContext()
	l := cpplower.New(u, symtab, cpplower.Config{
		Config: clower.Config{
			Target:   opts.Target,
			Mode:     opts.Mode,
			Reporter: diag.NewDedupReporter(diag.BagReporter{Bag: bag}),
			Tracer:   trace.FromContext(ctx),
		},
		DumpExplicitInstantiations:    opts.DumpExplicitInstantiations,
		DumpExplicitVarInstantiations: opts.DumpExplicitVarInstantiations,
	})
	if err := l.Run(ctx); err != nil {
		return nil, err
	}
	return symtab, nil
}

// validate runs the IR validator and reports a failure as a lowering error.
func validate(symtab *ir.Context, unit string) error {
	if err := ir.Validate(symtab); err != nil {
		return clower.Failf(diag.LowValidation, source.Location{File: unit}, "%v", err)
	}
	return nil
}

// OutputPath returns the pack path of input under dir.
func OutputPath(dir, input string) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, base+".irpack")
}

// lowerFile runs decode, lower, validate and encode for one input.
func lowerFile(ctx context.Context, loader *Loader, path string, opts Options) Result {
	res := Result{Path: path, Bag: diag.NewBag(opts.maxDiagnostics())}
	span, ctx := trace.StartSpan(trace.WithUnit(ctx, path), trace.ScopeDriver, "file")
	timer := observ.NewTimer()
	start := time.Now()
	stage := func(s Stage, fn func() error) error {
		res.Stage = s
		emit(opts.Sink, Event{File: path, Stage: s, Status: StatusWorking})
		return timer.Measure(string(s), fn)
	}
	finish := func(err error) Result {
		res.Err = err
		res.Timing = timer.Report()
		res.Timing.Unit = res.Unit
		status := StatusDone
		if err != nil {
			status = StatusError
			res.Context = nil
		}
		emit(opts.Sink, Event{File: path, Stage: res.Stage, Status: status, Err: err, Elapsed: time.Since(start)})
		span.End(string(status))
		return res
	}

	var u *cppast.Unit
	err := stage(StageDecode, func() error {
		var err error
		u, err = loader.Load(path)
		return err
	})
	if err != nil {
		return finish(err)
	}
	res.Unit = u.Path
	if res.Unit == "" {
		res.Unit = path
	}

	err = stage(StageLower, func() error {
		var err error
		res.Context, err = LowerUnit(ctx, u, opts, res.Bag)
		return err
	})
	if err != nil {
		return finish(fmt.Errorf("%s: %w", res.Unit, err))
	}
	if opts.Validate {
		if err := stage(StageValidate, func() error { return validate(res.Context, res.Unit) }); err != nil {
			return finish(fmt.Errorf("%s: %w", res.Unit, err))
		}
	}
	if opts.OutDir == "" {
		return finish(nil)
	}
	err = stage(StageEncode, func() error {
		out := OutputPath(opts.OutDir, path)
		// a unit that fails here leaves no pack behind
		listing := strings.TrimSuffix(out, ".irpack") + ".ir.txt"
		if opts.Text {
			if err := writeListing(listing, res.Context); err != nil {
				return err
			}
		}
		if err := ir.WriteFile(out, res.Unit, res.Context); err != nil {
			if opts.Text {
				os.Remove(listing)
			}
			return err
		}
		res.Output = out
		return nil
	})
	return finish(err)
}

// writeListing writes the text dump of symtab, replacing path atomically.
func writeListing(path string, symtab *ir.Context) (err error) {
	var buf bytes.Buffer
	if err := ir.Dump(&buf, symtab, ir.DumpOptions{Bodies: true}); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), ".ir-*.txt")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()
	if _, err = f.Write(buf.Bytes()); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}
