package clower

import (
	"context"
	"fmt"

	"fortio.org/safecast"

	"cxxfront/internal/cppast"
	"cxxfront/internal/diag"
	"cxxfront/internal/ir"
	"cxxfront/internal/layout"
	"cxxfront/internal/source"
	"cxxfront/internal/trace"
)

// TagPrefix prefixes the ids of struct and union type symbols.
const TagPrefix = "tag-"

type recordState uint8

const (
	recordNone recordState = iota
	recordDeclared
	recordInProgress
	recordDone
)

// Config carries the environment of one lowering run.
type Config struct {
	Target   layout.Target
	Mode     string // "C" or "C++"
	Reporter diag.Reporter
	Tracer   trace.Tracer
}

// Lowerer lowers one translation unit into a symbol table.
type Lowerer struct {
	Unit     *cppast.Unit
	Context  *ir.Context
	Target   layout.Target
	Mode     string
	Module   string
	Reporter diag.Reporter
	Tracer   trace.Tracer

	hooks    Hooks
	current  *cppast.FunctionDecl
	currentT *ir.Type
	span     uint64
	records  map[string]recordState
	done     map[string]bool // functions and globals already lowered
}

var noLoc source.Location

// New prepares a lowerer writing into ctx.
func New(u *cppast.Unit, ctx *ir.Context, cfg Config) *Lowerer {
	if cfg.Mode == "" {
		cfg.Mode = "C"
	}
	if cfg.Reporter == nil {
		cfg.Reporter = diag.NopReporter{}
	}
	if cfg.Tracer == nil {
		cfg.Tracer = trace.Nop
	}
	l := &Lowerer{
		Unit:     u,
		Context:  ctx,
		Target:   cfg.Target,
		Mode:     cfg.Mode,
		Module:   source.ModuleName(u.Path),
		Reporter: cfg.Reporter,
		Tracer:   cfg.Tracer,
		records:  make(map[string]recordState),
		done:     make(map[string]bool),
	}
	l.hooks = l
	return l
}

// SetHooks routes every recursive step through h.
func (l *Lowerer) SetHooks(h Hooks) { l.hooks = h }

func (l *Lowerer) Hooks() Hooks { return l.hooks }

// Current returns the function whose body is being lowered, or nil.
func (l *Lowerer) Current() *cppast.FunctionDecl { return l.current }

// CurrentType returns the code type of the current function.
func (l *Lowerer) CurrentType() *ir.Type { return l.currentT }

// Run lowers every top-level declaration in source order. The first error
// aborts the run; there is no partial success within a unit.
func (l *Lowerer) Run(ctx context.Context) error {
	pass := trace.Begin(l.Tracer, trace.ScopePass, "lower", trace.ParentID(ctx))
	pass.Attr("unit", l.Unit.Path)
	defer pass.End("")

	for _, d := range l.Unit.Decls {
		if err := ctx.Err(); err != nil {
			return err
		}
		span := trace.Begin(l.Tracer, trace.ScopeUnit, cppast.KindName(d), pass.ID())
		l.span = span.ID()
		_, err := l.hooks.LowerDecl(d)
		if err != nil {
			span.End("error")
			return err
		}
		span.End(d.Common().Name)
	}
	return nil
}

// Debugf emits a node-scope trace event.
func (l *Lowerer) Debugf(name, format string, args ...any) {
	if !l.Tracer.Enabled() {
		return
	}
	trace.Point(l.Tracer, trace.ScopeNode, name, fmt.Sprintf(format, args...), l.span)
}

// Warn reports an approximation.
func (l *Lowerer) Warn(code diag.Code, loc source.Location, format string, args ...any) {
	diag.ReportWarning(l.Reporter, code, loc, fmt.Sprintf(format, args...)).Emit()
}

// Lookup resolves a reference in the unit.
func (l *Lowerer) Lookup(r cppast.Ref, loc source.Location) (cppast.Decl, error) {
	d, ok := l.Unit.Lookup(r)
	if !ok {
		return nil, Unresolvedf(loc, "no declaration for %q", r)
	}
	return d, nil
}

// NewSymbol builds a symbol with the unit's module and mode.
func (l *Lowerer) NewSymbol(name, id string, t *ir.Type, loc source.Location) *ir.Symbol {
	return &ir.Symbol{
		ID:     id,
		Name:   name,
		Module: l.Module,
		Mode:   l.Mode,
		Type:   t,
		Loc:    loc,
	}
}

// TagID returns the tag and type symbol id of a record.
func (l *Lowerer) TagID(r *cppast.RecordDecl) (tag, id string) {
	tag = r.QualName
	if tag == "" {
		tag = r.Name
	}
	if tag == "" && r.USR != "" {
		tag = "anon#" + r.USR
	}
	if tag == "" {
		tag = "anon#" + r.Loc.String()
	}
	return tag, TagPrefix + tag
}

func width(bits int) uint32 {
	return safecast.MustConv[uint32](bits)
}

func (l *Lowerer) PointerWidth() uint32 { return width(l.Target.PointerWidth) }

// PointerTo builds a target-width pointer to t.
func (l *Lowerer) PointerTo(t *ir.Type) *ir.Type { return ir.PointerTo(t, l.PointerWidth()) }

// SizeType is size_t.
func (l *Lowerer) SizeType() *ir.Type { return ir.Unsigned(width(l.Target.SizeWidth())) }

// IndexType is the type of synthesized array indices.
func (l *Lowerer) IndexType() *ir.Type { return ir.Signed(width(l.Target.PointerWidth)) }

// AddressOf builds &e with a target-width pointer type.
func (l *Lowerer) AddressOf(e *ir.Expr) *ir.Expr { return ir.AddressOf(e, l.PointerWidth()) }

// SymbolizeAggregate replaces an inline struct or union by a symbolic
// reference to its tag, keeping qualifiers.
func SymbolizeAggregate(t *ir.Type) *ir.Type {
	if !t.IsStructOrUnion() {
		return t
	}
	s := ir.SymbolRef(TagPrefix + t.Tag)
	s.Constant = t.Constant
	s.Volatile = t.Volatile
	return s
}

// ToBool converts a scalar to bool.
func (l *Lowerer) ToBool(e *ir.Expr) *ir.Expr {
	if l.Context.Follow(e.Type).Kind == ir.TypeBool {
		return e
	}
	return ir.Typecast(e, ir.Bool())
}

// RecordLowered reports whether the record with type symbol id is complete.
func (l *Lowerer) RecordLowered(id string) bool { return l.records[id] == recordDone }

// RecordInProgress reports whether the record is being lowered.
func (l *Lowerer) RecordInProgress(id string) bool { return l.records[id] == recordInProgress }
