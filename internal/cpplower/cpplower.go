// Package cpplower lowers C++ translation units. It embeds the C lowering
// and overrides its hooks for classes, references, templates, constructors,
// lambdas, exceptions and the remaining C++ expression kinds.
package cpplower

import (
	"cxxfront/internal/clower"
	"cxxfront/internal/cppast"
	"cxxfront/internal/diag"
	"cxxfront/internal/ir"
	"cxxfront/internal/source"
)

// Config extends the base configuration with the template dump modes.
type Config struct {
	clower.Config
	// DumpExplicitInstantiations also lowers explicit instantiations and
	// explicit specializations of function templates.
	DumpExplicitInstantiations bool
	// DumpExplicitVarInstantiations does the same for variable templates.
	DumpExplicitVarInstantiations bool
}

// binding is the receiver parameter of a method body.
type binding struct {
	ID   string
	Type *ir.Type
}

func (b binding) expr() *ir.Expr { return ir.SymbolExpr(b.ID, b.Type.Clone()) }

// closure maps captured variables of a lambda to the fields storing them.
type closure struct {
	fields map[cppast.Ref]cppast.Ref
	this   cppast.Ref
}

var noLoc source.Location

type initMode uint8

const (
	initNone initMode = iota
	initBase
	initMember
	initDelegating
)

// pendingInit tells the next constructor call which receiver to use. It is
// consumed by the first expression that is not a transparent wrapper.
type pendingInit struct {
	mode   initMode
	this   *ir.Expr // base and delegating initializers
	target *ir.Expr // address of the member constructed in place
}

// Lowerer is the C++ lowering. It registers itself as the hooks of the
// embedded C lowering.
type Lowerer struct {
	*clower.Lowerer

	cfg      Config
	this     map[cppast.Ref]binding
	captures map[cppast.Ref]*closure
	init     pendingInit
}

// New prepares a C++ lowering writing into ctx.
func New(u *cppast.Unit, ctx *ir.Context, cfg Config) *Lowerer {
	if cfg.Mode == "" {
		cfg.Mode = "C++"
	}
	l := &Lowerer{
		Lowerer:  clower.New(u, ctx, cfg.Config),
		cfg:      cfg,
		this:     make(map[cppast.Ref]binding),
		captures: make(map[cppast.Ref]*closure),
	}
	l.SetHooks(l)
	return l
}

// receiver returns the this binding of the function being lowered. Inside a
// lambda body the receiver is the closure object.
func (l *Lowerer) receiver(loc source.Location) (binding, error) {
	f := l.Current()
	if f == nil {
		return binding{}, clower.Fatalf(diag.FtlMissingReceiver, loc, "receiver used outside of a method body")
	}
	b, ok := l.this[f.Ref()]
	if !ok {
		return binding{}, clower.Fatalf(diag.FtlMissingReceiver, loc,
			"no receiver registered for %s", f.QualName)
	}
	return b, nil
}

// takeInit hands out the pending constructor convention and clears it,
// unless s only wraps the expression the convention is meant for.
func (l *Lowerer) takeInit(s cppast.Stmt) pendingInit {
	p := l.init
	switch s.(type) {
	case *cppast.ExprWithCleanups, *cppast.ParenExpr, *cppast.CXXDefaultInitExpr,
		*cppast.SubstNonTypeTemplateParmExpr:
		return p
	}
	l.init = pendingInit{}
	return p
}
