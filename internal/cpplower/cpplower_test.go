package cpplower

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cxxfront/internal/clower"
	"cxxfront/internal/cppast"
	"cxxfront/internal/diag"
	"cxxfront/internal/ir"
	"cxxfront/internal/layout"
	"cxxfront/internal/source"
)

var (
	intT  = cppast.Builtin(cppast.Int)
	voidT = cppast.Builtin(cppast.Void)
)

func rv(t cppast.Type) cppast.ExprBase { return cppast.ExprBase{Type: t} }

func ref(d cppast.Decl, t cppast.Type) *cppast.DeclRefExpr {
	return &cppast.DeclRefExpr{ExprBase: cppast.ExprBase{Type: t, LValue: true}, Decl: d.Common().Ref(), Name: d.Common().Name}
}

func load(d cppast.Decl, t cppast.Type) cppast.Expr {
	return &cppast.ImplicitCastExpr{ExprBase: rv(t), Kind: cppast.CastLValueToRValue, Sub: ref(d, t)}
}

func lit(v string) *cppast.IntegerLiteral {
	return &cppast.IntegerLiteral{ExprBase: rv(intT), Value: v}
}

func named(name, usr string) cppast.DeclBase { return cppast.DeclBase{Name: name, USR: usr} }

func body(stmts ...cppast.Stmt) *cppast.CompoundStmt { return &cppast.CompoundStmt{Body: stmts} }

func newLowerer(u *cppast.Unit, bag *diag.Bag) *Lowerer {
	cfg := Config{Config: clower.Config{Target: layout.X86_64LinuxGNU()}}
	if bag != nil {
		cfg.Reporter = diag.BagReporter{Bag: bag}
	}
	return New(u, ir.NewContext(), cfg)
}

func run(t *testing.T, u *cppast.Unit) (*Lowerer, *diag.Bag, error) {
	t.Helper()
	bag := diag.NewBag(100)
	l := newLowerer(u, bag)
	return l, bag, l.Run(context.Background())
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func field(class, name string, t cppast.Type) *cppast.FieldDecl {
	return &cppast.FieldDecl{DeclBase: named(name, "c:@S@"+class+"@FI@"+name), Type: t}
}

func ctor(class string, inits ...*cppast.CtorInitializer) *cppast.FunctionDecl {
	return &cppast.FunctionDecl{
		DeclBase: named(class, "c:@S@"+class+"@F@"+class+"#"),
		Result:   voidT,
		Body:     body(),
		Method: &cppast.MethodInfo{
			Kind:   cppast.MethodConstructor,
			Parent: cppast.Ref("c:@S@" + class),
			Inits:  inits,
		},
	}
}

func record(name string, decls ...cppast.Decl) *cppast.RecordDecl {
	return &cppast.RecordDecl{
		DeclBase: named(name, "c:@S@"+name),
		QualName: name,
		Complete: true,
		Decls:    decls,
	}
}

func memberInit(f *cppast.FieldDecl, e cppast.Expr) *cppast.CtorInitializer {
	return &cppast.CtorInitializer{Kind: cppast.InitMember, Member: f.Ref(), Init: e}
}

func arrayInit(v string) *cppast.InitListExpr {
	return &cppast.InitListExpr{ExprBase: rv(cppast.ArrayOf(intT, 2)), Inits: []cppast.Expr{lit(v)}}
}

// copyIns counts the statements refreshing the shadow object from *this.
func copyIns(stmts []*ir.Expr) int {
	n := 0
	for _, s := range stmts {
		if s.Kind != ir.CodeExpression {
			continue
		}
		a := s.Op0()
		if a.Effect != ir.EffectAssign {
			continue
		}
		if a.Operands[0].Kind == ir.KindSymbol && a.Operands[1].Kind == ir.KindDereference {
			n++
		}
	}
	return n
}

func TestParameterIDsCarryPosition(t *testing.T) {
	p0 := &cppast.ParmVarDecl{DeclBase: named("args", "c:@F@f@args"), Type: intT, Index: 0, Function: "c:@F@f"}
	p1 := &cppast.ParmVarDecl{DeclBase: named("args", "c:@F@f@args"), Type: intT, Index: 1, Function: "c:@F@f"}
	f := &cppast.FunctionDecl{DeclBase: named("f", "c:@F@f"), Result: voidT, Params: []*cppast.ParmVarDecl{p0, p1}, Body: body()}

	l, _, err := run(t, cppast.NewUnit("t.cpp", f))
	require.NoError(t, err)
	fn, ok := l.Context.Find("c:@F@f")
	require.True(t, ok)
	require.Len(t, fn.Type.Params, 2)
	assert.Equal(t, "c:@F@f@args::0", fn.Type.Params[0].Identifier)
	assert.Equal(t, "c:@F@f@args::1", fn.Type.Params[1].Identifier)
	assert.Equal(t, "args::1", fn.Type.Params[1].BaseName)
}

func TestAnonymousConstructorNames(t *testing.T) {
	l := newLowerer(cppast.NewUnit("t.cpp"), nil)
	mk := func(usr string, line uint32) *cppast.FunctionDecl {
		d := ctor("S")
		d.Name, d.USR = "", usr
		d.Loc = source.Location{File: "dir/a.cpp", Function: "f", Line: line, Column: 3}
		return d
	}
	n1, id1, err := l.DeclName(mk("c:@S@S@F@anon1", 4))
	require.NoError(t, err)
	n2, id2, err := l.DeclName(mk("c:@S@S@F@anon2", 9))
	require.NoError(t, err)
	assert.NotEqual(t, n1, n2)
	assert.NotEqual(t, id1, id2)
	assert.Contains(t, n1, "__anon_constructor_at_")
	assert.NotContains(t, n1, ".")

	_, _, err = l.DeclName(mk("", 4))
	require.Error(t, err)
	assert.True(t, clower.IsFatal(err))
}

func TestDiamondBaseMergedOnce(t *testing.T) {
	a := record("A", field("A", "a", intT))
	b1 := record("B1")
	b1.Bases = []cppast.BaseSpecifier{{Base: a.Ref()}}
	b2 := record("B2")
	b2.Bases = []cppast.BaseSpecifier{{Base: a.Ref()}}
	c := record("C", field("C", "c", intT))
	c.Bases = []cppast.BaseSpecifier{{Base: b1.Ref()}, {Base: b2.Ref()}}

	l, bag, err := run(t, cppast.NewUnit("t.cpp", a, b1, b2, c))
	require.NoError(t, err)
	sym, ok := l.Context.Find("tag-C")
	require.True(t, ok)
	ct := sym.Type
	assert.Equal(t, []string{"tag-A", "tag-B1", "tag-B2"}, ct.Bases)

	count := 0
	for _, comp := range ct.Components {
		if comp.Name == "c:@S@A@FI@a" {
			count++
			assert.True(t, comp.FromBase)
		}
	}
	assert.Equal(t, 1, count)
	_, own := ct.Component("c:@S@C@FI@c")
	assert.True(t, own)
	assert.True(t, hasCode(bag, diag.WrnVirtualBase))
}

func TestInitializersInSourceOrder(t *testing.T) {
	bctor := ctor("B")
	base := record("B", field("B", "b", intT), bctor)
	x, y := field("D", "x", intT), field("D", "y", intT)
	construct := &cppast.CXXConstructExpr{ExprBase: rv(cppast.RecordTypeOf(base.Ref())), Ctor: bctor.Ref()}
	dctor := ctor("D",
		&cppast.CtorInitializer{Kind: cppast.InitBase, Base: cppast.RecordTypeOf(base.Ref()), Init: construct},
		memberInit(x, lit("1")),
		memberInit(y, lit("2")),
	)
	derived := record("D", x, y, dctor)
	derived.Bases = []cppast.BaseSpecifier{{Base: base.Ref()}}

	l, _, err := run(t, cppast.NewUnit("t.cpp", base, derived))
	require.NoError(t, err)
	fn, ok := l.Context.Find(string(dctor.Ref()))
	require.True(t, ok)
	stmts := fn.Value.Operands
	require.Len(t, stmts, 3)

	call := stmts[0].Op0()
	assert.Equal(t, ir.EffectCall, call.Effect)
	assert.True(t, call.Has(ir.FlagConstructor))
	assert.Equal(t, string(bctor.Ref()), call.Op0().Ident)
	assert.Equal(t, ir.KindTypecast, call.Operands[1].Kind)

	assert.Equal(t, "c:@S@D@FI@x", stmts[1].Op0().Operands[0].Ident)
	assert.Equal(t, "c:@S@D@FI@y", stmts[2].Op0().Operands[0].Ident)
	assert.Equal(t, ir.TypeConstructor, fn.Type.Return.Kind)
	assert.Equal(t, "tag-D", fn.Type.MemberName)
}

func TestArrayMembersShareShadowCopy(t *testing.T) {
	x, a, b := field("S", "x", intT), field("S", "a", cppast.ArrayOf(intT, 2)), field("S", "b", cppast.ArrayOf(intT, 2))
	c := ctor("S", memberInit(x, lit("1")), memberInit(a, arrayInit("2")), memberInit(b, arrayInit("3")))
	l, _, err := run(t, cppast.NewUnit("t.cpp", record("S", x, a, b, c)))
	require.NoError(t, err)

	fn, _ := l.Context.Find(string(c.Ref()))
	stmts := fn.Value.Operands
	// decl, x, copy-in, a, write-back, b, write-back
	require.Len(t, stmts, 7)
	assert.Equal(t, ir.CodeDecl, stmts[0].Kind)
	assert.Equal(t, 1, copyIns(stmts))
}

func TestArrayShadowRefreshedAfterScalar(t *testing.T) {
	a, y, b := field("S", "a", cppast.ArrayOf(intT, 2)), field("S", "y", intT), field("S", "b", cppast.ArrayOf(intT, 2))
	c := ctor("S", memberInit(a, arrayInit("1")), memberInit(y, lit("2")), memberInit(b, arrayInit("3")))
	l, _, err := run(t, cppast.NewUnit("t.cpp", record("S", a, y, b, c)))
	require.NoError(t, err)

	fn, _ := l.Context.Find(string(c.Ref()))
	assert.Equal(t, 2, copyIns(fn.Value.Operands))
	shadow, ok := l.Context.Find(fn.Type.Params[0].Identifier + "_array_init$")
	require.True(t, ok)
	assert.Equal(t, "array_init$", shadow.Name)
}

func TestDelegatingInitializerMustBeSole(t *testing.T) {
	x := field("S", "x", intT)
	c := ctor("S",
		&cppast.CtorInitializer{Kind: cppast.InitDelegating, Init: lit("0")},
		memberInit(x, lit("1")),
	)
	_, _, err := run(t, cppast.NewUnit("t.cpp", record("S", x, c)))
	require.Error(t, err)
	le, ok := clower.AsError(err)
	require.True(t, ok)
	assert.Equal(t, diag.LowDelegatingNotSole, le.Code)
	assert.False(t, clower.IsFatal(err))
}

func TestReferenceTypesAreExclusive(t *testing.T) {
	l := newLowerer(cppast.NewUnit("t.cpp"), nil)
	lref, err := l.LowerType(cppast.LValueRefTo(intT))
	require.NoError(t, err)
	assert.True(t, lref.Reference)
	assert.False(t, lref.RValueReference)

	rref, err := l.LowerType(cppast.RValueRefTo(intT))
	require.NoError(t, err)
	assert.True(t, rref.RValueReference)
	assert.False(t, rref.Reference)

	cref, err := l.LowerType(cppast.LValueRefTo(cppast.ConstOf(intT)))
	require.NoError(t, err)
	assert.True(t, cref.Subtype.Constant)
}

func TestRecordReferenceLowersIdempotently(t *testing.T) {
	s := record("S", field("S", "v", intT))
	l := newLowerer(cppast.NewUnit("t.cpp", s), nil)
	sref := cppast.LValueRefTo(cppast.RecordTypeOf(s.Ref()))

	first, err := l.LowerType(sref)
	require.NoError(t, err)
	second, err := l.LowerType(sref)
	require.NoError(t, err)

	assert.True(t, first.Reference)
	assert.Equal(t, ir.TypePointer, first.Kind)
	assert.True(t, first.Subtype.Equal(ir.SymbolRef("tag-S")))
	assert.True(t, first.Equal(second))
}

func TestBindValueToReference(t *testing.T) {
	l := newLowerer(cppast.NewUnit("t.cpp"), nil)
	rt, err := l.LowerType(cppast.LValueRefTo(intT))
	require.NoError(t, err)

	v := ir.SymbolExpr("x", ir.Signed(32))
	bound := l.BindValue(rt, v)
	require.Equal(t, ir.KindAddressOf, bound.Kind)
	assert.True(t, bound.Type.Reference)

	again := l.BindValue(rt, bound)
	assert.Same(t, bound, again)

	// a read through a reference binds back to the reference itself
	p := ir.SymbolExpr("p", rt)
	assert.Same(t, p, l.BindValue(rt, derefReference(p)))
}

func TestReferenceParameterIsReadThrough(t *testing.T) {
	p := &cppast.ParmVarDecl{DeclBase: named("p", "c:@F@f@p"), Type: cppast.LValueRefTo(intT), Function: "c:@F@f"}
	v := &cppast.VarDecl{DeclBase: named("v", "c:@F@f@v"), Type: intT, Local: true, Init: load(p, intT)}
	f := &cppast.FunctionDecl{
		DeclBase: named("f", "c:@F@f"),
		Result:   voidT,
		Params:   []*cppast.ParmVarDecl{p},
		Body:     body(&cppast.DeclStmt{Decls: []cppast.Decl{v}}),
	}
	l, _, err := run(t, cppast.NewUnit("t.cpp", f))
	require.NoError(t, err)

	fn, _ := l.Context.Find("c:@F@f")
	decl := fn.Value.Operands[0]
	require.Len(t, decl.Operands, 2)
	init := decl.Operands[1]
	require.Equal(t, ir.KindDereference, init.Kind)
	assert.True(t, init.Has(ir.FlagImplicit))
	assert.Equal(t, "c:@F@f@p::0", init.Op0().Ident)
}

func TestLambdaCapturesByReferenceStoreAddresses(t *testing.T) {
	x := &cppast.VarDecl{DeclBase: named("x", "c:@F@f@x"), Type: intT, Local: true, Init: lit("1")}
	y := &cppast.VarDecl{DeclBase: named("y", "c:@F@f@y"), Type: intT, Local: true, Init: lit("2")}
	fx := field("closure", "x", cppast.LValueRefTo(intT))
	fy := field("closure", "y", intT)
	class := record("closure", fx, fy)
	class.Tag = cppast.TagClass
	class.Lambda = &cppast.LambdaInfo{Captures: []cppast.CaptureField{{Var: x.Ref(), Field: fx.Ref()}, {Var: y.Ref(), Field: fy.Ref()}}}
	lambda := &cppast.LambdaExpr{
		ExprBase: rv(cppast.RecordTypeOf(class.Ref())),
		Class:    class,
		Captures: []cppast.LambdaCapture{{Kind: cppast.CaptureByRef, Var: x.Ref()}, {Kind: cppast.CaptureByCopy, Var: y.Ref()}},
		Inits:    []cppast.Expr{ref(x, intT), load(y, intT)},
	}
	c := &cppast.VarDecl{DeclBase: named("c", "c:@F@f@c"), Type: cppast.RecordTypeOf(class.Ref()), Local: true, Init: lambda}
	f := &cppast.FunctionDecl{
		DeclBase: named("f", "c:@F@f"),
		Result:   voidT,
		Body: body(
			&cppast.DeclStmt{Decls: []cppast.Decl{x}},
			&cppast.DeclStmt{Decls: []cppast.Decl{y}},
			&cppast.DeclStmt{Decls: []cppast.Decl{c}},
		),
	}
	l, _, err := run(t, cppast.NewUnit("t.cpp", f))
	require.NoError(t, err)

	fn, _ := l.Context.Find("c:@F@f")
	closure := fn.Value.Operands[2].Operands[1]
	require.Equal(t, ir.KindStruct, closure.Kind)
	require.Len(t, closure.Operands, 2)
	assert.Equal(t, ir.KindAddressOf, closure.Operands[0].Kind)
	assert.Equal(t, ir.KindSymbol, closure.Operands[1].Kind)

	ct, ok := l.Context.Find("tag-closure")
	require.True(t, ok)
	assert.Equal(t, "private", ct.Type.Components[0].Access)
}

func TestStaticMethodIsFatal(t *testing.T) {
	m := &cppast.FunctionDecl{
		DeclBase: named("make", "c:@S@S@F@make#S"),
		Result:   intT,
		Method:   &cppast.MethodInfo{Parent: "c:@S@S", Static: true},
	}
	_, _, err := run(t, cppast.NewUnit("t.cpp", record("S", field("S", "x", intT), m)))
	require.Error(t, err)
	assert.True(t, clower.IsFatal(err))
	le, _ := clower.AsError(err)
	assert.Equal(t, diag.FtlStaticMethod, le.Code)
}

func TestPolymorphicTypeidWarns(t *testing.T) {
	info := record("type_info",
		field("type_info", "name", cppast.PointerTo(cppast.ConstOf(cppast.Builtin(cppast.Char)))),
		field("type_info", "vptr", cppast.PointerTo(voidT)),
	)
	typeid := &cppast.CXXTypeidExpr{ExprBase: rv(cppast.RecordTypeOf(info.Ref())), TypeName: "Shape", Polymorphic: true}
	f := &cppast.FunctionDecl{DeclBase: named("f", "c:@F@f"), Result: voidT, Body: body(typeid)}

	l, bag, err := run(t, cppast.NewUnit("t.cpp", info, f))
	require.NoError(t, err)
	assert.True(t, hasCode(bag, diag.WrnPolymorphicType))

	fn, _ := l.Context.Find("c:@F@f")
	tmp := fn.Value.Operands[0].Op0()
	require.Equal(t, ir.EffectTemporary, tmp.Effect)
	st := tmp.Op0()
	require.Equal(t, ir.KindStruct, st.Kind)
	assert.Equal(t, "NULL", st.Operands[1].Value)
}

func virtualClass() (*cppast.RecordDecl, *cppast.FunctionDecl, *cppast.FunctionDecl) {
	get := &cppast.FunctionDecl{
		DeclBase: named("get", "c:@S@V@F@get#"),
		Result:   intT,
		Body:     body(&cppast.ReturnStmt{Value: lit("1")}),
		Method:   &cppast.MethodInfo{Parent: "c:@S@V", Virtual: true},
	}
	c := ctor("V")
	return record("V", field("V", "v", intT), get, c), get, c
}

func TestVirtualMethodsGetVtable(t *testing.T) {
	v, get, c := virtualClass()
	l, _, err := run(t, cppast.NewUnit("t.cpp", v))
	require.NoError(t, err)

	sym, ok := l.Context.Find("tag-V")
	require.True(t, ok)
	vt := sym.Type
	require.NotEmpty(t, vt.Components)
	assert.True(t, vt.Components[0].Vptr)
	assert.Equal(t, "V@vtable_pointer", vt.Components[0].Name)
	m, ok := vt.Method(string(get.Ref()))
	require.True(t, ok)
	assert.True(t, m.Virtual)

	table, ok := l.Context.Find("virtual_table::tag-V")
	require.True(t, ok)
	assert.True(t, table.IsType)
	require.Len(t, table.Type.Components, 1)
	assert.Equal(t, string(get.Ref()), table.Type.Components[0].Name)

	inst, ok := l.Context.Find("virtual_table::tag-V@tag-V")
	require.True(t, ok)
	require.Len(t, inst.Value.Operands, 1)
	assert.NotEqual(t, "NULL", inst.Value.Operands[0].Value)

	cs, ok := l.Context.Find(string(c.Ref()))
	require.True(t, ok)
	assert.True(t, cs.Value.Has(ir.FlagNeedVptrInit))
}

func TestVirtualCallLoadsSlot(t *testing.T) {
	v, get, _ := virtualClass()
	vp := cppast.PointerTo(cppast.RecordTypeOf(v.Ref()))
	p := &cppast.ParmVarDecl{DeclBase: named("p", "c:@F@call@p"), Type: vp, Function: "c:@F@call"}
	call := &cppast.CXXMemberCallExpr{
		ExprBase: rv(intT),
		Callee: &cppast.MemberExpr{
			ExprBase: rv(intT),
			Base:     load(p, vp),
			Member:   get.Ref(),
			Name:     "get",
			Arrow:    true,
		},
	}
	f := &cppast.FunctionDecl{
		DeclBase: named("call", "c:@F@call"),
		Result:   intT,
		Params:   []*cppast.ParmVarDecl{p},
		Body:     body(&cppast.ReturnStmt{Value: call}),
	}
	l, _, err := run(t, cppast.NewUnit("t.cpp", v, f))
	require.NoError(t, err)

	fn, _ := l.Context.Find("c:@F@call")
	ret := fn.Value.Operands[0].Op0()
	require.Equal(t, ir.EffectCall, ret.Effect)
	callee := ret.Op0()
	require.Equal(t, ir.KindDereference, callee.Kind)
	slot := callee.Op0()
	require.Equal(t, ir.KindMember, slot.Kind)
	assert.Equal(t, string(get.Ref()), slot.Ident)
	require.Len(t, ret.Operands, 2)
	assert.Equal(t, "c:@F@call@p::0", ret.Operands[1].Ident)
}

func TestThisOutsideMethodIsFatal(t *testing.T) {
	this := &cppast.CXXThisExpr{ExprBase: rv(cppast.PointerTo(intT))}
	f := &cppast.FunctionDecl{DeclBase: named("f", "c:@F@f"), Result: voidT, Body: body(this)}
	_, _, err := run(t, cppast.NewUnit("t.cpp", f))
	require.Error(t, err)
	le, ok := clower.AsError(err)
	require.True(t, ok)
	assert.Equal(t, diag.FtlMissingReceiver, le.Code)
}

func TestValueDependentPackSizeFails(t *testing.T) {
	sz := &cppast.SizeOfPackExpr{ExprBase: rv(intT), Pack: "Ts", ValueDependent: true}
	f := &cppast.FunctionDecl{DeclBase: named("f", "c:@F@f"), Result: voidT, Body: body(sz)}
	_, _, err := run(t, cppast.NewUnit("t.cpp", f))
	require.Error(t, err)
	le, ok := clower.AsError(err)
	require.True(t, ok)
	assert.Equal(t, diag.LowValueDependent, le.Code)
	assert.False(t, clower.IsFatal(err))
}

func TestTryCatchAndNoexcept(t *testing.T) {
	e := &cppast.VarDecl{DeclBase: named("e", "c:@F@f@e"), Type: intT, Local: true}
	try := &cppast.CXXTryStmt{
		Try: body(),
		Handlers: []*cppast.CXXCatchStmt{
			{Handler: body()},
			{Exception: e, Caught: intT, Handler: body()},
		},
	}
	f := &cppast.FunctionDecl{
		DeclBase:   named("f", "c:@F@f"),
		Result:     voidT,
		Exceptions: cppast.ExceptionSpec{Kind: cppast.ExceptNoexcept},
		Body:       body(try),
	}
	l, _, err := run(t, cppast.NewUnit("t.cpp", f))
	require.NoError(t, err)

	fn, _ := l.Context.Find("c:@F@f")
	stmts := fn.Value.Operands
	require.Len(t, stmts, 2)
	require.Equal(t, ir.CodeThrowDecl, stmts[0].Kind)
	require.Len(t, stmts[0].Operands, 1)
	assert.Equal(t, ir.TypeNoexcept, stmts[0].Operands[0].Type.Kind)

	catch := stmts[1]
	require.Equal(t, ir.CodeCppCatch, catch.Kind)
	require.Len(t, catch.Operands, 3)
	assert.True(t, catch.Operands[1].Type.Ellipsis)
	typed := catch.Operands[2]
	assert.Equal(t, ir.TypeSignedBV, typed.Type.Kind)
	assert.Equal(t, ir.CodeDecl, typed.Operands[0].Kind)
}

func TestDependentTemplatesAreSkipped(t *testing.T) {
	spec := &cppast.FunctionDecl{DeclBase: named("id", "c:@FT@id#I"), Result: intT, Body: body(), Template: cppast.TSKExplicitSpecialization}
	dep := &cppast.FunctionDecl{DeclBase: named("id", "c:@FT@id#T"), Result: intT, Body: body()}
	dep.Dependent = true
	tmpl := &cppast.FunctionTemplateDecl{DeclBase: named("id", "c:@FT@id"), Specializations: []*cppast.FunctionDecl{dep, spec}}

	l, _, err := run(t, cppast.NewUnit("t.cpp", tmpl))
	require.NoError(t, err)
	_, ok := l.Context.Find("c:@FT@id#T")
	assert.False(t, ok)
	_, ok = l.Context.Find("c:@FT@id#I")
	assert.False(t, ok)

	l = New(cppast.NewUnit("t.cpp", tmpl), ir.NewContext(), Config{
		Config:                     clower.Config{Target: layout.X86_64LinuxGNU()},
		DumpExplicitInstantiations: true,
	})
	require.NoError(t, l.Run(context.Background()))
	_, ok = l.Context.Find("c:@FT@id#I")
	assert.True(t, ok)
}

func TestDynamicCastToNull(t *testing.T) {
	v, _, _ := virtualClass()
	vp := cppast.PointerTo(cppast.RecordTypeOf(v.Ref()))
	p := &cppast.ParmVarDecl{DeclBase: named("p", "c:@F@f@p"), Type: vp, Function: "c:@F@f"}
	cast := &cppast.CXXNamedCastExpr{
		ExprBase:   rv(vp),
		Style:      cppast.CastDynamicStyle,
		Kind:       cppast.CastDynamic,
		Sub:        load(p, vp),
		AlwaysNull: true,
	}
	f := &cppast.FunctionDecl{DeclBase: named("f", "c:@F@f"), Result: vp, Params: []*cppast.ParmVarDecl{p}, Body: body(&cppast.ReturnStmt{Value: cast})}
	l, _, err := run(t, cppast.NewUnit("t.cpp", v, f))
	require.NoError(t, err)

	fn, _ := l.Context.Find("c:@F@f")
	ret := fn.Value.Operands[0].Op0()
	require.Equal(t, ir.KindConstant, ret.Kind)
	assert.Equal(t, "NULL", ret.Value)
	assert.Equal(t, ir.TypePointer, ret.Type.Kind)
}

func TestNewAndDelete(t *testing.T) {
	v, _, _ := virtualClass()
	vp := cppast.PointerTo(cppast.RecordTypeOf(v.Ref()))
	ip := cppast.PointerTo(intT)
	p := &cppast.ParmVarDecl{DeclBase: named("p", "c:@F@f@p"), Type: vp, Index: 0, Function: "c:@F@f"}
	q := &cppast.ParmVarDecl{DeclBase: named("q", "c:@F@f@q"), Type: ip, Index: 1, Function: "c:@F@f"}
	f := &cppast.FunctionDecl{
		DeclBase: named("f", "c:@F@f"),
		Result:   voidT,
		Params:   []*cppast.ParmVarDecl{p, q},
		Body: body(
			&cppast.CXXNewExpr{ExprBase: rv(ip), Init: lit("3"), Allocated: intT},
			&cppast.CXXNewExpr{ExprBase: rv(ip), Array: true, Size: lit("4"), Allocated: intT},
			&cppast.CXXDeleteExpr{ExprBase: rv(voidT), Arg: load(p, vp), Destroyed: cppast.RecordTypeOf(v.Ref())},
			&cppast.CXXDeleteExpr{ExprBase: rv(voidT), Array: true, Arg: load(q, ip), Destroyed: intT},
		),
	}
	l, _, err := run(t, cppast.NewUnit("t.cpp", v, f))
	require.NoError(t, err)

	fn, _ := l.Context.Find("c:@F@f")
	require.Len(t, fn.Value.Operands, 4)
	stmt := func(i int) *ir.Expr {
		s := fn.Value.Operands[i]
		require.Equal(t, ir.CodeExpression, s.Kind)
		return s.Op0()
	}

	alloc := stmt(0)
	assert.Equal(t, ir.EffectNew, alloc.Effect)
	require.NotNil(t, alloc.Init)
	assert.Nil(t, alloc.Size)

	arr := stmt(1)
	assert.Equal(t, ir.EffectNewArray, arr.Effect)
	require.NotNil(t, arr.Size)
	assert.Equal(t, "4", arr.Size.Value)

	del := stmt(2)
	assert.Equal(t, ir.EffectDelete, del.Effect)
	assert.Equal(t, ir.TypeSymbol, del.Type.Kind)
	assert.Equal(t, "tag-V", del.Type.Ident)

	delArr := stmt(3)
	assert.Equal(t, ir.EffectDeleteArray, delArr.Effect)
	assert.Equal(t, ir.TypeEmpty, delArr.Type.Kind)
}

func TestRangeFor(t *testing.T) {
	local := func(name string, init cppast.Expr) *cppast.DeclStmt {
		return &cppast.DeclStmt{Decls: []cppast.Decl{
			&cppast.VarDecl{DeclBase: named(name, "c:t.cpp@F@f@"+name), Type: intT, Init: init, Local: true},
		}}
	}
	loop := &cppast.CXXForRangeStmt{
		Range:   local("__range", lit("0")),
		Begin:   local("__begin", lit("0")),
		End:     local("__end", lit("2")),
		LoopVar: local("x", lit("1")),
		Body:    body(),
	}
	f := &cppast.FunctionDecl{DeclBase: named("f", "c:@F@f"), Result: voidT, Body: body(loop)}
	l, _, err := run(t, cppast.NewUnit("t.cpp", f))
	require.NoError(t, err)

	fn, _ := l.Context.Find("c:@F@f")
	forStmt := fn.Value.Operands[0]
	require.Equal(t, ir.CodeFor, forStmt.Kind)
	require.Len(t, forStmt.Operands, 4)

	decls := forStmt.Operands[0]
	require.Equal(t, ir.CodeDeclBlock, decls.Kind)
	assert.Len(t, decls.Operands, 3)
	assert.True(t, forStmt.Operands[2].IsSkip())

	loopBody := forStmt.Operands[3]
	require.Equal(t, ir.CodeBlock, loopBody.Kind)
	require.NotEmpty(t, loopBody.Operands)
	assert.Equal(t, ir.CodeDecl, loopBody.Operands[0].Kind)
}

func TestRangeForWithoutTemporaries(t *testing.T) {
	x := &cppast.VarDecl{DeclBase: named("x", "c:t.cpp@F@f@x"), Type: intT, Init: lit("1"), Local: true}
	loop := &cppast.CXXForRangeStmt{LoopVar: &cppast.DeclStmt{Decls: []cppast.Decl{x}}, Body: body()}
	f := &cppast.FunctionDecl{DeclBase: named("f", "c:@F@f"), Result: voidT, Body: body(loop)}
	l, _, err := run(t, cppast.NewUnit("t.cpp", f))
	require.NoError(t, err)

	fn, _ := l.Context.Find("c:@F@f")
	forStmt := fn.Value.Operands[0]
	require.Equal(t, ir.CodeFor, forStmt.Kind)
	assert.True(t, forStmt.Operands[0].IsSkip())
}

func TestRangeForNeedsLoopVariable(t *testing.T) {
	f := &cppast.FunctionDecl{DeclBase: named("f", "c:@F@f"), Result: voidT, Body: body(&cppast.CXXForRangeStmt{Body: body()})}
	_, _, err := run(t, cppast.NewUnit("t.cpp", f))
	require.Error(t, err)
}

// lambdaClass builds closure class L whose call operator returns ret.
func lambdaClass(ret cppast.Expr, info *cppast.LambdaInfo, fields ...cppast.Decl) (*cppast.RecordDecl, *cppast.FunctionDecl) {
	op := &cppast.FunctionDecl{
		DeclBase: named("operator()", "c:@S@L@F@operator()#"),
		Result:   intT,
		Body:     body(&cppast.ReturnStmt{Value: ret}),
		Method:   &cppast.MethodInfo{Parent: "c:@S@L", LambdaCallOperator: true},
	}
	info.CallOperator = op.Ref()
	class := record("L", append(fields, op)...)
	class.Tag = cppast.TagClass
	class.Lambda = info
	return class, op
}

// readThisV is this->v on a receiver of class S.
func readThisV(s *cppast.RecordDecl, v *cppast.FieldDecl) cppast.Expr {
	sp := cppast.PointerTo(cppast.RecordTypeOf(s.Ref()))
	return &cppast.ImplicitCastExpr{
		ExprBase: rv(intT),
		Kind:     cppast.CastLValueToRValue,
		Sub: &cppast.MemberExpr{
			ExprBase: cppast.ExprBase{Type: intT, LValue: true},
			Base:     &cppast.CXXThisExpr{ExprBase: rv(sp)},
			Member:   v.Ref(),
			Name:     "v",
			Arrow:    true,
		},
	}
}

func lambdaResult(t *testing.T, l *Lowerer, op *cppast.FunctionDecl) *ir.Expr {
	t.Helper()
	sym, ok := l.Context.Find(string(op.Ref()))
	require.True(t, ok)
	require.NotNil(t, sym.Value)
	require.NotEmpty(t, sym.Value.Operands)
	ret := sym.Value.Operands[0]
	require.Equal(t, ir.CodeReturn, ret.Kind)
	return ret.Op0()
}

// closureAccess checks that e is (*this).<field> of the call operator.
func closureAccess(t *testing.T, e *ir.Expr, field string) {
	t.Helper()
	require.Equal(t, ir.KindMember, e.Kind)
	assert.Equal(t, field, e.Ident)
	obj := e.Op0()
	require.Equal(t, ir.KindDereference, obj.Kind)
	require.Equal(t, ir.KindSymbol, obj.Op0().Kind)
	assert.Equal(t, "c:@S@L@F@operator()#::this", obj.Op0().Ident)
}

func TestLambdaCopiedThisIsAddressed(t *testing.T) {
	v := field("S", "v", intT)
	s := record("S", v)
	captured := field("L", "__this", cppast.RecordTypeOf(s.Ref()))
	class, op := lambdaClass(readThisV(s, v), &cppast.LambdaInfo{ThisField: captured.Ref()}, captured)

	l, _, err := run(t, cppast.NewUnit("t.cpp", s, class))
	require.NoError(t, err)

	ret := lambdaResult(t, l, op)
	require.Equal(t, ir.KindMember, ret.Kind)
	assert.Equal(t, string(v.Ref()), ret.Ident)
	deref := ret.Op0()
	require.Equal(t, ir.KindDereference, deref.Kind)
	addr := deref.Op0()
	require.Equal(t, ir.KindAddressOf, addr.Kind)
	closureAccess(t, addr.Op0(), string(captured.Ref()))
}

func TestLambdaCapturedThisPointer(t *testing.T) {
	v := field("S", "v", intT)
	s := record("S", v)
	captured := field("L", "__this", cppast.PointerTo(cppast.RecordTypeOf(s.Ref())))
	class, op := lambdaClass(readThisV(s, v), &cppast.LambdaInfo{ThisField: captured.Ref()}, captured)

	l, _, err := run(t, cppast.NewUnit("t.cpp", s, class))
	require.NoError(t, err)

	ret := lambdaResult(t, l, op)
	require.Equal(t, ir.KindMember, ret.Kind)
	deref := ret.Op0()
	require.Equal(t, ir.KindDereference, deref.Kind)
	closureAccess(t, deref.Op0(), string(captured.Ref()))
}

func TestLambdaByReferenceCaptureIsDereferenced(t *testing.T) {
	x := &cppast.VarDecl{DeclBase: named("x", "c:@F@f@x"), Type: intT, Local: true, Init: lit("1")}
	f := &cppast.FunctionDecl{DeclBase: named("f", "c:@F@f"), Result: voidT, Body: body(&cppast.DeclStmt{Decls: []cppast.Decl{x}})}
	fx := field("L", "x", cppast.LValueRefTo(intT))
	class, op := lambdaClass(load(x, intT), &cppast.LambdaInfo{Captures: []cppast.CaptureField{{Var: x.Ref(), Field: fx.Ref()}}}, fx)

	l, _, err := run(t, cppast.NewUnit("t.cpp", f, class))
	require.NoError(t, err)

	ret := lambdaResult(t, l, op)
	require.Equal(t, ir.KindDereference, ret.Kind)
	assert.True(t, ret.Has(ir.FlagImplicit))
	closureAccess(t, ret.Op0(), string(fx.Ref()))
}
