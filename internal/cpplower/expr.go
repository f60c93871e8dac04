package cpplower

import (
	"fortio.org/safecast"

	"cxxfront/internal/clower"
	"cxxfront/internal/cppast"
	"cxxfront/internal/diag"
	"cxxfront/internal/ir"
	"cxxfront/internal/source"
)

// LowerExpr lowers the C++ expression and statement kinds and hands the
// rest to the base lowering.
func (l *Lowerer) LowerExpr(s cppast.Stmt) (*ir.Expr, error) {
	p := l.takeInit(s)
	var (
		out *ir.Expr
		err error
	)
	switch e := s.(type) {
	case *cppast.DeclRefExpr:
		d, lerr := l.Lookup(e.Decl, e.Loc)
		if lerr != nil {
			return nil, lerr
		}
		out, err = l.lowerDeclRef(d, p.mode == initMember, e.Loc)
	case *cppast.CallExpr:
		out, err = l.Lowerer.LowerExpr(e)
		if err == nil {
			out = l.referenceResult(out)
		}
	case *cppast.CXXBoolLiteralExpr:
		out = ir.False()
		if e.Value {
			out = ir.True()
		}
	case *cppast.CXXNullPtrLiteralExpr:
		var t *ir.Type
		if t, err = l.ExprType(e); err == nil {
			out = ir.Constant("NULL", t)
		}
	case *cppast.CXXNamedCastExpr:
		out, err = l.lowerNamedCast(e)
	case *cppast.CXXDefaultArgExpr:
		out, err = l.LowerExpr(e.Expr)
	case *cppast.CXXDefaultInitExpr:
		out, err = l.LowerExpr(e.Expr)
	case *cppast.ExprWithCleanups:
		out, err = l.LowerExpr(e.Sub)
	case *cppast.SubstNonTypeTemplateParmExpr:
		out, err = l.LowerExpr(e.Replacement)
	case *cppast.CXXBindTemporaryExpr:
		if out, err = l.LowerExpr(e.Sub); err == nil {
			out = makeTemporary(out)
		}
	case *cppast.MaterializeTemporaryExpr:
		out, err = l.lowerMaterialize(e)
	case *cppast.CXXConstructExpr:
		out, err = l.lowerConstruct(e, p)
	case *cppast.CXXMemberCallExpr:
		out, err = l.lowerMemberCall(e)
	case *cppast.CXXOperatorCallExpr:
		out, err = l.lowerOperatorCall(e)
	case *cppast.CXXNewExpr:
		out, err = l.lowerNew(e)
	case *cppast.CXXDeleteExpr:
		out, err = l.lowerDelete(e)
	case *cppast.CXXPseudoDestructorExpr:
		var base *ir.Expr
		if base, err = l.LowerExpr(e.Base); err == nil {
			out = &ir.Expr{Kind: ir.KindPseudoDestructor, Type: ir.Empty(), Operands: []*ir.Expr{base}}
		}
	case *cppast.CXXScalarValueInitExpr:
		out, err = l.zeroOf(e)
	case *cppast.ArrayInitIndexExpr:
		out, err = l.zeroOf(e)
	case *cppast.CXXThisExpr:
		out, err = l.lowerThis(e.Loc)
	case *cppast.SizeOfPackExpr:
		out, err = l.lowerSizeOfPack(e)
	case *cppast.CXXThrowExpr:
		out, err = l.lowerThrow(e)
	case *cppast.CXXTypeidExpr:
		out, err = l.lowerTypeid(e)
	case *cppast.LambdaExpr:
		out, err = l.lowerLambda(e)
	case *cppast.CXXStdInitializerListExpr:
		out, err = l.lowerInitializerList(e)
	case *cppast.ArrayInitLoopExpr:
		out, err = l.lowerArrayInitLoop(e)
	case *cppast.CXXForRangeStmt:
		out, err = l.lowerRangeFor(e)
	case *cppast.CXXTryStmt:
		out, err = l.lowerTry(e)
	case *cppast.CXXCatchStmt:
		out, err = l.lowerCatch(e)
	default:
		return l.Lowerer.LowerExpr(s)
	}
	if err != nil {
		return nil, err
	}
	if loc := s.Location(); !loc.IsZero() {
		out.Loc = loc
	}
	return out, nil
}

func (l *Lowerer) zeroOf(e cppast.Expr) (*ir.Expr, error) {
	t, err := l.ExprType(e)
	if err != nil {
		return nil, err
	}
	return l.GenZero(t)
}

// derefReference reads through a reference-typed value.
func derefReference(e *ir.Expr) *ir.Expr {
	d := ir.Dereference(e, e.Type.Subtype.Clone())
	d.Flags |= ir.FlagImplicit
	return d
}

// referenceResult dereferences the result of a call returning a reference.
func (l *Lowerer) referenceResult(call *ir.Expr) *ir.Expr {
	if call.Kind != ir.KindSideEffect || call.Effect != ir.EffectCall {
		return call
	}
	ft := l.Context.Follow(call.Op0().Type)
	if !ft.IsCode() || !ft.Return.IsReference() {
		return call
	}
	call.Type = ft.Return.Clone()
	return derefReference(call)
}

// LowerDeclRef resolves captured variables and reads through references.
func (l *Lowerer) LowerDeclRef(d cppast.Decl) (*ir.Expr, error) {
	return l.lowerDeclRef(d, false, d.Common().Loc)
}

// lowerDeclRef lowers a reference to d. A reference variable used as the
// value of a member initializer stays a pointer, binding the member.
func (l *Lowerer) lowerDeclRef(d cppast.Decl, memberInit bool, loc source.Location) (*ir.Expr, error) {
	if e, ok, err := l.capturedRef(d, loc); ok || err != nil {
		return e, err
	}
	if v, ok := d.(*cppast.FieldDecl); ok && v.Static {
		sym, err := l.lowerStaticField(v)
		if err != nil {
			return nil, err
		}
		return sym.Expr(), nil
	}
	e, err := l.Lowerer.LowerDeclRef(d)
	if err != nil {
		return nil, err
	}
	switch d.(type) {
	case *cppast.VarDecl, *cppast.ParmVarDecl:
		if !memberInit && e.Type.IsReference() {
			return derefReference(e), nil
		}
	}
	return e, nil
}

// capturedRef rewrites a use of a captured variable inside a lambda body
// into an access to its closure field.
func (l *Lowerer) capturedRef(d cppast.Decl, loc source.Location) (*ir.Expr, bool, error) {
	f := l.Current()
	if f == nil || f.Method == nil || !f.Method.LambdaCallOperator {
		return nil, false, nil
	}
	c := l.captures[f.Ref()]
	if c == nil {
		return nil, false, nil
	}
	field, ok := c.fields[d.Common().Ref()]
	if !ok {
		return nil, false, nil
	}
	m, err := l.closureField(field, loc)
	if err != nil {
		return nil, true, err
	}
	if m.Type.IsReference() {
		return derefReference(m), true, nil
	}
	return m, true, nil
}

// closureField accesses a field of the closure object of the current
// lambda.
func (l *Lowerer) closureField(field cppast.Ref, loc source.Location) (*ir.Expr, error) {
	fd, ok := l.Unit.LookupField(field)
	if !ok {
		return nil, clower.Unresolvedf(loc, "closure field %q", field)
	}
	_, id, err := l.DeclName(fd)
	if err != nil {
		return nil, err
	}
	ft, err := l.LowerType(fd.Type)
	if err != nil {
		return nil, err
	}
	b, err := l.receiver(loc)
	if err != nil {
		return nil, err
	}
	obj := ir.Dereference(b.expr(), l.Context.Follow(b.Type).Subtype.Clone())
	return ir.Member(obj, id, ft), nil
}

// lowerThis resolves the receiver. In a lambda body it is the captured
// receiver; a receiver captured by copy is an object, so its address is
// taken.
func (l *Lowerer) lowerThis(loc source.Location) (*ir.Expr, error) {
	if f := l.Current(); f != nil && f.Method != nil && f.Method.LambdaCallOperator {
		if c := l.captures[f.Ref()]; c != nil && c.this != "" {
			m, err := l.closureField(c.this, loc)
			if err != nil {
				return nil, err
			}
			if !l.Context.Follow(m.Type).IsPointer() {
				return l.AddressOf(m), nil
			}
			return m, nil
		}
	}
	b, err := l.receiver(loc)
	if err != nil {
		return nil, err
	}
	return b.expr(), nil
}

func (l *Lowerer) lowerNamedCast(e *cppast.CXXNamedCastExpr) (*ir.Expr, error) {
	t, err := l.ExprType(e)
	if err != nil {
		return nil, err
	}
	if e.Style == cppast.CastDynamicStyle && e.AlwaysNull {
		return ir.Constant("NULL", t), nil
	}
	v, err := l.LowerExpr(e.Sub)
	if err != nil {
		return nil, err
	}
	return l.LowerCast(e.Kind, v, t)
}

// makeTemporary wraps v in a temporary object. Constructor calls become
// the initializer of the temporary.
func makeTemporary(v *ir.Expr) *ir.Expr {
	if v.Kind == ir.KindSideEffect && v.Effect == ir.EffectTemporary {
		return v
	}
	tmp := ir.SideEffect(ir.EffectTemporary, v.Type.Clone())
	if v.Has(ir.FlagConstructor) {
		tmp.Init = ir.AsCode(v)
	} else {
		tmp.Operands = []*ir.Expr{v}
	}
	tmp.Loc = v.Loc
	return tmp
}

func (l *Lowerer) lowerMaterialize(e *cppast.MaterializeTemporaryExpr) (*ir.Expr, error) {
	v, err := l.LowerExpr(e.Sub)
	if err != nil {
		return nil, err
	}
	addr := l.AddressOf(makeTemporary(v))
	if e.BoundToLValueRef {
		addr.Type.Reference = true
	} else {
		addr.Type.RValueReference = true
	}
	return addr, nil
}

// lowerConstruct lowers a constructor call under the convention p: the
// cast receiver of a base initializer, the member of a member initializer,
// the receiver of a delegating initializer, or else a fresh object
// materialized as a temporary.
func (l *Lowerer) lowerConstruct(e *cppast.CXXConstructExpr, p pendingInit) (*ir.Expr, error) {
	ctor, ok := l.Unit.LookupFunction(e.Ctor)
	if !ok {
		return nil, clower.Unresolvedf(e.Loc, "constructor %q", e.Ctor)
	}
	sym, err := l.LowerFunction(ctor)
	if err != nil {
		return nil, err
	}
	t, err := l.ExprType(e)
	if err != nil {
		return nil, err
	}
	ftype := l.Context.Follow(sym.Type)

	var recv *ir.Expr
	switch p.mode {
	case initBase:
		recv = p.this
		if len(ftype.Params) > 0 {
			recv = ir.Typecast(recv, ftype.Params[0].Type.Clone())
		}
	case initMember:
		recv = p.target
	case initDelegating:
		recv = p.this
	default:
		obj := &ir.Expr{Kind: ir.KindNewObject, Type: t.Clone(), Flags: ir.FlagLvalue, Loc: e.Loc}
		recv = l.AddressOf(obj)
	}
	args, err := l.LowerArgs(ftype, e.Args, 1)
	if err != nil {
		return nil, err
	}
	call := ir.Call(sym.Expr(), t, append([]*ir.Expr{recv}, args...)...)
	call.Flags |= ir.FlagConstructor
	call.Loc = e.Loc
	if p.mode == initNone {
		return makeTemporary(call), nil
	}
	return call, nil
}

// objectPointer lowers the object of a member access as a pointer.
func (l *Lowerer) objectPointer(m *cppast.MemberExpr) (*ir.Expr, error) {
	base, err := l.LowerExpr(m.Base)
	if err != nil {
		return nil, err
	}
	if m.Arrow || base.Type.IsReference() {
		return base, nil
	}
	return l.AddressOf(base), nil
}

// object lowers the object of a member access as an lvalue.
func (l *Lowerer) object(m *cppast.MemberExpr) (*ir.Expr, error) {
	base, err := l.LowerExpr(m.Base)
	if err != nil {
		return nil, err
	}
	bt := l.Context.Follow(base.Type)
	if !m.Arrow && !bt.IsReference() {
		return base, nil
	}
	if !bt.IsPointer() {
		return nil, clower.Malformedf(m.Loc, "arrow access through %s", base.Type)
	}
	return ir.Dereference(base, bt.Subtype.Clone()), nil
}

// method returns the function a member call or member access names. An
// unqualified virtual method is loaded from the vtable of the object.
func (l *Lowerer) method(md *cppast.FunctionDecl, objPtr *ir.Expr, qualified bool, loc source.Location) (*ir.Expr, error) {
	if md.Method.Virtual && !qualified {
		pt := l.Context.Follow(objPtr.Type)
		if !pt.IsPointer() {
			return nil, clower.Malformedf(loc, "virtual call through %s", objPtr.Type)
		}
		return l.virtualCallee(ir.Dereference(objPtr.Clone(), pt.Subtype.Clone()), md, loc)
	}
	sym, err := l.LowerFunction(md)
	if err != nil {
		return nil, err
	}
	return sym.Expr(), nil
}

// LowerMemberExpr handles static members, methods and reference fields on
// top of the base field access.
func (l *Lowerer) LowerMemberExpr(m *cppast.MemberExpr) (*ir.Expr, error) {
	d, err := l.Lookup(m.Member, m.Loc)
	if err != nil {
		return nil, err
	}
	switch d := d.(type) {
	case *cppast.FunctionDecl:
		if d.Method == nil || d.Method.Static {
			return l.lowerDeclRef(d, false, m.Loc)
		}
		objPtr, err := l.objectPointer(m)
		if err != nil {
			return nil, err
		}
		return l.method(d, objPtr, m.Qualified, m.Loc)
	case *cppast.VarDecl:
		return l.lowerDeclRef(d, false, m.Loc)
	case *cppast.FieldDecl:
		if d.Static {
			return l.lowerDeclRef(d, false, m.Loc)
		}
		obj, err := l.object(m)
		if err != nil {
			return nil, err
		}
		_, id, err := l.DeclName(d)
		if err != nil {
			return nil, err
		}
		ft, err := l.LowerType(d.Type)
		if err != nil {
			return nil, err
		}
		if ft.IsReference() {
			return derefReference(ir.Member(obj, id, ft)), nil
		}
		t, err := l.ExprType(m)
		if err != nil {
			return nil, err
		}
		return ir.Member(obj, id, t), nil
	}
	return nil, clower.Unsupportedf(m.Loc, "member %q is a %s", m.Name, cppast.KindName(d))
}

// lowerMemberCall passes the object as a pointer ahead of the arguments.
func (l *Lowerer) lowerMemberCall(e *cppast.CXXMemberCallExpr) (*ir.Expr, error) {
	m := e.Callee
	if m == nil {
		return nil, clower.Malformedf(e.Loc, "member call without callee")
	}
	d, err := l.Lookup(m.Member, m.Loc)
	if err != nil {
		return nil, err
	}
	md, ok := d.(*cppast.FunctionDecl)
	if !ok || md.Method == nil {
		return nil, clower.Malformedf(e.Loc, "member call of %s", cppast.KindName(d))
	}
	t, err := l.ExprType(e)
	if err != nil {
		return nil, err
	}
	if md.Method.Static {
		sym, err := l.LowerFunction(md)
		if err != nil {
			return nil, err
		}
		args, err := l.LowerArgs(l.Context.Follow(sym.Type), e.Args, 0)
		if err != nil {
			return nil, err
		}
		return l.referenceResult(ir.Call(sym.Expr(), t, args...)), nil
	}
	objPtr, err := l.objectPointer(m)
	if err != nil {
		return nil, err
	}
	fn, err := l.method(md, objPtr, m.Qualified, m.Loc)
	if err != nil {
		return nil, err
	}
	return l.callMethod(fn, t, objPtr, e.Args)
}

func (l *Lowerer) callMethod(fn *ir.Expr, t *ir.Type, objPtr *ir.Expr, args []cppast.Expr) (*ir.Expr, error) {
	ftype := l.Context.Follow(fn.Type)
	this := objPtr
	if ftype.IsCode() && len(ftype.Params) > 0 {
		this = l.BindValue(ftype.Params[0].Type, objPtr)
	}
	rest, err := l.LowerArgs(ftype, args, 1)
	if err != nil {
		return nil, err
	}
	return l.referenceResult(ir.Call(fn, t, append([]*ir.Expr{this}, rest...)...)), nil
}

// lowerOperatorCall lowers an overloaded operator. A member operator takes
// its first operand as the receiver.
func (l *Lowerer) lowerOperatorCall(e *cppast.CXXOperatorCallExpr) (*ir.Expr, error) {
	t, err := l.ExprType(e)
	if err != nil {
		return nil, err
	}
	md := l.calleeMethod(e.Callee)
	if md != nil && !md.Method.Static && len(e.Args) > 0 {
		obj, err := l.LowerExpr(e.Args[0])
		if err != nil {
			return nil, err
		}
		objPtr := obj
		if !obj.Type.IsReference() {
			objPtr = l.AddressOf(obj)
		}
		fn, err := l.method(md, objPtr, false, e.Loc)
		if err != nil {
			return nil, err
		}
		return l.callMethod(fn, t, objPtr, e.Args[1:])
	}
	callee, err := l.LowerExpr(e.Callee)
	if err != nil {
		return nil, err
	}
	fn := l.Callee(callee)
	args, err := l.LowerArgs(l.Context.Follow(fn.Type), e.Args, 0)
	if err != nil {
		return nil, err
	}
	return l.referenceResult(ir.Call(fn, t, args...)), nil
}

// calleeMethod finds the method named by a callee expression, if any.
func (l *Lowerer) calleeMethod(e cppast.Expr) *cppast.FunctionDecl {
	for {
		switch c := e.(type) {
		case *cppast.ImplicitCastExpr:
			e = c.Sub
			continue
		case *cppast.ParenExpr:
			e = c.Sub
			continue
		case *cppast.DeclRefExpr:
			if f, ok := l.Unit.LookupFunction(c.Decl); ok && f.Method != nil {
				return f
			}
		case *cppast.MemberExpr:
			if f, ok := l.Unit.LookupFunction(c.Member); ok && f.Method != nil {
				return f
			}
		}
		return nil
	}
}

func (l *Lowerer) lowerNew(e *cppast.CXXNewExpr) (*ir.Expr, error) {
	t, err := l.ExprType(e)
	if err != nil {
		return nil, err
	}
	eff := ir.EffectNew
	if e.Array {
		eff = ir.EffectNewArray
	}
	out := ir.SideEffect(eff, t)
	if e.Size != nil {
		if out.Size, err = l.LowerExpr(e.Size); err != nil {
			return nil, err
		}
	}
	if e.Init != nil {
		init, err := l.LowerExpr(e.Init)
		if err != nil {
			return nil, err
		}
		out.Init = ir.AsCode(init)
	}
	return out, nil
}

// lowerDelete retypes the deallocation of a polymorphic object to the
// destroyed class.
func (l *Lowerer) lowerDelete(e *cppast.CXXDeleteExpr) (*ir.Expr, error) {
	arg, err := l.LowerExpr(e.Arg)
	if err != nil {
		return nil, err
	}
	eff := ir.EffectDelete
	if e.Array {
		eff = ir.EffectDeleteArray
	}
	out := ir.SideEffect(eff, ir.Empty(), arg)
	if e.Destroyed != nil {
		dt, err := l.LowerType(e.Destroyed)
		if err != nil {
			return nil, err
		}
		if hasVptr(l.Context.Follow(dt)) {
			out.Type = dt
		}
	}
	return out, nil
}

func (l *Lowerer) lowerSizeOfPack(e *cppast.SizeOfPackExpr) (*ir.Expr, error) {
	if e.ValueDependent {
		return nil, clower.Failf(diag.LowValueDependent, e.Loc, "size of pack %s depends on template arguments", e.Pack)
	}
	t, err := l.ExprType(e)
	if err != nil {
		return nil, err
	}
	return ir.Typecast(ir.IntConstant(e.Length, l.SizeType()), t), nil
}

func (l *Lowerer) lowerThrow(e *cppast.CXXThrowExpr) (*ir.Expr, error) {
	out := ir.SideEffect(ir.EffectThrow, ir.Empty())
	if e.Sub == nil {
		return out, nil
	}
	v, err := l.LowerExpr(e.Sub)
	if err != nil {
		return nil, err
	}
	out.Operands = []*ir.Expr{v}
	out.Type = v.Type.Clone()
	return out, nil
}

// lowerTypeid builds a type-info object from the static type: a pointer
// to the type name and a null vtable pointer.
func (l *Lowerer) lowerTypeid(e *cppast.CXXTypeidExpr) (*ir.Expr, error) {
	t, err := l.ExprType(e)
	if err != nil {
		return nil, err
	}
	if e.Polymorphic {
		l.Warn(diag.WrnPolymorphicType, e.Loc, "typeid of polymorphic %s uses the static type", e.TypeName)
	}
	char, err := l.LowerType(cppast.Builtin(cppast.Char))
	if err != nil {
		return nil, err
	}
	size := ir.IntConstant(uint64(len(e.TypeName))+1, l.SizeType())
	str := &ir.Expr{
		Kind:  ir.KindStringConstant,
		Value: e.TypeName,
		Type:  ir.ArrayOf(char, size),
		Flags: ir.FlagLvalue,
		Loc:   e.Loc,
	}
	name := l.AddressOf(ir.Index(str, ir.IntConstant(0, l.IndexType()), char.Clone()))
	vptr := ir.Constant("NULL", l.PointerTo(ir.Empty()))
	info := &ir.Expr{Kind: ir.KindStruct, Type: t, Operands: []*ir.Expr{name, vptr}, Loc: e.Loc}
	return makeTemporary(info), nil
}

// lowerLambda builds the closure object from the capture initializers in
// capture order. By-reference captures store addresses.
func (l *Lowerer) lowerLambda(e *cppast.LambdaExpr) (*ir.Expr, error) {
	if e.Class == nil {
		return nil, clower.Malformedf(e.Loc, "lambda without closure class")
	}
	if err := l.LowerRecord(e.Class); err != nil {
		return nil, err
	}
	t, err := l.ExprType(e)
	if err != nil {
		return nil, err
	}
	out := &ir.Expr{Kind: ir.KindStruct, Type: t}
	for i, in := range e.Inits {
		v, err := l.LowerExpr(in)
		if err != nil {
			return nil, err
		}
		if i < len(e.Captures) && e.Captures[i].Kind == cppast.CaptureByRef {
			v = l.AddressOf(v)
		}
		out.Operands = append(out.Operands, v)
	}
	return out, nil
}

// lowerInitializerList builds the {array, length} pair of a
// std::initializer_list.
func (l *Lowerer) lowerInitializerList(e *cppast.CXXStdInitializerListExpr) (*ir.Expr, error) {
	t, err := l.ExprType(e)
	if err != nil {
		return nil, err
	}
	list, err := l.LowerExpr(e.Sub)
	if err != nil {
		return nil, err
	}
	arr := l.Context.Follow(list.Type)
	if arr.IsPointer() {
		arr = l.Context.Follow(arr.Subtype)
	}
	if !arr.IsArray() || arr.Size == nil {
		return nil, clower.Malformedf(e.Loc, "initializer list over %s", list.Type)
	}
	ops := []*ir.Expr{list, arr.Size.Clone()}
	if st := l.Context.Follow(t); st.IsStructOrUnion() && len(st.Components) >= 2 {
		ops[0] = l.BindValue(st.Components[0].Type, ops[0])
		ops[1] = l.BindValue(st.Components[1].Type, ops[1])
	}
	return &ir.Expr{Kind: ir.KindStruct, Type: t, Operands: ops}, nil
}

// lowerArrayInitLoop expands an array copy into one element initializer
// per index.
func (l *Lowerer) lowerArrayInitLoop(e *cppast.ArrayInitLoopExpr) (*ir.Expr, error) {
	t, err := l.ExprType(e)
	if err != nil {
		return nil, err
	}
	sub, err := l.LowerExpr(e.Sub)
	if err != nil {
		return nil, err
	}
	if idx := stripCasts(sub); idx.Kind != ir.KindIndex {
		return nil, clower.Failf(diag.LowArrayInitLoop, e.Loc, "array init loop element is %s, not an index", idx.Kind)
	}
	n, err := safecast.Conv[int](e.Size)
	if err != nil {
		return nil, clower.Unsupportedf(e.Loc, "array init loop of %d elements", e.Size)
	}
	out := &ir.Expr{Kind: ir.KindArray, Type: t, Operands: make([]*ir.Expr, 0, n)}
	for i := range n {
		v := sub.Clone()
		idx := stripCasts(v)
		idx.Operands[1] = ir.IntConstant(uint64(i), idx.Operands[1].Type.Clone())
		out.Operands = append(out.Operands, v)
	}
	return out, nil
}

func stripCasts(e *ir.Expr) *ir.Expr {
	for e.Kind == ir.KindTypecast {
		e = e.Op0()
	}
	return e
}

// BindValue binds references: a value stored into a reference becomes its
// address unless it already is one.
func (l *Lowerer) BindValue(target *ir.Type, e *ir.Expr) *ir.Expr {
	if target == nil || e.Type == nil || !target.IsReference() {
		return l.Lowerer.BindValue(target, e)
	}
	if e.Type.IsReference() {
		return l.Lowerer.BindValue(target, e)
	}
	if e.Kind == ir.KindDereference && e.Has(ir.FlagImplicit) {
		return l.Lowerer.BindValue(target, e.Op0())
	}
	addr := l.AddressOf(e)
	addr.Type.Reference = target.Reference
	addr.Type.RValueReference = target.RValueReference
	return l.Lowerer.BindValue(target, addr)
}
