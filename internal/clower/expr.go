package clower

import (
	"strconv"

	"fortio.org/safecast"

	"cxxfront/internal/cppast"
	"cxxfront/internal/ir"
)

// ExprType lowers the resolved type of e.
func (l *Lowerer) ExprType(e cppast.Expr) (*ir.Type, error) {
	return l.hooks.LowerType(e.ExprType())
}

func (l *Lowerer) lowerExpr(e cppast.Expr) (*ir.Expr, error) {
	switch e := e.(type) {
	case *cppast.IntegerLiteral:
		return l.literal(e, e.Value)
	case *cppast.FloatingLiteral:
		return l.literal(e, e.Value)
	case *cppast.CharacterLiteral:
		return l.literal(e, strconv.FormatInt(e.Value, 10))
	case *cppast.StringLiteral:
		t, err := l.ExprType(e)
		if err != nil {
			return nil, err
		}
		return &ir.Expr{Kind: ir.KindStringConstant, Value: e.Value, Type: t, Flags: ir.FlagLvalue}, nil
	case *cppast.DeclRefExpr:
		d, err := l.Lookup(e.Decl, e.Loc)
		if err != nil {
			return nil, err
		}
		return l.hooks.LowerDeclRef(d)
	case *cppast.ParenExpr:
		return l.hooks.LowerExpr(e.Sub)
	case *cppast.ImplicitCastExpr:
		return l.lowerCastExpr(e, e.Kind, e.Sub)
	case *cppast.CStyleCastExpr:
		return l.lowerCastExpr(e, e.Kind, e.Sub)
	case *cppast.UnaryOperator:
		return l.lowerUnary(e)
	case *cppast.BinaryOperator:
		return l.lowerBinary(e)
	case *cppast.ConditionalOperator:
		return l.lowerConditional(e)
	case *cppast.CallExpr:
		return l.lowerCall(e)
	case *cppast.MemberExpr:
		return l.hooks.LowerMemberExpr(e)
	case *cppast.ArraySubscriptExpr:
		return l.lowerSubscript(e)
	case *cppast.InitListExpr:
		return l.lowerInitList(e)
	case *cppast.SizeOfExpr:
		t, err := l.ExprType(e)
		if err != nil {
			return nil, err
		}
		return ir.Typecast(ir.IntConstant(e.Value, l.SizeType()), t), nil
	case *cppast.ImplicitValueInitExpr:
		t, err := l.ExprType(e)
		if err != nil {
			return nil, err
		}
		return l.GenZero(t)
	case *cppast.OpaqueValueExpr:
		if e.Source == nil {
			return nil, Malformedf(e.Loc, "opaque value without source")
		}
		return l.hooks.LowerExpr(e.Source)
	default:
		return nil, Unsupportedf(e.Location(), "expression %s", cppast.KindName(e))
	}
}

func (l *Lowerer) literal(e cppast.Expr, value string) (*ir.Expr, error) {
	t, err := l.ExprType(e)
	if err != nil {
		return nil, err
	}
	return ir.Constant(value, t), nil
}

// LowerDeclRef lowers a reference to a named entity. Globals and functions
// not yet in the symbol table are lowered on demand.
func (l *Lowerer) LowerDeclRef(d cppast.Decl) (*ir.Expr, error) {
	switch d := d.(type) {
	case *cppast.VarDecl:
		_, id, err := l.hooks.DeclName(d)
		if err != nil {
			return nil, err
		}
		sym, ok := l.Context.Find(id)
		if !ok {
			if d.Local && d.Storage != cppast.StorageStatic {
				return nil, Unresolvedf(d.Loc, "local %q used before its declaration", d.Name)
			}
			if _, err := l.hooks.LowerVar(d); err != nil {
				return nil, err
			}
			if sym, ok = l.Context.Find(id); !ok {
				return nil, Unresolvedf(d.Loc, "variable %q", d.Name)
			}
		}
		return sym.Expr(), nil
	case *cppast.ParmVarDecl:
		name, id, err := l.hooks.DeclName(d)
		if err != nil {
			return nil, err
		}
		if id == "" {
			if name, id, err = l.hooks.NameUnnamedParam(d); err != nil {
				return nil, err
			}
		}
		sym, ok := l.Context.Find(id)
		if !ok {
			return nil, Unresolvedf(d.Loc, "parameter %q", name)
		}
		return sym.Expr(), nil
	case *cppast.FunctionDecl:
		sym, err := l.LowerFunction(d)
		if err != nil {
			return nil, err
		}
		return sym.Expr(), nil
	case *cppast.EnumConstantDecl:
		t, err := l.hooks.LowerType(d.Type)
		if err != nil {
			return nil, err
		}
		return ir.Constant(strconv.FormatInt(d.Value, 10), t), nil
	case *cppast.FieldDecl:
		return nil, Malformedf(d.Loc, "field %q referenced without an object", d.Name)
	default:
		return nil, Unsupportedf(d.Common().Loc, "reference to %s", cppast.KindName(d))
	}
}

func (l *Lowerer) lowerCastExpr(e cppast.Expr, kind cppast.CastKind, sub cppast.Expr) (*ir.Expr, error) {
	v, err := l.hooks.LowerExpr(sub)
	if err != nil {
		return nil, err
	}
	t, err := l.ExprType(e)
	if err != nil {
		return nil, err
	}
	return l.LowerCast(kind, v, t)
}

// LowerCast converts v to the type to according to the cast kind.
func (l *Lowerer) LowerCast(kind cppast.CastKind, v *ir.Expr, to *ir.Type) (*ir.Expr, error) {
	switch kind {
	case cppast.CastNoOp, cppast.CastLValueToRValue:
		return v, nil
	case cppast.CastArrayToPointerDecay:
		at := l.Context.Follow(v.Type)
		if !at.IsArray() {
			return nil, Malformedf(v.Loc, "array decay of %s", v.Type)
		}
		first := ir.Index(v, ir.IntConstant(0, l.IndexType()), at.Subtype.Clone())
		return ir.Typecast(l.AddressOf(first), to), nil
	case cppast.CastFunctionToPointerDecay:
		return l.AddressOf(v), nil
	case cppast.CastNullToPointer:
		return ir.Constant("NULL", to), nil
	case cppast.CastToVoid:
		return ir.Typecast(v, ir.Empty()), nil
	}
	return ir.Typecast(v, to), nil
}

func (l *Lowerer) lowerUnary(e *cppast.UnaryOperator) (*ir.Expr, error) {
	v, err := l.hooks.LowerExpr(e.Sub)
	if err != nil {
		return nil, err
	}
	t, err := l.ExprType(e)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case cppast.UnaryPlus:
		return ir.Unary(ir.OpUPlus, v, t), nil
	case cppast.UnaryMinus:
		return ir.Unary(ir.OpNeg, v, t), nil
	case cppast.UnaryNot:
		return ir.Unary(ir.OpBitNot, v, t), nil
	case cppast.UnaryLNot:
		return ir.Typecast(ir.Unary(ir.OpNot, l.ToBool(v), ir.Bool()), t), nil
	case cppast.UnaryDeref:
		return ir.Dereference(v, t), nil
	case cppast.UnaryAddrOf:
		addr := l.AddressOf(v)
		addr.Type = t
		return addr, nil
	case cppast.UnaryPreInc:
		return ir.SideEffect(ir.EffectPreIncrement, t, v), nil
	case cppast.UnaryPreDec:
		return ir.SideEffect(ir.EffectPreDecrement, t, v), nil
	case cppast.UnaryPostInc:
		return ir.SideEffect(ir.EffectPostIncrement, t, v), nil
	case cppast.UnaryPostDec:
		return ir.SideEffect(ir.EffectPostDecrement, t, v), nil
	case cppast.UnaryReal:
		return ir.Unary(ir.OpReal, v, t), nil
	case cppast.UnaryImag:
		return ir.Unary(ir.OpImag, v, t), nil
	case cppast.UnaryExtension:
		return v, nil
	}
	return nil, Unsupportedf(e.Loc, "unary operator %d", e.Op)
}

var binaryOps = map[cppast.BinaryOp]ir.Op{
	cppast.BinMul: ir.OpMul, cppast.BinDiv: ir.OpDiv, cppast.BinRem: ir.OpMod,
	cppast.BinAdd: ir.OpAdd, cppast.BinSub: ir.OpSub, cppast.BinShl: ir.OpShl,
	cppast.BinLT: ir.OpLt, cppast.BinGT: ir.OpGt, cppast.BinLE: ir.OpLe, cppast.BinGE: ir.OpGe,
	cppast.BinEQ: ir.OpEq, cppast.BinNE: ir.OpNe,
	cppast.BinAnd: ir.OpBitAnd, cppast.BinXor: ir.OpBitXor, cppast.BinOr: ir.OpBitOr,
	cppast.BinLAnd: ir.OpAnd, cppast.BinLOr: ir.OpOr, cppast.BinComma: ir.OpComma,

	cppast.BinMulAssign: ir.OpMul, cppast.BinDivAssign: ir.OpDiv, cppast.BinRemAssign: ir.OpMod,
	cppast.BinAddAssign: ir.OpAdd, cppast.BinSubAssign: ir.OpSub, cppast.BinShlAssign: ir.OpShl,
	cppast.BinAndAssign: ir.OpBitAnd, cppast.BinXorAssign: ir.OpBitXor, cppast.BinOrAssign: ir.OpBitOr,
}

func (l *Lowerer) lowerBinary(e *cppast.BinaryOperator) (*ir.Expr, error) {
	lhs, err := l.hooks.LowerExpr(e.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := l.hooks.LowerExpr(e.RHS)
	if err != nil {
		return nil, err
	}
	t, err := l.ExprType(e)
	if err != nil {
		return nil, err
	}

	op, known := binaryOps[e.Op]
	if e.Op == cppast.BinShr || e.Op == cppast.BinShrAssign {
		op, known = ir.OpLShr, true
		if l.Context.Follow(lhs.Type).IsSignedInt() {
			op = ir.OpAShr
		}
	}
	if !known && e.Op != cppast.BinAssign {
		return nil, Unsupportedf(e.Loc, "binary operator %d", e.Op)
	}

	switch {
	case e.Op == cppast.BinAssign:
		a := ir.Assign(lhs, l.hooks.BindValue(lhs.Type, rhs))
		a.Type = t
		return a, nil
	case e.Op.IsAssignment():
		a := ir.Assign(lhs, rhs)
		a.Op = op
		a.Type = t
		return a, nil
	case e.Op == cppast.BinLAnd || e.Op == cppast.BinLOr:
		return ir.Typecast(ir.Binary(op, l.ToBool(lhs), l.ToBool(rhs), ir.Bool()), t), nil
	case e.Op >= cppast.BinLT && e.Op <= cppast.BinNE:
		return ir.Typecast(ir.Binary(op, lhs, rhs, ir.Bool()), t), nil
	}
	return ir.Binary(op, lhs, rhs, t), nil
}

func (l *Lowerer) lowerConditional(e *cppast.ConditionalOperator) (*ir.Expr, error) {
	cond, err := l.LowerCond(e.Cond)
	if err != nil {
		return nil, err
	}
	then, err := l.hooks.LowerExpr(e.Then)
	if err != nil {
		return nil, err
	}
	els, err := l.hooks.LowerExpr(e.Else)
	if err != nil {
		return nil, err
	}
	t, err := l.ExprType(e)
	if err != nil {
		return nil, err
	}
	return &ir.Expr{Kind: ir.KindIf, Type: t, Operands: []*ir.Expr{cond, then, els}}, nil
}

// Callee normalizes a lowered callee: a decayed function address is
// stripped back to the function symbol and a function pointer is
// dereferenced.
func (l *Lowerer) Callee(fn *ir.Expr) *ir.Expr {
	if fn.Kind == ir.KindAddressOf && fn.Op0().Type.IsCode() {
		return fn.Op0()
	}
	if ft := l.Context.Follow(fn.Type); ft.IsPointer() && l.Context.Follow(ft.Subtype).IsCode() {
		return ir.Dereference(fn, ft.Subtype.Clone())
	}
	return fn
}

func (l *Lowerer) lowerCall(e *cppast.CallExpr) (*ir.Expr, error) {
	fn, err := l.hooks.LowerExpr(e.Callee)
	if err != nil {
		return nil, err
	}
	fn = l.Callee(fn)
	args, err := l.LowerArgs(l.Context.Follow(fn.Type), e.Args, 0)
	if err != nil {
		return nil, err
	}
	t, err := l.ExprType(e)
	if err != nil {
		return nil, err
	}
	return ir.Call(fn, t, args...), nil
}

// LowerArgs lowers call arguments in source order, binding each to the
// parameter at the same position shifted by offset.
func (l *Lowerer) LowerArgs(ftype *ir.Type, args []cppast.Expr, offset int) ([]*ir.Expr, error) {
	out := make([]*ir.Expr, 0, len(args))
	for i, a := range args {
		v, err := l.hooks.LowerExpr(a)
		if err != nil {
			return nil, err
		}
		if ftype != nil && i+offset < len(ftype.Params) {
			v = l.hooks.BindValue(ftype.Params[i+offset].Type, v)
		}
		out = append(out, v)
	}
	return out, nil
}

// LowerMemberExpr lowers access to a data member.
func (l *Lowerer) LowerMemberExpr(m *cppast.MemberExpr) (*ir.Expr, error) {
	obj, err := l.Object(m)
	if err != nil {
		return nil, err
	}
	d, err := l.Lookup(m.Member, m.Loc)
	if err != nil {
		return nil, err
	}
	f, ok := d.(*cppast.FieldDecl)
	if !ok {
		return nil, Unsupportedf(m.Loc, "member %q is a %s", m.Name, cppast.KindName(d))
	}
	_, id, err := l.hooks.DeclName(f)
	if err != nil {
		return nil, err
	}
	t, err := l.ExprType(m)
	if err != nil {
		return nil, err
	}
	return ir.Member(obj, id, t), nil
}

// Object lowers the object of a member access, dereferencing the base of
// an arrow access.
func (l *Lowerer) Object(m *cppast.MemberExpr) (*ir.Expr, error) {
	base, err := l.hooks.LowerExpr(m.Base)
	if err != nil {
		return nil, err
	}
	if !m.Arrow {
		return base, nil
	}
	pt := l.Context.Follow(base.Type)
	if !pt.IsPointer() {
		return nil, Malformedf(m.Loc, "arrow access through %s", base.Type)
	}
	return ir.Dereference(base, pt.Subtype.Clone()), nil
}

func (l *Lowerer) lowerSubscript(e *cppast.ArraySubscriptExpr) (*ir.Expr, error) {
	base, err := l.hooks.LowerExpr(e.Base)
	if err != nil {
		return nil, err
	}
	idx, err := l.hooks.LowerExpr(e.Index)
	if err != nil {
		return nil, err
	}
	t, err := l.ExprType(e)
	if err != nil {
		return nil, err
	}
	// a[i] on a decayed array indexes the array itself
	if base.Kind == ir.KindTypecast {
		base = base.Op0()
	}
	if base.Kind == ir.KindAddressOf && base.Op0().Kind == ir.KindIndex && isZero(base.Op0().Operands[1]) {
		return ir.Index(base.Op0().Op0(), idx, t), nil
	}
	bt := l.Context.Follow(base.Type)
	switch {
	case bt.IsArray():
		return ir.Index(base, idx, t), nil
	case bt.IsPointer():
		return ir.Dereference(ir.Binary(ir.OpAdd, base, idx, base.Type), t), nil
	}
	return nil, Malformedf(e.Loc, "subscript of %s", base.Type)
}

func isZero(e *ir.Expr) bool {
	return e.Kind == ir.KindConstant && e.Value == "0"
}

func (l *Lowerer) lowerInitList(e *cppast.InitListExpr) (*ir.Expr, error) {
	t, err := l.ExprType(e)
	if err != nil {
		return nil, err
	}
	inits := make([]*ir.Expr, 0, len(e.Inits))
	for _, in := range e.Inits {
		v, err := l.hooks.LowerExpr(in)
		if err != nil {
			return nil, err
		}
		inits = append(inits, v)
	}

	ft := l.Context.Follow(t)
	switch ft.Kind {
	case ir.TypeStruct:
		out := &ir.Expr{Kind: ir.KindStruct, Type: t}
		next := 0
		for _, c := range ft.Components {
			if next < len(inits) && !c.Vptr {
				out.Operands = append(out.Operands, l.hooks.BindValue(c.Type, inits[next]))
				next++
				continue
			}
			z, err := l.GenZero(c.Type)
			if err != nil {
				return nil, err
			}
			out.Operands = append(out.Operands, z)
		}
		return out, nil
	case ir.TypeUnion:
		out := &ir.Expr{Kind: ir.KindUnion, Type: t}
		if len(ft.Components) == 0 {
			return out, nil
		}
		c := ft.Components[0]
		out.Ident = c.Name
		if len(inits) > 0 {
			out.Operands = []*ir.Expr{l.hooks.BindValue(c.Type, inits[0])}
			return out, nil
		}
		z, err := l.GenZero(c.Type)
		if err != nil {
			return nil, err
		}
		out.Operands = []*ir.Expr{z}
		return out, nil
	case ir.TypeArray:
		n := len(inits)
		if ft.Size != nil && ft.Size.Kind == ir.KindConstant {
			size, err := strconv.ParseUint(ft.Size.Value, 10, 64)
			if err != nil {
				return nil, Malformedf(e.Loc, "array size %q", ft.Size.Value)
			}
			if n, err = safecast.Conv[int](size); err != nil {
				return nil, Unsupportedf(e.Loc, "array of %d elements", size)
			}
		}
		out := &ir.Expr{Kind: ir.KindArray, Type: t}
		for i := range n {
			if i < len(inits) {
				out.Operands = append(out.Operands, l.hooks.BindValue(ft.Subtype, inits[i]))
				continue
			}
			z, err := l.GenZero(ft.Subtype)
			if err != nil {
				return nil, err
			}
			out.Operands = append(out.Operands, z)
		}
		return out, nil
	}
	switch len(inits) {
	case 0:
		return l.GenZero(t)
	case 1:
		return l.hooks.BindValue(t, inits[0]), nil
	}
	return nil, Malformedf(e.Loc, "scalar initialized with %d values", len(inits))
}

// BindValue converts e to the target type where the types differ beyond
// top-level qualifiers.
func (l *Lowerer) BindValue(target *ir.Type, e *ir.Expr) *ir.Expr {
	if target == nil || e.Type == nil || target.Kind == ir.TypeEmpty {
		return e
	}
	if l.SameType(e.Type, target) {
		return e
	}
	return ir.Typecast(e, target)
}

// SameType compares types after following symbols, ignoring top-level
// qualifiers.
func (l *Lowerer) SameType(a, b *ir.Type) bool {
	a, b = unqualified(l.Context.Follow(a)), unqualified(l.Context.Follow(b))
	return a.Equal(b)
}

// unqualified drops top-level qualifiers and the owner annotation.
func unqualified(t *ir.Type) *ir.Type {
	if t == nil || (!t.Constant && !t.Volatile && t.MemberName == "") {
		return t
	}
	u := *t
	u.Constant, u.Volatile = false, false
	u.MemberName = ""
	return &u
}
