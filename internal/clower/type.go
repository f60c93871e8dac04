package clower

import (
	"cxxfront/internal/cppast"
	"cxxfront/internal/diag"
	"cxxfront/internal/ir"
)

// LowerType maps a source type to an IR type. Record and enum types lower
// their declarations on demand; records are referenced through their tag
// symbol.
func (l *Lowerer) LowerType(t cppast.Type) (*ir.Type, error) {
	switch tt := t.(type) {
	case nil:
		return ir.Empty(), nil
	case *cppast.BuiltinType:
		return l.lowerBuiltin(tt)
	case *cppast.QualifiedType:
		inner, err := l.hooks.LowerType(tt.Inner)
		if err != nil {
			return nil, err
		}
		out := inner.Clone()
		out.Constant = out.Constant || tt.Const
		out.Volatile = out.Volatile || tt.Volatile
		return out, nil
	case *cppast.PointerType:
		sub, err := l.hooks.LowerType(tt.Pointee)
		if err != nil {
			return nil, err
		}
		return l.PointerTo(SymbolizeAggregate(sub)), nil
	case *cppast.ConstantArrayType:
		elem, err := l.hooks.LowerType(tt.Elem)
		if err != nil {
			return nil, err
		}
		return ir.ArrayOf(elem, ir.IntConstant(tt.Size, l.SizeType())), nil
	case *cppast.IncompleteArrayType:
		elem, err := l.hooks.LowerType(tt.Elem)
		if err != nil {
			return nil, err
		}
		return ir.ArrayOf(elem, nil), nil
	case *cppast.VariableArrayType:
		elem, err := l.hooks.LowerType(tt.Elem)
		if err != nil {
			return nil, err
		}
		size, err := l.hooks.LowerExpr(tt.Size)
		if err != nil {
			return nil, err
		}
		return ir.ArrayOf(elem, ir.Typecast(size, l.SizeType())), nil
	case *cppast.FunctionProtoType:
		return l.lowerProto(tt)
	case *cppast.RecordType:
		return l.lowerRecordType(tt.Decl)
	case *cppast.EnumType:
		d, ok := l.Unit.Lookup(tt.Decl)
		if !ok {
			return nil, Unresolvedf(noLoc, "enum %q", tt.Decl)
		}
		e, ok := d.(*cppast.EnumDecl)
		if !ok {
			return nil, Malformedf(d.Common().Loc, "enum type refers to %s", cppast.KindName(d))
		}
		if e.Integer == nil {
			return l.lowerBuiltin(cppast.Builtin(cppast.Int))
		}
		return l.hooks.LowerType(e.Integer)
	case *cppast.TypedefType:
		return l.hooks.LowerType(tt.Underlying)
	case *cppast.ElaboratedType:
		return l.hooks.LowerType(tt.Named)
	case *cppast.ParenType:
		return l.hooks.LowerType(tt.Inner)
	case *cppast.DecltypeType:
		return l.hooks.LowerType(tt.Underlying)
	case *cppast.AutoType:
		if tt.Deduced == nil {
			return nil, Failf(diag.LowDependentContext, noLoc, "undeduced auto type")
		}
		return l.hooks.LowerType(tt.Deduced)
	case *cppast.DependentType:
		return nil, Failf(diag.LowDependentContext, noLoc, "dependent type %q", tt.Spelling)
	default:
		return nil, Unsupportedf(noLoc, "type %s", cppast.KindName(t))
	}
}

func (l *Lowerer) lowerBuiltin(b *cppast.BuiltinType) (*ir.Type, error) {
	tg := l.Target
	integer := func(bits int, signed bool) *ir.Type {
		if signed {
			return ir.Signed(width(bits))
		}
		return ir.Unsigned(width(bits))
	}
	switch b.Kind {
	case cppast.Void:
		return ir.Empty(), nil
	case cppast.Bool:
		return ir.Bool(), nil
	case cppast.Char:
		return integer(tg.CharWidth, tg.CharSigned), nil
	case cppast.SChar:
		return integer(tg.CharWidth, true), nil
	case cppast.UChar, cppast.Char8:
		return integer(tg.CharWidth, false), nil
	case cppast.WChar:
		return integer(tg.WCharWidth, tg.WCharSigned), nil
	case cppast.Char16:
		return integer(16, false), nil
	case cppast.Char32:
		return integer(32, false), nil
	case cppast.Short, cppast.UShort:
		return integer(tg.ShortWidth, b.Kind == cppast.Short), nil
	case cppast.Int, cppast.UInt:
		return integer(tg.IntWidth, b.Kind == cppast.Int), nil
	case cppast.Long, cppast.ULong:
		return integer(tg.LongWidth, b.Kind == cppast.Long), nil
	case cppast.LongLong, cppast.ULongLong:
		return integer(tg.LongLongWidth, b.Kind == cppast.LongLong), nil
	case cppast.Int128, cppast.UInt128:
		return integer(tg.Int128Width, b.Kind == cppast.Int128), nil
	case cppast.Float:
		return ir.Float(32), nil
	case cppast.Double:
		return ir.Float(64), nil
	case cppast.LongDouble:
		return ir.Float(width(tg.LongDoubleWidth)), nil
	case cppast.Float128:
		return ir.Float(128), nil
	case cppast.NullPtr:
		return l.PointerTo(ir.Empty()), nil
	}
	return nil, Unsupportedf(noLoc, "builtin type %s", b.Kind)
}

func (l *Lowerer) lowerProto(p *cppast.FunctionProtoType) (*ir.Type, error) {
	ret, err := l.hooks.LowerType(p.Result)
	if err != nil {
		return nil, err
	}
	code := &ir.Type{Kind: ir.TypeCode, Return: ret, Variadic: p.Variadic}
	for _, pt := range p.Params {
		t, err := l.hooks.LowerType(pt)
		if err != nil {
			return nil, err
		}
		code.Params = append(code.Params, ir.Param{Type: t})
	}
	return code, nil
}

// lowerRecordType lowers the record on first use and returns a reference to
// its tag symbol.
func (l *Lowerer) lowerRecordType(ref cppast.Ref) (*ir.Type, error) {
	r, ok := l.Unit.LookupRecord(ref)
	if !ok {
		return nil, Unresolvedf(noLoc, "record %q", ref)
	}
	_, id := l.TagID(r)
	if l.records[id] == recordNone || (l.records[id] == recordDeclared && r.Complete) {
		if err := l.hooks.LowerRecord(r); err != nil {
			return nil, err
		}
	}
	return ir.SymbolRef(id), nil
}
