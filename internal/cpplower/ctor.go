package cpplower

import (
	"cxxfront/internal/clower"
	"cxxfront/internal/cppast"
	"cxxfront/internal/diag"
	"cxxfront/internal/ir"
)

// LowerFunctionBody lowers a definition and prepends what the declaration
// implies: the exception specification marker and, for constructors, the
// initializer list.
func (l *Lowerer) LowerFunctionBody(f *cppast.FunctionDecl, ftype *ir.Type) (*ir.Expr, error) {
	if f.Method != nil && f.Method.LambdaCallOperator {
		if err := l.registerCaptures(f); err != nil {
			return nil, err
		}
	}
	body, err := l.Lowerer.LowerFunctionBody(f, ftype)
	if err != nil {
		return nil, err
	}

	var prefix []*ir.Expr
	throws, err := l.throwDecl(f)
	if err != nil {
		return nil, err
	}
	if throws != nil {
		prefix = append(prefix, throws)
	}
	if f.IsConstructor() {
		inits, err := l.lowerInitializers(f)
		if err != nil {
			return nil, err
		}
		prefix = append(prefix, inits...)
	}
	if len(prefix) == 0 {
		return body, nil
	}
	if body.Kind != ir.CodeBlock {
		body = ir.Block(body).At(body.Loc)
	}
	body.Operands = append(prefix, body.Operands...)
	return body, nil
}

// registerCaptures fills the capture table of a lambda call operator from
// its closure class.
func (l *Lowerer) registerCaptures(f *cppast.FunctionDecl) error {
	if _, ok := l.captures[f.Ref()]; ok {
		return nil
	}
	r, ok := l.Unit.LookupRecord(f.Method.Parent)
	if !ok || r.Lambda == nil {
		return clower.Malformedf(f.Loc, "call operator %q outside of a closure class", f.Name)
	}
	c := &closure{fields: make(map[cppast.Ref]cppast.Ref, len(r.Lambda.Captures)), this: r.Lambda.ThisField}
	for _, cf := range r.Lambda.Captures {
		c.fields[cf.Var] = cf.Field
	}
	l.captures[f.Ref()] = c
	return nil
}

// throwDecl lowers the exception specification into a marker statement.
// noexcept(false) and an absent specification yield nil.
func (l *Lowerer) throwDecl(f *cppast.FunctionDecl) (*ir.Expr, error) {
	switch f.Exceptions.Kind {
	case cppast.ExceptDynamic:
		out := ir.Code(ir.CodeThrowDecl).At(f.Loc)
		for _, t := range f.Exceptions.Types {
			lt, err := l.LowerType(t)
			if err != nil {
				return nil, err
			}
			marker := ir.Skip()
			marker.Type = lt
			out.Operands = append(out.Operands, marker)
		}
		return out, nil
	case cppast.ExceptNoexcept:
		marker := ir.Skip()
		marker.Type = &ir.Type{Kind: ir.TypeNoexcept}
		return ir.Code(ir.CodeThrowDecl, marker).At(f.Loc), nil
	}
	return nil, nil
}

// lowerInitializers lowers the initializer list of constructor f in source
// order. Array members cannot be assigned in place; they are written
// through a shadow copy of the whole object, which is refreshed from
// *this only when another initializer may have changed the object since.
func (l *Lowerer) lowerInitializers(f *cppast.FunctionDecl) ([]*ir.Expr, error) {
	inits := f.Method.Inits
	if len(inits) == 0 {
		return nil, nil
	}
	b, err := l.receiver(f.Loc)
	if err != nil {
		return nil, err
	}
	this := b.expr()
	class := l.Context.Follow(b.Type).Subtype
	l.Debugf("constructor", "class %s constructor %s has %d initializers", class.Ident, f.Name, len(inits))

	var (
		out      []*ir.Expr
		shadow   *ir.Symbol
		uptodate bool
	)
	for _, in := range inits {
		if in.Init == nil {
			return nil, clower.Malformedf(in.Loc, "initializer without value in constructor %s", f.Name)
		}
		switch in.Kind {
		case cppast.InitDelegating:
			if len(inits) != 1 {
				return nil, clower.Failf(diag.LowDelegatingNotSole, in.Loc,
					"delegating initializer of %s must be the only initializer", f.Name)
			}
			call, err := l.lowerInit(in.Init, pendingInit{mode: initDelegating, this: this.Clone()})
			if err != nil {
				return nil, err
			}
			out = append(out, ir.AsCode(call).At(in.Loc))
			uptodate = false
		case cppast.InitBase:
			call, err := l.lowerInit(in.Init, pendingInit{mode: initBase, this: this.Clone()})
			if err != nil {
				return nil, err
			}
			out = append(out, ir.AsCode(call).At(in.Loc))
			uptodate = false
		case cppast.InitMember:
			fd, ok := l.Unit.LookupField(in.Member)
			if !ok {
				return nil, clower.Unresolvedf(in.Loc, "initialized member %q", in.Member)
			}
			_, id, err := l.DeclName(fd)
			if err != nil {
				return nil, err
			}
			ft, err := l.LowerType(fd.Type)
			if err != nil {
				return nil, err
			}
			member := ir.Member(ir.Dereference(this.Clone(), class.Clone()), id, ft)
			value, err := l.lowerInit(in.Init, pendingInit{mode: initMember, target: l.AddressOf(member.Clone())})
			if err != nil {
				return nil, err
			}
			if value.Has(ir.FlagConstructor) {
				out = append(out, ir.AsCode(value).At(in.Loc))
				uptodate = false
				continue
			}
			if !l.Context.Follow(ft).IsArray() {
				out = append(out, ir.AsCode(ir.Assign(member, l.BindValue(ft, value))).At(in.Loc))
				uptodate = false
				continue
			}
			if shadow == nil {
				shadow = l.NewSymbol("array_init$", b.ID+"_array_init$", class.Clone(), in.Loc)
				shadow.Lvalue = true
				if _, inserted := l.Context.Add(shadow); !inserted {
					return nil, clower.Fatalf(diag.FtlSymbolTable, in.Loc, "shadow object %s already exists", shadow.ID)
				}
			}
			obj := ir.Dereference(this.Clone(), class.Clone())
			if !uptodate {
				out = append(out, ir.AsCode(ir.Assign(shadow.Expr(), obj.Clone())).At(in.Loc))
				uptodate = true
			}
			out = append(out,
				ir.AsCode(ir.Assign(ir.Member(shadow.Expr(), id, ft.Clone()), value)).At(in.Loc),
				ir.AsCode(ir.Assign(obj, shadow.Expr())).At(in.Loc))
		default:
			return nil, clower.Fatalf(diag.FtlUnclassifiedInit, in.Loc, "unclassified initializer in constructor %s", f.Name)
		}
	}
	if shadow != nil {
		out = append([]*ir.Expr{ir.Decl(shadow.Expr(), nil)}, out...)
	}
	return out, nil
}

// lowerInit lowers an initializer expression under constructor convention
// p.
func (l *Lowerer) lowerInit(e cppast.Expr, p pendingInit) (*ir.Expr, error) {
	l.init = p
	defer func() { l.init = pendingInit{} }()
	return l.LowerExpr(e)
}
