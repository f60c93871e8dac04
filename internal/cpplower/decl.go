package cpplower

import (
	"cxxfront/internal/clower"
	"cxxfront/internal/cppast"
	"cxxfront/internal/diag"
	"cxxfront/internal/ir"
)

// LowerDecl dispatches C++ declaration kinds and hands the rest to the base
// lowering.
func (l *Lowerer) LowerDecl(d cppast.Decl) (*ir.Expr, error) {
	switch d := d.(type) {
	case *cppast.LinkageSpecDecl:
		return l.lowerDecls(d.Decls)
	case *cppast.NamespaceDecl:
		return l.lowerDecls(d.Decls)
	case *cppast.RecordDecl:
		if err := l.LowerRecord(d); err != nil {
			return nil, err
		}
		return ir.Skip(), nil
	case *cppast.FunctionDecl:
		if d.Method == nil {
			return l.Lowerer.LowerDecl(d)
		}
		if _, err := l.lowerMethod(d); err != nil {
			return nil, err
		}
		return ir.Skip(), nil
	case *cppast.FunctionTemplateDecl:
		for _, spec := range d.Specializations {
			if !l.instantiate(spec.Common(), spec.Template, l.cfg.DumpExplicitInstantiations) {
				continue
			}
			if _, err := l.LowerDecl(spec); err != nil {
				return nil, err
			}
		}
		return ir.Skip(), nil
	case *cppast.VarTemplateDecl:
		for _, spec := range d.Specializations {
			if !l.instantiate(spec.Common(), spec.Template, l.cfg.DumpExplicitVarInstantiations) {
				continue
			}
			if _, err := l.LowerDecl(spec); err != nil {
				return nil, err
			}
		}
		return ir.Skip(), nil
	case *cppast.FriendDecl:
		if d.Friend == nil {
			return ir.Skip(), nil
		}
		if _, err := l.LowerDecl(d.Friend); err != nil {
			return nil, err
		}
		return ir.Skip(), nil
	case *cppast.IgnoredDecl:
		return ir.Skip(), nil
	}
	return l.Lowerer.LowerDecl(d)
}

// lowerDecls lowers the children of a namespace or linkage block.
func (l *Lowerer) lowerDecls(decls []cppast.Decl) (*ir.Expr, error) {
	for _, d := range decls {
		if _, err := l.LowerDecl(d); err != nil {
			return nil, err
		}
	}
	return ir.Skip(), nil
}

// instantiate reports whether a template specialization is lowered.
// Implicit instantiations always are; explicit ones only in dump mode.
func (l *Lowerer) instantiate(d *cppast.DeclBase, kind cppast.TemplateSpecKind, dump bool) bool {
	if d.Dependent {
		return false
	}
	switch kind {
	case cppast.TSKExplicitSpecialization,
		cppast.TSKExplicitInstantiationDeclaration,
		cppast.TSKExplicitInstantiationDefinition:
		if !dump {
			l.Debugf("template", "skipping %s %s", kind, d.Name)
		}
		return dump
	}
	return true
}

// LowerVar skips variables of uninstantiated templates.
func (l *Lowerer) LowerVar(v *cppast.VarDecl) (*ir.Expr, error) {
	if v.Dependent {
		return ir.Skip(), nil
	}
	return l.Lowerer.LowerVar(v)
}

// LowerRecord skips records of uninstantiated templates.
func (l *Lowerer) LowerRecord(r *cppast.RecordDecl) error {
	if r.Dependent {
		return nil
	}
	return l.Lowerer.LowerRecord(r)
}

// skipMethod reports methods that produce no IR: members of uninstantiated
// templates and implicit members other than the special ones.
func skipMethod(f *cppast.FunctionDecl) bool {
	if f.Dependent {
		return true
	}
	if !f.Implicit {
		return false
	}
	switch {
	case f.IsConstructor(), f.IsDestructor():
		return false
	case f.Method.Special == cppast.SpecialCopyAssignment, f.Method.Special == cppast.SpecialMoveAssignment:
		return false
	}
	return true
}

// lowerMethod lowers a member function and returns its method component,
// or nil for skipped methods.
func (l *Lowerer) lowerMethod(f *cppast.FunctionDecl) (*ir.Component, error) {
	if skipMethod(f) {
		return nil, nil
	}
	sym, err := l.LowerFunction(f)
	if err != nil {
		return nil, err
	}
	name, id, err := l.DeclName(f)
	if err != nil {
		return nil, err
	}
	if f.IsConstructor() && sym.Value != nil {
		parent, _ := l.parentType(f)
		if hasVptr(l.Context.Follow(parent)) {
			sym.Value.Flags |= ir.FlagNeedVptrInit
		}
	}
	return &ir.Component{
		Name:       id,
		PrettyName: name,
		BaseName:   id,
		Type:       sym.Type.Clone(),
		Access:     access(f.Access, l.isClass(f.Method.Parent)),
		Inlined:    f.Inline,
		Virtual:    f.Method.Virtual,
	}, nil
}

// parentType returns the type symbol reference of the class owning a
// method.
func (l *Lowerer) parentType(f *cppast.FunctionDecl) (*ir.Type, error) {
	r, ok := l.Unit.LookupRecord(f.Method.Parent)
	if !ok {
		return nil, clower.Unresolvedf(f.Loc, "class of method %q", f.Name)
	}
	_, id := l.TagID(r)
	return ir.SymbolRef(id), nil
}

func access(a cppast.Access, class bool) string {
	if a == cppast.AccessNone {
		if class {
			return cppast.AccessPrivate.String()
		}
		return cppast.AccessPublic.String()
	}
	return a.String()
}

// LowerFunctionType annotates methods with the owning class and gives
// constructors and destructors their marker return types.
func (l *Lowerer) LowerFunctionType(f *cppast.FunctionDecl) (*ir.Type, error) {
	t, err := l.Lowerer.LowerFunctionType(f)
	if err != nil || f.Method == nil {
		return t, err
	}
	parent, err := l.parentType(f)
	if err != nil {
		return nil, err
	}
	t.MemberName = parent.Ident
	switch {
	case f.IsConstructor():
		t.Return = &ir.Type{Kind: ir.TypeConstructor}
		if f.Implicit && l.isUnion(f.Method.Parent) &&
			(f.Method.Special == cppast.SpecialCopyConstructor || f.Method.Special == cppast.SpecialMoveConstructor) {
			t.ImplicitUnionCopyMove = true
		}
	case f.IsDestructor():
		t.Return = &ir.Type{Kind: ir.TypeDestructor}
	}
	return t, nil
}

func (l *Lowerer) isClass(r cppast.Ref) bool {
	rd, ok := l.Unit.LookupRecord(r)
	return ok && rd.Tag == cppast.TagClass
}

func (l *Lowerer) isUnion(r cppast.Ref) bool {
	rd, ok := l.Unit.LookupRecord(r)
	return ok && rd.IsUnion()
}

// LowerFunctionParams prepends the receiver parameter of non-static
// methods. A definition registers it in the receiver table.
func (l *Lowerer) LowerFunctionParams(f *cppast.FunctionDecl) ([]ir.Param, error) {
	params, err := l.Lowerer.LowerFunctionParams(f)
	if err != nil || f.Method == nil || f.Method.Static {
		return params, err
	}
	var t *ir.Type
	if f.Method.ThisType != nil {
		if t, err = l.LowerType(f.Method.ThisType); err != nil {
			return nil, err
		}
	} else {
		parent, err := l.parentType(f)
		if err != nil {
			return nil, err
		}
		t = l.PointerTo(parent)
	}
	_, id, err := l.DeclName(f)
	if err != nil {
		return nil, err
	}
	this := ir.Param{Type: t, Identifier: id + "::this", BaseName: "this"}
	if f.Body != nil {
		sym := l.NewSymbol("this", this.Identifier, t, f.Loc)
		sym.Lvalue = true
		sym.IsParameter = true
		sym.FileLocal = true
		l.Context.Add(sym)
		l.this[f.Ref()] = binding{ID: this.Identifier, Type: t}
	}
	return append([]ir.Param{this}, params...), nil
}

// staticMethodError is the fatal error for static member functions met in
// the class member pass.
func staticMethodError(f *cppast.FunctionDecl) error {
	return clower.Fatalf(diag.FtlStaticMethod, f.Loc, "static method %q is not supported", f.Name)
}
