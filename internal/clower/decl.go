package clower

import (
	"cxxfront/internal/cppast"
	"cxxfront/internal/diag"
	"cxxfront/internal/ir"
	"cxxfront/internal/layout"
	"cxxfront/internal/trace"
)

// DeclName derives the display name and unique id of a declaration from its
// canonical signature. A declaration without one cannot be given a safe id.
func (l *Lowerer) DeclName(d cppast.Decl) (name, id string, err error) {
	switch d := d.(type) {
	case *cppast.RecordDecl:
		name, id = l.TagID(d)
		return name, id, nil
	case *cppast.ParmVarDecl:
		if d.USR == "" {
			return "", "", nil
		}
	}
	c := d.Common()
	if c.USR == "" {
		return "", "", Fatalf(diag.FtlCanonicalID, c.Loc,
			"cannot derive a canonical id for %s %q", cppast.KindName(d), c.Name)
	}
	return c.Name, c.USR, nil
}

// NameUnnamedParam leaves unnamed parameters anonymous.
func (l *Lowerer) NameUnnamedParam(*cppast.ParmVarDecl) (name, id string, err error) {
	return "", "", nil
}

// LowerDecl lowers a declaration and returns the statement it contributes
// to an enclosing block, or a skip.
func (l *Lowerer) LowerDecl(d cppast.Decl) (*ir.Expr, error) {
	switch d := d.(type) {
	case *cppast.VarDecl:
		return l.hooks.LowerVar(d)
	case *cppast.FunctionDecl:
		if _, err := l.LowerFunction(d); err != nil {
			return nil, err
		}
		return ir.Skip(), nil
	case *cppast.RecordDecl:
		if err := l.hooks.LowerRecord(d); err != nil {
			return nil, err
		}
		return ir.Skip(), nil
	case *cppast.EnumDecl:
		if d.Integer != nil {
			if _, err := l.hooks.LowerType(d.Integer); err != nil {
				return nil, err
			}
		}
		return ir.Skip(), nil
	case *cppast.TypedefDecl:
		return ir.Skip(), l.lowerTypedef(d)
	case *cppast.IgnoredDecl:
		if d.What == cppast.IgnoredStaticAssert || d.What == cppast.IgnoredEmpty {
			return ir.Skip(), nil
		}
		return nil, Unsupportedf(d.Loc, "declaration kind %d", d.What)
	case *cppast.FieldDecl:
		return nil, Malformedf(d.Loc, "field %q outside of a record", d.Name)
	default:
		return nil, Unsupportedf(d.Common().Loc, "declaration %s", cppast.KindName(d))
	}
}

func (l *Lowerer) lowerTypedef(d *cppast.TypedefDecl) error {
	name, id, err := l.hooks.DeclName(d)
	if err != nil {
		return err
	}
	if _, ok := l.Context.Find(id); ok {
		return nil
	}
	t, err := l.hooks.LowerType(d.Underlying)
	if err != nil {
		return err
	}
	sym := l.NewSymbol(name, id, t, d.Loc)
	sym.IsType = true
	l.Context.Add(sym)
	return nil
}

// LowerVar adds the variable's symbol before lowering its initializer, so
// the initializer may refer to the variable itself. Objects with static
// lifetime keep their initial value on the symbol and yield a declaration
// without initializer.
func (l *Lowerer) LowerVar(v *cppast.VarDecl) (*ir.Expr, error) {
	static := !v.Local || v.Storage == cppast.StorageStatic
	if static {
		if def, ok := l.Unit.Lookup(v.Ref()); ok {
			if dv, ok := def.(*cppast.VarDecl); ok {
				v = dv
			}
		}
	}
	name, id, err := l.hooks.DeclName(v)
	if err != nil {
		return nil, err
	}
	if static && l.done[id] {
		sym, _ := l.Context.Find(id)
		return ir.Decl(sym.Expr().At(v.Loc), nil), nil
	}
	t, err := l.hooks.LowerType(v.Type)
	if err != nil {
		return nil, err
	}
	sym := l.NewSymbol(name, id, t, v.Loc)
	sym.Lvalue = true
	sym.StaticLifetime = static
	sym.FileLocal = v.Local || v.Storage == cppast.StorageStatic
	sym.IsExtern = v.Storage == cppast.StorageExtern && v.Init == nil
	if old, inserted := l.Context.Add(sym); !inserted {
		// redeclaration: the definition may complete the type
		if old.Type.IsArray() && old.Type.Size == nil && t.IsArray() {
			old.Type = t
		}
		old.IsExtern = old.IsExtern && sym.IsExtern
		sym = old
	}
	if static {
		l.done[id] = true
	}

	var init *ir.Expr
	if v.Init != nil {
		init, err = l.hooks.LowerExpr(v.Init)
		if err != nil {
			return nil, err
		}
		init = l.hooks.BindValue(sym.Type, init)
	}
	symExpr := sym.Expr().At(v.Loc)
	if !static {
		return ir.Decl(symExpr, init), nil
	}
	switch {
	case init != nil:
		sym.Value = init
	case !sym.IsExtern:
		zero, err := l.GenZero(sym.Type)
		if err != nil {
			return nil, err
		}
		sym.Value = zero
	}
	return ir.Decl(symExpr, nil), nil
}

// LowerRecord lowers a struct, class or union into its tag symbol. The
// symbol is registered before the members are assembled so that members
// may refer to the record itself.
func (l *Lowerer) LowerRecord(r *cppast.RecordDecl) error {
	if def, ok := l.Unit.LookupRecord(r.Ref()); ok {
		r = def
	}
	tag, id := l.TagID(r)
	switch l.records[id] {
	case recordInProgress, recordDone:
		return nil
	case recordDeclared:
		if !r.Complete {
			return nil
		}
	}

	t := &ir.Type{Kind: ir.TypeStruct, Tag: tag}
	if r.IsUnion() {
		t.Kind = ir.TypeUnion
	}
	sym := l.NewSymbol(tag, id, t, r.Loc)
	sym.IsType = true
	if !r.Complete {
		t.Incomplete = true
		l.Context.Add(sym)
		l.records[id] = recordDeclared
		return nil
	}
	if old, inserted := l.Context.Add(sym); !inserted {
		old.Type = t
		old.Loc = r.Loc
	}

	l.records[id] = recordInProgress
	l.Debugf("record", "%s %s", t.Kind, tag)
	if err := l.hooks.LowerRecordFields(r, t); err != nil {
		return err
	}
	if err := l.hooks.LowerRecordMethods(r, t); err != nil {
		return err
	}
	l.records[id] = recordDone
	return nil
}

// LowerRecordFields appends the non-static data members in declaration
// order.
func (l *Lowerer) LowerRecordFields(r *cppast.RecordDecl, t *ir.Type) error {
	for _, f := range r.Fields() {
		if f.Static {
			continue
		}
		c, ok, err := l.LowerField(f)
		if err != nil {
			return err
		}
		if ok {
			t.Components = append(t.Components, c)
		}
	}
	return nil
}

// LowerRecordMethods lowers nested records; C aggregates have no methods.
func (l *Lowerer) LowerRecordMethods(r *cppast.RecordDecl, _ *ir.Type) error {
	for _, d := range r.Decls {
		if nested, ok := d.(*cppast.RecordDecl); ok {
			if err := l.hooks.LowerRecord(nested); err != nil {
				return err
			}
		}
	}
	return nil
}

// LowerField builds the component of a data member. Unnamed zero-width
// bit-fields only affect layout and yield no component.
func (l *Lowerer) LowerField(f *cppast.FieldDecl) (ir.Component, bool, error) {
	if f.Name == "" && f.BitWidth == 0 && f.USR == "" {
		return ir.Component{}, false, nil
	}
	name, id, err := l.hooks.DeclName(f)
	if err != nil {
		return ir.Component{}, false, err
	}
	t, err := l.hooks.LowerType(f.Type)
	if err != nil {
		return ir.Component{}, false, err
	}
	align, err := layout.CheckFieldAlignment(l.Target, name, f.Aligned)
	if err != nil {
		return ir.Component{}, false, Failf(diag.LowAlignment, f.Loc, "%v", err)
	}
	return ir.Component{
		Name:       id,
		PrettyName: name,
		BaseName:   name,
		Type:       t,
		Access:     f.Access.String(),
		Alignment:  align,
		BitWidth:   f.BitWidth,
	}, true, nil
}

// LowerFunction lowers a function on first reference. The symbol is added
// before the body is lowered, which makes recursion and forward calls
// resolve to the same entry.
func (l *Lowerer) LowerFunction(f *cppast.FunctionDecl) (*ir.Symbol, error) {
	if def, ok := l.Unit.LookupFunction(f.Ref()); ok {
		f = def
	}
	name, id, err := l.hooks.DeclName(f)
	if err != nil {
		return nil, err
	}
	if l.done[id] {
		if sym, ok := l.Context.Find(id); ok {
			return sym, nil
		}
	}
	l.done[id] = true

	prev, prevT := l.current, l.currentT
	defer func() { l.current, l.currentT = prev, prevT }()
	l.current, l.currentT = f, nil

	ftype, err := l.hooks.LowerFunctionType(f)
	if err != nil {
		return nil, err
	}
	// lowering a method's type lowers its class, which lowers the method
	if sym, ok := l.Context.Find(id); ok && (f.Body == nil || sym.Value != nil) {
		return sym, nil
	}
	l.currentT = ftype

	sym := l.NewSymbol(name, id, ftype, f.Loc)
	sym.Lvalue = true
	sym.StaticLifetime = true
	sym.FileLocal = f.Storage == cppast.StorageStatic
	sym.IsExtern = f.Body == nil
	if old, inserted := l.Context.Add(sym); !inserted {
		old.Type = ftype
		sym = old
	}
	if f.Body == nil {
		return sym, nil
	}
	span := l.beginNode("function", id)
	defer span()
	body, err := l.hooks.LowerFunctionBody(f, ftype)
	if err != nil {
		return nil, err
	}
	sym.Value = body
	sym.IsExtern = false
	return sym, nil
}

// LowerFunctionType builds the code type of a function.
func (l *Lowerer) LowerFunctionType(f *cppast.FunctionDecl) (*ir.Type, error) {
	ret, err := l.hooks.LowerType(f.Result)
	if err != nil {
		return nil, err
	}
	params, err := l.hooks.LowerFunctionParams(f)
	if err != nil {
		return nil, err
	}
	return &ir.Type{Kind: ir.TypeCode, Return: ret, Params: params, Variadic: f.Variadic}, nil
}

// LowerFunctionParams lowers the declared parameters in order.
func (l *Lowerer) LowerFunctionParams(f *cppast.FunctionDecl) ([]ir.Param, error) {
	params := make([]ir.Param, 0, len(f.Params))
	for _, p := range f.Params {
		param, err := l.LowerParam(f, p)
		if err != nil {
			return nil, err
		}
		params = append(params, param)
	}
	return params, nil
}

// LowerParam lowers one parameter. Parameters of a definition get a
// symbol; array and function types decay to pointers.
func (l *Lowerer) LowerParam(f *cppast.FunctionDecl, p *cppast.ParmVarDecl) (ir.Param, error) {
	t, err := l.hooks.LowerType(p.Type)
	if err != nil {
		return ir.Param{}, err
	}
	switch {
	case t.IsArray():
		t = l.PointerTo(t.Subtype)
	case t.IsCode():
		t = l.PointerTo(t)
	}
	name, id, err := l.hooks.DeclName(p)
	if err != nil {
		return ir.Param{}, err
	}
	if id == "" {
		name, id, err = l.hooks.NameUnnamedParam(p)
		if err != nil {
			return ir.Param{}, err
		}
	}
	param := ir.Param{Type: t, Identifier: id, BaseName: name}
	if id == "" || f.Body == nil {
		return param, nil
	}
	sym := l.NewSymbol(name, id, t, p.Loc)
	sym.Lvalue = true
	sym.IsParameter = true
	sym.FileLocal = true
	l.Context.Add(sym)
	return param, nil
}

// LowerFunctionBody lowers the statements of a definition.
func (l *Lowerer) LowerFunctionBody(f *cppast.FunctionDecl, _ *ir.Type) (*ir.Expr, error) {
	return l.hooks.LowerExpr(f.Body)
}

func (l *Lowerer) beginNode(name, detail string) func() {
	if !l.Tracer.Enabled() {
		return func() {}
	}
	parent := l.span
	span := trace.Begin(l.Tracer, trace.ScopeNode, name, parent)
	l.span = span.ID()
	return func() {
		span.End(detail)
		l.span = parent
	}
}
