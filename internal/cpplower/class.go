package cpplower

import (
	"cxxfront/internal/clower"
	"cxxfront/internal/cppast"
	"cxxfront/internal/diag"
	"cxxfront/internal/ir"
)

// baseEntry is one class of a base map.
type baseEntry struct {
	id   string
	decl *cppast.RecordDecl
}

// baseMap collects the transitive bases of r. Each base follows its own
// bases; a base reached on several paths is listed once, at its first
// position.
func (l *Lowerer) baseMap(r *cppast.RecordDecl) ([]baseEntry, error) {
	var (
		out  []baseEntry
		seen = make(map[string]bool)
	)
	var walk func(r *cppast.RecordDecl) error
	walk = func(r *cppast.RecordDecl) error {
		for _, spec := range r.Bases {
			b, ok := l.Unit.LookupRecord(spec.Base)
			if !ok {
				return clower.Unresolvedf(r.Loc, "base %q of %s", spec.Base, r.Name)
			}
			if err := l.LowerRecord(b); err != nil {
				return err
			}
			if err := walk(b); err != nil {
				return err
			}
			_, id := l.TagID(b)
			if seen[id] {
				if !spec.Virtual {
					l.Warn(diag.WrnVirtualBase, r.Loc, "repeated base %s of %s is merged into one subobject", b.Name, r.Name)
				}
				continue
			}
			seen[id] = true
			out = append(out, baseEntry{id: id, decl: b})
		}
		return nil
	}
	if err := walk(r); err != nil {
		return nil, err
	}
	return out, nil
}

// LowerRecordFields pulls the members of all bases, then appends the
// record's own data members. Static data members become globals.
func (l *Lowerer) LowerRecordFields(r *cppast.RecordDecl, t *ir.Type) error {
	if len(r.Bases) > 0 {
		bases, err := l.baseMap(r)
		if err != nil {
			return err
		}
		for _, b := range bases {
			t.Bases = append(t.Bases, b.id)
			if err := l.pullBase(t, b); err != nil {
				return err
			}
		}
	}

	_, owner := l.TagID(r)
	class := r.Tag == cppast.TagClass
	for _, f := range r.Fields() {
		if f.Static {
			if _, err := l.lowerStaticField(f); err != nil {
				return err
			}
			continue
		}
		c, ok, err := l.LowerField(f)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if _, dup := t.Component(c.Name); dup {
			continue
		}
		c.Type = c.Type.Clone()
		c.Type.MemberName = owner
		c.Access = access(f.Access, class)
		t.Components = append(t.Components, c)
	}
	return nil
}

// pullBase copies the components and methods of a lowered base into t,
// skipping names t already has.
func (l *Lowerer) pullBase(t *ir.Type, b baseEntry) error {
	sym, ok := l.Context.Find(b.id)
	if !ok {
		return clower.Unresolvedf(b.decl.Loc, "base type %s", b.id)
	}
	bt := sym.Type
	if bt.Incomplete {
		return clower.Malformedf(b.decl.Loc, "base %s is incomplete", b.decl.Name)
	}
	for _, c := range bt.Components {
		if _, ok := t.Component(c.Name); ok {
			continue
		}
		c.Type = c.Type.Clone()
		c.FromBase = true
		t.Components = append(t.Components, c)
	}
	for _, m := range bt.Methods {
		if _, ok := t.Method(m.Name); ok {
			continue
		}
		m.Type = m.Type.Clone()
		m.FromBase = true
		t.Methods = append(t.Methods, m)
	}
	return nil
}

// lowerStaticField lowers a static data member as a global variable.
func (l *Lowerer) lowerStaticField(f *cppast.FieldDecl) (*ir.Symbol, error) {
	v := &cppast.VarDecl{DeclBase: f.DeclBase, Type: f.Type, Init: f.Init}
	if _, err := l.LowerVar(v); err != nil {
		return nil, err
	}
	_, id, err := l.DeclName(v)
	if err != nil {
		return nil, err
	}
	sym, ok := l.Context.Find(id)
	if !ok {
		return nil, clower.Fatalf(diag.FtlSymbolTable, f.Loc, "static member %s was not added", id)
	}
	return sym, nil
}

// LowerRecordMethods runs the two member passes: virtual methods together
// with the vtable first, then everything else in declaration order.
func (l *Lowerer) LowerRecordMethods(r *cppast.RecordDecl, t *ir.Type) error {
	if !r.IsUnion() {
		if err := l.lowerVirtualMethods(r, t); err != nil {
			return err
		}
	}
	for _, d := range r.Decls {
		switch d := d.(type) {
		case *cppast.FieldDecl:
		case *cppast.RecordDecl:
			// the injected class name
			if d.Implicit {
				continue
			}
			if err := l.LowerRecord(d); err != nil {
				return err
			}
		case *cppast.FunctionDecl:
			if d.Method == nil {
				if _, err := l.LowerDecl(d); err != nil {
					return err
				}
				continue
			}
			if d.Method.Virtual || skipMethod(d) {
				continue
			}
			if d.IsStaticMethod() {
				return staticMethodError(d)
			}
			c, err := l.lowerMethod(d)
			if err != nil {
				return err
			}
			addMethod(t, c)
		case *cppast.FunctionTemplateDecl:
			for _, spec := range d.Specializations {
				if !l.instantiate(spec.Common(), spec.Template, l.cfg.DumpExplicitInstantiations) {
					continue
				}
				if spec.Method == nil {
					if _, err := l.LowerDecl(spec); err != nil {
						return err
					}
					continue
				}
				c, err := l.lowerMethod(spec)
				if err != nil {
					return err
				}
				if spec.IsStaticMethod() || spec.Storage == cppast.StorageStatic {
					continue
				}
				addMethod(t, c)
			}
		default:
			// nested declarations contribute nothing to the aggregate
			if _, err := l.LowerDecl(d); err != nil {
				return err
			}
		}
	}
	return nil
}

func addMethod(t *ir.Type, c *ir.Component) {
	if c == nil {
		return
	}
	if _, ok := t.Method(c.Name); ok {
		return
	}
	t.Methods = append(t.Methods, *c)
}
