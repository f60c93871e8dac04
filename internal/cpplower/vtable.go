package cpplower

import (
	"cxxfront/internal/clower"
	"cxxfront/internal/cppast"
	"cxxfront/internal/ir"
	"cxxfront/internal/source"
)

const vtablePrefix = "virtual_table::"

// vtableType is the id of the vtable struct of a class type symbol.
func vtableType(class string) string { return vtablePrefix + class }

// vtableVar is the id of the vtable instance of a class.
func vtableVar(class string) string { return vtableType(class) + "@" + class }

func vptrName(tag string) string { return tag + "@vtable_pointer" }

func hasVptr(t *ir.Type) bool {
	if t == nil {
		return false
	}
	for _, c := range t.Components {
		if c.Vptr {
			return true
		}
	}
	return false
}

// lowerVirtualMethods lowers the virtual methods of r and lays out its
// vtable: one function pointer slot per root virtual method, inherited
// slots first. A class without an inherited vtable pointer gets one as its
// first component. The vtable instance holds the final overriders.
func (l *Lowerer) lowerVirtualMethods(r *cppast.RecordDecl, t *ir.Type) error {
	var virtuals []*cppast.FunctionDecl
	for _, m := range r.Methods() {
		if m.Method.Virtual && !skipMethod(m) {
			virtuals = append(virtuals, m)
		}
	}
	inherited := hasVptr(t)
	if len(virtuals) == 0 && !inherited {
		return nil
	}

	_, class := l.TagID(r)
	vt := &ir.Type{Kind: ir.TypeStruct, Tag: vtableType(class)}
	var slots []*ir.Expr
	for _, b := range t.Bases {
		bt, ok := l.Context.Find(vtableType(b))
		if !ok {
			continue
		}
		inst, _ := l.Context.Find(vtableVar(b))
		for i, c := range bt.Type.Components {
			if _, ok := vt.Component(c.Name); ok {
				continue
			}
			c.Type = c.Type.Clone()
			vt.Components = append(vt.Components, c)
			if inst != nil && inst.Value != nil && i < len(inst.Value.Operands) {
				slots = append(slots, inst.Value.Operands[i].Clone())
			} else {
				slots = append(slots, ir.Constant("NULL", c.Type.Clone()))
			}
		}
	}

	// slots exist before any body is lowered, so bodies may dispatch
	roots := make([]string, len(virtuals))
	for i, m := range virtuals {
		root, err := l.rootMethod(m)
		if err != nil {
			return err
		}
		roots[i] = root
		if _, ok := vt.Component(root); ok {
			continue
		}
		ftype, err := l.LowerFunctionType(m)
		if err != nil {
			return err
		}
		st := l.PointerTo(ftype)
		vt.Components = append(vt.Components, ir.Component{Name: root, PrettyName: m.Name, BaseName: root, Type: st})
		slots = append(slots, ir.Constant("NULL", st.Clone()))
	}

	sym := l.NewSymbol(vt.Tag, vt.Tag, vt, r.Loc)
	sym.IsType = true
	if old, inserted := l.Context.Add(sym); !inserted {
		old.Type = vt
	}
	if !inherited {
		name := vptrName(t.Tag)
		vptr := ir.Component{
			Name:       name,
			PrettyName: name,
			BaseName:   name,
			Type:       l.PointerTo(ir.SymbolRef(vt.Tag)),
			Access:     "public",
			Vptr:       true,
		}
		t.Components = append([]ir.Component{vptr}, t.Components...)
	}

	for i, m := range virtuals {
		c, err := l.lowerMethod(m)
		if err != nil {
			return err
		}
		addMethod(t, c)
		idx := slotIndex(vt, roots[i])
		st := vt.Components[idx].Type
		if m.Method.Pure || c == nil {
			slots[idx] = ir.Constant("NULL", st.Clone())
			continue
		}
		fn, ok := l.Context.Find(c.Name)
		if !ok {
			return clower.Unresolvedf(m.Loc, "virtual method %s", c.Name)
		}
		slots[idx] = ir.Typecast(l.AddressOf(fn.Expr()), st.Clone())
	}

	inst := l.NewSymbol(vtableVar(class), vtableVar(class), ir.SymbolRef(vt.Tag), r.Loc)
	inst.Lvalue = true
	inst.StaticLifetime = true
	inst.Value = &ir.Expr{Kind: ir.KindStruct, Type: ir.SymbolRef(vt.Tag), Operands: slots}
	if old, inserted := l.Context.Add(inst); !inserted {
		old.Value = inst.Value
	}
	l.Debugf("vtable", "%s has %d slots", t.Tag, len(vt.Components))
	return nil
}

func slotIndex(vt *ir.Type, name string) int {
	for i := range vt.Components {
		if vt.Components[i].Name == name {
			return i
		}
	}
	return -1
}

// rootMethod returns the id of the method that introduced the vtable slot
// m overrides.
func (l *Lowerer) rootMethod(m *cppast.FunctionDecl) (string, error) {
	seen := map[cppast.Ref]bool{m.Ref(): true}
	for len(m.Method.Overridden) > 0 {
		base, ok := l.Unit.LookupFunction(m.Method.Overridden[0])
		if !ok || base.Method == nil || seen[base.Ref()] {
			break
		}
		seen[base.Ref()] = true
		m = base
	}
	_, id, err := l.DeclName(m)
	return id, err
}

// virtualCallee loads the slot of m from the vtable of obj. The first
// vtable pointer whose table has the slot is used; a slot introduced by
// the object's own class is read through the class's table.
func (l *Lowerer) virtualCallee(obj *ir.Expr, m *cppast.FunctionDecl, loc source.Location) (*ir.Expr, error) {
	root, err := l.rootMethod(m)
	if err != nil {
		return nil, err
	}
	ct := l.Context.Follow(obj.Type)
	if !ct.IsStructOrUnion() {
		return nil, clower.Malformedf(loc, "virtual call on %s", obj.Type)
	}
	var first *ir.Component
	for i := range ct.Components {
		c := &ct.Components[i]
		if !c.Vptr {
			continue
		}
		if first == nil {
			first = c
		}
		table := c.Type.Subtype.Ident
		if slot, ok := l.slot(table, root); ok {
			return l.loadSlot(obj, c, table, slot), nil
		}
	}
	own := vtableType(clower.TagPrefix + ct.Tag)
	if first != nil {
		if slot, ok := l.slot(own, root); ok {
			return l.loadSlot(obj, first, own, slot), nil
		}
	}
	return nil, clower.Malformedf(loc, "virtual method %q has no vtable slot in %s", m.Name, ct.Tag)
}

func (l *Lowerer) slot(table, name string) (ir.Component, bool) {
	sym, ok := l.Context.Find(table)
	if !ok {
		return ir.Component{}, false
	}
	c, ok := sym.Type.Component(name)
	if !ok {
		return ir.Component{}, false
	}
	return *c, true
}

// loadSlot builds *(obj.vptr->slot).
func (l *Lowerer) loadSlot(obj *ir.Expr, vptr *ir.Component, table string, slot ir.Component) *ir.Expr {
	p := ir.Typecast(ir.Member(obj, vptr.Name, vptr.Type.Clone()), l.PointerTo(ir.SymbolRef(table)))
	fp := ir.Member(ir.Dereference(p, ir.SymbolRef(table)), slot.Name, slot.Type.Clone())
	return ir.Dereference(fp, slot.Type.Subtype.Clone())
}
