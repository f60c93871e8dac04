package cppast

import (
	"reflect"
)

// Unit is one translation unit.
type Unit struct {
	Path  string
	Decls []Decl

	index map[Ref]Decl
}

// NewUnit builds a unit and indexes its declarations.
func NewUnit(path string, decls ...Decl) *Unit {
	u := &Unit{Path: path, Decls: decls}
	u.Reindex()
	return u
}

// Reindex rebuilds the canonical-id index. Every declaration reachable from
// the unit is indexed, including locals, parameters and the members of
// lambda closure classes. When several declarations share an id the
// definition wins over mere redeclarations.
func (u *Unit) Reindex() {
	u.index = make(map[Ref]Decl)
	Walk(u.Decls, func(d Decl) {
		usr := d.Common().USR
		if usr == "" {
			return
		}
		ref := Ref(usr)
		if old, ok := u.index[ref]; ok && !isBetterDecl(old, d) {
			return
		}
		u.index[ref] = d
	})
}

// Lookup resolves a canonical reference.
func (u *Unit) Lookup(r Ref) (Decl, bool) {
	if u == nil || r == "" {
		return nil, false
	}
	if u.index == nil {
		u.Reindex()
	}
	d, ok := u.index[r]
	return d, ok
}

func (u *Unit) LookupRecord(r Ref) (*RecordDecl, bool) {
	d, ok := u.Lookup(r)
	if !ok {
		return nil, false
	}
	rd, ok := d.(*RecordDecl)
	return rd, ok
}

func (u *Unit) LookupFunction(r Ref) (*FunctionDecl, bool) {
	d, ok := u.Lookup(r)
	if !ok {
		return nil, false
	}
	fd, ok := d.(*FunctionDecl)
	return fd, ok
}

func (u *Unit) LookupField(r Ref) (*FieldDecl, bool) {
	d, ok := u.Lookup(r)
	if !ok {
		return nil, false
	}
	fd, ok := d.(*FieldDecl)
	return fd, ok
}

// Len returns the number of indexed declarations.
func (u *Unit) Len() int {
	if u.index == nil {
		u.Reindex()
	}
	return len(u.index)
}

func isBetterDecl(old, cand Decl) bool {
	switch c := cand.(type) {
	case *FunctionDecl:
		o, ok := old.(*FunctionDecl)
		return ok && o.Body == nil && c.Body != nil
	case *RecordDecl:
		o, ok := old.(*RecordDecl)
		return ok && !o.Complete && c.Complete
	case *VarDecl:
		o, ok := old.(*VarDecl)
		return ok && o.Init == nil && c.Init != nil
	case *EnumDecl:
		o, ok := old.(*EnumDecl)
		return ok && !o.Complete && c.Complete
	}
	return false
}

var declType = reflect.TypeOf((*Decl)(nil)).Elem()

// Walk calls fn for every declaration reachable from root in depth-first
// pre-order. root may be any node, slice of nodes, or Unit.
func Walk(root any, fn func(Decl)) {
	walkValue(reflect.ValueOf(root), fn)
}

func walkValue(v reflect.Value, fn func(Decl)) {
	switch v.Kind() {
	case reflect.Interface:
		if !v.IsNil() {
			walkValue(v.Elem(), fn)
		}
	case reflect.Pointer:
		if v.IsNil() {
			return
		}
		if v.Type().Implements(declType) {
			fn(v.Interface().(Decl))
		}
		walkValue(v.Elem(), fn)
	case reflect.Struct:
		t := v.Type()
		for i := range t.NumField() {
			if !t.Field(i).IsExported() {
				continue
			}
			walkValue(v.Field(i), fn)
		}
	case reflect.Slice, reflect.Array:
		for i := range v.Len() {
			walkValue(v.Index(i), fn)
		}
	}
}
