package ir

import (
	"errors"
	"fmt"
)

// Validate checks symbol table invariants:
//   - every symbol referenced from a value or type exists;
//   - struct components never include static-storage fields;
//   - methods are code typed;
//   - #reference and #rvalue_reference never co-occur.
//
// All violations are reported, joined.
func Validate(c *Context) error {
	if c == nil {
		return nil
	}
	v := &validator{ctx: c}
	c.Each(func(s *Symbol) bool {
		v.symbol = s.ID
		v.checkType(s.Type)
		v.checkExpr(s.Value)
		if s.IsType {
			v.checkAggregate(s.Type)
		}
		return true
	})
	return errors.Join(v.errs...)
}

type validator struct {
	ctx    *Context
	symbol string
	errs   []error
}

func (v *validator) errorf(format string, args ...any) {
	v.errs = append(v.errs, fmt.Errorf("%s: %s", v.symbol, fmt.Sprintf(format, args...)))
}

func (v *validator) checkType(t *Type) {
	if t == nil {
		return
	}
	if t.Reference && t.RValueReference {
		v.errorf("type %s is both #reference and #rvalue_reference", t)
	}
	switch t.Kind {
	case TypeSymbol:
		if _, ok := v.ctx.Find(t.Ident); !ok {
			v.errorf("unknown type symbol %q", t.Ident)
		}
	case TypePointer, TypeArray:
		v.checkType(t.Subtype)
		v.checkExpr(t.Size)
		v.checkType(t.ToMember)
	case TypeCode:
		for _, p := range t.Params {
			v.checkType(p.Type)
		}
		v.checkType(t.Return)
	case TypeStruct, TypeUnion:
		for i := range t.Components {
			v.checkType(t.Components[i].Type)
		}
		for i := range t.Methods {
			if !t.Methods[i].Type.IsCode() {
				v.errorf("method %s of %s is not code typed", t.Methods[i].Name, t.Tag)
			}
		}
	}
}

func (v *validator) checkAggregate(t *Type) {
	if !t.IsStructOrUnion() {
		return
	}
	for _, comp := range t.Components {
		if s, ok := v.ctx.Find(comp.Name); ok && s.StaticLifetime && !s.IsType {
			v.errorf("component %s of %s has static storage", comp.Name, t.Tag)
		}
	}
}

func (v *validator) checkExpr(e *Expr) {
	if e == nil {
		return
	}
	if e.Kind == KindSymbol {
		if _, ok := v.ctx.Find(e.Ident); !ok {
			v.errorf("reference to unknown symbol %q at %s", e.Ident, e.Loc)
		}
	}
	if e.Kind == KindInvalid {
		v.errorf("invalid expression at %s", e.Loc)
	}
	v.checkType(e.Type)
	v.checkExpr(e.Init)
	v.checkExpr(e.Size)
	for _, op := range e.Operands {
		v.checkExpr(op)
	}
}
