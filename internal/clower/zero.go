package clower

import (
	"cxxfront/internal/ir"
)

// GenZero builds the zero value of t: false, 0, NULL, or an aggregate of
// zeros. A union is zeroed through its first member.
func (l *Lowerer) GenZero(t *ir.Type) (*ir.Expr, error) {
	ft := l.Context.Follow(t)
	switch ft.Kind {
	case ir.TypeBool:
		return ir.Constant("false", t.Clone()), nil
	case ir.TypeSignedBV, ir.TypeUnsignedBV, ir.TypeFloatBV:
		return ir.Constant("0", t.Clone()), nil
	case ir.TypePointer:
		return ir.Constant("NULL", t.Clone()), nil
	case ir.TypeArray:
		elem, err := l.GenZero(ft.Subtype)
		if err != nil {
			return nil, err
		}
		return &ir.Expr{Kind: ir.KindArrayOf, Type: t.Clone(), Operands: []*ir.Expr{elem}}, nil
	case ir.TypeStruct:
		if ft.Incomplete {
			return nil, Unsupportedf(noLoc, "zero value of incomplete struct %s", ft.Tag)
		}
		out := &ir.Expr{Kind: ir.KindStruct, Type: t.Clone()}
		for _, c := range ft.Components {
			z, err := l.GenZero(c.Type)
			if err != nil {
				return nil, err
			}
			out.Operands = append(out.Operands, z)
		}
		return out, nil
	case ir.TypeUnion:
		out := &ir.Expr{Kind: ir.KindUnion, Type: t.Clone()}
		if len(ft.Components) == 0 {
			return out, nil
		}
		first := ft.Components[0]
		z, err := l.GenZero(first.Type)
		if err != nil {
			return nil, err
		}
		out.Ident = first.Name
		out.Operands = []*ir.Expr{z}
		return out, nil
	}
	return nil, Unsupportedf(noLoc, "no zero value for %s", t)
}
