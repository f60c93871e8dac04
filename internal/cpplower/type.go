package cpplower

import (
	"cxxfront/internal/clower"
	"cxxfront/internal/cppast"
	"cxxfront/internal/diag"
	"cxxfront/internal/ir"
)

// LowerType adds references, pointers to members and template sugar to
// the base type lowering.
func (l *Lowerer) LowerType(t cppast.Type) (*ir.Type, error) {
	switch t := t.(type) {
	case *cppast.LValueReferenceType:
		return l.lowerReference(t.Pointee, false)
	case *cppast.RValueReferenceType:
		return l.lowerReference(t.Pointee, true)
	case *cppast.MemberPointerType:
		sub, err := l.LowerType(t.Pointee)
		if err != nil {
			return nil, err
		}
		class, err := l.LowerType(t.Class)
		if err != nil {
			return nil, err
		}
		out := l.PointerTo(clower.SymbolizeAggregate(sub))
		out.ToMember = class
		return out, nil
	case *cppast.TemplateSpecializationType:
		if t.Desugared == nil {
			return nil, clower.Failf(diag.LowDependentContext, noLoc, "template specialization %s is dependent", t.Name)
		}
		return l.LowerType(t.Desugared)
	case *cppast.SubstTemplateTypeParmType:
		return l.LowerType(t.Replacement)
	case *cppast.UsingType:
		return l.LowerType(t.Underlying)
	}
	return l.Lowerer.LowerType(t)
}

// lowerReference builds a pointer tagged with the reference kind. A const
// referent makes the pointee constant.
func (l *Lowerer) lowerReference(pointee cppast.Type, rvalue bool) (*ir.Type, error) {
	sub, err := l.LowerType(pointee)
	if err != nil {
		return nil, err
	}
	sub = clower.SymbolizeAggregate(sub)
	if cppast.IsConst(pointee) && !sub.Constant {
		sub = sub.Clone()
		sub.Constant = true
	}
	out := l.PointerTo(sub)
	if rvalue {
		out.RValueReference = true
	} else {
		out.Reference = true
	}
	return out, nil
}
