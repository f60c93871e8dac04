package cpplower

import (
	"fmt"
	"strconv"
	"strings"

	"cxxfront/internal/clower"
	"cxxfront/internal/cppast"
	"cxxfront/internal/diag"
	"cxxfront/internal/source"
)

// DeclName refines the base naming for anonymous constructors and named
// parameters. Expanded parameter packs give every parameter the same
// signature, so parameters carry their position in both name and id.
func (l *Lowerer) DeclName(d cppast.Decl) (name, id string, err error) {
	switch d := d.(type) {
	case *cppast.FunctionDecl:
		if d.IsConstructor() && d.Name == "" {
			if d.USR == "" {
				return "", "", clower.Fatalf(diag.FtlCanonicalID, d.Loc, "cannot derive a canonical id for an anonymous constructor")
			}
			return anonConstructorName(d.Loc), d.USR, nil
		}
	case *cppast.ParmVarDecl:
		if d.Name != "" {
			if d.USR == "" {
				return "", "", clower.Fatalf(diag.FtlCanonicalID, d.Loc, "cannot derive a canonical id for parameter %q", d.Name)
			}
			suffix := "::" + strconv.Itoa(d.Index)
			return d.Name + suffix, d.USR + suffix, nil
		}
	}
	return l.Lowerer.DeclName(d)
}

func anonConstructorName(loc source.Location) string {
	name := fmt.Sprintf("__anon_constructor_at_%s_%s_%d_%d",
		source.NormalizePath(loc.File), loc.Function, loc.Line, loc.Column)
	return strings.ReplaceAll(name, ".", "_")
}

// NameUnnamedParam names the source parameter of synthesized copy and move
// operations after the method.
func (l *Lowerer) NameUnnamedParam(p *cppast.ParmVarDecl) (name, id string, err error) {
	f, ok := l.Unit.LookupFunction(p.Function)
	if !ok || f.Method == nil {
		return "", "", nil
	}
	m := f.Method
	assign := f.Implicit && (m.Special == cppast.SpecialCopyAssignment || m.Special == cppast.SpecialMoveAssignment)
	defaulted := (f.IsConstructor() || f.IsDestructor()) && m.Defaulted
	if !assign && !defaulted {
		return "", "", nil
	}
	name, id, err = l.DeclName(f)
	if err != nil {
		return "", "", err
	}
	return name + "::ref", id + "::ref", nil
}
