package clower

import (
	"cxxfront/internal/cppast"
	"cxxfront/internal/ir"
)

// Hooks is the overridable surface of the lowering. *Lowerer implements it
// with C semantics; every recursive step calls through the registered hooks.
type Hooks interface {
	LowerDecl(d cppast.Decl) (*ir.Expr, error)
	LowerType(t cppast.Type) (*ir.Type, error)
	LowerExpr(s cppast.Stmt) (*ir.Expr, error)

	// DeclName returns the display name and unique id of a declaration.
	// Both are empty for unnamed parameters.
	DeclName(d cppast.Decl) (name, id string, err error)
	NameUnnamedParam(p *cppast.ParmVarDecl) (name, id string, err error)

	LowerVar(v *cppast.VarDecl) (*ir.Expr, error)
	LowerRecord(r *cppast.RecordDecl) error
	LowerRecordFields(r *cppast.RecordDecl, t *ir.Type) error
	LowerRecordMethods(r *cppast.RecordDecl, t *ir.Type) error

	LowerFunctionType(f *cppast.FunctionDecl) (*ir.Type, error)
	LowerFunctionParams(f *cppast.FunctionDecl) ([]ir.Param, error)
	LowerFunctionBody(f *cppast.FunctionDecl, ftype *ir.Type) (*ir.Expr, error)

	LowerDeclRef(d cppast.Decl) (*ir.Expr, error)
	LowerMemberExpr(m *cppast.MemberExpr) (*ir.Expr, error)

	// BindValue adapts a value about to be stored in, passed as, or
	// returned as target.
	BindValue(target *ir.Type, e *ir.Expr) *ir.Expr
}

var _ Hooks = (*Lowerer)(nil)
