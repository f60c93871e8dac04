package cppast

import "cxxfront/internal/source"

// Ref is the canonical id of a declaration: the front-end's external-linkage
// signature (USR). Equal refs denote the same logical declaration.
type Ref string

// Decl is a declaration node.
type Decl interface {
	declNode()
	Common() *DeclBase
}

// Type is a resolved type descriptor.
type Type interface {
	typeNode()
}

// Stmt is a statement node. Every Expr is also a Stmt.
type Stmt interface {
	stmtNode()
	Location() source.Location
}

// Expr is an expression node carrying its resolved type.
type Expr interface {
	Stmt
	exprNode()
	ExprType() Type
	IsLValue() bool
}

// DeclBase holds the attributes shared by all declarations.
type DeclBase struct {
	Name     string // as written, empty for anonymous entities
	USR      string // canonical signature, empty if the front-end could not produce one
	Loc      source.Location
	Access   Access
	Implicit bool // compiler-synthesized
	// Dependent marks declarations inside an uninstantiated template.
	Dependent bool
}

func (d *DeclBase) declNode() {}

// Common returns the shared attributes.
func (d *DeclBase) Common() *DeclBase { return d }

// Ref returns the canonical reference to this declaration.
func (d *DeclBase) Ref() Ref { return Ref(d.USR) }

type StmtBase struct {
	Loc source.Location
}

func (s *StmtBase) stmtNode() {}

func (s *StmtBase) Location() source.Location { return s.Loc }

type ExprBase struct {
	StmtBase
	Type   Type
	LValue bool
}

func (e *ExprBase) exprNode() {}

func (e *ExprBase) ExprType() Type { return e.Type }

func (e *ExprBase) IsLValue() bool { return e.LValue }

type Access uint8

const (
	AccessNone Access = iota
	AccessPublic
	AccessProtected
	AccessPrivate
)

func (a Access) String() string {
	switch a {
	case AccessPublic:
		return "public"
	case AccessProtected:
		return "protected"
	case AccessPrivate:
		return "private"
	}
	return ""
}

type StorageClass uint8

const (
	StorageNone StorageClass = iota
	StorageStatic
	StorageExtern
)

// TemplateSpecKind classifies how a declaration relates to a template.
type TemplateSpecKind uint8

const (
	TSKNone TemplateSpecKind = iota
	TSKUndeclared
	TSKImplicitInstantiation
	TSKExplicitSpecialization
	TSKExplicitInstantiationDeclaration
	TSKExplicitInstantiationDefinition
)

func (k TemplateSpecKind) String() string {
	switch k {
	case TSKNone:
		return "none"
	case TSKUndeclared:
		return "undeclared"
	case TSKImplicitInstantiation:
		return "implicit-instantiation"
	case TSKExplicitSpecialization:
		return "explicit-specialization"
	case TSKExplicitInstantiationDeclaration:
		return "explicit-instantiation-declaration"
	case TSKExplicitInstantiationDefinition:
		return "explicit-instantiation-definition"
	}
	return "unknown"
}
