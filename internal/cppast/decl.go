package cppast

import "cxxfront/internal/source"

type LinkageSpecDecl struct {
	DeclBase
	Language string // "C" or "C++"
	Decls    []Decl
}

type NamespaceDecl struct {
	DeclBase
	Decls []Decl
}

type TagKind uint8

const (
	TagStruct TagKind = iota
	TagClass
	TagUnion
)

// BaseSpecifier is one entry of a class's base list, in source order.
type BaseSpecifier struct {
	Base    Ref
	Virtual bool
	Access  Access
}

// CaptureField binds a captured variable to the closure field storing it.
type CaptureField struct {
	Var   Ref
	Field Ref
}

// LambdaInfo describes the closure class synthesized for a lambda.
type LambdaInfo struct {
	CallOperator Ref
	Captures     []CaptureField
	ThisField    Ref // empty unless the lambda captures this
}

// RecordDecl is a struct, class or union, including class template
// specializations and lambda closure classes.
type RecordDecl struct {
	DeclBase
	QualName       string // fully qualified name, e.g. "ns::A<int>"
	Tag            TagKind
	Complete       bool // has a definition
	Bases          []BaseSpecifier
	Decls          []Decl
	Lambda         *LambdaInfo
	Specialization TemplateSpecKind
}

func (r *RecordDecl) IsUnion() bool { return r.Tag == TagUnion }

// Fields returns the non-static data members in declaration order.
func (r *RecordDecl) Fields() []*FieldDecl {
	var out []*FieldDecl
	for _, d := range r.Decls {
		if f, ok := d.(*FieldDecl); ok {
			out = append(out, f)
		}
	}
	return out
}

// Methods returns the member functions declared in the record.
func (r *RecordDecl) Methods() []*FunctionDecl {
	var out []*FunctionDecl
	for _, d := range r.Decls {
		if f, ok := d.(*FunctionDecl); ok && f.Method != nil {
			out = append(out, f)
		}
	}
	return out
}

type FieldDecl struct {
	DeclBase
	Type     Type
	Init     Expr // default member initializer
	Static   bool // static storage duration
	BitWidth uint32
	Aligned  int64 // aligned attribute in bytes, 0 if absent
}

type VarDecl struct {
	DeclBase
	Type     Type
	Init     Expr
	Storage  StorageClass
	Local    bool // declared in a function body
	Template TemplateSpecKind
}

type ParmVarDecl struct {
	DeclBase
	Type     Type
	Index    int // 0-based position in the parameter list
	Default  Expr
	Function Ref // owning function
}

type ExceptionSpecKind uint8

const (
	ExceptNone ExceptionSpecKind = iota
	// ExceptDynamic is throw(T1, T2...), including the empty throw().
	ExceptDynamic
	ExceptNoexcept      // noexcept or noexcept(true)
	ExceptNoexceptFalse // noexcept(false)
)

type ExceptionSpec struct {
	Kind  ExceptionSpecKind
	Types []Type
}

type MethodKind uint8

const (
	MethodOrdinary MethodKind = iota
	MethodConstructor
	MethodDestructor
	MethodConversion
)

type SpecialMember uint8

const (
	SpecialNone SpecialMember = iota
	SpecialDefaultConstructor
	SpecialCopyConstructor
	SpecialMoveConstructor
	SpecialCopyAssignment
	SpecialMoveAssignment
	SpecialDestructor
)

type InitKind uint8

const (
	InitUnclassified InitKind = iota
	InitBase
	InitMember
	InitDelegating
)

// CtorInitializer is one entry of a constructor's initializer list, kept in
// source order.
type CtorInitializer struct {
	Kind   InitKind
	Base   Type // InitBase
	Member Ref  // InitMember
	Init   Expr
	Loc    source.Location
}

// MethodInfo is present on member functions only.
type MethodInfo struct {
	Kind               MethodKind
	Parent             Ref
	Static             bool
	Virtual            bool
	Pure               bool
	Const              bool
	Special            SpecialMember
	Defaulted          bool
	Inits              []*CtorInitializer
	ThisType           Type // pointer to the (cv-qualified) class
	Overridden         []Ref
	LambdaCallOperator bool
}

type FunctionDecl struct {
	DeclBase
	QualName   string
	Result     Type
	Params     []*ParmVarDecl
	Variadic   bool
	Body       *CompoundStmt
	Storage    StorageClass
	Inline     bool
	Exceptions ExceptionSpec
	Template   TemplateSpecKind
	Method     *MethodInfo
}

func (f *FunctionDecl) IsMethod() bool { return f.Method != nil }

func (f *FunctionDecl) IsConstructor() bool {
	return f.Method != nil && f.Method.Kind == MethodConstructor
}

func (f *FunctionDecl) IsDestructor() bool {
	return f.Method != nil && f.Method.Kind == MethodDestructor
}

// IsStaticMethod reports a static member function.
func (f *FunctionDecl) IsStaticMethod() bool {
	return f.Method != nil && f.Method.Static
}

type FunctionTemplateDecl struct {
	DeclBase
	Specializations []*FunctionDecl
}

type VarTemplateDecl struct {
	DeclBase
	Specializations []*VarDecl
}

// FriendDecl names either a declaration or a type.
type FriendDecl struct {
	DeclBase
	Friend     Decl
	FriendType Type
}

type EnumDecl struct {
	DeclBase
	QualName  string
	Integer   Type
	Constants []*EnumConstantDecl
	Complete  bool
}

type EnumConstantDecl struct {
	DeclBase
	Type  Type
	Value int64
}

type TypedefDecl struct {
	DeclBase
	Underlying Type
}

type IgnoredKind uint8

const (
	IgnoredUsing IgnoredKind = iota + 1
	IgnoredUsingDirective
	IgnoredUsingShadow
	IgnoredUnresolvedUsing
	IgnoredNamespaceAlias
	IgnoredTypeAlias
	IgnoredTypeAliasTemplate
	IgnoredAccessSpec
	IgnoredClassTemplate
	IgnoredClassTemplatePartialSpecialization
	IgnoredVarTemplatePartialSpecialization
	IgnoredStaticAssert
	IgnoredEmpty
)

// IgnoredDecl covers declaration kinds that produce no IR.
type IgnoredDecl struct {
	DeclBase
	What IgnoredKind
}
