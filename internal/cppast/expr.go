package cppast

type CastKind uint8

const (
	CastNoOp CastKind = iota
	CastLValueToRValue
	CastArrayToPointerDecay
	CastFunctionToPointerDecay
	CastIntegral
	CastIntegralToBoolean
	CastIntegralToPointer
	CastPointerToIntegral
	CastPointerToBoolean
	CastIntegralToFloating
	CastFloatingToIntegral
	CastFloatingToBoolean
	CastFloating
	CastBitCast
	CastNullToPointer
	CastDerivedToBase
	CastUncheckedDerivedToBase
	CastBaseToDerived
	CastDynamic
	CastToVoid
	CastConstructorConversion
	CastUserDefinedConversion
	CastOther
)

// CastStyle is the spelling of an explicit C++ cast.
type CastStyle uint8

const (
	CastFunctional CastStyle = iota
	CastStatic
	CastConst
	CastReinterpret
	CastDynamicStyle
)

type UnaryOp uint8

const (
	UnaryPlus UnaryOp = iota
	UnaryMinus
	UnaryNot
	UnaryLNot
	UnaryDeref
	UnaryAddrOf
	UnaryPreInc
	UnaryPreDec
	UnaryPostInc
	UnaryPostDec
	UnaryReal
	UnaryImag
	UnaryExtension
)

type BinaryOp uint8

const (
	BinMul BinaryOp = iota
	BinDiv
	BinRem
	BinAdd
	BinSub
	BinShl
	BinShr
	BinLT
	BinGT
	BinLE
	BinGE
	BinEQ
	BinNE
	BinAnd
	BinXor
	BinOr
	BinLAnd
	BinLOr
	BinAssign
	BinMulAssign
	BinDivAssign
	BinRemAssign
	BinAddAssign
	BinSubAssign
	BinShlAssign
	BinShrAssign
	BinAndAssign
	BinXorAssign
	BinOrAssign
	BinComma
	BinPtrMemD
	BinPtrMemI
)

// IsAssignment reports plain and compound assignment operators.
func (op BinaryOp) IsAssignment() bool {
	return op >= BinAssign && op <= BinOrAssign
}

type IntegerLiteral struct {
	ExprBase
	Value string // decimal
}

type FloatingLiteral struct {
	ExprBase
	Value string
}

type CharacterLiteral struct {
	ExprBase
	Value int64
}

type StringLiteral struct {
	ExprBase
	Value string
}

type CXXBoolLiteralExpr struct {
	ExprBase
	Value bool
}

type CXXNullPtrLiteralExpr struct{ ExprBase }

type DeclRefExpr struct {
	ExprBase
	Decl Ref
	Name string
}

type ParenExpr struct {
	ExprBase
	Sub Expr
}

type ImplicitCastExpr struct {
	ExprBase
	Kind CastKind
	Sub  Expr
}

type CStyleCastExpr struct {
	ExprBase
	Kind CastKind
	Sub  Expr
}

// CXXNamedCastExpr covers functional, static, const, reinterpret and
// dynamic casts.
type CXXNamedCastExpr struct {
	ExprBase
	Style CastStyle
	Kind  CastKind
	Sub   Expr
	// AlwaysNull is set for dynamic casts the front-end proved to always
	// yield a null pointer.
	AlwaysNull bool
}

type UnaryOperator struct {
	ExprBase
	Op  UnaryOp
	Sub Expr
}

type BinaryOperator struct {
	ExprBase
	Op  BinaryOp
	LHS Expr
	RHS Expr
}

type ConditionalOperator struct {
	ExprBase
	Cond Expr
	Then Expr
	Else Expr
}

type CallExpr struct {
	ExprBase
	Callee Expr
	Args   []Expr
}

// CXXMemberCallExpr is obj.f(args) or p->f(args); the implicit object is
// Callee.Base.
type CXXMemberCallExpr struct {
	ExprBase
	Callee *MemberExpr
	Args   []Expr
}

// CXXOperatorCallExpr is an overloaded operator call. For member operators
// the first argument is the object.
type CXXOperatorCallExpr struct {
	ExprBase
	Operator string
	Callee   Expr
	Args     []Expr
}

type MemberExpr struct {
	ExprBase
	Base   Expr
	Member Ref
	Name   string
	Arrow  bool
	// Qualified is set when the member was named with a nested-name
	// specifier (A::f), which suppresses virtual dispatch.
	Qualified bool
}

type ArraySubscriptExpr struct {
	ExprBase
	Base  Expr
	Index Expr
}

type InitListExpr struct {
	ExprBase
	Inits []Expr
}

type TraitKind uint8

const (
	TraitSizeOf TraitKind = iota
	TraitAlignOf
)

// SizeOfExpr is sizeof/alignof with the value computed by the front-end.
type SizeOfExpr struct {
	ExprBase
	Trait TraitKind
	Arg   Type
	Value uint64
}

type ImplicitValueInitExpr struct{ ExprBase }

type OpaqueValueExpr struct {
	ExprBase
	Source Expr
}

type CXXDefaultArgExpr struct {
	ExprBase
	Param Ref
	Expr  Expr
}

type CXXDefaultInitExpr struct {
	ExprBase
	Field Ref
	Expr  Expr
}

type ExprWithCleanups struct {
	ExprBase
	Sub Expr
}

type CXXBindTemporaryExpr struct {
	ExprBase
	Sub Expr
}

type MaterializeTemporaryExpr struct {
	ExprBase
	Sub Expr
	// BoundToLValueRef distinguishes T& (true) from T&& bindings.
	BoundToLValueRef bool
}

type SubstNonTypeTemplateParmExpr struct {
	ExprBase
	Replacement Expr
}

type CXXNewExpr struct {
	ExprBase
	Array     bool
	Size      Expr
	Init      Expr
	Allocated Type
}

type CXXDeleteExpr struct {
	ExprBase
	Array     bool
	Arg       Expr
	Destroyed Type
}

type CXXPseudoDestructorExpr struct {
	ExprBase
	Base Expr
}

type CXXScalarValueInitExpr struct{ ExprBase }

// CXXConstructExpr calls constructor Ctor. Temporary marks T(args) written
// as a temporary object expression.
type CXXConstructExpr struct {
	ExprBase
	Ctor      Ref
	Args      []Expr
	Temporary bool
}

type CXXThisExpr struct {
	ExprBase
	Implicit bool
}

type SizeOfPackExpr struct {
	ExprBase
	Pack           string
	Length         uint64
	ValueDependent bool
}

type CXXThrowExpr struct {
	ExprBase
	Sub Expr
}

// CXXTypeidExpr is typeid(T) or typeid(expr). TypeName is the front-end's
// spelling of the operand type. Polymorphic is set when the operand is a
// glvalue of polymorphic class type whose dynamic type is not known.
type CXXTypeidExpr struct {
	ExprBase
	Operand     Type
	OperandExpr Expr
	TypeName    string
	Polymorphic bool
}

type CaptureKind uint8

const (
	CaptureByCopy CaptureKind = iota
	CaptureByRef
	CaptureThis     // [this]
	CaptureStarThis // [*this]
	CaptureVLAType
)

type LambdaCapture struct {
	Kind CaptureKind
	Var  Ref
}

// LambdaExpr constructs a closure; Inits[i] initializes Captures[i].
type LambdaExpr struct {
	ExprBase
	Class    *RecordDecl
	Captures []LambdaCapture
	Inits    []Expr
}

type CXXStdInitializerListExpr struct {
	ExprBase
	Sub Expr
}

type ArrayInitLoopExpr struct {
	ExprBase
	Common *OpaqueValueExpr
	Sub    Expr
	Size   uint64
}

type ArrayInitIndexExpr struct{ ExprBase }
