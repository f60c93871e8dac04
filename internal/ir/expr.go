package ir

import (
	"fmt"
	"strconv"

	"cxxfront/internal/source"
)

// Kind enumerates expression and code kinds. Codes are statements; they
// share the Expr node so fragments can move between the two positions.
type Kind uint8

const (
	KindInvalid Kind = iota

	// values
	KindSymbol
	KindConstant
	KindStringConstant
	KindStruct
	KindUnion
	KindArray
	KindArrayOf
	KindAddressOf
	KindDereference
	KindMember
	KindIndex
	KindTypecast
	KindUnary
	KindBinary
	KindIf
	KindSideEffect
	KindNewObject
	KindPseudoDestructor

	// codes
	CodeBlock
	CodeDecl
	CodeDeclBlock
	CodeExpression
	CodeSkip
	CodeReturn
	CodeIfThenElse
	CodeWhile
	CodeDoWhile
	CodeFor
	CodeBreak
	CodeContinue
	CodeSwitch
	CodeSwitchCase
	CodeLabel
	CodeGoto
	CodeCppCatch
	CodeThrowDecl
)

var kindNames = [...]string{
	KindInvalid:          "invalid",
	KindSymbol:           "symbol",
	KindConstant:         "constant",
	KindStringConstant:   "string-constant",
	KindStruct:           "struct",
	KindUnion:            "union",
	KindArray:            "array",
	KindArrayOf:          "array_of",
	KindAddressOf:        "address_of",
	KindDereference:      "dereference",
	KindMember:           "member",
	KindIndex:            "index",
	KindTypecast:         "typecast",
	KindUnary:            "unary",
	KindBinary:           "binary",
	KindIf:               "if",
	KindSideEffect:       "sideeffect",
	KindNewObject:        "new_object",
	KindPseudoDestructor: "cpp-pseudo-destructor",
	CodeBlock:            "block",
	CodeDecl:             "decl",
	CodeDeclBlock:        "decl-block",
	CodeExpression:       "expression",
	CodeSkip:             "skip",
	CodeReturn:           "return",
	CodeIfThenElse:       "ifthenelse",
	CodeWhile:            "while",
	CodeDoWhile:          "dowhile",
	CodeFor:              "for",
	CodeBreak:            "break",
	CodeContinue:         "continue",
	CodeSwitch:           "switch",
	CodeSwitchCase:       "switch_case",
	CodeLabel:            "label",
	CodeGoto:             "goto",
	CodeCppCatch:         "cpp-catch",
	CodeThrowDecl:        "throw_decl",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsCode reports statement kinds.
func (k Kind) IsCode() bool { return k >= CodeBlock }

// Op is a unary or binary operator.
type Op uint8

const (
	OpNone Op = iota
	OpUPlus
	OpNeg
	OpBitNot
	OpNot
	OpReal
	OpImag
	OpMul
	OpDiv
	OpMod
	OpAdd
	OpSub
	OpShl
	OpAShr
	OpLShr
	OpLt
	OpGt
	OpLe
	OpGe
	OpEq
	OpNe
	OpBitAnd
	OpBitXor
	OpBitOr
	OpAnd
	OpOr
	OpComma
)

var opNames = [...]string{
	OpNone: "", OpUPlus: "unary+", OpNeg: "unary-", OpBitNot: "bitnot", OpNot: "not",
	OpReal: "complex_real", OpImag: "complex_imag",
	OpMul: "*", OpDiv: "/", OpMod: "mod", OpAdd: "+", OpSub: "-",
	OpShl: "shl", OpAShr: "ashr", OpLShr: "lshr",
	OpLt: "<", OpGt: ">", OpLe: "<=", OpGe: ">=", OpEq: "=", OpNe: "notequal",
	OpBitAnd: "bitand", OpBitXor: "bitxor", OpBitOr: "bitor", OpAnd: "and", OpOr: "or",
	OpComma: "comma",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", o)
}

// Effect names the kind of a side-effect expression.
type Effect uint8

const (
	EffectNone Effect = iota
	// EffectAssign is plain assignment, or compound assignment when Op is set.
	EffectAssign
	EffectCall
	EffectTemporary
	EffectNew
	EffectNewArray
	EffectDelete
	EffectDeleteArray
	EffectThrow
	EffectPreIncrement
	EffectPreDecrement
	EffectPostIncrement
	EffectPostDecrement
)

var effectNames = [...]string{
	EffectNone:          "",
	EffectAssign:        "assign",
	EffectCall:          "function_call",
	EffectTemporary:     "temporary_object",
	EffectNew:           "cpp_new",
	EffectNewArray:      "cpp_new[]",
	EffectDelete:        "cpp_delete",
	EffectDeleteArray:   "cpp_delete[]",
	EffectThrow:         "cpp-throw",
	EffectPreIncrement:  "preincrement",
	EffectPreDecrement:  "predecrement",
	EffectPostIncrement: "postincrement",
	EffectPostDecrement: "postdecrement",
}

func (e Effect) String() string {
	if int(e) < len(effectNames) {
		return effectNames[e]
	}
	return fmt.Sprintf("Effect(%d)", e)
}

// Flags carry per-node annotations.
type Flags uint16

const (
	FlagLvalue Flags = 1 << iota
	// FlagImplicit marks nodes synthesized by lowering, such as the
	// dereference of a reference.
	FlagImplicit
	// FlagConstructor marks a call to a constructor.
	FlagConstructor
	// FlagNeedVptrInit marks constructor bodies of classes with a vtable
	// pointer; the verifier's adjuster adds the initialization.
	FlagNeedVptrInit
	// FlagDefault marks the default label of a switch.
	FlagDefault
)

// Expr is an IR expression or code. Operand layout per kind:
//
//	Member              [object]            Ident = component name
//	Index               [array, index]
//	If                  [cond, then, else]
//	SideEffect Call     [function, args...]
//	SideEffect Assign   [lhs, rhs]
//	SideEffect Temporary[value]             or Init = constructor code
//	Decl                [symbol] or [symbol, init]
//	IfThenElse          [cond, then] or [cond, then, else]
//	While               [cond, body]
//	DoWhile             [cond, body]
//	For                 [init, cond, iter, body]
//	Switch              [value, body]
//	SwitchCase          [value, body], or [body] with FlagDefault
//	Label               [body]              Ident = label
//	Goto                []                  Ident = label
//	CppCatch            [try, handlers...]
//	ThrowDecl           [markers...]        marker types only
type Expr struct {
	Kind     Kind
	Type     *Type
	Operands []*Expr

	Ident string // symbol id, component name or label
	Value string // constant text

	Op     Op
	Effect Effect
	Init   *Expr // initializer of new and temporary_object
	Size   *Expr // element count of cpp_new[]

	Loc   source.Location
	Flags Flags
}

func (e *Expr) Has(f Flags) bool { return e != nil && e.Flags&f != 0 }

func (e *Expr) IsLvalue() bool { return e.Has(FlagLvalue) }

// Op0 returns the first operand or nil.
func (e *Expr) Op0() *Expr {
	if e == nil || len(e.Operands) == 0 {
		return nil
	}
	return e.Operands[0]
}

// Clone returns a deep copy of e.
func (e *Expr) Clone() *Expr {
	if e == nil {
		return nil
	}
	c := *e
	c.Type = e.Type.Clone()
	c.Init = e.Init.Clone()
	c.Size = e.Size.Clone()
	if e.Operands != nil {
		c.Operands = make([]*Expr, len(e.Operands))
		for i, op := range e.Operands {
			c.Operands[i] = op.Clone()
		}
	}
	return &c
}

// At sets the location and returns e.
func (e *Expr) At(loc source.Location) *Expr {
	e.Loc = loc
	return e
}

func SymbolExpr(id string, t *Type) *Expr {
	return &Expr{Kind: KindSymbol, Ident: id, Type: t, Flags: FlagLvalue}
}

func Constant(value string, t *Type) *Expr {
	return &Expr{Kind: KindConstant, Value: value, Type: t}
}

// IntConstant builds an integer constant of type t.
func IntConstant(v uint64, t *Type) *Expr {
	return Constant(strconv.FormatUint(v, 10), t)
}

func True() *Expr { return Constant("true", Bool()) }

func False() *Expr { return Constant("false", Bool()) }

func AddressOf(e *Expr, pointerWidth uint32) *Expr {
	return &Expr{Kind: KindAddressOf, Type: PointerTo(e.Type.Clone(), pointerWidth), Operands: []*Expr{e}, Loc: e.Loc}
}

// Dereference builds *e typed t.
func Dereference(e *Expr, t *Type) *Expr {
	return &Expr{Kind: KindDereference, Type: t, Operands: []*Expr{e}, Flags: FlagLvalue, Loc: e.Loc}
}

func Member(obj *Expr, component string, t *Type) *Expr {
	return &Expr{Kind: KindMember, Type: t, Ident: component, Operands: []*Expr{obj}, Flags: FlagLvalue, Loc: obj.Loc}
}

func Index(arr, idx *Expr, t *Type) *Expr {
	return &Expr{Kind: KindIndex, Type: t, Operands: []*Expr{arr, idx}, Flags: FlagLvalue, Loc: arr.Loc}
}

// Typecast converts e to t, returning e unchanged when the types already
// agree.
func Typecast(e *Expr, t *Type) *Expr {
	if e.Type.Equal(t) {
		return e
	}
	return &Expr{Kind: KindTypecast, Type: t, Operands: []*Expr{e}, Loc: e.Loc}
}

func Unary(op Op, e *Expr, t *Type) *Expr {
	return &Expr{Kind: KindUnary, Op: op, Type: t, Operands: []*Expr{e}, Loc: e.Loc}
}

func Binary(op Op, lhs, rhs *Expr, t *Type) *Expr {
	return &Expr{Kind: KindBinary, Op: op, Type: t, Operands: []*Expr{lhs, rhs}, Loc: lhs.Loc}
}

func SideEffect(eff Effect, t *Type, ops ...*Expr) *Expr {
	return &Expr{Kind: KindSideEffect, Effect: eff, Type: t, Operands: ops}
}

// Assign builds lhs = rhs as a side effect typed like lhs.
func Assign(lhs, rhs *Expr) *Expr {
	return &Expr{Kind: KindSideEffect, Effect: EffectAssign, Type: lhs.Type, Operands: []*Expr{lhs, rhs}, Loc: lhs.Loc}
}

// Call builds fn(args...) returning t.
func Call(fn *Expr, t *Type, args ...*Expr) *Expr {
	ops := make([]*Expr, 0, len(args)+1)
	ops = append(ops, fn)
	ops = append(ops, args...)
	return &Expr{Kind: KindSideEffect, Effect: EffectCall, Type: t, Operands: ops}
}

// CallArgs returns the arguments of a call side effect.
func (e *Expr) CallArgs() []*Expr {
	if e == nil || e.Effect != EffectCall || len(e.Operands) == 0 {
		return nil
	}
	return e.Operands[1:]
}

// Code builds a statement.
func Code(k Kind, ops ...*Expr) *Expr {
	return &Expr{Kind: k, Type: Empty(), Operands: ops}
}

func Skip() *Expr { return Code(CodeSkip) }

func Block(stmts ...*Expr) *Expr { return Code(CodeBlock, stmts...) }

// Decl declares sym, optionally with an initial value.
func Decl(sym, init *Expr) *Expr {
	if init == nil {
		return Code(CodeDecl, sym).At(sym.Loc)
	}
	return Code(CodeDecl, sym, init).At(sym.Loc)
}

// AsCode wraps a value in an expression statement; codes pass through.
func AsCode(e *Expr) *Expr {
	if e == nil {
		return Skip()
	}
	if e.Kind.IsCode() {
		return e
	}
	return Code(CodeExpression, e).At(e.Loc)
}

// IsSkip reports a no-op statement.
func (e *Expr) IsSkip() bool { return e != nil && e.Kind == CodeSkip }
