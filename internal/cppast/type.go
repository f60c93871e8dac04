package cppast

type BuiltinKind uint8

const (
	Void BuiltinKind = iota
	Bool
	Char
	SChar
	UChar
	WChar
	Char8
	Char16
	Char32
	Short
	UShort
	Int
	UInt
	Long
	ULong
	LongLong
	ULongLong
	Int128
	UInt128
	Float
	Double
	LongDouble
	Float128
	NullPtr
)

var builtinNames = [...]string{
	Void: "void", Bool: "bool", Char: "char", SChar: "signed char", UChar: "unsigned char",
	WChar: "wchar_t", Char8: "char8_t", Char16: "char16_t", Char32: "char32_t",
	Short: "short", UShort: "unsigned short", Int: "int", UInt: "unsigned int",
	Long: "long", ULong: "unsigned long", LongLong: "long long", ULongLong: "unsigned long long",
	Int128: "__int128", UInt128: "unsigned __int128", Float: "float", Double: "double",
	LongDouble: "long double", Float128: "__float128", NullPtr: "std::nullptr_t",
}

func (k BuiltinKind) String() string {
	if int(k) < len(builtinNames) {
		return builtinNames[k]
	}
	return "builtin?"
}

type BuiltinType struct{ Kind BuiltinKind }

// QualifiedType adds cv-qualifiers to Inner.
type QualifiedType struct {
	Const    bool
	Volatile bool
	Inner    Type
}

type PointerType struct{ Pointee Type }

type LValueReferenceType struct{ Pointee Type }

type RValueReferenceType struct{ Pointee Type }

// MemberPointerType is Pointee Class::*.
type MemberPointerType struct {
	Pointee Type
	Class   Type
}

type ConstantArrayType struct {
	Elem Type
	Size uint64
}

type IncompleteArrayType struct{ Elem Type }

type VariableArrayType struct {
	Elem Type
	Size Expr
}

type FunctionProtoType struct {
	Result     Type
	Params     []Type
	Variadic   bool
	Exceptions ExceptionSpec
}

type RecordType struct{ Decl Ref }

type EnumType struct{ Decl Ref }

type TypedefType struct {
	Name       string
	Underlying Type
}

type ElaboratedType struct{ Named Type }

type ParenType struct{ Inner Type }

type AutoType struct{ Deduced Type }

type DecltypeType struct{ Underlying Type }

// TemplateSpecializationType is sugar for a named specialization such as
// std::vector<int>; Desugared is the record type it denotes.
type TemplateSpecializationType struct {
	Name      string
	Desugared Type
}

type SubstTemplateTypeParmType struct {
	Param       string
	Replacement Type
}

type UsingType struct{ Underlying Type }

// DependentType is a type that still depends on template parameters. It is
// only legal inside declarations marked Dependent.
type DependentType struct{ Spelling string }

func (*BuiltinType) typeNode()                {}
func (*QualifiedType) typeNode()              {}
func (*PointerType) typeNode()                {}
func (*LValueReferenceType) typeNode()        {}
func (*RValueReferenceType) typeNode()        {}
func (*MemberPointerType) typeNode()          {}
func (*ConstantArrayType) typeNode()          {}
func (*IncompleteArrayType) typeNode()        {}
func (*VariableArrayType) typeNode()          {}
func (*FunctionProtoType) typeNode()          {}
func (*RecordType) typeNode()                 {}
func (*EnumType) typeNode()                   {}
func (*TypedefType) typeNode()                {}
func (*ElaboratedType) typeNode()             {}
func (*ParenType) typeNode()                  {}
func (*AutoType) typeNode()                   {}
func (*DecltypeType) typeNode()               {}
func (*TemplateSpecializationType) typeNode() {}
func (*SubstTemplateTypeParmType) typeNode()  {}
func (*UsingType) typeNode()                  {}
func (*DependentType) typeNode()              {}

// IsConst reports whether t is const-qualified at the top level, looking
// through sugar.
func IsConst(t Type) bool {
	for t != nil {
		switch tt := t.(type) {
		case *QualifiedType:
			if tt.Const {
				return true
			}
			t = tt.Inner
		case *ElaboratedType:
			t = tt.Named
		case *ParenType:
			t = tt.Inner
		case *TypedefType:
			t = tt.Underlying
		case *UsingType:
			t = tt.Underlying
		case *SubstTemplateTypeParmType:
			t = tt.Replacement
		case *TemplateSpecializationType:
			t = tt.Desugared
		default:
			return false
		}
	}
	return false
}

// Desugar strips qualifiers and sugar and returns the canonical type node.
func Desugar(t Type) Type {
	for {
		switch tt := t.(type) {
		case *QualifiedType:
			t = tt.Inner
		case *ElaboratedType:
			t = tt.Named
		case *ParenType:
			t = tt.Inner
		case *TypedefType:
			t = tt.Underlying
		case *UsingType:
			t = tt.Underlying
		case *SubstTemplateTypeParmType:
			t = tt.Replacement
		case *TemplateSpecializationType:
			t = tt.Desugared
		case *AutoType:
			if tt.Deduced == nil {
				return t
			}
			t = tt.Deduced
		case *DecltypeType:
			t = tt.Underlying
		default:
			return t
		}
	}
}

// RecordOf returns the record referenced by t after desugaring, if any.
func RecordOf(t Type) (Ref, bool) {
	if rt, ok := Desugar(t).(*RecordType); ok {
		return rt.Decl, true
	}
	return "", false
}
