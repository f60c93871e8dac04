package ir

import (
	"fmt"
	"reflect"
	"strings"
)

// TypeKind enumerates IR type kinds.
type TypeKind uint8

const (
	TypeEmpty TypeKind = iota
	TypeBool
	TypeSignedBV
	TypeUnsignedBV
	TypeFloatBV
	TypePointer
	TypeArray
	TypeStruct
	TypeUnion
	TypeCode
	// TypeSymbol refers to a type symbol by id; see Context.Follow.
	TypeSymbol
	// TypeConstructor and TypeDestructor replace the return type of
	// constructors and destructors.
	TypeConstructor
	TypeDestructor
	// TypeNoexcept is the marker type of a noexcept specification.
	TypeNoexcept
)

var typeKindNames = [...]string{
	TypeEmpty:       "empty",
	TypeBool:        "bool",
	TypeSignedBV:    "signedbv",
	TypeUnsignedBV:  "unsignedbv",
	TypeFloatBV:     "floatbv",
	TypePointer:     "pointer",
	TypeArray:       "array",
	TypeStruct:      "struct",
	TypeUnion:       "union",
	TypeCode:        "code",
	TypeSymbol:      "symbol",
	TypeConstructor: "constructor",
	TypeDestructor:  "destructor",
	TypeNoexcept:    "noexcept",
}

func (k TypeKind) String() string {
	if int(k) < len(typeKindNames) {
		return typeKindNames[k]
	}
	return fmt.Sprintf("TypeKind(%d)", k)
}

// Type is an IR type descriptor. Which fields are meaningful depends on Kind.
type Type struct {
	Kind  TypeKind
	Width uint32 // bit width of bitvector, float and pointer types

	Subtype *Type // pointee or element type
	Size    *Expr // array length; nil for incomplete arrays

	Tag        string // struct/union tag
	Components []Component
	Methods    []Component
	Bases      []string // base class type symbol ids, in base-map order
	Incomplete bool     // declared but not defined

	Params   []Param
	Return   *Type
	Variadic bool

	Ident string // TypeSymbol target

	Constant        bool // #constant
	Volatile        bool
	Reference       bool  // #reference
	RValueReference bool  // #rvalue_reference
	ToMember        *Type // to-member: class of a pointer-to-member
	// MemberName is the type symbol id of the aggregate that owns a field
	// or method (#member_name).
	MemberName            string
	ImplicitUnionCopyMove bool // #implicit_union_copy_move_constructor
	Ellipsis              bool // catch (...)
}

// Component is a field or method of a struct or union.
type Component struct {
	Name       string // unique id
	PrettyName string
	BaseName   string
	Type       *Type
	Access     string
	FromBase   bool
	Inlined    bool
	Virtual    bool
	// Vptr marks the injected virtual table pointer.
	Vptr      bool
	Alignment uint32 // bytes, 0 if unconstrained
	BitWidth  uint32
}

// Param is one parameter of a code type.
type Param struct {
	Type       *Type
	Identifier string
	BaseName   string
}

func Empty() *Type { return &Type{Kind: TypeEmpty} }

func Bool() *Type { return &Type{Kind: TypeBool, Width: 8} }

func Signed(width uint32) *Type { return &Type{Kind: TypeSignedBV, Width: width} }

func Unsigned(width uint32) *Type { return &Type{Kind: TypeUnsignedBV, Width: width} }

func Float(width uint32) *Type { return &Type{Kind: TypeFloatBV, Width: width} }

// PointerTo returns a pointer to sub. Width is left to the caller's target.
func PointerTo(sub *Type, width uint32) *Type {
	return &Type{Kind: TypePointer, Width: width, Subtype: sub}
}

// ArrayOf returns an array of elem; size may be nil.
func ArrayOf(elem *Type, size *Expr) *Type {
	return &Type{Kind: TypeArray, Subtype: elem, Size: size}
}

// SymbolRef returns a symbolic reference to the type symbol id.
func SymbolRef(id string) *Type { return &Type{Kind: TypeSymbol, Ident: id} }

func (t *Type) IsPointer() bool { return t != nil && t.Kind == TypePointer }

func (t *Type) IsArray() bool { return t != nil && t.Kind == TypeArray }

func (t *Type) IsCode() bool { return t != nil && t.Kind == TypeCode }

func (t *Type) IsStructOrUnion() bool {
	return t != nil && (t.Kind == TypeStruct || t.Kind == TypeUnion)
}

// IsReference reports a pointer produced from an lvalue or rvalue reference.
func (t *Type) IsReference() bool {
	return t.IsPointer() && (t.Reference || t.RValueReference)
}

// IsSignedInt reports a signed bitvector.
func (t *Type) IsSignedInt() bool { return t != nil && t.Kind == TypeSignedBV }

// Clone returns a deep copy of t. Expressions inside the type (array sizes)
// are cloned as well.
func (t *Type) Clone() *Type {
	if t == nil {
		return nil
	}
	c := *t
	c.Subtype = t.Subtype.Clone()
	c.Size = t.Size.Clone()
	c.Return = t.Return.Clone()
	c.ToMember = t.ToMember.Clone()
	if t.Components != nil {
		c.Components = cloneComponents(t.Components)
	}
	if t.Methods != nil {
		c.Methods = cloneComponents(t.Methods)
	}
	if t.Bases != nil {
		c.Bases = append([]string(nil), t.Bases...)
	}
	if t.Params != nil {
		c.Params = make([]Param, len(t.Params))
		for i, p := range t.Params {
			p.Type = p.Type.Clone()
			c.Params[i] = p
		}
	}
	return &c
}

func cloneComponents(in []Component) []Component {
	out := make([]Component, len(in))
	for i, c := range in {
		c.Type = c.Type.Clone()
		out[i] = c
	}
	return out
}

// Equal reports structural equality, including annotations.
func (t *Type) Equal(o *Type) bool {
	return reflect.DeepEqual(t, o)
}

// Component returns the component with the given name.
func (t *Type) Component(name string) (*Component, bool) {
	if t == nil {
		return nil, false
	}
	for i := range t.Components {
		if t.Components[i].Name == name {
			return &t.Components[i], true
		}
	}
	return nil, false
}

// Method returns the method component with the given name.
func (t *Type) Method(name string) (*Component, bool) {
	if t == nil {
		return nil, false
	}
	for i := range t.Methods {
		if t.Methods[i].Name == name {
			return &t.Methods[i], true
		}
	}
	return nil, false
}

// String renders t on one line. Aggregates print their tag only.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	var sb strings.Builder
	if t.Constant {
		sb.WriteString("const ")
	}
	if t.Volatile {
		sb.WriteString("volatile ")
	}
	switch t.Kind {
	case TypeSignedBV, TypeUnsignedBV, TypeFloatBV:
		fmt.Fprintf(&sb, "%s[%d]", t.Kind, t.Width)
	case TypePointer:
		switch {
		case t.Reference:
			sb.WriteString("&")
		case t.RValueReference:
			sb.WriteString("&&")
		default:
			sb.WriteString("*")
		}
		sb.WriteString(t.Subtype.String())
		if t.ToMember != nil {
			fmt.Fprintf(&sb, " to-member(%s)", t.ToMember)
		}
	case TypeArray:
		sb.WriteString(t.Subtype.String())
		if t.Size != nil {
			fmt.Fprintf(&sb, "[%s]", FormatExpr(t.Size))
		} else {
			sb.WriteString("[]")
		}
	case TypeStruct, TypeUnion:
		fmt.Fprintf(&sb, "%s %s", t.Kind, t.Tag)
		if t.Incomplete {
			sb.WriteString(" (incomplete)")
		}
	case TypeCode:
		sb.WriteString("code(")
		for i, p := range t.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			if p.BaseName != "" {
				sb.WriteString(p.BaseName)
				sb.WriteString(": ")
			}
			sb.WriteString(p.Type.String())
		}
		if t.Variadic {
			if len(t.Params) > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("...")
		}
		sb.WriteString(") -> ")
		sb.WriteString(t.Return.String())
	case TypeSymbol:
		fmt.Fprintf(&sb, "symbol(%s)", t.Ident)
	default:
		sb.WriteString(t.Kind.String())
	}
	return sb.String()
}
