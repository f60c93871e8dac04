package cppast

// Small constructors for type nodes, mostly useful when assembling units by
// hand.

func Builtin(k BuiltinKind) *BuiltinType { return &BuiltinType{Kind: k} }

func PointerTo(t Type) *PointerType { return &PointerType{Pointee: t} }

func LValueRefTo(t Type) *LValueReferenceType { return &LValueReferenceType{Pointee: t} }

func RValueRefTo(t Type) *RValueReferenceType { return &RValueReferenceType{Pointee: t} }

func ConstOf(t Type) *QualifiedType { return &QualifiedType{Const: true, Inner: t} }

func RecordTypeOf(r Ref) *RecordType { return &RecordType{Decl: r} }

func ArrayOf(elem Type, n uint64) *ConstantArrayType {
	return &ConstantArrayType{Elem: elem, Size: n}
}
