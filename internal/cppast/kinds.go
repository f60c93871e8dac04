package cppast

import "reflect"

// nodeKinds is the closed set of node variants that may appear behind the
// Decl, Type, Stmt and Expr interfaces.
var nodeKinds = []any{
	// declarations
	(*LinkageSpecDecl)(nil),
	(*NamespaceDecl)(nil),
	(*RecordDecl)(nil),
	(*FieldDecl)(nil),
	(*VarDecl)(nil),
	(*ParmVarDecl)(nil),
	(*FunctionDecl)(nil),
	(*FunctionTemplateDecl)(nil),
	(*VarTemplateDecl)(nil),
	(*FriendDecl)(nil),
	(*EnumDecl)(nil),
	(*EnumConstantDecl)(nil),
	(*TypedefDecl)(nil),
	(*IgnoredDecl)(nil),

	// types
	(*BuiltinType)(nil),
	(*QualifiedType)(nil),
	(*PointerType)(nil),
	(*LValueReferenceType)(nil),
	(*RValueReferenceType)(nil),
	(*MemberPointerType)(nil),
	(*ConstantArrayType)(nil),
	(*IncompleteArrayType)(nil),
	(*VariableArrayType)(nil),
	(*FunctionProtoType)(nil),
	(*RecordType)(nil),
	(*EnumType)(nil),
	(*TypedefType)(nil),
	(*ElaboratedType)(nil),
	(*ParenType)(nil),
	(*AutoType)(nil),
	(*DecltypeType)(nil),
	(*TemplateSpecializationType)(nil),
	(*SubstTemplateTypeParmType)(nil),
	(*UsingType)(nil),
	(*DependentType)(nil),

	// statements
	(*CompoundStmt)(nil),
	(*DeclStmt)(nil),
	(*ReturnStmt)(nil),
	(*IfStmt)(nil),
	(*WhileStmt)(nil),
	(*DoStmt)(nil),
	(*ForStmt)(nil),
	(*BreakStmt)(nil),
	(*ContinueStmt)(nil),
	(*NullStmt)(nil),
	(*SwitchStmt)(nil),
	(*CaseStmt)(nil),
	(*DefaultStmt)(nil),
	(*LabelStmt)(nil),
	(*GotoStmt)(nil),
	(*CXXForRangeStmt)(nil),
	(*CXXTryStmt)(nil),
	(*CXXCatchStmt)(nil),

	// expressions
	(*IntegerLiteral)(nil),
	(*FloatingLiteral)(nil),
	(*CharacterLiteral)(nil),
	(*StringLiteral)(nil),
	(*CXXBoolLiteralExpr)(nil),
	(*CXXNullPtrLiteralExpr)(nil),
	(*DeclRefExpr)(nil),
	(*ParenExpr)(nil),
	(*ImplicitCastExpr)(nil),
	(*CStyleCastExpr)(nil),
	(*CXXNamedCastExpr)(nil),
	(*UnaryOperator)(nil),
	(*BinaryOperator)(nil),
	(*ConditionalOperator)(nil),
	(*CallExpr)(nil),
	(*CXXMemberCallExpr)(nil),
	(*CXXOperatorCallExpr)(nil),
	(*MemberExpr)(nil),
	(*ArraySubscriptExpr)(nil),
	(*InitListExpr)(nil),
	(*SizeOfExpr)(nil),
	(*ImplicitValueInitExpr)(nil),
	(*OpaqueValueExpr)(nil),
	(*CXXDefaultArgExpr)(nil),
	(*CXXDefaultInitExpr)(nil),
	(*ExprWithCleanups)(nil),
	(*CXXBindTemporaryExpr)(nil),
	(*MaterializeTemporaryExpr)(nil),
	(*SubstNonTypeTemplateParmExpr)(nil),
	(*CXXNewExpr)(nil),
	(*CXXDeleteExpr)(nil),
	(*CXXPseudoDestructorExpr)(nil),
	(*CXXScalarValueInitExpr)(nil),
	(*CXXConstructExpr)(nil),
	(*CXXThisExpr)(nil),
	(*SizeOfPackExpr)(nil),
	(*CXXThrowExpr)(nil),
	(*CXXTypeidExpr)(nil),
	(*LambdaExpr)(nil),
	(*CXXStdInitializerListExpr)(nil),
	(*ArrayInitLoopExpr)(nil),
	(*ArrayInitIndexExpr)(nil),
}

var (
	kindByName = make(map[string]reflect.Type, len(nodeKinds))
	nameByKind = make(map[reflect.Type]string, len(nodeKinds))
)

func init() {
	for _, k := range nodeKinds {
		t := reflect.TypeOf(k)
		name := t.Elem().Name()
		kindByName[name] = t
		nameByKind[t] = name
	}
}

// KindName returns the registered variant name of a node, or "" if n is not
// a known node.
func KindName(n any) string {
	if n == nil {
		return ""
	}
	return nameByKind[reflect.TypeOf(n)]
}
