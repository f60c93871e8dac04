package cppast

type CompoundStmt struct {
	StmtBase
	Body []Stmt
}

type DeclStmt struct {
	StmtBase
	Decls []Decl
}

type ReturnStmt struct {
	StmtBase
	Value Expr
}

type IfStmt struct {
	StmtBase
	Init    Stmt
	CondVar *DeclStmt
	Cond    Expr
	Then    Stmt
	Else    Stmt
}

type WhileStmt struct {
	StmtBase
	CondVar *DeclStmt
	Cond    Expr
	Body    Stmt
}

type DoStmt struct {
	StmtBase
	Body Stmt
	Cond Expr
}

type ForStmt struct {
	StmtBase
	Init Stmt
	Cond Expr
	Inc  Expr
	Body Stmt
}

type BreakStmt struct{ StmtBase }

type ContinueStmt struct{ StmtBase }

type NullStmt struct{ StmtBase }

type SwitchStmt struct {
	StmtBase
	Init Stmt
	Cond Expr
	Body Stmt
}

type CaseStmt struct {
	StmtBase
	Value Expr
	Sub   Stmt
}

type DefaultStmt struct {
	StmtBase
	Sub Stmt
}

type LabelStmt struct {
	StmtBase
	Name string
	Sub  Stmt
}

type GotoStmt struct {
	StmtBase
	Label string
}

// CXXForRangeStmt is for (init; LoopVar : range) Body, with the range
// protocol already expanded by the front-end.
type CXXForRangeStmt struct {
	StmtBase
	Init    Stmt
	Range   *DeclStmt
	Begin   *DeclStmt
	End     *DeclStmt
	Cond    Expr
	Inc     Expr
	LoopVar *DeclStmt
	Body    Stmt
}

type CXXTryStmt struct {
	StmtBase
	Try      *CompoundStmt
	Handlers []*CXXCatchStmt
}

// CXXCatchStmt is one handler; Exception is nil for catch (...).
type CXXCatchStmt struct {
	StmtBase
	Exception *VarDecl
	Caught    Type
	Handler   *CompoundStmt
}
