package cppast

import "testing"

func sampleUnit() *Unit {
	field := &FieldDecl{DeclBase: DeclBase{Name: "x", USR: "c:@S@A@FI@x"}, Type: Builtin(Int)}
	proto := &FunctionDecl{DeclBase: DeclBase{Name: "f", USR: "c:@F@f#"}, Result: Builtin(Void)}
	local := &VarDecl{DeclBase: DeclBase{Name: "y", USR: "c:f.cpp@10@F@f#@y"}, Type: Builtin(Int), Local: true}
	def := &FunctionDecl{
		DeclBase: DeclBase{Name: "f", USR: "c:@F@f#"},
		Result:   Builtin(Void),
		Body:     &CompoundStmt{Body: []Stmt{&DeclStmt{Decls: []Decl{local}}}},
	}
	rec := &RecordDecl{
		DeclBase: DeclBase{Name: "A", USR: "c:@S@A"},
		QualName: "A",
		Complete: true,
		Decls:    []Decl{field},
	}
	return NewUnit("f.cpp", proto, rec, def)
}

func TestLookupPrefersDefinition(t *testing.T) {
	u := sampleUnit()
	fd, ok := u.LookupFunction("c:@F@f#")
	if !ok {
		t.Fatal("f not indexed")
	}
	if fd.Body == nil {
		t.Fatal("expected the definition, got the prototype")
	}
}

func TestIndexReachesNestedDecls(t *testing.T) {
	u := sampleUnit()
	if _, ok := u.LookupField("c:@S@A@FI@x"); !ok {
		t.Error("field not indexed")
	}
	if d, ok := u.Lookup("c:f.cpp@10@F@f#@y"); !ok {
		t.Error("local variable not indexed")
	} else if _, isVar := d.(*VarDecl); !isVar {
		t.Errorf("local resolved to %T", d)
	}
	if got := u.Len(); got != 4 {
		t.Errorf("Len() = %d, want 4", got)
	}
	if _, ok := u.Lookup(""); ok {
		t.Error("empty ref must not resolve")
	}
}

func TestDesugar(t *testing.T) {
	rec := RecordTypeOf("c:@S@A")
	sugared := &ElaboratedType{Named: &TypedefType{Name: "T", Underlying: ConstOf(&TemplateSpecializationType{Name: "A<int>", Desugared: rec})}}
	if got := Desugar(sugared); got != rec {
		t.Fatalf("Desugar() = %#v", got)
	}
	if !IsConst(sugared) {
		t.Error("const hidden under sugar not detected")
	}
	if r, ok := RecordOf(sugared); !ok || r != "c:@S@A" {
		t.Errorf("RecordOf() = %q, %v", r, ok)
	}
	if IsConst(Builtin(Int)) {
		t.Error("int reported const")
	}
}

func TestKindName(t *testing.T) {
	if got := KindName(&CXXThisExpr{}); got != "CXXThisExpr" {
		t.Errorf("KindName = %q", got)
	}
	if got := KindName(42); got != "" {
		t.Errorf("KindName(int) = %q", got)
	}
}
