package cppast

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"cxxfront/internal/source"
)

func TestCodecPreservesTree(t *testing.T) {
	u := sampleUnit()
	lambda := &LambdaExpr{
		ExprBase: ExprBase{Type: RecordTypeOf("c:@F@f#@Sa")},
		Class: &RecordDecl{
			DeclBase: DeclBase{USR: "c:@F@f#@Sa", Implicit: true},
			Complete: true,
			Lambda:   &LambdaInfo{CallOperator: "c:@F@f#@Sa@F@operator()#1"},
		},
		Captures: []LambdaCapture{{Kind: CaptureByRef, Var: "c:f.cpp@10@F@f#@y"}},
		Inits: []Expr{&DeclRefExpr{
			ExprBase: ExprBase{StmtBase: StmtBase{Loc: source.Location{File: "f.cpp", Line: 11, Column: 3}}, Type: Builtin(Int), LValue: true},
			Decl:     "c:f.cpp@10@F@f#@y",
			Name:     "y",
		}},
	}
	def, _ := u.LookupFunction("c:@F@f#")
	def.Body.Body = append(def.Body.Body, lambda)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, u))

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, u.Path, got.Path)
	assert.Equal(t, u.Decls, got.Decls)

	// Closure classes travel inside expressions and must be indexed again.
	rd, ok := got.LookupRecord("c:@F@f#@Sa")
	require.True(t, ok)
	require.NotNil(t, rd.Lambda)
	assert.Equal(t, Ref("c:@F@f#@Sa@F@operator()#1"), rd.Lambda.CallOperator)
}

func TestDecodeRejectsForeignData(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, msgpack.NewEncoder(&buf).Encode([]any{"cxxir", 1, nil}))
	_, err := Decode(&buf)
	assert.ErrorIs(t, err, ErrNotAnASTPack)

	buf.Reset()
	require.NoError(t, msgpack.NewEncoder(&buf).Encode([]any{astMagic, 99, nil}))
	_, err = Decode(&buf)
	assert.ErrorIs(t, err, ErrASTSchema)
}

func TestDecodeUnknownKind(t *testing.T) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	require.NoError(t, enc.Encode([]any{
		astMagic, astSchema,
		map[string]any{"Path": "x.cpp", "Decls": []any{[]any{"ConceptDecl", map[string]any{}}}},
	}))
	_, err := Decode(&buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown node kind "ConceptDecl"`)
}
