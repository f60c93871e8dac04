package ir

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func sampleContext() *Context {
	c := NewContext()
	point := &Type{
		Kind: TypeStruct,
		Tag:  "Point",
		Components: []Component{
			{Name: "c:@S@Point@FI@x", PrettyName: "x", Type: Signed(32), Access: "public"},
			{Name: "c:@S@Point@FI@y", PrettyName: "y", Type: Signed(32), Access: "public"},
		},
	}
	c.Add(&Symbol{ID: "tag-Point", Name: "Point", Type: point, IsType: true})
	c.Add(&Symbol{ID: "c:@p", Name: "p", Type: SymbolRef("tag-Point"), Lvalue: true, StaticLifetime: true})
	ret := Code(CodeReturn, Member(SymbolExpr("c:@p", SymbolRef("tag-Point")), "c:@S@Point@FI@x", Signed(32)))
	c.Add(&Symbol{
		ID:    "c:@F@getx#",
		Name:  "getx",
		Type:  &Type{Kind: TypeCode, Return: Signed(32)},
		Value: Block(ret),
	})
	return c
}

func TestContextAppendOrLookup(t *testing.T) {
	c := NewContext()
	first, inserted := c.Add(&Symbol{ID: "a", Name: "first"})
	require.True(t, inserted)
	got, inserted := c.Add(&Symbol{ID: "a", Name: "second"})
	assert.False(t, inserted)
	assert.Same(t, first, got)
	assert.Equal(t, 1, c.Len())
}

func TestContextFollow(t *testing.T) {
	c := sampleContext()
	s, ok := c.Find("c:@p")
	require.True(t, ok)
	followed := c.Follow(s.Type)
	assert.Equal(t, TypeStruct, followed.Kind)
	assert.Equal(t, "Point", followed.Tag)
	assert.Equal(t, SymbolRef("missing"), c.Follow(SymbolRef("missing")))
}

func TestValidateAcceptsWellFormed(t *testing.T) {
	assert.NoError(t, Validate(sampleContext()))
}

func TestValidateReportsViolations(t *testing.T) {
	c := sampleContext()
	bad := PointerTo(Signed(32), 64)
	bad.Reference = true
	bad.RValueReference = true
	c.Add(&Symbol{ID: "c:@r", Type: bad})
	c.Add(&Symbol{ID: "c:@q", Type: Signed(32), Value: SymbolExpr("c:@nowhere", Signed(32))})
	// a static data member that leaked into the components
	c.Add(&Symbol{ID: "c:@S@Point@FI@x", Type: Signed(32), StaticLifetime: true})

	err := Validate(c)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "both #reference and #rvalue_reference")
	assert.Contains(t, msg, `unknown symbol "c:@nowhere"`)
	assert.Contains(t, msg, "has static storage")
}

func TestTypecastElidesIdentity(t *testing.T) {
	e := SymbolExpr("x", Signed(32))
	assert.Same(t, e, Typecast(e, Signed(32)))
	cast := Typecast(e, Unsigned(32))
	assert.Equal(t, KindTypecast, cast.Kind)
}

func TestCloneIsDeep(t *testing.T) {
	s, _ := sampleContext().Find("tag-Point")
	cp := s.Type.Clone()
	cp.Components[0].Type.Constant = true
	assert.False(t, s.Type.Components[0].Type.Constant)
	assert.True(t, s.Type.Equal(s.Type.Clone()))
}

func TestDump(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, sampleContext(), DumpOptions{Bodies: true}))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "symbols=3\n"), out)
	assert.Contains(t, out, "component c:@S@Point@FI@x: signedbv[32] [public]")
	assert.Contains(t, out, "return c:@p.c:@S@Point@FI@x;")
	// ids are padded to one column
	assert.Contains(t, out, "type  tag-Point  struct Point")
}

func TestPackRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "unit.irpack")
	require.NoError(t, WriteFile(path, "unit.cpp", sampleContext()))

	unit, c, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "unit.cpp", unit)
	assert.Equal(t, 3, c.Len())
	fn, ok := c.Find("c:@F@getx#")
	require.True(t, ok)
	assert.Equal(t, CodeBlock, fn.Value.Kind)
	assert.NoError(t, Validate(c))
}

func TestDecodeChecksSchema(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, msgpack.NewEncoder(&buf).Encode(&Pack{Magic: packMagic, Schema: "2.1.0"}))
	_, _, err := Decode(&buf)
	assert.ErrorIs(t, err, ErrSchema)

	buf.Reset()
	require.NoError(t, msgpack.NewEncoder(&buf).Encode(&Pack{Magic: packMagic, Schema: "1.4.2"}))
	_, c, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())

	buf.Reset()
	require.NoError(t, msgpack.NewEncoder(&buf).Encode(&Pack{Magic: "cxxast", Schema: SchemaVersion}))
	_, _, err = Decode(&buf)
	assert.ErrorIs(t, err, ErrNotAnIRPack)
}
