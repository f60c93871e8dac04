package cppast

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// Wire format of an AST pack (msgpack):
//
//	[magic, schema, unit]
//
// Structs are maps keyed by Go field name. A node behind one of the sum-type
// interfaces is a two-element array [kindName, fields]; kind names come
// from the closed registry in kinds.go.
const (
	astMagic  = "cxxast"
	astSchema = 1
)

var (
	ErrNotAnASTPack = errors.New("cppast: not an AST pack")
	ErrASTSchema    = errors.New("cppast: unsupported AST schema")
)

// Encode writes u to w.
func Encode(w io.Writer, u *Unit) error {
	if u == nil {
		return errors.New("cppast: nil unit")
	}
	enc := msgpack.NewEncoder(w)
	if err := enc.EncodeArrayLen(3); err != nil {
		return err
	}
	if err := enc.EncodeString(astMagic); err != nil {
		return err
	}
	if err := enc.EncodeUint(astSchema); err != nil {
		return err
	}
	return encodeValue(enc, reflect.ValueOf(u).Elem())
}

// Decode reads a unit from r and indexes it.
func Decode(r io.Reader) (*Unit, error) {
	dec := msgpack.NewDecoder(r)
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotAnASTPack, err)
	}
	if n != 3 {
		return nil, ErrNotAnASTPack
	}
	magic, err := dec.DecodeString()
	if err != nil || magic != astMagic {
		return nil, ErrNotAnASTPack
	}
	schema, err := dec.DecodeUint64()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotAnASTPack, err)
	}
	if schema != astSchema {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrASTSchema, schema, astSchema)
	}
	u := &Unit{}
	if err := decodeValue(dec, reflect.ValueOf(u).Elem()); err != nil {
		return nil, err
	}
	u.Reindex()
	return u, nil
}

// ReadFile decodes the AST pack at path.
func ReadFile(path string) (*Unit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	u, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return u, nil
}

func encodeValue(enc *msgpack.Encoder, v reflect.Value) error {
	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return enc.EncodeNil()
		}
		inner := v.Elem()
		name, ok := nameByKind[inner.Type()]
		if !ok {
			return fmt.Errorf("cppast: unregistered node type %s", inner.Type())
		}
		if inner.IsNil() {
			return enc.EncodeNil()
		}
		if err := enc.EncodeArrayLen(2); err != nil {
			return err
		}
		if err := enc.EncodeString(name); err != nil {
			return err
		}
		return encodeStruct(enc, inner.Elem())
	case reflect.Pointer:
		if v.IsNil() {
			return enc.EncodeNil()
		}
		return encodeValue(enc, v.Elem())
	case reflect.Struct:
		return encodeStruct(enc, v)
	case reflect.Slice:
		if v.IsNil() {
			return enc.EncodeNil()
		}
		if err := enc.EncodeArrayLen(v.Len()); err != nil {
			return err
		}
		for i := range v.Len() {
			if err := encodeValue(enc, v.Index(i)); err != nil {
				return err
			}
		}
		return nil
	default:
		return enc.EncodeValue(v)
	}
}

func encodeStruct(enc *msgpack.Encoder, v reflect.Value) error {
	t := v.Type()
	fields := make([]int, 0, t.NumField())
	for i := range t.NumField() {
		if t.Field(i).IsExported() {
			fields = append(fields, i)
		}
	}
	if err := enc.EncodeMapLen(len(fields)); err != nil {
		return err
	}
	for _, i := range fields {
		if err := enc.EncodeString(t.Field(i).Name); err != nil {
			return err
		}
		if err := encodeValue(enc, v.Field(i)); err != nil {
			return fmt.Errorf("%s.%s: %w", t.Name(), t.Field(i).Name, err)
		}
	}
	return nil
}

func peekNil(dec *msgpack.Decoder) (bool, error) {
	c, err := dec.PeekCode()
	if err != nil {
		return false, err
	}
	return c == msgpcode.Nil, nil
}

func decodeValue(dec *msgpack.Decoder, v reflect.Value) error {
	switch v.Kind() {
	case reflect.Interface:
		isNil, err := peekNil(dec)
		if err != nil {
			return err
		}
		if isNil {
			v.Set(reflect.Zero(v.Type()))
			return dec.DecodeNil()
		}
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return err
		}
		if n != 2 {
			return fmt.Errorf("cppast: malformed node: %d elements", n)
		}
		name, err := dec.DecodeString()
		if err != nil {
			return err
		}
		typ, ok := kindByName[name]
		if !ok {
			return fmt.Errorf("cppast: unknown node kind %q", name)
		}
		if !typ.Implements(v.Type()) {
			return fmt.Errorf("cppast: node kind %s is not a %s", name, v.Type().Name())
		}
		ptr := reflect.New(typ.Elem())
		if err := decodeStruct(dec, ptr.Elem()); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		v.Set(ptr)
		return nil
	case reflect.Pointer:
		isNil, err := peekNil(dec)
		if err != nil {
			return err
		}
		if isNil {
			v.Set(reflect.Zero(v.Type()))
			return dec.DecodeNil()
		}
		ptr := reflect.New(v.Type().Elem())
		if err := decodeValue(dec, ptr.Elem()); err != nil {
			return err
		}
		v.Set(ptr)
		return nil
	case reflect.Struct:
		return decodeStruct(dec, v)
	case reflect.Slice:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return err
		}
		if n < 0 {
			v.Set(reflect.Zero(v.Type()))
			return nil
		}
		s := reflect.MakeSlice(v.Type(), n, n)
		for i := range n {
			if err := decodeValue(dec, s.Index(i)); err != nil {
				return err
			}
		}
		v.Set(s)
		return nil
	default:
		return dec.DecodeValue(v)
	}
}

func decodeStruct(dec *msgpack.Decoder, v reflect.Value) error {
	n, err := dec.DecodeMapLen()
	if err != nil {
		return err
	}
	t := v.Type()
	for range max(n, 0) {
		key, err := dec.DecodeString()
		if err != nil {
			return err
		}
		f, ok := t.FieldByName(key)
		if !ok || !f.IsExported() || len(f.Index) != 1 {
			// Fields written by newer producers are skipped.
			if err := dec.Skip(); err != nil {
				return err
			}
			continue
		}
		if err := decodeValue(dec, v.Field(f.Index[0])); err != nil {
			return fmt.Errorf("%s.%s: %w", t.Name(), key, err)
		}
	}
	return nil
}
