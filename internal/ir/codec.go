package ir

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/vmihailenco/msgpack/v5"
)

const packMagic = "cxxir"

// SchemaVersion is the version of the pack layout written by Encode.
// Readers accept any 1.x producer.
const SchemaVersion = "1.0.0"

const schemaConstraint = "^1"

var (
	ErrNotAnIRPack = errors.New("ir: not an IR pack")
	ErrSchema      = errors.New("ir: incompatible IR schema")
)

// Pack is the on-disk form of a lowered translation unit.
type Pack struct {
	Magic   string
	Schema  string
	Unit    string
	Symbols []*Symbol
}

// Encode writes the symbol table of unit to w.
func Encode(w io.Writer, unit string, c *Context) error {
	p := Pack{Magic: packMagic, Schema: SchemaVersion, Unit: unit, Symbols: c.Symbols()}
	return msgpack.NewEncoder(w).Encode(&p)
}

// Decode reads a pack and rebuilds its symbol table.
func Decode(r io.Reader) (string, *Context, error) {
	var p Pack
	if err := msgpack.NewDecoder(r).Decode(&p); err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrNotAnIRPack, err)
	}
	if p.Magic != packMagic {
		return "", nil, ErrNotAnIRPack
	}
	if err := checkSchema(p.Schema); err != nil {
		return "", nil, err
	}
	c := NewContext()
	for _, s := range p.Symbols {
		if s == nil {
			continue
		}
		if _, ok := c.Add(s); !ok {
			return "", nil, fmt.Errorf("ir: duplicate symbol %q in pack", s.ID)
		}
	}
	return p.Unit, c, nil
}

func checkSchema(v string) error {
	ver, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrSchema, v, err)
	}
	want, err := semver.NewConstraint(schemaConstraint)
	if err != nil {
		return err
	}
	if !want.Check(ver) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrSchema, ver, schemaConstraint)
	}
	return nil
}

// WriteFile encodes the pack to path atomically.
func WriteFile(path, unit string, c *Context) (err error) {
	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".irpack-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	bw := bufio.NewWriter(f)
	if err = Encode(bw, unit, c); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), path)
}

// ReadFile decodes the pack at path.
func ReadFile(path string) (string, *Context, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()
	unit, c, err := Decode(bufio.NewReader(f))
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", path, err)
	}
	return unit, c, nil
}
