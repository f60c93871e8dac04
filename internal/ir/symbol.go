package ir

import (
	"sync"

	"cxxfront/internal/source"
)

// Symbol is one entry of the symbol table: a type, function, global,
// local or parameter.
type Symbol struct {
	ID     string // unique id
	Name   string // display name
	Module string
	Mode   string // source language, "C" or "C++"
	Type   *Type
	Value  *Expr // function body, initial value of a global
	Loc    source.Location

	IsType         bool
	Lvalue         bool
	IsParameter    bool
	StaticLifetime bool
	FileLocal      bool
	IsExtern       bool
}

// StorageClass describes how the symbol is stored.
func (s *Symbol) StorageClass() string {
	switch {
	case s.IsType:
		return "type"
	case s.IsParameter:
		return "parameter"
	case s.IsExtern:
		return "extern"
	case s.StaticLifetime && s.FileLocal:
		return "static"
	case s.StaticLifetime:
		return "global"
	}
	return "auto"
}

// Expr returns an expression referring to s.
func (s *Symbol) Expr() *Expr {
	e := SymbolExpr(s.ID, s.Type.Clone())
	if !s.Lvalue {
		e.Flags &^= FlagLvalue
	}
	e.Loc = s.Loc
	return e
}

// Context is the symbol table. Entries are append-or-lookup: once a symbol
// is in the table its id maps to the same *Symbol for the rest of the run.
// Iteration follows insertion order.
type Context struct {
	mu    sync.RWMutex
	order []*Symbol
	byID  map[string]*Symbol
}

func NewContext() *Context {
	return &Context{byID: make(map[string]*Symbol)}
}

// Add inserts s unless a symbol with the same id exists. It returns the
// symbol now in the table and whether s was inserted.
func (c *Context) Add(s *Symbol) (*Symbol, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.byID[s.ID]; ok {
		return old, false
	}
	c.byID[s.ID] = s
	c.order = append(c.order, s)
	return s, true
}

func (c *Context) Find(id string) (*Symbol, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.byID[id]
	return s, ok
}

// Follow resolves chains of symbol types. Types that are not symbolic, or
// whose symbol is unknown, are returned unchanged.
func (c *Context) Follow(t *Type) *Type {
	for seen := 0; t != nil && t.Kind == TypeSymbol; seen++ {
		s, ok := c.Find(t.Ident)
		if !ok || s.Type == nil || seen > 64 {
			return t
		}
		t = s.Type
	}
	return t
}

// Each visits symbols in insertion order until fn returns false.
func (c *Context) Each(fn func(*Symbol) bool) {
	for _, s := range c.Symbols() {
		if !fn(s) {
			return
		}
	}
}

// Symbols returns a snapshot of the table in insertion order.
func (c *Context) Symbols() []*Symbol {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*Symbol(nil), c.order...)
}

func (c *Context) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}
