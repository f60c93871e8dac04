package ir

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// DumpOptions configures symbol table dumping.
type DumpOptions struct {
	// Bodies prints function bodies and initial values.
	Bodies bool
}

const maxIDColumn = 48

// Dump writes a deterministic listing of the symbol table in insertion
// order.
func Dump(w io.Writer, c *Context, opts DumpOptions) error {
	if w == nil || c == nil {
		return nil
	}
	syms := c.Symbols()
	col := 0
	for _, s := range syms {
		col = max(col, runewidth.StringWidth(s.ID))
	}
	col = min(col, maxIDColumn)

	p := &printer{w: w}
	p.linef("symbols=%d", len(syms))
	for _, s := range syms {
		p.linef("%-5s %s %s", symbolClass(s), runewidth.FillRight(s.ID, col), s.Type)
		if s.IsType && s.Type.IsStructOrUnion() {
			p.indent++
			dumpAggregate(p, s.Type)
			p.indent--
		}
		if opts.Bodies && s.Value != nil {
			p.indent++
			p.stmt(s.Value)
			p.indent--
		}
	}
	return p.err
}

func symbolClass(s *Symbol) string {
	switch {
	case s.IsType:
		return "type"
	case s.Type.IsCode():
		return "fn"
	case s.IsParameter:
		return "param"
	}
	return "var"
}

func dumpAggregate(p *printer, t *Type) {
	if len(t.Bases) > 0 {
		p.linef("bases %s", strings.Join(t.Bases, ", "))
	}
	for _, c := range t.Components {
		p.linef("component %s: %s%s", c.Name, c.Type, componentFlags(c))
	}
	for _, m := range t.Methods {
		p.linef("method %s: %s%s", m.Name, m.Type, componentFlags(m))
	}
}

func componentFlags(c Component) string {
	var parts []string
	if c.Access != "" {
		parts = append(parts, c.Access)
	}
	if c.FromBase {
		parts = append(parts, "from_base")
	}
	if c.Virtual {
		parts = append(parts, "virtual")
	}
	if c.Vptr {
		parts = append(parts, "vptr")
	}
	if c.Alignment != 0 {
		parts = append(parts, fmt.Sprintf("aligned(%d)", c.Alignment))
	}
	if c.BitWidth != 0 {
		parts = append(parts, fmt.Sprintf("bits(%d)", c.BitWidth))
	}
	if len(parts) == 0 {
		return ""
	}
	return " [" + strings.Join(parts, " ") + "]"
}

type printer struct {
	w      io.Writer
	indent int
	err    error
}

func (p *printer) linef(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

func (p *printer) stmt(e *Expr) {
	if e == nil {
		p.linef("<nil>")
		return
	}
	if !e.Kind.IsCode() {
		p.linef("%s;", FormatExpr(e))
		return
	}
	switch e.Kind {
	case CodeBlock, CodeDeclBlock:
		p.linef("%s {", e.Kind)
		p.indent++
		for _, op := range e.Operands {
			p.stmt(op)
		}
		p.indent--
		p.linef("}")
	case CodeIfThenElse, CodeWhile, CodeDoWhile, CodeSwitch:
		p.linef("%s (%s)", e.Kind, FormatExpr(e.Op0()))
		p.indent++
		for _, op := range e.Operands[1:] {
			p.stmt(op)
		}
		p.indent--
	case CodeFor:
		p.linef("for")
		p.indent++
		for _, op := range e.Operands {
			p.stmt(op)
		}
		p.indent--
	case CodeSwitchCase:
		body := e.Operands
		if e.Has(FlagDefault) {
			p.linef("default:")
		} else {
			p.linef("case %s:", FormatExpr(e.Op0()))
			body = body[1:]
		}
		p.indent++
		for _, op := range body {
			p.stmt(op)
		}
		p.indent--
	case CodeLabel:
		p.linef("%s:", e.Ident)
		for _, op := range e.Operands {
			p.stmt(op)
		}
	case CodeGoto:
		p.linef("goto %s;", e.Ident)
	case CodeCppCatch:
		p.linef("try")
		p.indent++
		for _, op := range e.Operands {
			p.stmt(op)
		}
		p.indent--
	case CodeBreak, CodeContinue, CodeSkip:
		p.linef("%s;", e.Kind)
	case CodeThrowDecl:
		types := make([]string, 0, len(e.Operands))
		for _, op := range e.Operands {
			types = append(types, op.Type.String())
		}
		p.linef("throw_decl(%s);", strings.Join(types, ", "))
	default:
		args := make([]string, 0, len(e.Operands))
		for _, op := range e.Operands {
			args = append(args, FormatExpr(op))
		}
		p.linef("%s %s;", e.Kind, strings.Join(args, ", "))
	}
}

// FormatExpr renders a value expression on one line.
func FormatExpr(e *Expr) string {
	if e == nil {
		return "<nil>"
	}
	args := func(ops []*Expr) string {
		parts := make([]string, 0, len(ops))
		for _, op := range ops {
			parts = append(parts, FormatExpr(op))
		}
		return strings.Join(parts, ", ")
	}
	switch e.Kind {
	case KindSymbol:
		return e.Ident
	case KindConstant:
		return e.Value
	case KindStringConstant:
		return fmt.Sprintf("%q", e.Value)
	case KindAddressOf:
		return "&" + FormatExpr(e.Op0())
	case KindDereference:
		return "*" + FormatExpr(e.Op0())
	case KindMember:
		return FormatExpr(e.Op0()) + "." + e.Ident
	case KindIndex:
		return fmt.Sprintf("%s[%s]", FormatExpr(e.Operands[0]), FormatExpr(e.Operands[1]))
	case KindTypecast:
		return fmt.Sprintf("(%s)%s", e.Type, FormatExpr(e.Op0()))
	case KindUnary:
		return fmt.Sprintf("%s(%s)", e.Op, FormatExpr(e.Op0()))
	case KindBinary:
		return fmt.Sprintf("(%s %s %s)", FormatExpr(e.Operands[0]), e.Op, FormatExpr(e.Operands[1]))
	case KindIf:
		return fmt.Sprintf("(%s ? %s : %s)", FormatExpr(e.Operands[0]), FormatExpr(e.Operands[1]), FormatExpr(e.Operands[2]))
	case KindStruct, KindUnion, KindArray, KindArrayOf:
		return fmt.Sprintf("%s{%s}", e.Kind, args(e.Operands))
	case KindSideEffect:
		switch e.Effect {
		case EffectAssign:
			op := "="
			if e.Op != OpNone {
				op = e.Op.String() + "="
			}
			return fmt.Sprintf("%s %s %s", FormatExpr(e.Operands[0]), op, FormatExpr(e.Operands[1]))
		case EffectCall:
			return fmt.Sprintf("%s(%s)", FormatExpr(e.Op0()), args(e.CallArgs()))
		}
		s := fmt.Sprintf("%s(%s)", e.Effect, args(e.Operands))
		if e.Size != nil {
			s += "[" + FormatExpr(e.Size) + "]"
		}
		if e.Init != nil {
			s += " init " + formatInline(e.Init)
		}
		return s
	case KindNewObject:
		return "new_object"
	}
	if e.Kind.IsCode() {
		return formatInline(e)
	}
	return fmt.Sprintf("%s(%s)", e.Kind, args(e.Operands))
}

func formatInline(e *Expr) string {
	if e.Kind.IsCode() {
		var sb strings.Builder
		p := &printer{w: &sb}
		p.stmt(e)
		return strings.Join(strings.Fields(sb.String()), " ")
	}
	return FormatExpr(e)
}
