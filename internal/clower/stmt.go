package clower

import (
	"cxxfront/internal/cppast"
	"cxxfront/internal/ir"
)

// LowerExpr lowers a statement or expression. The result carries the
// source location of s.
func (l *Lowerer) LowerExpr(s cppast.Stmt) (*ir.Expr, error) {
	if s == nil {
		return nil, Malformedf(noLoc, "missing statement")
	}
	var (
		out *ir.Expr
		err error
	)
	if e, ok := s.(cppast.Expr); ok {
		out, err = l.lowerExpr(e)
	} else {
		out, err = l.lowerStmt(s)
	}
	if err != nil {
		return nil, err
	}
	if loc := s.Location(); !loc.IsZero() {
		out.Loc = loc
	}
	return out, nil
}

// LowerCode lowers s in statement position.
func (l *Lowerer) LowerCode(s cppast.Stmt) (*ir.Expr, error) {
	if s == nil {
		return ir.Skip(), nil
	}
	e, err := l.hooks.LowerExpr(s)
	if err != nil {
		return nil, err
	}
	return ir.AsCode(e), nil
}

// LowerCond lowers a controlling expression to bool.
func (l *Lowerer) LowerCond(e cppast.Expr) (*ir.Expr, error) {
	if e == nil {
		return ir.True(), nil
	}
	c, err := l.hooks.LowerExpr(e)
	if err != nil {
		return nil, err
	}
	return l.ToBool(c), nil
}

// LowerDeclStmt lowers the declarations of a declaration statement. Skips
// are dropped; several declarations form a declaration block.
func (l *Lowerer) LowerDeclStmt(s *cppast.DeclStmt) (*ir.Expr, error) {
	var out []*ir.Expr
	for _, d := range s.Decls {
		frag, err := l.hooks.LowerDecl(d)
		if err != nil {
			return nil, err
		}
		if frag.IsSkip() {
			continue
		}
		out = append(out, frag)
	}
	switch len(out) {
	case 0:
		return ir.Skip(), nil
	case 1:
		return out[0], nil
	}
	return ir.Code(ir.CodeDeclBlock, out...), nil
}

func (l *Lowerer) lowerStmt(s cppast.Stmt) (*ir.Expr, error) {
	switch s := s.(type) {
	case *cppast.CompoundStmt:
		return l.lowerCompound(s)
	case *cppast.DeclStmt:
		return l.LowerDeclStmt(s)
	case *cppast.ReturnStmt:
		return l.lowerReturn(s)
	case *cppast.IfStmt:
		return l.lowerIf(s)
	case *cppast.WhileStmt:
		return l.lowerWhile(s)
	case *cppast.DoStmt:
		body, err := l.LowerCode(s.Body)
		if err != nil {
			return nil, err
		}
		cond, err := l.LowerCond(s.Cond)
		if err != nil {
			return nil, err
		}
		return ir.Code(ir.CodeDoWhile, cond, body), nil
	case *cppast.ForStmt:
		return l.lowerFor(s)
	case *cppast.BreakStmt:
		return ir.Code(ir.CodeBreak), nil
	case *cppast.ContinueStmt:
		return ir.Code(ir.CodeContinue), nil
	case *cppast.NullStmt:
		return ir.Skip(), nil
	case *cppast.SwitchStmt:
		return l.lowerSwitch(s)
	case *cppast.CaseStmt:
		v, err := l.hooks.LowerExpr(s.Value)
		if err != nil {
			return nil, err
		}
		body, err := l.LowerCode(s.Sub)
		if err != nil {
			return nil, err
		}
		return ir.Code(ir.CodeSwitchCase, v, body), nil
	case *cppast.DefaultStmt:
		body, err := l.LowerCode(s.Sub)
		if err != nil {
			return nil, err
		}
		c := ir.Code(ir.CodeSwitchCase, body)
		c.Flags |= ir.FlagDefault
		return c, nil
	case *cppast.LabelStmt:
		body, err := l.LowerCode(s.Sub)
		if err != nil {
			return nil, err
		}
		c := ir.Code(ir.CodeLabel, body)
		c.Ident = s.Name
		return c, nil
	case *cppast.GotoStmt:
		c := ir.Code(ir.CodeGoto)
		c.Ident = s.Label
		return c, nil
	default:
		return nil, Unsupportedf(s.Location(), "statement %s", cppast.KindName(s))
	}
}

func (l *Lowerer) lowerCompound(s *cppast.CompoundStmt) (*ir.Expr, error) {
	block := ir.Block()
	for _, st := range s.Body {
		c, err := l.LowerCode(st)
		if err != nil {
			return nil, err
		}
		if c.IsSkip() {
			if _, null := st.(*cppast.NullStmt); !null {
				continue
			}
		}
		block.Operands = append(block.Operands, c)
	}
	return block, nil
}

func (l *Lowerer) lowerReturn(s *cppast.ReturnStmt) (*ir.Expr, error) {
	if s.Value == nil {
		return ir.Code(ir.CodeReturn), nil
	}
	v, err := l.hooks.LowerExpr(s.Value)
	if err != nil {
		return nil, err
	}
	if l.currentT != nil && l.currentT.Return != nil {
		v = l.hooks.BindValue(l.currentT.Return, v)
	}
	return ir.Code(ir.CodeReturn, v), nil
}

func (l *Lowerer) lowerIf(s *cppast.IfStmt) (*ir.Expr, error) {
	var prefix []*ir.Expr
	if s.Init != nil {
		init, err := l.LowerCode(s.Init)
		if err != nil {
			return nil, err
		}
		prefix = append(prefix, init)
	}
	if s.CondVar != nil {
		decl, err := l.LowerDeclStmt(s.CondVar)
		if err != nil {
			return nil, err
		}
		prefix = append(prefix, decl)
	}
	cond, err := l.LowerCond(s.Cond)
	if err != nil {
		return nil, err
	}
	then, err := l.LowerCode(s.Then)
	if err != nil {
		return nil, err
	}
	ite := ir.Code(ir.CodeIfThenElse, cond, then)
	if s.Else != nil {
		els, err := l.LowerCode(s.Else)
		if err != nil {
			return nil, err
		}
		ite.Operands = append(ite.Operands, els)
	}
	if len(prefix) == 0 {
		return ite, nil
	}
	return ir.Block(append(prefix, ite)...), nil
}

// lowerWhile expands a condition variable into the loop body:
// while (true) { decl; if (!cond) break; body }.
func (l *Lowerer) lowerWhile(s *cppast.WhileStmt) (*ir.Expr, error) {
	var decl *ir.Expr
	if s.CondVar != nil {
		var err error
		if decl, err = l.LowerDeclStmt(s.CondVar); err != nil {
			return nil, err
		}
	}
	cond, err := l.LowerCond(s.Cond)
	if err != nil {
		return nil, err
	}
	body, err := l.LowerCode(s.Body)
	if err != nil {
		return nil, err
	}
	if decl == nil {
		return ir.Code(ir.CodeWhile, cond, body), nil
	}
	exit := ir.Code(ir.CodeIfThenElse, ir.Unary(ir.OpNot, cond, ir.Bool()), ir.Code(ir.CodeBreak))
	return ir.Code(ir.CodeWhile, ir.True(), ir.Block(decl, exit, body)), nil
}

func (l *Lowerer) lowerFor(s *cppast.ForStmt) (*ir.Expr, error) {
	init, err := l.LowerCode(s.Init)
	if err != nil {
		return nil, err
	}
	cond, err := l.LowerCond(s.Cond)
	if err != nil {
		return nil, err
	}
	iter := ir.Skip()
	if s.Inc != nil {
		if iter, err = l.hooks.LowerExpr(s.Inc); err != nil {
			return nil, err
		}
	}
	body, err := l.LowerCode(s.Body)
	if err != nil {
		return nil, err
	}
	return ir.Code(ir.CodeFor, init, cond, iter, body), nil
}

func (l *Lowerer) lowerSwitch(s *cppast.SwitchStmt) (*ir.Expr, error) {
	v, err := l.hooks.LowerExpr(s.Cond)
	if err != nil {
		return nil, err
	}
	body, err := l.LowerCode(s.Body)
	if err != nil {
		return nil, err
	}
	sw := ir.Code(ir.CodeSwitch, v, body)
	if s.Init == nil {
		return sw, nil
	}
	init, err := l.LowerCode(s.Init)
	if err != nil {
		return nil, err
	}
	return ir.Block(init, sw), nil
}
