package cpplower

import (
	"cxxfront/internal/clower"
	"cxxfront/internal/cppast"
	"cxxfront/internal/ir"
)

// lowerRangeFor lowers a range-based for loop through its desugared form:
//
//	for ({ init; range; begin; end }; cond; inc) { loopvar; body }
func (l *Lowerer) lowerRangeFor(s *cppast.CXXForRangeStmt) (*ir.Expr, error) {
	var decls []*ir.Expr
	if s.Init != nil {
		init, err := l.LowerCode(s.Init)
		if err != nil {
			return nil, err
		}
		decls = appendDecls(decls, init)
	}
	for _, d := range []*cppast.DeclStmt{s.Range, s.Begin, s.End} {
		if d == nil {
			continue
		}
		c, err := l.LowerDeclStmt(d)
		if err != nil {
			return nil, err
		}
		decls = appendDecls(decls, c)
	}
	if s.LoopVar == nil {
		return nil, clower.Malformedf(s.Loc, "range-based for without loop variable")
	}

	cond, err := l.LowerCond(s.Cond)
	if err != nil {
		return nil, err
	}
	iter := ir.Skip()
	if s.Inc != nil {
		if iter, err = l.LowerExpr(s.Inc); err != nil {
			return nil, err
		}
	}
	loopVar, err := l.LowerDeclStmt(s.LoopVar)
	if err != nil {
		return nil, err
	}
	body, err := l.LowerCode(s.Body)
	if err != nil {
		return nil, err
	}
	if body.Kind != ir.CodeBlock {
		body = ir.Block(body).At(body.Loc)
	}
	body.Operands = append([]*ir.Expr{loopVar}, body.Operands...)

	init := ir.Skip()
	if len(decls) > 0 {
		init = ir.Code(ir.CodeDeclBlock, decls...)
	}
	return ir.Code(ir.CodeFor, init, cond, iter, body).At(s.Loc), nil
}

// appendDecls flattens declaration blocks and drops skips.
func appendDecls(out []*ir.Expr, c *ir.Expr) []*ir.Expr {
	switch {
	case c.IsSkip():
		return out
	case c.Kind == ir.CodeDeclBlock:
		return append(out, c.Operands...)
	}
	return append(out, c)
}

// lowerTry builds a catch code: the try block followed by one block per
// handler.
func (l *Lowerer) lowerTry(s *cppast.CXXTryStmt) (*ir.Expr, error) {
	if s.Try == nil {
		return nil, clower.Malformedf(s.Loc, "try without block")
	}
	try, err := l.LowerCode(s.Try)
	if err != nil {
		return nil, err
	}
	out := ir.Code(ir.CodeCppCatch, try)
	for _, h := range s.Handlers {
		c, err := l.lowerCatch(h)
		if err != nil {
			return nil, err
		}
		out.Operands = append(out.Operands, c)
	}
	return out, nil
}

// lowerCatch lowers a handler into a block typed with the caught type. The
// exception variable is declared first; catch (...) has an ellipsis type.
func (l *Lowerer) lowerCatch(s *cppast.CXXCatchStmt) (*ir.Expr, error) {
	block := ir.Block().At(s.Loc)
	if s.Exception == nil {
		block.Type = ir.Empty()
		block.Type.Ellipsis = true
		block.Operands = append(block.Operands, ir.Skip())
	} else {
		// the variable is in scope for the handler
		decl, err := l.LowerDecl(s.Exception)
		if err != nil {
			return nil, err
		}
		t := s.Exception.Type
		if s.Caught != nil {
			t = s.Caught
		}
		if block.Type, err = l.LowerType(t); err != nil {
			return nil, err
		}
		block.Operands = append(block.Operands, decl)
	}
	if s.Handler == nil {
		return block, nil
	}
	h, err := l.LowerCode(s.Handler)
	if err != nil {
		return nil, err
	}
	if h.Kind == ir.CodeBlock {
		block.Operands = append(block.Operands, h.Operands...)
	} else {
		block.Operands = append(block.Operands, h)
	}
	return block, nil
}
