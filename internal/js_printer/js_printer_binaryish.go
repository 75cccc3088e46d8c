package js_printer

import (
	"github.com/jsprint/jsprint/internal/js_ast"
)

// binaryish is a read-only view of any node with an operator between two
// operands. Arithmetic, comparison, logical, sequence, and assignment nodes
// are all printed through it.
type binaryish struct {
	op    js_ast.OpCode
	left  js_ast.Expr
	right js_ast.Expr
}

func asBinaryish(expr js_ast.Expr) (binaryish, bool) {
	if e, ok := expr.Data.(*js_ast.EBinary); ok {
		return binaryish{op: e.Op, left: e.Left, right: e.Right}, true
	}
	return binaryish{}, false
}

// operandLevels returns the precedence each operand is printed at. An
// operand whose own precedence is at or below its level is parenthesized.
func (b binaryish) operandLevels(minifySyntax bool) (left js_ast.L, right js_ast.L) {
	level := b.op.Level()
	left, right = level-1, level-1

	// "a - (b - c)" keeps its parentheses but "(a - b) - c" drops them
	if b.op.IsRightAssociative() {
		left = level
	}
	if b.op.IsLeftAssociative() {
		right = level
	}

	if mixesNullish(b.op, b.left) {
		left = js_ast.LPrefix
	}
	if mixesNullish(b.op, b.right) {
		right = js_ast.LPrefix
	}
	if b.op == js_ast.BinOpPow && isUnaryLike(b.left, minifySyntax) {
		left = js_ast.LCall
	}
	return
}

// mixesNullish reports whether "child" is a logical expression that may
// not appear directly inside "op". The grammar rejects "a ?? b || c" and
// "a || b ?? c" without parentheses.
func mixesNullish(op js_ast.OpCode, child js_ast.Expr) bool {
	inner, ok := asBinaryish(child)
	if !ok {
		return false
	}
	switch op {
	case js_ast.BinOpNullishCoalescing:
		return inner.op == js_ast.BinOpLogicalOr || inner.op == js_ast.BinOpLogicalAnd
	case js_ast.BinOpLogicalOr, js_ast.BinOpLogicalAnd:
		return inner.op == js_ast.BinOpNullishCoalescing
	}
	return false
}

// isUnaryLike reports whether the expression is, or prints as, a unary
// expression, which can't be the left operand of "**". Updates like "++a"
// are allowed. Numbers may print with a sign, "undefined" as "void 0", and
// minified booleans as "!0".
func isUnaryLike(expr js_ast.Expr, minifySyntax bool) bool {
	switch e := expr.Data.(type) {
	case *js_ast.EUnary:
		return e.Op.UnaryAssignTarget() == js_ast.AssignTargetNone
	case *js_ast.EAwait, *js_ast.EUndefined, *js_ast.ENumber:
		return true
	case *js_ast.EBoolean:
		return minifySyntax
	}
	return false
}

// binaryFrame is one operator on the left spine of a chain whose left side
// has been printed and whose operator and right side are still to come
type binaryFrame struct {
	node       binaryish
	ctx        Context
	rightLevel js_ast.L
	wrap       bool
}

// genBinary prints a chain like "a + b + c + d", which nests on the left.
// The left spine is walked with an explicit stack so that long chains don't
// grow the goroutine stack. Only right operands recurse.
func (p *printer) genBinary(root binaryish, level js_ast.L, ctx Context) {
	base := len(p.binaryStack)

	node := root
	for {
		frame, leftLevel, leftCtx := p.openBinary(node, level, ctx)
		p.binaryStack = append(p.binaryStack, frame)

		next, ok := asBinaryish(node.left)
		if !ok {
			p.genExpr(node.left, leftLevel, leftCtx)
			break
		}

		// This is what genExpr would have done on the way in
		p.mapLoc(node.left.Loc)
		node, level, ctx = next, leftLevel, leftCtx
	}

	for top := len(p.binaryStack) - 1; top >= base; top-- {
		frame := p.binaryStack[top]
		p.binaryStack = p.binaryStack[:top]
		p.closeBinary(frame)
	}
}

// openBinary writes whatever goes before the left operand and returns the
// frame for the rest, plus the level and context for the left operand
func (p *printer) openBinary(b binaryish, level js_ast.L, ctx Context) (binaryFrame, js_ast.L, Context) {
	wrap := level >= b.op.Level() || (b.op == js_ast.BinOpIn && ctx.Has(ctxForbidIn))

	// "({a} = b)" must not start with "{"
	if _, ok := b.left.Data.(*js_ast.EObject); ok && b.op == js_ast.BinOpAssign && p.atBlockStart() {
		wrap = true
	}

	if wrap {
		p.char('(')
		ctx = ctx.Without(ctxForbidIn)
	}

	leftLevel, rightLevel := b.operandLevels(p.options.MinifySyntax)
	frame := binaryFrame{node: b, ctx: ctx.Only(ctxForbidIn), rightLevel: rightLevel, wrap: wrap}
	return frame, leftLevel, frame.ctx
}

func (p *printer) closeBinary(f binaryFrame) {
	if f.node.op != js_ast.BinOpComma {
		p.softSpace()
	}
	p.operator(f.node.op)
	p.softSpace()
	p.genExpr(f.node.right, f.rightLevel, f.ctx)
	if f.wrap {
		p.char(')')
	}
}
