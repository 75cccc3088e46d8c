package js_printer

import (
	"fmt"

	"github.com/jsprint/jsprint/internal/helpers"
	"github.com/jsprint/jsprint/internal/js_ast"
	"github.com/jsprint/jsprint/internal/logger"
)

// genExpr prints an expression where the surrounding grammar requires a
// precedence above "level". Anything that binds less tightly is wrapped in
// parentheses. The context adds restrictions that precedence alone can't
// express.
func (p *printer) genExpr(expr js_ast.Expr, level js_ast.L, ctx Context) {
	switch expr.Data.(type) {
	case *js_ast.EIdentifier, *js_ast.EPrivateIdentifier:
		// Mapped together with their name
	default:
		p.mapLoc(expr.Loc)
	}

	switch e := expr.Data.(type) {
	case *js_ast.EMissing:

	case *js_ast.EThis:
		p.keyword("this")
	case *js_ast.ESuper:
		p.keyword("super")
	case *js_ast.ENull:
		p.keyword("null")
	case *js_ast.ENewTarget:
		p.keyword("new.target")
	case *js_ast.EImportMeta:
		p.keyword("import.meta")

	case *js_ast.EUndefined:
		p.genUndefined(level)
	case *js_ast.EBoolean:
		p.genBoolean(e.Value, level)
	case *js_ast.ENumber:
		p.genNumber(e, level)
	case *js_ast.EBigInt:
		p.keyword(e.Value)
		p.char('n')
	case *js_ast.EString:
		p.genString(e)
	case *js_ast.ETemplate:
		p.genTemplate(e)
	case *js_ast.ERegExp:
		p.genRegExp(e)

	case *js_ast.EIdentifier:
		p.genIdentifier(expr.Loc, e.Name, ctx)
	case *js_ast.EPrivateIdentifier:
		// Only valid on the left of "in", as in "#x in obj"
		p.mapName(expr.Loc, e.Name)
		p.identifier(e.Name)

	case *js_ast.ESpread:
		p.str("...")
		p.genExpr(e.Value, js_ast.LComma, 0)
	case *js_ast.EArray:
		p.genArray(e)
	case *js_ast.EObject:
		p.genObject(e)
	case *js_ast.EFunction:
		p.genFunctionExpr(expr.Loc, e)
	case *js_ast.EArrow:
		p.genArrow(expr.Loc, e, level, ctx)
	case *js_ast.EClass:
		p.wrap(p.atDeclarationStart(), func() { p.genClass(e.Class) })

	case *js_ast.ENew:
		p.genNew(expr.Loc, e, level)
	case *js_ast.ECall:
		p.genCall(expr.Loc, e, level, ctx)
	case *js_ast.EImportCall:
		p.genImportCall(e, level, ctx)
	case *js_ast.EDot:
		p.genDot(e, ctx)
	case *js_ast.EIndex:
		p.genIndex(e, ctx)

	case *js_ast.EIf:
		p.genConditional(e, level, ctx)
	case *js_ast.EAwait:
		p.genAwait(e, level)
	case *js_ast.EYield:
		p.genYield(e, level)
	case *js_ast.EUnary:
		p.genUnary(e, level)
	case *js_ast.EBinary:
		p.genBinary(binaryish{op: e.Op, left: e.Left, right: e.Right}, level, ctx)

	default:
		panic(fmt.Sprintf("js_printer: unexpected expression type %T", expr.Data))
	}
}

// genIdentifier parenthesizes the two names that change meaning at the
// start of a for loop head: "for (let ..." declares and "for (async of"
// starts an arrow function. The second is fine after "for await".
func (p *printer) genIdentifier(loc logger.Loc, name string, ctx Context) {
	wrap := false
	if len(p.js) == p.forInitStart {
		wrap = name == "let" || (name == "async" && ctx.Has(ctxBeforeOf) && !ctx.Has(ctxInForAwait))
	}
	p.wrap(wrap, func() {
		p.spaceBeforeIdentifier()
		p.mapName(loc, name)
		p.identifier(name)
	})
}

func (p *printer) genArgs(args []js_ast.Expr) {
	p.char('(')
	for i, arg := range args {
		if i > 0 {
			p.char(',')
			p.softSpace()
		}
		p.genExpr(arg, js_ast.LComma, 0)
	}
	p.char(')')
}

// takePure reports whether a "/* @__PURE__ */" annotation belongs to the
// node at loc. The comment covers the call up to its arguments, so a pure
// call that is itself the target of an access has to be wrapped.
func (p *printer) takePure(loc logger.Loc, level js_ast.L) (isPure bool, wrap bool) {
	isPure = p.takeAnnotation(loc, js_ast.CommentAnnotatePure)
	return isPure, isPure && level >= js_ast.LPostfix
}

func (p *printer) genNew(loc logger.Loc, e *js_ast.ENew, level js_ast.L) {
	isPure, wrap := p.takePure(loc, level)
	p.wrap(wrap || level >= js_ast.LCall, func() {
		if isPure {
			p.printAnnotation(js_ast.CommentAnnotatePure)
		}
		p.keyword("new")
		p.softSpace()
		p.genExpr(e.Target, js_ast.LNew, ctxForbidCall|ctxInPlainChain)

		// "new Foo()" and "new Foo" are the same unless something follows
		if len(e.Args) > 0 || level >= js_ast.LPostfix || !p.options.MinifyWhitespace {
			p.genArgs(e.Args)
		}
	})
}

func (p *printer) genCall(loc logger.Loc, e *js_ast.ECall, level js_ast.L, ctx Context) {
	isPure, wrap := p.takePure(loc, level)
	wrap = wrap || level >= js_ast.LNew || ctx.Has(ctxForbidCall)

	var targetCtx Context
	if e.OptionalChain == js_ast.OptionalChainNone {
		targetCtx = ctxInPlainChain
	} else if ctx.Has(ctxInPlainChain) {
		wrap = true
	}

	p.wrap(wrap, func() {
		if isPure {
			p.printAnnotation(js_ast.CommentAnnotatePure)
		}
		p.genExpr(e.Target, js_ast.LPostfix, targetCtx)
		if e.OptionalChain == js_ast.OptionalChainStart {
			p.str("?.")
		}
		p.genArgs(e.Args)
	})
}

func (p *printer) genImportCall(e *js_ast.EImportCall, level js_ast.L, ctx Context) {
	p.wrap(level >= js_ast.LNew || ctx.Has(ctxForbidCall), func() {
		p.keyword("import")
		p.char('(')
		p.genExpr(e.Expr, js_ast.LComma, 0)
		if e.OptionsOrNil != nil {
			p.char(',')
			p.softSpace()
			p.genExpr(*e.OptionsOrNil, js_ast.LComma, 0)
		}
		p.char(')')
	})
}

// chainTarget decides how a member access prints its target. An optional
// chain that is the target of a plain access must be wrapped, since
// "(a?.b).c" throws when "a" is nullish and "a?.b.c" doesn't.
func chainTarget(chain js_ast.OptionalChain, ctx Context) (targetCtx Context, wrap bool) {
	if chain == js_ast.OptionalChainNone {
		return ctx.Only(ctxForbidCall).With(ctxInPlainChain), false
	}
	if ctx.Has(ctxInPlainChain) {
		return 0, true
	}
	return ctx.Only(ctxForbidCall), false
}

func (p *printer) genDot(e *js_ast.EDot, ctx Context) {
	targetCtx, wrap := chainTarget(e.OptionalChain, ctx)
	p.wrap(wrap, func() {
		p.genExpr(e.Target, js_ast.LPostfix, targetCtx)
		optional := e.OptionalChain == js_ast.OptionalChainStart

		// A name that isn't an identifier is written as an index
		if !js_ast.IsIdentifier(e.Name) {
			if optional {
				p.str("?.")
			}
			p.char('[')
			p.mapLoc(e.NameLoc)
			p.quotedUTF16(helpers.StringToUTF16(e.Name), true)
			p.char(']')
			return
		}

		switch {
		case optional:
			p.str("?.")
		case p.prevNumEnd == len(p.js):
			p.str(" .")
		default:
			p.char('.')
		}
		p.mapLoc(e.NameLoc)
		p.identifier(e.Name)
	})
}

func (p *printer) genIndex(e *js_ast.EIndex, ctx Context) {
	targetCtx, wrap := chainTarget(e.OptionalChain, ctx)
	p.wrap(wrap, func() {
		// "let[" at the start of a statement or loop head is a declaration
		if id, ok := e.Target.Data.(*js_ast.EIdentifier); ok && id.Name == "let" &&
			(len(p.js) == p.stmtStart || len(p.js) == p.forInitStart) {
			p.char('(')
			p.genExpr(e.Target, js_ast.LLowest, 0)
			p.char(')')
		} else {
			p.genExpr(e.Target, js_ast.LPostfix, targetCtx)
		}

		optional := e.OptionalChain == js_ast.OptionalChainStart
		if optional {
			p.str("?.")
		}

		if private, ok := e.Index.Data.(*js_ast.EPrivateIdentifier); ok {
			if !optional {
				p.char('.')
			}
			p.mapName(e.Index.Loc, private.Name)
			p.identifier(private.Name)
			return
		}

		p.char('[')
		p.genExpr(e.Index, js_ast.LLowest, 0)
		p.char(']')
	})
}

func (p *printer) genConditional(e *js_ast.EIf, level js_ast.L, ctx Context) {
	wrap := level >= js_ast.LConditional
	if wrap {
		ctx = ctx.Without(ctxForbidIn)
	}
	ctx = ctx.Only(ctxForbidIn)

	p.wrap(wrap, func() {
		p.genExpr(e.Test, js_ast.LConditional, ctx)
		p.softSpace()
		p.char('?')
		p.softSpace()
		p.genExpr(e.Yes, js_ast.LYield, 0)
		p.softSpace()
		p.char(':')
		p.softSpace()
		p.genExpr(e.No, js_ast.LYield, ctx)
	})
}

func (p *printer) genArrow(loc logger.Loc, e *js_ast.EArrow, level js_ast.L, ctx Context) {
	p.wrap(level >= js_ast.LAssign, func() {
		p.annotateNoSideEffects(loc)
		if e.IsAsync {
			p.keyword("async")
			p.softSpace()
		}
		p.genParams(e.Args, e.HasRestArg, true)
		p.softSpace()
		p.str("=>")
		p.softSpace()

		if value, ok := arrowExprBody(e); ok {
			p.arrowBodyStart = len(p.js)
			p.genExpr(value, js_ast.LComma, ctx.Only(ctxForbidIn))
		} else {
			p.genFnBody(e.Body)
		}
	})
}

// arrowExprBody returns the expression of "() => expr", which the tree
// stores as a body with a single return statement
func arrowExprBody(e *js_ast.EArrow) (js_ast.Expr, bool) {
	if !e.PreferExpr || len(e.Body.Block.Stmts) != 1 {
		return js_ast.Expr{}, false
	}
	if ret, ok := e.Body.Block.Stmts[0].Data.(*js_ast.SReturn); ok && ret.ValueOrNil != nil {
		return *ret.ValueOrNil, true
	}
	return js_ast.Expr{}, false
}

func (p *printer) genFunctionExpr(loc logger.Loc, e *js_ast.EFunction) {
	p.wrap(p.atDeclarationStart(), func() {
		p.annotateNoSideEffects(loc)
		p.fnKeyword(e.Fn)
		p.genFn(e.Fn)
	})
}

func (p *printer) genArray(e *js_ast.EArray) {
	last := len(e.Items) - 1
	p.char('[')
	p.commaList(len(e.Items), e.IsSingleLine, false, func(i int) {
		item := e.Items[i]
		p.genExpr(item, js_ast.LComma, 0)

		// "[a, ,]" needs its final comma to keep the hole
		if _, isHole := item.Data.(*js_ast.EMissing); isHole && i == last {
			p.char(',')
		}
	})
	p.char(']')
}

func (p *printer) genObject(e *js_ast.EObject) {
	p.wrap(p.atBlockStart(), func() {
		p.char('{')
		p.commaList(len(e.Properties), e.IsSingleLine, true, func(i int) {
			p.genProperty(e.Properties[i])
		})
		p.char('}')
	})
}

func (p *printer) genAwait(e *js_ast.EAwait, level js_ast.L) {
	p.wrap(level >= js_ast.LPrefix, func() {
		p.keyword("await")
		p.softSpace()
		p.genExpr(e.Value, js_ast.LPrefix-1, 0)
	})
}

func (p *printer) genYield(e *js_ast.EYield, level js_ast.L) {
	p.wrap(level >= js_ast.LAssign, func() {
		p.keyword("yield")
		if e.ValueOrNil == nil {
			return
		}
		if e.IsStar {
			p.char('*')
		}
		p.softSpace()
		p.genExpr(*e.ValueOrNil, js_ast.LYield, 0)
	})
}

func (p *printer) genUnary(e *js_ast.EUnary, level js_ast.L) {
	p.wrap(level >= e.Op.Level(), func() {
		if !e.Op.IsPrefix() {
			p.genExpr(e.Value, js_ast.LPostfix-1, 0)
			p.operator(e.Op)
			return
		}
		p.operator(e.Op)
		if e.Op.IsKeyword() {
			p.softSpace()
		}
		p.genExpr(e.Value, js_ast.LPrefix-1, 0)
	})
}

// commaList writes n items separated by commas between brackets that the
// caller writes. A multi-line list puts each item on its own line. A
// single-line list with "pad" set gets a space inside each bracket, as in
// "{ a, b }".
func (p *printer) commaList(n int, isSingleLine bool, pad bool, item func(i int)) {
	if n == 0 {
		return
	}
	if !isSingleLine {
		p.indent++
	}
	for i := 0; i < n; i++ {
		if i > 0 {
			p.char(',')
		}
		if !isSingleLine {
			p.softNewline()
			p.printIndent()
		} else if i > 0 || pad {
			p.softSpace()
		}
		item(i)
	}
	if !isSingleLine {
		p.indent--
		p.softNewline()
		p.printIndent()
	} else if pad {
		p.softSpace()
	}
}
