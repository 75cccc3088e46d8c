package js_printer

import (
	"fmt"

	"github.com/jsprint/jsprint/internal/helpers"
	"github.com/jsprint/jsprint/internal/js_ast"
	"github.com/jsprint/jsprint/internal/logger"
)

// genStmt prints one statement on its own line. Every statement except a
// minified one ends with a newline. Minified statements leave a pending
// semicolon that the next statement writes.
func (p *printer) genStmt(stmt js_ast.Stmt) {
	p.semicolonIfNeeded()
	p.printLegalCommentsBefore(stmt.Loc)

	inPrologue := p.inDirectivePrologue
	if _, ok := stmt.Data.(*js_ast.SDirective); !ok {
		p.inDirectivePrologue = false
	}

	if s, ok := stmt.Data.(*js_ast.SComment); ok {
		p.printIndentedComment(s.Text)
		return
	}

	p.printIndent()
	p.mapLoc(stmt.Loc)

	switch s := stmt.Data.(type) {
	case *js_ast.SEmpty:
		p.char(';')
		p.softNewline()

	case *js_ast.SDebugger:
		p.keyword("debugger")
		p.semicolonAfterStatement()

	case *js_ast.SDirective:
		p.genDirective(s)

	case *js_ast.SExpr:
		p.genExprStmt(s.Value, inPrologue)

	case *js_ast.SLocal:
		p.exportPrefix(s.IsExport)
		p.pendingNoSideEffects = p.takeAnnotation(stmt.Loc, js_ast.CommentAnnotateNoSideEffects)
		p.genDecls(s.Kind, s.Decls, 0)
		p.pendingNoSideEffects = false
		p.semicolonAfterStatement()

	case *js_ast.SFunction:
		p.exportPrefix(s.IsExport)
		p.annotateNoSideEffects(stmt.Loc)
		p.fnKeyword(s.Fn)
		p.genFn(s.Fn)
		p.softNewline()

	case *js_ast.SClass:
		p.exportPrefix(s.IsExport)
		p.genClass(s.Class)
		p.softNewline()

	case *js_ast.SReturn:
		p.keyword("return")
		if s.ValueOrNil != nil {
			p.softSpace()
			p.genExpr(*s.ValueOrNil, js_ast.LLowest, 0)
		}
		p.semicolonAfterStatement()

	case *js_ast.SThrow:
		p.keyword("throw")
		p.softSpace()
		p.genExpr(s.Value, js_ast.LLowest, 0)
		p.semicolonAfterStatement()

	case *js_ast.SBreak:
		p.jump("break", s.Label)

	case *js_ast.SContinue:
		p.jump("continue", s.Label)

	case *js_ast.SBlock:
		p.genBlock(stmt.Loc, *s)
		p.softNewline()

	case *js_ast.SLabel:
		p.genName(s.Name)
		p.char(':')
		p.genBody(s.Stmt)

	case *js_ast.SIf:
		p.genIf(s)

	case *js_ast.SFor:
		p.genFor(s)

	case *js_ast.SForIn:
		p.genForInOf(s.Init, false, false, s.Value, s.Body)

	case *js_ast.SForOf:
		p.genForInOf(s.Init, true, s.IsAwait, s.Value, s.Body)

	case *js_ast.SWhile:
		p.parenHead("while", s.Test)
		p.genBody(s.Body)

	case *js_ast.SDoWhile:
		p.genDoWhile(s)

	case *js_ast.SWith:
		p.parenHead("with", s.Value)
		p.genBody(s.Body)

	case *js_ast.STry:
		p.genTry(s)

	case *js_ast.SSwitch:
		p.genSwitch(s)

	case *js_ast.SImport:
		p.genImport(s)

	case *js_ast.SExportClause:
		p.keyword("export")
		p.softSpace()
		p.genExportItems(s.Items, s.IsSingleLine)
		p.semicolonAfterStatement()

	case *js_ast.SExportFrom:
		p.keyword("export")
		p.softSpace()
		p.genExportItems(s.Items, s.IsSingleLine)
		p.genFrom(s.Path, s.PathLoc)
		p.semicolonAfterStatement()

	case *js_ast.SExportStar:
		p.keyword("export")
		p.softSpace()
		p.char('*')
		if s.AliasOrNil != nil {
			p.as()
			p.mapLoc(s.AliasOrNil.Loc)
			p.clauseAlias(s.AliasOrNil.Name)
		}
		p.genFrom(s.Path, s.PathLoc)
		p.semicolonAfterStatement()

	case *js_ast.SExportDefault:
		p.genExportDefault(s)

	default:
		panic(fmt.Sprintf("js_printer: unexpected statement type %T", stmt.Data))
	}
}

func (p *printer) exportPrefix(isExport bool) {
	if isExport {
		p.keyword("export")
		p.softSpace()
	}
}

// parenHead writes a keyword followed by a parenthesized expression, as in
// the head of "while (x)"
func (p *printer) parenHead(word string, value js_ast.Expr) {
	p.keyword(word)
	p.softSpace()
	p.char('(')
	p.genExpr(value, js_ast.LLowest, 0)
	p.char(')')
}

func (p *printer) jump(word string, label *js_ast.LocName) {
	p.keyword(word)
	if label != nil {
		p.genName(*label)
	}
	p.semicolonAfterStatement()
}

// genBody writes the statement that a loop, label, or "with" controls. A
// block stays on the same line and anything else goes on the next.
func (p *printer) genBody(body js_ast.Stmt) {
	if block, ok := body.Data.(*js_ast.SBlock); ok {
		p.softSpace()
		p.genBlock(body.Loc, *block)
		p.softNewline()
		return
	}
	p.softNewline()
	p.indented(func() { p.genStmt(body) })
}

func (p *printer) genBlock(loc logger.Loc, block js_ast.SBlock) {
	p.mapLoc(loc)
	p.char('{')
	p.softNewline()
	p.indented(func() {
		for _, stmt := range block.Stmts {
			p.genStmt(stmt)
		}
	})
	p.needsSemicolon = false

	p.printIndent()
	if block.CloseBraceLoc.Start > loc.Start {
		p.mapLoc(block.CloseBraceLoc)
	}
	p.char('}')
}

// braced writes a statement inside braces it doesn't have in the tree
func (p *printer) braced(stmt js_ast.Stmt) {
	p.softSpace()
	p.char('{')
	p.softNewline()
	p.indented(func() { p.genStmt(stmt) })
	p.needsSemicolon = false
	p.printIndent()
	p.char('}')
}

// endsWithDanglingIf reports whether the statement ends in an "if" with no
// "else", which would take an "else" written after it
func endsWithDanglingIf(stmt js_ast.Stmt) bool {
	for {
		switch s := stmt.Data.(type) {
		case *js_ast.SIf:
			if s.NoOrNil == nil {
				return true
			}
			stmt = *s.NoOrNil
		case *js_ast.SFor:
			stmt = s.Body
		case *js_ast.SForIn:
			stmt = s.Body
		case *js_ast.SForOf:
			stmt = s.Body
		case *js_ast.SWhile:
			stmt = s.Body
		case *js_ast.SWith:
			stmt = s.Body
		case *js_ast.SLabel:
			stmt = s.Stmt
		default:
			return false
		}
	}
}

// genIf writes an "if" without its indent, so "else if" chains stay flat
func (p *printer) genIf(s *js_ast.SIf) {
	p.parenHead("if", s.Test)

	// Whether the "else" goes on the line of a closing brace
	closedByBrace := true
	if block, ok := s.Yes.Data.(*js_ast.SBlock); ok {
		p.softSpace()
		p.genBlock(s.Yes.Loc, *block)
	} else if s.NoOrNil != nil && endsWithDanglingIf(s.Yes) {
		p.braced(s.Yes)
	} else {
		p.softNewline()
		p.indented(func() { p.genStmt(s.Yes) })
		closedByBrace = false
	}

	if s.NoOrNil == nil {
		if closedByBrace {
			p.softNewline()
		}
		return
	}

	if closedByBrace {
		p.softSpace()
	} else {
		p.semicolonIfNeeded()
		p.printIndent()
	}
	p.keyword("else")

	no := *s.NoOrNil
	switch n := no.Data.(type) {
	case *js_ast.SIf:
		p.softSpace()
		p.mapLoc(no.Loc)
		p.genIf(n)
	case *js_ast.SBlock:
		p.softSpace()
		p.genBlock(no.Loc, *n)
		p.softNewline()
	default:
		p.softNewline()
		p.indented(func() { p.genStmt(no) })
	}
}

func (p *printer) genFor(s *js_ast.SFor) {
	p.keyword("for")
	p.softSpace()
	p.char('(')
	if s.InitOrNil != nil {
		p.genForInit(*s.InitOrNil, ctxForbidIn)
	}
	p.char(';')
	p.softSpace()
	if s.TestOrNil != nil {
		p.genExpr(*s.TestOrNil, js_ast.LLowest, 0)
	}
	p.char(';')
	p.softSpace()
	if s.UpdateOrNil != nil {
		p.genExpr(*s.UpdateOrNil, js_ast.LLowest, 0)
	}
	p.char(')')
	p.genBody(s.Body)
}

// genForInOf writes "for (init in value)" or "for (init of value)". The
// value of "of" is an assignment expression, so a comma there needs
// parentheses.
func (p *printer) genForInOf(init js_ast.Stmt, isOf bool, isAwait bool, value js_ast.Expr, body js_ast.Stmt) {
	p.keyword("for")
	if isAwait {
		p.keyword("await")
	}
	p.softSpace()
	p.char('(')

	ctx, word, level := ctxForbidIn, "in", js_ast.LLowest
	if isOf {
		ctx, word, level = ctx.With(ctxBeforeOf), "of", js_ast.LComma
		if isAwait {
			ctx = ctx.With(ctxInForAwait)
		}
	}
	p.genForInit(init, ctx)

	p.softSpace()
	p.keyword(word)
	p.softSpace()
	p.genExpr(value, level, 0)
	p.char(')')
	p.genBody(body)
}

func (p *printer) genForInit(init js_ast.Stmt, ctx Context) {
	p.forInitStart = len(p.js)
	switch s := init.Data.(type) {
	case *js_ast.SLocal:
		p.genDecls(s.Kind, s.Decls, ctx)
	case *js_ast.SExpr:
		p.genExpr(s.Value, js_ast.LLowest, ctx)
	default:
		panic(fmt.Sprintf("js_printer: unexpected for loop initializer type %T", init.Data))
	}
}

func localKeyword(kind js_ast.LocalKind) string {
	switch kind {
	case js_ast.LocalLet:
		return "let"
	case js_ast.LocalConst:
		return "const"
	}
	return "var"
}

func (p *printer) genDecls(kind js_ast.LocalKind, decls []js_ast.Decl, ctx Context) {
	p.keyword(localKeyword(kind))
	p.softSpace()
	for i, decl := range decls {
		if i > 0 {
			p.char(',')
			p.softSpace()
		}
		p.genBinding(decl.Binding)
		if decl.ValueOrNil == nil {
			continue
		}
		p.softSpace()
		p.char('=')
		p.softSpace()

		// "/* @__NO_SIDE_EFFECTS__ */ const f = () => {}" moves onto the value
		if p.pendingNoSideEffects && isFunctionLike(*decl.ValueOrNil) {
			p.printAnnotation(js_ast.CommentAnnotateNoSideEffects)
		}
		p.genExpr(*decl.ValueOrNil, js_ast.LComma, ctx)
	}
}

func (p *printer) genDoWhile(s *js_ast.SDoWhile) {
	p.keyword("do")
	if block, ok := s.Body.Data.(*js_ast.SBlock); ok {
		p.softSpace()
		p.genBlock(s.Body.Loc, *block)
		p.softSpace()
	} else {
		p.softNewline()
		p.indented(func() { p.genStmt(s.Body) })
		p.semicolonIfNeeded()
		p.printIndent()
	}
	p.parenHead("while", s.Test)
	p.semicolonAfterStatement()
}

func (p *printer) genTry(s *js_ast.STry) {
	p.keyword("try")
	p.softSpace()
	p.genBlock(s.BlockLoc, s.Block)

	if c := s.CatchOrNil; c != nil {
		p.softSpace()
		p.mapLoc(c.Loc)
		p.keyword("catch")
		p.softSpace()
		if c.BindingOrNil != nil {
			p.char('(')
			p.genBinding(*c.BindingOrNil)
			p.char(')')
			p.softSpace()
		}
		p.genBlock(c.BlockLoc, c.Block)
	}

	if f := s.FinallyOrNil; f != nil {
		p.softSpace()
		p.mapLoc(f.Loc)
		p.keyword("finally")
		p.softSpace()
		p.genBlock(f.Loc, f.Block)
	}
	p.softNewline()
}

func (p *printer) genSwitch(s *js_ast.SSwitch) {
	p.parenHead("switch", s.Test)
	p.softSpace()
	p.mapLoc(s.BodyLoc)
	p.char('{')
	p.softNewline()
	p.indented(func() {
		for _, c := range s.Cases {
			p.genCase(c)
		}
	})
	p.needsSemicolon = false

	p.printIndent()
	if s.CloseBraceLoc.Start > s.BodyLoc.Start {
		p.mapLoc(s.CloseBraceLoc)
	}
	p.char('}')
	p.softNewline()
}

func (p *printer) genCase(c js_ast.Case) {
	p.semicolonIfNeeded()
	p.printIndent()
	p.mapLoc(c.Loc)
	if c.ValueOrNil != nil {
		p.keyword("case")
		p.softSpace()
		p.genExpr(*c.ValueOrNil, js_ast.LComma, 0)
	} else {
		p.keyword("default")
	}
	p.char(':')

	// "case 1: {" keeps a lone block on the same line
	if len(c.Body) == 1 {
		if block, ok := c.Body[0].Data.(*js_ast.SBlock); ok {
			p.softSpace()
			p.genBlock(c.Body[0].Loc, *block)
			p.softNewline()
			return
		}
	}

	p.softNewline()
	p.indented(func() {
		for _, stmt := range c.Body {
			p.genStmt(stmt)
		}
	})
}

// genExprStmt wraps anything an expression statement can't start with. A
// string at the top of a body would become a directive, so that's wrapped
// too.
func (p *printer) genExprStmt(value js_ast.Expr, inPrologue bool) {
	_, isString := value.Data.(*js_ast.EString)
	p.stmtStart = len(p.js)
	p.wrap(inPrologue && isString, func() {
		p.genExpr(value, js_ast.LLowest, 0)
	})
	p.semicolonAfterStatement()
}

func (p *printer) genDirective(s *js_ast.SDirective) {
	quote := directiveQuote(s)
	p.char(quote)
	p.escapedUTF16(s.Value, quote)
	p.char(quote)
	p.semicolonAfterStatement()
}

func (p *printer) genExportDefault(s *js_ast.SExportDefault) {
	p.keyword("export")
	p.spaceBeforeIdentifier()
	p.mapLoc(s.DefaultLoc)
	p.str("default")
	p.softSpace()

	switch value := s.Value.Data.(type) {
	case *js_ast.SExpr:
		p.exportDefaultStart = len(p.js)
		p.genExpr(value.Value, js_ast.LComma, 0)
		p.semicolonAfterStatement()

	case *js_ast.SFunction:
		p.annotateNoSideEffects(s.Value.Loc)
		p.fnKeyword(value.Fn)
		p.genFn(value.Fn)
		p.softNewline()

	case *js_ast.SClass:
		p.genClass(value.Class)
		p.softNewline()

	default:
		panic(fmt.Sprintf("js_printer: unexpected export default value type %T", s.Value.Data))
	}
}

// Modules

func (p *printer) as() {
	p.softSpace()
	p.keyword("as")
	p.softSpace()
}

func (p *printer) genFrom(path string, loc logger.Loc) {
	p.softSpace()
	p.keyword("from")
	p.softSpace()
	p.genPath(path, loc)
}

func (p *printer) genPath(path string, loc logger.Loc) {
	p.mapLoc(loc)
	p.quotedUTF16(helpers.StringToUTF16(path), false)
}

// genClauseName writes a local name, or in "export {'a-b'} from" a string
func (p *printer) genClauseName(name js_ast.LocName) {
	if js_ast.IsIdentifier(name.Name) {
		p.genName(name)
		return
	}
	p.mapLoc(name.Loc)
	p.clauseAlias(name.Name)
}

func (p *printer) genImport(s *js_ast.SImport) {
	p.keyword("import")

	// "import 'x'"
	if s.DefaultName == nil && s.Items == nil && s.StarNameOrNil == nil {
		p.softSpace()
		p.genPath(s.Path, s.PathLoc)
		p.semicolonAfterStatement()
		return
	}

	if s.DefaultName != nil {
		p.genName(*s.DefaultName)
	}
	if s.Items != nil || s.StarNameOrNil != nil {
		if s.DefaultName != nil {
			p.char(',')
		}
		p.softSpace()
	}

	if s.StarNameOrNil != nil {
		p.char('*')
		p.as()
		p.genName(*s.StarNameOrNil)
	}

	if s.Items != nil {
		items := *s.Items
		p.char('{')
		p.commaList(len(items), s.IsSingleLine, true, func(i int) {
			item := items[i]
			p.mapLoc(item.AliasLoc)
			p.clauseAlias(item.Alias)
			if item.Name.Name != item.Alias {
				p.as()
				p.genName(item.Name)
			}
		})
		p.char('}')
	}

	p.genFrom(s.Path, s.PathLoc)
	p.semicolonAfterStatement()
}

func (p *printer) genExportItems(items []js_ast.ClauseItem, isSingleLine bool) {
	p.char('{')
	p.commaList(len(items), isSingleLine, true, func(i int) {
		item := items[i]
		p.genClauseName(item.Name)
		if item.Alias != item.Name.Name {
			p.as()
			p.mapLoc(item.AliasLoc)
			p.clauseAlias(item.Alias)
		}
	})
	p.char('}')
}
