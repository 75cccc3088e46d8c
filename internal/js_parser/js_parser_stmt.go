package js_parser

import (
	"github.com/jsprint/jsprint/internal/js_ast"
	"github.com/jsprint/jsprint/internal/js_lexer"
	"github.com/jsprint/jsprint/internal/logger"
)

type stmtOpts struct {
	isModuleScope bool
	isExport      bool

	// For "export default function() {}"
	isNameOptional bool

	// False for the body of "if", "while", a label, and so on
	allowLexicalDecl bool
}

func (p *parser) parseStmtsUpTo(end js_lexer.T, kind stmtsKind, opts stmtOpts) []js_ast.Stmt {
	stmts := []js_ast.Stmt{}
	inPrologue := kind == stmtsFnBody || opts.isModuleScope
	opts.allowLexicalDecl = true

	for p.lexer.Token != end {
		// "case" and "default" end the clause before them
		if kind == stmtsSwitch && (p.lexer.Token == js_lexer.TCase || p.lexer.Token == js_lexer.TDefault) {
			break
		}

		stmt := p.parseStmt(opts)
		if inPrologue {
			directive, ok := p.directiveFromStmt(stmt)
			if ok {
				stmt.Data = directive
			}
			inPrologue = ok
		}
		stmts = append(stmts, stmt)
	}
	return stmts
}

// directiveFromStmt turns an expression statement into a directive if it's
// nothing but a string literal. "('use strict')" and "`use strict`" don't
// count.
func (p *parser) directiveFromStmt(stmt js_ast.Stmt) (*js_ast.SDirective, bool) {
	expr, ok := stmt.Data.(*js_ast.SExpr)
	if !ok || expr.Value.Loc != stmt.Loc {
		return nil, false
	}
	str, ok := expr.Value.Data.(*js_ast.EString)
	if !ok || str.PreferTemplate {
		return nil, false
	}
	switch quote := p.source.Contents[stmt.Loc.Start]; quote {
	case '"', '\'':
		return &js_ast.SDirective{Value: str.Value, Quote: quote}, true
	}
	return nil, false
}

// parseBlockBody parses statements up to a "}" and consumes it. The "{" is
// already consumed.
func (p *parser) parseBlockBody(kind stmtsKind) js_ast.SBlock {
	stmts := p.parseStmtsUpTo(js_lexer.TCloseBrace, kind, stmtOpts{})
	closeBraceLoc := p.lexer.Loc()
	p.lexer.Next()
	return js_ast.SBlock{Stmts: stmts, CloseBraceLoc: closeBraceLoc}
}

// parseNestedStmt parses the body of a compound statement
func (p *parser) parseNestedStmt() js_ast.Stmt {
	return p.parseStmt(stmtOpts{})
}

func (p *parser) parseStmt(opts stmtOpts) js_ast.Stmt {
	loc := p.lexer.Loc()
	var s js_ast.S

	switch p.lexer.Token {
	case js_lexer.TExport:
		return p.parseExportStmt(loc, opts)

	case js_lexer.TImport:
		return p.parseImportStmt(loc, opts)

	case js_lexer.TFunction:
		p.lexer.Next()
		return p.parseFnStmt(loc, opts, false)

	case js_lexer.TClass:
		return p.parseClassStmt(loc, opts)

	case js_lexer.TSemicolon:
		p.lexer.Next()
		s = &js_ast.SEmpty{}

	case js_lexer.TDebugger:
		p.lexer.Next()
		p.lexer.ExpectOrInsertSemicolon()
		s = &js_ast.SDebugger{}

	case js_lexer.TOpenBrace:
		p.lexer.Next()
		block := p.parseBlockBody(stmtsNormal)
		s = &block

	case js_lexer.TVar:
		s = p.parseLocal(js_ast.LocalVar, opts)

	case js_lexer.TConst:
		s = p.parseLocal(js_ast.LocalConst, opts)

	case js_lexer.TIf:
		s = p.parseIf()

	case js_lexer.TDo:
		s = p.parseDoWhile()

	case js_lexer.TWhile:
		p.lexer.Next()
		test := p.parseParenHead()
		s = &js_ast.SWhile{Test: test, Body: p.parseNestedStmt()}

	case js_lexer.TWith:
		s = p.parseWith()

	case js_lexer.TSwitch:
		s = p.parseSwitch()

	case js_lexer.TTry:
		s = p.parseTry()

	case js_lexer.TFor:
		s = p.parseFor()

	case js_lexer.TBreak:
		s = &js_ast.SBreak{Label: p.parseJumpLabel()}

	case js_lexer.TContinue:
		s = &js_ast.SContinue{Label: p.parseJumpLabel()}

	case js_lexer.TReturn:
		s = p.parseReturn()

	case js_lexer.TThrow:
		p.lexer.Next()
		if p.lexer.HasNewlineBefore {
			p.log.AddError(&p.source, logger.Loc{Start: loc.Start + int32(len("throw"))}, "Unexpected newline after \"throw\"")
			panic(js_lexer.LexerPanic{})
		}
		value := p.parseExpr(js_ast.LLowest)
		p.lexer.ExpectOrInsertSemicolon()
		s = &js_ast.SThrow{Value: value}

	default:
		return p.parseExprOrLabelStmt(loc, opts)
	}

	return js_ast.Stmt{Loc: loc, Data: s}
}

// parseParenHead parses the "(test)" after "if", "while", or "switch"
func (p *parser) parseParenHead() js_ast.Expr {
	p.lexer.Expect(js_lexer.TOpenParen)
	test := p.parseExpr(js_ast.LLowest)
	p.lexer.Expect(js_lexer.TCloseParen)
	return test
}

// parseJumpLabel parses the rest of "break" or "continue". A label must be
// on the same line.
func (p *parser) parseJumpLabel() *js_ast.LocName {
	p.lexer.Next()
	var label *js_ast.LocName
	if p.lexer.Token == js_lexer.TIdentifier && !p.lexer.HasNewlineBefore {
		label = p.parseName()
	}
	p.lexer.ExpectOrInsertSemicolon()
	return label
}

func (p *parser) parseLocal(kind js_ast.LocalKind, opts stmtOpts) *js_ast.SLocal {
	p.lexer.Next()
	decls := p.parseDecls()
	p.lexer.ExpectOrInsertSemicolon()
	if kind == js_ast.LocalConst {
		p.requireInitializers(decls)
	}
	return &js_ast.SLocal{Kind: kind, Decls: decls, IsExport: opts.isExport}
}

func (p *parser) parseIf() *js_ast.SIf {
	p.lexer.Next()
	s := &js_ast.SIf{Test: p.parseParenHead()}
	s.Yes = p.parseNestedStmt()
	if p.eat(js_lexer.TElse) {
		no := p.parseNestedStmt()
		s.NoOrNil = &no
	}
	return s
}

func (p *parser) parseDoWhile() *js_ast.SDoWhile {
	p.lexer.Next()
	s := &js_ast.SDoWhile{Body: p.parseNestedStmt()}
	p.lexer.Expect(js_lexer.TWhile)
	s.Test = p.parseParenHead()

	// The semicolon after "do ... while (a)" may be left out even without a
	// newline
	p.eat(js_lexer.TSemicolon)
	return s
}

func (p *parser) parseWith() *js_ast.SWith {
	p.lexer.Next()
	p.lexer.Expect(js_lexer.TOpenParen)
	s := &js_ast.SWith{Value: p.parseExpr(js_ast.LLowest)}
	s.BodyLoc = p.lexer.Loc()
	p.lexer.Expect(js_lexer.TCloseParen)
	s.Body = p.parseNestedStmt()
	return s
}

func (p *parser) parseSwitch() *js_ast.SSwitch {
	p.lexer.Next()
	s := &js_ast.SSwitch{Test: p.parseParenHead(), Cases: []js_ast.Case{}}
	s.BodyLoc = p.lexer.Loc()
	p.lexer.Expect(js_lexer.TOpenBrace)

	hasDefault := false
	for p.lexer.Token != js_lexer.TCloseBrace {
		c := js_ast.Case{Loc: p.lexer.Loc()}
		if p.lexer.Token == js_lexer.TDefault {
			if hasDefault {
				p.log.AddRangeError(&p.source, p.lexer.Range(), "Multiple default clauses are not allowed")
				panic(js_lexer.LexerPanic{})
			}
			hasDefault = true
			p.lexer.Next()
		} else {
			p.lexer.Expect(js_lexer.TCase)
			value := p.parseExpr(js_ast.LLowest)
			c.ValueOrNil = &value
		}
		p.lexer.Expect(js_lexer.TColon)
		c.Body = p.parseStmtsUpTo(js_lexer.TCloseBrace, stmtsSwitch, stmtOpts{})
		s.Cases = append(s.Cases, c)
	}

	s.CloseBraceLoc = p.lexer.Loc()
	p.lexer.Expect(js_lexer.TCloseBrace)
	return s
}

func (p *parser) parseTry() *js_ast.STry {
	p.lexer.Next()
	s := &js_ast.STry{BlockLoc: p.lexer.Loc()}
	p.lexer.Expect(js_lexer.TOpenBrace)
	s.Block = p.parseBlockBody(stmtsNormal)

	if p.lexer.Token == js_lexer.TCatch {
		catch := &js_ast.Catch{Loc: p.lexer.Loc()}
		p.lexer.Next()

		// "catch {}" leaves out the binding
		if p.eat(js_lexer.TOpenParen) {
			binding := p.parseBinding()
			catch.BindingOrNil = &binding
			p.lexer.Expect(js_lexer.TCloseParen)
		}

		catch.BlockLoc = p.lexer.Loc()
		p.lexer.Expect(js_lexer.TOpenBrace)
		catch.Block = p.parseBlockBody(stmtsNormal)
		s.CatchOrNil = catch
	}

	if p.lexer.Token == js_lexer.TFinally || s.CatchOrNil == nil {
		finally := &js_ast.Finally{Loc: p.lexer.Loc()}
		p.lexer.Expect(js_lexer.TFinally)
		p.lexer.Expect(js_lexer.TOpenBrace)
		finally.Block = p.parseBlockBody(stmtsNormal)
		s.FinallyOrNil = finally
	}
	return s
}

func (p *parser) parseReturn() *js_ast.SReturn {
	if p.fn.forbidsReturn {
		p.log.AddRangeError(&p.source, p.lexer.Range(), "A return statement cannot be used here")
	}
	p.lexer.Next()

	s := &js_ast.SReturn{}
	switch p.lexer.Token {
	case js_lexer.TSemicolon, js_lexer.TCloseBrace, js_lexer.TEndOfFile:
	default:
		// "return\na" returns nothing
		if !p.lexer.HasNewlineBefore {
			value := p.parseExpr(js_ast.LLowest)
			s.ValueOrNil = &value
		}
	}
	p.lexer.ExpectOrInsertSemicolon()
	return s
}

// forInit is the first clause of a "for" head
type forInit struct {
	stmtOrNil *js_ast.Stmt
	decls     []js_ast.Decl
	isVar     bool

	// Set when "let" was a name, which can't start the head of a for-of loop
	letName logger.Range
}

func (p *parser) parseFor() js_ast.S {
	p.lexer.Next()

	// "for await (a of b)"
	isAwait := false
	if p.lexer.IsContextualKeyword("await") {
		if p.fn.await == keywordIsOperator {
			isAwait = true
		} else {
			p.log.AddRangeError(&p.source, p.lexer.Range(), "Cannot use \"await\" outside an async function")
		}
		p.lexer.Next()
	}
	p.lexer.Expect(js_lexer.TOpenParen)

	// "in" ends the first clause of a for-in loop
	p.allowIn = false
	init := p.parseForInit()
	p.allowIn = true

	if isAwait || p.lexer.IsContextualKeyword("of") {
		return p.parseForOf(init, isAwait)
	}
	if p.lexer.Token == js_lexer.TIn {
		p.forbidInitializers(init.decls, "in", init.isVar)
		p.lexer.Next()
		value := p.parseExpr(js_ast.LLowest)
		p.lexer.Expect(js_lexer.TCloseParen)
		return &js_ast.SForIn{Init: *init.stmtOrNil, Value: value, Body: p.parseNestedStmt()}
	}

	// Constants need a value unless the loop assigns one
	if init.stmtOrNil != nil {
		if local, ok := init.stmtOrNil.Data.(*js_ast.SLocal); ok && local.Kind == js_ast.LocalConst {
			p.requireInitializers(init.decls)
		}
	}

	s := &js_ast.SFor{InitOrNil: init.stmtOrNil}
	p.lexer.Expect(js_lexer.TSemicolon)
	if p.lexer.Token != js_lexer.TSemicolon {
		test := p.parseExpr(js_ast.LLowest)
		s.TestOrNil = &test
	}
	p.lexer.Expect(js_lexer.TSemicolon)
	if p.lexer.Token != js_lexer.TCloseParen {
		update := p.parseExpr(js_ast.LLowest)
		s.UpdateOrNil = &update
	}
	p.lexer.Expect(js_lexer.TCloseParen)
	s.Body = p.parseNestedStmt()
	return s
}

func (p *parser) parseForInit() forInit {
	var init forInit
	loc := p.lexer.Loc()

	switch p.lexer.Token {
	case js_lexer.TSemicolon:
		return init

	case js_lexer.TVar, js_lexer.TConst:
		kind := js_ast.LocalConst
		if p.lexer.Token == js_lexer.TVar {
			kind, init.isVar = js_ast.LocalVar, true
		}
		p.lexer.Next()
		init.decls = p.parseDecls()
		init.stmtOrNil = &js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{Kind: kind, Decls: init.decls}}
		return init
	}

	if p.lexer.IsContextualKeyword("let") {
		init.letName = p.lexer.Range()
	}
	expr, local := p.parseExprOrLetStmt(stmtOpts{}, true)
	if local != nil {
		init.letName = logger.Range{}
		init.decls = local.Decls
		init.stmtOrNil = &js_ast.Stmt{Loc: loc, Data: local}
	} else {
		init.stmtOrNil = &js_ast.Stmt{Loc: loc, Data: &js_ast.SExpr{Value: expr}}
	}
	return init
}

func (p *parser) parseForOf(init forInit, isAwait bool) js_ast.S {
	if init.letName.Len > 0 {
		p.log.AddRangeError(&p.source, init.letName, "\"let\" must be wrapped in parentheses to be used as an expression here")
	}
	if !p.lexer.IsContextualKeyword("of") {
		// Only reachable for "for await", which has no other form
		if init.stmtOrNil != nil {
			p.lexer.ExpectedString("\"of\"")
		} else {
			p.lexer.Unexpected()
		}
	}

	p.forbidInitializers(init.decls, "of", false)
	p.lexer.Next()
	value := p.parseExpr(js_ast.LComma)
	p.lexer.Expect(js_lexer.TCloseParen)
	return &js_ast.SForOf{IsAwait: isAwait, Init: *init.stmtOrNil, Value: value, Body: p.parseNestedStmt()}
}

// parseExprOrLetStmt parses an expression, or a "let" declaration if that's
// what the leading "let" turns out to start
func (p *parser) parseExprOrLetStmt(opts stmtOpts, inForInit bool) (js_ast.Expr, *js_ast.SLocal) {
	if p.lexer.Token != js_lexer.TIdentifier || p.lexer.Raw() != "let" {
		return p.parseExpr(js_ast.LLowest), nil
	}

	letLoc := p.lexer.Loc()
	p.lexer.Next()

	switch p.lexer.Token {
	case js_lexer.TIdentifier, js_lexer.TOpenBracket, js_lexer.TOpenBrace:
		// "if (a) let\nb = 1" uses "let" as a name since a declaration
		// can't go there
		if opts.allowLexicalDecl || inForInit || !p.lexer.HasNewlineBefore || p.lexer.Token == js_lexer.TOpenBracket {
			return js_ast.Expr{}, &js_ast.SLocal{Kind: js_ast.LocalLet, Decls: p.parseDecls(), IsExport: opts.isExport}
		}
	}

	name := js_ast.Expr{Loc: letLoc, Data: &js_ast.EIdentifier{Name: "let"}}
	return p.parseSuffix(letLoc, name, js_ast.LLowest), nil
}

func (p *parser) parseExprOrLabelStmt(loc logger.Loc, opts stmtOpts) js_ast.Stmt {
	isIdentifier := p.lexer.Token == js_lexer.TIdentifier
	name := p.lexer.Identifier
	var expr js_ast.Expr

	if isIdentifier && p.lexer.Raw() == "async" {
		asyncRange := p.lexer.Range()
		p.lexer.Next()

		// "async\nfunction f() {}" is two statements
		if p.lexer.Token == js_lexer.TFunction && !p.lexer.HasNewlineBefore {
			p.lexer.Next()
			return p.parseFnStmt(loc, opts, true)
		}
		expr = p.parseSuffix(loc, p.parseAsyncPrefixExpr(asyncRange, js_ast.LLowest), js_ast.LLowest)
	} else {
		var local *js_ast.SLocal
		expr, local = p.parseExprOrLetStmt(opts, false)
		if local != nil {
			p.lexer.ExpectOrInsertSemicolon()
			return js_ast.Stmt{Loc: loc, Data: local}
		}
	}

	// "a: b"
	if _, ok := expr.Data.(*js_ast.EIdentifier); ok && isIdentifier && expr.Loc == loc && p.lexer.Token == js_lexer.TColon {
		p.lexer.Next()
		label := js_ast.LocName{Loc: loc, Name: name}
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SLabel{Name: label, Stmt: p.parseNestedStmt()}}
	}

	p.lexer.ExpectOrInsertSemicolon()
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SExpr{Value: expr}}
}
