package js_parser

import (
	"github.com/jsprint/jsprint/internal/helpers"
	"github.com/jsprint/jsprint/internal/js_ast"
	"github.com/jsprint/jsprint/internal/js_lexer"
	"github.com/jsprint/jsprint/internal/logger"
)

// Functions and arrows

func (p *parser) parseFnExpr(loc logger.Loc, isAsync bool) js_ast.Expr {
	p.lexer.Next()
	isGenerator := p.eat(js_lexer.TAsterisk)
	var name *js_ast.LocName
	if p.lexer.Token == js_lexer.TIdentifier {
		name = p.parseName()
	}
	return js_ast.Expr{Loc: loc, Data: &js_ast.EFunction{Fn: p.parseFn(name, isAsync, isGenerator)}}
}

// parseFnStmt parses a function declaration after its "function" keyword.
// Only "export default function() {}" may leave out the name.
func (p *parser) parseFnStmt(loc logger.Loc, opts stmtOpts, isAsync bool) js_ast.Stmt {
	isGenerator := p.eat(js_lexer.TAsterisk)
	var name *js_ast.LocName
	if !opts.isNameOptional || p.lexer.Token == js_lexer.TIdentifier {
		name = p.parseName()
	}
	fn := p.parseFn(name, isAsync, isGenerator)
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SFunction{Fn: fn, IsExport: opts.isExport}}
}

// parseFn parses the parameter list and body of a function
func (p *parser) parseFn(name *js_ast.LocName, isAsync bool, isGenerator bool) js_ast.Fn {
	fn := js_ast.Fn{Name: name, IsAsync: isAsync, IsGenerator: isGenerator, OpenParenLoc: p.lexer.Loc()}
	p.lexer.Expect(js_lexer.TOpenParen)

	// A function's own "await" and "yield" can't appear in its parameters
	var params fnContext
	if isAsync {
		params.await = keywordForbidden
	}
	if isGenerator {
		params.yield = keywordForbidden
	}

	withFn(p, params, func() logger.Loc {
		closeLoc, _ := p.commaList(js_lexer.TCloseParen, func() {
			isRest := p.eat(js_lexer.TDotDotDot)
			arg := js_ast.Arg{Binding: p.parseBinding()}
			if isRest {
				fn.HasRestArg = true

				// "(...a, b)"
				if p.lexer.Token == js_lexer.TComma {
					p.lexer.Expected(js_lexer.TCloseParen)
				}
			} else {
				arg.DefaultOrNil = p.parseDefault()
			}
			fn.Args = append(fn.Args, arg)
		})
		return closeLoc
	})

	fn.Body = p.parseFnBody(fnFor(isAsync, isGenerator))
	return fn
}

func (p *parser) parseFnBody(fn fnContext) js_ast.FnBody {
	return withFn(p, fn, func() js_ast.FnBody {
		return withAllowIn(p, func() js_ast.FnBody {
			loc := p.lexer.Loc()
			p.lexer.Expect(js_lexer.TOpenBrace)
			return js_ast.FnBody{Loc: loc, Block: p.parseBlockBody(stmtsFnBody)}
		})
	})
}

func (p *parser) parseArrowFromName(loc logger.Loc, name string, fn fnContext) *js_ast.EArrow {
	arg := js_ast.Arg{Binding: js_ast.Binding{Loc: loc, Data: p.newBIdentifier(name)}}
	return p.parseArrowBody([]js_ast.Arg{arg}, fn)
}

// parseArrowBody parses from "=>" on. An expression body is kept as a
// return statement with PreferExpr set.
func (p *parser) parseArrowBody(args []js_ast.Arg, fn fnContext) *js_ast.EArrow {
	arrowLoc := p.lexer.Loc()
	if p.lexer.HasNewlineBefore {
		p.log.AddRangeError(&p.source, p.lexer.Range(), "Unexpected newline before \"=>\"")
		panic(js_lexer.LexerPanic{})
	}
	p.lexer.Expect(js_lexer.TEqualsGreaterThan)

	arrow := &js_ast.EArrow{Args: args}
	if p.lexer.Token == js_lexer.TOpenBrace {
		arrow.Body = p.parseFnBody(fn)
		p.afterArrowBodyLoc = p.lexer.Loc()
		return arrow
	}

	value := withFn(p, fn, func() js_ast.Expr { return p.parseExpr(js_ast.LComma) })
	ret := js_ast.Stmt{Loc: value.Loc, Data: &js_ast.SReturn{ValueOrNil: &value}}
	arrow.PreferExpr = true
	arrow.Body = js_ast.FnBody{Loc: arrowLoc, Block: js_ast.SBlock{Stmts: []js_ast.Stmt{ret}}}
	return arrow
}

// parseAsyncPrefixExpr parses what follows a leading "async", which is a
// plain name unless a function or an arrow follows on the same line
func (p *parser) parseAsyncPrefixExpr(asyncRange logger.Range, level js_ast.L) js_ast.Expr {
	loc := asyncRange.Loc

	if !p.lexer.HasNewlineBefore {
		switch {
		case p.lexer.Token == js_lexer.TFunction:
			return p.parseFnExpr(loc, true)

		// "new async()" calls a function named async
		case level >= js_ast.LMember:

		// "async => a" has a parameter named async
		case p.lexer.Token == js_lexer.TEqualsGreaterThan && level <= js_ast.LAssign:
			return js_ast.Expr{Loc: loc, Data: p.parseArrowFromName(loc, "async", fnContext{})}

		case p.lexer.Token == js_lexer.TIdentifier && level <= js_ast.LAssign:
			nameLoc := p.lexer.Loc()
			name := p.lexer.Identifier
			p.lexer.Next()
			arrow := p.parseArrowFromName(nameLoc, name, fnFor(true, false))
			arrow.IsAsync = true
			return js_ast.Expr{Loc: loc, Data: arrow}

		case p.lexer.Token == js_lexer.TOpenParen:
			p.lexer.Next()
			return p.parseParenOrArrow(loc, level, true)
		}
	}

	return js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Name: "async"}}
}

// parseParenOrArrow parses from after "(" when that may start the
// parameters of an arrow function. The items are parsed as expressions
// that may be patterns until "=>" shows up or doesn't. With isAsync, the
// alternative is a call to a function named async.
func (p *parser) parseParenOrArrow(loc logger.Loc, level js_ast.L, isAsync bool) js_ast.Expr {
	var cover coverErrors
	var spreadRange logger.Range
	var commaAfterSpread logger.Loc
	items := []js_ast.Expr{}

	closeParenLoc, _ := p.commaList(js_lexer.TCloseParen, func() {
		item, isSpread := p.parseSpreadable(&cover)
		items = append(items, item)
		if isSpread {
			spreadRange = logger.Range{Loc: item.Loc, Len: 3}
			if p.lexer.Token == js_lexer.TComma {
				commaAfterSpread = p.lexer.Loc()
			}
		}
	})

	if p.lexer.Token == js_lexer.TEqualsGreaterThan {
		if level > js_ast.LAssign {
			p.lexer.Unexpected()
		}
		if commaAfterSpread.Start != 0 {
			p.log.AddRangeError(&p.source, logger.Range{Loc: commaAfterSpread, Len: 1}, "Unexpected \",\" after rest pattern")
			panic(js_lexer.LexerPanic{})
		}

		args := make([]js_ast.Arg, 0, len(items))
		for _, item := range items {
			isRest := false
			if spread, ok := item.Data.(*js_ast.ESpread); ok {
				item, isRest = spread.Value, true
			}
			binding, defaultOrNil := p.patternWithDefault(item, isRest)
			args = append(args, js_ast.Arg{Binding: binding, DefaultOrNil: defaultOrNil})
		}

		arrow := p.parseArrowBody(args, fnFor(isAsync, false))
		arrow.IsAsync = isAsync
		arrow.HasRestArg = spreadRange.Len > 0
		return js_ast.Expr{Loc: loc, Data: arrow}
	}

	p.reportCoverErrors(cover)

	if isAsync {
		async := js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Name: "async"}}
		return js_ast.Expr{Loc: loc, Data: &js_ast.ECall{Target: async, Args: items, CloseParenLoc: closeParenLoc}}
	}

	// "()" only makes sense in front of "=>"
	if len(items) == 0 {
		p.lexer.Expected(js_lexer.TEqualsGreaterThan)
	}
	if spreadRange.Len > 0 {
		p.log.AddRangeError(&p.source, spreadRange, "Unexpected \"...\"")
		panic(js_lexer.LexerPanic{})
	}
	return js_ast.JoinAllWithComma(items)
}

// Classes

func (p *parser) parseClassStmt(loc logger.Loc, opts stmtOpts) js_ast.Stmt {
	classKeyword := p.lexer.Range()
	p.lexer.Expect(js_lexer.TClass)

	// "export default class {}" may be anonymous
	var name *js_ast.LocName
	if !opts.isNameOptional || p.lexer.Token == js_lexer.TIdentifier {
		name = p.parseName()
	}

	class := p.parseClass(classKeyword, name)
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SClass{Class: class, IsExport: opts.isExport}}
}

func (p *parser) parseClass(classKeyword logger.Range, name *js_ast.LocName) js_ast.Class {
	class := js_ast.Class{ClassKeyword: classKeyword, Name: name}
	if p.eat(js_lexer.TExtends) {
		extends := p.parseExpr(js_ast.LNew)
		class.ExtendsOrNil = &extends
	}

	class.BodyLoc = p.lexer.Loc()
	p.lexer.Expect(js_lexer.TOpenBrace)
	class.Properties = withAllowIn(p, func() []js_ast.Property {
		members := []js_ast.Property{}
		for p.lexer.Token != js_lexer.TCloseBrace {
			if !p.eat(js_lexer.TSemicolon) {
				members = append(members, p.parseProperty(js_ast.PropertyNormal, propertyOpts{isClass: true}, nil))
			}
		}
		return members
	})

	class.CloseBraceLoc = p.lexer.Loc()
	p.lexer.Expect(js_lexer.TCloseBrace)
	return class
}

// parseStaticBlock parses "static { ... }" from its "{"
func (p *parser) parseStaticBlock() js_ast.Property {
	loc := p.lexer.Loc()
	p.lexer.Next()
	block := withFn(p, fnContext{await: keywordForbidden, forbidsReturn: true}, func() js_ast.SBlock {
		return p.parseBlockBody(stmtsNormal)
	})
	return js_ast.Property{
		Kind:             js_ast.PropertyClassStaticBlock,
		ClassStaticBlock: &js_ast.ClassStaticBlock{Loc: loc, Block: block},
	}
}

// Properties of object literals and class bodies

type propertyOpts struct {
	isAsync     bool
	isGenerator bool
	isStatic    bool
	isClass     bool
}

type propertyKey struct {
	expr         js_ast.Expr
	isComputed   bool
	preferQuoted bool

	// Set for a key written as a bare identifier or keyword, which might
	// turn out to be a modifier like "get" or a shorthand property
	isName bool
	name   string
	raw    string
}

func (p *parser) parsePropertyKey(allowPrivate bool) propertyKey {
	loc := p.lexer.Loc()

	switch p.lexer.Token {
	case js_lexer.TNumericLiteral:
		return propertyKey{expr: p.parseNumericLiteral()}

	case js_lexer.TStringLiteral:
		return propertyKey{expr: p.parseStringLiteral(), preferQuoted: !p.options.MinifySyntax}

	case js_lexer.TBigIntegerLiteral:
		return propertyKey{expr: p.parseBigIntLiteral()}

	case js_lexer.TOpenBracket:
		p.lexer.Next()
		key := p.parseExpr(js_ast.LComma)
		p.lexer.Expect(js_lexer.TCloseBracket)
		return propertyKey{expr: key, isComputed: true}

	case js_lexer.TPrivateIdentifier:
		if !allowPrivate {
			p.lexer.Expected(js_lexer.TIdentifier)
		}
		key := js_ast.Expr{Loc: loc, Data: &js_ast.EPrivateIdentifier{Name: p.lexer.Identifier}}
		p.lexer.Next()
		return propertyKey{expr: key}
	}

	key := propertyKey{isName: true, name: p.lexer.Identifier, raw: p.lexer.Raw()}
	if !p.lexer.IsIdentifierOrKeyword() {
		p.lexer.Expect(js_lexer.TIdentifier)
	}
	p.lexer.Next()
	key.expr = js_ast.Expr{Loc: loc, Data: &js_ast.EString{Value: helpers.StringToUTF16(key.name)}}
	return key
}

// startsPropertyKey reports whether the current token can begin a key,
// which makes a name before it a modifier
func (p *parser) startsPropertyKey() bool {
	switch p.lexer.Token {
	case js_lexer.TOpenBracket, js_lexer.TNumericLiteral, js_lexer.TStringLiteral,
		js_lexer.TBigIntegerLiteral, js_lexer.TAsterisk, js_lexer.TPrivateIdentifier:
		return true
	}
	return p.lexer.IsIdentifierOrKeyword()
}

func (p *parser) parseProperty(kind js_ast.PropertyKind, opts propertyOpts, cover *coverErrors) js_ast.Property {
	if p.lexer.Token == js_lexer.TAsterisk {
		if kind != js_ast.PropertyNormal || opts.isGenerator {
			p.lexer.Unexpected()
		}
		p.lexer.Next()
		opts.isGenerator = true
		return p.parseProperty(kind, opts, cover)
	}

	key := p.parsePropertyKey(opts.isClass)
	if key.isName && kind == js_ast.PropertyNormal && !opts.isGenerator {
		if property, ok := p.parseAfterModifier(key, opts); ok {
			return property
		}

		// "{a}" and "{a = 1}"
		if !opts.isClass && !opts.isAsync && p.lexer.Token != js_lexer.TColon &&
			p.lexer.Token != js_lexer.TOpenParen && js_lexer.Keywords[key.name] == 0 {
			return p.parseShorthand(key, cover)
		}
	}

	property := js_ast.Property{
		Kind:            kind,
		IsComputed:      key.isComputed,
		PreferQuotedKey: key.preferQuoted,
		IsStatic:        opts.isStatic,
		Key:             key.expr,
	}
	isMethod := p.lexer.Token == js_lexer.TOpenParen || kind != js_ast.PropertyNormal || opts.isAsync || opts.isGenerator

	switch {
	case isMethod:
		loc := p.lexer.Loc()
		fn := p.parseFn(nil, opts.isAsync, opts.isGenerator)
		p.checkAccessorArgs(kind, key.expr.Loc, fn)
		value := js_ast.Expr{Loc: loc, Data: &js_ast.EFunction{Fn: fn}}
		property.IsMethod = true
		property.ValueOrNil = &value

	case opts.isClass:
		// Field initializers can use "this" but not "await"
		if p.eat(js_lexer.TEquals) {
			initializer := withFn(p, fnContext{await: keywordForbidden}, func() js_ast.Expr {
				return p.parseExpr(js_ast.LComma)
			})
			property.InitializerOrNil = &initializer
		}
		p.lexer.ExpectOrInsertSemicolon()

	default:
		p.lexer.Expect(js_lexer.TColon)
		value := p.parseExprOrPattern(js_ast.LComma, cover)
		property.ValueOrNil = &value
	}
	return property
}

// parseAfterModifier handles a key that is really a modifier like "get",
// "async", or "static" because another key comes after it
func (p *parser) parseAfterModifier(key propertyKey, opts propertyOpts) (js_ast.Property, bool) {
	if p.lexer.Token == js_lexer.TOpenBrace {
		if key.name == "static" && opts.isClass && !opts.isStatic && !opts.isAsync {
			return p.parseStaticBlock(), true
		}
		return js_ast.Property{}, false
	}

	// "get () {}" is a method named get
	if key.raw != key.name || !p.startsPropertyKey() {
		return js_ast.Property{}, false
	}

	switch key.name {
	case "get":
		if !opts.isAsync {
			return p.parseProperty(js_ast.PropertyGet, opts, nil), true
		}

	case "set":
		if !opts.isAsync {
			return p.parseProperty(js_ast.PropertySet, opts, nil), true
		}

	case "async":
		// "async\nf() {}" is a field named async followed by a method
		if !opts.isAsync && !p.lexer.HasNewlineBefore {
			opts.isAsync = true
			return p.parseProperty(js_ast.PropertyNormal, opts, nil), true
		}

	case "static":
		if opts.isClass && !opts.isStatic && !opts.isAsync {
			opts.isStatic = true
			return p.parseProperty(js_ast.PropertyNormal, opts, nil), true
		}
	}
	return js_ast.Property{}, false
}

func (p *parser) parseShorthand(key propertyKey, cover *coverErrors) js_ast.Property {
	value := js_ast.Expr{Loc: key.expr.Loc, Data: &js_ast.EIdentifier{Name: key.name}}
	property := js_ast.Property{Kind: js_ast.PropertyNormal, Key: key.expr, ValueOrNil: &value, WasShorthand: true}

	// "{a = 1}" only works as a pattern
	if cover != nil && p.lexer.Token == js_lexer.TEquals {
		cover.shorthandDefault = p.lexer.Range()
		p.lexer.Next()
		initializer := p.parseExpr(js_ast.LComma)
		property.InitializerOrNil = &initializer
	}
	return property
}

func (p *parser) checkAccessorArgs(kind js_ast.PropertyKind, keyLoc logger.Loc, fn js_ast.Fn) {
	switch {
	case kind == js_ast.PropertyGet && len(fn.Args) > 0:
		r := js_lexer.RangeOfIdentifier(p.source, fn.Args[0].Binding.Loc)
		p.log.AddRangeError(&p.source, r, "Getters must have zero arguments")

	case kind == js_ast.PropertySet && len(fn.Args) != 1:
		r := js_lexer.RangeOfIdentifier(p.source, keyLoc)
		p.log.AddRangeError(&p.source, r, "Setters must have exactly one argument")
	}
}
