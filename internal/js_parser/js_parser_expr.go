package js_parser

import (
	"fmt"

	"github.com/jsprint/jsprint/internal/js_ast"
	"github.com/jsprint/jsprint/internal/js_lexer"
	"github.com/jsprint/jsprint/internal/logger"
)

// coverErrors collects errors in code that can't be classified yet. "{a = 1}"
// is a fine object pattern but a bad object literal, and which one it is
// only shows once "=" follows it or doesn't.
type coverErrors struct {
	shorthandDefault logger.Range
}

func (c *coverErrors) merge(from coverErrors) {
	if from.shorthandDefault.Len > 0 {
		c.shorthandDefault = from.shorthandDefault
	}
}

func (p *parser) reportCoverErrors(c coverErrors) {
	if c.shorthandDefault.Len > 0 {
		p.log.AddRangeError(&p.source, c.shorthandDefault, "Unexpected \"=\"")
	}
}

// settleCoverErrors handles the errors of an array or object literal that
// just ended. They're dropped if it's a pattern, reported if it can only be
// an expression, and otherwise passed up to the enclosing literal.
func (p *parser) settleCoverErrors(own coverErrors, outer *coverErrors) {
	switch {
	case p.startsPatternUse():
	case outer == nil:
		p.reportCoverErrors(own)
	default:
		outer.merge(own)
	}
}

// startsPatternUse reports whether the current token makes the literal
// before it a pattern, as in "[a] = b" or "for ([a] of b)"
func (p *parser) startsPatternUse() bool {
	switch {
	case p.lexer.Token == js_lexer.TEquals:
		return true
	case p.lexer.Token == js_lexer.TIn:
		return !p.allowIn
	}
	return !p.allowIn && p.lexer.IsContextualKeyword("of")
}

func (p *parser) parseExpr(level js_ast.L) js_ast.Expr {
	return p.parseExprOrPattern(level, nil)
}

// parseExprOrPattern parses code that may turn out to be a pattern. Errors
// that only matter for expressions go into cover, or are reported right away
// if cover is nil.
func (p *parser) parseExprOrPattern(level js_ast.L, cover *coverErrors) js_ast.Expr {
	// The whole chain starts where its first operand does, parentheses
	// included. That's where "/* @__PURE__ */ (a)()" attaches.
	loc := p.lexer.Loc()
	return p.parseSuffix(loc, p.parsePrefix(level, cover), level)
}

func (p *parser) parseStringLiteral() js_ast.Expr {
	value := js_ast.Expr{Loc: p.lexer.Loc(), Data: &js_ast.EString{
		Value:          p.lexer.StringLiteral,
		PreferTemplate: p.lexer.Token == js_lexer.TNoSubstitutionTemplateLiteral,
	}}
	p.lexer.Next()
	return value
}

func (p *parser) parseNumericLiteral() js_ast.Expr {
	value := js_ast.Expr{Loc: p.lexer.Loc(), Data: &js_ast.ENumber{Value: p.lexer.Number, Raw: p.lexer.Raw()}}
	p.lexer.Next()
	return value
}

func (p *parser) parseBigIntLiteral() js_ast.Expr {
	value := js_ast.Expr{Loc: p.lexer.Loc(), Data: &js_ast.EBigInt{Value: p.lexer.Identifier}}
	p.lexer.Next()
	return value
}

func prefixOp(token js_lexer.T) (js_ast.OpCode, bool) {
	switch token {
	case js_lexer.TVoid:
		return js_ast.UnOpVoid, true
	case js_lexer.TTypeof:
		return js_ast.UnOpTypeof, true
	case js_lexer.TDelete:
		return js_ast.UnOpDelete, true
	case js_lexer.TPlus:
		return js_ast.UnOpPos, true
	case js_lexer.TMinus:
		return js_ast.UnOpNeg, true
	case js_lexer.TTilde:
		return js_ast.UnOpCpl, true
	case js_lexer.TExclamation:
		return js_ast.UnOpNot, true
	case js_lexer.TPlusPlus:
		return js_ast.UnOpPreInc, true
	case js_lexer.TMinusMinus:
		return js_ast.UnOpPreDec, true
	}
	return 0, false
}

func (p *parser) parsePrefix(level js_ast.L, cover *coverErrors) js_ast.Expr {
	loc := p.lexer.Loc()
	token := p.lexer.Token

	if op, ok := prefixOp(token); ok {
		return p.parseUnary(loc, op)
	}

	switch token {
	case js_lexer.TIdentifier:
		return p.parseIdentifierExpr(loc, level)

	case js_lexer.TStringLiteral, js_lexer.TNoSubstitutionTemplateLiteral:
		return p.parseStringLiteral()

	case js_lexer.TNumericLiteral:
		return p.parseNumericLiteral()

	case js_lexer.TBigIntegerLiteral:
		return p.parseBigIntLiteral()

	case js_lexer.TTemplateHead:
		return p.parseTemplate(loc, nil)

	case js_lexer.TSlash, js_lexer.TSlashEquals:
		p.lexer.ScanRegExp()
		value := p.lexer.Raw()
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ERegExp{Value: value}}

	case js_lexer.TTrue, js_lexer.TFalse:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBoolean{Value: token == js_lexer.TTrue}}

	case js_lexer.TNull:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENull{}}

	case js_lexer.TThis:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EThis{}}

	case js_lexer.TSuper:
		// "super" is only valid as a call or property access
		p.lexer.Next()
		switch p.lexer.Token {
		case js_lexer.TOpenParen, js_lexer.TDot, js_lexer.TOpenBracket:
			return js_ast.Expr{Loc: loc, Data: &js_ast.ESuper{}}
		}

	case js_lexer.TPrivateIdentifier:
		return p.parsePrivateIn(loc, level)

	case js_lexer.TOpenParen:
		p.lexer.Next()
		if level <= js_ast.LAssign {
			return p.parseParenOrArrow(loc, level, false)
		}

		// An arrow function can't be an operand so this is just grouping
		return withAllowIn(p, func() js_ast.Expr {
			value := p.parseExpr(js_ast.LLowest)
			p.lexer.Expect(js_lexer.TCloseParen)
			return value
		})

	case js_lexer.TOpenBracket:
		return p.parseArrayLiteral(loc, cover)

	case js_lexer.TOpenBrace:
		return p.parseObjectLiteral(loc, cover)

	case js_lexer.TFunction:
		return p.parseFnExpr(loc, false)

	case js_lexer.TClass:
		classKeyword := p.lexer.Range()
		p.lexer.Next()
		var name *js_ast.LocName
		if p.lexer.Token == js_lexer.TIdentifier {
			name = p.parseName()
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.EClass{Class: p.parseClass(classKeyword, name)}}

	case js_lexer.TNew:
		return p.parseNew(loc)

	case js_lexer.TImport:
		p.lexer.Next()
		return p.parseImportExpr(loc, level)
	}

	p.lexer.Unexpected()
	return js_ast.Expr{}
}

func (p *parser) parseUnary(loc logger.Loc, op js_ast.OpCode) js_ast.Expr {
	p.lexer.Next()
	value := p.parseExpr(js_ast.LPrefix)

	// "-a ** b" is ambiguous but "++a ** b" isn't
	if op.UnaryAssignTarget() == js_ast.AssignTargetNone && p.lexer.Token == js_lexer.TAsteriskAsterisk {
		p.lexer.Unexpected()
	}

	if op == js_ast.UnOpDelete {
		if index, ok := value.Data.(*js_ast.EIndex); ok {
			if private, ok := index.Index.Data.(*js_ast.EPrivateIdentifier); ok {
				r := logger.Range{Loc: index.Index.Loc, Len: int32(len(private.Name))}
				p.log.AddRangeError(&p.source, r, fmt.Sprintf("Deleting the private name %q is forbidden", private.Name))
			}
		}
	}
	return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: op, Value: value}}
}

func (p *parser) parseIdentifierExpr(loc logger.Loc, level js_ast.L) js_ast.Expr {
	name := p.lexer.Identifier
	nameRange := p.lexer.Range()
	raw := p.lexer.Raw()
	p.lexer.Next()

	switch name {
	case "async":
		if raw == name {
			return p.parseAsyncPrefixExpr(nameRange, level)
		}

	case "await", "yield":
		if expr, ok := p.parseKeywordOperator(name, raw, nameRange, level); ok {
			return expr
		}
	}

	// "a => a"
	if p.lexer.Token == js_lexer.TEqualsGreaterThan && level <= js_ast.LAssign {
		return js_ast.Expr{Loc: loc, Data: p.parseArrowFromName(loc, name, fnContext{})}
	}

	return js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Name: name}}
}

// parseKeywordOperator parses the operand of "await" or "yield" if the
// enclosing function makes it an operator. Otherwise it's a plain name.
func (p *parser) parseKeywordOperator(name string, raw string, r logger.Range, level js_ast.L) (js_ast.Expr, bool) {
	use := p.fn.await
	if name == "yield" {
		use = p.fn.yield
	}

	switch use {
	case keywordIsName:
		return js_ast.Expr{}, false

	case keywordForbidden:
		p.log.AddRangeError(&p.source, r, fmt.Sprintf("The keyword %q cannot be used here", name))
		return js_ast.Expr{}, false
	}

	if raw != name {
		p.log.AddRangeError(&p.source, r, fmt.Sprintf("The keyword %q cannot be escaped", name))
		return js_ast.Expr{}, false
	}

	if name == "yield" {
		if level > js_ast.LAssign {
			p.log.AddRangeError(&p.source, r, "Cannot use a \"yield\" expression here without parentheses")
		}
		return p.parseYield(r.Loc), true
	}

	value := p.parseExpr(js_ast.LPrefix)
	if p.lexer.Token == js_lexer.TAsteriskAsterisk {
		p.lexer.Unexpected()
	}
	return js_ast.Expr{Loc: r.Loc, Data: &js_ast.EAwait{Value: value}}, true
}

func (p *parser) parseYield(loc logger.Loc) js_ast.Expr {
	yield := &js_ast.EYield{}

	// "yield* a" delegates to another iterator
	if p.lexer.Token == js_lexer.TAsterisk {
		if p.lexer.HasNewlineBefore {
			p.lexer.Unexpected()
		}
		p.lexer.Next()
		yield.IsStar = true
	}

	switch p.lexer.Token {
	case js_lexer.TCloseBrace, js_lexer.TCloseBracket, js_lexer.TCloseParen,
		js_lexer.TColon, js_lexer.TComma, js_lexer.TSemicolon:

	default:
		// A bare "yield" ends at a newline
		if yield.IsStar || !p.lexer.HasNewlineBefore {
			value := p.parseExpr(js_ast.LYield)
			yield.ValueOrNil = &value
		}
	}
	return js_ast.Expr{Loc: loc, Data: yield}
}

// parsePrivateIn parses the "#a" of "#a in b", the only place a private
// name can start an expression
func (p *parser) parsePrivateIn(loc logger.Loc, level js_ast.L) js_ast.Expr {
	if !p.allowIn || level >= js_ast.LCompare {
		p.lexer.Unexpected()
	}
	name := p.lexer.Identifier
	p.lexer.Next()
	if p.lexer.Token != js_lexer.TIn {
		p.lexer.Expected(js_lexer.TIn)
	}
	return js_ast.Expr{Loc: loc, Data: &js_ast.EPrivateIdentifier{Name: name}}
}

func (p *parser) parseNew(loc logger.Loc) js_ast.Expr {
	p.lexer.Next()

	if p.eat(js_lexer.TDot) {
		if p.lexer.Token != js_lexer.TIdentifier || p.lexer.Raw() != "target" {
			p.lexer.Unexpected()
		}
		r := logger.Range{Loc: loc, Len: p.lexer.Range().End() - loc.Start}
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENewTarget{Range: r}}
	}

	e := &js_ast.ENew{Target: p.parseExpr(js_ast.LMember), Args: []js_ast.Expr{}, HasNoArgList: true}
	if p.lexer.Token == js_lexer.TOpenParen {
		e.Args, _ = p.parseCallArgs()
		e.HasNoArgList = false
	}
	return js_ast.Expr{Loc: loc, Data: e}
}

// parseSpreadable parses a list item that may start with "..."
func (p *parser) parseSpreadable(cover *coverErrors) (js_ast.Expr, bool) {
	loc := p.lexer.Loc()
	if !p.eat(js_lexer.TDotDotDot) {
		return p.parseExprOrPattern(js_ast.LComma, cover), false
	}
	value := p.parseExprOrPattern(js_ast.LComma, cover)
	return js_ast.Expr{Loc: loc, Data: &js_ast.ESpread{Value: value}}, true
}

func (p *parser) parseArrayLiteral(loc logger.Loc, outer *coverErrors) js_ast.Expr {
	p.lexer.Next()
	var own coverErrors
	items := []js_ast.Expr{}

	_, isSingleLine := p.commaList(js_lexer.TCloseBracket, func() {
		// "[a, , b]" has a hole
		if p.lexer.Token == js_lexer.TComma {
			items = append(items, js_ast.Expr{Loc: p.lexer.Loc(), Data: &js_ast.EMissing{}})
			return
		}
		item, _ := p.parseSpreadable(&own)
		items = append(items, item)
	})

	p.settleCoverErrors(own, outer)
	return js_ast.Expr{Loc: loc, Data: &js_ast.EArray{Items: items, IsSingleLine: isSingleLine}}
}

func (p *parser) parseObjectLiteral(loc logger.Loc, outer *coverErrors) js_ast.Expr {
	p.lexer.Next()
	var own coverErrors
	properties := []js_ast.Property{}

	_, isSingleLine := p.commaList(js_lexer.TCloseBrace, func() {
		if p.eat(js_lexer.TDotDotDot) {
			value := p.parseExpr(js_ast.LComma)
			properties = append(properties, js_ast.Property{Kind: js_ast.PropertySpread, ValueOrNil: &value})
			return
		}
		properties = append(properties, p.parseProperty(js_ast.PropertyNormal, propertyOpts{}, &own))
	})

	p.settleCoverErrors(own, outer)
	return js_ast.Expr{Loc: loc, Data: &js_ast.EObject{Properties: properties, IsSingleLine: isSingleLine}}
}

// parseTemplate parses a template literal from its first token. A tag only
// sees the raw text, so a tagged template doesn't keep the cooked head.
func (p *parser) parseTemplate(loc logger.Loc, tagOrNil *js_ast.Expr) js_ast.Expr {
	template := &js_ast.ETemplate{
		TagOrNil: tagOrNil,
		HeadLoc:  p.lexer.Loc(),
		HeadRaw:  p.lexer.RawTemplateContents(),
	}
	if tagOrNil == nil {
		template.HeadCooked = p.lexer.StringLiteral
	}

	if p.lexer.Token == js_lexer.TNoSubstitutionTemplateLiteral {
		p.lexer.Next()
	} else {
		template.Parts = p.parseTemplateParts()
	}
	return js_ast.Expr{Loc: loc, Data: template}
}

func (p *parser) parseTemplateParts() []js_ast.TemplatePart {
	return withAllowIn(p, func() []js_ast.TemplatePart {
		var parts []js_ast.TemplatePart
		for {
			// Skip the "${" that ends the previous piece of text
			p.lexer.Next()
			part := js_ast.TemplatePart{Value: p.parseExpr(js_ast.LLowest), TailLoc: p.lexer.Loc()}

			p.lexer.RescanCloseBraceAsTemplateToken()
			part.TailCooked = p.lexer.StringLiteral
			part.TailRaw = p.lexer.RawTemplateContents()
			parts = append(parts, part)

			if p.lexer.Token == js_lexer.TTemplateTail {
				p.lexer.Next()
				return parts
			}
		}
	})
}

// parseImportExpr parses "import.meta" or "import(path, options)" after
// the "import" keyword
func (p *parser) parseImportExpr(loc logger.Loc, level js_ast.L) js_ast.Expr {
	if p.eat(js_lexer.TDot) {
		if !p.lexer.IsContextualKeyword("meta") {
			p.lexer.ExpectedString("\"meta\"")
		}
		end := p.lexer.Range().End()
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EImportMeta{RangeLen: end - loc.Start}}
	}

	if level > js_ast.LCall {
		r := js_lexer.RangeOfIdentifier(p.source, loc)
		p.log.AddRangeError(&p.source, r, "Cannot use an \"import\" expression here without parentheses")
	}

	p.lexer.Expect(js_lexer.TOpenParen)
	if p.lexer.Token == js_lexer.TCloseParen {
		p.lexer.Unexpected()
	}

	var args []js_ast.Expr
	closeParenLoc, _ := p.commaList(js_lexer.TCloseParen, func() {
		if len(args) == 2 {
			p.lexer.Expected(js_lexer.TCloseParen)
		}
		args = append(args, p.parseExpr(js_ast.LComma))
	})

	call := &js_ast.EImportCall{Expr: args[0], CloseParenLoc: closeParenLoc}
	if len(args) == 2 {
		call.OptionsOrNil = &args[1]
	}
	return js_ast.Expr{Loc: loc, Data: call}
}

func (p *parser) parseCallArgs() ([]js_ast.Expr, logger.Loc) {
	p.lexer.Expect(js_lexer.TOpenParen)
	args := []js_ast.Expr{}
	closeParenLoc, _ := p.commaList(js_lexer.TCloseParen, func() {
		arg, _ := p.parseSpreadable(nil)
		args = append(args, arg)
	})
	return args, closeParenLoc
}

func infixOp(token js_lexer.T) (js_ast.OpCode, bool) {
	switch token {
	case js_lexer.TComma:
		return js_ast.BinOpComma, true

	// Arithmetic
	case js_lexer.TPlus:
		return js_ast.BinOpAdd, true
	case js_lexer.TMinus:
		return js_ast.BinOpSub, true
	case js_lexer.TAsterisk:
		return js_ast.BinOpMul, true
	case js_lexer.TSlash:
		return js_ast.BinOpDiv, true
	case js_lexer.TPercent:
		return js_ast.BinOpRem, true
	case js_lexer.TAsteriskAsterisk:
		return js_ast.BinOpPow, true

	// Comparison
	case js_lexer.TLessThan:
		return js_ast.BinOpLt, true
	case js_lexer.TLessThanEquals:
		return js_ast.BinOpLe, true
	case js_lexer.TGreaterThan:
		return js_ast.BinOpGt, true
	case js_lexer.TGreaterThanEquals:
		return js_ast.BinOpGe, true
	case js_lexer.TIn:
		return js_ast.BinOpIn, true
	case js_lexer.TInstanceof:
		return js_ast.BinOpInstanceof, true
	case js_lexer.TEqualsEquals:
		return js_ast.BinOpLooseEq, true
	case js_lexer.TExclamationEquals:
		return js_ast.BinOpLooseNe, true
	case js_lexer.TEqualsEqualsEquals:
		return js_ast.BinOpStrictEq, true
	case js_lexer.TExclamationEqualsEquals:
		return js_ast.BinOpStrictNe, true

	// Bitwise
	case js_lexer.TLessThanLessThan:
		return js_ast.BinOpShl, true
	case js_lexer.TGreaterThanGreaterThan:
		return js_ast.BinOpShr, true
	case js_lexer.TGreaterThanGreaterThanGreaterThan:
		return js_ast.BinOpUShr, true
	case js_lexer.TBar:
		return js_ast.BinOpBitwiseOr, true
	case js_lexer.TAmpersand:
		return js_ast.BinOpBitwiseAnd, true
	case js_lexer.TCaret:
		return js_ast.BinOpBitwiseXor, true

	// Logical
	case js_lexer.TQuestionQuestion:
		return js_ast.BinOpNullishCoalescing, true
	case js_lexer.TBarBar:
		return js_ast.BinOpLogicalOr, true
	case js_lexer.TAmpersandAmpersand:
		return js_ast.BinOpLogicalAnd, true

	// Assignment
	case js_lexer.TEquals:
		return js_ast.BinOpAssign, true
	case js_lexer.TPlusEquals:
		return js_ast.BinOpAddAssign, true
	case js_lexer.TMinusEquals:
		return js_ast.BinOpSubAssign, true
	case js_lexer.TAsteriskEquals:
		return js_ast.BinOpMulAssign, true
	case js_lexer.TSlashEquals:
		return js_ast.BinOpDivAssign, true
	case js_lexer.TPercentEquals:
		return js_ast.BinOpRemAssign, true
	case js_lexer.TAsteriskAsteriskEquals:
		return js_ast.BinOpPowAssign, true
	case js_lexer.TLessThanLessThanEquals:
		return js_ast.BinOpShlAssign, true
	case js_lexer.TGreaterThanGreaterThanEquals:
		return js_ast.BinOpShrAssign, true
	case js_lexer.TGreaterThanGreaterThanGreaterThanEquals:
		return js_ast.BinOpUShrAssign, true
	case js_lexer.TBarEquals:
		return js_ast.BinOpBitwiseOrAssign, true
	case js_lexer.TAmpersandEquals:
		return js_ast.BinOpBitwiseAndAssign, true
	case js_lexer.TCaretEquals:
		return js_ast.BinOpBitwiseXorAssign, true
	case js_lexer.TQuestionQuestionEquals:
		return js_ast.BinOpNullishCoalescingAssign, true
	case js_lexer.TBarBarEquals:
		return js_ast.BinOpLogicalOrAssign, true
	case js_lexer.TAmpersandAmpersandEquals:
		return js_ast.BinOpLogicalAndAssign, true
	}
	return 0, false
}

// parseSuffix extends left with whatever binds tighter than level: member
// accesses, calls, postfix updates, and binary and conditional operators.
// A chain like "a + b + c" is built in this loop rather than by recursion.
func (p *parser) parseSuffix(loc logger.Loc, left js_ast.Expr, level js_ast.L) js_ast.Expr {
	chain := js_ast.OptionalChainNone

	for {
		if p.lexer.Loc() == p.afterArrowBodyLoc {
			return p.parseCommaAfterArrow(loc, left, level)
		}

		// "c.d" in "a?.b + c.d" isn't part of the chain
		inChain := chain
		chain = js_ast.OptionalChainNone

		switch p.lexer.Token {
		case js_lexer.TDot:
			p.lexer.Next()
			left = p.parseMemberName(loc, left, inChain)
			chain = inChain

		case js_lexer.TQuestionDot:
			p.lexer.Next()
			switch p.lexer.Token {
			case js_lexer.TOpenBracket:
				left = p.parseIndex(loc, left, js_ast.OptionalChainStart)
			case js_lexer.TOpenParen:
				if level >= js_ast.LCall {
					return left
				}
				left = p.parseCall(loc, left, js_ast.OptionalChainStart)
			default:
				left = p.parseMemberName(loc, left, js_ast.OptionalChainStart)
			}
			chain = js_ast.OptionalChainContinue

		case js_lexer.TOpenBracket:
			left = p.parseIndex(loc, left, inChain)
			chain = inChain

		case js_lexer.TOpenParen:
			if level >= js_ast.LCall {
				return left
			}
			left = p.parseCall(loc, left, inChain)
			chain = inChain

		case js_lexer.TNoSubstitutionTemplateLiteral, js_lexer.TTemplateHead:
			if inChain != js_ast.OptionalChainNone {
				p.log.AddRangeError(&p.source, p.lexer.Range(), "Template literals cannot have an optional chain as a tag")
			}
			tag := left
			left = p.parseTemplate(loc, &tag)

		case js_lexer.TQuestion:
			if level >= js_ast.LConditional {
				return left
			}
			left = p.parseConditional(loc, left)

		case js_lexer.TPlusPlus, js_lexer.TMinusMinus:
			// "a\n++b" is "a; ++b"
			if p.lexer.HasNewlineBefore || level >= js_ast.LPostfix {
				return left
			}
			op := js_ast.UnOpPostInc
			if p.lexer.Token == js_lexer.TMinusMinus {
				op = js_ast.UnOpPostDec
			}
			p.lexer.Next()
			left = js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: op, Value: left}}

		default:
			op, ok := infixOp(p.lexer.Token)
			if !ok || level >= op.Level() || (op == js_ast.BinOpIn && !p.allowIn) {
				return left
			}
			left = p.parseInfix(loc, left, op, level)
		}
	}
}

// parseInfix parses the right operand of op. Mixing "??" with "||" or "&&"
// needs parentheses on either side.
func (p *parser) parseInfix(loc logger.Loc, left js_ast.Expr, op js_ast.OpCode, level js_ast.L) js_ast.Expr {
	mixesWithNullish := op == js_ast.BinOpLogicalOr || op == js_ast.BinOpLogicalAnd

	// "a ?? b || c"
	if mixesWithNullish && level == js_ast.LNullishCoalescing {
		p.lexer.Unexpected()
	}
	p.lexer.Next()

	rightLevel := op.Level()
	if op.IsRightAssociative() {
		rightLevel--
	}
	left = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: op, Left: left, Right: p.parseExpr(rightLevel)}}

	// "a || b ?? c"
	if mixesWithNullish && level < js_ast.LNullishCoalescing {
		left = p.parseSuffix(loc, left, js_ast.LNullishCoalescing+1)
		if p.lexer.Token == js_lexer.TQuestionQuestion {
			p.lexer.Unexpected()
		}
	}
	return left
}

func (p *parser) parseCommaAfterArrow(loc logger.Loc, left js_ast.Expr, level js_ast.L) js_ast.Expr {
	for p.lexer.Token == js_lexer.TComma && level < js_ast.LComma {
		p.lexer.Next()
		left = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpComma, Left: left, Right: p.parseExpr(js_ast.LComma)}}
	}
	return left
}

// parseMemberName parses the name after "." or "?.", which may be private
func (p *parser) parseMemberName(loc logger.Loc, target js_ast.Expr, chain js_ast.OptionalChain) js_ast.Expr {
	nameLoc := p.lexer.Loc()
	name := p.lexer.Identifier

	if p.lexer.Token == js_lexer.TPrivateIdentifier {
		if _, ok := target.Data.(*js_ast.ESuper); ok {
			p.lexer.Expected(js_lexer.TIdentifier)
		}
		p.lexer.Next()
		index := js_ast.Expr{Loc: nameLoc, Data: &js_ast.EPrivateIdentifier{Name: name}}
		return js_ast.Expr{Loc: loc, Data: &js_ast.EIndex{Target: target, Index: index, OptionalChain: chain}}
	}

	if !p.lexer.IsIdentifierOrKeyword() {
		p.lexer.Expect(js_lexer.TIdentifier)
	}
	p.lexer.Next()
	return js_ast.Expr{Loc: loc, Data: &js_ast.EDot{Target: target, Name: name, NameLoc: nameLoc, OptionalChain: chain}}
}

func (p *parser) parseIndex(loc logger.Loc, target js_ast.Expr, chain js_ast.OptionalChain) js_ast.Expr {
	p.lexer.Next()
	index := withAllowIn(p, func() js_ast.Expr { return p.parseExpr(js_ast.LLowest) })
	p.lexer.Expect(js_lexer.TCloseBracket)
	return js_ast.Expr{Loc: loc, Data: &js_ast.EIndex{Target: target, Index: index, OptionalChain: chain}}
}

func (p *parser) parseCall(loc logger.Loc, target js_ast.Expr, chain js_ast.OptionalChain) js_ast.Expr {
	args, closeParenLoc := p.parseCallArgs()
	return js_ast.Expr{Loc: loc, Data: &js_ast.ECall{
		Target:        target,
		Args:          args,
		CloseParenLoc: closeParenLoc,
		OptionalChain: chain,
	}}
}

func (p *parser) parseConditional(loc logger.Loc, test js_ast.Expr) js_ast.Expr {
	p.lexer.Next()
	yes := withAllowIn(p, func() js_ast.Expr { return p.parseExpr(js_ast.LComma) })
	p.lexer.Expect(js_lexer.TColon)
	no := p.parseExpr(js_ast.LComma)
	return js_ast.Expr{Loc: loc, Data: &js_ast.EIf{Test: test, Yes: yes, No: no}}
}
