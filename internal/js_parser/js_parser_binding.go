package js_parser

import (
	"fmt"

	"github.com/jsprint/jsprint/internal/js_ast"
	"github.com/jsprint/jsprint/internal/js_lexer"
	"github.com/jsprint/jsprint/internal/logger"
)

func (p *parser) parseBinding() js_ast.Binding {
	loc := p.lexer.Loc()

	switch p.lexer.Token {
	case js_lexer.TIdentifier:
		name := p.lexer.Identifier
		if (name == "await" && p.fn.await != keywordIsName) || (name == "yield" && p.fn.yield != keywordIsName) {
			p.log.AddRangeError(&p.source, p.lexer.Range(), fmt.Sprintf("Cannot use %q as an identifier here", name))
		}
		p.lexer.Next()
		return js_ast.Binding{Loc: loc, Data: p.newBIdentifier(name)}

	case js_lexer.TOpenBracket:
		p.lexer.Next()
		pattern := &js_ast.BArray{Items: []js_ast.ArrayBinding{}}
		_, pattern.IsSingleLine = p.commaList(js_lexer.TCloseBracket, func() {
			if p.lexer.Token == js_lexer.TComma {
				hole := js_ast.Binding{Loc: p.lexer.Loc(), Data: &js_ast.BMissing{}}
				pattern.Items = append(pattern.Items, js_ast.ArrayBinding{Binding: hole})
				return
			}

			if p.eat(js_lexer.TDotDotDot) {
				pattern.HasSpread = true
				pattern.Items = append(pattern.Items, js_ast.ArrayBinding{Binding: p.parseBinding()})
				p.forbidCommaAfterRest()
				return
			}

			item := js_ast.ArrayBinding{Binding: p.parseBinding()}
			item.DefaultValueOrNil = p.parseDefault()
			pattern.Items = append(pattern.Items, item)
		})
		return js_ast.Binding{Loc: loc, Data: pattern}

	case js_lexer.TOpenBrace:
		p.lexer.Next()
		pattern := &js_ast.BObject{Properties: []js_ast.PropertyBinding{}}
		_, pattern.IsSingleLine = p.commaList(js_lexer.TCloseBrace, func() {
			property := p.parsePropertyBinding()
			pattern.Properties = append(pattern.Properties, property)
			if property.IsSpread {
				p.forbidCommaAfterRest()
			}
		})
		return js_ast.Binding{Loc: loc, Data: pattern}
	}

	p.lexer.Expect(js_lexer.TIdentifier)
	return js_ast.Binding{}
}

func (p *parser) parsePropertyBinding() js_ast.PropertyBinding {
	// "{...rest}" only takes a name
	if p.eat(js_lexer.TDotDotDot) {
		value := js_ast.Binding{Loc: p.lexer.Loc(), Data: p.newBIdentifier(p.lexer.Identifier)}
		p.lexer.Expect(js_lexer.TIdentifier)
		return js_ast.PropertyBinding{IsSpread: true, Value: value}
	}

	key := p.parsePropertyKey(false)

	// "{a}" and "{a = 1}"
	if key.isName && p.lexer.Token != js_lexer.TColon && p.lexer.Token != js_lexer.TOpenParen {
		value := js_ast.Binding{Loc: key.expr.Loc, Data: p.newBIdentifier(key.name)}
		return js_ast.PropertyBinding{Key: key.expr, Value: value, DefaultValueOrNil: p.parseDefault()}
	}

	p.lexer.Expect(js_lexer.TColon)
	property := js_ast.PropertyBinding{
		IsComputed:      key.isComputed,
		PreferQuotedKey: key.preferQuoted,
		Key:             key.expr,
		Value:           p.parseBinding(),
	}
	property.DefaultValueOrNil = p.parseDefault()
	return property
}

// parseDefault parses the "= value" that may follow a pattern
func (p *parser) parseDefault() *js_ast.Expr {
	if !p.eat(js_lexer.TEquals) {
		return nil
	}
	value := p.parseExpr(js_ast.LComma)
	return &value
}

// "[...a, b]" and "{...a, b}" are invalid
func (p *parser) forbidCommaAfterRest() {
	if p.lexer.Token == js_lexer.TComma {
		p.log.AddRangeError(&p.source, p.lexer.Range(), "Unexpected \",\" after rest pattern")
		panic(js_lexer.LexerPanic{})
	}
}

// Expressions that turn out to be patterns

// patternWithDefault converts an item of an array literal or argument list
// into a pattern, splitting "a = 1" into the pattern and its default
func (p *parser) patternWithDefault(expr js_ast.Expr, isRest bool) (js_ast.Binding, *js_ast.Expr) {
	var defaultOrNil *js_ast.Expr
	if assign, ok := expr.Data.(*js_ast.EBinary); ok && assign.Op == js_ast.BinOpAssign {
		expr, defaultOrNil = assign.Left, &assign.Right
	}

	binding := p.patternFromExpr(expr)
	if defaultOrNil != nil && isRest {
		equalsRange := p.source.RangeOfOperatorBefore(defaultOrNil.Loc, "=")
		p.log.AddRangeError(&p.source, equalsRange, "A rest argument cannot have a default initializer")
	}
	return binding, defaultOrNil
}

func (p *parser) patternFromExpr(expr js_ast.Expr) js_ast.Binding {
	switch e := expr.Data.(type) {
	case *js_ast.EMissing:
		return js_ast.Binding{Loc: expr.Loc, Data: &js_ast.BMissing{}}

	case *js_ast.EIdentifier:
		return js_ast.Binding{Loc: expr.Loc, Data: p.newBIdentifier(e.Name)}

	case *js_ast.EArray:
		pattern := &js_ast.BArray{Items: make([]js_ast.ArrayBinding, 0, len(e.Items)), IsSingleLine: e.IsSingleLine}
		for _, item := range e.Items {
			isRest := false
			if spread, ok := item.Data.(*js_ast.ESpread); ok {
				item, isRest = spread.Value, true
				pattern.HasSpread = true
			}
			binding, defaultOrNil := p.patternWithDefault(item, isRest)
			pattern.Items = append(pattern.Items, js_ast.ArrayBinding{Binding: binding, DefaultValueOrNil: defaultOrNil})
		}
		return js_ast.Binding{Loc: expr.Loc, Data: pattern}

	case *js_ast.EObject:
		pattern := &js_ast.BObject{Properties: make([]js_ast.PropertyBinding, 0, len(e.Properties)), IsSingleLine: e.IsSingleLine}
		for _, property := range e.Properties {
			if property.IsMethod || property.Kind == js_ast.PropertyGet || property.Kind == js_ast.PropertySet || property.ValueOrNil == nil {
				p.invalidBindingPattern(property.Key.Loc)
			}

			// "{a = 1}" keeps its default on the property
			binding, defaultOrNil := p.patternWithDefault(*property.ValueOrNil, false)
			if defaultOrNil == nil {
				defaultOrNil = property.InitializerOrNil
			}

			pattern.Properties = append(pattern.Properties, js_ast.PropertyBinding{
				IsSpread:          property.Kind == js_ast.PropertySpread,
				IsComputed:        property.IsComputed,
				PreferQuotedKey:   property.PreferQuotedKey,
				Key:               property.Key,
				Value:             binding,
				DefaultValueOrNil: defaultOrNil,
			})
		}
		return js_ast.Binding{Loc: expr.Loc, Data: pattern}
	}

	p.invalidBindingPattern(expr.Loc)
	return js_ast.Binding{}
}

func (p *parser) invalidBindingPattern(loc logger.Loc) {
	p.log.AddError(&p.source, loc, "Invalid binding pattern")
	panic(js_lexer.LexerPanic{})
}

// Declarations

func (p *parser) parseDecls() []js_ast.Decl {
	decls := []js_ast.Decl{}
	for {
		binding := p.parseBinding()
		decls = append(decls, js_ast.Decl{Binding: binding, ValueOrNil: p.parseDefault()})
		if !p.eat(js_lexer.TComma) {
			return decls
		}
	}
}

// requireInitializers reports "const" declarations without a value
func (p *parser) requireInitializers(decls []js_ast.Decl) {
	for _, decl := range decls {
		if decl.ValueOrNil != nil {
			continue
		}
		what := "destructuring declaration"
		if _, ok := decl.Binding.Data.(*js_ast.BIdentifier); ok {
			what = "constant"
		}
		p.log.AddError(&p.source, decl.Binding.Loc, fmt.Sprintf("This %s must be initialized", what))
	}
}

// forbidInitializers checks the declaration in the head of a for-in or
// for-of loop. Only "for (var a = b in c)" keeps an initializer, for
// compatibility with old code.
func (p *parser) forbidInitializers(decls []js_ast.Decl, loopType string, isVar bool) {
	switch {
	case len(decls) > 1:
		p.log.AddError(&p.source, decls[0].Binding.Loc, fmt.Sprintf("for-%s loops must have a single declaration", loopType))

	case len(decls) == 1 && decls[0].ValueOrNil != nil:
		if _, ok := decls[0].Binding.Data.(*js_ast.BIdentifier); ok && isVar {
			return
		}
		p.log.AddError(&p.source, decls[0].ValueOrNil.Loc, fmt.Sprintf("for-%s loop variables cannot have an initializer", loopType))
	}
}
