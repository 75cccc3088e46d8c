package js_printer

import (
	"fmt"

	"github.com/jsprint/jsprint/internal/helpers"
	"github.com/jsprint/jsprint/internal/js_ast"
	"github.com/jsprint/jsprint/internal/logger"
)

// Functions

func (p *printer) fnKeyword(fn js_ast.Fn) {
	if fn.IsAsync {
		p.keyword("async")
		p.char(' ')
	}
	p.keyword("function")
	if fn.IsGenerator {
		p.char('*')
		p.softSpace()
	}
	if fn.Name != nil {
		p.genName(*fn.Name)
	}
}

func (p *printer) genFn(fn js_ast.Fn) {
	p.genParams(fn.Args, fn.HasRestArg, false)
	p.softSpace()
	p.genFnBody(fn.Body)
}

// A function body starts its own directive prologue
func (p *printer) genFnBody(body js_ast.FnBody) {
	outer := p.inDirectivePrologue
	p.inDirectivePrologue = true
	p.genBlock(body.Loc, body.Block)
	p.inDirectivePrologue = outer
}

func (p *printer) genParams(args []js_ast.Arg, hasRestArg bool, isArrow bool) {
	// "(a) => a" minifies to "a=>a"
	bare := false
	if isArrow && p.options.MinifyWhitespace && !hasRestArg && len(args) == 1 && args[0].DefaultOrNil == nil {
		_, bare = args[0].Binding.Data.(*js_ast.BIdentifier)
	}

	p.wrap(!bare, func() {
		for i, arg := range args {
			if i > 0 {
				p.char(',')
				p.softSpace()
			}
			if hasRestArg && i == len(args)-1 {
				p.str("...")
			}
			p.genBinding(arg.Binding)
			p.genDefault(arg.DefaultOrNil)
		}
	})
}

func (p *printer) genDefault(valueOrNil *js_ast.Expr) {
	if valueOrNil == nil {
		return
	}
	p.softSpace()
	p.char('=')
	p.softSpace()
	p.genExpr(*valueOrNil, js_ast.LComma, 0)
}

// annotateNoSideEffects moves a "/* @__NO_SIDE_EFFECTS__ */" comment that
// was in front of the node at loc into the output
func (p *printer) annotateNoSideEffects(loc logger.Loc) bool {
	if !p.takeAnnotation(loc, js_ast.CommentAnnotateNoSideEffects) {
		return false
	}
	p.printAnnotation(js_ast.CommentAnnotateNoSideEffects)
	return true
}

func isFunctionLike(expr js_ast.Expr) bool {
	switch expr.Data.(type) {
	case *js_ast.EArrow, *js_ast.EFunction:
		return true
	}
	return false
}

// Classes

func (p *printer) genClass(class js_ast.Class) {
	p.spaceBeforeIdentifier()
	p.mapLoc(class.ClassKeyword.Loc)
	p.str("class")
	if class.Name != nil {
		p.genName(*class.Name)
	}
	if class.ExtendsOrNil != nil {
		p.str(" extends")
		p.softSpace()
		p.genExpr(*class.ExtendsOrNil, js_ast.LNew-1, 0)
	}
	p.softSpace()

	p.mapLoc(class.BodyLoc)
	p.char('{')
	p.softNewline()
	p.indented(func() {
		for _, member := range class.Properties {
			p.genClassMember(member)
		}
	})
	p.needsSemicolon = false

	p.printIndent()
	if class.CloseBraceLoc.Start > class.BodyLoc.Start {
		p.mapLoc(class.CloseBraceLoc)
	}
	p.char('}')
}

func (p *printer) genClassMember(member js_ast.Property) {
	p.semicolonIfNeeded()
	p.printIndent()

	if member.Kind == js_ast.PropertyClassStaticBlock {
		p.keyword("static")
		p.softSpace()
		p.genBlock(member.ClassStaticBlock.Loc, member.ClassStaticBlock.Block)
		p.softNewline()
		return
	}

	p.genProperty(member)

	// Methods end at their body but fields need a semicolon
	if member.ValueOrNil == nil {
		p.semicolonAfterStatement()
	} else {
		p.softNewline()
	}
}

// Properties of object literals and classes

// methodOf returns the function of a method, getter, or setter
func methodOf(property js_ast.Property) *js_ast.EFunction {
	if property.ValueOrNil == nil || (!property.IsMethod && property.Kind == js_ast.PropertyNormal) {
		return nil
	}
	fn, _ := property.ValueOrNil.Data.(*js_ast.EFunction)
	return fn
}

func (p *printer) genProperty(property js_ast.Property) {
	if property.Kind == js_ast.PropertySpread {
		p.str("...")
		p.genExpr(*property.ValueOrNil, js_ast.LComma, 0)
		return
	}

	method := methodOf(property)
	if property.IsStatic {
		p.keyword("static")
		p.softSpace()
	}
	switch property.Kind {
	case js_ast.PropertyGet:
		p.keyword("get")
		p.softSpace()
	case js_ast.PropertySet:
		p.keyword("set")
		p.softSpace()
	}
	if method != nil && property.IsMethod {
		if method.Fn.IsAsync {
			p.keyword("async")
			p.softSpace()
		}
		if method.Fn.IsGenerator {
			p.char('*')
		}
	}

	name := p.genKey(property.Key, property.IsComputed, property.PreferQuotedKey)
	switch {
	case method != nil:
		p.genFn(method.Fn)
		return

	case property.ValueOrNil == nil:

	case name != nil && canUseShorthand(property, name):
		// "{a: a}" => "{a}"

	default:
		p.char(':')
		p.softSpace()
		p.genExpr(*property.ValueOrNil, js_ast.LComma, 0)
	}
	p.genDefault(property.InitializerOrNil)
}

// "{__proto__: __proto__}" sets the prototype while "{__proto__}" defines an
// own property, so that key only becomes shorthand if it was written that way
func canUseShorthand(property js_ast.Property, name []uint16) bool {
	id, ok := property.ValueOrNil.Data.(*js_ast.EIdentifier)
	if !ok || !helpers.UTF16EqualsString(name, id.Name) {
		return false
	}
	return id.Name != "__proto__" || property.WasShorthand
}

// genKey writes a property key and returns its name when the key was
// written as a bare identifier, which is when a shorthand form is possible
func (p *printer) genKey(key js_ast.Expr, isComputed bool, preferQuoted bool) []uint16 {
	if isComputed {
		p.char('[')
		p.genExpr(key, js_ast.LComma, 0)
		p.char(']')
		return nil
	}

	switch k := key.Data.(type) {
	case *js_ast.EPrivateIdentifier:
		p.mapName(key.Loc, k.Name)
		p.identifier(k.Name)

	case *js_ast.EString:
		if preferQuoted || !js_ast.IsIdentifierUTF16(k.Value) {
			p.mapLoc(key.Loc)
			p.quotedUTF16(k.Value, false)
			return nil
		}
		p.spaceBeforeIdentifier()
		p.mapLoc(key.Loc)
		p.identifierUTF16(k.Value)
		return k.Value

	default:
		p.genExpr(key, js_ast.LLowest, 0)
	}
	return nil
}

// Binding patterns

func (p *printer) genBinding(binding js_ast.Binding) {
	switch b := binding.Data.(type) {
	case *js_ast.BMissing:
		p.mapLoc(binding.Loc)

	case *js_ast.BIdentifier:
		p.spaceBeforeIdentifier()
		p.mapName(binding.Loc, b.Name)
		p.identifier(b.Name)

	case *js_ast.BArray:
		last := len(b.Items) - 1
		p.mapLoc(binding.Loc)
		p.char('[')
		p.commaList(len(b.Items), b.IsSingleLine, false, func(i int) {
			item := b.Items[i]
			if b.HasSpread && i == last {
				p.str("...")
			}
			p.genBinding(item.Binding)
			p.genDefault(item.DefaultValueOrNil)

			// "[a, ,]" needs its final comma to keep the hole
			if _, isHole := item.Binding.Data.(*js_ast.BMissing); isHole && i == last {
				p.char(',')
			}
		})
		p.char(']')

	case *js_ast.BObject:
		p.mapLoc(binding.Loc)
		p.char('{')
		p.commaList(len(b.Properties), b.IsSingleLine, true, func(i int) {
			p.genPropertyBinding(b.Properties[i])
		})
		p.char('}')

	default:
		panic(fmt.Sprintf("js_printer: unexpected binding type %T", binding.Data))
	}
}

func (p *printer) genPropertyBinding(property js_ast.PropertyBinding) {
	if property.IsSpread {
		p.str("...")
		p.genBinding(property.Value)
		return
	}

	name := p.genKey(property.Key, property.IsComputed, property.PreferQuotedKey)

	// "{a: a}" => "{a}"
	if id, ok := property.Value.Data.(*js_ast.BIdentifier); !ok || name == nil || !helpers.UTF16EqualsString(name, id.Name) {
		p.char(':')
		p.softSpace()
		p.genBinding(property.Value)
	}
	p.genDefault(property.DefaultValueOrNil)
}
