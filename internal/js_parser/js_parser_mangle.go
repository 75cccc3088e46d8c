package js_parser

import (
	"math"

	"github.com/jsprint/jsprint/internal/helpers"
	"github.com/jsprint/jsprint/internal/js_ast"
	"github.com/jsprint/jsprint/internal/logger"
)

// The visit pass only runs when syntax minification is enabled. It rewrites
// the tree bottom-up into a smaller equivalent tree. The printer never has to
// know whether a node was produced by the parser or by this pass.

func (p *parser) visitStmts(stmts []js_ast.Stmt, kind stmtsKind) []js_ast.Stmt {
	visited := make([]js_ast.Stmt, 0, len(stmts))
	for _, stmt := range stmts {
		visited = p.visitAndAppendStmt(visited, stmt)
	}
	return p.mangleStmts(visited, kind)
}

// This is used for the bodies of control flow statements, which are a single
// statement instead of a list
func (p *parser) visitSingleStmt(stmt js_ast.Stmt) js_ast.Stmt {
	stmts := p.visitStmts([]js_ast.Stmt{stmt}, stmtsNormal)
	return stmtsToSingleStmt(stmt.Loc, stmts)
}

func stmtsToSingleStmt(loc logger.Loc, stmts []js_ast.Stmt) js_ast.Stmt {
	if len(stmts) == 0 {
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SEmpty{}}
	}
	if len(stmts) == 1 && !isLexicalDecl(stmts[0]) {
		// "let" and "const" must be put in a block when in a single-statement context
		return stmts[0]
	}
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SBlock{Stmts: stmts}}
}

// Lexical declarations are scoped to the enclosing block, so a block that
// contains one can't be merged into its parent
func isLexicalDecl(stmt js_ast.Stmt) bool {
	switch s := stmt.Data.(type) {
	case *js_ast.SLocal:
		return s.Kind != js_ast.LocalVar
	case *js_ast.SClass, *js_ast.SFunction:
		return true
	}
	return false
}

func appendFlattened(stmts []js_ast.Stmt, stmt js_ast.Stmt) []js_ast.Stmt {
	switch s := stmt.Data.(type) {
	case *js_ast.SEmpty:
		return stmts

	case *js_ast.SBlock:
		for _, child := range s.Stmts {
			if isLexicalDecl(child) {
				return append(stmts, stmt)
			}
		}
		return append(stmts, s.Stmts...)
	}
	return append(stmts, stmt)
}

func (p *parser) visitAndAppendStmt(stmts []js_ast.Stmt, stmt js_ast.Stmt) []js_ast.Stmt {
	switch s := stmt.Data.(type) {
	case *js_ast.SEmpty:
		// Empty statements are dropped. Control flow bodies get one back from
		// "visitSingleStmt" if they end up with nothing in them.
		return stmts

	case *js_ast.SDebugger, *js_ast.SDirective, *js_ast.SComment, *js_ast.SImport,
		*js_ast.SExportClause, *js_ast.SExportFrom, *js_ast.SExportStar,
		*js_ast.SBreak, *js_ast.SContinue:

	case *js_ast.SExportDefault:
		switch v := s.Value.Data.(type) {
		case *js_ast.SExpr:
			v.Value = p.visitExpr(v.Value)
		case *js_ast.SFunction:
			p.visitFn(&v.Fn)
		case *js_ast.SClass:
			p.visitClass(&v.Class)
		default:
			panic("Internal error")
		}

	case *js_ast.SBlock:
		s.Stmts = p.visitStmts(s.Stmts, stmtsNormal)
		return appendFlattened(stmts, stmt)

	case *js_ast.SExpr:
		s.Value = p.visitExpr(s.Value)

	case *js_ast.SFunction:
		p.visitFn(&s.Fn)

	case *js_ast.SClass:
		p.visitClass(&s.Class)

	case *js_ast.SLabel:
		s.Stmt = p.visitSingleStmt(s.Stmt)

	case *js_ast.SLocal:
		for i := range s.Decls {
			decl := &s.Decls[i]
			p.visitBinding(decl.Binding)
			if decl.ValueOrNil != nil {
				*decl.ValueOrNil = p.visitExpr(*decl.ValueOrNil)
			}
		}

	case *js_ast.SReturn:
		if s.ValueOrNil != nil {
			*s.ValueOrNil = p.visitExpr(*s.ValueOrNil)
		}

	case *js_ast.SThrow:
		s.Value = p.visitExpr(s.Value)

	case *js_ast.SIf:
		s.Test = p.visitExpr(s.Test)
		s.Yes = p.visitSingleStmt(s.Yes)
		if s.NoOrNil != nil {
			no := p.visitSingleStmt(*s.NoOrNil)
			if _, ok := no.Data.(*js_ast.SEmpty); ok {
				s.NoOrNil = nil
			} else {
				s.NoOrNil = &no
			}
		}
		return p.mangleIf(stmts, stmt, s)

	case *js_ast.SWhile:
		s.Test = p.visitExpr(s.Test)
		s.Body = p.visitSingleStmt(s.Body)

		// "while (a) b" => "for (; a; ) b"
		test := s.Test
		stmt = js_ast.Stmt{Loc: stmt.Loc, Data: &js_ast.SFor{TestOrNil: &test, Body: s.Body}}
		p.mangleFor(stmt.Data.(*js_ast.SFor))

	case *js_ast.SDoWhile:
		s.Body = p.visitSingleStmt(s.Body)
		s.Test = p.visitExpr(s.Test)

	case *js_ast.SFor:
		if s.InitOrNil != nil {
			init := p.visitForInit(*s.InitOrNil)
			s.InitOrNil = &init
		}
		if s.TestOrNil != nil {
			*s.TestOrNil = p.visitExpr(*s.TestOrNil)
		}
		if s.UpdateOrNil != nil {
			*s.UpdateOrNil = p.visitExpr(*s.UpdateOrNil)
		}
		s.Body = p.visitSingleStmt(s.Body)
		p.mangleFor(s)

	case *js_ast.SForIn:
		s.Init = p.visitForInit(s.Init)
		s.Value = p.visitExpr(s.Value)
		s.Body = p.visitSingleStmt(s.Body)

	case *js_ast.SForOf:
		s.Init = p.visitForInit(s.Init)
		s.Value = p.visitExpr(s.Value)
		s.Body = p.visitSingleStmt(s.Body)

	case *js_ast.SWith:
		s.Value = p.visitExpr(s.Value)
		s.Body = p.visitSingleStmt(s.Body)

	case *js_ast.STry:
		s.Block.Stmts = p.visitStmts(s.Block.Stmts, stmtsNormal)
		if s.CatchOrNil != nil {
			if s.CatchOrNil.BindingOrNil != nil {
				p.visitBinding(*s.CatchOrNil.BindingOrNil)
			}
			s.CatchOrNil.Block.Stmts = p.visitStmts(s.CatchOrNil.Block.Stmts, stmtsNormal)
		}
		if s.FinallyOrNil != nil {
			s.FinallyOrNil.Block.Stmts = p.visitStmts(s.FinallyOrNil.Block.Stmts, stmtsNormal)
		}

	case *js_ast.SSwitch:
		s.Test = p.visitExpr(s.Test)
		for i := range s.Cases {
			c := &s.Cases[i]
			if c.ValueOrNil != nil {
				*c.ValueOrNil = p.visitExpr(*c.ValueOrNil)
			}
			c.Body = p.visitStmts(c.Body, stmtsSwitch)
		}

	default:
		panic("Internal error")
	}

	return append(stmts, stmt)
}

func (p *parser) visitForInit(stmt js_ast.Stmt) js_ast.Stmt {
	switch s := stmt.Data.(type) {
	case *js_ast.SExpr:
		s.Value = p.visitExpr(s.Value)

	case *js_ast.SLocal:
		for i := range s.Decls {
			decl := &s.Decls[i]
			p.visitBinding(decl.Binding)
			if decl.ValueOrNil != nil {
				*decl.ValueOrNil = p.visitExpr(*decl.ValueOrNil)
			}
		}

	default:
		panic("Internal error")
	}
	return stmt
}

func (p *parser) mangleIf(stmts []js_ast.Stmt, stmt js_ast.Stmt, s *js_ast.SIf) []js_ast.Stmt {
	// Constant folding using the test expression
	if boolean, sideEffects, ok := js_ast.ToBooleanWithSideEffects(s.Test.Data); ok {
		if sideEffects == js_ast.CouldHaveSideEffects {
			stmts = append(stmts, js_ast.Stmt{Loc: s.Test.Loc, Data: &js_ast.SExpr{Value: s.Test}})
		}

		if boolean {
			// The test is truthy
			if s.NoOrNil != nil {
				stmts = keepHoistedDecls(stmts, *s.NoOrNil)
			}
			return appendFlattened(stmts, s.Yes)
		}

		// The test is falsy
		stmts = keepHoistedDecls(stmts, s.Yes)
		if s.NoOrNil != nil {
			return appendFlattened(stmts, *s.NoOrNil)
		}
		return stmts
	}

	if _, ok := s.Yes.Data.(*js_ast.SEmpty); ok {
		if s.NoOrNil == nil {
			// "if (a) {}" => "a;"
			return append(stmts, js_ast.Stmt{Loc: stmt.Loc, Data: &js_ast.SExpr{Value: s.Test}})
		}

		// "if (a) {} else b" => "if (!a) b"
		s.Test = js_ast.Not(s.Test)
		s.Yes = *s.NoOrNil
		s.NoOrNil = nil
	} else if s.NoOrNil != nil && js_ast.StmtsValuesLookTheSame(s.Yes.Data, s.NoOrNil.Data) {
		// "if (a) b; else b;" => "a, b;"
		yes := s.Yes.Data.(*js_ast.SExpr).Value
		return append(stmts, js_ast.Stmt{Loc: stmt.Loc, Data: &js_ast.SExpr{Value: js_ast.JoinWithComma(s.Test, yes)}})
	}

	return append(stmts, stmt)
}

func (p *parser) mangleFor(s *js_ast.SFor) {
	// "for (; true; )" => "for (;;)"
	if s.TestOrNil != nil {
		if boolean, sideEffects, ok := js_ast.ToBooleanWithSideEffects(s.TestOrNil.Data); ok && boolean && sideEffects == js_ast.NoSideEffects {
			s.TestOrNil = nil
		}
	}
}

// Declarations in code that is never executed still have an effect. Function
// declarations and "var" bindings are hoisted to the top of the enclosing
// function, so they are kept (without their initializers).
func keepHoistedDecls(stmts []js_ast.Stmt, stmt js_ast.Stmt) []js_ast.Stmt {
	switch s := stmt.Data.(type) {
	case *js_ast.SFunction:
		return append(stmts, stmt)

	case *js_ast.SLocal:
		if s.Kind == js_ast.LocalVar {
			decls := make([]js_ast.Decl, len(s.Decls))
			for i, decl := range s.Decls {
				decls[i] = js_ast.Decl{Binding: decl.Binding}
			}
			return append(stmts, js_ast.Stmt{Loc: stmt.Loc, Data: &js_ast.SLocal{
				Kind:     js_ast.LocalVar,
				Decls:    decls,
				IsExport: s.IsExport,
			}})
		}

	case *js_ast.SBlock:
		for _, child := range s.Stmts {
			stmts = keepHoistedDecls(stmts, child)
		}
	}
	return stmts
}

func (p *parser) mangleStmts(stmts []js_ast.Stmt, kind stmtsKind) []js_ast.Stmt {
	result := make([]js_ast.Stmt, 0, len(stmts))
	isControlFlowDead := false

	for i, stmt := range stmts {
		if isControlFlowDead {
			// Inside a switch, a later "case" clause may still be reached by
			// falling through, but that's a separate statement list
			result = keepHoistedDecls(result, stmt)
			continue
		}

		result = append(result, stmt)

		switch stmt.Data.(type) {
		case *js_ast.SBreak, *js_ast.SContinue, *js_ast.SReturn, *js_ast.SThrow:
			isControlFlowDead = i+1 < len(stmts)
		}
	}

	// "return;" at the end of a function body does nothing
	if kind == stmtsFnBody && len(result) > 0 {
		if ret, ok := result[len(result)-1].Data.(*js_ast.SReturn); ok && ret.ValueOrNil == nil {
			result = result[:len(result)-1]
		}
	}

	return result
}

func (p *parser) visitFn(fn *js_ast.Fn) {
	for _, arg := range fn.Args {
		p.visitBinding(arg.Binding)
		if arg.DefaultOrNil != nil {
			*arg.DefaultOrNil = p.visitExpr(*arg.DefaultOrNil)
		}
	}
	fn.Body.Block.Stmts = p.visitStmts(fn.Body.Block.Stmts, stmtsFnBody)
}

func (p *parser) visitClass(class *js_ast.Class) {
	if class.ExtendsOrNil != nil {
		*class.ExtendsOrNil = p.visitExpr(*class.ExtendsOrNil)
	}

	for i := range class.Properties {
		property := &class.Properties[i]
		if property.Kind == js_ast.PropertyClassStaticBlock {
			property.ClassStaticBlock.Block.Stmts = p.visitStmts(property.ClassStaticBlock.Block.Stmts, stmtsFnBody)
			continue
		}
		p.visitProperty(property)
	}
}

func (p *parser) visitProperty(property *js_ast.Property) {
	if property.Kind != js_ast.PropertySpread {
		property.Key = p.visitExpr(property.Key)
		p.mangleComputedKey(property)
	}
	if property.ValueOrNil != nil {
		*property.ValueOrNil = p.visitExpr(*property.ValueOrNil)
	}
	if property.InitializerOrNil != nil {
		*property.InitializerOrNil = p.visitExpr(*property.InitializerOrNil)
	}
}

// "{ ['x']: y }" => "{ x: y }"
func (p *parser) mangleComputedKey(property *js_ast.Property) {
	if !property.IsComputed {
		return
	}
	if str, ok := property.Key.Data.(*js_ast.EString); ok {
		// "class { ['constructor']() {} }" is not the same as a constructor,
		// and "{ ['__proto__']: x }" doesn't set the prototype
		if helpers.UTF16EqualsString(str.Value, "constructor") || helpers.UTF16EqualsString(str.Value, "__proto__") {
			return
		}
		property.IsComputed = false
	}
}

func (p *parser) visitBinding(binding js_ast.Binding) {
	switch b := binding.Data.(type) {
	case *js_ast.BMissing, *js_ast.BIdentifier:

	case *js_ast.BArray:
		for i := range b.Items {
			item := &b.Items[i]
			p.visitBinding(item.Binding)
			if item.DefaultValueOrNil != nil {
				*item.DefaultValueOrNil = p.visitExpr(*item.DefaultValueOrNil)
			}
		}

	case *js_ast.BObject:
		for i := range b.Properties {
			property := &b.Properties[i]
			if !property.IsSpread {
				property.Key = p.visitExpr(property.Key)
			}
			p.visitBinding(property.Value)
			if property.DefaultValueOrNil != nil {
				*property.DefaultValueOrNil = p.visitExpr(*property.DefaultValueOrNil)
			}
		}

	default:
		panic("Internal error")
	}
}

func (p *parser) visitExprs(exprs []js_ast.Expr) {
	for i, expr := range exprs {
		exprs[i] = p.visitExpr(expr)
	}
}

func (p *parser) visitExpr(expr js_ast.Expr) js_ast.Expr {
	switch e := expr.Data.(type) {
	case *js_ast.ENull, *js_ast.ESuper, *js_ast.EBoolean, *js_ast.EBigInt, *js_ast.EThis,
		*js_ast.ERegExp, *js_ast.ENewTarget, *js_ast.EUndefined, *js_ast.EImportMeta,
		*js_ast.EString, *js_ast.ENumber, *js_ast.EPrivateIdentifier, *js_ast.EMissing:

	case *js_ast.EIdentifier:
		// "undefined" => "void 0"
		if e.Name == "undefined" && !p.declaresUndefined {
			return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EUndefined{}}
		}

	case *js_ast.ETemplate:
		if e.TagOrNil != nil {
			*e.TagOrNil = p.visitCallTarget(*e.TagOrNil)
		}
		for i := range e.Parts {
			e.Parts[i].Value = p.visitExpr(e.Parts[i].Value)
		}

	case *js_ast.EBinary:
		p.visitBinaryExpr(e)

	case *js_ast.EIndex:
		e.Target = p.visitExpr(e.Target)
		e.Index = p.visitExpr(e.Index)

		if str, ok := e.Index.Data.(*js_ast.EString); ok {
			// "x['0']" => "x[0]"
			if value, ok := js_ast.IsCanonicalArrayIndex(str.Value); ok {
				e.Index = js_ast.MakeNumber(e.Index.Loc, value)
				break
			}

			// "x['y']" => "x.y"
			if js_ast.IsIdentifierUTF16(str.Value) {
				return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EDot{
					Target:        e.Target,
					Name:          helpers.UTF16ToString(str.Value),
					NameLoc:       e.Index.Loc,
					OptionalChain: e.OptionalChain,
				}}
			}
		}

	case *js_ast.EDot:
		e.Target = p.visitExpr(e.Target)

	case *js_ast.EUnary:
		e.Value = p.visitExpr(e.Value)

		switch e.Op {
		case js_ast.UnOpNot:
			// "!!a" => "a" when "a" is already a boolean
			if inner, ok := e.Value.Data.(*js_ast.EUnary); ok && inner.Op == js_ast.UnOpNot {
				if js_ast.KnownPrimitiveType(inner.Value) == js_ast.PrimitiveBoolean {
					return inner.Value
				}
			}

			// "!(a == b)" => "a != b"
			if value, ok := js_ast.MaybeSimplifyNot(e.Value); ok {
				if _, isLiteral := value.Data.(*js_ast.EBoolean); isLiteral && !js_ast.IsPrimitiveLiteral(e.Value.Data) {
					// Folding "!function() {}" would drop the expression
					break
				}
				return value
			}

		case js_ast.UnOpPos:
			// "+true" => "1"
			if number, ok := js_ast.ToNumberWithoutSideEffects(e.Value.Data); ok && !math.IsNaN(number) {
				if existing, ok := e.Value.Data.(*js_ast.ENumber); ok {
					return js_ast.Expr{Loc: expr.Loc, Data: existing}
				}
				return js_ast.MakeNumber(expr.Loc, number)
			}

		case js_ast.UnOpVoid:
			// "void undefined" is already "void 0"
			if _, ok := e.Value.Data.(*js_ast.EUndefined); ok {
				return e.Value
			}
		}

	case *js_ast.EIf:
		e.Test = p.visitExpr(e.Test)
		e.Yes = p.visitExpr(e.Yes)
		e.No = p.visitExpr(e.No)

		// "(a, true) ? b : c" => "a, b"
		if boolean, sideEffects, ok := js_ast.ToBooleanWithSideEffects(e.Test.Data); ok {
			value := e.No
			if boolean {
				value = e.Yes
			}
			if sideEffects == js_ast.CouldHaveSideEffects {
				return js_ast.JoinWithComma(e.Test, value)
			}
			return value
		}

		// "a ? b : b" => "a, b"
		if js_ast.ValuesLookTheSame(e.Yes.Data, e.No.Data) {
			return js_ast.JoinWithComma(e.Test, e.Yes)
		}

		// "!a ? b : c" => "a ? c : b"
		if not, ok := e.Test.Data.(*js_ast.EUnary); ok && not.Op == js_ast.UnOpNot {
			e.Test = not.Value
			e.Yes, e.No = e.No, e.Yes
		}

	case *js_ast.EAwait:
		e.Value = p.visitExpr(e.Value)

	case *js_ast.EYield:
		if e.ValueOrNil != nil {
			*e.ValueOrNil = p.visitExpr(*e.ValueOrNil)
		}

	case *js_ast.EArray:
		p.visitExprs(e.Items)

	case *js_ast.EObject:
		for i := range e.Properties {
			p.visitProperty(&e.Properties[i])
		}

	case *js_ast.EImportCall:
		e.Expr = p.visitExpr(e.Expr)
		if e.OptionsOrNil != nil {
			*e.OptionsOrNil = p.visitExpr(*e.OptionsOrNil)
		}

	case *js_ast.ECall:
		e.Target = p.visitCallTarget(e.Target)
		p.visitExprs(e.Args)

	case *js_ast.ENew:
		e.Target = p.visitExpr(e.Target)
		p.visitExprs(e.Args)

	case *js_ast.ESpread:
		e.Value = p.visitExpr(e.Value)

	case *js_ast.EArrow:
		for _, arg := range e.Args {
			p.visitBinding(arg.Binding)
			if arg.DefaultOrNil != nil {
				*arg.DefaultOrNil = p.visitExpr(*arg.DefaultOrNil)
			}
		}
		if e.PreferExpr {
			// Keep the single "return" that holds the expression body
			ret := e.Body.Block.Stmts[0].Data.(*js_ast.SReturn)
			*ret.ValueOrNil = p.visitExpr(*ret.ValueOrNil)
		} else {
			e.Body.Block.Stmts = p.visitStmts(e.Body.Block.Stmts, stmtsFnBody)
		}

	case *js_ast.EFunction:
		p.visitFn(&e.Fn)

	case *js_ast.EClass:
		p.visitClass(&e.Class)

	default:
		panic("Internal error")
	}

	return expr
}

// Folding a conditional in call position must not turn it into a method call
// or a direct eval: "(1 ? a.b : c)()" => "(0, a.b)()"
func (p *parser) visitCallTarget(target js_ast.Expr) js_ast.Expr {
	_, wasIf := target.Data.(*js_ast.EIf)
	target = p.visitExpr(target)
	if wasIf {
		switch t := target.Data.(type) {
		case *js_ast.EDot, *js_ast.EIndex:
			return js_ast.JoinWithComma(js_ast.MakeNumber(target.Loc, 0), target)
		case *js_ast.EIdentifier:
			if t.Name == "eval" {
				return js_ast.JoinWithComma(js_ast.MakeNumber(target.Loc, 0), target)
			}
		}
	}
	return target
}

// Long chains of binary operators such as "a + b + c + ..." are visited with
// an explicit stack so deeply nested trees don't overflow the call stack
func (p *parser) visitBinaryExpr(root *js_ast.EBinary) {
	stack := []*js_ast.EBinary{root}
	for {
		top := stack[len(stack)-1]
		left, ok := top.Left.Data.(*js_ast.EBinary)
		if !ok {
			break
		}
		stack = append(stack, left)
	}

	for i := len(stack) - 1; i >= 0; i-- {
		e := stack[i]
		if i == len(stack)-1 {
			e.Left = p.visitExpr(e.Left)
		}
		e.Right = p.visitExpr(e.Right)
	}
}
