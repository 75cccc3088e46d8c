package js_parser

import (
	"fmt"

	"github.com/jsprint/jsprint/internal/helpers"
	"github.com/jsprint/jsprint/internal/js_ast"
	"github.com/jsprint/jsprint/internal/js_lexer"
	"github.com/jsprint/jsprint/internal/logger"
)

func (p *parser) parseImportStmt(loc logger.Loc, opts stmtOpts) js_ast.Stmt {
	p.lexer.Next()

	// "import('a')" and "import.meta" start expressions
	if p.lexer.Token == js_lexer.TOpenParen || p.lexer.Token == js_lexer.TDot {
		expr := p.parseSuffix(loc, p.parseImportExpr(loc, js_ast.LLowest), js_ast.LLowest)
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExpr{Value: expr}}
	}

	if !opts.isModuleScope {
		p.lexer.Unexpected()
	}

	s := &js_ast.SImport{}
	switch p.lexer.Token {
	case js_lexer.TStringLiteral, js_lexer.TNoSubstitutionTemplateLiteral:
		// "import 'a'" has only a path

	case js_lexer.TAsterisk:
		s.StarNameOrNil = p.parseNamespaceName()
		p.lexer.ExpectContextualKeyword("from")

	case js_lexer.TOpenBrace:
		p.parseImportItems(s)
		p.lexer.ExpectContextualKeyword("from")

	case js_lexer.TIdentifier:
		// "import a from 'b'" may be followed by a namespace or a clause
		s.DefaultName = p.parseName()
		if p.eat(js_lexer.TComma) {
			switch p.lexer.Token {
			case js_lexer.TAsterisk:
				s.StarNameOrNil = p.parseNamespaceName()
			case js_lexer.TOpenBrace:
				p.parseImportItems(s)
			default:
				p.lexer.Unexpected()
			}
		}
		p.lexer.ExpectContextualKeyword("from")

	default:
		p.lexer.Unexpected()
	}

	s.PathLoc, s.Path = p.parsePath()
	p.lexer.ExpectOrInsertSemicolon()
	return js_ast.Stmt{Loc: loc, Data: s}
}

// parseNamespaceName parses "* as ns"
func (p *parser) parseNamespaceName() *js_ast.LocName {
	p.lexer.Next()
	p.lexer.ExpectContextualKeyword("as")
	return p.parseName()
}

func (p *parser) parseImportItems(s *js_ast.SImport) {
	items, isSingleLine := p.parseImportClause()
	s.Items = &items
	s.IsSingleLine = isSingleLine
}

// parseImportClause parses "{a, b as c}". The imported name comes first and
// may be a keyword or string, but then a local name has to follow "as".
func (p *parser) parseImportClause() ([]js_ast.ClauseItem, bool) {
	items := []js_ast.ClauseItem{}
	p.lexer.Expect(js_lexer.TOpenBrace)

	_, isSingleLine := p.commaList(js_lexer.TCloseBrace, func() {
		isIdentifier := p.lexer.Token == js_lexer.TIdentifier
		item := js_ast.ClauseItem{AliasLoc: p.lexer.Loc(), Alias: p.parseClauseAlias("import")}
		item.Name = js_ast.LocName{Loc: item.AliasLoc, Name: item.Alias}
		p.lexer.Next()

		if p.lexer.IsContextualKeyword("as") {
			p.lexer.Next()
			item.Name = *p.parseName()
		} else if !isIdentifier {
			p.lexer.ExpectedString("\"as\"")
		}
		items = append(items, item)
	})
	return items, isSingleLine
}

// parseExportClause parses "{a, b as c}". The local name comes first. It may
// only be a keyword or string in "export {...} from", which isn't known
// until after the closing brace.
func (p *parser) parseExportClause() ([]js_ast.ClauseItem, bool) {
	items := []js_ast.ClauseItem{}
	var firstNonIdentifier logger.Loc
	p.lexer.Expect(js_lexer.TOpenBrace)

	_, isSingleLine := p.commaList(js_lexer.TCloseBrace, func() {
		name := p.parseClauseAlias("export")
		item := js_ast.ClauseItem{
			Alias:    name,
			AliasLoc: p.lexer.Loc(),
			Name:     js_ast.LocName{Loc: p.lexer.Loc(), Name: name},
		}
		if p.lexer.Token != js_lexer.TIdentifier && firstNonIdentifier.Start == 0 {
			firstNonIdentifier = p.lexer.Loc()
		}
		p.lexer.Next()

		if p.lexer.IsContextualKeyword("as") {
			p.lexer.Next()
			item.Alias = p.parseClauseAlias("export")
			item.AliasLoc = p.lexer.Loc()
			p.lexer.Next()
		}
		items = append(items, item)
	})

	if firstNonIdentifier.Start != 0 && !p.lexer.IsContextualKeyword("from") {
		r := js_lexer.RangeOfIdentifier(p.source, firstNonIdentifier)
		p.log.AddRangeError(&p.source, r, fmt.Sprintf("Expected identifier but found %q", p.source.TextForRange(r)))
		panic(js_lexer.LexerPanic{})
	}
	return items, isSingleLine
}

// parseClauseAlias parses a name in an import or export clause. It may be a
// keyword or a string, which must be valid UTF-16 to name anything.
func (p *parser) parseClauseAlias(kind string) string {
	if p.lexer.Token != js_lexer.TStringLiteral {
		if !p.lexer.IsIdentifierOrKeyword() {
			p.lexer.Expect(js_lexer.TIdentifier)
		}
		return p.lexer.Identifier
	}

	alias, problem, ok := helpers.UTF16ToStringWithValidation(p.lexer.StringLiteral)
	if !ok {
		r := p.source.RangeOfString(p.lexer.Loc())
		p.log.AddRangeError(&p.source, r,
			fmt.Sprintf("This %s alias is invalid because it contains the unpaired Unicode surrogate %s", kind, problem))
	}
	return alias
}

func (p *parser) parsePath() (logger.Loc, string) {
	loc := p.lexer.Loc()
	path := helpers.UTF16ToString(p.lexer.StringLiteral)
	if !p.eat(js_lexer.TNoSubstitutionTemplateLiteral) {
		p.lexer.Expect(js_lexer.TStringLiteral)
	}
	return loc, path
}

// parseExportStmt parses everything that starts with "export". Exported
// declarations are parsed as their own statements with IsExport set.
func (p *parser) parseExportStmt(loc logger.Loc, opts stmtOpts) js_ast.Stmt {
	if !opts.isModuleScope {
		p.lexer.Unexpected()
	}
	p.lexer.Next()
	opts.isExport = true

	switch p.lexer.Token {
	case js_lexer.TClass, js_lexer.TConst, js_lexer.TFunction, js_lexer.TVar:
		return p.parseStmt(opts)

	case js_lexer.TIdentifier:
		if p.lexer.IsContextualKeyword("let") {
			return p.parseStmt(opts)
		}
		if p.lexer.IsContextualKeyword("async") {
			p.lexer.Next()
			if p.lexer.HasNewlineBefore {
				p.log.AddError(&p.source, p.lexer.Loc(), "Unexpected newline after \"async\"")
				panic(js_lexer.LexerPanic{})
			}
			p.lexer.Expect(js_lexer.TFunction)
			return p.parseFnStmt(loc, opts, true)
		}

	case js_lexer.TDefault:
		defaultLoc := p.lexer.Loc()
		p.lexer.Next()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportDefault{DefaultLoc: defaultLoc, Value: p.parseExportDefaultValue()}}

	case js_lexer.TAsterisk:
		return p.parseExportStar(loc)

	case js_lexer.TOpenBrace:
		items, isSingleLine := p.parseExportClause()
		if p.lexer.IsContextualKeyword("from") {
			p.lexer.Next()
			s := &js_ast.SExportFrom{Items: items, IsSingleLine: isSingleLine}
			s.PathLoc, s.Path = p.parsePath()
			p.lexer.ExpectOrInsertSemicolon()
			return js_ast.Stmt{Loc: loc, Data: s}
		}
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportClause{Items: items, IsSingleLine: isSingleLine}}
	}

	p.lexer.Unexpected()
	return js_ast.Stmt{}
}

// parseExportDefaultValue parses what follows "export default". Functions
// and classes stay declarations, whose names are optional there.
func (p *parser) parseExportDefaultValue() js_ast.Stmt {
	declOpts := stmtOpts{isNameOptional: true}
	var expr js_ast.Expr

	switch {
	case p.lexer.Token == js_lexer.TFunction || p.lexer.Token == js_lexer.TClass:
		return p.parseStmt(declOpts)

	case p.lexer.IsContextualKeyword("async"):
		asyncRange := p.lexer.Range()
		p.lexer.Next()
		if p.lexer.Token == js_lexer.TFunction && !p.lexer.HasNewlineBefore {
			p.lexer.Next()
			return p.parseFnStmt(asyncRange.Loc, declOpts, true)
		}
		expr = p.parseSuffix(asyncRange.Loc, p.parseAsyncPrefixExpr(asyncRange, js_ast.LComma), js_ast.LComma)

	default:
		expr = p.parseExpr(js_ast.LComma)
	}

	p.lexer.ExpectOrInsertSemicolon()
	return js_ast.Stmt{Loc: expr.Loc, Data: &js_ast.SExpr{Value: expr}}
}

// parseExportStar parses "export * from 'a'" and "export * as b from 'a'"
func (p *parser) parseExportStar(loc logger.Loc) js_ast.Stmt {
	p.lexer.Next()
	s := &js_ast.SExportStar{}
	if p.lexer.IsContextualKeyword("as") {
		p.lexer.Next()
		name := p.parseClauseAlias("export")
		s.AliasOrNil = &js_ast.ExportStarAlias{Loc: p.lexer.Loc(), Name: name}
		p.lexer.Next()
	}
	p.lexer.ExpectContextualKeyword("from")
	s.PathLoc, s.Path = p.parsePath()
	p.lexer.ExpectOrInsertSemicolon()
	return js_ast.Stmt{Loc: loc, Data: s}
}
