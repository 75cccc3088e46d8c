package js_parser

import (
	"github.com/jsprint/jsprint/internal/js_ast"
	"github.com/jsprint/jsprint/internal/js_lexer"
	"github.com/jsprint/jsprint/internal/logger"
)

// The parser makes up to two passes over a file:
//
//  1. Recursive descent turns the tokens into an AST. Names stay plain
//     strings because the tree is only printed back out, so there is no
//     scope tracking or symbol table.
//
//  2. With MinifySyntax, a visitor rewrites the tree into a smaller
//     equivalent one (see "js_parser_mangle.go").
//
// Only the early errors that would leave a tree that can't be printed as
// equivalent code are reported. The rest of the language's early errors
// are the engine's business.

type Options struct {
	MinifySyntax bool
}

type parser struct {
	options Options
	log     logger.Log
	source  logger.Source
	lexer   js_lexer.Lexer

	// False in the head of a "for" loop, where "in" starts a for-in loop
	allowIn bool

	fn fnContext

	// Where the block body of the latest arrow function ended. Only a comma
	// may follow it: "() => {}, a" is fine but "() => {} + a" is not.
	afterArrowBodyLoc logger.Loc

	// "undefined" can't become "void 0" in a file that declares it
	declaresUndefined bool
}

// keywordUse says what "await" or "yield" means where it appears
type keywordUse uint8

const (
	// An ordinary name
	keywordIsName keywordUse = iota

	// An operator, which also rules it out as a declared name
	keywordIsOperator

	// Neither, like "await" in the parameters of an async function
	keywordForbidden
)

// fnContext holds what depends on the innermost enclosing function. Each
// function, arrow, and class body swaps in its own while it is parsed.
type fnContext struct {
	await         keywordUse
	yield         keywordUse
	forbidsReturn bool
}

func fnFor(isAsync bool, isGenerator bool) fnContext {
	var fn fnContext
	if isAsync {
		fn.await = keywordIsOperator
	}
	if isGenerator {
		fn.yield = keywordIsOperator
	}
	return fn
}

type stmtsKind uint8

const (
	stmtsNormal stmtsKind = iota
	stmtsSwitch
	stmtsFnBody
)

func withAllowIn[T any](p *parser, parse func() T) T {
	outer := p.allowIn
	p.allowIn = true
	result := parse()
	p.allowIn = outer
	return result
}

func withFn[T any](p *parser, fn fnContext, parse func() T) T {
	outer := p.fn
	p.fn = fn
	result := parse()
	p.fn = outer
	return result
}

// eat skips the current token if it is the given one
func (p *parser) eat(token js_lexer.T) bool {
	if p.lexer.Token != token {
		return false
	}
	p.lexer.Next()
	return true
}

// commaList parses the items of a list whose opening bracket was just
// consumed, followed by the closing bracket. "in" is an operator anywhere
// inside brackets.
func (p *parser) commaList(close js_lexer.T, item func()) (closeLoc logger.Loc, isSingleLine bool) {
	outerAllowIn := p.allowIn
	p.allowIn = true

	isSingleLine = true
	checkLine := func() {
		if p.lexer.HasNewlineBefore {
			isSingleLine = false
		}
	}

	checkLine()
	for p.lexer.Token != close {
		item()
		if p.lexer.Token != js_lexer.TComma {
			break
		}
		checkLine()
		p.lexer.Next()
		checkLine()
	}
	checkLine()

	closeLoc = p.lexer.Loc()
	p.lexer.Expect(close)
	p.allowIn = outerAllowIn
	return
}

func (p *parser) parseName() *js_ast.LocName {
	name := &js_ast.LocName{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
	p.lexer.Expect(js_lexer.TIdentifier)
	return name
}

func (p *parser) newBIdentifier(name string) *js_ast.BIdentifier {
	if name == "undefined" {
		p.declaresUndefined = true
	}
	return &js_ast.BIdentifier{Name: name}
}

func Parse(log logger.Log, source logger.Source, options Options) (result js_ast.AST, ok bool) {
	defer func() {
		r := recover()
		if _, isLexerPanic := r.(js_lexer.LexerPanic); isLexerPanic {
			ok = false
		} else if r != nil {
			panic(r)
		}
	}()

	p := &parser{
		options: options,
		log:     log,
		source:  source,
		lexer:   js_lexer.NewLexer(log, source),
		allowIn: true,

		// Modules allow "await" at the top level
		fn: fnContext{await: keywordIsOperator},
	}

	if p.lexer.Token == js_lexer.THashbang {
		result.Hashbang = p.lexer.Identifier
		p.lexer.Next()
	}

	stmts := p.parseStmtsUpTo(js_lexer.TEndOfFile, stmtsNormal, stmtOpts{isModuleScope: true})
	if p.options.MinifySyntax {
		stmts = p.visitStmts(stmts, stmtsNormal)
	}

	result.Stmts = stmts
	result.Comments = p.lexer.Comments
	result.ApproximateLineCount = int32(p.lexer.ApproximateNewlineCount) + 1
	return result, true
}
