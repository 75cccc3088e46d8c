package js_printer

import (
	"unicode/utf8"

	"github.com/jsprint/jsprint/internal/js_ast"
	"github.com/jsprint/jsprint/internal/js_lexer"
	"github.com/jsprint/jsprint/internal/logger"
	"github.com/jsprint/jsprint/internal/sourcemap"
)

// printer holds everything a single call to Print writes to. None of it is
// shared, which is what lets one tree be printed from many goroutines.
type printer struct {
	source  logger.Source
	options Options
	tracker sourcemap.Tracker
	js      []byte
	indent  int

	// Annotations waiting for the node that starts at their key offset
	annotations map[int32]js_ast.CommentKind

	legalComments      []legalComment
	legalCommentsByLoc map[int32][]int

	binaryStack []binaryFrame

	// Output offsets where a construct begins. Something printed exactly
	// there may read differently than intended and gets parenthesized.
	stmtStart          int
	exportDefaultStart int
	arrowBodyStart     int
	forInitStart       int

	// Output offsets just past tokens that could fuse with the next one
	prevOp        js_ast.OpCode
	prevOpEnd     int
	prevNumEnd    int
	prevRegExpEnd int

	needsSemicolon bool

	// Cleared by the first statement of a body that isn't a directive
	inDirectivePrologue bool

	// An annotation taken from "const f = ..." that goes before the value
	pendingNoSideEffects bool
}

func (p *printer) str(text string) {
	p.js = append(p.js, text...)
}

func (p *printer) char(c byte) {
	p.js = append(p.js, c)
}

func (p *printer) softSpace() {
	if !p.options.MinifyWhitespace {
		p.char(' ')
	}
}

func (p *printer) softNewline() {
	if !p.options.MinifyWhitespace {
		p.char('\n')
	}
}

func (p *printer) printIndent() {
	if p.options.MinifyWhitespace {
		return
	}
	for i := 0; i < p.indent; i++ {
		p.str("  ")
	}
}

func (p *printer) indented(body func()) {
	p.indent++
	body()
	p.indent--
}

// wrap surrounds whatever body prints with parentheses when cond is true
func (p *printer) wrap(cond bool, body func()) {
	if cond {
		p.char('(')
	}
	body()
	if cond {
		p.char(')')
	}
}

func (p *printer) keyword(word string) {
	p.spaceBeforeIdentifier()
	p.str(word)
}

// spaceBeforeIdentifier keeps a word from running into the word, number, or
// regular expression flags written before it
func (p *printer) spaceBeforeIdentifier() {
	n := len(p.js)
	if n == 0 {
		return
	}
	last := p.js[n-1]
	if n == p.prevRegExpEnd || last >= utf8.RuneSelf || js_ast.IsIdentifierContinue(rune(last)) {
		p.char(' ')
	}
}

// operatorsFuse reports whether "next" written directly after "prev" would
// read back as different tokens. "before" is the byte in front of "prev".
//
//	"a+ +b" not "a++b"
//	"a- --b" not "a---b"
//	"a-- >b" not "a-->b", which is an HTML comment
//	"a<! --b" not "a<!--b", which is one too
func operatorsFuse(prev js_ast.OpCode, next js_ast.OpCode, before byte) bool {
	switch prev {
	case js_ast.BinOpAdd, js_ast.UnOpPos:
		return next == js_ast.BinOpAdd || next == js_ast.UnOpPos || next == js_ast.UnOpPreInc
	case js_ast.BinOpSub, js_ast.UnOpNeg:
		return next == js_ast.BinOpSub || next == js_ast.UnOpNeg || next == js_ast.UnOpPreDec
	case js_ast.UnOpPostDec:
		return next == js_ast.BinOpGt
	case js_ast.UnOpNot:
		return next == js_ast.UnOpPreDec && before == '<'
	}
	return false
}

func (p *printer) spaceBeforeOperator(next js_ast.OpCode) {
	n := len(p.js)
	if p.prevOpEnd != n {
		return
	}
	var before byte
	if n > 1 {
		before = p.js[n-2]
	}
	if operatorsFuse(p.prevOp, next, before) {
		p.char(' ')
	}
}

// operator writes an operator token. Word operators get the same spacing
// as identifiers. Punctuation is remembered so the next operator can avoid
// fusing with it.
func (p *printer) operator(op js_ast.OpCode) {
	if op.IsKeyword() {
		p.keyword(op.Text())
		return
	}
	p.spaceBeforeOperator(op)
	p.str(op.Text())
	p.prevOp = op
	p.prevOpEnd = len(p.js)
}

// Minified output leaves the semicolon off until the next statement shows
// up, so the last one before a "}" is never written
func (p *printer) semicolonAfterStatement() {
	if p.options.MinifyWhitespace {
		p.needsSemicolon = true
		return
	}
	p.str(";\n")
}

func (p *printer) semicolonIfNeeded() {
	if p.needsSemicolon {
		p.char(';')
		p.needsSemicolon = false
	}
}

func (p *printer) mapLoc(loc logger.Loc) {
	if p.options.AddSourceMappings {
		p.tracker.AddRecord(loc, "", p.js)
	}
}

// mapName also records the name as written in the source when it differs
// from the printed one, as with an identifier spelled using escapes
func (p *printer) mapName(loc logger.Loc, name string) {
	if !p.options.AddSourceMappings {
		return
	}
	var original string
	if loc.Start >= 0 && int(loc.Start) < len(p.source.Contents) {
		text := p.source.TextForRange(js_lexer.RangeOfIdentifier(p.source, loc))
		if text != name {
			original = text
		}
	}
	p.tracker.AddRecord(loc, original, p.js)
}

// Statement-level positions where a leading "function", "class", or "{"
// would start a declaration or block instead of an expression
func (p *printer) atDeclarationStart() bool {
	n := len(p.js)
	return n == p.stmtStart || n == p.exportDefaultStart
}

func (p *printer) atBlockStart() bool {
	n := len(p.js)
	return n == p.stmtStart || n == p.arrowBodyStart
}

type Options struct {
	// The source file name recorded in the source map. Defaults to the pretty
	// path of the source.
	SourceFilename string

	// Initial indentation level in units of two spaces
	Indent int

	MinifyWhitespace bool
	MinifySyntax     bool
	ASCIIOnly        bool

	// Record a source position for every printed token start
	AddSourceMappings bool

	// Keep "/* @__PURE__ */" and "/* @__NO_SIDE_EFFECTS__ */" annotations
	PreserveAnnotateComments bool
}

type PrintResult struct {
	JS []byte

	// These are empty unless "AddSourceMappings" is enabled. Use
	// sourcemap.Build to turn them into a source map.
	Mappings []sourcemap.Record

	// The source these mappings refer to, renamed to "SourceFilename" if one
	// was given
	Source logger.Source
}

// Print turns a syntax tree back into JavaScript. The tree is not modified,
// so many prints of the same tree may run at the same time. A malformed tree
// is a programming error and causes a panic.
func Print(tree js_ast.AST, source logger.Source, options Options) PrintResult {
	p := &printer{
		source:              source,
		options:             options,
		tracker:             sourcemap.MakeTracker(),
		indent:              options.Indent,
		stmtStart:           -1,
		exportDefaultStart:  -1,
		arrowBodyStart:      -1,
		forInitStart:        -1,
		prevOpEnd:           -1,
		prevNumEnd:          -1,
		prevRegExpEnd:       -1,
		inDirectivePrologue: true,
	}
	p.collectComments(tree.Comments)

	if tree.Hashbang != "" {
		p.mapLoc(logger.Loc{Start: 0})
		p.str(tree.Hashbang)
		p.char('\n')
	}

	for _, stmt := range tree.Stmts {
		p.genStmt(stmt)
		p.semicolonIfNeeded()
	}
	p.printRemainingLegalComments()

	if options.SourceFilename != "" {
		source.PrettyPath = options.SourceFilename
	}
	return PrintResult{
		JS:       p.js,
		Mappings: p.tracker.Records(),
		Source:   source,
	}
}
