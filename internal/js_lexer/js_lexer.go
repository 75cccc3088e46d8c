package js_lexer

// The lexer converts a source file to a stream of tokens. It is not run to
// completion before the parser starts. The parser calls it repeatedly instead,
// because some tokens depend on parser context. A "/" may begin a regular
// expression or be a division operator, and a "}" may end a block or
// continue a template literal.
//
// Identifiers are stored as UTF-8 slices of the input. String values are
// stored as UTF-16 so that lone surrogates survive the round trip.
//
// Every comment is recorded in "Comments" in source order. The printer
// decides which ones to keep.

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jsprint/jsprint/internal/js_ast"
	"github.com/jsprint/jsprint/internal/logger"
)

type Lexer struct {
	log    logger.Log
	source logger.Source

	// "codePoint" starts at "end" and the code point after it starts at
	// "current". The current token spans "start" to "end".
	codePoint rune
	start     int
	end       int
	current   int

	Token                T
	HasNewlineBefore     bool
	HasPureCommentBefore bool

	// Token values. Which one is set depends on the token kind.
	Identifier    string
	StringLiteral []uint16
	Number        float64

	Comments                []js_ast.Comment
	ApproximateNewlineCount int

	rescanCloseBraceAsTemplateToken bool
}

// LexerPanic unwinds the parser after an error has been logged. The parser
// recovers from it at the top level and returns the log.
type LexerPanic struct{}

func NewLexer(log logger.Log, source logger.Source) Lexer {
	lexer := Lexer{log: log, source: source}
	lexer.step()
	lexer.Next()
	return lexer
}

func (lexer *Lexer) Loc() logger.Loc {
	return logger.Loc{Start: int32(lexer.start)}
}

func (lexer *Lexer) Range() logger.Range {
	return logger.Range{Loc: lexer.Loc(), Len: int32(lexer.end - lexer.start)}
}

func (lexer *Lexer) Raw() string {
	return lexer.source.Contents[lexer.start:lexer.end]
}

// Every keyword token sorts after TIdentifier
func (lexer *Lexer) IsIdentifierOrKeyword() bool {
	return lexer.Token >= TIdentifier
}

func (lexer *Lexer) IsContextualKeyword(text string) bool {
	return lexer.Token == TIdentifier && lexer.Raw() == text
}

func (lexer *Lexer) ExpectContextualKeyword(text string) {
	if !lexer.IsContextualKeyword(text) {
		lexer.ExpectedString(fmt.Sprintf("%q", text))
	}
	lexer.Next()
}

func (lexer *Lexer) Expect(token T) {
	if lexer.Token != token {
		lexer.Expected(token)
	}
	lexer.Next()
}

// ExpectOrInsertSemicolon applies automatic semicolon insertion: a missing
// ";" is fine before a newline, a "}", or the end of the file.
func (lexer *Lexer) ExpectOrInsertSemicolon() {
	switch {
	case lexer.Token == TSemicolon:
		lexer.Next()
	case lexer.HasNewlineBefore, lexer.Token == TCloseBrace, lexer.Token == TEndOfFile:
	default:
		lexer.Expected(TSemicolon)
	}
}

func (lexer *Lexer) Expected(token T) {
	if token < tokenCount && tokenText[token] != "" {
		lexer.ExpectedString(tokenText[token])
		return
	}
	lexer.Unexpected()
}

func (lexer *Lexer) ExpectedString(text string) {
	lexer.fail(lexer.Range(), fmt.Sprintf("Expected %s but found %s", text, lexer.describeToken()))
}

func (lexer *Lexer) Unexpected() {
	lexer.fail(lexer.Range(), "Unexpected "+lexer.describeToken())
}

// SyntaxError reports the code point at "end", which is the one the lexer
// could not make sense of
func (lexer *Lexer) SyntaxError() {
	message := "Unexpected end of file"
	if rest := lexer.source.Contents[lexer.end:]; rest != "" {
		message = "Syntax error " + describeCodePoint(rest)
	}
	lexer.fail(logger.Range{Loc: logger.Loc{Start: int32(lexer.end)}}, message)
}

func (lexer *Lexer) describeToken() string {
	if lexer.start == len(lexer.source.Contents) {
		return "end of file"
	}
	return fmt.Sprintf("%q", lexer.Raw())
}

func describeCodePoint(text string) string {
	c, _ := utf8.DecodeRuneInString(text)
	switch {
	case c < 0x20:
		return fmt.Sprintf("\"\\x%02X\"", c)
	case c >= 0x80:
		return fmt.Sprintf("\"\\u{%x}\"", c)
	case c == '"':
		return "'\"'"
	}
	return fmt.Sprintf("\"%c\"", c)
}

// fail logs an error and unwinds to the parser
func (lexer *Lexer) fail(r logger.Range, text string) {
	lexer.log.AddRangeError(&lexer.source, r, text)
	panic(LexerPanic{})
}

// RangeOfIdentifier returns the range of the identifier or private name
// starting at "loc". Escapes are included but not checked.
func RangeOfIdentifier(source logger.Source, loc logger.Loc) logger.Range {
	text := source.Contents[loc.Start:]
	n := 0
	if strings.HasPrefix(text, "#") {
		n++
	}
	if c, _ := utf8.DecodeRuneInString(text[n:]); !js_ast.IsIdentifierStart(c) && c != '\\' {
		return logger.Range{Loc: loc, Len: int32(n)}
	}
	for n < len(text) {
		c, width := utf8.DecodeRuneInString(text[n:])
		if c != '\\' && !js_ast.IsIdentifierContinue(c) {
			break
		}
		n += width
	}
	return logger.Range{Loc: loc, Len: int32(n)}
}

func (lexer *Lexer) Next() {
	lexer.HasNewlineBefore = lexer.end == 0
	lexer.HasPureCommentBefore = false

	lexer.start = lexer.end
	for lexer.skipTrivia() {
		lexer.start = lexer.end
	}
	lexer.Token = lexer.scanToken()
}

// skipTrivia steps over one run of whitespace, one newline, or one comment.
// It returns false when the current code point begins a token.
func (lexer *Lexer) skipTrivia() bool {
	switch c := lexer.codePoint; {
	case js_ast.IsLineTerminator(c):
		lexer.HasNewlineBefore = true
		lexer.step()

	case js_ast.IsWhitespace(c):
		lexer.step()

	case c == '/' && lexer.peek(1) == '/':
		lexer.skipToEndOfLine()
		lexer.addComment(js_ast.CommentLine)

	case c == '/' && lexer.peek(1) == '*':
		lexer.step()
		lexer.step()
		lexer.scanMultiLineComment()
		lexer.addComment(js_ast.CommentBlock)

	default:
		opener := lexer.legacyHTMLCommentOpener()
		if opener == "" {
			return false
		}
		lexer.log.AddRangeWarning(&lexer.source, logger.Range{Loc: lexer.Loc(), Len: int32(len(opener))},
			fmt.Sprintf("Treating %q as the start of a legacy HTML single-line comment", opener))
		lexer.skipToEndOfLine()
	}
	return true
}

// "-->" only opens a comment at the start of a line
func (lexer *Lexer) legacyHTMLCommentOpener() string {
	rest := lexer.source.Contents[lexer.start:]
	switch {
	case lexer.codePoint == '<' && strings.HasPrefix(rest, "<!--"):
		return "<!--"
	case lexer.codePoint == '-' && lexer.HasNewlineBefore && strings.HasPrefix(rest, "-->"):
		return "-->"
	}
	return ""
}

// Every ASCII character that can begin a punctuator
const punctuatorStart = "()[]{},:;.@~?!%&|^+-*/=<>"

func (lexer *Lexer) scanToken() T {
	c := lexer.codePoint
	switch {
	case c == -1:
		return TEndOfFile

	case c == '#':
		return lexer.scanHashbangOrPrivateName()

	case c == '\'' || c == '"' || c == '`':
		return lexer.scanStringOrTemplate()

	case isDecimalDigit(c) || (c == '.' && isDecimalDigit(rune(lexer.peek(1)))):
		return lexer.scanNumber()

	case c == '?' && lexer.peek(1) == '.' && isDecimalDigit(rune(lexer.peek(2))):
		// "a?.5:b" is a conditional expression, not an optional chain
		lexer.step()
		return TQuestion

	case c == '\\' || js_ast.IsIdentifierStart(c):
		return lexer.scanIdentifierOrKeyword()

	case c < utf8.RuneSelf && strings.IndexByte(punctuatorStart, byte(c)) >= 0:
		return lexer.scanPunctuator()
	}

	// Let the parser report the unexpected character
	lexer.end = lexer.current
	return TSyntaxError
}

func (lexer *Lexer) scanPunctuator() T {
	rest := lexer.source.Contents[lexer.start:]
	for _, p := range punctuators {
		if strings.HasPrefix(rest, p.text) {
			for range p.text {
				lexer.step()
			}
			return p.token
		}
	}
	lexer.SyntaxError()
	return TSyntaxError
}

func (lexer *Lexer) scanIdentifierOrKeyword() T {
	for lexer.codePoint != '\\' && js_ast.IsIdentifierContinue(lexer.codePoint) {
		lexer.step()
	}
	if lexer.codePoint == '\\' {
		var token T
		lexer.Identifier, token = lexer.scanIdentifierWithEscapes(normalIdentifier)
		return token
	}
	lexer.Identifier = lexer.Raw()
	if token, ok := Keywords[lexer.Identifier]; ok {
		return token
	}
	return TIdentifier
}

func (lexer *Lexer) scanHashbangOrPrivateName() T {
	if lexer.start == 0 && strings.HasPrefix(lexer.source.Contents, "#!") {
		lexer.skipToEndOfLine()
		lexer.Identifier = lexer.Raw()
		return THashbang
	}

	// "#name"
	lexer.step()
	if !js_ast.IsIdentifierStart(lexer.codePoint) {
		lexer.SyntaxError()
	}
	for lexer.codePoint != '\\' && js_ast.IsIdentifierContinue(lexer.codePoint) {
		lexer.step()
	}
	if lexer.codePoint == '\\' {
		lexer.Identifier, _ = lexer.scanIdentifierWithEscapes(privateIdentifier)
	} else {
		lexer.Identifier = lexer.Raw()
	}
	return TPrivateIdentifier
}

func (lexer *Lexer) skipToEndOfLine() {
	for lexer.codePoint != -1 && !js_ast.IsLineTerminator(lexer.codePoint) {
		lexer.step()
	}
}

func (lexer *Lexer) scanMultiLineComment() {
	opener := lexer.start
	for {
		switch c := lexer.codePoint; {
		case c == -1:
			lexer.start = lexer.end
			lexer.fail(logger.Range{Loc: logger.Loc{Start: int32(opener)}, Len: 2},
				"Expected \"*/\" to terminate multi-line comment")

		case c == '*' && lexer.peek(1) == '/':
			lexer.step()
			lexer.step()
			return

		case js_ast.IsLineTerminator(c):
			lexer.HasNewlineBefore = true
		}
		lexer.step()
	}
}

// ScanRegExp is called by the parser when it sees a "/" or "/=" token in a
// position where an expression is expected. It extends the current token to
// cover the whole regular expression literal including its flags.
func (lexer *Lexer) ScanRegExp() {
	inClass := false
	for {
		switch c := lexer.codePoint; {
		case c == -1 || js_ast.IsLineTerminator(c):
			lexer.SyntaxError()

		case c == '\\':
			lexer.step()
			if lexer.codePoint == -1 || js_ast.IsLineTerminator(lexer.codePoint) {
				lexer.SyntaxError()
			}

		case c == '[':
			inClass = true

		case c == ']':
			inClass = false

		case c == '/' && !inClass:
			lexer.step()
			lexer.scanRegExpFlags()
			return
		}
		lexer.step()
	}
}

func (lexer *Lexer) scanRegExpFlags() {
	const validFlags = "dgimsuvy"
	var seen uint8
	for js_ast.IsIdentifierContinue(lexer.codePoint) {
		bit := strings.IndexRune(validFlags, lexer.codePoint)
		if bit < 0 || seen&(1<<bit) != 0 {
			lexer.fail(logger.Range{Loc: logger.Loc{Start: int32(lexer.end)}, Len: 1},
				fmt.Sprintf("Invalid regular expression flag %q", lexer.codePoint))
		}
		seen |= 1 << bit
		lexer.step()
	}
}

// RescanCloseBraceAsTemplateToken is called by the parser at the "}" that
// closes a template substitution. The "}" is re-read as the start of the
// next template piece.
func (lexer *Lexer) RescanCloseBraceAsTemplateToken() {
	if lexer.Token != TCloseBrace {
		lexer.Expected(TCloseBrace)
	}

	lexer.rescanCloseBraceAsTemplateToken = true
	defer func() { lexer.rescanCloseBraceAsTemplateToken = false }()

	// Pretend the "}" was a backtick
	lexer.codePoint = '`'
	lexer.current = lexer.end
	lexer.end--
	lexer.Next()
}

// peek returns the byte "offset" bytes after the start of the current code
// point, or 0 at the end of the input
func (lexer *Lexer) peek(offset int) byte {
	if i := lexer.end + offset; i < len(lexer.source.Contents) {
		return lexer.source.Contents[i]
	}
	return 0
}

func (lexer *Lexer) step() {
	codePoint, width := utf8.DecodeRuneInString(lexer.source.Contents[lexer.current:])
	if width == 0 {
		codePoint = -1
	} else if codePoint == '\n' {
		// Only "\n" is counted. This is a capacity hint for source maps.
		lexer.ApproximateNewlineCount++
	}

	lexer.codePoint = codePoint
	lexer.end = lexer.current
	lexer.current += width
}
