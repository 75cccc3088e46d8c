package js_lexer

import (
	"math"
	"testing"

	"github.com/jsprint/jsprint/internal/helpers"
	"github.com/jsprint/jsprint/internal/js_ast"
	"github.com/jsprint/jsprint/internal/logger"
	"github.com/jsprint/jsprint/internal/test"
)

func lexWithRecover(log logger.Log, contents string) (lexer Lexer) {
	defer func() {
		r := recover()
		if _, isLexerPanic := r.(LexerPanic); r != nil && !isLexerPanic {
			panic(r)
		}
	}()
	lexer = NewLexer(log, test.SourceForTest(contents))
	return
}

func msgsToString(msgs []logger.Msg) string {
	text := ""
	for _, msg := range msgs {
		text += msg.String(logger.StderrOptions{}, logger.TerminalInfo{})
	}
	return text
}

func expectLexerError(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log := logger.NewDeferLog()
		lexWithRecover(log, contents)
		test.AssertEqual(t, msgsToString(log.Done()), expected)
	})
}

func expectToken(t *testing.T, contents string, token T, check func(lexer Lexer)) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log := logger.NewDeferLog()
		lexer := lexWithRecover(log, contents)
		test.AssertEqual(t, msgsToString(log.Done()), "")
		test.AssertEqual(t, lexer.Token, token)
		check(lexer)
	})
}

func TestComment(t *testing.T) {
	expectLexerError(t, "/*", "<stdin>: error: Expected \"*/\" to terminate multi-line comment\n")
	expectLexerError(t, "/*/", "<stdin>: error: Expected \"*/\" to terminate multi-line comment\n")
	expectLexerError(t, "/**/", "")
	expectLexerError(t, "//", "")
}

func TestCommentKinds(t *testing.T) {
	log := logger.NewDeferLog()
	lexer := NewLexer(log, test.SourceForTest("/* @__PURE__ */ a /*! legal */ // plain\n/* #__NO_SIDE_EFFECTS__ */ b /** @license MIT */"))
	test.AssertEqual(t, lexer.HasPureCommentBefore, true)
	for lexer.Token != TEndOfFile {
		lexer.Next()
	}

	kinds := []js_ast.CommentKind{}
	for _, comment := range lexer.Comments {
		kinds = append(kinds, comment.Kind)
	}
	test.AssertEqual(t, kinds, []js_ast.CommentKind{
		js_ast.CommentAnnotatePure,
		js_ast.CommentLegal,
		js_ast.CommentLine,
		js_ast.CommentAnnotateNoSideEffects,
		js_ast.CommentLegal,
	})
	test.AssertEqual(t, lexer.Comments[1].Text, "/*! legal */")
	test.AssertEqual(t, lexer.Comments[1].Range, logger.Range{Loc: logger.Loc{Start: 18}, Len: 12})
}

func TestPureCommentWordBoundary(t *testing.T) {
	test.AssertEqual(t, classifyComment(js_ast.CommentBlock, "/* @__PURE__ */"), js_ast.CommentAnnotatePure)
	test.AssertEqual(t, classifyComment(js_ast.CommentBlock, "/* #__PURE__*/"), js_ast.CommentAnnotatePure)
	test.AssertEqual(t, classifyComment(js_ast.CommentBlock, "/* @__PURE__x */"), js_ast.CommentBlock)
	test.AssertEqual(t, classifyComment(js_ast.CommentLine, "// @preserve"), js_ast.CommentLegal)
	test.AssertEqual(t, classifyComment(js_ast.CommentLine, "// #preserve"), js_ast.CommentLine)
}

func TestNextTokenLoc(t *testing.T) {
	contents := "/* a */ \n // b\n /* c */ foo"
	test.AssertEqual(t, NextTokenLoc(contents, 7), logger.Loc{Start: 24})
	test.AssertEqual(t, NextTokenLoc(contents, 24), logger.Loc{Start: 24})
	test.AssertEqual(t, NextTokenLoc("x /* a */", 1), logger.Loc{Start: 9})
}

func TestHashbang(t *testing.T) {
	check := func(expected string) func(Lexer) {
		return func(lexer Lexer) { test.AssertEqual(t, lexer.Identifier, expected) }
	}
	expectToken(t, "#!/usr/bin/env node", THashbang, check("#!/usr/bin/env node"))
	expectToken(t, "#!/usr/bin/env node\n", THashbang, check("#!/usr/bin/env node"))
	expectToken(t, "#!/usr/bin/env node\nlet x", THashbang, check("#!/usr/bin/env node"))
	expectLexerError(t, " #!/usr/bin/env node", "<stdin>: error: Syntax error \"!\"\n")
}

func TestIdentifier(t *testing.T) {
	check := func(expected string) func(Lexer) {
		return func(lexer Lexer) { test.AssertEqual(t, lexer.Identifier, expected) }
	}
	expectToken(t, "_", TIdentifier, check("_"))
	expectToken(t, "$", TIdentifier, check("$"))
	expectToken(t, "test", TIdentifier, check("test"))
	expectToken(t, "t\\u0065st", TIdentifier, check("test"))
	expectToken(t, "t\\u{65}st", TIdentifier, check("test"))
	expectToken(t, "a\u200C", TIdentifier, check("a\u200C"))
	expectToken(t, "\\u0076ar", TEscapedKeyword, check("var"))

	expectLexerError(t, "t\\u.", "<stdin>: error: Syntax error \".\"\n")
	expectLexerError(t, "t\\u0.", "<stdin>: error: Syntax error \".\"\n")
	expectLexerError(t, "t\\u{.", "<stdin>: error: Syntax error \".\"\n")
}

func expectNumber(t *testing.T, contents string, expected float64) {
	t.Helper()
	expectToken(t, contents, TNumericLiteral, func(lexer Lexer) {
		test.AssertEqual(t, lexer.Number, expected)
	})
}

func TestNumericLiteral(t *testing.T) {
	expectNumber(t, "0", 0.0)
	expectNumber(t, "000", 0.0)
	expectNumber(t, "010", 8.0)
	expectNumber(t, "123", 123.0)
	expectNumber(t, "0123", 83.0)
	expectNumber(t, "0123.4567", 83.0)
	expectNumber(t, "0987", 987.0)
	expectNumber(t, "0987.6543", 987.6543)
	expectNumber(t, "01289", 1289.0)
	expectNumber(t, "999999999", 999999999.0)
	expectNumber(t, "9999999999", 9999999999.0)
	expectNumber(t, "123456789123456789", 123456789123456780.0)

	expectNumber(t, "0b00101", 5.0)
	expectNumber(t, "0B00101", 5.0)
	expectLexerError(t, "0b", "<stdin>: error: Unexpected end of file\n")
	expectLexerError(t, "0b012", "<stdin>: error: Syntax error \"2\"\n")
	expectLexerError(t, "0b01a", "<stdin>: error: Syntax error \"a\"\n")

	expectNumber(t, "0o12345", 5349.0)
	expectLexerError(t, "0o018", "<stdin>: error: Syntax error \"8\"\n")

	expectNumber(t, "0x12345678", float64(0x12345678))
	expectNumber(t, "0xFEDCBA987", float64(0xFEDCBA987))
	expectLexerError(t, "0x", "<stdin>: error: Unexpected end of file\n")
	expectLexerError(t, "0xGFEDCBA", "<stdin>: error: Syntax error \"G\"\n")
	expectLexerError(t, "0xABCDEFG", "<stdin>: error: Syntax error \"G\"\n")

	expectNumber(t, "123.", 123.0)
	expectNumber(t, ".0123", 0.0123)
	expectNumber(t, "2.2250738585072014e-308", 2.2250738585072014e-308)
	expectNumber(t, "5e-324", 5e-324)
	expectNumber(t, "1e-325", 0.0)
	expectNumber(t, "1e+309", math.Inf(1))

	expectNumber(t, "0xffff_ffff", 4294967295.0)
	expectNumber(t, "0x1_0000_0000", 4294967296.0)

	expectNumber(t, "1.e1", 10.0)
	expectNumber(t, ".1e-1", 0.01)
	expectNumber(t, "1.1e+1", 11.0)

	expectLexerError(t, "1e", "<stdin>: error: Unexpected end of file\n")
	expectLexerError(t, "1.e-", "<stdin>: error: Unexpected end of file\n")
	expectLexerError(t, "1e+-1", "<stdin>: error: Syntax error \"-\"\n")
	expectLexerError(t, "1z", "<stdin>: error: Syntax error \"z\"\n")
	expectLexerError(t, "1.0f", "<stdin>: error: Syntax error \"f\"\n")
	expectLexerError(t, "0x1z", "<stdin>: error: Syntax error \"z\"\n")

	expectNumber(t, "1_2_3", 123)
	expectNumber(t, ".1_2", 0.12)
	expectNumber(t, "1_2.3_4e5_6", 12.34e56)
	expectNumber(t, "0b1_0", 2)
	expectNumber(t, "0x1_2", 0x12)
	expectNumber(t, "08.0_1", 8.01)

	expectLexerError(t, "0_1", "<stdin>: error: Syntax error \"_\"\n")
	expectLexerError(t, "08_0", "<stdin>: error: Syntax error \"_\"\n")
	expectLexerError(t, "1__2", "<stdin>: error: Syntax error \"_\"\n")
	expectLexerError(t, "0x1__2", "<stdin>: error: Syntax error \"_\"\n")
	expectLexerError(t, "1_", "<stdin>: error: Syntax error \"_\"\n")
	expectLexerError(t, "1._", "<stdin>: error: Syntax error \"_\"\n")
	expectLexerError(t, "1_.", "<stdin>: error: Syntax error \"_\"\n")
	expectLexerError(t, "1_e1", "<stdin>: error: Syntax error \"_\"\n")
	expectLexerError(t, "0x_1", "<stdin>: error: Syntax error \"_\"\n")
	expectLexerError(t, "0x1_", "<stdin>: error: Syntax error \"_\"\n")
}

func TestNumericLiteralKeepsRawText(t *testing.T) {
	expectToken(t, "0x1_F", TNumericLiteral, func(lexer Lexer) {
		test.AssertEqual(t, lexer.Raw(), "0x1_F")
		test.AssertEqual(t, lexer.Number, 31.0)
	})
}

func expectBigInteger(t *testing.T, contents string, expected string) {
	t.Helper()
	expectToken(t, contents, TBigIntegerLiteral, func(lexer Lexer) {
		test.AssertEqual(t, lexer.Identifier, expected)
	})
}

func TestBigIntegerLiteral(t *testing.T) {
	expectBigInteger(t, "0n", "0")
	expectBigInteger(t, "123n", "123")
	expectBigInteger(t, "9007199254740993n", "9007199254740993")
	expectBigInteger(t, "0b00101n", "0b00101")
	expectBigInteger(t, "0o12345n", "0o12345")
	expectBigInteger(t, "0xFEDCBA987n", "0xFEDCBA987")
	expectBigInteger(t, "1_2_3n", "123")
	expectBigInteger(t, "0x1_2_3n", "0x123")

	expectLexerError(t, "1e2n", "<stdin>: error: Syntax error \"n\"\n")
	expectLexerError(t, ".1n", "<stdin>: error: Syntax error \"n\"\n")
	expectLexerError(t, "000n", "<stdin>: error: Syntax error \"n\"\n")
	expectLexerError(t, "089n", "<stdin>: error: Syntax error \"n\"\n")
	expectLexerError(t, "0_1n", "<stdin>: error: Syntax error \"_\"\n")
}

func expectString(t *testing.T, contents string, expected string) {
	t.Helper()
	expectToken(t, contents, TStringLiteral, func(lexer Lexer) {
		test.AssertEqual(t, helpers.UTF16ToString(lexer.StringLiteral), expected)
	})
}

func TestStringLiteral(t *testing.T) {
	expectString(t, "''", "")
	expectString(t, "'123'", "123")

	expectString(t, "'\"'", "\"")
	expectString(t, "'\\''", "'")
	expectString(t, "'\\\\'", "\\")
	expectString(t, "'\\a'", "a")
	expectString(t, "'\\b'", "\b")
	expectString(t, "'\\f'", "\f")
	expectString(t, "'\\n'", "\n")
	expectString(t, "'\\r'", "\r")
	expectString(t, "'\\t'", "\t")
	expectString(t, "'\\v'", "\v")

	expectString(t, "'\\0'", "\000")
	expectString(t, "'\\7'", "\007")
	expectString(t, "'\\007'", "\007")
	expectString(t, "'\\377'", "\u00FF")
	expectString(t, "'\\378'", "\0378")
	expectString(t, "'\\400'", "\0400")

	expectString(t, "'\\x00'", "\x00")
	expectString(t, "'\\X11'", "X11")
	expectString(t, "'\\x7F'", "\x7F")

	expectString(t, "'\\u0000'", "\u0000")
	expectString(t, "'\\ucafe\\uCAFE\\u7FFF'", "\uCAFE\uCAFE\u7FFF")
	expectString(t, "'\\uD800'", "\xED\xA0\x80")
	expectString(t, "'\\U0000'", "U0000")
	expectString(t, "'\\u{10FFFF}'", "\U0010FFFF")
	expectLexerError(t, "'\\u{110000}'", "<stdin>: error: Unicode escape sequence is out of range\n")
	expectLexerError(t, "'\\u{FFFFFFFF}'", "<stdin>: error: Unicode escape sequence is out of range\n")

	expectLexerError(t, "'\n'", "<stdin>: error: Unterminated string literal\n")
	expectLexerError(t, "\"\r\"", "<stdin>: error: Unterminated string literal\n")

	expectString(t, "'\u2028'", "\u2028")
	expectString(t, "'1\\\r2'", "12")
	expectString(t, "'1\\\n2'", "12")
	expectString(t, "'1\\\r\n2'", "12")
	expectString(t, "'1\\\u20282'", "12")
	expectLexerError(t, "'1\\\n\r2'", "<stdin>: error: Unterminated string literal\n")

	expectLexerError(t, "\"'", "<stdin>: error: Unexpected end of file\n")
	expectLexerError(t, "'\\x'", "<stdin>: error: Syntax error \"'\"\n")
	expectLexerError(t, "'\\xG'", "<stdin>: error: Syntax error \"G\"\n")
	expectLexerError(t, "'\\xF'", "<stdin>: error: Syntax error \"'\"\n")
	expectLexerError(t, "'\\u00'", "<stdin>: error: Syntax error \"'\"\n")
}

func TestTemplateLiteral(t *testing.T) {
	log := logger.NewDeferLog()
	lexer := NewLexer(log, test.SourceForTest("`a${b}c\r\nd`"))
	test.AssertEqual(t, lexer.Token, TTemplateHead)
	test.AssertEqual(t, helpers.UTF16ToString(lexer.StringLiteral), "a")
	lexer.Next()
	test.AssertEqual(t, lexer.Token, TIdentifier)
	lexer.Next()
	lexer.RescanCloseBraceAsTemplateToken()
	test.AssertEqual(t, lexer.Token, TTemplateTail)
	test.AssertEqual(t, helpers.UTF16ToString(lexer.StringLiteral), "c\nd")
	test.AssertEqual(t, lexer.RawTemplateContents(), "c\nd")
	lexer.Next()
	test.AssertEqual(t, lexer.Token, TEndOfFile)
}

func TestRegExp(t *testing.T) {
	log := logger.NewDeferLog()
	lexer := NewLexer(log, test.SourceForTest("/[/]+\\//dgimsuy.x"))
	test.AssertEqual(t, lexer.Token, TSlash)
	lexer.ScanRegExp()
	test.AssertEqual(t, lexer.Raw(), "/[/]+\\//dgimsuy")
	lexer.Next()
	test.AssertEqual(t, lexer.Token, TDot)

	expectRegExpError := func(contents string, expected string) {
		t.Helper()
		log := logger.NewDeferLog()
		func() {
			defer func() {
				if _, ok := recover().(LexerPanic); !ok {
					t.Fatal("expected a lexer panic")
				}
			}()
			lexer := NewLexer(log, test.SourceForTest(contents))
			lexer.ScanRegExp()
		}()
		test.AssertEqual(t, msgsToString(log.Done()), expected)
	}
	expectRegExpError("/a/gg", "<stdin>: error: Invalid regular expression flag 'g'\n")
	expectRegExpError("/a\n/", "<stdin>: error: Syntax error \"\\x0A\"\n")
}

func TestOptionalChainDisambiguation(t *testing.T) {
	log := logger.NewDeferLog()
	lexer := NewLexer(log, test.SourceForTest("a?.1:b?.c"))
	tokens := []T{}
	for lexer.Token != TEndOfFile {
		tokens = append(tokens, lexer.Token)
		lexer.Next()
	}
	test.AssertEqual(t, tokens, []T{TIdentifier, TQuestion, TNumericLiteral, TColon, TIdentifier, TQuestionDot, TIdentifier})
}

func TestTokens(t *testing.T) {
	expected := []struct {
		contents string
		token    T
	}{
		{"", TEndOfFile},
		{"\x00", TSyntaxError},
		{"#!", THashbang},
		{"#foo", TPrivateIdentifier},

		{"(", TOpenParen},
		{"...", TDotDotDot},
		{">>>=", TGreaterThanGreaterThanGreaterThanEquals},
		{">>>", TGreaterThanGreaterThanGreaterThan},
		{"??=", TQuestionQuestionEquals},
		{"?.", TQuestionDot},
		{"=>", TEqualsGreaterThan},
		{"**=", TAsteriskAsteriskEquals},
		{"/=", TSlashEquals},

		{"break", TBreak},
		{"class", TClass},
		{"instanceof", TInstanceof},
		{"with", TWith},
		{"let", TIdentifier},
	}

	for _, it := range expected {
		contents := it.contents
		token := it.token
		t.Run(contents, func(t *testing.T) {
			log := logger.NewDeferLog()
			lexer := NewLexer(log, test.SourceForTest(contents))
			test.AssertEqual(t, lexer.Token, token)
		})
	}
}

func TestLegacyHTMLComments(t *testing.T) {
	log := logger.NewDeferLog()
	lexer := NewLexer(log, test.SourceForTest("a\n--> ignored\nb <!-- ignored\nc"))
	names := []string{}
	for lexer.Token != TEndOfFile {
		names = append(names, lexer.Identifier)
		lexer.Next()
	}
	test.AssertEqual(t, names, []string{"a", "b", "c"})
	test.AssertEqual(t, len(log.Done()), 2)
}
