package js_lexer

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/jsprint/jsprint/internal/helpers"
	"github.com/jsprint/jsprint/internal/js_ast"
	"github.com/jsprint/jsprint/internal/logger"
)

// scanStringOrTemplate scans a quoted string or one piece of a template
// literal. A template piece starts at "`" or, when the parser rescans a
// "}", at the end of a substitution. It ends at "`" or at "${".
func (lexer *Lexer) scanStringOrTemplate() T {
	quote := lexer.codePoint
	isTemplate := quote == '`'
	lexer.step()

	opensSubstitution := false
	needsDecoding := false

scan:
	for {
		switch c := lexer.codePoint; {
		case c == quote:
			lexer.step()
			break scan

		case c == -1:
			lexer.SyntaxError()

		case c == '\\':
			needsDecoding = true
			lexer.step()

			// An escaped "\r\n" is one line continuation
			if lexer.codePoint == '\r' && lexer.peek(1) == '\n' {
				lexer.step()
			}

		case c == '\r' || c == '\n':
			if !isTemplate {
				lexer.fail(logger.Range{Loc: logger.Loc{Start: int32(lexer.end)}}, "Unterminated string literal")
			}
			if c == '\r' {
				needsDecoding = true
			}

		case c == '$' && isTemplate && lexer.peek(1) == '{':
			lexer.step()
			lexer.step()
			opensSubstitution = true
			break scan

		case c >= utf8.RuneSelf:
			needsDecoding = true
		}
		lexer.step()
	}

	suffixLen := 1
	if opensSubstitution {
		suffixLen = 2
	}
	text := lexer.source.Contents[lexer.start+1 : lexer.end-suffixLen]
	if needsDecoding {
		lexer.StringLiteral = lexer.decodeEscapeSequences(lexer.start+1, text)
	} else {
		lexer.StringLiteral = helpers.StringToUTF16(text)
	}

	resumesTemplate := lexer.rescanCloseBraceAsTemplateToken
	switch {
	case !isTemplate:
		return TStringLiteral
	case opensSubstitution && resumesTemplate:
		return TTemplateMiddle
	case opensSubstitution:
		return TTemplateHead
	case resumesTemplate:
		return TTemplateTail
	}
	return TNoSubstitutionTemplateLiteral
}

// RawTemplateContents returns the raw text of the current template token
// without its delimiters. Carriage returns are normalized to "\n" the same
// way they are for the cooked value.
func (lexer *Lexer) RawTemplateContents() string {
	raw := lexer.Raw()
	switch lexer.Token {
	case TNoSubstitutionTemplateLiteral, TTemplateTail:
		raw = raw[1 : len(raw)-1] // "`x`" or "}x`"
	case TTemplateHead, TTemplateMiddle:
		raw = raw[1 : len(raw)-2] // "`x${" or "}x${"
	default:
		return ""
	}
	if !strings.Contains(raw, "\r") {
		return raw
	}
	return strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(raw)
}

type identifierKind uint8

const (
	normalIdentifier identifierKind = iota
	privateIdentifier
)

// scanIdentifierWithEscapes finishes an identifier that contains at least
// one "\u" escape. Escaped reserved words come back as TEscapedKeyword: they
// work as property names ("a.if") but not as keywords.
func (lexer *Lexer) scanIdentifierWithEscapes(kind identifierKind) (string, T) {
	for {
		if lexer.codePoint == '\\' {
			lexer.skipUnicodeEscape()
		} else if js_ast.IsIdentifierContinue(lexer.codePoint) {
			lexer.step()
		} else {
			break
		}
	}

	text := helpers.UTF16ToString(lexer.decodeEscapeSequences(lexer.start, lexer.Raw()))
	name := text
	if kind == privateIdentifier {
		name = name[1:]
	}
	if !js_ast.IsIdentifier(name) {
		lexer.log.AddRangeError(&lexer.source, lexer.Range(), fmt.Sprintf("Invalid identifier: %q", text))
	}

	if _, ok := Keywords[text]; ok {
		return text, TEscapedKeyword
	}
	return text, TIdentifier
}

// skipUnicodeEscape checks the shape of "\uXXXX" or "\u{X...}" and steps
// over it. The value is checked when the escape is decoded.
func (lexer *Lexer) skipUnicodeEscape() {
	lexer.step()
	if lexer.codePoint != 'u' {
		lexer.SyntaxError()
	}
	lexer.step()

	braced := lexer.codePoint == '{'
	if braced {
		lexer.step()
	}
	for n := 0; ; n++ {
		if braced && lexer.codePoint == '}' {
			lexer.step()
			return
		}
		if !braced && n == 4 {
			return
		}
		if !isHexDigit(lexer.codePoint) {
			lexer.SyntaxError()
		}
		lexer.step()
	}
}

// decodeEscapeSequences returns the UTF-16 value of string or template text.
// "start" is the offset of "text" in the source, for error locations.
func (lexer *Lexer) decodeEscapeSequences(start int, text string) []uint16 {
	decoded := make([]uint16, 0, len(text))
	for i := 0; i < len(text); {
		c, width := utf8.DecodeRuneInString(text[i:])
		i += width

		switch c {
		case '\r':
			// A raw "\r\n" or "\r" in a template reads as "\n"
			if strings.HasPrefix(text[i:], "\n") {
				i++
			}
			c = '\n'

		case '\\':
			if c, i = lexer.decodeEscape(start, text, i); c < 0 {
				continue
			}
		}

		// Lone surrogates from "\uD800" pass through unpaired
		if c <= 0xFFFF {
			decoded = append(decoded, uint16(c))
		} else {
			r1, r2 := utf16.EncodeRune(c)
			decoded = append(decoded, uint16(r1), uint16(r2))
		}
	}
	return decoded
}

const (
	singleCharEscapes = "bfnrtv"
	singleCharValues  = "\b\f\n\r\t\v"
)

// decodeEscape decodes the escape whose backslash ends just before text[i].
// It returns the value and the offset after the escape, or -1 for a line
// continuation, which contributes nothing to the value.
func (lexer *Lexer) decodeEscape(start int, text string, i int) (rune, int) {
	c, width := utf8.DecodeRuneInString(text[i:])
	i += width

	if k := strings.IndexRune(singleCharEscapes, c); k >= 0 {
		return rune(singleCharValues[k]), i
	}

	switch c {
	case '0', '1', '2', '3', '4', '5', '6', '7':
		// Up to three octal digits, as long as the value fits in a byte
		value := c - '0'
		for j := 0; j < 2 && i < len(text) && text[i] >= '0' && text[i] <= '7'; j++ {
			next := value*8 + rune(text[i]-'0')
			if next > 0xFF {
				break
			}
			value = next
			i++
		}
		return value, i

	case 'x':
		return lexer.decodeHexDigits(start, text, i, 2)

	case 'u':
		if !strings.HasPrefix(text[i:], "{") {
			return lexer.decodeHexDigits(start, text, i, 4)
		}
		return lexer.decodeBracedCodePoint(start, text, i)

	case '\r':
		if strings.HasPrefix(text[i:], "\n") {
			i++
		}
		return -1, i

	case '\n', '\u2028', '\u2029':
		return -1, i
	}

	// Any other escaped character stands for itself
	return c, i
}

func (lexer *Lexer) decodeHexDigits(start int, text string, i int, count int) (rune, int) {
	value := rune(0)
	for j := 0; j < count; j++ {
		var d int
		if i < len(text) {
			d = digitOf(rune(text[i]))
		}
		if i == len(text) || d < 0 || d > 15 {
			lexer.end = start + i
			lexer.SyntaxError()
		}
		value = value<<4 | rune(d)
		i++
	}
	return value, i
}

// decodeBracedCodePoint decodes the "{X...}" of "\u{X...}" starting at the
// "{" at text[i]
func (lexer *Lexer) decodeBracedCodePoint(start int, text string, i int) (rune, int) {
	escapeStart := i - 2
	i++
	value := rune(0)
	for n := 0; ; n++ {
		if n > 0 && i < len(text) && text[i] == '}' {
			return value, i + 1
		}
		var digit rune
		digit, i = lexer.decodeHexDigits(start, text, i, 1)
		value = value<<4 | digit
		if value > utf8.MaxRune {
			lexer.fail(logger.Range{Loc: logger.Loc{Start: int32(start + escapeStart)}, Len: int32(i - escapeStart)},
				"Unicode escape sequence is out of range")
		}
	}
}
