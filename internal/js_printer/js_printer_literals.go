package js_printer

import (
	"bytes"
	"fmt"
	"math"
	"slices"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/jsprint/jsprint/internal/helpers"
	"github.com/jsprint/jsprint/internal/js_ast"
)

// Identifiers

func (p *printer) identifier(name string) {
	if !p.options.ASCIIOnly {
		p.str(name)
		return
	}
	for _, r := range name {
		if r < utf8.RuneSelf {
			p.char(byte(r))
		} else {
			p.unicodeEscape(r)
		}
	}
}

func (p *printer) identifierUTF16(name []uint16) {
	p.identifier(helpers.UTF16ToString(name))
}

func (p *printer) genName(name js_ast.LocName) {
	p.spaceBeforeIdentifier()
	p.mapName(name.Loc, name.Name)
	p.identifier(name.Name)
}

// clauseAlias writes an import or export name, which may be any string
func (p *printer) clauseAlias(alias string) {
	if !js_ast.IsIdentifier(alias) {
		p.quotedUTF16(helpers.StringToUTF16(alias), false)
		return
	}
	p.spaceBeforeIdentifier()
	p.identifier(alias)
}

// unicodeEscape uses the four digit form where it can because older
// engines don't support "\u{...}"
func (p *printer) unicodeEscape(r rune) {
	if r > 0xFFFF {
		p.js = fmt.Appendf(p.js, `\u{%X}`, r)
	} else {
		p.js = fmt.Appendf(p.js, `\u%04X`, r)
	}
}

func (p *printer) hexEscape(c uint16) {
	p.js = fmt.Appendf(p.js, `\x%02X`, c)
}

// Strings

// fixedEscape returns how a character is always written, or "" if that
// depends on its neighbors. Template literals hold newlines and tabs raw.
func fixedEscape(c uint16, quote byte) string {
	switch c {
	case '\b':
		return `\b`
	case '\f':
		return `\f`
	case '\r':
		return `\r`
	case '\v':
		return `\v`
	case '\\':
		return `\\`

	// Keep a terminal from beeping or changing color when the file is shown
	case '\x07':
		return `\x07`
	case '\x1B':
		return `\x1B`

	// Line terminators in strings, and an invisible byte order mark
	case '\u2028':
		return `\u2028`
	case '\u2029':
		return `\u2029`
	case '\uFEFF':
		return `\uFEFF`

	case '\n':
		if quote == '`' {
			return "\n"
		}
		return `\n`
	case '\t':
		if quote == '`' {
			return "\t"
		}
		return `\t`
	}
	return ""
}

func isDigitUnit(c uint16) bool {
	return c >= '0' && c <= '9'
}

// startsScriptTag reports whether the text begins with "script" in any case
func startsScriptTag(text []uint16) bool {
	const tag = "script"
	if len(text) < len(tag) {
		return false
	}
	for i := 0; i < len(tag); i++ {
		if text[i]|0x20 != uint16(tag[i]) {
			return false
		}
	}
	return true
}

// escapedUTF16 writes the body of a string literal delimited by quote
func (p *printer) escapedUTF16(text []uint16, quote byte) {
	for i := 0; i < len(text); i++ {
		c := text[i]
		if escape := fixedEscape(c, quote); escape != "" {
			p.str(escape)
			continue
		}

		switch {
		case c == 0:
			// "\0" followed by a digit would read as an octal escape
			if i+1 < len(text) && isDigitUnit(text[i+1]) {
				p.str(`\x00`)
			} else {
				p.str(`\0`)
			}

		case c == uint16(quote), c == '$' && quote == '`' && i+1 < len(text) && text[i+1] == '{':
			p.char('\\')
			p.char(byte(c))

		case c == '/' && i > 0 && text[i-1] == '<' && startsScriptTag(text[i+1:]):
			// Inline scripts end at "</script"
			p.str(`\/`)

		case c < 0x20:
			p.hexEscape(c)

		case c < 0x7F:
			p.char(byte(c))

		case utf16.IsSurrogate(rune(c)):
			if i+1 < len(text) {
				if r := utf16.DecodeRune(rune(c), rune(text[i+1])); r != utf8.RuneError {
					i++
					if p.options.ASCIIOnly {
						p.unicodeEscape(r)
					} else {
						p.js = utf8.AppendRune(p.js, r)
					}
					continue
				}
			}
			// A lone surrogate has no UTF-8 form
			p.js = fmt.Appendf(p.js, `\u%04X`, c)

		case c <= 0x9F, p.options.ASCIIOnly && c <= 0xFF:
			p.hexEscape(c)

		case p.options.ASCIIOnly:
			p.unicodeEscape(rune(c))

		default:
			p.js = utf8.AppendRune(p.js, rune(c))
		}
	}
}

// bestQuote picks the delimiter that needs the fewest escapes. Ties go to
// the double quote and then the single quote. When minifying, each newline
// also counts against the quotes since a template literal can hold it raw.
func (p *printer) bestQuote(text []uint16, allowBacktick bool) byte {
	var single, double, backtick int
	for i, c := range text {
		switch c {
		case '\'':
			single++
		case '"':
			double++
		case '`':
			backtick++
		case '$':
			if i+1 < len(text) && text[i+1] == '{' {
				backtick++
			}
		case '\n':
			if p.options.MinifySyntax {
				backtick--
			}
		}
	}

	best, cost := byte('"'), double
	if single < cost {
		best, cost = '\'', single
	}
	if allowBacktick && backtick < cost {
		best = '`'
	}
	return best
}

func (p *printer) quotedUTF16(text []uint16, allowBacktick bool) {
	quote := p.bestQuote(text, allowBacktick)
	p.char(quote)
	p.escapedUTF16(text, quote)
	p.char(quote)
}

func (p *printer) genString(e *js_ast.EString) {
	// A string that was written as a template stays one unless minifying
	if e.PreferTemplate && !p.options.MinifySyntax {
		p.char('`')
		p.escapedUTF16(e.Value, '`')
		p.char('`')
		return
	}
	p.quotedUTF16(e.Value, true)
}

// directiveQuote keeps the quote a directive was written with, since
// engines recognize directives like "use strict" by their raw text. The
// other quote is only used when it avoids an escape.
func directiveQuote(s *js_ast.SDirective) byte {
	quote, other := byte('"'), byte('\'')
	if s.Quote == '\'' {
		quote, other = other, quote
	}
	if slices.Contains(s.Value, uint16(quote)) && !slices.Contains(s.Value, uint16(other)) {
		return other
	}
	return quote
}

// Templates

func (p *printer) genTemplate(e *js_ast.ETemplate) {
	isTagged := e.TagOrNil != nil

	// "`a`" is just a string
	if !isTagged && len(e.Parts) == 0 && p.options.MinifySyntax {
		p.quotedUTF16(e.HeadCooked, true)
		return
	}

	if isTagged {
		// An optional chain can't be a tag: "a?.b`c`" is a syntax error
		if js_ast.IsOptionalChain(*e.TagOrNil) {
			p.char('(')
			p.genExpr(*e.TagOrNil, js_ast.LLowest, 0)
			p.char(')')
		} else {
			p.genExpr(*e.TagOrNil, js_ast.LPostfix, ctxInPlainChain)
		}
	}

	p.mapLoc(e.HeadLoc)
	p.char('`')
	p.templateText(e.HeadRaw, e.HeadCooked, isTagged)
	for _, part := range e.Parts {
		p.str("${")
		p.genExpr(part.Value, js_ast.LLowest, 0)
		p.mapLoc(part.TailLoc)
		p.char('}')
		p.templateText(part.TailRaw, part.TailCooked, isTagged)
	}
	p.char('`')
}

// templateText prefers the raw text so escapes stay as written. A tag sees
// the raw text, so tagged templates always keep it. Untagged ones fall back
// to the cooked value when there's no raw text or when the raw text isn't
// ASCII and the output must be.
func (p *printer) templateText(raw string, cooked []uint16, isTagged bool) {
	useCooked := raw == "" && len(cooked) > 0
	if !isTagged && p.options.ASCIIOnly && !isASCII(raw) {
		useCooked = true
	}
	if useCooked {
		p.escapedUTF16(cooked, '`')
	} else {
		p.str(raw)
	}
}

func isASCII(text string) bool {
	return !strings.ContainsFunc(text, func(r rune) bool { return r >= utf8.RuneSelf })
}

// Regular expressions

func (p *printer) genRegExp(e *js_ast.ERegExp) {
	if n := len(p.js); n > 0 {
		// "a / /b/" must not turn into a line comment and "< /script>/" must
		// not close an inline script
		last := p.js[n-1]
		if last == '/' || (last == '<' && len(e.Value) >= 7 && strings.EqualFold(e.Value[:7], "/script")) {
			p.char(' ')
		}
	}
	p.str(e.Value)

	// A word right after this would be read as more flags
	p.prevRegExpEnd = len(p.js)
}

// Numbers and other primitives

func (p *printer) genNumber(e *js_ast.ENumber, level js_ast.L) {
	value := e.Value
	switch {
	case math.IsNaN(value):
		p.keyword("NaN")

	case math.IsInf(value, 0):
		p.genInfinity(value < 0, level)

	case math.Signbit(value):
		// This includes "-0", which isn't less than zero
		if level >= js_ast.LPrefix {
			p.str("(-")
			p.digits(-value, false)
			p.char(')')
		} else {
			p.spaceBeforeOperator(js_ast.UnOpNeg)
			p.char('-')
			p.digits(-value, true)
		}

	default:
		p.spaceBeforeIdentifier()
		if e.Raw != "" && !p.options.MinifyWhitespace && !p.options.MinifySyntax {
			start := len(p.js)
			p.str(e.Raw)
			p.noteNumberEnd(start)
		} else {
			p.digits(value, true)
		}
	}
}

func (p *printer) digits(value float64, trackEnd bool) {
	start := len(p.js)
	p.js = append(p.js, formatNonNegativeFloat(value, p.options.MinifyWhitespace)...)
	if trackEnd {
		p.noteNumberEnd(start)
	}
}

// noteNumberEnd remembers where an integer ends. A "." written right after
// it would be read as a decimal point, so "1 .toString()" needs the space.
func (p *printer) noteNumberEnd(start int) {
	if !bytes.ContainsAny(p.js[start:], ".eExXoObB") {
		p.prevNumEnd = len(p.js)
	}
}

// genInfinity writes "Infinity", or "1/0" when minifying. The division needs
// parentheses wherever a multiplication would.
func (p *printer) genInfinity(negative bool, level js_ast.L) {
	wrap := (negative && level >= js_ast.LPrefix) || (p.options.MinifySyntax && level >= js_ast.LMultiply)
	p.wrap(wrap, func() {
		if negative {
			p.spaceBeforeOperator(js_ast.UnOpNeg)
			p.char('-')
		} else {
			p.spaceBeforeIdentifier()
		}
		switch {
		case !p.options.MinifySyntax:
			p.str("Infinity")
		case p.options.MinifyWhitespace:
			p.str("1/0")
		default:
			p.str("1 / 0")
		}
	})
}

// genBoolean writes "!0" and "!1" when minifying. Those are unary
// expressions and get parenthesized like one.
func (p *printer) genBoolean(value bool, level js_ast.L) {
	if !p.options.MinifySyntax {
		if value {
			p.keyword("true")
		} else {
			p.keyword("false")
		}
		return
	}
	text := "!1"
	if value {
		text = "!0"
	}
	p.wrap(level >= js_ast.LPrefix, func() { p.str(text) })
}

func (p *printer) genUndefined(level js_ast.L) {
	if level >= js_ast.LPrefix {
		p.str("(void 0)")
	} else {
		p.keyword("void 0")
	}
}
