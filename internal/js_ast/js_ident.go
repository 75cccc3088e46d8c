package js_ast

import (
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

func IsIdentifier(text string) bool {
	for i, c := range text {
		if !isIdentifierCodePoint(c, i == 0) {
			return false
		}
	}
	return text != ""
}

// IsIdentifierUTF16 is IsIdentifier for text that is still in UTF-16, which
// saves converting string literals just to check them
func IsIdentifierUTF16(text []uint16) bool {
	for i := 0; i < len(text); {
		c, width := rune(text[i]), 1
		if utf16.IsSurrogate(c) && i+1 < len(text) {
			if pair := utf16.DecodeRune(c, rune(text[i+1])); pair != utf8.RuneError {
				c, width = pair, 2
			}
		}
		if !isIdentifierCodePoint(c, i == 0) {
			return false
		}
		i += width
	}
	return len(text) > 0
}

func isIdentifierCodePoint(c rune, isFirst bool) bool {
	if isFirst {
		return IsIdentifierStart(c)
	}
	return IsIdentifierContinue(c)
}

func IsIdentifierStart(codePoint rune) bool {
	switch {
	case codePoint >= 'a' && codePoint <= 'z', codePoint >= 'A' && codePoint <= 'Z',
		codePoint == '_', codePoint == '$':
		return true

	case codePoint < 0x7F:
		return false
	}

	// "ID_Start" from Unicode UAX #31
	return unicode.In(codePoint, unicode.L, unicode.Nl, unicode.Other_ID_Start) &&
		!unicode.In(codePoint, unicode.Pattern_Syntax, unicode.Pattern_White_Space)
}

func IsIdentifierContinue(codePoint rune) bool {
	switch {
	case codePoint >= 'a' && codePoint <= 'z', codePoint >= 'A' && codePoint <= 'Z',
		codePoint >= '0' && codePoint <= '9', codePoint == '_', codePoint == '$':
		return true

	case codePoint < 0x7F:
		return false

	// ZWNJ and ZWJ are allowed in identifiers
	case codePoint == 0x200C, codePoint == 0x200D:
		return true
	}

	// "ID_Continue" from Unicode UAX #31
	return unicode.In(codePoint, unicode.L, unicode.Nl, unicode.Other_ID_Start,
		unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue) &&
		!unicode.In(codePoint, unicode.Pattern_Syntax, unicode.Pattern_White_Space)
}

// See the "White Space Code Points" table in the ECMAScript standard
func IsWhitespace(codePoint rune) bool {
	switch codePoint {
	case
		'\u0009', // character tabulation
		'\u000B', // line tabulation
		'\u000C', // form feed
		'\u0020', // space
		'\u00A0', // no-break space
		'\uFEFF': // zero width non-breaking space
		return true
	}

	// Unicode "Space_Separator" code points
	return codePoint >= 0x1680 && unicode.Is(unicode.Zs, codePoint)
}

func IsLineTerminator(codePoint rune) bool {
	switch codePoint {
	case '\r', '\n', '\u2028', '\u2029':
		return true
	}
	return false
}
