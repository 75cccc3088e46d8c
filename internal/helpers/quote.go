package helpers

import "unicode/utf8"

const hexChars = "0123456789ABCDEF"

// QuoteForJSON returns text as a double-quoted JSON string. Control
// characters, lone surrogates and (when asciiOnly is set) non-ASCII code
// points are written as "\u" escapes.
func QuoteForJSON(text string, asciiOnly bool) []byte {
	bytes := make([]byte, 0, len(text)+2)
	bytes = append(bytes, '"')

	for i := 0; i < len(text); {
		c, width := DecodeWTF8Rune(text[i:])

		switch {
		case c == '\b':
			bytes = append(bytes, "\\b"...)
		case c == '\f':
			bytes = append(bytes, "\\f"...)
		case c == '\n':
			bytes = append(bytes, "\\n"...)
		case c == '\r':
			bytes = append(bytes, "\\r"...)
		case c == '\t':
			bytes = append(bytes, "\\t"...)
		case c == '\\':
			bytes = append(bytes, "\\\\"...)
		case c == '"':
			bytes = append(bytes, "\\\""...)

		case c < 0x20 || c == 0x7F || c == '\uFEFF' || (c >= 0xD800 && c <= 0xDFFF) || (asciiOnly && c > 0x7F):
			if c <= 0xFFFF {
				bytes = appendUnicodeEscape(bytes, c)
			} else {
				c -= 0x10000
				bytes = appendUnicodeEscape(bytes, 0xD800+((c>>10)&0x3FF))
				bytes = appendUnicodeEscape(bytes, 0xDC00+(c&0x3FF))
			}

		case c == utf8.RuneError && width == 1:
			// Invalid UTF-8 is replaced instead of being passed through
			bytes = append(bytes, "\\uFFFD"...)

		default:
			bytes = append(bytes, text[i:i+width]...)
		}

		i += width
	}

	return append(bytes, '"')
}

func appendUnicodeEscape(bytes []byte, c rune) []byte {
	return append(bytes, '\\', 'u', hexChars[c>>12], hexChars[(c>>8)&15], hexChars[(c>>4)&15], hexChars[c&15])
}
