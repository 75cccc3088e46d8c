package helpers

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// JavaScript strings are sequences of UTF-16 code units and may contain
// unpaired surrogates. They are stored as []uint16 in the syntax tree and
// converted to WTF-8 (UTF-8 that tolerates lone surrogates) when they need
// to become Go strings.

func StringToUTF16(text string) []uint16 {
	decoded := make([]uint16, 0, len(text))
	for i := 0; i < len(text); {
		c, width := DecodeWTF8Rune(text[i:])
		i += width
		if c <= 0xFFFF {
			decoded = append(decoded, uint16(c))
		} else {
			c -= 0x10000
			decoded = append(decoded, uint16(0xD800+((c>>10)&0x3FF)), uint16(0xDC00+(c&0x3FF)))
		}
	}
	return decoded
}

// decodeUTF16 returns the code point at text[i] and the number of code
// units it occupies, joining a surrogate pair when one is present.
func decodeUTF16(text []uint16, i int) (rune, int) {
	r1 := rune(text[i])
	if r1 >= 0xD800 && r1 <= 0xDBFF && i+1 < len(text) {
		if r2 := rune(text[i+1]); r2 >= 0xDC00 && r2 <= 0xDFFF {
			return (r1-0xD800)<<10 | (r2 - 0xDC00) + 0x10000, 2
		}
	}
	return r1, 1
}

func UTF16ToString(text []uint16) string {
	var temp [utf8.UTFMax]byte
	b := strings.Builder{}
	for i := 0; i < len(text); {
		c, n := decodeUTF16(text, i)
		i += n
		width := encodeWTF8Rune(temp[:], c)
		b.Write(temp[:width])
	}
	return b.String()
}

// UTF16ToStringWithValidation is like UTF16ToString but also reports the
// first unpaired surrogate, if any, formatted as "U+XXXX".
func UTF16ToStringWithValidation(text []uint16) (string, string, bool) {
	for i := 0; i < len(text); {
		c, n := decodeUTF16(text, i)
		if c >= 0xD800 && c <= 0xDFFF {
			return UTF16ToString(text), fmt.Sprintf("U+%04X", c), false
		}
		i += n
	}
	return UTF16ToString(text), "", true
}

// Does "UTF16ToString(text) == str" without a temporary allocation
func UTF16EqualsString(text []uint16, str string) bool {
	if len(text) > len(str) {
		// Strings can't be equal if UTF-16 encoding is longer than UTF-8 encoding
		return false
	}
	var temp [utf8.UTFMax]byte
	j := 0
	for i := 0; i < len(text); {
		c, n := decodeUTF16(text, i)
		i += n
		width := encodeWTF8Rune(temp[:], c)
		if j+width > len(str) || string(temp[:width]) != str[j:j+width] {
			return false
		}
		j += width
	}
	return j == len(str)
}

func UTF16EqualsUTF16(a []uint16, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i, c := range a {
		if c != b[i] {
			return false
		}
	}
	return true
}

// A clone of "utf8.EncodeRune" that encodes lone surrogates instead of
// replacing them. See https://simonsapin.github.io/wtf-8/ for more info.
func encodeWTF8Rune(p []byte, r rune) int {
	switch i := uint32(r); {
	case i <= 0x7F:
		p[0] = byte(r)
		return 1
	case i <= 0x7FF:
		p[0] = 0xC0 | byte(r>>6)
		p[1] = 0x80 | byte(r)&0x3F
		return 2
	case i > utf8.MaxRune:
		r = utf8.RuneError
		fallthrough
	case i <= 0xFFFF:
		p[0] = 0xE0 | byte(r>>12)
		p[1] = 0x80 | byte(r>>6)&0x3F
		p[2] = 0x80 | byte(r)&0x3F
		return 3
	default:
		p[0] = 0xF0 | byte(r>>18)
		p[1] = 0x80 | byte(r>>12)&0x3F
		p[2] = 0x80 | byte(r>>6)&0x3F
		p[3] = 0x80 | byte(r)&0x3F
		return 4
	}
}

// A clone of "utf8.DecodeRuneInString" that decodes lone surrogates instead
// of rejecting them.
func DecodeWTF8Rune(s string) (rune, int) {
	n := len(s)
	if n < 1 {
		return utf8.RuneError, 0
	}

	s0 := s[0]
	if s0 < 0x80 {
		return rune(s0), 1
	}

	var sz int
	switch {
	case (s0 & 0xE0) == 0xC0:
		sz = 2
	case (s0 & 0xF0) == 0xE0:
		sz = 3
	case (s0 & 0xF8) == 0xF0:
		sz = 4
	default:
		return utf8.RuneError, 1
	}

	if n < sz {
		return utf8.RuneError, 1
	}
	for _, c := range []byte(s[1:sz]) {
		if (c & 0xC0) != 0x80 {
			return utf8.RuneError, 1
		}
	}

	switch sz {
	case 2:
		cp := rune(s0&0x1F)<<6 | rune(s[1]&0x3F)
		if cp < 0x80 {
			return utf8.RuneError, 1
		}
		return cp, 2

	case 3:
		cp := rune(s0&0x0F)<<12 | rune(s[1]&0x3F)<<6 | rune(s[2]&0x3F)
		if cp < 0x0800 {
			return utf8.RuneError, 1
		}
		return cp, 3

	default:
		cp := rune(s0&0x07)<<18 | rune(s[1]&0x3F)<<12 | rune(s[2]&0x3F)<<6 | rune(s[3]&0x3F)
		if cp < 0x010000 || cp > 0x10FFFF {
			return utf8.RuneError, 1
		}
		return cp, 4
	}
}
