package js_lexer

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/jsprint/jsprint/internal/js_ast"
)

func isDecimalDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c rune) bool {
	return isDecimalDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// radixOf returns the base selected by the letter after a leading "0", or 0
// if the letter is not a radix prefix
func radixOf(letter byte) int {
	switch letter | 0x20 {
	case 'b':
		return 2
	case 'o':
		return 8
	case 'x':
		return 16
	}
	return 0
}

func digitOf(c rune) int {
	switch {
	case isDecimalDigit(c):
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	}
	return -1
}

// scanNumber scans every numeric literal form:
//
//	123  1.5e3  .5  1_000   decimal, with separators
//	0b101  0o17  0xFF      radix prefixes
//	017  019               legacy octal, and legacy decimal with a leading zero
//	123n  0xFFn            bigints
//
// Bigints keep their text in Identifier since their value may not fit in a
// float64. Everything else leaves its value in Number.
func (lexer *Lexer) scanNumber() T {
	token := TNumericLiteral

	switch {
	case lexer.codePoint == '0' && radixOf(lexer.peek(1)) != 0:
		base := radixOf(lexer.peek(1))
		lexer.step()
		lexer.step()
		if lexer.scanDigits(base, true) == 0 {
			lexer.SyntaxError()
		}
		text := strings.ReplaceAll(lexer.Raw(), "_", "")
		if lexer.codePoint == 'n' {
			token = TBigIntegerLiteral
			lexer.Identifier = text
			lexer.step()
		} else {
			lexer.Number = parseRadixInteger(text[2:], base)
		}

	case lexer.codePoint == '0' && isDecimalDigit(rune(lexer.peek(1))):
		// Neither form allows separators in the integer part or a bigint
		// suffix. The check for a trailing identifier below rejects both.
		lexer.scanDigits(10, false)
		text := lexer.Raw()
		if strings.ContainsAny(text, "89") {
			lexer.scanFractionAndExponent()
			lexer.Number, _ = strconv.ParseFloat(strings.ReplaceAll(lexer.Raw(), "_", ""), 64)
		} else {
			lexer.Number = parseRadixInteger(text, 8)
		}

	default:
		// A leading zero forbids separators, so "0_1" is an error
		hasFraction := lexer.codePoint == '.'
		if !hasFraction {
			lexer.scanDigits(10, lexer.codePoint != '0')
		}
		hasFraction = lexer.scanFractionAndExponent() || hasFraction
		text := strings.ReplaceAll(lexer.Raw(), "_", "")
		if lexer.codePoint == 'n' && !hasFraction {
			token = TBigIntegerLiteral
			lexer.Identifier = text
			lexer.step()
		} else {
			lexer.Number, _ = strconv.ParseFloat(text, 64)
		}
	}

	// "3in x" and "0b12" are not two tokens
	if c := lexer.codePoint; js_ast.IsIdentifierStart(c) || isDecimalDigit(c) {
		lexer.SyntaxError()
	}
	return token
}

// scanFractionAndExponent scans an optional ".123" and an optional "e+4"
// after the integer part. It returns true if either was present.
func (lexer *Lexer) scanFractionAndExponent() bool {
	found := false
	if lexer.codePoint == '.' {
		found = true
		lexer.step()
		lexer.scanDigits(10, true)
	}
	if lexer.codePoint == 'e' || lexer.codePoint == 'E' {
		found = true
		lexer.step()
		if lexer.codePoint == '+' || lexer.codePoint == '-' {
			lexer.step()
		}
		if lexer.scanDigits(10, true) == 0 {
			lexer.SyntaxError()
		}
	}
	return found
}

// scanDigits consumes digits in the given base and returns how many there
// were. A "_" separator must sit between two digits.
func (lexer *Lexer) scanDigits(base int, allowSeparators bool) int {
	isDigit := func(c rune) bool {
		d := digitOf(c)
		return d >= 0 && d < base
	}

	count := 0
	for {
		switch {
		case isDigit(lexer.codePoint):
			count++
			lexer.step()

		case lexer.codePoint == '_' && allowSeparators && count > 0:
			lexer.step()
			if !isDigit(lexer.codePoint) {
				// Report the "_" itself, unless this is the second of two
				if lexer.codePoint != '_' {
					lexer.end--
				}
				lexer.SyntaxError()
			}

		default:
			return count
		}
	}
}

// parseRadixInteger rounds the exact value of the digits to the nearest
// float64. Accumulating in floating point would round at every step.
func parseRadixInteger(digits string, base int) float64 {
	if value, err := strconv.ParseUint(digits, base, 53); err == nil {
		return float64(value)
	}
	n, _ := new(big.Int).SetString(digits, base)
	value, _ := new(big.Float).SetInt(n).Float64()
	return value
}
