package js_printer

import (
	"math"
	"strconv"
	"strings"
)

// Integers at or above this are compared against their hex form when
// minifying. Below it the decimal form is never longer.
const minHexCandidate = 1e12

// The largest float64 that is still exactly representable as a uint64 with
// room to spare. Anything above this is printed in decimal.
const maxHexCandidate = 0xFFFF_FFFF_FFFF_F800

// formatNonNegativeFloat returns the shortest spelling of a finite,
// non-negative number that still reads back as the same value. Leading
// zeros in fractions and hex forms are only used when minifying.
func formatNonNegativeFloat(value float64, minify bool) []byte {
	// Exponents never help below 1000 ("1e3" is the first win)
	if value < 1000 && value == math.Trunc(value) {
		return strconv.AppendInt(nil, int64(value), 10)
	}

	mantissa, exponent := splitExponent(strconv.FormatFloat(value, 'g', -1, 64))
	best := mantissa
	if exponent != 0 {
		best += "e" + strconv.Itoa(exponent)
	}

	switch integer, fraction, hasDot := strings.Cut(mantissa, "."); {
	case hasDot && integer == "0":
		best = shortenFraction(fraction, minify)

	case hasDot && exponent != 0:
		// Move the decimal point to the end. Small shifts become zeros.
		// "1.2e2" => "120"
		// "1.2e4" => "12e3"
		digits := integer + fraction
		shift := exponent - len(fraction)
		var candidate string
		if shift >= 0 && shift <= 2 {
			candidate = digits + strings.Repeat("0", shift)
		} else {
			candidate = digits + "e" + strconv.Itoa(shift)
		}
		if len(candidate) <= len(best) {
			best = candidate
		}

	case !hasDot && exponent == 0:
		// "1000" => "1e3"
		trimmed := strings.TrimRight(mantissa, "0")
		if zeros := len(mantissa) - len(trimmed); zeros > 0 {
			if candidate := trimmed + "e" + strconv.Itoa(zeros); len(candidate) < len(best) {
				best = candidate
			}
		}
	}

	// "281474976710655" => "0xffffffffffff"
	if minify && value >= minHexCandidate && value <= maxHexCandidate && value == math.Trunc(value) {
		if hex := "0x" + strconv.FormatUint(uint64(value), 16); len(hex) < len(best) {
			best = hex
		}
	}
	return []byte(best)
}

// splitExponent separates "1.5e+07" into "1.5" and 7
func splitExponent(text string) (string, int) {
	mantissa, exponent, ok := strings.Cut(text, "e")
	if !ok {
		return text, 0
	}
	n, _ := strconv.Atoi(strings.TrimPrefix(exponent, "+"))
	return mantissa, n
}

// shortenFraction handles numbers of the form "0.<fraction>". A run of
// leading zeros turns into a negative exponent when that is shorter.
// "0.001" => "1e-3"
func shortenFraction(fraction string, minify bool) string {
	best := "." + fraction
	if !minify {
		best = "0" + best
	}
	digits := strings.TrimLeft(fraction, "0")
	if zeros := len(fraction) - len(digits); zeros > 0 {
		candidate := digits + "e" + strconv.Itoa(-len(fraction))
		if len(candidate) < len(best) {
			best = candidate
		}
	}
	return best
}
