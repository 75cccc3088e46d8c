package js_printer

import (
	"math"
	"testing"

	"github.com/jsprint/jsprint/internal/test"
)

func TestFormatNonNegativeFloat(t *testing.T) {
	expect := func(value float64, minify bool, expected string) {
		t.Helper()
		test.AssertEqual(t, string(formatNonNegativeFloat(value, minify)), expected)
	}

	expect(0, false, "0")
	expect(999, false, "999")
	expect(1000, false, "1e3")
	expect(1200, false, "1200")
	expect(123456789, false, "123456789")
	expect(1e21, false, "1e21")
	expect(1.5e10, false, "15e9")
	expect(1.2e100, false, "12e99")

	expect(0.5, false, "0.5")
	expect(0.5, true, ".5")
	expect(0.001, false, "1e-3")
	expect(0.001, true, ".001")
	expect(0.0001, true, "1e-4")
	expect(0.01, true, ".01")
	expect(0.0123, true, ".0123")
	expect(1e-7, false, "1e-7")
	expect(1.2345e-5, false, "12345e-9")
	expect(math.MaxFloat64, false, "17976931348623157e292")

	// Hex is only used when strictly shorter
	expect(0xFFFF_FFFF_FFFF, false, "281474976710655")
	expect(0xFFFF_FFFF_FFFF, true, "0xffffffffffff")
	expect(1e12, true, "1e12")
	expect(0xFFFF_FFFF_FFFF_FFFF, true, "18446744073709552e3")
}
