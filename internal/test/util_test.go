package test

import "testing"

func TestAssertEqualSlices(t *testing.T) {
	AssertEqual(t, []int{1, 2, 3}, []int{1, 2, 3})
	AssertEqual(t, struct{ Items []string }{[]string{"a"}}, struct{ Items []string }{[]string{"a"}})
	AssertEqualWithDiff(t, []string{"x"}, []string{"x"})
	AssertEqual(t, error(nil), nil)
}
