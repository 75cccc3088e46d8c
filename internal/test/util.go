package test

import (
	"fmt"
	"os"
	"reflect"
	"testing"

	"github.com/jsprint/jsprint/internal/logger"
)

// Slices and structs holding slices are compared element by element
func AssertEqual(t *testing.T, observed interface{}, expected interface{}) {
	t.Helper()
	if !reflect.DeepEqual(observed, expected) {
		t.Fatalf("%v != %v", observed, expected)
	}
}

func AssertEqualWithDiff(t *testing.T, observed interface{}, expected interface{}) {
	t.Helper()
	if !reflect.DeepEqual(observed, expected) {
		stringA := fmt.Sprintf("%v", observed)
		stringB := fmt.Sprintf("%v", expected)
		color := logger.GetTerminalInfo(os.Stderr).UseColorEscapes
		t.Fatal("\n" + Diff(stringB, stringA, color))
	}
}

func SourceForTest(contents string) logger.Source {
	return logger.Source{
		Index:      0,
		KeyPath:    "<stdin>",
		PrettyPath: "<stdin>",
		Contents:   contents,
	}
}
