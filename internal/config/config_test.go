package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/jsprint/jsprint/internal/logger"
	"github.com/jsprint/jsprint/internal/test"
)

func TestParse(t *testing.T) {
	options := Options{}
	err := Parse([]byte(`
minify: true
minify-whitespace: false
ascii-only: true
sourcemap: linked
sources-content: false
debug-id: true
outfile: out.js
log-level: warning
color: never
`), "jsprint.yaml", &options)
	test.AssertEqual(t, err, nil)
	test.AssertEqual(t, options.MinifySyntax, true)
	test.AssertEqual(t, options.MinifyWhitespace, false)
	test.AssertEqual(t, options.ASCIIOnly, true)
	test.AssertEqual(t, options.SourceMap, SourceMapLinkedWithComment)
	test.AssertEqual(t, options.ExcludeSourcesContent, true)
	test.AssertEqual(t, options.DebugID, true)
	test.AssertEqual(t, options.AbsOutputFile, "out.js")
	test.AssertEqual(t, options.LogLevel, logger.LevelWarning)
	test.AssertEqual(t, options.Color, logger.ColorNever)
	test.AssertEqual(t, options.Validate(), nil)
}

func TestParseKeepsUnsetValues(t *testing.T) {
	options := Options{ASCIIOnly: true, SourceMap: SourceMapInline}
	test.AssertEqual(t, Parse([]byte("minify-syntax: true\n"), "jsprint.yaml", &options), nil)
	test.AssertEqual(t, options.ASCIIOnly, true)
	test.AssertEqual(t, options.SourceMap, SourceMapInline)
	test.AssertEqual(t, options.MinifySyntax, true)

	test.AssertEqual(t, Parse(nil, "empty.yaml", &options), nil)
	test.AssertEqual(t, options.MinifySyntax, true)
}

func TestParseErrors(t *testing.T) {
	expectError := func(contents string, expected string) {
		t.Helper()
		err := Parse([]byte(contents), "jsprint.yaml", &Options{})
		if err == nil {
			t.Fatalf("expected an error for %q", contents)
		}
		test.AssertEqualWithDiff(t, err.Error(), expected)
	}

	expectError("sourcemap: both\n",
		"jsprint.yaml: invalid value \"both\" for \"sourcemap\" (valid: \"external\", \"inline\", \"linked\", \"none\")")
	expectError("color: blue\n",
		"jsprint.yaml: invalid value \"blue\" for \"color\" (valid: \"always\", \"auto\", \"never\")")
	expectError("log-level: loud\n",
		"jsprint.yaml: invalid value \"loud\" for \"log-level\" (valid: \"debug\", \"error\", \"info\", \"silent\", \"verbose\", \"warning\")")

	// Misspelled keys are reported instead of silently ignored
	err := Parse([]byte("minfy: true\n"), "jsprint.yaml", &Options{})
	test.AssertEqual(t, err != nil, true)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jsprint.yaml")
	if err := os.WriteFile(path, []byte("sourcemap: inline\n"), 0644); err != nil {
		t.Fatal(err)
	}

	options := Options{}
	test.AssertEqual(t, Load(path, &options), nil)
	test.AssertEqual(t, options.SourceMap, SourceMapInline)

	err := Load(filepath.Join(t.TempDir(), "missing.yaml"), &options)
	test.AssertEqual(t, err != nil, true)
	test.AssertEqual(t, errors.Is(err, fs.ErrNotExist), true)
}

func TestValidate(t *testing.T) {
	test.AssertEqual(t, (&Options{}).Validate(), nil)
	test.AssertEqual(t, (&Options{SourceMap: SourceMapInline}).Validate(), nil)
	test.AssertEqual(t, (&Options{AbsOutputFile: "a.js", AbsOutputDir: "out"}).Validate().Error(),
		"cannot use both \"outfile\" and \"outdir\"")
	test.AssertEqual(t, (&Options{SourceMap: SourceMapLinkedWithComment}).Validate().Error(),
		"cannot use an external source map without an output path")
	test.AssertEqual(t, (&Options{DebugID: true}).Validate().Error(),
		"cannot use \"debug-id\" without a source map")
}

func TestParseEnums(t *testing.T) {
	sourceMap, err := ParseSourceMap("external")
	test.AssertEqual(t, err, nil)
	test.AssertEqual(t, sourceMap, SourceMapExternalWithoutComment)

	level, err := ParseLogLevel("silent")
	test.AssertEqual(t, err, nil)
	test.AssertEqual(t, level, logger.LevelSilent)

	_, err = ParseColor("sometimes")
	test.AssertEqual(t, err.Error(), "--color: invalid value \"sometimes\" for \"color\" (valid: \"always\", \"auto\", \"never\")")
}
