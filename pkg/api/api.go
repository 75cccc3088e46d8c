package api

import "context"

type SourceMap uint8

const (
	SourceMapNone SourceMap = iota
	SourceMapInline
	SourceMapLinked
	SourceMapExternal
)

type SourcesContent uint8

const (
	SourcesContentInclude SourcesContent = iota
	SourcesContentExclude
)

type Charset uint8

const (
	CharsetDefault Charset = iota
	CharsetASCII
	CharsetUTF8
)

type Location struct {
	File     string
	Line     int // 1-based
	Column   int // 0-based, in bytes
	Length   int // in bytes
	LineText string
}

type Message struct {
	Text     string
	Location *Location
}

type StderrColor uint8

const (
	ColorIfTerminal StderrColor = iota
	ColorNever
	ColorAlways
)

type LogLevel uint8

const (
	LogLevelSilent LogLevel = iota
	LogLevelDebug
	LogLevelInfo
	LogLevelWarning
	LogLevelError
)

////////////////////////////////////////////////////////////////////////////////
// Transform API

type TransformOptions struct {
	Color      StderrColor
	ErrorLimit int
	LogLevel   LogLevel

	Sourcemap      SourceMap
	SourcesContent SourcesContent

	// Adds a "debugId" to the source map and a "//# debugId=" comment to the
	// code. Requires a source map.
	DebugID bool

	MinifyWhitespace bool
	MinifySyntax     bool
	Charset          Charset

	// Keep "/* @__PURE__ */" and "/* @__NO_SIDE_EFFECTS__ */" comments
	PreserveAnnotations bool

	// The name of the input file in messages and in the source map
	Sourcefile string

	// The name of the output file. Only used to fill in the source map "file"
	// field and the URL in the comment for linked source maps.
	Outfile string
}

type TransformResult struct {
	Errors   []Message
	Warnings []Message

	Code []byte
	Map  []byte
}

func Transform(input string, options TransformOptions) TransformResult {
	return transformImpl(input, options)
}

type InputFile struct {
	Path     string
	Contents string

	// Overrides "Outfile" in the options for this file
	Outfile string
}

// TransformFiles transforms each file on its own goroutine. The results are
// in the same order as "files". Each file uses its path as "Sourcefile". The
// error is only non-nil if the context was canceled before all files were
// done.
func TransformFiles(ctx context.Context, files []InputFile, options TransformOptions) ([]TransformResult, error) {
	return transformFilesImpl(ctx, files, options)
}
