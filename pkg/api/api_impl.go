package api

import (
	"context"
	"fmt"
	"path"
	"runtime"
	"strings"

	"github.com/jsprint/jsprint/internal/helpers"
	"github.com/jsprint/jsprint/internal/js_parser"
	"github.com/jsprint/jsprint/internal/js_printer"
	"github.com/jsprint/jsprint/internal/logger"
	"github.com/jsprint/jsprint/internal/sourcemap"
	"golang.org/x/sync/errgroup"
)

func validateColor(value StderrColor) logger.StderrColor {
	switch value {
	case ColorIfTerminal:
		return logger.ColorIfTerminal
	case ColorNever:
		return logger.ColorNever
	case ColorAlways:
		return logger.ColorAlways
	default:
		panic("Invalid color")
	}
}

func validateLogLevel(value LogLevel) logger.LogLevel {
	switch value {
	case LogLevelDebug:
		return logger.LevelDebug
	case LogLevelInfo:
		return logger.LevelInfo
	case LogLevelWarning:
		return logger.LevelWarning
	case LogLevelError:
		return logger.LevelError
	case LogLevelSilent:
		return logger.LevelSilent
	default:
		panic("Invalid log level")
	}
}

func validateASCIIOnly(value Charset) bool {
	switch value {
	case CharsetDefault, CharsetUTF8:
		return false
	case CharsetASCII:
		return true
	default:
		panic("Invalid charset")
	}
}

func validateSourceMap(log logger.Log, options TransformOptions) {
	switch options.Sourcemap {
	case SourceMapNone:
		if options.DebugID {
			log.AddMsg(logger.Msg{Kind: logger.Error, Text: "Cannot use \"DebugID\" without a source map"})
		}
	case SourceMapLinked:
		// The comment needs a URL to point at
		if options.Outfile == "" {
			log.AddMsg(logger.Msg{Kind: logger.Error, Text: "Must use \"Outfile\" with linked source maps"})
		}
	case SourceMapInline, SourceMapExternal:
	default:
		panic("Invalid source map")
	}
}

func messagesOfKind(kind logger.MsgKind, msgs []logger.Msg) []Message {
	var filtered []Message
	for _, msg := range msgs {
		if msg.Kind == kind {
			var location *Location
			if loc := msg.Location; loc != nil {
				location = &Location{
					File:     loc.File,
					Line:     loc.Line,
					Column:   loc.Column,
					Length:   loc.Length,
					LineText: loc.LineText,
				}
			}
			filtered = append(filtered, Message{
				Text:     msg.Text,
				Location: location,
			})
		}
	}
	return filtered
}

func newLog(options TransformOptions) logger.Log {
	if options.LogLevel == LogLevelSilent {
		return logger.NewDeferLog()
	}
	return logger.NewStderrLog(logger.StderrOptions{
		IncludeSource: true,
		ErrorLimit:    options.ErrorLimit,
		Color:         validateColor(options.Color),
		LogLevel:      validateLogLevel(options.LogLevel),
	})
}

func transformImpl(input string, options TransformOptions) TransformResult {
	log := newLog(options)
	var timer *helpers.Timer
	if options.LogLevel == LogLevelDebug {
		timer = &helpers.Timer{}
	}

	validateSourceMap(log, options)
	if log.HasErrors() {
		return resultFromLog(log, TransformResult{})
	}

	keyPath := "<stdin>"
	if options.Sourcefile != "" {
		keyPath = options.Sourcefile
	}
	source := logger.Source{
		KeyPath:    keyPath,
		PrettyPath: keyPath,
		Contents:   input,
	}

	result := TransformResult{}
	func() {
		// A panic below here is a bug, not a problem with the input. Report it
		// instead of taking down the whole process.
		defer func() {
			if r := recover(); r != nil {
				log.AddMsg(logger.Msg{
					Kind: logger.Error,
					Text: fmt.Sprintf("internal error: %v\n%s", r, helpers.PrettyPrintedStack()),
				})
				result = TransformResult{}
			}
		}()

		timer.Begin("Parse")
		tree, ok := js_parser.Parse(log, source, js_parser.Options{MinifySyntax: options.MinifySyntax})
		timer.End("Parse")
		if !ok || log.HasErrors() {
			return
		}

		timer.Begin("Print")
		printed := js_printer.Print(tree, source, js_printer.Options{
			MinifyWhitespace:         options.MinifyWhitespace,
			MinifySyntax:             options.MinifySyntax,
			ASCIIOnly:                validateASCIIOnly(options.Charset),
			AddSourceMappings:        options.Sourcemap != SourceMapNone,
			PreserveAnnotateComments: options.PreserveAnnotations,
		})
		timer.End("Print")

		result.Code = printed.JS
		if options.Sourcemap != SourceMapNone {
			timer.Begin("Generate source map")
			result.Code, result.Map = attachSourceMap(printed, options)
			timer.End("Generate source map")
		}
	}()

	timer.Log(log)
	return resultFromLog(log, result)
}

func attachSourceMap(printed js_printer.PrintResult, options TransformOptions) (code []byte, mapJSON []byte) {
	code = printed.JS
	sm := sourcemap.Build(printed.Source, printed.Mappings, options.SourcesContent == SourcesContentInclude)

	jsonOptions := sourcemap.JSONOptions{ASCIIOnly: validateASCIIOnly(options.Charset)}
	if options.Outfile != "" {
		jsonOptions.File = path.Base(strings.ReplaceAll(options.Outfile, "\\", "/"))
	}
	if options.DebugID {
		jsonOptions.DebugID = sourcemap.DebugID(code, sm.EncodeMappings())
	}
	mapJSON = sm.JSON(jsonOptions)

	// Comments must start on their own line
	if n := len(code); n > 0 && code[n-1] != '\n' {
		code = append(code, '\n')
	}
	if jsonOptions.DebugID != "" {
		code = append(code, sourcemap.DebugIDComment(jsonOptions.DebugID)...)
	}

	switch options.Sourcemap {
	case SourceMapInline:
		code = append(code, sourcemap.InlineComment(mapJSON)...)
		mapJSON = nil
	case SourceMapLinked:
		code = append(code, sourcemap.LinkedComment(jsonOptions.File+".map")...)
	}
	return
}

func resultFromLog(log logger.Log, result TransformResult) TransformResult {
	msgs := log.Done()
	result.Errors = messagesOfKind(logger.Error, msgs)
	result.Warnings = messagesOfKind(logger.Warning, msgs)
	if len(result.Errors) > 0 {
		result.Code = nil
		result.Map = nil
	}
	return result
}

func transformFilesImpl(ctx context.Context, files []InputFile, options TransformOptions) ([]TransformResult, error) {
	results := make([]TransformResult, len(files))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))

	for i, file := range files {
		i, file := i, file
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fileOptions := options
			if file.Path != "" {
				fileOptions.Sourcefile = file.Path
			}
			if file.Outfile != "" {
				fileOptions.Outfile = file.Outfile
			}
			results[i] = transformImpl(file.Contents, fileOptions)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
