package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jsprint/jsprint/internal/config"
	"github.com/jsprint/jsprint/internal/js_parser"
	"github.com/jsprint/jsprint/internal/logger"
	"github.com/jsprint/jsprint/pkg/api"
	"github.com/kr/pretty"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Returned from RunE when the problem was already reported, so only the exit
// code is left to set
var errReported = errors.New("errors were reported")

type flags struct {
	configFile          string
	minify              bool
	minifySyntax        bool
	minifyWhitespace    bool
	asciiOnly           bool
	preserveAnnotations bool
	sourceMap           string
	sourcesContent      bool
	debugID             bool
	sourceFile          string
	outfile             string
	outdir              string
	logLevel            string
	color               string
	dumpAST             bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, out io.Writer, errOut io.Writer) int {
	cmd := newRootCmd(stdin, out, errOut)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			printError(errOut, logger.ColorIfTerminal, err.Error())
		}
		return 1
	}
	return 0
}

func newRootCmd(stdin io.Reader, out io.Writer, errOut io.Writer) *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "jsprint [files...]",
		Short: "jsprint reprints JavaScript, optionally minified and with a source map",
		Long: `jsprint parses JavaScript files and prints them back out. With no files
it reads from stdin. Output goes to stdout unless --outfile or --outdir is
given.`,
		Example: `  # Minify a file and write a linked source map next to it
  jsprint app.js --minify --sourcemap=linked --outfile=dist/app.js

  # Reformat stdin
  jsprint < input.js > output.js`,
		Version:       jsprintVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			options, err := f.resolve(cmd.Flags())
			if err != nil {
				return err
			}

			files, err := readInputs(args, stdin, options)
			if err != nil {
				return err
			}
			if files == nil {
				return cmd.Help()
			}

			if f.dumpAST {
				return dumpAST(files, out, errOut, options)
			}
			return transform(cmd.Context(), files, out, errOut, options)
		},
	}
	cmd.SetIn(stdin)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	fs := cmd.Flags()
	fs.StringVar(&f.configFile, "config", "", "Read options from a YAML file (flags override it)")
	fs.BoolVar(&f.minify, "minify", false, "Sets all --minify-* flags")
	fs.BoolVar(&f.minifySyntax, "minify-syntax", false, "Use equivalent but shorter syntax")
	fs.BoolVar(&f.minifyWhitespace, "minify-whitespace", false, "Remove whitespace")
	fs.BoolVar(&f.asciiOnly, "ascii-only", false, "Escape all non-ASCII characters")
	fs.BoolVar(&f.preserveAnnotations, "preserve-annotations", false, "Keep /* @__PURE__ */ and /* @__NO_SIDE_EFFECTS__ */ comments")
	fs.StringVar(&f.sourceMap, "sourcemap", "none", "Source map mode (none, inline, linked, external)")
	fs.BoolVar(&f.sourcesContent, "sources-content", true, "Include the original source in the source map")
	fs.BoolVar(&f.debugID, "debug-id", false, "Add a debug ID to the output and the source map")
	fs.StringVar(&f.sourceFile, "sourcefile", "", "The file name to use for stdin in messages and source maps")
	fs.StringVar(&f.outfile, "outfile", "", "The output file (for one input)")
	fs.StringVar(&f.outdir, "outdir", "", "The output directory (for multiple inputs)")
	fs.StringVar(&f.logLevel, "log-level", "info", "Logging level (verbose, debug, info, warning, error, silent)")
	fs.StringVar(&f.color, "color", "auto", "Use color in terminal output (auto, always, never)")
	fs.BoolVar(&f.dumpAST, "dump-ast", false, "Print the syntax tree instead of code")
	return cmd
}

// Flags that were set on the command line win over the config file, which
// wins over the defaults
func (f *flags) resolve(fs *pflag.FlagSet) (config.Options, error) {
	options := config.Options{LogLevel: logger.LevelInfo}
	if f.configFile != "" {
		if err := config.Load(f.configFile, &options); err != nil {
			return config.Options{}, err
		}
	}

	if fs.Changed("minify") {
		options.MinifySyntax = f.minify
		options.MinifyWhitespace = f.minify
	}
	if fs.Changed("minify-syntax") {
		options.MinifySyntax = f.minifySyntax
	}
	if fs.Changed("minify-whitespace") {
		options.MinifyWhitespace = f.minifyWhitespace
	}
	if fs.Changed("ascii-only") {
		options.ASCIIOnly = f.asciiOnly
	}
	if fs.Changed("preserve-annotations") {
		options.PreserveAnnotateComments = f.preserveAnnotations
	}
	if fs.Changed("sources-content") {
		options.ExcludeSourcesContent = !f.sourcesContent
	}
	if fs.Changed("debug-id") {
		options.DebugID = f.debugID
	}
	if fs.Changed("sourcefile") {
		options.SourceFilename = f.sourceFile
	}
	if fs.Changed("outfile") {
		options.AbsOutputFile = f.outfile
	}
	if fs.Changed("outdir") {
		options.AbsOutputDir = f.outdir
	}

	var err error
	if fs.Changed("sourcemap") {
		if options.SourceMap, err = config.ParseSourceMap(f.sourceMap); err != nil {
			return config.Options{}, err
		}
	}
	if fs.Changed("log-level") {
		if options.LogLevel, err = config.ParseLogLevel(f.logLevel); err != nil {
			return config.Options{}, err
		}
	}
	if fs.Changed("color") {
		if options.Color, err = config.ParseColor(f.color); err != nil {
			return config.Options{}, err
		}
	}

	for _, path := range []*string{&options.AbsOutputFile, &options.AbsOutputDir} {
		if *path != "" {
			if *path, err = filepath.Abs(*path); err != nil {
				return config.Options{}, err
			}
		}
	}

	if err := options.Validate(); err != nil {
		return config.Options{}, err
	}
	return options, nil
}

// A nil result means there is nothing to read: no files were given and stdin
// is a terminal, where reading would just block
func readInputs(args []string, stdin io.Reader, options config.Options) ([]api.InputFile, error) {
	if len(args) == 0 {
		if file, ok := stdin.(*os.File); ok && (isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())) {
			return nil, nil
		}
		contents, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return []api.InputFile{{
			Path:     options.SourceFilename,
			Contents: string(contents),
			Outfile:  outputPathFor(options, options.SourceFilename),
		}}, nil
	}

	if len(args) > 1 && options.AbsOutputFile != "" {
		return nil, fmt.Errorf("cannot use \"outfile\" with %d input files (use \"outdir\" instead)", len(args))
	}

	files := make([]api.InputFile, 0, len(args))
	for _, arg := range args {
		contents, err := os.ReadFile(arg)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", arg, err)
		}
		files = append(files, api.InputFile{
			Path:     filepath.ToSlash(arg),
			Contents: string(contents),
			Outfile:  outputPathFor(options, arg),
		})
	}
	return files, nil
}

func outputPathFor(options config.Options, inputPath string) string {
	if options.AbsOutputFile != "" {
		return options.AbsOutputFile
	}
	if options.AbsOutputDir != "" {
		base := filepath.Base(inputPath)
		if inputPath == "" {
			base = "stdin.js"
		}
		return filepath.Join(options.AbsOutputDir, base)
	}
	return ""
}

func transformOptions(options config.Options) api.TransformOptions {
	result := api.TransformOptions{
		MinifySyntax:        options.MinifySyntax,
		MinifyWhitespace:    options.MinifyWhitespace,
		PreserveAnnotations: options.PreserveAnnotateComments,
		DebugID:             options.DebugID,
		Sourcefile:          options.SourceFilename,
		ErrorLimit:          10,
	}

	if options.ASCIIOnly {
		result.Charset = api.CharsetASCII
	}
	if options.ExcludeSourcesContent {
		result.SourcesContent = api.SourcesContentExclude
	}

	switch options.SourceMap {
	case config.SourceMapNone:
		result.Sourcemap = api.SourceMapNone
	case config.SourceMapInline:
		result.Sourcemap = api.SourceMapInline
	case config.SourceMapLinkedWithComment:
		result.Sourcemap = api.SourceMapLinked
	case config.SourceMapExternalWithoutComment:
		result.Sourcemap = api.SourceMapExternal
	default:
		panic("Invalid source map")
	}

	switch options.LogLevel {
	case logger.LevelNone, logger.LevelInfo:
		result.LogLevel = api.LogLevelInfo
	case logger.LevelVerbose, logger.LevelDebug:
		result.LogLevel = api.LogLevelDebug
	case logger.LevelWarning:
		result.LogLevel = api.LogLevelWarning
	case logger.LevelError:
		result.LogLevel = api.LogLevelError
	case logger.LevelSilent:
		result.LogLevel = api.LogLevelSilent
	default:
		panic("Invalid log level")
	}

	switch options.Color {
	case logger.ColorIfTerminal:
		result.Color = api.ColorIfTerminal
	case logger.ColorNever:
		result.Color = api.ColorNever
	case logger.ColorAlways:
		result.Color = api.ColorAlways
	default:
		panic("Invalid color")
	}

	return result
}

func transform(ctx context.Context, files []api.InputFile, out io.Writer, errOut io.Writer, options config.Options) error {
	results, err := api.TransformFiles(ctx, files, transformOptions(options))
	if err != nil {
		return err
	}

	// Messages were already logged as they happened
	hasErrors := false
	for _, result := range results {
		if len(result.Errors) > 0 {
			hasErrors = true
		}
	}
	if hasErrors {
		return errReported
	}

	var outputs []outputFile
	for i, result := range results {
		path := files[i].Outfile
		if path == "" {
			if _, err := out.Write(result.Code); err != nil {
				return err
			}
			continue
		}
		outputs = append(outputs, outputFile{path: path, contents: result.Code})
		if len(result.Map) > 0 {
			outputs = append(outputs, outputFile{path: path + ".map", contents: result.Map})
		}
	}

	for _, output := range outputs {
		if err := os.MkdirAll(filepath.Dir(output.path), 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		if err := os.WriteFile(output.path, output.contents, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", output.path, err)
		}
	}

	if options.LogLevel <= logger.LevelInfo && len(outputs) > 0 {
		io.WriteString(errOut, summary(outputs))
	}
	return nil
}

type outputFile struct {
	path     string
	contents []byte
}

// Lists each written file relative to the working directory:
//
//	dist/app.js      1.2 kB
//	dist/app.js.map  3.4 kB
func summary(outputs []outputFile) string {
	cwd, _ := os.Getwd()
	paths := make([]string, len(outputs))
	width := 0
	for i, output := range outputs {
		path := output.path
		if cwd != "" {
			if rel, err := filepath.Rel(cwd, path); err == nil {
				path = rel
			}
		}
		paths[i] = filepath.ToSlash(path)
		width = max(width, len(paths[i]))
	}

	sb := strings.Builder{}
	sb.WriteString("\n")
	for i, output := range outputs {
		fmt.Fprintf(&sb, "  %-*s  %s\n", width, paths[i], humanize.Bytes(uint64(len(output.contents))))
	}
	sb.WriteString("\n")
	return sb.String()
}

func dumpAST(files []api.InputFile, out io.Writer, errOut io.Writer, options config.Options) error {
	hasErrors := false
	for _, file := range files {
		keyPath := file.Path
		if keyPath == "" {
			keyPath = "<stdin>"
		}
		source := logger.Source{KeyPath: keyPath, PrettyPath: keyPath, Contents: file.Contents}
		log := logger.NewDeferLog()
		tree, ok := js_parser.Parse(log, source, js_parser.Options{MinifySyntax: options.MinifySyntax})

		terminalInfo := terminalInfoFor(errOut, options.Color)
		for _, msg := range log.Done() {
			if msg.Kind == logger.Error {
				hasErrors = true
			}
			if shouldLog(options.LogLevel, msg.Kind) {
				io.WriteString(errOut, msg.String(logger.StderrOptions{IncludeSource: true}, terminalInfo))
			}
		}
		if ok && !hasErrors {
			pretty.Fprintf(out, "%# v\n", tree)
		}
	}
	if hasErrors {
		return errReported
	}
	return nil
}

func shouldLog(level logger.LogLevel, kind logger.MsgKind) bool {
	switch kind {
	case logger.Error:
		return level <= logger.LevelError
	case logger.Warning:
		return level <= logger.LevelWarning
	case logger.Info:
		return level <= logger.LevelInfo
	case logger.Debug:
		return level <= logger.LevelDebug
	default:
		panic("Internal error")
	}
}

func terminalInfoFor(w io.Writer, color logger.StderrColor) logger.TerminalInfo {
	var info logger.TerminalInfo
	if file, ok := w.(*os.File); ok {
		info = logger.GetTerminalInfo(file)
	}
	switch color {
	case logger.ColorNever:
		info.UseColorEscapes = false
	case logger.ColorAlways:
		info.UseColorEscapes = logger.SupportsColorEscapes
	}
	return info
}

func printError(errOut io.Writer, color logger.StderrColor, text string) {
	msg := logger.Msg{Kind: logger.Error, Text: text}
	io.WriteString(errOut, msg.String(logger.StderrOptions{}, terminalInfoFor(errOut, color)))
}
