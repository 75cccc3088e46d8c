package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/jsprint/jsprint/internal/logger"
	"gopkg.in/yaml.v3"
)

type SourceMap uint8

const (
	SourceMapNone SourceMap = iota
	SourceMapInline
	SourceMapLinkedWithComment
	SourceMapExternalWithoutComment
)

var sourceMapNames = map[string]SourceMap{
	"none":     SourceMapNone,
	"inline":   SourceMapInline,
	"linked":   SourceMapLinkedWithComment,
	"external": SourceMapExternalWithoutComment,
}

var logLevelNames = map[string]logger.LogLevel{
	"verbose": logger.LevelVerbose,
	"debug":   logger.LevelDebug,
	"info":    logger.LevelInfo,
	"warning": logger.LevelWarning,
	"error":   logger.LevelError,
	"silent":  logger.LevelSilent,
}

var colorNames = map[string]logger.StderrColor{
	"auto":   logger.ColorIfTerminal,
	"always": logger.ColorAlways,
	"never":  logger.ColorNever,
}

type Options struct {
	MinifySyntax             bool
	MinifyWhitespace         bool
	ASCIIOnly                bool
	PreserveAnnotateComments bool

	SourceMap SourceMap

	// The "sourcesContent" field is included unless this is set
	ExcludeSourcesContent bool

	// Adds a "debugId" to the source map and a matching comment to the code
	DebugID bool

	// Overrides the file name used in the "sources" array of the source map
	SourceFilename string

	AbsOutputFile string
	AbsOutputDir  string

	LogLevel logger.LogLevel
	Color    logger.StderrColor
}

// FileOptions is the YAML form of Options. Enums are strings here so they
// can be validated with a useful error message. Pointers distinguish "not
// set" from "false" so the file only overrides what it mentions.
type FileOptions struct {
	Minify              *bool  `yaml:"minify"`
	MinifySyntax        *bool  `yaml:"minify-syntax"`
	MinifyWhitespace    *bool  `yaml:"minify-whitespace"`
	ASCIIOnly           *bool  `yaml:"ascii-only"`
	PreserveAnnotations *bool  `yaml:"preserve-annotations"`
	SourceMap           string `yaml:"sourcemap"`
	SourcesContent      *bool  `yaml:"sources-content"`
	DebugID             *bool  `yaml:"debug-id"`
	SourceFilename      string `yaml:"source-filename"`
	Outfile             string `yaml:"outfile"`
	Outdir              string `yaml:"outdir"`
	LogLevel            string `yaml:"log-level"`
	Color               string `yaml:"color"`
}

// Load reads a YAML config file and applies it on top of "options"
func Load(path string, options *Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path, options)
}

// Parse is Load without the file system. The path is only used in errors.
func Parse(data []byte, path string, options *Options) error {
	var file FileOptions
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	// An empty file decodes to "io.EOF" and means "no overrides"
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return file.applyTo(path, options)
}

func (file *FileOptions) applyTo(path string, options *Options) error {
	if file.Minify != nil {
		options.MinifySyntax = *file.Minify
		options.MinifyWhitespace = *file.Minify
	}
	setBool(&options.MinifySyntax, file.MinifySyntax)
	setBool(&options.MinifyWhitespace, file.MinifyWhitespace)
	setBool(&options.ASCIIOnly, file.ASCIIOnly)
	setBool(&options.PreserveAnnotateComments, file.PreserveAnnotations)
	setBool(&options.DebugID, file.DebugID)
	if file.SourcesContent != nil {
		options.ExcludeSourcesContent = !*file.SourcesContent
	}

	if file.SourceFilename != "" {
		options.SourceFilename = file.SourceFilename
	}
	if file.Outfile != "" {
		options.AbsOutputFile = file.Outfile
	}
	if file.Outdir != "" {
		options.AbsOutputDir = file.Outdir
	}

	if file.SourceMap != "" {
		value, err := lookup(path, "sourcemap", file.SourceMap, sourceMapNames)
		if err != nil {
			return err
		}
		options.SourceMap = value
	}
	if file.LogLevel != "" {
		value, err := lookup(path, "log-level", file.LogLevel, logLevelNames)
		if err != nil {
			return err
		}
		options.LogLevel = value
	}
	if file.Color != "" {
		value, err := lookup(path, "color", file.Color, colorNames)
		if err != nil {
			return err
		}
		options.Color = value
	}

	return nil
}

func setBool(to *bool, from *bool) {
	if from != nil {
		*to = *from
	}
}

func lookup[T any](path string, key string, text string, names map[string]T) (T, error) {
	if value, ok := names[text]; ok {
		return value, nil
	}
	var zero T
	valid := make([]string, 0, len(names))
	for name := range names {
		valid = append(valid, fmt.Sprintf("%q", name))
	}
	sort.Strings(valid)
	return zero, fmt.Errorf("%s: invalid value %q for %q (valid: %s)", path, text, key, strings.Join(valid, ", "))
}

// ParseSourceMap, ParseLogLevel and ParseColor convert the command-line
// spelling of each enum
func ParseSourceMap(text string) (SourceMap, error) {
	return lookup("--sourcemap", "sourcemap", text, sourceMapNames)
}

func ParseLogLevel(text string) (logger.LogLevel, error) {
	return lookup("--log-level", "log-level", text, logLevelNames)
}

func ParseColor(text string) (logger.StderrColor, error) {
	return lookup("--color", "color", text, colorNames)
}

// Validate rejects combinations that can't produce any output. It runs after
// the config file and the command-line flags have both been applied.
func (options *Options) Validate() error {
	if options.AbsOutputFile != "" && options.AbsOutputDir != "" {
		return fmt.Errorf("cannot use both \"outfile\" and \"outdir\"")
	}
	if options.SourceMap == SourceMapExternalWithoutComment || options.SourceMap == SourceMapLinkedWithComment {
		if options.AbsOutputFile == "" && options.AbsOutputDir == "" {
			return fmt.Errorf("cannot use an external source map without an output path")
		}
	}
	if options.DebugID && options.SourceMap == SourceMapNone {
		return fmt.Errorf("cannot use \"debug-id\" without a source map")
	}
	return nil
}
