package logger

// Logging is designed to look and feel like clang's error format. Each
// message carries the line of source text it refers to and a marker under
// the offending range. Messages are either streamed to stderr as they happen
// (the command-line tool) or deferred and returned to the caller (the API
// and the tests).

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"
)

type Log struct {
	AddMsg    func(Msg)
	HasErrors func() bool
	Done      func() []Msg
}

type LogLevel int8

const (
	LevelNone LogLevel = iota
	LevelVerbose
	LevelDebug
	LevelInfo
	LevelWarning
	LevelError
	LevelSilent
)

type MsgKind uint8

const (
	Error MsgKind = iota
	Warning
	Info
	Debug
)

func (kind MsgKind) String() string {
	switch kind {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	case Debug:
		return "debug"
	default:
		panic("Internal error")
	}
}

type Msg struct {
	Kind     MsgKind
	Text     string
	Location *MsgLocation
}

type MsgLocation struct {
	File     string
	Line     int // 1-based
	Column   int // 0-based, in bytes
	Length   int // in bytes
	LineText string
}

type Loc struct {
	// This is the 0-based index of this location from the start of the file, in bytes
	Start int32
}

type Range struct {
	Loc Loc
	Len int32
}

func (r Range) End() int32 {
	return r.Loc.Start + r.Len
}

// Messages without a location sort first. The rest are ordered by where
// they point, then by kind and text so the output is deterministic.
func compareMsgs(a Msg, b Msg) int {
	la, lb := a.Location, b.Location
	switch {
	case la == nil && lb != nil:
		return -1
	case la != nil && lb == nil:
		return 1
	case la != nil && lb != nil:
		if c := strings.Compare(la.File, lb.File); c != 0 {
			return c
		}
		if c := cmp.Compare(la.Line, lb.Line); c != 0 {
			return c
		}
		if c := cmp.Compare(la.Column, lb.Column); c != 0 {
			return c
		}
		if c := cmp.Compare(la.Length, lb.Length); c != 0 {
			return c
		}
	}
	if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
		return c
	}
	return strings.Compare(a.Text, b.Text)
}

type Source struct {
	Index uint32

	// This is used as a unique key to identify this source file. It's the path
	// that was passed on the command line, or "<stdin>". Never print it.
	KeyPath string

	// This is used for error messages and for the "sources" array of the
	// source map. It always uses forward slashes.
	PrettyPath string

	Contents string
}

func (s *Source) TextForRange(r Range) string {
	return s.Contents[r.Loc.Start : r.Loc.Start+r.Len]
}

func (s *Source) RangeOfOperatorBefore(loc Loc, op string) Range {
	text := s.Contents[:loc.Start]
	index := strings.LastIndex(text, op)
	if index >= 0 {
		return Range{Loc: Loc{Start: int32(index)}, Len: int32(len(op))}
	}
	return Range{Loc: loc}
}

func (s *Source) RangeOfString(loc Loc) Range {
	text := s.Contents[loc.Start:]
	if len(text) == 0 {
		return Range{Loc: loc, Len: 0}
	}

	quote := text[0]
	if quote == '"' || quote == '\'' {
		// Search for the matching quote character
		for i := 1; i < len(text); i++ {
			c := text[i]
			if c == quote {
				return Range{Loc: loc, Len: int32(i + 1)}
			} else if c == '\\' {
				i += 1
			}
		}
	}

	return Range{Loc: loc, Len: 0}
}

func plural(prefix string, count int) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, prefix)
	}
	return fmt.Sprintf("%d %ss", count, prefix)
}

func errorAndWarningSummary(errors int, warnings int) string {
	switch {
	case errors == 0:
		return plural("warning", warnings)
	case warnings == 0:
		return plural("error", errors)
	default:
		return fmt.Sprintf("%s and %s",
			plural("warning", warnings),
			plural("error", errors))
	}
}

type TerminalInfo struct {
	IsTTY           bool
	UseColorEscapes bool
	Width           int
	Height          int
}

type Colors struct {
	Reset     string
	Bold      string
	Dim       string
	Underline string

	Red     string
	Green   string
	Blue    string
	Cyan    string
	Magenta string
	Yellow  string
}

var TerminalColors = Colors{
	Reset:     "\033[0m",
	Bold:      "\033[1m",
	Dim:       "\033[37m",
	Underline: "\033[4m",

	Red:     "\033[31m",
	Green:   "\033[32m",
	Blue:    "\033[34m",
	Cyan:    "\033[36m",
	Magenta: "\033[35m",
	Yellow:  "\033[33m",
}

func hasNoColorEnvironmentVariable() bool {
	// https://no-color.org/
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

type StderrColor uint8

const (
	ColorIfTerminal StderrColor = iota
	ColorNever
	ColorAlways
)

type StderrOptions struct {
	IncludeSource bool
	ErrorLimit    int
	Color         StderrColor
	LogLevel      LogLevel
}

// NewStderrLog prints each message to stderr as soon as it is added, subject
// to the log level and the error limit.
func NewStderrLog(options StderrOptions) Log {
	terminalInfo := GetTerminalInfo(os.Stderr)
	switch options.Color {
	case ColorNever:
		terminalInfo.UseColorEscapes = false
	case ColorAlways:
		terminalInfo.UseColorEscapes = SupportsColorEscapes
	}
	return NewWriterLog(os.Stderr, terminalInfo, options)
}

// NewWriterLog is NewStderrLog for an arbitrary destination. The terminal
// info is used as-is, so "options.Color" is ignored.
func NewWriterLog(w io.Writer, terminalInfo TerminalInfo, options StderrOptions) Log {
	list := &msgList{}
	errors := 0
	warnings := 0
	limitHit := false

	write := func(text string) {
		io.WriteString(w, text)
	}

	// The threshold at which each kind of message is still printed
	visibleAt := map[MsgKind]LogLevel{
		Error:   LevelError,
		Warning: LevelWarning,
		Info:    LevelInfo,
		Debug:   LevelDebug,
	}

	list.onAdd = func(msg Msg) {
		if limitHit {
			return
		}
		switch msg.Kind {
		case Error:
			errors++
		case Warning:
			warnings++
		}
		if options.LogLevel <= visibleAt[msg.Kind] {
			write(msg.String(options, terminalInfo))
		}
		if options.ErrorLimit != 0 && errors >= options.ErrorLimit {
			limitHit = true
			if options.LogLevel <= LevelError {
				write(fmt.Sprintf("%s reached (disable error limit with --error-limit=0)\n",
					errorAndWarningSummary(errors, warnings)))
			}
		}
	}

	list.onDone = func() {
		if !limitHit && options.LogLevel <= LevelInfo && errors+warnings > 0 {
			write(errorAndWarningSummary(errors, warnings) + "\n")
		}
	}

	return list.log()
}

// NewDeferLog collects messages without printing anything
func NewDeferLog() Log {
	return (&msgList{}).log()
}

// msgList is the state shared by every kind of log. The hooks run with the
// lock held.
type msgList struct {
	mutex     sync.Mutex
	msgs      []Msg
	hasErrors bool
	onAdd     func(Msg)
	onDone    func()
}

func (l *msgList) log() Log {
	return Log{
		AddMsg: func(msg Msg) {
			l.mutex.Lock()
			defer l.mutex.Unlock()
			l.msgs = append(l.msgs, msg)
			if msg.Kind == Error {
				l.hasErrors = true
			}
			if l.onAdd != nil {
				l.onAdd(msg)
			}
		},
		HasErrors: func() bool {
			l.mutex.Lock()
			defer l.mutex.Unlock()
			return l.hasErrors
		},
		Done: func() []Msg {
			l.mutex.Lock()
			defer l.mutex.Unlock()
			if l.onDone != nil {
				l.onDone()
			}
			slices.SortStableFunc(l.msgs, compareMsgs)
			return l.msgs
		},
	}
}

func (msg Msg) String(options StderrOptions, terminalInfo TerminalInfo) string {
	var colors Colors
	if terminalInfo.UseColorEscapes {
		colors = TerminalColors
	}

	var kindColor string
	switch msg.Kind {
	case Error:
		kindColor = colors.Red
	case Warning:
		kindColor = colors.Magenta
	default:
		kindColor = colors.Blue
	}

	var sb strings.Builder
	sb.WriteString(colors.Bold)
	if loc := msg.Location; loc != nil {
		if options.IncludeSource {
			fmt.Fprintf(&sb, "%s:%d:%d: ", loc.File, loc.Line, loc.Column)
		} else {
			fmt.Fprintf(&sb, "%s: ", loc.File)
		}
	}
	fmt.Fprintf(&sb, "%s%s: %s%s%s%s\n", kindColor, msg.Kind, colors.Reset, colors.Bold, msg.Text, colors.Reset)

	if msg.Location != nil && options.IncludeSource {
		d := detailStruct(msg, terminalInfo)
		fmt.Fprintf(&sb, "%s%s%s%s%s\n", d.SourceBefore, colors.Green, d.SourceMarked, colors.Reset, d.SourceAfter)
		fmt.Fprintf(&sb, "%s%s%s%s%s\n", colors.Green, d.Indent, d.Marker, colors.Reset, d.ContentAfter)
	}
	return sb.String()
}

type MsgDetail struct {
	Path    string
	Line    int
	Column  int
	Kind    string
	Message string

	// Source == SourceBefore + SourceMarked + SourceAfter
	Source       string
	SourceBefore string
	SourceMarked string
	SourceAfter  string

	Indent string
	Marker string

	ContentAfter string
}

func isLineTerminator(c rune) bool {
	return c == '\r' || c == '\n' || c == '\u2028' || c == '\u2029'
}

// lineAt returns the 0-based line of "offset" along with the byte bounds of
// that line. A "\r\n" pair ends a single line.
func lineAt(contents string, offset int) (line int, lineStart int, lineEnd int) {
	offset = min(offset, len(contents))
	afterCR := false
	for i, c := range contents[:offset] {
		if isLineTerminator(c) {
			lineStart = i + utf8.RuneLen(c)
			if c != '\n' || !afterCR {
				line++
			}
		}
		afterCR = c == '\r'
	}

	lineEnd = len(contents)
	if i := strings.IndexFunc(contents[offset:], isLineTerminator); i != -1 {
		lineEnd = offset + i
	}
	return
}

func LocationOrNil(source *Source, r Range) *MsgLocation {
	if source == nil {
		return nil
	}
	offset := int(r.Loc.Start)
	line, lineStart, lineEnd := lineAt(source.Contents, offset)
	return &MsgLocation{
		File:     source.PrettyPath,
		Line:     line + 1,
		Column:   min(offset, len(source.Contents)) - lineStart,
		Length:   int(r.Len),
		LineText: source.Contents[lineStart:lineEnd],
	}
}

const spacesPerTab = 2

func detailStruct(msg Msg, terminalInfo TerminalInfo) MsgDetail {
	loc := *msg.Location

	// Only the first line of the line text is shown with a marker
	firstLine, afterFirstLine := loc.LineText, ""
	if i := strings.IndexFunc(loc.LineText, isLineTerminator); i != -1 {
		firstLine, afterFirstLine = loc.LineText[:i], loc.LineText[i:]
	}
	loc.Line = max(loc.Line, 0)
	loc.Column = min(max(loc.Column, 0), len(firstLine))
	loc.Length = min(max(loc.Length, 0), len(firstLine)-loc.Column)

	lineText := renderTabStops(firstLine)
	markerStart := len(renderTabStops(firstLine[:loc.Column]))
	markerEnd := markerStart
	if loc.Length > 0 {
		markerEnd = len(renderTabStops(firstLine[:loc.Column+loc.Length]))
	}
	markerStart = min(markerStart, len(lineText))
	markerEnd = min(max(markerEnd, markerStart), len(lineText))

	width := terminalInfo.Width
	if width < 1 {
		width = 80
	}
	if loc.Column == len(firstLine) {
		// Leave room for a "^" one past the end of the line
		width--
	}
	if len(lineText) > width {
		lineText, markerStart, markerEnd = fitToWidth(lineText, markerStart, markerEnd, width)
	}

	marker := "^"
	if markerEnd-markerStart > 1 {
		marker = strings.Repeat("~", markerEnd-markerStart)
	}

	return MsgDetail{
		Path:    loc.File,
		Line:    loc.Line,
		Column:  loc.Column,
		Kind:    msg.Kind.String(),
		Message: msg.Text,

		Source:       lineText,
		SourceBefore: lineText[:markerStart],
		SourceMarked: lineText[markerStart:markerEnd],
		SourceAfter:  lineText[markerEnd:],

		Indent: strings.Repeat(" ", markerStart),
		Marker: marker,

		ContentAfter: afterFirstLine,
	}
}

// fitToWidth cuts a window of "width" columns out of a long line, keeping
// the marked range in view. Cut ends are replaced with "...".
func fitToWidth(lineText string, markerStart int, markerEnd int, width int) (string, int, int) {
	start := (markerStart + markerEnd - width) / 2
	start = min(start, markerStart-width/5)
	start = max(start, 0)
	start = min(start, len(lineText)-width)
	end := start + width

	window := lineText[start:end]
	markerStart = max(markerStart-start, 0)
	markerEnd = min(markerEnd-start, len(window))

	if len(window) > 3 && start > 0 {
		window = "..." + window[3:]
		markerStart = max(markerStart, 3)
	}
	if len(window) > 3 && end < len(lineText) {
		window = window[:len(window)-3] + "..."
		markerEnd = max(min(markerEnd, len(window)-3), markerStart)
	}
	return window, markerStart, markerEnd
}

func renderTabStops(withTabs string) string {
	if !strings.ContainsRune(withTabs, '\t') {
		return withTabs
	}
	var sb strings.Builder
	column := 0
	for _, c := range withTabs {
		if c != '\t' {
			sb.WriteRune(c)
			column++
			continue
		}
		spaces := spacesPerTab - column%spacesPerTab
		sb.WriteString(strings.Repeat(" ", spaces))
		column += spaces
	}
	return sb.String()
}

func (log Log) add(kind MsgKind, source *Source, r Range, text string) {
	log.AddMsg(Msg{Kind: kind, Text: text, Location: LocationOrNil(source, r)})
}

func (log Log) AddError(source *Source, loc Loc, text string) {
	log.add(Error, source, Range{Loc: loc}, text)
}

func (log Log) AddWarning(source *Source, loc Loc, text string) {
	log.add(Warning, source, Range{Loc: loc}, text)
}

func (log Log) AddRangeError(source *Source, r Range, text string) {
	log.add(Error, source, r, text)
}

func (log Log) AddRangeWarning(source *Source, r Range, text string) {
	log.add(Warning, source, r, text)
}
