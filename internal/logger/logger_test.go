package logger_test

import (
	"strings"
	"testing"

	"github.com/jsprint/jsprint/internal/logger"
	"github.com/jsprint/jsprint/internal/test"
)

func TestMsgString(t *testing.T) {
	source := test.SourceForTest("let x = 1;\nlet y = @;\n")
	log := logger.NewDeferLog()
	log.AddRangeError(&source, logger.Range{Loc: logger.Loc{Start: 19}, Len: 1}, "Unexpected \"@\"")
	msgs := log.Done()

	test.AssertEqual(t, len(msgs), 1)
	test.AssertEqual(t, log.HasErrors(), true)
	test.AssertEqualWithDiff(t, msgs[0].String(logger.StderrOptions{IncludeSource: true}, logger.TerminalInfo{}),
		"<stdin>:2:8: error: Unexpected \"@\"\nlet y = @;\n        ^\n")
	test.AssertEqualWithDiff(t, msgs[0].String(logger.StderrOptions{}, logger.TerminalInfo{}),
		"<stdin>: error: Unexpected \"@\"\n")
}

func TestMsgStringRange(t *testing.T) {
	source := test.SourceForTest("\tfoo(bar)")
	log := logger.NewDeferLog()
	log.AddRangeWarning(&source, logger.Range{Loc: logger.Loc{Start: 5}, Len: 3}, "Suspicious use of \"bar\"")
	msgs := log.Done()

	test.AssertEqual(t, log.HasErrors(), false)
	test.AssertEqualWithDiff(t, msgs[0].String(logger.StderrOptions{IncludeSource: true}, logger.TerminalInfo{}),
		"<stdin>:1:5: warning: Suspicious use of \"bar\"\n  foo(bar)\n      ~~~\n")
}

func TestMsgWithoutLocation(t *testing.T) {
	msg := logger.Msg{Kind: logger.Error, Text: "Internal error"}
	test.AssertEqualWithDiff(t, msg.String(logger.StderrOptions{}, logger.TerminalInfo{}), "error: Internal error\n")
}

func TestMsgSortOrder(t *testing.T) {
	source := test.SourceForTest("a\nb\nc")
	log := logger.NewDeferLog()
	log.AddError(&source, logger.Loc{Start: 4}, "third")
	log.AddWarning(&source, logger.Loc{Start: 2}, "second")
	log.AddMsg(logger.Msg{Kind: logger.Error, Text: "first"})
	msgs := log.Done()

	test.AssertEqual(t, len(msgs), 3)
	test.AssertEqual(t, msgs[0].Text, "first")
	test.AssertEqual(t, msgs[1].Text, "second")
	test.AssertEqual(t, msgs[2].Text, "third")
}

func TestRangeOfString(t *testing.T) {
	source := test.SourceForTest(`x = 'a\'b' + "c"`)
	test.AssertEqual(t, source.RangeOfString(logger.Loc{Start: 4}), logger.Range{Loc: logger.Loc{Start: 4}, Len: 6})
	test.AssertEqual(t, source.RangeOfString(logger.Loc{Start: 13}), logger.Range{Loc: logger.Loc{Start: 13}, Len: 3})
	test.AssertEqual(t, source.RangeOfString(logger.Loc{Start: 0}), logger.Range{Loc: logger.Loc{Start: 0}, Len: 0})
}

func TestWriterLog(t *testing.T) {
	source := test.SourceForTest("a b c d")
	var out strings.Builder
	log := logger.NewWriterLog(&out, logger.TerminalInfo{}, logger.StderrOptions{ErrorLimit: 2, LogLevel: logger.LevelInfo})
	log.AddError(&source, logger.Loc{Start: 2}, "first")
	log.AddError(&source, logger.Loc{Start: 4}, "second")
	log.AddError(&source, logger.Loc{Start: 6}, "third")
	msgs := log.Done()

	// Everything is kept even after the limit silences the output
	test.AssertEqual(t, len(msgs), 3)
	test.AssertEqualWithDiff(t, out.String(),
		"<stdin>: error: first\n"+
			"<stdin>: error: second\n"+
			"2 errors reached (disable error limit with --error-limit=0)\n")
}

func TestWriterLogSummary(t *testing.T) {
	var out strings.Builder
	log := logger.NewWriterLog(&out, logger.TerminalInfo{}, logger.StderrOptions{LogLevel: logger.LevelWarning})
	log.AddMsg(logger.Msg{Kind: logger.Info, Text: "hidden"})
	log.AddMsg(logger.Msg{Kind: logger.Warning, Text: "shown"})
	log.Done()
	test.AssertEqualWithDiff(t, out.String(), "warning: shown\n")

	out.Reset()
	log = logger.NewWriterLog(&out, logger.TerminalInfo{}, logger.StderrOptions{LogLevel: logger.LevelInfo})
	log.AddMsg(logger.Msg{Kind: logger.Warning, Text: "a"})
	log.AddMsg(logger.Msg{Kind: logger.Error, Text: "b"})
	log.Done()
	test.AssertEqualWithDiff(t, out.String(), "warning: a\nerror: b\n1 warning and 1 error\n")
}

func TestMsgStringLongLine(t *testing.T) {
	source := test.SourceForTest(strings.Repeat("a", 50) + "@" + strings.Repeat("b", 50))
	log := logger.NewDeferLog()
	log.AddError(&source, logger.Loc{Start: 50}, "Unexpected \"@\"")
	msgs := log.Done()

	text := msgs[0].String(logger.StderrOptions{IncludeSource: true}, logger.TerminalInfo{Width: 20})
	lines := strings.Split(text, "\n")
	test.AssertEqual(t, len(lines[1]), 20)
	test.AssertEqual(t, strings.HasPrefix(lines[1], "..."), true)
	test.AssertEqual(t, strings.HasSuffix(lines[1], "..."), true)
	test.AssertEqual(t, lines[1][len(lines[2])-1], byte('@'))
}
