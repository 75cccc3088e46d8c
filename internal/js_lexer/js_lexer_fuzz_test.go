package js_lexer

import (
	"testing"

	"github.com/jsprint/jsprint/internal/logger"
	"github.com/jsprint/jsprint/internal/test"
)

func FuzzLexJS(f *testing.F) {
	f.Add([]byte(`var x = 1;`))
	f.Add([]byte("const x = `hello ${world}`"))
	f.Add([]byte(`'A\u{42}\x43\n\t'`))
	f.Add([]byte(`0x1F + 0o17 + 0b1010`))
	f.Add([]byte(`123_456_789n`))
	f.Add([]byte(`1.5e10 .5 5.`))
	f.Add([]byte(`#!/usr/bin/env node`))
	f.Add([]byte("// comment\n/* block comment */ /*! legal */ /* @__PURE__ */"))
	f.Add([]byte(`"\\""`))
	f.Add([]byte("a\u2028b<!--c\n-->d"))

	f.Fuzz(func(t *testing.T, data []byte) {
		defer func() {
			if r := recover(); r != nil {
				if _, ok := r.(LexerPanic); !ok {
					t.Fatalf("unexpected panic: %v", r)
				}
			}
		}()

		log := logger.NewDeferLog()
		source := test.SourceForTest(string(data))
		lexer := NewLexer(log, source)
		for lexer.Token != TEndOfFile {
			// The parser stops at the first syntax error, so the lexer is
			// never asked for another token after one
			if lexer.Token == TSyntaxError {
				break
			}
			lexer.Next()
		}

		// Comments must be recorded in order and must not overlap
		end := int32(0)
		for _, comment := range lexer.Comments {
			if comment.Range.Loc.Start < end {
				t.Fatalf("comment %q overlaps the previous one", comment.Text)
			}
			end = comment.Range.End()
		}
	})
}
