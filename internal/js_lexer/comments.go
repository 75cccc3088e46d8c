package js_lexer

import (
	"strings"
	"unicode/utf8"

	"github.com/jsprint/jsprint/internal/js_ast"
	"github.com/jsprint/jsprint/internal/logger"
)

func (lexer *Lexer) addComment(kind js_ast.CommentKind) {
	text := lexer.Raw()
	kind = classifyComment(kind, text)
	if kind == js_ast.CommentAnnotatePure {
		lexer.HasPureCommentBefore = true
	}
	lexer.Comments = append(lexer.Comments, js_ast.Comment{
		Range: lexer.Range(),
		Kind:  kind,
		Text:  text,
	})
}

// classifyComment upgrades a plain line or block comment to a legal comment
// or an annotation based on its contents
func classifyComment(kind js_ast.CommentKind, text string) js_ast.CommentKind {
	if len(text) > 2 && text[2] == '!' {
		return js_ast.CommentLegal
	}

	for i, n := 0, len(text); i < n; i++ {
		switch text[i] {
		case '@', '#':
			rest := text[i+1:]
			if hasPrefixWithWordBoundary(rest, "__PURE__") {
				return js_ast.CommentAnnotatePure
			}
			if hasPrefixWithWordBoundary(rest, "__NO_SIDE_EFFECTS__") {
				return js_ast.CommentAnnotateNoSideEffects
			}
			if text[i] == '@' && (hasPrefixWithWordBoundary(rest, "license") || hasPrefixWithWordBoundary(rest, "preserve")) {
				return js_ast.CommentLegal
			}
		}
	}

	return kind
}

func hasPrefixWithWordBoundary(text string, prefix string) bool {
	if !strings.HasPrefix(text, prefix) {
		return false
	}
	if len(text) == len(prefix) {
		return true
	}
	c, _ := utf8.DecodeRuneInString(text[len(prefix):])
	return !isIdentifierContinueASCII(c)
}

func isIdentifierContinueASCII(c rune) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// NextTokenLoc returns the location of the first token that starts at or
// after "offset", skipping whitespace and comments. Annotations and legal
// comments are attached to the token that follows them.
func NextTokenLoc(contents string, offset int32) logger.Loc {
	i := int(offset)
	for i < len(contents) {
		c, width := utf8.DecodeRuneInString(contents[i:])
		switch {
		case js_ast.IsLineTerminator(c) || js_ast.IsWhitespace(c):
			i += width

		case strings.HasPrefix(contents[i:], "//"):
			for i < len(contents) {
				c, width := utf8.DecodeRuneInString(contents[i:])
				if js_ast.IsLineTerminator(c) {
					break
				}
				i += width
			}

		case strings.HasPrefix(contents[i:], "/*"):
			end := strings.Index(contents[i+2:], "*/")
			if end < 0 {
				return logger.Loc{Start: int32(len(contents))}
			}
			i += end + 4

		default:
			return logger.Loc{Start: int32(i)}
		}
	}
	return logger.Loc{Start: int32(len(contents))}
}
