package helpers

import (
	"strings"
	"unicode/utf8"
)

// RemoveMultiLineCommentIndent strips the indentation a block comment had in
// the original source so it can be re-indented at its new nesting level.
// "prefix" is the source text before the comment. The column the comment
// started at is an upper bound on how much is removed from later lines.
func RemoveMultiLineCommentIndent(prefix string, text string) string {
	lineStart := 0
	for i, c := range prefix {
		if c == '\r' || c == '\n' || c == '\u2028' || c == '\u2029' {
			lineStart = i + utf8.RuneLen(c)
		}
	}
	column := utf8.RuneCountInString(prefix[lineStart:])

	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := splitCommentLines(text)

	indent := column
	for _, line := range lines[1:] {
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		indent = min(indent, n)
	}
	for i := 1; i < len(lines); i++ {
		lines[i] = lines[i][indent:]
	}
	return strings.Join(lines, "\n")
}

func splitCommentLines(text string) []string {
	var lines []string
	start := 0
	for i, c := range text {
		switch c {
		case '\r', '\n':
			lines = append(lines, text[start:i])
			start = i + 1
		case '\u2028', '\u2029':
			lines = append(lines, text[start:i])
			start = i + 3
		}
	}
	return append(lines, text[start:])
}

// EscapeClosingTag turns every case-insensitive "</tag" into "<\/tag" so the
// text can't end an enclosing HTML element
func EscapeClosingTag(text string, slashTag string) string {
	if slashTag == "" || !strings.Contains(text, "</") {
		return text
	}
	sb := strings.Builder{}
	for {
		i := strings.Index(text, "</")
		if i == -1 {
			break
		}
		sb.WriteString(text[:i+1])
		text = text[i+1:]
		if len(text) >= len(slashTag) && strings.EqualFold(text[:len(slashTag)], slashTag) {
			sb.WriteByte('\\')
		}
	}
	sb.WriteString(text)
	return sb.String()
}
