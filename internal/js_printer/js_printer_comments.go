package js_printer

import (
	"sort"
	"strings"

	"github.com/jsprint/jsprint/internal/helpers"
	"github.com/jsprint/jsprint/internal/js_ast"
	"github.com/jsprint/jsprint/internal/js_lexer"
	"github.com/jsprint/jsprint/internal/logger"
)

type legalComment struct {
	text    string
	loc     logger.Loc
	printed bool
}

// Comments are attached to the first token after them. Annotations are only
// kept when asked for, but legal comments are always kept.
func (p *printer) collectComments(comments []js_ast.Comment) {
	for _, comment := range comments {
		key := js_lexer.NextTokenLoc(p.source.Contents, comment.Range.End()).Start

		switch {
		case comment.Kind.IsAnnotation():
			if p.options.PreserveAnnotateComments {
				if p.annotations == nil {
					p.annotations = make(map[int32]js_ast.CommentKind)
				}
				p.annotations[key] = comment.Kind
			}

		case comment.Kind == js_ast.CommentLegal:
			text := comment.Text
			if strings.HasPrefix(text, "/*") && comment.Range.Loc.Start <= int32(len(p.source.Contents)) {
				text = helpers.RemoveMultiLineCommentIndent(p.source.Contents[:comment.Range.Loc.Start], text)
			}
			if p.legalCommentsByLoc == nil {
				p.legalCommentsByLoc = make(map[int32][]int)
			}
			p.legalCommentsByLoc[key] = append(p.legalCommentsByLoc[key], len(p.legalComments))
			p.legalComments = append(p.legalComments, legalComment{text: text, loc: comment.Range.Loc})
		}
	}
}

func (p *printer) takeAnnotation(loc logger.Loc, kind js_ast.CommentKind) bool {
	if found, ok := p.annotations[loc.Start]; ok && found == kind {
		delete(p.annotations, loc.Start)
		return true
	}
	return false
}

func (p *printer) printAnnotation(kind js_ast.CommentKind) {
	n := len(p.js)
	if n > 0 && p.js[n-1] == '/' {
		p.char(' ')
	}

	switch kind {
	case js_ast.CommentAnnotatePure:
		p.str("/* @__PURE__ */ ")
	case js_ast.CommentAnnotateNoSideEffects:
		p.str("/* @__NO_SIDE_EFFECTS__ */ ")
	}

	// Whatever was going to start here now starts after the comment
	end := len(p.js)
	if p.stmtStart == n {
		p.stmtStart = end
	}
	if p.exportDefaultStart == n {
		p.exportDefaultStart = end
	}
	if p.arrowBodyStart == n {
		p.arrowBodyStart = end
	}
	if p.forInitStart == n {
		p.forInitStart = end
	}
}

func (p *printer) printLegalCommentsBefore(loc logger.Loc) {
	indices, ok := p.legalCommentsByLoc[loc.Start]
	if !ok {
		return
	}
	delete(p.legalCommentsByLoc, loc.Start)
	for _, i := range indices {
		p.legalComments[i].printed = true
		p.printIndentedComment(p.legalComments[i].text)
	}
}

// Legal comments that weren't in front of a statement go at the end
func (p *printer) printRemainingLegalComments() {
	var remaining []legalComment
	for _, comment := range p.legalComments {
		if !comment.printed {
			remaining = append(remaining, comment)
		}
	}
	if len(remaining) == 0 {
		return
	}

	sort.SliceStable(remaining, func(i, j int) bool {
		return remaining[i].loc.Start < remaining[j].loc.Start
	})

	if n := len(p.js); n > 0 && p.js[n-1] != '\n' {
		p.char('\n')
	}
	for _, comment := range remaining {
		p.printIndentedComment(comment.text)
		if p.options.MinifyWhitespace && strings.HasPrefix(comment.text, "/*") {
			p.char('\n')
		}
	}
}

func (p *printer) printIndentedComment(text string) {
	// Avoid generating a comment containing the character sequence "</script"
	text = helpers.EscapeClosingTag(text, "/script")

	if strings.HasPrefix(text, "/*") {
		// Re-indent multi-line comments
		for {
			newline := strings.IndexByte(text, '\n')
			if newline == -1 {
				break
			}
			p.printIndent()
			p.str(text[:newline+1])
			text = text[newline+1:]
		}
		p.printIndent()
		p.str(text)
		p.softNewline()
	} else {
		// Print a mandatory newline after single-line comments
		p.printIndent()
		p.str(text)
		p.char('\n')
	}
}
