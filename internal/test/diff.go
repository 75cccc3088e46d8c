package test

import (
	"strings"

	"github.com/jsprint/jsprint/internal/logger"
)

// Diff returns a line-by-line diff of two strings. Lines only in "old" are
// prefixed with "-", lines only in "new" with "+", and shared lines with " ".
func Diff(old string, new string, color bool) string {
	d := differ{color: color}
	d.diff(strings.Split(old, "\n"), strings.Split(new, "\n"))
	return strings.Join(d.lines, "\n")
}

type differ struct {
	lines []string
	color bool
}

func (d *differ) emit(prefix string, line string, lineColor string) {
	if d.color {
		d.lines = append(d.lines, lineColor+prefix+line+logger.TerminalColors.Reset)
	} else {
		d.lines = append(d.lines, prefix+line)
	}
}

// This is a simple recursive diff around the longest common run of lines
func (d *differ) diff(old []string, new []string) {
	o, n, common := longestCommonRun(old, new)

	if common == 0 {
		for _, line := range old {
			d.emit("-", line, logger.TerminalColors.Red)
		}
		for _, line := range new {
			d.emit("+", line, logger.TerminalColors.Green)
		}
		return
	}

	d.diff(old[:o], new[:n])
	for _, line := range old[o : o+common] {
		d.emit(" ", line, logger.TerminalColors.Dim)
	}
	d.diff(old[o+common:], new[n+common:])
}

// See https://en.wikipedia.org/wiki/Longest_common_substring_problem
func longestCommonRun(a []string, b []string) (int, int, int) {
	prev := make([]int, len(b))
	next := make([]int, len(b))
	longest, endA, endB := 0, 0, 0

	for i := range a {
		for j := range b {
			next[j] = 0
			if a[i] == b[j] {
				next[j] = 1
				if j > 0 {
					next[j] += prev[j-1]
				}
				if next[j] > longest {
					longest, endA, endB = next[j], i+1, j+1
				}
			}
		}
		prev, next = next, prev
	}

	return endA - longest, endB - longest, longest
}
