package helpers

import (
	"fmt"
	"path"
	"runtime"
	"strings"
)

// PrettyPrintedStack describes the calling goroutine's stack with one frame
// per line in the form "package.function (dir/file.go:line)".
func PrettyPrintedStack() string {
	pcs := make([]uintptr, 64)
	frames := runtime.CallersFrames(pcs[:runtime.Callers(2, pcs)])

	var sb strings.Builder
	for {
		frame, more := frames.Next()
		if frame.Function != "" {
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
			file := path.Join(path.Base(path.Dir(frame.File)), path.Base(frame.File))
			fmt.Fprintf(&sb, "%s (%s:%d)", path.Base(frame.Function), file, frame.Line)
		}
		if !more {
			break
		}
	}
	return sb.String()
}
