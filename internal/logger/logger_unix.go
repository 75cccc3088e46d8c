//go:build darwin || linux

package logger

import (
	"os"

	"golang.org/x/sys/unix"
)

const SupportsColorEscapes = true

// Only terminals have a window size, so this one ioctl answers both questions
func GetTerminalInfo(file *os.File) (info TerminalInfo) {
	if w, err := unix.IoctlGetWinsize(int(file.Fd()), unix.TIOCGWINSZ); err == nil {
		info.IsTTY = true
		info.UseColorEscapes = !hasNoColorEnvironmentVariable()
		info.Width = int(w.Col)
		info.Height = int(w.Row)
	}
	return
}
