package main

import (
	"os"
	"syscall"
	"unsafe"

	"github.com/pkg/term/termios"
)

// winsize mirrors struct winsize from <sys/ioctl.h>, the layout
// TIOCGWINSZ fills in.
type winsize struct {
	Row uint16
	Col uint16
	X   uint16
	Y   uint16
}

const defaultTerminalWidth = 100

// terminalWidth returns stdout's column count, or defaultTerminalWidth
// when stdout is not a terminal (piped output, CI logs) or the ioctl
// fails.
func terminalWidth() int {
	var ws winsize
	_, _, errno := syscall.Syscall(syscall.SYS_IOCTL, os.Stdout.Fd(),
		uintptr(syscall.TIOCGWINSZ),
		uintptr(unsafe.Pointer(&ws)))
	if errno != 0 || ws.Col == 0 {
		return defaultTerminalWidth
	}
	return int(ws.Col)
}

// isTerminal reports whether stdout is attached to a real terminal,
// gating whether the report table and the logger's stderr sink should
// colorize at all. A plain file or pipe has no termios attributes to
// fetch, so Tcgetattr failing is exactly the signal needed here.
func isTerminal() bool {
	var attr syscall.Termios
	return termios.Tcgetattr(os.Stdout.Fd(), &attr) == nil
}
