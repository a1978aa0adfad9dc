//go:build windows

package timedinput

import (
	"io"
	"os"
	"time"

	"fortio.org/log"
	"fortio.org/safecast"
	"golang.org/x/sys/windows"
	"golang.org/x/term"
)

// Console keystroke procs from the C runtime, resolved lazily, once.
var (
	modmsvcrt   = windows.NewLazySystemDLL("msvcrt.dll")
	procKbhit   = modmsvcrt.NewProc("_kbhit")
	procGetwche = modmsvcrt.NewProc("_getwche")
)

// Probed once at load: _kbhit only works against a real console, not
// redirected stdin.
var stdinIsConsole = term.IsTerminal(int(os.Stdin.Fd()))

type conioConsole struct{}

func (conioConsole) Pending() bool {
	hit, _, _ := procKbhit.Call()
	return hit != 0
}

const weof = 0xFFFF

// ReadChar consumes one pending wide keystroke, echoing it (the "e" in
// _getwche). Only call after Pending() returned true or it blocks.
func (conioConsole) ReadChar() (rune, error) {
	c, _, _ := procGetwche.Call()
	if uint16(c) == weof {
		return 0, io.EOF
	}
	return rune(uint16(c)), nil
}

func (r *Reader) isConsole() bool {
	if r.In == os.Stdin {
		return stdinIsConsole
	}
	return term.IsTerminal(safecast.MustConv[int](r.In.Fd()))
}

func (r *Reader) readLine(prompt string, timeout time.Duration, blocking bool) (string, error) {
	if !r.isConsole() {
		log.LogVf("Input is not a console, using background feeder")
		return r.feederReadLine(prompt, timeout, blocking)
	}
	return r.pollLine(conioConsole{}, prompt, timeout, blocking)
}
