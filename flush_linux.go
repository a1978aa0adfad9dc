//go:build linux

package timedinput

import "golang.org/x/sys/unix"

// flushInput discards input queued on the terminal, including what the line
// discipline holds for an unfinished line.
func flushInput(fd int) error {
	return unix.IoctlSetInt(fd, unix.TCFLSH, unix.TCIFLUSH)
}
