//go:build unix && !linux

package timedinput

import "golang.org/x/sys/unix"

// flushInput discards input queued on the terminal, including what the line
// discipline holds for an unfinished line. The BSDs (and darwin) spell the
// tcflush ioctl TIOCFLUSH with an FREAD/FWRITE mask argument.
func flushInput(fd int) error {
	return unix.IoctlSetPointerInt(fd, unix.TIOCFLUSH, unix.FREAD)
}
