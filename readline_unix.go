//go:build unix

package timedinput

import (
	"bytes"
	"errors"
	"io"
	"syscall"
	"time"

	"fortio.org/log"
	"fortio.org/safecast"
	"golang.org/x/sys/unix"
)

// Unix: block in select(2) until stdin is readable or the budget is spent,
// then do a single buffered line read. The select registration is per call
// (an FdSet on the stack), nothing survives the return.
func (r *Reader) readLine(prompt string, timeout time.Duration, blocking bool) (string, error) {
	r.echo(prompt)
	fd := safecast.MustConv[int](r.In.Fd())
	deadline := time.Now().Add(timeout) // monotonic
	for {
		var tv *unix.Timeval
		if !blocking {
			remaining := time.Until(deadline)
			if remaining < 0 {
				remaining = 0
			}
			t := unix.NsecToTimeval(remaining.Nanoseconds())
			tv = &t
		}
		var readfds unix.FdSet
		readfds.Set(fd)
		n, err := unix.Select(fd+1, &readfds, nil, nil, tv)
		if errors.Is(err, syscall.EINTR) {
			log.LogVf("Interrupted select, retrying with remaining budget")
			continue
		}
		if err != nil {
			log.Errf("Select error: %v", err)
			return "", err
		}
		if n == 0 {
			// Move the cursor off the prompt line and make sure whatever
			// was half typed doesn't leak into the next read.
			r.echo("\n")
			r.drainPending(fd)
			return "", ErrTimeout
		}
		return r.consumeLine(fd)
	}
}

// consumeLine reads until the line feed. Select already reported the fd
// readable so the first read doesn't block; a terminal in canonical mode
// delivers whole lines anyway.
func (r *Reader) consumeLine(fd int) (string, error) {
	var data []byte
	buf := make([]byte, 4096)
	for {
		n, err := unix.Read(fd, buf)
		if n > 0 {
			data = append(data, buf[:n]...)
			if i := bytes.IndexByte(data, '\n'); i >= 0 {
				// Bytes past the terminator in the same chunk are beyond
				// the requested line (piped input), dropped like the
				// timeout branch drops pending input.
				return trimEOL(string(data[:i+1])), nil
			}
			continue
		}
		if err != nil {
			if errors.Is(err, syscall.EINTR) {
				continue
			}
			log.Errf("Read error after select readiness: %v", err)
			return "", err
		}
		// n == 0: EOF. A partial last line without terminator still counts.
		if len(data) > 0 {
			return string(data), nil
		}
		return "", io.EOF
	}
}

// drainPending discards input already buffered for the fd. On a terminal,
// half typed input sits in the line discipline's canonical mode buffer where
// reads can't see it until the line completes, so only tcflush gets rid of
// it. Pipes and redirected input have no such buffer and get a temporary
// non blocking read loop instead.
func (r *Reader) drainPending(fd int) {
	if r.IsTerminal() {
		if err := flushInput(fd); err != nil {
			log.Debugf("Input flush: %v", err)
		}
		return
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		log.Debugf("SetNonblock for input drain: %v", err)
		return
	}
	defer func() {
		if err := unix.SetNonblock(fd, false); err != nil {
			log.Debugf("SetNonblock restore: %v", err)
		}
	}()
	buf := make([]byte, 1024)
	for {
		n, err := unix.Read(fd, buf)
		if n <= 0 || err != nil {
			return
		}
		log.LogVf("Discarded %d pending input bytes on timeout", n)
	}
}
