package timedinput

import (
	"strings"
	"time"

	"github.com/rivo/uniseg"
)

// keystrokeConsole is the "is a key pending? / consume one key" primitive of
// consoles that offer no generic blocking-with-timeout wait (Windows conio).
// Consuming a printable key also echoes it.
type keystrokeConsole interface {
	Pending() bool
	ReadChar() (rune, error)
}

const interruptKey = '\x03' // ^C (ETX)

// pollLine assembles a line by actively polling the console every
// PollInterval, handling echo, backspace and the interrupt key by hand
// since there is no line editing support in this mode. Busy polling with a
// bounded sleep is the documented CPU/latency trade-off here, there is no
// blocking wait to suspend in.
//
// Pending keys are always drained before the deadline check, so a
// timeout <= 0 still performs one immediate non blocking check and can
// return an already buffered line.
func (r *Reader) pollLine(con keystrokeConsole, prompt string, timeout time.Duration, blocking bool) (string, error) {
	r.echo(prompt)
	deadline := time.Now().Add(timeout) // monotonic
	var line []rune
	for {
		if con.Pending() {
			c, err := con.ReadChar()
			if err != nil {
				return "", err
			}
			switch c {
			case '\r', '\n':
				r.echo("\r\n")
				return string(line), nil
			case interruptKey:
				// Deliberate escape hatch, partial buffer is discarded.
				return "", ErrUserInterrupt
			case '\b':
				if len(line) > 0 {
					line = line[:len(line)-1]
				}
				r.redrawLine(prompt, string(line))
			default:
				// Console echo already displayed it.
				line = append(line, c)
			}
			continue
		}
		if !blocking && !time.Now().Before(deadline) {
			r.echo("\r\n")
			return "", ErrTimeout
		}
		time.Sleep(PollInterval)
	}
}

// redrawLine repaints prompt+line in place after a backspace: cursor to
// column start, blank out the old content plus the erased cell, cursor back,
// rewrite. Cover width is in display cells, not bytes.
func (r *Reader) redrawLine(prompt, line string) {
	cover := strings.Repeat(" ", uniseg.StringWidth(prompt+line)+1)
	r.echo("\r" + cover + "\r" + prompt + line)
}
