// Library to prompt on the terminal with a time budget: read one line from
// the interactive terminal but give up, instead of blocking forever, when no
// input arrives in time. Meant for CLIs that want to ask the user something
// yet must not hang when run unattended (automation, CI, headless).
//
// Unix waits for stdin readiness through select(2), Windows polls the
// console keystroke queue (with manual backspace handling), and platforms
// with neither facility go through a background reader goroutine.
package timedinput // import "fortio.org/timedinput"

import (
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"fortio.org/log"
	"fortio.org/safecast"
	"golang.org/x/term"
)

const (
	// DefaultTimeout is the time budget used by ReadLine when the caller
	// doesn't pick one.
	DefaultTimeout = 30 * time.Second
	// PollInterval is how long the active polling path (Windows console)
	// sleeps between "keystroke pending?" checks. Trade-off between CPU
	// usage and input latency, not caller configurable.
	PollInterval = 50 * time.Millisecond
)

// ErrTimeout is returned when the deadline passes without a completed line.
// Expected outcome, not a bug condition: catch it and supply a default.
var ErrTimeout = errors.New("timed out waiting for input")

// InterruptedError is returned when the user deliberately aborts the read
// (^C keystroke on the console polling path).
type InterruptedError struct {
	DetailedReason string
	OriginalError  error
}

func (e InterruptedError) Unwrap() error {
	return e.OriginalError
}

func (e InterruptedError) Error() string {
	if e.OriginalError != nil {
		return "input interrupted: " + e.DetailedReason + ": " + e.OriginalError.Error()
	}
	return "input interrupted: " + e.DetailedReason
}

func NewErrInterrupted(reason string) InterruptedError {
	return InterruptedError{DetailedReason: reason}
}

var ErrUserInterrupt = NewErrInterrupted("interrupt keystroke")

// Reader reads timed lines from In, echoing prompts to Out.
// The zero streams case is not supported, use NewReader or the package
// level functions which operate on os.Stdin/os.Stdout.
// A Reader assumes a single read in flight at a time, callers must
// serialize if used from multiple goroutines.
type Reader struct {
	In  *os.File
	Out io.Writer

	mu     sync.Mutex
	feeder *lineFeeder // lazily created, only on platforms without select or console polling
}

func NewReader(in *os.File, out io.Writer) *Reader {
	return &Reader{In: in, Out: out}
}

// ReadLine prompts and reads one line, waiting up to DefaultTimeout.
func (r *Reader) ReadLine(prompt string) (string, error) {
	return r.readLine(prompt, DefaultTimeout, false)
}

// ReadLineTimeout prompts and reads one line, waiting up to timeout.
// A timeout <= 0 performs one immediate non blocking check: it returns the
// line if one is already available and ErrTimeout otherwise, never blocking.
func (r *Reader) ReadLineTimeout(prompt string, timeout time.Duration) (string, error) {
	return r.readLine(prompt, timeout, false)
}

// ReadLineBlocking prompts and reads one line with no deadline.
func (r *Reader) ReadLineBlocking(prompt string) (string, error) {
	return r.readLine(prompt, 0, true)
}

// Close releases the background feeder goroutine on platforms that use one.
// No-op (nil error) elsewhere and when called more than once.
// It does not close the underlying stream.
func (r *Reader) Close() error {
	r.mu.Lock()
	f := r.feeder
	r.feeder = nil
	r.mu.Unlock()
	if f != nil {
		f.shutdown()
	}
	return nil
}

// IsTerminal returns whether the input stream is an interactive terminal.
func (r *Reader) IsTerminal() bool {
	return term.IsTerminal(safecast.MustConv[int](r.In.Fd()))
}

// FlushWriter is an io.Writer that buffers and can be flushed, e.g.
// bufio.Writer. Echoed output is flushed right away when Out implements it,
// so the prompt is visible before we start waiting.
type FlushWriter interface {
	io.Writer
	Flush() error
}

func (r *Reader) echo(s string) {
	if _, err := io.WriteString(r.Out, s); err != nil {
		log.Debugf("Echo write error: %v", err)
		return
	}
	if f, ok := r.Out.(FlushWriter); ok {
		if err := f.Flush(); err != nil {
			log.Debugf("Echo flush error: %v", err)
		}
	}
}

// trimEOL strips the trailing line feed and an optional carriage return
// preceding it. The returned line never contains the terminator.
func trimEOL(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

var stdio = NewReader(os.Stdin, os.Stdout)

// ReadLine reads one line from os.Stdin, waiting up to DefaultTimeout.
func ReadLine(prompt string) (string, error) {
	return stdio.ReadLine(prompt)
}

// ReadLineTimeout reads one line from os.Stdin, waiting up to timeout.
// See [Reader.ReadLineTimeout] for the timeout <= 0 semantics.
func ReadLineTimeout(prompt string, timeout time.Duration) (string, error) {
	return stdio.ReadLineTimeout(prompt, timeout)
}

// ReadLineBlocking reads one line from os.Stdin with no deadline.
func ReadLineBlocking(prompt string) (string, error) {
	return stdio.ReadLineBlocking(prompt)
}
