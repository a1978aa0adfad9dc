package timedinput

import (
	"bufio"
	"errors"
	"io"
	"sync"
	"time"

	"fortio.org/log"
)

// lineResult carries one completed line read back from the feeder goroutine.
type lineResult struct {
	line string
	err  error
}

// lineFeeder owns a persistent background goroutine performing the blocking
// line reads on platforms where neither select(2) nor console keystroke
// polling exists. Each request triggers exactly one line read; the result is
// handed back over a channel so the caller can bound its wait with a timer.
type lineFeeder struct {
	requests chan struct{}
	results  chan lineResult
	stop     chan struct{}
	wg       sync.WaitGroup
	pending  bool // a requested read hasn't produced a consumed result yet
}

func newLineFeeder(in io.Reader) *lineFeeder {
	log.LogVf("Creating background line feeder")
	f := &lineFeeder{
		requests: make(chan struct{}, 1),
		results:  make(chan lineResult, 1),
		stop:     make(chan struct{}),
	}
	f.wg.Add(1)
	go f.loop(in)
	return f
}

func (f *lineFeeder) loop(in io.Reader) {
	defer f.wg.Done()
	defer close(f.results)
	br := bufio.NewReader(in)
	for {
		select {
		case <-f.stop:
			log.LogVf("Feeder exiting from stop")
			return
		case _, ok := <-f.requests:
			if !ok {
				log.LogVf("Feeder exiting from closed request channel")
				return
			}
		}
		line, err := br.ReadString('\n')
		select {
		case f.results <- lineResult{line: line, err: err}:
			if err != nil {
				log.LogVf("Feeder exiting after read error %v", err)
				return
			}
		case <-f.stop:
			return
		}
	}
}

// request signals the goroutine to perform one read. Non blocking: when the
// goroutine already exited (EOF or error) the request stays unconsumed and
// the closed results channel reports the condition instead.
func (f *lineFeeder) request() {
	select {
	case f.requests <- struct{}{}:
	default:
	}
}

// shutdown signals the goroutine to exit. When a read is in flight we can't
// wait for it (it only unblocks on the next input), the goroutine then exits
// on its own right after that read completes.
func (f *lineFeeder) shutdown() {
	close(f.stop)
	close(f.requests)
	if !f.pending {
		f.wg.Wait()
	}
}

// feederReadLine is the readiness wait built on the feeder: request a line,
// then wait for the result or the deadline, whichever comes first. A line
// completed after its call timed out is stale buffered input; it is
// discarded at the start of the next call rather than returned.
func (r *Reader) feederReadLine(prompt string, timeout time.Duration, blocking bool) (string, error) {
	r.echo(prompt)
	r.mu.Lock()
	if r.feeder == nil {
		r.feeder = newLineFeeder(r.In)
	}
	f := r.feeder
	r.mu.Unlock()
	if f.pending {
		select {
		case res, ok := <-f.results:
			if !ok {
				f.pending = false
				return "", io.EOF
			}
			log.LogVf("Discarding stale line from a timed out read: %q", res.line)
			if res.err != nil {
				// The feeder exited on that error, surface it now.
				f.pending = false
				return "", res.err
			}
			f.request()
		default:
			// Still blocked in the previous read, it will serve this call.
		}
	} else {
		f.request()
		f.pending = true
	}
	var res lineResult
	var ok bool
	if blocking {
		res, ok = <-f.results
	} else {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		select {
		case res, ok = <-f.results:
		case <-timer.C:
			r.echo("\n")
			return "", ErrTimeout
		}
	}
	f.pending = false
	if !ok {
		return "", io.EOF
	}
	if res.err != nil {
		if errors.Is(res.err, io.EOF) && res.line != "" {
			// Last line of the stream without terminator still counts.
			return res.line, nil
		}
		return "", res.err
	}
	return trimEOL(res.line), nil
}
