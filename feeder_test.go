package timedinput

import (
	"errors"
	"io"
	"os"
	"testing"
	"time"
)

func feederReader(t *testing.T) (*Reader, *os.File) {
	t.Helper()
	rd, wr, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	r := NewReader(rd, io.Discard)
	t.Cleanup(func() {
		r.Close()
		rd.Close()
		wr.Close()
	})
	return r, wr
}

func TestFeederReadLine(t *testing.T) {
	r, wr := feederReader(t)
	wr.WriteString("hello\n")
	got, err := r.feederReadLine("> ", time.Second, false)
	if err != nil || got != "hello" {
		t.Errorf("feederReadLine = %q, %v, want %q, nil", got, err, "hello")
	}
}

func TestFeederBlocking(t *testing.T) {
	r, wr := feederReader(t)
	go func() {
		time.Sleep(100 * time.Millisecond)
		wr.WriteString("later\n")
	}()
	got, err := r.feederReadLine("> ", 0, true)
	if err != nil || got != "later" {
		t.Errorf("feederReadLine blocking = %q, %v, want %q, nil", got, err, "later")
	}
}

func TestFeederTimeoutDiscardsStaleLine(t *testing.T) {
	r, wr := feederReader(t)
	_, err := r.feederReadLine("> ", 50*time.Millisecond, false)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("feederReadLine error = %v, want ErrTimeout", err)
	}
	// The line completing after the timeout is stale, the next call must
	// not return it.
	wr.WriteString("stale\n")
	time.Sleep(100 * time.Millisecond) // let the stale result land
	wr.WriteString("fresh\n")
	got, err := r.feederReadLine("> ", time.Second, false)
	if err != nil {
		t.Fatalf("feederReadLine error = %v, want nil", err)
	}
	if got != "fresh" {
		t.Errorf("feederReadLine = %q after timeout, want %q (stale line discarded)", got, "fresh")
	}
}

func TestFeederEOF(t *testing.T) {
	r, wr := feederReader(t)
	wr.Close()
	for i := 0; i < 2; i++ {
		_, err := r.feederReadLine("> ", time.Second, false)
		if !errors.Is(err, io.EOF) {
			t.Errorf("call %d: feederReadLine error = %v, want io.EOF", i, err)
		}
	}
}

func TestFeederPartialLastLine(t *testing.T) {
	r, wr := feederReader(t)
	wr.WriteString("no terminator")
	wr.Close()
	got, err := r.feederReadLine("> ", time.Second, false)
	if err != nil || got != "no terminator" {
		t.Errorf("feederReadLine = %q, %v, want %q, nil", got, err, "no terminator")
	}
}

func TestFeederClose(t *testing.T) {
	r, wr := feederReader(t)
	// Close with no feeder created yet.
	if err := r.Close(); err != nil {
		t.Errorf("Close without feeder = %v, want nil", err)
	}
	wr.WriteString("x\n")
	if _, err := r.feederReadLine("> ", time.Second, false); err != nil {
		t.Fatalf("feederReadLine error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close = %v, want nil", err)
	}
	// Idempotent.
	if err := r.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
}

func TestFeederCloseWithReadInFlight(t *testing.T) {
	r, _ := feederReader(t)
	_, err := r.feederReadLine("> ", 30*time.Millisecond, false)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("feederReadLine error = %v, want ErrTimeout", err)
	}
	// The background read is still blocked, Close must not hang on it.
	done := make(chan struct{})
	go func() {
		r.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("Close hung on an in flight read")
	}
}
