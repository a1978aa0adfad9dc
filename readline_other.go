//go:build !unix && !windows

package timedinput

import "time"

// Platforms with neither select(2) on stdin nor console keystroke polling
// (js/wasm, plan9) go through the background feeder goroutine.
func (r *Reader) readLine(prompt string, timeout time.Duration, blocking bool) (string, error) {
	return r.feederReadLine(prompt, timeout, blocking)
}
