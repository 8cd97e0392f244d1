//go:build !windows

package ffmpeg

import (
	"os"
	"syscall"
	"time"
)

// Terminate asks the process to exit with SIGTERM and escalates to
// SIGKILL when it has not exited within grace. done must be closed by
// the owner once Wait has returned; Terminate blocks until then, so the
// caller gets a fully reaped process. Safe to call on an already-exited
// process (signal errors are ignored).
func Terminate(p *os.Process, done <-chan struct{}, grace time.Duration) {
	if p == nil {
		return
	}

	_ = p.Signal(syscall.SIGTERM)

	select {
	case <-done:
		return
	case <-time.After(grace):
	}

	_ = p.Kill()
	<-done
}
