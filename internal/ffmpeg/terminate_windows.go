//go:build windows

package ffmpeg

import (
	"os"
	"time"
)

// Terminate kills the process outright; Windows has no SIGTERM
// equivalent for console children. done must be closed by the owner
// once Wait has returned; Terminate blocks until then.
func Terminate(p *os.Process, done <-chan struct{}, grace time.Duration) {
	if p == nil {
		return
	}
	_ = p.Kill()
	<-done
}
