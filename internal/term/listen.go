package term

import (
	"os"
	"time"

	"golang.org/x/term"
)

// quit keys: q (QWERTY), a (AZERTY), Ctrl+C as a raw byte.
const (
	keyQuitQwerty = 'q'
	keyQuitAzerty = 'a'
	keyCtrlC      = 0x03
)

// QuitListener reads single keypresses from stdin in raw mode and invokes
// onQuit when a quit key is seen. It only works when stdin is a terminal,
// so the hotkey is naturally scoped to the focused terminal window.
type QuitListener struct {
	oldState *term.State
	stop     chan struct{}
	done     chan struct{}
}

// ListenForQuit puts stdin into raw mode and starts a goroutine that
// watches for the quit keys. Returns nil when stdin is not a terminal
// (the hotkey is then unavailable; callers fall back to SIGINT).
func ListenForQuit(onQuit func()) *QuitListener {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil
	}

	l := &QuitListener{
		oldState: oldState,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	go func() {
		defer close(l.done)
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			select {
			case <-l.stop:
				return
			default:
			}
			if err != nil {
				return
			}
			if n == 0 {
				continue
			}
			switch buf[0] {
			case keyQuitQwerty, keyQuitAzerty, keyCtrlC:
				onQuit()
				return
			}
		}
	}()

	return l
}

// Restore stops the listener and puts the terminal back into its
// original mode, so later code can read stdin normally (e.g. the
// deletion prompt). Safe to call on a nil listener and idempotent.
//
// The blocked read is unblocked with a read deadline; terminals are
// pollable so deadlines work on them. The deadline is cleared before
// returning.
func (l *QuitListener) Restore() {
	if l == nil || l.oldState == nil {
		return
	}
	close(l.stop)
	_ = os.Stdin.SetReadDeadline(time.Now())
	select {
	case <-l.done:
	case <-time.After(time.Second):
	}
	_ = os.Stdin.SetReadDeadline(time.Time{})
	_ = term.Restore(int(os.Stdin.Fd()), l.oldState)
	l.oldState = nil
}
