package analysis

import (
	"os"
	"sync"
	"time"

	"github.com/Cylae/vcheck/internal/ffmpeg"
)

// procHandle pairs a live verifier process with a channel the owning
// worker closes once Wait has returned. Terminating code blocks on the
// channel instead of calling Wait itself, so the process is reaped
// exactly once.
type procHandle struct {
	proc *os.Process
	done chan struct{}
}

// Registry tracks every live verifier process so a stop request can
// terminate all of them without consulting the workers. Workers
// register a process immediately after spawning it and deregister it
// after reaping.
type Registry struct {
	mu    sync.Mutex
	procs map[*procHandle]struct{}
}

func NewRegistry() *Registry {
	return &Registry{procs: make(map[*procHandle]struct{})}
}

func (r *Registry) register(p *os.Process) *procHandle {
	h := &procHandle{proc: p, done: make(chan struct{})}
	r.mu.Lock()
	r.procs[h] = struct{}{}
	r.mu.Unlock()
	return h
}

// deregister is a no-op for handles already removed by KillAll.
func (r *Registry) deregister(h *procHandle) {
	r.mu.Lock()
	delete(r.procs, h)
	r.mu.Unlock()
}

// Len reports the number of currently registered processes.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.procs)
}

// KillAll terminates every registered process and waits for each to be
// reaped. The registry is snapshotted up front: workers may deregister
// concurrently while the terminations run, and late registrations after
// the snapshot are the workers' own responsibility (they observe the
// stop token themselves).
func (r *Registry) KillAll(grace time.Duration) {
	r.mu.Lock()
	snapshot := make([]*procHandle, 0, len(r.procs))
	for h := range r.procs {
		snapshot = append(snapshot, h)
		delete(r.procs, h)
	}
	r.mu.Unlock()

	var wg sync.WaitGroup
	for _, h := range snapshot {
		wg.Add(1)
		go func(h *procHandle) {
			defer wg.Done()
			ffmpeg.Terminate(h.proc, h.done, grace)
		}(h)
	}
	wg.Wait()
}
