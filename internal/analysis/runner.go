package analysis

import (
	"errors"
	"os/exec"
	"time"

	"github.com/rs/zerolog"

	"github.com/Cylae/vcheck/internal/cache"
	"github.com/Cylae/vcheck/internal/ffmpeg"
)

// Analyzer produces a verdict for one task. Implementations must be
// safe for concurrent use; the pool calls Analyze from many goroutines.
type Analyzer interface {
	Analyze(task Task) Verdict
}

// Runner analyzes files by spawning one verifier process per task and
// classifying its exit. It implements [Analyzer].
type Runner struct {
	Bin      string        // Verifier binary, already resolved via the dependency check.
	Stager   *cache.Stager // Required when any task has UseCache set.
	Stop     *Controller
	Registry *Registry
	Timeout  time.Duration // Per-file wall clock limit; 0 means unbounded.
	Grace    time.Duration // Termination grace; 0 means GracePeriod.
	Log      zerolog.Logger
}

// Analyze stages the file if requested, runs the verifier against it
// and waits for whichever comes first: process exit, a stop request, or
// the per-file timeout. The staged copy is always removed before
// returning, and the process is always reaped.
func (r *Runner) Analyze(task Task) Verdict {
	target := task.Path
	if task.UseCache {
		local, err := r.Stager.Stage(task.Path)
		if err != nil {
			// The verifier never ran; no process to clean up.
			return Verdict{Path: task.Path, Corrupted: true, Reason: CopyErrorReason(err)}
		}
		defer func() {
			if err := r.Stager.Unstage(local); err != nil {
				r.Log.Warn().Err(err).Str("staged", local).Msg("could not remove staged copy")
			}
		}()
		target = local
	}

	cmd := ffmpeg.VerifyCmd(r.Bin, target)
	if err := cmd.Start(); err != nil {
		if r.Stop.Stopped() {
			return cancelledVerdict(task.Path)
		}
		return Verdict{Path: task.Path, Corrupted: true, Reason: UnexpectedErrorReason(err)}
	}

	h := r.Registry.register(cmd.Process)
	defer r.Registry.deregister(h)

	// The spawning worker is the only caller of Wait. Everyone else
	// (Terminate, KillAll) blocks on h.done instead.
	waitCh := make(chan error, 1)
	go func() {
		err := cmd.Wait()
		close(h.done)
		waitCh <- err
	}()

	var timeoutCh <-chan time.Time
	if r.Timeout > 0 {
		timer := time.NewTimer(r.Timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	select {
	case err := <-waitCh:
		return r.classifyExit(task.Path, err)

	case <-r.Stop.Done():
		ffmpeg.Terminate(cmd.Process, h.done, r.grace())
		<-waitCh
		return cancelledVerdict(task.Path)

	case <-timeoutCh:
		r.Log.Warn().Str("file", task.Path).Dur("timeout", r.Timeout).Msg("verification timed out")
		ffmpeg.Terminate(cmd.Process, h.done, r.grace())
		<-waitCh
		return Verdict{
			Path:      task.Path,
			Corrupted: true,
			Reason:    TimeoutReason(int(r.Timeout / time.Second)),
		}
	}
}

// classifyExit maps the verifier's exit status to a verdict. A nonzero
// exit normally means corruption, but when a stop request is pending
// the process was likely killed by the bulk cleanup, which says nothing
// about the file.
func (r *Runner) classifyExit(path string, err error) Verdict {
	if err == nil {
		return healthyVerdict(path)
	}
	if r.Stop.Stopped() {
		return cancelledVerdict(path)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return corruptedVerdict(path)
	}
	return Verdict{Path: path, Corrupted: true, Reason: UnexpectedErrorReason(err)}
}

func (r *Runner) grace() time.Duration {
	if r.Grace > 0 {
		return r.Grace
	}
	return GracePeriod
}
