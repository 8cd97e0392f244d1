package analysis

import (
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Pool runs analysis tasks across a bounded set of worker goroutines
// and collects the verdicts.
type Pool struct {
	Workers int
	Stop    *Controller
	Log     zerolog.Logger

	// OnProgress, when set, is called after each completed task with the
	// number of tasks finished so far and the total. Called from the
	// collecting goroutine only.
	OnProgress func(done, total int)
}

// outcome is the per-task envelope carried from worker to collector. A
// non-nil err means the analyzer itself failed (panicked); the task
// produced no verdict but the rest of the batch is unaffected.
type outcome struct {
	verdict Verdict
	err     error
}

// Run analyzes every task and returns the verdicts, in completion
// order. On cancellation it terminates all running verifiers, waits for
// the workers to wind down and returns nil: partial results from an
// aborted scan are deliberately discarded.
func (p *Pool) Run(an Analyzer, tasks []Task) []Verdict {
	total := len(tasks)
	if total == 0 {
		return nil
	}

	workers := p.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > total {
		workers = total
	}

	taskCh := make(chan Task)
	// Buffered to the task count so workers can always hand off their
	// outcome, even after the collector has stopped harvesting.
	results := make(chan outcome, total)

	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for task := range taskCh {
				results <- p.runOne(an, task)
			}
			return nil
		})
	}

	// Feeder. Stops handing out work as soon as a stop is requested;
	// tasks already picked up run to their (cancelled) verdict.
	go func() {
		defer close(taskCh)
		for _, t := range tasks {
			select {
			case taskCh <- t:
			case <-p.Stop.Done():
				return
			}
		}
	}()

	verdicts := make([]Verdict, 0, total)
	finished := 0
	aborted := false

harvest:
	for finished < total {
		select {
		case out := <-results:
			finished++
			if out.err != nil {
				p.Log.Error().Err(out.err).Msg("analysis task failed")
			} else {
				verdicts = append(verdicts, out.verdict)
			}
			if p.OnProgress != nil {
				p.OnProgress(finished, total)
			}
			if p.Stop.Stopped() {
				aborted = true
				break harvest
			}
		case <-p.Stop.Done():
			aborted = true
			break harvest
		}
	}

	if aborted {
		p.Stop.CleanupRunning()
		_ = g.Wait()
		p.Log.Info().Msg("analysis aborted, partial results discarded")
		return nil
	}

	_ = g.Wait()
	return verdicts
}

// runOne shields the batch from a misbehaving analyzer: a panic is
// converted into an error outcome instead of taking the process down.
func (p *Pool) runOne(an Analyzer, task Task) (out outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			out = outcome{err: fmt.Errorf("analyzer panic on %s: %v", task.Path, rec)}
		}
	}()
	return outcome{verdict: an.Analyze(task)}
}
