package analysis

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// analyzeFunc adapts a plain function to the Analyzer interface for
// pool tests that don't need real processes.
type analyzeFunc func(Task) Verdict

func (f analyzeFunc) Analyze(task Task) Verdict { return f(task) }

func makeTasks(n int) []Task {
	tasks := make([]Task, n)
	for i := range tasks {
		tasks[i] = Task{Path: fmt.Sprintf("/media/file-%02d.mkv", i)}
	}
	return tasks
}

func newTestPool(workers int) *Pool {
	return &Pool{
		Workers: workers,
		Stop:    NewController(NewRegistry()),
		Log:     zerolog.Nop(),
	}
}

func TestRun_OneVerdictPerTask(t *testing.T) {
	p := newTestPool(3)
	tasks := makeTasks(10)

	verdicts := p.Run(analyzeFunc(func(task Task) Verdict {
		return healthyVerdict(task.Path)
	}), tasks)

	require.Len(t, verdicts, len(tasks))
	seen := make(map[string]bool)
	for _, v := range verdicts {
		seen[v.Path] = true
	}
	for _, task := range tasks {
		assert.True(t, seen[task.Path], "missing verdict for %s", task.Path)
	}
}

func TestRun_NoTasks(t *testing.T) {
	p := newTestPool(4)
	assert.Nil(t, p.Run(analyzeFunc(func(task Task) Verdict {
		t.Error("analyzer must not be called")
		return Verdict{}
	}), nil))
}

func TestRun_PanicInOneTaskDoesNotPoisonBatch(t *testing.T) {
	p := newTestPool(2)
	tasks := makeTasks(6)

	verdicts := p.Run(analyzeFunc(func(task Task) Verdict {
		if task.Path == tasks[2].Path {
			panic("boom")
		}
		return corruptedVerdict(task.Path)
	}), tasks)

	require.Len(t, verdicts, len(tasks)-1)
	for _, v := range verdicts {
		assert.NotEqual(t, tasks[2].Path, v.Path)
	}
}

func TestRun_ProgressReachesTotal(t *testing.T) {
	p := newTestPool(4)
	tasks := makeTasks(8)

	var last atomic.Int64
	p.OnProgress = func(done, total int) {
		assert.Equal(t, len(tasks), total)
		assert.Equal(t, int(last.Load())+1, done, "progress must be monotonic")
		last.Store(int64(done))
	}

	p.Run(analyzeFunc(func(task Task) Verdict {
		return healthyVerdict(task.Path)
	}), tasks)

	assert.Equal(t, int64(len(tasks)), last.Load())
}

func TestRun_StopDiscardsPartialResults(t *testing.T) {
	p := newTestPool(2)
	tasks := makeTasks(20)

	started := make(chan struct{}, len(tasks))
	verdicts := p.Run(analyzeFunc(func(task Task) Verdict {
		started <- struct{}{}
		select {
		case <-p.Stop.Done():
			return cancelledVerdict(task.Path)
		case <-time.After(10 * time.Second):
			return healthyVerdict(task.Path)
		}
	}), tasksAfterStop(p, tasks, started))

	assert.Nil(t, verdicts, "aborted run must not surface partial results")
	assert.True(t, p.Stop.Stopped())
}

// tasksAfterStop arms a stop request once the first task has started.
func tasksAfterStop(p *Pool, tasks []Task, started <-chan struct{}) []Task {
	go func() {
		<-started
		p.Stop.Stop()
	}()
	return tasks
}

func TestRun_MixedBatch(t *testing.T) {
	p := newTestPool(3)
	tasks := makeTasks(5)

	verdicts := p.Run(analyzeFunc(func(task Task) Verdict {
		switch task.Path {
		case tasks[1].Path:
			return corruptedVerdict(task.Path)
		case tasks[3].Path:
			return Verdict{Path: task.Path, Corrupted: true, Reason: TimeoutReason(300)}
		default:
			return healthyVerdict(task.Path)
		}
	}), tasks)

	require.Len(t, verdicts, len(tasks))

	corrupted := Finalize(verdicts)
	require.Len(t, corrupted, 2)
	assert.Equal(t, tasks[1].Path, corrupted[0].Path)
	assert.Equal(t, ReasonCorruption, corrupted[0].Reason)
	assert.Equal(t, tasks[3].Path, corrupted[1].Path)
	assert.Equal(t, TimeoutReason(300), corrupted[1].Reason)

	assert.Equal(t, 3, CountHealthy(verdicts))
}

func TestController_StopIsIdempotent(t *testing.T) {
	c := NewController(NewRegistry())

	assert.False(t, c.Stopped())
	select {
	case <-c.Done():
		t.Fatal("done channel closed before Stop")
	default:
	}

	c.Stop()
	c.Stop()

	assert.True(t, c.Stopped())
	select {
	case <-c.Done():
	default:
		t.Fatal("done channel must be closed after Stop")
	}
}
