package analysis

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cylae/vcheck/internal/cache"
)

// writeScript drops an executable shell script to use as a fake
// verifier binary.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake verifier scripts require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fake-verifier")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func newTestRunner(bin string) *Runner {
	reg := NewRegistry()
	return &Runner{
		Bin:      bin,
		Stop:     NewController(reg),
		Registry: reg,
		Grace:    200 * time.Millisecond,
		Log:      zerolog.Nop(),
	}
}

func TestAnalyze_Healthy(t *testing.T) {
	r := newTestRunner(writeScript(t, "exit 0"))

	v := r.Analyze(Task{Path: "/media/a.mkv"})

	assert.False(t, v.Corrupted)
	assert.Equal(t, ReasonHealthy, v.Reason)
	assert.Equal(t, "/media/a.mkv", v.Path)
	assert.Equal(t, 0, r.Registry.Len(), "process must be deregistered after reaping")
}

func TestAnalyze_CorruptionDetected(t *testing.T) {
	r := newTestRunner(writeScript(t, "exit 1"))

	v := r.Analyze(Task{Path: "/media/b.mkv"})

	assert.True(t, v.Corrupted)
	assert.Equal(t, ReasonCorruption, v.Reason)
	assert.Equal(t, 0, r.Registry.Len())
}

func TestAnalyze_CopyErrorSkipsVerifier(t *testing.T) {
	// The verifier would report healthy, but staging fails first and the
	// process must never be spawned.
	r := newTestRunner(writeScript(t, "exit 0"))
	r.Stager = &cache.Stager{Dir: t.TempDir()}

	v := r.Analyze(Task{Path: filepath.Join(t.TempDir(), "missing.mkv"), UseCache: true})

	assert.True(t, v.Corrupted)
	assert.True(t, strings.HasPrefix(v.Reason, "Local copy error: "), "reason %q", v.Reason)
	assert.Equal(t, 0, r.Registry.Len())
}

func TestAnalyze_StagedCopyAlwaysRemoved(t *testing.T) {
	src := filepath.Join(t.TempDir(), "movie.mkv")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))

	staging := t.TempDir()
	r := newTestRunner(writeScript(t, "exit 1"))
	r.Stager = &cache.Stager{Dir: staging}

	v := r.Analyze(Task{Path: src, UseCache: true})
	assert.True(t, v.Corrupted)
	assert.Equal(t, src, v.Path, "verdict names the original path, not the staged copy")

	entries, err := os.ReadDir(staging)
	require.NoError(t, err)
	assert.Empty(t, entries, "staging dir must be clean after analysis")
}

func TestAnalyze_Timeout(t *testing.T) {
	r := newTestRunner(writeScript(t, "sleep 30"))
	r.Timeout = 100 * time.Millisecond

	start := time.Now()
	v := r.Analyze(Task{Path: "/media/slow.mkv"})

	assert.True(t, v.Corrupted)
	assert.Equal(t, TimeoutReason(0), v.Reason)
	assert.Less(t, time.Since(start), 5*time.Second, "timeout must not wait for the sleep")
	assert.Equal(t, 0, r.Registry.Len())
}

func TestAnalyze_StopWhileRunning(t *testing.T) {
	r := newTestRunner(writeScript(t, "sleep 30"))

	go func() {
		time.Sleep(100 * time.Millisecond)
		r.Stop.Stop()
	}()

	start := time.Now()
	v := r.Analyze(Task{Path: "/media/c.mkv"})

	assert.False(t, v.Corrupted, "cancellation is not a corruption signal")
	assert.Equal(t, ReasonCancelled, v.Reason)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, 0, r.Registry.Len())
}

func TestAnalyze_MissingBinary(t *testing.T) {
	r := newTestRunner(filepath.Join(t.TempDir(), "no-such-binary"))

	v := r.Analyze(Task{Path: "/media/d.mkv"})

	assert.True(t, v.Corrupted)
	assert.True(t, strings.HasPrefix(v.Reason, "Unexpected error: "), "reason %q", v.Reason)
	assert.Equal(t, 0, r.Registry.Len())
}

func TestRegistry_KillAllReapsEverything(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test drives POSIX sleep processes")
	}

	reg := NewRegistry()
	const n = 3
	for i := 0; i < n; i++ {
		cmd := exec.Command("sleep", "30")
		require.NoError(t, cmd.Start())
		h := reg.register(cmd.Process)
		go func(cmd *exec.Cmd, h *procHandle) {
			_ = cmd.Wait()
			close(h.done)
		}(cmd, h)
	}
	require.Equal(t, n, reg.Len())

	start := time.Now()
	reg.KillAll(200 * time.Millisecond)

	assert.Equal(t, 0, reg.Len())
	assert.Less(t, time.Since(start), 5*time.Second, "terminations run concurrently")
}
