package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cylae/vcheck/internal/analysis"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.mkv")
	b := filepath.Join(dir, "b.mkv")
	touch(t, a)
	touch(t, b)

	files := []analysis.CorruptedFile{
		{Path: a, Reason: analysis.ReasonCorruption},
		{Path: b, Reason: analysis.TimeoutReason(300)},
	}

	reportPath := filepath.Join(dir, "report.txt")
	require.NoError(t, Save(reportPath, files))

	got, err := Load(reportPath, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, files, got)
}

func TestLoad_SkipsVanishedFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.mkv")
	b := filepath.Join(dir, "b.mkv")
	touch(t, a)
	touch(t, b)

	reportPath := filepath.Join(dir, "report.txt")
	require.NoError(t, Save(reportPath, []analysis.CorruptedFile{
		{Path: a, Reason: analysis.ReasonCorruption},
		{Path: b, Reason: analysis.ReasonCorruption},
	}))

	// b is deleted between save and load.
	require.NoError(t, os.Remove(b))

	got, err := Load(reportPath, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, a, got[0].Path)
}

func TestLoad_SkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.mkv")
	touch(t, a)

	reportPath := filepath.Join(dir, "report.txt")
	content := "no tab on this line\n" + a + "\tCorruption detected\n\n"
	require.NoError(t, os.WriteFile(reportPath, []byte(content), 0o644))

	got, err := Load(reportPath, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Corruption detected", got[0].Reason)
}

func TestLoad_MissingReport(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"), zerolog.Nop())
	require.Error(t, err)
}

func TestSave_EmptyList(t *testing.T) {
	reportPath := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, Save(reportPath, nil))

	b, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Empty(t, b)
}
