// Package report persists the corrupted-file list so a deletion
// session can be resumed later without rescanning. The format is one
// line per file, path and reason separated by a tab.
package report

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Cylae/vcheck/internal/analysis"
)

// Save writes the corrupted-file list to path, overwriting any previous
// report.
func Save(path string, files []analysis.CorruptedFile) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}

	w := bufio.NewWriter(f)
	for _, cf := range files {
		fmt.Fprintf(w, "%s\t%s\n", cf.Path, cf.Reason)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	return nil
}

// Load reads a previously saved report. Each listed file is checked
// against the filesystem; entries whose file has disappeared since the
// scan are skipped with a warning, as are malformed lines.
func Load(path string, log zerolog.Logger) ([]analysis.CorruptedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	defer f.Close()

	var files []analysis.CorruptedFile
	sc := bufio.NewScanner(f)
	// Paths can be long; lift the default 64K line cap.
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r\n")
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 2)
		if len(fields) != 2 {
			log.Warn().Int("line", lineNo).Msg("malformed report line, skipping")
			continue
		}
		p, reason := fields[0], fields[1]
		if _, err := os.Stat(p); err != nil {
			log.Warn().Str("file", p).Msg("file listed in report no longer exists, skipping")
			continue
		}
		files = append(files, analysis.CorruptedFile{Path: p, Reason: reason})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	return files, nil
}
