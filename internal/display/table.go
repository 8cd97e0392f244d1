package display

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Cylae/vcheck/internal/analysis"
	"github.com/Cylae/vcheck/internal/term"
)

// PrintCorrupted writes the numbered corrupted-file table. IDs are
// 1-based and match what ParseSelection expects. File sizes are looked
// up best-effort; a vanished file shows "?" instead.
func PrintCorrupted(w io.Writer, files []analysis.CorruptedFile) {
	fmt.Fprintf(w, "\n%sCorrupted or problematic files (%d)%s\n", term.Red, len(files), term.NC)

	idWidth := len(strconv.Itoa(len(files)))
	if idWidth < 2 {
		idWidth = 2
	}
	pathWidth := len("File")
	for _, f := range files {
		if len(f.Path) > pathWidth {
			pathWidth = len(f.Path)
		}
	}

	fmt.Fprintf(w, "  %*s  %-*s  %10s  %s\n", idWidth, "ID", pathWidth, "File", "Size", "Reason")
	fmt.Fprintf(w, "  %s\n", strings.Repeat("-", idWidth+pathWidth+24))
	for i, f := range files {
		size := "?"
		if fi, err := os.Stat(f.Path); err == nil {
			size = FormatBytes(fi.Size())
		}
		fmt.Fprintf(w, "  %s%*d%s  %-*s  %10s  %s%s%s\n",
			term.Cyan, idWidth, i+1, term.NC,
			pathWidth, f.Path,
			size,
			term.Yellow, f.Reason, term.NC)
	}
}

// PrintDeletionPlan lists the basenames about to be moved to trash.
func PrintDeletionPlan(w io.Writer, files []analysis.CorruptedFile) {
	fmt.Fprintf(w, "\n%sFiles to be moved to trash (%d)%s\n", term.Yellow, len(files), term.NC)
	for _, f := range files {
		fmt.Fprintf(w, "  %s\n", f.Path)
	}
}

// PrintSettings summarizes the effective configuration before a scan
// starts.
func PrintSettings(w io.Writer, dir string, workers int, timeoutSec int, cacheLocal bool, verifier string) {
	timeout := "none"
	if timeoutSec > 0 {
		timeout = fmt.Sprintf("%ds per file", timeoutSec)
	}
	cache := "off"
	if cacheLocal {
		cache = "on"
	}
	fmt.Fprintf(w, "%sScan settings%s\n", term.Blue, term.NC)
	fmt.Fprintf(w, "  Directory : %s\n", dir)
	fmt.Fprintf(w, "  Workers   : %d\n", workers)
	fmt.Fprintf(w, "  Timeout   : %s\n", timeout)
	fmt.Fprintf(w, "  Local copy: %s\n", cache)
	fmt.Fprintf(w, "  Verifier  : %s\n", verifier)
}
