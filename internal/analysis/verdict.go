package analysis

import "fmt"

// Task is one file queued for analysis. Created when the file is
// enqueued, consumed by exactly one worker, never mutated.
type Task struct {
	Path     string // Absolute path of the original file.
	UseCache bool   // Stage into local storage before verification.
}

// Verdict is the classified outcome of analyzing one file. Immutable
// once produced. Reason strings are surfaced verbatim in the report and
// the selection table, so they double as the report wire format.
type Verdict struct {
	Path      string
	Corrupted bool
	Reason    string
}

// CorruptedFile is one entry of the finalized corrupted-file list: the
// artifact handed to the report, selection, and deletion stages.
type CorruptedFile struct {
	Path   string
	Reason string
}

// Fixed reason strings.
const (
	ReasonHealthy    = "Healthy"
	ReasonCorruption = "Corruption detected"
	ReasonCancelled  = "Cancelled"
)

// TimeoutReason returns the reason string for a verification that
// exceeded the per-file timeout.
func TimeoutReason(seconds int) string {
	return fmt.Sprintf("Timeout (%ds)", seconds)
}

// CopyErrorReason returns the reason string for a failed local staging
// copy.
func CopyErrorReason(err error) string {
	return fmt.Sprintf("Local copy error: %v", err)
}

// UnexpectedErrorReason returns the reason string for any failure not
// covered by the other categories.
func UnexpectedErrorReason(err error) string {
	return fmt.Sprintf("Unexpected error: %v", err)
}

func healthyVerdict(path string) Verdict {
	return Verdict{Path: path, Reason: ReasonHealthy}
}

func corruptedVerdict(path string) Verdict {
	return Verdict{Path: path, Corrupted: true, Reason: ReasonCorruption}
}

// cancelledVerdict is deliberately not corrupted: cancellation says
// nothing about the file.
func cancelledVerdict(path string) Verdict {
	return Verdict{Path: path, Reason: ReasonCancelled}
}
