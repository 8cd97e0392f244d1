package analysis

import "sort"

// Finalize reduces a batch of verdicts to the corrupted-file list,
// sorted by path so the numbering in the selection table is stable
// across runs.
func Finalize(verdicts []Verdict) []CorruptedFile {
	out := make([]CorruptedFile, 0, len(verdicts))
	for _, v := range verdicts {
		if v.Corrupted {
			out = append(out, CorruptedFile{Path: v.Path, Reason: v.Reason})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// CountHealthy reports how many verdicts in the batch are healthy.
func CountHealthy(verdicts []Verdict) int {
	n := 0
	for _, v := range verdicts {
		if !v.Corrupted && v.Reason == ReasonHealthy {
			n++
		}
	}
	return n
}
