// Package analysis is the concurrent integrity-check engine: a bounded
// worker pool fans a list of files out across external verifier
// processes and fans the classified verdicts back in.
//
// Shared mutable state is limited to two things: the registry of live
// verifier processes (mutex-guarded, used for best-effort bulk
// termination) and the stop controller (a write-once, level-triggered
// cancellation token observed by every worker). Everything else, the
// staged copies and the verdicts, is exclusively owned by one worker
// until it is handed to the aggregator.
package analysis
