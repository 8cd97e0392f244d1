// Package ffmpeg builds and controls the external verifier process.
//
// The verifier is a strict decode-and-discard invocation: ffmpeg reads
// the whole file, decodes every stream, and writes nothing. A zero exit
// code means the file decoded cleanly; any nonzero exit means a read or
// decode error. Only the exit code matters; stdout and stderr are
// discarded.
package ffmpeg
