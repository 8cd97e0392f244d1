package ffmpeg

import (
	"os/exec"
)

// VerifyArgs returns the argument list for a strict decode-and-discard
// run against path. -nostdin keeps ffmpeg from stealing the terminal,
// -v error silences everything but real errors, and "-f null -" decodes
// without writing output.
func VerifyArgs(path string) []string {
	return []string{"-nostdin", "-v", "error", "-i", path, "-f", "null", "-"}
}

// VerifyCmd builds the verifier command for path using the given binary.
// Stdout and stderr are discarded; the verdict depends on the exit code
// alone.
func VerifyCmd(bin, path string) *exec.Cmd {
	cmd := exec.Command(bin, VerifyArgs(path)...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd
}
