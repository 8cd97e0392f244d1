// Package check provides system diagnostics (--check mode) and pre-scan
// dependency validation (CheckDeps) for the external verifier.
package check

import (
	"errors"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Cylae/vcheck/internal/config"
	"github.com/Cylae/vcheck/internal/trash"
)

// Sentinel errors returned by CheckDeps when the verifier is missing or
// unusable.
var (
	ErrVerifierNotFound   = errors.New("verifier binary not found on PATH")
	ErrDecodeTestFailed   = errors.New("verifier found but test decode failed")
	ErrCacheDirUnwritable = errors.New("cache directory is not writable")
)

// RunCheck runs the interactive --check flow: prints the verifier's
// availability and version, runs a short decode self-test and reports
// whether the trash directory is reachable. Informational only, it does
// not stop on failure.
func RunCheck(cfg *config.Config, log zerolog.Logger) {
	log.Info().Msg("=== System Check ===")

	checkVerifier(cfg.Ffmpeg, log)
	checkDecode(cfg.Ffmpeg, log)
	checkTrash(log)
	if cfg.CacheLocal {
		checkCacheDir(cfg.CacheDir, log)
	}
}

// checkVerifier verifies the binary is on PATH and logs its version string.
func checkVerifier(bin string, log zerolog.Logger) {
	path, err := exec.LookPath(bin)
	if err != nil {
		log.Error().Str("binary", bin).Msg("verifier not found, install ffmpeg and ensure it is on PATH")
		return
	}
	out, err := exec.Command(bin, "-version").Output()
	if err != nil {
		log.Warn().Str("path", path).Err(err).Msg("verifier found but -version failed")
		return
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Info().Str("path", path).Str("version", firstLine).Msg("verifier found")
}

// checkDecode runs a minimal synthetic decode to verify the verifier
// can actually process media, not just print its version.
func checkDecode(bin string, log zerolog.Logger) {
	if runSilent(bin, decodeTestArgs()...) {
		log.Info().Msg("decode self-test passed")
	} else {
		log.Error().Msg("decode self-test failed")
	}
}

func checkTrash(log zerolog.Logger) {
	dir, err := trash.Dir()
	if err != nil {
		log.Warn().Err(err).Msg("could not resolve trash directory")
		return
	}
	log.Info().Str("dir", dir).Msg("trash directory")
}

func checkCacheDir(dir string, log zerolog.Logger) {
	f, err := os.CreateTemp(dir, "vcheck-probe-*")
	if err != nil {
		log.Error().Str("dir", dir).Err(err).Msg("cache directory is not writable")
		return
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	log.Info().Str("dir", dir).Msg("cache directory writable")
}

// CheckDeps is the pre-scan validation: the verifier must be on PATH
// and pass a short decode test, and when local caching is enabled the
// cache directory must accept writes. Returns a sentinel error on
// failure.
func CheckDeps(cfg *config.Config) error {
	if _, err := exec.LookPath(cfg.Ffmpeg); err != nil {
		return ErrVerifierNotFound
	}
	if !runSilent(cfg.Ffmpeg, decodeTestArgs()...) {
		return ErrDecodeTestFailed
	}
	if cfg.CacheLocal {
		f, err := os.CreateTemp(cfg.CacheDir, "vcheck-probe-*")
		if err != nil {
			return ErrCacheDirUnwritable
		}
		name := f.Name()
		f.Close()
		os.Remove(name)
	}
	return nil
}

// decodeTestArgs returns the arguments for a minimal synthetic decode.
// Shared by checkDecode and CheckDeps to avoid duplicating the list.
func decodeTestArgs() []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=black:s=256x256:d=0.1",
		"-f", "null", "-",
	}
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
