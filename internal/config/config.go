// Package config holds runtime configuration: defaults, optional TOML
// config file, CLI flag parsing, and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// DefaultExtensions lists the video file extensions scanned by default
// (lowercase, with leading dot). Overridable via the config file.
var DefaultExtensions = []string{
	".mp4", ".mkv", ".avi", ".mov", ".wmv", ".flv", ".webm",
	".m4v", ".ts", ".m2ts", ".mpg", ".mpeg", ".vob", ".ogv",
}

// Config holds all runtime settings. It is populated by [DefaultConfig],
// optionally overlaid by [LoadFile], and then mutated by [ParseFlags]
// before being passed (by pointer) to packages that need it.
type Config struct {
	// Paths.
	ScanDir  string // Positional arg: directory to scan.
	CacheDir string // Local staging directory. Default: os.TempDir().

	// Analysis.
	Workers    int      // Concurrent analyses. Default: runtime.NumCPU().
	TimeoutSec int      // Per-file timeout in seconds. 0 = unbounded (default).
	CacheLocal bool     // Stage files into CacheDir before analysis.
	Ffmpeg     string   // Verifier binary. Default: "ffmpeg" (resolved via PATH).
	Extensions []string // Video extensions to scan. Default: DefaultExtensions.

	// Session.
	ReportPath string // Save a corrupted-files report after analysis.
	LoadReport string // Load a previous report instead of scanning.
	ListOnly   bool   // Print the report table and exit; no deletion prompt.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path (JSON lines).
	CheckOnly bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with all defaults. Used as the base
// before [LoadFile] and [ParseFlags] apply overrides.
func DefaultConfig() Config {
	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	return Config{
		CacheDir:   os.TempDir(),
		Workers:    workers,
		TimeoutSec: 0,
		CacheLocal: false,
		Ffmpeg:     "ffmpeg",
		Extensions: append([]string(nil), DefaultExtensions...),
		ColorMode:  ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks field ranges and the mode-dependent path requirements.
// CheckOnly needs nothing; load mode needs a report path; scan mode needs
// a directory.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1 (got %d)", c.Workers)
	}
	if c.TimeoutSec < 0 {
		return fmt.Errorf("timeout must not be negative (got %d)", c.TimeoutSec)
	}
	if c.Ffmpeg == "" {
		return errors.New("ffmpeg binary must not be empty")
	}
	if len(c.Extensions) == 0 {
		return errors.New("extension list must not be empty")
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}

	if c.CheckOnly {
		return nil
	}
	if c.LoadReport != "" {
		if c.ScanDir != "" {
			return errors.New("--load and a scan directory are mutually exclusive")
		}
		return nil
	}
	if c.ScanDir == "" {
		return errors.New("need a directory to scan (or --load <report>)")
	}
	return nil
}

// ValidateCacheDir ensures the staging directory exists and is a
// directory. Only called when local caching is enabled.
func (c *Config) ValidateCacheDir() error {
	fi, err := os.Stat(c.CacheDir)
	if err != nil {
		return fmt.Errorf("cache directory %s: %w", c.CacheDir, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("cache path %s is not a directory", c.CacheDir)
	}
	return nil
}

// AbsScanDir returns the absolute, symlink-resolved scan directory for
// display and for anchoring report paths.
func (c *Config) AbsScanDir() (string, error) {
	abs, err := filepath.Abs(c.ScanDir)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
