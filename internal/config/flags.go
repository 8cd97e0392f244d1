package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into analysis, session, display, and utility.
// Boolean overrides (e.g. --no-color) are applied after Parse so Config
// defaults (and config-file values) hold unless the flag is set.

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// version is shown in --version and help; override at build time with -ldflags "-X main.version=...".
var version = "1.0.0-dev"

// ParseFlags parses os.Args into cfg. On --help or --version it prints and exits.
// On error it returns non-nil (e.g. unknown flag, missing positional arg).
func ParseFlags(cfg *Config) error {
	fs := flag.NewFlagSet("vcheck", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs) }

	var over overrideFlags

	defineAnalysisFlags(fs, cfg, &over)
	defineSessionFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &over)
	defineUtilityFlags(fs, &over)

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	applyOverrideFlags(cfg, &over)

	if over.showHelp {
		printUsage(fs)
		os.Exit(0)
	}
	if over.showVersion {
		fmt.Fprintln(os.Stdout, "vcheck v"+version)
		os.Exit(0)
	}

	return parsePositionalArgs(fs, cfg)
}

// overrideFlags holds boolean flags that are applied after Parse.
// These either invert a default (e.g. noColor -> ColorMode=never) or
// trigger exit (showHelp, showVersion).
type overrideFlags struct {
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineAnalysisFlags registers -w/--workers, -t/--timeout, --cache, --cache-dir, --ffmpeg.
func defineAnalysisFlags(fs *flag.FlagSet, cfg *Config, over *overrideFlags) {
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Concurrent analyses")
	fs.IntVar(&cfg.Workers, "w", cfg.Workers, "Same as --workers")
	fs.IntVar(&cfg.TimeoutSec, "timeout", cfg.TimeoutSec, "Per-file timeout in seconds (0 = unlimited)")
	fs.IntVar(&cfg.TimeoutSec, "t", cfg.TimeoutSec, "Same as --timeout")
	fs.BoolVar(&cfg.CacheLocal, "cache", cfg.CacheLocal, "Copy each file to local storage before analysis")
	fs.StringVar(&cfg.CacheDir, "cache-dir", cfg.CacheDir, "Local staging directory")
	fs.StringVar(&cfg.Ffmpeg, "ffmpeg", cfg.Ffmpeg, "Path to the ffmpeg binary")
}

// defineSessionFlags registers -r/--report, --load, --list-only.
func defineSessionFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.ReportPath, "report", cfg.ReportPath, "Save a corrupted-files report to this path")
	fs.StringVar(&cfg.ReportPath, "r", cfg.ReportPath, "Same as --report")
	fs.StringVar(&cfg.LoadReport, "load", cfg.LoadReport, "Load a previous report instead of scanning")
	fs.BoolVar(&cfg.ListOnly, "list-only", cfg.ListOnly, "Print the report table only; skip the deletion prompt")
}

// defineDisplayFlags registers --color, --no-color, verbose, --check, --log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, over *overrideFlags) {
	fs.BoolVar(&over.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&over.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Same as --verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "Append structured logs to file")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "Same as --log")
}

// defineUtilityFlags registers --version and --help (exit after printing).
func defineUtilityFlags(fs *flag.FlagSet, over *overrideFlags) {
	fs.BoolVar(&over.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&over.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&over.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&over.showHelp, "h", false, "Same as --help")
}

// applyOverrideFlags copies override flag values into cfg.
func applyOverrideFlags(cfg *Config, over *overrideFlags) {
	if over.noColor {
		cfg.ColorMode = ColorNever
	} else if over.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs sets ScanDir from the single positional arg.
// No positional arg is required in CheckOnly or --load mode.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	if cfg.CheckOnly || cfg.LoadReport != "" {
		if len(args) > 0 {
			cfg.ScanDir = NormalizeDirArg(args[0])
		}
		return nil
	}
	if len(args) != 1 {
		return fmt.Errorf("need exactly one directory to scan")
	}
	cfg.ScanDir = NormalizeDirArg(args[0])
	return nil
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(fs *flag.FlagSet) {
	const col1 = 28 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "vcheck v" + version + ": find and remove corrupt video files with ffmpeg"},
		{"", ""},
		{"  vcheck [OPTIONS] <directory>", ""},
		{"  vcheck --load <report>", ""},
		{"", ""},
		{"Analysis", ""},
		{"  -w, --workers <n>", "Concurrent analyses (default: CPU count)"},
		{"  -t, --timeout <seconds>", "Per-file timeout (default: 0 = unlimited)"},
		{"  --cache", "Copy files to local storage first (for network drives)"},
		{"  --cache-dir <path>", "Local staging directory (default: system temp)"},
		{"  --ffmpeg <path>", "ffmpeg binary (default: resolved via PATH)"},
		{"", ""},
		{"Session", ""},
		{"  -r, --report <path>", "Save a corrupted-files report after analysis"},
		{"  --load <path>", "Load a previous report and resume the deletion step"},
		{"  --list-only", "Print the report table only; no deletion prompt"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append structured logs to file"},
		{"  -c, --check", "System diagnostics (ffmpeg availability)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
		{"", ""},
		{"Config file", ""},
		{"", "Defaults can be set in ./vcheck.toml or $VCHECK_CONFIG; flags win."},
		{"", "During analysis, press Q to stop and terminate all running checks."},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// normalizeExtension lowercases an extension and ensures a leading dot.
// Shared by the config-file loader so ".MKV" and "mkv" both work.
func normalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
