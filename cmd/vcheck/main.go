// Command vcheck scans a directory for video files, verifies each one
// with ffmpeg in parallel, and interactively moves corrupted files to
// the trash.
//
// It parses flags, validates configuration, and either runs system
// diagnostics (--check), reloads a saved report, or runs the full
// scan/analyze/select/delete flow.
package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Cylae/vcheck/internal/analysis"
	"github.com/Cylae/vcheck/internal/cache"
	"github.com/Cylae/vcheck/internal/check"
	"github.com/Cylae/vcheck/internal/config"
	"github.com/Cylae/vcheck/internal/display"
	"github.com/Cylae/vcheck/internal/logging"
	"github.com/Cylae/vcheck/internal/report"
	"github.com/Cylae/vcheck/internal/scan"
	"github.com/Cylae/vcheck/internal/term"
	"github.com/Cylae/vcheck/internal/trash"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr via fmt. Once logging.New succeeds, all output
	// goes through the logger for consistent formatting and log-file
	// capture.
	cfg := config.DefaultConfig()
	cfgPath, err := config.LoadFile(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vcheck: %v\n", err)
		return 1
	}
	if err := config.ParseFlags(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "vcheck: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "vcheck: %v\n", err)
		return 1
	}

	log, err := logging.New(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vcheck: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available.
	display.PrintBanner()
	if cfgPath != "" {
		log.Debug().Str("path", cfgPath).Msg("loaded config file")
	}

	if cfg.CheckOnly {
		check.RunCheck(&cfg, log.Logger)
		return 0
	}

	var corrupted []analysis.CorruptedFile
	if cfg.LoadReport != "" {
		corrupted, err = report.Load(cfg.LoadReport, log.Logger)
		if err != nil {
			log.Error().Err(err).Msg("could not load report")
			return 1
		}
		log.Info().Str("report", cfg.LoadReport).Int("files", len(corrupted)).Msg("report loaded")
	} else {
		var code int
		corrupted, code = runScan(&cfg, log)
		if code != 0 {
			return code
		}
	}

	if len(corrupted) == 0 {
		log.Info().Msg("no corrupted files, nothing to do")
		return 0
	}

	display.PrintCorrupted(os.Stdout, corrupted)

	if cfg.ListOnly {
		return 0
	}
	if !term.IsTerminal(os.Stdin) {
		log.Info().Msg("stdin is not a terminal, skipping deletion prompt")
		return 0
	}
	return runDeletion(corrupted, log)
}

// runScan runs the full discover/analyze flow and returns the
// aggregated corrupted-file list. A non-zero code means run should exit
// with it.
func runScan(cfg *config.Config, log *logging.Logger) ([]analysis.CorruptedFile, int) {
	scanDir, err := cfg.AbsScanDir()
	if err != nil {
		log.Error().Str("dir", cfg.ScanDir).Msg("scan directory not found")
		return nil, 1
	}
	if cfg.CacheLocal {
		if err := cfg.ValidateCacheDir(); err != nil {
			log.Error().Err(err).Msg("invalid cache directory")
			return nil, 1
		}
	}

	// Fail fast if the verifier is unavailable.
	if err := check.CheckDeps(cfg); err != nil {
		log.Error().Err(err).Msg("dependency check failed")
		return nil, 1
	}

	display.PrintSettings(os.Stdout, scanDir, cfg.Workers, cfg.TimeoutSec, cfg.CacheLocal, cfg.Ffmpeg)

	files, err := scan.Discover(scanDir, cfg.Extensions)
	if err != nil {
		log.Error().Err(err).Msg("scan failed")
		return nil, 1
	}
	if len(files) == 0 {
		log.Info().Str("dir", scanDir).Msg("no video files found")
		return nil, 0
	}
	log.Info().Int("files", len(files)).Str("dir", scanDir).Msg("starting analysis")

	tasks := make([]analysis.Task, len(files))
	for i, f := range files {
		tasks[i] = analysis.Task{Path: f, UseCache: cfg.CacheLocal}
	}

	registry := analysis.NewRegistry()
	stop := analysis.NewController(registry)

	// A stop can come from two places: SIGINT/SIGTERM, or the quit key
	// while the terminal has focus. Both funnel into the same token; the
	// pool does the cleanup.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		if _, ok := <-sigCh; ok {
			log.Warn().Msg("interrupt received, stopping")
			stop.Stop()
		}
	}()

	quit := term.ListenForQuit(func() {
		log.Warn().Msg("quit requested, stopping")
		stop.Stop()
	})
	defer quit.Restore()

	runner := &analysis.Runner{
		Bin:      cfg.Ffmpeg,
		Stager:   &cache.Stager{Dir: cfg.CacheDir},
		Stop:     stop,
		Registry: registry,
		Timeout:  time.Duration(cfg.TimeoutSec) * time.Second,
		Log:      log.Logger,
	}
	pool := &analysis.Pool{
		Workers: cfg.Workers,
		Stop:    stop,
		Log:     log.Logger,
	}

	showProgress := term.IsTerminal(os.Stdout)
	pool.OnProgress = func(done, total int) {
		if showProgress {
			fmt.Fprintf(os.Stdout, "\r%sChecking %d/%d%s", term.Cyan, done, total, term.NC)
		} else {
			log.Debug().Int("done", done).Int("total", total).Msg("progress")
		}
	}

	start := time.Now()
	verdicts := pool.Run(runner, tasks)
	if showProgress {
		fmt.Fprintln(os.Stdout)
	}

	// Raw mode off before any prompt can run.
	quit.Restore()

	if stop.Stopped() {
		log.Warn().Msg("analysis aborted")
		return nil, 130
	}

	corrupted := analysis.Finalize(verdicts)
	log.Info().
		Int("scanned", len(verdicts)).
		Int("healthy", analysis.CountHealthy(verdicts)).
		Int("corrupted", len(corrupted)).
		Str("elapsed", display.FormatDuration(time.Since(start))).
		Msg("analysis complete")

	if cfg.ReportPath != "" {
		if err := report.Save(cfg.ReportPath, corrupted); err != nil {
			log.Error().Err(err).Msg("could not save report")
		} else {
			log.Info().Str("report", cfg.ReportPath).Msg("report saved")
		}
	}
	return corrupted, 0
}

// runDeletion prompts for a selection from the corrupted-file table,
// confirms, and moves the chosen files to the trash.
func runDeletion(corrupted []analysis.CorruptedFile, log *logging.Logger) int {
	in := bufio.NewReader(os.Stdin)

	fmt.Printf("\nEnter file IDs to delete (e.g. 1,3-5,8), 'all' for everything, or 'none' to cancel [none]: ")
	answer, err := in.ReadString('\n')
	if err != nil {
		fmt.Println()
		log.Info().Msg("deletion cancelled")
		return 0
	}

	selected, err := display.ParseSelection(answer, len(corrupted))
	if err != nil {
		log.Error().Err(err).Msg("invalid selection, enter numbers, ranges, 'all', or 'none'")
		return 1
	}
	if len(selected) == 0 {
		log.Info().Msg("no files selected for deletion")
		return 0
	}

	picked := make([]analysis.CorruptedFile, len(selected))
	for i, idx := range selected {
		picked[i] = corrupted[idx]
	}
	display.PrintDeletionPlan(os.Stdout, picked)

	fmt.Printf("\n%sConfirm moving %d file(s) to trash? [y/N]:%s ", term.Red, len(picked), term.NC)
	confirm, err := in.ReadString('\n')
	if err != nil || !isYes(confirm) {
		log.Info().Msg("deletion cancelled")
		return 0
	}

	moved := 0
	for _, f := range picked {
		if err := trash.Move(f.Path); err != nil {
			log.Error().Str("file", f.Path).Err(err).Msg("could not move to trash")
			continue
		}
		moved++
		log.Debug().Str("file", f.Path).Msg("moved to trash")
	}
	log.Info().Int("moved", moved).Int("selected", len(picked)).Msg("deletion complete")
	if moved < len(picked) {
		return 1
	}
	return 0
}

func isYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true
	}
	return false
}
