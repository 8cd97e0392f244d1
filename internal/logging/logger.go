// Package logging configures the zerolog logger used across the tool:
// a human console writer on stdout and an optional JSON file sink.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/Cylae/vcheck/internal/config"
	"github.com/Cylae/vcheck/internal/term"
)

// Logger wraps the root zerolog.Logger together with the optional log
// file so the caller can Close() it when done.
type Logger struct {
	zerolog.Logger

	file     *os.File
	filePath string
}

// New initializes terminal colors from cfg, builds the console writer,
// and optionally opens cfg.LogFile for structured JSON output.
// Call Close() when done if LogFile was set.
func New(cfg *config.Config) (*Logger, error) {
	term.Configure(cfg.ColorMode)

	console := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "15:04:05",
		NoColor:    !term.Enabled(),
	}

	writers := []io.Writer{console}
	l := &Logger{}

	if cfg.LogFile != "" {
		dir := filepath.Dir(cfg.LogFile)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		l.file = f
		l.filePath = cfg.LogFile
		writers = append(writers, f)
	}

	level := zerolog.InfoLevel
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339
	l.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()
	return l, nil
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}
