package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// envConfigPath names the environment variable that points at an explicit
// config file. When unset, the candidate paths below are tried in order.
const envConfigPath = "VCHECK_CONFIG"

var configCandidates = []string{
	"./vcheck.toml",
}

// fileConfig mirrors the TOML config file. Pointer fields distinguish
// "absent" from zero values so the file only overrides what it sets.
type fileConfig struct {
	Workers        *int     `toml:"workers"`
	TimeoutSeconds *int     `toml:"timeout_seconds"`
	CacheLocal     *bool    `toml:"cache_local"`
	CacheDir       *string  `toml:"cache_dir"`
	Ffmpeg         *string  `toml:"ffmpeg"`
	Extensions     []string `toml:"extensions"`
	ReportPath     *string  `toml:"report"`
	LogFile        *string  `toml:"log_file"`
	Color          *string  `toml:"color"`
}

// LoadFile overlays cfg with values from the config file, if one exists.
// $VCHECK_CONFIG wins over the candidate paths; a missing candidate is not
// an error. Returns the path that was loaded, or "" when none was found.
func LoadFile(cfg *Config) (string, error) {
	if path := os.Getenv(envConfigPath); path != "" {
		if err := applyFile(cfg, path); err != nil {
			return "", fmt.Errorf("config file %s: %w", path, err)
		}
		return path, nil
	}

	for _, path := range configCandidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := applyFile(cfg, path); err != nil {
			return "", fmt.Errorf("config file %s: %w", path, err)
		}
		return path, nil
	}
	return "", nil
}

func applyFile(cfg *Config, path string) error {
	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown key %q", undecoded[0].String())
	}

	if fc.Workers != nil {
		cfg.Workers = *fc.Workers
	}
	if fc.TimeoutSeconds != nil {
		cfg.TimeoutSec = *fc.TimeoutSeconds
	}
	if fc.CacheLocal != nil {
		cfg.CacheLocal = *fc.CacheLocal
	}
	if fc.CacheDir != nil {
		cfg.CacheDir = *fc.CacheDir
	}
	if fc.Ffmpeg != nil {
		cfg.Ffmpeg = *fc.Ffmpeg
	}
	if len(fc.Extensions) > 0 {
		exts := make([]string, 0, len(fc.Extensions))
		for _, ext := range fc.Extensions {
			if n := normalizeExtension(ext); n != "" {
				exts = append(exts, n)
			}
		}
		cfg.Extensions = exts
	}
	if fc.ReportPath != nil {
		cfg.ReportPath = *fc.ReportPath
	}
	if fc.LogFile != nil {
		cfg.LogFile = *fc.LogFile
	}
	if fc.Color != nil {
		cfg.ColorMode = ColorMode(*fc.Color)
	}
	return nil
}
