// Package config loads wordrec.toml.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"

	"github.com/happyhackingspace/wordrec/internal/dataset"
	"github.com/happyhackingspace/wordrec/recognizer"
)

// FileName is the config file looked up from the working directory.
const FileName = "wordrec.toml"

// Config holds the settings shared by all commands.
type Config struct {
	Models   string         `toml:"models"`
	TestSet  string         `toml:"test_set"`
	Evaluate EvaluateConfig `toml:"evaluate"`
	Load     LoadConfig     `toml:"load"`
	History  HistoryConfig  `toml:"history"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

// EvaluateConfig controls error rate computation.
type EvaluateConfig struct {
	LengthPolicy string `toml:"length_policy"`
}

// LoadConfig controls model loading.
type LoadConfig struct {
	Jobs int `toml:"jobs"`
}

// HistoryConfig controls the run history database.
type HistoryConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Models:   "models",
		TestSet:  filepath.Join("data", "test.json"),
		Evaluate: EvaluateConfig{LengthPolicy: recognizer.LengthStrict.String()},
		Load:     LoadConfig{Jobs: runtime.NumCPU()},
		History: HistoryConfig{
			Enabled: true,
			Path:    filepath.Join(DataDir(), "history.db"),
		},
	}
}

// DataDir returns the per-user directory for wordrec state.
func DataDir() string {
	if base := os.Getenv("XDG_DATA_HOME"); base != "" {
		return filepath.Join(base, "wordrec")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".wordrec"
	}
	return filepath.Join(home, ".wordrec")
}

// Policy returns the parsed length policy.
func (c Config) Policy() (recognizer.LengthPolicy, error) {
	return recognizer.ParseLengthPolicy(c.Evaluate.LengthPolicy)
}

// Load reads path over the defaults. Relative paths inside the file are
// resolved against the file's directory.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	for _, key := range meta.Undecoded() {
		slog.Warn("Unknown config key", "path", path, "key", key.String())
	}

	dir := filepath.Dir(path)
	if meta.IsDefined("models") {
		cfg.Models = resolve(dir, cfg.Models)
	}
	if meta.IsDefined("test_set") {
		cfg.TestSet = resolve(dir, cfg.TestSet)
	}
	if meta.IsDefined("history", "path") {
		cfg.History.Path = resolve(dir, cfg.History.Path)
	}
	if cfg.Load.Jobs <= 0 {
		cfg.Load.Jobs = 1
	}
	if _, err := cfg.Policy(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Find searches startDir and its parents for FileName, stopping at the
// module root (where go.mod lives) or the filesystem root.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the nearest config file, or the defaults if there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	slog.Debug("Using config", "path", path)
	return Load(path)
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) || dataset.IsURL(p) {
		return p
	}
	return filepath.Join(dir, p)
}
