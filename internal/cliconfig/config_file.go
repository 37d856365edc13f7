package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	GameDir         string `toml:"game_dir"`
	DatabasePath    string `toml:"db"`
	CollectionsPath string `toml:"collections"`
	Compression     string `toml:"compression"`
	LogLevel        string `toml:"log_level"`
	Output          string `toml:"output"`
	Debounce        string `toml:"debounce"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}

	return fc, nil
}

// DefaultConfigPath returns ~/.osudb/config.toml, or "" when the home
// directory is unknown.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".osudb", "config.toml")
	}

	return ""
}

// ApplyFileConfig applies configuration from a file to cfg, skipping the
// flags in changed.
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("game-dir", fc.GameDir, &cfg.GameDir)
	s.setString("db", fc.DatabasePath, &cfg.DatabasePath)
	s.setString("collections", fc.CollectionsPath, &cfg.CollectionsPath)
	s.setString("compression", fc.Compression, &cfg.Compression)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("output", fc.Output, &cfg.Output)

	return s.setDuration("debounce", fc.Debounce, &cfg.Debounce)
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
