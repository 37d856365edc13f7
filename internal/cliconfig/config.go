package cliconfig

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arloliu/osudb/format"
	"github.com/arloliu/osudb/log"
)

// File names the game uses inside its install directory.
const (
	DatabaseFile    = "osu!.db"
	CollectionsFile = "collection.db"
)

// Output formats.
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

// Config holds CLI configuration for osudb.
type Config struct {
	GameDir         string
	DatabasePath    string
	CollectionsPath string

	// Compression overrides extension detection; empty or "auto" detects.
	Compression string

	LogLevel string
	Output   string
	Debounce time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		GameDir:  DefaultGameDir(),
		LogLevel: "info",
		Output:   OutputTable,
		Debounce: 500 * time.Millisecond,
	}
}

// DefaultGameDir returns the default install location on Windows,
// %LOCALAPPDATA%\osu!, or "" elsewhere.
func DefaultGameDir() string {
	if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
		return filepath.Join(dir, "osu!")
	}

	return ""
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.DatabasePath == "" && c.GameDir != "" {
		c.DatabasePath = filepath.Join(c.GameDir, DatabaseFile)
	}
	if c.CollectionsPath == "" && c.GameDir != "" {
		c.CollectionsPath = filepath.Join(c.GameDir, CollectionsFile)
	}
	if c.DatabasePath == "" && c.CollectionsPath == "" {
		return fmt.Errorf("game-dir is required (or db / collections)")
	}

	c.Output = strings.ToLower(c.Output)
	switch c.Output {
	case OutputTable, OutputJSON:
	default:
		return fmt.Errorf("output must be %q or %q, got %q", OutputTable, OutputJSON, c.Output)
	}

	if _, _, err := c.CompressionOverride(); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Debounce <= 0 {
		return fmt.Errorf("debounce must be positive")
	}

	return nil
}

// CompressionOverride returns the configured compression and whether one
// was set at all.
func (c *Config) CompressionOverride() (format.CompressionType, bool, error) {
	name := strings.ToLower(strings.TrimSpace(c.Compression))
	if name == "" || name == "auto" {
		return 0, false, nil
	}
	ct, err := format.ParseCompressionType(name)
	if err != nil {
		return 0, false, fmt.Errorf("compression: %w", err)
	}

	return ct, true, nil
}

// Logger builds the console logger for the configured level.
func (c *Config) Logger(w io.Writer) (log.Logger, error) {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}

	return log.NewConsoleLogger(w, level), nil
}

// configSetter applies configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d

	return nil
}
