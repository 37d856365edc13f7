package cliconfig

import "os"

// ApplyEnvConfig applies OSUDB_* environment variables to cfg, skipping the
// flags in changed. It runs after ApplyFileConfig, so the environment wins
// over the file.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("game-dir", os.Getenv("OSUDB_GAME_DIR"), &cfg.GameDir)
	s.setString("db", os.Getenv("OSUDB_DB"), &cfg.DatabasePath)
	s.setString("collections", os.Getenv("OSUDB_COLLECTIONS"), &cfg.CollectionsPath)
	s.setString("compression", os.Getenv("OSUDB_COMPRESSION"), &cfg.Compression)
	s.setString("log-level", os.Getenv("OSUDB_LOG_LEVEL"), &cfg.LogLevel)
	s.setString("output", os.Getenv("OSUDB_OUTPUT"), &cfg.Output)

	return s.setDuration("debounce", os.Getenv("OSUDB_DEBOUNCE"), &cfg.Debounce)
}
