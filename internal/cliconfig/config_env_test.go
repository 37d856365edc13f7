package cliconfig

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		changed  map[string]bool
		initial  Config
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all values",
			envVars: map[string]string{
				"OSUDB_GAME_DIR":    "/env/osu",
				"OSUDB_DB":          "/env/osu!.db",
				"OSUDB_COLLECTIONS": "/env/collection.db",
				"OSUDB_COMPRESSION": "s2",
				"OSUDB_LOG_LEVEL":   "warn",
				"OSUDB_OUTPUT":      "json",
				"OSUDB_DEBOUNCE":    "1s",
			},
			changed: map[string]bool{},
			expected: Config{
				GameDir:         "/env/osu",
				DatabasePath:    "/env/osu!.db",
				CollectionsPath: "/env/collection.db",
				Compression:     "s2",
				LogLevel:        "warn",
				Output:          "json",
				Debounce:        time.Second,
			},
		},
		{
			name:     "respects changed flags",
			envVars:  map[string]string{"OSUDB_GAME_DIR": "/env/osu", "OSUDB_OUTPUT": "json"},
			changed:  map[string]bool{"output": true},
			initial:  Config{Output: "table"},
			expected: Config{GameDir: "/env/osu", Output: "table"},
		},
		{
			name:    "invalid duration",
			envVars: map[string]string{"OSUDB_DEBOUNCE": "later"},
			changed: map[string]bool{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{
				"OSUDB_GAME_DIR", "OSUDB_DB", "OSUDB_COLLECTIONS", "OSUDB_COMPRESSION",
				"OSUDB_LOG_LEVEL", "OSUDB_OUTPUT", "OSUDB_DEBOUNCE",
			} {
				t.Setenv(key, tt.envVars[key])
			}

			cfg := tt.initial
			err := ApplyEnvConfig(&cfg, tt.changed)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expected, cfg)
		})
	}
}
