package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestZerologAdapter_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, zerolog.DebugLevel)

	logger.Warn("unrecognized ranked status",
		Int("index", 3),
		Uint32("version", 20160411),
		Uint64("ticks", 1<<63),
		String("md5", "d41d8cd98f00b204e9800998ecf8427e"),
		Bool("variable", true),
		Err(errors.New("boom")),
	)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "warn", entry["level"])
	require.Equal(t, "unrecognized ranked status", entry["message"])
	require.EqualValues(t, 3, entry["index"])
	require.EqualValues(t, 20160411, entry["version"])
	require.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", entry["md5"])
	require.Equal(t, true, entry["variable"])
	require.Equal(t, "boom", entry["error"])
}

func TestZerologAdapter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, zerolog.WarnLevel)

	logger.Debug("dropped")
	logger.Info("dropped")
	require.Zero(t, buf.Len())

	logger.Error("kept")
	require.Contains(t, buf.String(), "kept")
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("")
	require.NoError(t, err)
	require.Equal(t, zerolog.InfoLevel, level)

	level, err = ParseLevel(" DEBUG ")
	require.NoError(t, err)
	require.Equal(t, zerolog.DebugLevel, level)

	_, err = ParseLevel("loud")
	require.Error(t, err)
}

func TestNoopLogger(t *testing.T) {
	var logger Logger = NewNoopLogger()
	require.NotPanics(t, func() {
		logger.Debug("x", Any("k", struct{}{}))
		logger.Error("x", Err(nil))
	})
}
