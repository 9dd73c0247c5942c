package log

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		level   slog.Level
		enabled bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"warn", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"none", slog.LevelError, false},
		{"loud", slog.LevelError, false},
	}

	for _, tt := range tests {
		level, enabled := ParseLevel(tt.input)
		assert.Equal(t, tt.level, level, tt.input)
		assert.Equal(t, tt.enabled, enabled, tt.input)
	}
}

func TestValidLevel(t *testing.T) {
	for _, level := range Levels {
		assert.True(t, ValidLevel(level), level)
	}
	assert.True(t, ValidLevel("NONE"))
	assert.False(t, ValidLevel("verbse"))
	assert.False(t, ValidLevel(""))
}

func TestConfigureWritesJSONToFile(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	path := filepath.Join(t.TempDir(), "logs", "lox.log")
	closer, err := Configure("info", path)
	require.NoError(t, err)

	slog.Debug("hidden")
	slog.Info("parsed program", slog.Int("statements", 3))
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "parsed program", entry["msg"])
	assert.Equal(t, float64(3), entry["statements"])
}

func TestConfigureNone(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	closer, err := Configure("none", filepath.Join(t.TempDir(), "unused.log"))
	require.NoError(t, err)
	assert.NoError(t, closer.Close())
	assert.False(t, slog.Default().Enabled(context.Background(), slog.LevelError))
}

func TestSinkReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lox.log")
	sink, err := OpenSink(path)
	require.NoError(t, err)
	defer sink.Close()

	_, err = sink.Write([]byte("first\n"))
	require.NoError(t, err)

	require.NoError(t, os.Rename(path, filepath.Join(dir, "lox.bak")))
	require.NoError(t, sink.Reopen())

	_, err = sink.Write([]byte("second\n"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(data))

	old, err := os.ReadFile(filepath.Join(dir, "lox.bak"))
	require.NoError(t, err)
	assert.Equal(t, "first\n", string(old))
}
