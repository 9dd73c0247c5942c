package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLineAndColumn(t *testing.T) {
	src := "var a = 1;\nprint a;\n"

	line, col := GetLineAndColumn(src, 0)
	assert.Equal(t, 1, line)
	assert.Equal(t, 1, col)

	line, col = GetLineAndColumn(src, 17)
	assert.Equal(t, 2, line)
	assert.Equal(t, 7, col)

	line, col = GetLineAndColumn(src, len(src))
	assert.Equal(t, 3, line)
	assert.Equal(t, 1, col)
}

func TestGetContextLines(t *testing.T) {
	src := "var a = 1;\nvar b = 2;\nprint a + \"x\";"

	out := GetContextLines(src, 3, 9, "here")

	expected := "       1 | var a = 1;\n" +
		"       2 | var b = 2;\n" +
		"  >    3 | print a + \"x\";\n" +
		"                   ^ here"
	assert.Equal(t, expected, out)
}

func TestGetContextLinesClampsColumn(t *testing.T) {
	out := GetContextLines("ab", 1, 10, "end")
	assert.Equal(t, "  >    1 | ab\n             ^ end", out)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigurationTOML(t *testing.T) {
	path := writeFile(t, "lox.toml", `
log_level = "debug"
debug_ast = "json"
max_call_depth = 64
color = false
`)

	cfg, err := LoadConfiguration(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, DebugASTJSON, cfg.DebugAST)
	assert.Equal(t, 64, cfg.MaxCallDepth)
	assert.False(t, cfg.Color)
	assert.Equal(t, ">> ", cfg.Prompt, "unset keys keep their defaults")
}

func TestLoadConfigurationYAML(t *testing.T) {
	path := writeFile(t, "lox.yaml", "log_level: warn\nhistory_file: /tmp/hist\nprompt: \"lox> \"\n")

	cfg, err := LoadConfiguration(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "/tmp/hist", cfg.HistoryFile)
	assert.Equal(t, "lox> ", cfg.Prompt)
	assert.Equal(t, 10000, cfg.MaxCallDepth)
}

func TestLoadConfigurationEmptyYAML(t *testing.T) {
	cfg, err := LoadConfiguration(writeFile(t, "empty.yml", ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfiguration(), cfg)
}

func TestLoadConfigurationRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown.toml", "colour = true\n"},
		{"unknown.yaml", "colour: true\n"},
		{"badast.toml", "debug_ast = \"xml\"\n"},
		{"depth.yaml", "max_call_depth: 0\n"},
		{"level.toml", "log_level = \"verbse\"\n"},
		{"lox.ini", "color=true\n"},
	}

	for _, tt := range tests {
		_, err := LoadConfiguration(writeFile(t, tt.name, tt.content))
		assert.Error(t, err, tt.name)
	}
}

func TestValidateLogLevel(t *testing.T) {
	cfg := DefaultConfiguration()
	for _, level := range []string{"debug", "INFO", "warn", "error", "none"} {
		cfg.LogLevel = level
		assert.NoError(t, cfg.Validate(), level)
	}

	cfg.LogLevel = "verbse"
	assert.ErrorContains(t, cfg.Validate(), `invalid log_level "verbse"`)
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	_, err := LoadConfiguration(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
