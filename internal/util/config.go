package util

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"lox/internal/log"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	DebugASTText = "text"
	DebugASTJSON = "json"
)

type Configuration struct {
	Version   string `toml:"-" yaml:"-"`
	BuildDate string `toml:"-" yaml:"-"`
	Commit    string `toml:"-" yaml:"-"`

	LogLevel     string `toml:"log_level" yaml:"log_level"`
	LogFile      string `toml:"log_file" yaml:"log_file"`
	DebugAST     string `toml:"debug_ast" yaml:"debug_ast"` // "", "text" or "json"
	MaxCallDepth int    `toml:"max_call_depth" yaml:"max_call_depth"`
	HistoryFile  string `toml:"history_file" yaml:"history_file"`
	Color        bool   `toml:"color" yaml:"color"`
	Prompt       string `toml:"prompt" yaml:"prompt"`
}

func DefaultConfiguration() Configuration {
	return Configuration{
		LogLevel:     "none",
		MaxCallDepth: 10000,
		Color:        true,
		Prompt:       ">> ",
	}
}

// LoadConfiguration overlays a TOML or YAML file, picked by extension, on
// top of the defaults. Unknown keys are rejected.
func LoadConfiguration(path string) (Configuration, error) {
	cfg := DefaultConfiguration()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return cfg, fmt.Errorf("parsing config %s: unknown keys %v", path, undecoded)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}

	return cfg, cfg.Validate()
}

func (c Configuration) Validate() error {
	if !log.ValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level %q: want one of %s", c.LogLevel, strings.Join(log.Levels, ", "))
	}
	switch c.DebugAST {
	case "", DebugASTText, DebugASTJSON:
	default:
		return fmt.Errorf("invalid debug_ast %q: want %q or %q", c.DebugAST, DebugASTText, DebugASTJSON)
	}
	if c.MaxCallDepth <= 0 {
		return fmt.Errorf("invalid max_call_depth %d: must be positive", c.MaxCallDepth)
	}
	return nil
}
