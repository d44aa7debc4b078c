package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/phylogo/go-nexus/logger"
)

// config is the optional YAML configuration for nexdump.
type config struct {
	// LogLevel is one of debug, info, warn, error. Empty means info.
	LogLevel string `yaml:"log_level"`
	// DisabledBlocks lists block names to skip while parsing,
	// e.g. [ASSUMPTIONS].
	DisabledBlocks []string `yaml:"disabled_blocks"`
	// DumpMatrix prints the full character matrix for each file.
	DumpMatrix bool `yaml:"dump_matrix"`
}

func loadConfig(path string) (*config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if _, err := cfg.level(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// level translates the configured log level name, defaulting to info.
func (c *config) level() (logger.Level, error) {
	switch c.LogLevel {
	case "", "info":
		return logger.InfoLevel, nil
	case "debug":
		return logger.DebugLevel, nil
	case "warn":
		return logger.WarnLevel, nil
	case "error":
		return logger.ErrorLevel, nil
	default:
		return logger.InfoLevel, fmt.Errorf("unknown log level %q (want debug, info, warn, or error)", c.LogLevel)
	}
}
