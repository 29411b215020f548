package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"hackvm/vmtranslator/internal"
)

// Config holds the settings of one run. Values are read from an optional yaml
// file first, flags given on the command line override them.
type Config struct {
	Output      string `yaml:"output"`
	Comments    bool   `yaml:"comments"`
	ScopeLabels bool   `yaml:"scope_labels"`
	Verbose     bool   `yaml:"verbose"`
	Dump        bool   `yaml:"dump"`
	LogLevel    string `yaml:"log_level"`
}

func defaultConfig() Config {
	opts := internal.DefaultOptions()
	return Config{
		Comments:    opts.Comments,
		ScopeLabels: opts.ScopeLabels,
		LogLevel:    "info",
	}
}

// loadConfig reads the config file at path. An empty path returns the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// overrideConfig copies the flags the user actually set into cfg.
func overrideConfig(cfg *Config, cmd *cobra.Command) error {
	flags := cmd.Flags()
	var err error
	if flags.Changed("output") {
		if cfg.Output, err = flags.GetString("output"); err != nil {
			return err
		}
	}
	if flags.Changed("comments") {
		if cfg.Comments, err = flags.GetBool("comments"); err != nil {
			return err
		}
	}
	if flags.Changed("scope-labels") {
		if cfg.ScopeLabels, err = flags.GetBool("scope-labels"); err != nil {
			return err
		}
	}
	if flags.Changed("verbose") {
		if cfg.Verbose, err = flags.GetBool("verbose"); err != nil {
			return err
		}
	}
	if flags.Changed("dump") {
		if cfg.Dump, err = flags.GetBool("dump"); err != nil {
			return err
		}
	}
	if flags.Changed("log-level") {
		if cfg.LogLevel, err = flags.GetString("log-level"); err != nil {
			return err
		}
		if _, err = parseLevel(cfg.LogLevel); err != nil {
			return err
		}
	}
	return nil
}

func (c Config) options() internal.Options {
	return internal.Options{Comments: c.Comments, ScopeLabels: c.ScopeLabels}
}

// parseLevel accepts debug, info, warn and error, in any case.
func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}
