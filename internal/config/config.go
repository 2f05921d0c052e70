// Package config loads the build configuration from YAML, with .env loading
// and environment variable expansion applied before unmarshalling.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/miao-yu/build-process/internal/build"
	builderrors "github.com/miao-yu/build-process/internal/errors"
	"github.com/miao-yu/build-process/internal/pipeline"
)

// Config represents the application configuration.
type Config struct {
	Root    string        `yaml:"root"`
	Output  string        `yaml:"output"`
	Entries EntriesConfig `yaml:"entries"`
	Assets  []string      `yaml:"assets"`
	Filters FiltersConfig `yaml:"filters"`
	Static  StaticConfig  `yaml:"static"`
	Watch   WatchConfig   `yaml:"watch"`
	History HistoryConfig `yaml:"history"`
}

// EntriesConfig names the entry point per resource type.
type EntriesConfig struct {
	Script string `yaml:"script"`
	Style  string `yaml:"style"`
	Markup string `yaml:"markup"`
}

// FiltersConfig lists the extensions collaborators will follow.
type FiltersConfig struct {
	Extensions []string `yaml:"extensions"`
}

// StaticConfig configures the static-reference post-pass.
type StaticConfig struct {
	Prefix      string `yaml:"prefix"`
	Replacement string `yaml:"replacement"`
}

// WatchConfig configures the continuous rebuild daemon.
type WatchConfig struct {
	Debounce    time.Duration `yaml:"-"`
	MetricsAddr string        `yaml:"metrics_addr"`
}

// UnmarshalYAML accepts the debounce as a duration string ("500ms", "2s").
func (w *WatchConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Debounce    string `yaml:"debounce"`
		MetricsAddr string `yaml:"metrics_addr"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	w.MetricsAddr = raw.MetricsAddr
	if raw.Debounce == "" {
		return nil
	}
	d, err := time.ParseDuration(raw.Debounce)
	if err != nil {
		return fmt.Errorf("parse watch.debounce: %w", err)
	}
	w.Debounce = d
	return nil
}

// HistoryConfig configures the build history database.
type HistoryConfig struct {
	Path string `yaml:"path"`
}

// Load reads the configuration file. A .env file beside the process (if
// present) is loaded first; ${VAR} references inside the YAML are expanded
// from the environment before unmarshalling.
func Load(configPath string) (*Config, error) {
	// Missing .env files are fine; existing env vars are never overridden.
	_ = godotenv.Load()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, builderrors.Wrap(err, builderrors.CategoryConfig, "read config file").
			WithContext("path", configPath)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, builderrors.Wrap(err, builderrors.CategoryConfig, "unmarshal config")
	}

	cfg.applyDefaults(configPath)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults(configPath string) {
	if c.Root == "" {
		if abs, err := filepath.Abs(filepath.Dir(configPath)); err == nil {
			c.Root = abs
		}
	} else if !filepath.IsAbs(c.Root) {
		if abs, err := filepath.Abs(c.Root); err == nil {
			c.Root = abs
		}
	}
	if c.Output == "" {
		c.Output = filepath.Join(c.Root, "dist")
	}
	if len(c.Filters.Extensions) == 0 {
		c.Filters.Extensions = []string{".js", ".mjs", ".css"}
	}
	if c.Static.Prefix == "" {
		c.Static.Prefix = "static://"
	}
	if c.Watch.Debounce <= 0 {
		c.Watch.Debounce = 500 * time.Millisecond
	}
}

// Validate checks that the required entries are present.
func (c *Config) Validate() error {
	switch {
	case c.Entries.Script == "":
		return builderrors.New(builderrors.CategoryConfig, "entries.script is required")
	case c.Entries.Style == "":
		return builderrors.New(builderrors.CategoryConfig, "entries.style is required")
	case c.Entries.Markup == "":
		return builderrors.New(builderrors.CategoryConfig, "entries.markup is required")
	}
	return nil
}

// Spec maps the configuration to one build invocation.
func (c *Config) Spec() build.Spec {
	return build.Spec{
		ScriptEntry: c.Entries.Script,
		StyleEntry:  c.Entries.Style,
		MarkupEntry: c.Entries.Markup,
		AssetPaths:  c.Assets,
		RootPath:    c.Root,
		OutputPath:  c.Output,
	}
}

// PipelineOptions maps the configuration to collaborator options.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		RootPath:        c.Root,
		ExtensionFilter: c.Filters.Extensions,
	}
}
