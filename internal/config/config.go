// Package config loads pubstats run settings from a YAML file and
// PUBSTATS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/scrim-network/pubstats/internal/bibliography"
	"github.com/scrim-network/pubstats/internal/pdf"
)

// Sentinel errors for this package.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PUBSTATS_"

// EnvConfigPath names the variable holding a config file path.
const EnvConfigPath = "PUBSTATS_CONFIG"

// DefaultFile is the config file name written by "config init".
const DefaultFile = "pubstats.yaml"

var validLevels = []string{"debug", "info", "warn", "error"}

// Config holds the settings of one pubstats run.
type Config struct {
	LogLevel    string   `koanf:"log_level" yaml:"log_level" json:"log_level"`
	OutputDir   string   `koanf:"output_dir" yaml:"output_dir" json:"output_dir"`
	TagField    string   `koanf:"tag_field" yaml:"tag_field" json:"tag_field"`
	Tags        []string `koanf:"tags" yaml:"tags" json:"tags"`
	DropFields  []string `koanf:"drop_fields" yaml:"drop_fields" json:"drop_fields"`
	PDF         bool     `koanf:"pdf" yaml:"pdf" json:"pdf"`
	SQLite      bool     `koanf:"sqlite" yaml:"sqlite" json:"sqlite"`
	BibTeX      bool     `koanf:"bibtex" yaml:"bibtex" json:"bibtex"`
	JSONL       bool     `koanf:"jsonl" yaml:"jsonl" json:"jsonl"`
	PDFViewer   string   `koanf:"pdf_viewer" yaml:"pdf_viewer" json:"pdf_viewer"`
	MetricsFile string   `koanf:"metrics_file" yaml:"metrics_file,omitempty" json:"metrics_file,omitempty"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:   "warn",
		OutputDir:  ".",
		TagField:   bibliography.DefaultTagField,
		DropFields: slices.Clone(bibliography.DefaultDropFields),
		PDF:        true,
		PDFViewer:  "system",
	}
}

// Validate checks the config for unusable values.
func (c *Config) Validate() error {
	if !slices.Contains(validLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("%w: log_level %q (want one of %s)",
			ErrInvalidConfig, c.LogLevel, strings.Join(validLevels, ", "))
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return fmt.Errorf("%w: output_dir is empty", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.TagField) == "" {
		return fmt.Errorf("%w: tag_field is empty", ErrInvalidConfig)
	}
	if c.PDFViewer != "" && !slices.Contains(pdf.ValidViewers, c.PDFViewer) {
		return fmt.Errorf("%w: pdf_viewer %q (want one of %s)",
			ErrInvalidConfig, c.PDFViewer, strings.Join(pdf.ValidViewers, ", "))
	}
	for _, tag := range c.Tags {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("%w: blank tag", ErrInvalidConfig)
		}
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog level. Unknown values map to warn.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Filter returns the bibliography filter options this config describes.
// An empty tag list disables tag filtering.
func (c *Config) Filter() bibliography.Options {
	opts := bibliography.Options{
		DropFields: c.DropFields,
		TagField:   c.TagField,
	}
	if len(c.Tags) > 0 {
		opts.Tags = c.Tags
	}
	return opts
}

// OutputPath joins name onto the expanded output directory.
func (c *Config) OutputPath(name string) string {
	return filepath.Join(ExpandPath(c.OutputDir), name)
}

// Save writes the config as YAML, creating parent directories as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
