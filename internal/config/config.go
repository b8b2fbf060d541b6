// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-sigvectors.
//
// go-sigvectors is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jeremyhahn/go-sigvectors/pkg/logging"
	"github.com/jeremyhahn/go-sigvectors/pkg/types"
	"github.com/jeremyhahn/go-sigvectors/pkg/validation"
	"github.com/jeremyhahn/go-sigvectors/pkg/vectors"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SIGVECTORS_"

// envLogger reports rejected environment overrides. Load runs before the
// configured logger exists.
var envLogger = logging.NewLogger(false)

// Config represents the complete sigvectors configuration
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Engine  EngineConfig  `yaml:"engine"`
	Corpus  CorpusConfig  `yaml:"corpus"`
	Report  ReportConfig  `yaml:"report"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig controls logging behavior
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// EngineConfig controls the software engine
type EngineConfig struct {
	MinKeyBits int `yaml:"min_key_bits"`
}

// CorpusConfig selects the vector corpus. When Path is empty a corpus is
// generated from Generate.
type CorpusConfig struct {
	Path     string         `yaml:"path"`
	Generate GenerateConfig `yaml:"generate"`
}

// GenerateConfig controls corpus generation
type GenerateConfig struct {
	KeyBits     int      `yaml:"key_bits"`
	Hashes      []string `yaml:"hashes"`
	SaltLengths []int    `yaml:"salt_lengths"`
	Message     string   `yaml:"message"`
	JWK         bool     `yaml:"jwk"`
	SignOnly    bool     `yaml:"sign_only"`
	Failing     bool     `yaml:"failing"`
}

// ReportConfig controls result output
type ReportConfig struct {
	Format string `yaml:"format"` // text, json, table
	Color  bool   `yaml:"color"`
}

// MetricsConfig controls the Prometheus textfile export
type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Textfile string `yaml:"textfile"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Engine: EngineConfig{
			MinKeyBits: 1024,
		},
		Corpus: CorpusConfig{
			Generate: GenerateConfig{
				KeyBits:     2048,
				Hashes:      []string{"SHA-256"},
				SaltLengths: []int{0, 32, vectors.SaltHashLength},
				JWK:         true,
				SignOnly:    true,
			},
		},
		Report: ReportConfig{
			Format: "text",
			Color:  true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Load reads configuration from a YAML file over the defaults and applies
// environment variable overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		// #nosec G304 - Config file path is provided by the user
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration
func applyEnvOverrides(cfg *Config) {
	// Logging
	if level := os.Getenv(EnvPrefix + "LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if format := os.Getenv(EnvPrefix + "LOG_FORMAT"); format != "" {
		cfg.Logging.Format = format
	}
	if file := os.Getenv(EnvPrefix + "LOG_FILE"); file != "" {
		cfg.Logging.File = file
	}

	// Engine
	if bits := os.Getenv(EnvPrefix + "MIN_KEY_BITS"); bits != "" {
		n, err := strconv.Atoi(bits)
		if err != nil || n < 0 {
			envLogger.Warnf("invalid %sMIN_KEY_BITS value %q, using %d",
				EnvPrefix, bits, cfg.Engine.MinKeyBits)
		} else {
			cfg.Engine.MinKeyBits = n
		}
	}

	// Corpus
	if path := os.Getenv(EnvPrefix + "CORPUS_PATH"); path != "" {
		cfg.Corpus.Path = path
	}
	if bits := os.Getenv(EnvPrefix + "KEY_BITS"); bits != "" {
		n, err := strconv.Atoi(bits)
		if err != nil {
			envLogger.Warnf("invalid %sKEY_BITS value %q, using %d: %v",
				EnvPrefix, bits, cfg.Corpus.Generate.KeyBits, err)
		} else {
			cfg.Corpus.Generate.KeyBits = n
		}
	}
	if hashes := os.Getenv(EnvPrefix + "HASHES"); hashes != "" {
		cfg.Corpus.Generate.Hashes = splitList(hashes)
	}

	// Report
	if format := os.Getenv(EnvPrefix + "REPORT_FORMAT"); format != "" {
		cfg.Report.Format = format
	}
	if c := os.Getenv(EnvPrefix + "REPORT_COLOR"); c != "" {
		if b, err := strconv.ParseBool(c); err != nil {
			envLogger.Warnf("invalid %sREPORT_COLOR value %q, using %t", EnvPrefix, c, cfg.Report.Color)
		} else {
			cfg.Report.Color = b
		}
	}

	// Metrics
	if enabled := os.Getenv(EnvPrefix + "METRICS_ENABLED"); enabled != "" {
		if b, err := strconv.ParseBool(enabled); err != nil {
			envLogger.Warnf("invalid %sMETRICS_ENABLED value %q, using %t", EnvPrefix, enabled, cfg.Metrics.Enabled)
		} else {
			cfg.Metrics.Enabled = b
		}
	}
	if textfile := os.Getenv(EnvPrefix + "METRICS_TEXTFILE"); textfile != "" {
		cfg.Metrics.Textfile = textfile
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	// Validate logging level
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"json": true, "text": true, "console": true,
	}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("invalid log format: %s (must be json, text, or console)", c.Logging.Format)
	}

	for field, path := range map[string]string{
		"logging.file":     c.Logging.File,
		"corpus.path":      c.Corpus.Path,
		"metrics.textfile": c.Metrics.Textfile,
	} {
		if path == "" {
			continue
		}
		if err := validation.ValidateFilePath(path); err != nil {
			return fmt.Errorf("invalid %s: %w", field, err)
		}
	}

	if c.Engine.MinKeyBits < 0 {
		return fmt.Errorf("engine min_key_bits must not be negative")
	}

	// Generation settings only matter without a corpus file
	if c.Corpus.Path == "" {
		g := c.Corpus.Generate
		if g.KeyBits < 1024 {
			return fmt.Errorf("invalid key_bits: %d (minimum 1024)", g.KeyBits)
		}
		if len(g.Hashes) == 0 {
			return fmt.Errorf("at least one hash must be configured")
		}
		for _, h := range g.Hashes {
			if _, err := types.HashName(h).CryptoHash(); err != nil {
				return fmt.Errorf("invalid hash: %s", h)
			}
		}
		for _, s := range g.SaltLengths {
			if s < 0 && s != vectors.SaltHashLength {
				return fmt.Errorf("invalid salt length: %d", s)
			}
		}
		if err := c.GenerateOptions().CheckKeySize(g.KeyBits); err != nil {
			return fmt.Errorf("invalid key_bits: %w", err)
		}
	}

	// Validate report format
	validReports := map[string]bool{
		"text": true, "json": true, "table": true,
	}
	if !validReports[strings.ToLower(c.Report.Format)] {
		return fmt.Errorf("invalid report format: %s (must be text, json, or table)", c.Report.Format)
	}

	if c.Metrics.Textfile != "" && !c.Metrics.Enabled {
		return fmt.Errorf("metrics textfile requires metrics to be enabled")
	}

	return nil
}

// LoggerConfig returns the logging section as a logging.Config.
func (c *Config) LoggerConfig() logging.Config {
	return logging.Config{
		Level:  c.Logging.Level,
		Format: c.Logging.Format,
		File:   c.Logging.File,
	}
}

// GenerateOptions converts the generate section to vectors.GenerateOptions.
func (c *Config) GenerateOptions() vectors.GenerateOptions {
	g := c.Corpus.Generate
	hashes := make([]types.HashName, 0, len(g.Hashes))
	for _, h := range g.Hashes {
		hashes = append(hashes, types.HashName(h))
	}
	opts := vectors.GenerateOptions{
		KeyBits:     g.KeyBits,
		Hashes:      hashes,
		SaltLengths: g.SaltLengths,
		JWK:         g.JWK,
		SignOnly:    g.SignOnly,
		Failing:     g.Failing,
	}
	if g.Message != "" {
		opts.Message = []byte(g.Message)
	}
	return opts
}
