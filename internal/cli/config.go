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

package cli

import (
	"io"

	"github.com/jeremyhahn/go-sigvectors/internal/config"
	"github.com/jeremyhahn/go-sigvectors/pkg/report"
)

// Config holds global CLI configuration
type Config struct {
	// ConfigFile is the path to the configuration file
	ConfigFile string

	// OutputFormat controls output formatting (json, text, table)
	OutputFormat string

	// Verbose enables debug logging
	Verbose bool

	// NoColor disables colored PASS/FAIL markers
	NoColor bool
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		OutputFormat: string(report.OutputFormatText),
	}
}

// Load reads the configuration file and layers the command line flags on
// top. outputSet reports whether --output was given explicitly, so the
// file's report format is kept otherwise.
func (c *Config) Load(outputSet bool) (*config.Config, error) {
	cfg, err := config.Load(c.ConfigFile)
	if err != nil {
		return nil, err
	}
	if outputSet {
		cfg.Report.Format = c.OutputFormat
	}
	if c.Verbose {
		cfg.Logging.Level = "debug"
	}
	if c.NoColor {
		cfg.Report.Color = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// printer returns a printer for CLI level messages, falling back to text
// when the format flag is invalid.
func (c *Config) printer(w io.Writer) *report.Printer {
	format, err := report.ParseOutputFormat(c.OutputFormat)
	if err != nil {
		format = report.OutputFormatText
	}
	return report.NewPrinter(format, w, !c.NoColor)
}
