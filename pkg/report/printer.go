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

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// OutputFormat defines the output format type
type OutputFormat string

const (
	OutputFormatText  OutputFormat = "text"
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatTable OutputFormat = "table"
)

// ParseOutputFormat validates a format name.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case OutputFormatText, OutputFormatJSON, OutputFormatTable:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format: %s", s)
	}
}

// Printer renders a Summary
type Printer struct {
	format OutputFormat
	writer io.Writer
	pass   *color.Color
	fail   *color.Color
}

// NewPrinter creates a new Printer. Color applies to text and table
// output only.
func NewPrinter(format OutputFormat, writer io.Writer, useColor bool) *Printer {
	pass := color.New(color.FgGreen, color.Bold)
	fail := color.New(color.FgRed, color.Bold)
	if useColor {
		pass.EnableColor()
		fail.EnableColor()
	} else {
		pass.DisableColor()
		fail.DisableColor()
	}
	return &Printer{
		format: format,
		writer: writer,
		pass:   pass,
		fail:   fail,
	}
}

// PrintSummary prints every result followed by the totals.
func (p *Printer) PrintSummary(s Summary) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(s)
	case OutputFormatTable:
		return p.printTable(s)
	case OutputFormatText:
		return p.printText(s)
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintError prints an error message
func (p *Printer) PrintError(err error) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]any{
			"status": "error",
			"error":  err.Error(),
		})
	case OutputFormatTable, OutputFormatText:
		fmt.Fprintf(p.writer, "%s %v\n", p.fail.Sprint("Error:"), err)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintJSON prints v as indented JSON regardless of the format.
func (p *Printer) PrintJSON(v any) error {
	return p.printJSON(v)
}

func (p *Printer) printText(s Summary) error {
	for _, r := range s.Results {
		if r.Passed {
			fmt.Fprintf(p.writer, "%s %s\n", p.pass.Sprint("PASS"), r.Name)
			continue
		}
		fmt.Fprintf(p.writer, "%s %s\n", p.fail.Sprint("FAIL"), r.Name)
		fmt.Fprintf(p.writer, "     %s\n", r.Error)
	}
	p.printTotals(s)
	return nil
}

func (p *Printer) printTable(s Summary) error {
	width := len("CASE")
	for _, r := range s.Results {
		if len(r.Name) > width {
			width = len(r.Name)
		}
	}

	fmt.Fprintf(p.writer, "%-*s  %-6s  %s\n", width, "CASE", "STATUS", "ERROR")
	fmt.Fprintln(p.writer, strings.Repeat("-", width+16))
	for _, r := range s.Results {
		status := p.pass.Sprint("PASS")
		if !r.Passed {
			status = p.fail.Sprint("FAIL")
		}
		fmt.Fprintf(p.writer, "%-*s  %s    %s\n", width, r.Name, status, r.Error)
	}
	fmt.Fprintln(p.writer)
	p.printTotals(s)
	return nil
}

func (p *Printer) printTotals(s Summary) {
	failed := fmt.Sprintf("%d failed", s.Failed)
	if s.Failed > 0 {
		failed = p.fail.Sprint(failed)
	}
	fmt.Fprintf(p.writer, "%d cases: %d passed, %s (%s)\n", s.Total, s.Passed, failed, s.Duration.Round(1e6))
}

func (p *Printer) printJSON(v any) error {
	enc := json.NewEncoder(p.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
