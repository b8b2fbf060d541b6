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

// Package validation provides centralized input validation for corpus data
// and user supplied paths. Corpus files are untrusted: vector names end up
// in case names, reports and log records.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxNameLength bounds vector names. Case names append a suffix.
const MaxNameLength = 255

// MaxLogLength bounds strings passed through SanitizeForLog.
const MaxLogLength = 1000

var (
	// namePattern matches printable vector names
	namePattern = regexp.MustCompile(`^[a-zA-Z0-9 _\-\.,:;/()+=#]+$`)
)

// ValidateVectorName validates a test vector name.
// - Rejects empty strings
// - Rejects null bytes and control characters
// - Rejects leading or trailing whitespace
// - Allows only printable characters
// - Enforces length limits
func ValidateVectorName(name string) error {
	if name == "" {
		return fmt.Errorf("vector name cannot be empty")
	}

	// Check for null bytes
	if strings.Contains(name, "\x00") {
		return fmt.Errorf("vector name contains null byte")
	}

	// Check length before other validations (prevent ReDoS)
	if len(name) > MaxNameLength {
		return fmt.Errorf("vector name too long (max %d characters)", MaxNameLength)
	}

	if err := checkControl("vector name", name); err != nil {
		return err
	}

	if strings.TrimSpace(name) != name {
		return fmt.Errorf("vector name has leading or trailing whitespace")
	}

	if !namePattern.MatchString(name) {
		return fmt.Errorf("vector name contains invalid characters")
	}

	return nil
}

// ValidateFilePath validates a user supplied file path (corpus, log or
// metrics file). Any location is allowed; the path must be non-empty and
// free of null bytes and control characters.
func ValidateFilePath(path string) error {
	if path == "" {
		return fmt.Errorf("file path cannot be empty")
	}

	// Check for null bytes (can bypass some path checks)
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("file path contains null byte")
	}

	if len(path) > 4096 {
		return fmt.Errorf("file path too long (max 4096 characters)")
	}

	return checkControl("file path", path)
}

func checkControl(what, s string) error {
	for _, r := range s {
		if r < 32 || r == 127 {
			return fmt.Errorf("%s contains control characters", what)
		}
	}
	return nil
}

// SanitizeForLog sanitizes a string for safe logging (prevents log injection).
func SanitizeForLog(s string) string {
	// Remove control characters and null bytes
	s = strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, s)

	// Limit length to prevent log flooding
	if len(s) > MaxLogLength {
		s = s[:MaxLogLength] + "...[truncated]"
	}

	return s
}
