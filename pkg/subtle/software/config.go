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

package software

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/jeremyhahn/go-sigvectors/pkg/logging"
)

// EngineName labels metrics and log records emitted by this engine.
const EngineName = "software"

// DefaultMinKeyBits is the smallest RSA modulus accepted on import.
const DefaultMinKeyBits = 1024

// Config holds the software engine configuration.
type Config struct {
	// Logger receives debug records for every operation. Defaults to a
	// discarding logger.
	Logger *logging.Logger

	// Rand is the entropy source used for PSS salts. Defaults to
	// crypto/rand.Reader.
	Rand io.Reader

	// MinKeyBits rejects imported RSA keys with a smaller modulus.
	// Defaults to DefaultMinKeyBits.
	MinKeyBits int
}

// Validate checks the configuration and fills in defaults.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config is nil")
	}
	if c.MinKeyBits < 0 {
		return fmt.Errorf("MinKeyBits must not be negative")
	}
	if c.MinKeyBits == 0 {
		c.MinKeyBits = DefaultMinKeyBits
	}
	if c.Rand == nil {
		c.Rand = rand.Reader
	}
	if c.Logger == nil {
		c.Logger = logging.Discard()
	}
	return nil
}

// NewEngine creates a software engine from config.
func NewEngine(config *Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &Engine{
		rand:       config.Rand,
		logger:     config.Logger.With("engine", EngineName),
		minKeyBits: config.MinKeyBits,
	}, nil
}
