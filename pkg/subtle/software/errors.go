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

import "errors"

var (
	// ErrInvalidConfig is returned by NewEngine for an unusable Config.
	ErrInvalidConfig = errors.New("software: invalid config")

	// ErrEngineClosed is the cause attached to operations issued after Close.
	ErrEngineClosed = errors.New("software: engine is closed")

	// ErrNotRSAKey is the cause attached when key material is not RSA.
	ErrNotRSAKey = errors.New("software: key is not an RSA key")

	// ErrKeyTooSmall is the cause attached when a modulus is below MinKeyBits.
	ErrKeyTooSmall = errors.New("software: RSA modulus too small")

	// ErrMessageTooLong is returned by the PSS encoder when the modulus
	// cannot hold the digest, salt and padding.
	ErrMessageTooLong = errors.New("software: encoding error, modulus too short")
)
