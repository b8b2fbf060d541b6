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

// Package encoding converts DER key buffers to and from PEM armor, so
// corpus files can carry keys copied from openssl output.
package encoding

import (
	"bytes"
	"encoding/pem"
	"fmt"

	"github.com/jeremyhahn/go-sigvectors/pkg/types"
)

// PEM block types
const (
	PEMTypePrivateKey          = "PRIVATE KEY"
	PEMTypeEncryptedPrivateKey = "ENCRYPTED PRIVATE KEY"
	PEMTypePublicKey           = "PUBLIC KEY"
)

// PEMType returns the block type used for format: "PUBLIC KEY" for spki
// and "PRIVATE KEY" for pkcs8. JWK is JSON and has no PEM form.
func PEMType(format types.KeyFormat) (string, error) {
	switch format {
	case types.KeyFormatSPKI:
		return PEMTypePublicKey, nil
	case types.KeyFormatPKCS8:
		return PEMTypePrivateKey, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// EncodeKeyPEM wraps a DER key buffer in a PEM block for format.
//
// Example:
//
//	pemData, err := encoding.EncodeKeyPEM(types.KeyFormatSPKI, spkiDER)
func EncodeKeyPEM(format types.KeyFormat, der []byte) ([]byte, error) {
	if len(der) == 0 {
		return nil, ErrInvalidData
	}

	blockType, err := PEMType(format)
	if err != nil {
		return nil, err
	}

	// Encode to PEM
	var buf bytes.Buffer
	if err := pem.Encode(&buf, &pem.Block{Type: blockType, Bytes: der}); err != nil {
		return nil, fmt.Errorf("failed to encode PEM: %w", err)
	}

	return buf.Bytes(), nil
}

// DecodeKeyPEM returns the DER bytes of the single PEM block in data. The
// block type must match format. Encrypted PKCS#8 is rejected; the engine
// imports unencrypted PrivateKeyInfo only.
//
// Example:
//
//	der, err := encoding.DecodeKeyPEM(types.KeyFormatPKCS8, pemData)
func DecodeKeyPEM(format types.KeyFormat, data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrInvalidData
	}

	want, err := PEMType(format)
	if err != nil {
		return nil, err
	}

	// Decode PEM block
	block, rest := pem.Decode(data)
	if block == nil {
		return nil, ErrInvalidPEMEncoding
	}
	if len(bytes.TrimSpace(rest)) != 0 {
		return nil, fmt.Errorf("%w: trailing data after PEM block", ErrInvalidPEMEncoding)
	}
	if block.Type == PEMTypeEncryptedPrivateKey {
		return nil, fmt.Errorf("%w: encrypted private keys are not supported", ErrUnexpectedPEMType)
	}
	if block.Type != want {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrUnexpectedPEMType, block.Type, want)
	}
	if len(block.Bytes) == 0 {
		return nil, ErrInvalidData
	}

	return block.Bytes, nil
}
