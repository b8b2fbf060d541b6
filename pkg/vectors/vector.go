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

// Package vectors holds the sign/verify test-vector corpus: the vector
// model, the read-only Store, a YAML file format, and a generator that
// produces a corpus from freshly generated RSA keys.
package vectors

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/jeremyhahn/go-sigvectors/pkg/subtle"
	"github.com/jeremyhahn/go-sigvectors/pkg/types"
	"github.com/jeremyhahn/go-sigvectors/pkg/validation"
)

var (
	// ErrInvalidVector indicates a vector that fails validation.
	ErrInvalidVector = errors.New("vectors: invalid vector")

	// ErrDuplicateName indicates two vectors in one corpus share a name.
	ErrDuplicateName = errors.New("vectors: duplicate vector name")
)

// TestVector is one sign/verify fixture. Key handles are nil until the
// vector is materialized; the encoded buffers are always kept so a clone
// can be re-imported under different parameters.
type TestVector struct {
	Name      string
	Algorithm types.Algorithm

	PublicKey  *subtle.CryptoKey
	PrivateKey *subtle.CryptoKey

	PublicKeyBuffer  []byte
	PrivateKeyBuffer []byte

	PublicKeyFormat  types.KeyFormat
	PrivateKeyFormat types.KeyFormat

	Plaintext []byte

	// Signature is nil for sign-only vectors.
	Signature []byte

	Hash types.HashName
}

// Clone returns a deep copy. Byte slices and the algorithm are copied;
// key handles are immutable and shared.
func (v *TestVector) Clone() *TestVector {
	if v == nil {
		return nil
	}
	c := *v
	c.Algorithm = *v.Algorithm.Clone()
	c.PublicKeyBuffer = bytes.Clone(v.PublicKeyBuffer)
	c.PrivateKeyBuffer = bytes.Clone(v.PrivateKeyBuffer)
	c.Plaintext = bytes.Clone(v.Plaintext)
	c.Signature = bytes.Clone(v.Signature)
	return &c
}

// HasSignature reports whether the vector carries an expected signature.
func (v *TestVector) HasSignature() bool {
	return v.Signature != nil
}

// Materialized reports whether both key handles are present.
func (v *TestVector) Materialized() bool {
	return v.PublicKey != nil && v.PrivateKey != nil
}

// Raw returns a clone with both key handles cleared.
func (v *TestVector) Raw() *TestVector {
	c := v.Clone()
	c.PublicKey = nil
	c.PrivateKey = nil
	return c
}

// ImportParams returns the parameters used to import the vector's keys.
func (v *TestVector) ImportParams() types.ImportParams {
	hash := v.Hash
	if hash == "" {
		hash = v.Algorithm.Hash
	}
	return types.ImportParams{Name: v.Algorithm.Name, Hash: hash}
}

// Validate checks that the vector is usable by the harness.
func (v *TestVector) Validate() error {
	if err := validation.ValidateVectorName(v.Name); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidVector, validation.SanitizeForLog(v.Name), err)
	}
	if !v.Algorithm.Name.IsValid() {
		return fmt.Errorf("%w: %s: unsupported algorithm %q", ErrInvalidVector, v.Name, v.Algorithm.Name)
	}
	if _, err := v.ImportParams().Hash.CryptoHash(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidVector, v.Name, err)
	}
	if v.Algorithm.SaltLength < 0 {
		return fmt.Errorf("%w: %s: negative salt length", ErrInvalidVector, v.Name)
	}
	// Buffers are required even with handles present: some cases re-import
	// from them with other usages or another algorithm name.
	if err := checkBuffer(v.PublicKeyFormat, v.PublicKeyBuffer); err != nil {
		return fmt.Errorf("%w: %s: public key: %v", ErrInvalidVector, v.Name, err)
	}
	if err := checkBuffer(v.PrivateKeyFormat, v.PrivateKeyBuffer); err != nil {
		return fmt.Errorf("%w: %s: private key: %v", ErrInvalidVector, v.Name, err)
	}
	return nil
}

func checkBuffer(format types.KeyFormat, buf []byte) error {
	if !format.IsValid() {
		return fmt.Errorf("%w: %q", types.ErrInvalidKeyFormat, format)
	}
	if len(buf) == 0 {
		return errors.New("empty key buffer")
	}
	return nil
}
