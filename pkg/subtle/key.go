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

package subtle

import (
	"fmt"

	"github.com/jeremyhahn/go-sigvectors/pkg/types"
)

// CryptoKey is an opaque key handle produced by ImportKey. Its fields are
// fixed at creation; the handle is safe to share between goroutines.
type CryptoKey struct {
	id          string
	keyType     types.KeyType
	algorithm   types.ImportParams
	extractable bool
	usages      types.KeyUsages
	material    any
}

// NewCryptoKey is used by engine implementations to build a handle around
// their own key material.
func NewCryptoKey(id string, keyType types.KeyType, params types.ImportParams, extractable bool, usages types.KeyUsages, material any) *CryptoKey {
	return &CryptoKey{
		id:          id,
		keyType:     keyType,
		algorithm:   params,
		extractable: extractable,
		usages:      usages,
		material:    material,
	}
}

// ID is an engine-assigned identifier, unique per handle.
func (k *CryptoKey) ID() string { return k.id }

// Type is public or private.
func (k *CryptoKey) Type() types.KeyType { return k.keyType }

// Algorithm is the scheme and hash the key was imported for.
func (k *CryptoKey) Algorithm() types.ImportParams { return k.algorithm }

// Extractable reports whether the key may be exported.
func (k *CryptoKey) Extractable() bool { return k.extractable }

// Usages is the set of operations the key was granted.
func (k *CryptoKey) Usages() types.KeyUsages { return k.usages }

// Material returns the engine-specific key material.
func (k *CryptoKey) Material() any { return k.material }

func (k *CryptoKey) String() string {
	return fmt.Sprintf("CryptoKey{type=%s alg=%s hash=%s usages=%s}",
		k.keyType, k.algorithm.Name, k.algorithm.Hash, k.usages)
}
