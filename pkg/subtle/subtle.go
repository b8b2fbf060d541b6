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

// Package subtle defines the asynchronous sign/verify capability that the
// conformance harness exercises. The shape mirrors the Web Cryptography API
// SubtleCrypto interface restricted to importKey, sign and verify.
//
// Implementations must copy every byte slice argument before the method
// returns. The caller is free to modify its buffers as soon as the future
// has been handed back, and that must not affect the in-flight operation.
//
// All failures settle the returned future with a *Error.
package subtle

import (
	"context"

	"github.com/jeremyhahn/go-sigvectors/pkg/async"
	"github.com/jeremyhahn/go-sigvectors/pkg/types"
)

// Subtle is the crypto capability under test.
type Subtle interface {
	// ImportKey parses keyData in the given format and returns a key handle
	// bound to params and granted usages.
	ImportKey(ctx context.Context, format types.KeyFormat, keyData []byte,
		params types.ImportParams, extractable bool, usages types.KeyUsages) *async.Future[*CryptoKey]

	// Sign produces a signature over data using a private key.
	Sign(ctx context.Context, alg types.Algorithm, key *CryptoKey, data []byte) *async.Future[[]byte]

	// Verify checks signature over data using a public key. A well-formed
	// but wrong signature resolves false; misuse of the key rejects.
	Verify(ctx context.Context, alg types.Algorithm, key *CryptoKey, signature, data []byte) *async.Future[bool]
}
