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

// Package software implements subtle.Subtle for RSA-PSS and
// RSASSA-PKCS1-v1_5 on top of crypto/rsa. Key material is imported from
// SPKI, PKCS#8 or JWK encodings.
//
// Every exported operation copies its byte slice arguments before returning
// the future, so callers may reuse or modify their buffers immediately.
//
// Thread-safe: Yes, key handles are immutable and the engine holds no
// per-operation state.
package software

import (
	"bytes"
	"context"
	"crypto"
	"crypto/rsa"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/jeremyhahn/go-sigvectors/pkg/async"
	"github.com/jeremyhahn/go-sigvectors/pkg/logging"
	"github.com/jeremyhahn/go-sigvectors/pkg/metrics"
	"github.com/jeremyhahn/go-sigvectors/pkg/subtle"
	"github.com/jeremyhahn/go-sigvectors/pkg/types"
)

// Engine is the software sign/verify engine.
type Engine struct {
	rand       io.Reader
	logger     *logging.Logger
	minKeyBits int
	seq        atomic.Uint64
	closed     atomic.Bool
}

var _ subtle.Subtle = (*Engine)(nil)

// ImportKey implements subtle.Subtle.
func (e *Engine) ImportKey(ctx context.Context, format types.KeyFormat, keyData []byte,
	params types.ImportParams, extractable bool, usages types.KeyUsages) *async.Future[*subtle.CryptoKey] {

	data := bytes.Clone(keyData)
	return observe(e, metrics.OpImport, func() (*subtle.CryptoKey, error) {
		key, err := e.importKey(format, data, params, extractable, usages)
		if err == nil {
			e.logger.Debug("imported key",
				"key_id", key.ID(),
				"format", format,
				"type", key.Type(),
				"algorithm", params.Name,
				"usages", usages.String())
		}
		return key, err
	})
}

// Sign implements subtle.Subtle.
func (e *Engine) Sign(ctx context.Context, alg types.Algorithm, key *subtle.CryptoKey, data []byte) *async.Future[[]byte] {
	msg := bytes.Clone(data)
	return observe(e, metrics.OpSign, func() ([]byte, error) {
		return e.sign(alg, key, msg)
	})
}

// Verify implements subtle.Subtle.
func (e *Engine) Verify(ctx context.Context, alg types.Algorithm, key *subtle.CryptoKey, signature, data []byte) *async.Future[bool] {
	sig := bytes.Clone(signature)
	msg := bytes.Clone(data)
	return observe(e, metrics.OpVerify, func() (bool, error) {
		return e.verify(alg, key, sig, msg)
	})
}

// Close marks the engine closed. Operations issued afterwards reject with
// an OperationError.
func (e *Engine) Close() error {
	e.closed.Store(true)
	return nil
}

// observe runs fn asynchronously and records its duration, status and, on
// failure, its error category. A closed engine rejects without running fn.
func observe[T any](e *Engine, op string, fn func() (T, error)) *async.Future[T] {
	if e.closed.Load() {
		metrics.RecordError(op, EngineName, subtle.OperationError.String())
		return async.Rejected[T](subtle.WrapError(subtle.OperationError, ErrEngineClosed, op))
	}
	return async.Go(func() (T, error) {
		start := time.Now()
		v, err := fn()

		status := metrics.StatusSuccess
		if err != nil {
			status = metrics.StatusError
			metrics.RecordError(op, EngineName, subtle.Name(err).String())
			e.logger.Debug("operation rejected", "operation", op, "error", err)
		}
		metrics.RecordOperation(op, EngineName, status, time.Since(start).Seconds())
		return v, err
	})
}

func (e *Engine) sign(alg types.Algorithm, key *subtle.CryptoKey, msg []byte) ([]byte, error) {
	if err := checkAccess(alg, key, types.KeyUsageSign, types.KeyTypePrivate); err != nil {
		return nil, err
	}

	priv, ok := key.Material().(*rsa.PrivateKey)
	if !ok {
		return nil, subtle.NewError(subtle.InvalidAccessError, "key material is not an RSA private key")
	}

	hash, digest, err := hashMessage(key.Algorithm().Hash, msg)
	if err != nil {
		return nil, err
	}

	if alg.IsPSS() {
		return e.signPSS(priv, hash, digest, alg.SaltLength)
	}

	sig, err := rsa.SignPKCS1v15(nil, priv, hash, digest)
	if err != nil {
		return nil, subtle.WrapError(subtle.OperationError, err, "RSASSA-PKCS1-v1_5 signing failed")
	}
	return sig, nil
}

func (e *Engine) verify(alg types.Algorithm, key *subtle.CryptoKey, sig, msg []byte) (bool, error) {
	if err := checkAccess(alg, key, types.KeyUsageVerify, types.KeyTypePublic); err != nil {
		return false, err
	}

	pub, ok := key.Material().(*rsa.PublicKey)
	if !ok {
		return false, subtle.NewError(subtle.InvalidAccessError, "key material is not an RSA public key")
	}

	hash, digest, err := hashMessage(key.Algorithm().Hash, msg)
	if err != nil {
		return false, err
	}

	if alg.IsPSS() {
		return verifyPSS(pub, hash, digest, sig, alg.SaltLength)
	}
	return rsa.VerifyPKCS1v15(pub, hash, digest, sig) == nil, nil
}

// checkAccess applies the key checks shared by sign and verify, in the
// order the Web Cryptography API performs them: algorithm support,
// algorithm identity, usage, then key type.
func checkAccess(alg types.Algorithm, key *subtle.CryptoKey, usage types.KeyUsage, keyType types.KeyType) error {
	if !alg.Name.IsValid() {
		return subtle.NewError(subtle.NotSupportedError, "unsupported algorithm %q", alg.Name)
	}
	if key == nil {
		return subtle.NewError(subtle.InvalidAccessError, "no key supplied")
	}
	if !alg.Name.Equals(key.Algorithm().Name) {
		return subtle.NewError(subtle.InvalidAccessError,
			"algorithm %s does not match key algorithm %s", alg.Name, key.Algorithm().Name)
	}
	if !key.Usages().Has(usage) {
		return subtle.NewError(subtle.InvalidAccessError,
			"key usages %s do not permit %s", key.Usages(), usage)
	}
	if key.Type() != keyType {
		return subtle.NewError(subtle.InvalidAccessError,
			"%s key cannot be used to %s", key.Type(), usage)
	}
	return nil
}

func hashMessage(name types.HashName, msg []byte) (crypto.Hash, []byte, error) {
	hash, err := name.CryptoHash()
	if err != nil {
		return 0, nil, subtle.WrapError(subtle.NotSupportedError, err, "key hash")
	}
	h := hash.New()
	h.Write(msg)
	return hash, h.Sum(nil), nil
}

func (e *Engine) nextKeyID(keyType types.KeyType) string {
	return fmt.Sprintf("%s-%s-%d", EngineName, keyType, e.seq.Add(1))
}
