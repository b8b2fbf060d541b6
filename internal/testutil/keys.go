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

// Package testutil holds fixtures shared by the test suites. RSA key
// generation dominates test time, so keys are generated once per size and
// reused.
package testutil

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"fmt"
	"sync"

	"github.com/go-jose/go-jose/v4"
	"github.com/youmark/pkcs8"
)

var (
	keysMu sync.Mutex
	keys   = make(map[int]*rsa.PrivateKey)
)

// RSAKey returns an RSA key of the given size, generating it on first use.
// Every caller asking for the same size gets the same key; callers must
// not modify it.
//
// Example:
//
//	key, err := testutil.RSAKey(2048)
//	if err != nil {
//	    t.Fatalf("Failed to generate key: %v", err)
//	}
func RSAKey(bits int) (*rsa.PrivateKey, error) {
	keysMu.Lock()
	defer keysMu.Unlock()

	if key, ok := keys[bits]; ok {
		return key, nil
	}
	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate %d-bit RSA key: %w", bits, err)
	}
	keys[bits] = key
	return key, nil
}

// MarshalSPKI returns the DER SubjectPublicKeyInfo of key's public half.
func MarshalSPKI(key *rsa.PrivateKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal SPKI: %w", err)
	}
	return der, nil
}

// MarshalPKCS8 returns the unencrypted DER PKCS#8 encoding of key.
func MarshalPKCS8(key *rsa.PrivateKey) ([]byte, error) {
	der, err := pkcs8.MarshalPrivateKey(key, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal PKCS#8: %w", err)
	}
	return der, nil
}

// MarshalJWK returns the JSON Web Key for key, which may be a private or
// public RSA key. Empty alg or use leave the member out.
func MarshalJWK(key any, alg, use string) ([]byte, error) {
	data, err := jose.JSONWebKey{Key: key, Algorithm: alg, Use: use}.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JWK: %w", err)
	}
	return data, nil
}
