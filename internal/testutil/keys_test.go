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

package testutil

import (
	"crypto/x509"
	"strings"
	"testing"

	"github.com/youmark/pkcs8"
)

func TestRSAKeyIsCached(t *testing.T) {
	a, err := RSAKey(1024)
	if err != nil {
		t.Fatalf("RSAKey() failed: %v", err)
	}
	b, err := RSAKey(1024)
	if err != nil {
		t.Fatalf("RSAKey() failed: %v", err)
	}
	if a != b {
		t.Error("Expected the same key for the same size")
	}
	if a.N.BitLen() != 1024 {
		t.Errorf("Expected 1024-bit modulus, got %d", a.N.BitLen())
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	key, err := RSAKey(1024)
	if err != nil {
		t.Fatalf("RSAKey() failed: %v", err)
	}

	spki, err := MarshalSPKI(key)
	if err != nil {
		t.Fatalf("MarshalSPKI() failed: %v", err)
	}
	if _, err := x509.ParsePKIXPublicKey(spki); err != nil {
		t.Errorf("SPKI does not parse: %v", err)
	}

	der, err := MarshalPKCS8(key)
	if err != nil {
		t.Fatalf("MarshalPKCS8() failed: %v", err)
	}
	parsed, err := pkcs8.ParsePKCS8PrivateKeyRSA(der)
	if err != nil {
		t.Fatalf("PKCS#8 does not parse: %v", err)
	}
	if !parsed.Equal(key) {
		t.Error("PKCS#8 round trip changed the key")
	}

	jwk, err := MarshalJWK(&key.PublicKey, "PS256", "sig")
	if err != nil {
		t.Fatalf("MarshalJWK() failed: %v", err)
	}
	for _, member := range []string{`"kty":"RSA"`, `"alg":"PS256"`, `"use":"sig"`} {
		if !strings.Contains(string(jwk), member) {
			t.Errorf("JWK %s missing %s", jwk, member)
		}
	}
}
