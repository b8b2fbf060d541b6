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
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"fmt"

	"github.com/go-jose/go-jose/v4"
	"github.com/youmark/pkcs8"

	"github.com/jeremyhahn/go-sigvectors/pkg/subtle"
	"github.com/jeremyhahn/go-sigvectors/pkg/types"
)

var (
	publicUsages  = types.Usages(types.KeyUsageVerify)
	privateUsages = types.Usages(types.KeyUsageSign)
)

func (e *Engine) importKey(format types.KeyFormat, data []byte, params types.ImportParams,
	extractable bool, usages types.KeyUsages) (*subtle.CryptoKey, error) {

	name, err := types.ParseSchemeName(params.Name.String())
	if err != nil {
		return nil, subtle.WrapError(subtle.NotSupportedError, err, "import algorithm")
	}
	if _, err := params.Hash.CryptoHash(); err != nil {
		return nil, subtle.WrapError(subtle.NotSupportedError, err, "import hash")
	}
	params.Name = name

	var (
		keyType  types.KeyType
		material any
	)
	switch format {
	case types.KeyFormatSPKI:
		if !usages.SubsetOf(publicUsages) {
			return nil, subtle.NewError(subtle.SyntaxError, "usages %s are invalid for a public key", usages)
		}
		pub, err := parseSPKI(data)
		if err != nil {
			return nil, err
		}
		keyType, material = types.KeyTypePublic, pub

	case types.KeyFormatPKCS8:
		if !usages.SubsetOf(privateUsages) {
			return nil, subtle.NewError(subtle.SyntaxError, "usages %s are invalid for a private key", usages)
		}
		priv, err := parsePKCS8(data)
		if err != nil {
			return nil, err
		}
		keyType, material = types.KeyTypePrivate, priv

	case types.KeyFormatJWK:
		keyType, material, err = parseJWK(data, params, usages)
		if err != nil {
			return nil, err
		}

	default:
		return nil, subtle.NewError(subtle.NotSupportedError, "unsupported key format %q", format)
	}

	if err := e.checkModulus(material); err != nil {
		return nil, err
	}
	if keyType == types.KeyTypePrivate && usages.Empty() {
		return nil, subtle.NewError(subtle.SyntaxError, "private key requires at least one usage")
	}

	return subtle.NewCryptoKey(e.nextKeyID(keyType), keyType, params, extractable, usages, material), nil
}

func parseSPKI(der []byte) (*rsa.PublicKey, error) {
	key, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, subtle.WrapError(subtle.DataError, err, "invalid spki")
	}
	pub, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, subtle.WrapError(subtle.DataError, ErrNotRSAKey, fmt.Sprintf("spki holds %T", key))
	}
	return pub, nil
}

func parsePKCS8(der []byte) (*rsa.PrivateKey, error) {
	priv, err := pkcs8.ParsePKCS8PrivateKeyRSA(der)
	if err != nil {
		return nil, subtle.WrapError(subtle.DataError, err, "invalid pkcs8")
	}
	return priv, nil
}

// jwkHeader holds the members go-jose does not validate for us.
type jwkHeader struct {
	Kty string `json:"kty"`
	D   string `json:"d"`
}

func parseJWK(data []byte, params types.ImportParams, usages types.KeyUsages) (types.KeyType, any, error) {
	var hdr jwkHeader
	if err := json.Unmarshal(data, &hdr); err != nil {
		return 0, nil, subtle.WrapError(subtle.DataError, err, "invalid jwk")
	}

	keyType := types.KeyTypePublic
	allowed := publicUsages
	if hdr.D != "" {
		keyType = types.KeyTypePrivate
		allowed = privateUsages
	}
	if !usages.SubsetOf(allowed) {
		return 0, nil, subtle.NewError(subtle.SyntaxError, "usages %s are invalid for a %s key", usages, keyType)
	}
	if hdr.Kty != "RSA" {
		return 0, nil, subtle.NewError(subtle.DataError, "jwk kty %q is not RSA", hdr.Kty)
	}

	var jwk jose.JSONWebKey
	if err := jwk.UnmarshalJSON(data); err != nil {
		return 0, nil, subtle.WrapError(subtle.DataError, err, "invalid jwk")
	}
	if jwk.Use != "" && jwk.Use != "sig" {
		return 0, nil, subtle.NewError(subtle.DataError, "jwk use %q is not \"sig\"", jwk.Use)
	}
	if want := params.JWKAlgorithm(); jwk.Algorithm != "" && jwk.Algorithm != want {
		return 0, nil, subtle.NewError(subtle.DataError, "jwk alg %q does not match %s", jwk.Algorithm, want)
	}

	switch key := jwk.Key.(type) {
	case *rsa.PrivateKey:
		if keyType != types.KeyTypePrivate {
			return 0, nil, subtle.NewError(subtle.DataError, "jwk private key without \"d\"")
		}
		return keyType, key, nil
	case *rsa.PublicKey:
		if keyType != types.KeyTypePublic {
			return 0, nil, subtle.NewError(subtle.DataError, "jwk public key with \"d\"")
		}
		return keyType, key, nil
	default:
		return 0, nil, subtle.WrapError(subtle.DataError, ErrNotRSAKey, fmt.Sprintf("jwk holds %T", key))
	}
}

func (e *Engine) checkModulus(material any) error {
	var bits int
	switch k := material.(type) {
	case *rsa.PrivateKey:
		bits = k.N.BitLen()
	case *rsa.PublicKey:
		bits = k.N.BitLen()
	}
	if bits < e.minKeyBits {
		return subtle.WrapError(subtle.DataError, ErrKeyTooSmall,
			fmt.Sprintf("%d-bit modulus, minimum %d", bits, e.minKeyBits))
	}
	return nil
}
