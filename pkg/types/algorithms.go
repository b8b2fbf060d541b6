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

package types

import (
	"crypto"
	_ "crypto/sha1" // register SHA-1
	_ "crypto/sha256"
	_ "crypto/sha512"
	"fmt"
	"strings"
)

// =============================================================================
// Signature Scheme Names
// =============================================================================
// Scheme names follow the Web Cryptography API registered algorithm names.

// SchemeName identifies an RSA signature scheme.
type SchemeName string

const (
	// SchemeRSAPSS is RSASSA-PSS with MGF1 (probabilistic, salted).
	SchemeRSAPSS SchemeName = "RSA-PSS"

	// SchemeRSAPKCS1v15 is RSASSA-PKCS1-v1_5 (deterministic).
	SchemeRSAPKCS1v15 SchemeName = "RSASSA-PKCS1-v1_5"
)

// String returns the string representation.
func (s SchemeName) String() string {
	return string(s)
}

// Equals performs case-insensitive comparison, matching how the Web
// Cryptography API normalizes algorithm names.
func (s SchemeName) Equals(other SchemeName) bool {
	return strings.EqualFold(string(s), string(other))
}

// IsValid reports whether the scheme is one of the supported RSA schemes.
func (s SchemeName) IsValid() bool {
	return s.Equals(SchemeRSAPSS) || s.Equals(SchemeRSAPKCS1v15)
}

// Other returns the alternate RSA scheme. It is used to obtain a key that
// is valid in every respect except its algorithm identity.
func (s SchemeName) Other() SchemeName {
	if s.Equals(SchemeRSAPSS) {
		return SchemeRSAPKCS1v15
	}
	return SchemeRSAPSS
}

// ParseSchemeName parses a scheme name case-insensitively.
func ParseSchemeName(s string) (SchemeName, error) {
	switch {
	case SchemeRSAPSS.Equals(SchemeName(s)):
		return SchemeRSAPSS, nil
	case SchemeRSAPKCS1v15.Equals(SchemeName(s)):
		return SchemeRSAPKCS1v15, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, s)
	}
}

// =============================================================================
// Hash Algorithm Names
// =============================================================================

// HashName represents hash algorithm identifiers.
type HashName string

const (
	// HashSHA1 is SHA-1 (legacy, use SHA-256+ for new applications).
	HashSHA1 HashName = "SHA-1"

	// HashSHA256 is SHA-256 (recommended minimum).
	HashSHA256 HashName = "SHA-256"

	// HashSHA384 is SHA-384.
	HashSHA384 HashName = "SHA-384"

	// HashSHA512 is SHA-512.
	HashSHA512 HashName = "SHA-512"
)

// String returns the string representation.
func (h HashName) String() string {
	return string(h)
}

// Lower returns the lowercase form of the hash name.
func (h HashName) Lower() string {
	return strings.ToLower(string(h))
}

// Equals performs case-insensitive comparison for protocol compatibility.
func (h HashName) Equals(s string) bool {
	return strings.EqualFold(string(h), s)
}

// CryptoHash maps the hash name to a crypto.Hash. Unknown names return
// ErrUnsupportedHash.
func (h HashName) CryptoHash() (crypto.Hash, error) {
	switch {
	case HashSHA1.Equals(string(h)):
		return crypto.SHA1, nil
	case HashSHA256.Equals(string(h)):
		return crypto.SHA256, nil
	case HashSHA384.Equals(string(h)):
		return crypto.SHA384, nil
	case HashSHA512.Equals(string(h)):
		return crypto.SHA512, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedHash, string(h))
	}
}

// Size returns the digest length in bytes, or 0 for unknown hashes.
func (h HashName) Size() int {
	ch, err := h.CryptoHash()
	if err != nil {
		return 0
	}
	return ch.Size()
}

// =============================================================================
// Algorithm Parameters
// =============================================================================

// Algorithm carries the parameters passed to sign and verify: the scheme
// name, the hash, and for RSA-PSS the salt length in bytes.
type Algorithm struct {
	Name       SchemeName `yaml:"name" json:"name"`
	Hash       HashName   `yaml:"hash,omitempty" json:"hash,omitempty"`
	SaltLength int        `yaml:"saltLength,omitempty" json:"saltLength,omitempty"`
}

// Clone returns an independent copy of the algorithm parameters.
func (a *Algorithm) Clone() *Algorithm {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

// IsPSS reports whether the algorithm is RSA-PSS.
func (a Algorithm) IsPSS() bool {
	return a.Name.Equals(SchemeRSAPSS)
}

// String returns a short human readable form, e.g. "RSA-PSS/SHA-256/32".
func (a Algorithm) String() string {
	if a.IsPSS() {
		return fmt.Sprintf("%s/%s/%d", a.Name, a.Hash, a.SaltLength)
	}
	if a.Hash != "" {
		return fmt.Sprintf("%s/%s", a.Name, a.Hash)
	}
	return a.Name.String()
}

// ImportParams are the algorithm parameters supplied when importing a key.
type ImportParams struct {
	Name SchemeName
	Hash HashName
}

// JWKAlgorithm returns the JOSE "alg" value for the import parameters,
// e.g. "PS256" for RSA-PSS with SHA-256. It returns "" for unsupported
// combinations.
func (p ImportParams) JWKAlgorithm() string {
	var bits string
	switch {
	case HashSHA1.Equals(string(p.Hash)):
		bits = "1"
	case HashSHA256.Equals(string(p.Hash)):
		bits = "256"
	case HashSHA384.Equals(string(p.Hash)):
		bits = "384"
	case HashSHA512.Equals(string(p.Hash)):
		bits = "512"
	default:
		return ""
	}
	switch {
	case p.Name.Equals(SchemeRSAPSS):
		return "PS" + bits
	case p.Name.Equals(SchemeRSAPKCS1v15):
		return "RS" + bits
	default:
		return ""
	}
}
