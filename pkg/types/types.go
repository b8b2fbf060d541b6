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
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedScheme indicates an unknown signature scheme name.
	ErrUnsupportedScheme = errors.New("types: unsupported signature scheme")

	// ErrUnsupportedHash indicates an unknown hash algorithm name.
	ErrUnsupportedHash = errors.New("types: unsupported hash algorithm")

	// ErrInvalidKeyFormat indicates an unknown key encoding format.
	ErrInvalidKeyFormat = errors.New("types: invalid key format")

	// ErrInvalidKeyUsage indicates an unknown key usage.
	ErrInvalidKeyUsage = errors.New("types: invalid key usage")
)

// =============================================================================
// Key Format
// =============================================================================

// KeyFormat is the encoding of raw key material handed to importKey.
type KeyFormat string

const (
	// KeyFormatSPKI is DER SubjectPublicKeyInfo (public keys only).
	KeyFormatSPKI KeyFormat = "spki"

	// KeyFormatPKCS8 is DER PKCS#8 PrivateKeyInfo (private keys only).
	KeyFormatPKCS8 KeyFormat = "pkcs8"

	// KeyFormatJWK is a JSON Web Key (RFC 7517), public or private.
	KeyFormatJWK KeyFormat = "jwk"
)

// String returns the string representation.
func (f KeyFormat) String() string {
	return string(f)
}

// IsValid reports whether the format is supported.
func (f KeyFormat) IsValid() bool {
	switch f {
	case KeyFormatSPKI, KeyFormatPKCS8, KeyFormatJWK:
		return true
	default:
		return false
	}
}

// ParseKeyFormat parses a format tag.
func ParseKeyFormat(s string) (KeyFormat, error) {
	f := KeyFormat(strings.ToLower(strings.TrimSpace(s)))
	if !f.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidKeyFormat, s)
	}
	return f, nil
}

// =============================================================================
// Key Type
// =============================================================================

// KeyType is the role of an asymmetric key handle.
type KeyType uint8

const (
	KeyTypePublic KeyType = 1 + iota
	KeyTypePrivate
)

// String returns the Web Cryptography API name of the key type.
func (kt KeyType) String() string {
	switch kt {
	case KeyTypePublic:
		return "public"
	case KeyTypePrivate:
		return "private"
	default:
		return fmt.Sprintf("unknown(%d)", kt)
	}
}

// =============================================================================
// Key Usages
// =============================================================================

// KeyUsage is a single operation a key handle may be used for.
type KeyUsage uint8

const (
	KeyUsageSign KeyUsage = 1 << iota
	KeyUsageVerify
)

// String returns the usage name.
func (u KeyUsage) String() string {
	switch u {
	case KeyUsageSign:
		return "sign"
	case KeyUsageVerify:
		return "verify"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(u))
	}
}

// ParseKeyUsage parses a usage name.
func ParseKeyUsage(s string) (KeyUsage, error) {
	switch strings.TrimSpace(s) {
	case "sign":
		return KeyUsageSign, nil
	case "verify":
		return KeyUsageVerify, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidKeyUsage, s)
	}
}

// KeyUsages is a set of usages granted to a key handle at creation.
type KeyUsages uint8

// NoUsages is the empty usage set.
const NoUsages KeyUsages = 0

// Usages builds a usage set.
func Usages(usages ...KeyUsage) KeyUsages {
	var set KeyUsages
	for _, u := range usages {
		set |= KeyUsages(u)
	}
	return set
}

// Has reports whether u is in the set.
func (s KeyUsages) Has(u KeyUsage) bool {
	return s&KeyUsages(u) != 0
}

// Empty reports whether the set grants nothing.
func (s KeyUsages) Empty() bool {
	return s == NoUsages
}

// SubsetOf reports whether every usage in s is also in other.
func (s KeyUsages) SubsetOf(other KeyUsages) bool {
	return s&^other == 0
}

// List returns the usages in a stable order.
func (s KeyUsages) List() []KeyUsage {
	var out []KeyUsage
	for _, u := range []KeyUsage{KeyUsageSign, KeyUsageVerify} {
		if s.Has(u) {
			out = append(out, u)
		}
	}
	return out
}

// String returns a bracketed list such as "[sign verify]".
func (s KeyUsages) String() string {
	names := make([]string, 0, 2)
	for _, u := range s.List() {
		names = append(names, u.String())
	}
	return "[" + strings.Join(names, " ") + "]"
}
