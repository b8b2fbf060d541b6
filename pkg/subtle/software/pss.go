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
	"bytes"
	"crypto"
	"crypto/hmac"
	"crypto/rsa"
	"math/big"

	"github.com/jeremyhahn/go-sigvectors/pkg/subtle"
)

// crypto/rsa reads a zero PSSOptions.SaltLength as "as large as possible"
// when signing and "auto-detect" when verifying, so a literal zero-length
// salt is encoded here per RFC 8017 section 9.1 instead.

func (e *Engine) signPSS(priv *rsa.PrivateKey, hash crypto.Hash, digest []byte, saltLength int) ([]byte, error) {
	switch {
	case saltLength < 0:
		return nil, subtle.NewError(subtle.OperationError, "negative salt length %d", saltLength)
	case saltLength == 0:
		sig, err := signPSSNoSalt(priv, hash, digest)
		if err != nil {
			return nil, subtle.WrapError(subtle.OperationError, err, "RSA-PSS signing failed")
		}
		return sig, nil
	}

	sig, err := rsa.SignPSS(e.rand, priv, hash, digest, &rsa.PSSOptions{
		SaltLength: saltLength,
		Hash:       hash,
	})
	if err != nil {
		return nil, subtle.WrapError(subtle.OperationError, err, "RSA-PSS signing failed")
	}
	return sig, nil
}

// verifyPSS reports whether sig is valid. Malformed signatures resolve
// false; only a nonsensical salt length is an error.
func verifyPSS(pub *rsa.PublicKey, hash crypto.Hash, digest, sig []byte, saltLength int) (bool, error) {
	switch {
	case saltLength < 0:
		return false, subtle.NewError(subtle.OperationError, "negative salt length %d", saltLength)
	case saltLength == 0:
		return verifyPSSNoSalt(pub, hash, digest, sig), nil
	}

	err := rsa.VerifyPSS(pub, hash, digest, sig, &rsa.PSSOptions{
		SaltLength: saltLength,
		Hash:       hash,
	})
	return err == nil, nil
}

func signPSSNoSalt(priv *rsa.PrivateKey, hash crypto.Hash, digest []byte) ([]byte, error) {
	emBits := priv.N.BitLen() - 1
	em, err := encodePSSNoSalt(digest, emBits, hash)
	if err != nil {
		return nil, err
	}

	m := new(big.Int).SetBytes(em)
	s := new(big.Int).Exp(m, priv.D, priv.N)

	// Check the result against the public exponent before releasing it.
	check := new(big.Int).Exp(s, big.NewInt(int64(priv.E)), priv.N)
	if check.Cmp(m) != 0 {
		return nil, rsa.ErrVerification
	}

	k := (priv.N.BitLen() + 7) / 8
	return s.FillBytes(make([]byte, k)), nil
}

func verifyPSSNoSalt(pub *rsa.PublicKey, hash crypto.Hash, digest, sig []byte) bool {
	k := (pub.N.BitLen() + 7) / 8
	if len(sig) != k {
		return false
	}
	s := new(big.Int).SetBytes(sig)
	if s.Cmp(pub.N) >= 0 {
		return false
	}
	m := new(big.Int).Exp(s, big.NewInt(int64(pub.E)), pub.N)

	emBits := pub.N.BitLen() - 1
	emLen := (emBits + 7) / 8
	if m.BitLen() > emLen*8 {
		return false
	}
	em := m.FillBytes(make([]byte, emLen))
	return verifyEncodedPSSNoSalt(digest, em, emBits, hash)
}

// encodePSSNoSalt is EMSA-PSS-ENCODE with an empty salt.
func encodePSSNoSalt(mHash []byte, emBits int, hash crypto.Hash) ([]byte, error) {
	hLen := hash.Size()
	emLen := (emBits + 7) / 8
	if len(mHash) != hLen || emLen < hLen+2 {
		return nil, ErrMessageTooLong
	}

	h := pssHash(hash, mHash)

	em := make([]byte, emLen)
	dbLen := emLen - hLen - 1
	db := em[:dbLen]
	db[dbLen-1] = 0x01
	mgf1XOR(db, hash, h)
	db[0] &= 0xff >> (8*emLen - emBits)

	copy(em[dbLen:], h)
	em[emLen-1] = 0xbc
	return em, nil
}

// verifyEncodedPSSNoSalt is EMSA-PSS-VERIFY with sLen fixed at zero.
func verifyEncodedPSSNoSalt(mHash, em []byte, emBits int, hash crypto.Hash) bool {
	hLen := hash.Size()
	emLen := (emBits + 7) / 8
	if len(mHash) != hLen || len(em) != emLen || emLen < hLen+2 {
		return false
	}
	if em[emLen-1] != 0xbc {
		return false
	}

	dbLen := emLen - hLen - 1
	db := bytes.Clone(em[:dbLen])
	h := em[dbLen : emLen-1]

	mask := byte(0xff >> (8*emLen - emBits))
	if db[0]&^mask != 0 {
		return false
	}
	mgf1XOR(db, hash, h)
	db[0] &= mask

	psLen := dbLen - 1
	for _, b := range db[:psLen] {
		if b != 0 {
			return false
		}
	}
	if db[psLen] != 0x01 {
		return false
	}
	return hmac.Equal(h, pssHash(hash, mHash))
}

// pssHash computes H = Hash(0x00*8 || mHash) for an empty salt.
func pssHash(hash crypto.Hash, mHash []byte) []byte {
	var prefix [8]byte
	h := hash.New()
	h.Write(prefix[:])
	h.Write(mHash)
	return h.Sum(nil)
}

// mgf1XOR XORs out with the MGF1 mask generated from seed.
func mgf1XOR(out []byte, hash crypto.Hash, seed []byte) {
	var counter [4]byte
	done := 0
	for done < len(out) {
		h := hash.New()
		h.Write(seed)
		h.Write(counter[:])
		for _, b := range h.Sum(nil) {
			if done == len(out) {
				break
			}
			out[done] ^= b
			done++
		}
		incCounter(&counter)
	}
}

func incCounter(c *[4]byte) {
	for i := 3; i >= 0; i-- {
		c[i]++
		if c[i] != 0 {
			return
		}
	}
}
