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

package vectors

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-jose/go-jose/v4"
	"github.com/youmark/pkcs8"

	"github.com/jeremyhahn/go-sigvectors/pkg/subtle"
	"github.com/jeremyhahn/go-sigvectors/pkg/subtle/software"
	"github.com/jeremyhahn/go-sigvectors/pkg/types"
)

// SaltHashLength in GenerateOptions.SaltLengths stands for the digest
// length of the vector's hash.
const SaltHashLength = -1

// DefaultMessage is signed when GenerateOptions.Message is empty.
var DefaultMessage = []byte{1, 2, 3, 4}

var (
	// ErrGenerate wraps failures while building a corpus.
	ErrGenerate = errors.New("vectors: corpus generation failed")

	// ErrSaltTooLong is returned when an RSA-PSS salt does not fit the key.
	ErrSaltTooLong = errors.New("vectors: salt length does not fit key size")
)

// GenerateOptions controls corpus generation.
type GenerateOptions struct {
	// Key signs every vector. A new key of KeyBits is generated when nil.
	Key *rsa.PrivateKey

	// KeyBits is the modulus size for a generated key. Default 2048.
	KeyBits int

	// Hashes to generate vectors for. Default SHA-256.
	Hashes []types.HashName

	// SaltLengths for RSA-PSS vectors. Default 0, 32 and SaltHashLength.
	SaltLengths []int

	// Message is the plaintext of every vector.
	Message []byte

	// JWK adds vectors whose keys are JWK encoded.
	JWK bool

	// SignOnly adds vectors without an expected signature.
	SignOnly bool

	// Failing adds a failing vector per hash whose signature is corrupt.
	Failing bool

	// Engine produces the expected signatures. Defaults to the software
	// engine.
	Engine subtle.Subtle

	Rand io.Reader
}

func (o *GenerateOptions) setDefaults() error {
	if o.KeyBits == 0 {
		o.KeyBits = 2048
	}
	if len(o.Hashes) == 0 {
		o.Hashes = []types.HashName{types.HashSHA256}
	}
	if o.SaltLengths == nil {
		o.SaltLengths = []int{0, 32, SaltHashLength}
	}
	if len(o.Message) == 0 {
		o.Message = DefaultMessage
	}
	if o.Rand == nil {
		o.Rand = rand.Reader
	}
	if o.Engine == nil {
		engine, err := software.NewEngine(&software.Config{Rand: o.Rand})
		if err != nil {
			return err
		}
		o.Engine = engine
	}
	for _, h := range o.Hashes {
		if _, err := h.CryptoHash(); err != nil {
			return err
		}
	}
	return nil
}

// MaxSaltLength returns the longest RSA-PSS salt a keyBits modulus can
// carry with hash: emLen - hLen - 2.
func MaxSaltLength(keyBits int, hash types.HashName) int {
	emLen := (keyBits - 1 + 7) / 8
	return emLen - hash.Size() - 2
}

// CheckKeySize returns ErrSaltTooLong if any RSA-PSS vector the options
// describe needs a longer salt than a keyBits modulus can carry.
func (o GenerateOptions) CheckKeySize(keyBits int) error {
	for _, hash := range o.Hashes {
		salts := o.saltLengths(hash)
		if o.JWK || o.SignOnly || o.Failing {
			salts = append(salts, hash.Size())
		}
		limit := MaxSaltLength(keyBits, hash)
		for _, salt := range salts {
			if salt > limit {
				return fmt.Errorf("%w: %s salt %d exceeds %d bytes for a %d-bit key",
					ErrSaltTooLong, hash, salt, limit, keyBits)
			}
		}
	}
	return nil
}

// saltLengths resolves SaltHashLength and drops repeats.
func (o GenerateOptions) saltLengths(hash types.HashName) []int {
	var out []int
	seen := make(map[int]bool)
	for _, salt := range o.SaltLengths {
		if salt == SaltHashLength {
			salt = hash.Size()
		}
		if !seen[salt] {
			seen[salt] = true
			out = append(out, salt)
		}
	}
	return out
}

// Generate builds a corpus of RSA-PSS and RSASSA-PKCS1-v1_5 vectors for
// the configured hashes, signing each with opts.Engine.
func Generate(ctx context.Context, opts GenerateOptions) (*Store, error) {
	if err := opts.setDefaults(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerate, err)
	}

	key := opts.Key
	if key == nil {
		var err error
		if key, err = rsa.GenerateKey(opts.Rand, opts.KeyBits); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGenerate, err)
		}
	}
	if err := opts.CheckKeySize(key.N.BitLen()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerate, err)
	}

	g := &generator{opts: opts, key: key}
	if err := g.encodeDER(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerate, err)
	}

	var passing, failing []*TestVector
	for _, hash := range opts.Hashes {
		vs, err := g.passingFor(ctx, hash)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGenerate, err)
		}
		passing = append(passing, vs...)

		if opts.Failing {
			v, err := g.failingFor(ctx, hash)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrGenerate, err)
			}
			failing = append(failing, v)
		}
	}
	return NewStore(passing, failing)
}

// Generator returns a Loader that generates a corpus on every Load.
func Generator(opts GenerateOptions) Loader {
	return LoaderFunc(func(ctx context.Context) (*Store, error) {
		return Generate(ctx, opts)
	})
}

type generator struct {
	opts  GenerateOptions
	key   *rsa.PrivateKey
	spki  []byte
	pkcs8 []byte
}

func (g *generator) encodeDER() error {
	spki, err := x509.MarshalPKIXPublicKey(&g.key.PublicKey)
	if err != nil {
		return err
	}
	der, err := pkcs8.MarshalPrivateKey(g.key, nil, nil)
	if err != nil {
		return err
	}
	g.spki, g.pkcs8 = spki, der
	return nil
}

func (g *generator) passingFor(ctx context.Context, hash types.HashName) ([]*TestVector, error) {
	prefix := strings.ReplaceAll(hash.Lower(), "-", "")

	var out []*TestVector
	for _, salt := range g.opts.saltLengths(hash) {
		alg := types.Algorithm{Name: types.SchemeRSAPSS, Hash: hash, SaltLength: salt}
		v, err := g.vector(ctx, fmt.Sprintf("%s pss salt %d", prefix, salt), alg, false, true)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}

	pkcs := types.Algorithm{Name: types.SchemeRSAPKCS1v15, Hash: hash}
	v, err := g.vector(ctx, prefix+" pkcs1v15", pkcs, false, true)
	if err != nil {
		return nil, err
	}
	out = append(out, v)

	pss := types.Algorithm{Name: types.SchemeRSAPSS, Hash: hash, SaltLength: hash.Size()}
	if g.opts.JWK {
		for _, alg := range []types.Algorithm{pss, pkcs} {
			name := fmt.Sprintf("%s %s jwk", prefix, schemeLabel(alg.Name))
			v, err := g.vector(ctx, name, alg, true, true)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
	}

	if g.opts.SignOnly {
		for _, alg := range []types.Algorithm{pss, pkcs} {
			name := fmt.Sprintf("%s %s sign only", prefix, schemeLabel(alg.Name))
			v, err := g.vector(ctx, name, alg, false, false)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
	}
	return out, nil
}

func (g *generator) failingFor(ctx context.Context, hash types.HashName) (*TestVector, error) {
	prefix := strings.ReplaceAll(hash.Lower(), "-", "")
	alg := types.Algorithm{Name: types.SchemeRSAPSS, Hash: hash, SaltLength: hash.Size()}
	v, err := g.vector(ctx, prefix+" pss corrupt signature", alg, false, true)
	if err != nil {
		return nil, err
	}
	v.Signature[len(v.Signature)-1] ^= 0xff
	return v, nil
}

func (g *generator) vector(ctx context.Context, name string, alg types.Algorithm, useJWK, withSignature bool) (*TestVector, error) {
	params := types.ImportParams{Name: alg.Name, Hash: alg.Hash}
	v := &TestVector{
		Name:             name,
		Algorithm:        alg,
		PublicKeyBuffer:  g.spki,
		PrivateKeyBuffer: g.pkcs8,
		PublicKeyFormat:  types.KeyFormatSPKI,
		PrivateKeyFormat: types.KeyFormatPKCS8,
		Plaintext:        bytes.Clone(g.opts.Message),
		Hash:             alg.Hash,
	}

	if useJWK {
		pub, err := encodeJWK(&g.key.PublicKey)
		if err != nil {
			return nil, err
		}
		priv, err := encodeJWK(g.key)
		if err != nil {
			return nil, err
		}
		v.PublicKeyBuffer, v.PrivateKeyBuffer = pub, priv
		v.PublicKeyFormat, v.PrivateKeyFormat = types.KeyFormatJWK, types.KeyFormatJWK
	}

	if !withSignature {
		return v.Clone(), nil
	}

	priv, err := g.opts.Engine.ImportKey(ctx, v.PrivateKeyFormat, v.PrivateKeyBuffer, params,
		false, types.Usages(types.KeyUsageSign)).Wait()
	if err != nil {
		return nil, fmt.Errorf("%s: import private key: %w", name, err)
	}
	sig, err := g.opts.Engine.Sign(ctx, alg, priv, v.Plaintext).Wait()
	if err != nil {
		return nil, fmt.Errorf("%s: sign: %w", name, err)
	}
	v.Signature = sig
	return v.Clone(), nil
}

// encodeJWK leaves "alg" out so cross-algorithm cases can import the same
// key under the other scheme.
func encodeJWK(key any) ([]byte, error) {
	return jose.JSONWebKey{Key: key, Use: "sig"}.MarshalJSON()
}

func schemeLabel(name types.SchemeName) string {
	if name.Equals(types.SchemeRSAPSS) {
		return "pss"
	}
	return "pkcs1v15"
}
