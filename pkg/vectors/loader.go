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
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jeremyhahn/go-sigvectors/pkg/encoding"
	"github.com/jeremyhahn/go-sigvectors/pkg/types"
)

// ErrCorpusFormat indicates a corpus file that cannot be decoded.
var ErrCorpusFormat = errors.New("vectors: invalid corpus file")

// corpusFile is the on-disk YAML layout. Byte fields are standard base64.
type corpusFile struct {
	Passing []vectorRecord `yaml:"passing"`
	Failing []vectorRecord `yaml:"failing,omitempty"`
}

type vectorRecord struct {
	Name       string          `yaml:"name"`
	Algorithm  types.Algorithm `yaml:"algorithm"`
	Hash       types.HashName  `yaml:"hash,omitempty"`
	PublicKey  keyRecord       `yaml:"publicKey"`
	PrivateKey keyRecord       `yaml:"privateKey"`
	Plaintext  string          `yaml:"plaintext"`
	Signature  *string         `yaml:"signature,omitempty"`
}

// keyRecord holds a key buffer as base64 in Data, or for spki and pkcs8
// as a PEM block in PEM. Exactly one of the two is set.
type keyRecord struct {
	Format types.KeyFormat `yaml:"format"`
	Data   string          `yaml:"data,omitempty"`
	PEM    string          `yaml:"pem,omitempty"`
}

// EncodeOption configures Encode and WriteFile.
type EncodeOption func(*encodeOptions)

type encodeOptions struct {
	pemKeys bool
}

// WithPEMKeys writes spki and pkcs8 key buffers as PEM blocks instead of
// base64 DER. JWK keys stay base64.
func WithPEMKeys() EncodeOption {
	return func(o *encodeOptions) {
		o.pemKeys = true
	}
}

// FileLoader loads a corpus from a YAML file.
type FileLoader struct {
	Path string
}

// Load implements Loader.
func (l FileLoader) Load(ctx context.Context) (*Store, error) {
	return LoadFile(l.Path)
}

// LoadFile reads a YAML corpus file.
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// WriteFile writes the store to path as YAML with 0644 permissions.
func WriteFile(path string, s *Store, opts ...EncodeOption) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create corpus file: %w", err)
	}
	if err := Encode(f, s, opts...); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Decode reads a YAML corpus from r.
func Decode(r io.Reader) (*Store, error) {
	var file corpusFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return NewStore(nil, nil)
		}
		return nil, fmt.Errorf("%w: %v", ErrCorpusFormat, err)
	}

	passing, err := fromRecords(file.Passing)
	if err != nil {
		return nil, err
	}
	failing, err := fromRecords(file.Failing)
	if err != nil {
		return nil, err
	}
	return NewStore(passing, failing)
}

// Encode writes the store to w as YAML. Only the encoded key buffers are
// written; materialized handles are not serialized.
func Encode(w io.Writer, s *Store, opts ...EncodeOption) error {
	var o encodeOptions
	for _, opt := range opts {
		opt(&o)
	}

	passing, err := toRecords(s.passing, o)
	if err != nil {
		return err
	}
	failing, err := toRecords(s.failing, o)
	if err != nil {
		return err
	}
	file := corpusFile{Passing: passing, Failing: failing}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&file); err != nil {
		return fmt.Errorf("failed to encode corpus: %w", err)
	}
	return enc.Close()
}

func fromRecords(records []vectorRecord) ([]*TestVector, error) {
	out := make([]*TestVector, 0, len(records))
	for i, r := range records {
		v, err := r.vector()
		if err != nil {
			return nil, fmt.Errorf("%w: vector %d (%s): %v", ErrCorpusFormat, i, r.Name, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (r vectorRecord) vector() (*TestVector, error) {
	pub, err := r.PublicKey.decode("publicKey")
	if err != nil {
		return nil, err
	}
	priv, err := r.PrivateKey.decode("privateKey")
	if err != nil {
		return nil, err
	}
	pt, err := decodeBase64("plaintext", r.Plaintext)
	if err != nil {
		return nil, err
	}

	var sig []byte
	if r.Signature != nil {
		if sig, err = decodeBase64("signature", *r.Signature); err != nil {
			return nil, err
		}
		if sig == nil {
			sig = []byte{}
		}
	}

	hash := r.Hash
	if hash == "" {
		hash = r.Algorithm.Hash
	}
	return &TestVector{
		Name:             r.Name,
		Algorithm:        r.Algorithm,
		PublicKeyBuffer:  pub,
		PrivateKeyBuffer: priv,
		PublicKeyFormat:  r.PublicKey.Format,
		PrivateKeyFormat: r.PrivateKey.Format,
		Plaintext:        pt,
		Signature:        sig,
		Hash:             hash,
	}, nil
}

func toRecords(vs []*TestVector, o encodeOptions) ([]vectorRecord, error) {
	out := make([]vectorRecord, 0, len(vs))
	for _, v := range vs {
		pub, err := encodeKey(v.PublicKeyFormat, v.PublicKeyBuffer, o)
		if err != nil {
			return nil, fmt.Errorf("%s: public key: %w", v.Name, err)
		}
		priv, err := encodeKey(v.PrivateKeyFormat, v.PrivateKeyBuffer, o)
		if err != nil {
			return nil, fmt.Errorf("%s: private key: %w", v.Name, err)
		}
		r := vectorRecord{
			Name:       v.Name,
			Algorithm:  v.Algorithm,
			Hash:       v.Hash,
			PublicKey:  pub,
			PrivateKey: priv,
			Plaintext:  base64.StdEncoding.EncodeToString(v.Plaintext),
		}
		if v.HasSignature() {
			sig := base64.StdEncoding.EncodeToString(v.Signature)
			r.Signature = &sig
		}
		out = append(out, r)
	}
	return out, nil
}

func encodeKey(format types.KeyFormat, buf []byte, o encodeOptions) (keyRecord, error) {
	if o.pemKeys && format != types.KeyFormatJWK {
		armored, err := encoding.EncodeKeyPEM(format, buf)
		if err != nil {
			return keyRecord{}, err
		}
		return keyRecord{Format: format, PEM: string(armored)}, nil
	}
	return keyRecord{Format: format, Data: base64.StdEncoding.EncodeToString(buf)}, nil
}

func (k keyRecord) decode(field string) ([]byte, error) {
	if k.PEM == "" {
		return decodeBase64(field+".data", k.Data)
	}
	if k.Data != "" {
		return nil, fmt.Errorf("%s: data and pem are mutually exclusive", field)
	}
	der, err := encoding.DecodeKeyPEM(k.Format, []byte(k.PEM))
	if err != nil {
		return nil, fmt.Errorf("%s.pem: %w", field, err)
	}
	return der, nil
}

func decodeBase64(field, s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return b, nil
}
