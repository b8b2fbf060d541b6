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

package harness

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jeremyhahn/go-sigvectors/pkg/async"
	"github.com/jeremyhahn/go-sigvectors/pkg/subtle"
	"github.com/jeremyhahn/go-sigvectors/pkg/types"
	"github.com/jeremyhahn/go-sigvectors/pkg/vectors"
)

// CaseKind is one of the checks run against every vector.
type CaseKind int

const (
	CaseVerify CaseKind = iota
	CaseVerifyAlteredSignature
	CaseVerifyAlteredPlaintext
	CaseVerifyWithPrivateKey
	CaseSignWithPublicKey
	CaseVerifyNoUsage
	CaseRoundTrip
	CaseSignWrongAlgorithm
	CaseVerifyWrongAlgorithm
)

// AllCaseKinds returns every case kind in registration order.
func AllCaseKinds() []CaseKind {
	return []CaseKind{
		CaseVerify,
		CaseVerifyAlteredSignature,
		CaseVerifyAlteredPlaintext,
		CaseVerifyWithPrivateKey,
		CaseSignWithPublicKey,
		CaseVerifyNoUsage,
		CaseRoundTrip,
		CaseSignWrongAlgorithm,
		CaseVerifyWrongAlgorithm,
	}
}

var caseSuffixes = map[CaseKind]string{
	CaseVerify:                 "verification",
	CaseVerifyAlteredSignature: "verification with altered signature",
	CaseVerifyAlteredPlaintext: "with altered plaintext after call",
	CaseVerifyWithPrivateKey:   "using privateKey to verify",
	CaseSignWithPublicKey:      "using publicKey to sign",
	CaseVerifyNoUsage:          "no verify usage",
	CaseRoundTrip:              "round trip",
	CaseSignWrongAlgorithm:     "signing with wrong algorithm name",
	CaseVerifyWrongAlgorithm:   "verification with wrong algorithm name",
}

// importStepSuffixes override Suffix in the name of the failing unit
// registered when materialization fails.
var importStepSuffixes = map[CaseKind]string{
	CaseVerifyAlteredPlaintext: "with altered plaintext",
}

// Suffix is appended to the vector name to form the reported case name.
func (k CaseKind) Suffix() string {
	if s, ok := caseSuffixes[k]; ok {
		return s
	}
	return fmt.Sprintf("case(%d)", int(k))
}

func (k CaseKind) String() string {
	return k.Suffix()
}

// ImportStepName is the name reported for the case when the vector's keys
// cannot be materialized.
func (c Case) ImportStepName() string {
	suffix, ok := importStepSuffixes[c.Kind]
	if !ok {
		return ImportStepPrefix + c.Name
	}
	return ImportStepPrefix + c.Vector.Name + " " + suffix
}

// ParseCaseKind maps a suffix back to its kind.
func ParseCaseKind(s string) (CaseKind, error) {
	for k, suffix := range caseSuffixes {
		if suffix == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown case kind %q", s)
}

// NeedsSignature reports whether the case is skipped for sign-only
// vectors. The altered-plaintext case expects verify to resolve true,
// which requires a signature.
func (k CaseKind) NeedsSignature() bool {
	switch k {
	case CaseVerify, CaseVerifyAlteredSignature, CaseVerifyAlteredPlaintext, CaseVerifyWrongAlgorithm:
		return true
	default:
		return false
	}
}

// Applies reports whether the case runs for v.
func (k CaseKind) Applies(v *vectors.TestVector) bool {
	return !k.NeedsSignature() || v.HasSignature()
}

// Case is one reportable check against one vector.
type Case struct {
	Kind CaseKind
	Name string

	// Vector is a private clone of the corpus entry.
	Vector *vectors.TestVector
}

// Cases returns the applicable cases for v, restricted to kinds. A kind
// listed twice yields one case.
func Cases(v *vectors.TestVector, kinds []CaseKind) []Case {
	out := make([]Case, 0, len(kinds))
	seen := make(map[CaseKind]bool, len(kinds))
	for _, k := range kinds {
		if seen[k] || !k.Applies(v) {
			continue
		}
		seen[k] = true
		out = append(out, Case{
			Kind:   k,
			Name:   v.Name + " " + k.Suffix(),
			Vector: v.Clone(),
		})
	}
	return out
}

var (
	verifyOnly = types.Usages(types.KeyUsageVerify)
	signOnly   = types.Usages(types.KeyUsageSign)
)

// Setup returns the vector to materialize for this case and the usages
// to import its keys with. The returned vector is always a new clone.
// Cross-algorithm cases swap the scheme on the clone only, and the
// no-usage case drops any existing handles so its restricted public key
// is a fresh import.
func (c Case) Setup() (v *vectors.TestVector, publicUsages, privateUsages types.KeyUsages) {
	switch c.Kind {
	case CaseVerifyNoUsage:
		return c.Vector.Raw(), types.NoUsages, signOnly
	case CaseSignWrongAlgorithm, CaseVerifyWrongAlgorithm:
		v := c.Vector.Raw()
		v.Algorithm.Name = v.Algorithm.Name.Other()
		return v, verifyOnly, signOnly
	default:
		return c.Vector.Clone(), verifyOnly, signOnly
	}
}

// Run executes the case against the materialized vector mv. Operations
// use the algorithm of c.Vector, not of mv.
func (c Case) Run(ctx context.Context, engine subtle.Subtle, mv *vectors.TestVector) error {
	alg := c.Vector.Algorithm

	switch c.Kind {
	case CaseVerify:
		ok, err := engine.Verify(ctx, alg, mv.PublicKey, mv.Signature, mv.Plaintext).Wait()
		return expectVerified(ok, err)

	case CaseVerifyAlteredSignature:
		sig := bytes.Clone(mv.Signature)
		f := engine.Verify(ctx, alg, mv.PublicKey, sig, mv.Plaintext)
		flipFirst(sig)
		ok, err := f.Wait()
		return expectVerified(ok, err)

	case CaseVerifyAlteredPlaintext:
		pt := bytes.Clone(mv.Plaintext)
		f := engine.Verify(ctx, alg, mv.PublicKey, mv.Signature, pt)
		flipFirst(pt)
		ok, err := f.Wait()
		return expectVerified(ok, err)

	case CaseVerifyWithPrivateKey:
		_, err := engine.Verify(ctx, alg, mv.PrivateKey, mv.Signature, mv.Plaintext).Wait()
		return ExpectRejection("verify", err, RoleMismatch.ErrorName())

	case CaseSignWithPublicKey:
		_, err := engine.Sign(ctx, alg, mv.PublicKey, mv.Plaintext).Wait()
		return ExpectRejection("sign", err, RoleMismatch.ErrorName())

	case CaseVerifyNoUsage:
		_, err := engine.Verify(ctx, alg, mv.PublicKey, mv.Signature, mv.Plaintext).Wait()
		return ExpectRejection("verify", err, UsageRestriction.ErrorName())

	case CaseRoundTrip:
		return roundTrip(ctx, engine, alg, mv)

	case CaseSignWrongAlgorithm:
		_, err := engine.Sign(ctx, alg, mv.PrivateKey, mv.Plaintext).Wait()
		return ExpectRejection("sign", err, AlgorithmMismatch.ErrorName())

	case CaseVerifyWrongAlgorithm:
		_, err := engine.Verify(ctx, alg, mv.PublicKey, mv.Signature, mv.Plaintext).Wait()
		return ExpectRejection("verify", err, AlgorithmMismatch.ErrorName())

	default:
		return fmt.Errorf("unknown case kind %d", int(c.Kind))
	}
}

// roundTrip signs, verifies the result, then signs again. The two
// signatures must be equal exactly when the salt length is zero.
func roundTrip(ctx context.Context, engine subtle.Subtle, alg types.Algorithm, mv *vectors.TestVector) error {
	signed := engine.Sign(ctx, alg, mv.PrivateKey, mv.Plaintext)
	verified := async.Then(signed, func(sig []byte) (bool, error) {
		return engine.Verify(ctx, alg, mv.PublicKey, sig, mv.Plaintext).Wait()
	})

	first, err := signed.Wait()
	if err := ExpectResolution("sign", err); err != nil {
		return err
	}
	ok, err := verified.Wait()
	if err := expectVerified(ok, err); err != nil {
		return err
	}

	second, err := engine.Sign(ctx, alg, mv.PrivateKey, mv.Plaintext).Wait()
	if err := ExpectResolution("sign", err); err != nil {
		return err
	}

	same := bytes.Equal(first, second)
	switch {
	case alg.SaltLength == 0 && !same:
		return assertf("signatures differ with salt length 0")
	case alg.SaltLength != 0 && same:
		return assertf("signatures identical with salt length %d", alg.SaltLength)
	}
	return nil
}

func expectVerified(ok bool, err error) error {
	if err := ExpectResolution("verify", err); err != nil {
		return err
	}
	if !ok {
		return assertf("signature not verified")
	}
	return nil
}

func flipFirst(b []byte) {
	if len(b) > 0 {
		b[0] = ^b[0]
	}
}
