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
	"context"
	"errors"

	"github.com/jeremyhahn/go-sigvectors/pkg/async"
	"github.com/jeremyhahn/go-sigvectors/pkg/subtle"
	"github.com/jeremyhahn/go-sigvectors/pkg/types"
	"github.com/jeremyhahn/go-sigvectors/pkg/vectors"
)

// Materializer resolves a vector's key handles through an engine.
type Materializer struct {
	engine subtle.Subtle
}

// NewMaterializer returns a Materializer importing keys with engine.
func NewMaterializer(engine subtle.Subtle) *Materializer {
	return &Materializer{engine: engine}
}

// Materialize returns a clone of v with both key handles present. Handles
// already on v are kept as is; missing ones are imported non-extractable
// with the given usages. Both imports are issued before either is awaited.
// If either fails the future rejects with *ImportError and no partially
// materialized vector is returned. v itself is never modified.
func (m *Materializer) Materialize(ctx context.Context, v *vectors.TestVector,
	publicUsages, privateUsages types.KeyUsages) *async.Future[*vectors.TestVector] {

	c := v.Clone()
	params := c.ImportParams()

	pubF := m.slot(ctx, c.PublicKey, c.PublicKeyFormat, c.PublicKeyBuffer, params, publicUsages)
	privF := m.slot(ctx, c.PrivateKey, c.PrivateKeyFormat, c.PrivateKeyBuffer, params, privateUsages)

	return async.Go(func() (*vectors.TestVector, error) {
		pub, pubErr := pubF.Wait()
		priv, privErr := privF.Wait()

		var errs []error
		if pubErr != nil {
			errs = append(errs, &ImportError{Vector: c.Name, Slot: types.KeyTypePublic, Err: pubErr})
		}
		if privErr != nil {
			errs = append(errs, &ImportError{Vector: c.Name, Slot: types.KeyTypePrivate, Err: privErr})
		}
		if len(errs) == 1 {
			return nil, errs[0]
		}
		if len(errs) > 1 {
			return nil, errors.Join(errs...)
		}

		c.PublicKey, c.PrivateKey = pub, priv
		return c, nil
	})
}

func (m *Materializer) slot(ctx context.Context, key *subtle.CryptoKey, format types.KeyFormat,
	data []byte, params types.ImportParams, usages types.KeyUsages) *async.Future[*subtle.CryptoKey] {

	if key != nil {
		return async.Resolved(key)
	}
	return m.engine.ImportKey(ctx, format, data, params, false, usages)
}
