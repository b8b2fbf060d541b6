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

//go:build !race

package harness

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jeremyhahn/go-sigvectors/pkg/async"
	"github.com/jeremyhahn/go-sigvectors/pkg/subtle"
	"github.com/jeremyhahn/go-sigvectors/pkg/subtle/software"
	"github.com/jeremyhahn/go-sigvectors/pkg/types"
	"github.com/jeremyhahn/go-sigvectors/pkg/vectors"
)

// lazyEngine reads its byte arguments only after a delay, so it observes
// changes the caller makes after issuing the call. That read is
// deliberately unsynchronized, hence the build tag.
type lazyEngine struct {
	*software.Engine
}

func (e lazyEngine) Verify(ctx context.Context, alg types.Algorithm, key *subtle.CryptoKey, sig, data []byte) *async.Future[bool] {
	return async.Go(func() (bool, error) {
		time.Sleep(20 * time.Millisecond)
		return e.Engine.Verify(ctx, alg, key, sig, data).Wait()
	})
}

func TestAlteredSignatureCaseDetectsMissingSnapshot(t *testing.T) {
	engine := lazyEngine{Engine: newEngine(t)}
	store := generate(t, vectors.GenerateOptions{SaltLengths: []int{32}})
	v := store.Passing()[0]

	for _, kind := range []CaseKind{CaseVerifyAlteredSignature, CaseVerifyAlteredPlaintext} {
		c := Case{Kind: kind, Vector: v}
		mv := materialized(t, engine, c)
		err := c.Run(context.Background(), engine, mv)
		assert.ErrorIs(t, err, ErrAssertion, kind.String())
	}

	c := Case{Kind: CaseVerify, Vector: v}
	assert.NoError(t, c.Run(context.Background(), engine, materialized(t, engine, c)))
}
