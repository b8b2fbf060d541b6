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

package async

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoResolves(t *testing.T) {
	v, err := Go(func() (int, error) { return 42, nil }).Wait()
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestGoRejects(t *testing.T) {
	boom := errors.New("boom")
	_, err := Go(func() (int, error) { return 0, boom }).Wait()
	assert.ErrorIs(t, err, boom)
}

func TestGoRecoversPanic(t *testing.T) {
	v, err := Go(func() (string, error) { panic("kaboom") }).Wait()
	assert.ErrorIs(t, err, ErrPanic)
	assert.Contains(t, err.Error(), "kaboom")
	assert.Empty(t, v)
}

func TestResolvedAndRejected(t *testing.T) {
	f := Resolved("ok")
	select {
	case <-f.Done():
	default:
		t.Fatal("resolved future not settled")
	}
	v, err := f.Wait()
	require.NoError(t, err)
	assert.Equal(t, "ok", v)

	boom := errors.New("boom")
	assert.ErrorIs(t, Rejected[int](boom).Settle(), boom)
}

func TestThen(t *testing.T) {
	f := Then(Resolved(2), func(n int) (string, error) {
		return string(rune('a' + n)), nil
	})
	v, err := f.Wait()
	require.NoError(t, err)
	assert.Equal(t, "c", v)

	var called atomic.Bool
	boom := errors.New("boom")
	_, err = Then(Rejected[int](boom), func(int) (int, error) {
		called.Store(true)
		return 0, nil
	}).Wait()
	assert.ErrorIs(t, err, boom)
	assert.False(t, called.Load())
}

func TestAwaitContextEnds(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	f := Go(func() (int, error) {
		<-release
		return 1, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := f.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAwaitSettled(t *testing.T) {
	v, err := Resolved(7).Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

// panickySettler panics instead of settling.
type panickySettler struct{}

func (panickySettler) Settle() error { panic("settler exploded") }

func TestJoinAllWaitsForEverySettler(t *testing.T) {
	boom := errors.New("boom")
	var slowFinished atomic.Bool

	fast := Rejected[int](boom)
	slow := Go(func() (int, error) {
		time.Sleep(20 * time.Millisecond)
		slowFinished.Store(true)
		return 1, nil
	})

	errs, err := JoinAll(fast, slow, panickySettler{}, nil).Wait()
	require.NoError(t, err)
	require.Len(t, errs, 4)

	assert.True(t, slowFinished.Load(), "a rejection must not short-circuit the join")
	assert.ErrorIs(t, errs[0], boom)
	assert.NoError(t, errs[1])
	assert.ErrorIs(t, errs[2], ErrPanic)
	assert.NoError(t, errs[3])
	assert.Equal(t, 2, CountErrors(errs))
}

func TestJoinAllEmpty(t *testing.T) {
	errs, err := JoinAll().Wait()
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Zero(t, CountErrors(errs))
}
