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

// Package async provides a minimal future type and a join-all helper used to
// drive many independent crypto operations concurrently and wait for all of
// them to settle.
//
// A Future settles exactly once, either with a value or with an error. Panics
// raised by the producing function are recovered and surface as ErrPanic so a
// single misbehaving operation can never take the process down with it.
package async

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrPanic is returned by a future whose producer panicked.
	ErrPanic = errors.New("async: operation panicked")
)

// Settler is implemented by anything that can be waited on without caring
// about its value. Every *Future[T] is a Settler.
type Settler interface {
	// Settle blocks until the operation completes and returns its error.
	Settle() error
}

// Future is the eventual result of an asynchronous operation.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Go runs fn on a new goroutine and returns a future for its result.
func Go[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				var zero T
				f.value = zero
				f.err = fmt.Errorf("%w: %v", ErrPanic, r)
			}
		}()
		f.value, f.err = fn()
	}()
	return f
}

// Resolved returns a future already settled with v.
func Resolved[T any](v T) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), value: v}
	close(f.done)
	return f
}

// Rejected returns a future already settled with err.
func Rejected[T any](err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), err: err}
	close(f.done)
	return f
}

// Then chains fn onto f. If f rejects, fn is not called and the returned
// future rejects with the same error.
func Then[T, U any](f *Future[T], fn func(T) (U, error)) *Future[U] {
	return Go(func() (U, error) {
		v, err := f.Wait()
		if err != nil {
			var zero U
			return zero, err
		}
		return fn(v)
	})
}

// Done returns a channel closed once the future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future settles and returns its result.
func (f *Future[T]) Wait() (T, error) {
	<-f.done
	return f.value, f.err
}

// Await is Wait bounded by ctx. The underlying operation keeps running if
// ctx ends first; only the caller stops waiting.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Settle implements Settler.
func (f *Future[T]) Settle() error {
	_, err := f.Wait()
	return err
}
