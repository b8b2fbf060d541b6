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
	"fmt"

	"golang.org/x/sync/errgroup"
)

// JoinAll waits for every settler and returns a future for their errors,
// indexed like the input. Unlike errgroup.WithContext, a failing settler
// does not cancel or short-circuit the others, and the returned future
// never rejects.
func JoinAll(settlers ...Settler) *Future[[]error] {
	return Go(func() ([]error, error) {
		var g errgroup.Group
		errs := make([]error, len(settlers))

		for i, s := range settlers {
			g.Go(func() error {
				errs[i] = settle(s)
				return nil
			})
		}

		// Every goroutine returns nil; Wait only provides the barrier.
		_ = g.Wait()
		return errs, nil
	})
}

// settle waits on s, converting a panic in a foreign Settler into an error.
func settle(s Settler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{value: r}
		}
	}()
	if s == nil {
		return nil
	}
	return s.Settle()
}

type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("%s: %v", ErrPanic, e.value)
}

func (e *panicError) Unwrap() error {
	return ErrPanic
}

// CountErrors returns how many entries in errs are non-nil.
func CountErrors(errs []error) int {
	n := 0
	for _, err := range errs {
		if err != nil {
			n++
		}
	}
	return n
}
