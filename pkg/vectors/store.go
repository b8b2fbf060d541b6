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
	"fmt"
)

// Store is the read-only corpus. It is never mutated after NewStore
// returns; every accessor hands out clones.
type Store struct {
	passing []*TestVector
	failing []*TestVector
}

// NewStore validates and copies the given vectors. Names must be unique
// across both sets.
func NewStore(passing, failing []*TestVector) (*Store, error) {
	seen := make(map[string]struct{}, len(passing)+len(failing))
	s := &Store{
		passing: make([]*TestVector, 0, len(passing)),
		failing: make([]*TestVector, 0, len(failing)),
	}

	add := func(dst *[]*TestVector, vs []*TestVector) error {
		for _, v := range vs {
			if err := v.Validate(); err != nil {
				return err
			}
			if _, dup := seen[v.Name]; dup {
				return fmt.Errorf("%w: %q", ErrDuplicateName, v.Name)
			}
			seen[v.Name] = struct{}{}
			*dst = append(*dst, v.Clone())
		}
		return nil
	}

	if err := add(&s.passing, passing); err != nil {
		return nil, err
	}
	if err := add(&s.failing, failing); err != nil {
		return nil, err
	}
	return s, nil
}

// Passing returns clones of the passing vectors in corpus order.
func (s *Store) Passing() []*TestVector {
	return cloneAll(s.passing)
}

// Failing returns clones of the failing vectors in corpus order.
func (s *Store) Failing() []*TestVector {
	return cloneAll(s.failing)
}

// Counts returns the number of passing and failing vectors.
func (s *Store) Counts() (passing, failing int) {
	return len(s.passing), len(s.failing)
}

// lookup returns a clone of the named vector from either set.
func (s *Store) lookup(name string) (*TestVector, bool) {
	for _, set := range [][]*TestVector{s.passing, s.failing} {
		for _, v := range set {
			if v.Name == name {
				return v.Clone(), true
			}
		}
	}
	return nil, false
}

func cloneAll(vs []*TestVector) []*TestVector {
	out := make([]*TestVector, len(vs))
	for i, v := range vs {
		out[i] = v.Clone()
	}
	return out
}

// Loader produces a corpus.
type Loader interface {
	Load(ctx context.Context) (*Store, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context) (*Store, error)

// Load implements Loader.
func (f LoaderFunc) Load(ctx context.Context) (*Store, error) {
	return f(ctx)
}
