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
	"errors"
	"fmt"

	"github.com/jeremyhahn/go-sigvectors/pkg/subtle"
	"github.com/jeremyhahn/go-sigvectors/pkg/types"
)

// ErrAssertion is wrapped by every failed check on a resolved value.
var ErrAssertion = errors.New("harness: assertion failed")

// ImportError reports that a key slot could not be materialized.
type ImportError struct {
	Vector string
	Slot   types.KeyType
	Err    error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import %s key for %q: %v", e.Slot, e.Vector, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// UnexpectedRejection reports an operation that should have resolved.
type UnexpectedRejection struct {
	Op  string
	Err error
}

func (e *UnexpectedRejection) Error() string {
	return fmt.Sprintf("%s rejected unexpectedly: %v", e.Op, e.Err)
}

func (e *UnexpectedRejection) Unwrap() error {
	return e.Err
}

// UnexpectedResolution reports an operation that should have rejected.
type UnexpectedResolution struct {
	Op   string
	Want subtle.ErrorName
}

func (e *UnexpectedResolution) Error() string {
	return fmt.Sprintf("%s resolved, expected %s", e.Op, e.Want)
}

// WrongErrorKind reports a rejection with the wrong category. Message is
// the engine's text and is only used for diagnostics.
type WrongErrorKind struct {
	Op      string
	Want    subtle.ErrorName
	Got     subtle.ErrorName
	Message string
}

func (e *WrongErrorKind) Error() string {
	return fmt.Sprintf("%s threw %s, expected %s: %s", e.Op, e.Got, e.Want, e.Message)
}

func assertf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrAssertion, fmt.Sprintf(format, args...))
}
