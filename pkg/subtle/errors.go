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

package subtle

import (
	"errors"
	"fmt"
)

// ErrorName is the category of a failed crypto operation. Callers branch on
// the name only; the message is for humans.
type ErrorName string

const (
	// InvalidAccessError: the key cannot be used for the requested operation
	// (wrong key type, missing usage, or algorithm mismatch).
	InvalidAccessError ErrorName = "InvalidAccessError"

	// NotSupportedError: the algorithm or format is not implemented.
	NotSupportedError ErrorName = "NotSupportedError"

	// DataError: the key material could not be parsed or does not match
	// the requested algorithm.
	DataError ErrorName = "DataError"

	// SyntaxError: the requested usages are invalid for the key.
	SyntaxError ErrorName = "SyntaxError"

	// OperationError: the operation failed for a reason specific to the
	// algorithm, e.g. a salt too long for the modulus.
	OperationError ErrorName = "OperationError"

	// UnknownError is never produced by an engine. It is what Name returns
	// for an error that did not come from one.
	UnknownError ErrorName = "UnknownError"
)

// String returns the string representation.
func (n ErrorName) String() string {
	return string(n)
}

// Error is the single error type returned by a Subtle implementation.
type Error struct {
	Name    ErrorName
	Message string
	Err     error
}

// NewError creates an Error with a formatted message.
func NewError(name ErrorName, format string, args ...any) *Error {
	return &Error{Name: name, Message: fmt.Sprintf(format, args...)}
}

// WrapError creates an Error carrying an underlying cause.
func WrapError(name ErrorName, err error, message string) *Error {
	return &Error{Name: name, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Name, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by name, so errors.Is(err,
// &subtle.Error{Name: subtle.InvalidAccessError}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Name == e.Name
}

// Name returns the ErrorName carried by err, or UnknownError if err is not
// (and does not wrap) an *Error.
func Name(err error) ErrorName {
	var se *Error
	if errors.As(err, &se) {
		return se.Name
	}
	return UnknownError
}
