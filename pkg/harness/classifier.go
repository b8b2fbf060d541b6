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
	"github.com/jeremyhahn/go-sigvectors/pkg/subtle"
)

// Expectation is the reason a negative case expects a rejection.
type Expectation int

const (
	// RoleMismatch: a private key where a public key is required, or the
	// reverse.
	RoleMismatch Expectation = iota + 1

	// UsageRestriction: the key was not granted the usage.
	UsageRestriction

	// AlgorithmMismatch: the key was imported under the other scheme.
	AlgorithmMismatch
)

func (e Expectation) String() string {
	switch e {
	case RoleMismatch:
		return "RoleMismatch"
	case UsageRestriction:
		return "UsageRestriction"
	case AlgorithmMismatch:
		return "AlgorithmMismatch"
	default:
		return "Unknown"
	}
}

// ErrorName is the category an engine must reject with. All three
// expectations surface as InvalidAccessError.
func (e Expectation) ErrorName() subtle.ErrorName {
	return subtle.InvalidAccessError
}

// Classify returns the category of an engine error. Errors that did not
// come from an engine classify as UnknownError; nil classifies as "".
func Classify(err error) subtle.ErrorName {
	if err == nil {
		return ""
	}
	return subtle.Name(err)
}

// ExpectRejection checks the outcome of op against a required category.
// It returns nil, *UnexpectedResolution or *WrongErrorKind.
func ExpectRejection(op string, err error, want subtle.ErrorName) error {
	if err == nil {
		return &UnexpectedResolution{Op: op, Want: want}
	}
	if got := Classify(err); got != want {
		return &WrongErrorKind{Op: op, Want: want, Got: got, Message: err.Error()}
	}
	return nil
}

// ExpectResolution returns *UnexpectedRejection when err is non-nil.
func ExpectResolution(op string, err error) error {
	if err != nil {
		return &UnexpectedRejection{Op: op, Err: err}
	}
	return nil
}
