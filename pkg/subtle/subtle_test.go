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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeremyhahn/go-sigvectors/pkg/types"
)

func TestError(t *testing.T) {
	err := NewError(InvalidAccessError, "key usages %s do not permit %s", types.NoUsages, types.KeyUsageVerify)
	assert.Equal(t, "InvalidAccessError: key usages [] do not permit verify", err.Error())
	assert.Nil(t, err.Unwrap())

	cause := errors.New("asn1: structure error")
	wrapped := WrapError(DataError, cause, "failed to parse spki")
	assert.Equal(t, "DataError: failed to parse spki: asn1: structure error", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)
}

func TestErrorIsMatchesByName(t *testing.T) {
	err := fmt.Errorf("sign: %w", NewError(OperationError, "salt too long"))

	assert.ErrorIs(t, err, &Error{Name: OperationError})
	assert.NotErrorIs(t, err, &Error{Name: DataError})
}

func TestName(t *testing.T) {
	assert.Equal(t, SyntaxError, Name(NewError(SyntaxError, "bad usages")))
	assert.Equal(t, NotSupportedError, Name(fmt.Errorf("wrapped: %w", NewError(NotSupportedError, "x"))))
	assert.Equal(t, UnknownError, Name(errors.New("plain")))
	assert.Equal(t, UnknownError, Name(nil))
}

func TestCryptoKey(t *testing.T) {
	params := types.ImportParams{Name: types.SchemeRSAPSS, Hash: types.HashSHA256}
	k := NewCryptoKey("software-public-1", types.KeyTypePublic, params, true, types.Usages(types.KeyUsageVerify), "material")

	assert.Equal(t, "software-public-1", k.ID())
	assert.Equal(t, types.KeyTypePublic, k.Type())
	assert.Equal(t, params, k.Algorithm())
	assert.True(t, k.Extractable())
	assert.True(t, k.Usages().Has(types.KeyUsageVerify))
	assert.Equal(t, "material", k.Material())
	assert.Equal(t, "CryptoKey{type=public alg=RSA-PSS hash=SHA-256 usages=[verify]}", k.String())
}
