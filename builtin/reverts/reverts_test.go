// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cosmicsignature/engine/abi"
)

func TestKindOf(t *testing.T) {
	err := New(MainPrizeEarlyClaim, "Not enough time has elapsed.", 100, 90)
	assert.Equal(t, "MainPrizeEarlyClaim: Not enough time has elapsed. 100 90", err.Error())

	wrapped := fmt.Errorf("claim: %w", err)
	assert.True(t, IsRevertErr(wrapped))
	assert.Equal(t, MainPrizeEarlyClaim, KindOf(wrapped))
	assert.True(t, Is(wrapped, MainPrizeEarlyClaim))
	assert.False(t, Is(wrapped, MainPrizeClaimDenied))

	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(errors.New("io")))
	assert.Equal(t, Kind(""), KindOf(errors.New("io")))
}

func TestBytes(t *testing.T) {
	err := New(ZeroAddress, "The provided address is zero.")
	reason, uerr := abi.UnpackRevert(err.Bytes())
	assert.NoError(t, uerr)
	assert.Equal(t, err.Error(), reason)

	var nilErr *Error
	assert.Nil(t, nilErr.Bytes())
}
