// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmicsignature/engine/abi"
)

func TestAssetsParse(t *testing.T) {
	names := AssetNames()
	require.Len(t, names, 10)
	for _, name := range names {
		_, err := abi.New(MustAsset(name))
		assert.NoError(t, err, name)
	}
	assert.Panics(t, func() { MustAsset("compiled/Missing.abi") })
}
