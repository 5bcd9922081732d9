// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmicsignature/engine/cosmic"
)

func TestGenesisHeader(t *testing.T) {
	h := new(Builder).
		ParentID(GenesisParentID()).
		Timestamp(1000).
		Beacon(GenesisBeacon(1000), nil).
		Build()

	assert.Equal(t, uint32(0), h.Number())
	assert.Equal(t, uint32(0), Number(h.ID()))
	signer, err := h.Signer()
	require.NoError(t, err)
	assert.True(t, signer.IsZero())
	assert.Equal(t, GenesisBeacon(1000), h.Context().Beacon)
}

func TestSeal(t *testing.T) {
	sk, err := crypto.GenerateKey()
	require.NoError(t, err)
	parentBeacon := cosmic.Keccak256([]byte("parent"))

	var parentID cosmic.Bytes32
	parentID[3] = 6
	h, err := new(Builder).
		ParentID(parentID).
		Timestamp(1010).
		StateRoot(cosmic.Keccak256([]byte("state"))).
		Seal(parentBeacon, sk)
	require.NoError(t, err)

	assert.Equal(t, uint32(7), h.Number())
	assert.Equal(t, uint32(7), Number(h.ID()))
	signer, err := h.Signer()
	require.NoError(t, err)
	assert.Equal(t, cosmic.Address(crypto.PubkeyToAddress(sk.PublicKey)), signer)
	assert.NoError(t, h.VerifyBeacon(parentBeacon, &sk.PublicKey))

	ctx := h.Context()
	assert.Equal(t, h.ID(), ctx.ID)
	assert.Equal(t, uint64(1010), ctx.Time)
	assert.Equal(t, h.Beacon(), ctx.Beacon)

	// the beacon is bound to its parent
	assert.Error(t, h.VerifyBeacon(cosmic.Keccak256([]byte("other")), &sk.PublicKey))

	other, err := crypto.GenerateKey()
	require.NoError(t, err)
	assert.Equal(t, errInvalidSigner, h.VerifyBeacon(parentBeacon, &other.PublicKey))
}

func TestBeaconDeterministic(t *testing.T) {
	sk, err := crypto.GenerateKey()
	require.NoError(t, err)
	parent := cosmic.Keccak256([]byte("p"))

	b1, p1, err := ProveBeacon(sk, parent, 1)
	require.NoError(t, err)
	b2, p2, err := ProveBeacon(sk, parent, 1)
	require.NoError(t, err)
	assert.Equal(t, b1, b2)
	assert.Equal(t, p1, p2)

	b3, _, err := ProveBeacon(sk, parent, 2)
	require.NoError(t, err)
	assert.NotEqual(t, b1, b3)
}

func TestHeaderRLP(t *testing.T) {
	sk, err := crypto.GenerateKey()
	require.NoError(t, err)
	h, err := new(Builder).
		ParentID(cosmic.Bytes32{}).
		Timestamp(5).
		ReceiptsRoot(cosmic.Keccak256([]byte("r"))).
		Seal(GenesisBeacon(0), sk)
	require.NoError(t, err)

	data, err := rlp.EncodeToBytes(h)
	require.NoError(t, err)
	var decoded Header
	require.NoError(t, rlp.DecodeBytes(data, &decoded))
	assert.Equal(t, h.ID(), decoded.ID())
	assert.Equal(t, h.Proof(), decoded.Proof())
	assert.NoError(t, decoded.VerifyBeacon(GenesisBeacon(0), &sk.PublicKey))
}
