// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cosmic

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"0x7567d83b7b8d80addcb281a71d54fc7b3364ffed", false},
		{"7567d83b7b8d80addcb281a71d54fc7b3364ffed", false},
		{"1x7567d83b7b8d80addcb281a71d54fc7b3364ffed", true},
		{"0x7567d83b", true},
		{"0xzz67d83b7b8d80addcb281a71d54fc7b3364ffed", true},
	}
	for _, tt := range tests {
		addr, err := ParseAddress(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed", addr.String())
	}
}

func TestAddressJSON(t *testing.T) {
	addr := BytesToAddress([]byte("bidder"))

	data, err := json.Marshal(addr)
	require.NoError(t, err)
	assert.Equal(t, `"`+addr.String()+`"`, string(data))

	var decoded Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, addr, decoded)
	assert.False(t, decoded.IsZero())
	assert.True(t, Address{}.IsZero())
}

func TestDeriveAddress(t *testing.T) {
	parent := BytesToAddress([]byte("custodian"))
	a := DeriveAddress(parent, []byte{1})
	b := DeriveAddress(parent, []byte{2})

	assert.NotEqual(t, a, b)
	assert.Equal(t, a, DeriveAddress(parent, []byte{1}))
}

func TestBytes32(t *testing.T) {
	b := MustParseBytes32("0x7c6eeb003d4a6dc5ebf549935c6ffb814ba1f060f1af8a0b11c2aa94a8e716e4")
	assert.Equal(t, "0x7c6eeb003d4a6dc5ebf549935c6ffb814ba1f060f1af8a0b11c2aa94a8e716e4", b.String())
	assert.Equal(t, b, BigToBytes32(b.Big()))
	assert.Panics(t, func() { MustParseBytes32("0x01") })

	data, err := json.Marshal(b)
	require.NoError(t, err)
	var decoded Bytes32
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, b, decoded)
}

func TestKeccak256(t *testing.T) {
	// keccak256 of empty input
	assert.Equal(t,
		"0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		Keccak256().String())
	assert.NotEqual(t, Blake2b([]byte("a")), Blake2b([]byte("a"), []byte("b")))
}
