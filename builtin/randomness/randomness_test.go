// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package randomness

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"

	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/xenv"
)

func TestFromSeed(t *testing.T) {
	seed := uint256.NewInt(1)
	b := seed.Bytes32()
	want := new(uint256.Int).SetBytes(crypto.Keccak256(b[:]))
	assert.Equal(t, want, FromSeed(seed))
}

func TestSeedWrapperWraps(t *testing.T) {
	max := new(uint256.Int).SetAllOne()
	w := NewSeedWrapper(max)
	got := w.Next()
	assert.True(t, w.Value.IsZero(), "seed wraps around at 2^256")
	assert.Equal(t, FromSeed(uint256.NewInt(0)), got)

	// the source seed is not modified
	assert.Equal(t, new(uint256.Int).SetAllOne(), max)
}

func TestGenerateSeed(t *testing.T) {
	ctx := &xenv.BlockContext{Number: 5, Time: 1000, Beacon: cosmic.Bytes32{1}}
	s1 := GenerateSeed(ctx)
	assert.Equal(t, s1, GenerateSeed(ctx), "deterministic")

	ctx2 := *ctx
	ctx2.Time++
	assert.NotEqual(t, s1, GenerateSeed(&ctx2))

	ctx3 := *ctx
	ctx3.Beacon = cosmic.Bytes32{2}
	assert.NotEqual(t, s1, GenerateSeed(&ctx3))
}

func TestSaltsAndPick(t *testing.T) {
	seed := uint256.NewInt(12345)
	a := Xor(seed, SaltRandomWalkStakers)
	b := Xor(seed, SaltNftMinting)
	assert.NotEqual(t, a, b)
	assert.Equal(t, seed, Xor(a, SaltRandomWalkStakers))

	counts := make([]int, 10)
	w := NewSeedWrapper(seed)
	for range 1000 {
		counts[w.Draw(10)]++
	}
	for i, c := range counts {
		assert.Positive(t, c, "bucket %d never drawn", i)
	}
	assert.Less(t, Pick(seed, 7), uint64(7))
}
