// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package randomness derives raffle seeds from the block beacon.
package randomness

import (
	"github.com/holiman/uint256"

	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/xenv"
)

// Salts separating independent uses of one seed.
var (
	SaltRandomWalkStakers = uint256.MustFromHex("0x7c6eeb003d4a6dc5ebf549935c6ffb814ba1f060f1af8a0b11c2aa94a8e716e4")
	SaltNftMinting        = uint256.MustFromHex("0x2a8612ecb5cb17da87f8befda0480288e2d053de55d9d7d4dc4899077cf5aeda")
)

// GenerateSeed derives the seed of a transaction from the block beacon, time and number.
func GenerateSeed(ctx *xenv.BlockContext) *uint256.Int {
	t := uint256.NewInt(ctx.Time).Bytes32()
	n := uint256.NewInt(uint64(ctx.Number)).Bytes32()
	h := cosmic.Keccak256(ctx.Beacon[:], t[:], n[:])
	return new(uint256.Int).SetBytes32(h[:])
}

// FromSeed hashes the seed into a random number.
func FromSeed(seed *uint256.Int) *uint256.Int {
	b := seed.Bytes32()
	h := cosmic.Keccak256(b[:])
	return new(uint256.Int).SetBytes32(h[:])
}

// Xor returns seed ^ salt.
func Xor(seed, salt *uint256.Int) *uint256.Int {
	return new(uint256.Int).Xor(seed, salt)
}

// Pick returns FromSeed(seed) mod n. n must be positive.
func Pick(seed *uint256.Int, n uint64) uint64 {
	return new(uint256.Int).Mod(FromSeed(seed), uint256.NewInt(n)).Uint64()
}

// SeedWrapper is a seed that advances on each draw.
type SeedWrapper struct {
	Value *uint256.Int
}

func NewSeedWrapper(seed *uint256.Int) *SeedWrapper {
	return &SeedWrapper{new(uint256.Int).Set(seed)}
}

// Next increments the seed, wrapping at 2^256, and returns the hash of the new value.
func (w *SeedWrapper) Next() *uint256.Int {
	w.Value = new(uint256.Int).AddUint64(w.Value, 1)
	return FromSeed(w.Value)
}

// Draw returns Next() mod n. n must be positive.
func (w *SeedWrapper) Draw(n uint64) uint64 {
	return new(uint256.Int).Mod(w.Next(), uint256.NewInt(n)).Uint64()
}
