// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"math/big"
	mathrand "math/rand/v2"
)

func RandInt() int {
	return mathrand.Int() //#nosec G404
}

func RandIntN(n int) int {
	return mathrand.N(n) //#nosec G404
}

func RandUint64() uint64 {
	return mathrand.Uint64() //#nosec G404
}

// RandBigInt returns a random value in [0, n). n must be positive.
func RandBigInt(n *big.Int) *big.Int {
	if n.IsUint64() {
		return new(big.Int).SetUint64(mathrand.Uint64N(n.Uint64())) //#nosec G404
	}
	b := make([]byte, len(n.Bytes()))
	for i := range b {
		b[i] = byte(mathrand.Uint32()) //#nosec G404
	}
	return new(big.Int).Mod(new(big.Int).SetBytes(b), n)
}
