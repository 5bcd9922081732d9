// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"encoding/binary"
	"math/big"
)

type Key interface {
	Bytes() []byte
}

// UintKey is an unsigned integer mapping key.
type UintKey uint64

func (k UintKey) Bytes() []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(k))
}

// BigKey is a big integer mapping key.
type BigKey struct{ *big.Int }

func (k BigKey) Bytes() []byte {
	return k.Int.Bytes()
}

// BytesKey is a raw mapping key.
type BytesKey []byte

func (k BytesKey) Bytes() []byte {
	return k
}

// CompositeKey concatenates keys, like a nested mapping lookup.
func CompositeKey(parts ...Key) BytesKey {
	var b []byte
	for _, p := range parts {
		kb := p.Bytes()
		b = binary.BigEndian.AppendUint16(b, uint16(len(kb)))
		b = append(b, kb...)
	}
	return b
}
