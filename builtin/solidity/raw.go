// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/cosmicsignature/engine/cosmic"
)

// Raw stores an rlp encoded value in a single slot.
type Raw[V any] struct {
	mapping *Mapping[BytesKey, V]
}

func NewRaw[V any](context *Context, pos cosmic.Bytes32) *Raw[V] {
	return &Raw[V]{NewMapping[BytesKey, V](context, pos)}
}

func (r *Raw[V]) Get() (V, error) {
	return r.mapping.Get(nil)
}

func (r *Raw[V]) Set(value V) error {
	return r.mapping.Set(nil, value)
}
