// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"errors"

	"github.com/cosmicsignature/engine/cosmic"
)

// ErrIndexOutOfRange is returned for accesses beyond the array length.
var ErrIndexOutOfRange = errors.New("array index out of range")

// Array is a dynamic array in storage. The length lives at pos, elements in a mapping based on pos.
type Array[V any] struct {
	length   *Uint64
	elements *Mapping[UintKey, V]
}

func NewArray[V any](context *Context, pos cosmic.Bytes32) *Array[V] {
	return &Array[V]{
		length:   NewUint64(context, pos),
		elements: NewMapping[UintKey, V](context, cosmic.Blake2b(pos.Bytes())),
	}
}

func (a *Array[V]) Len() (uint64, error) {
	return a.length.Get()
}

func (a *Array[V]) Get(i uint64) (v V, err error) {
	n, err := a.length.Get()
	if err != nil {
		return v, err
	}
	if i >= n {
		return v, ErrIndexOutOfRange
	}
	return a.elements.Get(UintKey(i))
}

func (a *Array[V]) Set(i uint64, v V) error {
	n, err := a.length.Get()
	if err != nil {
		return err
	}
	if i >= n {
		return ErrIndexOutOfRange
	}
	return a.elements.Set(UintKey(i), v)
}

// Push appends v and returns its index.
func (a *Array[V]) Push(v V) (uint64, error) {
	n, err := a.length.Get()
	if err != nil {
		return 0, err
	}
	if err := a.elements.Set(UintKey(n), v); err != nil {
		return 0, err
	}
	a.length.Set(n + 1)
	return n, nil
}

// SwapRemove removes the element at i, moving the last element into its place.
// It returns the moved element and whether a move happened.
func (a *Array[V]) SwapRemove(i uint64) (moved V, ok bool, err error) {
	n, err := a.length.Get()
	if err != nil {
		return moved, false, err
	}
	if i >= n {
		return moved, false, ErrIndexOutOfRange
	}
	last := n - 1
	if i != last {
		if moved, err = a.elements.Get(UintKey(last)); err != nil {
			return moved, false, err
		}
		if err := a.elements.Set(UintKey(i), moved); err != nil {
			return moved, false, err
		}
		ok = true
	}
	a.elements.Delete(UintKey(last))
	a.length.Set(last)
	return moved, ok, nil
}
