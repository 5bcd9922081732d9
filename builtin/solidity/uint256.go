// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/cosmicsignature/engine/cosmic"
)

// Uint256 is a wrapper for storage and retrieval of an uint256. Similar to storing an uint256 in a smart contract.
// If the provided uint exceeds 256 bits, it will be truncated to fit into cosmic.Bytes32
type Uint256 struct {
	context *Context
	pos     cosmic.Bytes32
}

func NewUint256(context *Context, slot cosmic.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: slot}
}

func (u *Uint256) Get() (value *big.Int, err error) {
	storage, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(storage.Bytes()), nil
}

func (u *Uint256) Set(value *big.Int) {
	storage := cosmic.BytesToBytes32(value.Bytes())
	u.context.state.SetStorage(u.context.address, u.pos, storage)
}

func (u *Uint256) Add(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	storage.Add(storage, value)
	u.Set(storage)
	return nil
}

func (u *Uint256) Sub(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	storage.Sub(storage, value)
	u.Set(storage)
	return nil
}

// Uint64 stores an uint64 in a single slot.
type Uint64 struct {
	context *Context
	pos     cosmic.Bytes32
}

func NewUint64(context *Context, slot cosmic.Bytes32) *Uint64 {
	return &Uint64{context: context, pos: slot}
}

func (u *Uint64) Get() (uint64, error) {
	storage, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return 0, err
	}
	return new(big.Int).SetBytes(storage.Bytes()).Uint64(), nil
}

func (u *Uint64) Set(value uint64) {
	storage := cosmic.BytesToBytes32(new(big.Int).SetUint64(value).Bytes())
	u.context.state.SetStorage(u.context.address, u.pos, storage)
}

// Increment adds one and returns the new value.
func (u *Uint64) Increment() (uint64, error) {
	v, err := u.Get()
	if err != nil {
		return 0, err
	}
	v++
	u.Set(v)
	return v, nil
}
