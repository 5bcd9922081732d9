// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/cosmicsignature/engine/cosmic"
)

type Bytes32 struct {
	context *Context
	pos     cosmic.Bytes32
}

func NewBytes32(context *Context, pos cosmic.Bytes32) *Bytes32 {
	return &Bytes32{context: context, pos: pos}
}

func (a *Bytes32) Get() (cosmic.Bytes32, error) {
	return a.context.state.GetStorage(a.context.address, a.pos)
}

func (a *Bytes32) Set(bytes cosmic.Bytes32) {
	a.context.state.SetStorage(a.context.address, a.pos, bytes)
}
