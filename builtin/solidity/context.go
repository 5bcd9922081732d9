// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/state"
)

// Context binds storage helpers to a contract address.
type Context struct {
	address cosmic.Address
	state   *state.State
}

func NewContext(address cosmic.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) Address() cosmic.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

// Slot derives the storage position of a named variable.
func Slot(name string) cosmic.Bytes32 {
	return cosmic.BytesToBytes32([]byte(name))
}
