// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"fmt"

	"github.com/cosmicsignature/engine/abi"
	"github.com/cosmicsignature/engine/builtin/gen"
	"github.com/cosmicsignature/engine/cosmic"
)

type contract struct {
	name    string
	Address cosmic.Address
	ABI     *abi.ABI
}

// mustLoadContract binds name to its fixed address and the event ABI in asset.
// Several contracts may share one ABI.
func mustLoadContract(name, asset string) *contract {
	data := gen.MustAsset("compiled/" + asset + ".abi")
	abi, err := abi.New(data)
	if err != nil {
		panic(fmt.Errorf("load ABI for '%s': %w", name, err))
	}

	return &contract{
		name,
		cosmic.BytesToAddress([]byte(name)),
		abi,
	}
}

func (c *contract) Name() string { return c.name }
