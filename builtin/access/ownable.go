// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package access provides ownership and reentrancy protection of built-in contracts.
package access

import (
	"github.com/cosmicsignature/engine/abi"
	"github.com/cosmicsignature/engine/builtin/reverts"
	"github.com/cosmicsignature/engine/builtin/solidity"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/xenv"
)

var ownerSlot = solidity.Slot("ownable.owner")

// Ownable stores the owner of a contract.
type Ownable struct {
	owner                     *solidity.Address
	ownershipTransferredEvent *abi.Event
}

// NewOwnable creates an Ownable. The event is the contract's OwnershipTransferred event.
func NewOwnable(ctx *solidity.Context, ownershipTransferred *abi.Event) *Ownable {
	return &Ownable{
		owner:                     solidity.NewAddress(ctx, ownerSlot),
		ownershipTransferredEvent: ownershipTransferred,
	}
}

// Owner returns the current owner.
func (o *Ownable) Owner() (cosmic.Address, error) {
	return o.owner.Get()
}

// Init sets the initial owner.
func (o *Ownable) Init(owner cosmic.Address) {
	o.owner.Set(owner)
}

// OnlyOwner fails unless the caller is the owner.
func (o *Ownable) OnlyOwner(env *xenv.Environment) error {
	owner, err := o.owner.Get()
	if err != nil {
		return err
	}
	if env.Caller() != owner {
		return reverts.New(reverts.OwnableUnauthorizedAccount, "", env.Caller())
	}
	return nil
}

// TransferOwnership moves ownership to newOwner.
func (o *Ownable) TransferOwnership(env *xenv.Environment, newOwner cosmic.Address) error {
	if err := o.OnlyOwner(env); err != nil {
		return err
	}
	if newOwner.IsZero() {
		return reverts.New(reverts.ZeroAddress, "The provided address is zero.")
	}
	prev, err := o.owner.Get()
	if err != nil {
		return err
	}
	o.owner.Set(newOwner)
	env.Log(o.ownershipTransferredEvent, prev, newOwner)
	return nil
}
