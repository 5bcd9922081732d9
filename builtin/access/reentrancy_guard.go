// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package access

import (
	"github.com/cosmicsignature/engine/builtin/reverts"
	"github.com/cosmicsignature/engine/builtin/solidity"
)

var reentrancyStatusSlot = solidity.Slot("reentrancy.status")

// ReentrancyGuard rejects nested entry into guarded functions of a contract.
// The lock is kept in storage, so it rolls back with the transaction.
type ReentrancyGuard struct {
	status *solidity.Uint64
}

func NewReentrancyGuard(ctx *solidity.Context) *ReentrancyGuard {
	return &ReentrancyGuard{solidity.NewUint64(ctx, reentrancyStatusSlot)}
}

// NonReentrant runs fn holding the lock.
func (g *ReentrancyGuard) NonReentrant(fn func() error) error {
	entered, err := g.status.Get()
	if err != nil {
		return err
	}
	if entered != 0 {
		return reverts.New(reverts.ReentrancyGuardReentrantCall, "")
	}
	g.status.Set(1)
	err = fn()
	g.status.Set(0)
	return err
}
