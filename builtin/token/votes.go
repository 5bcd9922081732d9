// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math"
	"math/big"

	"github.com/cosmicsignature/engine/builtin/solidity"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/xenv"
)

var (
	delegateChangedEvent      = ABI.MustEventByName("DelegateChanged")
	delegateVotesChangedEvent = ABI.MustEventByName("DelegateVotesChanged")
)

var (
	delegatesSlot        = solidity.Slot("token.delegates")
	checkpointsSlot      = solidity.Slot("token.checkpoints")
	supplyCheckpointSlot = solidity.Slot("token.supplyCheckpoints")
)

// Checkpoint records a value from a block time on.
type Checkpoint struct {
	Time  uint64
	Votes *big.Int
}

// Delegates returns the account voting with the balance of account. Balances of accounts
// that never delegated carry no votes.
func (t *Token) Delegates(account cosmic.Address) (cosmic.Address, error) {
	return t.delegates.Get(account.Bytes())
}

// Delegate moves the caller's voting power to delegatee. A zero delegatee withdraws it.
func (t *Token) Delegate(env *xenv.Environment, delegatee cosmic.Address) error {
	delegator := env.Caller()
	prev, err := t.Delegates(delegator)
	if err != nil {
		return err
	}
	if err := t.delegates.Set(delegator.Bytes(), delegatee); err != nil {
		return err
	}
	env.Log(delegateChangedEvent, delegator, prev, delegatee)

	bal, err := t.BalanceOf(delegator)
	if err != nil {
		return err
	}
	return t.moveVotes(env, prev, delegatee, bal)
}

// GetVotes returns the current voting power of account.
func (t *Token) GetVotes(account cosmic.Address) (*big.Int, error) {
	return upperLookup(t.checkpointsOf(account), math.MaxUint64)
}

// GetPastVotes returns the voting power of account as of the end of block time ts.
func (t *Token) GetPastVotes(account cosmic.Address, ts uint64) (*big.Int, error) {
	return upperLookup(t.checkpointsOf(account), ts)
}

// GetPastTotalSupply returns the total supply as of the end of block time ts.
func (t *Token) GetPastTotalSupply(ts uint64) (*big.Int, error) {
	return upperLookup(t.supplyCheckpoints, ts)
}

func (t *Token) checkpointsOf(account cosmic.Address) *solidity.Array[Checkpoint] {
	return solidity.NewArray[Checkpoint](t.ctx, cosmic.Blake2b(account.Bytes(), checkpointsSlot.Bytes()))
}

// afterUpdate follows a balance change with the vote and supply checkpoints.
// A zero from is a mint, a zero to a burn.
func (t *Token) afterUpdate(env *xenv.Environment, from, to cosmic.Address, amount *big.Int) error {
	if from.IsZero() {
		if _, _, err := pushCheckpoint(t.supplyCheckpoints, env.Now(), amount); err != nil {
			return err
		}
	}
	if to.IsZero() {
		if _, _, err := pushCheckpoint(t.supplyCheckpoints, env.Now(), new(big.Int).Neg(amount)); err != nil {
			return err
		}
	}
	fromDelegate, err := t.Delegates(from)
	if err != nil {
		return err
	}
	toDelegate, err := t.Delegates(to)
	if err != nil {
		return err
	}
	return t.moveVotes(env, fromDelegate, toDelegate, amount)
}

func (t *Token) moveVotes(env *xenv.Environment, from, to cosmic.Address, amount *big.Int) error {
	if from == to || amount.Sign() == 0 {
		return nil
	}
	if !from.IsZero() {
		prev, next, err := pushCheckpoint(t.checkpointsOf(from), env.Now(), new(big.Int).Neg(amount))
		if err != nil {
			return err
		}
		env.Log(delegateVotesChangedEvent, from, prev, next)
	}
	if !to.IsZero() {
		prev, next, err := pushCheckpoint(t.checkpointsOf(to), env.Now(), amount)
		if err != nil {
			return err
		}
		env.Log(delegateVotesChangedEvent, to, prev, next)
	}
	return nil
}

// pushCheckpoint adds delta to the latest value. Changes within one block time share a checkpoint.
func pushCheckpoint(arr *solidity.Array[Checkpoint], now uint64, delta *big.Int) (prev, next *big.Int, err error) {
	n, err := arr.Len()
	if err != nil {
		return nil, nil, err
	}
	prev = new(big.Int)
	var last Checkpoint
	if n > 0 {
		if last, err = arr.Get(n - 1); err != nil {
			return nil, nil, err
		}
		prev.Set(last.Votes)
	}
	next = new(big.Int).Add(prev, delta)
	if n > 0 && last.Time == now {
		err = arr.Set(n-1, Checkpoint{now, next})
	} else {
		_, err = arr.Push(Checkpoint{now, next})
	}
	return prev, next, err
}

// upperLookup returns the value of the last checkpoint at or before ts, zero if there is none.
func upperLookup(arr *solidity.Array[Checkpoint], ts uint64) (*big.Int, error) {
	n, err := arr.Len()
	if err != nil {
		return nil, err
	}
	lo, hi := uint64(0), n
	for lo < hi {
		mid := lo + (hi-lo)/2
		c, err := arr.Get(mid)
		if err != nil {
			return nil, err
		}
		if c.Time > ts {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	if hi == 0 {
		return new(big.Int), nil
	}
	c, err := arr.Get(hi - 1)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Set(c.Votes), nil
}
