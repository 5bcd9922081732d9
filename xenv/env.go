// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/cosmicsignature/engine/abi"
	"github.com/cosmicsignature/engine/builtin/reverts"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/state"
	"github.com/cosmicsignature/engine/tx"
)

// BlockContext block context.
type BlockContext struct {
	ID     cosmic.Bytes32
	Number uint32
	Time   uint64
	// verifiable random beacon of the block
	Beacon cosmic.Bytes32
}

// TransactionContext transaction context.
type TransactionContext struct {
	ID     cosmic.Bytes32
	Origin cosmic.Address
}

// Receiver is the code run by a hooked account when it receives ETH.
// env.Caller() is the payer and env.Value() the amount received.
// A non-nil error rejects the payment.
type Receiver func(env *Environment) error

// Receivers resolves the receiver of an address, nil if the account is not hooked.
type Receivers func(addr cosmic.Address) Receiver

// Output collects events and transfers of a transaction.
type Output struct {
	Events    tx.Events
	Transfers tx.Transfers
}

// Environment an env to execute a built-in contract call.
type Environment struct {
	state     *state.State
	blockCtx  *BlockContext
	txCtx     *TransactionContext
	receivers Receivers
	output    *Output

	caller cosmic.Address
	to     cosmic.Address
	value  *big.Int
}

// New create a new env for a call from caller to to, carrying value.
// The value is expected to be moved already.
func New(
	state *state.State,
	blockCtx *BlockContext,
	txCtx *TransactionContext,
	receivers Receivers,
	caller cosmic.Address,
	to cosmic.Address,
	value *big.Int,
) *Environment {
	if value == nil {
		value = new(big.Int)
	}
	return &Environment{
		state:     state,
		blockCtx:  blockCtx,
		txCtx:     txCtx,
		receivers: receivers,
		output:    &Output{},
		caller:    caller,
		to:        to,
		value:     value,
	}
}

func (env *Environment) State() *state.State                     { return env.state }
func (env *Environment) TransactionContext() *TransactionContext { return env.txCtx }
func (env *Environment) BlockContext() *BlockContext             { return env.blockCtx }
func (env *Environment) Caller() cosmic.Address                  { return env.caller }
func (env *Environment) To() cosmic.Address                      { return env.to }
func (env *Environment) Output() *Output                         { return env.output }

// Value returns a copy of the value carried by the call.
func (env *Environment) Value() *big.Int { return new(big.Int).Set(env.value) }

// Now returns the block time.
func (env *Environment) Now() uint64 { return env.blockCtx.Time }

// Balance returns the ETH balance of addr.
func (env *Environment) Balance(addr cosmic.Address) (*big.Int, error) {
	return env.state.GetBalance(addr)
}

// Log emits an event from the callee.
func (env *Environment) Log(ev *abi.Event, args ...any) {
	topics, data, err := ev.Encode(args...)
	if err != nil {
		panic(errors.WithMessage(err, "encode native event"))
	}
	env.output.Events = append(env.output.Events, &tx.Event{
		Address: env.to,
		Topics:  topics,
		Data:    data,
	})
}

// Call invokes fn as the callee to, with value moved from the current callee.
// Changes made by fn are reverted if it fails.
func (env *Environment) Call(to cosmic.Address, value *big.Int, fn func(env *Environment) error) error {
	if value == nil {
		value = new(big.Int)
	}
	checkpoint := env.state.NewCheckpoint()
	numEvents, numTransfers := len(env.output.Events), len(env.output.Transfers)

	revert := func() {
		env.state.RevertTo(checkpoint)
		env.output.Events = env.output.Events[:numEvents]
		env.output.Transfers = env.output.Transfers[:numTransfers]
	}

	if err := env.move(env.to, to, value); err != nil {
		revert()
		return err
	}

	sub := &Environment{
		state:     env.state,
		blockCtx:  env.blockCtx,
		txCtx:     env.txCtx,
		receivers: env.receivers,
		output:    env.output,
		caller:    env.to,
		to:        to,
		value:     value,
	}
	if fn != nil {
		if err := fn(sub); err != nil {
			revert()
			return err
		}
	}
	return nil
}

// Transfer sends amount of ETH from the callee to recipient, running the recipient's receiver if any.
// Any failure is reverted and reported as FundTransferFailed.
func (env *Environment) Transfer(to cosmic.Address, amount *big.Int) error {
	var receiver Receiver
	if env.receivers != nil {
		receiver = env.receivers(to)
	}
	err := env.Call(to, amount, func(sub *Environment) error {
		if receiver == nil {
			return nil
		}
		return receiver(sub)
	})
	if err != nil {
		var se *state.Error
		if errors.As(err, &se) {
			return err
		}
		return reverts.New(reverts.FundTransferFailed, "ETH transfer failed.", to, amount, err)
	}
	return nil
}

func (env *Environment) move(from, to cosmic.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	if amount.Sign() < 0 {
		return errors.Errorf("negative transfer amount %v", amount)
	}
	bal, err := env.state.GetBalance(from)
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return reverts.New(reverts.InsufficientBalance, "Insufficient ETH balance.", from, bal, amount)
	}
	if err := env.state.SetBalance(from, bal.Sub(bal, amount)); err != nil {
		return err
	}
	if err := env.state.AddBalance(to, amount); err != nil {
		return err
	}
	env.output.Transfers = append(env.output.Transfers, &tx.Transfer{
		Sender:    from,
		Recipient: to,
		Amount:    new(big.Int).Set(amount),
	})
	return nil
}
