// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"errors"
	"math/big"

	"github.com/cosmicsignature/engine/builtin/reverts"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/log"
	"github.com/cosmicsignature/engine/metrics"
	"github.com/cosmicsignature/engine/state"
	Tx "github.com/cosmicsignature/engine/tx"
	"github.com/cosmicsignature/engine/xenv"
)

var (
	logger = log.WithContext("pkg", "runtime")

	metricTxCount = metrics.LazyLoadCounterVec("runtime_tx_count", []string{"result"})
)

// Runtime is to support transaction execution.
type Runtime struct {
	state     *state.State
	blockCtx  *xenv.BlockContext
	receivers xenv.Receivers
}

// New create a Runtime object.
func New(state *state.State, blockCtx *xenv.BlockContext, receivers xenv.Receivers) *Runtime {
	return &Runtime{
		state:     state,
		blockCtx:  blockCtx,
		receivers: receivers,
	}
}

func (rt *Runtime) State() *state.State              { return rt.state }
func (rt *Runtime) BlockContext() *xenv.BlockContext { return rt.blockCtx }

// Transaction describes a call submitted to the ledger.
type Transaction struct {
	ID     cosmic.Bytes32
	Origin cosmic.Address
	To     cosmic.Address
	Value  *big.Int
	Method string
	// nil for a plain ETH transfer
	Fn func(env *xenv.Environment) error
}

// ExecuteTransaction executes a transaction atomically.
// A revert is reported by the receipt. Other errors abort the execution and are returned,
// with the state left as before the call.
func (rt *Runtime) ExecuteTransaction(tx *Transaction) (*Tx.Receipt, error) {
	value := tx.Value
	if value == nil {
		value = new(big.Int)
	}
	checkpoint := rt.state.NewCheckpoint()

	txCtx := &xenv.TransactionContext{ID: tx.ID, Origin: tx.Origin}
	// the root frame stands for the origin account
	root := xenv.New(rt.state, rt.blockCtx, txCtx, rt.receivers, cosmic.Address{}, tx.Origin, nil)

	receipt := &Tx.Receipt{
		TxID:   tx.ID,
		Method: tx.Method,
		Origin: tx.Origin,
		To:     tx.To,
		Value:  new(big.Int).Set(value),
	}

	fn := tx.Fn
	if fn == nil && rt.receivers != nil {
		// a plain transfer runs the recipient's receiver
		fn = rt.receivers(tx.To)
	}

	if err := root.Call(tx.To, value, fn); err != nil {
		rt.state.RevertTo(checkpoint)

		var re *reverts.Error
		if !errors.As(err, &re) {
			metricTxCount().AddWithLabel(1, map[string]string{"result": "error"})
			return nil, err
		}
		metricTxCount().AddWithLabel(1, map[string]string{"result": "reverted"})
		logger.Debug("tx reverted", "method", tx.Method, "origin", tx.Origin, "err", err)

		receipt.Reverted = true
		receipt.Output = re.Bytes()
		receipt.Err = err
		return receipt, nil
	}

	metricTxCount().AddWithLabel(1, map[string]string{"result": "ok"})
	output := root.Output()
	receipt.Events = output.Events
	receipt.Transfers = output.Transfers
	return receipt, nil
}

// Execute is a shorthand of ExecuteTransaction.
func (rt *Runtime) Execute(
	origin cosmic.Address,
	to cosmic.Address,
	value *big.Int,
	fn func(env *xenv.Environment) error,
) (*Tx.Receipt, error) {
	return rt.ExecuteTransaction(&Transaction{Origin: origin, To: to, Value: value, Fn: fn})
}
