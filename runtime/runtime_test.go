// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmicsignature/engine/abi"
	"github.com/cosmicsignature/engine/builtin/reverts"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/lvldb"
	"github.com/cosmicsignature/engine/state"
	"github.com/cosmicsignature/engine/xenv"
)

var (
	origin   = cosmic.BytesToAddress([]byte("origin"))
	contract = cosmic.BytesToAddress([]byte("contract"))
	slot     = cosmic.BytesToBytes32([]byte("slot"))

	pingEvent = abi.MustNew([]byte(`[{"type":"event","name":"Ping","inputs":[{"name":"n","type":"uint256","indexed":false}]}]`)).
			MustEventByName("Ping")
)

func newRuntime(t *testing.T) *Runtime {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	st := state.NewStater(db).NewState(cosmic.Bytes32{})
	require.NoError(t, st.SetBalance(origin, big.NewInt(100)))
	return New(st, &xenv.BlockContext{Number: 1, Time: 10}, nil)
}

func TestExecute(t *testing.T) {
	rt := newRuntime(t)

	receipt, err := rt.Execute(origin, contract, big.NewInt(40), func(env *xenv.Environment) error {
		assert.Equal(t, origin, env.Caller())
		assert.Equal(t, origin, env.TransactionContext().Origin)
		assert.Equal(t, int64(40), env.Value().Int64())
		env.State().SetStorage(env.To(), slot, cosmic.BytesToBytes32([]byte{1}))
		env.Log(pingEvent, big.NewInt(1))
		return nil
	})
	require.NoError(t, err)
	assert.False(t, receipt.Reverted)
	assert.Len(t, receipt.Events, 1)
	assert.Len(t, receipt.Transfers, 1)

	bal, _ := rt.State().GetBalance(contract)
	assert.Equal(t, int64(40), bal.Int64())
}

func TestExecuteReverted(t *testing.T) {
	rt := newRuntime(t)

	receipt, err := rt.Execute(origin, contract, big.NewInt(40), func(env *xenv.Environment) error {
		env.State().SetStorage(env.To(), slot, cosmic.BytesToBytes32([]byte{1}))
		env.Log(pingEvent, big.NewInt(1))
		return reverts.New(reverts.CallDenied, "denied")
	})
	require.NoError(t, err)
	assert.True(t, receipt.Reverted)
	assert.True(t, reverts.Is(receipt.Err, reverts.CallDenied))
	assert.NotEmpty(t, receipt.Output)
	assert.Empty(t, receipt.Events)
	assert.Empty(t, receipt.Transfers)

	v, _ := rt.State().GetStorage(contract, slot)
	assert.True(t, v.IsZero())
	bal, _ := rt.State().GetBalance(origin)
	assert.Equal(t, int64(100), bal.Int64())

	// insufficient funds of the origin is a revert too
	receipt, err = rt.Execute(origin, contract, big.NewInt(1000), nil)
	require.NoError(t, err)
	assert.True(t, reverts.Is(receipt.Err, reverts.InsufficientBalance))
}

func TestExecuteError(t *testing.T) {
	rt := newRuntime(t)

	ioErr := errors.New("io failure")
	receipt, err := rt.Execute(origin, contract, big.NewInt(40), func(env *xenv.Environment) error {
		return ioErr
	})
	assert.Nil(t, receipt)
	assert.Equal(t, ioErr, err)

	bal, _ := rt.State().GetBalance(origin)
	assert.Equal(t, int64(100), bal.Int64())
}

func TestPlainTransferRunsReceiver(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	st := state.NewStater(db).NewState(cosmic.Bytes32{})
	require.NoError(t, st.SetBalance(origin, big.NewInt(100)))

	hooked := cosmic.BytesToAddress([]byte("hooked"))
	receivers := func(addr cosmic.Address) xenv.Receiver {
		if addr != hooked {
			return nil
		}
		return func(env *xenv.Environment) error {
			if env.Value().Int64() > 50 {
				return reverts.New(reverts.CallDenied, "too much")
			}
			env.Log(pingEvent, env.Value())
			return nil
		}
	}
	rt := New(st, &xenv.BlockContext{Number: 1, Time: 10}, receivers)

	receipt, err := rt.Execute(origin, hooked, big.NewInt(30), nil)
	require.NoError(t, err)
	assert.False(t, receipt.Reverted)
	require.Len(t, receipt.Events, 1)
	assert.Equal(t, hooked, receipt.Events[0].Address)

	// the receiver rejects, the value stays with the origin
	receipt, err = rt.Execute(origin, hooked, big.NewInt(60), nil)
	require.NoError(t, err)
	assert.True(t, reverts.Is(receipt.Err, reverts.CallDenied))
	bal, _ := st.GetBalance(origin)
	assert.Equal(t, int64(70), bal.Int64())

	// accounts without receiver just take the value
	receipt, err = rt.Execute(origin, contract, big.NewInt(10), nil)
	require.NoError(t, err)
	assert.Empty(t, receipt.Events)
	bal, _ = st.GetBalance(contract)
	assert.Equal(t, int64(10), bal.Int64())
}
