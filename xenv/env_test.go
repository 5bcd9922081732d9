// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

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
)

var (
	contract = cosmic.BytesToAddress([]byte("contract"))
	alice    = cosmic.BytesToAddress([]byte("alice"))
	bob      = cosmic.BytesToAddress([]byte("bob"))

	testEvent = abi.MustNew([]byte(`[{"type":"event","name":"Ping","inputs":[{"name":"n","type":"uint256","indexed":false}]}]`)).
			MustEventByName("Ping")
)

func newEnv(t *testing.T, receivers Receivers) *Environment {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	st := state.NewStater(db).NewState(cosmic.Bytes32{})
	require.NoError(t, st.SetBalance(contract, big.NewInt(100)))
	return New(st, &BlockContext{Number: 1, Time: 1000}, &TransactionContext{Origin: alice}, receivers, alice, contract, nil)
}

func balanceOf(env *Environment, addr cosmic.Address) int64 {
	bal, _ := env.Balance(addr)
	return bal.Int64()
}

func TestTransfer(t *testing.T) {
	env := newEnv(t, nil)
	assert.Equal(t, uint64(1000), env.Now())
	assert.Equal(t, 0, env.Value().Sign())

	require.NoError(t, env.Transfer(bob, big.NewInt(30)))
	assert.Equal(t, int64(70), balanceOf(env, contract))
	assert.Equal(t, int64(30), balanceOf(env, bob))
	require.Len(t, env.Output().Transfers, 1)

	err := env.Transfer(bob, big.NewInt(1000))
	assert.True(t, reverts.Is(err, reverts.FundTransferFailed))
	assert.Equal(t, int64(70), balanceOf(env, contract))
	assert.Len(t, env.Output().Transfers, 1)
}

func TestTransferRejectedByReceiver(t *testing.T) {
	var received *big.Int
	env := newEnv(t, func(addr cosmic.Address) Receiver {
		if addr != bob {
			return nil
		}
		return func(env *Environment) error {
			received = env.Value()
			assert.Equal(t, contract, env.Caller())
			env.Log(testEvent, big.NewInt(1))
			if received.Int64() > 10 {
				return errors.New("too much")
			}
			return nil
		}
	})

	err := env.Transfer(bob, big.NewInt(20))
	assert.True(t, reverts.Is(err, reverts.FundTransferFailed))
	assert.Equal(t, int64(20), received.Int64())
	assert.Equal(t, int64(100), balanceOf(env, contract))
	assert.Empty(t, env.Output().Events, "events of the rejected call are dropped")
	assert.Empty(t, env.Output().Transfers)

	require.NoError(t, env.Transfer(bob, big.NewInt(5)))
	assert.Equal(t, int64(5), balanceOf(env, bob))
	require.Len(t, env.Output().Events, 1)
	assert.Equal(t, bob, env.Output().Events[0].Address)
}

func TestNestedCall(t *testing.T) {
	env := newEnv(t, nil)
	other := cosmic.BytesToAddress([]byte("other"))

	err := env.Call(other, big.NewInt(10), func(sub *Environment) error {
		assert.Equal(t, contract, sub.Caller())
		assert.Equal(t, other, sub.To())
		assert.Equal(t, int64(10), sub.Value().Int64())
		sub.Log(testEvent, big.NewInt(7))
		return sub.Call(bob, big.NewInt(3), nil)
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), balanceOf(env, other))
	assert.Equal(t, int64(3), balanceOf(env, bob))
	require.Len(t, env.Output().Events, 1)
	assert.Equal(t, other, env.Output().Events[0].Address)

	fail := reverts.New(reverts.CallDenied, "no")
	err = env.Call(other, big.NewInt(10), func(sub *Environment) error {
		sub.Log(testEvent, big.NewInt(8))
		return fail
	})
	assert.Equal(t, fail, err)
	assert.Equal(t, int64(7), balanceOf(env, other))
	assert.Len(t, env.Output().Events, 1)
}
