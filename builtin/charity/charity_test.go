// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package charity

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmicsignature/engine/builtin/reverts"
	"github.com/cosmicsignature/engine/builtin/token"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/lvldb"
	"github.com/cosmicsignature/engine/runtime"
	"github.com/cosmicsignature/engine/state"
	Tx "github.com/cosmicsignature/engine/tx"
	"github.com/cosmicsignature/engine/xenv"
)

var (
	walletAddr    = cosmic.BytesToAddress([]byte("charity-wallet"))
	marketingAddr = cosmic.BytesToAddress([]byte("marketing-wallet"))
	tokenAddr     = cosmic.BytesToAddress([]byte("token"))
	owner         = cosmic.BytesToAddress([]byte("owner"))
	donor         = cosmic.BytesToAddress([]byte("donor"))
	charity       = cosmic.BytesToAddress([]byte("charity"))
	rejecter      = cosmic.BytesToAddress([]byte("rejecter"))
	marketer      = cosmic.BytesToAddress([]byte("marketer"))
)

func setup(t *testing.T) (*state.State, *Wallet, *runtime.Runtime) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	st := state.NewStater(db).NewState(cosmic.Bytes32{})
	require.NoError(t, st.SetBalance(donor, big.NewInt(1000)))

	w := NewWallet(walletAddr, st)
	w.Ownable().Init(owner)
	receivers := func(addr cosmic.Address) xenv.Receiver {
		switch addr {
		case walletAddr:
			return w.Receive
		case rejecter:
			return func(*xenv.Environment) error { return errors.New("no thanks") }
		}
		return nil
	}
	return st, w, runtime.New(st, &xenv.BlockContext{Time: 1}, receivers)
}

func run(t *testing.T, rt *runtime.Runtime, origin, to cosmic.Address, value *big.Int, fn func(env *xenv.Environment) error) (*Tx.Receipt, error) {
	receipt, err := rt.Execute(origin, to, value, fn)
	require.NoError(t, err)
	return receipt, receipt.Err
}

func TestWalletSend(t *testing.T) {
	st, w, rt := setup(t)

	// a nested payment runs the receiver
	receipt, err := run(t, rt, donor, donor, nil, func(env *xenv.Environment) error {
		return env.Transfer(walletAddr, big.NewInt(300))
	})
	require.NoError(t, err)
	require.Len(t, receipt.Events, 1)
	assert.Equal(t, donationReceivedEvent.ID(), receipt.Events[0].Topics[0])
	assert.Equal(t, walletAddr, receipt.Events[0].Address)

	send := func() error {
		_, err := run(t, rt, donor, walletAddr, nil, w.Send)
		return err
	}
	assert.True(t, reverts.Is(send(), reverts.ZeroAddress))

	_, err = run(t, rt, donor, walletAddr, nil, func(env *xenv.Environment) error {
		return w.SetCharityAddress(env, charity)
	})
	assert.True(t, reverts.Is(err, reverts.OwnableUnauthorizedAccount))

	_, err = run(t, rt, owner, walletAddr, nil, func(env *xenv.Environment) error {
		return w.SetCharityAddress(env, rejecter)
	})
	require.NoError(t, err)
	require.NoError(t, send())
	bal, _ := st.GetBalance(walletAddr)
	assert.Equal(t, int64(300), bal.Int64(), "kept after a failed transfer")

	_, err = run(t, rt, owner, walletAddr, nil, func(env *xenv.Environment) error {
		return w.SetCharityAddress(env, charity)
	})
	require.NoError(t, err)
	require.NoError(t, send())
	bal, _ = st.GetBalance(charity)
	assert.Equal(t, int64(300), bal.Int64())
}

func TestMarketingWallet(t *testing.T) {
	st, _, rt := setup(t)
	tok := token.New(tokenAddr, st)
	m := NewMarketingWallet(marketingAddr, st, tokenAddr)
	m.Ownable().Init(owner)

	_, err := run(t, rt, owner, tokenAddr, nil, func(env *xenv.Environment) error {
		return tok.Mint(env, marketingAddr, big.NewInt(100))
	})
	require.NoError(t, err)

	_, err = run(t, rt, marketer, marketingAddr, nil, func(env *xenv.Environment) error {
		return m.PayReward(env, marketer, big.NewInt(10))
	})
	assert.True(t, reverts.Is(err, reverts.OwnableUnauthorizedAccount))

	_, err = run(t, rt, owner, marketingAddr, nil, func(env *xenv.Environment) error {
		return m.PayManyRewards(env, []cosmic.Address{marketer, donor}, big.NewInt(60))
	})
	assert.True(t, reverts.Is(err, reverts.InsufficientBalance))

	_, err = run(t, rt, owner, marketingAddr, nil, func(env *xenv.Environment) error {
		return m.PayReward(env, marketer, big.NewInt(40))
	})
	require.NoError(t, err)
	bal, _ := tok.BalanceOf(marketer)
	assert.Equal(t, int64(40), bal.Int64())
	bal, _ = tok.BalanceOf(marketingAddr)
	assert.Equal(t, int64(60), bal.Int64())
}
