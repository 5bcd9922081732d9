// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmicsignature/engine/builtin/nft"
	"github.com/cosmicsignature/engine/builtin/reverts"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/lvldb"
	"github.com/cosmicsignature/engine/runtime"
	"github.com/cosmicsignature/engine/state"
	"github.com/cosmicsignature/engine/xenv"
)

var (
	ledgerAddr = cosmic.BytesToAddress([]byte("staking"))
	nftAddr    = cosmic.BytesToAddress([]byte("nft"))
	game       = cosmic.BytesToAddress([]byte("game"))
	owner      = cosmic.BytesToAddress([]byte("owner"))
	alice      = cosmic.BytesToAddress([]byte("alice"))
	bob        = cosmic.BytesToAddress([]byte("bob"))
	charity    = cosmic.BytesToAddress([]byte("charity"))
	rejecter   = cosmic.BytesToAddress([]byte("rejecter"))
)

type testLedger struct {
	t      *testing.T
	st     *state.State
	rt     *runtime.Runtime
	ledger *Ledger
	nft    *nft.NFT
}

func newTestLedger(t *testing.T, rewards bool) *testLedger {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	st := state.NewStater(db).NewState(cosmic.Bytes32{})
	for _, acc := range []cosmic.Address{game, alice, bob} {
		require.NoError(t, st.SetBalance(acc, new(big.Int).Mul(big.NewInt(100), cosmic.Ether)))
	}
	receivers := func(addr cosmic.Address) xenv.Receiver {
		if addr == rejecter {
			return func(*xenv.Environment) error { return errors.New("rejected") }
		}
		return nil
	}
	l := New(ledgerAddr, st, Config{Name: "cs", Rewards: rewards, Nft: nftAddr, Game: game})
	l.Ownable().Init(owner)
	return &testLedger{
		t:      t,
		st:     st,
		rt:     runtime.New(st, &xenv.BlockContext{Number: 1, Time: 1000}, receivers),
		ledger: l,
		nft:    nft.New(nftAddr, st),
	}
}

// exec runs fn as a transaction and returns its revert, if any.
func (tl *testLedger) exec(origin, to cosmic.Address, value *big.Int, fn func(env *xenv.Environment) error) error {
	receipt, err := tl.rt.Execute(origin, to, value, fn)
	require.NoError(tl.t, err)
	return receipt.Err
}

// mintAndApprove gives holder a fresh NFT and approves the ledger over it.
func (tl *testLedger) mintAndApprove(holder cosmic.Address) uint64 {
	var id uint64
	require.NoError(tl.t, tl.exec(holder, nftAddr, nil, func(env *xenv.Environment) (err error) {
		id, err = tl.nft.Mint(env, 0, holder, uint256.NewInt(id))
		if err != nil {
			return err
		}
		return tl.nft.SetApprovalForAll(env, ledgerAddr, true)
	}))
	return id
}

func (tl *testLedger) stake(staker cosmic.Address, nftID uint64) (uint64, error) {
	var id uint64
	err := tl.exec(staker, ledgerAddr, nil, func(env *xenv.Environment) (err error) {
		id, err = tl.ledger.Stake(env, nftID)
		return
	})
	return id, err
}

func (tl *testLedger) deposit(amount *big.Int) error {
	return tl.exec(game, ledgerAddr, amount, func(env *xenv.Environment) error {
		return tl.ledger.Deposit(env, 7)
	})
}

func (tl *testLedger) balance(addr cosmic.Address) *big.Int {
	b, err := tl.st.GetBalance(addr)
	require.NoError(tl.t, err)
	return b
}

func TestStakeAndUnstake(t *testing.T) {
	tl := newTestLedger(t, true)
	n0 := tl.mintAndApprove(alice)

	id, err := tl.stake(alice, n0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)

	holder, _ := tl.nft.OwnerOf(n0)
	assert.Equal(t, ledgerAddr, holder)
	num, _ := tl.ledger.NumStakedNfts()
	assert.Equal(t, uint64(1), num)
	used, _ := tl.ledger.WasNftUsed(n0)
	assert.True(t, used)

	err = tl.exec(bob, ledgerAddr, nil, func(env *xenv.Environment) error { return tl.ledger.Unstake(env, id) })
	assert.True(t, reverts.Is(err, reverts.NftStakeActionAccessDenied))

	err = tl.exec(alice, ledgerAddr, nil, func(env *xenv.Environment) error { return tl.ledger.Unstake(env, 99) })
	assert.True(t, reverts.Is(err, reverts.NftStakeActionInvalidId))

	require.NoError(t, tl.exec(alice, ledgerAddr, nil, func(env *xenv.Environment) error { return tl.ledger.Unstake(env, id) }))
	holder, _ = tl.nft.OwnerOf(n0)
	assert.Equal(t, alice, holder)
	num, _ = tl.ledger.NumStakedNfts()
	assert.Equal(t, uint64(0), num)
	counter, _ := tl.ledger.ActionCounter()
	assert.Equal(t, uint64(2), counter)

	err = tl.exec(alice, ledgerAddr, nil, func(env *xenv.Environment) error { return tl.ledger.Unstake(env, id) })
	assert.True(t, reverts.Is(err, reverts.NftAlreadyUnstaked))

	_, err = tl.stake(alice, n0)
	assert.True(t, reverts.Is(err, reverts.NftHasAlreadyBeenStaked), "an NFT is staked only once")
}

func TestStakeRequiresOwnership(t *testing.T) {
	tl := newTestLedger(t, true)
	n0 := tl.mintAndApprove(alice)

	_, err := tl.stake(bob, n0)
	assert.True(t, reverts.Is(err, reverts.CallerIsNotNftOwner))

	// without approval the custody transfer fails and nothing is recorded
	var n1 uint64
	require.NoError(t, tl.exec(bob, nftAddr, nil, func(env *xenv.Environment) (err error) {
		n1, err = tl.nft.Mint(env, 0, bob, uint256.NewInt(5))
		return
	}))
	_, err = tl.stake(bob, n1)
	assert.True(t, reverts.Is(err, reverts.CallerIsNotNftOwner))
	used, _ := tl.ledger.WasNftUsed(n1)
	assert.False(t, used)
}

func TestRewards(t *testing.T) {
	tl := newTestLedger(t, true)

	// nothing staked: retained
	require.NoError(t, tl.deposit(big.NewInt(1000)))
	reward, _ := tl.ledger.RewardAmountPerStakedNft()
	assert.Equal(t, 0, reward.Sign())
	assert.Equal(t, big.NewInt(1000), tl.balance(ledgerAddr))

	a, err := tl.stake(alice, tl.mintAndApprove(alice))
	require.NoError(t, err)
	b, err := tl.stake(bob, tl.mintAndApprove(bob))
	require.NoError(t, err)

	require.NoError(t, tl.deposit(big.NewInt(301)))
	reward, _ = tl.ledger.RewardAmountPerStakedNft()
	assert.Equal(t, big.NewInt(150), reward)

	err = tl.exec(alice, ledgerAddr, big.NewInt(1), func(env *xenv.Environment) error { return tl.ledger.Deposit(env, 7) })
	assert.True(t, reverts.Is(err, reverts.UnauthorizedCaller))

	pending, _ := tl.ledger.PendingReward(a)
	assert.Equal(t, big.NewInt(150), pending)

	before := tl.balance(alice)
	require.NoError(t, tl.exec(alice, ledgerAddr, nil, func(env *xenv.Environment) error { return tl.ledger.Unstake(env, a) }))
	assert.Equal(t, new(big.Int).Add(before, big.NewInt(150)), tl.balance(alice))

	// a later deposit goes to bob alone
	require.NoError(t, tl.deposit(big.NewInt(100)))
	pending, _ = tl.ledger.PendingReward(b)
	assert.Equal(t, big.NewInt(250), pending)
	pending, _ = tl.ledger.PendingReward(a)
	assert.Equal(t, 0, pending.Sign())
}

func TestUnstakeRewardTransferFailure(t *testing.T) {
	tl := newTestLedger(t, true)
	require.NoError(t, tl.st.SetBalance(rejecter, big.NewInt(0)))
	n := tl.mintAndApprove(rejecter)
	id, err := tl.stake(rejecter, n)
	require.NoError(t, err)
	require.NoError(t, tl.deposit(big.NewInt(10)))

	err = tl.exec(rejecter, ledgerAddr, nil, func(env *xenv.Environment) error { return tl.ledger.Unstake(env, id) })
	assert.True(t, reverts.Is(err, reverts.FundTransferFailed))
	action, _ := tl.ledger.StakeAction(id)
	assert.False(t, action.Unstaked, "reverted as a whole")
}

func TestManyIsAtomic(t *testing.T) {
	tl := newTestLedger(t, false)
	n0 := tl.mintAndApprove(alice)
	n1 := tl.mintAndApprove(bob)

	err := tl.exec(alice, ledgerAddr, nil, func(env *xenv.Environment) error {
		_, err := tl.ledger.StakeMany(env, []uint64{n0, n1})
		return err
	})
	assert.True(t, reverts.Is(err, reverts.CallerIsNotNftOwner))
	num, _ := tl.ledger.NumStakedNfts()
	assert.Equal(t, uint64(0), num)

	n2 := tl.mintAndApprove(alice)
	var ids []uint64
	require.NoError(t, tl.exec(alice, ledgerAddr, nil, func(env *xenv.Environment) (err error) {
		ids, err = tl.ledger.StakeMany(env, []uint64{n0, n2})
		return
	}))
	assert.Len(t, ids, 2)

	require.NoError(t, tl.exec(alice, ledgerAddr, nil, func(env *xenv.Environment) error {
		return tl.ledger.UnstakeMany(env, ids)
	}))
	num, _ = tl.ledger.NumStakedNfts()
	assert.Equal(t, uint64(0), num)

	err = tl.exec(game, ledgerAddr, big.NewInt(1), func(env *xenv.Environment) error { return tl.ledger.Deposit(env, 1) })
	assert.True(t, reverts.Is(err, reverts.CallDenied), "no deposits without rewards")
}

func TestPickRandomStakers(t *testing.T) {
	tl := newTestLedger(t, false)
	seed := uint256.NewInt(77)

	winner, err := tl.ledger.PickRandomStakerAddressIfPossible(seed)
	require.NoError(t, err)
	assert.True(t, winner.IsZero())
	winners, err := tl.ledger.PickRandomStakerAddressesIfPossible(4, seed)
	require.NoError(t, err)
	assert.Empty(t, winners)

	a, err := tl.stake(alice, tl.mintAndApprove(alice))
	require.NoError(t, err)
	_, err = tl.stake(bob, tl.mintAndApprove(bob))
	require.NoError(t, err)
	_, err = tl.stake(alice, tl.mintAndApprove(alice))
	require.NoError(t, err)

	winners, err = tl.ledger.PickRandomStakerAddressesIfPossible(4, seed)
	require.NoError(t, err)
	require.Len(t, winners, 4)
	for _, w := range winners {
		assert.Contains(t, []cosmic.Address{alice, bob}, w)
	}
	again, _ := tl.ledger.PickRandomStakerAddressesIfPossible(4, seed)
	assert.Equal(t, winners, again, "deterministic")
	assert.Equal(t, uint64(77), seed.Uint64())

	// the swap-remove keeps the population dense
	require.NoError(t, tl.exec(alice, ledgerAddr, nil, func(env *xenv.Environment) error { return tl.ledger.Unstake(env, a) }))
	for i := range uint64(20) {
		w, err := tl.ledger.PickRandomStakerAddressIfPossible(uint256.NewInt(i))
		require.NoError(t, err)
		assert.False(t, w.IsZero())
	}
}

func TestPickRandomStakersIsFair(t *testing.T) {
	tl := newTestLedger(t, false)

	const signers, perSigner = 20, 20
	stakers := make([]cosmic.Address, 0, signers)
	for i := range signers {
		staker := cosmic.BytesToAddress([]byte(fmt.Sprintf("signer-%d", i)))
		stakers = append(stakers, staker)
		for range perSigner {
			_, err := tl.stake(staker, tl.mintAndApprove(staker))
			require.NoError(t, err)
		}
	}
	num, err := tl.ledger.NumStakedNfts()
	require.NoError(t, err)
	assert.Equal(t, uint64(signers*perSigner), num)

	picked := make(map[cosmic.Address]int)
	for i := range uint64(1000) {
		w, err := tl.ledger.PickRandomStakerAddressIfPossible(uint256.NewInt(i))
		require.NoError(t, err)
		picked[w]++
	}
	for _, staker := range stakers {
		assert.Positive(t, picked[staker], "staker %v never picked", staker)
	}
	assert.Len(t, picked, signers)

	// a single batch of draws covers every signer as well
	winners, err := tl.ledger.PickRandomStakerAddressesIfPossible(1000, uint256.NewInt(2024))
	require.NoError(t, err)
	batch := make(map[cosmic.Address]int)
	for _, w := range winners {
		batch[w]++
	}
	for _, staker := range stakers {
		assert.InDelta(t, 50, batch[staker], 40, "staker %v", staker)
	}
}

func TestTryPerformMaintenance(t *testing.T) {
	tl := newTestLedger(t, true)
	require.NoError(t, tl.deposit(big.NewInt(500)))

	maintain := func(caller, to cosmic.Address) error {
		return tl.exec(caller, ledgerAddr, nil, func(env *xenv.Environment) error {
			_, err := tl.ledger.TryPerformMaintenance(env, to)
			return err
		})
	}
	assert.True(t, reverts.Is(maintain(alice, charity), reverts.OwnableUnauthorizedAccount))

	id, err := tl.stake(alice, tl.mintAndApprove(alice))
	require.NoError(t, err)
	assert.True(t, reverts.Is(maintain(owner, charity), reverts.ThereAreStakedNfts))
	require.NoError(t, tl.exec(alice, ledgerAddr, nil, func(env *xenv.Environment) error { return tl.ledger.Unstake(env, id) }))

	require.NoError(t, maintain(owner, rejecter))
	assert.Equal(t, big.NewInt(500), tl.balance(ledgerAddr), "failed transfer keeps the funds")

	require.NoError(t, maintain(owner, charity))
	assert.Equal(t, 0, tl.balance(ledgerAddr).Sign())
	assert.Equal(t, big.NewInt(500), tl.balance(charity))
}
