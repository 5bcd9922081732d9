// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking implements the NFT staking ledgers.
//
// The CS NFT ledger distributes ETH deposited by the game pro-rata among the
// staked NFTs using a cumulative reward-per-NFT accumulator. The RandomWalk NFT
// ledger pays no rewards and only serves as a population for raffles.
package staking

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/cosmicsignature/engine/abi"
	"github.com/cosmicsignature/engine/builtin/access"
	"github.com/cosmicsignature/engine/builtin/gen"
	"github.com/cosmicsignature/engine/builtin/nft"
	"github.com/cosmicsignature/engine/builtin/randomness"
	"github.com/cosmicsignature/engine/builtin/reverts"
	"github.com/cosmicsignature/engine/builtin/solidity"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/log"
	"github.com/cosmicsignature/engine/state"
	"github.com/cosmicsignature/engine/xenv"
)

var logger = log.WithContext("pkg", "staking")

var (
	CosmicSignatureNftABI = abi.MustNew(gen.MustAsset("compiled/StakingWalletCosmicSignatureNft.abi"))
	RandomWalkNftABI      = abi.MustNew(gen.MustAsset("compiled/StakingWalletRandomWalkNft.abi"))
)

var (
	actionCounterSlot  = solidity.Slot("staking.actionCounter")
	numStakedNftsSlot  = solidity.Slot("staking.numStakedNfts")
	rewardPerNftSlot   = solidity.Slot("staking.rewardAmountPerStakedNft")
	usedNftsSlot       = solidity.Slot("staking.usedNfts")
	stakeActionsSlot   = solidity.Slot("staking.stakeActions")
	stakeActionIdsSlot = solidity.Slot("staking.stakeActionIds")
)

// Config binds a ledger to its collection and the game.
type Config struct {
	Name    string
	Rewards bool
	Nft     cosmic.Address
	Game    cosmic.Address
}

// StakeAction records one staked NFT.
type StakeAction struct {
	NftID                           uint64
	Owner                           cosmic.Address
	InitialRewardAmountPerStakedNft *big.Int
	// position in the dense id array, valid while staked
	Index    uint64
	Unstaked bool
}

type events struct {
	nftStaked                 *abi.Event
	nftUnstaked               *abi.Event
	ethDepositReceived        *abi.Event
	fundTransferFailed        *abi.Event
	fundsTransferredToCharity *abi.Event
}

// Ledger is a staking wallet.
type Ledger struct {
	addr   cosmic.Address
	cfg    Config
	events events

	ownable *access.Ownable
	guard   *access.ReentrancyGuard
	nft     *nft.NFT

	actionCounter  *solidity.Uint64
	numStakedNfts  *solidity.Uint64
	rewardPerNft   *solidity.Uint256
	usedNfts       *solidity.Mapping[solidity.UintKey, bool]
	stakeActions   *solidity.Mapping[solidity.UintKey, *StakeAction]
	stakeActionIds *solidity.Array[uint64]
}

func New(addr cosmic.Address, state *state.State, cfg Config) *Ledger {
	ctx := solidity.NewContext(addr, state)
	contractABI := RandomWalkNftABI
	if cfg.Rewards {
		contractABI = CosmicSignatureNftABI
	}
	ev := events{
		nftStaked:   contractABI.MustEventByName("NftStaked"),
		nftUnstaked: contractABI.MustEventByName("NftUnstaked"),
	}
	if cfg.Rewards {
		ev.ethDepositReceived = contractABI.MustEventByName("EthDepositReceived")
		ev.fundTransferFailed = contractABI.MustEventByName("FundTransferFailed")
		ev.fundsTransferredToCharity = contractABI.MustEventByName("FundsTransferredToCharity")
	}
	return &Ledger{
		addr:           addr,
		cfg:            cfg,
		events:         ev,
		ownable:        access.NewOwnable(ctx, contractABI.MustEventByName("OwnershipTransferred")),
		guard:          access.NewReentrancyGuard(ctx),
		nft:            nft.New(cfg.Nft, state),
		actionCounter:  solidity.NewUint64(ctx, actionCounterSlot),
		numStakedNfts:  solidity.NewUint64(ctx, numStakedNftsSlot),
		rewardPerNft:   solidity.NewUint256(ctx, rewardPerNftSlot),
		usedNfts:       solidity.NewMapping[solidity.UintKey, bool](ctx, usedNftsSlot),
		stakeActions:   solidity.NewMapping[solidity.UintKey, *StakeAction](ctx, stakeActionsSlot),
		stakeActionIds: solidity.NewArray[uint64](ctx, stakeActionIdsSlot),
	}
}

func (l *Ledger) Address() cosmic.Address  { return l.addr }
func (l *Ledger) Config() Config           { return l.cfg }
func (l *Ledger) Ownable() *access.Ownable { return l.ownable }

// Stake takes custody of nftId and returns the new stake action id.
// The ledger must be an approved operator of the caller's NFTs.
func (l *Ledger) Stake(env *xenv.Environment, nftID uint64) (id uint64, err error) {
	err = l.guard.NonReentrant(func() error {
		id, err = l.stake(env, nftID)
		return err
	})
	return
}

// StakeMany stakes every NFT or none.
func (l *Ledger) StakeMany(env *xenv.Environment, nftIDs []uint64) (ids []uint64, err error) {
	err = l.guard.NonReentrant(func() error {
		for _, nftID := range nftIDs {
			id, err := l.stake(env, nftID)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	return
}

// Unstake returns the NFT of a stake action to its staker, paying the accrued reward.
func (l *Ledger) Unstake(env *xenv.Environment, stakeActionID uint64) error {
	return l.guard.NonReentrant(func() error {
		return l.unstake(env, stakeActionID)
	})
}

// UnstakeMany unstakes every action or none.
func (l *Ledger) UnstakeMany(env *xenv.Environment, stakeActionIDs []uint64) error {
	return l.guard.NonReentrant(func() error {
		for _, id := range stakeActionIDs {
			if err := l.unstake(env, id); err != nil {
				return err
			}
		}
		return nil
	})
}

// Deposit distributes the received ETH among the staked NFTs. With nothing staked the ETH is retained.
func (l *Ledger) Deposit(env *xenv.Environment, roundNum uint64) error {
	if env.Caller() != l.cfg.Game {
		return reverts.New(reverts.UnauthorizedCaller, "Only the CosmicSignatureGame contract is permitted to call this method.", env.Caller())
	}
	if !l.cfg.Rewards {
		return reverts.New(reverts.CallDenied, "This staking wallet does not accept deposits.")
	}
	value := env.Value()
	numStaked, err := l.numStakedNfts.Get()
	if err != nil {
		return err
	}
	reward, err := l.rewardPerNft.Get()
	if err != nil {
		return err
	}
	counter, err := l.actionCounter.Get()
	if err != nil {
		return err
	}
	if numStaked == 0 {
		logger.Debug("deposit retained, nothing staked", "round", roundNum, "amount", value)
		env.Log(l.events.ethDepositReceived, roundNum, counter, value, reward, numStaked)
		return nil
	}
	reward.Add(reward, new(big.Int).Div(value, new(big.Int).SetUint64(numStaked)))
	l.rewardPerNft.Set(reward)
	counter++
	l.actionCounter.Set(counter)
	env.Log(l.events.ethDepositReceived, roundNum, counter, value, reward, numStaked)
	return nil
}

// TryPerformMaintenance sweeps the balance to charity once nothing is staked.
// A failed transfer is reported by event and the funds stay.
func (l *Ledger) TryPerformMaintenance(env *xenv.Environment, charity cosmic.Address) (bool, error) {
	if err := l.ownable.OnlyOwner(env); err != nil {
		return false, err
	}
	if !l.cfg.Rewards {
		return false, reverts.New(reverts.CallDenied, "This staking wallet holds no ETH.")
	}
	numStaked, err := l.numStakedNfts.Get()
	if err != nil {
		return false, err
	}
	if numStaked > 0 {
		return false, reverts.New(reverts.ThereAreStakedNfts, "There are still staked NFTs.")
	}
	if charity.IsZero() {
		return true, nil
	}
	amount, err := env.Balance(l.addr)
	if err != nil {
		return false, err
	}
	if amount.Sign() == 0 {
		return true, nil
	}
	if err := env.Transfer(charity, amount); err != nil {
		if !reverts.Is(err, reverts.FundTransferFailed) {
			return false, err
		}
		logger.Warn("transfer to charity failed", "charity", charity, "amount", amount, "err", err)
		env.Log(l.events.fundTransferFailed, "ETH transfer to charity failed.", charity, amount)
		return false, nil
	}
	env.Log(l.events.fundsTransferredToCharity, charity, amount)
	return true, nil
}

// PickRandomStakerAddressIfPossible returns the staker of a uniformly picked staked NFT,
// or the zero address when nothing is staked.
func (l *Ledger) PickRandomStakerAddressIfPossible(seed *uint256.Int) (cosmic.Address, error) {
	n, err := l.stakeActionIds.Len()
	if err != nil || n == 0 {
		return cosmic.Address{}, err
	}
	return l.stakerAt(randomness.Pick(seed, n))
}

// PickRandomStakerAddressesIfPossible picks count stakers, with repetition.
// Pick i uses the seed incremented i+1 times, filled from the last slot down.
func (l *Ledger) PickRandomStakerAddressesIfPossible(count uint64, seed *uint256.Int) ([]cosmic.Address, error) {
	n, err := l.stakeActionIds.Len()
	if err != nil || n == 0 {
		return nil, err
	}
	winners := make([]cosmic.Address, count)
	s := new(uint256.Int).Set(seed)
	for i := count; i > 0; i-- {
		s.AddUint64(s, 1)
		if winners[i-1], err = l.stakerAt(randomness.Pick(s, n)); err != nil {
			return nil, err
		}
	}
	return winners, nil
}

func (l *Ledger) NumStakedNfts() (uint64, error) {
	return l.numStakedNfts.Get()
}

func (l *Ledger) RewardAmountPerStakedNft() (*big.Int, error) {
	return l.rewardPerNft.Get()
}

func (l *Ledger) ActionCounter() (uint64, error) {
	return l.actionCounter.Get()
}

func (l *Ledger) WasNftUsed(nftID uint64) (bool, error) {
	return l.usedNfts.Get(solidity.UintKey(nftID))
}

// StakeAction returns a recorded stake action, including unstaked ones.
func (l *Ledger) StakeAction(id uint64) (*StakeAction, error) {
	ok, err := l.stakeActions.Exists(solidity.UintKey(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, reverts.New(reverts.NftStakeActionInvalidId, "Invalid NFT stake action ID.", id)
	}
	return l.stakeActions.Get(solidity.UintKey(id))
}

// PendingReward returns the reward an unstake of the action would pay now.
func (l *Ledger) PendingReward(id uint64) (*big.Int, error) {
	action, err := l.StakeAction(id)
	if err != nil {
		return nil, err
	}
	if action.Unstaked || !l.cfg.Rewards {
		return new(big.Int), nil
	}
	reward, err := l.rewardPerNft.Get()
	if err != nil {
		return nil, err
	}
	return reward.Sub(reward, action.InitialRewardAmountPerStakedNft), nil
}

func (l *Ledger) stake(env *xenv.Environment, nftID uint64) (uint64, error) {
	staker := env.Caller()
	used, err := l.usedNfts.Get(solidity.UintKey(nftID))
	if err != nil {
		return 0, err
	}
	if used {
		return 0, reverts.New(reverts.NftHasAlreadyBeenStaked, "This NFT has already been staked in the past. An NFT is allowed to be staked only once.", nftID)
	}
	owner, err := l.nft.OwnerOf(nftID)
	if err != nil {
		return 0, err
	}
	if owner != staker {
		return 0, reverts.New(reverts.CallerIsNotNftOwner, "Only NFT owner is permitted to stake it.", l.cfg.Nft, nftID, staker)
	}

	if err := l.usedNfts.Set(solidity.UintKey(nftID), true); err != nil {
		return 0, err
	}
	id, err := l.actionCounter.Increment()
	if err != nil {
		return 0, err
	}
	reward, err := l.rewardPerNft.Get()
	if err != nil {
		return 0, err
	}
	index, err := l.stakeActionIds.Push(id)
	if err != nil {
		return 0, err
	}
	if err := l.stakeActions.Set(solidity.UintKey(id), &StakeAction{
		NftID:                           nftID,
		Owner:                           staker,
		InitialRewardAmountPerStakedNft: reward,
		Index:                           index,
	}); err != nil {
		return 0, err
	}
	numStaked, err := l.numStakedNfts.Increment()
	if err != nil {
		return 0, err
	}

	if l.cfg.Rewards {
		env.Log(l.events.nftStaked, id, nftID, staker, numStaked, reward)
	} else {
		env.Log(l.events.nftStaked, id, nftID, staker, numStaked)
	}
	if err := env.Call(l.cfg.Nft, nil, func(env *xenv.Environment) error {
		return l.nft.TransferFrom(env, staker, l.addr, nftID)
	}); err != nil {
		return 0, err
	}
	logger.Debug("nft staked", "ledger", l.cfg.Name, "stakeActionId", id, "nftId", nftID, "staker", staker)
	return id, nil
}

func (l *Ledger) unstake(env *xenv.Environment, id uint64) error {
	action, err := l.StakeAction(id)
	if err != nil {
		return err
	}
	if action.Unstaked {
		return reverts.New(reverts.NftAlreadyUnstaked, "NFT has already been unstaked.", id)
	}
	staker := env.Caller()
	if action.Owner != staker {
		return reverts.New(reverts.NftStakeActionAccessDenied, "Only NFT owner is permitted to unstake it.", id, staker)
	}

	moved, ok, err := l.stakeActionIds.SwapRemove(action.Index)
	if err != nil {
		return err
	}
	if ok {
		other, err := l.stakeActions.Get(solidity.UintKey(moved))
		if err != nil {
			return err
		}
		other.Index = action.Index
		if err := l.stakeActions.Set(solidity.UintKey(moved), other); err != nil {
			return err
		}
	}
	action.Unstaked = true
	if err := l.stakeActions.Set(solidity.UintKey(id), action); err != nil {
		return err
	}
	numStaked, err := l.numStakedNfts.Get()
	if err != nil {
		return err
	}
	numStaked--
	l.numStakedNfts.Set(numStaked)
	counter, err := l.actionCounter.Increment()
	if err != nil {
		return err
	}

	if err := env.Call(l.cfg.Nft, nil, func(env *xenv.Environment) error {
		return l.nft.TransferFrom(env, l.addr, staker, action.NftID)
	}); err != nil {
		return err
	}

	if !l.cfg.Rewards {
		env.Log(l.events.nftUnstaked, counter, id, action.NftID, staker, numStaked)
		return nil
	}
	reward, err := l.rewardPerNft.Get()
	if err != nil {
		return err
	}
	amount := new(big.Int).Sub(reward, action.InitialRewardAmountPerStakedNft)
	env.Log(l.events.nftUnstaked, counter, id, action.NftID, staker, numStaked, reward, amount)
	if amount.Sign() > 0 {
		if err := env.Transfer(staker, amount); err != nil {
			return err
		}
	}
	return nil
}

func (l *Ledger) stakerAt(index uint64) (cosmic.Address, error) {
	id, err := l.stakeActionIds.Get(index)
	if err != nil {
		return cosmic.Address{}, err
	}
	action, err := l.stakeActions.Get(solidity.UintKey(id))
	if err != nil {
		return cosmic.Address{}, err
	}
	return action.Owner, nil
}
