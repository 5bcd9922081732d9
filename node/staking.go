// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/cosmicsignature/engine/builtin"
	"github.com/cosmicsignature/engine/builtin/nft"
	"github.com/cosmicsignature/engine/builtin/staking"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/state"
	"github.com/cosmicsignature/engine/tx"
	"github.com/cosmicsignature/engine/xenv"
)

// Ledger names a staking wallet.
type Ledger string

const (
	// CosmicSignatureNftLedger pays ETH rewards to stakers of Cosmic Signature NFTs.
	CosmicSignatureNftLedger Ledger = "cs"
	// RandomWalkNftLedger enters stakers of Random Walk NFTs into the NFT raffle.
	RandomWalkNftLedger Ledger = "rw"
)

var Ledgers = []Ledger{CosmicSignatureNftLedger, RandomWalkNftLedger}

// ParseLedger parses "cs" or "rw".
func ParseLedger(s string) (Ledger, error) {
	switch l := Ledger(s); l {
	case CosmicSignatureNftLedger, RandomWalkNftLedger:
		return l, nil
	}
	return "", errors.Errorf("unknown staking ledger %q", s)
}

func (l Ledger) Address() cosmic.Address {
	if l == RandomWalkNftLedger {
		return builtin.StakingRandomWalkNft.Address
	}
	return builtin.StakingCosmicSignatureNft.Address
}

// NftAddress returns the collection staked in the ledger.
func (l Ledger) NftAddress() cosmic.Address {
	if l == RandomWalkNftLedger {
		return builtin.RandomWalkNft.Address
	}
	return builtin.Nft.Address
}

func (l Ledger) bind(st *state.State) *staking.Ledger {
	if l == RandomWalkNftLedger {
		return builtin.StakingRandomWalkNft.WithState(st)
	}
	return builtin.StakingCosmicSignatureNft.WithState(st)
}

func (l Ledger) nft(st *state.State) *nft.NFT {
	if l == RandomWalkNftLedger {
		return builtin.RandomWalkNft.WithState(st)
	}
	return builtin.Nft.WithState(st)
}

func (n *Node) submitStaking(l Ledger, origin cosmic.Address, method string, fn func(ledger *staking.Ledger, env *xenv.Environment) error) (*tx.Receipt, error) {
	receipt, err := n.submit(origin, l.Address(), nil, method, func(env *xenv.Environment) error {
		return fn(l.bind(env.State()), env)
	})
	if err == nil {
		n.updateStakingMetrics()
	}
	return receipt, err
}

// Stake stakes NFTs of the caller and returns the stake action ids.
// The ledger must be approved as operator over the caller's NFTs.
func (n *Node) Stake(l Ledger, staker cosmic.Address, nftIDs ...uint64) (ids []uint64, receipt *tx.Receipt, err error) {
	receipt, err = n.submitStaking(l, staker, "stakeMany", func(ledger *staking.Ledger, env *xenv.Environment) (err error) {
		ids, err = ledger.StakeMany(env, nftIDs)
		return
	})
	return
}

// Unstake returns the NFTs of the stake actions to their owner, paying pending rewards.
func (n *Node) Unstake(l Ledger, staker cosmic.Address, stakeActionIDs ...uint64) (*tx.Receipt, error) {
	return n.submitStaking(l, staker, "unstakeMany", func(ledger *staking.Ledger, env *xenv.Environment) error {
		return ledger.UnstakeMany(env, stakeActionIDs)
	})
}

// PerformStakingMaintenance sweeps the leftover ETH of an empty ledger to charity. Owner only.
func (n *Node) PerformStakingMaintenance(l Ledger, owner, charity cosmic.Address) (swept bool, receipt *tx.Receipt, err error) {
	receipt, err = n.submitStaking(l, owner, "tryPerformMaintenance", func(ledger *staking.Ledger, env *xenv.Environment) (err error) {
		swept, err = ledger.TryPerformMaintenance(env, charity)
		return
	})
	return
}

// StakingInfo summarizes a ledger.
type StakingInfo struct {
	Ledger                   Ledger
	Address                  cosmic.Address
	NumStakedNfts            uint64
	ActionCounter            uint64
	RewardAmountPerStakedNft *big.Int
	Balance                  *big.Int
}

func (n *Node) StakingInfo(l Ledger) (*StakingInfo, error) {
	st := n.BestState()
	ledger := l.bind(st)
	info := &StakingInfo{Ledger: l, Address: l.Address()}
	var err error
	if info.NumStakedNfts, err = ledger.NumStakedNfts(); err != nil {
		return nil, err
	}
	if info.ActionCounter, err = ledger.ActionCounter(); err != nil {
		return nil, err
	}
	if info.RewardAmountPerStakedNft, err = ledger.RewardAmountPerStakedNft(); err != nil {
		return nil, err
	}
	if info.Balance, err = st.GetBalance(l.Address()); err != nil {
		return nil, err
	}
	return info, nil
}

func (n *Node) StakeAction(l Ledger, id uint64) (*staking.StakeAction, error) {
	return l.bind(n.BestState()).StakeAction(id)
}

// PendingReward is the ETH unstaking the action would pay now.
func (n *Node) PendingReward(l Ledger, id uint64) (*big.Int, error) {
	return l.bind(n.BestState()).PendingReward(id)
}

func (n *Node) updateStakingMetrics() {
	st := n.BestState()
	for _, l := range Ledgers {
		num, err := l.bind(st).NumStakedNfts()
		if err != nil {
			logger.Warn("failed to read staked nfts", "ledger", l, "err", err)
			continue
		}
		metricStakedNfts().SetWithLabel(int64(num), map[string]string{"ledger": string(l)})
	}
}
