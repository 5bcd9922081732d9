// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"math/big"

	"github.com/cosmicsignature/engine/builtin"
	"github.com/cosmicsignature/engine/builtin/game"
	"github.com/cosmicsignature/engine/builtin/nft"
	"github.com/cosmicsignature/engine/builtin/prizes"
	"github.com/cosmicsignature/engine/cosmic"
)

// Round is the view of the current bidding round.
type Round struct {
	Number                       uint64
	State                        game.RoundState
	Now                          uint64
	ActivationTime               uint64
	MainPrizeTime                uint64
	DurationUntilMainPrize       int64
	DurationUntilRoundActivation int64
	TotalBids                    uint64
	LastBidder                   cosmic.Address
	LastCstBidder                cosmic.Address
	Balance                      *big.Int
	StellarSpender               *game.StellarSpender

	MainEthPrizeAmount          *big.Int
	CharityEthDonationAmount    *big.Int
	ChronoWarriorEthPrizeAmount *big.Int
	RaffleTotalEthPrizeAmount   *big.Int
	StakingTotalEthRewardAmount *big.Int
}

// errs keeps the first error of a sequence of reads.
type errs struct{ err error }

func (e *errs) u64(v uint64, err error) uint64 {
	if e.err == nil {
		e.err = err
	}
	return v
}

func (e *errs) i64(v int64, err error) int64 {
	if e.err == nil {
		e.err = err
	}
	return v
}

func (e *errs) bigInt(v *big.Int, err error) *big.Int {
	if e.err == nil {
		e.err = err
	}
	return v
}

func (e *errs) addr(v cosmic.Address, err error) cosmic.Address {
	if e.err == nil {
		e.err = err
	}
	return v
}

// Round reads the current round at the time the next block would get.
func (n *Node) Round() (*Round, error) {
	st := n.BestState()
	g := builtin.Game.WithState(st)
	now := n.Now()

	var e errs
	r := &Round{Now: now}
	r.Number = e.u64(g.RoundNum())
	r.ActivationTime = e.u64(g.RoundActivationTime())
	r.MainPrizeTime = e.u64(g.MainPrizeTime())
	r.DurationUntilMainPrize = e.i64(g.DurationUntilMainPrizeRaw(now))
	r.DurationUntilRoundActivation = e.i64(g.DurationUntilRoundActivation(now))
	r.LastBidder = e.addr(g.LastBidder())
	r.LastCstBidder = e.addr(g.LastCstBidder())
	r.Balance = e.bigInt(st.GetBalance(builtin.Game.Address))
	r.MainEthPrizeAmount = e.bigInt(g.MainEthPrizeAmount())
	r.CharityEthDonationAmount = e.bigInt(g.CharityEthDonationAmount())
	r.ChronoWarriorEthPrizeAmount = e.bigInt(g.ChronoWarriorEthPrizeAmount())
	r.RaffleTotalEthPrizeAmount = e.bigInt(g.RaffleTotalEthPrizeAmountForBidders())
	r.StakingTotalEthRewardAmount = e.bigInt(g.CosmicSignatureNftStakingTotalEthRewardAmount())
	if e.err != nil {
		return nil, e.err
	}
	r.TotalBids = e.u64(g.TotalNumBids(r.Number))
	if e.err != nil {
		return nil, e.err
	}

	var err error
	if r.State, err = g.State(now); err != nil {
		return nil, err
	}
	if r.StellarSpender, err = g.StellarSpender(); err != nil {
		return nil, err
	}
	return r, nil
}

// Prices are the bid prices offset seconds after the next block time.
type Prices struct {
	Now               uint64
	Offset            int64
	Eth               *big.Int
	EthWithRandomWalk *big.Int
	Cst               *big.Int
}

func (n *Node) Prices(offset int64) (*Prices, error) {
	g, err := builtin.Game.InForce(n.BestState())
	if err != nil {
		return nil, err
	}
	now := n.Now()

	var e errs
	p := &Prices{Now: now, Offset: offset}
	p.Eth = e.bigInt(g.NextEthBidPriceAdvanced(now, offset))
	p.EthWithRandomWalk = e.bigInt(g.EthPlusRandomWalkNftBidPrice(now, offset))
	p.Cst = e.bigInt(g.NextCstBidPriceAdvanced(now, offset))
	if e.err != nil {
		return nil, e.err
	}
	return p, nil
}

// Champions returns the endurance champion and chrono warrior as if the round ended now.
func (n *Node) Champions() (*game.Champions, error) {
	return builtin.Game.WithState(n.BestState()).TryGetCurrentChampions(n.Now())
}

func (n *Node) BidderInfo(round uint64, bidder cosmic.Address) (*game.BidderInfo, error) {
	return builtin.Game.WithState(n.BestState()).BidderInfo(round, bidder)
}

// Bidders lists the bidder of every bid of the round, in order.
func (n *Node) Bidders(round uint64) ([]cosmic.Address, error) {
	g := builtin.Game.WithState(n.BestState())
	num, err := g.TotalNumBids(round)
	if err != nil {
		return nil, err
	}
	bidders := make([]cosmic.Address, 0, num)
	for i := range num {
		addr, err := g.BidderAddressAt(round, i)
		if err != nil {
			return nil, err
		}
		bidders = append(bidders, addr)
	}
	return bidders, nil
}

func (n *Node) Param(p game.Param) (*big.Int, error) {
	return builtin.Game.WithState(n.BestState()).Param(p)
}

// PrizeBalance is what a winner holds in the prizes wallet for a round.
type PrizeBalance struct {
	Round                 uint64
	Winner                cosmic.Address
	Eth                   *big.Int
	MainPrizeBeneficiary  cosmic.Address
	TimeoutTimeToWithdraw uint64
	Redistribution        prizes.Redistribution
}

func (n *Node) PrizeBalance(round uint64, winner cosmic.Address) (*PrizeBalance, error) {
	c := builtin.Prizes.WithState(n.BestState())

	var e errs
	b := &PrizeBalance{Round: round, Winner: winner}
	b.Eth = e.bigInt(c.EthBalanceInfo(round, winner))
	b.MainPrizeBeneficiary = e.addr(c.MainPrizeBeneficiary(round))
	b.TimeoutTimeToWithdraw = e.u64(c.RoundTimeoutTimeToWithdrawPrizes(round))
	if e.err != nil {
		return nil, e.err
	}
	var err error
	if b.Redistribution, err = c.EthPrizeRedistribution(); err != nil {
		return nil, err
	}
	return b, nil
}

func (n *Node) DonatedNft(index uint64) (*prizes.DonatedNft, error) {
	return builtin.Prizes.WithState(n.BestState()).DonatedNft(index)
}

// DonatedToken returns the amount of tokenAddr donated to the round and not yet claimed.
func (n *Node) DonatedToken(round uint64, tokenAddr cosmic.Address) (*big.Int, error) {
	return builtin.Prizes.WithState(n.BestState()).DonatedToken(round, tokenAddr)
}

func (n *Node) CstBalance(addr cosmic.Address) (*big.Int, error) {
	return builtin.Token.WithState(n.BestState()).BalanceOf(addr)
}

func (n *Node) NftOwner(collection Ledger, id uint64) (cosmic.Address, error) {
	return collection.nft(n.BestState()).OwnerOf(id)
}

func (n *Node) NftBalance(collection Ledger, owner cosmic.Address) (uint64, error) {
	return collection.nft(n.BestState()).BalanceOf(owner)
}

// NftTotalSupply is the number of NFTs minted by the collection. Ids run from 0.
func (n *Node) NftTotalSupply(collection Ledger) (uint64, error) {
	return collection.nft(n.BestState()).TotalSupply()
}

func (n *Node) NftMetaData(collection Ledger, id uint64) (*nft.MetaData, error) {
	return collection.nft(n.BestState()).MetaData(id)
}

func (n *Node) NftTokenURI(collection Ledger, id uint64) (string, error) {
	return collection.nft(n.BestState()).TokenURI(id)
}
