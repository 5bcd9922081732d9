// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package game

import (
	"math/big"

	"github.com/cosmicsignature/engine/builtin/pricing"
	"github.com/cosmicsignature/engine/builtin/solidity"
	"github.com/cosmicsignature/engine/cosmic"
)

// RoundState is the phase of the current bidding round.
type RoundState int

const (
	// Inactive rounds wait for their activation time.
	Inactive RoundState = iota
	// Active rounds accept bids.
	Active
	// MainPrizeClaimable rounds may be claimed by the last bidder.
	MainPrizeClaimable
	// ClaimTimedOut rounds may be claimed by anyone.
	ClaimTimedOut
)

func (s RoundState) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case Active:
		return "active"
	case MainPrizeClaimable:
		return "claimable"
	case ClaimTimedOut:
		return "claim-timed-out"
	}
	return "unknown"
}

// State returns the phase of the current round at now.
// Bids stay accepted in the claimable phases until the main prize is claimed.
func (g *Game) State(now uint64) (RoundState, error) {
	activation, err := g.roundActivationTime.Get()
	if err != nil {
		return 0, err
	}
	lastBidder, err := g.lastBidder.Get()
	if err != nil {
		return 0, err
	}
	if lastBidder.IsZero() {
		if now < activation {
			return Inactive, nil
		}
		return Active, nil
	}
	mainPrizeTime, err := g.mainPrizeTime.Get()
	if err != nil {
		return 0, err
	}
	if now < mainPrizeTime {
		return Active, nil
	}
	timeout, err := g.paramUint64(TimeoutDurationToClaimMainPrize)
	if err != nil {
		return 0, err
	}
	if now < mainPrizeTime+timeout {
		return MainPrizeClaimable, nil
	}
	return ClaimTimedOut, nil
}

func (g *Game) RoundNum() (uint64, error)                { return g.roundNum.Get() }
func (g *Game) RoundActivationTime() (uint64, error)     { return g.roundActivationTime.Get() }
func (g *Game) MainPrizeTime() (uint64, error)           { return g.mainPrizeTime.Get() }
func (g *Game) LastBidder() (cosmic.Address, error)      { return g.lastBidder.Get() }
func (g *Game) LastCstBidder() (cosmic.Address, error)   { return g.lastCstBidder.Get() }
func (g *Game) CharityAddress() (cosmic.Address, error)  { return g.charity.Get() }
func (g *Game) MarketingWallet() (cosmic.Address, error) { return g.marketingWallet.Get() }
func (g *Game) StellarSpender() (*StellarSpender, error) { return g.stellarSpender.Get() }

func (g *Game) NumEthDonationWithInfoRecords() (uint64, error) {
	return g.ethDonationsWithInfo.Len()
}

// NextEthBidPriceAdvanced returns the ETH price of a bid placed offset seconds after now.
func (g *Game) NextEthBidPriceAdvanced(now uint64, offset int64) (*big.Int, error) {
	ps, err := g.pricingState()
	if err != nil {
		return nil, err
	}
	return pricing.NextEthBidPrice(ps, now, offset), nil
}

// EthPlusRandomWalkNftBidPrice returns the discounted ETH price of a bid placed offset seconds after now.
func (g *Game) EthPlusRandomWalkNftBidPrice(now uint64, offset int64) (*big.Int, error) {
	price, err := g.NextEthBidPriceAdvanced(now, offset)
	if err != nil {
		return nil, err
	}
	return g.randomWalkNftBidPrice(price), nil
}

// NextCstBidPriceAdvanced returns the CST price of a bid placed offset seconds after now.
func (g *Game) NextCstBidPriceAdvanced(now uint64, offset int64) (*big.Int, error) {
	ps, err := g.pricingState()
	if err != nil {
		return nil, err
	}
	return pricing.NextCstBidPrice(ps, now, offset), nil
}

// DurationUntilMainPrizeRaw is negative once the main prize time has passed.
func (g *Game) DurationUntilMainPrizeRaw(now uint64) (int64, error) {
	t, err := g.mainPrizeTime.Get()
	if err != nil {
		return 0, err
	}
	return pricing.SignedDiff(t, now), nil
}

func (g *Game) DurationUntilRoundActivation(now uint64) (int64, error) {
	t, err := g.roundActivationTime.Get()
	if err != nil {
		return 0, err
	}
	return pricing.SignedDiff(t, now), nil
}

func (g *Game) share(p Param) (*big.Int, error) {
	balance, err := g.state.GetBalance(g.addr)
	if err != nil {
		return nil, err
	}
	pct, err := g.Param(p)
	if err != nil {
		return nil, err
	}
	pct.Mul(pct, balance)
	return pct.Div(pct, big.NewInt(100)), nil
}

func (g *Game) MainEthPrizeAmount() (*big.Int, error) {
	return g.share(MainEthPrizeAmountPercentage)
}

func (g *Game) CharityEthDonationAmount() (*big.Int, error) {
	return g.share(CharityEthDonationAmountPercentage)
}

func (g *Game) ChronoWarriorEthPrizeAmount() (*big.Int, error) {
	return g.share(ChronoWarriorEthPrizeAmountPercentage)
}

func (g *Game) RaffleTotalEthPrizeAmountForBidders() (*big.Int, error) {
	return g.share(RaffleTotalEthPrizeAmountForBiddersPercentage)
}

func (g *Game) CosmicSignatureNftStakingTotalEthRewardAmount() (*big.Int, error) {
	return g.share(CosmicSignatureNftStakingTotalEthRewardPercentage)
}

// TryGetCurrentChampions returns the champions as if the round were claimed at now.
func (g *Game) TryGetCurrentChampions(now uint64) (*Champions, error) {
	lastBidder, err := g.lastBidder.Get()
	if err != nil {
		return nil, err
	}
	if lastBidder.IsZero() {
		return &Champions{}, nil
	}
	round, err := g.roundNum.Get()
	if err != nil {
		return nil, err
	}
	info, err := g.bidderInfo(round, lastBidder)
	if err != nil {
		return nil, err
	}
	c, err := g.champions.Get()
	if err != nil {
		return nil, err
	}
	c.update(lastBidder, info.LastBidTimeStamp, now)
	c.updateChronoWarrior(now)
	return c, nil
}

// TotalNumBids returns the number of bids placed in round.
func (g *Game) TotalNumBids(round uint64) (uint64, error) {
	return g.bidderAddresses(round).Len()
}

// BidderAddressAt returns the bidder of the i-th bid of round.
func (g *Game) BidderAddressAt(round, i uint64) (cosmic.Address, error) {
	return g.bidderAddresses(round).Get(i)
}

func (g *Game) BidderInfo(round uint64, bidder cosmic.Address) (*BidderInfo, error) {
	return g.bidderInfo(round, bidder)
}

func (g *Game) EthDonationWithInfoRecord(index uint64) (*EthDonationWithInfoRecord, error) {
	return g.ethDonationsWithInfo.Get(index)
}

func (g *Game) WasRandomWalkNftUsed(id uint64) (bool, error) {
	return g.usedRandomWalkNfts.Get(solidity.UintKey(id))
}
