// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pricing computes ETH and CST bid prices of a bidding round.
//
// ETH bids follow a descending Dutch auction until the first bid of a round,
// then rise by a fixed fraction after every bid. CST bids follow a Dutch
// auction restarted by every CST bid.
package pricing

import (
	"math"
	"math/big"

	"github.com/cosmicsignature/engine/cosmic"
)

// Params are the owner configurable pricing parameters.
type Params struct {
	EthDutchAuctionDurationDivisor           uint64
	EthDutchAuctionEndingBidPriceDivisor     uint64
	EthBidPriceIncreaseDivisor               uint64
	CstDutchAuctionDurationDivisor           uint64
	CstDutchAuctionBeginningBidPriceMinLimit *big.Int
	MainPrizeTimeIncrementInMicroSeconds     uint64
	InitialDurationUntilMainPrizeDivisor     uint64
}

// DefaultParams returns the launch parameters.
func DefaultParams() Params {
	return Params{
		EthDutchAuctionDurationDivisor:           cosmic.DefaultEthDutchAuctionDurationDivisor,
		EthDutchAuctionEndingBidPriceDivisor:     cosmic.DefaultEthDutchAuctionEndingBidPriceDiv,
		EthBidPriceIncreaseDivisor:               cosmic.DefaultEthBidPriceIncreaseDivisor,
		CstDutchAuctionDurationDivisor:           cosmic.DefaultCstDutchAuctionDurationDivisor,
		CstDutchAuctionBeginningBidPriceMinLimit: new(big.Int).Set(cosmic.DefaultCstDutchAuctionBeginningBidPriceMin),
		MainPrizeTimeIncrementInMicroSeconds:     cosmic.DefaultMainPrizeTimeIncrementInMicroSecs,
		InitialDurationUntilMainPrizeDivisor:     cosmic.DefaultInitialDurationUntilMainPrizeDivisor,
	}
}

// State is a snapshot of the pricing related round state.
type State struct {
	Params

	RoundActivationTime uint64
	HasLastBidder       bool
	HasLastCstBidder    bool

	EthDutchAuctionBeginningBidPrice *big.Int
	NextEthBidPrice                  *big.Int

	CstDutchAuctionBeginningTimeStamp              uint64
	CstDutchAuctionBeginningBidPrice               *big.Int
	NextRoundFirstCstDutchAuctionBeginningBidPrice *big.Int
}

// EthDutchAuctionDuration returns the ETH Dutch auction duration in seconds.
func EthDutchAuctionDuration(s *State) uint64 {
	return s.MainPrizeTimeIncrementInMicroSeconds / s.EthDutchAuctionDurationDivisor
}

// CstDutchAuctionDuration returns the CST Dutch auction duration in seconds.
func CstDutchAuctionDuration(s *State) uint64 {
	return s.MainPrizeTimeIncrementInMicroSeconds / s.CstDutchAuctionDurationDivisor
}

// InitialDurationUntilMainPrize is the main prize countdown started by the first bid of a round.
func InitialDurationUntilMainPrize(s *State) uint64 {
	return s.MainPrizeTimeIncrementInMicroSeconds / s.InitialDurationUntilMainPrizeDivisor
}

// MainPrizeTimeIncrement is the countdown extension added by every later bid, in seconds.
func MainPrizeTimeIncrement(s *State) uint64 {
	return s.MainPrizeTimeIncrementInMicroSeconds / cosmic.MicroSecondsPerSecond
}

// NextEthBidPrice returns the ETH price of a bid placed at now + offset.
func NextEthBidPrice(s *State, now uint64, offset int64) *big.Int {
	if s.HasLastBidder {
		return new(big.Int).Set(s.NextEthBidPrice)
	}
	beginning := s.EthDutchAuctionBeginningBidPrice
	if beginning == nil || beginning.Sign() == 0 {
		return new(big.Int).Set(cosmic.FirstRoundInitialEthBidPrice)
	}
	elapsed := addSaturating(SignedDiff(now, s.RoundActivationTime), offset)
	if elapsed <= 0 {
		return new(big.Int).Set(beginning)
	}
	ending := new(big.Int).Div(beginning, new(big.Int).SetUint64(s.EthDutchAuctionEndingBidPriceDivisor))
	ending.Add(ending, big.NewInt(1))

	duration := EthDutchAuctionDuration(s)
	if uint64(elapsed) >= duration {
		return ending
	}
	diff := new(big.Int).Sub(beginning, ending)
	diff.Mul(diff, big.NewInt(elapsed))
	diff.Div(diff, new(big.Int).SetUint64(duration))
	return diff.Sub(beginning, diff)
}

// EthPlusRandomWalkNftBidPrice returns the discounted price of a bid backed by a RandomWalk NFT, rounded up.
func EthPlusRandomWalkNftBidPrice(price *big.Int) *big.Int {
	d := new(big.Int).SetUint64(cosmic.RandomWalkNftBidPriceDivisor)
	p := new(big.Int).Add(price, new(big.Int).Sub(d, big.NewInt(1)))
	return p.Div(p, d)
}

// NextCstBidPrice returns the CST price of a bid placed at now + offset. It reaches 0 when the auction ends.
func NextCstBidPrice(s *State, now uint64, offset int64) *big.Int {
	duration := CstDutchAuctionDuration(s)
	elapsed := addSaturating(SignedDiff(now, s.CstDutchAuctionBeginningTimeStamp), offset)
	remaining := subSaturating(SignedDiff(duration, 0), elapsed)
	if remaining <= 0 || duration == 0 {
		return new(big.Int)
	}
	beginning := s.CstDutchAuctionBeginningBidPrice
	if !s.HasLastCstBidder {
		beginning = s.NextRoundFirstCstDutchAuctionBeginningBidPrice
	}
	if beginning == nil {
		return new(big.Int)
	}
	p := new(big.Int).Mul(beginning, big.NewInt(remaining))
	return p.Div(p, new(big.Int).SetUint64(duration))
}

// AfterEthBid updates s after an ETH bid at the undiscounted price.
func AfterEthBid(s *State, price *big.Int, now uint64) {
	if !s.HasLastBidder {
		s.EthDutchAuctionBeginningBidPrice = new(big.Int).Mul(price, new(big.Int).SetUint64(cosmic.EthDutchAuctionBeginningBidPriceMultiplier))
		s.CstDutchAuctionBeginningTimeStamp = now
	}
	next := new(big.Int).Div(price, new(big.Int).SetUint64(s.EthBidPriceIncreaseDivisor))
	next.Add(next, price)
	s.NextEthBidPrice = next.Add(next, big.NewInt(1))
	s.HasLastBidder = true
}

// AfterCstBid updates s after a CST bid paying paid.
func AfterCstBid(s *State, paid *big.Int, now uint64) {
	beginning := new(big.Int).Mul(paid, new(big.Int).SetUint64(cosmic.CstDutchAuctionBeginningBidPriceMultiplier))
	if beginning.Cmp(s.CstDutchAuctionBeginningBidPriceMinLimit) < 0 {
		beginning.Set(s.CstDutchAuctionBeginningBidPriceMinLimit)
	}
	s.CstDutchAuctionBeginningBidPrice = beginning
	if !s.HasLastCstBidder {
		s.NextRoundFirstCstDutchAuctionBeginningBidPrice = new(big.Int).Set(beginning)
	}
	s.CstDutchAuctionBeginningTimeStamp = now
	s.HasLastCstBidder = true
}

// SignedDiff returns a - b, saturated to the int64 range.
func SignedDiff(a, b uint64) int64 {
	if a >= b {
		return int64(min(a-b, math.MaxInt64))
	}
	if d := b - a; d <= math.MaxInt64 {
		return -int64(d)
	}
	return math.MinInt64
}

func addSaturating(a, b int64) int64 {
	switch {
	case b > 0 && a > math.MaxInt64-b:
		return math.MaxInt64
	case b < 0 && a < math.MinInt64-b:
		return math.MinInt64
	}
	return a + b
}

func subSaturating(a, b int64) int64 {
	switch {
	case b < 0 && a > math.MaxInt64+b:
		return math.MaxInt64
	case b > 0 && a < math.MinInt64+b:
		return math.MinInt64
	}
	return a - b
}
