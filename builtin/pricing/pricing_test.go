// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pricing

import (
	"math"
	"math/big"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"

	"github.com/cosmicsignature/engine/cosmic"
)

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), cosmic.Ether)
}

func newState() *State {
	return &State{
		Params:                                         DefaultParams(),
		RoundActivationTime:                            1000,
		EthDutchAuctionBeginningBidPrice:               new(big.Int),
		NextEthBidPrice:                                new(big.Int),
		CstDutchAuctionBeginningBidPrice:               new(big.Int),
		NextRoundFirstCstDutchAuctionBeginningBidPrice: new(big.Int).Set(cosmic.DefaultNextRoundFirstCstDutchAuctionBeginning),
	}
}

func TestDurations(t *testing.T) {
	s := newState()
	assert.Equal(t, uint64(172_802), EthDutchAuctionDuration(s))
	assert.Equal(t, uint64(43_200), CstDutchAuctionDuration(s))
	assert.Equal(t, uint64(86_399), InitialDurationUntilMainPrize(s))
	assert.Equal(t, uint64(3600), MainPrizeTimeIncrement(s))
}

func TestFirstRoundEthPrice(t *testing.T) {
	s := newState()
	assert.Equal(t, cosmic.FirstRoundInitialEthBidPrice, NextEthBidPrice(s, 0, 0))
	assert.Equal(t, cosmic.FirstRoundInitialEthBidPrice, NextEthBidPrice(s, 5000, 100))
}

func TestEthDutchAuction(t *testing.T) {
	s := newState()
	s.EthDutchAuctionBeginningBidPrice = ether(2)
	duration := EthDutchAuctionDuration(s)
	ending := new(big.Int).Add(new(big.Int).Div(ether(2), big.NewInt(20)), big.NewInt(1))

	tests := []struct {
		name   string
		now    uint64
		offset int64
		want   *big.Int
	}{
		{"before activation", 500, 0, ether(2)},
		{"at activation", 1000, 0, ether(2)},
		{"offset before activation", 1100, -200, ether(2)},
		{"after the end", 1000 + duration, 0, ending},
		{"long after the end", 1000 + 10*duration, 0, ending},
		{"half way", 1000 + duration/2, 0, new(big.Int).Sub(ether(2),
			new(big.Int).Div(new(big.Int).Mul(new(big.Int).Sub(ether(2), ending), big.NewInt(int64(duration/2))), big.NewInt(int64(duration))))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextEthBidPrice(s, tt.now, tt.offset))
		})
	}
}

func TestAfterEthBid(t *testing.T) {
	s := newState()
	price := NextEthBidPrice(s, 1000, 0)
	AfterEthBid(s, price, 1200)

	assert.True(t, s.HasLastBidder)
	assert.Equal(t, new(big.Int).Mul(price, big.NewInt(2)), s.EthDutchAuctionBeginningBidPrice)
	assert.Equal(t, uint64(1200), s.CstDutchAuctionBeginningTimeStamp)
	want := new(big.Int).Add(price, new(big.Int).Div(price, big.NewInt(100)))
	want.Add(want, big.NewInt(1))
	assert.Equal(t, want, s.NextEthBidPrice)
	assert.Equal(t, want, NextEthBidPrice(s, 99999, 0))

	// later bids keep the beginning price
	AfterEthBid(s, want, 1300)
	assert.Equal(t, new(big.Int).Mul(price, big.NewInt(2)), s.EthDutchAuctionBeginningBidPrice)
	assert.Equal(t, uint64(1200), s.CstDutchAuctionBeginningTimeStamp)
}

func TestEthPlusRandomWalkNftBidPrice(t *testing.T) {
	assert.Equal(t, big.NewInt(1), EthPlusRandomWalkNftBidPrice(big.NewInt(1)))
	assert.Equal(t, big.NewInt(1), EthPlusRandomWalkNftBidPrice(big.NewInt(2)))
	assert.Equal(t, big.NewInt(2), EthPlusRandomWalkNftBidPrice(big.NewInt(3)))
	assert.Equal(t, big.NewInt(50), EthPlusRandomWalkNftBidPrice(big.NewInt(100)))
}

func TestCstDutchAuction(t *testing.T) {
	s := newState()
	s.CstDutchAuctionBeginningTimeStamp = 1000
	duration := CstDutchAuctionDuration(s)

	assert.Equal(t, ether(200), NextCstBidPrice(s, 1000, 0))
	assert.Equal(t, ether(100), NextCstBidPrice(s, 1000+duration/2, 0))
	assert.Equal(t, 0, NextCstBidPrice(s, 1000+duration, 0).Sign())
	assert.Equal(t, 0, NextCstBidPrice(s, 1000, int64(duration)).Sign())

	AfterCstBid(s, ether(50), 2000)
	assert.Equal(t, ether(200), s.CstDutchAuctionBeginningBidPrice, "raised to the min limit")
	assert.Equal(t, ether(200), s.NextRoundFirstCstDutchAuctionBeginningBidPrice)
	assert.Equal(t, uint64(2000), s.CstDutchAuctionBeginningTimeStamp)

	AfterCstBid(s, ether(150), 2100)
	assert.Equal(t, ether(300), s.CstDutchAuctionBeginningBidPrice)
	assert.Equal(t, ether(200), s.NextRoundFirstCstDutchAuctionBeginningBidPrice, "only the first CST bid of a round sets it")
	assert.Equal(t, ether(300), NextCstBidPrice(s, 2100, 0))
}

func TestSignedDiff(t *testing.T) {
	tests := []struct {
		a, b uint64
		want int64
	}{
		{5, 3, 2},
		{3, 5, -2},
		{math.MaxUint64, 0, math.MaxInt64},
		{0, math.MaxUint64, math.MinInt64},
		{1 << 63, 0, math.MaxInt64},
		{0, 1 << 63, math.MinInt64},
		{math.MaxUint64, 1000, math.MaxInt64},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SignedDiff(tt.a, tt.b), "%d - %d", tt.a, tt.b)
	}
}

func TestExtremeOffsets(t *testing.T) {
	s := newState()
	s.EthDutchAuctionBeginningBidPrice = ether(2)
	s.CstDutchAuctionBeginningTimeStamp = 1000
	ending := new(big.Int).Add(new(big.Int).Div(ether(2), big.NewInt(20)), big.NewInt(1))

	assert.Equal(t, ending, NextEthBidPrice(s, math.MaxUint64, math.MaxInt64))
	assert.Equal(t, ether(2), NextEthBidPrice(s, 0, math.MinInt64))
	assert.Equal(t, ether(2), NextEthBidPrice(s, math.MaxUint64, math.MinInt64))

	assert.Equal(t, 0, NextCstBidPrice(s, math.MaxUint64, math.MaxInt64).Sign())
	assert.Equal(t, 0, NextCstBidPrice(s, 1000, math.MaxInt64).Sign())
	// before the auction begins the price only grows
	assert.Equal(t, 1, NextCstBidPrice(s, 0, math.MinInt64).Cmp(ether(200)))
}

func TestPriceInvariants(t *testing.T) {
	f := fuzz.New().NilChance(0)
	for range 500 {
		var (
			beginning uint64
			elapsed   uint32
			paid      uint64
		)
		f.Fuzz(&beginning)
		f.Fuzz(&elapsed)
		f.Fuzz(&paid)

		s := newState()
		s.EthDutchAuctionBeginningBidPrice = new(big.Int).SetUint64(beginning)
		price := NextEthBidPrice(s, s.RoundActivationTime+uint64(elapsed), 0)
		assert.Positive(t, price.Sign(), "ETH price is at least 1 wei")
		if beginning > 0 {
			assert.LessOrEqual(t, price.Cmp(s.EthDutchAuctionBeginningBidPrice), 0)
			later := NextEthBidPrice(s, s.RoundActivationTime+uint64(elapsed)+1, 0)
			assert.LessOrEqual(t, later.Cmp(price), 0, "Dutch auction never rises")
		}
		assert.Positive(t, EthPlusRandomWalkNftBidPrice(price).Sign())

		AfterEthBid(s, price, 0)
		assert.Positive(t, s.NextEthBidPrice.Cmp(price), "next price exceeds the paid one")

		AfterCstBid(s, new(big.Int).SetUint64(paid), 0)
		assert.GreaterOrEqual(t, s.CstDutchAuctionBeginningBidPrice.Cmp(s.CstDutchAuctionBeginningBidPriceMinLimit), 0)
		cst := NextCstBidPrice(s, uint64(elapsed), 0)
		assert.LessOrEqual(t, cst.Cmp(s.CstDutchAuctionBeginningBidPrice), 0)
		assert.GreaterOrEqual(t, cst.Sign(), 0)
	}
}
