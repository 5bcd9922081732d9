// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package game

import (
	"math/big"

	"github.com/cosmicsignature/engine/builtin/pricing"
	"github.com/cosmicsignature/engine/builtin/reverts"
	"github.com/cosmicsignature/engine/builtin/solidity"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/xenv"
)

// NoRandomWalkNft is passed as the NFT id of a bid without RandomWalk discount.
const NoRandomWalkNft int64 = -1

var minusOne = big.NewInt(-1)

// Receive handles plain ETH sent to the game as a bid without message.
func (g *Game) Receive(env *xenv.Environment) error {
	return g.BidWithEth(env, NoRandomWalkNft, "")
}

// BidWithEth places an ETH bid. A non-negative rwNftID halves the price, spending that RandomWalk NFT.
// Overpayment beyond the swallow limit is refunded.
func (g *Game) BidWithEth(env *xenv.Environment, rwNftID int64, message string) error {
	return g.guard.NonReentrant(func() error {
		refund, err := g.bidWithEth(env, rwNftID, message)
		if err != nil {
			return err
		}
		return g.refund(env, refund)
	})
}

// BidWithEthAndDonateToken places an ETH bid and donates tokens to the round's main prize beneficiary.
// The bidder must have approved the prizes custodian.
func (g *Game) BidWithEthAndDonateToken(env *xenv.Environment, rwNftID int64, message string, tokenAddr cosmic.Address, amount *big.Int) error {
	return g.guard.NonReentrant(func() error {
		refund, err := g.bidWithEth(env, rwNftID, message)
		if err != nil {
			return err
		}
		if err := g.donateToken(env, tokenAddr, amount); err != nil {
			return err
		}
		return g.refund(env, refund)
	})
}

// BidWithEthAndDonateNft places an ETH bid and donates an NFT to the round's main prize beneficiary.
// The bidder must have approved the prizes custodian as operator.
func (g *Game) BidWithEthAndDonateNft(env *xenv.Environment, rwNftID int64, message string, nftAddr cosmic.Address, nftID uint64) error {
	return g.guard.NonReentrant(func() error {
		refund, err := g.bidWithEth(env, rwNftID, message)
		if err != nil {
			return err
		}
		if err := g.donateNft(env, nftAddr, nftID); err != nil {
			return err
		}
		return g.refund(env, refund)
	})
}

// BidWithCst places a CST bid, burning the current CST price. It fails if the price exceeds maxPrice.
func (g *Game) BidWithCst(env *xenv.Environment, maxPrice *big.Int, message string) error {
	return g.guard.NonReentrant(func() error {
		return g.bidWithCst(env, maxPrice, message)
	})
}

func (g *Game) BidWithCstAndDonateToken(env *xenv.Environment, maxPrice *big.Int, message string, tokenAddr cosmic.Address, amount *big.Int) error {
	return g.guard.NonReentrant(func() error {
		if err := g.bidWithCst(env, maxPrice, message); err != nil {
			return err
		}
		return g.donateToken(env, tokenAddr, amount)
	})
}

func (g *Game) BidWithCstAndDonateNft(env *xenv.Environment, maxPrice *big.Int, message string, nftAddr cosmic.Address, nftID uint64) error {
	return g.guard.NonReentrant(func() error {
		if err := g.bidWithCst(env, maxPrice, message); err != nil {
			return err
		}
		return g.donateNft(env, nftAddr, nftID)
	})
}

// DonateEth adds the received value to the prize pool.
func (g *Game) DonateEth(env *xenv.Environment) error {
	round, err := g.roundNum.Get()
	if err != nil {
		return err
	}
	env.Log(ethDonatedEvent, round, env.Caller(), env.Value())
	return nil
}

// DonateEthWithInfo adds the received value to the prize pool and records data alongside.
func (g *Game) DonateEthWithInfo(env *xenv.Environment, data string) error {
	round, err := g.roundNum.Get()
	if err != nil {
		return err
	}
	index, err := g.ethDonationsWithInfo.Push(&EthDonationWithInfoRecord{
		Round:  round,
		Donor:  env.Caller(),
		Amount: env.Value(),
		Data:   data,
	})
	if err != nil {
		return err
	}
	env.Log(ethDonatedWithInfoEvent, round, env.Caller(), env.Value(), index)
	return nil
}

func (g *Game) bidWithEth(env *xenv.Environment, rwNftID int64, message string) (*big.Int, error) {
	now, bidder := env.Now(), env.Caller()
	ps, err := g.pricingState()
	if err != nil {
		return nil, err
	}
	ethBidPrice := pricing.NextEthBidPrice(ps, now, 0)
	paid := ethBidPrice
	if rwNftID >= 0 {
		paid = g.randomWalkNftBidPrice(ethBidPrice)
	}
	overpaid := new(big.Int).Sub(env.Value(), paid)
	if overpaid.Sign() < 0 {
		return nil, reverts.New(reverts.InsufficientReceivedBidAmount, "The current ETH bid price is greater than the amount you transferred.", paid, env.Value())
	}
	if rwNftID >= 0 {
		if err := g.checkRandomWalkNft(bidder, uint64(rwNftID)); err != nil {
			return nil, err
		}
	}
	if err := g.checkMessage(message); err != nil {
		return nil, err
	}
	first := !ps.HasLastBidder
	if first && now < ps.RoundActivationTime {
		return nil, reverts.New(reverts.RoundIsInactive, "The current bidding round is not active yet.", ps.RoundActivationTime, now)
	}
	swallow, err := g.Param(EthBidRefundAmountToSwallowMaxLimit)
	if err != nil {
		return nil, err
	}
	if overpaid.Cmp(swallow) <= 0 {
		paid = env.Value()
		overpaid.SetUint64(0)
	}

	round, err := g.roundNum.Get()
	if err != nil {
		return nil, err
	}
	if rwNftID >= 0 {
		if err := g.usedRandomWalkNfts.Set(solidity.UintKey(rwNftID), true); err != nil {
			return nil, err
		}
	}
	info, err := g.bidderInfo(round, bidder)
	if err != nil {
		return nil, err
	}
	info.TotalSpentEth.Add(info.TotalSpentEth, paid)
	if err := g.updateStellarSpender(bidder, info.TotalSpentEth); err != nil {
		return nil, err
	}

	pricing.AfterEthBid(ps, ethBidPrice, now)
	g.storePricing(ps)
	if err := g.mintBidReward(env, bidder); err != nil {
		return nil, err
	}
	mainPrizeTime, err := g.recordBid(env, ps, round, bidder, info, first)
	if err != nil {
		return nil, err
	}
	env.Log(bidPlacedEvent, round, bidder, paid, minusOne, rwNftID, message, mainPrizeTime)
	logger.Debug("eth bid placed", "round", round, "bidder", bidder, "paid", paid, "rwNft", rwNftID)
	return overpaid, nil
}

func (g *Game) bidWithCst(env *xenv.Environment, maxPrice *big.Int, message string) error {
	if maxPrice == nil || maxPrice.Sign() < 0 {
		return reverts.New(reverts.InvalidArgument, "The maximum CST bid price must be a non-negative number.", maxPrice)
	}
	now, bidder := env.Now(), env.Caller()
	ps, err := g.pricingState()
	if err != nil {
		return err
	}
	price := pricing.NextCstBidPrice(ps, now, 0)
	if price.Cmp(maxPrice) > 0 {
		return reverts.New(reverts.InsufficientReceivedBidAmount, "The current CST bid price is greater than the maximum you allowed.", price, maxPrice)
	}
	balance, err := g.deps.Token.BalanceOf(bidder)
	if err != nil {
		return err
	}
	if balance.Cmp(price) < 0 {
		return reverts.New(reverts.InsufficientBalance, "Insufficient CST balance.", bidder, balance, price)
	}
	if err := g.checkMessage(message); err != nil {
		return err
	}
	if !ps.HasLastBidder {
		if now < ps.RoundActivationTime {
			return reverts.New(reverts.RoundIsInactive, "The current bidding round is not active yet.", ps.RoundActivationTime, now)
		}
		return reverts.New(reverts.WrongBidType, "The first bid in a bidding round shall be ETH.")
	}

	round, err := g.roundNum.Get()
	if err != nil {
		return err
	}
	reward, err := g.Param(CstRewardAmountForBidding)
	if err != nil {
		return err
	}
	if err := env.Call(g.deps.Token.Address(), nil, func(env *xenv.Environment) error {
		if err := g.deps.Token.Burn(env, bidder, price); err != nil {
			return err
		}
		return g.deps.Token.Mint(env, bidder, reward)
	}); err != nil {
		return err
	}
	info, err := g.bidderInfo(round, bidder)
	if err != nil {
		return err
	}
	info.TotalSpentCst.Add(info.TotalSpentCst, price)

	pricing.AfterCstBid(ps, price, now)
	g.storePricing(ps)
	g.lastCstBidder.Set(bidder)
	mainPrizeTime, err := g.recordBid(env, ps, round, bidder, info, false)
	if err != nil {
		return err
	}
	env.Log(bidPlacedEvent, round, bidder, minusOne, price, NoRandomWalkNft, message, mainPrizeTime)
	logger.Debug("cst bid placed", "round", round, "bidder", bidder, "paid", price)
	return nil
}

// recordBid advances the countdown and makes bidder the last bidder.
func (g *Game) recordBid(env *xenv.Environment, ps *pricing.State, round uint64, bidder cosmic.Address, info *BidderInfo, first bool) (uint64, error) {
	now := env.Now()
	var mainPrizeTime uint64
	if first {
		mainPrizeTime = now + pricing.InitialDurationUntilMainPrize(ps)
		env.Log(firstBidPlacedInRoundEvent, round, now)
		logger.Info("round started", "round", round, "mainPrizeTime", mainPrizeTime)
	} else {
		if err := g.updateChampions(round, now); err != nil {
			return 0, err
		}
		current, err := g.mainPrizeTime.Get()
		if err != nil {
			return 0, err
		}
		mainPrizeTime = max(current, now) + pricing.MainPrizeTimeIncrement(ps)
	}
	g.mainPrizeTime.Set(mainPrizeTime)
	g.lastBidder.Set(bidder)
	if _, err := g.bidderAddresses(round).Push(bidder); err != nil {
		return 0, err
	}
	info.LastBidTimeStamp = now
	if err := g.bidders.Set(bidderKey(round, bidder), info); err != nil {
		return 0, err
	}
	return mainPrizeTime, nil
}

// updateChampions closes the stretch of the current last bidder at now.
func (g *Game) updateChampions(round, now uint64) error {
	lastBidder, err := g.lastBidder.Get()
	if err != nil {
		return err
	}
	if lastBidder.IsZero() {
		return nil
	}
	info, err := g.bidderInfo(round, lastBidder)
	if err != nil {
		return err
	}
	c, err := g.champions.Get()
	if err != nil {
		return err
	}
	c.update(lastBidder, info.LastBidTimeStamp, now)
	return g.champions.Set(c)
}

func (g *Game) updateStellarSpender(bidder cosmic.Address, totalSpent *big.Int) error {
	s, err := g.stellarSpender.Get()
	if err != nil {
		return err
	}
	if s.TotalSpentEth != nil && totalSpent.Cmp(s.TotalSpentEth) <= 0 {
		return nil
	}
	return g.stellarSpender.Set(&StellarSpender{Address: bidder, TotalSpentEth: new(big.Int).Set(totalSpent)})
}

func (g *Game) checkRandomWalkNft(bidder cosmic.Address, id uint64) error {
	used, err := g.usedRandomWalkNfts.Get(solidity.UintKey(id))
	if err != nil {
		return err
	}
	if used {
		return reverts.New(reverts.UsedRandomWalkNft, "This Random Walk NFT has already been used for bidding.", id)
	}
	owner, err := g.deps.RandomWalkNft.OwnerOf(id)
	if err != nil && !reverts.Is(err, reverts.NftNotFound) {
		return err
	}
	if owner != bidder {
		return reverts.New(reverts.CallerIsNotNftOwner, "You are not the owner of this Random Walk NFT.", g.deps.RandomWalkNft.Address(), id, bidder)
	}
	return nil
}

func (g *Game) checkMessage(message string) error {
	limit, err := g.paramUint64(BidMessageLengthMaxLimit)
	if err != nil {
		return err
	}
	if g.rules.BidMessageLimit > 0 {
		limit = min(limit, g.rules.BidMessageLimit)
	}
	if uint64(len(message)) > limit {
		return reverts.New(reverts.TooLongBidMessage, "Message is too long.", len(message))
	}
	return nil
}

func (g *Game) mintBidReward(env *xenv.Environment, bidder cosmic.Address) error {
	reward, err := g.Param(CstRewardAmountForBidding)
	if err != nil {
		return err
	}
	return env.Call(g.deps.Token.Address(), nil, func(env *xenv.Environment) error {
		return g.deps.Token.Mint(env, bidder, reward)
	})
}

func (g *Game) refund(env *xenv.Environment, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	return env.Transfer(env.Caller(), amount)
}

func (g *Game) donateToken(env *xenv.Environment, tokenAddr cosmic.Address, amount *big.Int) error {
	round, err := g.roundNum.Get()
	if err != nil {
		return err
	}
	donor := env.Caller()
	return env.Call(g.deps.Prizes.Address(), nil, func(env *xenv.Environment) error {
		return g.deps.Prizes.DonateToken(env, round, donor, tokenAddr, amount)
	})
}

func (g *Game) donateNft(env *xenv.Environment, nftAddr cosmic.Address, nftID uint64) error {
	round, err := g.roundNum.Get()
	if err != nil {
		return err
	}
	donor := env.Caller()
	return env.Call(g.deps.Prizes.Address(), nil, func(env *xenv.Environment) error {
		_, err := g.deps.Prizes.DonateNft(env, round, donor, nftAddr, nftID)
		return err
	})
}

// pricingState loads the pricing snapshot of the current round.
func (g *Game) pricingState() (*pricing.State, error) {
	pp, err := g.pricingParams()
	if err != nil {
		return nil, err
	}
	s := &pricing.State{Params: pp}
	if s.RoundActivationTime, err = g.roundActivationTime.Get(); err != nil {
		return nil, err
	}
	lastBidder, err := g.lastBidder.Get()
	if err != nil {
		return nil, err
	}
	lastCstBidder, err := g.lastCstBidder.Get()
	if err != nil {
		return nil, err
	}
	s.HasLastBidder = !lastBidder.IsZero()
	s.HasLastCstBidder = !lastCstBidder.IsZero()
	if s.EthDutchAuctionBeginningBidPrice, err = g.ethDutchBeginningPrice.Get(); err != nil {
		return nil, err
	}
	if s.NextEthBidPrice, err = g.nextEthBidPrice.Get(); err != nil {
		return nil, err
	}
	if s.CstDutchAuctionBeginningTimeStamp, err = g.cstDutchBeginningTime.Get(); err != nil {
		return nil, err
	}
	if s.CstDutchAuctionBeginningBidPrice, err = g.cstDutchBeginningPrice.Get(); err != nil {
		return nil, err
	}
	if s.NextRoundFirstCstDutchAuctionBeginningBidPrice, err = g.nextRoundFirstCstPrice.Get(); err != nil {
		return nil, err
	}
	return s, nil
}

func (g *Game) storePricing(s *pricing.State) {
	g.ethDutchBeginningPrice.Set(s.EthDutchAuctionBeginningBidPrice)
	g.nextEthBidPrice.Set(s.NextEthBidPrice)
	g.cstDutchBeginningTime.Set(s.CstDutchAuctionBeginningTimeStamp)
	if s.CstDutchAuctionBeginningBidPrice != nil {
		g.cstDutchBeginningPrice.Set(s.CstDutchAuctionBeginningBidPrice)
	}
	if s.NextRoundFirstCstDutchAuctionBeginningBidPrice != nil {
		g.nextRoundFirstCstPrice.Set(s.NextRoundFirstCstDutchAuctionBeginningBidPrice)
	}
}
