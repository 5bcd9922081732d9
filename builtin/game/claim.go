// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package game

import (
	"math/big"

	"github.com/cosmicsignature/engine/builtin/prizes"
	"github.com/cosmicsignature/engine/builtin/randomness"
	"github.com/cosmicsignature/engine/builtin/reverts"
	"github.com/cosmicsignature/engine/builtin/token"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/xenv"
)

// ClaimMainPrize ends the round, distributes every prize and prepares the next round.
//
// The last bidder may claim once the main prize time is reached. Anyone else
// may claim after the claim timeout has also expired, becoming the main prize
// beneficiary instead.
func (g *Game) ClaimMainPrize(env *xenv.Environment) error {
	return g.guard.NonReentrant(func() error {
		return g.claimMainPrize(env)
	})
}

func (g *Game) claimMainPrize(env *xenv.Environment) error {
	now, claimer := env.Now(), env.Caller()
	lastBidder, err := g.lastBidder.Get()
	if err != nil {
		return err
	}
	mainPrizeTime, err := g.mainPrizeTime.Get()
	if err != nil {
		return err
	}
	if claimer == lastBidder {
		if now < mainPrizeTime {
			return reverts.New(reverts.MainPrizeEarlyClaim, "Not enough time has elapsed.", mainPrizeTime, now)
		}
	} else {
		if lastBidder.IsZero() {
			return reverts.New(reverts.NoBidsPlacedInCurrentRound, "There have been no bids in the current bidding round yet.")
		}
		timeout, err := g.paramUint64(TimeoutDurationToClaimMainPrize)
		if err != nil {
			return err
		}
		if now < mainPrizeTime+timeout {
			return reverts.New(reverts.MainPrizeClaimDenied,
				"Only the last bidder is permitted to claim the bidding round main prize before a timeout expires.",
				lastBidder, claimer, mainPrizeTime+timeout-now)
		}
	}

	round, err := g.roundNum.Get()
	if err != nil {
		return err
	}
	if err := g.updateChampions(round, now); err != nil {
		return err
	}
	champions, err := g.champions.Get()
	if err != nil {
		return err
	}
	champions.updateChronoWarrior(now)
	if err := g.champions.Set(champions); err != nil {
		return err
	}

	mainPrize, err := g.distributePrizes(env, round, claimer, champions)
	if err != nil {
		return err
	}
	if err := g.prepareNextRound(env); err != nil {
		return err
	}
	if err := env.Transfer(claimer, mainPrize); err != nil {
		return err
	}
	logger.Info("main prize claimed", "round", round, "beneficiary", claimer, "amount", mainPrize)
	return nil
}

// shares are the ETH amounts of a distribution, computed from the balance at claim time.
type shares struct {
	main          *big.Int
	chronoWarrior *big.Int
	raffle        *big.Int
	staking       *big.Int
	charity       *big.Int
}

func (g *Game) computeShares(balance *big.Int) (*shares, error) {
	var err error
	pct := func(p Param) *big.Int {
		if err != nil {
			return nil
		}
		var v *big.Int
		if v, err = g.Param(p); err != nil {
			return nil
		}
		v.Mul(v, balance)
		return v.Div(v, big.NewInt(100))
	}
	s := &shares{
		main:          pct(MainEthPrizeAmountPercentage),
		chronoWarrior: pct(ChronoWarriorEthPrizeAmountPercentage),
		raffle:        pct(RaffleTotalEthPrizeAmountForBiddersPercentage),
		staking:       pct(CosmicSignatureNftStakingTotalEthRewardPercentage),
		charity:       pct(CharityEthDonationAmountPercentage),
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// distributePrizes mints and allocates every prize of round except the main ETH prize, whose amount is returned.
func (g *Game) distributePrizes(env *xenv.Environment, round uint64, claimer cosmic.Address, champions *Champions) (*big.Int, error) {
	balance, err := env.Balance(g.addr)
	if err != nil {
		return nil, err
	}
	sh, err := g.computeShares(balance)
	if err != nil {
		return nil, err
	}
	bidders := g.bidderAddresses(round)
	numBids, err := bidders.Len()
	if err != nil {
		return nil, err
	}
	numRwNfts, err := g.paramUint64(NumRaffleCosmicSignatureNftsForRandomWalkNftStakers)
	if err != nil {
		return nil, err
	}
	numBidderNfts, err := g.paramUint64(NumRaffleCosmicSignatureNftsForBidders)
	if err != nil {
		return nil, err
	}
	numEthPrizes, err := g.paramUint64(NumRaffleEthPrizesForBidders)
	if err != nil {
		return nil, err
	}
	lastCstBidder, err := g.lastCstBidder.Get()
	if err != nil {
		return nil, err
	}
	marketingWallet, err := g.marketingWallet.Get()
	if err != nil {
		return nil, err
	}
	charity, err := g.charity.Get()
	if err != nil {
		return nil, err
	}

	seed := randomness.GenerateSeed(env.BlockContext())
	draws := randomness.NewSeedWrapper(seed)
	drawBidder := func() (cosmic.Address, error) {
		return bidders.Get(draws.Draw(numBids))
	}

	// CS NFT owners: RandomWalk stakers, last CST bidder, claimer, endurance champion, then raffle winners.
	stakers, err := g.deps.StakingRandomWalkNft.PickRandomStakerAddressesIfPossible(numRwNfts, randomness.Xor(seed, randomness.SaltRandomWalkStakers))
	if err != nil {
		return nil, err
	}
	owners := append([]cosmic.Address{}, stakers...)
	lastCstBidderIndex := uint64(len(owners))
	if !lastCstBidder.IsZero() {
		owners = append(owners, lastCstBidder)
	}
	claimerIndex := uint64(len(owners))
	owners = append(owners, claimer)
	championIndex := uint64(len(owners))
	owners = append(owners, champions.EnduranceChampion)
	firstWinnerIndex := uint64(len(owners))
	owners = append(owners, make([]cosmic.Address, numBidderNfts)...)
	for i := uint64(len(owners)); i > firstWinnerIndex; i-- {
		if owners[i-1], err = drawBidder(); err != nil {
			return nil, err
		}
	}

	var firstNftID uint64
	if err := env.Call(g.deps.Nft.Address(), nil, func(env *xenv.Environment) (err error) {
		firstNftID, err = g.deps.Nft.MintMany(env, round, owners, randomness.Xor(seed, randomness.SaltNftMinting))
		return
	}); err != nil {
		return nil, err
	}
	for i := uint64(len(owners)); i > firstWinnerIndex; i-- {
		env.Log(raffleNftAwardedEvent, round, false, i-1-firstWinnerIndex, owners[i-1], firstNftID+i-1)
	}

	cstPrize, err := g.Param(CstPrizeAmountMultiplier)
	if err != nil {
		return nil, err
	}
	cstPrize.Mul(cstPrize, new(big.Int).SetUint64(numBids))
	env.Log(enduranceChampionPrizePaidEvent, round, champions.EnduranceChampion, cstPrize, firstNftID+championIndex)
	if !lastCstBidder.IsZero() {
		env.Log(lastCstBidderPrizePaidEvent, round, lastCstBidder, cstPrize, firstNftID+lastCstBidderIndex)
	}
	for i := len(stakers); i > 0; i-- {
		env.Log(raffleNftAwardedEvent, round, true, i-1, stakers[i-1], firstNftID+uint64(i-1))
	}

	contribution, err := g.Param(MarketingWalletCstContributionAmount)
	if err != nil {
		return nil, err
	}
	mints := []token.MintSpec{
		{Account: marketingWallet, Amount: contribution},
		{Account: champions.EnduranceChampion, Amount: cstPrize},
	}
	if !lastCstBidder.IsZero() {
		mints = append(mints, token.MintSpec{Account: lastCstBidder, Amount: cstPrize})
	}
	if err := env.Call(g.deps.Token.Address(), nil, func(env *xenv.Environment) error {
		return g.deps.Token.MintMany(env, mints)
	}); err != nil {
		return nil, err
	}

	// Secondary ETH prizes: raffle winners first, the chrono warrior last.
	deposits := make([]prizes.Deposit, numEthPrizes+1)
	deposits[numEthPrizes] = prizes.Deposit{Winner: champions.ChronoWarrior, Amount: sh.chronoWarrior}
	env.Log(chronoWarriorPrizeAllocatedEvent, round, champions.ChronoWarrior, sh.chronoWarrior)
	perWinner := new(big.Int).Div(sh.raffle, new(big.Int).SetUint64(numEthPrizes))
	total := new(big.Int).Set(sh.chronoWarrior)
	for i := numEthPrizes; i > 0; i-- {
		winner, err := drawBidder()
		if err != nil {
			return nil, err
		}
		deposits[i-1] = prizes.Deposit{Winner: winner, Amount: perWinner}
		total.Add(total, perWinner)
		env.Log(raffleEthPrizeAllocatedEvent, round, i-1, winner, perWinner)
	}
	var timeout uint64
	if err := env.Call(g.deps.Prizes.Address(), total, func(env *xenv.Environment) (err error) {
		timeout, err = g.deps.Prizes.RegisterRoundEndAndDepositEthMany(env, round, claimer, deposits)
		return
	}); err != nil {
		return nil, err
	}
	env.Log(mainPrizeClaimedEvent, round, claimer, sh.main, firstNftID+claimerIndex, timeout)

	if err := env.Call(g.deps.StakingCosmicSignatureNft.Address(), sh.staking, func(env *xenv.Environment) error {
		return g.deps.StakingCosmicSignatureNft.Deposit(env, round)
	}); err != nil {
		return nil, err
	}

	if err := env.Transfer(charity, sh.charity); err != nil {
		if !reverts.Is(err, reverts.FundTransferFailed) {
			return nil, err
		}
		logger.Warn("transfer to charity failed", "round", round, "charity", charity, "amount", sh.charity, "err", err)
		env.Log(fundTransferFailedEvent, "Transfer to charity failed.", charity, sh.charity)
	} else {
		env.Log(fundsTransferredToCharityEvent, charity, sh.charity)
	}
	return sh.main, nil
}

// prepareNextRound resets the per round state and schedules the activation of the next round.
func (g *Game) prepareNextRound(env *xenv.Environment) error {
	g.lastBidder.Set(cosmic.Address{})
	g.lastCstBidder.Set(cosmic.Address{})
	if err := g.champions.Set(&Champions{}); err != nil {
		return err
	}
	if err := g.stellarSpender.Set(&StellarSpender{}); err != nil {
		return err
	}
	if _, err := g.roundNum.Increment(); err != nil {
		return err
	}

	increment, err := g.Param(MainPrizeTimeIncrementInMicroSeconds)
	if err != nil {
		return err
	}
	divisor, err := g.Param(MainPrizeTimeIncrementIncreaseDivisor)
	if err != nil {
		return err
	}
	increment.Add(increment, new(big.Int).Div(increment, divisor))
	if err := g.InitParam(MainPrizeTimeIncrementInMicroSeconds, increment); err != nil {
		return err
	}

	delay, err := g.paramUint64(DelayDurationBeforeRoundActivation)
	if err != nil {
		return err
	}
	g.setRoundActivationTime(env, env.Now()+delay)
	return nil
}

