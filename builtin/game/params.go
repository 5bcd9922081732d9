// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package game

import (
	"math/big"
	"sort"

	"github.com/pkg/errors"

	"github.com/cosmicsignature/engine/abi"
	"github.com/cosmicsignature/engine/builtin/pricing"
	"github.com/cosmicsignature/engine/builtin/reverts"
	"github.com/cosmicsignature/engine/builtin/solidity"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/xenv"
)

// Param is the name of an owner configurable game parameter.
type Param string

// Game parameters.
const (
	DelayDurationBeforeRoundActivation                  Param = "DelayDurationBeforeRoundActivation"
	EthDutchAuctionDurationDivisor                      Param = "EthDutchAuctionDurationDivisor"
	EthDutchAuctionEndingBidPriceDivisor                Param = "EthDutchAuctionEndingBidPriceDivisor"
	EthBidPriceIncreaseDivisor                          Param = "EthBidPriceIncreaseDivisor"
	EthBidRefundAmountToSwallowMaxLimit                 Param = "EthBidRefundAmountToSwallowMaxLimit"
	CstDutchAuctionDurationDivisor                      Param = "CstDutchAuctionDurationDivisor"
	CstDutchAuctionBeginningBidPriceMinLimit            Param = "CstDutchAuctionBeginningBidPriceMinLimit"
	CstRewardAmountForBidding                           Param = "CstRewardAmountForBidding"
	CstPrizeAmountMultiplier                            Param = "CstPrizeAmountMultiplier"
	BidMessageLengthMaxLimit                            Param = "BidMessageLengthMaxLimit"
	MainPrizeTimeIncrementInMicroSeconds                Param = "MainPrizeTimeIncrementInMicroSeconds"
	MainPrizeTimeIncrementIncreaseDivisor               Param = "MainPrizeTimeIncrementIncreaseDivisor"
	InitialDurationUntilMainPrizeDivisor                Param = "InitialDurationUntilMainPrizeDivisor"
	TimeoutDurationToClaimMainPrize                     Param = "TimeoutDurationToClaimMainPrize"
	MainEthPrizeAmountPercentage                        Param = "MainEthPrizeAmountPercentage"
	ChronoWarriorEthPrizeAmountPercentage               Param = "ChronoWarriorEthPrizeAmountPercentage"
	RaffleTotalEthPrizeAmountForBiddersPercentage       Param = "RaffleTotalEthPrizeAmountForBiddersPercentage"
	NumRaffleEthPrizesForBidders                        Param = "NumRaffleEthPrizesForBidders"
	NumRaffleCosmicSignatureNftsForBidders              Param = "NumRaffleCosmicSignatureNftsForBidders"
	NumRaffleCosmicSignatureNftsForRandomWalkNftStakers Param = "NumRaffleCosmicSignatureNftsForRandomWalkNftStakers"
	CosmicSignatureNftStakingTotalEthRewardPercentage   Param = "CosmicSignatureNftStakingTotalEthRewardAmountPercentage"
	CharityEthDonationAmountPercentage                  Param = "CharityEthDonationAmountPercentage"
	MarketingWalletCstContributionAmount                Param = "MarketingWalletCstContributionAmount"
)

type paramInfo struct {
	def *big.Int
	// zero is rejected
	nonZero bool
	// may change while a round is active
	anyTime bool
	changed *abi.Event
}

var params = map[Param]*paramInfo{}

func defineParam(p Param, def *big.Int, nonZero, anyTime bool) {
	params[p] = &paramInfo{
		def:     def,
		nonZero: nonZero,
		anyTime: anyTime,
		changed: ABI.MustEventByName(string(p) + "Changed"),
	}
}

func u64(v uint64) *big.Int { return new(big.Int).SetUint64(v) }

func init() {
	defineParam(DelayDurationBeforeRoundActivation, u64(cosmic.DefaultDelayDurationBeforeRoundActivation), false, true)
	defineParam(EthDutchAuctionDurationDivisor, u64(cosmic.DefaultEthDutchAuctionDurationDivisor), true, false)
	defineParam(EthDutchAuctionEndingBidPriceDivisor, u64(cosmic.DefaultEthDutchAuctionEndingBidPriceDiv), true, false)
	defineParam(EthBidPriceIncreaseDivisor, u64(cosmic.DefaultEthBidPriceIncreaseDivisor), true, false)
	defineParam(EthBidRefundAmountToSwallowMaxLimit, cosmic.DefaultEthBidRefundAmountToSwallowMaxLimit, false, false)
	defineParam(CstDutchAuctionDurationDivisor, u64(cosmic.DefaultCstDutchAuctionDurationDivisor), true, false)
	defineParam(CstDutchAuctionBeginningBidPriceMinLimit, cosmic.DefaultCstDutchAuctionBeginningBidPriceMin, false, false)
	defineParam(CstRewardAmountForBidding, cosmic.DefaultCstRewardAmountForBidding, false, false)
	defineParam(CstPrizeAmountMultiplier, cosmic.DefaultCstPrizeAmountMultiplier, false, false)
	defineParam(BidMessageLengthMaxLimit, u64(cosmic.DefaultBidMessageLengthMaxLimit), false, false)
	defineParam(MainPrizeTimeIncrementInMicroSeconds, u64(cosmic.DefaultMainPrizeTimeIncrementInMicroSecs), true, false)
	defineParam(MainPrizeTimeIncrementIncreaseDivisor, u64(cosmic.DefaultMainPrizeTimeIncrementIncreaseDiv), true, false)
	defineParam(InitialDurationUntilMainPrizeDivisor, u64(cosmic.DefaultInitialDurationUntilMainPrizeDivisor), true, false)
	defineParam(TimeoutDurationToClaimMainPrize, u64(cosmic.DefaultTimeoutDurationToClaimMainPrize), false, false)
	defineParam(MainEthPrizeAmountPercentage, u64(cosmic.DefaultMainEthPrizeAmountPercentage), false, false)
	defineParam(ChronoWarriorEthPrizeAmountPercentage, u64(cosmic.DefaultChronoWarriorEthPrizeAmountPercentage), false, false)
	defineParam(RaffleTotalEthPrizeAmountForBiddersPercentage, u64(cosmic.DefaultRaffleTotalEthPrizeAmountForBiddersPercentage), false, false)
	defineParam(NumRaffleEthPrizesForBidders, u64(cosmic.DefaultNumRaffleEthPrizesForBidders), true, false)
	defineParam(NumRaffleCosmicSignatureNftsForBidders, u64(cosmic.DefaultNumRaffleCosmicSignatureNftsForBidders), true, false)
	defineParam(NumRaffleCosmicSignatureNftsForRandomWalkNftStakers, u64(cosmic.DefaultNumRaffleCosmicSignatureNftsForRandomWalkStaker), false, false)
	defineParam(CosmicSignatureNftStakingTotalEthRewardPercentage, u64(cosmic.DefaultCosmicSignatureNftStakingTotalEthRewardPct), false, false)
	defineParam(CharityEthDonationAmountPercentage, u64(cosmic.DefaultCharityEthDonationAmountPercentage), false, false)
	defineParam(MarketingWalletCstContributionAmount, cosmic.DefaultMarketingWalletCstContributionAmount, false, false)
}

// Params lists every parameter name, sorted.
func Params() []Param {
	list := make([]Param, 0, len(params))
	for p := range params {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
	return list
}

// DefaultParam returns the launch value of p.
func DefaultParam(p Param) (*big.Int, error) {
	info, ok := params[p]
	if !ok {
		return nil, errors.Errorf("unknown game parameter %q", p)
	}
	return new(big.Int).Set(info.def), nil
}

func paramSlot(p Param) cosmic.Bytes32 {
	return solidity.Slot("game.param." + string(p))
}

// Param returns the current value of p.
func (g *Game) Param(p Param) (*big.Int, error) {
	if _, ok := params[p]; !ok {
		return nil, errors.Errorf("unknown game parameter %q", p)
	}
	return solidity.NewUint256(g.ctx, paramSlot(p)).Get()
}

func (g *Game) paramUint64(p Param) (uint64, error) {
	v, err := g.Param(p)
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() {
		return 0, errors.Errorf("game parameter %q overflows uint64", p)
	}
	return v.Uint64(), nil
}

// InitParam stores v without checks or events. Genesis only.
func (g *Game) InitParam(p Param, v *big.Int) error {
	if _, ok := params[p]; !ok {
		return errors.Errorf("unknown game parameter %q", p)
	}
	if v.Sign() < 0 {
		return errors.Errorf("negative value for game parameter %q", p)
	}
	solidity.NewUint256(g.ctx, paramSlot(p)).Set(v)
	return nil
}

// SetParam changes a parameter. Owner only; most parameters may change only while the round is inactive.
func (g *Game) SetParam(env *xenv.Environment, p Param, v *big.Int) error {
	info, ok := params[p]
	if !ok {
		return errors.Errorf("unknown game parameter %q", p)
	}
	if err := g.ownable.OnlyOwner(env); err != nil {
		return err
	}
	if !info.anyTime {
		if err := g.onlyRoundIsInactive(env); err != nil {
			return err
		}
	}
	if v.Sign() < 0 || v.BitLen() > 256 {
		return errors.Errorf("game parameter %q out of range", p)
	}
	if info.nonZero && v.Sign() == 0 {
		return reverts.New(reverts.NonZeroValueRequired, "Zero is not allowed.", string(p))
	}
	solidity.NewUint256(g.ctx, paramSlot(p)).Set(v)
	env.Log(info.changed, v)
	logger.Debug("parameter changed", "name", p, "value", v)
	return nil
}

// SetRoundActivationTime moves the activation of the current round. Owner only, while inactive.
func (g *Game) SetRoundActivationTime(env *xenv.Environment, t uint64) error {
	if err := g.ownable.OnlyOwner(env); err != nil {
		return err
	}
	if err := g.onlyRoundIsInactive(env); err != nil {
		return err
	}
	g.setRoundActivationTime(env, t)
	return nil
}

func (g *Game) setRoundActivationTime(env *xenv.Environment, t uint64) {
	g.roundActivationTime.Set(t)
	env.Log(roundActivationTimeChangedEvent, t)
}

// SetCharityAddress changes the recipient of the charity share. Owner only.
func (g *Game) SetCharityAddress(env *xenv.Environment, addr cosmic.Address) error {
	if err := g.ownable.OnlyOwner(env); err != nil {
		return err
	}
	if addr.IsZero() {
		return reverts.New(reverts.ZeroAddress, "The provided address is zero.")
	}
	g.charity.Set(addr)
	env.Log(charityAddressChangedEvent, addr)
	return nil
}

// SetMarketingWallet changes the recipient of the CST marketing contribution. Owner only, while inactive.
func (g *Game) SetMarketingWallet(env *xenv.Environment, addr cosmic.Address) error {
	if err := g.ownable.OnlyOwner(env); err != nil {
		return err
	}
	if err := g.onlyRoundIsInactive(env); err != nil {
		return err
	}
	if addr.IsZero() {
		return reverts.New(reverts.ZeroAddress, "The provided address is zero.")
	}
	g.marketingWallet.Set(addr)
	env.Log(marketingWalletChangedEvent, addr)
	return nil
}

func (g *Game) onlyRoundIsInactive(env *xenv.Environment) error {
	activation, err := g.roundActivationTime.Get()
	if err != nil {
		return err
	}
	if env.Now() >= activation {
		return reverts.New(reverts.RoundIsActive, "The current bidding round is already active.", activation, env.Now())
	}
	return nil
}

// pricingParams loads the parameters consumed by the pricing package.
func (g *Game) pricingParams() (pp pricing.Params, err error) {
	load := func(p Param, dst *uint64) {
		if err == nil {
			*dst, err = g.paramUint64(p)
		}
	}
	load(EthDutchAuctionDurationDivisor, &pp.EthDutchAuctionDurationDivisor)
	load(EthDutchAuctionEndingBidPriceDivisor, &pp.EthDutchAuctionEndingBidPriceDivisor)
	load(EthBidPriceIncreaseDivisor, &pp.EthBidPriceIncreaseDivisor)
	load(CstDutchAuctionDurationDivisor, &pp.CstDutchAuctionDurationDivisor)
	load(MainPrizeTimeIncrementInMicroSeconds, &pp.MainPrizeTimeIncrementInMicroSeconds)
	load(InitialDurationUntilMainPrizeDivisor, &pp.InitialDurationUntilMainPrizeDivisor)
	if err != nil {
		return pp, err
	}
	pp.CstDutchAuctionBeginningBidPriceMinLimit, err = g.Param(CstDutchAuctionBeginningBidPriceMinLimit)
	return pp, err
}
