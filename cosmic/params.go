// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cosmic

import (
	"math/big"
)

// Units.
var (
	Wei   = big.NewInt(1)
	Ether = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
)

// Constants of the chain.
const (
	BlockInterval uint64 = 10 // default time interval between two consecutive blocks in solo mode.

	MicroSecondsPerSecond uint64 = 1_000_000
)

// Default bidding game parameters.
const (
	DefaultDelayDurationBeforeRoundActivation uint64 = 60 * 60 / 2
	DefaultMainPrizeTimeIncrementInMicroSecs  uint64 = 60 * 60 * MicroSecondsPerSecond
	DefaultMainPrizeTimeIncrementIncreaseDiv  uint64 = 100
	DefaultTimeoutDurationToClaimMainPrize    uint64 = 24 * 60 * 60
	DefaultTimeoutDurationToWithdrawPrizes    uint64 = 5 * 7 * 24 * 60 * 60
	DefaultBidMessageLengthMaxLimit           uint64 = 280

	// (increment + duration / 2) / duration, i.e. the divisors yielding the desired durations for the default increment.
	DefaultInitialDurationUntilMainPrizeDivisor uint64 = (DefaultMainPrizeTimeIncrementInMicroSecs + (24*60*60)/2) / (24 * 60 * 60)
	DefaultEthDutchAuctionDurationDivisor       uint64 = (DefaultMainPrizeTimeIncrementInMicroSecs + (2*24*60*60)/2) / (2 * 24 * 60 * 60)
	DefaultCstDutchAuctionDurationDivisor       uint64 = (DefaultMainPrizeTimeIncrementInMicroSecs + (24*60*60/2)/2) / (24 * 60 * 60 / 2)

	EthDutchAuctionBeginningBidPriceMultiplier uint64 = 2
	DefaultEthDutchAuctionEndingBidPriceDiv    uint64 = 10 * EthDutchAuctionBeginningBidPriceMultiplier
	DefaultEthBidPriceIncreaseDivisor          uint64 = 100
	RandomWalkNftBidPriceDivisor               uint64 = 2
	CstDutchAuctionBeginningBidPriceMultiplier uint64 = 2

	DefaultMainEthPrizeAmountPercentage                  uint64 = 25
	DefaultChronoWarriorEthPrizeAmountPercentage         uint64 = 8
	DefaultRaffleTotalEthPrizeAmountForBiddersPercentage uint64 = 4
	DefaultCosmicSignatureNftStakingTotalEthRewardPct    uint64 = 6
	DefaultCharityEthDonationAmountPercentage            uint64 = 7

	DefaultNumRaffleEthPrizesForBidders                    uint64 = 3
	DefaultNumRaffleCosmicSignatureNftsForBidders          uint64 = 5
	DefaultNumRaffleCosmicSignatureNftsForRandomWalkStaker uint64 = 4
)

// NftNameLengthMaxLimit bounds the byte length of a user given NFT name.
const NftNameLengthMaxLimit = 32

// Default governance parameters.
const (
	DefaultDaoVotingDelay  uint64 = 24 * 60 * 60
	DefaultDaoVotingPeriod uint64 = 2 * 7 * 24 * 60 * 60
	DefaultDaoQuorumPct    uint64 = 2
	DaoQuorumDenominator   uint64 = 100
)

// Default token amounts.
var (
	FirstRoundInitialEthBidPrice                  = new(big.Int).Exp(big.NewInt(10), big.NewInt(14), nil)
	DefaultCstDutchAuctionBeginningBidPriceMin    = new(big.Int).Mul(big.NewInt(200), Ether)
	DefaultCstRewardAmountForBidding              = new(big.Int).Mul(big.NewInt(100), Ether)
	DefaultCstPrizeAmountMultiplier               = new(big.Int).Mul(big.NewInt(10), Ether)
	DefaultMarketingWalletCstContributionAmount   = new(big.Int).Mul(big.NewInt(300), Ether)
	DefaultEthBidRefundAmountToSwallowMaxLimit    = new(big.Int)
	DefaultNextRoundFirstCstDutchAuctionBeginning = new(big.Int).Mul(big.NewInt(200), Ether)

	// a single bid reward is enough to propose
	DefaultDaoProposalThreshold = new(big.Int).Set(DefaultCstRewardAmountForBidding)
)
