// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package game implements the bidding round engine.
//
// A round starts at its activation time. The first bid must be paid in ETH and
// starts the main prize countdown, every later bid (ETH or CST) extends it.
// Once the countdown expires the last bidder may claim the main prize, which
// distributes every prize of the round and starts the next one.
package game

import (
	"math/big"

	"github.com/cosmicsignature/engine/abi"
	"github.com/cosmicsignature/engine/builtin/access"
	"github.com/cosmicsignature/engine/builtin/gen"
	"github.com/cosmicsignature/engine/builtin/nft"
	"github.com/cosmicsignature/engine/builtin/prizes"
	"github.com/cosmicsignature/engine/builtin/solidity"
	"github.com/cosmicsignature/engine/builtin/staking"
	"github.com/cosmicsignature/engine/builtin/token"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/log"
	"github.com/cosmicsignature/engine/state"
)

var logger = log.WithContext("pkg", "game")

var (
	ABI = abi.MustNew(gen.MustAsset("compiled/CosmicSignatureGame.abi"))

	bidPlacedEvent                   = ABI.MustEventByName("BidPlaced")
	firstBidPlacedInRoundEvent       = ABI.MustEventByName("FirstBidPlacedInRound")
	ethDonatedEvent                  = ABI.MustEventByName("EthDonated")
	ethDonatedWithInfoEvent          = ABI.MustEventByName("EthDonatedWithInfo")
	mainPrizeClaimedEvent            = ABI.MustEventByName("MainPrizeClaimed")
	raffleNftAwardedEvent            = ABI.MustEventByName("RaffleWinnerCosmicSignatureNftAwarded")
	enduranceChampionPrizePaidEvent  = ABI.MustEventByName("EnduranceChampionPrizePaid")
	lastCstBidderPrizePaidEvent      = ABI.MustEventByName("LastCstBidderPrizePaid")
	chronoWarriorPrizeAllocatedEvent = ABI.MustEventByName("ChronoWarriorEthPrizeAllocated")
	raffleEthPrizeAllocatedEvent     = ABI.MustEventByName("RaffleWinnerBidderEthPrizeAllocated")
	charityAddressChangedEvent       = ABI.MustEventByName("CharityAddressChanged")
	marketingWalletChangedEvent      = ABI.MustEventByName("MarketingWalletAddressChanged")
	fundTransferFailedEvent          = ABI.MustEventByName("FundTransferFailed")
	fundsTransferredToCharityEvent   = ABI.MustEventByName("FundsTransferredToCharity")
	ownershipTransferredEvent        = ABI.MustEventByName("OwnershipTransferred")
	roundActivationTimeChangedEvent  = ABI.MustEventByName("RoundActivationTimeChanged")
)

var (
	roundNumSlot               = solidity.Slot("game.roundNum")
	roundActivationTimeSlot    = solidity.Slot("game.roundActivationTime")
	mainPrizeTimeSlot          = solidity.Slot("game.mainPrizeTime")
	lastBidderSlot             = solidity.Slot("game.lastBidderAddress")
	lastCstBidderSlot          = solidity.Slot("game.lastCstBidderAddress")
	championsSlot              = solidity.Slot("game.champions")
	stellarSpenderSlot         = solidity.Slot("game.stellarSpender")
	biddersSlot                = solidity.Slot("game.bidders")
	bidderAddressesSlot        = solidity.Slot("game.bidderAddresses")
	usedRandomWalkNftsSlot     = solidity.Slot("game.usedRandomWalkNfts")
	ethDonationsWithInfoSlot   = solidity.Slot("game.ethDonationWithInfoRecords")
	charitySlot                = solidity.Slot("game.charityAddress")
	marketingWalletSlot        = solidity.Slot("game.marketingWallet")
	ethDutchBeginningPriceSlot = solidity.Slot("game.ethDutchAuctionBeginningBidPrice")
	nextEthBidPriceSlot        = solidity.Slot("game.nextEthBidPrice")
	cstDutchBeginningTimeSlot  = solidity.Slot("game.cstDutchAuctionBeginningTimeStamp")
	cstDutchBeginningPriceSlot = solidity.Slot("game.cstDutchAuctionBeginningBidPrice")
	nextRoundFirstCstPriceSlot = solidity.Slot("game.nextRoundFirstCstDutchAuctionBeginningBidPrice")
)

// BidderInfo is the per round record of a bidder.
type BidderInfo struct {
	TotalSpentEth    *big.Int
	TotalSpentCst    *big.Int
	LastBidTimeStamp uint64
}

// StellarSpender is the bidder with the largest cumulative ETH spend of the round.
type StellarSpender struct {
	Address       cosmic.Address
	TotalSpentEth *big.Int
}

// EthDonationWithInfoRecord is an ETH donation carrying arbitrary data.
type EthDonationWithInfoRecord struct {
	Round  uint64
	Donor  cosmic.Address
	Amount *big.Int
	Data   string
}

// Deps are the services the game drives.
type Deps struct {
	Token                     *token.Token
	Nft                       *nft.NFT
	RandomWalkNft             *nft.NFT
	StakingCosmicSignatureNft *staking.Ledger
	StakingRandomWalkNft      *staking.Ledger
	Prizes                    *prizes.Custodian
}

// Game is the bidding round engine bound to its address.
type Game struct {
	addr  cosmic.Address
	state *state.State
	ctx   *solidity.Context
	deps  Deps

	ownable *access.Ownable
	guard   *access.ReentrancyGuard
	rules   Rules

	roundNum             *solidity.Uint64
	roundActivationTime  *solidity.Uint64
	mainPrizeTime        *solidity.Uint64
	lastBidder           *solidity.Address
	lastCstBidder        *solidity.Address
	champions            *solidity.Raw[*Champions]
	stellarSpender       *solidity.Raw[*StellarSpender]
	bidders              *solidity.Mapping[solidity.BytesKey, *BidderInfo]
	usedRandomWalkNfts   *solidity.Mapping[solidity.UintKey, bool]
	ethDonationsWithInfo *solidity.Array[*EthDonationWithInfoRecord]
	charity              *solidity.Address
	marketingWallet      *solidity.Address

	ethDutchBeginningPrice *solidity.Uint256
	nextEthBidPrice        *solidity.Uint256
	cstDutchBeginningTime  *solidity.Uint64
	cstDutchBeginningPrice *solidity.Uint256
	nextRoundFirstCstPrice *solidity.Uint256
}

func New(addr cosmic.Address, state *state.State, deps Deps) *Game {
	ctx := solidity.NewContext(addr, state)
	return &Game{
		addr:                   addr,
		state:                  state,
		ctx:                    ctx,
		deps:                   deps,
		ownable:                access.NewOwnable(ctx, ownershipTransferredEvent),
		guard:                  access.NewReentrancyGuard(ctx),
		roundNum:               solidity.NewUint64(ctx, roundNumSlot),
		roundActivationTime:    solidity.NewUint64(ctx, roundActivationTimeSlot),
		mainPrizeTime:          solidity.NewUint64(ctx, mainPrizeTimeSlot),
		lastBidder:             solidity.NewAddress(ctx, lastBidderSlot),
		lastCstBidder:          solidity.NewAddress(ctx, lastCstBidderSlot),
		champions:              solidity.NewRaw[*Champions](ctx, championsSlot),
		stellarSpender:         solidity.NewRaw[*StellarSpender](ctx, stellarSpenderSlot),
		bidders:                solidity.NewMapping[solidity.BytesKey, *BidderInfo](ctx, biddersSlot),
		usedRandomWalkNfts:     solidity.NewMapping[solidity.UintKey, bool](ctx, usedRandomWalkNftsSlot),
		ethDonationsWithInfo:   solidity.NewArray[*EthDonationWithInfoRecord](ctx, ethDonationsWithInfoSlot),
		charity:                solidity.NewAddress(ctx, charitySlot),
		marketingWallet:        solidity.NewAddress(ctx, marketingWalletSlot),
		ethDutchBeginningPrice: solidity.NewUint256(ctx, ethDutchBeginningPriceSlot),
		nextEthBidPrice:        solidity.NewUint256(ctx, nextEthBidPriceSlot),
		cstDutchBeginningTime:  solidity.NewUint64(ctx, cstDutchBeginningTimeSlot),
		cstDutchBeginningPrice: solidity.NewUint256(ctx, cstDutchBeginningPriceSlot),
		nextRoundFirstCstPrice: solidity.NewUint256(ctx, nextRoundFirstCstPriceSlot),
	}
}

// Init prepares round 0 with default parameters. Genesis only.
func (g *Game) Init(owner cosmic.Address, roundActivationTime uint64, charity, marketingWallet cosmic.Address) error {
	g.ownable.Init(owner)
	for p, info := range params {
		if err := g.InitParam(p, info.def); err != nil {
			return err
		}
	}
	g.roundActivationTime.Set(roundActivationTime)
	g.charity.Set(charity)
	g.marketingWallet.Set(marketingWallet)
	g.nextRoundFirstCstPrice.Set(cosmic.DefaultNextRoundFirstCstDutchAuctionBeginning)
	return nil
}

func (g *Game) Address() cosmic.Address  { return g.addr }
func (g *Game) Deps() Deps               { return g.deps }
func (g *Game) Ownable() *access.Ownable { return g.ownable }

func bidderKey(round uint64, bidder cosmic.Address) solidity.BytesKey {
	return solidity.CompositeKey(solidity.UintKey(round), solidity.BytesKey(bidder.Bytes()))
}

// bidderAddresses is the ordered list of bids of a round, one entry per bid.
func (g *Game) bidderAddresses(round uint64) *solidity.Array[cosmic.Address] {
	return solidity.NewArray[cosmic.Address](g.ctx, cosmic.Blake2b(bidderAddressesSlot.Bytes(), solidity.UintKey(round).Bytes()))
}

func (g *Game) bidderInfo(round uint64, bidder cosmic.Address) (*BidderInfo, error) {
	info, err := g.bidders.Get(bidderKey(round, bidder))
	if err != nil {
		return nil, err
	}
	if info.TotalSpentEth == nil {
		info.TotalSpentEth = new(big.Int)
	}
	if info.TotalSpentCst == nil {
		info.TotalSpentCst = new(big.Int)
	}
	return info, nil
}
