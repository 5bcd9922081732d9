// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package prizes implements the custodian of secondary prizes: ETH balances
// of raffle winners and tokens or NFTs donated along with bids.
package prizes

import (
	"math/big"

	"github.com/cosmicsignature/engine/abi"
	"github.com/cosmicsignature/engine/builtin/access"
	"github.com/cosmicsignature/engine/builtin/gen"
	"github.com/cosmicsignature/engine/builtin/nft"
	"github.com/cosmicsignature/engine/builtin/reverts"
	"github.com/cosmicsignature/engine/builtin/solidity"
	"github.com/cosmicsignature/engine/builtin/token"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/log"
	"github.com/cosmicsignature/engine/state"
	"github.com/cosmicsignature/engine/xenv"
)

var logger = log.WithContext("pkg", "prizes")

var (
	ABI = abi.MustNew(gen.MustAsset("compiled/PrizesWallet.abi"))

	ethReceivedEvent          = ABI.MustEventByName("EthReceived")
	ethWithdrawnEvent         = ABI.MustEventByName("EthWithdrawn")
	tokenDonatedEvent         = ABI.MustEventByName("TokenDonated")
	donatedTokenClaimedEvent  = ABI.MustEventByName("DonatedTokenClaimed")
	nftDonatedEvent           = ABI.MustEventByName("NftDonated")
	donatedNftClaimedEvent    = ABI.MustEventByName("DonatedNftClaimed")
	timeoutDurationChanged    = ABI.MustEventByName("TimeoutDurationToWithdrawPrizesChanged")
	redistributionChanged     = ABI.MustEventByName("EthPrizeRedistributionChanged")
	ownershipTransferredEvent = ABI.MustEventByName("OwnershipTransferred")
)

var (
	mainPrizeBeneficiariesSlot = solidity.Slot("prizes.mainPrizeBeneficiaries")
	roundTimeoutsSlot          = solidity.Slot("prizes.roundTimeoutTimesToWithdrawPrizes")
	ethBalancesSlot            = solidity.Slot("prizes.ethBalances")
	donatedNftsSlot            = solidity.Slot("prizes.donatedNfts")
	nextDonatedNftIndexSlot    = solidity.Slot("prizes.nextDonatedNftIndex")
	timeoutDurationSlot        = solidity.Slot("prizes.timeoutDurationToWithdrawPrizes")
	redistributionSlot         = solidity.Slot("prizes.ethPrizeRedistribution")
)

// Redistribution is the policy for ETH left unclaimed past a round's timeout.
type Redistribution uint64

const (
	// AnyoneOnBehalf lets anyone withdraw an unclaimed balance to themselves after the timeout.
	AnyoneOnBehalf Redistribution = iota
	// Disabled keeps every balance reserved to its winner.
	Disabled
)

func (r Redistribution) String() string {
	switch r {
	case AnyoneOnBehalf:
		return "anyone-on-behalf"
	case Disabled:
		return "disabled"
	}
	return "unknown"
}

// Deposit is one ETH prize credited to a winner.
type Deposit struct {
	Winner cosmic.Address
	Amount *big.Int
}

// DonatedNft is an NFT held for the main prize beneficiary of a round.
type DonatedNft struct {
	Round   uint64
	Donor   cosmic.Address
	Nft     cosmic.Address
	NftID   uint64
	Claimed bool
}

// TokenClaim identifies the donated tokens of a round to claim. A zero amount claims everything.
type TokenClaim struct {
	Round  uint64
	Token  cosmic.Address
	Amount *big.Int
}

// Custodian is the prizes wallet.
type Custodian struct {
	addr    cosmic.Address
	game    cosmic.Address
	state   *state.State
	ownable *access.Ownable
	guard   *access.ReentrancyGuard

	mainPrizeBeneficiaries *solidity.Mapping[solidity.UintKey, cosmic.Address]
	roundTimeouts          *solidity.Mapping[solidity.UintKey, uint64]
	ethBalances            *solidity.Mapping[solidity.BytesKey, *big.Int]
	donatedNfts            *solidity.Mapping[solidity.UintKey, *DonatedNft]
	nextDonatedNftIndex    *solidity.Uint64
	timeoutDuration        *solidity.Uint64
	redistribution         *solidity.Uint64
}

func New(addr cosmic.Address, state *state.State, game cosmic.Address) *Custodian {
	ctx := solidity.NewContext(addr, state)
	return &Custodian{
		addr:                   addr,
		game:                   game,
		state:                  state,
		ownable:                access.NewOwnable(ctx, ownershipTransferredEvent),
		guard:                  access.NewReentrancyGuard(ctx),
		mainPrizeBeneficiaries: solidity.NewMapping[solidity.UintKey, cosmic.Address](ctx, mainPrizeBeneficiariesSlot),
		roundTimeouts:          solidity.NewMapping[solidity.UintKey, uint64](ctx, roundTimeoutsSlot),
		ethBalances:            solidity.NewMapping[solidity.BytesKey, *big.Int](ctx, ethBalancesSlot),
		donatedNfts:            solidity.NewMapping[solidity.UintKey, *DonatedNft](ctx, donatedNftsSlot),
		nextDonatedNftIndex:    solidity.NewUint64(ctx, nextDonatedNftIndexSlot),
		timeoutDuration:        solidity.NewUint64(ctx, timeoutDurationSlot),
		redistribution:         solidity.NewUint64(ctx, redistributionSlot),
	}
}

// Init sets the owner and the default timeout.
func (c *Custodian) Init(owner cosmic.Address) {
	c.ownable.Init(owner)
	c.timeoutDuration.Set(cosmic.DefaultTimeoutDurationToWithdrawPrizes)
}

func (c *Custodian) Address() cosmic.Address  { return c.addr }
func (c *Custodian) Ownable() *access.Ownable { return c.ownable }

// HolderAddress returns the account holding the tokens of a given kind donated in a round.
func (c *Custodian) HolderAddress(round uint64, tokenAddr cosmic.Address) cosmic.Address {
	return cosmic.DeriveAddress(c.addr, solidity.UintKey(round).Bytes(), tokenAddr.Bytes())
}

// RegisterRoundEnd records the main prize beneficiary and starts the withdrawal timeout.
func (c *Custodian) RegisterRoundEnd(env *xenv.Environment, round uint64, beneficiary cosmic.Address) (uint64, error) {
	if err := c.onlyGame(env); err != nil {
		return 0, err
	}
	return c.registerRoundEnd(env, round, beneficiary)
}

// RegisterRoundEndAndDepositEthMany registers the round end and credits every deposit.
// The received value must equal the sum of the deposits.
func (c *Custodian) RegisterRoundEndAndDepositEthMany(env *xenv.Environment, round uint64, beneficiary cosmic.Address, deposits []Deposit) (uint64, error) {
	if err := c.onlyGame(env); err != nil {
		return 0, err
	}
	sum := new(big.Int)
	for _, d := range deposits {
		sum.Add(sum, d.Amount)
	}
	if sum.Cmp(env.Value()) != 0 {
		return 0, reverts.New(reverts.InvalidDepositSum, "The sum of deposits differs from the received amount.", sum, env.Value())
	}
	timeout, err := c.registerRoundEnd(env, round, beneficiary)
	if err != nil {
		return 0, err
	}
	for i := len(deposits) - 1; i >= 0; i-- {
		if err := c.credit(round, deposits[i].Winner, deposits[i].Amount); err != nil {
			return 0, err
		}
		env.Log(ethReceivedEvent, round, i, deposits[i].Winner, deposits[i].Amount)
	}
	return timeout, nil
}

// DepositEth credits the received value to winner.
func (c *Custodian) DepositEth(env *xenv.Environment, round uint64, winner cosmic.Address) error {
	if err := c.onlyGame(env); err != nil {
		return err
	}
	if err := c.credit(round, winner, env.Value()); err != nil {
		return err
	}
	env.Log(ethReceivedEvent, round, 0, winner, env.Value())
	return nil
}

// WithdrawEth pays out the caller's balance of a round. A zero balance is a no-op.
func (c *Custodian) WithdrawEth(env *xenv.Environment, round uint64) error {
	return c.guard.NonReentrant(func() error {
		return c.withdrawEth(env, round, env.Caller())
	})
}

// WithdrawEthFor pays out the balance of winner to the caller.
// Anyone but the winner must wait for the round timeout.
func (c *Custodian) WithdrawEthFor(env *xenv.Environment, round uint64, winner cosmic.Address) error {
	return c.guard.NonReentrant(func() error {
		return c.withdrawEth(env, round, winner)
	})
}

// WithdrawEthMany withdraws the caller's balances of several rounds.
func (c *Custodian) WithdrawEthMany(env *xenv.Environment, rounds []uint64) error {
	return c.guard.NonReentrant(func() error {
		for _, round := range rounds {
			if err := c.withdrawEth(env, round, env.Caller()); err != nil {
				return err
			}
		}
		return nil
	})
}

// DonateToken moves amount of tokenAddr from donor into the round's holder.
// The donor must have approved the custodian.
func (c *Custodian) DonateToken(env *xenv.Environment, round uint64, donor, tokenAddr cosmic.Address, amount *big.Int) error {
	if err := c.onlyGame(env); err != nil {
		return err
	}
	holder := c.HolderAddress(round, tokenAddr)
	tok := token.New(tokenAddr, c.state)
	if err := env.Call(tokenAddr, nil, func(env *xenv.Environment) error {
		return tok.TransferFrom(env, donor, holder, amount)
	}); err != nil {
		return err
	}
	env.Log(tokenDonatedEvent, round, donor, tokenAddr, amount)
	return nil
}

// ClaimDonatedToken transfers donated tokens to the caller.
func (c *Custodian) ClaimDonatedToken(env *xenv.Environment, round uint64, tokenAddr cosmic.Address, amount *big.Int) error {
	return c.guard.NonReentrant(func() error {
		return c.claimDonatedToken(env, TokenClaim{round, tokenAddr, amount})
	})
}

func (c *Custodian) ClaimManyDonatedTokens(env *xenv.Environment, claims []TokenClaim) error {
	return c.guard.NonReentrant(func() error {
		return c.claimManyDonatedTokens(env, claims)
	})
}

// DonateNft takes custody of an NFT for the round's beneficiary and returns its index.
// The donor must have approved the custodian as operator.
func (c *Custodian) DonateNft(env *xenv.Environment, round uint64, donor, nftAddr cosmic.Address, nftID uint64) (uint64, error) {
	if err := c.onlyGame(env); err != nil {
		return 0, err
	}
	collection := nft.New(nftAddr, c.state)
	if err := env.Call(nftAddr, nil, func(env *xenv.Environment) error {
		return collection.TransferFrom(env, donor, c.addr, nftID)
	}); err != nil {
		return 0, err
	}
	index, err := c.nextDonatedNftIndex.Get()
	if err != nil {
		return 0, err
	}
	if err := c.donatedNfts.Set(solidity.UintKey(index), &DonatedNft{
		Round: round,
		Donor: donor,
		Nft:   nftAddr,
		NftID: nftID,
	}); err != nil {
		return 0, err
	}
	c.nextDonatedNftIndex.Set(index + 1)
	env.Log(nftDonatedEvent, round, donor, nftAddr, nftID, index)
	return index, nil
}

// ClaimDonatedNft transfers a donated NFT to the caller.
func (c *Custodian) ClaimDonatedNft(env *xenv.Environment, index uint64) error {
	return c.guard.NonReentrant(func() error {
		return c.claimDonatedNft(env, index)
	})
}

func (c *Custodian) ClaimManyDonatedNfts(env *xenv.Environment, indexes []uint64) error {
	return c.guard.NonReentrant(func() error {
		return c.claimManyDonatedNfts(env, indexes)
	})
}

// WithdrawEverything withdraws ETH of the given rounds, then claims tokens and NFTs.
func (c *Custodian) WithdrawEverything(env *xenv.Environment, ethRounds []uint64, tokenClaims []TokenClaim, nftIndexes []uint64) error {
	return c.guard.NonReentrant(func() error {
		for _, round := range ethRounds {
			if err := c.withdrawEth(env, round, env.Caller()); err != nil {
				return err
			}
		}
		if err := c.claimManyDonatedTokens(env, tokenClaims); err != nil {
			return err
		}
		return c.claimManyDonatedNfts(env, nftIndexes)
	})
}

func (c *Custodian) SetTimeoutDurationToWithdrawPrizes(env *xenv.Environment, v uint64) error {
	if err := c.ownable.OnlyOwner(env); err != nil {
		return err
	}
	c.timeoutDuration.Set(v)
	env.Log(timeoutDurationChanged, v)
	return nil
}

func (c *Custodian) SetEthPrizeRedistribution(env *xenv.Environment, policy Redistribution) error {
	if err := c.ownable.OnlyOwner(env); err != nil {
		return err
	}
	if policy > Disabled {
		return reverts.New(reverts.CallDenied, "Unknown ETH prize redistribution policy.", uint64(policy))
	}
	c.redistribution.Set(uint64(policy))
	env.Log(redistributionChanged, uint64(policy))
	return nil
}

func (c *Custodian) TimeoutDurationToWithdrawPrizes() (uint64, error) {
	return c.timeoutDuration.Get()
}

func (c *Custodian) EthPrizeRedistribution() (Redistribution, error) {
	v, err := c.redistribution.Get()
	return Redistribution(v), err
}

func (c *Custodian) EthBalanceInfo(round uint64, winner cosmic.Address) (*big.Int, error) {
	return c.ethBalances.Get(balanceKey(round, winner))
}

func (c *Custodian) MainPrizeBeneficiary(round uint64) (cosmic.Address, error) {
	return c.mainPrizeBeneficiaries.Get(solidity.UintKey(round))
}

func (c *Custodian) RoundTimeoutTimeToWithdrawPrizes(round uint64) (uint64, error) {
	return c.roundTimeouts.Get(solidity.UintKey(round))
}

// DonatedToken returns the amount of tokenAddr still held for a round.
func (c *Custodian) DonatedToken(round uint64, tokenAddr cosmic.Address) (*big.Int, error) {
	return token.New(tokenAddr, c.state).BalanceOf(c.HolderAddress(round, tokenAddr))
}

func (c *Custodian) DonatedNft(index uint64) (*DonatedNft, error) {
	n, err := c.nextDonatedNftIndex.Get()
	if err != nil {
		return nil, err
	}
	if index >= n {
		return nil, reverts.New(reverts.InvalidDonatedNftIndex, "Invalid donated NFT index.", index)
	}
	return c.donatedNfts.Get(solidity.UintKey(index))
}

func (c *Custodian) NumDonatedNfts() (uint64, error) {
	return c.nextDonatedNftIndex.Get()
}

func (c *Custodian) onlyGame(env *xenv.Environment) error {
	if env.Caller() != c.game {
		return reverts.New(reverts.UnauthorizedCaller, "Only the CosmicSignatureGame contract is permitted to call this method.", env.Caller())
	}
	return nil
}

func (c *Custodian) registerRoundEnd(env *xenv.Environment, round uint64, beneficiary cosmic.Address) (uint64, error) {
	duration, err := c.timeoutDuration.Get()
	if err != nil {
		return 0, err
	}
	timeout := env.Now() + duration
	if err := c.mainPrizeBeneficiaries.Set(solidity.UintKey(round), beneficiary); err != nil {
		return 0, err
	}
	if err := c.roundTimeouts.Set(solidity.UintKey(round), timeout); err != nil {
		return 0, err
	}
	logger.Debug("round end registered", "round", round, "beneficiary", beneficiary, "timeout", timeout)
	return timeout, nil
}

func (c *Custodian) credit(round uint64, winner cosmic.Address, amount *big.Int) error {
	bal, err := c.EthBalanceInfo(round, winner)
	if err != nil {
		return err
	}
	return c.ethBalances.Set(balanceKey(round, winner), bal.Add(bal, amount))
}

// timedOut reports whether the withdrawal timeout of a round has expired.
func (c *Custodian) timedOut(env *xenv.Environment, round uint64) (bool, uint64, error) {
	timeout, err := c.roundTimeouts.Get(solidity.UintKey(round))
	if err != nil {
		return false, 0, err
	}
	return timeout != 0 && env.Now() >= timeout, timeout, nil
}

func (c *Custodian) withdrawEth(env *xenv.Environment, round uint64, winner cosmic.Address) error {
	beneficiary := env.Caller()
	if winner != beneficiary {
		policy, err := c.EthPrizeRedistribution()
		if err != nil {
			return err
		}
		if policy == Disabled {
			return reverts.New(reverts.CallDenied, "Only the ETH prize winner is permitted to withdraw their balance.", winner, beneficiary)
		}
		expired, timeout, err := c.timedOut(env, round)
		if err != nil {
			return err
		}
		if !expired {
			return reverts.New(reverts.EarlyWithdrawal, "Only the ETH prize winner is permitted to withdraw their balance before a timeout expires.", winner, beneficiary, timeout, env.Now())
		}
	}
	amount, err := c.EthBalanceInfo(round, winner)
	if err != nil {
		return err
	}
	if amount.Sign() == 0 {
		return nil
	}
	c.ethBalances.Delete(balanceKey(round, winner))
	env.Log(ethWithdrawnEvent, round, winner, beneficiary, amount)
	return env.Transfer(beneficiary, amount)
}

func (c *Custodian) claimManyDonatedTokens(env *xenv.Environment, claims []TokenClaim) error {
	for i := len(claims) - 1; i >= 0; i-- {
		if err := c.claimDonatedToken(env, claims[i]); err != nil {
			return err
		}
	}
	return nil
}

func (c *Custodian) claimDonatedToken(env *xenv.Environment, claim TokenClaim) error {
	beneficiary := env.Caller()
	if err := c.checkClaim(env, claim.Round, beneficiary, reverts.DonatedTokenClaimDenied); err != nil {
		return err
	}
	holder := c.HolderAddress(claim.Round, claim.Token)
	tok := token.New(claim.Token, c.state)
	amount := claim.Amount
	if amount == nil || amount.Sign() == 0 {
		var err error
		if amount, err = tok.BalanceOf(holder); err != nil {
			return err
		}
	}
	if err := env.Call(holder, nil, func(env *xenv.Environment) error {
		return env.Call(claim.Token, nil, func(env *xenv.Environment) error {
			return tok.Transfer(env, beneficiary, amount)
		})
	}); err != nil {
		return err
	}
	env.Log(donatedTokenClaimedEvent, claim.Round, beneficiary, claim.Token, amount)
	return nil
}

func (c *Custodian) claimManyDonatedNfts(env *xenv.Environment, indexes []uint64) error {
	for i := len(indexes) - 1; i >= 0; i-- {
		if err := c.claimDonatedNft(env, indexes[i]); err != nil {
			return err
		}
	}
	return nil
}

func (c *Custodian) claimDonatedNft(env *xenv.Environment, index uint64) error {
	donated, err := c.DonatedNft(index)
	if err != nil {
		return err
	}
	if donated.Claimed {
		return reverts.New(reverts.DonatedNftAlreadyClaimed, "The NFT has already been claimed.", index)
	}
	beneficiary := env.Caller()
	if err := c.checkClaim(env, donated.Round, beneficiary, reverts.DonatedNftClaimDenied); err != nil {
		return err
	}
	donated.Claimed = true
	if err := c.donatedNfts.Set(solidity.UintKey(index), donated); err != nil {
		return err
	}
	collection := nft.New(donated.Nft, c.state)
	if err := env.Call(donated.Nft, nil, func(env *xenv.Environment) error {
		return collection.TransferFrom(env, c.addr, beneficiary, donated.NftID)
	}); err != nil {
		return err
	}
	env.Log(donatedNftClaimedEvent, donated.Round, beneficiary, donated.Nft, donated.NftID, index)
	return nil
}

// checkClaim permits the main prize beneficiary of the round, or anyone once the timeout expired.
func (c *Custodian) checkClaim(env *xenv.Environment, round uint64, claimer cosmic.Address, kind reverts.Kind) error {
	beneficiary, err := c.MainPrizeBeneficiary(round)
	if err != nil {
		return err
	}
	if !beneficiary.IsZero() && beneficiary == claimer {
		return nil
	}
	expired, timeout, err := c.timedOut(env, round)
	if err != nil {
		return err
	}
	if !expired {
		return reverts.New(kind, "Only the bidding round main prize beneficiary is permitted to claim this before a timeout expires.", beneficiary, claimer, timeout)
	}
	return nil
}

func balanceKey(round uint64, winner cosmic.Address) solidity.BytesKey {
	return solidity.CompositeKey(solidity.UintKey(round), solidity.BytesKey(winner.Bytes()))
}
