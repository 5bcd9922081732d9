// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/cosmicsignature/engine/builtin"
	"github.com/cosmicsignature/engine/builtin/game"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/tx"
	"github.com/cosmicsignature/engine/xenv"
)

// NoRandomWalkNft marks an ETH bid made without a Random Walk NFT.
const NoRandomWalkNft = game.NoRandomWalkNft

// bid types, as labeled in metrics
const (
	bidEth           = "eth"
	bidEthRandomWalk = "eth_rw"
	bidCst           = "cst"
)

func ethBidType(rwNftID int64) string {
	if rwNftID < 0 {
		return bidEth
	}
	return bidEthRandomWalk
}

func (n *Node) submitBid(bidder cosmic.Address, value *big.Int, method, bidType string, fn func(g *game.Game, env *xenv.Environment) error) (*tx.Receipt, error) {
	receipt, err := n.submitGame(bidder, value, method, fn)
	if err == nil {
		metricBidCount().AddWithLabel(1, map[string]string{"type": bidType})
	}
	return receipt, err
}

// BidWithEth places an ETH bid paying value, optionally with a Random Walk NFT for the discount.
// Overpayment beyond the swallow limit is refunded.
func (n *Node) BidWithEth(bidder cosmic.Address, value *big.Int, rwNftID int64, message string) (*tx.Receipt, error) {
	return n.submitBid(bidder, value, "bidWithEth", ethBidType(rwNftID), func(g *game.Game, env *xenv.Environment) error {
		return g.BidWithEth(env, rwNftID, message)
	})
}

// BidWithEthAndDonateToken places an ETH bid and donates amount of tokenAddr to the round.
// The bidder must have approved the prizes wallet.
func (n *Node) BidWithEthAndDonateToken(bidder cosmic.Address, value *big.Int, rwNftID int64, message string, tokenAddr cosmic.Address, amount *big.Int) (*tx.Receipt, error) {
	return n.submitBid(bidder, value, "bidWithEthAndDonateToken", ethBidType(rwNftID), func(g *game.Game, env *xenv.Environment) error {
		return g.BidWithEthAndDonateToken(env, rwNftID, message, tokenAddr, amount)
	})
}

// BidWithEthAndDonateNft places an ETH bid and donates an NFT to the round.
// The bidder must have approved the prizes wallet as operator.
func (n *Node) BidWithEthAndDonateNft(bidder cosmic.Address, value *big.Int, rwNftID int64, message string, nftAddr cosmic.Address, nftID uint64) (*tx.Receipt, error) {
	return n.submitBid(bidder, value, "bidWithEthAndDonateNft", ethBidType(rwNftID), func(g *game.Game, env *xenv.Environment) error {
		return g.BidWithEthAndDonateNft(env, rwNftID, message, nftAddr, nftID)
	})
}

// BidWithCst places a CST bid, failing when the current price exceeds maxPrice.
func (n *Node) BidWithCst(bidder cosmic.Address, maxPrice *big.Int, message string) (*tx.Receipt, error) {
	return n.submitBid(bidder, nil, "bidWithCst", bidCst, func(g *game.Game, env *xenv.Environment) error {
		return g.BidWithCst(env, maxPrice, message)
	})
}

func (n *Node) BidWithCstAndDonateToken(bidder cosmic.Address, maxPrice *big.Int, message string, tokenAddr cosmic.Address, amount *big.Int) (*tx.Receipt, error) {
	return n.submitBid(bidder, nil, "bidWithCstAndDonateToken", bidCst, func(g *game.Game, env *xenv.Environment) error {
		return g.BidWithCstAndDonateToken(env, maxPrice, message, tokenAddr, amount)
	})
}

func (n *Node) BidWithCstAndDonateNft(bidder cosmic.Address, maxPrice *big.Int, message string, nftAddr cosmic.Address, nftID uint64) (*tx.Receipt, error) {
	return n.submitBid(bidder, nil, "bidWithCstAndDonateNft", bidCst, func(g *game.Game, env *xenv.Environment) error {
		return g.BidWithCstAndDonateNft(env, maxPrice, message, nftAddr, nftID)
	})
}

// DonateEth adds value to the prize pool.
func (n *Node) DonateEth(donor cosmic.Address, value *big.Int) (*tx.Receipt, error) {
	return n.submitGame(donor, value, "donateEth", func(g *game.Game, env *xenv.Environment) error {
		return g.DonateEth(env)
	})
}

// DonateEthWithInfo adds value to the prize pool and records data with the donation.
func (n *Node) DonateEthWithInfo(donor cosmic.Address, value *big.Int, data string) (*tx.Receipt, error) {
	return n.submitGame(donor, value, "donateEthWithInfo", func(g *game.Game, env *xenv.Environment) error {
		return g.DonateEthWithInfo(env, data)
	})
}

// ClaimMainPrize ends the round, distributing every prize.
func (n *Node) ClaimMainPrize(claimer cosmic.Address) (*tx.Receipt, error) {
	receipt, err := n.submitGame(claimer, nil, "claimMainPrize", func(g *game.Game, env *xenv.Environment) error {
		return g.ClaimMainPrize(env)
	})
	if err == nil {
		metricClaimCount().Add(1)
		n.updateStakingMetrics()
	}
	return receipt, err
}

// SetParam changes a game parameter. Owner only.
func (n *Node) SetParam(owner cosmic.Address, p game.Param, v *big.Int) (*tx.Receipt, error) {
	return n.submitGame(owner, nil, "set"+string(p), func(g *game.Game, env *xenv.Environment) error {
		return g.SetParam(env, p, v)
	})
}

func (n *Node) SetRoundActivationTime(owner cosmic.Address, t uint64) (*tx.Receipt, error) {
	return n.submitGame(owner, nil, "setRoundActivationTime", func(g *game.Game, env *xenv.Environment) error {
		return g.SetRoundActivationTime(env, t)
	})
}

func (n *Node) SetCharityAddress(owner, addr cosmic.Address) (*tx.Receipt, error) {
	return n.submitGame(owner, nil, "setCharityAddress", func(g *game.Game, env *xenv.Environment) error {
		return g.SetCharityAddress(env, addr)
	})
}

func (n *Node) SetMarketingWallet(owner, addr cosmic.Address) (*tx.Receipt, error) {
	return n.submitGame(owner, nil, "setMarketingWallet", func(g *game.Game, env *xenv.Environment) error {
		return g.SetMarketingWallet(env, addr)
	})
}

// TransferGameOwnership hands the game and its handle over to newOwner.
func (n *Node) TransferGameOwnership(owner, newOwner cosmic.Address) (*tx.Receipt, error) {
	return n.submitGame(owner, nil, "transferOwnership", func(g *game.Game, env *xenv.Environment) error {
		return g.Ownable().TransferOwnership(env, newOwner)
	})
}

// Upgrade switches the game handle to a newer registered version.
func (n *Node) Upgrade(owner cosmic.Address, version uint64) (*tx.Receipt, error) {
	return n.submit(owner, builtin.Proxy.Address, nil, "upgradeTo", func(env *xenv.Environment) error {
		return builtin.Proxy.WithState(env.State()).Upgrade(env, version)
	})
}

// MintRandomWalkNft mints a Random Walk NFT to minter, seeded by the block beacon.
func (n *Node) MintRandomWalkNft(minter cosmic.Address) (id uint64, receipt *tx.Receipt, err error) {
	receipt, err = n.submit(minter, builtin.RandomWalkNft.Address, nil, "mint", func(env *xenv.Environment) (err error) {
		id, err = builtin.RandomWalkNft.WithState(env.State()).Mint(env, 0, minter, new(uint256.Int).SetBytes(env.BlockContext().Beacon[:]))
		return
	})
	return
}
