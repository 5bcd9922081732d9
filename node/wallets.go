// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"math/big"

	"github.com/cosmicsignature/engine/builtin"
	"github.com/cosmicsignature/engine/builtin/prizes"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/tx"
	"github.com/cosmicsignature/engine/xenv"
)

func (n *Node) submitPrizes(origin cosmic.Address, method string, fn func(c *prizes.Custodian, env *xenv.Environment) error) (*tx.Receipt, error) {
	return n.submit(origin, builtin.Prizes.Address, nil, method, func(env *xenv.Environment) error {
		return fn(builtin.Prizes.WithState(env.State()), env)
	})
}

// WithdrawEth withdraws the caller's ETH prizes of the rounds.
func (n *Node) WithdrawEth(winner cosmic.Address, rounds ...uint64) (*tx.Receipt, error) {
	return n.submitPrizes(winner, "withdrawEthMany", func(c *prizes.Custodian, env *xenv.Environment) error {
		return c.WithdrawEthMany(env, rounds)
	})
}

// WithdrawEthFor withdraws an unclaimed ETH prize of another winner after the round's timeout.
func (n *Node) WithdrawEthFor(caller cosmic.Address, round uint64, winner cosmic.Address) (*tx.Receipt, error) {
	return n.submitPrizes(caller, "withdrawEthFor", func(c *prizes.Custodian, env *xenv.Environment) error {
		return c.WithdrawEthFor(env, round, winner)
	})
}

func (n *Node) ClaimDonatedTokens(claimer cosmic.Address, claims ...prizes.TokenClaim) (*tx.Receipt, error) {
	return n.submitPrizes(claimer, "claimManyDonatedTokens", func(c *prizes.Custodian, env *xenv.Environment) error {
		return c.ClaimManyDonatedTokens(env, claims)
	})
}

func (n *Node) ClaimDonatedNfts(claimer cosmic.Address, indexes ...uint64) (*tx.Receipt, error) {
	return n.submitPrizes(claimer, "claimManyDonatedNfts", func(c *prizes.Custodian, env *xenv.Environment) error {
		return c.ClaimManyDonatedNfts(env, indexes)
	})
}

// WithdrawEverything collects ETH, tokens and NFTs in one call.
func (n *Node) WithdrawEverything(claimer cosmic.Address, ethRounds []uint64, tokenClaims []prizes.TokenClaim, nftIndexes []uint64) (*tx.Receipt, error) {
	return n.submitPrizes(claimer, "withdrawEverything", func(c *prizes.Custodian, env *xenv.Environment) error {
		return c.WithdrawEverything(env, ethRounds, tokenClaims, nftIndexes)
	})
}

func (n *Node) SetTimeoutDurationToWithdrawPrizes(owner cosmic.Address, v uint64) (*tx.Receipt, error) {
	return n.submitPrizes(owner, "setTimeoutDurationToWithdrawPrizes", func(c *prizes.Custodian, env *xenv.Environment) error {
		return c.SetTimeoutDurationToWithdrawPrizes(env, v)
	})
}

func (n *Node) SetEthPrizeRedistribution(owner cosmic.Address, policy prizes.Redistribution) (*tx.Receipt, error) {
	return n.submitPrizes(owner, "setEthPrizeRedistribution", func(c *prizes.Custodian, env *xenv.Environment) error {
		return c.SetEthPrizeRedistribution(env, policy)
	})
}

// SendToCharity forwards the charity wallet balance. Anyone may call it.
func (n *Node) SendToCharity(caller cosmic.Address) (*tx.Receipt, error) {
	return n.submit(caller, builtin.CharityWallet.Address, nil, "send", func(env *xenv.Environment) error {
		return builtin.CharityWallet.WithState(env.State()).Send(env)
	})
}

func (n *Node) SetCharityWalletRecipient(owner, charity cosmic.Address) (*tx.Receipt, error) {
	return n.submit(owner, builtin.CharityWallet.Address, nil, "setCharityAddress", func(env *xenv.Environment) error {
		return builtin.CharityWallet.WithState(env.State()).SetCharityAddress(env, charity)
	})
}

// PayMarketingRewards pays amount CST from the marketing wallet to every marketer. Owner only.
func (n *Node) PayMarketingRewards(owner cosmic.Address, amount *big.Int, marketers ...cosmic.Address) (*tx.Receipt, error) {
	return n.submit(owner, builtin.MarketingWallet.Address, nil, "payManyRewards", func(env *xenv.Environment) error {
		return builtin.MarketingWallet.WithState(env.State()).PayManyRewards(env, marketers, amount)
	})
}

// ApproveCst lets spender move amount of the holder's CST.
func (n *Node) ApproveCst(holder, spender cosmic.Address, amount *big.Int) (*tx.Receipt, error) {
	return n.submit(holder, builtin.Token.Address, nil, "approve", func(env *xenv.Environment) error {
		return builtin.Token.WithState(env.State()).Approve(env, spender, amount)
	})
}

func (n *Node) TransferCst(from, to cosmic.Address, amount *big.Int) (*tx.Receipt, error) {
	return n.submit(from, builtin.Token.Address, nil, "transfer", func(env *xenv.Environment) error {
		return builtin.Token.WithState(env.State()).Transfer(env, to, amount)
	})
}

// SetNftApprovalForAll approves operator over every NFT of owner in the collection the ledger stakes.
func (n *Node) SetNftApprovalForAll(collection Ledger, owner, operator cosmic.Address, approved bool) (*tx.Receipt, error) {
	return n.submit(owner, collection.NftAddress(), nil, "setApprovalForAll", func(env *xenv.Environment) error {
		return collection.nft(env.State()).SetApprovalForAll(env, operator, approved)
	})
}

func (n *Node) TransferNft(collection Ledger, from, to cosmic.Address, id uint64) (*tx.Receipt, error) {
	return n.submit(from, collection.NftAddress(), nil, "transferFrom", func(env *xenv.Environment) error {
		return collection.nft(env.State()).TransferFrom(env, from, to, id)
	})
}

// SetNftName names an NFT. The caller must own it or operate for its owner.
func (n *Node) SetNftName(collection Ledger, caller cosmic.Address, id uint64, name string) (*tx.Receipt, error) {
	return n.submit(caller, collection.NftAddress(), nil, "setNftName", func(env *xenv.Environment) error {
		return collection.nft(env.State()).SetNftName(env, id, name)
	})
}

func (n *Node) SetNftBaseUri(collection Ledger, owner cosmic.Address, uri string) (*tx.Receipt, error) {
	return n.submit(owner, collection.NftAddress(), nil, "setNftBaseUri", func(env *xenv.Environment) error {
		return collection.nft(env.State()).SetBaseUri(env, uri)
	})
}

func (n *Node) SetNftGenerationScriptUri(collection Ledger, owner cosmic.Address, uri string) (*tx.Receipt, error) {
	return n.submit(owner, collection.NftAddress(), nil, "setNftGenerationScriptUri", func(env *xenv.Environment) error {
		return collection.nft(env.State()).SetGenerationScriptUri(env, uri)
	})
}
