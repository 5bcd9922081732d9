// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package nft implements the ERC-721 style ledger used for CS NFTs and RandomWalk NFTs.
package nft

import (
	"github.com/holiman/uint256"

	"github.com/cosmicsignature/engine/abi"
	"github.com/cosmicsignature/engine/builtin/access"
	"github.com/cosmicsignature/engine/builtin/gen"
	"github.com/cosmicsignature/engine/builtin/randomness"
	"github.com/cosmicsignature/engine/builtin/reverts"
	"github.com/cosmicsignature/engine/builtin/solidity"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/state"
	"github.com/cosmicsignature/engine/xenv"
)

var (
	ABI = abi.MustNew(gen.MustAsset("compiled/Nft.abi"))

	transferEvent                      = ABI.MustEventByName("Transfer")
	approvalForAllEvent                = ABI.MustEventByName("ApprovalForAll")
	nftMintedEvent                     = ABI.MustEventByName("NftMinted")
	nftNameChangedEvent                = ABI.MustEventByName("NftNameChanged")
	nftBaseUriChangedEvent             = ABI.MustEventByName("NftBaseUriChanged")
	nftGenerationScriptUriChangedEvent = ABI.MustEventByName("NftGenerationScriptUriChanged")
)

var (
	minterSlot      = solidity.Slot("nft.minter")
	totalSupplySlot = solidity.Slot("nft.totalSupply")
	ownersSlot      = solidity.Slot("nft.owners")
	balancesSlot    = solidity.Slot("nft.balances")
	operatorsSlot   = solidity.Slot("nft.operators")
	seedsSlot       = solidity.Slot("nft.seeds")
	namesSlot       = solidity.Slot("nft.names")
	baseUriSlot     = solidity.Slot("nft.baseUri")
	scriptUriSlot   = solidity.Slot("nft.generationScriptUri")
)

// NFT binds an NFT collection to its address. Token ids start at 0.
type NFT struct {
	addr        cosmic.Address
	minter      *solidity.Address
	totalSupply *solidity.Uint64
	owners      *solidity.Mapping[solidity.UintKey, cosmic.Address]
	balances    *solidity.Mapping[solidity.BytesKey, uint64]
	operators   *solidity.Mapping[solidity.BytesKey, bool]
	seeds       *solidity.Mapping[solidity.UintKey, cosmic.Bytes32]
	ownable     *access.Ownable
	names       *solidity.Mapping[solidity.UintKey, string]
	baseUri     *solidity.Raw[string]
	scriptUri   *solidity.Raw[string]
}

func New(addr cosmic.Address, state *state.State) *NFT {
	ctx := solidity.NewContext(addr, state)
	return &NFT{
		addr:        addr,
		minter:      solidity.NewAddress(ctx, minterSlot),
		totalSupply: solidity.NewUint64(ctx, totalSupplySlot),
		owners:      solidity.NewMapping[solidity.UintKey, cosmic.Address](ctx, ownersSlot),
		balances:    solidity.NewMapping[solidity.BytesKey, uint64](ctx, balancesSlot),
		operators:   solidity.NewMapping[solidity.BytesKey, bool](ctx, operatorsSlot),
		seeds:       solidity.NewMapping[solidity.UintKey, cosmic.Bytes32](ctx, seedsSlot),
		ownable:     access.NewOwnable(ctx, ABI.MustEventByName("OwnershipTransferred")),
		names:       solidity.NewMapping[solidity.UintKey, string](ctx, namesSlot),
		baseUri:     solidity.NewRaw[string](ctx, baseUriSlot),
		scriptUri:   solidity.NewRaw[string](ctx, scriptUriSlot),
	}
}

func (n *NFT) Address() cosmic.Address  { return n.addr }
func (n *NFT) Ownable() *access.Ownable { return n.ownable }

// SetMinter restricts minting to minter. A zero minter leaves minting open.
func (n *NFT) SetMinter(minter cosmic.Address) {
	n.minter.Set(minter)
}

func (n *NFT) TotalSupply() (uint64, error) {
	return n.totalSupply.Get()
}

func (n *NFT) BalanceOf(owner cosmic.Address) (uint64, error) {
	return n.balances.Get(owner.Bytes())
}

// OwnerOf returns the owner of a token, failing with NftNotFound for unminted ids.
func (n *NFT) OwnerOf(id uint64) (cosmic.Address, error) {
	owner, err := n.owners.Get(solidity.UintKey(id))
	if err != nil {
		return cosmic.Address{}, err
	}
	if owner.IsZero() {
		return cosmic.Address{}, reverts.New(reverts.NftNotFound, "", id)
	}
	return owner, nil
}

// Seed returns the random seed recorded when the token was minted.
func (n *NFT) Seed(id uint64) (cosmic.Bytes32, error) {
	if _, err := n.OwnerOf(id); err != nil {
		return cosmic.Bytes32{}, err
	}
	return n.seeds.Get(solidity.UintKey(id))
}

func (n *NFT) IsApprovedForAll(owner, operator cosmic.Address) (bool, error) {
	return n.operators.Get(operatorKey(owner, operator))
}

// SetApprovalForAll lets operator move every token of the caller.
func (n *NFT) SetApprovalForAll(env *xenv.Environment, operator cosmic.Address, approved bool) error {
	if operator.IsZero() {
		return reverts.New(reverts.ZeroAddress, "The provided address is zero.")
	}
	if err := n.operators.Set(operatorKey(env.Caller(), operator), approved); err != nil {
		return err
	}
	env.Log(approvalForAllEvent, env.Caller(), operator, approved)
	return nil
}

// TransferFrom moves token id from from to to. The caller must be the owner or an approved operator.
func (n *NFT) TransferFrom(env *xenv.Environment, from, to cosmic.Address, id uint64) error {
	owner, err := n.OwnerOf(id)
	if err != nil {
		return err
	}
	if owner != from {
		return reverts.New(reverts.CallerIsNotNftOwner, "The NFT is not owned by the sender.", from, id)
	}
	if to.IsZero() {
		return reverts.New(reverts.ZeroAddress, "The provided address is zero.")
	}
	caller := env.Caller()
	if caller != owner {
		approved, err := n.IsApprovedForAll(owner, caller)
		if err != nil {
			return err
		}
		if !approved {
			return reverts.New(reverts.CallerIsNotNftOwner, "The caller is neither the NFT owner nor an approved operator.", caller, id)
		}
	}
	if err := n.addBalance(from, -1); err != nil {
		return err
	}
	if err := n.addBalance(to, 1); err != nil {
		return err
	}
	if err := n.owners.Set(solidity.UintKey(id), to); err != nil {
		return err
	}
	env.Log(transferEvent, from, to, id)
	return nil
}

// Mint creates one token for owner. Its seed is derived from seed.
func (n *NFT) Mint(env *xenv.Environment, roundNum uint64, owner cosmic.Address, seed *uint256.Int) (uint64, error) {
	if err := n.onlyMinter(env); err != nil {
		return 0, err
	}
	return n.mint(env, roundNum, owner, seed)
}

// MintMany mints a token for each owner, in order. The first token uses seed and
// each following one the next seed value. It returns the id of the first token.
func (n *NFT) MintMany(env *xenv.Environment, roundNum uint64, owners []cosmic.Address, seed *uint256.Int) (uint64, error) {
	if err := n.onlyMinter(env); err != nil {
		return 0, err
	}
	first, err := n.totalSupply.Get()
	if err != nil {
		return 0, err
	}
	s := new(uint256.Int).Set(seed)
	for i, owner := range owners {
		if i > 0 {
			s.AddUint64(s, 1)
		}
		if _, err := n.mint(env, roundNum, owner, s); err != nil {
			return 0, err
		}
	}
	return first, nil
}

func (n *NFT) onlyMinter(env *xenv.Environment) error {
	minter, err := n.minter.Get()
	if err != nil {
		return err
	}
	if !minter.IsZero() && env.Caller() != minter {
		return reverts.New(reverts.UnauthorizedCaller, "Only the minter is permitted to call this method.", env.Caller())
	}
	return nil
}

func (n *NFT) mint(env *xenv.Environment, roundNum uint64, owner cosmic.Address, seed *uint256.Int) (uint64, error) {
	if owner.IsZero() {
		return 0, reverts.New(reverts.ZeroAddress, "The provided address is zero.")
	}
	id, err := n.totalSupply.Get()
	if err != nil {
		return 0, err
	}
	nftSeed := randomness.FromSeed(seed)
	if err := n.owners.Set(solidity.UintKey(id), owner); err != nil {
		return 0, err
	}
	if err := n.seeds.Set(solidity.UintKey(id), cosmic.Bytes32(nftSeed.Bytes32())); err != nil {
		return 0, err
	}
	if err := n.addBalance(owner, 1); err != nil {
		return 0, err
	}
	n.totalSupply.Set(id + 1)

	env.Log(transferEvent, cosmic.Address{}, owner, id)
	env.Log(nftMintedEvent, roundNum, owner, nftSeed.ToBig(), id)
	return id, nil
}

func (n *NFT) addBalance(owner cosmic.Address, delta int) error {
	bal, err := n.BalanceOf(owner)
	if err != nil {
		return err
	}
	if delta < 0 {
		bal--
	} else {
		bal++
	}
	return n.balances.Set(owner.Bytes(), bal)
}

func operatorKey(owner, operator cosmic.Address) solidity.BytesKey {
	return solidity.CompositeKey(solidity.BytesKey(owner.Bytes()), solidity.BytesKey(operator.Bytes()))
}
