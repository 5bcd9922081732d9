// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements the ERC-20 style ledger used for CST and donated tokens.
package token

import (
	"math/big"

	"github.com/cosmicsignature/engine/abi"
	"github.com/cosmicsignature/engine/builtin/gen"
	"github.com/cosmicsignature/engine/builtin/reverts"
	"github.com/cosmicsignature/engine/builtin/solidity"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/state"
	"github.com/cosmicsignature/engine/xenv"
)

var (
	ABI = abi.MustNew(gen.MustAsset("compiled/Token.abi"))

	transferEvent = ABI.MustEventByName("Transfer")
	approvalEvent = ABI.MustEventByName("Approval")
)

var (
	minterSlot      = solidity.Slot("token.minter")
	totalSupplySlot = solidity.Slot("token.totalSupply")
	balancesSlot    = solidity.Slot("token.balances")
	allowancesSlot  = solidity.Slot("token.allowances")
)

// MintSpec is one entry of a batched mint.
type MintSpec struct {
	Account cosmic.Address
	Amount  *big.Int
}

// Token binds a token ledger to its address.
type Token struct {
	addr        cosmic.Address
	ctx         *solidity.Context
	minter      *solidity.Address
	totalSupply *solidity.Uint256
	balances    *solidity.Mapping[solidity.BytesKey, *big.Int]
	allowances  *solidity.Mapping[solidity.BytesKey, *big.Int]

	delegates         *solidity.Mapping[solidity.BytesKey, cosmic.Address]
	supplyCheckpoints *solidity.Array[Checkpoint]
}

func New(addr cosmic.Address, state *state.State) *Token {
	ctx := solidity.NewContext(addr, state)
	return &Token{
		addr:        addr,
		ctx:         ctx,
		minter:      solidity.NewAddress(ctx, minterSlot),
		totalSupply: solidity.NewUint256(ctx, totalSupplySlot),
		balances:    solidity.NewMapping[solidity.BytesKey, *big.Int](ctx, balancesSlot),
		allowances:  solidity.NewMapping[solidity.BytesKey, *big.Int](ctx, allowancesSlot),

		delegates:         solidity.NewMapping[solidity.BytesKey, cosmic.Address](ctx, delegatesSlot),
		supplyCheckpoints: solidity.NewArray[Checkpoint](ctx, supplyCheckpointSlot),
	}
}

func (t *Token) Address() cosmic.Address { return t.addr }

// SetMinter restricts minting and burning to minter. A zero minter leaves minting open.
func (t *Token) SetMinter(minter cosmic.Address) {
	t.minter.Set(minter)
}

func (t *Token) Minter() (cosmic.Address, error) {
	return t.minter.Get()
}

func (t *Token) TotalSupply() (*big.Int, error) {
	return t.totalSupply.Get()
}

func (t *Token) BalanceOf(account cosmic.Address) (*big.Int, error) {
	return t.balances.Get(account.Bytes())
}

func (t *Token) Allowance(owner, spender cosmic.Address) (*big.Int, error) {
	return t.allowances.Get(allowanceKey(owner, spender))
}

// Transfer moves amount from the caller to to.
func (t *Token) Transfer(env *xenv.Environment, to cosmic.Address, amount *big.Int) error {
	return t.move(env, env.Caller(), to, amount)
}

// TransferFrom moves amount from from to to, spending the caller's allowance unless the caller is from.
func (t *Token) TransferFrom(env *xenv.Environment, from, to cosmic.Address, amount *big.Int) error {
	spender := env.Caller()
	if spender != from {
		allowance, err := t.Allowance(from, spender)
		if err != nil {
			return err
		}
		if allowance.Cmp(amount) < 0 {
			return reverts.New(reverts.InsufficientAllowance, "", spender, allowance, amount)
		}
		if err := t.allowances.Set(allowanceKey(from, spender), allowance.Sub(allowance, amount)); err != nil {
			return err
		}
	}
	return t.move(env, from, to, amount)
}

// Approve sets the allowance of spender over the caller's tokens.
func (t *Token) Approve(env *xenv.Environment, spender cosmic.Address, amount *big.Int) error {
	if spender.IsZero() {
		return reverts.New(reverts.ZeroAddress, "The provided address is zero.")
	}
	owner := env.Caller()
	if err := t.allowances.Set(allowanceKey(owner, spender), new(big.Int).Set(amount)); err != nil {
		return err
	}
	env.Log(approvalEvent, owner, spender, amount)
	return nil
}

// Mint creates amount tokens for account.
func (t *Token) Mint(env *xenv.Environment, account cosmic.Address, amount *big.Int) error {
	if err := t.onlyMinter(env); err != nil {
		return err
	}
	return t.mint(env, account, amount)
}

// MintMany mints each MintSpec in order.
func (t *Token) MintMany(env *xenv.Environment, specs []MintSpec) error {
	if err := t.onlyMinter(env); err != nil {
		return err
	}
	for _, s := range specs {
		if err := t.mint(env, s.Account, s.Amount); err != nil {
			return err
		}
	}
	return nil
}

// Burn destroys amount tokens of account.
func (t *Token) Burn(env *xenv.Environment, account cosmic.Address, amount *big.Int) error {
	if err := t.onlyMinter(env); err != nil {
		return err
	}
	bal, err := t.BalanceOf(account)
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return reverts.New(reverts.InsufficientBalance, "Insufficient CST balance.", account, bal, amount)
	}
	if err := t.balances.Set(account.Bytes(), bal.Sub(bal, amount)); err != nil {
		return err
	}
	if err := t.totalSupply.Sub(amount); err != nil {
		return err
	}
	env.Log(transferEvent, account, cosmic.Address{}, amount)
	return t.afterUpdate(env, account, cosmic.Address{}, amount)
}

func (t *Token) onlyMinter(env *xenv.Environment) error {
	minter, err := t.minter.Get()
	if err != nil {
		return err
	}
	if !minter.IsZero() && env.Caller() != minter {
		return reverts.New(reverts.UnauthorizedCaller, "Only the minter is permitted to call this method.", env.Caller())
	}
	return nil
}

func (t *Token) mint(env *xenv.Environment, account cosmic.Address, amount *big.Int) error {
	if account.IsZero() {
		return reverts.New(reverts.ZeroAddress, "The provided address is zero.")
	}
	bal, err := t.BalanceOf(account)
	if err != nil {
		return err
	}
	if err := t.balances.Set(account.Bytes(), bal.Add(bal, amount)); err != nil {
		return err
	}
	if err := t.totalSupply.Add(amount); err != nil {
		return err
	}
	env.Log(transferEvent, cosmic.Address{}, account, amount)
	return t.afterUpdate(env, cosmic.Address{}, account, amount)
}

func (t *Token) move(env *xenv.Environment, from, to cosmic.Address, amount *big.Int) error {
	if to.IsZero() {
		return reverts.New(reverts.ZeroAddress, "The provided address is zero.")
	}
	if amount.Sign() < 0 {
		return reverts.New(reverts.InsufficientBalance, "Negative amount.", amount)
	}
	fromBal, err := t.BalanceOf(from)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return reverts.New(reverts.InsufficientBalance, "", from, fromBal, amount)
	}
	if err := t.balances.Set(from.Bytes(), fromBal.Sub(fromBal, amount)); err != nil {
		return err
	}
	toBal, err := t.BalanceOf(to)
	if err != nil {
		return err
	}
	if err := t.balances.Set(to.Bytes(), toBal.Add(toBal, amount)); err != nil {
		return err
	}
	env.Log(transferEvent, from, to, amount)
	return t.afterUpdate(env, from, to, amount)
}

func allowanceKey(owner, spender cosmic.Address) solidity.BytesKey {
	return solidity.CompositeKey(solidity.BytesKey(owner.Bytes()), solidity.BytesKey(spender.Bytes()))
}
