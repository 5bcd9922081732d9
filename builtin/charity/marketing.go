// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package charity

import (
	"math/big"

	"github.com/cosmicsignature/engine/abi"
	"github.com/cosmicsignature/engine/builtin/access"
	"github.com/cosmicsignature/engine/builtin/gen"
	"github.com/cosmicsignature/engine/builtin/reverts"
	"github.com/cosmicsignature/engine/builtin/solidity"
	"github.com/cosmicsignature/engine/builtin/token"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/state"
	"github.com/cosmicsignature/engine/xenv"
)

var (
	MarketingWalletABI = abi.MustNew(gen.MustAsset("compiled/MarketingWallet.abi"))

	rewardPaidEvent = MarketingWalletABI.MustEventByName("RewardPaid")
)

// MarketingWallet holds CST paid to marketers.
type MarketingWallet struct {
	addr    cosmic.Address
	token   *token.Token
	ownable *access.Ownable
}

func NewMarketingWallet(addr cosmic.Address, state *state.State, tokenAddr cosmic.Address) *MarketingWallet {
	ctx := solidity.NewContext(addr, state)
	return &MarketingWallet{
		addr:    addr,
		token:   token.New(tokenAddr, state),
		ownable: access.NewOwnable(ctx, MarketingWalletABI.MustEventByName("OwnershipTransferred")),
	}
}

func (m *MarketingWallet) Address() cosmic.Address  { return m.addr }
func (m *MarketingWallet) Ownable() *access.Ownable { return m.ownable }

// PayReward transfers amount CST to marketer.
func (m *MarketingWallet) PayReward(env *xenv.Environment, marketer cosmic.Address, amount *big.Int) error {
	if err := m.ownable.OnlyOwner(env); err != nil {
		return err
	}
	return m.payReward(env, marketer, amount)
}

// PayManyRewards pays the same amount to every marketer.
func (m *MarketingWallet) PayManyRewards(env *xenv.Environment, marketers []cosmic.Address, amount *big.Int) error {
	if err := m.ownable.OnlyOwner(env); err != nil {
		return err
	}
	for _, marketer := range marketers {
		if err := m.payReward(env, marketer, amount); err != nil {
			return err
		}
	}
	return nil
}

func (m *MarketingWallet) payReward(env *xenv.Environment, marketer cosmic.Address, amount *big.Int) error {
	if marketer.IsZero() {
		return reverts.New(reverts.ZeroAddress, "The provided address is zero.")
	}
	if err := env.Call(m.token.Address(), nil, func(env *xenv.Environment) error {
		return m.token.Transfer(env, marketer, amount)
	}); err != nil {
		return err
	}
	env.Log(rewardPaidEvent, marketer, amount)
	return nil
}
