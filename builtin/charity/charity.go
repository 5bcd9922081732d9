// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package charity implements the charity and marketing wallets.
package charity

import (
	"github.com/cosmicsignature/engine/abi"
	"github.com/cosmicsignature/engine/builtin/access"
	"github.com/cosmicsignature/engine/builtin/gen"
	"github.com/cosmicsignature/engine/builtin/reverts"
	"github.com/cosmicsignature/engine/builtin/solidity"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/log"
	"github.com/cosmicsignature/engine/state"
	"github.com/cosmicsignature/engine/xenv"
)

var logger = log.WithContext("pkg", "charity")

var (
	CharityWalletABI = abi.MustNew(gen.MustAsset("compiled/CharityWallet.abi"))

	donationReceivedEvent          = CharityWalletABI.MustEventByName("DonationReceived")
	charityAddressChangedEvent     = CharityWalletABI.MustEventByName("CharityAddressChanged")
	fundTransferFailedEvent        = CharityWalletABI.MustEventByName("FundTransferFailed")
	fundsTransferredToCharityEvent = CharityWalletABI.MustEventByName("FundsTransferredToCharity")
)

var charityAddressSlot = solidity.Slot("charity.charityAddress")

// Wallet collects ETH and forwards it to the charity.
type Wallet struct {
	addr           cosmic.Address
	ownable        *access.Ownable
	guard          *access.ReentrancyGuard
	charityAddress *solidity.Address
}

func NewWallet(addr cosmic.Address, state *state.State) *Wallet {
	ctx := solidity.NewContext(addr, state)
	return &Wallet{
		addr:           addr,
		ownable:        access.NewOwnable(ctx, CharityWalletABI.MustEventByName("OwnershipTransferred")),
		guard:          access.NewReentrancyGuard(ctx),
		charityAddress: solidity.NewAddress(ctx, charityAddressSlot),
	}
}

func (w *Wallet) Address() cosmic.Address  { return w.addr }
func (w *Wallet) Ownable() *access.Ownable { return w.ownable }

func (w *Wallet) CharityAddress() (cosmic.Address, error) {
	return w.charityAddress.Get()
}

// Receive runs when the wallet is paid.
func (w *Wallet) Receive(env *xenv.Environment) error {
	env.Log(donationReceivedEvent, env.Caller(), env.Value())
	return nil
}

func (w *Wallet) SetCharityAddress(env *xenv.Environment, addr cosmic.Address) error {
	if err := w.ownable.OnlyOwner(env); err != nil {
		return err
	}
	if addr.IsZero() {
		return reverts.New(reverts.ZeroAddress, "The provided address is zero.")
	}
	w.charityAddress.Set(addr)
	env.Log(charityAddressChangedEvent, addr)
	return nil
}

// Send forwards the whole balance to the charity. Anyone may call it.
// A failed transfer is reported by event and the funds stay.
func (w *Wallet) Send(env *xenv.Environment) error {
	return w.guard.NonReentrant(func() error {
		to, err := w.charityAddress.Get()
		if err != nil {
			return err
		}
		if to.IsZero() {
			return reverts.New(reverts.ZeroAddress, "Charity address not set.")
		}
		amount, err := env.Balance(w.addr)
		if err != nil {
			return err
		}
		if amount.Sign() == 0 {
			return nil
		}
		if err := env.Transfer(to, amount); err != nil {
			if !reverts.Is(err, reverts.FundTransferFailed) {
				return err
			}
			logger.Warn("transfer to charity failed", "charity", to, "amount", amount, "err", err)
			env.Log(fundTransferFailedEvent, "Transfer to charity failed.", to, amount)
			return nil
		}
		env.Log(fundsTransferredToCharityEvent, to, amount)
		return nil
	})
}
