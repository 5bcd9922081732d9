// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/pkg/errors"

	"github.com/cosmicsignature/engine/abi"
	"github.com/cosmicsignature/engine/builtin/charity"
	"github.com/cosmicsignature/engine/builtin/dao"
	"github.com/cosmicsignature/engine/builtin/game"
	"github.com/cosmicsignature/engine/builtin/nft"
	"github.com/cosmicsignature/engine/builtin/prizes"
	"github.com/cosmicsignature/engine/builtin/proxy"
	"github.com/cosmicsignature/engine/builtin/staking"
	"github.com/cosmicsignature/engine/builtin/token"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/state"
	"github.com/cosmicsignature/engine/xenv"
)

// Builtin contracts binding.
var (
	Game                      = &gameContract{mustLoadContract("CosmicSignatureGame", "CosmicSignatureGame")}
	Proxy                     = &proxyContract{&contract{"CosmicSignatureGameProxy", Game.Address, mustLoadContract("Proxy", "Proxy").ABI}}
	Token                     = &tokenContract{mustLoadContract("CosmicSignatureToken", "Token")}
	Nft                       = &nftContract{mustLoadContract("CosmicSignatureNft", "Nft")}
	RandomWalkNft             = &nftContract{mustLoadContract("RandomWalkNft", "Nft")}
	StakingCosmicSignatureNft = &stakingContract{mustLoadContract("StakingWalletCosmicSignatureNft", "StakingWalletCosmicSignatureNft"), Nft, true}
	StakingRandomWalkNft      = &stakingContract{mustLoadContract("StakingWalletRandomWalkNft", "StakingWalletRandomWalkNft"), RandomWalkNft, false}
	Prizes                    = &prizesContract{mustLoadContract("PrizesWallet", "PrizesWallet")}
	CharityWallet             = &charityContract{mustLoadContract("CharityWallet", "CharityWallet")}
	MarketingWallet           = &marketingContract{mustLoadContract("MarketingWallet", "MarketingWallet")}
	Dao                       = &daoContract{mustLoadContract("CosmicSignatureDao", "CosmicSignatureDao")}
)

// Releases are the known versions of the game logic.
var Releases = mustNewRegistry(game.V1)

type (
	gameContract      struct{ *contract }
	proxyContract     struct{ *contract }
	tokenContract     struct{ *contract }
	nftContract       struct{ *contract }
	prizesContract    struct{ *contract }
	charityContract   struct{ *contract }
	marketingContract struct{ *contract }
	daoContract       struct{ *contract }
	stakingContract   struct {
		*contract
		nft     *nftContract
		rewards bool
	}
)

func mustNewRegistry(impls ...proxy.Implementation) *proxy.Registry {
	r, err := proxy.NewRegistry(impls...)
	if err != nil {
		panic(err)
	}
	return r
}

// WithState binds the game and every service it drives to state.
func (g *gameContract) WithState(state *state.State) *game.Game {
	return game.New(g.Address, state, game.Deps{
		Token:                     Token.WithState(state),
		Nft:                       Nft.WithState(state),
		RandomWalkNft:             RandomWalkNft.WithState(state),
		StakingCosmicSignatureNft: StakingCosmicSignatureNft.WithState(state),
		StakingRandomWalkNft:      StakingRandomWalkNft.WithState(state),
		Prizes:                    Prizes.WithState(state),
	})
}

// InForce binds the game to the logic of the release the handle points to.
func (g *gameContract) InForce(state *state.State) (*game.Game, error) {
	impl, err := Proxy.WithState(state).Implementation()
	if err != nil {
		return nil, err
	}
	release, ok := impl.(game.Release)
	if !ok {
		return nil, errors.Errorf("implementation version %d is not a game release", impl.Version())
	}
	return release.Bind(g.WithState(state)), nil
}

// WithState binds the upgradeable handle, which shares the game's address and storage.
func (p *proxyContract) WithState(state *state.State) *proxy.Proxy {
	return proxy.New(p.Address, state, Releases)
}

func (t *tokenContract) WithState(state *state.State) *token.Token {
	return token.New(t.Address, state)
}

func (n *nftContract) WithState(state *state.State) *nft.NFT {
	return nft.New(n.Address, state)
}

func (s *stakingContract) WithState(state *state.State) *staking.Ledger {
	return staking.New(s.Address, state, staking.Config{
		Name:    s.name,
		Rewards: s.rewards,
		Nft:     s.nft.Address,
		Game:    Game.Address,
	})
}

func (p *prizesContract) WithState(state *state.State) *prizes.Custodian {
	return prizes.New(p.Address, state, Game.Address)
}

func (c *charityContract) WithState(state *state.State) *charity.Wallet {
	return charity.NewWallet(c.Address, state)
}

func (m *marketingContract) WithState(state *state.State) *charity.MarketingWallet {
	return charity.NewMarketingWallet(m.Address, state, Token.Address)
}

// WithState binds the DAO to the token it counts votes of and the wallets it governs.
func (d *daoContract) WithState(state *state.State) *dao.DAO {
	return dao.New(d.Address, state, dao.Deps{
		Token:           Token.WithState(state),
		CharityWallet:   CharityWallet.WithState(state),
		MarketingWallet: MarketingWallet.WithState(state),
	})
}

// Receivers hooks the contracts that react to plain ETH transfers.
func Receivers(state *state.State) xenv.Receivers {
	return func(addr cosmic.Address) xenv.Receiver {
		switch addr {
		case Game.Address:
			return func(env *xenv.Environment) error {
				g, err := Game.InForce(state)
				if err != nil {
					return err
				}
				return g.Receive(env)
			}
		case CharityWallet.Address:
			return CharityWallet.WithState(state).Receive
		}
		return nil
	}
}

// Contracts lists every bound contract. The proxy shares the game's address and is listed after it.
func Contracts() []*contract {
	return []*contract{
		Game.contract,
		Proxy.contract,
		Token.contract,
		Nft.contract,
		RandomWalkNft.contract,
		StakingCosmicSignatureNft.contract,
		StakingRandomWalkNft.contract,
		Prizes.contract,
		CharityWallet.contract,
		MarketingWallet.contract,
		Dao.contract,
	}
}

// EventByID resolves a log emitted by addr to its event and the name of the emitting contract.
func EventByID(addr cosmic.Address, id cosmic.Bytes32) (*abi.Event, string, bool) {
	for _, c := range Contracts() {
		if c.Address != addr {
			continue
		}
		if ev, ok := c.ABI.EventByID(id); ok {
			return ev, c.name, true
		}
	}
	return nil, "", false
}
