// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis builds the initial state of the game ledger.
package genesis

import (
	"math"
	"math/big"

	"github.com/pkg/errors"

	"github.com/cosmicsignature/engine/block"
	"github.com/cosmicsignature/engine/builtin"
	"github.com/cosmicsignature/engine/builtin/game"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/state"
	"github.com/cosmicsignature/engine/xenv"
)

// Genesis to build genesis block.
type Genesis struct {
	builder *Builder
	id      cosmic.Bytes32
	config  *Config
}

// Build build the genesis block.
func (g *Genesis) Build() (*block.Header, *state.Stage, error) {
	header, stage, err := g.builder.Build()
	if err != nil {
		return nil, nil, err
	}
	if header.ID() != g.id {
		panic("built genesis ID incorrect")
	}
	return header, stage, nil
}

// ID returns genesis block ID.
func (g *Genesis) ID() cosmic.Bytes32 {
	return g.id
}

// Config returns the document the genesis was built from.
func (g *Genesis) Config() *Config {
	return g.config
}

// New creates the genesis of cfg.
//
// Every builtin contract is owned by cfg.Owner. The game mints CST and Cosmic Signature NFTs,
// Random Walk NFTs are open to mint. The first round activates RoundActivationDelay seconds after launch.
func New(cfg *Config) (*Genesis, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	owner := cfg.Owner
	launch := cfg.LaunchTime

	builder := new(Builder).
		Timestamp(launch).
		State(func(state *state.State) error {
			for _, acc := range cfg.Accounts {
				bal, err := state.GetBalance(acc.Address)
				if err != nil {
					return err
				}
				if err := state.SetBalance(acc.Address, new(big.Int).Add(bal, acc.Balance.Int)); err != nil {
					return err
				}
			}
			return nil
		}).
		State(func(state *state.State) error {
			builtin.Token.WithState(state).SetMinter(builtin.Game.Address)
			builtin.Nft.WithState(state).SetMinter(builtin.Game.Address)

			builtin.Prizes.WithState(state).Init(owner)
			builtin.StakingCosmicSignatureNft.WithState(state).Ownable().Init(owner)
			builtin.StakingRandomWalkNft.WithState(state).Ownable().Init(owner)
			builtin.CharityWallet.WithState(state).Ownable().Init(owner)
			builtin.MarketingWallet.WithState(state).Ownable().Init(owner)
			builtin.Nft.WithState(state).Ownable().Init(owner)
			builtin.RandomWalkNft.WithState(state).Ownable().Init(owner)
			builtin.Dao.WithState(state).Init()

			if err := builtin.Proxy.WithState(state).Init(owner, game.V1.Version()); err != nil {
				return err
			}
			// inactive until the owner has configured it
			return builtin.Game.WithState(state).Init(owner, math.MaxUint64, builtin.CharityWallet.Address, builtin.MarketingWallet.Address)
		}).
		Call(owner, builtin.CharityWallet.Address, "setCharityAddress", func(state *state.State, env *xenv.Environment) error {
			return builtin.CharityWallet.WithState(state).SetCharityAddress(env, cfg.Charity)
		})

	for _, p := range game.Params() {
		v, ok := cfg.Params[string(p)]
		if !ok {
			continue
		}
		builder.Call(owner, builtin.Game.Address, "set"+string(p), func(state *state.State, env *xenv.Environment) error {
			return builtin.Game.WithState(state).SetParam(env, p, v.Int)
		})
	}

	activation := launch + cfg.RoundActivationDelay
	if activation < launch {
		return nil, errors.New("round activation time overflow")
	}
	builder.Call(owner, builtin.Game.Address, "setRoundActivationTime", func(state *state.State, env *xenv.Environment) error {
		return builtin.Game.WithState(state).SetRoundActivationTime(env, activation)
	})

	id, err := builder.ComputeID()
	if err != nil {
		return nil, err
	}
	return &Genesis{builder, id, cfg}, nil
}
